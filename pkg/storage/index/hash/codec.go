package hash

import (
	"encoding/binary"
)

// Codec (de)serializes one fixed-width key or value into a block-page
// slot. Slot width is Size() bytes for every instance of the type.
type Codec[T any] interface {
	// Size returns the encoded width in bytes.
	Size() int

	// Encode writes v into buf, which is at least Size() bytes long.
	Encode(buf []byte, v T)

	// Decode reads a value back out of buf.
	Decode(buf []byte) T
}

// Int64Codec encodes int64 keys or values as 8 little-endian bytes.
type Int64Codec struct{}

func (Int64Codec) Size() int { return 8 }

func (Int64Codec) Encode(buf []byte, v int64) {
	binary.LittleEndian.PutUint64(buf, uint64(v))
}

func (Int64Codec) Decode(buf []byte) int64 {
	return int64(binary.LittleEndian.Uint64(buf))
}

// BytesCodec encodes byte-slice keys at a fixed width. Shorter keys are
// zero-padded; longer ones are truncated. The usual widths are 4, 8, 16,
// 32, and 64 bytes.
type BytesCodec struct {
	Width int
}

func (c BytesCodec) Size() int { return c.Width }

func (c BytesCodec) Encode(buf []byte, v []byte) {
	n := copy(buf[:c.Width], v)
	for i := n; i < c.Width; i++ {
		buf[i] = 0
	}
}

func (c BytesCodec) Decode(buf []byte) []byte {
	out := make([]byte, c.Width)
	copy(out, buf[:c.Width])
	return out
}
