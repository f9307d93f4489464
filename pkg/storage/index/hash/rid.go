package hash

import (
	"encoding/binary"
	"fmt"

	"pagestore/pkg/primitives"
)

// RID locates a record: the page that holds it and the slot within that
// page. It is the canonical value type stored in the index.
type RID struct {
	PageID primitives.PageID
	Slot   uint32
}

func (r RID) String() string {
	return fmt.Sprintf("RID(%d, %d)", int32(r.PageID), r.Slot)
}

// RIDCodec encodes a RID as page id and slot number, 4 little-endian bytes
// each.
type RIDCodec struct{}

func (RIDCodec) Size() int { return 8 }

func (RIDCodec) Encode(buf []byte, v RID) {
	binary.LittleEndian.PutUint32(buf[0:4], uint32(v.PageID))
	binary.LittleEndian.PutUint32(buf[4:8], v.Slot)
}

func (RIDCodec) Decode(buf []byte) RID {
	return RID{
		PageID: primitives.PageID(binary.LittleEndian.Uint32(buf[0:4])),
		Slot:   binary.LittleEndian.Uint32(buf[4:8]),
	}
}
