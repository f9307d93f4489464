package hash

import (
	"bytes"
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
)

// Comparator defines a total order on keys. The hash table only relies on
// the equality case (a result of zero).
type Comparator[K any] func(a, b K) int

// Int64Comparator orders int64 keys numerically.
func Int64Comparator(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// BytesComparator orders byte-slice keys lexicographically.
func BytesComparator(a, b []byte) int {
	return bytes.Compare(a, b)
}

// HashFunc maps a key to the 64-bit hash that picks its bucket and first
// probe slot.
type HashFunc[K any] func(K) uint64

// Int64Hash hashes an int64 key with xxHash over its little-endian bytes.
func Int64Hash(k int64) uint64 {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(k))
	return xxhash.Sum64(buf[:])
}

// BytesHash hashes a byte-slice key with xxHash.
func BytesHash(k []byte) uint64 {
	return xxhash.Sum64(k)
}
