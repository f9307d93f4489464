package hash

import (
	"pagestore/pkg/storage/page"
)

// Block page layout, three fields packed into one page:
//
//	occupied [ceil(N/8)]byte  bit per slot, set on first insert, never cleared
//	readable [ceil(N/8)]byte  bit per slot, set on insert, cleared on remove
//	array    [N]slot          fixed (key, value) pairs
//
// A slot is empty-never-used when occupied=0, a tombstone when occupied=1
// and readable=0, and live when both bits are set. Tombstones keep probe
// chains intact after removals.

// blockCapacity returns the largest slot count N whose bitmaps and array
// fit in one page for the given slot width.
func blockCapacity(slotSize int) int {
	n := 4 * page.PageSize / (4*slotSize + 1)
	for n > 0 && 2*((n+7)/8)+n*slotSize > page.PageSize {
		n--
	}
	return n
}

// blockPage is a typed view over the raw bytes of one bucket block.
// Mutations go straight into the frame buffer; the caller owns the pin and
// the dirty flag.
type blockPage[K any, V comparable] struct {
	data      []byte
	keys      Codec[K]
	vals      Codec[V]
	capacity  int
	bitmapLen int
	slotSize  int
}

func blockView[K any, V comparable](p *page.Page, keys Codec[K], vals Codec[V]) blockPage[K, V] {
	slotSize := keys.Size() + vals.Size()
	capacity := blockCapacity(slotSize)
	return blockPage[K, V]{
		data:      p.Data()[:],
		keys:      keys,
		vals:      vals,
		capacity:  capacity,
		bitmapLen: (capacity + 7) / 8,
		slotSize:  slotSize,
	}
}

// Capacity returns the number of slots in the block.
func (b blockPage[K, V]) Capacity() int {
	return b.capacity
}

// IsOccupied reports whether the slot has ever held an entry.
func (b blockPage[K, V]) IsOccupied(slot int) bool {
	if slot < 0 || slot >= b.capacity {
		return false
	}
	return b.data[slot/8]&(1<<(slot%8)) != 0
}

// IsReadable reports whether the slot holds a live entry.
func (b blockPage[K, V]) IsReadable(slot int) bool {
	if slot < 0 || slot >= b.capacity {
		return false
	}
	return b.data[b.bitmapLen+slot/8]&(1<<(slot%8)) != 0
}

// KeyAt returns the key stored in the slot.
func (b blockPage[K, V]) KeyAt(slot int) K {
	return b.keys.Decode(b.data[b.slotOffset(slot):])
}

// ValueAt returns the value stored in the slot.
func (b blockPage[K, V]) ValueAt(slot int) V {
	return b.vals.Decode(b.data[b.slotOffset(slot)+b.keys.Size():])
}

// Insert writes the pair into the slot and marks it occupied and readable.
// Returns false without writing when the slot was ever used before;
// tombstoned slots are not reused.
func (b blockPage[K, V]) Insert(slot int, key K, value V) bool {
	if b.IsOccupied(slot) {
		return false
	}

	b.data[slot/8] |= 1 << (slot % 8)
	b.data[b.bitmapLen+slot/8] |= 1 << (slot % 8)

	off := b.slotOffset(slot)
	b.keys.Encode(b.data[off:], key)
	b.vals.Encode(b.data[off+b.keys.Size():], value)
	return true
}

// Remove tombstones the slot: the readable bit drops, the occupied bit
// stays so probes continue past it.
func (b blockPage[K, V]) Remove(slot int) {
	if slot < 0 || slot >= b.capacity {
		return
	}
	b.data[b.bitmapLen+slot/8] &^= 1 << (slot % 8)
}

func (b blockPage[K, V]) slotOffset(slot int) int {
	return 2*b.bitmapLen + slot*b.slotSize
}
