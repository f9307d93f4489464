// Package hash implements a persistent linear-probing hash index on top of
// the buffer pool. A header page records the bucket count and the page ids
// of bucket blocks; each bucket is one block page of fixed-width (key,
// value) slots guarded by occupied/readable bitmaps.
package hash

import (
	"sync"

	"github.com/pkg/errors"

	"pagestore/pkg/concurrency/transaction"
	"pagestore/pkg/logging"
	"pagestore/pkg/memory"
	"pagestore/pkg/primitives"
)

// LinearProbeHashTable is a bucket-array hash index whose slots and
// metadata live in buffer-pool pages. The hash of a key picks both the
// bucket block and the first slot probed inside it; probing moves forward
// within the block only and never spills into the next bucket, so an
// insert into a full block fails.
//
// Failures surface as false or empty results; none are fatal.
type LinearProbeHashTable[K any, V comparable] struct {
	name         string
	bpm          *memory.BufferPoolManager
	cmp          Comparator[K]
	hash         HashFunc[K]
	keys         Codec[K]
	vals         Codec[V]
	blockCap     int
	headerPageID primitives.PageID

	// tableLatch protects structural stability of the table (header and
	// block assignment). All operations take it in shared mode; per-slot
	// bit semantics keep concurrent in-block readers consistent.
	tableLatch sync.RWMutex
}

// NewLinearProbeHashTable creates a table with numBuckets buckets,
// allocating and formatting its header page through the buffer pool.
// Bucket blocks are allocated lazily on first insert.
func NewLinearProbeHashTable[K any, V comparable](
	name string,
	bpm *memory.BufferPoolManager,
	cmp Comparator[K],
	numBuckets int,
	hashFn HashFunc[K],
	keys Codec[K],
	vals Codec[V],
) (*LinearProbeHashTable[K, V], error) {
	if numBuckets <= 0 {
		return nil, errors.Errorf("hash: bucket count must be positive, got %d", numBuckets)
	}
	if numBuckets > maxBlocks {
		return nil, errors.Errorf("hash: bucket count %d exceeds header capacity %d", numBuckets, maxBlocks)
	}

	hp, err := bpm.NewPage()
	if err != nil {
		return nil, errors.Wrap(err, "allocating hash table header")
	}

	header := headerView(hp)
	header.SetSize(uint32(numBuckets))
	header.SetPageID(hp.ID())

	t := &LinearProbeHashTable[K, V]{
		name:         name,
		bpm:          bpm,
		cmp:          cmp,
		hash:         hashFn,
		keys:         keys,
		vals:         vals,
		blockCap:     blockCapacity(keys.Size() + vals.Size()),
		headerPageID: hp.ID(),
	}

	if err := bpm.UnpinPage(t.headerPageID, true); err != nil {
		return nil, errors.Wrap(err, "unpinning hash table header")
	}
	return t, nil
}

// HeaderPageID returns the page id of the table's header page.
func (t *LinearProbeHashTable[K, V]) HeaderPageID() primitives.PageID {
	return t.headerPageID
}

// canonKey runs the key through its codec so that probes compare against
// exactly what a slot would store. For fixed-width byte keys this pads or
// truncates; integer keys round-trip unchanged.
func (t *LinearProbeHashTable[K, V]) canonKey(key K) K {
	buf := make([]byte, t.keys.Size())
	t.keys.Encode(buf, key)
	return t.keys.Decode(buf)
}

// GetValue collects every value stored under the key, in slot order.
// A key whose bucket block was never allocated yields an empty result.
func (t *LinearProbeHashTable[K, V]) GetValue(txn *transaction.Transaction, key K) []V {
	hp, err := t.bpm.FetchPage(t.headerPageID)
	if err != nil {
		return nil
	}
	header := headerView(hp)

	key = t.canonKey(key)
	h := t.hash(key)
	idx := int(h % uint64(header.Size()))
	offset := int(h % uint64(t.blockCap))

	t.tableLatch.RLock()
	var result []V
	if idx < header.NumBlocks() {
		blockID := header.BlockPageID(idx)
		if bp, err := t.bpm.FetchPage(blockID); err == nil {
			block := blockView(bp, t.keys, t.vals)
			for slot := offset; slot < t.blockCap; slot++ {
				if block.IsReadable(slot) && t.cmp(block.KeyAt(slot), key) == 0 {
					result = append(result, block.ValueAt(slot))
				}
			}
			t.bpm.UnpinPage(blockID, false)
		}
	}
	t.tableLatch.RUnlock()

	t.bpm.UnpinPage(t.headerPageID, false)
	return result
}

// Insert stores the pair in the key's bucket, allocating bucket blocks up
// through that index on first use. The probe starts at the hash-derived
// slot and takes the first never-used slot; it stops early when it sees an
// identical live pair already in place. Returns false when the block has
// no room left or the pair was already present.
func (t *LinearProbeHashTable[K, V]) Insert(txn *transaction.Transaction, key K, value V) bool {
	hp, err := t.bpm.FetchPage(t.headerPageID)
	if err != nil {
		return false
	}
	header := headerView(hp)

	key = t.canonKey(key)
	h := t.hash(key)
	idx := int(h % uint64(header.Size()))
	offset := int(h % uint64(t.blockCap))

	// Grow the block list until it covers the target bucket. Fresh blocks
	// are all zeroes, which is exactly an empty block.
	for header.NumBlocks() <= idx {
		bp, err := t.bpm.NewPage()
		if err != nil {
			logging.WithIndex(t.name).Error("allocating bucket block", "bucket", header.NumBlocks(), "error", err)
			t.bpm.UnpinPage(t.headerPageID, true)
			return false
		}
		header.AddBlockPageID(bp.ID())
		t.bpm.UnpinPage(bp.ID(), false)
	}

	blockID := header.BlockPageID(idx)

	t.tableLatch.RLock()
	bp, err := t.bpm.FetchPage(blockID)
	if err != nil {
		t.tableLatch.RUnlock()
		t.bpm.UnpinPage(t.headerPageID, true)
		return false
	}

	block := blockView(bp, t.keys, t.vals)
	inserted := false
	for slot := offset; slot < t.blockCap; slot++ {
		inserted = block.Insert(slot, key, value)
		if block.IsReadable(slot) && t.cmp(block.KeyAt(slot), key) == 0 && block.ValueAt(slot) == value {
			// The exact pair is already live here (or was just written);
			// the probe goes no further.
			break
		}
		if inserted {
			break
		}
	}
	t.tableLatch.RUnlock()

	t.bpm.UnpinPage(blockID, true)
	t.bpm.UnpinPage(t.headerPageID, true)
	return inserted
}

// Remove tombstones the first live slot holding exactly the given pair:
// the readable bit drops, the occupied bit stays so longer probe chains
// survive. Returns false when the pair is not present.
func (t *LinearProbeHashTable[K, V]) Remove(txn *transaction.Transaction, key K, value V) bool {
	hp, err := t.bpm.FetchPage(t.headerPageID)
	if err != nil {
		return false
	}
	header := headerView(hp)

	key = t.canonKey(key)
	h := t.hash(key)
	idx := int(h % uint64(header.Size()))
	offset := int(h % uint64(t.blockCap))

	if idx >= header.NumBlocks() {
		t.bpm.UnpinPage(t.headerPageID, false)
		return false
	}
	blockID := header.BlockPageID(idx)

	t.tableLatch.RLock()
	bp, err := t.bpm.FetchPage(blockID)
	if err != nil {
		t.tableLatch.RUnlock()
		t.bpm.UnpinPage(t.headerPageID, false)
		return false
	}

	block := blockView(bp, t.keys, t.vals)
	removed := false
	for slot := offset; slot < t.blockCap; slot++ {
		if block.IsReadable(slot) && t.cmp(block.KeyAt(slot), key) == 0 && block.ValueAt(slot) == value {
			block.Remove(slot)
			removed = true
			break
		}
	}
	t.tableLatch.RUnlock()

	t.bpm.UnpinPage(blockID, true)
	t.bpm.UnpinPage(t.headerPageID, false)
	return removed
}

// GetSize returns the number of bucket blocks allocated so far, not the
// number of live entries.
func (t *LinearProbeHashTable[K, V]) GetSize() int {
	hp, err := t.bpm.FetchPage(t.headerPageID)
	if err != nil {
		return 0
	}
	n := headerView(hp).NumBlocks()
	t.bpm.UnpinPage(t.headerPageID, false)
	return n
}

// Resize is a no-op: the table does not rehash. The bucket count is fixed
// at construction.
func (t *LinearProbeHashTable[K, V]) Resize(initialSize int) {}
