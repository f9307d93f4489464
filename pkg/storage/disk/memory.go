package disk

import (
	"sync"

	"pagestore/pkg/primitives"
	"pagestore/pkg/storage/page"
)

// MemoryDiskManager keeps pages in a map. It exists for tests: besides
// behaving like a disk, it records the order in which pages were written so
// eviction and durability scenarios can assert on it.
type MemoryDiskManager struct {
	mu         sync.Mutex
	pages      map[primitives.PageID][]byte
	writeOrder []primitives.PageID
	nextPageID primitives.PageID
	freed      map[primitives.PageID]struct{}
}

// NewMemoryDiskManager returns an empty in-memory store.
func NewMemoryDiskManager() *MemoryDiskManager {
	return &MemoryDiskManager{
		pages: make(map[primitives.PageID][]byte),
		freed: make(map[primitives.PageID]struct{}),
	}
}

// ReadPage copies the stored contents into buf, zero-filling pages that
// were never written.
func (d *MemoryDiskManager) ReadPage(id primitives.PageID, buf []byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	stored, ok := d.pages[id]
	if !ok {
		for i := range buf[:page.PageSize] {
			buf[i] = 0
		}
		return nil
	}
	copy(buf[:page.PageSize], stored)
	return nil
}

// WritePage stores a copy of buf and appends the id to the write journal.
func (d *MemoryDiskManager) WritePage(id primitives.PageID, buf []byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	stored := make([]byte, page.PageSize)
	copy(stored, buf[:page.PageSize])
	d.pages[id] = stored
	d.writeOrder = append(d.writeOrder, id)
	return nil
}

// AllocatePage hands out the next page id.
func (d *MemoryDiskManager) AllocatePage() primitives.PageID {
	d.mu.Lock()
	defer d.mu.Unlock()

	id := d.nextPageID
	d.nextPageID++
	return id
}

// DeallocatePage marks the id as free and drops its contents.
func (d *MemoryDiskManager) DeallocatePage(id primitives.PageID) {
	d.mu.Lock()
	defer d.mu.Unlock()

	delete(d.pages, id)
	d.freed[id] = struct{}{}
}

// IsDeallocated reports whether the id was released via DeallocatePage.
func (d *MemoryDiskManager) IsDeallocated(id primitives.PageID) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	_, ok := d.freed[id]
	return ok
}

// Writes returns the page ids in the order WritePage was called.
func (d *MemoryDiskManager) Writes() []primitives.PageID {
	d.mu.Lock()
	defer d.mu.Unlock()

	out := make([]primitives.PageID, len(d.writeOrder))
	copy(out, d.writeOrder)
	return out
}

// Close is a no-op.
func (d *MemoryDiskManager) Close() error {
	return nil
}
