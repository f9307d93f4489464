// Package memory manages the bounded set of in-memory frames that cache
// disk pages: fetching, pinning, eviction via the clock policy, and
// write-back of dirty pages.
package memory

import (
	"sync"

	"github.com/pkg/errors"

	"pagestore/pkg/log/wal"
	"pagestore/pkg/logging"
	"pagestore/pkg/primitives"
	"pagestore/pkg/storage/disk"
	"pagestore/pkg/storage/page"
)

var (
	// ErrNoFreeFrame is returned when every frame is pinned and nothing
	// can be evicted.
	ErrNoFreeFrame = errors.New("memory: all frames are pinned")

	// ErrNotPinned is returned when unpinning a page whose pin count is
	// already zero.
	ErrNotPinned = errors.New("memory: page is not pinned")

	// ErrPagePinned is returned when deleting a page that still has
	// borrowers.
	ErrPagePinned = errors.New("memory: page is pinned")

	// ErrPageNotResident is returned when flushing a page that is not in
	// the pool.
	ErrPageNotResident = errors.New("memory: page is not resident")
)

// BufferPoolManager maps page ids to a bounded array of frames. Pages are
// materialized into a frame on demand, mutated in place under a pin, and
// written back when evicted dirty or explicitly flushed.
//
// Three mutexes guard the pool: flMu for the free list, pgMu for the frame
// array, ptMu for the page table. Every operation acquires the subset it
// needs in the fixed order flMu, pgMu, ptMu.
//
// When a write-ahead log is attached, the log is forced before any dirty
// page goes to disk.
type BufferPoolManager struct {
	poolSize    int
	diskManager disk.DiskManager
	logManager  *wal.LogManager
	replacer    *ClockReplacer

	flMu     sync.Mutex
	freeList []primitives.FrameID

	pgMu   sync.Mutex
	frames []*page.Page

	ptMu      sync.Mutex
	pageTable map[primitives.PageID]primitives.FrameID
}

// NewBufferPoolManager creates a pool with poolSize frames over the given
// disk manager. logManager may be nil; without one no log is forced.
func NewBufferPoolManager(poolSize int, dm disk.DiskManager, lm *wal.LogManager) *BufferPoolManager {
	bpm := &BufferPoolManager{
		poolSize:    poolSize,
		diskManager: dm,
		logManager:  lm,
		replacer:    NewClockReplacer(poolSize),
		freeList:    make([]primitives.FrameID, 0, poolSize),
		frames:      make([]*page.Page, poolSize),
		pageTable:   make(map[primitives.PageID]primitives.FrameID, poolSize),
	}

	// Initially every frame is free.
	for i := 0; i < poolSize; i++ {
		bpm.frames[i] = page.New()
		bpm.freeList = append(bpm.freeList, primitives.FrameID(i))
	}

	return bpm
}

// FetchPage returns the frame holding the page, reading it from disk if it
// is not resident. The returned page is pinned; the caller must balance
// with exactly one UnpinPage. Returns ErrNoFreeFrame when the page is not
// resident and every frame is pinned.
func (bpm *BufferPoolManager) FetchPage(id primitives.PageID) (*page.Page, error) {
	bpm.flMu.Lock()
	bpm.pgMu.Lock()
	bpm.ptMu.Lock()
	defer bpm.ptMu.Unlock()
	defer bpm.pgMu.Unlock()
	defer bpm.flMu.Unlock()

	// Resident: pin and return without disk I/O.
	if fid, ok := bpm.pageTable[id]; ok {
		frame := bpm.frames[fid]
		bpm.replacer.Pin(fid)
		frame.IncPin()
		return frame, nil
	}

	fid, err := bpm.victimFrame()
	if err != nil {
		return nil, err
	}

	frame := bpm.frames[fid]
	frame.SetID(id)
	frame.SetPinCount(1)
	frame.SetDirty(false)
	bpm.pageTable[id] = fid
	bpm.replacer.Pin(fid)

	if err := bpm.diskManager.ReadPage(id, frame.Data()[:]); err != nil {
		return nil, errors.Wrap(err, "fetching page")
	}
	return frame, nil
}

// UnpinPage releases one borrow of the page, recording whether the caller
// modified it. Unpinning a page that is not resident succeeds trivially;
// unpinning past a zero pin count returns ErrNotPinned.
func (bpm *BufferPoolManager) UnpinPage(id primitives.PageID, isDirty bool) error {
	bpm.pgMu.Lock()
	bpm.ptMu.Lock()
	defer bpm.ptMu.Unlock()
	defer bpm.pgMu.Unlock()

	fid, ok := bpm.pageTable[id]
	if !ok {
		return nil
	}

	frame := bpm.frames[fid]
	if frame.PinCount() <= 0 {
		logging.Error("unpin with zero pin count", "page_id", int32(id))
		return ErrNotPinned
	}

	frame.DecPin()
	if isDirty {
		frame.SetDirty(true)
	}
	if frame.PinCount() == 0 {
		bpm.replacer.Unpin(fid)
	}
	return nil
}

// FlushPage writes the page to disk if it is dirty. The page stays
// resident. Returns ErrPageNotResident when the page is not in the pool.
func (bpm *BufferPoolManager) FlushPage(id primitives.PageID) error {
	bpm.pgMu.Lock()
	bpm.ptMu.Lock()
	defer bpm.ptMu.Unlock()
	defer bpm.pgMu.Unlock()

	fid, ok := bpm.pageTable[id]
	if !ok {
		logging.Error("flush of non-resident page", "page_id", int32(id))
		return ErrPageNotResident
	}

	frame := bpm.frames[fid]
	if !frame.IsDirty() {
		return nil
	}
	return bpm.writeBack(frame)
}

// NewPage allocates a fresh page on disk and returns it in a pinned,
// zeroed frame. Returns ErrNoFreeFrame when every frame is pinned.
func (bpm *BufferPoolManager) NewPage() (*page.Page, error) {
	bpm.flMu.Lock()
	bpm.pgMu.Lock()
	bpm.ptMu.Lock()
	defer bpm.ptMu.Unlock()
	defer bpm.pgMu.Unlock()
	defer bpm.flMu.Unlock()

	fid, err := bpm.victimFrame()
	if err != nil {
		return nil, err
	}

	id := bpm.diskManager.AllocatePage()
	frame := bpm.frames[fid]
	frame.ResetData()
	frame.SetID(id)
	frame.SetPinCount(1)
	frame.SetDirty(false)
	bpm.pageTable[id] = fid
	bpm.replacer.Pin(fid)
	return frame, nil
}

// DeletePage removes the page from the pool and deallocates it on disk.
// Deleting a page that is not resident succeeds trivially; deleting a
// pinned page returns ErrPagePinned.
func (bpm *BufferPoolManager) DeletePage(id primitives.PageID) error {
	bpm.flMu.Lock()
	bpm.pgMu.Lock()
	bpm.ptMu.Lock()
	defer bpm.ptMu.Unlock()
	defer bpm.pgMu.Unlock()
	defer bpm.flMu.Unlock()

	if !id.Valid() {
		return nil
	}
	fid, ok := bpm.pageTable[id]
	if !ok {
		return nil
	}

	frame := bpm.frames[fid]
	if frame.PinCount() != 0 {
		logging.Error("delete of pinned page", "page_id", int32(id), "pin_count", frame.PinCount())
		return ErrPagePinned
	}

	bpm.diskManager.DeallocatePage(id)
	delete(bpm.pageTable, id)
	bpm.replacer.Pin(fid)
	frame.SetID(primitives.InvalidPageID)
	frame.SetDirty(false)
	bpm.freeList = append(bpm.freeList, fid)
	return nil
}

// FlushAllPages writes every dirty resident page to disk.
func (bpm *BufferPoolManager) FlushAllPages() {
	bpm.pgMu.Lock()
	defer bpm.pgMu.Unlock()

	for _, frame := range bpm.frames {
		if frame.ID().Valid() && frame.IsDirty() {
			if err := bpm.writeBack(frame); err != nil {
				logging.Error("flush failed", "page_id", int32(frame.ID()), "error", err)
			}
		}
	}
}

// victimFrame picks the frame to hold a new page: the front of the free
// list when one exists, otherwise a clock victim. A dirty victim is written
// back before its frame is reused, and its page-table entry is removed.
// All three pool mutexes must be held.
func (bpm *BufferPoolManager) victimFrame() (primitives.FrameID, error) {
	if len(bpm.freeList) > 0 {
		fid := bpm.freeList[0]
		bpm.freeList = bpm.freeList[1:]
		return fid, nil
	}

	fid, ok := bpm.replacer.Victim()
	if !ok {
		return 0, ErrNoFreeFrame
	}

	victim := bpm.frames[fid]
	if victim.IsDirty() {
		if err := bpm.writeBack(victim); err != nil {
			return 0, err
		}
	}
	delete(bpm.pageTable, victim.ID())
	logging.Debug("evicted page", "page_id", int32(victim.ID()), "frame_id", int(fid))
	return fid, nil
}

// writeBack persists one frame's contents and clears its dirty flag,
// forcing the write-ahead log first when one is attached.
func (bpm *BufferPoolManager) writeBack(frame *page.Page) error {
	if bpm.logManager != nil {
		if err := bpm.logManager.Flush(); err != nil {
			return errors.Wrap(err, "forcing log before page write")
		}
	}
	if err := bpm.diskManager.WritePage(frame.ID(), frame.Data()[:]); err != nil {
		return errors.Wrap(err, "writing page back")
	}
	frame.SetDirty(false)
	return nil
}
