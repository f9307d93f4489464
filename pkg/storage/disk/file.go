package disk

import (
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"

	"pagestore/pkg/primitives"
	"pagestore/pkg/storage/page"
)

// FileDiskManager stores pages in a single file, page i at byte offset
// i * PageSize. Reopening an existing file resumes allocation after the
// highest page the file already contains.
type FileDiskManager struct {
	mu         sync.Mutex
	file       *os.File
	path       string
	nextPageID primitives.PageID
	freed      map[primitives.PageID]struct{}
}

// NewFileDiskManager opens or creates the database file at path.
func NewFileDiskManager(path string) (*FileDiskManager, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, errors.Wrap(err, "creating database directory")
	}

	file, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o600)
	if err != nil {
		return nil, errors.Wrapf(err, "opening database file %s", path)
	}

	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, errors.Wrap(err, "stat database file")
	}

	return &FileDiskManager{
		file:       file,
		path:       path,
		nextPageID: primitives.PageID(info.Size() / page.PageSize),
		freed:      make(map[primitives.PageID]struct{}),
	}, nil
}

// ReadPage reads the page at id into buf. Reads past the end of the file
// zero-fill: a page can be allocated and fetched before anything was ever
// written to it.
func (d *FileDiskManager) ReadPage(id primitives.PageID, buf []byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	offset := int64(id) * page.PageSize
	n, err := d.file.ReadAt(buf[:page.PageSize], offset)
	if err != nil && err != io.EOF {
		return errors.Wrapf(err, "reading page %d", id)
	}
	for i := n; i < page.PageSize; i++ {
		buf[i] = 0
	}
	return nil
}

// WritePage writes buf as the contents of the page at id.
func (d *FileDiskManager) WritePage(id primitives.PageID, buf []byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	offset := int64(id) * page.PageSize
	if _, err := d.file.WriteAt(buf[:page.PageSize], offset); err != nil {
		return errors.Wrapf(err, "writing page %d", id)
	}
	return nil
}

// AllocatePage hands out the next page id.
func (d *FileDiskManager) AllocatePage() primitives.PageID {
	d.mu.Lock()
	defer d.mu.Unlock()

	id := d.nextPageID
	d.nextPageID++
	return id
}

// DeallocatePage marks the id as free. The file is not truncated and the
// id is not reused while this manager is open.
func (d *FileDiskManager) DeallocatePage(id primitives.PageID) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.freed[id] = struct{}{}
}

// IsDeallocated reports whether the id was released via DeallocatePage.
func (d *FileDiskManager) IsDeallocated(id primitives.PageID) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	_, ok := d.freed[id]
	return ok
}

// Close closes the database file.
func (d *FileDiskManager) Close() error {
	return errors.Wrap(d.file.Close(), "closing database file")
}
