package primitives

import "fmt"

// PageID is the stable identifier of a page on the backing store. Ids are
// handed out by the disk manager in increasing order starting at zero and
// identify the same on-disk bytes for as long as the page stays allocated.
type PageID int32

// InvalidPageID marks "no page": an empty buffer frame, an unset header
// slot, a deallocated id.
const InvalidPageID PageID = -1

// Valid reports whether the id refers to an actual page.
func (id PageID) Valid() bool {
	return id != InvalidPageID
}

func (id PageID) String() string {
	if !id.Valid() {
		return "PageID(invalid)"
	}
	return fmt.Sprintf("PageID(%d)", int32(id))
}

// FrameID indexes a slot in the buffer pool's frame array. Frame ids are
// stable for the lifetime of the pool and always lie in [0, poolSize).
type FrameID int

// LSN is a log sequence number: the byte offset of a record in the
// write-ahead log. LSNs increase monotonically within one log file.
type LSN uint64
