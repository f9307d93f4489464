package hash

import (
	"encoding/binary"

	"pagestore/pkg/primitives"
	"pagestore/pkg/storage/page"
)

// Header page layout, little-endian:
//
//	offset 0  page_id    int32   self reference
//	offset 4  size       uint32  intended number of buckets
//	offset 8  next_index uint32  number of block ids appended so far
//	offset 12 block_ids  []int32 one per allocated bucket block
const (
	headerPageIDOffset    = 0
	headerSizeOffset      = 4
	headerNextIndexOffset = 8
	headerBlockIDsOffset  = 12
)

// maxBlocks is how many block ids fit in one header page.
const maxBlocks = (page.PageSize - headerBlockIDsOffset) / 4

// headerPage is a typed view over the raw bytes of the table's header
// page. Mutations go straight into the frame buffer; the caller owns the
// pin and the dirty flag.
type headerPage struct {
	data []byte
}

func headerView(p *page.Page) headerPage {
	return headerPage{data: p.Data()[:]}
}

// PageID returns the header's self reference.
func (h headerPage) PageID() primitives.PageID {
	return primitives.PageID(binary.LittleEndian.Uint32(h.data[headerPageIDOffset:]))
}

// SetPageID records the header's own page id.
func (h headerPage) SetPageID(id primitives.PageID) {
	binary.LittleEndian.PutUint32(h.data[headerPageIDOffset:], uint32(id))
}

// Size returns the intended number of buckets.
func (h headerPage) Size() uint32 {
	return binary.LittleEndian.Uint32(h.data[headerSizeOffset:])
}

// SetSize records the intended number of buckets.
func (h headerPage) SetSize(n uint32) {
	binary.LittleEndian.PutUint32(h.data[headerSizeOffset:], n)
}

// NumBlocks returns how many block pages have been allocated so far.
func (h headerPage) NumBlocks() int {
	return int(binary.LittleEndian.Uint32(h.data[headerNextIndexOffset:]))
}

// BlockPageID returns the page id of the i-th bucket block.
func (h headerPage) BlockPageID(i int) primitives.PageID {
	return primitives.PageID(binary.LittleEndian.Uint32(h.data[headerBlockIDsOffset+4*i:]))
}

// AddBlockPageID appends a block page id, growing the bucket-block list by
// one. Returns false when the header is full.
func (h headerPage) AddBlockPageID(id primitives.PageID) bool {
	n := h.NumBlocks()
	if n >= maxBlocks {
		return false
	}
	binary.LittleEndian.PutUint32(h.data[headerBlockIDsOffset+4*n:], uint32(id))
	binary.LittleEndian.PutUint32(h.data[headerNextIndexOffset:], uint32(n+1))
	return true
}
