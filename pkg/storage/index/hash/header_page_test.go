package hash

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pagestore/pkg/primitives"
	"pagestore/pkg/storage/page"
)

func TestHeaderPage_FieldsRoundTrip(t *testing.T) {
	h := headerView(page.New())

	h.SetPageID(7)
	h.SetSize(16)

	assert.Equal(t, primitives.PageID(7), h.PageID())
	assert.Equal(t, uint32(16), h.Size())
	assert.Equal(t, 0, h.NumBlocks())
}

func TestHeaderPage_AddBlockPageID(t *testing.T) {
	h := headerView(page.New())

	require.True(t, h.AddBlockPageID(10))
	require.True(t, h.AddBlockPageID(20))
	require.True(t, h.AddBlockPageID(30))

	assert.Equal(t, 3, h.NumBlocks())
	assert.Equal(t, primitives.PageID(10), h.BlockPageID(0))
	assert.Equal(t, primitives.PageID(20), h.BlockPageID(1))
	assert.Equal(t, primitives.PageID(30), h.BlockPageID(2))
}

func TestHeaderPage_Layout(t *testing.T) {
	// The on-page byte layout is part of the storage format: page id at
	// offset 0, bucket count at 4, block count at 8, block ids from 12.
	p := page.New()
	h := headerView(p)

	h.SetPageID(0x01020304)
	h.SetSize(0x0A0B0C0D)
	require.True(t, h.AddBlockPageID(0x11223344))

	data := p.Data()
	assert.Equal(t, uint32(0x01020304), binary.LittleEndian.Uint32(data[0:4]))
	assert.Equal(t, uint32(0x0A0B0C0D), binary.LittleEndian.Uint32(data[4:8]))
	assert.Equal(t, uint32(1), binary.LittleEndian.Uint32(data[8:12]))
	assert.Equal(t, uint32(0x11223344), binary.LittleEndian.Uint32(data[12:16]))
}

func TestHeaderPage_CapacityBound(t *testing.T) {
	h := headerView(page.New())

	for i := 0; i < maxBlocks; i++ {
		require.True(t, h.AddBlockPageID(primitives.PageID(i)))
	}
	assert.False(t, h.AddBlockPageID(primitives.PageID(maxBlocks)), "a full header must reject more block ids")
	assert.Equal(t, maxBlocks, h.NumBlocks())
	assert.Equal(t, primitives.PageID(maxBlocks-1), h.BlockPageID(maxBlocks-1))
}
