package hash

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pagestore/pkg/storage/page"
)

func TestBlockCapacity_FitsInsidePage(t *testing.T) {
	for _, slotSize := range []int{8, 12, 16, 24, 36, 68} {
		n := blockCapacity(slotSize)
		require.Greater(t, n, 0, "slot size %d", slotSize)
		used := 2*((n+7)/8) + n*slotSize
		assert.LessOrEqual(t, used, page.PageSize, "slot size %d overflows the page", slotSize)

		// One more slot must not fit.
		overflow := 2*((n+8)/8) + (n+1)*slotSize
		assert.Greater(t, overflow, page.PageSize, "slot size %d wastes a slot", slotSize)
	}
}

func TestBlockPage_InsertSetsBothBits(t *testing.T) {
	b := blockView[int64, int64](page.New(), Int64Codec{}, Int64Codec{})

	require.False(t, b.IsOccupied(3))
	require.False(t, b.IsReadable(3))

	require.True(t, b.Insert(3, 42, 7))
	assert.True(t, b.IsOccupied(3))
	assert.True(t, b.IsReadable(3))
	assert.Equal(t, int64(42), b.KeyAt(3))
	assert.Equal(t, int64(7), b.ValueAt(3))
}

func TestBlockPage_InsertIntoUsedSlotFails(t *testing.T) {
	b := blockView[int64, int64](page.New(), Int64Codec{}, Int64Codec{})

	require.True(t, b.Insert(0, 1, 1))
	assert.False(t, b.Insert(0, 2, 2), "occupied slot must reject a second insert")
	assert.Equal(t, int64(1), b.KeyAt(0), "failed insert must not clobber the slot")
}

func TestBlockPage_RemoveLeavesTombstone(t *testing.T) {
	b := blockView[int64, int64](page.New(), Int64Codec{}, Int64Codec{})

	require.True(t, b.Insert(5, 10, 20))
	b.Remove(5)

	assert.True(t, b.IsOccupied(5), "occupied bit survives removal")
	assert.False(t, b.IsReadable(5))
	assert.False(t, b.Insert(5, 11, 21), "tombstoned slots are not reused")
}

func TestBlockPage_RemoveOutOfRangeIsNoOp(t *testing.T) {
	b := blockView[int64, int64](page.New(), Int64Codec{}, Int64Codec{})

	b.Remove(-1)
	b.Remove(b.Capacity())
}

func TestBlockPage_SlotsAreIndependent(t *testing.T) {
	b := blockView[int64, int64](page.New(), Int64Codec{}, Int64Codec{})

	last := b.Capacity() - 1
	require.True(t, b.Insert(0, 100, 1))
	require.True(t, b.Insert(last, 200, 2))

	assert.Equal(t, int64(100), b.KeyAt(0))
	assert.Equal(t, int64(200), b.KeyAt(last))
	assert.False(t, b.IsOccupied(last-1))
}

func TestBlockPage_BytesKeys(t *testing.T) {
	b := blockView[[]byte, RID](page.New(), BytesCodec{Width: 16}, RIDCodec{})

	rid := RID{PageID: 9, Slot: 3}
	require.True(t, b.Insert(1, []byte("customer-42"), rid))

	key := b.KeyAt(1)
	assert.Equal(t, 16, len(key))
	assert.Equal(t, []byte("customer-42"), key[:11])
	assert.Equal(t, rid, b.ValueAt(1))
}
