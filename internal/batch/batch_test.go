package batch

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunk_Bounds(t *testing.T) {
	items := make([]int, 1000)
	for i := range items {
		items[i] = i
	}

	chunks := Chunk(items, 380)
	require.Len(t, chunks, 3)
	assert.Len(t, chunks[0], 380)
	assert.Len(t, chunks[1], 380)
	assert.Len(t, chunks[2], 240, "last chunk carries the remainder")

	// No element lost or duplicated.
	seen := make(map[int]bool, len(items))
	for _, c := range chunks {
		for _, v := range c {
			assert.False(t, seen[v], "element %d appears twice", v)
			seen[v] = true
		}
	}
	assert.Len(t, seen, len(items))
}

func TestChunk_SmallInputs(t *testing.T) {
	assert.Nil(t, Chunk([]string{}, 10))

	one := Chunk([]string{"a", "b"}, 10)
	require.Len(t, one, 1)
	assert.Equal(t, []string{"a", "b"}, one[0])

	exact := Chunk([]int{1, 2, 3, 4}, 2)
	require.Len(t, exact, 2)
	assert.Equal(t, []int{3, 4}, exact[1])
}

func TestScan_StopsAtCeiling(t *testing.T) {
	var pages []int
	err := Scan(context.Background(), 5, func(page int) error {
		pages = append(pages, page)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3, 4, 5}, pages)
}

func TestScan_EarlyStop(t *testing.T) {
	var last int
	err := Scan(context.Background(), 10000, func(page int) error {
		last = page
		if page == 3 {
			return ErrStopScan
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, last)
}

func TestScan_PropagatesErrors(t *testing.T) {
	boom := errors.New("boom")
	err := Scan(context.Background(), 10, func(page int) error {
		if page == 2 {
			return fmt.Errorf("page fetch: %w", boom)
		}
		return nil
	})
	assert.ErrorIs(t, err, boom)
}

func TestScan_RespectsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	err := Scan(ctx, 10, func(page int) error {
		calls++
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, calls)
}

func TestScanOffsets(t *testing.T) {
	var offsets []int
	err := ScanOffsets(context.Background(), 100, 350, func(offset int) error {
		offsets = append(offsets, offset)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []int{0, 100, 200, 300}, offsets)

	assert.Error(t, ScanOffsets(context.Background(), 0, 100, func(int) error { return nil }))
}
