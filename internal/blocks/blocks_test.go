package blocks

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/briefly/briefly-backend/internal/core"
)

func TestTotalBlocks(t *testing.T) {
	p := New(DefaultSize)

	tests := []struct {
		totalPages int
		expected   int
	}{
		{0, 0},
		{1, 1},
		{2, 1},
		{3, 1},
		{4, 2},
		{6, 2},
		{7, 3},
		{9, 3},
		{100, 34},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, p.TotalBlocks(tt.totalPages), "totalPages=%d", tt.totalPages)
	}
}

func TestRange(t *testing.T) {
	p := New(3)

	tests := []struct {
		name       string
		totalPages int
		blockIndex int
		start, end int
	}{
		{"first block full", 7, 0, 0, 3},
		{"middle block full", 7, 1, 3, 6},
		{"last block short", 7, 2, 6, 7},
		{"single page document", 1, 0, 0, 1},
		{"exact multiple", 6, 1, 3, 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end, err := p.Range(tt.totalPages, tt.blockIndex)
			require.NoError(t, err)
			assert.Equal(t, tt.start, start)
			assert.Equal(t, tt.end, end)
		})
	}
}

func TestRangeOutOfRange(t *testing.T) {
	p := New(3)

	for _, blockIndex := range []int{-1, 3, 99} {
		_, _, err := p.Range(7, blockIndex)
		var oor *core.BlockOutOfRangeError
		require.ErrorAs(t, err, &oor, "blockIndex=%d", blockIndex)
		assert.Equal(t, blockIndex, oor.Block)
		assert.Equal(t, 3, oor.TotalBlocks)
	}

	_, _, err := p.Range(0, 0)
	assert.Error(t, err, "zero pages means zero blocks")
}

func TestBlocksPartitionAllPages(t *testing.T) {
	p := New(3)

	for totalPages := 0; totalPages <= 50; totalPages++ {
		covered := 0
		prevEnd := 0
		for b := 0; b < p.TotalBlocks(totalPages); b++ {
			start, end, err := p.Range(totalPages, b)
			require.NoError(t, err)
			assert.Equal(t, prevEnd, start, "blocks must be contiguous")
			assert.Greater(t, end, start, "blocks must be non-empty")
			covered += end - start
			prevEnd = end
		}
		assert.Equal(t, totalPages, covered, "totalPages=%d", totalPages)
	}
}

func TestNewFallsBackToDefaultSize(t *testing.T) {
	assert.Equal(t, DefaultSize, New(0).Size())
	assert.Equal(t, DefaultSize, New(-5).Size())
	assert.Equal(t, 5, New(5).Size())
}
