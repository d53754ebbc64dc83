package blocks

import (
	"github.com/briefly/briefly-backend/internal/core"
)

// DefaultSize is the number of pages grouped into one summarization block.
const DefaultSize = 3

// Partitioner maps a page count onto fixed-size contiguous blocks. Blocks
// partition [0, totalPages) with no gaps or overlaps; the last block may be
// shorter than the configured size.
type Partitioner struct {
	size int
}

// New returns a Partitioner with the given block size. Sizes below 1 fall
// back to DefaultSize.
func New(size int) Partitioner {
	if size < 1 {
		size = DefaultSize
	}
	return Partitioner{size: size}
}

// Size returns the configured block width in pages.
func (p Partitioner) Size() int { return p.size }

// TotalBlocks returns ceil(totalPages / size). Zero pages means zero blocks.
func (p Partitioner) TotalBlocks(totalPages int) int {
	if totalPages <= 0 {
		return 0
	}
	return (totalPages + p.size - 1) / p.size
}

// Range returns the half-open page range [startPage, endPage) covered by
// blockIndex. Pages are 0-based here; callers format them 1-based for users.
func (p Partitioner) Range(totalPages, blockIndex int) (startPage, endPage int, err error) {
	total := p.TotalBlocks(totalPages)
	if blockIndex < 0 || blockIndex >= total {
		return 0, 0, &core.BlockOutOfRangeError{Block: blockIndex, TotalBlocks: total}
	}
	startPage = blockIndex * p.size
	endPage = startPage + p.size
	if endPage > totalPages {
		endPage = totalPages
	}
	return startPage, endPage, nil
}
