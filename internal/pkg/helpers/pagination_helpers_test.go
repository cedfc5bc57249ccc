package helpers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClampPage(t *testing.T) {
	assert.Equal(t, 1, ClampPage(-5))
	assert.Equal(t, 1, ClampPage(0))
	assert.Equal(t, 1, ClampPage(1))
	assert.Equal(t, 42, ClampPage(42))
}

func TestClampPageSize(t *testing.T) {
	assert.Equal(t, DefaultPageSize, ClampPageSize(0))
	assert.Equal(t, DefaultPageSize, ClampPageSize(-1))
	assert.Equal(t, 1, ClampPageSize(1))
	assert.Equal(t, MaxPageSize, ClampPageSize(MaxPageSize))
	assert.Equal(t, MaxPageSize, ClampPageSize(MaxPageSize+1))
}

func TestCalculateOffsetLimit(t *testing.T) {
	offset, limit := CalculateOffsetLimit(1, 10)
	assert.Equal(t, uint64(0), offset)
	assert.Equal(t, 10, limit)

	offset, limit = CalculateOffsetLimit(3, 25)
	assert.Equal(t, uint64(50), offset)
	assert.Equal(t, 25, limit)

	// Out-of-range inputs fall back to the defaults
	offset, limit = CalculateOffsetLimit(0, 0)
	assert.Equal(t, uint64(0), offset)
	assert.Equal(t, DefaultPageSize, limit)
}

func TestTotalPages(t *testing.T) {
	assert.Equal(t, 1, TotalPages(0, 10), "an empty result set still has one page")
	assert.Equal(t, 1, TotalPages(10, 10))
	assert.Equal(t, 2, TotalPages(11, 10))
	assert.Equal(t, 5, TotalPages(41, 10))
}
