package helpers

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
	DefaultPage     = 1 // Pages are 1-based
)

// ClampPage normalizes a 1-based page number.
func ClampPage(page int) int {
	if page < 1 {
		return DefaultPage
	}
	return page
}

// ClampPageSize bounds the page size to [1, MaxPageSize], defaulting when unset.
func ClampPageSize(size int) int {
	if size <= 0 {
		return DefaultPageSize
	}
	if size > MaxPageSize {
		return MaxPageSize
	}
	return size
}

// CalculateOffsetLimit calculates the offset and limit for SQL queries
// based on a 1-based page index.
func CalculateOffsetLimit(page, size int) (offset uint64, limit int) {
	limit = ClampPageSize(size)
	page = ClampPage(page)
	offset = uint64((page - 1) * limit)
	return offset, limit
}

// TotalPages returns the page count for a result set, never less than 1.
func TotalPages(total int64, size int) int {
	size = ClampPageSize(size)
	pages := int((total + int64(size) - 1) / int64(size))
	if pages < 1 {
		return 1
	}
	return pages
}

// ParsePaginationParams extracts and validates pagination parameters from the request
func ParsePaginationParams(c *gin.Context) (page, size int) {
	pageStr := c.DefaultQuery("page", "1")
	page, err := strconv.Atoi(pageStr)
	if err != nil {
		page = DefaultPage
	}
	page = ClampPage(page)

	sizeStr := c.DefaultQuery("pageSize", "10")
	size, err = strconv.Atoi(sizeStr)
	if err != nil {
		size = DefaultPageSize
	}
	size = ClampPageSize(size)

	return page, size
}
