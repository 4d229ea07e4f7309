package utils

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"nexus/internal/shared/constants"
)

// Pagination holds normalized page parameters.
type Pagination struct {
	Page     int
	PageSize int
}

// Offset returns the row offset for the current page.
func (p Pagination) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// ParsePagination reads page and page_size query parameters, applying
// defaults and capping page_size at the global maximum.
func ParsePagination(c *gin.Context) Pagination {
	return ValidatePagination(
		queryInt(c, "page"),
		queryInt(c, "page_size"),
	)
}

// ValidatePagination normalizes raw page values: non-positive inputs
// fall back to defaults, oversized page sizes are capped.
func ValidatePagination(page, pageSize int) Pagination {
	if page < 1 {
		page = constants.DefaultPage
	}
	switch {
	case pageSize < 1:
		pageSize = constants.DefaultPageSize
	case pageSize > constants.MaxPageSize:
		pageSize = constants.MaxPageSize
	}
	return Pagination{Page: page, PageSize: pageSize}
}

// TotalPages returns the page count for a total row count, never less
// than 1 so clients can always render a pager.
func TotalPages(total int64, pageSize int) int {
	if total <= 0 || pageSize <= 0 {
		return 1
	}
	return int((total + int64(pageSize) - 1) / int64(pageSize))
}

func queryInt(c *gin.Context, key string) int {
	n, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return 0
	}
	return n
}
