package helpers

import (
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/yigit/studentrecords/internal/app/models/dto"
)

const (
	DefaultPageSize = 10
	DefaultPage     = 1 // Default page is 1-based
)

// ParsePage converts a raw ?page= value into a 1-based page number.
// Missing or non-numeric values fall back to the first page. Numbers too large
// for an int saturate, so NewPaginationInfo clamps them to the nearest page.
func ParsePage(raw string) int {
	raw = strings.TrimSpace(raw)
	page, err := strconv.Atoi(raw)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			if strings.HasPrefix(raw, "-") {
				return math.MinInt
			}
			return math.MaxInt
		}
		return DefaultPage
	}
	return page
}

// NewPaginationInfo builds the pagination block for a result of totalItems rows.
// The requested page is clamped into [1, TotalPages]; an empty result still has one (empty) page.
func NewPaginationInfo(totalItems int64, page, size int) dto.PaginationInfo {
	if size <= 0 {
		size = DefaultPageSize
	}

	totalPages := int((totalItems + int64(size) - 1) / int64(size))
	if totalPages < 1 {
		totalPages = 1
	}

	if page < 1 {
		page = DefaultPage
	}
	if page > totalPages {
		page = totalPages
	}

	return dto.PaginationInfo{
		CurrentPage: page,
		TotalPages:  totalPages,
		PageSize:    size,
		TotalItems:  totalItems,
		HasPrevious: page > 1,
		HasNext:     page < totalPages,
	}
}

// CalculateOffsetLimit calculates the offset and limit for SQL queries based on 1-based page index.
func CalculateOffsetLimit(page, size int) (offset uint64, limit uint64) {
	if size <= 0 {
		size = DefaultPageSize
	}
	if page < 1 {
		page = DefaultPage
	}

	// 1-based page -> 0-based offset
	offset = uint64((page - 1) * size)
	return offset, uint64(size)
}

// EscapeLike escapes LIKE/ILIKE wildcards so user input only matches literally.
func EscapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
