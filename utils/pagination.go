package utils

import "math"

// Pagination is the envelope every list endpoint returns alongside its data.
type Pagination struct {
	Page       int   `json:"page"`
	Count      int   `json:"count"`
	TotalPages int   `json:"total_pages"`
	Total      int64 `json:"total"`
}

// CalculatePagination normalizes page/count (defaults: page 1, count 5) and
// derives the page total.
func CalculatePagination(page, count int, total int64) Pagination {
	if page < 1 {
		page = 1
	}
	if count < 1 {
		count = 5
	}
	totalPages := int(math.Ceil(float64(total) / float64(count)))
	return Pagination{
		Page:       page,
		Count:      count,
		TotalPages: totalPages,
		Total:      total,
	}
}

// Offset is the row offset for the given page.
func (p Pagination) Offset() int {
	return (p.Page - 1) * p.Count
}
