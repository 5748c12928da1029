// Package page holds the search result page and its pagination metadata.
package page

import "github.com/kailas-cloud/medidex/internal/domain/medicine"

// Result is one page of records plus the size of the full eligible set.
// Records never repeat an id and never exceed PageSize.
type Result struct {
	Records      []medicine.Medicine
	TotalMatches int
	Page         int
	PageSize     int
}

// Pagination is the page metadata exposed to callers.
type Pagination struct {
	Page         int
	Pages        int
	TotalMatches int
	PageSize     int
}

// Paginate computes page metadata: Pages = ceil(total / pageSize),
// 0 when total is 0 or pageSize is not positive.
func Paginate(totalMatches, pageSize, current int) Pagination {
	pages := 0
	if totalMatches > 0 && pageSize > 0 {
		pages = (totalMatches + pageSize - 1) / pageSize
	}
	return Pagination{
		Page:         current,
		Pages:        pages,
		TotalMatches: max(totalMatches, 0),
		PageSize:     pageSize,
	}
}

// Pagination returns the metadata for r.
func (r *Result) Pagination() Pagination {
	return Paginate(r.TotalMatches, r.PageSize, r.Page)
}
