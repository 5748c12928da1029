package search

import (
	"fmt"

	"github.com/kailas-cloud/medidex/internal/domain/search/request"
)

// PaginationPolicy selects how the search path treats the requested page.
type PaginationPolicy string

const (
	// PinnedTopResults ignores the page on the search path: every page returns the
	// same best pageSize records. Only the plain path skips.
	PinnedTopResults PaginationPolicy = "pinned"
	// RankedOffset paginates within the ranked list: page N returns ranks
	// (N-1)*pageSize+1 .. N*pageSize.
	RankedOffset PaginationPolicy = "ranked"
)

// ParsePaginationPolicy resolves a policy name. Empty means PinnedTopResults.
func ParsePaginationPolicy(s string) (PaginationPolicy, error) {
	switch PaginationPolicy(s) {
	case "", PinnedTopResults:
		return PinnedTopResults, nil
	case RankedOffset:
		return RankedOffset, nil
	}
	return "", fmt.Errorf("unknown pagination policy %q", s)
}

// window returns how many ranked records to assemble and how many of them
// precede the requested page.
func (p PaginationPolicy) window(req *request.Request) (budget, offset int) {
	if p == RankedOffset {
		return req.Page() * req.PageSize(), req.Offset()
	}
	return req.PageSize(), 0
}
