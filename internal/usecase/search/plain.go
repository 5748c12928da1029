package search

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/medidex/internal/domain/medicine"
	"github.com/kailas-cloud/medidex/internal/domain/search/filter"
	"github.com/kailas-cloud/medidex/internal/domain/search/order"
	"github.com/kailas-cloud/medidex/internal/domain/search/request"
)

// plain runs the no-search-text path: filters, one sort key, skip/limit.
func (s *Service) plain(
	ctx context.Context, req *request.Request, filters filter.Expression,
) ([]medicine.Medicine, int, error) {
	sortKeys := []order.Key{{Field: req.SortField(), Descending: req.SortDescending()}}

	found, err := s.catalog.Find(ctx, filters, sortKeys, req.Offset(), req.PageSize())
	if err != nil {
		return nil, 0, fmt.Errorf("find: %w", err)
	}
	total, err := s.catalog.Count(ctx, filters)
	if err != nil {
		return nil, 0, fmt.Errorf("count: %w", err)
	}
	return found, total, nil
}
