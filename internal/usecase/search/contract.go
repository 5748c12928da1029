package search

import (
	"context"

	"github.com/kailas-cloud/medidex/internal/domain/medicine"
	"github.com/kailas-cloud/medidex/internal/domain/search/filter"
	"github.com/kailas-cloud/medidex/internal/domain/search/order"
)

// Catalog defines the read contract the search engine needs from storage.
type Catalog interface {
	// Find returns records matching expr in sort order (ties in catalog order),
	// skipping skip records and returning at most limit (limit <= 0 means no limit).
	Find(
		ctx context.Context, expr filter.Expression,
		sort []order.Key, skip, limit int,
	) ([]medicine.Medicine, error)

	// Count returns the number of records matching expr.
	Count(ctx context.Context, expr filter.Expression) (int, error)
}
