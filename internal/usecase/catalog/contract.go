package catalog

import (
	"context"

	"github.com/kailas-cloud/medidex/internal/domain/facet"
	"github.com/kailas-cloud/medidex/internal/domain/medicine"
	"github.com/kailas-cloud/medidex/internal/domain/search/filter"
)

// Aggregator defines the aggregate reads behind the filters and stats views.
type Aggregator interface {
	Count(ctx context.Context, expr filter.Expression) (int, error)
	DistinctValues(ctx context.Context, f medicine.Field) ([]string, error)
	BucketCounts(ctx context.Context, f medicine.Field, boundaries []float64) ([]facet.Bucket, error)
	GroupCounts(ctx context.Context, f medicine.Field, limit int) ([]facet.Group, error)
	PriceSummary(ctx context.Context) (facet.PriceSummary, error)
}
