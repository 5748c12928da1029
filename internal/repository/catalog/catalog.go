// Package catalog implements the medicine catalog backends: in-memory,
// redis/valkey (rueidis) and sqlite. All backends keep records in insertion
// order so that sort ties resolve the same way everywhere.
package catalog

import (
	"context"
	"errors"

	"github.com/kailas-cloud/medidex/internal/domain/facet"
	"github.com/kailas-cloud/medidex/internal/domain/medicine"
	"github.com/kailas-cloud/medidex/internal/domain/search/filter"
	"github.com/kailas-cloud/medidex/internal/domain/search/order"
)

// ErrDuplicateID is returned when an inserted record's id is already stored.
var ErrDuplicateID = errors.New("catalog: duplicate medicine id")

// Catalog is the capability surface every backend implements.
//
//nolint:interfacebloat // backends implement the whole surface; consumers declare narrow interfaces
type Catalog interface {
	Ping(ctx context.Context) error
	Reset(ctx context.Context) error
	Insert(ctx context.Context, records []medicine.Medicine) error
	Find(ctx context.Context, expr filter.Expression, sort []order.Key, skip, limit int) ([]medicine.Medicine, error)
	Count(ctx context.Context, expr filter.Expression) (int, error)
	DistinctValues(ctx context.Context, f medicine.Field) ([]string, error)
	BucketCounts(ctx context.Context, f medicine.Field, boundaries []float64) ([]facet.Bucket, error)
	GroupCounts(ctx context.Context, f medicine.Field, limit int) ([]facet.Group, error)
	PriceSummary(ctx context.Context) (facet.PriceSummary, error)
}

var (
	_ Catalog = (*Memory)(nil)
	_ Catalog = (*KV)(nil)
	_ Catalog = (*SQL)(nil)
	_ Catalog = (*Instrumented)(nil)
)
