// Package catalog serves catalog-wide aggregates: the option lists a filter
// panel needs and the summary statistics of the whole collection.
package catalog

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/medidex/internal/domain"
	"github.com/kailas-cloud/medidex/internal/domain/facet"
	"github.com/kailas-cloud/medidex/internal/domain/medicine"
	"github.com/kailas-cloud/medidex/internal/domain/search/filter"
)

// TopGroups is the number of groups reported per stats dimension.
const TopGroups = 10

// Price range reported when the catalog is empty.
const (
	fallbackMinPrice = 0
	fallbackMaxPrice = 1000
)

// PriceRange is the price span offered by the filter panel.
type PriceRange struct {
	Min float64
	Max float64
	Avg float64
}

// Filters lists the values a client can filter by.
type Filters struct {
	Categories    []string
	Manufacturers []string
	PriceRange    PriceRange
}

// Stats summarizes the catalog.
type Stats struct {
	TotalMedicines   int
	TopCategories    []facet.Group
	TopManufacturers []facet.Group
	PriceRanges      []facet.Bucket
}

// Service computes filters and stats.
type Service struct {
	catalog    Aggregator
	boundaries []float64
}

// New creates a Service bucketing prices by facet.PriceBoundaries.
func New(catalog Aggregator) *Service {
	return &Service{catalog: catalog, boundaries: facet.PriceBoundaries}
}

// Filters returns sorted categories and manufacturers and the price range.
func (s *Service) Filters(ctx context.Context) (Filters, error) {
	categories, err := s.catalog.DistinctValues(ctx, medicine.FieldCategory)
	if err != nil {
		return Filters{}, classify(ctx, fmt.Errorf("distinct categories: %w", err))
	}
	manufacturers, err := s.catalog.DistinctValues(ctx, medicine.FieldManufacturer)
	if err != nil {
		return Filters{}, classify(ctx, fmt.Errorf("distinct manufacturers: %w", err))
	}
	summary, err := s.catalog.PriceSummary(ctx)
	if err != nil {
		return Filters{}, classify(ctx, fmt.Errorf("price summary: %w", err))
	}

	pr := PriceRange{Min: fallbackMinPrice, Max: fallbackMaxPrice}
	if summary.Count > 0 {
		pr = PriceRange{Min: summary.Min, Max: summary.Max, Avg: summary.Avg}
	}
	return Filters{
		Categories:    nonNil(categories),
		Manufacturers: nonNil(manufacturers),
		PriceRange:    pr,
	}, nil
}

// Stats returns the record total, the largest category and manufacturer
// groups, and the price distribution.
func (s *Service) Stats(ctx context.Context) (Stats, error) {
	total, err := s.catalog.Count(ctx, filter.Expression{})
	if err != nil {
		return Stats{}, classify(ctx, fmt.Errorf("count: %w", err))
	}
	categories, err := s.catalog.GroupCounts(ctx, medicine.FieldCategory, TopGroups)
	if err != nil {
		return Stats{}, classify(ctx, fmt.Errorf("group categories: %w", err))
	}
	manufacturers, err := s.catalog.GroupCounts(ctx, medicine.FieldManufacturer, TopGroups)
	if err != nil {
		return Stats{}, classify(ctx, fmt.Errorf("group manufacturers: %w", err))
	}
	buckets, err := s.catalog.BucketCounts(ctx, medicine.FieldPrice, s.boundaries)
	if err != nil {
		return Stats{}, classify(ctx, fmt.Errorf("price buckets: %w", err))
	}

	return Stats{
		TotalMedicines:   total,
		TopCategories:    nonNil(categories),
		TopManufacturers: nonNil(manufacturers),
		PriceRanges:      nonNil(buckets),
	}, nil
}

func classify(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return fmt.Errorf("%w: %w", domain.ErrCancelled, err)
	}
	return fmt.Errorf("%w: %w", domain.ErrCatalogUnavailable, err)
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
