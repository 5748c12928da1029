package request

import (
	"fmt"

	"github.com/kailas-cloud/medidex/internal/domain/medicine"
	"github.com/kailas-cloud/medidex/internal/domain/search/filter"
)

// Search parameter limits and defaults.
const (
	// MaxQueryRunes is the longest free text kept after normalization.
	MaxQueryRunes    = 256
	DefaultPage      = 1
	MaxPage          = 1_000_000
	DefaultLimit     = 20
	MaxLimit         = 100
	DefaultSortField = medicine.FieldName
)

// Request is a planned search: normalized free text, structured filters,
// sort and page window. Built once per call by a Planner.
type Request struct {
	freeText       string
	category       string
	manufacturer   string
	minPrice       *float64
	maxPrice       *float64
	sortField      medicine.Field
	sortDescending bool
	page           int
	pageSize       int
	invalid        []string
}

// FreeText returns the trimmed, lower-cased search text (possibly empty).
func (r *Request) FreeText() string { return r.freeText }

// HasFreeText reports whether the request takes the search path.
func (r *Request) HasFreeText() bool { return r.freeText != "" }

// Category returns the category substring filter.
func (r *Request) Category() string { return r.category }

// Manufacturer returns the manufacturer substring filter.
func (r *Request) Manufacturer() string { return r.manufacturer }

// MinPrice returns the inclusive lower price bound, nil when absent.
func (r *Request) MinPrice() *float64 { return r.minPrice }

// MaxPrice returns the inclusive upper price bound, nil when absent.
func (r *Request) MaxPrice() *float64 { return r.maxPrice }

// SortField returns the requested sort field.
func (r *Request) SortField() medicine.Field { return r.sortField }

// SortDescending reports whether the requested sort is descending.
func (r *Request) SortDescending() bool { return r.sortDescending }

// Page returns the 1-based page number.
func (r *Request) Page() int { return r.page }

// PageSize returns the page size.
func (r *Request) PageSize() int { return r.pageSize }

// InvalidParams lists parameters that were supplied but unusable and replaced by defaults.
func (r *Request) InvalidParams() []string { return r.invalid }

// Offset returns the number of records to skip for the requested page.
func (r *Request) Offset() int { return (r.page - 1) * r.pageSize }

// Filters builds the structured filters (category, manufacturer, price range)
// as must conditions. They restrict eligibility only, never ordering.
func (r *Request) Filters() (filter.Expression, error) {
	var must []filter.Condition

	if r.category != "" {
		c, err := filter.NewMatch(medicine.FieldCategory, filter.Contains, r.category)
		if err != nil {
			return filter.Expression{}, fmt.Errorf("category filter: %w", err)
		}
		must = append(must, c)
	}
	if r.manufacturer != "" {
		c, err := filter.NewMatch(medicine.FieldManufacturer, filter.Contains, r.manufacturer)
		if err != nil {
			return filter.Expression{}, fmt.Errorf("manufacturer filter: %w", err)
		}
		must = append(must, c)
	}
	if r.minPrice != nil || r.maxPrice != nil {
		rng, err := filter.NewRangeFilter(nil, r.minPrice, nil, r.maxPrice)
		if err != nil {
			return filter.Expression{}, fmt.Errorf("price filter: %w", err)
		}
		c, err := filter.NewRange(medicine.FieldPrice, rng)
		if err != nil {
			return filter.Expression{}, fmt.Errorf("price filter: %w", err)
		}
		must = append(must, c)
	}

	return filter.NewExpression(must, nil, nil)
}
