package chi

import (
	"github.com/kailas-cloud/medidex/internal/domain/facet"
	"github.com/kailas-cloud/medidex/internal/domain/medicine"
	"github.com/kailas-cloud/medidex/internal/domain/search/page"
	cataloguc "github.com/kailas-cloud/medidex/internal/usecase/catalog"
)

// ErrorCode is a machine-readable error kind.
type ErrorCode string

// Error codes.
const (
	ErrorCodeBadRequest         ErrorCode = "bad_request"
	ErrorCodeNotFound           ErrorCode = "not_found"
	ErrorCodeCatalogUnavailable ErrorCode = "catalog_unavailable"
	ErrorCodeRequestCancelled   ErrorCode = "request_cancelled"
	ErrorCodeTimeout            ErrorCode = "timeout"
	ErrorCodeInternalError      ErrorCode = "internal_error"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// HealthResponse is the body of GET /healthz.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// Medicine is the wire form of a catalog record. Field names follow the
// catalog's CSV export; _id and slug both carry the record id.
type Medicine struct {
	ID           string  `json:"_id"`
	Name         string  `json:"medicine_name"`
	Category     string  `json:"category_name"`
	Slug         string  `json:"slug"`
	GenericName  string  `json:"generic_name"`
	Strength     string  `json:"strength"`
	Manufacturer string  `json:"manufacturer_name"`
	Unit         string  `json:"unit"`
	UnitSize     int     `json:"unit_size"`
	Price        float64 `json:"price"`
}

// Pagination describes the returned page.
type Pagination struct {
	Current int `json:"current"`
	Pages   int `json:"pages"`
	Total   int `json:"total"`
	Limit   int `json:"limit"`
}

// MedicinesResponse is the body of GET /api/medicines.
type MedicinesResponse struct {
	Medicines  []Medicine `json:"medicines"`
	Pagination Pagination `json:"pagination"`
}

// PriceRange is the filter panel's price span.
type PriceRange struct {
	MinPrice float64 `json:"minPrice"`
	MaxPrice float64 `json:"maxPrice"`
	AvgPrice float64 `json:"avgPrice"`
}

// FiltersResponse is the body of GET /api/filters.
type FiltersResponse struct {
	Categories    []string   `json:"categories"`
	Manufacturers []string   `json:"manufacturers"`
	PriceRange    PriceRange `json:"priceRange"`
}

// Group is one row of a top-N breakdown.
type Group struct {
	ID       string  `json:"_id"`
	Count    int     `json:"count"`
	AvgPrice float64 `json:"avgPrice"`
}

// PriceBucket is one price distribution bucket. ID is the bucket's lower
// bound, or the string "Other" for prices outside every bucket.
type PriceBucket struct {
	ID    any    `json:"_id"`
	Label string `json:"label"`
	Count int    `json:"count"`
}

// StatsResponse is the body of GET /api/stats.
type StatsResponse struct {
	TotalMedicines   int           `json:"totalMedicines"`
	TopCategories    []Group       `json:"topCategories"`
	TopManufacturers []Group       `json:"topManufacturers"`
	PriceRanges      []PriceBucket `json:"priceRanges"`
}

func medicineToResponse(m *medicine.Medicine) Medicine {
	return Medicine{
		ID:           m.ID(),
		Name:         m.Name(),
		Category:     m.Category(),
		Slug:         m.ID(),
		GenericName:  m.GenericName(),
		Strength:     m.Strength(),
		Manufacturer: m.Manufacturer(),
		Unit:         m.Unit(),
		UnitSize:     m.UnitSize(),
		Price:        m.Price(),
	}
}

func medicinesToResponse(res *page.Result) MedicinesResponse {
	items := make([]Medicine, len(res.Records))
	for i := range res.Records {
		items[i] = medicineToResponse(&res.Records[i])
	}
	p := res.Pagination()
	return MedicinesResponse{
		Medicines: items,
		Pagination: Pagination{
			Current: p.Page,
			Pages:   p.Pages,
			Total:   p.TotalMatches,
			Limit:   p.PageSize,
		},
	}
}

func filtersToResponse(f cataloguc.Filters) FiltersResponse {
	return FiltersResponse{
		Categories:    f.Categories,
		Manufacturers: f.Manufacturers,
		PriceRange: PriceRange{
			MinPrice: f.PriceRange.Min,
			MaxPrice: f.PriceRange.Max,
			AvgPrice: f.PriceRange.Avg,
		},
	}
}

func groupsToResponse(groups []facet.Group) []Group {
	out := make([]Group, len(groups))
	for i, g := range groups {
		out[i] = Group{ID: g.Value, Count: g.Count, AvgPrice: g.AvgPrice}
	}
	return out
}

func bucketsToResponse(buckets []facet.Bucket) []PriceBucket {
	out := make([]PriceBucket, len(buckets))
	for i, b := range buckets {
		var id any = b.Lower
		if b.Other {
			id = facet.OtherLabel
		}
		out[i] = PriceBucket{ID: id, Label: b.Label(), Count: b.Count}
	}
	return out
}

func statsToResponse(s cataloguc.Stats) StatsResponse {
	return StatsResponse{
		TotalMedicines:   s.TotalMedicines,
		TopCategories:    groupsToResponse(s.TopCategories),
		TopManufacturers: groupsToResponse(s.TopManufacturers),
		PriceRanges:      bucketsToResponse(s.PriceRanges),
	}
}
