package medidex

import (
	"strconv"

	"github.com/kailas-cloud/medidex/internal/domain/facet"
	domingest "github.com/kailas-cloud/medidex/internal/domain/ingest"
	"github.com/kailas-cloud/medidex/internal/domain/medicine"
	"github.com/kailas-cloud/medidex/internal/domain/search/page"
	"github.com/kailas-cloud/medidex/internal/domain/search/request"
	cataloguc "github.com/kailas-cloud/medidex/internal/usecase/catalog"
)

func queryToRaw(q Query) map[string]string {
	raw := make(map[string]string, 9)
	set := func(key, v string) {
		if v != "" {
			raw[key] = v
		}
	}
	set(request.ParamSearch, q.Search)
	set(request.ParamCategory, q.Category)
	set(request.ParamManufacturer, q.Manufacturer)
	set(request.ParamSortBy, q.SortBy)
	if q.Descending {
		raw[request.ParamSortOrder] = "desc"
	}
	if q.MinPrice != nil {
		raw[request.ParamMinPrice] = strconv.FormatFloat(*q.MinPrice, 'f', -1, 64)
	}
	if q.MaxPrice != nil {
		raw[request.ParamMaxPrice] = strconv.FormatFloat(*q.MaxPrice, 'f', -1, 64)
	}
	if q.Page > 0 {
		raw[request.ParamPage] = strconv.Itoa(q.Page)
	}
	if q.Limit > 0 {
		raw[request.ParamLimit] = strconv.Itoa(q.Limit)
	}
	return raw
}

func medicineFromDomain(m *medicine.Medicine) Medicine {
	return Medicine{
		ID:           m.ID(),
		Name:         m.Name(),
		GenericName:  m.GenericName(),
		Manufacturer: m.Manufacturer(),
		Category:     m.Category(),
		Strength:     m.Strength(),
		Unit:         m.Unit(),
		UnitSize:     m.UnitSize(),
		Price:        m.Price(),
	}
}

func pageFromResult(res *page.Result) Page {
	items := make([]Medicine, len(res.Records))
	for i := range res.Records {
		items[i] = medicineFromDomain(&res.Records[i])
	}
	p := res.Pagination()
	return Page{
		Medicines: items,
		Page:      p.Page,
		Pages:     p.Pages,
		Total:     p.TotalMatches,
		Limit:     p.PageSize,
	}
}

func filtersFromDomain(f cataloguc.Filters) Filters {
	return Filters{
		Categories:    f.Categories,
		Manufacturers: f.Manufacturers,
		PriceRange:    PriceRange(f.PriceRange),
	}
}

func groupsFromDomain(groups []facet.Group) []Group {
	out := make([]Group, len(groups))
	for i, g := range groups {
		out[i] = Group(g)
	}
	return out
}

func statsFromDomain(s cataloguc.Stats) Stats {
	buckets := make([]PriceBucket, len(s.PriceRanges))
	for i, b := range s.PriceRanges {
		buckets[i] = PriceBucket{Label: b.Label(), Other: b.Other, Count: b.Count}
		if !b.Other {
			buckets[i].Lower, buckets[i].Upper = b.Lower, b.Upper
		}
	}
	return Stats{
		TotalMedicines:   s.TotalMedicines,
		TopCategories:    groupsFromDomain(s.TopCategories),
		TopManufacturers: groupsFromDomain(s.TopManufacturers),
		PriceRanges:      buckets,
	}
}

func importReportFromDomain(r domingest.Report) ImportReport {
	rejected := make([]RejectedRow, len(r.Rejected))
	for i, rj := range r.Rejected {
		rejected[i] = RejectedRow{Line: rj.Line(), Slug: rj.ID(), Reason: rj.Err().Error()}
	}
	return ImportReport{Rows: r.Rows, Imported: r.Imported, Rejected: rejected}
}
