package medidex

// Medicine is a catalog record.
type Medicine struct {
	ID           string
	Name         string
	GenericName  string
	Manufacturer string
	Category     string
	Strength     string
	Unit         string
	UnitSize     int
	Price        float64
}

// Sort fields accepted by Query.SortBy.
const (
	SortByName         = "name"
	SortByGenericName  = "generic_name"
	SortByManufacturer = "manufacturer"
	SortByCategory     = "category"
	SortByPrice        = "price"
)

// Query selects a page of medicines. Zero values mean "not set": no free
// text, no filter, sort by name ascending, first page, default page size.
type Query struct {
	Search       string
	Category     string // case-insensitive substring
	Manufacturer string // case-insensitive substring
	MinPrice     *float64
	MaxPrice     *float64
	SortBy       string
	Descending   bool
	Page         int
	Limit        int
}

// Price returns a pointer to p, for Query.MinPrice and Query.MaxPrice.
func Price(p float64) *float64 { return &p }

// Page is one page of query results.
type Page struct {
	Medicines []Medicine
	Page      int
	Pages     int
	Total     int
	Limit     int
}

// PriceRange spans catalog prices.
type PriceRange struct {
	Min float64
	Max float64
	Avg float64
}

// Filters lists the values a query can filter by.
type Filters struct {
	Categories    []string
	Manufacturers []string
	PriceRange    PriceRange
}

// Group is a category or manufacturer with its record count and average price.
type Group struct {
	Value    string
	Count    int
	AvgPrice float64
}

// PriceBucket counts records priced in [Lower, Upper). Other buckets hold
// prices outside every bucket; Lower and Upper are zero for them.
type PriceBucket struct {
	Label string
	Lower float64
	Upper float64
	Other bool
	Count int
}

// Stats summarizes the catalog.
type Stats struct {
	TotalMedicines   int
	TopCategories    []Group
	TopManufacturers []Group
	PriceRanges      []PriceBucket
}

// RejectedRow is a CSV row that was not imported.
type RejectedRow struct {
	Line   int
	Slug   string
	Reason string
}

// ImportReport summarizes an import.
type ImportReport struct {
	Rows     int
	Imported int
	Rejected []RejectedRow
}

// HealthStatus represents the aggregated system health.
type HealthStatus struct {
	Status string            // "ok", "degraded", "error"
	Checks map[string]string // component → "ok"/"error"
}
