package request

import (
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/kailas-cloud/medidex/internal/domain/medicine"
)

// Raw parameter keys recognized by the planner.
const (
	ParamPage         = "page"
	ParamLimit        = "limit"
	ParamSearch       = "search"
	ParamCategory     = "category"
	ParamManufacturer = "manufacturer"
	ParamMinPrice     = "minPrice"
	ParamMaxPrice     = "maxPrice"
	ParamSortBy       = "sortBy"
	ParamSortOrder    = "sortOrder"
)

// Planner turns raw string parameters into a Request.
type Planner struct {
	defaultPageSize int
	maxPageSize     int
}

// NewPlanner creates a Planner. Non-positive sizes fall back to DefaultLimit / MaxLimit.
func NewPlanner(defaultPageSize, maxPageSize int) Planner {
	if maxPageSize <= 0 {
		maxPageSize = MaxLimit
	}
	if defaultPageSize <= 0 {
		defaultPageSize = DefaultLimit
	}
	if defaultPageSize > maxPageSize {
		defaultPageSize = maxPageSize
	}
	return Planner{defaultPageSize: defaultPageSize, maxPageSize: maxPageSize}
}

// Plan parses raw parameters with the default planner.
func Plan(raw map[string]string) Request {
	return NewPlanner(DefaultLimit, MaxLimit).Plan(raw)
}

// Plan never fails: missing or unparsable values fall back to defaults
// (page 1, default page size, sort by name ascending, numeric filters dropped).
func (p Planner) Plan(raw map[string]string) Request {
	r := Request{
		freeText:     normalizeText(raw[ParamSearch]),
		category:     strings.TrimSpace(raw[ParamCategory]),
		manufacturer: strings.TrimSpace(raw[ParamManufacturer]),
		minPrice:     parsePrice(raw[ParamMinPrice]),
		maxPrice:     parsePrice(raw[ParamMaxPrice]),
		sortField:    DefaultSortField,
		page:         DefaultPage,
		pageSize:     p.defaultPageSize,
	}

	if n, ok := parsePositive(raw[ParamPage]); ok {
		r.page = min(n, MaxPage)
	} else {
		r.noteInvalid(raw, ParamPage)
	}
	if n, ok := parsePositive(raw[ParamLimit]); ok {
		r.pageSize = min(n, p.maxPageSize)
	} else {
		r.noteInvalid(raw, ParamLimit)
	}
	if r.minPrice == nil {
		r.noteInvalid(raw, ParamMinPrice)
	}
	if r.maxPrice == nil {
		r.noteInvalid(raw, ParamMaxPrice)
	}
	if f, ok := medicine.ParseField(strings.TrimSpace(raw[ParamSortBy])); ok && f != medicine.FieldID {
		r.sortField = f
	} else {
		r.noteInvalid(raw, ParamSortBy)
	}
	r.sortDescending = strings.EqualFold(strings.TrimSpace(raw[ParamSortOrder]), "desc")

	return r
}

// noteInvalid records a parameter that was present but fell back to its default.
func (r *Request) noteInvalid(raw map[string]string, key string) {
	if strings.TrimSpace(raw[key]) != "" {
		r.invalid = append(r.invalid, key)
	}
}

// normalizeText trims, lower-cases and truncates the free text.
func normalizeText(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if utf8.RuneCountInString(s) > MaxQueryRunes {
		runes := []rune(s)
		s = strings.TrimSpace(string(runes[:MaxQueryRunes]))
	}
	return s
}

func parsePositive(s string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}

func parsePrice(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}
