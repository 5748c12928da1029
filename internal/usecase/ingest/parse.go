package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/kailas-cloud/medidex/internal/domain"
	domingest "github.com/kailas-cloud/medidex/internal/domain/ingest"
	"github.com/kailas-cloud/medidex/internal/domain/medicine"
)

// Source columns.
const (
	colName         = "medicine_name"
	colCategory     = "category_name"
	colSlug         = "slug"
	colGenericName  = "generic_name"
	colStrength     = "strength"
	colManufacturer = "manufacturer_name"
	colUnit         = "unit"
	colUnitSize     = "unit_size"
	colPrice        = "price"
)

var (
	leadingInt   = regexp.MustCompile(`^[+-]?\d+`)
	leadingFloat = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)
)

// Parse reads a header-mapped CSV catalog export. Rows that cannot become a
// record, and rows repeating an earlier slug, are returned as rejections.
// Only a missing header or an unreadable stream fails the whole parse.
func Parse(r io.Reader) ([]medicine.Medicine, []domingest.Rejection, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil, fmt.Errorf("empty csv: %w", domain.ErrInvalidInput)
		}
		return nil, nil, fmt.Errorf("read csv header: %w", err)
	}
	cols := indexHeader(header)
	if _, ok := cols[colName]; !ok {
		return nil, nil, fmt.Errorf("csv header lacks %q: %w", colName, domain.ErrInvalidInput)
	}

	var (
		records  []medicine.Medicine
		rejected []domingest.Rejection
		seen     = make(map[string]struct{})
	)
	for line := 2; ; line++ {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				rejected = append(rejected, domingest.NewRejection(line, "", err))
				continue
			}
			return nil, nil, fmt.Errorf("read csv line %d: %w", line, err)
		}

		get := func(col string) string {
			i, ok := cols[col]
			if !ok || i >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[i])
		}

		m, err := rowToMedicine(get)
		if err != nil {
			rejected = append(rejected, domingest.NewRejection(line, get(colSlug), err))
			continue
		}
		if _, dup := seen[m.ID()]; dup {
			rejected = append(rejected, domingest.NewRejection(line, m.ID(),
				fmt.Errorf("duplicate slug %q: %w", m.ID(), domain.ErrInvalidInput)))
			continue
		}
		seen[m.ID()] = struct{}{}
		records = append(records, m)
	}
	return records, rejected, nil
}

func indexHeader(header []string) map[string]int {
	cols := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		if _, dup := cols[h]; !dup {
			cols[h] = i
		}
	}
	return cols
}

// rowToMedicine applies the import defaults: a generated id for rows without
// a slug, unit size 1 and price 0 when the source value has no leading number.
func rowToMedicine(get func(string) string) (medicine.Medicine, error) {
	id := get(colSlug)
	if id == "" {
		id = uuid.New().String()
	}
	m, err := medicine.New(medicine.Attrs{
		ID:           id,
		Name:         get(colName),
		GenericName:  get(colGenericName),
		Manufacturer: get(colManufacturer),
		Category:     get(colCategory),
		Strength:     get(colStrength),
		Unit:         get(colUnit),
		UnitSize:     parseUnitSize(get(colUnitSize)),
		Price:        parsePrice(get(colPrice)),
	})
	if err != nil {
		return medicine.Medicine{}, fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
	}
	return m, nil
}

func parseUnitSize(s string) int {
	n, err := strconv.Atoi(leadingInt.FindString(s))
	if err != nil || n <= 0 {
		return 1
	}
	return n
}

func parsePrice(s string) float64 {
	f, err := strconv.ParseFloat(leadingFloat.FindString(s), 64)
	if err != nil || math.IsInf(f, 0) {
		return 0
	}
	return f
}
