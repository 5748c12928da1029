package catalog

import (
	"fmt"
	"slices"

	"github.com/kailas-cloud/medidex/internal/domain/facet"
	"github.com/kailas-cloud/medidex/internal/domain/medicine"
	"github.com/kailas-cloud/medidex/internal/domain/search/filter"
	"github.com/kailas-cloud/medidex/internal/domain/search/order"
)

// The functions below evaluate catalog reads over an in-process snapshot kept
// in insertion order. The memory and kv backends share them.

func scanFind(
	records []medicine.Medicine, expr filter.Expression,
	sortKeys []order.Key, skip, limit int,
) []medicine.Medicine {
	var out []medicine.Medicine
	for i := range records {
		if expr.Matches(&records[i]) {
			out = append(out, records[i])
		}
	}
	if len(sortKeys) > 0 {
		slices.SortStableFunc(out, func(a, b medicine.Medicine) int {
			return order.Compare(&a, &b, sortKeys)
		})
	}
	skip = max(skip, 0)
	if skip >= len(out) {
		return []medicine.Medicine{}
	}
	out = out[skip:]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out
}

func scanCount(records []medicine.Medicine, expr filter.Expression) int {
	if expr.IsEmpty() {
		return len(records)
	}
	n := 0
	for i := range records {
		if expr.Matches(&records[i]) {
			n++
		}
	}
	return n
}

// scanDistinct returns the sorted non-empty values of a text field.
func scanDistinct(records []medicine.Medicine, f medicine.Field) ([]string, error) {
	if !f.IsValid() || f.IsNumeric() {
		return nil, fmt.Errorf("distinct values over %q: not a text field", f)
	}
	seen := make(map[string]struct{})
	out := []string{}
	for i := range records {
		v := records[i].Text(f)
		if v == "" {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	slices.Sort(out)
	return out, nil
}

func scanBuckets(records []medicine.Medicine, f medicine.Field, boundaries []float64) ([]facet.Bucket, error) {
	if !f.IsNumeric() {
		return nil, fmt.Errorf("bucket counts over %q: not a numeric field", f)
	}
	if err := facet.ValidateBoundaries(boundaries); err != nil {
		return nil, err
	}
	counts := make(map[int]int)
	for i := range records {
		v, _ := records[i].Number(f)
		counts[facet.BucketIndex(boundaries, v)]++
	}
	return facet.Buckets(boundaries, counts), nil
}

// scanGroups returns the limit largest groups of a text field (limit <= 0 means all).
func scanGroups(records []medicine.Medicine, f medicine.Field, limit int) ([]facet.Group, error) {
	if !f.IsValid() || f.IsNumeric() {
		return nil, fmt.Errorf("group counts over %q: not a text field", f)
	}
	type acc struct {
		count int
		sum   float64
	}
	byValue := make(map[string]*acc)
	for i := range records {
		v := records[i].Text(f)
		a, ok := byValue[v]
		if !ok {
			a = &acc{}
			byValue[v] = a
		}
		a.count++
		a.sum += records[i].Price()
	}

	groups := make([]facet.Group, 0, len(byValue))
	for v, a := range byValue {
		groups = append(groups, facet.Group{Value: v, Count: a.count, AvgPrice: a.sum / float64(a.count)})
	}
	facet.SortGroups(groups)
	if limit > 0 && limit < len(groups) {
		groups = groups[:limit]
	}
	return groups, nil
}

func scanPriceSummary(records []medicine.Medicine) facet.PriceSummary {
	if len(records) == 0 {
		return facet.PriceSummary{}
	}
	s := facet.PriceSummary{Count: len(records), Min: records[0].Price(), Max: records[0].Price()}
	sum := 0.0
	for i := range records {
		p := records[i].Price()
		s.Min = min(s.Min, p)
		s.Max = max(s.Max, p)
		sum += p
	}
	s.Avg = sum / float64(len(records))
	return s
}
