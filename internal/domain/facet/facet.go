// Package facet holds catalog aggregate value types: group counts, price buckets, price summary.
package facet

import (
	"fmt"
	"math"
	"sort"
	"strconv"
)

// Group is a distinct field value with its record count and average price.
type Group struct {
	Value    string
	Count    int
	AvgPrice float64
}

// PriceSummary aggregates price over the whole catalog.
type PriceSummary struct {
	Count int
	Min   float64
	Max   float64
	Avg   float64
}

// Bucket counts records whose value falls in [Lower, Upper).
// Other collects values outside every boundary.
type Bucket struct {
	Lower float64
	Upper float64
	Other bool
	Count int
}

// OtherLabel names the overflow bucket.
const OtherLabel = "Other"

// Label renders the bucket as "lower-upper", "lower+" for an open top, or Other.
func (b Bucket) Label() string {
	if b.Other {
		return OtherLabel
	}
	lo := strconv.FormatFloat(b.Lower, 'f', -1, 64)
	if math.IsInf(b.Upper, 1) {
		return lo + "+"
	}
	return lo + "-" + strconv.FormatFloat(b.Upper, 'f', -1, 64)
}

// PriceBoundaries are the default stats price buckets.
var PriceBoundaries = []float64{0, 10, 25, 50, 100, 250, 500, 1000, math.Inf(1)}

// ValidateBoundaries requires at least two strictly increasing, non-NaN boundaries.
func ValidateBoundaries(boundaries []float64) error {
	if len(boundaries) < 2 {
		return fmt.Errorf("at least two bucket boundaries are required, got %d", len(boundaries))
	}
	for i, b := range boundaries {
		if math.IsNaN(b) {
			return fmt.Errorf("bucket boundary %d is NaN", i)
		}
		if i > 0 && b <= boundaries[i-1] {
			return fmt.Errorf("bucket boundaries must be strictly increasing at %d", i)
		}
	}
	return nil
}

// BucketIndex returns the bucket v falls into, or -1 for Other.
func BucketIndex(boundaries []float64, v float64) int {
	if len(boundaries) < 2 || math.IsNaN(v) || v < boundaries[0] || v >= boundaries[len(boundaries)-1] {
		return -1
	}
	// first boundary strictly greater than v closes v's bucket
	i := sort.Search(len(boundaries), func(i int) bool { return boundaries[i] > v })
	return i - 1
}

// Buckets materializes per-index counts (index -1 is Other) into non-empty
// buckets in boundary order, Other last.
func Buckets(boundaries []float64, counts map[int]int) []Bucket {
	out := make([]Bucket, 0, len(counts))
	for i := 0; i+1 < len(boundaries); i++ {
		if n := counts[i]; n > 0 {
			out = append(out, Bucket{Lower: boundaries[i], Upper: boundaries[i+1], Count: n})
		}
	}
	if n := counts[-1]; n > 0 {
		out = append(out, Bucket{Other: true, Count: n})
	}
	return out
}

// SortGroups orders groups by count descending, then value ascending.
func SortGroups(groups []Group) {
	sort.SliceStable(groups, func(i, j int) bool {
		if groups[i].Count != groups[j].Count {
			return groups[i].Count > groups[j].Count
		}
		return groups[i].Value < groups[j].Value
	})
}
