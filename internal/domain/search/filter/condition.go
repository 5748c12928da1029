package filter

import (
	"fmt"
	"strings"

	"github.com/kailas-cloud/medidex/internal/domain/medicine"
)

// Condition is a single filter clause: a text match, a numeric range, or an id set.
type Condition struct {
	key       medicine.Field
	kind      MatchKind
	term      string
	rangeExpr *Range
	ids       []string
	idSet     map[string]struct{}
}

// NewMatch creates a case-insensitive text match condition. The term is lower-cased.
func NewMatch(key medicine.Field, kind MatchKind, term string) (Condition, error) {
	if !key.IsValid() {
		return Condition{}, fmt.Errorf("unknown filter field %q", key)
	}
	if key.IsNumeric() {
		return Condition{}, fmt.Errorf("match filter on numeric field %q", key)
	}
	if !kind.IsValid() {
		return Condition{}, fmt.Errorf("invalid match kind %q", kind)
	}
	if term == "" {
		return Condition{}, fmt.Errorf("match term is required for key %q", key)
	}
	return Condition{key: key, kind: kind, term: strings.ToLower(term)}, nil
}

// NewRange creates a numeric range condition.
func NewRange(key medicine.Field, r Range) (Condition, error) {
	if !key.IsNumeric() {
		return Condition{}, fmt.Errorf("range filter on non-numeric field %q", key)
	}
	return Condition{key: key, rangeExpr: &r}, nil
}

// NewIDs creates a condition that holds for records whose id is in ids.
// Used under must_not to exclude already-collected records.
func NewIDs(ids []string) (Condition, error) {
	if len(ids) == 0 {
		return Condition{}, fmt.Errorf("at least one id is required")
	}
	set := make(map[string]struct{}, len(ids))
	own := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, dup := set[id]; dup {
			continue
		}
		set[id] = struct{}{}
		own = append(own, id)
	}
	return Condition{key: medicine.FieldID, ids: own, idSet: set}, nil
}

// Key returns the field name.
func (c Condition) Key() medicine.Field { return c.key }

// Kind returns the match kind (empty for range and id conditions).
func (c Condition) Kind() MatchKind { return c.kind }

// Term returns the lower-cased match term.
func (c Condition) Term() string { return c.term }

// Range returns the numeric range expression.
func (c Condition) Range() *Range { return c.rangeExpr }

// IDs returns the id set in insertion order.
func (c Condition) IDs() []string { return c.ids }

// IsMatch reports whether this is a text match condition.
func (c Condition) IsMatch() bool { return c.kind != "" }

// IsRange reports whether this is a range condition.
func (c Condition) IsRange() bool { return c.rangeExpr != nil }

// IsIDs reports whether this is an id set condition.
func (c Condition) IsIDs() bool { return c.idSet != nil }

// Matches evaluates the condition against a record.
func (c Condition) Matches(m *medicine.Medicine) bool {
	switch {
	case c.IsMatch():
		return MatchString(c.kind, m.Text(c.key), c.term)
	case c.IsRange():
		v, ok := m.Number(c.key)
		return ok && c.rangeExpr.Contains(v)
	case c.IsIDs():
		_, ok := c.idSet[m.ID()]
		return ok
	}
	return false
}

// Range is a numeric range with gt/gte/lt/lte boundaries.
type Range struct {
	gt  *float64
	gte *float64
	lt  *float64
	lte *float64
}

// NewRangeFilter validates and creates a Range.
// At least one boundary required. gt/gte and lt/lte are mutually exclusive.
func NewRangeFilter(gt, gte, lt, lte *float64) (Range, error) {
	if gt == nil && gte == nil && lt == nil && lte == nil {
		return Range{}, fmt.Errorf("at least one range boundary is required")
	}
	if gt != nil && gte != nil {
		return Range{}, fmt.Errorf("cannot specify both gt and gte")
	}
	if lt != nil && lte != nil {
		return Range{}, fmt.Errorf("cannot specify both lt and lte")
	}
	return Range{gt: gt, gte: gte, lt: lt, lte: lte}, nil
}

// GT returns the lower exclusive bound.
func (r Range) GT() *float64 { return r.gt }

// GTE returns the lower inclusive bound.
func (r Range) GTE() *float64 { return r.gte }

// LT returns the upper exclusive bound.
func (r Range) LT() *float64 { return r.lt }

// LTE returns the upper inclusive bound.
func (r Range) LTE() *float64 { return r.lte }

// Contains reports whether v satisfies every boundary.
func (r Range) Contains(v float64) bool {
	if r.gt != nil && v <= *r.gt {
		return false
	}
	if r.gte != nil && v < *r.gte {
		return false
	}
	if r.lt != nil && v >= *r.lt {
		return false
	}
	if r.lte != nil && v > *r.lte {
		return false
	}
	return true
}
