// Package tier turns normalized free text into ordered match tiers, most specific first.
package tier

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/kailas-cloud/medidex/internal/domain/medicine"
	"github.com/kailas-cloud/medidex/internal/domain/search/filter"
)

// ShortTextMaxRunes is the longest text handled by the short-text policy.
const ShortTextMaxRunes = 2

// Field groups, in priority order.
var (
	identityFields = []medicine.Field{
		medicine.FieldName, medicine.FieldGenericName, medicine.FieldManufacturer,
	}
	boundaryFields = []medicine.Field{
		medicine.FieldName, medicine.FieldGenericName, medicine.FieldManufacturer, medicine.FieldStrength,
	}
	containsFields = []medicine.Field{
		medicine.FieldName, medicine.FieldGenericName, medicine.FieldManufacturer,
		medicine.FieldStrength, medicine.FieldCategory,
	}
)

// Clause is one (field, match kind, term) triple of a tier.
type Clause struct {
	Field medicine.Field
	Kind  filter.MatchKind
	Term  string
}

// Tier is an OR-group of clauses.
type Tier struct {
	Name    string
	Clauses []Clause
}

// Conditions converts the tier clauses into filter conditions.
func (t Tier) Conditions() ([]filter.Condition, error) {
	out := make([]filter.Condition, 0, len(t.Clauses))
	for _, c := range t.Clauses {
		cond, err := filter.NewMatch(c.Field, c.Kind, c.Term)
		if err != nil {
			return nil, fmt.Errorf("tier %s: %w", t.Name, err)
		}
		out = append(out, cond)
	}
	return out, nil
}

// Plan returns the ordered tiers for normalized (trimmed, lower-cased) text.
// Empty text yields no tiers.
func Plan(text string) []Tier {
	if text == "" {
		return nil
	}
	if utf8.RuneCountInString(text) <= ShortTextMaxRunes {
		return []Tier{
			group("prefix", filter.Prefix, identityFields, text),
			group("word_boundary", filter.WordBoundary, boundaryFields, text),
		}
	}

	tokens := strings.Fields(text)
	if len(tokens) > 1 {
		flat := Tier{Name: "tokens", Clauses: make([]Clause, 0, len(tokens)*len(containsFields))}
		for _, tok := range tokens {
			flat.Clauses = append(flat.Clauses, group("", filter.Contains, containsFields, tok).Clauses...)
		}
		return []Tier{flat}
	}

	return []Tier{
		group("exact", filter.Exact, identityFields, text),
		group("prefix", filter.Prefix, identityFields, text),
		group("word_boundary", filter.WordBoundary, boundaryFields, text),
		group("contains", filter.Contains, containsFields, text),
	}
}

// Union flattens tiers into a single condition list, preserving tier and clause order.
func Union(tiers []Tier) ([]filter.Condition, error) {
	var out []filter.Condition
	for _, t := range tiers {
		conds, err := t.Conditions()
		if err != nil {
			return nil, err
		}
		out = append(out, conds...)
	}
	return out, nil
}

func group(name string, kind filter.MatchKind, fields []medicine.Field, term string) Tier {
	t := Tier{Name: name, Clauses: make([]Clause, len(fields))}
	for i, f := range fields {
		t.Clauses[i] = Clause{Field: f, Kind: kind, Term: term}
	}
	return t
}
