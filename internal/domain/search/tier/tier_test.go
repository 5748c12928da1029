package tier

import (
	"testing"

	"github.com/kailas-cloud/medidex/internal/domain/medicine"
	"github.com/kailas-cloud/medidex/internal/domain/search/filter"
)

func fieldsOf(t Tier) []medicine.Field {
	out := make([]medicine.Field, len(t.Clauses))
	for i, c := range t.Clauses {
		out[i] = c.Field
	}
	return out
}

func equalFields(a, b []medicine.Field) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func assertTier(t *testing.T, got Tier, kind filter.MatchKind, term string, fields []medicine.Field) {
	t.Helper()
	if !equalFields(fieldsOf(got), fields) {
		t.Errorf("tier %s fields = %v, want %v", got.Name, fieldsOf(got), fields)
	}
	for _, c := range got.Clauses {
		if c.Kind != kind {
			t.Errorf("tier %s clause %s kind = %s, want %s", got.Name, c.Field, c.Kind, kind)
		}
		if c.Term != term {
			t.Errorf("tier %s clause %s term = %q, want %q", got.Name, c.Field, c.Term, term)
		}
	}
}

func TestPlan_Empty(t *testing.T) {
	if tiers := Plan(""); tiers != nil {
		t.Fatalf("expected no tiers, got %d", len(tiers))
	}
}

func TestPlan_ShortText(t *testing.T) {
	for _, text := range []string{"n", "na", "é1"} {
		t.Run(text, func(t *testing.T) {
			tiers := Plan(text)
			if len(tiers) != 2 {
				t.Fatalf("expected 2 tiers, got %d", len(tiers))
			}
			assertTier(t, tiers[0], filter.Prefix, text, identityFields)
			assertTier(t, tiers[1], filter.WordBoundary, text, boundaryFields)
		})
	}
}

func TestPlan_SingleWord(t *testing.T) {
	tiers := Plan("napa")
	if len(tiers) != 4 {
		t.Fatalf("expected 4 tiers, got %d", len(tiers))
	}
	assertTier(t, tiers[0], filter.Exact, "napa", []medicine.Field{
		medicine.FieldName, medicine.FieldGenericName, medicine.FieldManufacturer,
	})
	assertTier(t, tiers[1], filter.Prefix, "napa", []medicine.Field{
		medicine.FieldName, medicine.FieldGenericName, medicine.FieldManufacturer,
	})
	assertTier(t, tiers[2], filter.WordBoundary, "napa", []medicine.Field{
		medicine.FieldName, medicine.FieldGenericName, medicine.FieldManufacturer, medicine.FieldStrength,
	})
	assertTier(t, tiers[3], filter.Contains, "napa", []medicine.Field{
		medicine.FieldName, medicine.FieldGenericName, medicine.FieldManufacturer,
		medicine.FieldStrength, medicine.FieldCategory,
	})
}

func TestPlan_ThreeRunesIsSingleWord(t *testing.T) {
	if got := len(Plan("ace")); got != 4 {
		t.Fatalf("expected 4 tiers for 3-rune text, got %d", got)
	}
}

func TestPlan_MultiWord(t *testing.T) {
	tiers := Plan("napa  extra 500")
	if len(tiers) != 1 {
		t.Fatalf("expected a single flat tier, got %d", len(tiers))
	}
	clauses := tiers[0].Clauses
	if len(clauses) != 3*len(containsFields) {
		t.Fatalf("expected %d clauses, got %d", 3*len(containsFields), len(clauses))
	}
	wantTerms := []string{"napa", "extra", "500"}
	for i, c := range clauses {
		tok := wantTerms[i/len(containsFields)]
		if c.Term != tok {
			t.Errorf("clause %d term = %q, want %q", i, c.Term, tok)
		}
		if c.Kind != filter.Contains {
			t.Errorf("clause %d kind = %s, want contains", i, c.Kind)
		}
		if c.Field != containsFields[i%len(containsFields)] {
			t.Errorf("clause %d field = %s, want %s", i, c.Field, containsFields[i%len(containsFields)])
		}
	}
}

func TestUnion_PreservesOrder(t *testing.T) {
	conds, err := Union(Plan("napa"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(conds) != 3+3+4+5 {
		t.Fatalf("expected 15 conditions, got %d", len(conds))
	}
	if conds[0].Kind() != filter.Exact || conds[len(conds)-1].Kind() != filter.Contains {
		t.Errorf("union order broken: first=%s last=%s", conds[0].Kind(), conds[len(conds)-1].Kind())
	}
	if conds[len(conds)-1].Key() != medicine.FieldCategory {
		t.Errorf("last clause field = %s, want category", conds[len(conds)-1].Key())
	}
}
