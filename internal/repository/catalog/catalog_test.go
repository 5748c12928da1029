package catalog

import (
	"context"
	"errors"
	"math"
	"slices"
	"testing"

	"github.com/kailas-cloud/medidex/internal/domain/facet"
	"github.com/kailas-cloud/medidex/internal/domain/medicine"
	"github.com/kailas-cloud/medidex/internal/domain/search/filter"
	"github.com/kailas-cloud/medidex/internal/domain/search/order"
)

func match(t *testing.T, f medicine.Field, kind filter.MatchKind, term string) filter.Condition {
	t.Helper()
	c, err := filter.NewMatch(f, kind, term)
	if err != nil {
		t.Fatalf("NewMatch: %v", err)
	}
	return c
}

func priceRange(t *testing.T, gte, lte float64) filter.Condition {
	t.Helper()
	r, err := filter.NewRangeFilter(nil, &gte, nil, &lte)
	if err != nil {
		t.Fatalf("NewRangeFilter: %v", err)
	}
	c, err := filter.NewRange(medicine.FieldPrice, r)
	if err != nil {
		t.Fatalf("NewRange: %v", err)
	}
	return c
}

func idSet(t *testing.T, ids ...string) filter.Condition {
	t.Helper()
	c, err := filter.NewIDs(ids)
	if err != nil {
		t.Fatalf("NewIDs: %v", err)
	}
	return c
}

func TestBackends_Find(t *testing.T) {
	var none filter.Expression

	tests := []struct {
		name  string
		expr  func(t *testing.T) filter.Expression
		sort  []order.Key
		skip  int
		limit int
		want  []string
	}{
		{
			name: "insertion order",
			expr: func(*testing.T) filter.Expression { return none },
			want: []string{"m1", "m2", "m3", "m4", "m5", "m6", "m7"},
		},
		{
			name: "name ascending, ties in insertion order",
			expr: func(*testing.T) filter.Expression { return none },
			sort: []order.Key{order.Asc(medicine.FieldName)},
			want: []string{"m7", "m3", "m6", "m4", "m2", "m5", "m1"},
		},
		{
			name: "name descending, ties in insertion order",
			expr: func(*testing.T) filter.Expression { return none },
			sort: []order.Key{order.Desc(medicine.FieldName)},
			want: []string{"m1", "m2", "m5", "m4", "m3", "m6", "m7"},
		},
		{
			name: "name then price descending",
			expr: func(*testing.T) filter.Expression { return none },
			sort: []order.Key{order.Asc(medicine.FieldName), order.Desc(medicine.FieldPrice)},
			want: []string{"m7", "m6", "m3", "m4", "m5", "m2", "m1"},
		},
		{
			name:  "price ascending with skip and limit",
			expr:  func(*testing.T) filter.Expression { return none },
			sort:  []order.Key{order.Asc(medicine.FieldPrice)},
			skip:  2,
			limit: 3,
			want:  []string{"m4", "m1", "m5"},
		},
		{
			name: "skip past the end",
			expr: func(*testing.T) filter.Expression { return none },
			skip: 50,
			want: []string{},
		},
		{
			name: "exact ignores case",
			expr: func(t *testing.T) filter.Expression {
				return none.WithMust(match(t, medicine.FieldName, filter.Exact, "NAPA"))
			},
			want: []string{"m2", "m5"},
		},
		{
			name: "prefix",
			expr: func(t *testing.T) filter.Expression {
				return none.WithMust(match(t, medicine.FieldName, filter.Prefix, "ace"))
			},
			want: []string{"m3", "m6"},
		},
		{
			name: "word boundary after space",
			expr: func(t *testing.T) filter.Expression {
				return none.WithMust(match(t, medicine.FieldGenericName, filter.WordBoundary, "caffeine"))
			},
			want: []string{"m3", "m6"},
		},
		{
			name: "word boundary after plus sign",
			expr: func(t *testing.T) filter.Expression {
				return none.WithMust(match(t, medicine.FieldStrength, filter.WordBoundary, "65"))
			},
			want: []string{"m3"},
		},
		{
			name: "word boundary rejects mid-word",
			expr: func(t *testing.T) filter.Expression {
				return none.WithMust(match(t, medicine.FieldGenericName, filter.WordBoundary, "prazole"))
			},
			want: []string{},
		},
		{
			name: "word boundary at start",
			expr: func(t *testing.T) filter.Expression {
				return none.WithMust(match(t, medicine.FieldManufacturer, filter.WordBoundary, "square"))
			},
			want: []string{"m1", "m3", "m6"},
		},
		{
			name: "contains mid-word",
			expr: func(t *testing.T) filter.Expression {
				return none.WithMust(match(t, medicine.FieldGenericName, filter.Contains, "prazole"))
			},
			want: []string{"m1", "m4"},
		},
		{
			name: "contains treats percent literally",
			expr: func(t *testing.T) filter.Expression {
				return none.WithMust(match(t, medicine.FieldName, filter.Contains, "50%"))
			},
			want: []string{"m7"},
		},
		{
			name: "contains treats underscore literally",
			expr: func(t *testing.T) filter.Expression {
				return none.WithMust(match(t, medicine.FieldName, filter.Contains, "a_e"))
			},
			want: []string{},
		},
		{
			name: "word boundary treats glob characters literally",
			expr: func(t *testing.T) filter.Expression {
				return none.WithMust(match(t, medicine.FieldStrength, filter.WordBoundary, "*"))
			},
			want: []string{},
		},
		{
			name: "price range inclusive",
			expr: func(t *testing.T) filter.Expression {
				return none.WithMust(priceRange(t, 2.5, 30))
			},
			want: []string{"m1", "m3", "m4", "m5"},
		},
		{
			name: "should is a union",
			expr: func(t *testing.T) filter.Expression {
				return none.WithShould(
					match(t, medicine.FieldName, filter.Exact, "seclo"),
					match(t, medicine.FieldManufacturer, filter.Contains, "renata"),
				)
			},
			want: []string{"m1", "m4"},
		},
		{
			name: "must and should combine",
			expr: func(t *testing.T) filter.Expression {
				return none.
					WithMust(match(t, medicine.FieldCategory, filter.Contains, "tablet")).
					WithShould(
						match(t, medicine.FieldName, filter.Prefix, "a"),
						match(t, medicine.FieldName, filter.Prefix, "n"),
					)
			},
			sort: []order.Key{order.Asc(medicine.FieldName)},
			want: []string{"m3", "m6", "m2"},
		},
		{
			name: "must_not excludes ids",
			expr: func(t *testing.T) filter.Expression {
				return none.
					WithShould(match(t, medicine.FieldName, filter.Prefix, "napa"),
						match(t, medicine.FieldName, filter.Prefix, "seclo")).
					WithMustNot(idSet(t, "m2", "m5"))
			},
			want: []string{"m1"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			for name, c := range backends(t) {
				seed(t, c)
				expr := tc.expr(t)

				got, err := c.Find(context.Background(), expr, tc.sort, tc.skip, tc.limit)
				if err != nil {
					t.Fatalf("%s: Find: %v", name, err)
				}
				if ids := idsOf(got); !slices.Equal(ids, tc.want) {
					t.Errorf("%s: Find = %v, want %v", name, ids, tc.want)
				}

				if tc.skip == 0 && tc.limit == 0 {
					n, err := c.Count(context.Background(), expr)
					if err != nil {
						t.Fatalf("%s: Count: %v", name, err)
					}
					if n != len(tc.want) {
						t.Errorf("%s: Count = %d, want %d", name, n, len(tc.want))
					}
				}
			}
		})
	}
}

func TestBackends_RoundTripsAttributes(t *testing.T) {
	for name, c := range backends(t) {
		seed(t, c)
		got, err := c.Find(context.Background(), filter.Expression{}, nil, 4, 1)
		if err != nil {
			t.Fatalf("%s: Find: %v", name, err)
		}
		want := testRecords()[4].Attrs()
		if len(got) != 1 || got[0].Attrs() != want {
			t.Errorf("%s: got %+v, want %+v", name, got, want)
		}
	}
}

func TestBackends_DistinctValues(t *testing.T) {
	tests := []struct {
		field medicine.Field
		want  []string
	}{
		{medicine.FieldCategory, []string{"Capsule", "IV Infusion", "Suspension", "Tablet"}},
		{medicine.FieldManufacturer, []string{"Beximco", "Opsonin", "Renata", "Square Pharmaceuticals"}},
	}

	for name, c := range backends(t) {
		seed(t, c)
		for _, tc := range tests {
			got, err := c.DistinctValues(context.Background(), tc.field)
			if err != nil {
				t.Fatalf("%s: DistinctValues(%s): %v", name, tc.field, err)
			}
			if !slices.Equal(got, tc.want) {
				t.Errorf("%s: DistinctValues(%s) = %v, want %v", name, tc.field, got, tc.want)
			}
		}
		if _, err := c.DistinctValues(context.Background(), medicine.FieldPrice); err == nil {
			t.Errorf("%s: expected error for numeric field", name)
		}
	}
}

func TestBackends_BucketCounts(t *testing.T) {
	want := []facet.Bucket{
		{Lower: 0, Upper: 10, Count: 3},
		{Lower: 10, Upper: 25, Count: 1},
		{Lower: 25, Upper: 50, Count: 1},
		{Lower: 50, Upper: 100, Count: 1},
		{Lower: 1000, Upper: math.Inf(1), Count: 1},
	}

	for name, c := range backends(t) {
		seed(t, c)
		got, err := c.BucketCounts(context.Background(), medicine.FieldPrice, facet.PriceBoundaries)
		if err != nil {
			t.Fatalf("%s: BucketCounts: %v", name, err)
		}
		if !slices.Equal(got, want) {
			t.Errorf("%s: BucketCounts = %+v, want %+v", name, got, want)
		}
	}
}

func TestBackends_BucketCountsOther(t *testing.T) {
	for name, c := range backends(t) {
		seed(t, c)
		got, err := c.BucketCounts(context.Background(), medicine.FieldPrice, []float64{5, 50})
		if err != nil {
			t.Fatalf("%s: BucketCounts: %v", name, err)
		}
		want := []facet.Bucket{{Lower: 5, Upper: 50, Count: 3}, {Other: true, Count: 4}}
		if !slices.Equal(got, want) {
			t.Errorf("%s: BucketCounts = %+v, want %+v", name, got, want)
		}
		if _, err := c.BucketCounts(context.Background(), medicine.FieldName, []float64{0, 1}); err == nil {
			t.Errorf("%s: expected error for text field", name)
		}
		if _, err := c.BucketCounts(context.Background(), medicine.FieldPrice, []float64{1}); err == nil {
			t.Errorf("%s: expected error for a single boundary", name)
		}
	}
}

func TestBackends_GroupCounts(t *testing.T) {
	for name, c := range backends(t) {
		seed(t, c)

		got, err := c.GroupCounts(context.Background(), medicine.FieldManufacturer, 2)
		if err != nil {
			t.Fatalf("%s: GroupCounts: %v", name, err)
		}
		if len(got) != 2 {
			t.Fatalf("%s: expected 2 groups, got %+v", name, got)
		}
		if got[0].Value != "Square Pharmaceuticals" || got[0].Count != 3 ||
			math.Abs(got[0].AvgPrice-1214.5/3) > 1e-9 {
			t.Errorf("%s: group 0 = %+v", name, got[0])
		}
		if got[1].Value != "Beximco" || got[1].Count != 2 || math.Abs(got[1].AvgPrice-15.5) > 1e-9 {
			t.Errorf("%s: group 1 = %+v", name, got[1])
		}

		all, err := c.GroupCounts(context.Background(), medicine.FieldCategory, 0)
		if err != nil {
			t.Fatalf("%s: GroupCounts: %v", name, err)
		}
		var values []string
		for _, g := range all {
			values = append(values, g.Value)
		}
		want := []string{"Tablet", "Capsule", "IV Infusion", "Suspension"}
		if !slices.Equal(values, want) {
			t.Errorf("%s: groups = %v, want %v", name, values, want)
		}
	}
}

func TestBackends_PriceSummary(t *testing.T) {
	for name, c := range backends(t) {
		ps, err := c.PriceSummary(context.Background())
		if err != nil {
			t.Fatalf("%s: PriceSummary on empty: %v", name, err)
		}
		if ps != (facet.PriceSummary{}) {
			t.Errorf("%s: empty catalog summary = %+v", name, ps)
		}

		seed(t, c)
		ps, err = c.PriceSummary(context.Background())
		if err != nil {
			t.Fatalf("%s: PriceSummary: %v", name, err)
		}
		if ps.Count != 7 || ps.Min != 1 || ps.Max != 1200 || math.Abs(ps.Avg-1339.5/7) > 1e-9 {
			t.Errorf("%s: PriceSummary = %+v", name, ps)
		}
	}
}

func TestBackends_ResetAndReinsert(t *testing.T) {
	ctx := context.Background()
	for name, c := range backends(t) {
		seed(t, c)
		if err := c.Reset(ctx); err != nil {
			t.Fatalf("%s: Reset: %v", name, err)
		}
		n, err := c.Count(ctx, filter.Expression{})
		if err != nil {
			t.Fatalf("%s: Count: %v", name, err)
		}
		if n != 0 {
			t.Errorf("%s: Count after reset = %d", name, n)
		}
		got, err := c.DistinctValues(ctx, medicine.FieldCategory)
		if err != nil {
			t.Fatalf("%s: DistinctValues: %v", name, err)
		}
		if got == nil || len(got) != 0 {
			t.Errorf("%s: DistinctValues after reset = %#v, want empty", name, got)
		}

		seed(t, c)
		n, err = c.Count(ctx, filter.Expression{})
		if err != nil {
			t.Fatalf("%s: Count: %v", name, err)
		}
		if n != 7 {
			t.Errorf("%s: Count after reinsert = %d", name, n)
		}
	}
}

func TestBackends_Ping(t *testing.T) {
	for name, c := range backends(t) {
		if err := c.Ping(context.Background()); err != nil {
			t.Errorf("%s: Ping: %v", name, err)
		}
	}
}

func TestInsert_DuplicateID(t *testing.T) {
	ctx := context.Background()
	for name, c := range backends(t) {
		if name == "kv" {
			continue // append-only id list; ingestion dedupes upstream
		}
		seed(t, c)
		dup := []medicine.Medicine{med("m9", "New", "", "", "", "", 1), med("m1", "Again", "", "", "", "", 1)}
		if err := c.Insert(ctx, dup); !errors.Is(err, ErrDuplicateID) {
			t.Errorf("%s: expected ErrDuplicateID, got %v", name, err)
		}
		n, _ := c.Count(ctx, filter.Expression{})
		if n != 7 {
			t.Errorf("%s: failed batch left %d records, want 7", name, n)
		}
	}
}

func TestMemory_CancelledContext(t *testing.T) {
	m := NewMemory()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := m.Find(ctx, filter.Expression{}, nil, 0, 0); !errors.Is(err, context.Canceled) {
		t.Errorf("Find: expected context.Canceled, got %v", err)
	}
	if _, err := m.Count(ctx, filter.Expression{}); !errors.Is(err, context.Canceled) {
		t.Errorf("Count: expected context.Canceled, got %v", err)
	}
	if err := m.Insert(ctx, testRecords()); !errors.Is(err, context.Canceled) {
		t.Errorf("Insert: expected context.Canceled, got %v", err)
	}
}

func TestSQL_CancelledContext(t *testing.T) {
	c := backends(t)[DriverSQLite]
	seed(t, c)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := c.Find(ctx, filter.Expression{}, nil, 0, 0); err == nil {
		t.Error("expected error for cancelled context")
	}
}
