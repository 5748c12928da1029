package catalog

import (
	"fmt"
	"strings"

	"github.com/kailas-cloud/medidex/internal/domain/medicine"
	"github.com/kailas-cloud/medidex/internal/domain/search/filter"
	"github.com/kailas-cloud/medidex/internal/domain/search/order"
)

// SQLite's lower() folds ASCII only, so non-ASCII letters compare case-sensitively
// on this backend, and GLOB's [^a-z0-9] treats them as word boundaries.

// column returns the quoted column for a field. Field values are column names.
func column(f medicine.Field) (string, error) {
	if !f.IsValid() {
		return "", fmt.Errorf("unknown field %q", f)
	}
	return `"` + string(f) + `"`, nil
}

// buildWhere compiles an expression into a WHERE clause (without the keyword)
// and its bind arguments. An empty expression compiles to "1".
func buildWhere(expr filter.Expression) (string, []any, error) {
	var (
		parts []string
		args  []any
	)

	for _, c := range expr.Must() {
		sql, a, err := buildCondition(c)
		if err != nil {
			return "", nil, err
		}
		parts = append(parts, sql)
		args = append(args, a...)
	}

	if should := expr.Should(); len(should) > 0 {
		ors := make([]string, 0, len(should))
		for _, c := range should {
			sql, a, err := buildCondition(c)
			if err != nil {
				return "", nil, err
			}
			ors = append(ors, sql)
			args = append(args, a...)
		}
		parts = append(parts, "("+strings.Join(ors, " OR ")+")")
	}

	for _, c := range expr.MustNot() {
		sql, a, err := buildCondition(c)
		if err != nil {
			return "", nil, err
		}
		parts = append(parts, "NOT "+sql)
		args = append(args, a...)
	}

	if len(parts) == 0 {
		return "1", nil, nil
	}
	return strings.Join(parts, " AND "), args, nil
}

func buildCondition(c filter.Condition) (string, []any, error) {
	col, err := column(c.Key())
	if err != nil {
		return "", nil, err
	}
	switch {
	case c.IsMatch():
		return buildMatch(col, c.Kind(), c.Term())
	case c.IsRange():
		return buildRange(col, c.Range())
	case c.IsIDs():
		ids := c.IDs()
		args := make([]any, len(ids))
		for i, id := range ids {
			args[i] = id
		}
		return col + " IN (" + placeholders(len(ids)) + ")", args, nil
	}
	return "", nil, fmt.Errorf("empty condition on %q", c.Key())
}

func buildMatch(col string, kind filter.MatchKind, term string) (string, []any, error) {
	lc := "lower(" + col + ")"
	switch kind {
	case filter.Exact:
		return lc + " = ?", []any{term}, nil
	case filter.Prefix:
		return lc + ` LIKE ? ESCAPE '\'`, []any{escapeLike(term) + "%"}, nil
	case filter.Contains:
		return lc + ` LIKE ? ESCAPE '\'`, []any{"%" + escapeLike(term) + "%"}, nil
	case filter.WordBoundary:
		sql := "(" + lc + ` LIKE ? ESCAPE '\' OR ` + lc + " GLOB ?)"
		return sql, []any{escapeLike(term) + "%", "*[^a-z0-9]" + escapeGlob(term) + "*"}, nil
	}
	return "", nil, fmt.Errorf("unsupported match kind %q", kind)
}

func buildRange(col string, r *filter.Range) (string, []any, error) {
	var (
		parts []string
		args  []any
	)
	add := func(op string, v *float64) {
		if v != nil {
			parts = append(parts, col+" "+op+" ?")
			args = append(args, *v)
		}
	}
	add(">", r.GT())
	add(">=", r.GTE())
	add("<", r.LT())
	add("<=", r.LTE())
	if len(parts) == 0 {
		return "", nil, fmt.Errorf("range on %s has no bounds", col)
	}
	return "(" + strings.Join(parts, " AND ") + ")", args, nil
}

// buildOrderBy renders ORDER BY keys with seq as the final tiebreaker.
func buildOrderBy(keys []order.Key) (string, error) {
	parts := make([]string, 0, len(keys)+1)
	for _, k := range keys {
		col, err := column(k.Field)
		if err != nil {
			return "", err
		}
		if k.Descending {
			col += " DESC"
		}
		parts = append(parts, col)
	}
	parts = append(parts, "seq")
	return strings.Join(parts, ", "), nil
}

func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat("?, ", n-1) + "?"
}

var (
	likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	globEscaper = strings.NewReplacer(`[`, `[[]`, `*`, `[*]`, `?`, `[?]`)
)

func escapeLike(s string) string { return likeEscaper.Replace(s) }
func escapeGlob(s string) string { return globEscaper.Replace(s) }
