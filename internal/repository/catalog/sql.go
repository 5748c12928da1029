package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/kailas-cloud/medidex/internal/db"
	"github.com/kailas-cloud/medidex/internal/domain/facet"
	"github.com/kailas-cloud/medidex/internal/domain/medicine"
	"github.com/kailas-cloud/medidex/internal/domain/search/filter"
	"github.com/kailas-cloud/medidex/internal/domain/search/order"
)

const selectColumns = `id, name, generic_name, manufacturer, category, strength, unit, unit_size, price`

// SQL is a catalog over the sqlite medicines table. Predicates compile to SQL.
type SQL struct {
	db *sql.DB
}

// NewSQL creates a catalog over an opened, migrated database.
func NewSQL(conn *sql.DB) *SQL {
	return &SQL{db: conn}
}

// Ping checks the database connection.
func (s *SQL) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Reset deletes every record.
func (s *SQL) Reset(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM medicines"); err != nil {
		return &db.Error{Op: db.OpExec, Err: fmt.Errorf("reset medicines: %w", err)}
	}
	return nil
}

// Insert stores records in one transaction. A repeated id fails the whole batch.
func (s *SQL) Insert(ctx context.Context, records []medicine.Medicine) error {
	if len(records) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return &db.Error{Op: db.OpExec, Err: fmt.Errorf("begin: %w", err)}
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO medicines (`+selectColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return &db.Error{Op: db.OpExec, Err: fmt.Errorf("prepare insert: %w", err)}
	}
	defer stmt.Close()

	for i := range records {
		m := &records[i]
		_, err := stmt.ExecContext(ctx, m.ID(), m.Name(), m.GenericName(), m.Manufacturer(),
			m.Category(), m.Strength(), m.Unit(), m.UnitSize(), m.Price())
		if err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("insert %s: %w", m.ID(), ErrDuplicateID)
			}
			return &db.Error{Op: db.OpExec, Err: fmt.Errorf("insert %s: %w", m.ID(), err)}
		}
	}
	if err := tx.Commit(); err != nil {
		return &db.Error{Op: db.OpExec, Err: fmt.Errorf("commit: %w", err)}
	}
	return nil
}

// Find returns matching records in sort order, ties in insertion order.
func (s *SQL) Find(
	ctx context.Context, expr filter.Expression,
	sortKeys []order.Key, skip, limit int,
) ([]medicine.Medicine, error) {
	where, args, err := buildWhere(expr)
	if err != nil {
		return nil, fmt.Errorf("compile predicate: %w", err)
	}
	orderBy, err := buildOrderBy(sortKeys)
	if err != nil {
		return nil, fmt.Errorf("compile sort: %w", err)
	}
	if limit <= 0 {
		limit = -1
	}
	q := `SELECT ` + selectColumns + ` FROM medicines WHERE ` + where +
		` ORDER BY ` + orderBy + ` LIMIT ? OFFSET ?`
	args = append(args, limit, max(skip, 0))

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, &db.Error{Op: db.OpQuery, Err: err}
	}
	defer rows.Close()

	out := []medicine.Medicine{}
	for rows.Next() {
		var a medicine.Attrs
		if err := rows.Scan(&a.ID, &a.Name, &a.GenericName, &a.Manufacturer,
			&a.Category, &a.Strength, &a.Unit, &a.UnitSize, &a.Price); err != nil {
			return nil, &db.Error{Op: db.OpQuery, Err: fmt.Errorf("scan: %w", err)}
		}
		out = append(out, medicine.Reconstruct(a))
	}
	if err := rows.Err(); err != nil {
		return nil, &db.Error{Op: db.OpQuery, Err: err}
	}
	return out, nil
}

// Count returns the number of matching records.
func (s *SQL) Count(ctx context.Context, expr filter.Expression) (int, error) {
	where, args, err := buildWhere(expr)
	if err != nil {
		return 0, fmt.Errorf("compile predicate: %w", err)
	}
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM medicines WHERE `+where, args...).Scan(&n); err != nil {
		return 0, &db.Error{Op: db.OpQuery, Err: err}
	}
	return n, nil
}

// DistinctValues returns the sorted non-empty values of a text field.
func (s *SQL) DistinctValues(ctx context.Context, f medicine.Field) ([]string, error) {
	if f.IsNumeric() {
		return nil, fmt.Errorf("distinct values over %q: not a text field", f)
	}
	col, err := column(f)
	if err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT DISTINCT `+col+` FROM medicines WHERE `+col+` <> '' ORDER BY `+col)
	if err != nil {
		return nil, &db.Error{Op: db.OpQuery, Err: err}
	}
	defer rows.Close()

	out := []string{}
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, &db.Error{Op: db.OpQuery, Err: err}
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, &db.Error{Op: db.OpQuery, Err: err}
	}
	return out, nil
}

// BucketCounts counts records per numeric range in one grouped query.
func (s *SQL) BucketCounts(ctx context.Context, f medicine.Field, boundaries []float64) ([]facet.Bucket, error) {
	if !f.IsNumeric() {
		return nil, fmt.Errorf("bucket counts over %q: not a numeric field", f)
	}
	if err := facet.ValidateBoundaries(boundaries); err != nil {
		return nil, err
	}
	col, err := column(f)
	if err != nil {
		return nil, err
	}

	var (
		sb   strings.Builder
		args []any
	)
	sb.WriteString("SELECT CASE")
	for i := 0; i+1 < len(boundaries); i++ {
		lo, hi := boundaries[i], boundaries[i+1]
		sb.WriteString(" WHEN " + col + " >= ?")
		args = append(args, lo)
		if !math.IsInf(hi, 1) {
			sb.WriteString(" AND " + col + " < ?")
			args = append(args, hi)
		}
		sb.WriteString(" THEN " + strconv.Itoa(i))
	}
	sb.WriteString(" ELSE -1 END AS bucket, COUNT(*) FROM medicines GROUP BY bucket")

	rows, err := s.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, &db.Error{Op: db.OpQuery, Err: err}
	}
	defer rows.Close()

	counts := make(map[int]int)
	for rows.Next() {
		var idx, n int
		if err := rows.Scan(&idx, &n); err != nil {
			return nil, &db.Error{Op: db.OpQuery, Err: err}
		}
		counts[idx] = n
	}
	if err := rows.Err(); err != nil {
		return nil, &db.Error{Op: db.OpQuery, Err: err}
	}
	return facet.Buckets(boundaries, counts), nil
}

// GroupCounts returns the largest groups of a text field (limit <= 0 means all).
func (s *SQL) GroupCounts(ctx context.Context, f medicine.Field, limit int) ([]facet.Group, error) {
	if f.IsNumeric() {
		return nil, fmt.Errorf("group counts over %q: not a text field", f)
	}
	col, err := column(f)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+col+`, COUNT(*) AS n, AVG(price) FROM medicines GROUP BY `+col+
			` ORDER BY n DESC, `+col+` LIMIT ?`, limit)
	if err != nil {
		return nil, &db.Error{Op: db.OpQuery, Err: err}
	}
	defer rows.Close()

	out := []facet.Group{}
	for rows.Next() {
		var g facet.Group
		if err := rows.Scan(&g.Value, &g.Count, &g.AvgPrice); err != nil {
			return nil, &db.Error{Op: db.OpQuery, Err: err}
		}
		out = append(out, g)
	}
	if err := rows.Err(); err != nil {
		return nil, &db.Error{Op: db.OpQuery, Err: err}
	}
	return out, nil
}

// PriceSummary returns min/max/avg price.
func (s *SQL) PriceSummary(ctx context.Context) (facet.PriceSummary, error) {
	var ps facet.PriceSummary
	row := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(MIN(price), 0), COALESCE(MAX(price), 0), COALESCE(AVG(price), 0) FROM medicines`)
	if err := row.Scan(&ps.Count, &ps.Min, &ps.Max, &ps.Avg); err != nil {
		return facet.PriceSummary{}, &db.Error{Op: db.OpQuery, Err: err}
	}
	return ps, nil
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
