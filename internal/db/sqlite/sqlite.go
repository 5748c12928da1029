// Package sqlite opens the sqlite database backing the catalog and applies
// its schema migrations.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/kailas-cloud/medidex/internal/db"
	"github.com/kailas-cloud/medidex/internal/db/sqlite/migrations"
)

// Open opens (creating if needed) the database at path, enables WAL and
// applies pending migrations.
func Open(ctx context.Context, path string) (*sql.DB, error) {
	if path == "" {
		return nil, fmt.Errorf("sqlite path is required")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("creating data directory: %w", err)
		}
	}

	conn, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := Migrate(ctx, conn, migrations.FS); err != nil {
		_ = conn.Close()
		return nil, err
	}
	return conn, nil
}

// Migrate applies every NNN_name.up.sql in fsys newer than the recorded version.
func Migrate(ctx context.Context, conn *sql.DB, fsys fs.FS) error {
	_, err := conn.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version    INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return &db.Error{Op: db.OpMigrate, Err: fmt.Errorf("creating schema_migrations table: %w", err)}
	}

	var current int
	row := conn.QueryRowContext(ctx, "SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&current); err != nil {
		return &db.Error{Op: db.OpMigrate, Err: fmt.Errorf("getting current version: %w", err)}
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return &db.Error{Op: db.OpMigrate, Err: fmt.Errorf("reading migrations: %w", err)}
	}
	var upFiles []string
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".up.sql") {
			upFiles = append(upFiles, e.Name())
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= current {
			continue
		}
		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return &db.Error{Op: db.OpMigrate, Err: fmt.Errorf("reading %s: %w", name, err)}
		}
		if err := apply(ctx, conn, version, string(content)); err != nil {
			return &db.Error{Op: db.OpMigrate, Err: fmt.Errorf("applying %s: %w", name, err)}
		}
	}
	return nil
}

func apply(ctx context.Context, conn *sql.DB, version int, stmt string) error {
	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, stmt); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, "INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
		return err
	}
	return tx.Commit()
}
