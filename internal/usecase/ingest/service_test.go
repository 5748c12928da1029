package ingest

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/kailas-cloud/medidex/internal/domain/medicine"
	"github.com/kailas-cloud/medidex/internal/domain/search/filter"
	repo "github.com/kailas-cloud/medidex/internal/repository/catalog"
)

// --- Mocks ---

type mockWriter struct {
	resets    int
	batches   [][]medicine.Medicine
	resetErr  error
	insertErr error
	failAt    int // 1-based batch that fails; 0 = never
}

func (m *mockWriter) Reset(_ context.Context) error {
	m.resets++
	return m.resetErr
}

func (m *mockWriter) Insert(_ context.Context, records []medicine.Medicine) error {
	if m.failAt > 0 && len(m.batches)+1 == m.failAt {
		return m.insertErr
	}
	m.batches = append(m.batches, records)
	return nil
}

// --- Helpers ---

func csvRows(n int) string {
	var b strings.Builder
	b.WriteString(header)
	for i := range n {
		fmt.Fprintf(&b, "Med %d,Tablet,med-%d,Generic,,Acme,Strip,10,%d\n", i, i, i)
	}
	return b.String()
}

// --- Tests ---

func TestImport_Batches(t *testing.T) {
	w := &mockWriter{}
	svc := New(w, zap.NewNop()).WithBatchSize(2)

	report, err := svc.Import(context.Background(), strings.NewReader(csvRows(5)))
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if w.resets != 1 {
		t.Errorf("expected 1 reset, got %d", w.resets)
	}
	if len(w.batches) != 3 || len(w.batches[0]) != 2 || len(w.batches[2]) != 1 {
		t.Errorf("unexpected batch shape: %d batches", len(w.batches))
	}
	if report.Rows != 5 || report.Imported != 5 || report.Batches != 3 || report.Skipped() != 0 {
		t.Errorf("unexpected report: %+v", report)
	}
	if w.batches[1][0].ID() != "med-2" {
		t.Errorf("batches out of order: %q", w.batches[1][0].ID())
	}
}

func TestImport_DefaultBatchSize(t *testing.T) {
	w := &mockWriter{}
	svc := New(w, nil).WithBatchSize(0)

	report, err := svc.Import(context.Background(), strings.NewReader(csvRows(DefaultBatchSize+1)))
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if report.Batches != 2 || len(w.batches[0]) != DefaultBatchSize {
		t.Errorf("expected batches of %d, got %d batches", DefaultBatchSize, report.Batches)
	}
}

func TestImport_ReportsSkippedRows(t *testing.T) {
	in := csvRows(2) + ",Tablet,broken,,,,Strip,1,1\n"
	report, err := New(&mockWriter{}, zap.NewNop()).Import(context.Background(), strings.NewReader(in))
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if report.Rows != 3 || report.Imported != 2 || report.Skipped() != 1 {
		t.Errorf("unexpected report: %+v", report)
	}
}

func TestImport_ParseFailureKeepsCatalog(t *testing.T) {
	w := &mockWriter{}
	_, err := New(w, zap.NewNop()).Import(context.Background(), strings.NewReader("slug\nx\n"))
	if err == nil {
		t.Fatal("expected error")
	}
	if w.resets != 0 {
		t.Error("catalog must not be reset when the file cannot be parsed")
	}
}

func TestImport_WriterErrors(t *testing.T) {
	boom := errors.New("connection refused")

	_, err := New(&mockWriter{resetErr: boom}, nil).Import(context.Background(), strings.NewReader(csvRows(1)))
	if !errors.Is(err, boom) {
		t.Errorf("reset: expected boom, got %v", err)
	}

	w := &mockWriter{insertErr: boom, failAt: 2}
	report, err := New(w, nil).WithBatchSize(1).Import(context.Background(), strings.NewReader(csvRows(3)))
	if !errors.Is(err, boom) {
		t.Errorf("insert: expected boom, got %v", err)
	}
	if report.Imported != 1 || report.Batches != 1 {
		t.Errorf("expected progress up to the failed batch, got %+v", report)
	}
}

func TestImportFile_IntoMemoryCatalog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "medicines.csv")
	if err := os.WriteFile(path, []byte(csvRows(4)), 0o600); err != nil {
		t.Fatal(err)
	}

	c := repo.NewMemory()
	svc := New(c, zap.NewNop()).WithBatchSize(3)

	// importing twice replaces rather than duplicates
	for range 2 {
		if _, err := svc.ImportFile(context.Background(), path); err != nil {
			t.Fatalf("ImportFile: %v", err)
		}
	}
	n, err := c.Count(context.Background(), filter.Expression{})
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if n != 4 {
		t.Errorf("expected 4 records, got %d", n)
	}
}

func TestImportFile_Missing(t *testing.T) {
	_, err := New(&mockWriter{}, nil).ImportFile(context.Background(), filepath.Join(t.TempDir(), "nope.csv"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected ErrNotExist, got %v", err)
	}
}
