package medidex

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	healthuc "github.com/kailas-cloud/medidex/internal/usecase/health"
)

const sampleCSV = `medicine_name,category_name,slug,generic_name,strength,manufacturer_name,unit,unit_size,price
Napa 500,Tablet,napa-500,Paracetamol,500 mg,Beximco Pharmaceuticals Ltd.,Strip,10,12.5
Napa Extra,Tablet,napa-extra,Paracetamol + Caffeine,500 mg+65 mg,Beximco Pharmaceuticals Ltd.,Strip,10,25
Seclo 20,Capsule,seclo-20,Omeprazole,20 mg,Square Pharmaceuticals PLC,Strip,10,60
Broken,Tablet,broken,X,1 mg,Nobody,Strip,10,-5
`

func newSeeded(t *testing.T, opts ...Option) *Client {
	t.Helper()
	c, err := New(context.Background(), opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(c.Close)

	report, err := c.Import(context.Background(), strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if report.Imported != 3 {
		t.Fatalf("imported = %d, want 3", report.Imported)
	}
	return c
}

func TestNew_DefaultsToMemory(t *testing.T) {
	c, err := New(context.Background())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer c.Close()

	h := c.Health(context.Background())
	if h.Status != "ok" {
		t.Errorf("status = %q, want ok", h.Status)
	}
	if h.Checks[healthuc.CatalogCheck] != "ok" {
		t.Errorf("checks = %v", h.Checks)
	}
}

func TestNew_SQLiteWithoutPath(t *testing.T) {
	if _, err := New(context.Background(), WithSQLite("")); err == nil {
		t.Fatal("expected error for sqlite without path")
	}
}

func TestImport_ReportsRejectedRows(t *testing.T) {
	c, err := New(context.Background())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer c.Close()

	report, err := c.Import(context.Background(), strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if report.Rows != 4 {
		t.Errorf("rows = %d, want 4", report.Rows)
	}
	if len(report.Rejected) != 1 {
		t.Fatalf("rejected = %d, want 1", len(report.Rejected))
	}
	if r := report.Rejected[0]; r.Line != 5 || r.Slug != "broken" || r.Reason == "" {
		t.Errorf("rejected row = %+v", r)
	}
}

func TestImport_InvalidHeader(t *testing.T) {
	c, err := New(context.Background())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer c.Close()

	_, err = c.Import(context.Background(), strings.NewReader("name,price\nx,1\n"))
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}
}

func TestSearch_ListsAllByName(t *testing.T) {
	c := newSeeded(t)

	p, err := c.Search(context.Background(), Query{})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if p.Total != 3 || p.Page != 1 || p.Pages != 1 {
		t.Errorf("pagination = %+v", p)
	}
	want := []string{"Napa 500", "Napa Extra", "Seclo 20"}
	if len(p.Medicines) != len(want) {
		t.Fatalf("got %d medicines, want %d", len(p.Medicines), len(want))
	}
	for i, name := range want {
		if p.Medicines[i].Name != name {
			t.Errorf("medicines[%d] = %q, want %q", i, p.Medicines[i].Name, name)
		}
	}
}

func TestSearch_FreeText(t *testing.T) {
	c := newSeeded(t)

	p, err := c.Search(context.Background(), Query{Search: "napa"})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(p.Medicines) != 2 {
		t.Fatalf("got %d medicines, want 2", len(p.Medicines))
	}
	for _, m := range p.Medicines {
		if !strings.HasPrefix(m.Name, "Napa") {
			t.Errorf("unexpected match %q", m.Name)
		}
	}
}

func TestSearch_FiltersAndSort(t *testing.T) {
	c := newSeeded(t)

	p, err := c.Search(context.Background(), Query{
		Category:   "tablet",
		MinPrice:   Price(10),
		MaxPrice:   Price(30),
		SortBy:     SortByPrice,
		Descending: true,
	})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(p.Medicines) != 2 {
		t.Fatalf("got %d medicines, want 2", len(p.Medicines))
	}
	if p.Medicines[0].ID != "napa-extra" || p.Medicines[1].ID != "napa-500" {
		t.Errorf("order = %s, %s", p.Medicines[0].ID, p.Medicines[1].ID)
	}
}

func TestSearch_Paging(t *testing.T) {
	c := newSeeded(t)

	p, err := c.Search(context.Background(), Query{Page: 2, Limit: 2})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if p.Pages != 2 || p.Limit != 2 || p.Total != 3 {
		t.Errorf("pagination = %+v", p)
	}
	if len(p.Medicines) != 1 || p.Medicines[0].ID != "seclo-20" {
		t.Errorf("medicines = %+v", p.Medicines)
	}
}

func TestSearch_Cancelled(t *testing.T) {
	c := newSeeded(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.Search(ctx, Query{Search: "napa"})
	if !errors.Is(err, ErrCancelled) {
		t.Fatalf("err = %v, want ErrCancelled", err)
	}
}

func TestFilters(t *testing.T) {
	c := newSeeded(t)

	f, err := c.Filters(context.Background())
	if err != nil {
		t.Fatalf("Filters: %v", err)
	}
	if len(f.Categories) != 2 || f.Categories[0] != "Capsule" || f.Categories[1] != "Tablet" {
		t.Errorf("categories = %v", f.Categories)
	}
	if len(f.Manufacturers) != 2 {
		t.Errorf("manufacturers = %v", f.Manufacturers)
	}
	if f.PriceRange.Min != 12.5 || f.PriceRange.Max != 60 {
		t.Errorf("price range = %+v", f.PriceRange)
	}
}

func TestStats(t *testing.T) {
	c := newSeeded(t)

	s, err := c.Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if s.TotalMedicines != 3 {
		t.Errorf("total = %d, want 3", s.TotalMedicines)
	}
	if len(s.TopCategories) == 0 || s.TopCategories[0].Value != "Tablet" || s.TopCategories[0].Count != 2 {
		t.Errorf("top categories = %+v", s.TopCategories)
	}
	var labels []string
	for _, b := range s.PriceRanges {
		labels = append(labels, b.Label)
	}
	if got := strings.Join(labels, ","); got != "10-25,25-50,50-100" {
		t.Errorf("buckets = %s", got)
	}
}

func TestImportFile_SQLite(t *testing.T) {
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "medicines.csv")
	if err := os.WriteFile(csvPath, []byte(sampleCSV), 0o600); err != nil {
		t.Fatal(err)
	}

	c, err := New(context.Background(), WithSQLite(filepath.Join(dir, "catalog.db")), WithImportBatchSize(2))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer c.Close()

	report, err := c.ImportFile(context.Background(), csvPath)
	if err != nil {
		t.Fatalf("ImportFile: %v", err)
	}
	if report.Imported != 3 {
		t.Errorf("imported = %d, want 3", report.Imported)
	}

	p, err := c.Search(context.Background(), Query{Manufacturer: "square"})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(p.Medicines) != 1 || p.Medicines[0].Name != "Seclo 20" {
		t.Errorf("medicines = %+v", p.Medicines)
	}
}

func TestImportFile_Missing(t *testing.T) {
	c, err := New(context.Background())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer c.Close()

	if _, err := c.ImportFile(context.Background(), filepath.Join(t.TempDir(), "nope.csv")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("err = %v, want os.ErrNotExist", err)
	}
}

func TestObserver_MetricsAndLogs(t *testing.T) {
	reg := prometheus.NewRegistry()
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	c := newSeeded(t, WithPrometheus(reg), WithLogger(logger))
	if _, err := c.Search(context.Background(), Query{}); err != nil {
		t.Fatalf("Search: %v", err)
	}
	_, _ = c.Import(context.Background(), strings.NewReader(""))

	m := c.obs.metrics
	if got := testutil.ToFloat64(m.operations.WithLabelValues("search", "ok")); got != 1 {
		t.Errorf("search ok = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.operations.WithLabelValues("import", "ok")); got != 1 {
		t.Errorf("import ok = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.operations.WithLabelValues("import", "error")); got != 1 {
		t.Errorf("import error = %v, want 1", got)
	}
	if !strings.Contains(buf.String(), "operation failed") {
		t.Errorf("expected failure log, got %q", buf.String())
	}
}

func TestObserver_ReusesRegisteredMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	a, err := New(context.Background(), WithPrometheus(reg))
	if err != nil {
		t.Fatalf("first New: %v", err)
	}
	defer a.Close()
	b, err := New(context.Background(), WithPrometheus(reg))
	if err != nil {
		t.Fatalf("second New: %v", err)
	}
	defer b.Close()

	if a.obs.metrics.operations != b.obs.metrics.operations {
		t.Error("expected clients to share the registered counter")
	}
}

func TestObserver_NilSafe(t *testing.T) {
	var o *observer
	o.observe("search", time.Now(), nil)
}
