// Package ingest replaces the catalog contents with records read from a CSV export.
package ingest

import (
	"context"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	domingest "github.com/kailas-cloud/medidex/internal/domain/ingest"
)

// DefaultBatchSize is the number of records per Insert call.
const DefaultBatchSize = 1000

// Service imports CSV exports into a catalog.
type Service struct {
	catalog   CatalogWriter
	batchSize int
	logger    *zap.Logger
}

// New creates an import service. A nil logger discards output.
func New(catalog CatalogWriter, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{catalog: catalog, batchSize: DefaultBatchSize, logger: logger}
}

// WithBatchSize configures the insert batch size.
func (s *Service) WithBatchSize(size int) *Service {
	if size > 0 {
		s.batchSize = size
	}
	return s
}

// ImportFile imports the CSV file at path.
func (s *Service) ImportFile(ctx context.Context, path string) (domingest.Report, error) {
	f, err := os.Open(path)
	if err != nil {
		return domingest.Report{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return s.Import(ctx, f)
}

// Import parses r completely, then clears the catalog and inserts the parsed
// records in batches. A parse failure leaves the catalog untouched.
func (s *Service) Import(ctx context.Context, r io.Reader) (domingest.Report, error) {
	records, rejected, err := Parse(r)
	if err != nil {
		return domingest.Report{}, fmt.Errorf("parse: %w", err)
	}
	report := domingest.Report{Rows: len(records) + len(rejected), Rejected: rejected}

	for _, rj := range rejected {
		s.logger.Warn("Skipping row",
			zap.Int("line", rj.Line()),
			zap.String("slug", rj.ID()),
			zap.Error(rj.Err()),
		)
	}

	if err := s.catalog.Reset(ctx); err != nil {
		return report, fmt.Errorf("reset catalog: %w", err)
	}
	s.logger.Info("Cleared existing data")
	s.logger.Info("Processing medicines", zap.Int("count", len(records)))

	batches := (len(records) + s.batchSize - 1) / s.batchSize
	for i := 0; i < len(records); i += s.batchSize {
		batch := records[i:min(i+s.batchSize, len(records))]
		if err := s.catalog.Insert(ctx, batch); err != nil {
			return report, fmt.Errorf("insert batch %d/%d: %w", report.Batches+1, batches, err)
		}
		report.Batches++
		report.Imported += len(batch)
		s.logger.Info("Imported batch",
			zap.Int("batch", report.Batches),
			zap.Int("batches", batches),
		)
	}

	s.logger.Info("Import completed",
		zap.Int("imported", report.Imported),
		zap.Int("skipped", report.Skipped()),
	)
	return report, nil
}
