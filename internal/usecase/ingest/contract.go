package ingest

import (
	"context"

	"github.com/kailas-cloud/medidex/internal/domain/medicine"
)

// CatalogWriter defines the write contract an import needs.
type CatalogWriter interface {
	// Reset removes every record.
	Reset(ctx context.Context) error
	// Insert appends records with ids not yet in the catalog.
	Insert(ctx context.Context, records []medicine.Medicine) error
}
