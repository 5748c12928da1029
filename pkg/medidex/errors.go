package medidex

import (
	"github.com/kailas-cloud/medidex/internal/domain"
	catalogrepo "github.com/kailas-cloud/medidex/internal/repository/catalog"
)

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrCatalogUnavailable = domain.ErrCatalogUnavailable
	ErrCancelled          = domain.ErrCancelled
	ErrInvalidInput       = domain.ErrInvalidInput
	ErrDuplicateID        = catalogrepo.ErrDuplicateID
)
