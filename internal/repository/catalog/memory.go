package catalog

import (
	"context"
	"fmt"
	"sync"

	"github.com/kailas-cloud/medidex/internal/domain/facet"
	"github.com/kailas-cloud/medidex/internal/domain/medicine"
	"github.com/kailas-cloud/medidex/internal/domain/search/filter"
	"github.com/kailas-cloud/medidex/internal/domain/search/order"
)

// Memory is an in-process catalog. Records keep insertion order.
type Memory struct {
	mu      sync.RWMutex
	records []medicine.Medicine
	ids     map[string]struct{}
}

// NewMemory creates an empty in-memory catalog.
func NewMemory() *Memory {
	return &Memory{ids: make(map[string]struct{})}
}

// Ping always succeeds.
func (m *Memory) Ping(_ context.Context) error { return nil }

// Reset removes every record.
func (m *Memory) Reset(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = nil
	m.ids = make(map[string]struct{})
	return nil
}

// Insert appends records. A batch containing an id already present is rejected whole.
func (m *Memory) Insert(ctx context.Context, records []medicine.Medicine) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	batch := make(map[string]struct{}, len(records))
	for i := range records {
		id := records[i].ID()
		if _, dup := m.ids[id]; dup {
			return fmt.Errorf("insert %s: %w", id, ErrDuplicateID)
		}
		if _, dup := batch[id]; dup {
			return fmt.Errorf("insert %s: %w", id, ErrDuplicateID)
		}
		batch[id] = struct{}{}
	}
	for id := range batch {
		m.ids[id] = struct{}{}
	}
	m.records = append(m.records, records...)
	return nil
}

// Find returns matching records in sort order, ties in insertion order.
func (m *Memory) Find(
	ctx context.Context, expr filter.Expression,
	sortKeys []order.Key, skip, limit int,
) ([]medicine.Medicine, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return scanFind(m.records, expr, sortKeys, skip, limit), nil
}

// Count returns the number of matching records.
func (m *Memory) Count(ctx context.Context, expr filter.Expression) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return scanCount(m.records, expr), nil
}

// DistinctValues returns the sorted non-empty values of a text field.
func (m *Memory) DistinctValues(ctx context.Context, f medicine.Field) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return scanDistinct(m.records, f)
}

// BucketCounts counts records per numeric range.
func (m *Memory) BucketCounts(ctx context.Context, f medicine.Field, boundaries []float64) ([]facet.Bucket, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return scanBuckets(m.records, f, boundaries)
}

// GroupCounts returns the largest groups of a text field.
func (m *Memory) GroupCounts(ctx context.Context, f medicine.Field, limit int) ([]facet.Group, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return scanGroups(m.records, f, limit)
}

// PriceSummary returns min/max/avg price.
func (m *Memory) PriceSummary(ctx context.Context) (facet.PriceSummary, error) {
	if err := ctx.Err(); err != nil {
		return facet.PriceSummary{}, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return scanPriceSummary(m.records), nil
}
