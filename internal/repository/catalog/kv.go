package catalog

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"

	"github.com/kailas-cloud/medidex/internal/db"
	"github.com/kailas-cloud/medidex/internal/domain/facet"
	"github.com/kailas-cloud/medidex/internal/domain/medicine"
	"github.com/kailas-cloud/medidex/internal/domain/search/filter"
	"github.com/kailas-cloud/medidex/internal/domain/search/order"
	"github.com/kailas-cloud/medidex/internal/metrics"
)

// DefaultKeyPrefix namespaces catalog keys.
const DefaultKeyPrefix = "medidex:"

// kvBatchSize bounds the number of hashes per pipelined round-trip.
const kvBatchSize = 500

// kvStore is the consumer interface for the key-value backend (ISP).
type kvStore interface {
	Ping(ctx context.Context) error
	HSetMulti(ctx context.Context, items []db.HashSetItem) error
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
	Del(ctx context.Context, keys ...string) error
	Get(ctx context.Context, key string) ([]byte, error)
	IncrBy(ctx context.Context, key string, val int64) (int64, error)
	RPush(ctx context.Context, key string, values ...string) error
	LRange(ctx context.Context, key string, start, stop int64) ([]string, error)
}

// KV stores one hash per medicine plus a list of ids in insertion order.
// Every write bumps a version counter; reads evaluate predicates over a
// snapshot that is reloaded only when the version changes.
type KV struct {
	store  kvStore
	prefix string

	loadMu sync.Mutex // serializes reloads

	mu          sync.RWMutex
	snapVersion int64
	snapLoaded  bool
	snap        []medicine.Medicine
}

// NewKV creates a key-value catalog. Empty prefix means DefaultKeyPrefix.
func NewKV(s kvStore, prefix string) *KV {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	return &KV{store: s, prefix: prefix}
}

func (k *KV) medicineKey(id string) string { return k.prefix + "medicine:" + id }
func (k *KV) listKey() string              { return k.prefix + "medicines" }
func (k *KV) versionKey() string           { return k.prefix + "version" }

// Ping checks store connectivity.
func (k *KV) Ping(ctx context.Context) error {
	return k.store.Ping(ctx)
}

// Reset deletes every medicine hash and the id list.
func (k *KV) Reset(ctx context.Context) error {
	ids, err := k.store.LRange(ctx, k.listKey(), 0, -1)
	if err != nil {
		return fmt.Errorf("list ids: %w", err)
	}
	for start := 0; start < len(ids); start += kvBatchSize {
		end := min(start+kvBatchSize, len(ids))
		keys := make([]string, 0, end-start)
		for _, id := range ids[start:end] {
			keys = append(keys, k.medicineKey(id))
		}
		if err := k.store.Del(ctx, keys...); err != nil {
			return fmt.Errorf("delete medicines: %w", err)
		}
	}
	if err := k.store.Del(ctx, k.listKey()); err != nil {
		return fmt.Errorf("delete id list: %w", err)
	}
	return k.bumpVersion(ctx)
}

// Insert stores records and appends their ids to the list. Ids must be new:
// the list is append-only and a repeated id would be listed twice.
func (k *KV) Insert(ctx context.Context, records []medicine.Medicine) error {
	if len(records) == 0 {
		return nil
	}
	items := make([]db.HashSetItem, len(records))
	ids := make([]string, len(records))
	for i := range records {
		ids[i] = records[i].ID()
		items[i] = db.HashSetItem{Key: k.medicineKey(ids[i]), Fields: buildHashFields(&records[i])}
	}
	if err := k.store.HSetMulti(ctx, items); err != nil {
		return fmt.Errorf("store medicines: %w", err)
	}
	if err := k.store.RPush(ctx, k.listKey(), ids...); err != nil {
		return fmt.Errorf("append ids: %w", err)
	}
	return k.bumpVersion(ctx)
}

// Find returns matching records in sort order, ties in insertion order.
func (k *KV) Find(
	ctx context.Context, expr filter.Expression,
	sortKeys []order.Key, skip, limit int,
) ([]medicine.Medicine, error) {
	records, err := k.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return scanFind(records, expr, sortKeys, skip, limit), nil
}

// Count returns the number of matching records.
func (k *KV) Count(ctx context.Context, expr filter.Expression) (int, error) {
	records, err := k.snapshot(ctx)
	if err != nil {
		return 0, err
	}
	return scanCount(records, expr), nil
}

// DistinctValues returns the sorted non-empty values of a text field.
func (k *KV) DistinctValues(ctx context.Context, f medicine.Field) ([]string, error) {
	records, err := k.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return scanDistinct(records, f)
}

// BucketCounts counts records per numeric range.
func (k *KV) BucketCounts(ctx context.Context, f medicine.Field, boundaries []float64) ([]facet.Bucket, error) {
	records, err := k.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return scanBuckets(records, f, boundaries)
}

// GroupCounts returns the largest groups of a text field.
func (k *KV) GroupCounts(ctx context.Context, f medicine.Field, limit int) ([]facet.Group, error) {
	records, err := k.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return scanGroups(records, f, limit)
}

// PriceSummary returns min/max/avg price.
func (k *KV) PriceSummary(ctx context.Context) (facet.PriceSummary, error) {
	records, err := k.snapshot(ctx)
	if err != nil {
		return facet.PriceSummary{}, err
	}
	return scanPriceSummary(records), nil
}

func (k *KV) bumpVersion(ctx context.Context) error {
	if _, err := k.store.IncrBy(ctx, k.versionKey(), 1); err != nil {
		return fmt.Errorf("bump version: %w", err)
	}
	return nil
}

func (k *KV) version(ctx context.Context) (int64, error) {
	raw, err := k.store.Get(ctx, k.versionKey())
	if errors.Is(err, db.ErrKeyNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("get version: %w", err)
	}
	v, err := strconv.ParseInt(string(raw), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse version %q: %w", raw, err)
	}
	return v, nil
}

// cached returns the snapshot if it was loaded at version v.
func (k *KV) cached(v int64) ([]medicine.Medicine, bool) {
	k.mu.RLock()
	defer k.mu.RUnlock()
	if k.snapLoaded && k.snapVersion == v {
		return k.snap, true
	}
	return nil, false
}

// snapshot returns all records in insertion order. The returned slice is shared
// and must not be modified.
func (k *KV) snapshot(ctx context.Context) ([]medicine.Medicine, error) {
	v, err := k.version(ctx)
	if err != nil {
		metrics.CatalogSnapshotLoadsTotal.WithLabelValues("error").Inc()
		return nil, err
	}
	if records, ok := k.cached(v); ok {
		metrics.CatalogSnapshotLoadsTotal.WithLabelValues("hit").Inc()
		return records, nil
	}

	k.loadMu.Lock()
	defer k.loadMu.Unlock()
	if records, ok := k.cached(v); ok {
		metrics.CatalogSnapshotLoadsTotal.WithLabelValues("hit").Inc()
		return records, nil
	}

	records, err := k.load(ctx)
	if err != nil {
		metrics.CatalogSnapshotLoadsTotal.WithLabelValues("error").Inc()
		return nil, err
	}
	metrics.CatalogSnapshotLoadsTotal.WithLabelValues("reload").Inc()

	// Tagged with the version read before loading: a concurrent write moves
	// the counter past v and forces the next read to reload.
	k.mu.Lock()
	k.snap, k.snapVersion, k.snapLoaded = records, v, true
	k.mu.Unlock()
	return records, nil
}

func (k *KV) load(ctx context.Context) ([]medicine.Medicine, error) {
	ids, err := k.store.LRange(ctx, k.listKey(), 0, -1)
	if err != nil {
		return nil, fmt.Errorf("list ids: %w", err)
	}

	records := make([]medicine.Medicine, 0, len(ids))
	for start := 0; start < len(ids); start += kvBatchSize {
		end := min(start+kvBatchSize, len(ids))
		keys := make([]string, 0, end-start)
		for _, id := range ids[start:end] {
			keys = append(keys, k.medicineKey(id))
		}
		hashes, err := k.store.HGetAllMulti(ctx, keys)
		if err != nil {
			return nil, fmt.Errorf("load medicines: %w", err)
		}
		for _, h := range hashes {
			if len(h) == 0 {
				continue // deleted between LRANGE and HGETALL
			}
			m, err := parseHashFields(h)
			if err != nil {
				return nil, fmt.Errorf("decode medicine: %w", err)
			}
			records = append(records, m)
		}
	}
	return records, nil
}
