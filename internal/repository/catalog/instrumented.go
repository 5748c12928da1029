package catalog

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/medidex/internal/domain/facet"
	"github.com/kailas-cloud/medidex/internal/domain/medicine"
	"github.com/kailas-cloud/medidex/internal/domain/search/filter"
	"github.com/kailas-cloud/medidex/internal/domain/search/order"
	"github.com/kailas-cloud/medidex/internal/metrics"
)

// Instrumented wraps a Catalog with per-operation duration and error metrics
// and logs failed operations.
type Instrumented struct {
	inner   Catalog
	backend string
	logger  *zap.Logger
}

// NewInstrumented wraps inner. backend labels the metrics ("memory", "redis", ...).
func NewInstrumented(inner Catalog, backend string, logger *zap.Logger) *Instrumented {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Instrumented{inner: inner, backend: backend, logger: logger}
}

// observe records the outcome of one operation started at start.
func (c *Instrumented) observe(op string, start time.Time, err error) {
	elapsed := time.Since(start)
	metrics.CatalogOpDuration.WithLabelValues(c.backend, op).Observe(elapsed.Seconds())
	if err == nil {
		return
	}
	metrics.CatalogOpErrorsTotal.WithLabelValues(c.backend, op).Inc()

	fields := []zap.Field{
		zap.String("backend", c.backend),
		zap.String("op", op),
		zap.Duration("duration", elapsed),
		zap.Error(err),
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		c.logger.Debug("Catalog operation aborted", fields...)
		return
	}
	c.logger.Error("Catalog operation failed", fields...)
}

// Ping delegates to the inner catalog.
func (c *Instrumented) Ping(ctx context.Context) (err error) {
	defer func(start time.Time) { c.observe("ping", start, err) }(time.Now())
	return c.inner.Ping(ctx)
}

// Reset delegates to the inner catalog.
func (c *Instrumented) Reset(ctx context.Context) (err error) {
	defer func(start time.Time) { c.observe("reset", start, err) }(time.Now())
	return c.inner.Reset(ctx)
}

// Insert delegates to the inner catalog.
func (c *Instrumented) Insert(ctx context.Context, records []medicine.Medicine) (err error) {
	defer func(start time.Time) { c.observe("insert", start, err) }(time.Now())
	return c.inner.Insert(ctx, records)
}

// Find delegates to the inner catalog.
func (c *Instrumented) Find(
	ctx context.Context, expr filter.Expression,
	sortKeys []order.Key, skip, limit int,
) (_ []medicine.Medicine, err error) {
	defer func(start time.Time) { c.observe("find", start, err) }(time.Now())
	return c.inner.Find(ctx, expr, sortKeys, skip, limit)
}

// Count delegates to the inner catalog.
func (c *Instrumented) Count(ctx context.Context, expr filter.Expression) (_ int, err error) {
	defer func(start time.Time) { c.observe("count", start, err) }(time.Now())
	return c.inner.Count(ctx, expr)
}

// DistinctValues delegates to the inner catalog.
func (c *Instrumented) DistinctValues(ctx context.Context, f medicine.Field) (_ []string, err error) {
	defer func(start time.Time) { c.observe("distinct", start, err) }(time.Now())
	return c.inner.DistinctValues(ctx, f)
}

// BucketCounts delegates to the inner catalog.
func (c *Instrumented) BucketCounts(
	ctx context.Context, f medicine.Field, boundaries []float64,
) (_ []facet.Bucket, err error) {
	defer func(start time.Time) { c.observe("buckets", start, err) }(time.Now())
	return c.inner.BucketCounts(ctx, f, boundaries)
}

// GroupCounts delegates to the inner catalog.
func (c *Instrumented) GroupCounts(ctx context.Context, f medicine.Field, limit int) (_ []facet.Group, err error) {
	defer func(start time.Time) { c.observe("groups", start, err) }(time.Now())
	return c.inner.GroupCounts(ctx, f, limit)
}

// PriceSummary delegates to the inner catalog.
func (c *Instrumented) PriceSummary(ctx context.Context) (_ facet.PriceSummary, err error) {
	defer func(start time.Time) { c.observe("price_summary", start, err) }(time.Now())
	return c.inner.PriceSummary(ctx)
}
