package medidex

import (
	"context"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	domingest "github.com/kailas-cloud/medidex/internal/domain/ingest"
	"github.com/kailas-cloud/medidex/internal/domain/search/page"
	catalogrepo "github.com/kailas-cloud/medidex/internal/repository/catalog"
	cataloguc "github.com/kailas-cloud/medidex/internal/usecase/catalog"
	healthuc "github.com/kailas-cloud/medidex/internal/usecase/health"
	ingestuc "github.com/kailas-cloud/medidex/internal/usecase/ingest"
	searchuc "github.com/kailas-cloud/medidex/internal/usecase/search"
)

const defaultReadinessTimeout = 10 * time.Second

// Internal interfaces for substitution in tests.
type searchUseCase interface {
	Search(ctx context.Context, raw map[string]string) (page.Result, error)
}

type catalogUseCase interface {
	Filters(ctx context.Context) (cataloguc.Filters, error)
	Stats(ctx context.Context) (cataloguc.Stats, error)
}

type ingestUseCase interface {
	Import(ctx context.Context, r io.Reader) (domingest.Report, error)
	ImportFile(ctx context.Context, path string) (domingest.Report, error)
}

type healthUseCase interface {
	Check(ctx context.Context) healthuc.Report
}

// Client is the medidex entry point.
type Client struct {
	closeFn    func()
	searchSvc  searchUseCase
	catalogSvc catalogUseCase
	ingestSvc  ingestUseCase
	healthSvc  healthUseCase
	obs        *observer
}

// New opens the configured catalog (in-memory by default) and wires the client.
// The provided context bounds the initial connection.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{driver: catalogrepo.DriverMemory, keyPrefix: "medidex:"}
	for _, o := range opts {
		o.apply(cfg)
	}

	policy := searchuc.PinnedTopResults
	if cfg.ranked {
		policy = searchuc.RankedOffset
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	catalog, closeFn, err := catalogrepo.Open(ctx, catalogrepo.Options{
		Driver:           cfg.driver,
		Addrs:            cfg.addrs,
		Password:         cfg.password,
		KeyPrefix:        cfg.keyPrefix,
		SQLitePath:       cfg.sqlitePath,
		ReadinessTimeout: defaultReadinessTimeout,
	}, zap.NewNop())
	if err != nil {
		return nil, fmt.Errorf("medidex: %w", err)
	}

	searchSvc := searchuc.New(catalog).WithPolicy(policy)
	if cfg.defaultPageSize > 0 && cfg.maxPageSize > 0 {
		searchSvc = searchSvc.WithPagination(cfg.defaultPageSize, cfg.maxPageSize)
	}

	return &Client{
		closeFn:    closeFn,
		searchSvc:  searchSvc,
		catalogSvc: cataloguc.New(catalog),
		ingestSvc:  ingestuc.New(catalog, nil).WithBatchSize(cfg.importBatchSize),
		healthSvc:  healthuc.New(catalog),
		obs:        obs,
	}, nil
}

// Close releases all resources.
func (c *Client) Close() {
	if c.closeFn != nil {
		c.closeFn()
	}
}

// Search returns one page of medicines matching q.
func (c *Client) Search(ctx context.Context, q Query) (_ Page, err error) {
	defer func(start time.Time) { c.obs.observe("search", start, err) }(time.Now())

	res, err := c.searchSvc.Search(ctx, queryToRaw(q))
	if err != nil {
		return Page{}, fmt.Errorf("search: %w", err)
	}
	return pageFromResult(&res), nil
}

// Filters returns the categories, manufacturers and price range to filter by.
func (c *Client) Filters(ctx context.Context) (_ Filters, err error) {
	defer func(start time.Time) { c.obs.observe("filters", start, err) }(time.Now())

	f, err := c.catalogSvc.Filters(ctx)
	if err != nil {
		return Filters{}, fmt.Errorf("filters: %w", err)
	}
	return filtersFromDomain(f), nil
}

// Stats returns catalog totals, top groups and the price distribution.
func (c *Client) Stats(ctx context.Context) (_ Stats, err error) {
	defer func(start time.Time) { c.obs.observe("stats", start, err) }(time.Now())

	s, err := c.catalogSvc.Stats(ctx)
	if err != nil {
		return Stats{}, fmt.Errorf("stats: %w", err)
	}
	return statsFromDomain(s), nil
}

// Import replaces the catalog with the CSV export read from r.
func (c *Client) Import(ctx context.Context, r io.Reader) (_ ImportReport, err error) {
	defer func(start time.Time) { c.obs.observe("import", start, err) }(time.Now())

	report, err := c.ingestSvc.Import(ctx, r)
	if err != nil {
		return ImportReport{}, fmt.Errorf("import: %w", err)
	}
	return importReportFromDomain(report), nil
}

// ImportFile replaces the catalog with the CSV export at path.
func (c *Client) ImportFile(ctx context.Context, path string) (_ ImportReport, err error) {
	defer func(start time.Time) { c.obs.observe("import", start, err) }(time.Now())

	report, err := c.ingestSvc.ImportFile(ctx, path)
	if err != nil {
		return ImportReport{}, fmt.Errorf("import: %w", err)
	}
	return importReportFromDomain(report), nil
}

// Health checks the health of all system components.
func (c *Client) Health(ctx context.Context) HealthStatus {
	report := c.healthSvc.Check(ctx)
	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}
	return HealthStatus{
		Status: string(report.Status),
		Checks: checks,
	}
}
