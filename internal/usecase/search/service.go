package search

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/medidex/internal/domain"
	"github.com/kailas-cloud/medidex/internal/domain/medicine"
	"github.com/kailas-cloud/medidex/internal/domain/search/page"
	"github.com/kailas-cloud/medidex/internal/domain/search/request"
	logpkg "github.com/kailas-cloud/medidex/internal/logger"
	"github.com/kailas-cloud/medidex/internal/metrics"
)

// Search path labels.
const (
	pathSearch = "search"
	pathPlain  = "plain"
)

// Service answers catalog queries: tiered relevance search when free text is given,
// a plain filtered listing otherwise.
type Service struct {
	catalog Catalog
	planner request.Planner
	policy  PaginationPolicy
}

// New creates a search service with default page sizes and pinned search pagination.
func New(catalog Catalog) *Service {
	return &Service{
		catalog: catalog,
		planner: request.NewPlanner(request.DefaultLimit, request.MaxLimit),
		policy:  PinnedTopResults,
	}
}

// WithPagination sets the default and maximum page sizes.
func (s *Service) WithPagination(defaultPageSize, maxPageSize int) *Service {
	s.planner = request.NewPlanner(defaultPageSize, maxPageSize)
	return s
}

// WithPolicy sets the search-path pagination policy.
func (s *Service) WithPolicy(p PaginationPolicy) *Service {
	s.policy = p
	return s
}

// Search plans raw parameters and executes them. Recognized keys are listed in
// package request (page, limit, search, category, manufacturer, minPrice, maxPrice,
// sortBy, sortOrder).
func (s *Service) Search(ctx context.Context, raw map[string]string) (page.Result, error) {
	req := s.planner.Plan(raw)
	if invalid := req.InvalidParams(); len(invalid) > 0 {
		logpkg.FromContext(ctx).Debug("search params replaced by defaults", zap.Strings("params", invalid))
	}
	return s.Execute(ctx, &req)
}

// Execute runs a planned request. Any failed catalog read fails the whole call:
// ErrCancelled when ctx is done, ErrCatalogUnavailable otherwise.
func (s *Service) Execute(ctx context.Context, req *request.Request) (page.Result, error) {
	path := pathPlain
	if req.HasFreeText() {
		path = pathSearch
	}
	start := time.Now()

	res, err := s.execute(ctx, req)

	status := "ok"
	if err != nil {
		err = classify(ctx, err)
		status = "error"
	}
	metrics.SearchRequestsTotal.WithLabelValues(path, status).Inc()
	metrics.SearchDuration.WithLabelValues(path).Observe(time.Since(start).Seconds())

	return res, err
}

func (s *Service) execute(ctx context.Context, req *request.Request) (page.Result, error) {
	if err := ctx.Err(); err != nil {
		return page.Result{}, err
	}

	filters, err := req.Filters()
	if err != nil {
		return page.Result{}, fmt.Errorf("build filters: %w", err)
	}

	var (
		records []medicine.Medicine
		total   int
	)
	if req.HasFreeText() {
		budget, offset := s.policy.window(req)
		records, total, err = s.assemble(ctx, req, filters, budget, offset)
		if err == nil {
			records = records[min(offset, len(records)):]
		}
	} else {
		records, total, err = s.plain(ctx, req, filters)
	}
	if err != nil {
		return page.Result{}, err
	}

	if records == nil {
		records = []medicine.Medicine{}
	}
	return page.Result{
		Records:      records,
		TotalMatches: total,
		Page:         req.Page(),
		PageSize:     req.PageSize(),
	}, nil
}

// classify maps a failure to ErrCancelled when the caller gave up, ErrCatalogUnavailable otherwise.
func classify(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return fmt.Errorf("%w: %w", domain.ErrCancelled, err)
	}
	return fmt.Errorf("%w: %w", domain.ErrCatalogUnavailable, err)
}
