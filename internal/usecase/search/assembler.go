package search

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/kailas-cloud/medidex/internal/domain/medicine"
	"github.com/kailas-cloud/medidex/internal/domain/search/filter"
	"github.com/kailas-cloud/medidex/internal/domain/search/order"
	"github.com/kailas-cloud/medidex/internal/domain/search/request"
	"github.com/kailas-cloud/medidex/internal/domain/search/tier"
	logpkg "github.com/kailas-cloud/medidex/internal/logger"
)

// exactPriorityFields are queried for an exact match, in this order, before any tier.
var exactPriorityFields = []medicine.Field{
	medicine.FieldName,
	medicine.FieldGenericName,
	medicine.FieldManufacturer,
}

// maxPrealloc bounds the up-front capacity of an assembly; budgets can be far
// larger than the eligible set.
const maxPrealloc = 1024

// assembly accumulates ranked records across sequential catalog reads.
// ids keeps the seen-set in collection order so exclusions are deterministic.
type assembly struct {
	records []medicine.Medicine
	ids     []string
	seen    map[string]struct{}
	budget  int
}

func newAssembly(budget int) *assembly {
	return &assembly{
		records: make([]medicine.Medicine, 0, min(budget, maxPrealloc)),
		seen:    make(map[string]struct{}, min(budget, maxPrealloc)),
		budget:  budget,
	}
}

func (a *assembly) remaining() int { return a.budget - len(a.records) }

// add appends unseen records until the budget is spent and returns how many were taken.
func (a *assembly) add(found []medicine.Medicine) int {
	added := 0
	for i := range found {
		if a.remaining() <= 0 {
			break
		}
		id := found[i].ID()
		if _, dup := a.seen[id]; dup {
			continue
		}
		a.seen[id] = struct{}{}
		a.ids = append(a.ids, id)
		a.records = append(a.records, found[i])
		added++
	}
	return added
}

// exclude narrows expr to records not yet collected.
func (a *assembly) exclude(expr filter.Expression) (filter.Expression, error) {
	if len(a.ids) == 0 {
		return expr, nil
	}
	c, err := filter.NewIDs(a.ids)
	if err != nil {
		return filter.Expression{}, fmt.Errorf("exclude collected: %w", err)
	}
	return expr.WithMustNot(c), nil
}

// searchSort is name ascending, with the requested field as secondary key when it differs.
func searchSort(req *request.Request) []order.Key {
	keys := []order.Key{order.Asc(medicine.FieldName)}
	if req.SortField() != medicine.FieldName {
		keys = append(keys, order.Key{Field: req.SortField(), Descending: req.SortDescending()})
	}
	return keys
}

// assemble runs the search path: exact-priority queries, then one broad query over the
// union of all tiers. It returns up to budget ranked records and the size of the
// eligible set (tier union under the structured filters).
// A positive offset counts the eligible set first: nothing is assembled when the
// offset lies past it, and the budget never exceeds it.
func (s *Service) assemble(
	ctx context.Context, req *request.Request, filters filter.Expression, budget, offset int,
) ([]medicine.Medicine, int, error) {
	log := logpkg.FromContext(ctx)
	text := req.FreeText()
	sortKeys := searchSort(req)

	tiers := tier.Plan(text)
	union, err := tier.Union(tiers)
	if err != nil {
		return nil, 0, fmt.Errorf("plan tiers: %w", err)
	}
	broad := filters.WithShould(union...)

	total := -1
	if offset > 0 {
		n, err := s.catalog.Count(ctx, broad)
		if err != nil {
			return nil, 0, fmt.Errorf("count tiers: %w", err)
		}
		if offset >= n {
			log.Debug("page past eligible set", zap.Int("offset", offset), zap.Int("total", n))
			return nil, n, nil
		}
		total, budget = n, min(budget, n)
	}

	acc := newAssembly(budget)

	for _, f := range exactPriorityFields {
		if acc.remaining() <= 0 {
			break
		}
		cond, err := filter.NewMatch(f, filter.Exact, text)
		if err != nil {
			return nil, 0, fmt.Errorf("exact %s: %w", f, err)
		}
		expr, err := acc.exclude(filters.WithMust(cond))
		if err != nil {
			return nil, 0, err
		}
		found, err := s.catalog.Find(ctx, expr, sortKeys, 0, acc.remaining())
		if err != nil {
			return nil, 0, fmt.Errorf("find exact %s: %w", f, err)
		}
		added := acc.add(found)
		log.Debug("exact priority query",
			zap.String("field", string(f)),
			zap.Int("found", len(found)),
			zap.Int("added", added),
		)
	}

	if acc.remaining() > 0 {
		expr, err := acc.exclude(broad)
		if err != nil {
			return nil, 0, err
		}
		found, err := s.catalog.Find(ctx, expr, sortKeys, 0, acc.remaining())
		if err != nil {
			return nil, 0, fmt.Errorf("find tiers: %w", err)
		}
		added := acc.add(found)
		log.Debug("tier union query",
			zap.Int("tiers", len(tiers)),
			zap.Int("clauses", len(union)),
			zap.Int("found", len(found)),
			zap.Int("added", added),
		)
	}

	if total < 0 {
		total, err = s.catalog.Count(ctx, broad)
		if err != nil {
			return nil, 0, fmt.Errorf("count tiers: %w", err)
		}
	}

	return acc.records, total, nil
}
