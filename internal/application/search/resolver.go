// Package search orchestrates trademark searches: predicate building,
// two-phase candidate resolution and batched record assembly.
package search

import (
	"context"

	"github.com/turtacn/KeyMark-Search/internal/domain/trademark"
	"github.com/turtacn/KeyMark-Search/internal/domain/trademark/query"
	"github.com/turtacn/KeyMark-Search/pkg/errors"
)

const (
	// DefaultLimit is the page size of programmatic searches.
	DefaultLimit = 200
	// CLIDefaultLimit is the page size used by interactive tools.
	CLIDefaultLimit = 10
	// MaxLimit caps any requested page size.
	MaxLimit = 1000
)

// Limits bounds the pages handed to the registry.
type Limits struct {
	Default int
	Max     int
}

func (l Limits) withDefaults() Limits {
	if l.Default <= 0 {
		l.Default = DefaultLimit
	}
	if l.Max <= 0 {
		l.Max = MaxLimit
	}
	if l.Default > l.Max {
		l.Default = l.Max
	}
	return l
}

// Page is one resolved window of distinct candidate identifiers.
type Page struct {
	Total  int64
	IDs    []string
	Limit  int
	Offset int
}

// Resolver runs the count and page phases against the registry.
type Resolver struct {
	registry trademark.Registry
	limits   Limits
}

// NewResolver creates a Resolver.
func NewResolver(registry trademark.Registry, limits Limits) *Resolver {
	return &Resolver{registry: registry, limits: limits.withDefaults()}
}

// Count returns the number of distinct applications matching pred.
func (r *Resolver) Count(ctx context.Context, pred query.Predicate) (int64, error) {
	n, err := r.registry.CountCandidates(ctx, pred)
	if err != nil {
		return 0, asBackendError(err, "count candidates")
	}
	return n, nil
}

// Page returns one page of distinct identifiers in the requested order.
// A zero limit returns no identifiers without querying the registry.
func (r *Resolver) Page(ctx context.Context, pred query.Predicate, req trademark.PageRequest) ([]string, error) {
	if req.Limit == 0 {
		return []string{}, nil
	}
	ids, err := r.registry.PageCandidates(ctx, pred, req)
	if err != nil {
		return nil, asBackendError(err, "page candidates")
	}
	return distinct(ids), nil
}

// Resolve counts, then pages. The page phase is skipped when nothing matches,
// when limit is zero, or when offset is past the end.
func (r *Resolver) Resolve(ctx context.Context, pred query.Predicate, req trademark.PageRequest) (Page, error) {
	page := Page{IDs: []string{}, Limit: req.Limit, Offset: req.Offset}

	total, err := r.Count(ctx, pred)
	if err != nil {
		return page, err
	}
	page.Total = total
	if total == 0 || req.Limit == 0 || int64(req.Offset) >= total {
		return page, nil
	}

	ids, err := r.Page(ctx, pred, req)
	if err != nil {
		return page, err
	}
	page.IDs = ids
	return page, nil
}

// NormalizePage applies limit defaults and caps. A nil limit selects the
// default; negative values are rejected.
func (r *Resolver) NormalizePage(limit *int, offset int, order trademark.Order) (trademark.PageRequest, error) {
	req := trademark.PageRequest{Limit: r.limits.Default, Offset: offset, Order: order}
	if limit != nil {
		if *limit < 0 {
			return req, errors.InvalidParam("limit must not be negative")
		}
		req.Limit = *limit
	}
	if req.Limit > r.limits.Max {
		req.Limit = r.limits.Max
	}
	if offset < 0 {
		return req, errors.InvalidParam("offset must not be negative")
	}
	if req.Order == "" {
		req.Order = trademark.OrderAsc
	}
	return req, nil
}

func distinct(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// asBackendError keeps registry classifications and wraps anything else as
// BackendUnavailable.
func asBackendError(err error, op string) error {
	if errors.IsBackendUnavailable(err) || errors.IsValidation(err) {
		return err
	}
	return errors.BackendUnavailable(err, op+" failed")
}

//Personal.AI order the ending
