package search

import (
	"context"
	"time"

	"github.com/turtacn/KeyMark-Search/internal/domain/trademark"
	"github.com/turtacn/KeyMark-Search/internal/domain/trademark/query"
	"github.com/turtacn/KeyMark-Search/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/KeyMark-Search/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/KeyMark-Search/pkg/errors"
)

// ---------------------------------------------------------------------------
// Requests and results
// ---------------------------------------------------------------------------

// SearchRequest is one paged search. A nil Limit selects the default page
// size; an empty Order means ascending.
type SearchRequest struct {
	Criteria query.Criteria
	Mode     query.Mode
	Limit    *int
	Offset   int
	Order    trademark.Order
}

// SearchResult is one page of records plus the size of the whole result.
type SearchResult struct {
	Records []trademark.Record `json:"records"`
	Total   int64              `json:"total"`
	Limit   int                `json:"limit"`
	Offset  int                `json:"offset"`
	Mode    string             `json:"mode"`
}

// IntPtr returns a pointer to n, for SearchRequest.Limit.
func IntPtr(n int) *int { return &n }

// ---------------------------------------------------------------------------
// Service
// ---------------------------------------------------------------------------

// Service is the search entry point.
type Service interface {
	// Search validates criteria, then counts, pages and assembles matches in
	// application-number order.
	Search(ctx context.Context, req SearchRequest) (*SearchResult, error)
	// Latest browses the newest applications matching criteria. A limit of
	// zero or less selects the default page size.
	Latest(ctx context.Context, criteria query.Criteria, limit int) (*SearchResult, error)
	// Get returns the record for one application number.
	Get(ctx context.Context, applicationNumber string) (*trademark.Record, error)
}

// Config holds the tunables of the search service.
type Config struct {
	DefaultLimit       int
	MaxLimit           int
	FuzzyFragmentLimit int
}

// Deps holds all dependencies of the search service.
type Deps struct {
	Registry trademark.Registry
	Images   trademark.ImagePresence
	Logger   logging.Logger
	Metrics  *prometheus.SearchMetrics
	Config   Config
}

type serviceImpl struct {
	builder   *query.Builder
	resolver  *Resolver
	assembler *Assembler
	logger    logging.Logger
	metrics   *prometheus.SearchMetrics
}

// NewService creates a Service.
func NewService(deps Deps) Service {
	logger := deps.Logger
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	logger = logger.Named("search")
	return &serviceImpl{
		builder:   query.NewBuilder(query.BuilderConfig{FuzzyFragmentLimit: deps.Config.FuzzyFragmentLimit}),
		resolver:  NewResolver(deps.Registry, Limits{Default: deps.Config.DefaultLimit, Max: deps.Config.MaxLimit}),
		assembler: NewAssembler(deps.Registry, deps.Images, logger, deps.Metrics),
		logger:    logger,
		metrics:   deps.Metrics,
	}
}

func (s *serviceImpl) Search(ctx context.Context, req SearchRequest) (*SearchResult, error) {
	start := time.Now()
	mode := req.Mode
	if mode.Base == "" {
		mode = query.DefaultMode
	}

	built, err := s.builder.BuildResult(req.Criteria, mode)
	if err != nil {
		prometheus.RecordSearch(s.metrics, mode.String(), "invalid", 0, 0, time.Since(start))
		return nil, err
	}
	page, err := s.resolver.NormalizePage(req.Limit, req.Offset, req.Order)
	if err != nil {
		prometheus.RecordSearch(s.metrics, mode.String(), "invalid", 0, 0, time.Since(start))
		return nil, err
	}
	if mode.Fuzzy {
		prometheus.RecordFuzzyFragments(s.metrics, built.FuzzyFragments)
	}

	result, err := s.run(ctx, built.Predicate, page)
	if err != nil {
		prometheus.RecordSearch(s.metrics, mode.String(), "error", 0, 0, time.Since(start))
		s.logger.Error("search failed", logging.String("mode", mode.String()), logging.Err(err))
		return nil, err
	}
	result.Mode = mode.String()

	outcome := "ok"
	if result.Total == 0 {
		outcome = "empty"
	}
	prometheus.RecordSearch(s.metrics, result.Mode, outcome, result.Total, len(result.Records), time.Since(start))
	s.logger.Debug("search completed",
		logging.String("mode", result.Mode),
		logging.String("predicate", built.Predicate.String()),
		logging.Strings("sources", sourceNames(built.Predicate)),
		logging.Bool("partial", built.Partial),
		logging.Int64("total", result.Total),
		logging.Int("returned", len(result.Records)),
		logging.Duration("elapsed", time.Since(start)))
	return result, nil
}

func (s *serviceImpl) Latest(ctx context.Context, criteria query.Criteria, limit int) (*SearchResult, error) {
	req := SearchRequest{Criteria: criteria, Mode: query.DefaultMode, Order: trademark.OrderDesc}
	if limit > 0 {
		req.Limit = IntPtr(limit)
	}
	return s.Search(ctx, req)
}

func (s *serviceImpl) Get(ctx context.Context, applicationNumber string) (*trademark.Record, error) {
	num, err := trademark.ParseApplicationNumber(applicationNumber)
	if err != nil {
		return nil, err
	}
	pred, err := s.builder.Build(query.Criteria{ApplicationNumber: num.String()}, query.DefaultMode)
	if err != nil {
		return nil, err
	}
	result, err := s.run(ctx, pred, trademark.PageRequest{Limit: 1, Order: trademark.OrderAsc})
	if err != nil {
		return nil, err
	}
	if len(result.Records) == 0 {
		return nil, errors.New(errors.ErrCodeTrademarkNotFound, "trademark "+num.Hyphenated()+" not found")
	}
	return &result.Records[0], nil
}

func sourceNames(p query.Predicate) []string {
	sources := p.Sources()
	out := make([]string, len(sources))
	for i, src := range sources {
		out[i] = string(src)
	}
	return out
}

// run resolves and assembles one page. The assembler is not invoked for an
// empty page.
func (s *serviceImpl) run(ctx context.Context, pred query.Predicate, req trademark.PageRequest) (*SearchResult, error) {
	page, err := s.resolver.Resolve(ctx, pred, req)
	if err != nil {
		return nil, err
	}
	result := &SearchResult{Records: []trademark.Record{}, Total: page.Total, Limit: req.Limit, Offset: req.Offset}
	if len(page.IDs) == 0 {
		return result, nil
	}

	records, err := s.assembler.Assemble(ctx, page.IDs)
	if err != nil {
		return nil, err
	}
	result.Records = records
	return result, nil
}

//Personal.AI order the ending
