package search

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/turtacn/KeyMark-Search/internal/domain/trademark"
	"github.com/turtacn/KeyMark-Search/internal/domain/trademark/query"
	"github.com/turtacn/KeyMark-Search/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/KeyMark-Search/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/KeyMark-Search/pkg/errors"
)

// Cache key prefixes. Registry updates drop every search page and the record
// of each updated application.
const (
	SearchKeyPrefix = "search:"
	RecordKeyPrefix = "record:"
)

// ResultCache stores serialized results. GetOrSet coalesces concurrent loads
// of one key.
type ResultCache interface {
	GetOrSet(ctx context.Context, key string, dest interface{}, ttl time.Duration, loader func(ctx context.Context) (interface{}, error)) error
	Delete(ctx context.Context, keys ...string) error
	DeleteByPrefix(ctx context.Context, prefix string) (int64, error)
}

// CachedService serves Search and Get from a ResultCache, falling back to
// the wrapped service whenever the cache itself fails.
type CachedService struct {
	next    Service
	cache   ResultCache
	ttl     time.Duration
	logger  logging.Logger
	metrics *prometheus.SearchMetrics
}

// NewCachedService wraps next.
func NewCachedService(next Service, cache ResultCache, ttl time.Duration, logger logging.Logger, metrics *prometheus.SearchMetrics) *CachedService {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &CachedService{next: next, cache: cache, ttl: ttl, logger: logger.Named("search.cache"), metrics: metrics}
}

// Search implements Service.
func (c *CachedService) Search(ctx context.Context, req SearchRequest) (*SearchResult, error) {
	if err := req.Criteria.Validate(); err != nil {
		return nil, err
	}
	key, err := searchKey(req)
	if err != nil {
		return c.next.Search(ctx, req)
	}

	var out SearchResult
	loaded := false
	err = c.cache.GetOrSet(ctx, key, &out, c.ttl, func(ctx context.Context) (interface{}, error) {
		loaded = true
		return c.next.Search(ctx, req)
	})
	if err != nil {
		if !isCacheFailure(err) {
			return nil, err
		}
		c.logger.Warn("search cache unavailable", logging.Err(err))
		return c.next.Search(ctx, req)
	}
	prometheus.RecordCacheAccess(c.metrics, "search", !loaded)
	if out.Records == nil {
		out.Records = []trademark.Record{}
	}
	return &out, nil
}

// Latest implements Service. Newest-first browses are not cached.
func (c *CachedService) Latest(ctx context.Context, criteria query.Criteria, limit int) (*SearchResult, error) {
	return c.next.Latest(ctx, criteria, limit)
}

// Get implements Service.
func (c *CachedService) Get(ctx context.Context, applicationNumber string) (*trademark.Record, error) {
	num, err := trademark.ParseApplicationNumber(applicationNumber)
	if err != nil {
		return nil, err
	}

	var out trademark.Record
	loaded := false
	err = c.cache.GetOrSet(ctx, RecordKeyPrefix+num.String(), &out, c.ttl, func(ctx context.Context) (interface{}, error) {
		loaded = true
		return c.next.Get(ctx, num.String())
	})
	if err != nil {
		if !isCacheFailure(err) {
			return nil, err
		}
		c.logger.Warn("record cache unavailable", logging.Err(err))
		return c.next.Get(ctx, num.String())
	}
	prometheus.RecordCacheAccess(c.metrics, "record", !loaded)
	return &out, nil
}

// Invalidate drops every cached search page and the cached records of the
// given applications.
func (c *CachedService) Invalidate(ctx context.Context, applicationNumbers []string) error {
	if _, err := c.cache.DeleteByPrefix(ctx, SearchKeyPrefix); err != nil {
		return err
	}
	if len(applicationNumbers) == 0 {
		return nil
	}
	keys := make([]string, 0, len(applicationNumbers))
	for _, n := range applicationNumbers {
		if num, err := trademark.ParseApplicationNumber(n); err == nil {
			keys = append(keys, RecordKeyPrefix+num.String())
		}
	}
	return c.cache.Delete(ctx, keys...)
}

type searchKeyParts struct {
	Criteria query.Criteria `json:"c"`
	Mode     string         `json:"m"`
	Limit    *int           `json:"l"`
	Offset   int            `json:"o"`
	Order    string         `json:"d"`
}

func searchKey(req SearchRequest) (string, error) {
	mode := req.Mode
	if mode.Base == "" {
		mode = query.DefaultMode
	}
	order := req.Order
	if order == "" {
		order = trademark.OrderAsc
	}
	raw, err := json.Marshal(searchKeyParts{
		Criteria: req.Criteria,
		Mode:     mode.String(),
		Limit:    req.Limit,
		Offset:   req.Offset,
		Order:    string(order),
	})
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(raw)
	return SearchKeyPrefix + hex.EncodeToString(sum[:]), nil
}

// isCacheFailure reports whether err came from the cache rather than the
// wrapped service.
func isCacheFailure(err error) bool {
	return errors.IsCode(err, errors.ErrCodeCacheError) ||
		errors.IsCode(err, errors.ErrCodeSerialization) ||
		errors.IsCode(err, errors.ErrCodeServiceUnavailable)
}

//Personal.AI order the ending
