package middleware

import (
	"encoding/json"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/turtacn/KeyMark-Search/pkg/errors"
	"github.com/turtacn/KeyMark-Search/pkg/types/common"
)

// RateLimiter decides whether the client identified by key may proceed.
type RateLimiter interface {
	Allow(key string) (bool, RateLimitInfo)
}

// RateLimitInfo is the limiter state reported in response headers.
type RateLimitInfo struct {
	Limit     int
	Remaining int
	ResetAt   time.Time
}

// RateLimitConfig holds configuration for the rate limit middleware.
type RateLimitConfig struct {
	// KeyFunc extracts the client key. Defaults to the remote IP, which
	// chi's RealIP middleware has already resolved from proxy headers.
	KeyFunc   func(r *http.Request) string
	SkipPaths []string
}

// ClientIP returns the host part of r.RemoteAddr.
func ClientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

type tokenBucket struct {
	mu         sync.Mutex
	tokens     float64
	lastRefill time.Time
}

// TokenBucketLimiter keeps one token bucket per client key.
type TokenBucketLimiter struct {
	rate      float64
	burstSize int
	idleAfter time.Duration

	mu      sync.Mutex
	buckets map[string]*tokenBucket
	stop    chan struct{}
	once    sync.Once
	now     func() time.Time
}

// NewTokenBucketLimiter creates a limiter refilling rate tokens per second up
// to burstSize. Buckets idle for longer than idleAfter are swept; zero
// disables the sweeper.
func NewTokenBucketLimiter(rate float64, burstSize int, idleAfter time.Duration) *TokenBucketLimiter {
	if burstSize < 1 {
		burstSize = 1
	}
	l := &TokenBucketLimiter{
		rate:      rate,
		burstSize: burstSize,
		idleAfter: idleAfter,
		buckets:   make(map[string]*tokenBucket),
		stop:      make(chan struct{}),
		now:       time.Now,
	}
	if idleAfter > 0 {
		go l.sweepLoop()
	}
	return l
}

// Allow takes one token from key's bucket.
func (l *TokenBucketLimiter) Allow(key string) (bool, RateLimitInfo) {
	now := l.now()

	l.mu.Lock()
	b, ok := l.buckets[key]
	if !ok {
		b = &tokenBucket{tokens: float64(l.burstSize), lastRefill: now}
		l.buckets[key] = b
	}
	l.mu.Unlock()

	b.mu.Lock()
	defer b.mu.Unlock()

	b.tokens += now.Sub(b.lastRefill).Seconds() * l.rate
	if b.tokens > float64(l.burstSize) {
		b.tokens = float64(l.burstSize)
	}
	b.lastRefill = now

	info := RateLimitInfo{Limit: l.burstSize, ResetAt: now.Add(time.Duration(float64(time.Second) / l.rate))}
	if b.tokens >= 1 {
		b.tokens--
		info.Remaining = int(b.tokens)
		return true, info
	}
	return false, info
}

func (l *TokenBucketLimiter) sweepLoop() {
	ticker := time.NewTicker(l.idleAfter)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			l.sweep()
		case <-l.stop:
			return
		}
	}
}

func (l *TokenBucketLimiter) sweep() {
	threshold := l.now().Add(-l.idleAfter)
	l.mu.Lock()
	defer l.mu.Unlock()
	for key, b := range l.buckets {
		b.mu.Lock()
		if b.lastRefill.Before(threshold) {
			delete(l.buckets, key)
		}
		b.mu.Unlock()
	}
}

// Stop ends the sweeper. Safe to call more than once.
func (l *TokenBucketLimiter) Stop() {
	l.once.Do(func() { close(l.stop) })
}

// BucketCount returns the number of tracked clients.
func (l *TokenBucketLimiter) BucketCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.buckets)
}

// RateLimit rejects requests over the limit with 429 and the standard error
// envelope.
func RateLimit(limiter RateLimiter, cfg RateLimitConfig) func(http.Handler) http.Handler {
	skip := make(map[string]bool, len(cfg.SkipPaths))
	for _, p := range cfg.SkipPaths {
		skip[p] = true
	}
	keyFunc := cfg.KeyFunc
	if keyFunc == nil {
		keyFunc = ClientIP
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if skip[r.URL.Path] {
				next.ServeHTTP(w, r)
				return
			}

			allowed, info := limiter.Allow(keyFunc(r))
			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(info.Limit))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(info.Remaining))
			w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(info.ResetAt.Unix(), 10))
			if allowed {
				next.ServeHTTP(w, r)
				return
			}

			retryAfter := int(time.Until(info.ResetAt).Seconds())
			if retryAfter < 1 {
				retryAfter = 1
			}
			w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			_ = json.NewEncoder(w).Encode(common.NewErrorResponse(
				errors.ErrCodeTooManyRequests.String(),
				errors.DefaultMessageForCode(errors.ErrCodeTooManyRequests)))
		})
	}
}

//Personal.AI order the ending
