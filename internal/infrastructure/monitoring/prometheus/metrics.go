package prometheus

import (
	"strconv"
	"time"
)

// SearchMetrics holds the metrics emitted by the search pipeline and its
// surrounding transports.
type SearchMetrics struct {
	// HTTP layer
	HTTPRequestsTotal   CounterVec
	HTTPRequestDuration HistogramVec
	HTTPActiveRequests  GaugeVec

	// Search pipeline
	SearchesTotal      CounterVec
	SearchDuration     HistogramVec
	SearchCandidates   HistogramVec
	SearchPageSize     HistogramVec
	ResolutionGaps     CounterVec
	MalformedFragments CounterVec
	FuzzyFragments     HistogramVec

	// Registry
	RegistryQueryDuration HistogramVec
	RegistryErrorsTotal   CounterVec

	// Cache and invalidation
	CacheHitsTotal          CounterVec
	CacheMissesTotal        CounterVec
	InvalidationEventsTotal CounterVec

	// Image presence
	ImageLookupsTotal CounterVec
}

// Default buckets.
var (
	DefaultHTTPDurationBuckets     = []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}
	DefaultRegistryDurationBuckets = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 5}
	DefaultCandidateBuckets        = []float64{0, 1, 10, 50, 100, 500, 1000, 5000, 10000, 100000}
	DefaultPageBuckets             = []float64{0, 1, 10, 50, 100, 200, 500, 1000}
	DefaultFragmentBuckets         = []float64{0, 4, 8, 16, 32, 64, 128}
)

// NewSearchMetrics registers every search metric with collector.
func NewSearchMetrics(collector MetricsCollector) *SearchMetrics {
	m := &SearchMetrics{}

	m.HTTPRequestsTotal = collector.RegisterCounter("http_requests_total", "Total HTTP requests", "method", "path", "status_code")
	m.HTTPRequestDuration = collector.RegisterHistogram("http_request_duration_seconds", "HTTP request duration", DefaultHTTPDurationBuckets, "method", "path")
	m.HTTPActiveRequests = collector.RegisterGauge("http_active_requests", "Active HTTP requests", "method")

	m.SearchesTotal = collector.RegisterCounter("searches_total", "Searches executed", "mode", "outcome")
	m.SearchDuration = collector.RegisterHistogram("search_duration_seconds", "End-to-end search duration", DefaultHTTPDurationBuckets, "mode")
	m.SearchCandidates = collector.RegisterHistogram("search_candidates", "Candidate count reported by the count phase", DefaultCandidateBuckets, "mode")
	m.SearchPageSize = collector.RegisterHistogram("search_page_size", "Records returned per page", DefaultPageBuckets, "mode")
	m.ResolutionGaps = collector.RegisterCounter("search_resolution_gaps_total", "Candidates that vanished between the id and detail phases", "phase")
	m.MalformedFragments = collector.RegisterCounter("search_malformed_fragments_total", "Registry fragments dropped during assembly", "source")
	m.FuzzyFragments = collector.RegisterHistogram("search_fuzzy_fragments", "Fragments generated per fuzzy search", DefaultFragmentBuckets)

	m.RegistryQueryDuration = collector.RegisterHistogram("registry_query_duration_seconds", "Registry query duration", DefaultRegistryDurationBuckets, "driver", "operation")
	m.RegistryErrorsTotal = collector.RegisterCounter("registry_errors_total", "Registry failures", "driver", "operation")

	m.CacheHitsTotal = collector.RegisterCounter("cache_hits_total", "Cache hits", "cache")
	m.CacheMissesTotal = collector.RegisterCounter("cache_misses_total", "Cache misses", "cache")
	m.InvalidationEventsTotal = collector.RegisterCounter("cache_invalidation_events_total", "Registry update events consumed", "status")

	m.ImageLookupsTotal = collector.RegisterCounter("image_lookups_total", "Image presence lookups", "source", "result")

	return m
}

// Helpers. Each accepts a nil *SearchMetrics so callers can run without metrics.

// RecordHTTPRequest records a completed HTTP request.
func RecordHTTPRequest(m *SearchMetrics, method, path string, statusCode int, duration time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(statusCode)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordSearch records one search. outcome is "ok", "empty", "invalid" or "error".
func RecordSearch(m *SearchMetrics, mode, outcome string, candidates int64, page int, duration time.Duration) {
	if m == nil {
		return
	}
	m.SearchesTotal.WithLabelValues(mode, outcome).Inc()
	m.SearchDuration.WithLabelValues(mode).Observe(duration.Seconds())
	if outcome == "ok" || outcome == "empty" {
		m.SearchCandidates.WithLabelValues(mode).Observe(float64(candidates))
		m.SearchPageSize.WithLabelValues(mode).Observe(float64(page))
	}
}

// RecordResolutionGap counts candidates that disappeared before assembly.
func RecordResolutionGap(m *SearchMetrics, phase string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.ResolutionGaps.WithLabelValues(phase).Add(float64(n))
}

// RecordMalformedFragment counts a dropped registry fragment.
func RecordMalformedFragment(m *SearchMetrics, source string) {
	if m == nil {
		return
	}
	m.MalformedFragments.WithLabelValues(source).Inc()
}

// RecordFuzzyFragments records how many fragments a fuzzy query expanded into.
func RecordFuzzyFragments(m *SearchMetrics, n int) {
	if m == nil {
		return
	}
	m.FuzzyFragments.WithLabelValues().Observe(float64(n))
}

// RecordRegistryQuery records one registry round trip.
func RecordRegistryQuery(m *SearchMetrics, driver, operation string, duration time.Duration, err error) {
	if m == nil {
		return
	}
	m.RegistryQueryDuration.WithLabelValues(driver, operation).Observe(duration.Seconds())
	if err != nil {
		m.RegistryErrorsTotal.WithLabelValues(driver, operation).Inc()
	}
}

// RecordCacheAccess records a cache hit or miss.
func RecordCacheAccess(m *SearchMetrics, cache string, hit bool) {
	if m == nil {
		return
	}
	if hit {
		m.CacheHitsTotal.WithLabelValues(cache).Inc()
	} else {
		m.CacheMissesTotal.WithLabelValues(cache).Inc()
	}
}

// RecordInvalidation records a consumed registry update event.
func RecordInvalidation(m *SearchMetrics, status string) {
	if m == nil {
		return
	}
	m.InvalidationEventsTotal.WithLabelValues(status).Inc()
}

// RecordImageLookup records an image presence check.
func RecordImageLookup(m *SearchMetrics, source string, found bool) {
	if m == nil {
		return
	}
	result := "absent"
	if found {
		result = "present"
	}
	m.ImageLookupsTotal.WithLabelValues(source, result).Inc()
}

//Personal.AI order the ending
