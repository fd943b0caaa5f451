package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/turtacn/KeyMark-Search/internal/infrastructure/monitoring/prometheus"
)

// Metrics records request counts and latency labelled by the matched chi
// route pattern, so path parameters do not explode label cardinality.
// Unmatched requests are labelled "unmatched".
func Metrics(m *prometheus.SearchMetrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if m != nil {
				active := m.HTTPActiveRequests.WithLabelValues(r.Method)
				active.Inc()
				defer active.Dec()
			}

			start := time.Now()
			rec := newStatusRecorder(w)
			next.ServeHTTP(rec, r)

			route := "unmatched"
			if rctx := chi.RouteContext(r.Context()); rctx != nil {
				if p := rctx.RoutePattern(); p != "" {
					route = p
				}
			}
			prometheus.RecordHTTPRequest(m, r.Method, route, rec.statusCode, time.Since(start))
		})
	}
}

//Personal.AI order the ending
