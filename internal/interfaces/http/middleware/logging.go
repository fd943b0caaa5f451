package middleware

import (
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/turtacn/KeyMark-Search/internal/infrastructure/monitoring/logging"
)

// LoggingConfig holds configuration for the request logging middleware.
type LoggingConfig struct {
	// SkipPaths are not logged at all.
	SkipPaths []string
	// SlowThreshold promotes successful requests slower than this to Warn.
	SlowThreshold time.Duration
}

// DefaultLoggingConfig skips health and scrape endpoints.
func DefaultLoggingConfig() LoggingConfig {
	return LoggingConfig{
		SkipPaths:     []string{"/healthz", "/readyz", "/metrics"},
		SlowThreshold: 3 * time.Second,
	}
}

// statusRecorder captures the status code and bytes written.
type statusRecorder struct {
	http.ResponseWriter
	statusCode   int
	bytesWritten int64
	wroteHeader  bool
}

func newStatusRecorder(w http.ResponseWriter) *statusRecorder {
	return &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}
}

func (w *statusRecorder) WriteHeader(code int) {
	if !w.wroteHeader {
		w.statusCode = code
		w.wroteHeader = true
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusRecorder) Write(b []byte) (int, error) {
	if !w.wroteHeader {
		w.WriteHeader(http.StatusOK)
	}
	n, err := w.ResponseWriter.Write(b)
	w.bytesWritten += int64(n)
	return n, err
}

// Flush implements http.Flusher.
func (w *statusRecorder) Flush() {
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (w *statusRecorder) Unwrap() http.ResponseWriter { return w.ResponseWriter }

// RequestLogging returns middleware that logs one line per request: 5xx at
// Error, 4xx and slow requests at Warn, the rest at Info.
func RequestLogging(logger logging.Logger, cfg LoggingConfig) func(http.Handler) http.Handler {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	logger = logger.Named("http")
	skip := make(map[string]bool, len(cfg.SkipPaths))
	for _, p := range cfg.SkipPaths {
		skip[p] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if skip[r.URL.Path] {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			rec := newStatusRecorder(w)
			next.ServeHTTP(rec, r)
			duration := time.Since(start)

			path := r.URL.Path
			if r.URL.RawQuery != "" {
				path += "?" + r.URL.RawQuery
			}
			fields := []logging.Field{
				logging.String("method", r.Method),
				logging.String("path", path),
				logging.Int("status", rec.statusCode),
				logging.Duration("duration", duration),
				logging.Int64("bytes", rec.bytesWritten),
				logging.String("remote_addr", r.RemoteAddr),
				logging.String("request_id", chimw.GetReqID(r.Context())),
			}
			if ua := r.UserAgent(); ua != "" {
				fields = append(fields, logging.String("user_agent", ua))
			}

			switch {
			case rec.statusCode >= 500:
				logger.Error("HTTP request completed with server error", fields...)
			case rec.statusCode >= 400:
				logger.Warn("HTTP request completed with client error", fields...)
			case cfg.SlowThreshold > 0 && duration >= cfg.SlowThreshold:
				logger.Warn("HTTP request completed (slow)", fields...)
			default:
				logger.Info("HTTP request completed", fields...)
			}
		})
	}
}

//Personal.AI order the ending
