package handlers

import (
	"context"
	"net/http"
	"sync"
	"time"
)

// HealthChecker is an interface for components that can report their health.
type HealthChecker interface {
	Name() string
	Check(ctx context.Context) error
}

type funcChecker struct {
	name  string
	check func(ctx context.Context) error
}

func (c funcChecker) Name() string                    { return c.name }
func (c funcChecker) Check(ctx context.Context) error { return c.check(ctx) }

// NewHealthChecker adapts a ping function, such as a registry or cache Ping,
// into a HealthChecker.
func NewHealthChecker(name string, check func(ctx context.Context) error) HealthChecker {
	return funcChecker{name: name, check: check}
}

// HealthHandler handles health check HTTP requests.
type HealthHandler struct {
	checkers []HealthChecker
	version  string
	startAt  time.Time
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(version string, checkers ...HealthChecker) *HealthHandler {
	return &HealthHandler{
		checkers: checkers,
		version:  version,
		startAt:  time.Now(),
	}
}

// LivenessResponse is the response for the liveness check.
type LivenessResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Uptime  string `json:"uptime"`
}

// ReadinessResponse is the response for the readiness check.
type ReadinessResponse struct {
	Status     string                    `json:"status"`
	Components map[string]ComponentCheck `json:"components,omitempty"`
}

// ComponentCheck represents the health status of a single component.
type ComponentCheck struct {
	Status  string `json:"status"`
	Latency string `json:"latency,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Liveness handles GET /healthz. It never touches dependencies.
func (h *HealthHandler) Liveness(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, LivenessResponse{
		Status:  "alive",
		Version: h.version,
		Uptime:  h.uptime(),
	})
}

// Readiness handles GET /readyz: 200 when every checker passes, 503 otherwise.
func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	if len(h.checkers) == 0 {
		writeJSON(w, http.StatusOK, ReadinessResponse{Status: "ready"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	components := h.checkAll(ctx)
	if allHealthy(components) {
		writeJSON(w, http.StatusOK, ReadinessResponse{Status: "ready", Components: components})
		return
	}
	writeJSON(w, http.StatusServiceUnavailable, ReadinessResponse{Status: "not_ready", Components: components})
}

// DetailedResponse is the response for the detailed health view.
type DetailedResponse struct {
	Status     string                    `json:"status"`
	Version    string                    `json:"version"`
	Uptime     string                    `json:"uptime"`
	Components map[string]ComponentCheck `json:"components"`
}

// Detailed handles GET /healthz/detail.
func (h *HealthHandler) Detailed(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	components := h.checkAll(ctx)
	resp := DetailedResponse{
		Status:     "healthy",
		Version:    h.version,
		Uptime:     h.uptime(),
		Components: components,
	}
	code := http.StatusOK
	if !allHealthy(components) {
		resp.Status = "degraded"
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, resp)
}

func (h *HealthHandler) uptime() string {
	return time.Since(h.startAt).Truncate(time.Second).String()
}

func allHealthy(components map[string]ComponentCheck) bool {
	for _, c := range components {
		if c.Status != "healthy" {
			return false
		}
	}
	return true
}

// checkAll runs all health checkers concurrently.
func (h *HealthHandler) checkAll(ctx context.Context) map[string]ComponentCheck {
	results := make(map[string]ComponentCheck, len(h.checkers))
	var mu sync.Mutex
	var wg sync.WaitGroup

	for _, checker := range h.checkers {
		wg.Add(1)
		go func(c HealthChecker) {
			defer wg.Done()

			start := time.Now()
			err := c.Check(ctx)
			cc := ComponentCheck{
				Status:  "healthy",
				Latency: time.Since(start).Truncate(time.Microsecond).String(),
			}
			if err != nil {
				cc.Status = "unhealthy"
				cc.Error = err.Error()
			}

			mu.Lock()
			results[c.Name()] = cc
			mu.Unlock()
		}(checker)
	}

	wg.Wait()
	return results
}

//Personal.AI order the ending
