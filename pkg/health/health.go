package health

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"
)

// Checker probes one dependency. A nil return means healthy.
type Checker func(ctx context.Context) error

// Status is "up" or "down".
type Status string

const (
	StatusUp   Status = "up"
	StatusDown Status = "down"
)

// Response is the body served by both health endpoints.
type Response struct {
	Status    Status                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Checks    map[string]CheckResult `json:"checks,omitempty"`
}

// CheckResult reports one dependency's outcome.
type CheckResult struct {
	Status Status `json:"status"`
	Error  string `json:"error,omitempty"`
}

// Handler serves liveness and readiness endpoints over a set of registered
// dependency checkers.
type Handler struct {
	mu       sync.RWMutex
	checkers map[string]Checker
}

func NewHandler() *Handler {
	return &Handler{checkers: map[string]Checker{}}
}

// Register adds or replaces the named checker.
func (h *Handler) Register(name string, c Checker) {
	h.mu.Lock()
	h.checkers[name] = c
	h.mu.Unlock()
}

// LivenessHandler always reports up; it only proves the process is serving.
func (h *Handler) LivenessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeStatus(w, http.StatusOK, Response{Status: StatusUp, Timestamp: time.Now().UTC()})
	}
}

// ReadinessHandler runs every registered checker with a shared deadline and
// reports 503 when any dependency is down.
func (h *Handler) ReadinessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		h.mu.RLock()
		names := make([]string, 0, len(h.checkers))
		probes := make([]Checker, 0, len(h.checkers))
		for name, c := range h.checkers {
			names = append(names, name)
			probes = append(probes, c)
		}
		h.mu.RUnlock()

		resp := Response{
			Status:    StatusUp,
			Timestamp: time.Now().UTC(),
			Checks:    make(map[string]CheckResult, len(names)),
		}
		for i, probe := range probes {
			result := CheckResult{Status: StatusUp}
			if err := probe(ctx); err != nil {
				result = CheckResult{Status: StatusDown, Error: err.Error()}
				resp.Status = StatusDown
			}
			resp.Checks[names[i]] = result
		}

		code := http.StatusOK
		if resp.Status == StatusDown {
			code = http.StatusServiceUnavailable
		}
		writeStatus(w, code, resp)
	}
}

func writeStatus(w http.ResponseWriter, code int, resp Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(resp)
}
