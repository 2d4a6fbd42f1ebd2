// Package health serves the liveness and dependency check endpoint.
package health

import (
	"context"
	"net/http"
	"sort"
	"time"

	"rentwise/pkg/platform/httputil"
)

// CheckFunc reports whether one dependency is reachable.
type CheckFunc func(ctx context.Context) error

type Handler struct {
	checks  map[string]CheckFunc
	timeout time.Duration
}

func New(timeout time.Duration) *Handler {
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return &Handler{checks: map[string]CheckFunc{}, timeout: timeout}
}

// Add registers a named check. Nil checks are ignored.
func (h *Handler) Add(name string, check CheckFunc) *Handler {
	if check != nil {
		h.checks[name] = check
	}
	return h
}

type report struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// ServeHTTP runs every check and answers 503 when any of them fails.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	out := report{Status: "ok", Checks: make(map[string]string, len(names))}
	status := http.StatusOK
	for _, name := range names {
		if err := h.checks[name](ctx); err != nil {
			out.Checks[name] = "unavailable"
			out.Status = "degraded"
			status = http.StatusServiceUnavailable
			continue
		}
		out.Checks[name] = "ok"
	}
	httputil.WriteJSON(w, status, out)
}
