package controllers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	h "rsvphub/internal/delivery/http/helpers"
)

// Pinger reports whether a backing dependency is reachable.
type Pinger func(ctx context.Context) error

// HealthController reports service health for load balancers and probes.
type HealthController struct {
	Logger *slog.Logger
	DB     Pinger
	Cache  Pinger
}

func NewHealthController(logger *slog.Logger, db, cache Pinger) *HealthController {
	return &HealthController{Logger: logger, DB: db, Cache: cache}
}

// Health handles GET /healthz. Returns 200 when the database and cache
// respond, 503 otherwise.
func (c *HealthController) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	checks := []struct {
		name string
		ping Pinger
	}{
		{"database", c.DB},
		{"cache", c.Cache},
	}
	for _, check := range checks {
		if check.ping == nil {
			continue
		}
		if err := check.ping(ctx); err != nil {
			c.Logger.ErrorContext(ctx, "health check failed", "dependency", check.name, "err", err)
			h.WriteJSONError(w, http.StatusServiceUnavailable, h.ErrCodeInternalError, check.name+" unavailable")
			return
		}
	}

	h.WriteJSONSuccess(w, http.StatusOK, map[string]string{"status": "ok"})
}
