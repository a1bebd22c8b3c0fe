package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"

	"github.com/nochase/nochase/internal/ctxkeys"
)

type HealthHandler struct {
	db    *sqlx.DB
	redis *redis.Client
}

// NewHealthHandler checks db and, when not nil, redis.
func NewHealthHandler(db *sqlx.DB, redis *redis.Client) *HealthHandler {
	return &HealthHandler{db: db, redis: redis}
}

type healthResponse struct {
	Status string `json:"status"`
	App    string `json:"app,omitempty"`
	Env    string `json:"env,omitempty"`
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{Status: "ok"}
	if cfg := ctxkeys.Config(r.Context()); cfg != nil {
		resp.App = cfg.AppName
		resp.Env = cfg.AppEnv
	}

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	err := h.db.PingContext(ctx)
	if err != nil {
		slog.Error("health check: database unreachable", "error", err)
		resp.Status = "unavailable"
		writeJSON(w, http.StatusServiceUnavailable, resp)
		return
	}

	// Redis only backs rate limiting, so an outage degrades rather than fails
	if h.redis != nil {
		err = h.redis.Ping(ctx).Err()
		if err != nil {
			slog.Warn("health check: redis unreachable", "error", err)
			resp.Status = "degraded"
		}
	}

	writeJSON(w, http.StatusOK, resp)
}
