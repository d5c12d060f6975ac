package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// CachePinger is satisfied by *cache.Client.
type CachePinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler reports dependency status.
type HealthHandler struct {
	db       Pinger
	cache    CachePinger
	degraded func() bool
}

// NewHealthHandler creates a new health handler. cache and degraded may be nil.
func NewHealthHandler(db Pinger, cache CachePinger, degraded func() bool) *HealthHandler {
	return &HealthHandler{db: db, cache: cache, degraded: degraded}
}

// HealthStatus is the /healthz body.
type HealthStatus struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Cache    string `json:"cache"`
	// AuthDegraded is true while logins are served by the fallback credential.
	AuthDegraded bool `json:"authDegraded"`
}

// Health godoc
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} HealthStatus
// @Failure 503 {object} HealthStatus
// @Router /healthz [get]
func (h *HealthHandler) Health(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()

	status := HealthStatus{Status: "ok", Database: "ok", Cache: "disabled"}
	code := http.StatusOK

	if h.db != nil {
		if err := h.db.PingContext(ctx); err != nil {
			status.Database = "unreachable"
			status.Status = "down"
			code = http.StatusServiceUnavailable
		}
	}
	if h.cache != nil {
		status.Cache = "ok"
		if err := h.cache.Ping(ctx); err != nil {
			status.Cache = "unreachable"
		}
	}
	if h.degraded != nil && h.degraded() {
		status.AuthDegraded = true
		if code == http.StatusOK {
			status.Status = "degraded"
		}
	}
	return c.JSON(code, status)
}
