package rest

import (
	"context"
	"net/http"
	"time"

	"github.com/philly/rolekeeper/internal/adapters/api"
)

// DatabaseChecker pings the primary database
type DatabaseChecker interface {
	Ping(ctx context.Context) error
}

// CacheChecker pings Redis. A nil CacheChecker means Redis is not configured.
type CacheChecker interface {
	Ping(ctx context.Context) error
}

// Version is the build version reported by the health endpoints
type Version string

type HealthHandler struct {
	*BaseHandler
	version string
	db      DatabaseChecker
	cache   CacheChecker
}

func NewHealthHandler(base *BaseHandler, version Version, db DatabaseChecker, cache CacheChecker) *HealthHandler {
	return &HealthHandler{
		BaseHandler: base,
		version:     string(version),
		db:          db,
		cache:       cache,
	}
}

// GetLiveness implements the liveness probe endpoint
// This is a lightweight check with no external dependencies
func (h *HealthHandler) GetLiveness(w http.ResponseWriter, r *http.Request) {
	response := api.HealthStatus{
		Status:    api.HealthStatusStatusHealthy,
		Timestamp: time.Now(),
		Version:   &h.version,
	}

	h.WriteJSONResponse(w, r, response, http.StatusOK)
}

// GetReadiness implements the readiness probe endpoint.
// A database failure makes the service unready; a Redis failure only
// degrades it because the counts cache falls back to the store.
func (h *HealthHandler) GetReadiness(w http.ResponseWriter, r *http.Request) {
	status := api.HealthStatusStatusHealthy
	httpStatus := http.StatusOK
	checks := &api.HealthChecks{}

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if h.db != nil {
		checks.Database = ping(ctx, h.db)
		if *checks.Database == api.DependencyStatusDown {
			status = api.HealthStatusStatusUnhealthy
			httpStatus = http.StatusServiceUnavailable
		}
	} else {
		status = api.HealthStatusStatusDegraded
	}

	if h.cache != nil {
		checks.Redis = ping(ctx, h.cache)
		if *checks.Redis == api.DependencyStatusDown && status == api.HealthStatusStatusHealthy {
			status = api.HealthStatusStatusDegraded
		}
	}

	response := api.HealthStatus{
		Status:    status,
		Timestamp: time.Now(),
		Version:   &h.version,
		Checks:    checks,
	}

	h.WriteJSONResponse(w, r, response, httpStatus)
}

func ping(ctx context.Context, p interface{ Ping(context.Context) error }) *api.DependencyStatus {
	s := api.DependencyStatusUp
	if err := p.Ping(ctx); err != nil {
		s = api.DependencyStatusDown
	}
	return &s
}
