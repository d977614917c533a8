package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/philly/rolekeeper/internal/adapters/api"
	"github.com/philly/rolekeeper/internal/adapters/rest"
	"github.com/philly/rolekeeper/internal/adapters/rest/middleware"
	"github.com/philly/rolekeeper/internal/platform/logger"
	"github.com/philly/rolekeeper/internal/platform/metrics"
	"github.com/philly/rolekeeper/internal/roles/permission"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewHTTPServer creates and configures the HTTP server with all routes
func NewHTTPServer(
	config Config,
	server api.ServerInterface,
	base *rest.BaseHandler,
	jwtMiddleware *middleware.JWTMiddleware,
	authzMiddleware *middleware.AuthorizationMiddleware,
	authAdapter *middleware.AuthAdapter,
	rateLimiter *middleware.RateLimiter,
	m *metrics.Metrics,
	log logger.Logger,
) *http.Server {
	r := chi.NewRouter()
	r.Use(chimw.Recoverer)

	// Authenticated endpoints: JWT validation, then subject to internal UUID
	protectedMiddlewares := []api.MiddlewareFunc{
		wrapMiddleware(jwtMiddleware.Middleware),
		wrapMiddleware(authAdapter.Middleware),
	}

	// Read endpoints gated by a permission of the caller's current role
	createAuthzMiddleware := func(perm string) []api.MiddlewareFunc {
		return append(append([]api.MiddlewareFunc{}, protectedMiddlewares...),
			wrapMiddleware(authzMiddleware.RequirePermission(perm)),
		)
	}

	// Mutating endpoints are throttled per actor before the permission check
	createMutationMiddleware := func(perm string) []api.MiddlewareFunc {
		return append(append([]api.MiddlewareFunc{}, protectedMiddlewares...),
			wrapMiddleware(rateLimiter.Middleware),
			wrapMiddleware(authzMiddleware.RequirePermission(perm)),
		)
	}

	publicPatterns := map[string]bool{
		"GET /api/v1/health/live":  true,
		"GET /api/v1/health/ready": true,
	}

	permissionPatterns := map[string][]api.MiddlewareFunc{
		"GET /api/v1/roles":                    createAuthzMiddleware(permission.RolesRead),
		"GET /api/v1/roles/counts":             createAuthzMiddleware(permission.RolesRead),
		"GET /api/v1/roles/{role}/assignments": createAuthzMiddleware(permission.RolesRead),
		"GET /api/v1/search":                   createAuthzMiddleware(permission.RolesRead),
		"GET /api/v1/audit-entries":            createAuthzMiddleware(permission.AuditRead),

		"PUT /api/v1/users/{userId}/role":            createMutationMiddleware(permission.RolesAssign),
		"DELETE /api/v1/users/{userId}/role":         createMutationMiddleware(permission.RolesRevoke),
		"POST /api/v1/users/{userId}/role/downgrade": createMutationMiddleware(permission.RolesAssign),
		"POST /api/v1/roles/bulk-assignments":        createMutationMiddleware(permission.RolesBulkAssign),
	}

	// Prometheus exposition sits outside /api/v1 and outside auth
	r.Handle("/metrics", promhttp.Handler())

	// Register API routes on chi router with a route-aware middleware
	_ = api.HandlerWithOptions(server, api.ChiServerOptions{
		BaseURL:    "/api/v1",
		BaseRouter: r,
		Middlewares: []api.MiddlewareFunc{
			routeAwareChiMiddleware(publicPatterns, permissionPatterns, protectedMiddlewares),
		},
		ErrorHandlerFunc: base.ParamErrorHandler,
	})

	handler := chimw.RequestID(withObservability(r, m, log))

	return &http.Server{
		Addr:         config.ServerAddress,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

// routeAwareChiMiddleware applies auth middlewares based on matched chi route pattern
func routeAwareChiMiddleware(
	public map[string]bool,
	specific map[string][]api.MiddlewareFunc,
	defaults []api.MiddlewareFunc,
) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			routeCtx := chi.RouteContext(r.Context())
			method := r.Method
			if method == http.MethodHead {
				method = http.MethodGet
			}
			pattern := ""
			if routeCtx != nil {
				pattern = method + " " + routeCtx.RoutePattern()
			}

			if public[pattern] {
				next.ServeHTTP(w, r)
				return
			}

			middlewares, ok := specific[pattern]
			if !ok {
				middlewares = defaults
			}
			handler := next
			for i := len(middlewares) - 1; i >= 0; i-- {
				handler = middlewares[i](handler)
			}
			handler.ServeHTTP(w, r)
		})
	}
}

// wrapMiddleware converts a standard middleware to oapi-codegen's MiddlewareFunc
func wrapMiddleware(mw func(http.Handler) http.Handler) api.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return mw(next)
	}
}

// withObservability logs every request and records it under its route
// pattern. The route context is created here so the matched pattern is
// readable once the router returns.
func withObservability(handler http.Handler, m *metrics.Metrics, log logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		rctx := chi.NewRouteContext()
		r = r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
		wrr := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

		handler.ServeHTTP(wrr, r)

		duration := time.Since(start)
		route := rctx.RoutePattern()
		m.HTTPRequest(r.Method, route, wrr.Status(), duration)

		log.Info(r.Context(), "http request completed",
			"method", r.Method,
			"path", r.URL.Path,
			"route", route,
			"status", wrr.Status(),
			"duration_ms", duration.Milliseconds(),
			"remote_addr", r.RemoteAddr,
			"request_id", chimw.GetReqID(r.Context()),
		)
	})
}
