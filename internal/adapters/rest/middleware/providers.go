package middleware

import (
	"context"

	"github.com/google/wire"
	"github.com/philly/rolekeeper/internal/platform/logger"
	"github.com/philly/rolekeeper/internal/platform/metrics"
	"github.com/philly/rolekeeper/internal/users/application"
)

// ProviderSet is the wire provider set for middleware components
var ProviderSet = wire.NewSet(
	ProvideJWTMiddleware,
	ProvideAuthAdapter,
	ProvideAuthorizationMiddleware,
	ProvideRateLimiter,
)

// JWTConfig carries the minimal settings needed to construct the JWT middleware
type JWTConfig struct {
	JWKS   string
	Issuer string
}

// ProvideJWTMiddleware creates JWT middleware from JWTConfig
func ProvideJWTMiddleware(ctx context.Context, cfg JWTConfig) (*JWTMiddleware, error) {
	return NewJWTMiddleware(ctx, cfg.JWKS, cfg.Issuer)
}

// ProvideAuthAdapter creates the auth adapter middleware
func ProvideAuthAdapter(users *application.UserService, log logger.Logger) *AuthAdapter {
	return NewAuthAdapter(users, log)
}

// ProvideAuthorizationMiddleware creates the authorization middleware
func ProvideAuthorizationMiddleware(checker PermissionChecker, log logger.Logger) *AuthorizationMiddleware {
	return NewAuthorizationMiddleware(checker, log)
}

// ProvideRateLimiter creates the per-actor rate limiter and a cleanup func
// that stops its eviction loop.
func ProvideRateLimiter(cfg RateLimitConfig, log logger.Logger, m *metrics.Metrics) (*RateLimiter, func()) {
	rl := NewRateLimiter(cfg, log, m)
	return rl, rl.Stop
}
