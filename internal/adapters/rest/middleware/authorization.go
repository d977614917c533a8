package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/philly/rolekeeper/internal/platform/logger"
)

// contextKey is a custom type for context keys to avoid collisions
type contextKey string

const (
	// UserIDKey is the context key for the authenticated user's ID
	UserIDKey contextKey = "userID"

	// UserEmailKey is the context key for the authenticated user's email
	UserEmailKey contextKey = "userEmail"
)

// PermissionChecker answers whether a user's current role grants a
// permission. Implementations must read the role fresh on every call.
type PermissionChecker interface {
	HasPermission(ctx context.Context, userID uuid.UUID, permission string) (bool, error)
}

// AuthorizationMiddleware provides permission-based authorization for HTTP handlers.
// It is a coarse route gate; the role services recheck inside their guarded
// units.
type AuthorizationMiddleware struct {
	checker PermissionChecker
	logger  logger.Logger
}

// NewAuthorizationMiddleware creates a new authorization middleware
func NewAuthorizationMiddleware(checker PermissionChecker, logger logger.Logger) *AuthorizationMiddleware {
	return &AuthorizationMiddleware{
		checker: checker,
		logger:  logger,
	}
}

// RequirePermission creates a middleware that checks if the user has a specific permission
func (m *AuthorizationMiddleware) RequirePermission(permission string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			// Get user ID from context (should be set by authentication middleware)
			userID, ok := GetUserID(ctx)
			if !ok {
				m.logger.Warn(ctx, "user ID not found in context")
				WriteJSONError(w, ErrorCodeUnauthorized, "Authentication required", http.StatusUnauthorized)
				return
			}

			hasPermission, err := m.checker.HasPermission(ctx, userID, permission)
			if err != nil {
				m.logger.Error(ctx, "failed to check permission",
					"user_id", userID,
					"permission", permission,
					"error", err,
				)
				WriteJSONError(w, ErrorCodeServiceUnavailable, "Failed to check permissions", http.StatusServiceUnavailable)
				return
			}

			if !hasPermission {
				m.logger.Warn(ctx, "permission denied",
					"user_id", userID,
					"permission", permission,
				)
				WriteJSONErrorWithDetails(w, ErrorCodeForbidden, "Insufficient permissions", http.StatusForbidden,
					map[string]any{
						"business_code": "INSUFFICIENT_ROLE",
						"context":       map[string]any{"permission": permission},
					})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// GetUserID is a helper function to get the user ID from the request context
func GetUserID(ctx context.Context) (uuid.UUID, bool) {
	userID, ok := ctx.Value(UserIDKey).(uuid.UUID)
	return userID, ok
}

// SetUserID is a helper function to set the user ID in the request context
// This should be called by the authentication middleware after validating the JWT
func SetUserID(ctx context.Context, userID uuid.UUID) context.Context {
	return context.WithValue(ctx, UserIDKey, userID)
}
