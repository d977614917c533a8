package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/philly/rolekeeper/internal/platform/logger"
	"github.com/philly/rolekeeper/internal/users/application"
	"github.com/philly/rolekeeper/internal/users/domain"
)

// UserProvisioner maps an identity provider subject to the internal user,
// creating the row on first sight.
type UserProvisioner interface {
	EnsureUser(ctx context.Context, params application.EnsureUserParams) (*domain.User, error)
}

// AuthAdapter bridges the gap between the external identity provider and our
// internal domain. It takes the subject from the JWT middleware, resolves it
// to the internal user UUID (provisioning the user on first request) and puts
// that UUID in the context for authorization and handlers.
//
// NOTE: This middleware puts a database query on the hot path of every
// authenticated request. The lookup is by a unique index and cheap, but an
// internal id claim minted by the identity provider would remove it.
type AuthAdapter struct {
	users  UserProvisioner
	logger logger.Logger
}

// NewAuthAdapter creates a new authentication adapter
func NewAuthAdapter(users UserProvisioner, logger logger.Logger) *AuthAdapter {
	return &AuthAdapter{
		users:  users,
		logger: logger,
	}
}

// Middleware must be placed AFTER JWT middleware and BEFORE authorization middleware
func (a *AuthAdapter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		subject, ok := GetJWTUserID(ctx)
		if !ok {
			a.logger.Warn(ctx, "subject not found in context")
			WriteJSONError(w, ErrorCodeUnauthorized, "Authentication required", http.StatusUnauthorized)
			return
		}
		email, _ := GetJWTUserEmail(ctx)

		user, err := a.users.EnsureUser(ctx, application.EnsureUserParams{
			ExternalID: subject,
			Email:      email,
		})
		if err != nil {
			if errors.Is(err, application.ErrInvalidEmail) {
				WriteJSONError(w, ErrorCodeInvalidToken, "Token email is invalid", http.StatusUnauthorized)
				return
			}
			a.logger.Error(ctx, "failed to resolve user",
				"external_id", subject,
				"error", err,
			)
			WriteJSONError(w, ErrorCodeServiceUnavailable, "Failed to resolve user", http.StatusServiceUnavailable)
			return
		}

		ctx = SetUserID(ctx, user.ID)
		if email != "" {
			ctx = context.WithValue(ctx, UserEmailKey, email)
		}

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetUserEmail is a helper to get the user's email from context
func GetUserEmail(ctx context.Context) (string, bool) {
	email, ok := ctx.Value(UserEmailKey).(string)
	return email, ok
}

// WithJWTClaims puts verified token claims in the context the way the JWT
// middleware does. Other authenticators can use it to feed the auth adapter.
func WithJWTClaims(ctx context.Context, subject, email string) context.Context {
	ctx = context.WithValue(ctx, JWTUserIDContextKey, subject)
	return context.WithValue(ctx, JWTUserEmailContextKey, email)
}
