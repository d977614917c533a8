package rest

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/philly/rolekeeper/internal/roles/domain"
	"github.com/philly/rolekeeper/internal/users/application"
)

// RoleResolver returns a user's current role, domain.NoRole when unassigned
type RoleResolver interface {
	RoleOf(ctx context.Context, userID uuid.UUID) (domain.Role, error)
}

type UserHandler struct {
	*BaseHandler
	service *application.UserService
	roles   RoleResolver
}

func NewUserHandler(base *BaseHandler, service *application.UserService, roles RoleResolver) *UserHandler {
	return &UserHandler{
		BaseHandler: base,
		service:     service,
		roles:       roles,
	}
}

// GetCurrentUser implements the OpenAPI generated ServerInterface
func (h *UserHandler) GetCurrentUser(w http.ResponseWriter, r *http.Request) {
	userID := h.GetUserIDFromContext(r)

	user, err := h.service.GetUserByID(r.Context(), userID)
	if err != nil {
		h.HandleError(w, r, err)
		return
	}

	role, err := h.roles.RoleOf(r.Context(), userID)
	if err != nil {
		h.HandleError(w, r, err)
		return
	}

	h.WriteJSONResponse(w, r, domainUserToAPI(user, role), http.StatusOK)
}
