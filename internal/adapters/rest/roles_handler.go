package rest

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/philly/rolekeeper/internal/adapters/api"
	"github.com/philly/rolekeeper/internal/platform/pagination"
	"github.com/philly/rolekeeper/internal/roles/application"
	"github.com/philly/rolekeeper/internal/roles/domain"
)

// RolesHandler serves the role catalog, queries and mutations
type RolesHandler struct {
	*BaseHandler
	assignments *application.AssignmentService
	bulk        *application.BulkCoordinator
	queries     *application.QueryService
}

// NewRolesHandler creates a new roles handler
func NewRolesHandler(
	base *BaseHandler,
	assignments *application.AssignmentService,
	bulk *application.BulkCoordinator,
	queries *application.QueryService,
) *RolesHandler {
	return &RolesHandler{
		BaseHandler: base,
		assignments: assignments,
		bulk:        bulk,
		queries:     queries,
	}
}

// ListRoles returns the catalog, most privileged first
func (h *RolesHandler) ListRoles(w http.ResponseWriter, r *http.Request) {
	h.WriteJSONResponse(w, r, domainDefinitionsToAPI(h.queries.Roles()), http.StatusOK)
}

// GetRoleCounts returns the number of holders of every role
func (h *RolesHandler) GetRoleCounts(w http.ResponseWriter, r *http.Request) {
	counts, err := h.queries.CountsByRole(r.Context())
	if err != nil {
		h.HandleError(w, r, err)
		return
	}

	response := make(api.RoleCounts, len(counts))
	for role, n := range counts {
		response[string(role)] = n
	}
	h.WriteJSONResponse(w, r, response, http.StatusOK)
}

// ListRoleAssignments returns one page of the holders of a role
func (h *RolesHandler) ListRoleAssignments(w http.ResponseWriter, r *http.Request, role api.RoleName, params api.ListRoleAssignmentsParams) {
	page, err := h.queries.ListUsersWithRole(r.Context(), domain.Role(role), pagination.FromOptional(params.Page, params.PerPage))
	if err != nil {
		h.HandleError(w, r, err)
		return
	}
	h.WriteJSONResponse(w, r, assignmentPageToAPI(page), http.StatusOK)
}

// AssignUserRole sets a user's role. A self-demotion without confirmation
// answers 202 with the confirmation the caller has to send back.
func (h *RolesHandler) AssignUserRole(w http.ResponseWriter, r *http.Request, userId api.UserId) {
	var req api.AssignUserRoleJSONRequestBody
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.WriteJSONError(w, r, "validation_error", "Invalid request body", http.StatusBadRequest)
		return
	}

	result, err := h.assignments.AssignRole(r.Context(), application.AssignRoleCommand{
		ActorID:   h.GetUserIDFromContext(r),
		TargetID:  uuid.UUID(userId),
		Role:      domain.Role(req.Role),
		Confirmed: getBoolValue(req.Confirmed),
		Reason:    getStringValue(req.Reason),
	})
	if err != nil {
		h.HandleError(w, r, err)
		return
	}
	h.writeChange(w, r, result)
}

// RemoveUserRole deletes a user's role assignment
func (h *RolesHandler) RemoveUserRole(w http.ResponseWriter, r *http.Request, userId api.UserId, params api.RemoveUserRoleParams) {
	result, err := h.assignments.RemoveRole(r.Context(), application.RemoveRoleCommand{
		ActorID:  h.GetUserIDFromContext(r),
		TargetID: uuid.UUID(userId),
		Reason:   getStringValue(params.Reason),
	})
	if err != nil {
		h.HandleError(w, r, err)
		return
	}
	h.writeChange(w, r, result)
}

// DowngradeUserRole moves a user one step down the hierarchy. The body is
// optional.
func (h *RolesHandler) DowngradeUserRole(w http.ResponseWriter, r *http.Request, userId api.UserId) {
	var req api.DowngradeUserRoleJSONRequestBody
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.WriteJSONError(w, r, "validation_error", "Invalid request body", http.StatusBadRequest)
			return
		}
	}

	result, err := h.assignments.DowngradeRole(r.Context(), application.DowngradeRoleCommand{
		ActorID:   h.GetUserIDFromContext(r),
		TargetID:  uuid.UUID(userId),
		Confirmed: getBoolValue(req.Confirmed),
		Reason:    getStringValue(req.Reason),
	})
	if err != nil {
		h.HandleError(w, r, err)
		return
	}
	h.writeChange(w, r, result)
}

// BulkAssignRoles applies one role to many users
func (h *RolesHandler) BulkAssignRoles(w http.ResponseWriter, r *http.Request) {
	var req api.BulkAssignRolesJSONRequestBody
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.WriteJSONError(w, r, "validation_error", "Invalid request body", http.StatusBadRequest)
		return
	}

	result, err := h.bulk.BulkAssign(r.Context(), application.BulkAssignCommand{
		ActorID:   h.GetUserIDFromContext(r),
		Targets:   uuidsFromAPI(req.Targets),
		Role:      domain.Role(req.Role),
		Confirmed: getBoolValue(req.Confirmed),
		Reason:    getStringValue(req.Reason),
	})
	if err != nil {
		h.HandleError(w, r, err)
		return
	}
	h.WriteJSONResponse(w, r, bulkResultToAPI(result), http.StatusOK)
}

// Search matches a keyword against the catalog or the audit trail
func (h *RolesHandler) Search(w http.ResponseWriter, r *http.Request, params api.SearchParams) {
	scope := application.ScopeRoles
	if params.Scope != nil {
		scope = application.SearchScope(*params.Scope)
	}

	result, err := h.queries.Search(r.Context(), params.Q, scope)
	if err != nil {
		h.HandleError(w, r, err)
		return
	}

	response := api.SearchResponse{
		Scope:   string(result.Scope),
		Keyword: result.Keyword,
	}
	switch result.Scope {
	case application.ScopeAudit:
		entries := auditEntriesToAPI(result.AuditEntries)
		response.AuditEntries = &entries
	default:
		roles := domainDefinitionsToAPI(result.Roles)
		response.Roles = &roles
	}
	h.WriteJSONResponse(w, r, response, http.StatusOK)
}

func (h *RolesHandler) writeChange(w http.ResponseWriter, r *http.Request, result *application.ChangeResult) {
	status := http.StatusOK
	if result.Outcome == application.OutcomePendingConfirmation {
		status = http.StatusAccepted
	}
	h.WriteJSONResponse(w, r, changeResultToAPI(result), status)
}
