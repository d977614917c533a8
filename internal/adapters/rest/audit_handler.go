package rest

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/philly/rolekeeper/internal/adapters/api"
	auditdomain "github.com/philly/rolekeeper/internal/audit/domain"
	"github.com/philly/rolekeeper/internal/platform/pagination"
	"github.com/philly/rolekeeper/internal/roles/application"
)

// AuditHandler serves the audit trail
type AuditHandler struct {
	*BaseHandler
	queries *application.QueryService
}

// NewAuditHandler creates a new audit handler
func NewAuditHandler(base *BaseHandler, queries *application.QueryService) *AuditHandler {
	return &AuditHandler{
		BaseHandler: base,
		queries:     queries,
	}
}

// ListAuditEntries returns one page of audit entries, newest first
func (h *AuditHandler) ListAuditEntries(w http.ResponseWriter, r *http.Request, params api.ListAuditEntriesParams) {
	filter := auditdomain.Filter{
		EntityType: getStringValue(params.EntityType),
		Action:     auditdomain.Action(getStringValue(params.Action)),
		From:       params.From,
		To:         params.To,
	}
	if params.ActorId != nil {
		actor := uuid.UUID(*params.ActorId)
		filter.ActorID = &actor
	}

	page, err := h.queries.QueryAudit(r.Context(), filter, pagination.FromOptional(params.Page, params.PerPage))
	if err != nil {
		h.HandleError(w, r, err)
		return
	}

	h.WriteJSONResponse(w, r, api.AuditEntryPage{
		Data:       auditEntriesToAPI(page.Data),
		Total:      page.Total,
		Page:       page.Page,
		PerPage:    page.PerPage,
		TotalPages: page.TotalPages,
	}, http.StatusOK)
}
