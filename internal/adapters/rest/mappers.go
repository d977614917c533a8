package rest

import (
	"github.com/google/uuid"
	openapi_types "github.com/oapi-codegen/runtime/types"
	"github.com/philly/rolekeeper/internal/adapters/api"
	auditdomain "github.com/philly/rolekeeper/internal/audit/domain"
	"github.com/philly/rolekeeper/internal/platform/pagination"
	"github.com/philly/rolekeeper/internal/roles/application"
	"github.com/philly/rolekeeper/internal/roles/domain"
	usersdomain "github.com/philly/rolekeeper/internal/users/domain"
)

func domainDefinitionToAPI(def domain.Definition) api.RoleDefinition {
	return api.RoleDefinition{
		Role:           api.RoleName(def.Role),
		Name:           def.Name,
		Description:    def.Description,
		HierarchyIndex: def.HierarchyIndex,
		Permissions:    def.Permissions,
	}
}

func domainDefinitionsToAPI(defs []domain.Definition) []api.RoleDefinition {
	out := make([]api.RoleDefinition, len(defs))
	for i, def := range defs {
		out[i] = domainDefinitionToAPI(def)
	}
	return out
}

func domainAssignmentToAPI(a *domain.Assignment) api.RoleAssignment {
	return api.RoleAssignment{
		UserId:    openapi_types.UUID(a.UserID),
		Role:      api.RoleName(a.Role),
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

func assignmentPageToAPI(page pagination.Result[*domain.Assignment]) api.RoleAssignmentPage {
	data := make([]api.RoleAssignment, len(page.Data))
	for i, a := range page.Data {
		data[i] = domainAssignmentToAPI(a)
	}
	return api.RoleAssignmentPage{
		Data:       data,
		Total:      page.Total,
		Page:       page.Page,
		PerPage:    page.PerPage,
		TotalPages: page.TotalPages,
	}
}

func roleNamePtr(r domain.Role) *api.RoleName {
	if r == domain.NoRole {
		return nil
	}
	name := api.RoleName(r)
	return &name
}

func changeResultToAPI(result *application.ChangeResult) api.RoleChangeResponse {
	resp := api.RoleChangeResponse{
		Outcome:      api.ChangeOutcome(result.Outcome),
		PreviousRole: roleNamePtr(result.Previous),
	}
	if result.Assignment != nil {
		a := domainAssignmentToAPI(result.Assignment)
		resp.Assignment = &a
	}
	if c := result.Confirmation; c != nil {
		resp.Confirmation = &api.Confirmation{
			Reason: string(c.Reason),
			From:   api.RoleName(c.From),
			To:     api.RoleName(c.To),
		}
	}
	return resp
}

func bulkResultToAPI(result *application.BulkResult) api.BulkAssignResponse {
	resp := api.BulkAssignResponse{
		BatchId:   openapi_types.UUID(result.BatchID),
		Succeeded: make([]api.BulkItem, len(result.Succeeded)),
		Failed:    make([]api.BulkFailure, len(result.Failed)),
	}
	for i, item := range result.Succeeded {
		resp.Succeeded[i] = api.BulkItem{
			TargetId:     openapi_types.UUID(item.TargetID),
			Outcome:      api.ChangeOutcome(item.Outcome),
			PreviousRole: roleNamePtr(item.Previous),
		}
	}
	for i, f := range result.Failed {
		resp.Failed[i] = api.BulkFailure{
			TargetId:     openapi_types.UUID(f.TargetID),
			BusinessCode: string(f.Code),
			Message:      f.Reason,
		}
	}
	return resp
}

func auditEntryToAPI(e *auditdomain.Entry) api.AuditEntry {
	entry := api.AuditEntry{
		Id:         openapi_types.UUID(e.ID),
		Timestamp:  e.Timestamp,
		Action:     string(e.Action),
		EntityType: e.EntityType,
		EntityId:   e.EntityID,
		Metadata:   e.Metadata,
	}
	if entry.Metadata == nil {
		entry.Metadata = map[string]interface{}{}
	}
	if e.ActorUserID != nil {
		actor := openapi_types.UUID(*e.ActorUserID)
		entry.ActorUserId = &actor
	}
	return entry
}

func auditEntriesToAPI(entries []*auditdomain.Entry) []api.AuditEntry {
	out := make([]api.AuditEntry, len(entries))
	for i, e := range entries {
		out[i] = auditEntryToAPI(e)
	}
	return out
}

func domainUserToAPI(user *usersdomain.User, role domain.Role) api.User {
	return api.User{
		Id:          openapi_types.UUID(user.ID),
		Email:       openapi_types.Email(user.Email),
		DisplayName: stringToPointer(user.DisplayName),
		Role:        roleNamePtr(role),
		CreatedAt:   user.CreatedAt,
	}
}

func uuidsFromAPI(ids []openapi_types.UUID) []uuid.UUID {
	out := make([]uuid.UUID, len(ids))
	for i, id := range ids {
		out[i] = uuid.UUID(id)
	}
	return out
}

// Helper function to convert *string to string
func getStringValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// Helper function to convert *bool to bool
func getBoolValue(b *bool) bool {
	return b != nil && *b
}

// Helper function to convert string to *string
func stringToPointer(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
