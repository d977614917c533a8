package rest

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/philly/rolekeeper/internal/adapters/api"
	"github.com/philly/rolekeeper/internal/adapters/rest/middleware"
	"github.com/philly/rolekeeper/internal/platform/apperror"
	"github.com/philly/rolekeeper/internal/platform/logger"
)

// BaseHandler contains common dependencies and helper methods for all handlers
type BaseHandler struct {
	logger logger.Logger
}

// NewBaseHandler creates a new base handler with common dependencies
func NewBaseHandler(logger logger.Logger) *BaseHandler {
	return &BaseHandler{
		logger: logger,
	}
}

// WriteJSONError writes a JSON error response matching OpenAPI spec
func (h *BaseHandler) WriteJSONError(w http.ResponseWriter, r *http.Request, code string, message string, statusCode int) {
	h.writeError(w, r, api.Error{Error: code, Message: message}, statusCode)
}

// WriteJSONResponse writes a successful JSON response
func (h *BaseHandler) WriteJSONResponse(w http.ResponseWriter, r *http.Request, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error(r.Context(), "failed to encode response",
			"error", err,
			"status_code", statusCode,
		)
	}
}

// HandleError maps an error onto the API error body. AppErrors keep their
// codes and details; anything else is logged and reported as a 500.
func (h *BaseHandler) HandleError(w http.ResponseWriter, r *http.Request, err error) {
	appErr, ok := apperror.From(err)
	if !ok {
		h.logger.Error(r.Context(), "unhandled error",
			"error", err,
			"method", r.Method,
			"path", r.URL.Path,
		)
		h.WriteJSONError(w, r, string(apperror.CodeInternalError), "An unexpected error occurred", http.StatusInternalServerError)
		return
	}

	status := appErr.HTTPStatus
	if status == 0 {
		status = http.StatusInternalServerError
	}
	if status >= http.StatusInternalServerError {
		h.logger.Error(r.Context(), "request failed",
			"error", err,
			"business_code", appErr.BusinessCode,
			"path", r.URL.Path,
		)
	}

	body := api.Error{
		Error:   string(appErr.Code),
		Message: appErr.Message,
		Context: appErr.Details,
	}
	if appErr.BusinessCode != "" {
		biz := string(appErr.BusinessCode)
		body.BusinessCode = &biz
	}
	h.writeError(w, r, body, status)
}

// ParseUUID parses a raw identifier, answering 400 when it is malformed
func (h *BaseHandler) ParseUUID(w http.ResponseWriter, r *http.Request, value string, paramName string) (uuid.UUID, bool) {
	id, err := uuid.Parse(value)
	if err != nil {
		h.WriteJSONError(w, r, "invalid_request", "Invalid "+paramName, http.StatusBadRequest)
		return uuid.Nil, false
	}
	return id, true
}

// GetUserIDFromContext returns the internal id of the caller. Routes that use
// it sit behind the auth adapter, so a missing id is a wiring bug.
func (h *BaseHandler) GetUserIDFromContext(r *http.Request) uuid.UUID {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		panic("user ID not found in context: route is missing the auth adapter")
	}
	return userID
}

// ParamErrorHandler answers request binding failures from the generated
// wrapper.
func (h *BaseHandler) ParamErrorHandler(w http.ResponseWriter, r *http.Request, err error) {
	h.WriteJSONError(w, r, "invalid_request", err.Error(), http.StatusBadRequest)
}

func (h *BaseHandler) writeError(w http.ResponseWriter, r *http.Request, body api.Error, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Error(r.Context(), "failed to encode error response",
			"error", err,
			"error_code", body.Error,
			"status_code", statusCode,
		)
	}
}
