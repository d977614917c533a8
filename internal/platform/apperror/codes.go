package apperror

// ErrorCode is the general category of a failure. It maps onto the "error"
// field of API error responses.
type ErrorCode string

const (
	CodeValidationFailed     ErrorCode = "VALIDATION_FAILED"
	CodeUnauthorized         ErrorCode = "UNAUTHORIZED"
	CodeForbidden            ErrorCode = "FORBIDDEN"
	CodeNotFound             ErrorCode = "NOT_FOUND"
	CodeConflict             ErrorCode = "CONFLICT"
	CodePreconditionRequired ErrorCode = "PRECONDITION_REQUIRED"
	CodeUnprocessable        ErrorCode = "UNPROCESSABLE"
	CodeTooManyRequests      ErrorCode = "TOO_MANY_REQUESTS"
	CodeServiceUnavailable   ErrorCode = "SERVICE_UNAVAILABLE"
	CodeInternalError        ErrorCode = "INTERNAL_SERVER_ERROR"
)

// BusinessCode is the specific reason behind an ErrorCode.
type BusinessCode string

const (
	BusinessCodeGeneral       BusinessCode = "GENERAL"
	BusinessCodeInvalidFormat BusinessCode = "INVALID_FORMAT"

	// Roles
	BusinessCodeInvalidRole                   BusinessCode = "INVALID_ROLE"
	BusinessCodeAssignmentNotFound            BusinessCode = "ASSIGNMENT_NOT_FOUND"
	BusinessCodeLastOwnerProtected            BusinessCode = "LAST_OWNER_PROTECTED"
	BusinessCodeSelfDemotionNeedsConfirmation BusinessCode = "SELF_DEMOTION_NEEDS_CONFIRMATION"
	BusinessCodeAlreadyLowestRole             BusinessCode = "ALREADY_LOWEST_ROLE"
	BusinessCodeInsufficientRole              BusinessCode = "INSUFFICIENT_ROLE"
	BusinessCodeOwnerAlreadyExists            BusinessCode = "OWNER_ALREADY_EXISTS"
	BusinessCodeStoreFailure                  BusinessCode = "STORE_FAILURE"

	// Audit
	BusinessCodeInvalidAuditFilter BusinessCode = "INVALID_AUDIT_FILTER"
	BusinessCodeAuditWriteFailed   BusinessCode = "AUDIT_WRITE_FAILED"

	// Users
	BusinessCodeUserNotFound BusinessCode = "USER_NOT_FOUND"
	BusinessCodeInvalidEmail BusinessCode = "INVALID_EMAIL"
)
