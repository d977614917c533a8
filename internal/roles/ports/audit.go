package ports

import (
	"context"

	auditdomain "github.com/philly/rolekeeper/internal/audit/domain"
)

// AuditRecorder records committed role changes. Append never fails from the
// caller's point of view; it returns the entry as stamped.
type AuditRecorder interface {
	Append(ctx context.Context, entry *auditdomain.Entry) *auditdomain.Entry
}
