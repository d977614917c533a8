package ports

import (
	"context"

	"github.com/philly/rolekeeper/internal/audit/domain"
	"github.com/philly/rolekeeper/internal/platform/pagination"
)

// Sink accepts audit entries for durable storage. Write must be idempotent
// on entry ID so that deliveries can be retried.
type Sink interface {
	Write(ctx context.Context, entry *domain.Entry) error
}

// Repository is the queryable audit store.
type Repository interface {
	Sink

	// List returns one page of entries ordered by timestamp DESC, id ASC.
	List(ctx context.Context, filter domain.Filter, p pagination.Pagination) (pagination.Result[*domain.Entry], error)

	// Search returns up to limit entries, newest first, whose action, entity
	// type or entity id contains keyword, ignoring case.
	Search(ctx context.Context, keyword string, limit int) ([]*domain.Entry, error)
}
