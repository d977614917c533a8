package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/philly/rolekeeper/internal/audit/domain"
	"github.com/philly/rolekeeper/internal/audit/ports"
	"github.com/philly/rolekeeper/internal/platform/pagination"
)

// AuditLog is an append-only in-memory audit repository.
type AuditLog struct {
	mu      sync.RWMutex
	entries []*domain.Entry
	seen    map[uuid.UUID]struct{}
}

var _ ports.Repository = (*AuditLog)(nil)

func NewAuditLog() *AuditLog {
	return &AuditLog{seen: make(map[uuid.UUID]struct{})}
}

// Write appends the entry. A second write of the same id is ignored.
func (l *AuditLog) Write(ctx context.Context, entry *domain.Entry) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.seen[entry.ID]; ok {
		return nil
	}
	l.seen[entry.ID] = struct{}{}
	l.entries = append(l.entries, entry.Clone())
	return nil
}

func (l *AuditLog) List(ctx context.Context, filter domain.Filter, p pagination.Pagination) (pagination.Result[*domain.Entry], error) {
	matched := l.collect(filter.Matches)
	return pagination.Slice(matched, p), nil
}

func (l *AuditLog) Search(ctx context.Context, keyword string, limit int) ([]*domain.Entry, error) {
	matched := l.collect(func(e *domain.Entry) bool { return e.MatchesKeyword(keyword) })
	if limit > 0 && len(matched) > limit {
		matched = matched[:limit]
	}
	return matched, nil
}

// Entries returns every entry, newest first.
func (l *AuditLog) Entries() []*domain.Entry {
	return l.collect(func(*domain.Entry) bool { return true })
}

// Len returns the number of stored entries.
func (l *AuditLog) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}

func (l *AuditLog) collect(keep func(*domain.Entry) bool) []*domain.Entry {
	l.mu.RLock()
	out := make([]*domain.Entry, 0, len(l.entries))
	for _, e := range l.entries {
		if keep(e) {
			out = append(out, e.Clone())
		}
	}
	l.mu.RUnlock()

	domain.Sort(out)
	return out
}
