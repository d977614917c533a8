package postgres

import (
	"context"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/philly/rolekeeper/internal/audit/domain"
	"github.com/philly/rolekeeper/internal/audit/ports"
	"github.com/philly/rolekeeper/internal/platform/pagination"
	"github.com/philly/rolekeeper/internal/platform/postgres"
)

const auditEntriesTable = "audit_entries"

var auditColumns = []string{"id", "occurred_at", "actor_user_id", "action", "entity_type", "entity_id", "metadata"}

// AuditRepository is the append-only audit table. Writes are idempotent on
// the entry id, so a retried delivery never duplicates an entry.
type AuditRepository struct {
	postgres.BaseRepository
}

var _ ports.Repository = (*AuditRepository)(nil)

func NewAuditRepository(base postgres.BaseRepository) *AuditRepository {
	return &AuditRepository{BaseRepository: base}
}

func (r *AuditRepository) Write(ctx context.Context, entry *domain.Entry) error {
	metadata := entry.Metadata
	if metadata == nil {
		metadata = map[string]any{}
	}

	query, args, err := r.SB.
		Insert(auditEntriesTable).
		Columns(auditColumns...).
		Values(entry.ID, entry.Timestamp, entry.ActorUserID, string(entry.Action), entry.EntityType, entry.EntityID, metadata).
		Suffix("ON CONFLICT (id) DO NOTHING").
		ToSql()
	if err != nil {
		return fmt.Errorf("AuditRepository.Write: build query: %w", err)
	}

	if _, err := r.DB.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("AuditRepository.Write: %w", err)
	}
	return nil
}

func (r *AuditRepository) List(ctx context.Context, filter domain.Filter, p pagination.Pagination) (pagination.Result[*domain.Entry], error) {
	where := filterConditions(filter)

	countQuery, countArgs, err := r.SB.Select("COUNT(*)").From(auditEntriesTable).Where(where).ToSql()
	if err != nil {
		return pagination.Result[*domain.Entry]{}, fmt.Errorf("AuditRepository.List: build count: %w", err)
	}
	var total int64
	if err := r.DB.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return pagination.Result[*domain.Entry]{}, fmt.Errorf("AuditRepository.List: count: %w", err)
	}

	query, args, err := r.SB.
		Select(auditColumns...).
		From(auditEntriesTable).
		Where(where).
		OrderBy("occurred_at DESC", "id ASC").
		Limit(uint64(p.Limit())).
		Offset(uint64(p.Offset())).
		ToSql()
	if err != nil {
		return pagination.Result[*domain.Entry]{}, fmt.Errorf("AuditRepository.List: build query: %w", err)
	}

	entries, err := r.query(ctx, query, args)
	if err != nil {
		return pagination.Result[*domain.Entry]{}, fmt.Errorf("AuditRepository.List: %w", err)
	}
	return pagination.NewResult(entries, total, p), nil
}

func (r *AuditRepository) Search(ctx context.Context, keyword string, limit int) ([]*domain.Entry, error) {
	pattern := "%" + escapeLike(keyword) + "%"

	query, args, err := r.SB.
		Select(auditColumns...).
		From(auditEntriesTable).
		Where(sq.Or{
			sq.ILike{"action": pattern},
			sq.ILike{"entity_type": pattern},
			sq.ILike{"entity_id": pattern},
		}).
		OrderBy("occurred_at DESC", "id ASC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("AuditRepository.Search: build query: %w", err)
	}

	entries, err := r.query(ctx, query, args)
	if err != nil {
		return nil, fmt.Errorf("AuditRepository.Search: %w", err)
	}
	return entries, nil
}

func (r *AuditRepository) query(ctx context.Context, query string, args []any) ([]*domain.Entry, error) {
	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]*domain.Entry, 0)
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

func filterConditions(f domain.Filter) sq.And {
	where := sq.And{}
	if f.EntityType != "" {
		where = append(where, sq.Eq{"entity_type": f.EntityType})
	}
	if f.Action != "" {
		where = append(where, sq.Eq{"action": string(f.Action)})
	}
	if f.ActorID != nil {
		where = append(where, sq.Eq{"actor_user_id": *f.ActorID})
	}
	if f.From != nil {
		where = append(where, sq.GtOrEq{"occurred_at": *f.From})
	}
	if f.To != nil {
		where = append(where, sq.LtOrEq{"occurred_at": *f.To})
	}
	return where
}

func scanEntry(row pgx.Row) (*domain.Entry, error) {
	var e domain.Entry
	var actor pgtype.UUID
	var action string
	if err := row.Scan(&e.ID, &e.Timestamp, &actor, &action, &e.EntityType, &e.EntityID, &e.Metadata); err != nil {
		return nil, err
	}
	e.Action = domain.Action(action)
	if actor.Valid {
		id := uuid.UUID(actor.Bytes)
		e.ActorUserID = &id
	}
	return &e, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
