package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/philly/rolekeeper/internal/platform/logger"
	"github.com/philly/rolekeeper/internal/platform/pagination"
	"github.com/philly/rolekeeper/internal/platform/postgres"
	"github.com/philly/rolekeeper/internal/roles/domain"
	"github.com/philly/rolekeeper/internal/roles/ports"
)

const roleAssignmentsTable = "role_assignments"

// RoleStore persists role assignments in Postgres. Guarded units run in a
// READ COMMITTED transaction that locks every owner row before fn runs, so
// units touching the owner set are serialized.
type RoleStore struct {
	postgres.BaseRepository
	txManager postgres.TransactionManager
	retry     postgres.RetryConfig
	logger    logger.Logger
}

var _ ports.RoleStore = (*RoleStore)(nil)

func NewRoleStore(base postgres.BaseRepository, txManager postgres.TransactionManager, retry postgres.RetryConfig, logger logger.Logger) *RoleStore {
	return &RoleStore{
		BaseRepository: base,
		txManager:      txManager,
		retry:          retry,
		logger:         logger,
	}
}

func (s *RoleStore) GetRole(ctx context.Context, userID uuid.UUID) (*domain.Assignment, error) {
	return getRole(ctx, s.DB, userID, false)
}

func (s *RoleStore) CountByRole(ctx context.Context, role domain.Role) (int, error) {
	return countByRole(ctx, s.DB, role)
}

func (s *RoleStore) CountsByRole(ctx context.Context) (map[domain.Role]int, error) {
	query, args, err := s.SB.
		Select("role", "COUNT(*)").
		From(roleAssignmentsTable).
		GroupBy("role").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("RoleStore.CountsByRole: build query: %w", err)
	}

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("RoleStore.CountsByRole: %w", err)
	}
	defer rows.Close()

	counts := make(map[domain.Role]int, len(domain.AllRoles()))
	for _, r := range domain.AllRoles() {
		counts[r] = 0
	}
	for rows.Next() {
		var role string
		var n int
		if err := rows.Scan(&role, &n); err != nil {
			return nil, fmt.Errorf("RoleStore.CountsByRole: scan: %w", err)
		}
		counts[domain.Role(role)] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("RoleStore.CountsByRole: %w", err)
	}
	return counts, nil
}

func (s *RoleStore) ListByRole(ctx context.Context, role domain.Role, p pagination.Pagination) (pagination.Result[*domain.Assignment], error) {
	total, err := countByRole(ctx, s.DB, role)
	if err != nil {
		return pagination.Result[*domain.Assignment]{}, err
	}

	query, args, err := s.SB.
		Select("user_id", "role", "created_at", "updated_at").
		From(roleAssignmentsTable).
		Where(sq.Eq{"role": string(role)}).
		OrderBy("created_at ASC", "user_id ASC").
		Limit(uint64(p.Limit())).
		Offset(uint64(p.Offset())).
		ToSql()
	if err != nil {
		return pagination.Result[*domain.Assignment]{}, fmt.Errorf("RoleStore.ListByRole: build query: %w", err)
	}

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return pagination.Result[*domain.Assignment]{}, fmt.Errorf("RoleStore.ListByRole: %w", err)
	}
	defer rows.Close()

	holders := make([]*domain.Assignment, 0, p.Limit())
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return pagination.Result[*domain.Assignment]{}, fmt.Errorf("RoleStore.ListByRole: scan: %w", err)
		}
		holders = append(holders, a)
	}
	if err := rows.Err(); err != nil {
		return pagination.Result[*domain.Assignment]{}, fmt.Errorf("RoleStore.ListByRole: %w", err)
	}

	return pagination.NewResult(holders, int64(total), p), nil
}

// Guarded runs fn in one transaction and retries the whole unit on
// serialization failures and deadlocks.
func (s *RoleStore) Guarded(ctx context.Context, fn func(ctx context.Context, tx ports.RoleTx) error) error {
	attempt := 0
	return postgres.WithRetry(ctx, s.retry, func(ctx context.Context) error {
		attempt++
		return s.runGuarded(ctx, fn)
	}, func(err error, wait time.Duration) {
		s.logger.Warn(ctx, "guarded unit failed, retrying",
			"attempt", attempt,
			"backoff", wait,
			"error", err,
		)
	})
}

func (s *RoleStore) runGuarded(ctx context.Context, fn func(ctx context.Context, tx ports.RoleTx) error) error {
	tx, err := s.txManager.BeginTxWithOptions(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return fmt.Errorf("RoleStore.Guarded: begin tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	unit := &roleTx{base: s.WithTx(tx.Tx())}
	if err := unit.lockOwners(ctx); err != nil {
		return err
	}

	if err := fn(ctx, unit); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("RoleStore.Guarded: commit tx: %w", err)
	}
	return nil
}

// roleTx is the RoleStore view inside one transaction. Every row it reads is
// locked until the transaction ends.
type roleTx struct {
	base postgres.BaseRepository
}

// lockOwners takes row locks on every current owner, in user_id order so two
// units cannot deadlock on them. READ COMMITTED is enough: a unit waiting here
// re-checks role = 'owner' once the holder commits, so a demoted owner drops
// out of its lock set, and every later statement in the unit reads the
// committed owner count. Owners added by an uncommitted promotion are not
// seen, which only undercounts.
func (t *roleTx) lockOwners(ctx context.Context) error {
	rows, err := t.base.DB.Query(ctx,
		`SELECT user_id FROM role_assignments WHERE role = $1 ORDER BY user_id FOR UPDATE`,
		string(domain.RoleOwner),
	)
	if err != nil {
		return fmt.Errorf("RoleStore.Guarded: lock owners: %w", err)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("RoleStore.Guarded: lock owners: %w", err)
	}
	return nil
}

func (t *roleTx) GetRole(ctx context.Context, userID uuid.UUID) (*domain.Assignment, error) {
	return getRole(ctx, t.base.DB, userID, true)
}

func (t *roleTx) CountByRole(ctx context.Context, role domain.Role) (int, error) {
	return countByRole(ctx, t.base.DB, role)
}

func (t *roleTx) Upsert(ctx context.Context, userID uuid.UUID, role domain.Role, at time.Time) (domain.Role, error) {
	previous := domain.NoRole
	current, err := getRole(ctx, t.base.DB, userID, true)
	switch {
	case err == nil:
		previous = current.Role
	case !errors.Is(err, ports.ErrAssignmentNotFound):
		return domain.NoRole, err
	}

	query := `
		INSERT INTO role_assignments (user_id, role, created_at, updated_at)
		VALUES ($1, $2, $3, $3)
		ON CONFLICT (user_id) DO UPDATE SET role = EXCLUDED.role, updated_at = EXCLUDED.updated_at
	`
	if _, err := t.base.DB.Exec(ctx, query, userID, string(role), at); err != nil {
		return domain.NoRole, fmt.Errorf("RoleStore.Upsert: %w", err)
	}
	return previous, nil
}

func (t *roleTx) Remove(ctx context.Context, userID uuid.UUID) (domain.Role, error) {
	var role string
	err := t.base.DB.QueryRow(ctx,
		`DELETE FROM role_assignments WHERE user_id = $1 RETURNING role`,
		userID,
	).Scan(&role)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.NoRole, ports.ErrAssignmentNotFound
		}
		return domain.NoRole, fmt.Errorf("RoleStore.Remove: %w", err)
	}
	return domain.Role(role), nil
}

func getRole(ctx context.Context, db postgres.Querier, userID uuid.UUID, forUpdate bool) (*domain.Assignment, error) {
	query := `
		SELECT user_id, role, created_at, updated_at
		FROM role_assignments
		WHERE user_id = $1
	`
	if forUpdate {
		query += " FOR UPDATE"
	}

	a, err := scanAssignment(db.QueryRow(ctx, query, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ports.ErrAssignmentNotFound
		}
		return nil, fmt.Errorf("RoleStore.GetRole: %w", err)
	}
	return a, nil
}

func countByRole(ctx context.Context, db postgres.Querier, role domain.Role) (int, error) {
	var n int
	err := db.QueryRow(ctx,
		`SELECT COUNT(*) FROM role_assignments WHERE role = $1`,
		string(role),
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("RoleStore.CountByRole: %w", err)
	}
	return n, nil
}

func scanAssignment(row pgx.Row) (*domain.Assignment, error) {
	var a domain.Assignment
	var role string
	if err := row.Scan(&a.UserID, &role, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return nil, err
	}
	a.Role = domain.Role(role)
	return &a, nil
}
