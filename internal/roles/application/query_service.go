package application

import (
	"context"
	"net/http"
	"strings"

	auditapp "github.com/philly/rolekeeper/internal/audit/application"
	auditdomain "github.com/philly/rolekeeper/internal/audit/domain"
	"github.com/philly/rolekeeper/internal/platform/apperror"
	"github.com/philly/rolekeeper/internal/platform/eventbus"
	"github.com/philly/rolekeeper/internal/platform/events"
	"github.com/philly/rolekeeper/internal/platform/logger"
	"github.com/philly/rolekeeper/internal/platform/metrics"
	"github.com/philly/rolekeeper/internal/platform/pagination"
	"github.com/philly/rolekeeper/internal/roles/domain"
	"github.com/philly/rolekeeper/internal/roles/ports"
)

// SearchScope selects what Search looks through.
type SearchScope string

const (
	ScopeRoles SearchScope = "roles"
	ScopeAudit SearchScope = "audit"
)

// ParseSearchScope defaults an empty scope to roles.
func ParseSearchScope(s string) (SearchScope, error) {
	switch SearchScope(strings.ToLower(strings.TrimSpace(s))) {
	case "", ScopeRoles:
		return ScopeRoles, nil
	case ScopeAudit:
		return ScopeAudit, nil
	default:
		return "", apperror.New(apperror.CodeValidationFailed, apperror.BusinessCodeInvalidFormat,
			"scope must be one of: roles, audit", http.StatusBadRequest).
			WithDetail("scope", s)
	}
}

// SearchResult holds the matches of one scope.
type SearchResult struct {
	Scope        SearchScope
	Keyword      string
	Roles        []domain.Definition
	AuditEntries []*auditdomain.Entry
}

// QueryConfig tunes the read side.
type QueryConfig struct {
	SearchLimit int
}

// QueryService answers read-only questions about roles. It never blocks
// writers and may lag a concurrent change.
type QueryService struct {
	store   ports.RoleStore
	cache   ports.CountsCache // optional
	audit   *auditapp.Service
	logger  logger.Logger
	metrics *metrics.Metrics
	config  QueryConfig
}

// NewQueryService builds the service and subscribes it to role changes so the
// counts cache is dropped after every committed mutation.
func NewQueryService(
	store ports.RoleStore,
	cache ports.CountsCache,
	audit *auditapp.Service,
	eventBus *eventbus.Bus,
	logger logger.Logger,
	m *metrics.Metrics,
	config QueryConfig,
) *QueryService {
	if config.SearchLimit <= 0 {
		config.SearchLimit = auditapp.DefaultSearchLimit
	}
	s := &QueryService{
		store:   store,
		cache:   cache,
		audit:   audit,
		logger:  logger,
		metrics: m,
		config:  config,
	}
	eventBus.Subscribe(events.RoleChangedTopic, s.handleRoleChanged)
	return s
}

// Roles returns the catalog, most privileged first.
func (s *QueryService) Roles() []domain.Definition {
	return domain.Catalog()
}

// CountsByRole returns the number of holders of every role, zero included.
// Cache failures fall back to the store.
func (s *QueryService) CountsByRole(ctx context.Context) (map[domain.Role]int, error) {
	var (
		generation int64
		fill       bool
	)
	if s.cache != nil {
		counts, gen, ok, err := s.cache.Get(ctx)
		switch {
		case err != nil:
			s.metrics.CacheLookup("error")
			s.logger.Warn(ctx, "role counts cache read failed", "error", err)
		case ok:
			s.metrics.CacheLookup("hit")
			return withAllRoles(counts), nil
		default:
			s.metrics.CacheLookup("miss")
			generation, fill = gen, true
		}
	}

	counts, err := s.store.CountsByRole(ctx)
	if err != nil {
		return nil, asStoreFailure("RoleStore.CountsByRole", err)
	}
	counts = withAllRoles(counts)

	if fill {
		if err := s.cache.Set(ctx, generation, counts); err != nil {
			s.logger.Warn(ctx, "role counts cache write failed", "error", err)
		}
	}
	return counts, nil
}

// ListUsersWithRole returns one page of the holders of role, oldest
// assignment first.
func (s *QueryService) ListUsersWithRole(ctx context.Context, role domain.Role, p pagination.Pagination) (pagination.Result[*domain.Assignment], error) {
	if !role.IsValid() {
		return pagination.Result[*domain.Assignment]{}, apperror.New(apperror.CodeValidationFailed, apperror.BusinessCodeInvalidRole,
			"unknown role", http.StatusBadRequest).WithDetail("role", role)
	}

	page, err := s.store.ListByRole(ctx, role, pagination.New(p.Page, p.PerPage))
	if err != nil {
		return pagination.Result[*domain.Assignment]{}, asStoreFailure("RoleStore.ListByRole", err)
	}
	return page, nil
}

// QueryAudit returns one page of audit entries, newest first.
func (s *QueryService) QueryAudit(ctx context.Context, filter auditdomain.Filter, p pagination.Pagination) (pagination.Result[*auditdomain.Entry], error) {
	return s.audit.Query(ctx, filter, p)
}

// Search matches keyword case-insensitively against role names and
// descriptions, or against audit actions and entity fields.
func (s *QueryService) Search(ctx context.Context, keyword string, scope SearchScope) (*SearchResult, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return nil, apperror.New(apperror.CodeValidationFailed, apperror.BusinessCodeInvalidFormat,
			"search keyword is required", http.StatusBadRequest)
	}

	scope, err := ParseSearchScope(string(scope))
	if err != nil {
		return nil, err
	}

	result := &SearchResult{Scope: scope, Keyword: keyword}
	switch scope {
	case ScopeRoles:
		result.Roles = searchCatalog(keyword)
	case ScopeAudit:
		entries, err := s.audit.Search(ctx, keyword, s.config.SearchLimit)
		if err != nil {
			return nil, err
		}
		result.AuditEntries = entries
	}
	return result, nil
}

func (s *QueryService) handleRoleChanged(ctx context.Context, _ eventbus.Event) error {
	if s.cache == nil {
		return nil
	}
	return s.cache.Invalidate(ctx)
}

func searchCatalog(keyword string) []domain.Definition {
	k := strings.ToLower(keyword)
	matches := make([]domain.Definition, 0)
	for _, def := range domain.Catalog() {
		if strings.Contains(strings.ToLower(string(def.Role)), k) ||
			strings.Contains(strings.ToLower(def.Name), k) ||
			strings.Contains(strings.ToLower(def.Description), k) {
			matches = append(matches, def)
		}
	}
	return matches
}

func withAllRoles(counts map[domain.Role]int) map[domain.Role]int {
	out := make(map[domain.Role]int, len(domain.AllRoles()))
	for _, r := range domain.AllRoles() {
		out[r] = counts[r]
	}
	return out
}
