package application

import (
	"context"
	"net/http"
	"strings"

	"github.com/philly/rolekeeper/internal/audit/domain"
	"github.com/philly/rolekeeper/internal/audit/ports"
	"github.com/philly/rolekeeper/internal/platform/apperror"
	"github.com/philly/rolekeeper/internal/platform/pagination"
)

const DefaultSearchLimit = 50

// Sentinel errors for errors.Is comparisons
var (
	ErrInvalidFilter = apperror.New(apperror.CodeValidationFailed, apperror.BusinessCodeInvalidAuditFilter, "invalid audit filter", http.StatusBadRequest)
	ErrStoreFailure  = apperror.New(apperror.CodeServiceUnavailable, apperror.BusinessCodeStoreFailure, "audit store unavailable", http.StatusServiceUnavailable)
)

// Service answers read queries over the audit log.
type Service struct {
	repo ports.Repository
}

func NewService(repo ports.Repository) *Service {
	return &Service{repo: repo}
}

// Query returns one page of entries matching filter, newest first with ties
// broken by ascending id.
func (s *Service) Query(ctx context.Context, filter domain.Filter, p pagination.Pagination) (pagination.Result[*domain.Entry], error) {
	if err := filter.Validate(); err != nil {
		return pagination.Result[*domain.Entry]{}, apperror.Wrap(err, apperror.CodeValidationFailed, apperror.BusinessCodeInvalidAuditFilter,
			"audit filter range is inverted", http.StatusBadRequest).
			WithDetail("from", filter.From).
			WithDetail("to", filter.To)
	}

	page, err := s.repo.List(ctx, filter, pagination.New(p.Page, p.PerPage))
	if err != nil {
		return pagination.Result[*domain.Entry]{}, storeFailure(err)
	}
	return page, nil
}

// Search returns up to limit entries whose action, entity type or entity id
// contains keyword.
func (s *Service) Search(ctx context.Context, keyword string, limit int) ([]*domain.Entry, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return nil, apperror.New(apperror.CodeValidationFailed, apperror.BusinessCodeInvalidFormat,
			"search keyword is required", http.StatusBadRequest)
	}
	if limit <= 0 {
		limit = DefaultSearchLimit
	}

	entries, err := s.repo.Search(ctx, keyword, limit)
	if err != nil {
		return nil, storeFailure(err)
	}
	return entries, nil
}

func storeFailure(err error) *apperror.AppError {
	return apperror.Wrap(err, apperror.CodeServiceUnavailable, apperror.BusinessCodeStoreFailure,
		"audit store unavailable", http.StatusServiceUnavailable)
}
