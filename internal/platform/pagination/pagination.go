// Package pagination holds page parameters and page envelopes shared by the
// list and query operations.
package pagination

const (
	DefaultPerPage = 20
	MaxPerPage     = 100
)

// Pagination holds pagination parameters.
type Pagination struct {
	Page    int
	PerPage int
}

// New creates a Pagination with defaults applied. Values below one fall back
// to the first page and DefaultPerPage; PerPage is capped at MaxPerPage.
func New(page, perPage int) Pagination {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = DefaultPerPage
	}
	if perPage > MaxPerPage {
		perPage = MaxPerPage
	}
	return Pagination{Page: page, PerPage: perPage}
}

// FromOptional builds a Pagination from optional query parameters.
func FromOptional(page, perPage *int) Pagination {
	p, pp := 0, 0
	if page != nil {
		p = *page
	}
	if perPage != nil {
		pp = *perPage
	}
	return New(p, pp)
}

// Offset returns the offset for database queries.
func (p Pagination) Offset() int {
	return (p.Page - 1) * p.PerPage
}

// Limit returns the limit for database queries.
func (p Pagination) Limit() int {
	return p.PerPage
}

// Result is one page of T plus the totals needed to render page controls.
type Result[T any] struct {
	Data       []T   `json:"data"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PerPage    int   `json:"per_page"`
	TotalPages int   `json:"total_pages"`
}

// NewResult creates a new paginated Result.
func NewResult[T any](data []T, total int64, p Pagination) Result[T] {
	if data == nil {
		data = make([]T, 0)
	}

	totalPages := 0
	if p.PerPage > 0 {
		totalPages = int(total) / p.PerPage
		if int(total)%p.PerPage > 0 {
			totalPages++
		}
	}

	return Result[T]{
		Data:       data,
		Total:      total,
		Page:       p.Page,
		PerPage:    p.PerPage,
		TotalPages: totalPages,
	}
}

// Slice pages through an already ordered in-memory slice.
func Slice[T any](all []T, p Pagination) Result[T] {
	start := p.Offset()
	if start > len(all) {
		start = len(all)
	}
	end := start + p.Limit()
	if end > len(all) {
		end = len(all)
	}
	page := make([]T, end-start)
	copy(page, all[start:end])
	return NewResult(page, int64(len(all)), p)
}

// HasNext reports whether another page follows this one.
func (r Result[T]) HasNext() bool {
	return r.Page < r.TotalPages
}
