package domain

const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
)

// PaginationParams is a 1-indexed page window over a list.
type PaginationParams struct {
	Page  int
	Limit int
}

// NewPaginationParams resolves optional query values. Missing or
// non-positive values fall back to page 1 and DefaultPageLimit; the limit is
// clamped to MaxPageLimit.
func NewPaginationParams(page, limit *int) PaginationParams {
	p := PaginationParams{Page: 1, Limit: DefaultPageLimit}
	if page != nil && *page > 0 {
		p.Page = *page
	}
	if limit != nil && *limit > 0 {
		p.Limit = min(*limit, MaxPageLimit)
	}
	return p
}

// Offset is the number of rows to skip.
func (p PaginationParams) Offset() int {
	return (p.Page - 1) * p.Limit
}

// Pages reports how many pages total rows span. Zero rows is zero pages.
func (p PaginationParams) Pages(total int64) int {
	if p.Limit <= 0 || total <= 0 {
		return 0
	}
	return int((total + int64(p.Limit) - 1) / int64(p.Limit))
}
