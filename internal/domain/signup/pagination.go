package signup

import "math"

// Page bounds for the admin listing.
const (
	DefaultPage  int64 = 1
	DefaultLimit int64 = 20
	MaxLimit     int64 = 100

	// MaxPage keeps (page-1)*MaxLimit within int64.
	MaxPage = math.MaxInt64 / MaxLimit
)

// Pagination describes one page of a signup listing.
type Pagination struct {
	Total      int64
	Page       int64 // 1-based
	Limit      int64
	TotalPages int64
}

// PageWindow clamps a requested page and limit to the listing bounds.
func PageWindow(page, limit int64) (int64, int64) {
	switch {
	case page <= 0:
		page = DefaultPage
	case page > MaxPage:
		page = MaxPage
	}
	switch {
	case limit <= 0:
		limit = DefaultLimit
	case limit > MaxLimit:
		limit = MaxLimit
	}
	return page, limit
}

// Offset returns the number of rows preceding page.
// It saturates at math.MaxInt64 instead of wrapping negative.
func Offset(page, limit int64) int64 {
	if page <= 1 || limit <= 0 {
		return 0
	}
	if page-1 > math.MaxInt64/limit {
		return math.MaxInt64
	}
	return (page - 1) * limit
}

// NewPagination builds the pagination block for a page of total signups.
func NewPagination(total, page, limit int64) *Pagination {
	p := &Pagination{Total: total, Page: page, Limit: limit}
	if limit > 0 {
		p.TotalPages = (total + limit - 1) / limit
	}
	return p
}
