package model

const (
	// MinPageSize is the smallest page size accepted by Tendem
	MinPageSize = 1
	// MaxPageSize is the largest page size accepted by Tendem
	MaxPageSize = 100
)

// Pagination describes one page of a collection.
// PageNumber is 0-indexed; a page past the end is empty but valid.
type Pagination struct {
	Total      int `json:"total"`
	PageNumber int `json:"page_number"`
	PageSize   int `json:"page_size"`
	Pages      int `json:"pages"`
}

// PageCount returns ceil(total/pageSize), and 0 for an empty collection.
func PageCount(total, pageSize int) int {
	if total <= 0 || pageSize < MinPageSize {
		return 0
	}
	pages := total / pageSize
	if total%pageSize != 0 {
		pages++
	}
	return pages
}

// NewPagination returns Pagination with Pages computed from total.
func NewPagination(total, pageNumber, pageSize int) Pagination {
	return Pagination{
		Total:      total,
		PageNumber: pageNumber,
		PageSize:   pageSize,
		Pages:      PageCount(total, pageSize),
	}
}

// Normalize recomputes Pages from Total and PageSize,
// and reports whether the value was changed.
func (p *Pagination) Normalize() bool {
	pages := PageCount(p.Total, p.PageSize)
	if p.Pages == pages {
		return false
	}
	p.Pages = pages
	return true
}

// IsPastEnd reports whether the page is beyond the last one.
func (p Pagination) IsPastEnd() bool {
	return p.PageNumber >= p.Pages
}

// Paginate returns the items of the requested page.
// Pages past the end return an empty, non-nil slice.
func Paginate[T any](items []T, pageNumber, pageSize int) ([]T, Pagination) {
	p := NewPagination(len(items), pageNumber, pageSize)
	if pageSize < MinPageSize || pageNumber < 0 || len(items) == 0 || pageNumber > (len(items)-1)/pageSize {
		return []T{}, p
	}
	start := pageNumber * pageSize
	end := len(items)
	if pageSize < end-start {
		end = start + pageSize
	}
	page := make([]T, end-start)
	copy(page, items[start:end])
	return page, p
}
