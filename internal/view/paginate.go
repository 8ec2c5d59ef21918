package view

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// PageSizeOptions are the sizes offered by the dashboard.
var PageSizeOptions = []int{10, 25, 50, 100}

type Pagination struct {
	Page     int `json:"page"`
	PageSize int `json:"page_size"`
}

// Normalize clamps the page to >= 1 and the size into [1, MaxPageSize].
func (p Pagination) Normalize() Pagination {
	if p.Page < 1 {
		p.Page = 1
	}
	switch {
	case p.PageSize <= 0:
		p.PageSize = DefaultPageSize
	case p.PageSize > MaxPageSize:
		p.PageSize = MaxPageSize
	}
	return p
}

type Page[T any] struct {
	Rows      []T `json:"data"`
	Page      int `json:"page"`
	PageSize  int `json:"page_size"`
	PageCount int `json:"page_count"`
	Total     int `json:"total_count"`
}

// PageCount is ceil(total/size), never less than 1.
func PageCount(total, size int) int {
	if size <= 0 || total <= 0 {
		return 1
	}
	return (total + size - 1) / size
}

// Paginate slices one page out of records. A page past the end yields no rows.
func Paginate[T any](records []T, p Pagination) Page[T] {
	p = p.Normalize()
	total := len(records)
	page := Page[T]{
		Rows:      []T{},
		Page:      p.Page,
		PageSize:  p.PageSize,
		PageCount: PageCount(total, p.PageSize),
		Total:     total,
	}

	start := (p.Page - 1) * p.PageSize
	if start >= total {
		return page
	}
	end := min(start+p.PageSize, total)
	page.Rows = records[start:end]
	return page
}
