package shared

// Filter holds common listing options for repository queries
type Filter struct {
	Page     int
	PageSize int
	OrderBy  string
	OrderDir string // asc or desc
	Search   string
	Filters  map[string]interface{}
}

// NewFilter returns a Filter with sane defaults applied
func NewFilter() Filter {
	return Filter{
		Page:     1,
		PageSize: 20,
		OrderBy:  "updated_at",
		OrderDir: "desc",
		Filters:  make(map[string]interface{}),
	}
}

// Offset returns the row offset for the current page
func (f Filter) Offset() int {
	page := f.Page
	if page <= 0 {
		page = 1
	}
	return (page - 1) * f.Limit()
}

// Limit returns the page size, defaulting when unset
func (f Filter) Limit() int {
	if f.PageSize <= 0 {
		return 20
	}
	return f.PageSize
}
