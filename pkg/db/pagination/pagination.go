package pagination

// Pagination carries page/limit query parameters.
//
// limit=0 means "no limit": the full result set is returned in one page.
type Pagination struct {
	Page  int `form:"page,default=1"`
	Limit int `form:"limit,default=0"`
}

// Offset computes the row offset for the requested page.
func (p Pagination) Offset() int {
	page := p.Page
	if page < 1 {
		page = 1
	}
	if p.Limit <= 0 {
		return 0
	}
	return (page - 1) * p.Limit
}

// Apply returns limit/offset values usable in a query. A limit of -1
// disables the LIMIT clause in gorm.
func (p Pagination) Apply() (limit, offset int) {
	if p.Limit <= 0 {
		return -1, 0
	}
	return p.Limit, p.Offset()
}
