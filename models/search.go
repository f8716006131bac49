package models

import "strings"

// Search pagination bounds.
const (
	DefaultSearchPageSize = 100
	MaxSearchPageSize     = 1000
)

// SearchRequest is the POST /api/search payload.
type SearchRequest struct {
	Brand       string `json:"brand" validate:"omitempty,oneof=PAN ARENA DAYBREAK HEELCARE"`
	Query       string `json:"query"`
	PageSize    int    `json:"pageSize"`
	CurrentPage int    `json:"currentPage"`
}

// Normalize clamps pagination, trims the query and resolves the brand
// default. Idempotent; both the cache key and the service rely on it.
func (r *SearchRequest) Normalize() {
	r.Brand = string(ParseBrand(r.Brand))
	r.Query = strings.TrimSpace(r.Query)
	if r.PageSize < 1 {
		r.PageSize = DefaultSearchPageSize
	}
	if r.PageSize > MaxSearchPageSize {
		r.PageSize = MaxSearchPageSize
	}
	if r.CurrentPage < 1 {
		r.CurrentPage = 1
	}
}

// Offset returns the row offset for the current page.
func (r *SearchRequest) Offset() int {
	return (r.CurrentPage - 1) * r.PageSize
}

// SearchResult is one page of master rows matched by variation SKU.
type SearchResult struct {
	Rows      []map[string]interface{} `json:"rows"`
	Total     int64                    `json:"total"`
	PageCount int                      `json:"pageCount"`
	Shown     int                      `json:"shown"`
}
