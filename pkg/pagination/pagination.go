package pagination

import (
	"net/http"
	"strconv"
)

// Params holds pagination parameters extracted from query strings.
type Params struct {
	Page   int `json:"page"`
	Limit  int `json:"limit"`
	Offset int `json:"-"`
}

// DefaultParams returns the default first page of 20 items.
func DefaultParams() Params {
	return Params{Page: 1, Limit: 20, Offset: 0}
}

// FromRequest extracts pagination parameters from an HTTP request.
// Out-of-range values are clamped rather than rejected.
func FromRequest(r *http.Request) Params {
	p := DefaultParams()

	if page := r.URL.Query().Get("page"); page != "" {
		if v, err := strconv.Atoi(page); err == nil && v > 0 {
			p.Page = v
		}
	}

	if limit := r.URL.Query().Get("limit"); limit != "" {
		if v, err := strconv.Atoi(limit); err == nil {
			p.Limit = Clamp(v)
		}
	}

	p.Offset = (p.Page - 1) * p.Limit
	return p
}

// Clamp restricts a limit value to the [1,100] range.
func Clamp(limit int) int {
	if limit < 1 {
		return 1
	}
	if limit > 100 {
		return 100
	}
	return limit
}

// Pages returns the number of pages needed for total items at the given limit.
func Pages(total, limit int) int {
	if limit <= 0 {
		return 0
	}
	pages := total / limit
	if total%limit > 0 {
		pages++
	}
	return pages
}
