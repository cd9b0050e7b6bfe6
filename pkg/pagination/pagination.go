package pagination

import (
	"net/url"
	"strconv"
)

// MaxPerPage bounds per_page regardless of what the caller asks for.
const MaxPerPage = 100

// Params holds pagination parameters extracted from query strings.
type Params struct {
	Page    int `json:"page"`
	PerPage int `json:"per_page"`
	Offset  int `json:"-"`
}

// DefaultParams returns page 1 with the given page size.
func DefaultParams(perPage int) Params {
	if perPage < 1 || perPage > MaxPerPage {
		perPage = 20
	}
	return Params{Page: 1, PerPage: perPage}
}

// FromQuery extracts page and per_page from query values. Invalid values
// keep the defaults.
func FromQuery(q url.Values, defaultPerPage int) Params {
	p := DefaultParams(defaultPerPage)

	if page := q.Get("page"); page != "" {
		if v, err := strconv.Atoi(page); err == nil && v > 0 {
			p.Page = v
		}
	}

	if perPage := q.Get("per_page"); perPage != "" {
		if v, err := strconv.Atoi(perPage); err == nil && v > 0 && v <= MaxPerPage {
			p.PerPage = v
		}
	}

	p.Offset = (p.Page - 1) * p.PerPage
	return p
}

// Result wraps one page of items.
type Result[T any] struct {
	Data       []T  `json:"data"`
	TotalCount int  `json:"total_count"`
	Page       int  `json:"page"`
	PerPage    int  `json:"per_page"`
	TotalPages int  `json:"total_pages"`
	HasNext    bool `json:"has_next"`
	HasPrev    bool `json:"has_prev"`
}

// Paginate slices items according to params. Order is preserved; a page past
// the end yields an empty Data slice.
func Paginate[T any](items []T, params Params) Result[T] {
	total := len(items)
	start := params.Offset
	if start > total {
		start = total
	}
	end := start + params.PerPage
	if end > total {
		end = total
	}

	totalPages := total / params.PerPage
	if total%params.PerPage > 0 {
		totalPages++
	}

	data := make([]T, end-start)
	copy(data, items[start:end])

	return Result[T]{
		Data:       data,
		TotalCount: total,
		Page:       params.Page,
		PerPage:    params.PerPage,
		TotalPages: totalPages,
		HasNext:    params.Page < totalPages,
		HasPrev:    params.Page > 1,
	}
}
