// Package query parses pagination, sort, and filter parameters and applies
// them to result sets. Parsing is strict: absent parameters default, present
// but invalid parameters fail with a validation error naming the parameter.
package query

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/Commitlabs-Org/commitlabs/internal/errors"
)

// Options bounds pagination for one endpoint.
type Options struct {
	DefaultPageSize int
	MaxPageSize     int
}

// Pagination is a validated page window.
type Pagination struct {
	Page     int
	PageSize int
}

// Offset is the index of the first item on the page.
func (p Pagination) Offset() int { return (p.Page - 1) * p.PageSize }

// Order is a sort direction.
type Order string

const (
	OrderAsc  Order = "asc"
	OrderDesc Order = "desc"
)

// Sort is a validated sort selection over an endpoint's allow-list.
type Sort struct {
	Field string
	Order Order
}

// ParsePagination reads page and pageSize. Absent values default to page 1
// and opts.DefaultPageSize.
func ParsePagination(q url.Values, opts Options) (Pagination, error) {
	p := Pagination{Page: 1, PageSize: opts.DefaultPageSize}

	if raw := q.Get("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return Pagination{}, errors.Validation("page", "must be a positive integer")
		}
		p.Page = n
	}

	if raw := q.Get("pageSize"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return Pagination{}, errors.Validation("pageSize", "must be a positive integer")
		}
		if n > opts.MaxPageSize {
			return Pagination{}, errors.Validation("pageSize",
				fmt.Sprintf("must not exceed %d", opts.MaxPageSize))
		}
		p.PageSize = n
	}

	return p, nil
}

// ParseSort reads sortBy and sortOrder against an endpoint's allow-list.
func ParseSort(q url.Values, allowed []string, defaultField string, defaultOrder Order) (Sort, error) {
	s := Sort{Field: defaultField, Order: defaultOrder}

	if raw := q.Get("sortBy"); raw != "" {
		if !contains(allowed, raw) {
			return Sort{}, errors.Validation("sortBy",
				"must be one of: "+strings.Join(allowed, ", "))
		}
		s.Field = raw
	}

	if raw := q.Get("sortOrder"); raw != "" {
		switch Order(raw) {
		case OrderAsc, OrderDesc:
			s.Order = Order(raw)
		default:
			return Sort{}, errors.Validation("sortOrder", `must be "asc" or "desc"`)
		}
	}

	return s, nil
}

// ParseEnumFilter reads a single-value enum parameter. Absent is not an
// error: the second return reports presence. Present but outside the
// allow-list fails; an invalid value is never silently replaced.
func ParseEnumFilter(q url.Values, param string, allowed []string) (string, bool, error) {
	if !q.Has(param) {
		return "", false, nil
	}
	raw := q.Get(param)
	if !contains(allowed, raw) {
		return "", false, errors.Validation(param,
			"must be one of: "+strings.Join(allowed, ", "))
	}
	return raw, true, nil
}

func contains(list []string, target string) bool {
	for _, item := range list {
		if item == target {
			return true
		}
	}
	return false
}
