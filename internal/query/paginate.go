package query

import (
	"sort"
	"sync"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Paged is one page of a result set together with the window it was cut from.
type Paged[T any] struct {
	Items      []T `json:"items"`
	Page       int `json:"page"`
	PageSize   int `json:"pageSize"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// Paginate cuts the window p out of items without mutating them. Items must
// already be sorted; slicing a page before sorting would order only the page.
func Paginate[T any](items []T, p Pagination) Paged[T] {
	total := len(items)
	totalPages := 0
	if p.PageSize > 0 {
		totalPages = (total + p.PageSize - 1) / p.PageSize
	}

	start := p.Offset()
	if start > total {
		start = total
	}
	end := start + p.PageSize
	if end > total {
		end = total
	}

	page := make([]T, end-start)
	copy(page, items[start:end])

	return Paged[T]{
		Items:      page,
		Page:       p.Page,
		PageSize:   p.PageSize,
		Total:      total,
		TotalPages: totalPages,
	}
}

// SortSlice returns a sorted copy of items. cmp compares two items on the
// sort field and returns <0, 0, >0. Ties keep their original relative order
// for both directions: the sort is stable and descending order inverts the
// comparator, not the result.
func SortSlice[T any](items []T, s Sort, cmp func(a, b T, field string) int) []T {
	out := make([]T, len(items))
	copy(out, items)

	sort.SliceStable(out, func(i, j int) bool {
		c := cmp(out[i], out[j], s.Field)
		if s.Order == OrderDesc {
			return c > 0
		}
		return c < 0
	})
	return out
}

var (
	collatorMu sync.Mutex
	collator   = collate.New(language.English)
)

// CompareStrings compares two strings with locale-aware collation. Meant for
// use inside SortSlice comparators on string fields.
func CompareStrings(a, b string) int {
	collatorMu.Lock()
	defer collatorMu.Unlock()
	return collator.CompareString(a, b)
}

// CompareInt64 orders numeric fields.
func CompareInt64(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// CompareFloat64 orders derived numeric fields.
func CompareFloat64(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
