// Package view turns an already-fetched collection into the page a table
// renders: equality filters, case-insensitive search, then pagination.
package view

import "strings"

const DefaultPageSize = 10

// Filter keeps records whose field equals Value exactly. An empty Value
// keeps everything.
type Filter[T any] struct {
	Field func(T) string
	Value string
}

type Query[T any] struct {
	Search       string
	SearchFields []func(T) string
	Filters      []Filter[T]
	Page         int
	PageSize     int
}

type Meta struct {
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
}

type Result[T any] struct {
	Items []T  `json:"items"`
	Meta  Meta `json:"meta"`
}

// Apply is pure: records is never modified and Items is a fresh slice.
func Apply[T any](records []T, q Query[T]) Result[T] {
	filtered := Filtered(records, q)
	meta := Paginate(len(filtered), q.Page, q.PageSize)

	start := (meta.Page - 1) * meta.PageSize
	end := start + meta.PageSize
	if start > len(filtered) {
		start = len(filtered)
	}
	if end > len(filtered) {
		end = len(filtered)
	}
	items := make([]T, end-start)
	copy(items, filtered[start:end])
	return Result[T]{Items: items, Meta: meta}
}

// Filtered returns the records matching every filter and the search text.
func Filtered[T any](records []T, q Query[T]) []T {
	needle := strings.ToLower(strings.TrimSpace(q.Search))
	out := make([]T, 0, len(records))
	for _, record := range records {
		if !matchesFilters(record, q.Filters) {
			continue
		}
		if needle != "" && !matchesSearch(record, needle, q.SearchFields) {
			continue
		}
		out = append(out, record)
	}
	return out
}

func matchesFilters[T any](record T, filters []Filter[T]) bool {
	for _, f := range filters {
		if f.Value == "" || f.Field == nil {
			continue
		}
		if f.Field(record) != f.Value {
			return false
		}
	}
	return true
}

func matchesSearch[T any](record T, needle string, fields []func(T) string) bool {
	for _, field := range fields {
		if strings.Contains(strings.ToLower(field(record)), needle) {
			return true
		}
	}
	return false
}

// Paginate computes page metadata for total records. The requested page is
// clamped to [1, TotalPages], and to 1 when there are no pages.
func Paginate(total, page, pageSize int) Meta {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if total < 0 {
		total = 0
	}
	totalPages := (total + pageSize - 1) / pageSize
	if page > totalPages {
		page = totalPages
	}
	if page < 1 {
		page = 1
	}
	return Meta{Total: total, TotalPages: totalPages, Page: page, PageSize: pageSize}
}
