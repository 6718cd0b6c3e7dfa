package shared

import (
	"net/url"
	"sort"
	"strconv"
	"strings"
)

// ListFilters represents standard list page filters. The backend returns
// whole collections, so filtering, sorting and paging happen here.
type ListFilters struct {
	Page     int
	Limit    int
	Search   string
	SortBy   string
	SortDir  string
	IsActive *bool
}

// ParseListFilters reads filters from a query string.
func ParseListFilters(q url.Values) ListFilters {
	page, _ := strconv.Atoi(q.Get("page"))
	if page < 1 {
		page = DefaultPage
	}
	limit, _ := strconv.Atoi(q.Get("limit"))
	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	f := ListFilters{
		Page:    page,
		Limit:   limit,
		Search:  strings.TrimSpace(q.Get("search")),
		SortBy:  q.Get("sort"),
		SortDir: strings.ToLower(q.Get("dir")),
	}
	if f.SortDir != SortDesc {
		f.SortDir = SortAsc
	}
	switch q.Get("active") {
	case "true":
		v := true
		f.IsActive = &v
	case "false":
		v := false
		f.IsActive = &v
	}
	return f
}

// Matches reports whether any field contains the search text, ignoring case.
func (f ListFilters) Matches(fields ...string) bool {
	if f.Search == "" {
		return true
	}
	needle := strings.ToLower(f.Search)
	for _, field := range fields {
		if strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	return false
}

// MatchesActive reports whether active satisfies the IsActive filter.
func (f ListFilters) MatchesActive(active bool) bool {
	return f.IsActive == nil || *f.IsActive == active
}

// Page is one slice of a filtered collection.
type Page[T any] struct {
	Items   []T
	Total   int
	Page    int
	Limit   int
	Filters ListFilters
}

// HasPrev reports whether an earlier page exists.
func (p Page[T]) HasPrev() bool { return p.Page > 1 }

// HasNext reports whether a later page exists.
func (p Page[T]) HasNext() bool { return p.Page*p.Limit < p.Total }

// PrevPage returns the previous page number.
func (p Page[T]) PrevPage() int { return p.Page - 1 }

// NextPage returns the next page number.
func (p Page[T]) NextPage() int { return p.Page + 1 }

// Paginate filters items with keep, orders them with less when the filters
// ask for a sort, and cuts out the requested page.
func Paginate[T any](items []T, f ListFilters, keep func(T) bool, less map[string]func(a, b T) bool) Page[T] {
	filtered := make([]T, 0, len(items))
	for _, item := range items {
		if keep == nil || keep(item) {
			filtered = append(filtered, item)
		}
	}
	if cmp, ok := less[f.SortBy]; ok {
		sort.SliceStable(filtered, func(i, j int) bool {
			if f.SortDir == SortDesc {
				return cmp(filtered[j], filtered[i])
			}
			return cmp(filtered[i], filtered[j])
		})
	}
	if f.Limit < 1 {
		f.Limit = DefaultLimit
	}
	if f.Page < 1 {
		f.Page = DefaultPage
	}
	total := len(filtered)
	start := (f.Page - 1) * f.Limit
	if start > total {
		start = total
	}
	end := start + f.Limit
	if end > total {
		end = total
	}
	return Page[T]{Items: filtered[start:end], Total: total, Page: f.Page, Limit: f.Limit, Filters: f}
}
