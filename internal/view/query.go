// Package view turns cached collections into the paged, filtered and sorted
// tables the portal serves. Every function here is pure.
package view

import (
	"fmt"
	"strings"

	"stockportal/internal/model"
)

const (
	DefaultItemsPageSize     = 10
	DefaultSuppliersPageSize = 5
)

// ── Sort ─────────────────────────────────────────────────────────────────────

// SortOrder orders items by date.
type SortOrder string

const (
	SortDesc SortOrder = "desc"
	SortAsc  SortOrder = "asc"
)

func (o SortOrder) Toggle() SortOrder {
	if o == SortAsc {
		return SortDesc
	}
	return SortAsc
}

// IsSortOrder reports whether s names a sort order, ignoring case and
// surrounding spaces.
func IsSortOrder(s string) bool {
	s = strings.TrimSpace(s)
	return strings.EqualFold(s, string(SortAsc)) || strings.EqualFold(s, string(SortDesc))
}

// ParseSortOrder accepts "asc" or "desc" (any case); anything else is desc.
func ParseSortOrder(s string) SortOrder {
	if strings.EqualFold(strings.TrimSpace(s), string(SortAsc)) {
		return SortAsc
	}
	return SortDesc
}

// ── Status filter ────────────────────────────────────────────────────────────

// StatusFlag names one stock status in query strings.
type StatusFlag string

const (
	FlagAvailable   StatusFlag = "available"
	FlagLowStock    StatusFlag = "low_stock"
	FlagUnavailable StatusFlag = "unavailable"
)

// StatusFilter keeps items whose status matches any set flag. No flag set
// means no filtering.
type StatusFilter struct {
	Available   bool `json:"available"`
	LowStock    bool `json:"low_stock"`
	Unavailable bool `json:"unavailable"`
}

func (f StatusFilter) Any() bool { return f.Available || f.LowStock || f.Unavailable }

func (f StatusFilter) Count() int {
	n := 0
	for _, set := range []bool{f.Available, f.LowStock, f.Unavailable} {
		if set {
			n++
		}
	}
	return n
}

func (f StatusFilter) Matches(s model.StockStatus) bool {
	if !f.Any() {
		return true
	}
	switch s {
	case model.StockAvailable:
		return f.Available
	case model.StockLow:
		return f.LowStock
	case model.StockUnavailable:
		return f.Unavailable
	}
	return false
}

func (f StatusFilter) Toggle(flag StatusFlag) StatusFilter {
	switch flag {
	case FlagAvailable:
		f.Available = !f.Available
	case FlagLowStock:
		f.LowStock = !f.LowStock
	case FlagUnavailable:
		f.Unavailable = !f.Unavailable
	}
	return f
}

// Flags lists the set flags in a fixed order.
func (f StatusFilter) Flags() []StatusFlag {
	var out []StatusFlag
	if f.Available {
		out = append(out, FlagAvailable)
	}
	if f.LowStock {
		out = append(out, FlagLowStock)
	}
	if f.Unavailable {
		out = append(out, FlagUnavailable)
	}
	return out
}

// ParseStatusFilter reads a comma-separated flag list such as
// "available,low_stock".
func ParseStatusFilter(s string) (StatusFilter, error) {
	var f StatusFilter
	for _, part := range strings.Split(s, ",") {
		switch StatusFlag(strings.ToLower(strings.TrimSpace(part))) {
		case "":
		case FlagAvailable:
			f.Available = true
		case FlagLowStock:
			f.LowStock = true
		case FlagUnavailable:
			f.Unavailable = true
		default:
			return StatusFilter{}, fmt.Errorf("unknown stock status %q", part)
		}
	}
	return f, nil
}

// ── Items query ──────────────────────────────────────────────────────────────

// ItemsQuery is the items table state. The With/Toggle methods return a new
// query; changes to search or filters go back to page 1, sort and paging do not.
type ItemsQuery struct {
	Search   string
	Category string
	Status   StatusFilter
	Sort     SortOrder
	Page     int
	PageSize int
}

func DefaultItemsQuery() ItemsQuery {
	return ItemsQuery{Sort: SortDesc, Page: 1, PageSize: DefaultItemsPageSize}
}

func (q ItemsQuery) WithSearch(s string) ItemsQuery {
	q.Search = s
	q.Page = 1
	return q
}

func (q ItemsQuery) WithCategory(c string) ItemsQuery {
	q.Category = c
	q.Page = 1
	return q
}

func (q ItemsQuery) ToggleStatus(flag StatusFlag) ItemsQuery {
	q.Status = q.Status.Toggle(flag)
	q.Page = 1
	return q
}

func (q ItemsQuery) ClearFilters() ItemsQuery {
	q.Category = ""
	q.Status = StatusFilter{}
	q.Page = 1
	return q
}

func (q ItemsQuery) ToggleSort() ItemsQuery {
	q.Sort = q.Sort.Toggle()
	return q
}

func (q ItemsQuery) WithPage(p int) ItemsQuery {
	q.Page = p
	return q
}

// ActiveFilters counts the category filter plus each set status flag.
func (q ItemsQuery) ActiveFilters() int {
	n := q.Status.Count()
	if q.Category != "" {
		n++
	}
	return n
}

// ── Suppliers query ──────────────────────────────────────────────────────────

type SuppliersQuery struct {
	Search   string
	Page     int
	PageSize int
}

func DefaultSuppliersQuery() SuppliersQuery {
	return SuppliersQuery{Page: 1, PageSize: DefaultSuppliersPageSize}
}

func (q SuppliersQuery) WithSearch(s string) SuppliersQuery {
	q.Search = s
	q.Page = 1
	return q
}

func (q SuppliersQuery) WithPage(p int) SuppliersQuery {
	q.Page = p
	return q
}

// ── Paging ───────────────────────────────────────────────────────────────────

// State tells a table surface what to render.
type State string

const (
	StateLoading State = "loading"
	StateEmpty   State = "empty"
	StateReady   State = "ready"
)

func stateOf(loaded bool, count int) State {
	switch {
	case !loaded:
		return StateLoading
	case count == 0:
		return StateEmpty
	default:
		return StateReady
	}
}

// paginate returns the rows on page (1-based) and the page count. Out of range
// pages give an empty, non-nil slice.
func paginate[T any](rows []T, page, pageSize int) ([]T, int) {
	if pageSize <= 0 {
		pageSize = 1
	}
	totalPages := (len(rows) + pageSize - 1) / pageSize
	if page < 1 || page > totalPages {
		return []T{}, totalPages
	}
	start := (page - 1) * pageSize
	end := min(start+pageSize, len(rows))
	return rows[start:end], totalPages
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), needle)
}
