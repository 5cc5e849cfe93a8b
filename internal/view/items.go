package view

import (
	"slices"
	"strings"

	"stockportal/internal/model"
)

// ItemRow is an item as shown in the items table.
type ItemRow struct {
	model.Item
	Status model.StockStatus `json:"stock_status"`
}

func NewItemRow(it model.Item) ItemRow {
	return ItemRow{Item: it, Status: it.StockStatus()}
}

type ItemsView struct {
	Rows          []ItemRow `json:"rows"`
	Total         int       `json:"total"`
	Page          int       `json:"page"`
	PageSize      int       `json:"page_size"`
	TotalPages    int       `json:"total_pages"`
	Sort          SortOrder `json:"sort"`
	State         State     `json:"state"`
	ActiveFilters int       `json:"active_filters"`
	Categories    []string  `json:"categories"`
}

// ComputeItems filters, sorts and pages items. loaded is false until the cache
// has fetched the collection at least once. items is not modified.
func ComputeItems(items []model.Item, q ItemsQuery, loaded bool) ItemsView {
	if q.PageSize <= 0 {
		q.PageSize = DefaultItemsPageSize
	}
	if q.Sort == "" {
		q.Sort = SortDesc
	}

	matched := FilterAndSortItems(items, q)
	page, totalPages := paginate(matched, q.Page, q.PageSize)

	rows := make([]ItemRow, len(page))
	for i, it := range page {
		rows[i] = NewItemRow(it)
	}

	return ItemsView{
		Rows:          rows,
		Total:         len(matched),
		Page:          q.Page,
		PageSize:      q.PageSize,
		TotalPages:    totalPages,
		Sort:          q.Sort,
		State:         stateOf(loaded, len(matched)),
		ActiveFilters: q.ActiveFilters(),
		Categories:    Categories(items),
	}
}

// FilterAndSortItems applies search, category and status filters (ANDed) and
// orders the result by date. Items with equal dates keep their input order.
func FilterAndSortItems(items []model.Item, q ItemsQuery) []model.Item {
	needle := strings.ToLower(q.Search)

	out := make([]model.Item, 0, len(items))
	for _, it := range items {
		if needle != "" && !containsFold(it.ProductName, needle) && !containsFold(it.Category, needle) {
			continue
		}
		if q.Category != "" && it.Category != q.Category {
			continue
		}
		if !q.Status.Matches(it.StockStatus()) {
			continue
		}
		out = append(out, it)
	}

	desc := q.Sort != SortAsc
	slices.SortStableFunc(out, func(a, b model.Item) int {
		c := a.Date.Compare(b.Date.Time)
		if desc {
			return -c
		}
		return c
	})
	return out
}

// Categories lists the distinct categories present in items, first seen first.
func Categories(items []model.Item) []string {
	seen := make(map[string]struct{})
	out := []string{}
	for _, it := range items {
		if it.Category == "" {
			continue
		}
		if _, ok := seen[it.Category]; ok {
			continue
		}
		seen[it.Category] = struct{}{}
		out = append(out, it.Category)
	}
	return out
}
