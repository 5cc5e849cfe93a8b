package view

import (
	"slices"
	"strings"

	"stockportal/internal/model"
)

type SupplierRow struct {
	model.Supplier
	ItemCount int `json:"item_count"`
}

type SuppliersView struct {
	Rows       []SupplierRow `json:"rows"`
	Total      int           `json:"total"`
	Page       int           `json:"page"`
	PageSize   int           `json:"page_size"`
	TotalPages int           `json:"total_pages"`
	State      State         `json:"state"`
}

// ItemCounts maps supplier id to the number of items referencing it.
func ItemCounts(items []model.Item) map[int64]int {
	counts := make(map[int64]int)
	for _, it := range items {
		if it.SupplierID != nil {
			counts[*it.SupplierID]++
		}
	}
	return counts
}

// ComputeSuppliers searches suppliers and orders them by how many items they
// supply, most first. Ties keep collection order.
func ComputeSuppliers(suppliers []model.Supplier, items []model.Item, q SuppliersQuery, loaded bool) SuppliersView {
	if q.PageSize <= 0 {
		q.PageSize = DefaultSuppliersPageSize
	}
	needle := strings.ToLower(q.Search)
	counts := ItemCounts(items)

	matched := make([]SupplierRow, 0, len(suppliers))
	for _, s := range suppliers {
		if needle != "" &&
			!containsFold(s.Name, needle) &&
			!containsFold(s.ContactPerson, needle) &&
			!containsFold(s.ContactNumber, needle) {
			continue
		}
		matched = append(matched, SupplierRow{Supplier: s, ItemCount: counts[s.ID]})
	}
	slices.SortStableFunc(matched, func(a, b SupplierRow) int {
		return b.ItemCount - a.ItemCount
	})

	rows, totalPages := paginate(matched, q.Page, q.PageSize)
	return SuppliersView{
		Rows:       rows,
		Total:      len(matched),
		Page:       q.Page,
		PageSize:   q.PageSize,
		TotalPages: totalPages,
		State:      stateOf(loaded, len(matched)),
	}
}
