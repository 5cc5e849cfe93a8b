package dto

import (
	"stockportal/internal/model"
	"stockportal/internal/view"
)

// ─── Request DTOs ────────────────────────────────────────────────────────────

type SupplierRequest struct {
	Name          string `json:"supplier_name"           validate:"required,min=2,max=50"`
	ContactPerson string `json:"supplier_contact_person" validate:"required,min=2,max=50"`
	ContactNumber string `json:"supplier_contact_number" validate:"required,min=7,max=15,contactnumber"`
}

func (r SupplierRequest) ToModel() model.Supplier {
	return model.Supplier{
		Name:          r.Name,
		ContactPerson: r.ContactPerson,
		ContactNumber: r.ContactNumber,
	}
}

// ─── Filter / Pagination ─────────────────────────────────────────────────────

type SuppliersFilter struct {
	Search string `form:"search"`
	Page   int    `form:"page,default=1"`
}

func (f SuppliersFilter) ToQuery(pageSize int) view.SuppliersQuery {
	q := view.DefaultSuppliersQuery()
	q.Search = f.Search
	q.Page = f.Page
	if pageSize > 0 {
		q.PageSize = pageSize
	}
	return q
}
