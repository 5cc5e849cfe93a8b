package dto

import (
	"fmt"

	"stockportal/internal/model"
	"stockportal/internal/view"

	"github.com/shopspring/decimal"
)

// ─── Request DTOs ────────────────────────────────────────────────────────────

// ItemRequest is the body of item create and update. Pointer fields are
// required but accept zero values.
type ItemRequest struct {
	ProductName string           `json:"product_name" validate:"required,min=2,max=50"`
	Category    string           `json:"category"     validate:"required,category"`
	Quantity    *int             `json:"quantity"     validate:"required,min=0"`
	Price       *decimal.Decimal `json:"price"        validate:"required,min=0,price2dp"`
	Description string           `json:"description"  validate:"max=500"`
	Date        string           `json:"date"         validate:"required,datetime=2006-01-02"`
	VAT         bool             `json:"vat"`
	SupplierID  *int64           `json:"supplier_id"  validate:"omitempty,gt=0"`
}

func (r ItemRequest) ToModel() (model.Item, error) {
	date, err := model.ParseDate(r.Date)
	if err != nil {
		return model.Item{}, fmt.Errorf("invalid date: %w", err)
	}
	it := model.Item{
		ProductName: r.ProductName,
		Category:    r.Category,
		Description: r.Description,
		Date:        date,
		VAT:         r.VAT,
		SupplierID:  r.SupplierID,
	}
	if r.Quantity != nil {
		it.Quantity = *r.Quantity
	}
	if r.Price != nil {
		it.Price = *r.Price
	}
	return it, nil
}

// ─── Filter / Pagination ─────────────────────────────────────────────────────

type ItemsFilter struct {
	Search   string `form:"search"`
	Category string `form:"category" validate:"omitempty,category"`
	Status   string `form:"status"`
	Sort     string `form:"sort"     validate:"omitempty,sortorder"`
	Page     int    `form:"page,default=1"`
}

// ToQuery maps the filter onto a view query with the given page size.
func (f ItemsFilter) ToQuery(pageSize int) (view.ItemsQuery, error) {
	status, err := view.ParseStatusFilter(f.Status)
	if err != nil {
		return view.ItemsQuery{}, err
	}
	q := view.DefaultItemsQuery()
	q.Search = f.Search
	q.Category = f.Category
	q.Status = status
	q.Sort = view.ParseSortOrder(f.Sort)
	q.Page = f.Page
	if pageSize > 0 {
		q.PageSize = pageSize
	}
	return q, nil
}
