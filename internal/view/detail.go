package view

import "stockportal/internal/model"

const (
	NoSupplierAssigned    = "No supplier assigned"
	NoDescriptionProvided = "No description provided"
)

// ItemDetail is the single-item page. Supplier is nil when the item has no
// supplier or references one that no longer exists.
type ItemDetail struct {
	Item             ItemRow         `json:"item"`
	Supplier         *model.Supplier `json:"supplier"`
	SupplierLabel    string          `json:"supplier_label"`
	DescriptionLabel string          `json:"description_label"`
}

func FindItem(items []model.Item, id int64) (model.Item, bool) {
	for _, it := range items {
		if it.ID == id {
			return it, true
		}
	}
	return model.Item{}, false
}

func FindSupplier(suppliers []model.Supplier, id int64) (model.Supplier, bool) {
	for _, s := range suppliers {
		if s.ID == id {
			return s, true
		}
	}
	return model.Supplier{}, false
}

func DescribeItem(it model.Item, suppliers []model.Supplier) ItemDetail {
	d := ItemDetail{
		Item:             NewItemRow(it),
		SupplierLabel:    NoSupplierAssigned,
		DescriptionLabel: it.Description,
	}
	if d.DescriptionLabel == "" {
		d.DescriptionLabel = NoDescriptionProvided
	}
	if it.SupplierID != nil {
		if s, ok := FindSupplier(suppliers, *it.SupplierID); ok {
			d.Supplier = &s
			d.SupplierLabel = s.Name
		}
	}
	return d
}
