package model

import (
	"github.com/shopspring/decimal"
)

func init() {
	// The inventory API decodes price as a JSON number, not a quoted string.
	decimal.MarshalJSONWithoutQuotes = true
}

// LowStockThreshold is the highest quantity still reported as Low Stock.
const LowStockThreshold = 10

// StockStatus is derived from Item.Quantity and never stored.
type StockStatus string

const (
	StockAvailable   StockStatus = "Available"
	StockLow         StockStatus = "Low Stock"
	StockUnavailable StockStatus = "Unavailable"
)

// StatusFor classifies a quantity. Available means strictly above
// LowStockThreshold; the same rule drives tables, detail and the summary.
func StatusFor(quantity int) StockStatus {
	switch {
	case quantity > LowStockThreshold:
		return StockAvailable
	case quantity > 0:
		return StockLow
	default:
		return StockUnavailable
	}
}

// Item is a stock-keeping unit. The inventory API serves it under /transactions.
type Item struct {
	ID          int64           `json:"id,omitempty"`
	ProductName string          `json:"product_name"`
	Category    string          `json:"category"`
	Quantity    int             `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description"`
	Date        Date            `json:"date"`
	VAT         bool            `json:"vat"`
	// SupplierID may point at a supplier that no longer exists.
	SupplierID *int64 `json:"supplier_id"`
}

func (i Item) StockStatus() StockStatus { return StatusFor(i.Quantity) }

// SuppliedBy reports whether the item references the given supplier id.
func (i Item) SuppliedBy(supplierID int64) bool {
	return i.SupplierID != nil && *i.SupplierID == supplierID
}
