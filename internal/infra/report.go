package infra

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReportRow is one item line in the spreadsheet and PDF exports.
type ReportRow struct {
	ID          int64
	ProductName string
	Category    string
	Quantity    int
	Price       decimal.Decimal
	Status      string
	Date        string
	VAT         bool
	Supplier    string
}

// ReportTotals mirrors the dashboard summary widget.
type ReportTotals struct {
	Total       int
	Available   int
	LowStock    int
	Unavailable int
}

// StockReport is the input of both renderers.
type StockReport struct {
	Title       string
	GeneratedAt time.Time
	Filters     []string
	Rows        []ReportRow
	Totals      ReportTotals
}
