package infra

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

const itemsSheet = "Items"

var xlsxHeaders = []string{"ID", "Product", "Category", "Quantity", "Price", "Stock Status", "Date", "VAT", "Supplier"}

// RenderItemsXLSX writes the report rows into a single-sheet workbook.
func RenderItemsXLSX(report StockReport) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", itemsSheet); err != nil {
		return nil, fmt.Errorf("xlsx: rename sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("xlsx: header style: %w", err)
	}

	for col, h := range xlsxHeaders {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(itemsSheet, cell, h); err != nil {
			return nil, fmt.Errorf("xlsx: header %q: %w", h, err)
		}
	}
	lastHeader, _ := excelize.CoordinatesToCellName(len(xlsxHeaders), 1)
	if err := f.SetCellStyle(itemsSheet, "A1", lastHeader, bold); err != nil {
		return nil, fmt.Errorf("xlsx: apply header style: %w", err)
	}

	for i, r := range report.Rows {
		vat := "No"
		if r.VAT {
			vat = "Yes"
		}
		price, _ := r.Price.Float64()
		values := []any{r.ID, r.ProductName, r.Category, r.Quantity, price, r.Status, r.Date, vat, r.Supplier}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(itemsSheet, cell, &values); err != nil {
			return nil, fmt.Errorf("xlsx: row %d: %w", i+2, err)
		}
	}

	if err := f.SetColWidth(itemsSheet, "B", "B", 28); err != nil {
		return nil, fmt.Errorf("xlsx: column width: %w", err)
	}
	if err := f.SetColWidth(itemsSheet, "I", "I", 24); err != nil {
		return nil, fmt.Errorf("xlsx: column width: %w", err)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("xlsx: write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
