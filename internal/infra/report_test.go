package infra

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sampleReport() StockReport {
	return StockReport{
		Title:       "Stock Report",
		GeneratedAt: time.Date(2024, 3, 9, 10, 30, 0, 0, time.UTC),
		Filters:     []string{"Category: Poké Balls"},
		Rows: []ReportRow{
			{ID: 1, ProductName: "Ultra Ball", Category: "Poké Balls", Quantity: 12, Price: decimal.RequireFromString("12.50"), Status: "Available", Date: "2024-03-09", VAT: true, Supplier: "Silph Co."},
			{ID: 2, ProductName: "Master Ball", Category: "Poké Balls", Quantity: 0, Price: decimal.RequireFromString("999.99"), Status: "Unavailable", Date: "2024-02-01"},
		},
		Totals: ReportTotals{Total: 2, Available: 1, Unavailable: 1},
	}
}

func TestRenderItemsXLSX(t *testing.T) {
	data, err := RenderItemsXLSX(sampleReport())
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(itemsSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, xlsxHeaders, rows[0])
	assert.Equal(t, "Ultra Ball", rows[1][1])
	assert.Equal(t, "12", rows[1][3])
	assert.Equal(t, "Yes", rows[1][7])
	assert.Equal(t, "Silph Co.", rows[1][8])
	assert.Equal(t, "Unavailable", rows[2][5])
}

func TestRenderItemsXLSX_Empty(t *testing.T) {
	data, err := RenderItemsXLSX(StockReport{})
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(itemsSheet)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestRenderStockReportPDF(t *testing.T) {
	data, err := RenderStockReportPDF(sampleReport())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")), "output must be a PDF document")
}

func TestRenderStockReportPDF_ManyRowsPaginates(t *testing.T) {
	r := sampleReport()
	for i := 0; i < 200; i++ {
		r.Rows = append(r.Rows, r.Rows[0])
	}
	single, err := RenderStockReportPDF(sampleReport())
	require.NoError(t, err)
	data, err := RenderStockReportPDF(r)
	require.NoError(t, err)
	assert.Greater(t, len(data), len(single))
}
