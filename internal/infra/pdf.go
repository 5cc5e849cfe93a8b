package infra

// pdf.go renders the printable stock report with go-pdf/fpdf:
//   - title and generation timestamp
//   - active filters line
//   - summary totals (total / available / low stock / unavailable)
//   - item table (product, category, quantity, price, status, supplier)

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/go-pdf/fpdf"
)

const pdfMaxNameLen = 34

// RenderStockReportPDF lays the report out on A4 portrait pages and returns the
// document bytes.
func RenderStockReportPDF(report StockReport) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(12, 12, 12)
	pdf.SetAutoPageBreak(true, 14)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 24

	widths := []float64{
		contentW * 0.30, // product
		contentW * 0.17, // category
		contentW * 0.09, // quantity
		contentW * 0.11, // price
		contentW * 0.13, // status
		contentW * 0.20, // supplier
	}
	headers := []string{"Product", "Category", "Qty", "Price", "Status", "Supplier"}

	tableHeader := func() {
		pdf.SetFont("Helvetica", "B", 8)
		pdf.SetFillColor(230, 230, 230)
		for i, h := range headers {
			align := "L"
			if i == 2 || i == 3 {
				align = "R"
			}
			pdf.CellFormat(widths[i], 6, h, "B", 0, align, true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont("Helvetica", "", 8)
	}
	pdf.SetHeaderFuncMode(func() {
		if pdf.PageNo() > 1 {
			tableHeader()
		}
	}, true)
	pdf.SetFooterFunc(func() {
		pdf.SetY(-10)
		pdf.SetFont("Helvetica", "I", 7)
		pdf.CellFormat(0, 4, fmt.Sprintf("Page %d", pdf.PageNo()), "", 0, "C", false, 0, "")
	})

	pdf.AddPage()

	// ── Header ───────────────────────────────────────────────────────────────
	title := report.Title
	if title == "" {
		title = "Stock Report"
	}
	pdf.SetFont("Helvetica", "B", 15)
	pdf.CellFormat(contentW, 8, tr(title), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 8)
	pdf.CellFormat(contentW, 5, "Generated "+report.GeneratedAt.Format("2006-01-02 15:04 MST"), "", 1, "L", false, 0, "")
	if len(report.Filters) > 0 {
		pdf.CellFormat(contentW, 5, tr("Filters: "+strings.Join(report.Filters, ", ")), "", 1, "L", false, 0, "")
	}
	pdf.Ln(3)

	// ── Totals ───────────────────────────────────────────────────────────────
	t := report.Totals
	boxW := contentW / 4
	pdf.SetFont("Helvetica", "B", 9)
	for _, label := range []string{"Total", "Available", "Low Stock", "Unavailable"} {
		pdf.CellFormat(boxW, 6, label, "LTR", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)
	pdf.SetFont("Helvetica", "", 11)
	for _, n := range []int{t.Total, t.Available, t.LowStock, t.Unavailable} {
		pdf.CellFormat(boxW, 8, fmt.Sprintf("%d", n), "LBR", 0, "C", false, 0, "")
	}
	pdf.Ln(12)

	// ── Items ────────────────────────────────────────────────────────────────
	tableHeader()
	if len(report.Rows) == 0 {
		pdf.CellFormat(contentW, 6, "No items match the current filters.", "", 1, "L", false, 0, "")
	}
	for _, r := range report.Rows {
		name := r.ProductName
		if len([]rune(name)) > pdfMaxNameLen {
			name = string([]rune(name)[:pdfMaxNameLen-1]) + "..."
		}
		supplier := r.Supplier
		if supplier == "" {
			supplier = "-"
		}
		pdf.CellFormat(widths[0], 5, tr(name), "", 0, "L", false, 0, "")
		pdf.CellFormat(widths[1], 5, tr(r.Category), "", 0, "L", false, 0, "")
		pdf.CellFormat(widths[2], 5, fmt.Sprintf("%d", r.Quantity), "", 0, "R", false, 0, "")
		pdf.CellFormat(widths[3], 5, r.Price.StringFixed(2), "", 0, "R", false, 0, "")
		pdf.CellFormat(widths[4], 5, r.Status, "", 0, "L", false, 0, "")
		pdf.CellFormat(widths[5], 5, tr(supplier), "", 1, "L", false, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf: render report: %w", err)
	}
	return buf.Bytes(), nil
}
