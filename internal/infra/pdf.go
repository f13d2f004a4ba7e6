package infra

// pdf.go — daily cash report generation using go-pdf/fpdf.
// Renders an A4 report with the session header, the chronological operation
// ledger, the derived totals, and the reconciliation block (expected vs
// counted) for closed sessions. Post-close operations are marked with "*".
//
// The output file is saved to storagePath/daily_cash_{id}.pdf.

import (
	"fmt"
	"os"
	"path/filepath"

	"doutoragenda/internal/model"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"
)

// FormatCents renders integer cents as a reais string, e.g. 150000 → "R$ 1500.00".
func FormatCents(cents int64) string {
	return "R$ " + decimal.NewFromInt(cents).Div(decimal.NewFromInt(100)).StringFixed(2)
}

// GenerateCashReportPDF writes the daily cash report for a session.
// Returns the absolute path to the generated file.
func GenerateCashReportPDF(session *model.DailyCash, ops []model.CashOperation, clinicName, storagePath string) (string, error) {
	if err := os.MkdirAll(storagePath, 0755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}

	fileName := fmt.Sprintf("daily_cash_%s.pdf", session.ID)
	filePath := filepath.Join(storagePath, fileName)

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 30

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(contentW, 9, clinicName, "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(contentW, 6, "Daily Cash Report — "+session.Date.Format("02/01/2006"), "", 1, "C", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(contentW, 5, "Session "+session.ID.String(), "", 1, "L", false, 0, "")
	pdf.CellFormat(contentW, 5, "Status: "+session.Status, "", 1, "L", false, 0, "")
	pdf.Ln(2)

	pdf.Line(15, pdf.GetY(), pageW-15, pdf.GetY())
	pdf.Ln(2)

	// ── Ledger header ─────────────────────────────────────────────────────────
	col1 := contentW * 0.14 // time
	col2 := contentW * 0.14 // type
	col3 := contentW * 0.50 // description
	col4 := contentW * 0.22 // amount

	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(col1, 6, "Time", "B", 0, "L", false, 0, "")
	pdf.CellFormat(col2, 6, "Type", "B", 0, "L", false, 0, "")
	pdf.CellFormat(col3, 6, "Description", "B", 0, "L", false, 0, "")
	pdf.CellFormat(col4, 6, "Amount", "B", 1, "R", false, 0, "")

	// ── Ledger rows ───────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "", 9)
	for _, op := range ops {
		desc := op.Description
		if len(desc) > 48 {
			desc = desc[:47] + "…"
		}
		if op.Metadata != nil && op.Metadata.AddedToClosedCash {
			desc += " *"
		}
		amount := FormatCents(op.AmountCents)
		if op.Type == model.OpTypeCashOut {
			amount = "-" + amount
		}
		pdf.CellFormat(col1, 5, op.CreatedAt.Format("15:04"), "", 0, "L", false, 0, "")
		pdf.CellFormat(col2, 5, op.Type, "", 0, "L", false, 0, "")
		pdf.CellFormat(col3, 5, desc, "", 0, "L", false, 0, "")
		pdf.CellFormat(col4, 5, amount, "", 1, "R", false, 0, "")
	}

	pdf.Ln(2)
	pdf.Line(15, pdf.GetY(), pageW-15, pdf.GetY())
	pdf.Ln(2)

	// ── Totals ────────────────────────────────────────────────────────────────
	totalRow := func(label string, cents int64, bold bool) {
		style := ""
		if bold {
			style = "B"
		}
		pdf.SetFont("Helvetica", style, 9)
		pdf.CellFormat(col1+col2+col3, 5, label, "", 0, "L", false, 0, "")
		pdf.CellFormat(col4, 5, FormatCents(cents), "", 1, "R", false, 0, "")
	}

	totalRow("Opening amount:", session.OpeningAmountCents, false)
	totalRow("Total cash in:", session.TotalCashInCents, false)
	totalRow("Total cash out:", session.TotalCashOutCents, false)
	totalRow("Total revenue:", session.TotalRevenueCents, false)
	totalRow("Total expenses:", session.TotalExpensesCents, false)
	if session.ExpectedAmountCents != nil {
		totalRow("Expected amount:", *session.ExpectedAmountCents, true)
	}

	// ── Reconciliation ────────────────────────────────────────────────────────
	if session.ClosingAmountCents != nil {
		pdf.Ln(2)
		totalRow("Counted at close:", *session.ClosingAmountCents, true)
		if session.DifferenceCents != nil {
			totalRow("Difference:", *session.DifferenceCents, true)
		}
		if session.DifferenceClass != nil {
			pdf.SetFont("Helvetica", "I", 9)
			pdf.CellFormat(contentW, 5, "Classification: "+*session.DifferenceClass, "", 1, "L", false, 0, "")
		}
	}

	// ── Footer ────────────────────────────────────────────────────────────────
	pdf.Ln(4)
	pdf.SetFont("Helvetica", "I", 8)
	pdf.CellFormat(contentW, 4, "* operation added after the session was closed", "", 1, "L", false, 0, "")

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write file: %w", err)
	}

	return filePath, nil
}
