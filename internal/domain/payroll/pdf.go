package payroll

import (
	"fmt"
	"io"
	"time"

	"github.com/jung-kurt/gofpdf"
)

// WriteTransferStatement renders the bank transfer list as a single-page A4 table.
func WriteTransferStatement(w io.Writer, transfers []Transfer, generatedAt time.Time) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, "Bank Transfer Statement")
	pdf.Ln(10)
	pdf.SetFont("Helvetica", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Generated: %s", generatedAt.Format("2006-01-02 15:04")))
	pdf.Ln(10)

	widths := []float64{55, 40, 35, 30, 25}
	pdf.SetFont("Helvetica", "B", 10)
	for i, title := range []string{"Employee", "Account", "Bank", "Amount", "Status"} {
		pdf.CellFormat(widths[i], 7, title, "1", 0, "L", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 10)
	var total float64
	for _, t := range transfers {
		pdf.CellFormat(widths[0], 7, t.EmployeeName, "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[1], 7, t.AccountNumber, "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[2], 7, t.BankName, "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[3], 7, fmt.Sprintf("%.2f", t.Amount), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[4], 7, string(t.Status), "1", 0, "L", false, 0, "")
		pdf.Ln(-1)
		total += t.Amount
	}
	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 11)
	pdf.Cell(0, 8, fmt.Sprintf("Transfers: %d  Total: %.2f", len(transfers), total))
	return pdf.Output(w)
}

func WriteBatchSummary(w io.Writer, batch Batch, records []Record) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, "Payroll Batch")
	pdf.Ln(12)
	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Name: %s", batch.Name))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Status: %s", batch.Status))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Created: %s", batch.CreatedAt.Format("2006-01-02")))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Employees: %d", batch.EmployeeCount))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Total: %.2f", batch.TotalAmount))
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "B", 10)
	widths := []float64{60, 30, 30, 30, 30}
	for i, title := range []string{"Employee", "Basic", "Allowances", "Deductions", "Net"} {
		pdf.CellFormat(widths[i], 7, title, "1", 0, "L", false, 0, "")
	}
	pdf.Ln(-1)
	pdf.SetFont("Helvetica", "", 10)
	for _, rec := range records {
		pdf.CellFormat(widths[0], 7, rec.EmployeeName, "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[1], 7, fmt.Sprintf("%.2f", rec.BasicSalary), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[2], 7, fmt.Sprintf("%.2f", rec.Allowances), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[3], 7, fmt.Sprintf("%.2f", rec.Deductions), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[4], 7, fmt.Sprintf("%.2f", rec.NetSalary), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}
	return pdf.Output(w)
}
