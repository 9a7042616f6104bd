package statements

import (
	"fmt"
	"io"

	"github.com/jung-kurt/gofpdf"
)

// writeStatementPDF renders a supplier statement: profile header, credit
// standing, delivery history table, and loan summary.
func writeStatementPDF(statement *supplierStatement, w io.Writer) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 20, 15)
	pdf.SetAutoPageBreak(true, 20)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(0, 10, "Supplier Statement", "", 1, "C", false, 0, "")

	pdf.SetFont("Arial", "", 9)
	pdf.SetTextColor(128, 128, 128)
	pdf.CellFormat(0, 6, fmt.Sprintf("Generated: %s", statement.GeneratedAt.Format("2006-01-02")), "", 1, "R", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
	pdf.Ln(4)

	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(0, 8, statement.Supplier.Name, "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	if statement.Supplier.ContactNumber != "" {
		pdf.CellFormat(0, 6, statement.Supplier.ContactNumber, "", 1, "L", false, 0, "")
	}
	if statement.Supplier.Address != "" {
		pdf.CellFormat(0, 6, statement.Supplier.Address, "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	score := statement.Score.Score
	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(0, 8, "Credit Standing", "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(60, 6, fmt.Sprintf("Score: %d (%s)", score.Score, score.Category), "", 0, "L", false, 0, "")
	pdf.CellFormat(60, 6, fmt.Sprintf("Completed deliveries: %d", score.TransactionCount), "", 0, "L", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Eligible loan amount: %s", score.EligibleAmount.StringFixed(2)), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(0, 8, "Delivery History", "", 1, "L", false, 0, "")

	widths := []float64{28, 38, 32, 32, 25}
	headers := []string{"Date", "Net Weight (kg)", "Price / kg", "Total", "Status"}
	pdf.SetFont("Arial", "B", 9)
	pdf.SetFillColor(68, 114, 196)
	pdf.SetTextColor(255, 255, 255)
	for i, header := range headers {
		pdf.CellFormat(widths[i], 7, header, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 9)
	pdf.SetTextColor(0, 0, 0)
	for i, tx := range statement.History {
		fill := i%2 == 1
		pdf.SetFillColor(242, 242, 242)
		pdf.CellFormat(widths[0], 6, tx.TransactionDate.Format("2006-01-02"), "1", 0, "L", fill, 0, "")
		pdf.CellFormat(widths[1], 6, tx.NetWeight.StringFixed(2), "1", 0, "R", fill, 0, "")
		pdf.CellFormat(widths[2], 6, tx.PricePerKilo.StringFixed(2), "1", 0, "R", fill, 0, "")
		pdf.CellFormat(widths[3], 6, tx.TotalAmount.StringFixed(2), "1", 0, "R", fill, 0, "")
		pdf.CellFormat(widths[4], 6, string(tx.Status), "1", 0, "C", fill, 0, "")
		pdf.Ln(-1)
	}
	if len(statement.History) == 0 {
		pdf.CellFormat(155, 6, "No deliveries recorded", "1", 1, "C", false, 0, "")
	}
	pdf.Ln(4)

	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(0, 8, "Loans", "", 1, "L", false, 0, "")

	loanWidths := []float64{28, 32, 32, 32, 31}
	loanHeaders := []string{"Due Date", "Amount", "With Interest", "Paid", "Status"}
	pdf.SetFont("Arial", "B", 9)
	pdf.SetFillColor(68, 114, 196)
	pdf.SetTextColor(255, 255, 255)
	for i, header := range loanHeaders {
		pdf.CellFormat(loanWidths[i], 7, header, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 9)
	pdf.SetTextColor(0, 0, 0)
	for i, loan := range statement.Loans {
		fill := i%2 == 1
		pdf.SetFillColor(242, 242, 242)
		pdf.CellFormat(loanWidths[0], 6, loan.DueDate.Format("2006-01-02"), "1", 0, "L", fill, 0, "")
		pdf.CellFormat(loanWidths[1], 6, loan.Amount.StringFixed(2), "1", 0, "R", fill, 0, "")
		pdf.CellFormat(loanWidths[2], 6, loan.TotalWithInterest.StringFixed(2), "1", 0, "R", fill, 0, "")
		pdf.CellFormat(loanWidths[3], 6, loan.TotalPaid.StringFixed(2), "1", 0, "R", fill, 0, "")
		pdf.CellFormat(loanWidths[4], 6, string(loan.Status), "1", 0, "C", fill, 0, "")
		pdf.Ln(-1)
	}
	if len(statement.Loans) == 0 {
		pdf.CellFormat(155, 6, "No loans on record", "1", 1, "C", false, 0, "")
	}

	pdf.SetY(-15)
	pdf.SetFont("Arial", "I", 8)
	pdf.SetTextColor(128, 128, 128)
	pdf.CellFormat(0, 10, fmt.Sprintf("Page %d", pdf.PageNo()), "", 0, "C", false, 0, "")

	return pdf.Output(w)
}
