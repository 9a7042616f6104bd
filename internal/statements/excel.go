package statements

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"copra-trade/supplier-portal/supplier-portal-backend/internal/transactions"
)

const ledgerSheet = "Transactions"

var ledgerColumns = []string{
	"Date", "Transaction ID", "Supplier ID", "Net Weight (kg)",
	"Price / kg", "Total Amount", "Status",
}

// writeLedgerWorkbook renders the transaction ledger as a styled workbook
// with a frozen, filterable header row.
func writeLedgerWorkbook(txs []*transactions.Transaction, w io.Writer) error {
	file := excelize.NewFile()
	defer file.Close()

	file.SetSheetName("Sheet1", ledgerSheet)

	headerStyle, err := file.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"4472C4"}},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	for i, col := range ledgerColumns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		file.SetCellValue(ledgerSheet, cell, col)
		file.SetCellStyle(ledgerSheet, cell, cell, headerStyle)
	}

	file.SetPanes(ledgerSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})

	numberFormat := "#,##0.00"
	amountStyle, err := file.NewStyle(&excelize.Style{CustomNumFmt: &numberFormat})
	if err != nil {
		return fmt.Errorf("failed to create amount style: %w", err)
	}

	for i, tx := range txs {
		row := i + 2
		values := []interface{}{
			tx.TransactionDate.Format("2006-01-02"),
			tx.ID.String(),
			tx.SupplierID.String(),
			tx.NetWeight.InexactFloat64(),
			tx.PricePerKilo.InexactFloat64(),
			tx.TotalAmount.InexactFloat64(),
			string(tx.Status),
		}
		for j, val := range values {
			cell, _ := excelize.CoordinatesToCellName(j+1, row)
			file.SetCellValue(ledgerSheet, cell, val)
		}

		for _, col := range []string{"D", "E", "F"} {
			cell := fmt.Sprintf("%s%d", col, row)
			file.SetCellStyle(ledgerSheet, cell, cell, amountStyle)
		}
	}

	if len(txs) > 0 {
		lastCol, _ := excelize.CoordinatesToCellName(len(ledgerColumns), 1)
		file.AutoFilter(ledgerSheet, "A1:"+lastCol, nil)
	}

	file.SetColWidth(ledgerSheet, "A", "A", 12)
	file.SetColWidth(ledgerSheet, "B", "C", 38)
	file.SetColWidth(ledgerSheet, "D", "F", 16)
	file.SetColWidth(ledgerSheet, "G", "G", 12)

	return file.Write(w)
}
