package statements

import (
	"encoding/csv"
	"fmt"
	"io"

	"copra-trade/supplier-portal/supplier-portal-backend/internal/transactions"
)

// writeLedgerCSV renders the transaction ledger as CSV with the same columns
// as the workbook export.
func writeLedgerCSV(txs []*transactions.Transaction, w io.Writer) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(ledgerColumns); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for _, tx := range txs {
		record := []string{
			tx.TransactionDate.Format("2006-01-02"),
			tx.ID.String(),
			tx.SupplierID.String(),
			tx.NetWeight.String(),
			tx.PricePerKilo.String(),
			tx.TotalAmount.String(),
			string(tx.Status),
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}
