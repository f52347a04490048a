// Package export flattens filtered record sets into tabular rows for
// spreadsheet encoding. The actual workbook writing is an external
// collaborator behind the WorkbookWriter port.
package export

import (
	"context"
	"fmt"

	"github.com/Abdulquadri-Mahmud/ADRMS/internal/core"
)

// Column is one entry of the fixed export column dictionary.
type Column struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// Columns is the full dictionary in output order.
var Columns = []Column{
	{ID: "transactionDate", Label: "Date"},
	{ID: "type", Label: "Type"},
	{ID: "category", Label: "Category"},
	{ID: "description", Label: "Description"},
	{ID: "amount", Label: "Amount (NGN)"},
	{ID: "vendor", Label: "Vendor/Payee"},
	{ID: "receiptNo", Label: "Receipt No"},
	{ID: "paymentMethod", Label: "Payment Method"},
	{ID: "reference", Label: "Reference"},
}

// WorkbookWriter encodes assembled rows into a spreadsheet.
type WorkbookWriter interface {
	AppendRows(ctx context.Context, rows [][]string) error
}

// Table is a fully assembled export: a header, one row per record, a blank
// spacer and a trailing summary row with the amount total.
type Table struct {
	Header []string   `json:"header"`
	Rows   [][]string `json:"rows"`
}

// dateLayout renders dates the way the dashboard displays them (en-GB).
const dateLayout = "02/01/2006"

func cellValue(r core.FinancialRecord, columnID string) string {
	switch columnID {
	case "transactionDate":
		return r.TransactionDate.Format(dateLayout)
	case "type":
		return string(r.Type)
	case "category":
		return r.Category
	case "description":
		return r.Description
	case "amount":
		return r.Amount.String()
	case "vendor":
		return r.Vendor
	case "receiptNo":
		return r.ReceiptNo
	case "paymentMethod":
		return r.PaymentMethod
	case "reference":
		return r.Reference
	default:
		return ""
	}
}

// selectColumns resolves the requested subset, keeping dictionary order.
// Empty input selects every column; unknown ids are an error.
func selectColumns(ids []string) ([]Column, error) {
	if len(ids) == 0 {
		return Columns, nil
	}
	known := make(map[string]bool, len(Columns))
	for _, c := range Columns {
		known[c.ID] = true
	}
	for _, id := range ids {
		if !known[id] {
			return nil, fmt.Errorf("unknown export column %q", id)
		}
	}
	requested := make(map[string]bool, len(ids))
	for _, id := range ids {
		requested[id] = true
	}
	out := make([]Column, 0, len(ids))
	for _, c := range Columns {
		if requested[c.ID] {
			out = append(out, c)
		}
	}
	return out, nil
}

// Header returns the full dictionary's labels in output order.
func Header() []string {
	out := make([]string, len(Columns))
	for i, c := range Columns {
		out[i] = c.Label
	}
	return out
}

// RecordRow flattens one record across the full column dictionary, the
// shape the mirror worker appends per change.
func RecordRow(r core.FinancialRecord) []string {
	row := make([]string, len(Columns))
	for i, c := range Columns {
		row[i] = cellValue(r, c.ID)
	}
	return row
}

// Assemble builds the export table for the complete filtered record set.
// The summary row labels the first cell SUMMARY (preferring the date column)
// and carries the exact amount total in the amount column.
func Assemble(recs []core.FinancialRecord, columnIDs []string) (*Table, error) {
	cols, err := selectColumns(columnIDs)
	if err != nil {
		return nil, err
	}

	header := make([]string, len(cols))
	for i, c := range cols {
		header[i] = c.Label
	}

	rows := make([][]string, 0, len(recs)+2)
	var totalCents int64
	for _, r := range recs {
		row := make([]string, len(cols))
		for i, c := range cols {
			row[i] = cellValue(r, c.ID)
		}
		rows = append(rows, row)
		totalCents += r.Amount.Cents
	}

	if len(recs) > 0 {
		rows = append(rows, make([]string, len(cols)))
		summary := make([]string, len(cols))
		for i, c := range cols {
			if c.ID == "amount" {
				summary[i] = core.Money{Cents: totalCents}.String()
			}
		}
		for i := range cols {
			if cols[i].ID != "amount" {
				summary[i] = "SUMMARY"
				break
			}
		}
		rows = append(rows, summary)
	}

	return &Table{Header: header, Rows: rows}, nil
}

// Write pushes the assembled table through the workbook collaborator.
// Assembly happens before any write, so a fetch or assembly failure never
// produces a partial workbook.
func Write(ctx context.Context, w WorkbookWriter, t *Table) error {
	rows := make([][]string, 0, len(t.Rows)+1)
	rows = append(rows, t.Header)
	rows = append(rows, t.Rows...)
	if err := w.AppendRows(ctx, rows); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
