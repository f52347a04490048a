package export

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Abdulquadri-Mahmud/ADRMS/internal/core"
)

func sampleRecords() []core.FinancialRecord {
	return []core.FinancialRecord{
		{
			Type:            core.Expense,
			Category:        "Utilities",
			Amount:          core.Money{Cents: 50050},
			Description:     "March electricity bill",
			TransactionDate: time.Date(2024, time.March, 10, 0, 0, 0, 0, time.UTC),
			ReceiptNo:       "REC-001",
			PaymentMethod:   "Bank Transfer",
			Vendor:          "PHCN",
		},
		{
			Type:            core.Income,
			Category:        "Donations",
			Amount:          core.Money{Cents: 100000},
			Description:     "monthly contribution",
			TransactionDate: time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC),
			Reference:       "TRX-443",
		},
	}
}

func TestAssembleFullDictionary(t *testing.T) {
	table, err := Assemble(sampleRecords(), nil)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}

	wantHeader := []string{
		"Date", "Type", "Category", "Description", "Amount (NGN)",
		"Vendor/Payee", "Receipt No", "Payment Method", "Reference",
	}
	if len(table.Header) != len(wantHeader) {
		t.Fatalf("header length = %d, want %d", len(table.Header), len(wantHeader))
	}
	for i, label := range wantHeader {
		if table.Header[i] != label {
			t.Fatalf("header[%d] = %q, want %q", i, table.Header[i], label)
		}
	}

	// 2 record rows + blank spacer + summary row.
	if len(table.Rows) != 4 {
		t.Fatalf("rows = %d, want 4", len(table.Rows))
	}

	first := table.Rows[0]
	if first[0] != "10/03/2024" {
		t.Fatalf("date cell = %q, want en-GB format", first[0])
	}
	if first[4] != "500.50" {
		t.Fatalf("amount cell = %q, want 500.50", first[4])
	}

	spacer := table.Rows[2]
	for i, cell := range spacer {
		if cell != "" {
			t.Fatalf("spacer[%d] = %q, want empty", i, cell)
		}
	}

	summary := table.Rows[3]
	if summary[0] != "SUMMARY" {
		t.Fatalf("summary label = %q", summary[0])
	}
	if summary[4] != "1500.50" {
		t.Fatalf("summary total = %q, want 1500.50", summary[4])
	}
}

func TestAssembleColumnSubset(t *testing.T) {
	// Requested out of order; dictionary order wins.
	table, err := Assemble(sampleRecords(), []string{"amount", "transactionDate", "category"})
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	want := []string{"Date", "Category", "Amount (NGN)"}
	for i, label := range want {
		if table.Header[i] != label {
			t.Fatalf("header[%d] = %q, want %q", i, table.Header[i], label)
		}
	}

	summary := table.Rows[len(table.Rows)-1]
	if summary[0] != "SUMMARY" || summary[2] != "1500.50" {
		t.Fatalf("summary row = %v", summary)
	}
}

func TestAssembleUnknownColumn(t *testing.T) {
	if _, err := Assemble(sampleRecords(), []string{"amount", "notes"}); err == nil {
		t.Fatal("expected error for unknown column")
	}
}

func TestAssembleEmptySet(t *testing.T) {
	table, err := Assemble(nil, nil)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	if len(table.Rows) != 0 {
		t.Fatalf("rows = %d, want 0 (no summary without records)", len(table.Rows))
	}
}

type fakeWriter struct {
	rows [][]string
	err  error
}

func (w *fakeWriter) AppendRows(_ context.Context, rows [][]string) error {
	if w.err != nil {
		return w.err
	}
	w.rows = append(w.rows, rows...)
	return nil
}

func TestWrite(t *testing.T) {
	table, err := Assemble(sampleRecords(), nil)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}

	w := &fakeWriter{}
	if err := Write(context.Background(), w, table); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if len(w.rows) != len(table.Rows)+1 {
		t.Fatalf("written rows = %d, want header + %d", len(w.rows), len(table.Rows))
	}
	if w.rows[0][0] != "Date" {
		t.Fatalf("first written row = %v, want header", w.rows[0])
	}

	failing := &fakeWriter{err: errors.New("quota exceeded")}
	if err := Write(context.Background(), failing, table); err == nil {
		t.Fatal("expected write error to propagate")
	}
}

func TestRecordRowSpansDictionary(t *testing.T) {
	row := RecordRow(sampleRecords()[1])
	if len(row) != len(Columns) {
		t.Fatalf("row length = %d, want %d", len(row), len(Columns))
	}
	if row[1] != "INCOME" || row[8] != "TRX-443" {
		t.Fatalf("row = %v", row)
	}
	if row[6] != "" {
		t.Fatalf("missing receipt should render empty, got %q", row[6])
	}
}
