package core

import (
	"testing"
	"time"
)

func validRecord() FinancialRecord {
	return FinancialRecord{
		Type:            Expense,
		Category:        "Utilities",
		Amount:          Money{Cents: 50000},
		Description:     "March power bill",
		TransactionDate: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		OrganizationID:  "org-1",
	}
}

func TestFinancialRecordValidate(t *testing.T) {
	if err := validRecord().Validate(); err != nil {
		t.Fatalf("valid record rejected: %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*FinancialRecord)
		want   error
	}{
		{"bad type", func(r *FinancialRecord) { r.Type = "TRANSFER" }, ErrInvalidType},
		{"legacy type not valid for writes", func(r *FinancialRecord) { r.Type = Purchase }, ErrInvalidType},
		{"zero amount", func(r *FinancialRecord) { r.Amount = Money{} }, ErrInvalidAmount},
		{"negative amount", func(r *FinancialRecord) { r.Amount = Money{Cents: -100} }, ErrInvalidAmount},
		{"empty category", func(r *FinancialRecord) { r.Category = "  " }, ErrEmptyCategory},
		{"empty description", func(r *FinancialRecord) { r.Description = "" }, ErrEmptyDescription},
		{"zero date", func(r *FinancialRecord) { r.TransactionDate = time.Time{} }, ErrInvalidDate},
		{"missing org", func(r *FinancialRecord) { r.OrganizationID = "" }, ErrMissingOrg},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := validRecord()
			tc.mutate(&r)
			if err := r.Validate(); err != tc.want {
				t.Fatalf("got %v, want %v", err, tc.want)
			}
		})
	}
}

func TestParseRecordType(t *testing.T) {
	cases := []struct {
		in   string
		want RecordType
		ok   bool
	}{
		{"INCOME", Income, true},
		{"income", Income, true},
		{" Expense ", Expense, true},
		{"PURCHASE", Expense, true}, // legacy value migrates forward
		{"TRANSFER", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, err := ParseRecordType(tc.in)
		if tc.ok {
			if err != nil || got != tc.want {
				t.Fatalf("ParseRecordType(%q) = %q, %v; want %q", tc.in, got, err, tc.want)
			}
		} else if err == nil {
			t.Fatalf("ParseRecordType(%q) expected error", tc.in)
		}
	}
}

func TestSummarizeTotals(t *testing.T) {
	totals := []TypeTotal{
		{Type: Income, TotalCents: 120000, Count: 3},
		{Type: Expense, TotalCents: 50000, Count: 2},
		{Type: Purchase, TotalCents: 20000, Count: 1},
	}
	s := SummarizeTotals(totals)

	if s.TotalIncome.Cents != 120000 {
		t.Errorf("TotalIncome = %d", s.TotalIncome.Cents)
	}
	if s.TotalExpenses.Cents != 70000 {
		t.Errorf("TotalExpenses = %d, want purchases folded in", s.TotalExpenses.Cents)
	}
	if s.TotalPurchases.Cents != 20000 {
		t.Errorf("TotalPurchases = %d", s.TotalPurchases.Cents)
	}
	if s.NetBalance.Cents != 50000 {
		t.Errorf("NetBalance = %d", s.NetBalance.Cents)
	}
	if s.RecordCount != 6 {
		t.Errorf("RecordCount = %d", s.RecordCount)
	}
}

func TestSummarizeTotalsEmpty(t *testing.T) {
	s := SummarizeTotals(nil)
	if s.RecordCount != 0 || s.NetBalance.Cents != 0 {
		t.Fatalf("empty summary not zero: %+v", s)
	}
}
