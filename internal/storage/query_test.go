package storage

import (
	"testing"
	"time"

	"github.com/Abdulquadri-Mahmud/ADRMS/internal/core"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func testRecord() core.FinancialRecord {
	return core.FinancialRecord{
		ID:              "rec-1",
		Type:            core.Expense,
		Category:        "Utilities",
		Amount:          core.Money{Cents: 50000},
		Description:     "March electricity bill",
		TransactionDate: date(2024, time.March, 10),
		ReceiptNo:       "REC-001",
		Vendor:          "PHCN",
		Reference:       "TRX-443",
		OrganizationID:  "org-1",
	}
}

func TestQueryMatches(t *testing.T) {
	from := date(2024, time.March, 1)
	to := date(2024, time.March, 31)

	tests := []struct {
		name string
		q    Query
		mut  func(*core.FinancialRecord)
		want bool
	}{
		{name: "empty query matches everything", q: Query{}, want: true},
		{name: "org match", q: Query{OrgID: "org-1"}, want: true},
		{name: "org mismatch", q: Query{OrgID: "org-2"}, want: false},
		{name: "type match", q: Query{Type: core.Expense}, want: true},
		{name: "type mismatch", q: Query{Type: core.Income}, want: false},
		{
			name: "expense filter matches legacy purchase rows",
			q:    Query{Type: core.Expense},
			mut:  func(r *core.FinancialRecord) { r.Type = core.Purchase },
			want: true,
		},
		{name: "category exact", q: Query{Category: "Utilities"}, want: true},
		{name: "category is not a substring match", q: Query{Category: "Util"}, want: false},
		{name: "date window inclusive", q: Query{DateFrom: &from, DateTo: &to}, want: true},
		{
			name: "before window",
			q:    Query{DateFrom: &from},
			mut:  func(r *core.FinancialRecord) { r.TransactionDate = date(2024, time.February, 28) },
			want: false,
		},
		{
			name: "boundary day matches",
			q:    Query{DateFrom: &from, DateTo: &to},
			mut:  func(r *core.FinancialRecord) { r.TransactionDate = from },
			want: true,
		},
		{name: "search hits description", q: Query{Search: "electricity"}, want: true},
		{name: "search is case insensitive", q: Query{Search: "MARCH"}, want: true},
		{name: "search hits receipt number", q: Query{Search: "REC-001"}, want: true},
		{name: "search hits vendor", q: Query{Search: "phcn"}, want: true},
		{name: "search hits reference", q: Query{Search: "trx-443"}, want: true},
		{name: "search miss", q: Query{Search: "water"}, want: false},
		{
			name: "all constraints must hold",
			q:    Query{OrgID: "org-1", Search: "electricity", Category: "Travel"},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := testRecord()
			if tt.mut != nil {
				tt.mut(&r)
			}
			if got := tt.q.Matches(r); got != tt.want {
				t.Fatalf("Matches() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPageOffset(t *testing.T) {
	tests := []struct {
		name string
		page Page
		want int
	}{
		{"first page", Page{Number: 1, Size: 20}, 0},
		{"third page", Page{Number: 3, Size: 20}, 40},
		{"zero clamps to first", Page{Number: 0, Size: 20}, 0},
		{"negative clamps to first", Page{Number: -5, Size: 20}, 0},
		{"unpaginated", Page{Number: 7, Size: 0}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.page.Offset(); got != tt.want {
				t.Fatalf("Offset() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestSortRecordsDeterministic(t *testing.T) {
	created := date(2024, time.March, 1)
	recs := []core.FinancialRecord{
		{ID: "a", TransactionDate: date(2024, time.March, 5), CreatedAt: created},
		{ID: "c", TransactionDate: date(2024, time.March, 10), CreatedAt: created},
		{ID: "b", TransactionDate: date(2024, time.March, 10), CreatedAt: created},
		{ID: "d", TransactionDate: date(2024, time.March, 10), CreatedAt: created.Add(time.Hour)},
	}

	SortRecords(recs)

	want := []string{"d", "c", "b", "a"}
	for i, id := range want {
		if recs[i].ID != id {
			t.Fatalf("position %d = %s, want %s (order %v)", i, recs[i].ID, id, want)
		}
	}

	// Same input shuffled differently lands in the same order.
	again := []core.FinancialRecord{recs[2], recs[0], recs[3], recs[1]}
	SortRecords(again)
	for i := range want {
		if again[i].ID != want[i] {
			t.Fatalf("reshuffled position %d = %s, want %s", i, again[i].ID, want[i])
		}
	}
}
