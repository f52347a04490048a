package core

import "testing"

func TestBreakdownOperations(t *testing.T) {
	var b Breakdown

	if err := b.Add("chandaAam", Money{Cents: 1000}); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := b.Add("zakat", Money{Cents: 500}); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := b.Add("notAFund", Money{Cents: 100}); err != ErrUnknownFund {
		t.Fatalf("unknown fund: got %v", err)
	}
	if err := b.Add("zakat", Money{Cents: 0}); err != ErrEmptyBreakdownItem {
		t.Fatalf("zero amount: got %v", err)
	}

	if got := b.Total().Cents; got != 1500 {
		t.Fatalf("total = %d", got)
	}

	if err := b.UpdateAt(1, "fitrana", Money{Cents: 700}); err != nil {
		t.Fatalf("update: %v", err)
	}
	if err := b.UpdateAt(5, "zakat", Money{Cents: 100}); err != ErrBreakdownIndex {
		t.Fatalf("out of range update: got %v", err)
	}

	items := b.Items()
	if len(items) != 2 || items[1].Fund != "fitrana" || items[1].Amount.Cents != 700 {
		t.Fatalf("items after update: %+v", items)
	}

	if err := b.Remove(0); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if b.Len() != 1 || b.Items()[0].Fund != "fitrana" {
		t.Fatalf("order not preserved after remove: %+v", b.Items())
	}
	if err := b.Remove(3); err != ErrBreakdownIndex {
		t.Fatalf("out of range remove: got %v", err)
	}
}

func TestBreakdownFlattenMergesDuplicates(t *testing.T) {
	var b Breakdown
	_ = b.Add("zakat", Money{Cents: 300})
	_ = b.Add("zakat", Money{Cents: 200})
	_ = b.Add("tabligh", Money{Cents: 100})

	flat := b.Flatten()
	if flat["zakat"] != 500 || flat["tabligh"] != 100 || len(flat) != 2 {
		t.Fatalf("flatten = %v", flat)
	}
}

func TestBreakdownMatchesAmount(t *testing.T) {
	var b Breakdown
	if err := b.MatchesAmount(Money{Cents: 999}); err != nil {
		t.Fatalf("empty breakdown should match anything: %v", err)
	}
	_ = b.Add("localFund", Money{Cents: 400})
	_ = b.Add("mta", Money{Cents: 600})
	if err := b.MatchesAmount(Money{Cents: 1000}); err != nil {
		t.Fatalf("matching total rejected: %v", err)
	}
	if err := b.MatchesAmount(Money{Cents: 900}); err != ErrBreakdownMismatch {
		t.Fatalf("mismatch: got %v", err)
	}
}
