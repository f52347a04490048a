package memory

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/Abdulquadri-Mahmud/ADRMS/internal/core"
	"github.com/Abdulquadri-Mahmud/ADRMS/internal/storage"
)

func seedRecord(t *testing.T, s *Store, org string, day int, amount int64) string {
	t.Helper()
	id, err := s.Insert(context.Background(), core.FinancialRecord{
		Type:            core.Expense,
		Category:        "Utilities",
		Amount:          core.Money{Cents: amount},
		Description:     fmt.Sprintf("bill %d", day),
		TransactionDate: time.Date(2024, time.March, day, 0, 0, 0, 0, time.UTC),
		OrganizationID:  org,
	})
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}
	return id
}

func TestListPaginates(t *testing.T) {
	s := New()
	ctx := context.Background()
	for day := 1; day <= 25; day++ {
		seedRecord(t, s, "org-1", day, 1000)
	}

	page1, err := s.List(ctx, storage.Query{}, storage.Page{Number: 1, Size: 20})
	if err != nil {
		t.Fatalf("List page 1: %v", err)
	}
	if len(page1) != 20 {
		t.Fatalf("page 1 length = %d, want 20", len(page1))
	}
	// Newest transaction date first.
	if got := page1[0].TransactionDate.Day(); got != 25 {
		t.Fatalf("first row day = %d, want 25", got)
	}

	page2, err := s.List(ctx, storage.Query{}, storage.Page{Number: 2, Size: 20})
	if err != nil {
		t.Fatalf("List page 2: %v", err)
	}
	if len(page2) != 5 {
		t.Fatalf("page 2 length = %d, want 5", len(page2))
	}

	beyond, err := s.List(ctx, storage.Query{}, storage.Page{Number: 3, Size: 20})
	if err != nil {
		t.Fatalf("List page 3: %v", err)
	}
	if len(beyond) != 0 {
		t.Fatalf("page beyond last = %d rows, want 0", len(beyond))
	}

	total, err := s.Count(ctx, storage.Query{})
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if total != 25 {
		t.Fatalf("Count = %d, want 25", total)
	}
}

func TestListJoinsOrganizationName(t *testing.T) {
	s := New()
	s.SeedOrganization(core.Organization{ID: "org-1", Name: "Lagos Branch"})
	seedRecord(t, s, "org-1", 1, 1000)

	recs, err := s.List(context.Background(), storage.Query{}, storage.Page{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if recs[0].OrganizationName != "Lagos Branch" {
		t.Fatalf("OrganizationName = %q, want %q", recs[0].OrganizationName, "Lagos Branch")
	}
}

func TestGetScoping(t *testing.T) {
	s := New()
	ctx := context.Background()
	id := seedRecord(t, s, "org-1", 1, 1000)

	if _, err := s.Get(ctx, id, "org-1"); err != nil {
		t.Fatalf("Get own org: %v", err)
	}
	if _, err := s.Get(ctx, id, ""); err != nil {
		t.Fatalf("Get unscoped: %v", err)
	}
	if _, err := s.Get(ctx, id, "org-2"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("Get foreign org = %v, want ErrNotFound", err)
	}
	if _, err := s.Get(ctx, "missing", ""); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("Get missing = %v, want ErrNotFound", err)
	}
}

func TestUpdate(t *testing.T) {
	s := New()
	ctx := context.Background()
	id := seedRecord(t, s, "org-1", 1, 1000)

	upd := core.FinancialRecord{
		Type:            core.Income,
		Category:        "Donations",
		Amount:          core.Money{Cents: 250000},
		Description:     "corrected entry",
		TransactionDate: time.Date(2024, time.April, 2, 0, 0, 0, 0, time.UTC),
	}

	if err := s.Update(ctx, id, "org-2", upd); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("Update foreign org = %v, want ErrNotFound", err)
	}
	if err := s.Update(ctx, "missing", "", upd); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("Update missing = %v, want ErrNotFound", err)
	}

	if err := s.Update(ctx, id, "org-1", upd); err != nil {
		t.Fatalf("Update: %v", err)
	}
	got, err := s.Get(ctx, id, "")
	if err != nil {
		t.Fatalf("Get after update: %v", err)
	}
	if got.Category != "Donations" || got.Amount.Cents != 250000 || got.Type != core.Income {
		t.Fatalf("update not applied: %+v", got)
	}
	if got.OrganizationID != "org-1" {
		t.Fatalf("ownership changed on update: %q", got.OrganizationID)
	}
}

func TestDeleteManyReturnsActualDeletions(t *testing.T) {
	s := New()
	ctx := context.Background()
	a := seedRecord(t, s, "org-1", 1, 1000)
	b := seedRecord(t, s, "org-1", 2, 1000)
	c := seedRecord(t, s, "org-1", 3, 1000)
	foreign := seedRecord(t, s, "org-2", 4, 1000)

	deleted, err := s.DeleteMany(ctx, []string{a, b, c, foreign, "missing"}, "org-1")
	if err != nil {
		t.Fatalf("DeleteMany: %v", err)
	}
	want := map[string]bool{a: true, b: true, c: true}
	if len(deleted) != 3 {
		t.Fatalf("deleted = %v, want 3 ids", deleted)
	}
	for _, id := range deleted {
		if !want[id] {
			t.Fatalf("unexpected deleted id %q in %v", id, deleted)
		}
	}
	if _, err := s.Get(ctx, foreign, ""); err != nil {
		t.Fatalf("foreign record should survive: %v", err)
	}
}

func TestNormalizeLegacyTypes(t *testing.T) {
	s := New()
	ctx := context.Background()
	id, err := s.Insert(ctx, core.FinancialRecord{
		Type:            core.Purchase,
		Category:        "Supplies",
		Amount:          core.Money{Cents: 500},
		Description:     "legacy row",
		TransactionDate: time.Date(2023, time.May, 1, 0, 0, 0, 0, time.UTC),
		OrganizationID:  "org-1",
	})
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}
	seedRecord(t, s, "org-1", 1, 1000)

	changed, err := s.NormalizeLegacyTypes(ctx)
	if err != nil {
		t.Fatalf("NormalizeLegacyTypes: %v", err)
	}
	if changed != 1 {
		t.Fatalf("changed = %d, want 1", changed)
	}

	got, err := s.Get(ctx, id, "")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Type != core.Expense {
		t.Fatalf("Type = %s, want EXPENSE", got.Type)
	}

	// A second run finds nothing left to rewrite.
	changed, err = s.NormalizeLegacyTypes(ctx)
	if err != nil {
		t.Fatalf("second NormalizeLegacyTypes: %v", err)
	}
	if changed != 0 {
		t.Fatalf("second run changed = %d, want 0", changed)
	}
}
