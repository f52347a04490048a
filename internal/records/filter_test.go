package records

import (
	"testing"
	"time"

	"github.com/Abdulquadri-Mahmud/ADRMS/internal/core"
	"github.com/Abdulquadri-Mahmud/ADRMS/internal/scope"
)

var (
	standardAdmin = scope.Caller{AdminID: "adm-1", OrganizationID: "org-1", Role: scope.RoleStandardAdmin}
	superAdmin    = scope.Caller{AdminID: "adm-root", OrganizationID: "org-hq", Role: scope.RoleSuperAdmin}
)

func TestCompileFilterScoping(t *testing.T) {
	tests := []struct {
		name    string
		caller  scope.Caller
		reqOrg  string
		wantOrg string
	}{
		{"standard admin is confined to own org", standardAdmin, "", "org-1"},
		{"standard admin cannot request another org", standardAdmin, "org-9", "org-1"},
		{"super admin gets requested org", superAdmin, "org-9", "org-9"},
		{"super admin with no request sees all", superAdmin, "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, errs := CompileFilter(tt.caller, ListFilter{OrgID: tt.reqOrg})
			if len(errs) > 0 {
				t.Fatalf("unexpected errors: %v", errs)
			}
			if q.OrgID != tt.wantOrg {
				t.Fatalf("OrgID = %q, want %q", q.OrgID, tt.wantOrg)
			}
		})
	}
}

func TestCompileFilterFields(t *testing.T) {
	q, errs := CompileFilter(superAdmin, ListFilter{
		Query:    "REC-001",
		Type:     "purchase",
		Category: "Utilities",
		DateFrom: "2024-03-01",
		DateTo:   "2024-03-31",
	})
	if len(errs) > 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if q.Search != "REC-001" {
		t.Fatalf("Search = %q", q.Search)
	}
	// Legacy purchase input normalizes to expense.
	if q.Type != core.Expense {
		t.Fatalf("Type = %q, want EXPENSE", q.Type)
	}
	if q.Category != "Utilities" {
		t.Fatalf("Category = %q", q.Category)
	}
	if q.DateFrom == nil || !q.DateFrom.Equal(time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("DateFrom = %v", q.DateFrom)
	}
	// Upper bound is inclusive: the whole last day is covered.
	wantTo := time.Date(2024, time.March, 31, 23, 59, 59, 0, time.UTC)
	if q.DateTo == nil || !q.DateTo.Equal(wantTo) {
		t.Fatalf("DateTo = %v, want %v", q.DateTo, wantTo)
	}
}

func TestCompileFilterErrors(t *testing.T) {
	tests := []struct {
		name      string
		filter    ListFilter
		wantField string
	}{
		{"unknown type", ListFilter{Type: "TRANSFER"}, "type"},
		{"malformed dateFrom", ListFilter{DateFrom: "03/01/2024"}, "dateFrom"},
		{"malformed dateTo", ListFilter{DateTo: "not-a-date"}, "dateTo"},
		{"inverted range", ListFilter{DateFrom: "2024-04-01", DateTo: "2024-03-01"}, "dateTo"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, errs := CompileFilter(standardAdmin, tt.filter)
			if len(errs) == 0 {
				t.Fatal("expected validation errors")
			}
			if len(errs[tt.wantField]) == 0 {
				t.Fatalf("missing error on %q, got %v", tt.wantField, errs)
			}
		})
	}
}

func TestCompileSummaryFilter(t *testing.T) {
	now := time.Date(2024, time.June, 15, 12, 0, 0, 0, time.UTC)

	t.Run("month and year", func(t *testing.T) {
		q, errs := CompileSummaryFilter(superAdmin, SummaryFilter{Month: 3, Year: 2024}, now)
		if len(errs) > 0 {
			t.Fatalf("unexpected errors: %v", errs)
		}
		if !q.DateFrom.Equal(time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)) {
			t.Fatalf("DateFrom = %v", q.DateFrom)
		}
		if !q.DateTo.Equal(time.Date(2024, time.March, 31, 23, 59, 59, 0, time.UTC)) {
			t.Fatalf("DateTo = %v", q.DateTo)
		}
	})

	t.Run("year only", func(t *testing.T) {
		q, errs := CompileSummaryFilter(superAdmin, SummaryFilter{Year: 2023}, now)
		if len(errs) > 0 {
			t.Fatalf("unexpected errors: %v", errs)
		}
		if !q.DateFrom.Equal(time.Date(2023, time.January, 1, 0, 0, 0, 0, time.UTC)) {
			t.Fatalf("DateFrom = %v", q.DateFrom)
		}
		if !q.DateTo.Equal(time.Date(2023, time.December, 31, 23, 59, 59, 0, time.UTC)) {
			t.Fatalf("DateTo = %v", q.DateTo)
		}
	})

	t.Run("month without year uses current year", func(t *testing.T) {
		q, errs := CompileSummaryFilter(superAdmin, SummaryFilter{Month: 2}, now)
		if len(errs) > 0 {
			t.Fatalf("unexpected errors: %v", errs)
		}
		if !q.DateFrom.Equal(time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC)) {
			t.Fatalf("DateFrom = %v", q.DateFrom)
		}
		if !q.DateTo.Equal(time.Date(2024, time.February, 29, 23, 59, 59, 0, time.UTC)) {
			t.Fatalf("DateTo = %v", q.DateTo)
		}
	})

	t.Run("no window", func(t *testing.T) {
		q, errs := CompileSummaryFilter(standardAdmin, SummaryFilter{}, now)
		if len(errs) > 0 {
			t.Fatalf("unexpected errors: %v", errs)
		}
		if q.DateFrom != nil || q.DateTo != nil {
			t.Fatalf("window = %v..%v, want none", q.DateFrom, q.DateTo)
		}
		if q.OrgID != "org-1" {
			t.Fatalf("OrgID = %q, want org-1", q.OrgID)
		}
	})

	// An out-of-range month must be a hard error, not rolled into the
	// neighboring year by date arithmetic.
	t.Run("month out of range", func(t *testing.T) {
		for _, month := range []int{13, -1} {
			_, errs := CompileSummaryFilter(superAdmin, SummaryFilter{Month: month, Year: 2024}, now)
			if len(errs["month"]) == 0 {
				t.Fatalf("month %d: missing error, got %v", month, errs)
			}
		}
	})
}
