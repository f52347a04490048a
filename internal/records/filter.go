// Package records implements the dashboard's query and mutation layer:
// compiling user filters into store predicates, paginating listings,
// aggregating summaries and validating form submissions.
package records

import (
	"time"

	"github.com/Abdulquadri-Mahmud/ADRMS/internal/core"
	"github.com/Abdulquadri-Mahmud/ADRMS/internal/scope"
	"github.com/Abdulquadri-Mahmud/ADRMS/internal/storage"
)

// PageSize is the fixed listing page size.
const PageSize = 20

const dateLayout = "2006-01-02"

// FieldErrors maps a field name to its validation messages.
type FieldErrors map[string][]string

func (e FieldErrors) add(field, msg string) { e[field] = append(e[field], msg) }

// ListFilter is the raw filter state collected by the dashboard UI.
type ListFilter struct {
	Query    string `json:"query"`
	Type     string `json:"type"`
	Category string `json:"category"`
	DateFrom string `json:"dateFrom"`
	DateTo   string `json:"dateTo"`
	OrgID    string `json:"organizationId"`
}

// SummaryFilter narrows the summary to a month and/or year window.
type SummaryFilter struct {
	Month int
	Year  int
	OrgID string
}

// CompileFilter turns raw filter inputs into the store predicate shared by
// listing, summary and export. Organization scoping is applied here and
// nowhere else: a standard admin is always confined to their own org.
//
// Malformed dates and unknown types are hard validation errors rather than
// silently dropped bounds.
func CompileFilter(caller scope.Caller, f ListFilter) (storage.Query, FieldErrors) {
	q := storage.Query{
		OrgID:    caller.ScopeOrg(f.OrgID),
		Category: f.Category,
		Search:   f.Query,
	}
	errs := FieldErrors{}

	if f.Type != "" {
		t, err := core.ParseRecordType(f.Type)
		if err != nil {
			errs.add("type", "unknown record type")
		} else {
			q.Type = t
		}
	}
	if f.DateFrom != "" {
		from, err := time.ParseInLocation(dateLayout, f.DateFrom, time.UTC)
		if err != nil {
			errs.add("dateFrom", "invalid date, expected YYYY-MM-DD")
		} else {
			q.DateFrom = &from
		}
	}
	if f.DateTo != "" {
		to, err := time.ParseInLocation(dateLayout, f.DateTo, time.UTC)
		if err != nil {
			errs.add("dateTo", "invalid date, expected YYYY-MM-DD")
		} else {
			// Inclusive upper bound: cover timestamps anywhere in the day.
			to = to.Add(24*time.Hour - time.Second)
			q.DateTo = &to
		}
	}
	if q.DateFrom != nil && q.DateTo != nil && q.DateTo.Before(*q.DateFrom) {
		errs.add("dateTo", "date range is inverted")
	}

	if len(errs) > 0 {
		return storage.Query{}, errs
	}
	return q, nil
}

// CompileSummaryFilter builds the aggregation predicate. A month and year
// select that month; a year alone selects the whole year; a month without a
// year applies to the current year.
//
// A month outside 1..12 is a hard validation error: time.Date would quietly
// roll it into an adjacent year.
func CompileSummaryFilter(caller scope.Caller, f SummaryFilter, now time.Time) (storage.Query, FieldErrors) {
	if f.Month < 0 || f.Month > 12 {
		errs := FieldErrors{}
		errs.add("month", "month must be between 1 and 12")
		return storage.Query{}, errs
	}

	q := storage.Query{OrgID: caller.ScopeOrg(f.OrgID)}

	year, month := f.Year, f.Month
	if month != 0 && year == 0 {
		year = now.UTC().Year()
	}

	switch {
	case year != 0 && month != 0:
		from := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
		to := from.AddDate(0, 1, 0).Add(-time.Second)
		q.DateFrom, q.DateTo = &from, &to
	case year != 0:
		from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
		to := time.Date(year, time.December, 31, 23, 59, 59, 0, time.UTC)
		q.DateFrom, q.DateTo = &from, &to
	}
	return q, nil
}
