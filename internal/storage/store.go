// Package storage defines the record store port and the compiled query
// predicate shared by every backend. Listing, counting, summarizing and
// export all run over the same Query so their results always agree.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/Abdulquadri-Mahmud/ADRMS/internal/core"
)

// ErrNotFound is returned by Get and reported by Update when no record
// matches the id within the caller's scope.
var ErrNotFound = errors.New("record not found")

// Query is the compiled filter predicate. Zero values mean "no constraint".
type Query struct {
	// OrgID confines results to one organization; empty means all.
	OrgID string

	// Type matches the normalized record type: filtering for Expense also
	// matches rows still stored with the legacy Purchase type.
	Type core.RecordType

	// Category is an exact match.
	Category string

	// Search matches case-insensitively as a substring against description,
	// vendor, receipt number and reference (logical OR).
	Search string

	// DateFrom/DateTo bound the transaction date inclusively.
	DateFrom *time.Time
	DateTo   *time.Time
}

// Page is a 1-based page window. Size <= 0 disables pagination (export).
type Page struct {
	Number int
	Size   int
}

// Offset returns the number of rows to skip. Page numbers below 1 clamp to 1.
func (p Page) Offset() int {
	n := p.Number
	if n < 1 {
		n = 1
	}
	if p.Size <= 0 {
		return 0
	}
	return (n - 1) * p.Size
}

// Store is the document-store port. Results of List are ordered by
// transaction date descending, then creation time descending, then id
// descending, so repeated queries return identical pages.
type Store interface {
	List(ctx context.Context, q Query, page Page) ([]core.FinancialRecord, error)
	Count(ctx context.Context, q Query) (int64, error)
	Summarize(ctx context.Context, q Query) ([]core.TypeTotal, error)

	Get(ctx context.Context, id, orgID string) (*core.FinancialRecord, error)
	Insert(ctx context.Context, rec core.FinancialRecord) (string, error)
	InsertMany(ctx context.Context, recs []core.FinancialRecord) ([]string, error)
	// Update replaces all user-editable fields of the record matching id
	// (and orgID when non-empty). Returns ErrNotFound when nothing matched.
	Update(ctx context.Context, id, orgID string, rec core.FinancialRecord) error
	// DeleteMany removes the given ids within scope and returns the ids of
	// the rows actually deleted; missing ids are not an error.
	DeleteMany(ctx context.Context, ids []string, orgID string) ([]string, error)

	// NormalizeLegacyTypes rewrites legacy PURCHASE rows to EXPENSE and
	// returns the number of rows changed.
	NormalizeLegacyTypes(ctx context.Context) (int64, error)

	Close() error
}

// Matches reports whether a record satisfies the query. It is the reference
// predicate semantics; the in-memory store uses it directly and the SQL and
// Mongo translations are tested against it.
func (q Query) Matches(r core.FinancialRecord) bool {
	if q.OrgID != "" && r.OrganizationID != q.OrgID {
		return false
	}
	if q.Type != "" && r.Type.Normalize() != q.Type.Normalize() {
		return false
	}
	if q.Category != "" && r.Category != q.Category {
		return false
	}
	if q.DateFrom != nil && r.TransactionDate.Before(*q.DateFrom) {
		return false
	}
	if q.DateTo != nil && r.TransactionDate.After(*q.DateTo) {
		return false
	}
	if q.Search != "" && !matchesSearch(r, q.Search) {
		return false
	}
	return true
}
