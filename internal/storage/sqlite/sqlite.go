// Package sqlite implements the record store on SQLite via database/sql and
// the modernc.org driver. Query predicates are translated into a WHERE
// clause that mirrors storage.Query.Matches exactly.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/Abdulquadri-Mahmud/ADRMS/internal/core"
	"github.com/Abdulquadri-Mahmud/ADRMS/internal/storage"
)

const dateLayout = "2006-01-02"

type Store struct {
	db *sql.DB
}

var _ storage.Store = (*Store)(nil)

func New(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SeedOrganization upserts an organization row for display joins.
func (s *Store) SeedOrganization(ctx context.Context, org core.Organization) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO organizations (id, name) VALUES (?, ?)
		 ON CONFLICT(id) DO UPDATE SET name = excluded.name`,
		org.ID, org.Name)
	if err != nil {
		return fmt.Errorf("seed organization: %w", err)
	}
	return nil
}

// whereClause translates the compiled query into SQL. The returned clause
// starts with WHERE, or is empty when the query has no constraints.
func whereClause(q storage.Query) (string, []any) {
	var conds []string
	var args []any

	if q.OrgID != "" {
		conds = append(conds, "r.organization_id = ?")
		args = append(args, q.OrgID)
	}
	switch q.Type.Normalize() {
	case core.Income:
		conds = append(conds, "r.type = 'INCOME'")
	case core.Expense:
		// Legacy PURCHASE rows are expenses that predate the migration.
		conds = append(conds, "r.type IN ('EXPENSE', 'PURCHASE')")
	}
	if q.Category != "" {
		conds = append(conds, "r.category = ?")
		args = append(args, q.Category)
	}
	if q.DateFrom != nil {
		conds = append(conds, "r.transaction_date >= ?")
		args = append(args, q.DateFrom.UTC().Format(dateLayout))
	}
	if q.DateTo != nil {
		conds = append(conds, "r.transaction_date <= ?")
		args = append(args, q.DateTo.UTC().Format(dateLayout))
	}
	if q.Search != "" {
		// instr avoids LIKE wildcard escaping; lower() gives the same
		// case-insensitive semantics as the reference predicate.
		conds = append(conds,
			`(instr(lower(r.description), ?) > 0
			 OR instr(lower(r.vendor), ?) > 0
			 OR instr(lower(r.receipt_no), ?) > 0
			 OR instr(lower(r.reference), ?) > 0)`)
		needle := strings.ToLower(q.Search)
		args = append(args, needle, needle, needle, needle)
	}

	if len(conds) == 0 {
		return "", nil
	}
	return "WHERE " + strings.Join(conds, " AND "), args
}

const recordColumns = `r.id, r.type, r.category, r.amount_cents, r.description,
	r.transaction_date, r.receipt_no, r.payment_method, r.vendor, r.reference,
	r.organization_id, r.admin_id, r.created_at_ns, r.updated_at_ns,
	COALESCE(o.name, '')`

const orderClause = "ORDER BY r.transaction_date DESC, r.created_at_ns DESC, r.id DESC"

func (s *Store) List(ctx context.Context, q storage.Query, page storage.Page) ([]core.FinancialRecord, error) {
	where, args := whereClause(q)
	query := fmt.Sprintf(
		`SELECT %s FROM financial_records r
		 LEFT JOIN organizations o ON o.id = r.organization_id
		 %s %s`, recordColumns, where, orderClause)
	if page.Size > 0 {
		query += " LIMIT ? OFFSET ?"
		args = append(args, page.Size, page.Offset())
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	defer rows.Close()

	recs := make([]core.FinancialRecord, 0)
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate records: %w", err)
	}
	return recs, nil
}

func (s *Store) Count(ctx context.Context, q storage.Query) (int64, error) {
	where, args := whereClause(q)
	var total int64
	err := s.db.QueryRowContext(ctx,
		fmt.Sprintf("SELECT COUNT(*) FROM financial_records r %s", where),
		args...).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("count records: %w", err)
	}
	return total, nil
}

func (s *Store) Summarize(ctx context.Context, q storage.Query) ([]core.TypeTotal, error) {
	where, args := whereClause(q)
	rows, err := s.db.QueryContext(ctx, fmt.Sprintf(
		`SELECT r.type, SUM(r.amount_cents), COUNT(*)
		 FROM financial_records r %s GROUP BY r.type`, where), args...)
	if err != nil {
		return nil, fmt.Errorf("summarize records: %w", err)
	}
	defer rows.Close()

	var totals []core.TypeTotal
	for rows.Next() {
		var t core.TypeTotal
		if err := rows.Scan(&t.Type, &t.TotalCents, &t.Count); err != nil {
			return nil, fmt.Errorf("scan summary row: %w", err)
		}
		totals = append(totals, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate summary rows: %w", err)
	}
	return totals, nil
}

func (s *Store) Get(ctx context.Context, id, orgID string) (*core.FinancialRecord, error) {
	query := fmt.Sprintf(
		`SELECT %s FROM financial_records r
		 LEFT JOIN organizations o ON o.id = r.organization_id
		 WHERE r.id = ?`, recordColumns)
	args := []any{id}
	if orgID != "" {
		query += " AND r.organization_id = ?"
		args = append(args, orgID)
	}

	row := s.db.QueryRowContext(ctx, query, args...)
	rec, err := scanRecord(row)
	if err == sql.ErrNoRows {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (s *Store) Insert(ctx context.Context, rec core.FinancialRecord) (string, error) {
	id, err := s.insert(ctx, s.db, rec)
	if err != nil {
		return "", err
	}
	slog.InfoContext(ctx, "Record saved to SQLite",
		"id", id,
		"type", rec.Type,
		"amount_cents", rec.Amount.Cents,
		"organization_id", rec.OrganizationID)
	return id, nil
}

func (s *Store) InsertMany(ctx context.Context, recs []core.FinancialRecord) ([]string, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	ids := make([]string, 0, len(recs))
	for _, rec := range recs {
		id, err := s.insert(ctx, tx, rec)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit batch insert: %w", err)
	}
	return ids, nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (s *Store) insert(ctx context.Context, db execer, rec core.FinancialRecord) (string, error) {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	_, err := db.ExecContext(ctx,
		`INSERT INTO financial_records
		 (id, type, category, amount_cents, description, transaction_date,
		  receipt_no, payment_method, vendor, reference,
		  organization_id, admin_id, created_at_ns, updated_at_ns)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, string(rec.Type), rec.Category, rec.Amount.Cents, rec.Description,
		rec.TransactionDate.UTC().Format(dateLayout),
		rec.ReceiptNo, rec.PaymentMethod, rec.Vendor, rec.Reference,
		rec.OrganizationID, rec.AdminID, now.UnixNano(), now.UnixNano())
	if err != nil {
		return "", fmt.Errorf("insert record: %w", err)
	}
	return rec.ID, nil
}

func (s *Store) Update(ctx context.Context, id, orgID string, rec core.FinancialRecord) error {
	query := `UPDATE financial_records SET
		 type = ?, category = ?, amount_cents = ?, description = ?,
		 transaction_date = ?, receipt_no = ?, payment_method = ?,
		 vendor = ?, reference = ?, updated_at_ns = ?
		 WHERE id = ?`
	args := []any{
		string(rec.Type), rec.Category, rec.Amount.Cents, rec.Description,
		rec.TransactionDate.UTC().Format(dateLayout),
		rec.ReceiptNo, rec.PaymentMethod, rec.Vendor, rec.Reference,
		time.Now().UTC().UnixNano(), id,
	}
	if orgID != "" {
		query += " AND organization_id = ?"
		args = append(args, orgID)
	}

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update record: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// DeleteMany resolves which of the given ids are actually in scope before
// deleting, in one transaction, so the returned ids match the rows removed.
func (s *Store) DeleteMany(ctx context.Context, ids []string, orgID string) ([]string, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(ids)), ", ")
	where := fmt.Sprintf("id IN (%s)", placeholders)
	args := make([]any, 0, len(ids)+1)
	for _, id := range ids {
		args = append(args, id)
	}
	if orgID != "" {
		where += " AND organization_id = ?"
		args = append(args, orgID)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin delete: %w", err)
	}
	defer tx.Rollback()

	rows, err := tx.QueryContext(ctx, "SELECT id FROM financial_records WHERE "+where, args...)
	if err != nil {
		return nil, fmt.Errorf("resolve records to delete: %w", err)
	}
	var deleted []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan record id: %w", err)
		}
		deleted = append(deleted, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("resolve records to delete: %w", err)
	}
	if len(deleted) == 0 {
		return nil, nil
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM financial_records WHERE "+where, args...); err != nil {
		return nil, fmt.Errorf("delete records: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit delete: %w", err)
	}
	return deleted, nil
}

func (s *Store) NormalizeLegacyTypes(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE financial_records SET type = 'EXPENSE' WHERE type = 'PURCHASE'`)
	if err != nil {
		return 0, fmt.Errorf("normalize legacy types: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	if n > 0 {
		slog.InfoContext(ctx, "Migrated legacy PURCHASE records", "count", n)
	}
	return n, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (core.FinancialRecord, error) {
	var (
		rec         core.FinancialRecord
		typ, txDate string
		createdNs   int64
		updatedNs   int64
	)
	err := row.Scan(&rec.ID, &typ, &rec.Category, &rec.Amount.Cents, &rec.Description,
		&txDate, &rec.ReceiptNo, &rec.PaymentMethod, &rec.Vendor, &rec.Reference,
		&rec.OrganizationID, &rec.AdminID, &createdNs, &updatedNs,
		&rec.OrganizationName)
	if err == sql.ErrNoRows {
		return rec, err
	}
	if err != nil {
		return rec, fmt.Errorf("scan record: %w", err)
	}

	rec.Type = core.RecordType(typ)
	rec.TransactionDate, err = time.ParseInLocation(dateLayout, txDate, time.UTC)
	if err != nil {
		return rec, fmt.Errorf("parse transaction date %q: %w", txDate, err)
	}
	rec.CreatedAt = time.Unix(0, createdNs).UTC()
	rec.UpdatedAt = time.Unix(0, updatedNs).UTC()
	return rec, nil
}
