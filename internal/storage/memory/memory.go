// Package memory implements the record store in process memory. It is the
// default backend for local runs and the store the service tests run against.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Abdulquadri-Mahmud/ADRMS/internal/core"
	"github.com/Abdulquadri-Mahmud/ADRMS/internal/storage"
)

type Store struct {
	mu      sync.RWMutex
	records map[string]core.FinancialRecord
	orgs    map[string]core.Organization

	// now is swappable in tests so creation-time ordering is controllable.
	now func() time.Time
}

var _ storage.Store = (*Store)(nil)

func New() *Store {
	return &Store{
		records: make(map[string]core.FinancialRecord),
		orgs:    make(map[string]core.Organization),
		now:     time.Now,
	}
}

// SeedOrganization registers an organization for display joins.
func (s *Store) SeedOrganization(org core.Organization) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orgs[org.ID] = org
}

func (s *Store) matching(q storage.Query) []core.FinancialRecord {
	out := make([]core.FinancialRecord, 0)
	for _, r := range s.records {
		if q.Matches(r) {
			out = append(out, r)
		}
	}
	storage.SortRecords(out)
	return out
}

func (s *Store) List(_ context.Context, q storage.Query, page storage.Page) ([]core.FinancialRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	recs := s.matching(q)
	for i := range recs {
		if org, ok := s.orgs[recs[i].OrganizationID]; ok {
			recs[i].OrganizationName = org.Name
		}
	}
	if page.Size <= 0 {
		return recs, nil
	}
	off := page.Offset()
	if off >= len(recs) {
		return []core.FinancialRecord{}, nil
	}
	end := off + page.Size
	if end > len(recs) {
		end = len(recs)
	}
	return recs[off:end], nil
}

func (s *Store) Count(_ context.Context, q storage.Query) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.matching(q))), nil
}

func (s *Store) Summarize(_ context.Context, q storage.Query) ([]core.TypeTotal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	buckets := make(map[core.RecordType]*core.TypeTotal)
	for _, r := range s.records {
		if !q.Matches(r) {
			continue
		}
		b, ok := buckets[r.Type]
		if !ok {
			b = &core.TypeTotal{Type: r.Type}
			buckets[r.Type] = b
		}
		b.TotalCents += r.Amount.Cents
		b.Count++
	}
	out := make([]core.TypeTotal, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, *b)
	}
	return out, nil
}

func (s *Store) Get(_ context.Context, id, orgID string) (*core.FinancialRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.records[id]
	if !ok || (orgID != "" && r.OrganizationID != orgID) {
		return nil, storage.ErrNotFound
	}
	if org, ok := s.orgs[r.OrganizationID]; ok {
		r.OrganizationName = org.Name
	}
	return &r, nil
}

func (s *Store) Insert(_ context.Context, rec core.FinancialRecord) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.insertLocked(rec), nil
}

func (s *Store) InsertMany(_ context.Context, recs []core.FinancialRecord) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]string, 0, len(recs))
	for _, rec := range recs {
		ids = append(ids, s.insertLocked(rec))
	}
	return ids, nil
}

func (s *Store) insertLocked(rec core.FinancialRecord) string {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	now := s.now()
	rec.CreatedAt = now
	rec.UpdatedAt = now
	s.records[rec.ID] = rec
	return rec.ID
}

func (s *Store) Update(_ context.Context, id, orgID string, rec core.FinancialRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.records[id]
	if !ok || (orgID != "" && cur.OrganizationID != orgID) {
		return storage.ErrNotFound
	}

	cur.Type = rec.Type
	cur.Category = rec.Category
	cur.Amount = rec.Amount
	cur.Description = rec.Description
	cur.TransactionDate = rec.TransactionDate
	cur.ReceiptNo = rec.ReceiptNo
	cur.PaymentMethod = rec.PaymentMethod
	cur.Vendor = rec.Vendor
	cur.Reference = rec.Reference
	cur.UpdatedAt = s.now()
	s.records[id] = cur
	return nil
}

func (s *Store) DeleteMany(_ context.Context, ids []string, orgID string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var deleted []string
	for _, id := range ids {
		r, ok := s.records[id]
		if !ok {
			continue
		}
		if orgID != "" && r.OrganizationID != orgID {
			continue
		}
		delete(s.records, id)
		deleted = append(deleted, id)
	}
	return deleted, nil
}

func (s *Store) NormalizeLegacyTypes(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var changed int64
	for id, r := range s.records {
		if r.Type == core.Purchase {
			r.Type = core.Expense
			s.records[id] = r
			changed++
		}
	}
	return changed, nil
}

func (s *Store) Close() error { return nil }
