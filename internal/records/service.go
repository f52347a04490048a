package records

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Abdulquadri-Mahmud/ADRMS/internal/core"
	"github.com/Abdulquadri-Mahmud/ADRMS/internal/scope"
	"github.com/Abdulquadri-Mahmud/ADRMS/internal/storage"
)

// ChangePublisher notifies downstream consumers (the spreadsheet mirror
// worker) about record mutations. A nil publisher disables notification;
// publish failures never fail the mutation itself.
type ChangePublisher interface {
	PublishRecordChange(ctx context.Context, action, recordID string) error
}

const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

// Result is the structured outcome of a mutating operation. No mutation
// path panics or leaks raw storage errors to the caller.
type Result struct {
	Success      bool        `json:"success"`
	Message      string      `json:"message"`
	Errors       FieldErrors `json:"errors,omitempty"`
	ID           string      `json:"id,omitempty"`
	DeletedCount int64       `json:"deletedCount,omitempty"`
}

// ListResult is one page of a filtered listing.
type ListResult struct {
	Records    []core.FinancialRecord `json:"records"`
	Total      int64                  `json:"total"`
	TotalPages int64                  `json:"totalPages"`
	Page       int                    `json:"page"`
}

type Service struct {
	store     storage.Store
	publisher ChangePublisher
	now       func() time.Time
}

func NewService(store storage.Store, publisher ChangePublisher) *Service {
	return &Service{store: store, publisher: publisher, now: time.Now}
}

// List returns one page of records matching the filter, ordered by
// transaction date then creation time, newest first. The page count and the
// page slice come from the same predicate, fetched concurrently the way the
// dashboard issued them.
func (s *Service) List(ctx context.Context, caller scope.Caller, f ListFilter, page int) (*ListResult, FieldErrors, error) {
	if !caller.CanQuery() {
		return nil, nil, scope.ErrUnauthorized
	}
	q, errs := CompileFilter(caller, f)
	if len(errs) > 0 {
		return nil, errs, nil
	}
	res, err := s.list(ctx, q, page)
	return res, nil, err
}

func (s *Service) list(ctx context.Context, q storage.Query, page int) (*ListResult, error) {
	if page < 1 {
		page = 1
	}

	var (
		recs  []core.FinancialRecord
		total int64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		recs, err = s.store.List(gctx, q, storage.Page{Number: page, Size: PageSize})
		return err
	})
	g.Go(func() error {
		var err error
		total, err = s.store.Count(gctx, q)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}

	return &ListResult{
		Records:    recs,
		Total:      total,
		TotalPages: (total + PageSize - 1) / PageSize,
		Page:       page,
	}, nil
}

// ListAll returns the complete filtered set without pagination, in listing
// order. Export runs on top of this so the spreadsheet always matches what
// the same filter shows on screen.
func (s *Service) ListAll(ctx context.Context, caller scope.Caller, f ListFilter) ([]core.FinancialRecord, FieldErrors, error) {
	if !caller.CanQuery() {
		return nil, nil, scope.ErrUnauthorized
	}
	q, errs := CompileFilter(caller, f)
	if len(errs) > 0 {
		return nil, errs, nil
	}
	recs, err := s.store.List(ctx, q, storage.Page{})
	if err != nil {
		return nil, nil, fmt.Errorf("list all records: %w", err)
	}
	return recs, nil, nil
}

// Summary aggregates the filtered window by record type into the dashboard
// figures. Sums are exact cents end to end.
func (s *Service) Summary(ctx context.Context, caller scope.Caller, f SummaryFilter) (core.Summary, FieldErrors, error) {
	if !caller.CanQuery() {
		return core.Summary{}, nil, scope.ErrUnauthorized
	}
	q, errs := CompileSummaryFilter(caller, f, s.now())
	if len(errs) > 0 {
		return core.Summary{}, errs, nil
	}
	totals, err := s.store.Summarize(ctx, q)
	if err != nil {
		return core.Summary{}, nil, fmt.Errorf("summarize records: %w", err)
	}
	return core.SummarizeTotals(totals), nil, nil
}

// Get returns a single record within the caller's scope.
func (s *Service) Get(ctx context.Context, caller scope.Caller, id string) (*core.FinancialRecord, error) {
	if !caller.CanQuery() {
		return nil, scope.ErrUnauthorized
	}
	return s.store.Get(ctx, id, caller.ScopeOrg(""))
}

// Create validates the form and persists a new record owned by the caller's
// organization.
func (s *Service) Create(ctx context.Context, caller scope.Caller, form RecordForm) Result {
	if !caller.CanMutate() {
		return Result{Success: false, Message: "Unauthorized"}
	}

	rec, errs := form.Validate()
	if len(errs) > 0 {
		return Result{Success: false, Message: "Validation failed", Errors: errs}
	}
	rec.OrganizationID = caller.OrganizationID
	rec.AdminID = caller.AdminID

	id, err := s.store.Insert(ctx, rec)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to create record", "error", err,
			"organization_id", caller.OrganizationID)
		return Result{Success: false, Message: "Failed to create financial record"}
	}

	s.publish(ctx, ActionCreated, id)
	return Result{Success: true, Message: "Financial record created successfully", ID: id}
}

// CreateMany validates every form before anything is written; one invalid
// entry rejects the whole batch.
func (s *Service) CreateMany(ctx context.Context, caller scope.Caller, forms []RecordForm) Result {
	if !caller.CanMutate() {
		return Result{Success: false, Message: "Unauthorized"}
	}
	if len(forms) == 0 {
		return Result{Success: false, Message: "No data provided"}
	}

	recs := make([]core.FinancialRecord, 0, len(forms))
	for i, form := range forms {
		rec, errs := form.Validate()
		if len(errs) > 0 {
			return Result{
				Success: false,
				Message: fmt.Sprintf("Validation failed for record %d", i+1),
				Errors:  errs,
			}
		}
		rec.OrganizationID = caller.OrganizationID
		rec.AdminID = caller.AdminID
		recs = append(recs, rec)
	}

	ids, err := s.store.InsertMany(ctx, recs)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to create records", "error", err,
			"count", len(recs), "organization_id", caller.OrganizationID)
		return Result{Success: false, Message: "Failed to create records"}
	}

	for _, id := range ids {
		s.publish(ctx, ActionCreated, id)
	}
	return Result{Success: true, Message: fmt.Sprintf("%d record(s) created successfully", len(ids))}
}

// Update replaces every user-editable field of the record. A standard admin
// can only reach records of their own organization; an id outside that
// scope, or one that does not exist, fails.
func (s *Service) Update(ctx context.Context, caller scope.Caller, id string, form RecordForm) Result {
	if !caller.CanMutate() {
		return Result{Success: false, Message: "Unauthorized"}
	}

	rec, errs := form.Validate()
	if len(errs) > 0 {
		return Result{Success: false, Message: "Validation failed", Errors: errs}
	}

	err := s.store.Update(ctx, id, caller.ScopeOrg(""), rec)
	if err == storage.ErrNotFound {
		return Result{Success: false, Message: "Record not found"}
	}
	if err != nil {
		slog.ErrorContext(ctx, "Failed to update record", "error", err, "id", id)
		return Result{Success: false, Message: "Failed to update financial record"}
	}

	s.publish(ctx, ActionUpdated, id)
	return Result{Success: true, Message: "Financial record updated successfully", ID: id}
}

// BatchDelete removes the given records within the caller's scope. Missing
// or out-of-scope ids are skipped; the count reflects actual deletions.
func (s *Service) BatchDelete(ctx context.Context, caller scope.Caller, ids []string) Result {
	if !caller.CanMutate() {
		return Result{Success: false, Message: "Unauthorized"}
	}

	deleted, err := s.store.DeleteMany(ctx, ids, caller.ScopeOrg(""))
	if err != nil {
		slog.ErrorContext(ctx, "Failed to delete records", "error", err, "ids", ids)
		return Result{Success: false, Message: "Failed to delete records"}
	}

	// Notify only for rows that actually existed in scope: ids that were
	// missing or foreign never trigger downstream work.
	for _, id := range deleted {
		s.publish(ctx, ActionDeleted, id)
	}
	return Result{
		Success:      true,
		Message:      fmt.Sprintf("%d record(s) deleted successfully", len(deleted)),
		DeletedCount: int64(len(deleted)),
	}
}

func (s *Service) publish(ctx context.Context, action, id string) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishRecordChange(ctx, action, id); err != nil {
		slog.ErrorContext(ctx, "Failed to publish record change",
			"error", err, "action", action, "id", id)
	}
}
