package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/Abdulquadri-Mahmud/ADRMS/internal/core"
	"github.com/Abdulquadri-Mahmud/ADRMS/internal/export"
	"github.com/Abdulquadri-Mahmud/ADRMS/internal/log"
	"github.com/Abdulquadri-Mahmud/ADRMS/internal/records"
	"github.com/Abdulquadri-Mahmud/ADRMS/internal/scope"
	"github.com/Abdulquadri-Mahmud/ADRMS/internal/storage"
)

// callerFromRequest builds the caller identity from the gateway headers.
// Any role other than SUPER_ADMIN is treated as a standard admin, so a
// missing or mangled role header can never widen access.
func callerFromRequest(r *http.Request) scope.Caller {
	role := scope.RoleStandardAdmin
	if scope.Role(strings.TrimSpace(r.Header.Get("X-Role"))) == scope.RoleSuperAdmin {
		role = scope.RoleSuperAdmin
	}
	return scope.Caller{
		AdminID:        strings.TrimSpace(r.Header.Get("X-Admin-Id")),
		OrganizationID: strings.TrimSpace(r.Header.Get("X-Org-Id")),
		Role:           role,
	}
}

func listFilterFromQuery(r *http.Request) records.ListFilter {
	q := r.URL.Query()
	return records.ListFilter{
		Query:    strings.TrimSpace(q.Get("query")),
		Type:     strings.TrimSpace(q.Get("type")),
		Category: strings.TrimSpace(q.Get("category")),
		DateFrom: strings.TrimSpace(q.Get("dateFrom")),
		DateTo:   strings.TrimSpace(q.Get("dateTo")),
		OrgID:    strings.TrimSpace(q.Get("organizationId")),
	}
}

func (s *Server) handleListRecords(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))

	res, errs, err := s.svc.List(r.Context(), callerFromRequest(r), listFilterFromQuery(r), page)
	if errors.Is(err, scope.ErrUnauthorized) {
		writeJSON(w, http.StatusUnauthorized, records.Result{Success: false, Message: "Unauthorized"})
		return
	}
	if len(errs) > 0 {
		writeJSON(w, http.StatusUnprocessableEntity, records.Result{
			Success: false, Message: "Validation failed", Errors: errs,
		})
		return
	}
	if err != nil {
		s.internalError(w, r, "Failed to fetch financial records", err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	month, _ := strconv.Atoi(q.Get("month"))
	year, _ := strconv.Atoi(q.Get("year"))

	summary, errs, err := s.svc.Summary(r.Context(), callerFromRequest(r), records.SummaryFilter{
		Month: month,
		Year:  year,
		OrgID: strings.TrimSpace(q.Get("organizationId")),
	})
	if errors.Is(err, scope.ErrUnauthorized) {
		writeJSON(w, http.StatusUnauthorized, records.Result{Success: false, Message: "Unauthorized"})
		return
	}
	if len(errs) > 0 {
		writeJSON(w, http.StatusUnprocessableEntity, records.Result{
			Success: false, Message: "Validation failed", Errors: errs,
		})
		return
	}
	if err != nil {
		s.internalError(w, r, "Failed to fetch summary", err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (s *Server) handleGetRecord(w http.ResponseWriter, r *http.Request) {
	rec, err := s.svc.Get(r.Context(), callerFromRequest(r), r.PathValue("id"))
	if errors.Is(err, scope.ErrUnauthorized) {
		writeJSON(w, http.StatusUnauthorized, records.Result{Success: false, Message: "Unauthorized"})
		return
	}
	if errors.Is(err, storage.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, records.Result{Success: false, Message: "Record not found"})
		return
	}
	if err != nil {
		s.internalError(w, r, "Failed to fetch financial record", err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleCreateRecord(w http.ResponseWriter, r *http.Request) {
	var form records.RecordForm
	if !decodeBody(w, r, &form) {
		return
	}
	s.writeResult(w, s.svc.Create(r.Context(), callerFromRequest(r), form), http.StatusCreated)
}

func (s *Server) handleCreateRecords(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Records []records.RecordForm `json:"records"`
	}
	if !decodeBody(w, r, &body) {
		return
	}
	s.writeResult(w, s.svc.CreateMany(r.Context(), callerFromRequest(r), body.Records), http.StatusCreated)
}

func (s *Server) handleUpdateRecord(w http.ResponseWriter, r *http.Request) {
	var form records.RecordForm
	if !decodeBody(w, r, &form) {
		return
	}
	s.writeResult(w, s.svc.Update(r.Context(), callerFromRequest(r), r.PathValue("id"), form), http.StatusOK)
}

func (s *Server) handleDeleteRecords(w http.ResponseWriter, r *http.Request) {
	var body struct {
		IDs []string `json:"ids"`
	}
	if !decodeBody(w, r, &body) {
		return
	}
	s.writeResult(w, s.svc.BatchDelete(r.Context(), callerFromRequest(r), body.IDs), http.StatusOK)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	table, errs, err := s.assembleExport(r, exportColumnsFromQuery(r))
	if errors.Is(err, scope.ErrUnauthorized) {
		writeJSON(w, http.StatusUnauthorized, records.Result{Success: false, Message: "Unauthorized"})
		return
	}
	if len(errs) > 0 {
		writeJSON(w, http.StatusUnprocessableEntity, records.Result{
			Success: false, Message: "Validation failed", Errors: errs,
		})
		return
	}
	if err != nil {
		var colErr *unknownColumnError
		if errors.As(err, &colErr) {
			writeJSON(w, http.StatusBadRequest, records.Result{Success: false, Message: colErr.Error()})
			return
		}
		s.internalError(w, r, "Failed to export records", err)
		return
	}
	writeJSON(w, http.StatusOK, table)
}

func (s *Server) handleExportToSheet(w http.ResponseWriter, r *http.Request) {
	if s.sheetWriter == nil {
		writeJSON(w, http.StatusServiceUnavailable, records.Result{
			Success: false, Message: "Spreadsheet export is not configured",
		})
		return
	}

	var body struct {
		records.ListFilter
		Columns []string `json:"columns"`
	}
	if !decodeBody(w, r, &body) {
		return
	}

	table, errs, err := s.assembleExportFor(r, body.ListFilter, body.Columns)
	if errors.Is(err, scope.ErrUnauthorized) {
		writeJSON(w, http.StatusUnauthorized, records.Result{Success: false, Message: "Unauthorized"})
		return
	}
	if len(errs) > 0 {
		writeJSON(w, http.StatusUnprocessableEntity, records.Result{
			Success: false, Message: "Validation failed", Errors: errs,
		})
		return
	}
	if err != nil {
		var colErr *unknownColumnError
		if errors.As(err, &colErr) {
			writeJSON(w, http.StatusBadRequest, records.Result{Success: false, Message: colErr.Error()})
			return
		}
		s.internalError(w, r, "Failed to export records", err)
		return
	}

	if err := export.Write(r.Context(), s.sheetWriter, table); err != nil {
		s.internalError(w, r, "Failed to write export to spreadsheet", err)
		return
	}
	writeJSON(w, http.StatusOK, records.Result{Success: true, Message: "Records exported to spreadsheet"})
}

func (s *Server) handleCategories(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"incomeCategories":  core.IncomeCategories,
		"expenseCategories": core.ExpenseCategories,
		"paymentMethods":    core.PaymentMethods,
		"fundTypes":         core.FundTypes,
	})
}

type unknownColumnError struct{ err error }

func (e *unknownColumnError) Error() string { return e.err.Error() }
func (e *unknownColumnError) Unwrap() error { return e.err }

func exportColumnsFromQuery(r *http.Request) []string {
	raw := strings.TrimSpace(r.URL.Query().Get("columns"))
	if raw == "" {
		return nil
	}
	var cols []string
	for _, c := range strings.Split(raw, ",") {
		if c = strings.TrimSpace(c); c != "" {
			cols = append(cols, c)
		}
	}
	return cols
}

func (s *Server) assembleExport(r *http.Request, columns []string) (*export.Table, records.FieldErrors, error) {
	return s.assembleExportFor(r, listFilterFromQuery(r), columns)
}

// assembleExportFor fetches the complete filtered set and assembles it, so
// a fetch failure never yields a partial table.
func (s *Server) assembleExportFor(r *http.Request, f records.ListFilter, columns []string) (*export.Table, records.FieldErrors, error) {
	recs, errs, err := s.svc.ListAll(r.Context(), callerFromRequest(r), f)
	if len(errs) > 0 || err != nil {
		return nil, errs, err
	}
	table, err := export.Assemble(recs, columns)
	if err != nil {
		return nil, nil, &unknownColumnError{err: err}
	}
	return table, nil, nil
}

// writeResult maps a service result onto an HTTP status. The service never
// leaks raw storage errors, so the mapping goes by outcome shape.
func (s *Server) writeResult(w http.ResponseWriter, res records.Result, successStatus int) {
	status := successStatus
	switch {
	case res.Success:
	case len(res.Errors) > 0:
		status = http.StatusUnprocessableEntity
	case res.Message == "Unauthorized":
		status = http.StatusUnauthorized
	case res.Message == "Record not found":
		status = http.StatusNotFound
	case strings.HasPrefix(res.Message, "Validation failed") || res.Message == "No data provided":
		status = http.StatusUnprocessableEntity
	default:
		status = http.StatusInternalServerError
	}
	writeJSON(w, status, res)
}

func (s *Server) internalError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	log.FromContext(r.Context()).ErrorContext(r.Context(), msg, "error", err, "path", r.URL.Path)
	writeJSON(w, http.StatusInternalServerError, records.Result{Success: false, Message: msg})
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, records.Result{Success: false, Message: "Invalid request body"})
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
