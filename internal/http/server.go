// Package http exposes the records dashboard API. Handlers translate
// requests into service calls and service results into JSON; scoping and
// validation live below in the records layer.
package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/Abdulquadri-Mahmud/ADRMS/internal/export"
	"github.com/Abdulquadri-Mahmud/ADRMS/internal/log"
	"github.com/Abdulquadri-Mahmud/ADRMS/internal/records"
)

type Server struct {
	http.Server
	svc          *records.Service
	sheetWriter  export.WorkbookWriter
	logger       *log.Logger
	shutdownOnce sync.Once
}

// NewServer configures routes and returns a ready-to-run http.Server. The
// sheet writer may be nil; the export-to-sheet endpoint then reports the
// mirror as unconfigured.
func NewServer(addr string, svc *records.Service, sheetWriter export.WorkbookWriter, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}

	mux := http.NewServeMux()
	s := &Server{
		Server: http.Server{
			Addr:              addr,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
		svc:         svc,
		sheetWriter: sheetWriter,
		logger:      logger.WithComponent(log.ComponentHTTP),
	}

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", handleReady)

	mux.HandleFunc("GET /api/records", s.withSecurityHeaders(s.handleListRecords))
	mux.HandleFunc("GET /api/records/summary", s.withSecurityHeaders(s.handleSummary))
	mux.HandleFunc("GET /api/records/export", s.withSecurityHeaders(s.handleExport))
	mux.HandleFunc("POST /api/records/export/sheet", s.withSecurityHeaders(s.handleExportToSheet))
	mux.HandleFunc("GET /api/records/{id}", s.withSecurityHeaders(s.handleGetRecord))
	mux.HandleFunc("POST /api/records", s.withSecurityHeaders(s.handleCreateRecord))
	mux.HandleFunc("POST /api/records/bulk", s.withSecurityHeaders(s.handleCreateRecords))
	mux.HandleFunc("POST /api/records/{id}/update", s.withSecurityHeaders(s.handleUpdateRecord))
	mux.HandleFunc("POST /api/records/delete", s.withSecurityHeaders(s.handleDeleteRecords))
	mux.HandleFunc("GET /api/categories", s.withSecurityHeaders(s.handleCategories))

	s.Handler = log.RequestMiddleware(logger)(mux)
	return s
}

// withSecurityHeaders adds the standard security headers to API responses.
func (s *Server) withSecurityHeaders(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "no-referrer")
		next(w, r)
	}
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		s.logger.InfoContext(ctx, "Shutting down HTTP server")
		err = s.Server.Shutdown(ctx)
	})
	return err
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ready"))
}
