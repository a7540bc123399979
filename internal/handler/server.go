// Package handler implements the HTTP handlers for the fuel logbook API.
// All handlers are methods on Server. Methods are split into domain-specific
// files (health.go, record.go, export.go) but share the same Server struct so
// they can access its dependencies.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/pkordes/fuel-logbook/internal/domain"
	"github.com/pkordes/fuel-logbook/internal/service"
)

// RecordServicer defines the business operations the record handlers depend on.
// Defining the interface here (in the consumer package) follows the Go
// convention: "accept interfaces, return concrete types". It lets handler
// tests inject a mock without touching the database or service layer.
type RecordServicer interface {
	Create(ctx context.Context, rec domain.TripRecord) (domain.TripRecord, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.TripRecord, error)
	ListPaged(ctx context.Context, f domain.RecordFilter, p domain.PaginationParams) ([]domain.TripRecord, int64, error)
	Delete(ctx context.Context, id uuid.UUID) error
	NextDefaults(ctx context.Context) (domain.NextDefaults, error)
	Import(ctx context.Context, legacy []domain.LegacyRecord) ([]domain.TripRecord, error)
}

// Exporter defines the export operations the export handlers depend on.
type Exporter interface {
	Dispatch(ctx context.Context, f domain.RecordFilter, sink service.DocumentSink) (int, error)
	FuelLog(ctx context.Context, f domain.RecordFilter, sink service.DocumentSink) (int, error)
}

// Server holds the dependencies of every endpoint.
type Server struct {
	records RecordServicer
	exports Exporter
	metrics http.Handler
	logger  *slog.Logger
}

// Option customizes a Server.
type Option func(*Server)

// WithMetrics serves h at GET /metrics.
func WithMetrics(h http.Handler) Option {
	return func(s *Server) { s.metrics = h }
}

// WithLogger sets the logger used for unexpected errors.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewServer constructs the Server with all its dependencies.
func NewServer(records RecordServicer, exports Exporter, opts ...Option) *Server {
	s := &Server{records: records, exports: exports, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewHealthHandler returns a Server for health-check-only use.
func NewHealthHandler() *Server {
	return NewServer(nil, nil)
}

// Routes returns the API router. Cross-cutting middleware (request IDs,
// logging, CORS, body limits) is applied by the caller.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/healthz", s.GetHealth)
	r.Get("/openapi.yaml", s.GetOpenAPI)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics)
	}

	r.Route("/records", func(r chi.Router) {
		r.Post("/", s.CreateRecord)
		r.Get("/", s.ListRecords)
		r.Get("/next", s.GetNextDefaults)
		r.Post("/import", s.ImportRecords)
		r.Get("/{id}", s.GetRecord)
		r.Delete("/{id}", s.DeleteRecord)
	})

	r.Route("/exports", func(r chi.Router) {
		r.Get("/dispatch", s.ExportDispatch)
		r.Get("/fuel-log", s.ExportFuelLog)
	})

	return r
}
