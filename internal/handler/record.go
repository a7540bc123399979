package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/google/uuid"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/pkordes/fuel-logbook/internal/domain"
)

// createRecordRequest is the body of POST /records.
// The date is decoded strictly as YYYY-MM-DD.
type createRecordRequest struct {
	Date        openapi_types.Date `json:"date"`
	Destination string             `json:"destination"`
	Reason      string             `json:"reason"`
	User        string             `json:"user"`
	StartKm     float64            `json:"start_km"`
	EndKm       float64            `json:"end_km"`
	Fuel        *domain.Refuel     `json:"fuel,omitempty"`
}

// Pagination describes the page returned by a list endpoint.
type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
}

// recordListResponse is the body of GET /records.
type recordListResponse struct {
	Data       []domain.TripRecord `json:"data"`
	Pagination Pagination          `json:"pagination"`
}

// importResponse is the body of POST /records/import.
type importResponse struct {
	Imported int `json:"imported"`
}

// CreateRecord handles POST /records.
func (s *Server) CreateRecord(w http.ResponseWriter, r *http.Request) {
	var req createRecordRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		decodeFailed(w, r, err)
		return
	}
	rec, err := requestToRecord(req)
	if err != nil {
		badRequest(w, r, err.Error())
		return
	}

	created, err := s.records.Create(r.Context(), rec)
	if err != nil {
		s.serviceError(w, r, err, "record not found")
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, created)
}

// ListRecords handles GET /records.
// Supports ?page= and ?limit= (defaults: page=1, limit=20, max=100) and the
// inclusive ?from= / ?to= date bounds.
func (s *Server) ListRecords(w http.ResponseWriter, r *http.Request) {
	page, err := intParam(r, "page")
	if err != nil {
		badRequest(w, r, err.Error())
		return
	}
	limit, err := intParam(r, "limit")
	if err != nil {
		badRequest(w, r, err.Error())
		return
	}
	filter, err := filterParams(r)
	if err != nil {
		badRequest(w, r, err.Error())
		return
	}

	params := domain.NewPaginationParams(page, limit)
	records, total, err := s.records.ListPaged(r.Context(), filter, params)
	if err != nil {
		s.serviceError(w, r, err, "record not found")
		return
	}
	if records == nil {
		records = []domain.TripRecord{}
	}

	render.JSON(w, r, recordListResponse{
		Data: records,
		Pagination: Pagination{
			Page:  params.Page,
			Limit: params.Limit,
			Total: total,
		},
	})
}

// GetNextDefaults handles GET /records/next.
func (s *Server) GetNextDefaults(w http.ResponseWriter, r *http.Request) {
	next, err := s.records.NextDefaults(r.Context())
	if err != nil {
		s.serviceError(w, r, err, "record not found")
		return
	}
	render.JSON(w, r, next)
}

// ImportRecords handles POST /records/import.
// The body is the JSON array produced by the browser logbook's backup.
func (s *Server) ImportRecords(w http.ResponseWriter, r *http.Request) {
	var legacy []domain.LegacyRecord
	if err := render.DecodeJSON(r.Body, &legacy); err != nil {
		decodeFailed(w, r, err)
		return
	}

	created, err := s.records.Import(r.Context(), legacy)
	if err != nil {
		s.serviceError(w, r, err, "record not found")
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, importResponse{Imported: len(created)})
}

// GetRecord handles GET /records/{id}.
func (s *Server) GetRecord(w http.ResponseWriter, r *http.Request) {
	id, ok := recordID(w, r)
	if !ok {
		return
	}

	rec, err := s.records.GetByID(r.Context(), id)
	if err != nil {
		s.serviceError(w, r, err, "record not found")
		return
	}
	render.JSON(w, r, rec)
}

// DeleteRecord handles DELETE /records/{id}.
func (s *Server) DeleteRecord(w http.ResponseWriter, r *http.Request) {
	id, ok := recordID(w, r)
	if !ok {
		return
	}

	if err := s.records.Delete(r.Context(), id); err != nil {
		s.serviceError(w, r, err, "record not found")
		return
	}
	render.NoContent(w, r)
}

// requestToRecord converts the request body into a domain record.
// Only shape checks live here; business rules are the service's job.
func requestToRecord(req createRecordRequest) (domain.TripRecord, error) {
	if req.Date.IsZero() {
		return domain.TripRecord{}, errors.New("date is required")
	}
	return domain.TripRecord{
		Date:        req.Date.Format(openapi_types.DateFormat),
		Destination: req.Destination,
		Reason:      req.Reason,
		User:        req.User,
		StartKm:     req.StartKm,
		EndKm:       req.EndKm,
		Fuel:        req.Fuel,
	}, nil
}

// recordID parses the {id} URL parameter, writing a 404 when it is not a UUID.
func recordID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		notFound(w, r, "record not found")
		return uuid.Nil, false
	}
	return id, true
}

// intParam reads an optional positive integer query parameter.
func intParam(r *http.Request, name string) (*int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, fmt.Errorf("%s must be an integer", name)
	}
	return &v, nil
}

// filterParams reads the optional ?from= and ?to= date bounds.
func filterParams(r *http.Request) (domain.RecordFilter, error) {
	q := r.URL.Query()
	f := domain.RecordFilter{From: q.Get("from"), To: q.Get("to")}
	for name, v := range map[string]string{"from": f.From, "to": f.To} {
		if v == "" {
			continue
		}
		if _, err := time.Parse(openapi_types.DateFormat, v); err != nil {
			return domain.RecordFilter{}, fmt.Errorf("%s must be a date in YYYY-MM-DD format", name)
		}
	}
	return f, nil
}
