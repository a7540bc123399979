// Package service contains the business logic for the fuel logbook.
// Services validate inputs, enforce business rules, and orchestrate repo calls.
// No SQL lives here; services depend on repo interfaces, not implementations.
package service

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/pkordes/fuel-logbook/internal/domain"
	"github.com/pkordes/fuel-logbook/internal/repo"
)

// RecordService implements business logic for trip records.
type RecordService struct {
	repo     repo.RecordRepo
	validate *validator.Validate
}

// NewRecordService constructs a RecordService backed by the provided RecordRepo.
func NewRecordService(r repo.RecordRepo) *RecordService {
	v := validator.New()

	// Report fields by their JSON names so messages match the API.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &RecordService{repo: r, validate: v}
}

// Create validates a record, derives its fuel consumption and persists it.
// The consumption is computed here once and stored; exporters read it as-is.
func (s *RecordService) Create(ctx context.Context, rec domain.TripRecord) (domain.TripRecord, error) {
	if err := s.check(rec); err != nil {
		return domain.TripRecord{}, fmt.Errorf("service.RecordService.Create: %w", err)
	}
	if rec.EndKm < rec.StartKm {
		return domain.TripRecord{}, fmt.Errorf("service.RecordService.Create: %w: end_km must not be less than start_km", domain.ErrValidation)
	}

	rec = prepare(rec)
	rec.FuelConsumption = consumptionOf(rec.Fuel)

	created, err := s.repo.Create(ctx, rec)
	if err != nil {
		return domain.TripRecord{}, fmt.Errorf("service.RecordService.Create: %w", err)
	}
	return created, nil
}

// GetByID returns a single record by ID.
func (s *RecordService) GetByID(ctx context.Context, id uuid.UUID) (domain.TripRecord, error) {
	rec, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.TripRecord{}, fmt.Errorf("service.RecordService.GetByID: %w", err)
	}
	return rec, nil
}

// List returns every record matching the filter in entry order.
func (s *RecordService) List(ctx context.Context, f domain.RecordFilter) ([]domain.TripRecord, error) {
	records, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("service.RecordService.List: %w", err)
	}
	return records, nil
}

// ListPaged returns one page of matching records plus the total match count.
func (s *RecordService) ListPaged(ctx context.Context, f domain.RecordFilter, p domain.PaginationParams) ([]domain.TripRecord, int64, error) {
	records, total, err := s.repo.ListPaged(ctx, f, p)
	if err != nil {
		return nil, 0, fmt.Errorf("service.RecordService.ListPaged: %w", err)
	}
	return records, total, nil
}

// Delete removes a record by ID.
func (s *RecordService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("service.RecordService.Delete: %w", err)
	}
	return nil
}

// NextDefaults returns the values a new entry starts from: the odometer
// continues at the last trip's end km, and its reason and driver carry over.
// An empty log yields zero defaults.
func (s *RecordService) NextDefaults(ctx context.Context) (domain.NextDefaults, error) {
	last, err := s.repo.Last(ctx)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.NextDefaults{}, nil
	}
	if err != nil {
		return domain.NextDefaults{}, fmt.Errorf("service.RecordService.NextDefaults: %w", err)
	}
	return domain.NextDefaults{
		StartKm: last.EndKm,
		Reason:  last.Reason,
		User:    last.User,
	}, nil
}

// Import bulk-loads a backup from the browser version of the logbook.
// Every entry is validated before anything is written and the entries are
// stored in one batch, so a bad backup is rejected as a whole. Entries keep
// their backup order. The browser form never compared odometer readings, so
// a backup entry whose end_km is below its start_km is imported as-is.
func (s *RecordService) Import(ctx context.Context, legacy []domain.LegacyRecord) ([]domain.TripRecord, error) {
	if len(legacy) == 0 {
		return nil, fmt.Errorf("service.RecordService.Import: %w: no records to import", domain.ErrValidation)
	}

	records := make([]domain.TripRecord, len(legacy))
	for i, l := range legacy {
		rec := l.ToTripRecord()
		if err := s.check(rec); err != nil {
			return nil, fmt.Errorf("service.RecordService.Import: record %d: %w", i+1, err)
		}
		rec = prepare(rec)
		if rec.FuelConsumption == nil {
			rec.FuelConsumption = consumptionOf(rec.Fuel)
		}
		records[i] = rec
	}

	created, err := s.repo.CreateBatch(ctx, records)
	if err != nil {
		return nil, fmt.Errorf("service.RecordService.Import: %w", err)
	}
	return created, nil
}

// check enforces the field rules shared by new entries and imported ones.
// The returned error wraps domain.ErrValidation.
func (s *RecordService) check(rec domain.TripRecord) error {
	rec.Date = strings.TrimSpace(rec.Date)
	rec.User = strings.TrimSpace(rec.User)
	if err := s.validate.Struct(rec); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return fmt.Errorf("%w: %s", domain.ErrValidation, formatValidationError(verrs[0]))
		}
		return fmt.Errorf("%w: %s", domain.ErrValidation, err.Error())
	}
	return nil
}

// formatValidationError turns one validator failure into a short message
// naming the field by its JSON path (e.g. "fuel.liters").
func formatValidationError(fe validator.FieldError) string {
	field := fe.Namespace()
	if i := strings.IndexByte(field, '.'); i >= 0 {
		field = field[i+1:]
	}

	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "datetime":
		return field + " must be a date in YYYY-MM-DD format"
	case "gte":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
	}
}

// prepare normalizes a validated record before it is stored.
func prepare(rec domain.TripRecord) domain.TripRecord {
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	rec.Date = strings.TrimSpace(rec.Date)
	rec.User = strings.TrimSpace(rec.User)
	if rec.Fuel != nil && *rec.Fuel == (domain.Refuel{}) {
		rec.Fuel = nil
	}
	return rec
}

func consumptionOf(f *domain.Refuel) *float64 {
	if f == nil {
		return nil
	}
	c, ok := domain.FuelConsumption(f.LastKm, f.CurrentKm, f.Liters)
	if !ok {
		return nil
	}
	return &c
}
