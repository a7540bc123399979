package service_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/pkordes/fuel-logbook/internal/domain"
	"github.com/pkordes/fuel-logbook/internal/repo"
)

// mockRecordRepo is a hand-written test double for repo.RecordRepo.
// Each method is a function field; set only the ones your test needs.
type mockRecordRepo struct {
	create      func(ctx context.Context, rec domain.TripRecord) (domain.TripRecord, error)
	createBatch func(ctx context.Context, recs []domain.TripRecord) ([]domain.TripRecord, error)
	getByID     func(ctx context.Context, id uuid.UUID) (domain.TripRecord, error)
	list        func(ctx context.Context, f domain.RecordFilter) ([]domain.TripRecord, error)
	listPaged   func(ctx context.Context, f domain.RecordFilter, p domain.PaginationParams) ([]domain.TripRecord, int64, error)
	last        func(ctx context.Context) (domain.TripRecord, error)
	delete      func(ctx context.Context, id uuid.UUID) error
}

func (m *mockRecordRepo) Create(ctx context.Context, rec domain.TripRecord) (domain.TripRecord, error) {
	return m.create(ctx, rec)
}
func (m *mockRecordRepo) CreateBatch(ctx context.Context, recs []domain.TripRecord) ([]domain.TripRecord, error) {
	return m.createBatch(ctx, recs)
}
func (m *mockRecordRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.TripRecord, error) {
	return m.getByID(ctx, id)
}
func (m *mockRecordRepo) List(ctx context.Context, f domain.RecordFilter) ([]domain.TripRecord, error) {
	return m.list(ctx, f)
}
func (m *mockRecordRepo) ListPaged(ctx context.Context, f domain.RecordFilter, p domain.PaginationParams) ([]domain.TripRecord, int64, error) {
	return m.listPaged(ctx, f, p)
}
func (m *mockRecordRepo) Last(ctx context.Context) (domain.TripRecord, error) {
	return m.last(ctx)
}
func (m *mockRecordRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.delete(ctx, id)
}

// compile-time check: mockRecordRepo must satisfy repo.RecordRepo.
var _ repo.RecordRepo = (*mockRecordRepo)(nil)

// echoRepo returns a repo whose Create hands back whatever it receives.
func echoRepo() *mockRecordRepo {
	return &mockRecordRepo{
		create:      func(_ context.Context, r domain.TripRecord) (domain.TripRecord, error) { return r, nil },
		createBatch: func(_ context.Context, rs []domain.TripRecord) ([]domain.TripRecord, error) { return rs, nil },
	}
}

func record(date, user, dest string, startKm, endKm float64) domain.TripRecord {
	return domain.TripRecord{
		ID:          uuid.New(),
		Date:        date,
		Destination: dest,
		Reason:      "公務",
		User:        user,
		StartKm:     startKm,
		EndKm:       endKm,
	}
}

func withFuel(r domain.TripRecord, lastKm, currentKm, liters float64) domain.TripRecord {
	r.Fuel = &domain.Refuel{LastKm: lastKm, CurrentKm: currentKm, Liters: liters}
	if c, ok := domain.FuelConsumption(lastKm, currentKm, liters); ok {
		r.FuelConsumption = &c
	}
	return r
}

// templateBytes builds a minimal one-sheet workbook standing in for a template.
func templateBytes(t *testing.T) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	require.NoError(t, f.SetCellValue("Sheet1", "A1", "template"))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

// cell reads one cell of the first sheet of a serialized workbook.
func cell(t *testing.T, data []byte, name string) string {
	t.Helper()
	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()
	v, err := f.GetCellValue(f.GetSheetList()[0], name, excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	return v
}
