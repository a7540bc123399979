package repo_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/fuel-logbook/internal/domain"
	"github.com/pkordes/fuel-logbook/internal/repo"
	"github.com/pkordes/fuel-logbook/testutil"
)

// newTestRepo opens a transaction against the test database and returns a
// RecordRepo backed by that transaction. The transaction is rolled back when
// the test finishes, giving free per-test isolation.
//
// Requires TEST_DATABASE_URL; TestMain applies the migrations.
func newTestRepo(t *testing.T) repo.RecordRepo {
	t.Helper()
	pool := testutil.NewPool(t)

	tx, err := pool.Begin(context.Background())
	require.NoError(t, err, "begin transaction")

	t.Cleanup(func() {
		_ = tx.Rollback(context.Background())
	})

	return repo.NewRecordRepo(tx)
}

// recordFixture returns a fuel-bearing record with sensible defaults.
func recordFixture() domain.TripRecord {
	c := 10.0
	return domain.TripRecord{
		ID:              uuid.New(),
		Date:            "2026-02-15",
		Destination:     "市政府",
		Reason:          "公務",
		User:            "Lin",
		StartKm:         1000,
		EndKm:           1040,
		Fuel:            &domain.Refuel{LastKm: 700, CurrentKm: 1020, Liters: 32},
		FuelConsumption: &c,
	}
}

func TestRecordRepo_Create(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	input := recordFixture()
	got, err := r.Create(ctx, input)

	require.NoError(t, err)
	assert.Equal(t, input.ID, got.ID)
	assert.Equal(t, "2026-02-15", got.Date)
	assert.Equal(t, input.User, got.User)
	require.NotNil(t, got.Fuel)
	assert.Equal(t, *input.Fuel, *got.Fuel)
	require.NotNil(t, got.FuelConsumption)
	assert.Equal(t, 10.0, *got.FuelConsumption)
	assert.False(t, got.CreatedAt.IsZero(), "CreatedAt should be set by DB")
}

func TestRecordRepo_Create_NoFuel(t *testing.T) {
	r := newTestRepo(t)

	input := recordFixture()
	input.Fuel = nil
	input.FuelConsumption = nil

	got, err := r.Create(context.Background(), input)

	require.NoError(t, err)
	assert.Nil(t, got.Fuel)
	assert.Nil(t, got.FuelConsumption)
}

func TestRecordRepo_ListKeepsEntryOrderAndFilters(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	for _, date := range []string{"2026-02-20", "2026-02-10", "2026-03-01"} {
		rec := recordFixture()
		rec.ID = uuid.New()
		rec.Date = date
		_, err := r.Create(ctx, rec)
		require.NoError(t, err)
	}

	all, err := r.List(ctx, domain.RecordFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "2026-02-20", all[0].Date)
	assert.Equal(t, "2026-02-10", all[1].Date)

	feb, err := r.List(ctx, domain.RecordFilter{From: "2026-02-01", To: "2026-02-28"})
	require.NoError(t, err)
	assert.Len(t, feb, 2)

	page, total, err := r.ListPaged(ctx, domain.RecordFilter{}, domain.PaginationParams{Page: 2, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, page, 1)
	assert.Equal(t, "2026-03-01", page[0].Date)

	last, err := r.Last(ctx)
	require.NoError(t, err)
	assert.Equal(t, "2026-03-01", last.Date)
}

func TestRecordRepo_GetByID_NotFound(t *testing.T) {
	r := newTestRepo(t)

	_, err := r.GetByID(context.Background(), uuid.New())

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRecordRepo_Delete(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	created, err := r.Create(ctx, recordFixture())
	require.NoError(t, err)

	require.NoError(t, r.Delete(ctx, created.ID))
	assert.ErrorIs(t, r.Delete(ctx, created.ID), domain.ErrNotFound)
}

func TestRecordRepo_CreateBatch_AllOrNothing(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	first := recordFixture()
	dup := recordFixture()
	dup.ID = first.ID

	_, err := r.CreateBatch(ctx, []domain.TripRecord{first, dup})
	require.Error(t, err, "duplicate primary key")

	all, err := r.List(ctx, domain.RecordFilter{})
	require.NoError(t, err)
	assert.Empty(t, all, "the first insert is rolled back with the batch")

	second := recordFixture()
	got, err := r.CreateBatch(ctx, []domain.TripRecord{first, second})
	require.NoError(t, err)
	assert.Len(t, got, 2)
}
