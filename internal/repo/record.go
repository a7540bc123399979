// Package repo contains all persistence logic for the fuel logbook.
// RecordRepo has a Postgres implementation for the API server and an
// in-memory one for the offline CLI. No business logic lives here.
package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/pkordes/fuel-logbook/internal/domain"
)

// db is the minimal interface satisfied by *pgxpool.Pool, pgx.Conn, pgx.Tx
// and pgxmock pools. Integration tests pass a transaction that is rolled back
// after each test; Begin on a pgx.Tx opens a savepoint.
type db interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// RecordRepo defines the persistence operations for trip records.
// Listings always come back in entry order, which is the order exports use.
type RecordRepo interface {
	// Create inserts a record and returns it with created_at populated.
	Create(ctx context.Context, rec domain.TripRecord) (domain.TripRecord, error)

	// CreateBatch inserts records in order. Either all of them are stored or
	// none are.
	CreateBatch(ctx context.Context, recs []domain.TripRecord) ([]domain.TripRecord, error)

	// GetByID returns domain.ErrNotFound if no record has that ID.
	GetByID(ctx context.Context, id uuid.UUID) (domain.TripRecord, error)

	// List returns every record matching the filter in entry order.
	List(ctx context.Context, f domain.RecordFilter) ([]domain.TripRecord, error)

	// ListPaged returns one page of matching records plus the total match count.
	ListPaged(ctx context.Context, f domain.RecordFilter, p domain.PaginationParams) ([]domain.TripRecord, int64, error)

	// Last returns the most recently entered record, or domain.ErrNotFound
	// when the log is empty.
	Last(ctx context.Context) (domain.TripRecord, error)

	// Delete removes a record by ID. Returns domain.ErrNotFound if it does not exist.
	Delete(ctx context.Context, id uuid.UUID) error
}

// pgRecordRepo is the Postgres implementation of RecordRepo.
type pgRecordRepo struct {
	db db
}

// NewRecordRepo constructs a RecordRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx or a pgxmock pool.
func NewRecordRepo(db db) RecordRepo {
	return &pgRecordRepo{db: db}
}

const recordColumns = `id, to_char(trip_date, 'YYYY-MM-DD'), destination, reason, driver,
		start_km, end_km, last_fuel_km, current_fuel_km, fuel_liters, fuel_consumption, created_at`

// filterClause matches rows inside an optional inclusive date range.
const filterClause = `(CAST(@from AS date) IS NULL OR trip_date >= CAST(@from AS date))
		  AND (CAST(@to AS date) IS NULL OR trip_date <= CAST(@to AS date))`

func (r *pgRecordRepo) Create(ctx context.Context, rec domain.TripRecord) (domain.TripRecord, error) {
	const q = `
		INSERT INTO trip_records (id, trip_date, destination, reason, driver, start_km, end_km,
			last_fuel_km, current_fuel_km, fuel_liters, fuel_consumption)
		VALUES (@id, CAST(@trip_date AS date), @destination, @reason, @driver, @start_km, @end_km,
			@last_fuel_km, @current_fuel_km, @fuel_liters, @fuel_consumption)
		RETURNING ` + recordColumns

	args := pgx.NamedArgs{
		"id":               rec.ID,
		"trip_date":        rec.Date,
		"destination":      rec.Destination,
		"reason":           rec.Reason,
		"driver":           rec.User,
		"start_km":         rec.StartKm,
		"end_km":           rec.EndKm,
		"fuel_consumption": rec.FuelConsumption, // nil becomes NULL
	}
	if f := rec.Fuel; f != nil {
		args["last_fuel_km"] = nullable(f.LastKm)
		args["current_fuel_km"] = nullable(f.CurrentKm)
		args["fuel_liters"] = nullable(f.Liters)
	} else {
		args["last_fuel_km"] = nil
		args["current_fuel_km"] = nil
		args["fuel_liters"] = nil
	}

	result, err := scanRecord(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.TripRecord{}, fmt.Errorf("repo.RecordRepo.Create: %w", err)
	}
	return result, nil
}

func (r *pgRecordRepo) CreateBatch(ctx context.Context, recs []domain.TripRecord) ([]domain.TripRecord, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("repo.RecordRepo.CreateBatch: begin: %w", err)
	}

	inTx := &pgRecordRepo{db: tx}
	created := make([]domain.TripRecord, 0, len(recs))
	for _, rec := range recs {
		c, err := inTx.Create(ctx, rec)
		if err != nil {
			_ = tx.Rollback(ctx)
			return nil, fmt.Errorf("repo.RecordRepo.CreateBatch: %w", err)
		}
		created = append(created, c)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("repo.RecordRepo.CreateBatch: commit: %w", err)
	}
	return created, nil
}

func (r *pgRecordRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.TripRecord, error) {
	const q = `SELECT ` + recordColumns + ` FROM trip_records WHERE id = @id`

	result, err := scanRecord(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.TripRecord{}, fmt.Errorf("repo.RecordRepo.GetByID: %w", err)
	}
	return result, nil
}

func (r *pgRecordRepo) List(ctx context.Context, f domain.RecordFilter) ([]domain.TripRecord, error) {
	const q = `SELECT ` + recordColumns + `
		FROM trip_records
		WHERE ` + filterClause + `
		ORDER BY seq`

	recs, err := r.query(ctx, q, filterArgs(f))
	if err != nil {
		return nil, fmt.Errorf("repo.RecordRepo.List: %w", err)
	}
	return recs, nil
}

func (r *pgRecordRepo) ListPaged(ctx context.Context, f domain.RecordFilter, p domain.PaginationParams) ([]domain.TripRecord, int64, error) {
	const countQ = `SELECT count(*) FROM trip_records WHERE ` + filterClause
	const q = `SELECT ` + recordColumns + `
		FROM trip_records
		WHERE ` + filterClause + `
		ORDER BY seq
		LIMIT @limit OFFSET @offset`

	var total int64
	if err := r.db.QueryRow(ctx, countQ, filterArgs(f)).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("repo.RecordRepo.ListPaged: count: %w", err)
	}

	args := filterArgs(f)
	args["limit"] = p.Limit
	args["offset"] = p.Offset()
	recs, err := r.query(ctx, q, args)
	if err != nil {
		return nil, 0, fmt.Errorf("repo.RecordRepo.ListPaged: %w", err)
	}
	return recs, total, nil
}

func (r *pgRecordRepo) Last(ctx context.Context) (domain.TripRecord, error) {
	const q = `SELECT ` + recordColumns + ` FROM trip_records ORDER BY seq DESC LIMIT 1`

	result, err := scanRecord(r.db.QueryRow(ctx, q))
	if err != nil {
		return domain.TripRecord{}, fmt.Errorf("repo.RecordRepo.Last: %w", err)
	}
	return result, nil
}

func (r *pgRecordRepo) Delete(ctx context.Context, id uuid.UUID) error {
	const q = `DELETE FROM trip_records WHERE id = @id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("repo.RecordRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.RecordRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

func (r *pgRecordRepo) query(ctx context.Context, q string, args pgx.NamedArgs) ([]domain.TripRecord, error) {
	rows, err := r.db.Query(ctx, q, args)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recs []domain.TripRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		recs = append(recs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return recs, nil
}

// scanner is satisfied by both pgx.Row and pgx.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// scanRecord maps one row into a domain.TripRecord. The fuel triple is
// rebuilt when any of its columns is non-NULL.
func scanRecord(s scanner) (domain.TripRecord, error) {
	var (
		rec                           domain.TripRecord
		lastKm, currentKm, fuelLiters *float64
	)
	err := s.Scan(&rec.ID, &rec.Date, &rec.Destination, &rec.Reason, &rec.User,
		&rec.StartKm, &rec.EndKm, &lastKm, &currentKm, &fuelLiters, &rec.FuelConsumption, &rec.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.TripRecord{}, domain.ErrNotFound
		}
		return domain.TripRecord{}, err
	}

	if lastKm != nil || currentKm != nil || fuelLiters != nil {
		rec.Fuel = &domain.Refuel{
			LastKm:    derefFloat(lastKm),
			CurrentKm: derefFloat(currentKm),
			Liters:    derefFloat(fuelLiters),
		}
	}
	return rec, nil
}

func filterArgs(f domain.RecordFilter) pgx.NamedArgs {
	return pgx.NamedArgs{
		"from": nullableString(f.From),
		"to":   nullableString(f.To),
	}
}

// nullable maps a zero reading to NULL so "not supplied" survives a round trip.
func nullable(v float64) *float64 {
	if v == 0 {
		return nil
	}
	return &v
}

func nullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func derefFloat(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}
