package repo

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pkordes/fuel-logbook/internal/domain"
)

// memoryRecordRepo keeps records in a slice in entry order.
// It backs the offline CLI, where the log comes from a JSON backup file.
type memoryRecordRepo struct {
	mu      sync.RWMutex
	records []domain.TripRecord
}

// NewMemoryRecordRepo returns a RecordRepo seeded with records, in order.
func NewMemoryRecordRepo(records ...domain.TripRecord) RecordRepo {
	return &memoryRecordRepo{records: slices.Clone(records)}
}

func (m *memoryRecordRepo) Create(_ context.Context, rec domain.TripRecord) (domain.TripRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	m.records = append(m.records, rec)
	return rec, nil
}

func (m *memoryRecordRepo) CreateBatch(_ context.Context, recs []domain.TripRecord) ([]domain.TripRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now().UTC()
	created := make([]domain.TripRecord, len(recs))
	for i, rec := range recs {
		if rec.ID == uuid.Nil {
			rec.ID = uuid.New()
		}
		if rec.CreatedAt.IsZero() {
			rec.CreatedAt = now
		}
		created[i] = rec
	}
	m.records = append(m.records, created...)
	return slices.Clone(created), nil
}

func (m *memoryRecordRepo) GetByID(_ context.Context, id uuid.UUID) (domain.TripRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, r := range m.records {
		if r.ID == id {
			return r, nil
		}
	}
	return domain.TripRecord{}, fmt.Errorf("repo.memoryRecordRepo.GetByID: %w", domain.ErrNotFound)
}

func (m *memoryRecordRepo) List(_ context.Context, f domain.RecordFilter) ([]domain.TripRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.filter(f), nil
}

func (m *memoryRecordRepo) ListPaged(_ context.Context, f domain.RecordFilter, p domain.PaginationParams) ([]domain.TripRecord, int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	all := m.filter(f)
	total := int64(len(all))
	start := min(p.Offset(), len(all))
	end := min(start+p.Limit, len(all))
	return all[start:end], total, nil
}

func (m *memoryRecordRepo) Last(_ context.Context) (domain.TripRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if len(m.records) == 0 {
		return domain.TripRecord{}, fmt.Errorf("repo.memoryRecordRepo.Last: %w", domain.ErrNotFound)
	}
	return m.records[len(m.records)-1], nil
}

func (m *memoryRecordRepo) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := slices.IndexFunc(m.records, func(r domain.TripRecord) bool { return r.ID == id })
	if i < 0 {
		return fmt.Errorf("repo.memoryRecordRepo.Delete: %w", domain.ErrNotFound)
	}
	m.records = slices.Delete(m.records, i, i+1)
	return nil
}

// filter returns a fresh slice so callers never alias the store.
// The caller must hold the lock.
func (m *memoryRecordRepo) filter(f domain.RecordFilter) []domain.TripRecord {
	out := make([]domain.TripRecord, 0, len(m.records))
	for _, r := range m.records {
		if f.Match(r) {
			out = append(out, r)
		}
	}
	return out
}
