// Package memory holds in-process repositories for the command-line tool
// and tests.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/alturath/hr-audit/internal/domain/leave"
	"github.com/google/uuid"
)

type LeaveRecordRepository struct {
	mu       sync.RWMutex
	records  []leave.Record
	readOnly bool
	now      func() time.Time
}

func NewLeaveRecordRepository(records ...leave.Record) *LeaveRecordRepository {
	repo := &LeaveRecordRepository{now: time.Now}
	for _, r := range records {
		repo.records = append(repo.records, repo.stamp(r))
	}
	return repo
}

// Freeze makes every later Create fail with leave.ErrRegistryReadOnly.
func (r *LeaveRecordRepository) Freeze() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.readOnly = true
}

// ListRecords implements leave.Registry.
func (r *LeaveRecordRepository) ListRecords(_ context.Context, start, end time.Time) ([]leave.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []leave.Record
	for _, rec := range r.records {
		if rec.Date != nil && (rec.Date.Before(start) || rec.Date.After(end)) {
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}

// Create implements leave.Repository.
func (r *LeaveRecordRepository) Create(_ context.Context, record leave.Record) (leave.Record, error) {
	if record.Kind() == leave.KindInvalid || !record.HasIdentity() {
		return leave.Record{}, leave.ErrInvalidLeaveRecord
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.readOnly {
		return leave.Record{}, leave.ErrRegistryReadOnly
	}
	record = r.stamp(record)
	r.records = append(r.records, record)
	return record, nil
}

// CreateBatch implements leave.Repository.
func (r *LeaveRecordRepository) CreateBatch(_ context.Context, records []leave.Record) ([]leave.Record, error) {
	for _, rec := range records {
		if rec.Kind() == leave.KindInvalid || !rec.HasIdentity() {
			return nil, leave.ErrInvalidLeaveRecord
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.readOnly {
		return nil, leave.ErrRegistryReadOnly
	}
	created := make([]leave.Record, len(records))
	for i, rec := range records {
		created[i] = r.stamp(rec)
	}
	r.records = append(r.records, created...)
	return created, nil
}

func (r *LeaveRecordRepository) stamp(rec leave.Record) leave.Record {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = r.now()
	}
	return rec
}

var _ leave.Repository = (*LeaveRecordRepository)(nil)
