package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/alturath/hr-audit/internal/domain/leave"
	"github.com/alturath/hr-audit/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type leaveRecordRepositoryImpl struct {
	db *database.DB
}

func NewLeaveRecordRepository(db *database.DB) leave.Repository {
	return &leaveRecordRepositoryImpl{db: db}
}

// ListRecords implements leave.Registry.
func (r *leaveRecordRepositoryImpl) ListRecords(ctx context.Context, start, end time.Time) ([]leave.Record, error) {
	q := GetQuerier(ctx, r.db)
	query := `
		SELECT id, employee_id, employee_name, leave_date, weekday, reason, created_at
		FROM leave_records
		WHERE (leave_date BETWEEN $1 AND $2) OR leave_date IS NULL
		ORDER BY leave_date NULLS LAST, created_at, id
	`
	rows, err := q.Query(ctx, query, start, end)
	if err != nil {
		return nil, fmt.Errorf("query leave records: %w", err)
	}

	records, err := pgx.CollectRows(rows, scanLeaveRecord)
	if err != nil {
		return nil, fmt.Errorf("scan leave records: %w", err)
	}
	return records, nil
}

// Create implements leave.Repository.
func (r *leaveRecordRepositoryImpl) Create(ctx context.Context, record leave.Record) (leave.Record, error) {
	if record.Kind() == leave.KindInvalid || !record.HasIdentity() {
		return leave.Record{}, leave.ErrInvalidLeaveRecord
	}

	q := GetQuerier(ctx, r.db)
	query := `
		INSERT INTO leave_records (id, employee_id, employee_name, leave_date, weekday, reason)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, employee_id, employee_name, leave_date, weekday, reason, created_at
	`
	row, err := q.Query(ctx, query,
		uuid.NewString(), record.EmployeeID, record.EmployeeName, record.Date, record.Weekday, record.Reason,
	)
	if err != nil {
		return leave.Record{}, fmt.Errorf("insert leave record: %w", err)
	}
	created, err := pgx.CollectExactlyOneRow(row, scanLeaveRecord)
	if err != nil {
		return leave.Record{}, fmt.Errorf("insert leave record: %w", err)
	}
	return created, nil
}

// CreateBatch implements leave.Repository.
func (r *leaveRecordRepositoryImpl) CreateBatch(ctx context.Context, records []leave.Record) ([]leave.Record, error) {
	created := make([]leave.Record, 0, len(records))
	err := WithTransaction(ctx, r.db, func(ctx context.Context) error {
		for i, rec := range records {
			c, err := r.Create(ctx, rec)
			if err != nil {
				return fmt.Errorf("record %d: %w", i+1, err)
			}
			created = append(created, c)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func scanLeaveRecord(row pgx.CollectableRow) (leave.Record, error) {
	var rec leave.Record
	var date *time.Time
	err := row.Scan(&rec.ID, &rec.EmployeeID, &rec.EmployeeName, &date, &rec.Weekday, &rec.Reason, &rec.CreatedAt)
	if err != nil {
		return leave.Record{}, err
	}
	if date != nil {
		d := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
		rec.Date = &d
	}
	return rec, nil
}
