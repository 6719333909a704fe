package leave

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/alturath/hr-audit/internal/domain/attendance"
	"github.com/alturath/hr-audit/internal/domain/leave"
	"github.com/alturath/hr-audit/internal/pkg/spreadsheet"
)

// WeekdayResolver maps configured weekday labels to weekdays.
type WeekdayResolver interface {
	Weekday(label string) (time.Weekday, bool)
}

type LeaveServiceImpl struct {
	leave.Repository
	weekdays WeekdayResolver
}

// ListLeaves implements leave.LeaveService.
func (s *LeaveServiceImpl) ListLeaves(ctx context.Context, req leave.ListLeaveRequest) ([]leave.LeaveRecordResponse, error) {
	start, end, err := req.Validate()
	if err != nil {
		return nil, err
	}

	records, err := s.Repository.ListRecords(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave records: %w", err)
	}

	responses := make([]leave.LeaveRecordResponse, 0, len(records))
	for _, r := range records {
		responses = append(responses, leave.NewLeaveRecordResponse(r))
	}
	return responses, nil
}

// RegisterLeave implements leave.LeaveService.
func (s *LeaveServiceImpl) RegisterLeave(ctx context.Context, req leave.RegisterLeaveRequest) (leave.LeaveRecordResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.LeaveRecordResponse{}, err
	}

	record, err := newRecord(req.EmployeeID, req.EmployeeName, req.Date, req.Weekday, req.Reason, s.weekdays)
	if err != nil {
		return leave.LeaveRecordResponse{}, err
	}

	created, err := s.Repository.Create(ctx, record)
	if err != nil {
		return leave.LeaveRecordResponse{}, fmt.Errorf("failed to create leave record: %w", err)
	}
	slog.Info("Registered leave record", "id", created.ID, "employee_id", created.EmployeeID, "kind", created.Kind())
	return leave.NewLeaveRecordResponse(created), nil
}

// ImportLeaves implements leave.LeaveService.
func (s *LeaveServiceImpl) ImportLeaves(ctx context.Context, wb spreadsheet.Workbook) (leave.ImportLeaveResponse, error) {
	records, skipped, err := ParseSheet(wb, s.weekdays)
	if err != nil {
		return leave.ImportLeaveResponse{}, err
	}

	batch := make([]leave.Record, len(records))
	for i, r := range records {
		batch[i] = r.Record
	}
	created, err := s.Repository.CreateBatch(ctx, batch)
	if err != nil {
		return leave.ImportLeaveResponse{}, fmt.Errorf("failed to import leave records: %w", err)
	}

	resp := leave.ImportLeaveResponse{Imported: len(created), Skipped: skipped}
	slog.Info("Imported leave records", "workbook", wb.Name, "imported", resp.Imported, "skipped", len(resp.Skipped))
	return resp, nil
}

func newRecord(id, name, date, weekday, reason string, weekdays WeekdayResolver) (leave.Record, error) {
	r := leave.Record{
		EmployeeID:   attendance.NormalizeEmployeeID(id),
		EmployeeName: strings.Join(strings.Fields(name), " "),
		Weekday:      strings.TrimSpace(weekday),
		Reason:       strings.TrimSpace(reason),
	}
	if date = strings.TrimSpace(date); date != "" {
		d, err := parseLeaveDate(date)
		if err != nil {
			return leave.Record{}, err
		}
		r.Date = &d
	}
	if !r.HasIdentity() || r.Kind() == leave.KindInvalid {
		return leave.Record{}, leave.ErrInvalidLeaveRecord
	}
	if r.Kind() == leave.KindWeekly {
		if _, ok := weekdays.Weekday(r.Weekday); !ok {
			return leave.Record{}, fmt.Errorf("%w: %q", leave.ErrUnknownWeekday, r.Weekday)
		}
	}
	return r, nil
}

func NewLeaveService(repo leave.Repository, weekdays WeekdayResolver) leave.LeaveService {
	return &LeaveServiceImpl{
		Repository: repo,
		weekdays:   weekdays,
	}
}
