package leave

import (
	"context"

	"github.com/alturath/hr-audit/internal/pkg/spreadsheet"
)

// LeaveService is the registry administration surface. Reconciliation runs
// never go through it; they read the Registry directly.
type LeaveService interface {
	// ListLeaves returns records relevant to the given window
	ListLeaves(ctx context.Context, req ListLeaveRequest) ([]LeaveRecordResponse, error)

	// RegisterLeave appends one record
	RegisterLeave(ctx context.Context, req RegisterLeaveRequest) (LeaveRecordResponse, error)

	// ImportLeaves appends every valid row of the workbook's first sheet
	ImportLeaves(ctx context.Context, wb spreadsheet.Workbook) (ImportLeaveResponse, error)
}
