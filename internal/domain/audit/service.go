package audit

import (
	"context"

	"github.com/alturath/hr-audit/internal/domain/attendance"
)

// RunRequest is one reconciliation run: the uploaded sources, the window and
// the display filter.
type RunRequest struct {
	Sources []attendance.RawSource
	Window  Window
	Search  string
}

// AuditService runs reconciliations. A run is a pure function of its sources,
// the leave records of the window, the window and the options.
type AuditService interface {
	// Run reconciles the sources over the window and assembles the report
	Run(ctx context.Context, req RunRequest) (Report, error)

	// Options returns the validated configuration runs use
	Options() Options
}
