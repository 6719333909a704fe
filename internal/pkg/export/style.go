// Package export renders audit reports for download: a styled workbook and a
// printable PDF. Row colouring is derived from the verdict status only.
package export

import (
	"time"

	"github.com/alturath/hr-audit/internal/domain/audit"
	"github.com/alturath/hr-audit/internal/pkg/clock"
)

// RowStyle is the fill and font colour of a report row.
type RowStyle struct {
	Fill string
	Font string
}

var rowStyles = map[audit.Status]RowStyle{
	audit.StatusPresentLate:        {Fill: "#ffeef0", Font: "#d73a49"},
	audit.StatusPresentOnTime:      {Fill: "#e6ffed", Font: "#22863a"},
	audit.StatusUnexplainedAbsence: {Fill: "#fff5b1", Font: "#b08800"},
	audit.StatusAuthorizedAbsence:  {Fill: "#f1f8ff", Font: "#0366d6"},
}

// StyleFor returns the colours for a status. Unknown statuses are unstyled.
func StyleFor(status audit.Status) (RowStyle, bool) {
	s, ok := rowStyles[status]
	return s, ok
}

var columns = []string{"Date", "Employee ID", "Name", "Status", "Reason", "Check In", "Check Out", "Source"}

func rowValues(v audit.Verdict) []string {
	return []string{
		v.Date.Format(time.DateOnly),
		v.EmployeeID,
		v.EmployeeName,
		v.Status.Label(),
		v.Reason,
		clockText(v.CheckIn),
		clockText(v.CheckOut),
		v.Source,
	}
}

func clockText(c *clock.Clock) string {
	if c == nil {
		return ""
	}
	return c.String()
}

func windowText(r audit.Report) string {
	if r.WindowStart.Equal(r.WindowEnd) {
		return r.WindowStart.Format(time.DateOnly)
	}
	return r.WindowStart.Format(time.DateOnly) + " to " + r.WindowEnd.Format(time.DateOnly)
}
