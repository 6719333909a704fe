package attendance

import (
	"regexp"
	"strings"
	"time"

	"github.com/alturath/hr-audit/internal/pkg/clock"
	"github.com/alturath/hr-audit/internal/pkg/namekey"
	"github.com/alturath/hr-audit/internal/pkg/spreadsheet"
)

// SourceKind selects the normalization strategy for a source.
type SourceKind string

const (
	SourceKindGateLog      SourceKind = "gate_log"
	SourceKindStatusExport SourceKind = "status_export"
	SourceKindMonthlyGrid  SourceKind = "monthly_grid"
)

func (k SourceKind) Valid() bool {
	switch k {
	case SourceKindGateLog, SourceKindStatusExport, SourceKindMonthlyGrid:
		return true
	}
	return false
}

// RawSource is one uploaded source as handed to a normalizer. Name is the
// source tag carried by every event it produces; the set of names is fixed
// per run by the caller.
type RawSource struct {
	Name     string
	Kind     SourceKind
	Workbook spreadsheet.Workbook

	// ReportDate is the day a status export covers when the file itself does
	// not say; for monthly grids only its month is used.
	ReportDate *time.Time

	// Err is set when the file could not be read at all.
	Err error
}

// Event is one observation of an employee at a source.
type Event struct {
	EmployeeID   string
	EmployeeName string
	Date         time.Time
	Time         clock.Clock
	Source       string
}

// Key is the join key for the event's employee.
func (e Event) Key() string {
	return EmployeeKey(e.EmployeeID, e.EmployeeName)
}

// DailyPunch is the single reconciled day for one employee.
type DailyPunch struct {
	EmployeeKey  string
	EmployeeID   string
	EmployeeName string
	Date         time.Time
	CheckIn      clock.Clock
	CheckOut     clock.Clock
	Source       string
}

var integralFloat = regexp.MustCompile(`^(\d+)\.0+$`)

// NormalizeEmployeeID trims an ID and undoes spreadsheet float rendering of
// numeric badge IDs ("1001.0" becomes "1001"). Every ID entering a run,
// whether from a source or the leave registry, goes through it.
func NormalizeEmployeeID(id string) string {
	id = strings.TrimSpace(id)
	if m := integralFloat.FindStringSubmatch(id); m != nil {
		return m[1]
	}
	return id
}

// EmployeeKey prefers the stable identifier and falls back to the folded
// display name. Two employees sharing a display name and lacking IDs collapse
// into one key.
func EmployeeKey(id, name string) string {
	if id != "" {
		return "id:" + id
	}
	if folded := namekey.Fold(name); folded != "" {
		return "name:" + folded
	}
	return ""
}
