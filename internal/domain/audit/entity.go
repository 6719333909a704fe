package audit

import (
	"time"

	"github.com/alturath/hr-audit/internal/pkg/clock"
)

// Status is the single verdict for one employee on one day.
type Status string

const (
	StatusPresentOnTime      Status = "present_on_time"
	StatusPresentLate        Status = "present_late"
	StatusAuthorizedAbsence  Status = "authorized_absence"
	StatusUnexplainedAbsence Status = "unexplained_absence"
)

// Label is the human-readable form used in exports.
func (s Status) Label() string {
	switch s {
	case StatusPresentOnTime:
		return "On Time"
	case StatusPresentLate:
		return "Late"
	case StatusAuthorizedAbsence:
		return "Authorized Absence"
	case StatusUnexplainedAbsence:
		return "Unexplained Absence"
	}
	return string(s)
}

// Rank orders statuses for display: problems first.
func (s Status) Rank() int {
	switch s {
	case StatusUnexplainedAbsence:
		return 0
	case StatusPresentLate:
		return 1
	case StatusAuthorizedAbsence:
		return 2
	case StatusPresentOnTime:
		return 3
	}
	return 4
}

func (s Status) IsPresent() bool {
	return s == StatusPresentOnTime || s == StatusPresentLate
}

// Compliance is the punctuality verdict for a check-in.
type Compliance string

const (
	ComplianceOnTime        Compliance = "on_time"
	ComplianceLate          Compliance = "late"
	ComplianceNotApplicable Compliance = "not_applicable"
)

// Verdict is one row of the audit: one employee, one day.
type Verdict struct {
	EmployeeKey  string
	EmployeeID   string
	EmployeeName string
	Date         time.Time
	Status       Status
	Compliance   Compliance
	Reason       string
	CheckIn      *clock.Clock
	CheckOut     *clock.Clock
	Source       string
}

// Summary is computed over the unfiltered verdicts.
type Summary struct {
	TotalRecords       int
	Present            int
	OnTime             int
	Late               int
	LatePercent        float64
	AuthorizedAbsence  int
	UnexplainedAbsence int
	StaffCount         int
	BySource           []SourceSummary
}

type SourceSummary struct {
	Source string
	OnTime int
	Late   int
}

// SourceStat reports what a source contributed to a run.
type SourceStat struct {
	Name    string
	Kind    string
	Events  int
	Dropped int
}

// SourceFailure is a source left out of a run.
type SourceFailure struct {
	Source string
	Kind   string
	Error  string
}

// Report is the output of one reconciliation run.
type Report struct {
	WindowStart time.Time
	WindowEnd   time.Time
	GeneratedAt time.Time
	Cutoff      clock.Clock
	Search      string

	// Rows is the display view: sorted, and narrowed by Search.
	Rows      []Verdict
	TotalRows int
	Summary   Summary

	Sources        []SourceStat
	Diagnostics    map[string]int
	Unavailable    []SourceFailure
	AmbiguousNames []string
}
