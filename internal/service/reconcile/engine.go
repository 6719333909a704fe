// Package reconcile turns normalized attendance events and leave records into
// one verdict per employee per day. Everything here is pure: no I/O, no
// clocks, no shared state between runs.
package reconcile

import (
	"time"

	"github.com/alturath/hr-audit/internal/domain/attendance"
	"github.com/alturath/hr-audit/internal/domain/audit"
	"github.com/alturath/hr-audit/internal/domain/leave"
	"github.com/alturath/hr-audit/internal/pkg/clock"
)

// DiagnosticLeaveRegistry counts leave records that could not be used.
const DiagnosticLeaveRegistry = "leave_registry"

type Input struct {
	Events  []attendance.Event
	Leaves  []leave.Record
	Window  audit.Window
	Options audit.Options
}

type Output struct {
	Verdicts []audit.Verdict

	// Diagnostics counts skipped inputs by origin.
	Diagnostics    map[string]int
	AmbiguousNames []string
}

// Run reconciles one snapshot. An empty input yields an empty output.
func Run(in Input) Output {
	out := Output{Diagnostics: make(map[string]int)}
	days := clock.Days(in.Window.Start, in.Window.End)
	inWindow := make(map[time.Time]bool, len(days))
	for _, d := range days {
		inWindow[d] = true
	}

	dir := NewDirectory()
	for _, e := range in.Events {
		dir.Add(attendance.NormalizeEmployeeID(e.EmployeeID), e.EmployeeName)
	}
	leaves := make([]leave.Record, len(in.Leaves))
	for i, r := range in.Leaves {
		r.EmployeeID = attendance.NormalizeEmployeeID(r.EmployeeID)
		leaves[i] = r
		dir.Add(r.EmployeeID, r.EmployeeName)
	}

	events := make([]attendance.Event, 0, len(in.Events))
	for _, e := range in.Events {
		e.Date = clock.Day(e.Date)
		if !inWindow[e.Date] {
			continue
		}
		e.EmployeeID = dir.Resolve(attendance.NormalizeEmployeeID(e.EmployeeID), e.EmployeeName)
		if e.EmployeeName == "" {
			e.EmployeeName = dir.Name(e.EmployeeID)
		}
		events = append(events, e)
	}

	var resolved []Leave
	skipped := 0
	for _, r := range leaves {
		l, usable, ok := resolveLeave(r, dir, in.Options, inWindow)
		if !ok {
			skipped++
			continue
		}
		if usable {
			resolved = append(resolved, l)
		}
	}
	if skipped > 0 {
		out.Diagnostics[DiagnosticLeaveRegistry] = skipped
	}

	punches := MergeSources(AggregateBySource(events))
	out.Verdicts = Reconcile(punches, resolved, days, in.Options)
	out.AmbiguousNames = dir.Ambiguous()
	return out
}

// resolveLeave converts a registry record. ok is false for a record that is
// malformed; usable is false for a valid record outside the window.
func resolveLeave(r leave.Record, dir *Directory, opts audit.Options, inWindow map[time.Time]bool) (l Leave, usable, ok bool) {
	if !r.HasIdentity() {
		return Leave{}, false, false
	}
	id := dir.Resolve(r.EmployeeID, r.EmployeeName)
	name := r.EmployeeName
	if name == "" {
		name = dir.Name(id)
	}
	l = Leave{
		EmployeeKey:  attendance.EmployeeKey(id, name),
		EmployeeID:   id,
		EmployeeName: name,
		Reason:       r.Reason,
	}

	switch r.Kind() {
	case leave.KindDate:
		l.Date = clock.Day(*r.Date)
		return l, inWindow[l.Date], true
	case leave.KindWeekly:
		wd, known := opts.Weekday(r.Weekday)
		if !known {
			return Leave{}, false, false
		}
		l.Weekly = true
		l.Weekday = wd
		return l, true, true
	}
	return Leave{}, false, false
}
