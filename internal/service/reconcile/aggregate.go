package reconcile

import (
	"sort"
	"time"

	"github.com/alturath/hr-audit/internal/domain/attendance"
)

type punchKey struct {
	employee string
	date     time.Time
	source   string
}

// AggregateBySource collapses events into one punch per employee, day and
// source: check-in is the earliest time, check-out the latest. Events without
// an employee key are ignored.
func AggregateBySource(events []attendance.Event) []attendance.DailyPunch {
	index := make(map[punchKey]int)
	var punches []attendance.DailyPunch

	for _, e := range events {
		key := e.Key()
		if key == "" {
			continue
		}
		k := punchKey{employee: key, date: e.Date, source: e.Source}
		i, ok := index[k]
		if !ok {
			index[k] = len(punches)
			punches = append(punches, attendance.DailyPunch{
				EmployeeKey:  key,
				EmployeeID:   e.EmployeeID,
				EmployeeName: e.EmployeeName,
				Date:         e.Date,
				CheckIn:      e.Time,
				CheckOut:     e.Time,
				Source:       e.Source,
			})
			continue
		}
		p := &punches[i]
		if e.Time < p.CheckIn {
			p.CheckIn = e.Time
		}
		if e.Time > p.CheckOut {
			p.CheckOut = e.Time
		}
		if p.EmployeeName == "" {
			p.EmployeeName = e.EmployeeName
		}
	}

	sortPunches(punches)
	return punches
}

// MergeSources reduces per-source punches to one per employee and day. The
// earliest check-in wins and names the source; equal check-ins go to the
// source that sorts first. Check-out is the latest across sources.
func MergeSources(punches []attendance.DailyPunch) []attendance.DailyPunch {
	index := make(map[punchKey]int)
	var merged []attendance.DailyPunch

	for _, p := range punches {
		k := punchKey{employee: p.EmployeeKey, date: p.Date}
		i, ok := index[k]
		if !ok {
			index[k] = len(merged)
			merged = append(merged, p)
			continue
		}
		m := &merged[i]
		if p.CheckIn < m.CheckIn || (p.CheckIn == m.CheckIn && p.Source < m.Source) {
			m.CheckIn = p.CheckIn
			m.Source = p.Source
		}
		if p.CheckOut > m.CheckOut {
			m.CheckOut = p.CheckOut
		}
		if m.EmployeeName == "" {
			m.EmployeeName = p.EmployeeName
		}
	}

	sortPunches(merged)
	return merged
}

func sortPunches(punches []attendance.DailyPunch) {
	sort.SliceStable(punches, func(i, j int) bool {
		a, b := punches[i], punches[j]
		if a.EmployeeKey != b.EmployeeKey {
			return a.EmployeeKey < b.EmployeeKey
		}
		if !a.Date.Equal(b.Date) {
			return a.Date.Before(b.Date)
		}
		return a.Source < b.Source
	})
}
