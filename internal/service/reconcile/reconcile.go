package reconcile

import (
	"sort"
	"strings"
	"time"

	"github.com/alturath/hr-audit/internal/domain/attendance"
	"github.com/alturath/hr-audit/internal/domain/audit"
)

// Leave is a registry record already resolved to an employee key. Exactly
// one of Date and Weekday applies, as selected by Weekly.
type Leave struct {
	EmployeeKey  string
	EmployeeID   string
	EmployeeName string
	Date         time.Time
	Weekly       bool
	Weekday      time.Weekday
	Reason       string
}

func (l Leave) matches(day time.Time) bool {
	if l.Weekly {
		return day.Weekday() == l.Weekday
	}
	return l.Date.Equal(day)
}

type rosterEntry struct {
	key  string
	id   string
	name string
}

type dayKey struct {
	employee string
	date     time.Time
}

// Reconcile classifies every roster member on every day exactly once. The
// roster is the union of employees with a punch or a leave record. A punch
// always wins over leave; a date-specific leave wins over a weekly one.
func Reconcile(punches []attendance.DailyPunch, leaves []Leave, days []time.Time, opts audit.Options) []audit.Verdict {
	roster := make(map[string]*rosterEntry)
	enroll := func(key, id, name string) {
		if key == "" {
			return
		}
		e, ok := roster[key]
		if !ok {
			roster[key] = &rosterEntry{key: key, id: id, name: name}
			return
		}
		if e.id == "" {
			e.id = id
		}
		if e.name == "" {
			e.name = name
		}
	}

	byDay := make(map[dayKey]attendance.DailyPunch, len(punches))
	for _, p := range punches {
		enroll(p.EmployeeKey, p.EmployeeID, p.EmployeeName)
		byDay[dayKey{p.EmployeeKey, p.Date}] = p
	}
	leavesByKey := make(map[string][]Leave)
	for _, l := range leaves {
		enroll(l.EmployeeKey, l.EmployeeID, l.EmployeeName)
		leavesByKey[l.EmployeeKey] = append(leavesByKey[l.EmployeeKey], l)
	}

	keys := make([]string, 0, len(roster))
	for k := range roster {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	verdicts := make([]audit.Verdict, 0, len(keys)*len(days))
	for _, day := range days {
		for _, key := range keys {
			e := roster[key]
			v := audit.Verdict{EmployeeKey: key, EmployeeID: e.id, EmployeeName: e.name, Date: day}

			if p, ok := byDay[dayKey{key, day}]; ok {
				v.CheckIn = p.CheckIn.Ptr()
				v.CheckOut = p.CheckOut.Ptr()
				v.Source = p.Source
				v.Compliance = Classify(v.CheckIn, opts.Cutoff)
				v.Status = audit.StatusPresentOnTime
				if v.Compliance == audit.ComplianceLate {
					v.Status = audit.StatusPresentLate
				}
			} else if l, ok := matchLeave(leavesByKey[key], day); ok {
				v.Status = audit.StatusAuthorizedAbsence
				v.Compliance = audit.ComplianceNotApplicable
				v.Reason = strings.TrimSpace(l.Reason)
				if v.Reason == "" {
					v.Reason = opts.DefaultLeaveReason
				}
			} else {
				v.Status = audit.StatusUnexplainedAbsence
				v.Compliance = audit.ComplianceNotApplicable
			}
			verdicts = append(verdicts, v)
		}
	}
	return verdicts
}

func matchLeave(leaves []Leave, day time.Time) (Leave, bool) {
	var weekly *Leave
	for i := range leaves {
		l := &leaves[i]
		if !l.matches(day) {
			continue
		}
		if !l.Weekly {
			return *l, true
		}
		if weekly == nil {
			weekly = l
		}
	}
	if weekly != nil {
		return *weekly, true
	}
	return Leave{}, false
}
