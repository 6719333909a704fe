package reconcile_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alturath/hr-audit/internal/domain/attendance"
	"github.com/alturath/hr-audit/internal/domain/audit"
	"github.com/alturath/hr-audit/internal/domain/leave"
	"github.com/alturath/hr-audit/internal/pkg/clock"
	"github.com/alturath/hr-audit/internal/service/reconcile"
)

var (
	thursday = time.Date(2024, 3, 7, 0, 0, 0, 0, time.UTC)
	friday   = time.Date(2024, 3, 8, 0, 0, 0, 0, time.UTC)
)

func options(t *testing.T) audit.Options {
	t.Helper()
	opts, err := audit.NewOptions(audit.DefaultSettings())
	require.NoError(t, err)
	return opts
}

func event(id, name string, day time.Time, hh, mm int, source string) attendance.Event {
	return attendance.Event{EmployeeID: id, EmployeeName: name, Date: day, Time: clock.New(hh, mm), Source: source}
}

func oneDay(day time.Time) audit.Window {
	return audit.Window{Start: day, End: day}
}

func findVerdict(t *testing.T, verdicts []audit.Verdict, key string, day time.Time) audit.Verdict {
	t.Helper()
	for _, v := range verdicts {
		if v.EmployeeKey == key && v.Date.Equal(day) {
			return v
		}
	}
	t.Fatalf("no verdict for %s on %s", key, day.Format(time.DateOnly))
	return audit.Verdict{}
}

func TestClassify(t *testing.T) {
	cutoff := clock.New(8, 30)
	tests := []struct {
		name    string
		checkIn *clock.Clock
		want    audit.Compliance
	}{
		{"before cutoff", clock.New(7, 59).Ptr(), audit.ComplianceOnTime},
		{"exactly at cutoff", clock.New(8, 30).Ptr(), audit.ComplianceOnTime},
		{"one minute after", clock.New(8, 31).Ptr(), audit.ComplianceLate},
		{"missing", nil, audit.ComplianceNotApplicable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, reconcile.Classify(tt.checkIn, cutoff))
		})
	}
}

func TestAggregateBySource_MinInMaxOut(t *testing.T) {
	punches := reconcile.AggregateBySource([]attendance.Event{
		event("1", "Ahmed", thursday, 8, 40, "Gate"),
		event("1", "Ahmed", thursday, 7, 55, "Gate"),
		event("1", "Ahmed", thursday, 9, 10, "Gate"),
	})

	require.Len(t, punches, 1)
	assert.Equal(t, clock.New(7, 55), punches[0].CheckIn)
	assert.Equal(t, clock.New(9, 10), punches[0].CheckOut)
}

func TestAggregateBySource_SingleEventIsDegenerate(t *testing.T) {
	punches := reconcile.AggregateBySource([]attendance.Event{event("1", "Ahmed", thursday, 8, 0, "Gate")})

	require.Len(t, punches, 1)
	assert.Equal(t, punches[0].CheckIn, punches[0].CheckOut)
}

func TestMergeSources_EarliestCheckInWins(t *testing.T) {
	merged := reconcile.MergeSources(reconcile.AggregateBySource([]attendance.Event{
		event("1", "Ahmed", thursday, 8, 5, "Gate"),
		event("1", "Ahmed", thursday, 17, 0, "Gate"),
		event("1", "Ahmed", thursday, 7, 50, "App"),
	}))

	require.Len(t, merged, 1)
	assert.Equal(t, clock.New(7, 50), merged[0].CheckIn)
	assert.Equal(t, clock.New(17, 0), merged[0].CheckOut)
	assert.Equal(t, "App", merged[0].Source)
}

func TestMergeSources_TieGoesToFirstSourceName(t *testing.T) {
	merged := reconcile.MergeSources(reconcile.AggregateBySource([]attendance.Event{
		event("1", "Ahmed", thursday, 8, 0, "Gate B"),
		event("1", "Ahmed", thursday, 8, 0, "Gate A"),
	}))

	require.Len(t, merged, 1)
	assert.Equal(t, "Gate A", merged[0].Source)
}

func TestRun_PresenceOverridesLeave(t *testing.T) {
	day := thursday
	out := reconcile.Run(reconcile.Input{
		Events:  []attendance.Event{event("1", "Ahmed", day, 8, 45, "Gate")},
		Leaves:  []leave.Record{{EmployeeID: "1", Date: &day, Reason: "Sick"}},
		Window:  oneDay(day),
		Options: options(t),
	})

	require.Len(t, out.Verdicts, 1)
	v := out.Verdicts[0]
	assert.Equal(t, audit.StatusPresentLate, v.Status)
	assert.Equal(t, audit.ComplianceLate, v.Compliance)
	assert.Empty(t, v.Reason)
	require.NotNil(t, v.CheckIn)
	assert.Equal(t, clock.New(8, 45), *v.CheckIn)
}

func TestRun_WeeklyOff(t *testing.T) {
	out := reconcile.Run(reconcile.Input{
		Leaves:  []leave.Record{{EmployeeID: "1", EmployeeName: "Ahmed", Weekday: "Friday"}},
		Window:  audit.Window{Start: thursday, End: friday},
		Options: options(t),
	})

	require.Len(t, out.Verdicts, 2)
	assert.Equal(t, audit.StatusUnexplainedAbsence, findVerdict(t, out.Verdicts, "id:1", thursday).Status)

	fri := findVerdict(t, out.Verdicts, "id:1", friday)
	assert.Equal(t, audit.StatusAuthorizedAbsence, fri.Status)
	assert.Equal(t, audit.DefaultLeaveReason, fri.Reason)
}

func TestRun_ArabicWeekdayLabel(t *testing.T) {
	out := reconcile.Run(reconcile.Input{
		Leaves:  []leave.Record{{EmployeeName: "أحمد", Weekday: "الجمعة", Reason: "عطلة"}},
		Window:  oneDay(friday),
		Options: options(t),
	})

	require.Len(t, out.Verdicts, 1)
	assert.Equal(t, audit.StatusAuthorizedAbsence, out.Verdicts[0].Status)
	assert.Equal(t, "عطلة", out.Verdicts[0].Reason)
}

func TestRun_DateLeaveBeatsWeeklyLeave(t *testing.T) {
	day := friday
	out := reconcile.Run(reconcile.Input{
		Leaves: []leave.Record{
			{EmployeeID: "1", Weekday: "Friday", Reason: "Weekend"},
			{EmployeeID: "1", Date: &day, Reason: "Hajj"},
		},
		Window:  oneDay(day),
		Options: options(t),
	})

	require.Len(t, out.Verdicts, 1)
	assert.Equal(t, "Hajj", out.Verdicts[0].Reason)
}

func TestRun_ExactlyOneVerdictPerEmployeePerDay(t *testing.T) {
	start := time.Date(2024, 3, 3, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC)
	leaveDay := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)

	out := reconcile.Run(reconcile.Input{
		Events: []attendance.Event{
			event("1", "Ahmed", start, 7, 55, "Gate"),
			event("1", "Ahmed", start, 8, 40, "App"),
			event("2", "Sara", leaveDay, 9, 0, "Gate"),
			event("", "Omar", friday, 8, 0, "App"),
			event("3", "Ghost", end.AddDate(0, 0, 1), 8, 0, "Gate"),
		},
		Leaves: []leave.Record{
			{EmployeeID: "2", Date: &leaveDay},
			{EmployeeID: "4", EmployeeName: "Huda", Weekday: "Sunday"},
		},
		Window:  audit.Window{Start: start, End: end},
		Options: options(t),
	})

	seen := make(map[string]int)
	for _, v := range out.Verdicts {
		seen[v.EmployeeKey+"|"+v.Date.Format(time.DateOnly)]++
		assert.NotEmpty(t, v.Status)
	}
	// four employees (the out-of-window Ghost is not enrolled) over seven days
	assert.Len(t, seen, 4*7)
	for k, n := range seen {
		assert.Equal(t, 1, n, k)
	}
	assert.Len(t, out.Verdicts, 4*7)
}

func TestRun_EmptyInput(t *testing.T) {
	out := reconcile.Run(reconcile.Input{Window: oneDay(thursday), Options: options(t)})

	assert.Empty(t, out.Verdicts)
	assert.Empty(t, out.Diagnostics)
	assert.Empty(t, out.AmbiguousNames)

	rows, summary := reconcile.Assemble(out.Verdicts, "")
	assert.Empty(t, rows)
	assert.Zero(t, summary.TotalRecords)
}

func TestRun_NameOnlyEventAdoptsUniqueID(t *testing.T) {
	out := reconcile.Run(reconcile.Input{
		Events: []attendance.Event{
			event("1001", "Ahmed Ali", thursday, 8, 5, "Gate"),
			event("", "ahmed  ALI", thursday, 7, 50, "App"),
		},
		Window:  oneDay(thursday),
		Options: options(t),
	})

	require.Len(t, out.Verdicts, 1)
	v := out.Verdicts[0]
	assert.Equal(t, "id:1001", v.EmployeeKey)
	assert.Equal(t, "App", v.Source)
	assert.Equal(t, audit.StatusPresentOnTime, v.Status)
}

func TestRun_AmbiguousNameIsNotGuessed(t *testing.T) {
	out := reconcile.Run(reconcile.Input{
		Events: []attendance.Event{
			event("1", "Mohammed", thursday, 8, 0, "Gate"),
			event("2", "Mohammed", thursday, 8, 10, "Gate"),
			event("", "Mohammed", thursday, 7, 40, "App"),
		},
		Window:  oneDay(thursday),
		Options: options(t),
	})

	assert.Len(t, out.Verdicts, 3)
	assert.Equal(t, []string{"Mohammed"}, out.AmbiguousNames)
	findVerdict(t, out.Verdicts, "name:mohammed", thursday)
}

func TestRun_UnusableLeaveRecordsAreCounted(t *testing.T) {
	day := thursday
	out := reconcile.Run(reconcile.Input{
		Leaves: []leave.Record{
			{EmployeeID: "1", Weekday: "Someday"},
			{EmployeeID: "2"},
			{Date: &day},
			{EmployeeID: "3", Date: &day},
		},
		Window:  oneDay(day),
		Options: options(t),
	})

	assert.Equal(t, 3, out.Diagnostics[reconcile.DiagnosticLeaveRegistry])
	require.Len(t, out.Verdicts, 1)
	assert.Equal(t, "id:3", out.Verdicts[0].EmployeeKey)
}

func TestAssemble_SortFilterAndSummary(t *testing.T) {
	day := thursday
	verdicts := []audit.Verdict{
		{EmployeeKey: "id:1", EmployeeID: "1", EmployeeName: "Zaid", Date: day, Status: audit.StatusPresentOnTime, Source: "Gate"},
		{EmployeeKey: "id:2", EmployeeID: "2", EmployeeName: "Basma", Date: day, Status: audit.StatusPresentLate, Source: "App"},
		{EmployeeKey: "id:3", EmployeeID: "3", EmployeeName: "Adel", Date: day, Status: audit.StatusAuthorizedAbsence},
		{EmployeeKey: "id:4", EmployeeID: "4", EmployeeName: "Yasmin", Date: day, Status: audit.StatusUnexplainedAbsence},
		{EmployeeKey: "id:5", EmployeeID: "5", EmployeeName: "Amal", Date: day, Status: audit.StatusPresentOnTime, Source: "Gate"},
	}

	rows, summary := reconcile.Assemble(verdicts, "")
	require.Len(t, rows, 5)
	names := make([]string, len(rows))
	for i, r := range rows {
		names[i] = r.EmployeeName
	}
	assert.Equal(t, []string{"Yasmin", "Basma", "Adel", "Amal", "Zaid"}, names)

	assert.Equal(t, 5, summary.TotalRecords)
	assert.Equal(t, 3, summary.Present)
	assert.Equal(t, 2, summary.OnTime)
	assert.Equal(t, 1, summary.Late)
	assert.Equal(t, 33.33, summary.LatePercent)
	assert.Equal(t, 1, summary.AuthorizedAbsence)
	assert.Equal(t, 1, summary.UnexplainedAbsence)
	assert.Equal(t, 5, summary.StaffCount)
	assert.Equal(t, []audit.SourceSummary{{Source: "App", Late: 1}, {Source: "Gate", OnTime: 2}}, summary.BySource)

	filtered, fullSummary := reconcile.Assemble(verdicts, "yas")
	require.Len(t, filtered, 1)
	assert.Equal(t, "Yasmin", filtered[0].EmployeeName)
	assert.Equal(t, 1, fullSummary.UnexplainedAbsence)
	assert.Equal(t, 5, fullSummary.TotalRecords)

	byID, _ := reconcile.Assemble(verdicts, "3")
	require.Len(t, byID, 1)
	assert.Equal(t, "Adel", byID[0].EmployeeName)
}

func TestRun_FloatRenderedLeaveIDMatchesGateID(t *testing.T) {
	day := thursday
	out := reconcile.Run(reconcile.Input{
		Events:  []attendance.Event{event("1001.0", "Ahmed Ali", day, 8, 5, "Gate")},
		Leaves:  []leave.Record{{EmployeeID: "1001.0", EmployeeName: "Ahmed Ali", Date: &day, Reason: "Sick"}},
		Window:  oneDay(day),
		Options: options(t),
	})

	require.Len(t, out.Verdicts, 1)
	v := out.Verdicts[0]
	assert.Equal(t, "id:1001", v.EmployeeKey)
	assert.Equal(t, audit.StatusPresentOnTime, v.Status)
}

func TestRun_LeaveIDAndEventIDRenderedDifferently(t *testing.T) {
	day := thursday
	out := reconcile.Run(reconcile.Input{
		Events:  []attendance.Event{event("1001", "Ahmed Ali", day, 8, 5, "Gate")},
		Leaves:  []leave.Record{{EmployeeID: " 1001.00 ", Date: &day, Reason: "Sick"}},
		Window:  oneDay(day),
		Options: options(t),
	})

	require.Len(t, out.Verdicts, 1)
	assert.Equal(t, "id:1001", out.Verdicts[0].EmployeeKey)
}
