package leave

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alturath/hr-audit/internal/domain/audit"
	"github.com/alturath/hr-audit/internal/domain/leave"
	"github.com/alturath/hr-audit/internal/pkg/spreadsheet"
	"github.com/alturath/hr-audit/internal/pkg/validator"
	"github.com/alturath/hr-audit/internal/repository/memory"
)

func newTestLeaveService(t *testing.T) (leave.LeaveService, *memory.LeaveRecordRepository) {
	t.Helper()
	opts, err := audit.NewOptions(audit.DefaultSettings())
	require.NoError(t, err)
	repo := memory.NewLeaveRecordRepository()
	return NewLeaveService(repo, opts), repo
}

func sheetOf(rows ...[]string) spreadsheet.Workbook {
	return spreadsheet.Workbook{Name: "leaves.xlsx", Sheets: []spreadsheet.Sheet{{Name: "Leaves", Rows: rows}}}
}

func TestRegisterLeave(t *testing.T) {
	svc, repo := newTestLeaveService(t)
	ctx := context.Background()

	t.Run("date leave", func(t *testing.T) {
		resp, err := svc.RegisterLeave(ctx, leave.RegisterLeaveRequest{
			EmployeeID:   " 7 ",
			EmployeeName: "Mona   Saleh",
			Date:         "2024-03-07",
			Reason:       "Medical",
		})
		require.NoError(t, err)
		assert.NotEmpty(t, resp.ID)
		assert.Equal(t, "7", resp.EmployeeID)
		assert.Equal(t, "Mona Saleh", resp.EmployeeName)
		require.NotNil(t, resp.Date)
		assert.Equal(t, "2024-03-07", *resp.Date)
		assert.Nil(t, resp.Weekday)
	})

	t.Run("weekly leave by arabic label", func(t *testing.T) {
		resp, err := svc.RegisterLeave(ctx, leave.RegisterLeaveRequest{EmployeeName: "Omar", Weekday: "الجمعة"})
		require.NoError(t, err)
		require.NotNil(t, resp.Weekday)
		assert.Equal(t, "الجمعة", *resp.Weekday)
		assert.Empty(t, resp.Reason)
	})

	t.Run("unknown weekday", func(t *testing.T) {
		_, err := svc.RegisterLeave(ctx, leave.RegisterLeaveRequest{EmployeeID: "1", Weekday: "Someday"})
		assert.ErrorIs(t, err, leave.ErrUnknownWeekday)
	})

	t.Run("validation", func(t *testing.T) {
		_, err := svc.RegisterLeave(ctx, leave.RegisterLeaveRequest{Date: "2024-03-07"})
		var verrs validator.ValidationErrors
		require.ErrorAs(t, err, &verrs)
		assert.Contains(t, verrs.ToMap(), "employee_id")
	})

	records, err := repo.ListRecords(ctx, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestRegisterLeave_FloatRenderedID(t *testing.T) {
	svc, repo := newTestLeaveService(t)
	ctx := context.Background()

	resp, err := svc.RegisterLeave(ctx, leave.RegisterLeaveRequest{EmployeeID: "1001.0", EmployeeName: "Ahmed Ali", Date: "2024-03-07"})
	require.NoError(t, err)
	assert.Equal(t, "1001", resp.EmployeeID)

	records, err := repo.ListRecords(ctx, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "1001", records[0].EmployeeID)
}

func TestRegisterLeave_ReadOnlyRegistry(t *testing.T) {
	svc, repo := newTestLeaveService(t)
	repo.Freeze()

	_, err := svc.RegisterLeave(context.Background(), leave.RegisterLeaveRequest{EmployeeID: "1", Date: "2024-03-07"})
	assert.ErrorIs(t, err, leave.ErrRegistryReadOnly)
}

func TestListLeaves(t *testing.T) {
	svc, _ := newTestLeaveService(t)
	ctx := context.Background()

	for _, req := range []leave.RegisterLeaveRequest{
		{EmployeeID: "1", Date: "2024-03-07"},
		{EmployeeID: "2", Date: "2024-04-02"},
		{EmployeeID: "3", Weekday: "Friday"},
	} {
		_, err := svc.RegisterLeave(ctx, req)
		require.NoError(t, err)
	}

	got, err := svc.ListLeaves(ctx, leave.ListLeaveRequest{StartDate: "2024-03-01", EndDate: "2024-03-31"})
	require.NoError(t, err)
	ids := make([]string, 0, len(got))
	for _, r := range got {
		ids = append(ids, r.EmployeeID)
	}
	assert.ElementsMatch(t, []string{"1", "3"}, ids)

	_, err = svc.ListLeaves(ctx, leave.ListLeaveRequest{StartDate: "2024-03-31", EndDate: "2024-03-01"})
	var verrs validator.ValidationErrors
	assert.ErrorAs(t, err, &verrs)
}

func TestParseSheet(t *testing.T) {
	opts, err := audit.NewOptions(audit.DefaultSettings())
	require.NoError(t, err)

	wb := sheetOf(
		[]string{"رقم هوية", "الاسم", "التاريخ", "اليوم", "السبب"},
		[]string{"1", "أحمد", "2024-03-07", "", "إجازة مرضية"},
		[]string{"2", "سارة", "", "الخميس", "دوام جزئي"},
		[]string{"", "", "", "", ""},
		[]string{"3", "هدى", "45358", "", ""},
		[]string{"4", "خالد", "2024-03-07", "الخميس", ""},
		[]string{"5", "منى", "not a date", "", ""},
		[]string{"", "", "2024-03-07", "", "orphan"},
		[]string{"6", "عمر", "", "Someday", ""},
	)

	records, skipped, err := ParseSheet(wb, opts)
	require.NoError(t, err)

	require.Len(t, records, 3)
	assert.Equal(t, 2, records[0].Row)
	assert.Equal(t, "إجازة مرضية", records[0].Record.Reason)
	assert.Equal(t, leave.KindWeekly, records[1].Record.Kind())
	require.NotNil(t, records[2].Record.Date)
	assert.Equal(t, time.Date(2024, 3, 7, 0, 0, 0, 0, time.UTC), *records[2].Record.Date)

	rows := make([]int, 0, len(skipped))
	for _, s := range skipped {
		rows = append(rows, s.Row)
		assert.NotEmpty(t, s.Reason)
	}
	assert.Equal(t, []int{6, 7, 8, 9}, rows)
}

func TestParseSheet_MissingColumns(t *testing.T) {
	opts := audit.MustOptions(audit.DefaultSettings())

	_, _, err := ParseSheet(sheetOf([]string{"Reason", "Date"}, []string{"x", "2024-03-07"}), opts)
	assert.ErrorIs(t, err, leave.ErrInvalidLeaveRecord)

	_, _, err = ParseSheet(sheetOf([]string{"ID", "Reason"}, []string{"1", "x"}), opts)
	assert.ErrorIs(t, err, leave.ErrInvalidLeaveRecord)

	_, _, err = ParseSheet(spreadsheet.Workbook{Name: "empty.xlsx"}, opts)
	assert.ErrorIs(t, err, leave.ErrInvalidLeaveRecord)
}

func TestImportLeaves(t *testing.T) {
	svc, repo := newTestLeaveService(t)
	ctx := context.Background()

	resp, err := svc.ImportLeaves(ctx, sheetOf(
		[]string{"employee_id", "employee_name", "weekday", "reason"},
		[]string{"1", "Ahmed", "Friday", "Part-time"},
		[]string{"2", "Sara", "Saturday", ""},
		[]string{"3", "Huda", "", ""},
	))
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Imported)
	require.Len(t, resp.Skipped, 1)
	assert.Equal(t, 4, resp.Skipped[0].Row)

	records, err := repo.ListRecords(ctx, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Len(t, records, 2)
}
