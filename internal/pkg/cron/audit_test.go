package cron

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/alturath/hr-audit/internal/domain/audit"
	"github.com/alturath/hr-audit/internal/domain/leave"
	"github.com/alturath/hr-audit/internal/pkg/export"
	"github.com/alturath/hr-audit/internal/pkg/storage"
	"github.com/alturath/hr-audit/internal/repository/memory"
	auditsvc "github.com/alturath/hr-audit/internal/service/audit"
	"github.com/alturath/hr-audit/internal/service/file"
)

func newTestJobs(t *testing.T) (*AuditJobs, *storage.LocalStorage) {
	t.Helper()
	local, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	registry := memory.NewLeaveRecordRepository(leave.Record{EmployeeID: "2", EmployeeName: "Sara", Weekday: "Thursday"})
	svc := auditsvc.NewAuditService(registry, audit.MustOptions(audit.DefaultSettings()))
	jobs := NewAuditJobs(svc, file.NewFileService(local))
	jobs.now = func() time.Time { return time.Date(2024, 3, 8, 1, 0, 0, 0, time.UTC) }
	return jobs, local
}

func TestAuditInbox_WritesReportOnce(t *testing.T) {
	jobs, local := newTestJobs(t)
	ctx := context.Background()

	_, err := local.Upload(ctx, strings.NewReader("ID,Name,Time\n1,Ahmed,2024-03-07 08:40\n"), "inbox/gate/gate.csv")
	require.NoError(t, err)

	scheduler := NewScheduler(ctx)
	jobs.RegisterJobs(scheduler, time.Hour)
	assert.Equal(t, []string{"inbox_audit"}, scheduler.Jobs())
	require.NoError(t, scheduler.RunOnce(ctx))

	rc, err := local.Download(ctx, "reports/"+ReportName(time.Date(2024, 3, 7, 0, 0, 0, 0, time.UTC)))
	require.NoError(t, err)
	f, err := excelize.OpenReader(rc)
	require.NoError(t, rc.Close())
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(export.ReportSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Ahmed", rows[1][2])
	assert.Equal(t, "Late", rows[1][3])
	assert.Equal(t, "Sara", rows[2][2])
	assert.Equal(t, "Authorized Absence", rows[2][3])

	// a second tick the same day leaves the saved report alone
	require.NoError(t, local.Delete(ctx, "inbox/gate/gate.csv"))
	require.NoError(t, jobs.AuditInbox(ctx))
}

func TestAuditInbox_EmptyInbox(t *testing.T) {
	jobs, local := newTestJobs(t)
	ctx := context.Background()

	require.NoError(t, jobs.AuditInbox(ctx))
	exists, err := local.Exists(ctx, "reports/"+ReportName(time.Date(2024, 3, 7, 0, 0, 0, 0, time.UTC)))
	require.NoError(t, err)
	assert.False(t, exists)
}
