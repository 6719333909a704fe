package file

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alturath/hr-audit/internal/domain/attendance"
	"github.com/alturath/hr-audit/internal/pkg/storage"
)

func newTestFileService(t *testing.T) (FileService, *storage.LocalStorage) {
	t.Helper()
	local, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	return NewFileService(local), local
}

func TestArchiveSource(t *testing.T) {
	svc, _ := newTestFileService(t)
	day := time.Date(2024, 3, 7, 0, 0, 0, 0, time.UTC)

	p, err := svc.ArchiveSource(context.Background(), day, strings.NewReader("a,b"), "Gate Log.XLSX")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(p, "uploads/2024-03-07/"))
	assert.True(t, strings.HasSuffix(p, ".xlsx"))

	_, err = svc.ArchiveSource(context.Background(), day, strings.NewReader("x"), "malware.exe")
	assert.ErrorIs(t, err, ErrUnsupportedFileType)
}

func TestInboxFiles(t *testing.T) {
	svc, local := newTestFileService(t)
	ctx := context.Background()

	for _, p := range []string{"inbox/gate/b.xls", "inbox/gate/a.csv", "inbox/gate/notes.pdf", "inbox/app/day.xlsx"} {
		_, err := local.Upload(ctx, strings.NewReader("x"), p)
		require.NoError(t, err)
	}

	gate, err := svc.InboxFiles(ctx, attendance.SourceKindGateLog)
	require.NoError(t, err)
	assert.Equal(t, []string{"inbox/gate/a.csv", "inbox/gate/b.xls"}, gate)

	grid, err := svc.InboxFiles(ctx, attendance.SourceKindMonthlyGrid)
	require.NoError(t, err)
	assert.Empty(t, grid)
}

func TestSaveReport(t *testing.T) {
	svc, local := newTestFileService(t)

	p, err := svc.SaveReport(context.Background(), "../audit-2024-03-07.xlsx", strings.NewReader("x"))
	require.NoError(t, err)
	assert.Equal(t, "reports/audit-2024-03-07.xlsx", p)

	ok, err := local.Exists(context.Background(), p)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.ReportExists(context.Background(), "audit-2024-03-07.xlsx")
	require.NoError(t, err)
	assert.True(t, ok)
}
