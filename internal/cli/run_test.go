package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/alturath/hr-audit/internal/domain/audit"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := NewRootCommand()
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestRun_TableWithLeaves(t *testing.T) {
	dir := t.TempDir()
	gate := writeFile(t, dir, "gate.csv", "ID,Name,Time\n1,Ahmed,2024-03-07 08:00\n2,Sara,2024-03-07 09:10\n")
	leaves := writeFile(t, dir, "leaves.csv", "employee_id,employee_name,weekday,reason\n3,Huda,Thursday,Part-time\n")

	out, err := execute(t, "run", "--date", "2024-03-07", "--gate", gate, "--leaves", leaves)
	require.NoError(t, err)

	assert.Contains(t, out, "Attendance audit 2024-03-07 (cutoff 08:30)")
	assert.Contains(t, out, "Ahmed")
	assert.Contains(t, out, "Late")
	assert.Contains(t, out, "Part-time")
	assert.Contains(t, out, "(50.00%)")
}

func TestRun_JSONWithCutoffOverride(t *testing.T) {
	dir := t.TempDir()
	gate := writeFile(t, dir, "gate.csv", "ID,Name,Time\n1,Ahmed,2024-03-07 08:00\n2,Sara,2024-03-07 09:10\n")

	out, err := execute(t, "run", "--date", "2024-03-07", "--gate", gate, "--cutoff", "09:30", "--format", "json")
	require.NoError(t, err)

	var report audit.ReportResponse
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, "09:30", report.Cutoff)
	assert.Equal(t, 2, report.Summary.OnTime)
	assert.Equal(t, 0, report.Summary.Late)
}

func TestRun_XLSXToFile(t *testing.T) {
	dir := t.TempDir()
	gate := writeFile(t, dir, "gate.csv", "ID,Name,Time\n1,Ahmed,2024-03-07 08:00\n")
	outPath := filepath.Join(dir, "report.xlsx")

	out, err := execute(t, "run", "--date", "2024-03-07", "--gate", gate, "--format", "xlsx", "--out", outPath)
	require.NoError(t, err)
	assert.Empty(t, out)

	f, err := excelize.OpenFile(outPath)
	require.NoError(t, err)
	defer f.Close()
	assert.Contains(t, f.GetSheetList(), "Audit_Report")
}

func TestRun_Errors(t *testing.T) {
	dir := t.TempDir()
	gate := writeFile(t, dir, "gate.csv", "ID,Name,Time\n1,Ahmed,2024-03-07 08:00\n")

	tests := []struct {
		name string
		args []string
		code int
	}{
		{"bad cutoff", []string{"run", "--date", "2024-03-07", "--gate", gate, "--cutoff", "8.30"}, ExitMisconfig},
		{"missing window", []string{"run", "--gate", gate}, ExitFailure},
		{"from without to", []string{"run", "--from", "2024-03-01", "--gate", gate}, ExitFailure},
		{"unknown format", []string{"run", "--date", "2024-03-07", "--format", "docx"}, ExitFailure},
		{"missing leave file", []string{"run", "--date", "2024-03-07", "--leaves", filepath.Join(dir, "nope.csv")}, ExitFailure},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			require.Error(t, err)
			assert.Equal(t, tt.code, exitCode(err))
		})
	}
}

func TestRun_MalformedEnvironmentIsMisconfiguration(t *testing.T) {
	dir := t.TempDir()
	gate := writeFile(t, dir, "gate.csv", "ID,Name,Time\n1,Ahmed,2024-03-07 08:00\n")

	for key, value := range map[string]string{
		"AUDIT_WEEKDAY_LABELS":   "Friday",
		"AUDIT_HEADER_SKIP_ROWS": "three",
	} {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, value)
			_, err := execute(t, "run", "--date", "2024-03-07", "--gate", gate)
			require.Error(t, err)
			assert.Equal(t, ExitMisconfig, exitCode(err))
		})
	}
}

func TestRun_MissingSourceFileIsUnavailable(t *testing.T) {
	dir := t.TempDir()
	gate := writeFile(t, dir, "gate.csv", "ID,Name,Time\n1,Ahmed,2024-03-07 08:00\n")

	out, err := execute(t, "run", "--date", "2024-03-07", "--gate", gate, "--app", filepath.Join(dir, "missing.xls"), "--format", "json")
	require.NoError(t, err)

	var report audit.ReportResponse
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	require.Len(t, report.Unavailable, 1)
	assert.Equal(t, "Mawjood App", report.Unavailable[0].Source)
}

type failingCloser struct {
	bytes.Buffer
	closeErr error
	closed   bool
}

func (f *failingCloser) Close() error {
	f.closed = true
	return f.closeErr
}

func TestWriteAndClose(t *testing.T) {
	hello := func(w io.Writer) error {
		_, err := io.WriteString(w, "hello")
		return err
	}

	t.Run("close error is reported", func(t *testing.T) {
		diskFull := errors.New("no space left on device")
		wc := &failingCloser{closeErr: diskFull}
		err := writeAndClose(wc, hello)
		require.ErrorIs(t, err, diskFull)
		assert.Contains(t, err.Error(), "close output")
		assert.Equal(t, "hello", wc.String())
	})

	t.Run("write error wins and file is still closed", func(t *testing.T) {
		writeErr := errors.New("encode failed")
		wc := &failingCloser{closeErr: errors.New("close failed")}
		err := writeAndClose(wc, func(io.Writer) error { return writeErr })
		require.ErrorIs(t, err, writeErr)
		assert.True(t, wc.closed)
	})

	t.Run("clean close", func(t *testing.T) {
		wc := &failingCloser{}
		require.NoError(t, writeAndClose(wc, hello))
		assert.True(t, wc.closed)
	})
}
