package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/alturath/hr-audit/internal/config"
	"github.com/alturath/hr-audit/internal/domain/attendance"
	"github.com/alturath/hr-audit/internal/domain/audit"
	"github.com/alturath/hr-audit/internal/domain/leave"
	"github.com/alturath/hr-audit/internal/pkg/export"
	"github.com/alturath/hr-audit/internal/pkg/spreadsheet"
	"github.com/alturath/hr-audit/internal/pkg/validator"
	"github.com/alturath/hr-audit/internal/repository/memory"
	auditService "github.com/alturath/hr-audit/internal/service/audit"
	leaveService "github.com/alturath/hr-audit/internal/service/leave"
)

const formatTable = "table"

type runOptions struct {
	gateFiles []string
	appFile   string
	gridFiles []string
	leaves    string

	date    string
	from    string
	to      string
	appDate string

	search  string
	cutoff  string
	format  string
	out     string
	pdfFont string
}

func newRunCommand() *cobra.Command {
	var o runOptions

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Audit attendance files for a date or date range",
		Example: `  hr-audit run --date 2024-03-07 --gate gate.xlsx --app app.xls --leaves leaves.csv
  hr-audit run --from 2024-03-01 --to 2024-03-31 --grid grid.xls --format xlsx --out march.xlsx`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.run(cmd.Context(), cmd.OutOrStdout())
		},
	}

	f := cmd.Flags()
	f.StringArrayVar(&o.gateFiles, "gate", nil, "Gate access-control log (repeatable)")
	f.StringVar(&o.appFile, "app", "", "Mobile-app daily status export")
	f.StringArrayVar(&o.gridFiles, "grid", nil, "Biometric monthly grid (repeatable)")
	f.StringVar(&o.leaves, "leaves", "", "Leave registry sheet (employee_id, employee_name, date or weekday, reason)")
	f.StringVar(&o.date, "date", "", "Audit a single day (YYYY-MM-DD)")
	f.StringVar(&o.from, "from", "", "First day of the window (YYYY-MM-DD)")
	f.StringVar(&o.to, "to", "", "Last day of the window (YYYY-MM-DD)")
	f.StringVar(&o.appDate, "app-date", "", "Report date for app and grid exports that carry none (YYYY-MM-DD)")
	f.StringVar(&o.search, "search", "", "Only show rows whose name or ID matches")
	f.StringVar(&o.cutoff, "cutoff", "", "Lateness cutoff HH:MM (overrides AUDIT_CUTOFF_TIME)")
	f.StringVar(&o.format, "format", formatTable, "Output format: table, json, xlsx, pdf")
	f.StringVarP(&o.out, "out", "o", "", "Write output to this file instead of stdout")
	f.StringVar(&o.pdfFont, "pdf-font", "", "TrueType font for PDF output (overrides EXPORT_PDF_FONT)")
	cmd.MarkFlagsMutuallyExclusive("date", "from")
	cmd.MarkFlagsMutuallyExclusive("date", "to")
	cmd.MarkFlagsRequiredTogether("from", "to")

	return cmd
}

func (o *runOptions) run(ctx context.Context, stdout io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if o.cutoff != "" {
		cfg.Audit.CutoffTime = o.cutoff
	}
	if o.pdfFont != "" {
		cfg.Export.PDFFontPath = o.pdfFont
	}
	opts, err := cfg.AuditOptions()
	if err != nil {
		return err
	}

	req := audit.AuditRequest{
		Date:          o.date,
		StartDate:     o.from,
		EndDate:       o.to,
		AppReportDate: o.appDate,
		Search:        o.search,
	}
	if o.format != formatTable {
		req.Format = o.format
	}
	window, err := req.Validate()
	if err != nil {
		return err
	}

	registry := memory.NewLeaveRecordRepository()
	if o.leaves != "" {
		if err := loadLeaves(ctx, registry, o.leaves, opts); err != nil {
			return err
		}
	}
	registry.Freeze()

	reportDate := window.End
	if o.appDate != "" {
		reportDate, _ = validator.IsValidDate(o.appDate)
	}

	sources, err := auditService.LoadSources(ctx, o.uploads(opts.AppSourceName, reportDate))
	if err != nil {
		return err
	}

	report, err := auditService.NewAuditService(registry, opts).Run(ctx, audit.RunRequest{
		Sources: sources,
		Window:  window,
		Search:  o.search,
	})
	if err != nil {
		return err
	}

	write := func(w io.Writer) error {
		return writeReport(w, o.format, report, cfg.Export.PDFFontPath)
	}
	if o.out == "" {
		if err := write(stdout); err != nil {
			return fmt.Errorf("write %s: %w", o.format, err)
		}
		return nil
	}

	file, err := os.Create(o.out)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	if err := writeAndClose(file, write); err != nil {
		return fmt.Errorf("write %s: %w", o.format, err)
	}
	slog.Info("Report written", "path", o.out, "rows", len(report.Rows))
	return nil
}

func (o *runOptions) uploads(appName string, reportDate time.Time) []auditService.Upload {
	var uploads []auditService.Upload
	add := func(kind attendance.SourceKind, paths []string) {
		for i, p := range paths {
			u := auditService.Upload{
				Name:     auditService.SourceName(kind, i, len(paths), appName),
				Kind:     kind,
				Filename: filepath.Base(p),
				Open:     func() (io.ReadCloser, error) { return os.Open(p) },
			}
			if kind != attendance.SourceKindGateLog {
				u.ReportDate = &reportDate
			}
			uploads = append(uploads, u)
		}
	}
	add(attendance.SourceKindGateLog, o.gateFiles)
	if o.appFile != "" {
		add(attendance.SourceKindStatusExport, []string{o.appFile})
	}
	add(attendance.SourceKindMonthlyGrid, o.gridFiles)
	return uploads
}

// loadLeaves fills the registry from a sheet. Unusable rows are skipped with
// a warning, matching what a registry import would do.
func loadLeaves(ctx context.Context, registry *memory.LeaveRecordRepository, path string, weekdays leaveService.WeekdayResolver) error {
	wb, err := spreadsheet.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read leave registry: %w", err)
	}
	records, skipped, err := leaveService.ParseSheet(wb, weekdays)
	if err != nil {
		return fmt.Errorf("read leave registry: %w", err)
	}
	for _, s := range skipped {
		slog.Warn("Skipped leave row", "file", path, "row", s.Row, "reason", s.Reason)
	}
	batch := make([]leave.Record, len(records))
	for i, r := range records {
		batch[i] = r.Record
	}
	if _, err := registry.CreateBatch(ctx, batch); err != nil {
		return fmt.Errorf("load leave registry: %w", err)
	}
	slog.Debug("Loaded leave registry", "file", path, "records", len(records), "skipped", len(skipped))
	return nil
}

func writeReport(w io.Writer, format string, report audit.Report, fontPath string) error {
	switch format {
	case audit.FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(audit.NewReportResponse(report))
	case audit.FormatXLSX:
		return export.WriteXLSX(w, report)
	case audit.FormatPDF:
		return export.WritePDF(w, report, export.PDFOptions{FontPath: fontPath})
	default:
		return export.WriteTable(w, report)
	}
}

// writeAndClose closes wc even when write fails; a failed close means the
// output may be truncated and is reported.
func writeAndClose(wc io.WriteCloser, write func(io.Writer) error) error {
	err := write(wc)
	if cerr := wc.Close(); cerr != nil && err == nil {
		err = fmt.Errorf("close output: %w", cerr)
	}
	return err
}
