package cron

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"path"
	"time"

	"github.com/alturath/hr-audit/internal/domain/attendance"
	"github.com/alturath/hr-audit/internal/domain/audit"
	"github.com/alturath/hr-audit/internal/pkg/clock"
	"github.com/alturath/hr-audit/internal/pkg/export"
	auditsvc "github.com/alturath/hr-audit/internal/service/audit"
	"github.com/alturath/hr-audit/internal/service/file"
)

type AuditJobs struct {
	auditService audit.AuditService
	fileService  file.FileService
	now          func() time.Time
}

func NewAuditJobs(auditService audit.AuditService, fileService file.FileService) *AuditJobs {
	return &AuditJobs{
		auditService: auditService,
		fileService:  fileService,
		now:          time.Now,
	}
}

func (j *AuditJobs) RegisterJobs(scheduler *Scheduler, interval time.Duration) {
	scheduler.AddJob("inbox_audit", interval, j.AuditInbox)
}

// ReportName is the saved report for an audited day.
func ReportName(day time.Time) string {
	return "audit-" + day.Format("2006-01-02") + ".xlsx"
}

// AuditInbox audits the previous day from the files in the inbox and saves
// the workbook. A day already reported is skipped, so the job runs once per
// day however often it ticks.
func (j *AuditJobs) AuditInbox(ctx context.Context) error {
	day := clock.Day(j.now()).AddDate(0, 0, -1)
	name := ReportName(day)

	done, err := j.fileService.ReportExists(ctx, name)
	if err != nil {
		return fmt.Errorf("check report %s: %w", name, err)
	}
	if done {
		return nil
	}

	uploads, err := j.inboxUploads(ctx, day)
	if err != nil {
		return err
	}
	if len(uploads) == 0 {
		slog.Debug("Cron: inbox empty, nothing to audit", "day", day.Format(time.DateOnly))
		return nil
	}

	slog.Info("Cron: starting inbox audit", "day", day.Format(time.DateOnly), "files", len(uploads))
	sources, err := auditsvc.LoadSources(ctx, uploads)
	if err != nil {
		return err
	}
	report, err := j.auditService.Run(ctx, audit.RunRequest{
		Sources: sources,
		Window:  audit.Window{Start: day, End: day},
	})
	if err != nil {
		return fmt.Errorf("audit %s: %w", day.Format(time.DateOnly), err)
	}

	var buf bytes.Buffer
	if err := export.WriteXLSX(&buf, report); err != nil {
		return err
	}
	saved, err := j.fileService.SaveReport(ctx, name, &buf)
	if err != nil {
		return err
	}

	slog.Info("Cron: inbox audit saved",
		"report", saved,
		"verdicts", report.TotalRows,
		"unexplained", report.Summary.UnexplainedAbsence,
		"unavailable_sources", len(report.Unavailable),
	)
	return nil
}

func (j *AuditJobs) inboxUploads(ctx context.Context, day time.Time) ([]auditsvc.Upload, error) {
	appName := j.auditService.Options().AppSourceName
	var uploads []auditsvc.Upload
	for _, kind := range []attendance.SourceKind{
		attendance.SourceKindGateLog,
		attendance.SourceKindStatusExport,
		attendance.SourceKindMonthlyGrid,
	} {
		files, err := j.fileService.InboxFiles(ctx, kind)
		if err != nil {
			return nil, fmt.Errorf("list inbox %s: %w", kind, err)
		}
		for i, p := range files {
			u := auditsvc.Upload{
				Name:     auditsvc.SourceName(kind, i, len(files), appName),
				Kind:     kind,
				Filename: path.Base(p),
				Open: func() (io.ReadCloser, error) {
					return j.fileService.Open(ctx, p)
				},
			}
			if kind != attendance.SourceKindGateLog {
				u.ReportDate = &day
			}
			uploads = append(uploads, u)
		}
	}
	return uploads, nil
}
