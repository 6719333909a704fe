package audit

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/alturath/hr-audit/internal/domain/attendance"
	"github.com/alturath/hr-audit/internal/domain/audit"
	"github.com/alturath/hr-audit/internal/domain/leave"
	"github.com/alturath/hr-audit/internal/service/normalize"
	"github.com/alturath/hr-audit/internal/service/reconcile"
)

type AuditServiceImpl struct {
	registry    leave.Registry
	normalizers normalize.Set
	opts        audit.Options
	now         func() time.Time
}

func NewAuditService(registry leave.Registry, opts audit.Options) audit.AuditService {
	return &AuditServiceImpl{
		registry:    registry,
		normalizers: normalize.NewSet(opts),
		opts:        opts,
		now:         time.Now,
	}
}

// Options implements audit.AuditService.
func (s *AuditServiceImpl) Options() audit.Options {
	return s.opts
}

// Run implements audit.AuditService.
func (s *AuditServiceImpl) Run(ctx context.Context, req audit.RunRequest) (audit.Report, error) {
	if err := audit.ValidateWindowLength(req.Window, s.opts.MaxWindowDays); err != nil {
		return audit.Report{}, err
	}

	records, err := s.registry.ListRecords(ctx, req.Window.Start, req.Window.End)
	if err != nil {
		return audit.Report{}, fmt.Errorf("failed to list leave records: %w", err)
	}

	report := audit.Report{
		WindowStart: req.Window.Start,
		WindowEnd:   req.Window.End,
		GeneratedAt: s.now(),
		Cutoff:      s.opts.Cutoff,
		Search:      req.Search,
		Diagnostics: make(map[string]int),
	}

	var events []attendance.Event
	for _, src := range req.Sources {
		normalized, err := s.normalize(src)
		if err != nil {
			slog.Warn("Source unavailable for audit run", "source", src.Name, "kind", src.Kind, "error", err)
			report.Unavailable = append(report.Unavailable, audit.SourceFailure{
				Source: src.Name,
				Kind:   string(src.Kind),
				Error:  err.Error(),
			})
			continue
		}

		slog.Info("Normalized source", "source", src.Name, "kind", src.Kind, "events", len(normalized.Events), "dropped", normalized.Dropped)
		for _, p := range normalized.Problems {
			slog.Debug("Dropped row", "source", p.Source, "sheet", p.Sheet, "row", p.Row, "field", p.Field, "reason", p.Reason)
		}
		report.Diagnostics[src.Name] += normalized.Dropped
		report.Sources = append(report.Sources, audit.SourceStat{
			Name:    src.Name,
			Kind:    string(src.Kind),
			Events:  len(normalized.Events),
			Dropped: normalized.Dropped,
		})
		events = append(events, normalized.Events...)
	}

	out := reconcile.Run(reconcile.Input{
		Events:  events,
		Leaves:  records,
		Window:  req.Window,
		Options: s.opts,
	})
	for origin, n := range out.Diagnostics {
		report.Diagnostics[origin] += n
	}
	report.AmbiguousNames = out.AmbiguousNames
	if len(out.AmbiguousNames) > 0 {
		slog.Warn("Display names shared by several employee IDs", "names", out.AmbiguousNames)
	}

	report.Rows, report.Summary = reconcile.Assemble(out.Verdicts, req.Search)
	report.TotalRows = len(out.Verdicts)

	slog.Info("Audit run finished",
		"start", req.Window.Start.Format(time.DateOnly),
		"end", req.Window.End.Format(time.DateOnly),
		"verdicts", report.TotalRows,
		"unexplained", report.Summary.UnexplainedAbsence,
		"unavailable_sources", len(report.Unavailable),
	)
	return report, nil
}

// normalize runs the source's normalizer. Every failure comes back as a
// *attendance.SourceFormatError so the caller can drop just this source.
func (s *AuditServiceImpl) normalize(src attendance.RawSource) (attendance.Normalized, error) {
	if src.Err != nil {
		var sfe *attendance.SourceFormatError
		if errors.As(src.Err, &sfe) {
			return attendance.Normalized{}, sfe
		}
		return attendance.Normalized{}, &attendance.SourceFormatError{Source: src.Name, Element: "file", Err: src.Err}
	}

	n := s.normalizers.For(src.Kind)
	if n == nil {
		return attendance.Normalized{}, &attendance.SourceFormatError{
			Source:  src.Name,
			Element: "source kind",
			Err:     fmt.Errorf("unsupported kind %q", src.Kind),
		}
	}
	return n.Normalize(src)
}
