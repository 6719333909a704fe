package audit

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/alturath/hr-audit/internal/domain/attendance"
	"github.com/alturath/hr-audit/internal/pkg/spreadsheet"
	"golang.org/x/sync/errgroup"
)

// maxParallelReads bounds concurrent workbook parsing.
const maxParallelReads = 4

// Upload is one source file awaiting parsing.
type Upload struct {
	Name       string
	Kind       attendance.SourceKind
	Filename   string
	ReportDate *time.Time
	Open       func() (io.ReadCloser, error)
}

// LoadSources parses uploads into workbooks concurrently. A file that cannot
// be read, or whose kind is unknown, becomes a source carrying Err rather than failing the whole load;
// only context cancellation is returned as an error. Output order follows
// input order.
func LoadSources(ctx context.Context, uploads []Upload) ([]attendance.RawSource, error) {
	sources := make([]attendance.RawSource, len(uploads))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelReads)
	for i, u := range uploads {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			src := attendance.RawSource{Name: u.Name, Kind: u.Kind, ReportDate: u.ReportDate}
			if !u.Kind.Valid() {
				src.Err = &attendance.SourceFormatError{Source: u.Name, Element: "source kind " + string(u.Kind)}
				sources[i] = src
				return nil
			}
			wb, err := readUpload(u)
			if err != nil {
				src.Err = &attendance.SourceFormatError{Source: u.Name, Element: "file " + u.Filename, Err: err}
			}
			src.Workbook = wb
			sources[i] = src
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return sources, nil
}

func readUpload(u Upload) (spreadsheet.Workbook, error) {
	if u.Open == nil {
		return spreadsheet.Workbook{}, errors.New("no content")
	}
	rc, err := u.Open()
	if err != nil {
		return spreadsheet.Workbook{}, err
	}
	defer rc.Close()
	return spreadsheet.Read(rc, u.Filename)
}

// SourceName tags the index-th of total uploads of a kind. Names are stable
// for a given upload layout, so diagnostics line up across runs.
func SourceName(kind attendance.SourceKind, index, total int, appName string) string {
	var base string
	switch kind {
	case attendance.SourceKindGateLog:
		base = "Gate"
	case attendance.SourceKindStatusExport:
		base = appName
	case attendance.SourceKindMonthlyGrid:
		base = "Biometric Grid"
	default:
		base = string(kind)
	}
	if total <= 1 {
		return base
	}
	return fmt.Sprintf("%s %d", base, index+1)
}
