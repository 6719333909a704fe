package file

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/alturath/hr-audit/internal/domain/attendance"
	"github.com/alturath/hr-audit/internal/pkg/storage"
	"github.com/google/uuid"
)

var ErrUnsupportedFileType = errors.New("unsupported file type")

var allowedSourceExts = []string{".xlsx", ".xls", ".csv", ".htm", ".html", ".txt"}

type FileService interface {
	// ArchiveSource stores an uploaded attendance source under
	// uploads/<date>/<uuid><ext>
	ArchiveSource(ctx context.Context, day time.Time, file io.Reader, filename string) (string, error)

	// SaveReport stores a generated report under reports/
	SaveReport(ctx context.Context, name string, file io.Reader) (string, error)

	// ReportExists reports whether a report of that name was saved
	ReportExists(ctx context.Context, name string) (bool, error)

	// InboxFiles lists files waiting in inbox/<kind dir>/
	InboxFiles(ctx context.Context, kind attendance.SourceKind) ([]string, error)

	// Open opens a stored file
	Open(ctx context.Context, path string) (io.ReadCloser, error)
}

type fileServiceImpl struct {
	storage storage.FileStorage
}

func NewFileService(storage storage.FileStorage) FileService {
	return &fileServiceImpl{
		storage: storage,
	}
}

// InboxDir is the inbox directory polled for a source kind.
func InboxDir(kind attendance.SourceKind) string {
	switch kind {
	case attendance.SourceKindGateLog:
		return "inbox/gate"
	case attendance.SourceKindStatusExport:
		return "inbox/app"
	case attendance.SourceKindMonthlyGrid:
		return "inbox/grid"
	}
	return "inbox/" + string(kind)
}

// ArchiveSource uploads an attendance source file.
func (s *fileServiceImpl) ArchiveSource(ctx context.Context, day time.Time, file io.Reader, filename string) (string, error) {
	ext := strings.ToLower(path.Ext(filename))
	if !isAllowed(ext) {
		return "", fmt.Errorf("%w %q: only %s allowed", ErrUnsupportedFileType, ext, strings.Join(allowedSourceExts, ", "))
	}

	p := path.Join("uploads", day.Format("2006-01-02"), uuid.New().String()+ext)
	uploadedPath, err := s.storage.Upload(ctx, file, p)
	if err != nil {
		return "", fmt.Errorf("failed to archive source: %w", err)
	}
	return uploadedPath, nil
}

// SaveReport uploads a generated report.
func (s *fileServiceImpl) SaveReport(ctx context.Context, name string, file io.Reader) (string, error) {
	uploadedPath, err := s.storage.Upload(ctx, file, path.Join("reports", path.Base(name)))
	if err != nil {
		return "", fmt.Errorf("failed to save report: %w", err)
	}
	return uploadedPath, nil
}

func (s *fileServiceImpl) ReportExists(ctx context.Context, name string) (bool, error) {
	return s.storage.Exists(ctx, path.Join("reports", path.Base(name)))
}

// InboxFiles lists source files of a kind waiting in the inbox.
func (s *fileServiceImpl) InboxFiles(ctx context.Context, kind attendance.SourceKind) ([]string, error) {
	files, err := s.storage.List(ctx, InboxDir(kind))
	if err != nil {
		return nil, err
	}
	out := files[:0]
	for _, f := range files {
		if isAllowed(strings.ToLower(path.Ext(f))) {
			out = append(out, f)
		}
	}
	return out, nil
}

func (s *fileServiceImpl) Open(ctx context.Context, p string) (io.ReadCloser, error) {
	return s.storage.Download(ctx, p)
}

func isAllowed(ext string) bool {
	for _, allowed := range allowedSourceExts {
		if ext == allowed {
			return true
		}
	}
	return false
}
