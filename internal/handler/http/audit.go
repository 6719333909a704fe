package http

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/alturath/hr-audit/internal/domain/attendance"
	"github.com/alturath/hr-audit/internal/domain/audit"
	"github.com/alturath/hr-audit/internal/handler/http/response"
	"github.com/alturath/hr-audit/internal/pkg/export"
	"github.com/alturath/hr-audit/internal/pkg/validator"
	auditsvc "github.com/alturath/hr-audit/internal/service/audit"
	"github.com/alturath/hr-audit/internal/service/file"
)

const (
	maxUploadMemory = 32 << 20

	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	contentTypePDF  = "application/pdf"
)

// Multipart fields carrying source files, by kind.
var sourceFields = []struct {
	kind   attendance.SourceKind
	fields []string
}{
	{attendance.SourceKindGateLog, []string{"gate_files", "gate_files[]"}},
	{attendance.SourceKindStatusExport, []string{"app_file"}},
	{attendance.SourceKindMonthlyGrid, []string{"grid_files", "grid_files[]"}},
}

type AuditHandler interface {
	Run(w http.ResponseWriter, r *http.Request)
}

type AuditHandlerImpl struct {
	auditService audit.AuditService
	fileService  file.FileService
	pdfOptions   export.PDFOptions
}

// Run implements AuditHandler.
func (h *AuditHandlerImpl) Run(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		slog.Error("Failed to parse multipart form", "error", err)
		response.BadRequest(w, "Failed to parse form data", nil)
		return
	}

	req := audit.AuditRequest{
		Date:          r.FormValue("date"),
		StartDate:     r.FormValue("start_date"),
		EndDate:       r.FormValue("end_date"),
		AppReportDate: r.FormValue("app_report_date"),
		Search:        r.FormValue("search"),
		Format:        r.FormValue("format"),
	}
	window, err := req.Validate()
	if err != nil {
		response.HandleError(w, err)
		return
	}

	reportDate := window.End
	if req.AppReportDate != "" {
		reportDate, _ = validator.IsValidDate(req.AppReportDate)
	}

	uploads, err := h.collectUploads(r, window.Start, reportDate)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	sources, err := auditsvc.LoadSources(ctx, uploads)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	report, err := h.auditService.Run(ctx, audit.RunRequest{
		Sources: sources,
		Window:  window,
		Search:  req.Search,
	})
	if err != nil {
		response.HandleError(w, err)
		return
	}

	var buf bytes.Buffer
	switch req.Format {
	case audit.FormatXLSX:
		if err := export.WriteXLSX(&buf, report); err != nil {
			response.HandleError(w, err)
			return
		}
		response.Attachment(w, contentTypeXLSX, reportFilename(window, "xlsx"), buf.Bytes())
	case audit.FormatPDF:
		if err := export.WritePDF(&buf, report, h.pdfOptions); err != nil {
			response.HandleError(w, err)
			return
		}
		response.Attachment(w, contentTypePDF, reportFilename(window, "pdf"), buf.Bytes())
	default:
		response.Success(w, audit.NewReportResponse(report))
	}
}

// collectUploads archives every uploaded source and names it for the run.
func (h *AuditHandlerImpl) collectUploads(r *http.Request, day, reportDate time.Time) ([]auditsvc.Upload, error) {
	appName := h.auditService.Options().AppSourceName

	var uploads []auditsvc.Upload
	for _, sf := range sourceFields {
		var headers []*multipart.FileHeader
		for _, field := range sf.fields {
			headers = append(headers, r.MultipartForm.File[field]...)
		}
		for i, fh := range headers {
			if err := h.archive(r, day, fh); err != nil {
				return nil, err
			}
			u := auditsvc.Upload{
				Name:     auditsvc.SourceName(sf.kind, i, len(headers), appName),
				Kind:     sf.kind,
				Filename: fh.Filename,
				Open:     func() (io.ReadCloser, error) { return fh.Open() },
			}
			if sf.kind != attendance.SourceKindGateLog {
				u.ReportDate = &reportDate
			}
			uploads = append(uploads, u)
		}
	}
	return uploads, nil
}

func (h *AuditHandlerImpl) archive(r *http.Request, day time.Time, fh *multipart.FileHeader) error {
	f, err := fh.Open()
	if err != nil {
		return fmt.Errorf("open upload %s: %w", fh.Filename, err)
	}
	defer f.Close()

	path, err := h.fileService.ArchiveSource(r.Context(), day, f, fh.Filename)
	if err != nil {
		return err
	}
	slog.Debug("Archived source upload", "filename", fh.Filename, "path", path)
	return nil
}

func reportFilename(w audit.Window, ext string) string {
	if w.Start.Equal(w.End) {
		return fmt.Sprintf("audit-%s.%s", w.Start.Format(time.DateOnly), ext)
	}
	return fmt.Sprintf("audit-%s_%s.%s", w.Start.Format(time.DateOnly), w.End.Format(time.DateOnly), ext)
}

func NewAuditHandler(auditService audit.AuditService, fileService file.FileService, pdfOptions export.PDFOptions) AuditHandler {
	return &AuditHandlerImpl{
		auditService: auditService,
		fileService:  fileService,
		pdfOptions:   pdfOptions,
	}
}
