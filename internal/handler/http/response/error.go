package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/alturath/hr-audit/internal/domain/audit"
	"github.com/alturath/hr-audit/internal/domain/leave"
	"github.com/alturath/hr-audit/internal/pkg/spreadsheet"
	"github.com/alturath/hr-audit/internal/pkg/validator"
	"github.com/alturath/hr-audit/internal/service/file"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	var cfgErr *audit.ConfigurationError
	if errors.As(err, &cfgErr) {
		ValidationError(w, map[string]string{cfgErr.Option: cfgErr.Reason})
		return
	}

	switch {
	// Audit domain errors
	case errors.Is(err, audit.ErrInvalidWindow):
		BadRequest(w, err.Error(), nil)

	// Leave domain errors
	case errors.Is(err, leave.ErrUnknownWeekday):
		ValidationError(w, map[string]string{"weekday": err.Error()})
	case errors.Is(err, leave.ErrInvalidLeaveRecord):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, leave.ErrRegistryReadOnly):
		Conflict(w, "Leave registry is read-only")

	// Upload errors
	case errors.Is(err, file.ErrUnsupportedFileType), errors.Is(err, spreadsheet.ErrUnsupportedFormat),
		errors.Is(err, spreadsheet.ErrEmptyWorkbook):
		BadRequest(w, err.Error(), nil)

	// Default
	default:
		slog.Error("Unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
