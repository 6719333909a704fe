package audit

import (
	"fmt"
	"time"

	"github.com/alturath/hr-audit/internal/pkg/validator"
)

// ========================================
// AUDIT REQUEST
// ========================================

const (
	FormatJSON = "json"
	FormatXLSX = "xlsx"
	FormatPDF  = "pdf"
)

// AuditRequest carries the window and display options of an audit. Either
// Date or both StartDate and EndDate are given.
type AuditRequest struct {
	Date          string `json:"date,omitempty"`       // YYYY-MM-DD
	StartDate     string `json:"start_date,omitempty"` // YYYY-MM-DD
	EndDate       string `json:"end_date,omitempty"`   // YYYY-MM-DD
	AppReportDate string `json:"app_report_date,omitempty"`
	Search        string `json:"search,omitempty"`
	Format        string `json:"format,omitempty"` // json, xlsx, pdf
}

// Window is an inclusive range of civil dates.
type Window struct {
	Start time.Time
	End   time.Time
}

// Days counts the dates in the window.
func (w Window) Days() int {
	return int(w.End.Sub(w.Start).Hours()/24) + 1
}

// Validate checks the request and returns the parsed window.
func (r *AuditRequest) Validate() (Window, error) {
	var errs validator.ValidationErrors
	var window Window

	if r.Format == "" {
		r.Format = FormatJSON
	}
	if !validator.IsInSlice(r.Format, []string{FormatJSON, FormatXLSX, FormatPDF}) {
		errs = append(errs, validator.ValidationError{
			Field:   "format",
			Message: "format must be one of: json, xlsx, pdf",
		})
	}

	switch {
	case r.Date != "":
		if r.StartDate != "" || r.EndDate != "" {
			errs = append(errs, validator.ValidationError{
				Field:   "date",
				Message: "provide either date or start_date/end_date, not both",
			})
			break
		}
		d, valid := validator.IsValidDate(r.Date)
		if !valid {
			errs = append(errs, validator.ValidationError{
				Field:   "date",
				Message: "date must be in YYYY-MM-DD format",
			})
		}
		window = Window{Start: d, End: d}
	case r.StartDate != "" || r.EndDate != "":
		start, validStart := validator.IsValidDate(r.StartDate)
		if !validStart {
			errs = append(errs, validator.ValidationError{
				Field:   "start_date",
				Message: "start_date must be in YYYY-MM-DD format",
			})
		}
		end, validEnd := validator.IsValidDate(r.EndDate)
		if !validEnd {
			errs = append(errs, validator.ValidationError{
				Field:   "end_date",
				Message: "end_date must be in YYYY-MM-DD format",
			})
		}
		if validStart && validEnd && end.Before(start) {
			errs = append(errs, validator.ValidationError{
				Field:   "end_date",
				Message: "end_date must not be before start_date",
			})
		}
		window = Window{Start: start, End: end}
	default:
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date or start_date/end_date is required",
		})
	}

	if r.AppReportDate != "" {
		if _, valid := validator.IsValidDate(r.AppReportDate); !valid {
			errs = append(errs, validator.ValidationError{
				Field:   "app_report_date",
				Message: "app_report_date must be in YYYY-MM-DD format",
			})
		}
	}

	if len(r.Search) > 100 {
		errs = append(errs, validator.ValidationError{
			Field:   "search",
			Message: "search must not exceed 100 characters",
		})
	}

	if len(errs) > 0 {
		return Window{}, errs
	}
	return window, nil
}

// ValidateWindowLength rejects windows longer than maxDays.
func ValidateWindowLength(w Window, maxDays int) error {
	if w.End.Before(w.Start) {
		return fmt.Errorf("%w: end before start", ErrInvalidWindow)
	}
	if w.Days() > maxDays {
		return validator.ValidationErrors{{
			Field:   "end_date",
			Message: fmt.Sprintf("audit window must not exceed %d days", maxDays),
		}}
	}
	return nil
}

// ========================================
// REPORT RESPONSE
// ========================================

type ReportResponse struct {
	WindowStart    string                  `json:"window_start"`
	WindowEnd      string                  `json:"window_end"`
	GeneratedAt    string                  `json:"generated_at"`
	Cutoff         string                  `json:"cutoff"`
	Search         string                  `json:"search,omitempty"`
	TotalRows      int                     `json:"total_rows"`
	Rows           []VerdictResponse       `json:"rows"`
	Summary        SummaryResponse         `json:"summary"`
	Sources        []SourceStatResponse    `json:"sources"`
	Diagnostics    map[string]int          `json:"diagnostics"`
	Unavailable    []SourceFailureResponse `json:"unavailable,omitempty"`
	AmbiguousNames []string                `json:"ambiguous_names,omitempty"`
}

type VerdictResponse struct {
	EmployeeKey  string  `json:"employee_key"`
	EmployeeID   string  `json:"employee_id,omitempty"`
	EmployeeName string  `json:"employee_name"`
	Date         string  `json:"date"`
	Status       string  `json:"status"`
	Compliance   string  `json:"compliance"`
	Reason       string  `json:"reason,omitempty"`
	CheckIn      *string `json:"check_in,omitempty"`
	CheckOut     *string `json:"check_out,omitempty"`
	Source       string  `json:"source,omitempty"`
}

type SummaryResponse struct {
	TotalRecords       int                     `json:"total_records"`
	Present            int                     `json:"present"`
	OnTime             int                     `json:"on_time"`
	Late               int                     `json:"late"`
	LatePercent        float64                 `json:"late_percent"`
	AuthorizedAbsence  int                     `json:"authorized_absence"`
	UnexplainedAbsence int                     `json:"unexplained_absence"`
	StaffCount         int                     `json:"staff_count"`
	BySource           []SourceSummaryResponse `json:"by_source"`
}

type SourceSummaryResponse struct {
	Source string `json:"source"`
	OnTime int    `json:"on_time"`
	Late   int    `json:"late"`
}

type SourceStatResponse struct {
	Name    string `json:"name"`
	Kind    string `json:"kind"`
	Events  int    `json:"events"`
	Dropped int    `json:"dropped"`
}

type SourceFailureResponse struct {
	Source string `json:"source"`
	Kind   string `json:"kind"`
	Error  string `json:"error"`
}

func NewReportResponse(r Report) ReportResponse {
	resp := ReportResponse{
		WindowStart:    r.WindowStart.Format("2006-01-02"),
		WindowEnd:      r.WindowEnd.Format("2006-01-02"),
		GeneratedAt:    r.GeneratedAt.Format(time.RFC3339),
		Cutoff:         r.Cutoff.String(),
		Search:         r.Search,
		TotalRows:      r.TotalRows,
		Rows:           make([]VerdictResponse, 0, len(r.Rows)),
		Diagnostics:    r.Diagnostics,
		AmbiguousNames: r.AmbiguousNames,
		Summary: SummaryResponse{
			TotalRecords:       r.Summary.TotalRecords,
			Present:            r.Summary.Present,
			OnTime:             r.Summary.OnTime,
			Late:               r.Summary.Late,
			LatePercent:        r.Summary.LatePercent,
			AuthorizedAbsence:  r.Summary.AuthorizedAbsence,
			UnexplainedAbsence: r.Summary.UnexplainedAbsence,
			StaffCount:         r.Summary.StaffCount,
			BySource:           make([]SourceSummaryResponse, 0, len(r.Summary.BySource)),
		},
		Sources: make([]SourceStatResponse, 0, len(r.Sources)),
	}
	if resp.Diagnostics == nil {
		resp.Diagnostics = map[string]int{}
	}

	for _, v := range r.Rows {
		row := VerdictResponse{
			EmployeeKey:  v.EmployeeKey,
			EmployeeID:   v.EmployeeID,
			EmployeeName: v.EmployeeName,
			Date:         v.Date.Format("2006-01-02"),
			Status:       string(v.Status),
			Compliance:   string(v.Compliance),
			Reason:       v.Reason,
			Source:       v.Source,
		}
		if v.CheckIn != nil {
			s := v.CheckIn.String()
			row.CheckIn = &s
		}
		if v.CheckOut != nil {
			s := v.CheckOut.String()
			row.CheckOut = &s
		}
		resp.Rows = append(resp.Rows, row)
	}

	for _, s := range r.Summary.BySource {
		resp.Summary.BySource = append(resp.Summary.BySource, SourceSummaryResponse{Source: s.Source, OnTime: s.OnTime, Late: s.Late})
	}
	for _, s := range r.Sources {
		resp.Sources = append(resp.Sources, SourceStatResponse{Name: s.Name, Kind: s.Kind, Events: s.Events, Dropped: s.Dropped})
	}
	for _, f := range r.Unavailable {
		resp.Unavailable = append(resp.Unavailable, SourceFailureResponse{Source: f.Source, Kind: f.Kind, Error: f.Error})
	}

	return resp
}
