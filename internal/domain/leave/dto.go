package leave

import (
	"strings"
	"time"

	"github.com/alturath/hr-audit/internal/pkg/validator"
)

// ========================================
// REGISTER LEAVE
// ========================================

type RegisterLeaveRequest struct {
	EmployeeID   string `json:"employee_id"`
	EmployeeName string `json:"employee_name"`
	Date         string `json:"date,omitempty"`    // YYYY-MM-DD
	Weekday      string `json:"weekday,omitempty"` // e.g. Friday, الجمعة
	Reason       string `json:"reason"`
}

func (r *RegisterLeaveRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) && validator.IsEmpty(r.EmployeeName) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id or employee_name is required",
		})
	} else if !validator.IsEmpty(r.EmployeeID) && !validator.IsValidEmployeeID(strings.TrimSpace(r.EmployeeID)) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id may contain only letters, digits and . _ / -",
		})
	}

	hasDate := !validator.IsEmpty(r.Date)
	hasWeekday := !validator.IsEmpty(r.Weekday)
	switch {
	case hasDate && hasWeekday:
		errs = append(errs, validator.ValidationError{
			Field:   "weekday",
			Message: "provide either date or weekday, not both",
		})
	case !hasDate && !hasWeekday:
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date or weekday is required",
		})
	case hasDate:
		if _, valid := validator.IsValidDate(r.Date); !valid {
			errs = append(errs, validator.ValidationError{
				Field:   "date",
				Message: "date must be in YYYY-MM-DD format",
			})
		}
	}

	if len(r.Reason) > 255 {
		errs = append(errs, validator.ValidationError{
			Field:   "reason",
			Message: "reason must not exceed 255 characters",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ========================================
// LIST LEAVES
// ========================================

type ListLeaveRequest struct {
	StartDate string `json:"start_date"` // YYYY-MM-DD
	EndDate   string `json:"end_date"`   // YYYY-MM-DD
}

// Validate checks the range and returns it parsed.
func (r *ListLeaveRequest) Validate() (time.Time, time.Time, error) {
	var errs validator.ValidationErrors

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

	if len(errs) > 0 {
		return time.Time{}, time.Time{}, errs
	}
	return start, end, nil
}

type LeaveRecordResponse struct {
	ID           string  `json:"id"`
	EmployeeID   string  `json:"employee_id,omitempty"`
	EmployeeName string  `json:"employee_name,omitempty"`
	Date         *string `json:"date,omitempty"`
	Weekday      *string `json:"weekday,omitempty"`
	Reason       string  `json:"reason"`
	CreatedAt    string  `json:"created_at"`
}

func NewLeaveRecordResponse(r Record) LeaveRecordResponse {
	resp := LeaveRecordResponse{
		ID:           r.ID,
		EmployeeID:   r.EmployeeID,
		EmployeeName: r.EmployeeName,
		Reason:       r.Reason,
		CreatedAt:    r.CreatedAt.Format(time.RFC3339),
	}
	if r.Date != nil {
		d := r.Date.Format("2006-01-02")
		resp.Date = &d
	}
	if r.Weekday != "" {
		w := r.Weekday
		resp.Weekday = &w
	}
	return resp
}

// ========================================
// IMPORT
// ========================================

type ImportLeaveResponse struct {
	Imported int               `json:"imported"`
	Skipped  []ImportRowResult `json:"skipped,omitempty"`
}

type ImportRowResult struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}
