package leave

import (
	"strings"
	"time"
)

// Kind distinguishes the two ways a record matches an audited day.
type Kind string

const (
	KindDate    Kind = "date"
	KindWeekly  Kind = "weekly"
	KindInvalid Kind = "invalid"
)

// Record is one authorised-absence entry. Exactly one of Date and Weekday is
// set: Date for a one-off leave, Weekday (a label such as "Friday" or
// "الجمعة") for a recurring weekly day off.
type Record struct {
	ID           string
	EmployeeID   string
	EmployeeName string
	Date         *time.Time
	Weekday      string
	Reason       string
	CreatedAt    time.Time
}

func (r Record) Kind() Kind {
	hasDate := r.Date != nil && !r.Date.IsZero()
	hasWeekday := strings.TrimSpace(r.Weekday) != ""
	switch {
	case hasDate && !hasWeekday:
		return KindDate
	case hasWeekday && !hasDate:
		return KindWeekly
	default:
		return KindInvalid
	}
}

// HasIdentity reports whether the record names an employee at all.
func (r Record) HasIdentity() bool {
	return strings.TrimSpace(r.EmployeeID) != "" || strings.TrimSpace(r.EmployeeName) != ""
}
