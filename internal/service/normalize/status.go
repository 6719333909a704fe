package normalize

import (
	"time"

	"github.com/alturath/hr-audit/internal/domain/attendance"
	"github.com/alturath/hr-audit/internal/pkg/clock"
	"github.com/alturath/hr-audit/internal/pkg/namekey"
	"github.com/alturath/hr-audit/internal/pkg/spreadsheet"
)

// StatusColumns lists accepted header titles per field of a daily status
// export.
type StatusColumns struct {
	ID       []string
	Name     []string
	Status   []string
	CheckIn  []string
	CheckOut []string
	Date     []string
}

var DefaultStatusColumns = StatusColumns{
	ID:       []string{"رقم هوية", "الرقم الوظيفي", "الرقم", "ID", "Employee ID"},
	Name:     []string{"الاسم", "الإسم", "Name", "Employee Name"},
	Status:   []string{"الحالة", "Status"},
	CheckIn:  []string{"دخول", "الدخول", "وقت الدخول", "Check In", "Check-In", "In"},
	CheckOut: []string{"خروج", "الخروج", "وقت الخروج", "Check Out", "Check-Out", "Out"},
	Date:     []string{"التاريخ", "Date"},
}

// StatusExportNormalizer reads the attendance app's daily export: a few rows
// of report metadata, then a header row, then one row per employee.
type StatusExportNormalizer struct {
	columns   StatusColumns
	skipRows  int
	isPresent func(status string) bool
}

func NewStatusExportNormalizer(columns StatusColumns, skipRows int, isPresent func(string) bool) *StatusExportNormalizer {
	return &StatusExportNormalizer{columns: columns, skipRows: skipRows, isPresent: isPresent}
}

func (n *StatusExportNormalizer) Kind() attendance.SourceKind {
	return attendance.SourceKindStatusExport
}

type statusLayout struct {
	id, name, status, in, out, date int
	statusTitle                     string
}

func (n *StatusExportNormalizer) Normalize(src attendance.RawSource) (attendance.Normalized, error) {
	var out attendance.Normalized
	found := false
	var lastErr *attendance.SourceFormatError

	for _, sheet := range src.Workbook.Sheets {
		if isBlankSheet(sheet) {
			continue
		}
		layout, err := n.layout(src.Name, sheet)
		if err != nil {
			lastErr = err
			continue
		}
		sheetDate, hasSheetDate := n.sheetDate(sheet, src.ReportDate)
		if layout.date < 0 && !hasSheetDate {
			lastErr = &attendance.SourceFormatError{Source: src.Name, Element: "report date"}
			continue
		}
		found = true

		for r := n.skipRows + 1; r < len(sheet.Rows); r++ {
			row := sheet.Rows[r]
			if isBlankRow(row) {
				continue
			}
			status := cellAt(row, layout.status)
			if namekey.Fold(status) == layout.statusTitle {
				continue // header repeated on each printed page
			}
			if !n.isPresent(status) {
				continue
			}
			drop := func(field, reason string) {
				out.Drop(attendance.RowParseError{Source: src.Name, Sheet: sheet.Name, Row: r + 1, Field: field, Reason: reason})
			}

			id := attendance.NormalizeEmployeeID(cellAt(row, layout.id))
			name := normalizeName(cellAt(row, layout.name))
			if id == "" && name == "" {
				drop("identity", "no employee id or name")
				continue
			}

			day := sheetDate
			if layout.date >= 0 {
				cell := cellAt(row, layout.date)
				switch d, err := clock.ParseDate(cell); {
				case err == nil:
					day = d
				case !clock.IsBlank(cell) || !hasSheetDate:
					// only a blank cell inherits the sheet date
					drop("date", err.Error())
					continue
				}
			}

			in, err := clock.ParseClock(cellAt(row, layout.in))
			if err != nil {
				drop("check_in", err.Error())
				continue
			}
			out.Events = append(out.Events, attendance.Event{
				EmployeeID: id, EmployeeName: name, Date: day, Time: in, Source: src.Name,
			})
			if layout.out >= 0 {
				if leftAt, err := clock.ParseClock(cellAt(row, layout.out)); err == nil {
					out.Events = append(out.Events, attendance.Event{
						EmployeeID: id, EmployeeName: name, Date: day, Time: leftAt, Source: src.Name,
					})
				}
			}
		}
	}

	if !found {
		if lastErr == nil {
			lastErr = &attendance.SourceFormatError{Source: src.Name, Element: "header row"}
		}
		return attendance.Normalized{}, lastErr
	}
	return out, nil
}

func (n *StatusExportNormalizer) layout(source string, sheet spreadsheet.Sheet) (statusLayout, *attendance.SourceFormatError) {
	if n.skipRows >= len(sheet.Rows) {
		return statusLayout{}, &attendance.SourceFormatError{Source: source, Element: "header row"}
	}
	h := spreadsheet.NewHeader(sheet.Rows[n.skipRows])
	name, hasName := h.Lookup(n.columns.Name...)
	if !hasName {
		return statusLayout{}, &attendance.SourceFormatError{Source: source, Element: "column " + n.columns.Name[0]}
	}
	status, ok := h.Lookup(n.columns.Status...)
	if !ok {
		return statusLayout{}, &attendance.SourceFormatError{Source: source, Element: "column " + n.columns.Status[0]}
	}
	in, ok := h.Lookup(n.columns.CheckIn...)
	if !ok {
		return statusLayout{}, &attendance.SourceFormatError{Source: source, Element: "column " + n.columns.CheckIn[0]}
	}
	id, _ := h.Lookup(n.columns.ID...)
	out, _ := h.Lookup(n.columns.CheckOut...)
	date, _ := h.Lookup(n.columns.Date...)
	return statusLayout{
		id: id, name: name, status: status, in: in, out: out, date: date,
		statusTitle: namekey.Fold(cellAt(sheet.Rows[n.skipRows], status)),
	}, nil
}

// sheetDate finds the day the export covers: a date printed in the metadata
// rows, else the date supplied with the upload.
func (n *StatusExportNormalizer) sheetDate(sheet spreadsheet.Sheet, fallback *time.Time) (time.Time, bool) {
	texts := make([]string, 0, n.skipRows)
	for r := 0; r < n.skipRows && r < len(sheet.Rows); r++ {
		texts = append(texts, joinRow(sheet.Rows[r]))
	}
	if d, ok := findDate(texts...); ok {
		return d, true
	}
	if fallback != nil {
		return clock.Day(*fallback), true
	}
	return time.Time{}, false
}

func isBlankSheet(sheet spreadsheet.Sheet) bool {
	for _, row := range sheet.Rows {
		if !isBlankRow(row) {
			return false
		}
	}
	return true
}
