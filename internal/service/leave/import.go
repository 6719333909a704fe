package leave

import (
	"fmt"
	"time"

	"github.com/alturath/hr-audit/internal/domain/leave"
	"github.com/alturath/hr-audit/internal/pkg/clock"
	"github.com/alturath/hr-audit/internal/pkg/spreadsheet"
)

var (
	idColumn      = []string{"employee_id", "Employee ID", "ID", "رقم هوية", "الرقم"}
	nameColumn    = []string{"employee_name", "Employee Name", "Name", "الاسم", "الإسم"}
	dateColumn    = []string{"date", "Date", "التاريخ"}
	weekdayColumn = []string{"weekday", "Weekday", "Day", "اليوم"}
	reasonColumn  = []string{"reason", "Reason", "السبب", "نوع الإجازة"}
)

// ImportedRecord is a parsed registry row and the sheet row it came from.
type ImportedRecord struct {
	Row    int
	Record leave.Record
}

// ParseSheet reads leave records from the first sheet of wb. The first row
// is the header. Invalid rows are reported, not fatal; a sheet without an
// identity column or without both date and weekday columns is.
func ParseSheet(wb spreadsheet.Workbook, weekdays WeekdayResolver) ([]ImportedRecord, []leave.ImportRowResult, error) {
	sheet, ok := wb.FirstSheet()
	if !ok || len(sheet.Rows) == 0 {
		return nil, nil, fmt.Errorf("%w: %s has no rows", leave.ErrInvalidLeaveRecord, wb.Name)
	}

	h := spreadsheet.NewHeader(sheet.Rows[0])
	id, hasID := h.Lookup(idColumn...)
	name, hasName := h.Lookup(nameColumn...)
	date, hasDate := h.Lookup(dateColumn...)
	weekday, hasWeekday := h.Lookup(weekdayColumn...)
	reason, _ := h.Lookup(reasonColumn...)
	if !hasID && !hasName {
		return nil, nil, fmt.Errorf("%w: %s has no employee_id or employee_name column", leave.ErrInvalidLeaveRecord, wb.Name)
	}
	if !hasDate && !hasWeekday {
		return nil, nil, fmt.Errorf("%w: %s has no date or weekday column", leave.ErrInvalidLeaveRecord, wb.Name)
	}

	var (
		records []ImportedRecord
		skipped []leave.ImportRowResult
	)
	for r := 1; r < len(sheet.Rows); r++ {
		row := sheet.Rows[r]
		cell := func(i int) string { return sheet.Cell(r, i) }
		if isBlank(row) {
			continue
		}
		rec, err := newRecord(cell(id), cell(name), cell(date), cell(weekday), cell(reason), weekdays)
		if err != nil {
			skipped = append(skipped, leave.ImportRowResult{Row: r + 1, Reason: err.Error()})
			continue
		}
		records = append(records, ImportedRecord{Row: r + 1, Record: rec})
	}
	return records, skipped, nil
}

// parseLeaveDate accepts the layouts spreadsheets produce, including serial
// dates.
func parseLeaveDate(s string) (time.Time, error) {
	d, err := clock.ParseDate(s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date %q", leave.ErrInvalidLeaveRecord, s)
	}
	return d, nil
}

func isBlank(row []string) bool {
	for _, c := range row {
		if c != "" {
			return false
		}
	}
	return true
}
