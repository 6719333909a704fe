package normalize

import (
	"github.com/alturath/hr-audit/internal/domain/attendance"
	"github.com/alturath/hr-audit/internal/pkg/clock"
	"github.com/alturath/hr-audit/internal/pkg/spreadsheet"
)

// GateColumns lists accepted header titles per field of a gate log.
type GateColumns struct {
	ID       []string
	Name     []string
	DateTime []string
	Date     []string
}

var DefaultGateColumns = GateColumns{
	ID:       []string{"رقم هوية", "رقم الهوية", "الرقم", "ID", "Employee ID", "User ID", "No."},
	Name:     []string{"الإسم", "الاسم", "Name", "Employee Name", "Full Name"},
	DateTime: []string{"الوقت", "Time", "Date/Time", "DateTime", "Date Time", "Timestamp", "Punch Time"},
	Date:     []string{"التاريخ", "Date"},
}

// gateHeaderSearchRows bounds how far down a sheet the header row may sit.
const gateHeaderSearchRows = 10

// GateLogNormalizer reads turnstile exports: one row per badge swipe.
type GateLogNormalizer struct {
	columns GateColumns
}

func NewGateLogNormalizer(columns GateColumns) *GateLogNormalizer {
	return &GateLogNormalizer{columns: columns}
}

func (n *GateLogNormalizer) Kind() attendance.SourceKind {
	return attendance.SourceKindGateLog
}

type gateLayout struct {
	headerRow int
	id, name  int
	timeCol   int
	dateCol   int // -1 when timeCol carries the date as well
}

func (n *GateLogNormalizer) Normalize(src attendance.RawSource) (attendance.Normalized, error) {
	var out attendance.Normalized
	found := false

	for _, sheet := range src.Workbook.Sheets {
		layout, ok := n.findLayout(sheet)
		if !ok {
			continue
		}
		found = true

		for r := layout.headerRow + 1; r < len(sheet.Rows); r++ {
			row := sheet.Rows[r]
			if isBlankRow(row) {
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

			if layout.dateCol >= 0 {
				day, err := clock.ParseDate(cellAt(row, layout.dateCol))
				if err != nil {
					drop("date", err.Error())
					continue
				}
				at, err := clock.ParseClock(cellAt(row, layout.timeCol))
				if err != nil {
					drop("time", err.Error())
					continue
				}
				out.Events = append(out.Events, attendance.Event{
					EmployeeID: id, EmployeeName: name, Date: day, Time: at, Source: src.Name,
				})
				continue
			}

			ts, err := clock.ParseDateTime(cellAt(row, layout.timeCol))
			if err != nil {
				drop("timestamp", err.Error())
				continue
			}
			out.Events = append(out.Events, attendance.Event{
				EmployeeID:   id,
				EmployeeName: name,
				Date:         clock.Day(ts),
				Time:         clock.FromTime(ts),
				Source:       src.Name,
			})
		}
	}

	if !found {
		return attendance.Normalized{}, &attendance.SourceFormatError{
			Source:  src.Name,
			Element: "header row with an identity column and a time column",
		}
	}
	return out, nil
}

// findLayout locates the header row. A row qualifies when it names a time
// column and at least one identity column.
func (n *GateLogNormalizer) findLayout(sheet spreadsheet.Sheet) (gateLayout, bool) {
	limit := min(len(sheet.Rows), gateHeaderSearchRows)
	for r := 0; r < limit; r++ {
		h := spreadsheet.NewHeader(sheet.Rows[r])
		id, hasID := h.Lookup(n.columns.ID...)
		name, hasName := h.Lookup(n.columns.Name...)
		if !hasID && !hasName {
			continue
		}
		timeCol, hasTime := h.Lookup(n.columns.DateTime...)
		dateCol, hasDate := h.Lookup(n.columns.Date...)
		switch {
		case hasTime && hasDate && timeCol != dateCol:
			return gateLayout{headerRow: r, id: id, name: name, timeCol: timeCol, dateCol: dateCol}, true
		case hasTime:
			return gateLayout{headerRow: r, id: id, name: name, timeCol: timeCol, dateCol: -1}, true
		case hasDate:
			return gateLayout{headerRow: r, id: id, name: name, timeCol: dateCol, dateCol: -1}, true
		}
	}
	return gateLayout{}, false
}
