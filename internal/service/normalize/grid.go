package normalize

import (
	"fmt"
	"strings"
	"time"

	"github.com/alturath/hr-audit/internal/domain/attendance"
	"github.com/alturath/hr-audit/internal/pkg/clock"
	"github.com/alturath/hr-audit/internal/pkg/spreadsheet"
)

// GridBlock is one day-label row with its value row beneath it, covering a
// column range of the month.
type GridBlock struct {
	LabelRow int
	ValueRow int
	FirstCol int
	FirstDay int
	LastDay  int
}

// GridLayout describes a biometric terminal's monthly sheet: one sheet per
// employee, a "Label: value" metadata row, then the day grid.
type GridLayout struct {
	MetaRow      int
	IDLabels     []string
	NameLabels   []string
	PeriodLabels []string
	Blocks       []GridBlock
}

var DefaultGridLayout = GridLayout{
	MetaRow:      2,
	IDLabels:     []string{"ID", "No", "UserID", "User ID", "الرقم", "رقم"},
	NameLabels:   []string{"Name", "الاسم", "الإسم"},
	PeriodLabels: []string{"Date", "Period", "Month", "التاريخ", "الفترة", "الشهر"},
	Blocks: []GridBlock{
		{LabelRow: 3, ValueRow: 4, FirstCol: 0, FirstDay: 1, LastDay: 16},
		{LabelRow: 3, ValueRow: 4, FirstCol: 17, FirstDay: 17, LastDay: 31},
	},
}

// MonthlyGridNormalizer reads per-employee monthly attendance cards. Each
// day cell holds "in out" clock text.
type MonthlyGridNormalizer struct {
	layout GridLayout
}

func NewMonthlyGridNormalizer(layout GridLayout) *MonthlyGridNormalizer {
	return &MonthlyGridNormalizer{layout: layout}
}

func (n *MonthlyGridNormalizer) Kind() attendance.SourceKind {
	return attendance.SourceKindMonthlyGrid
}

func (n *MonthlyGridNormalizer) Normalize(src attendance.RawSource) (attendance.Normalized, error) {
	var out attendance.Normalized
	valid := 0

	for _, sheet := range src.Workbook.Sheets {
		days := n.dayColumns(sheet)
		if len(days) == 0 {
			continue // not an attendance card, e.g. a summary sheet
		}
		dropSheet := func(field, reason string) {
			out.Drop(attendance.RowParseError{Source: src.Name, Sheet: sheet.Name, Row: n.layout.MetaRow + 1, Field: field, Reason: reason})
		}

		meta := joinRow(sheet.Row(n.layout.MetaRow))
		fields := labeledFields(meta)
		id, _ := lookupField(fields, n.layout.IDLabels)
		name, _ := lookupField(fields, n.layout.NameLabels)
		id, name = attendance.NormalizeEmployeeID(id), normalizeName(name)
		if id == "" && name == "" {
			dropSheet("identity", "no employee id or name in metadata row")
			continue
		}
		month, ok := n.month(sheet, fields, src.ReportDate)
		if !ok {
			dropSheet("period", "no month in metadata")
			continue
		}
		valid++

		for _, dc := range days {
			day := time.Date(month.Year(), month.Month(), dc.day, 0, 0, 0, 0, time.UTC)
			if day.Month() != month.Month() {
				continue // 31st of a 30-day month
			}
			cell := sheet.Cell(dc.valueRow, dc.col)
			if clock.IsBlank(cell) {
				continue
			}
			tokens := clockTokens(cell)
			in, err := clock.ParseClock(tokens[0])
			if err != nil {
				out.Drop(attendance.RowParseError{
					Source: src.Name, Sheet: sheet.Name, Row: dc.valueRow + 1,
					Field: fmt.Sprintf("day %d", dc.day), Reason: err.Error(),
				})
				continue
			}
			out.Events = append(out.Events, attendance.Event{
				EmployeeID: id, EmployeeName: name, Date: day, Time: in, Source: src.Name,
			})
			if len(tokens) > 1 {
				if leftAt, err := clock.ParseClock(tokens[len(tokens)-1]); err == nil {
					out.Events = append(out.Events, attendance.Event{
						EmployeeID: id, EmployeeName: name, Date: day, Time: leftAt, Source: src.Name,
					})
				}
			}
		}
	}

	if valid == 0 {
		return attendance.Normalized{}, &attendance.SourceFormatError{Source: src.Name, Element: "employee attendance sheet"}
	}
	return out, nil
}

type dayColumn struct {
	day      int
	col      int
	valueRow int
}

// dayColumns maps each grid cell to its day of month. Labels are read from
// the label row when they carry a number in the block's range; otherwise the
// position within the block decides.
func (n *MonthlyGridNormalizer) dayColumns(sheet spreadsheet.Sheet) []dayColumn {
	var cols []dayColumn
	labelled := false
	for _, b := range n.layout.Blocks {
		for i := 0; i <= b.LastDay-b.FirstDay; i++ {
			col := b.FirstCol + i
			label := sheet.Cell(b.LabelRow, col)
			day := b.FirstDay + i
			if v, ok := firstInt(label); ok && v >= b.FirstDay && v <= b.LastDay {
				day = v
				labelled = true
			} else if strings.TrimSpace(label) == "" {
				continue
			}
			cols = append(cols, dayColumn{day: day, col: col, valueRow: b.ValueRow})
		}
	}
	if !labelled {
		return nil
	}
	return cols
}

func (n *MonthlyGridNormalizer) month(sheet spreadsheet.Sheet, fields map[string]string, fallback *time.Time) (time.Time, bool) {
	if period, ok := lookupField(fields, n.layout.PeriodLabels); ok {
		if m, ok := findMonth(period); ok {
			return m, true
		}
	}
	for r := 0; r <= n.layout.MetaRow && r < len(sheet.Rows); r++ {
		if m, ok := findMonth(joinRow(sheet.Rows[r])); ok {
			return m, true
		}
	}
	if fallback != nil {
		return time.Date(fallback.Year(), fallback.Month(), 1, 0, 0, 0, 0, time.UTC), true
	}
	return time.Time{}, false
}
