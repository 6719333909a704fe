package export

import (
	"fmt"
	"io"
	"sort"

	"github.com/alturath/hr-audit/internal/domain/audit"
	"github.com/xuri/excelize/v2"
)

const (
	ReportSheet  = "Audit_Report"
	SummarySheet = "Summary"
)

// WriteXLSX writes the report rows to the Audit_Report sheet, coloured by
// status, and the counts to a Summary sheet.
func WriteXLSX(w io.Writer, report audit.Report) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", ReportSheet); err != nil {
		return err
	}
	if err := writeRows(f, report); err != nil {
		return fmt.Errorf("write %s: %w", ReportSheet, err)
	}
	if _, err := f.NewSheet(SummarySheet); err != nil {
		return err
	}
	if err := writeSummary(f, report); err != nil {
		return fmt.Errorf("write %s: %w", SummarySheet, err)
	}
	f.SetActiveSheet(0)

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func headerStyle(f *excelize.File) (int, error) {
	return f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#ffffff"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
}

func writeRows(f *excelize.File, report audit.Report) error {
	header, err := headerStyle(f)
	if err != nil {
		return err
	}

	styles := make(map[audit.Status]int)
	for status, rs := range rowStyles {
		id, err := f.NewStyle(&excelize.Style{
			Font: &excelize.Font{Color: rs.Font},
			Fill: excelize.Fill{Type: "pattern", Color: []string{rs.Fill}, Pattern: 1},
		})
		if err != nil {
			return err
		}
		styles[status] = id
	}

	titles := make([]interface{}, len(columns))
	for i, c := range columns {
		titles[i] = c
	}
	if err := f.SetSheetRow(ReportSheet, "A1", &titles); err != nil {
		return err
	}
	last, _ := excelize.CoordinatesToCellName(len(columns), 1)
	if err := f.SetCellStyle(ReportSheet, "A1", last, header); err != nil {
		return err
	}

	for i, v := range report.Rows {
		row := i + 2
		values := rowValues(v)
		cells := make([]interface{}, len(values))
		for j, s := range values {
			cells[j] = s
		}
		start, _ := excelize.CoordinatesToCellName(1, row)
		if err := f.SetSheetRow(ReportSheet, start, &cells); err != nil {
			return err
		}
		if style, ok := styles[v.Status]; ok {
			end, _ := excelize.CoordinatesToCellName(len(columns), row)
			if err := f.SetCellStyle(ReportSheet, start, end, style); err != nil {
				return err
			}
		}
	}

	widths := []float64{12, 14, 28, 20, 22, 10, 10, 18}
	for i, width := range widths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		if err := f.SetColWidth(ReportSheet, col, col, width); err != nil {
			return err
		}
	}
	return f.SetPanes(ReportSheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"})
}

func writeSummary(f *excelize.File, report audit.Report) error {
	header, err := headerStyle(f)
	if err != nil {
		return err
	}

	s := report.Summary
	lines := [][]interface{}{
		{"Metric", "Value"},
		{"Window", windowText(report)},
		{"Cutoff", report.Cutoff.String()},
		{"Generated", report.GeneratedAt.Format("2006-01-02 15:04")},
		{"Total records", s.TotalRecords},
		{"Staff", s.StaffCount},
		{"Present", s.Present},
		{"On time", s.OnTime},
		{"Late", s.Late},
		{"Late %", s.LatePercent},
		{"Authorized absence", s.AuthorizedAbsence},
		{"Unexplained absence", s.UnexplainedAbsence},
	}
	if report.Search != "" {
		lines = append(lines, []interface{}{"Filter", report.Search})
	}

	lines = append(lines, []interface{}{}, []interface{}{"Source", "On time", "Late"})
	sourceHeader := len(lines)
	for _, bs := range s.BySource {
		lines = append(lines, []interface{}{bs.Source, bs.OnTime, bs.Late})
	}

	lines = append(lines, []interface{}{}, []interface{}{"Source", "Rows dropped"})
	dropHeader := len(lines)
	origins := make([]string, 0, len(report.Diagnostics))
	for origin := range report.Diagnostics {
		origins = append(origins, origin)
	}
	sort.Strings(origins)
	for _, origin := range origins {
		lines = append(lines, []interface{}{origin, report.Diagnostics[origin]})
	}
	for _, u := range report.Unavailable {
		lines = append(lines, []interface{}{u.Source, "unavailable: " + u.Error})
	}

	for i, line := range lines {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(SummarySheet, cell, &line); err != nil {
			return err
		}
	}
	for _, r := range []int{1, sourceHeader, dropHeader} {
		if err := f.SetCellStyle(SummarySheet, fmt.Sprintf("A%d", r), fmt.Sprintf("C%d", r), header); err != nil {
			return err
		}
	}
	return f.SetColWidth(SummarySheet, "A", "A", 24)
}
