package export

import (
	"fmt"
	"io"
	"strconv"

	"github.com/alturath/hr-audit/internal/domain/audit"
	"github.com/jung-kurt/gofpdf"
)

// PDFOptions configures the PDF renderer. FontPath names a UTF-8 TrueType
// font; without one the core Helvetica font is used and characters outside
// cp1252 (Arabic names, for example) print as '?'.
type PDFOptions struct {
	FontPath string
}

var pdfWidths = []float64{24, 26, 62, 38, 44, 20, 20, 43}

// WritePDF renders the report as a landscape A4 table.
func WritePDF(w io.Writer, report audit.Report, opts PDFOptions) error {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.SetAutoPageBreak(true, 12)

	family := "Helvetica"
	text := pdf.UnicodeTranslatorFromDescriptor("")
	if opts.FontPath != "" {
		family = "body"
		pdf.AddUTF8Font(family, "", opts.FontPath)
		pdf.AddUTF8Font(family, "B", opts.FontPath)
		text = func(s string) string { return s }
	}
	if err := pdf.Error(); err != nil {
		return fmt.Errorf("load font: %w", err)
	}

	header := func() {
		pdf.SetFont(family, "B", 9)
		pdf.SetFillColor(68, 114, 196)
		pdf.SetTextColor(255, 255, 255)
		for i, c := range columns {
			pdf.CellFormat(pdfWidths[i], 7, c, "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont(family, "", 8)
	}
	pdf.SetHeaderFunc(func() {
		if pdf.PageNo() > 1 {
			header()
		}
	})
	pdf.SetFooterFunc(func() {
		pdf.SetY(-10)
		pdf.SetFont(family, "", 7)
		pdf.SetTextColor(120, 120, 120)
		pdf.CellFormat(0, 5, "Page "+strconv.Itoa(pdf.PageNo()), "", 0, "R", false, 0, "")
	})

	pdf.AddPage()
	pdf.SetFont(family, "B", 14)
	pdf.CellFormat(0, 8, "Attendance Audit "+windowText(report), "", 1, "L", false, 0, "")

	s := report.Summary
	pdf.SetFont(family, "", 9)
	pdf.CellFormat(0, 5, fmt.Sprintf(
		"Cutoff %s   Staff %d   Present %d (on time %d, late %d, %.2f%%)   Authorized %d   Unexplained %d",
		report.Cutoff, s.StaffCount, s.Present, s.OnTime, s.Late, s.LatePercent, s.AuthorizedAbsence, s.UnexplainedAbsence,
	), "", 1, "L", false, 0, "")
	for _, u := range report.Unavailable {
		pdf.CellFormat(0, 5, text("Unavailable source "+u.Source+": "+u.Error), "", 1, "L", false, 0, "")
	}
	if report.Search != "" {
		pdf.CellFormat(0, 5, text("Filter: "+report.Search), "", 1, "L", false, 0, "")
	}
	pdf.Ln(3)

	header()
	for _, v := range report.Rows {
		fill := false
		pdf.SetTextColor(0, 0, 0)
		if rs, ok := StyleFor(v.Status); ok {
			fr, fg, fb := hexRGB(rs.Fill)
			tr, tg, tb := hexRGB(rs.Font)
			pdf.SetFillColor(fr, fg, fb)
			pdf.SetTextColor(tr, tg, tb)
			fill = true
		}
		for i, value := range rowValues(v) {
			pdf.CellFormat(pdfWidths[i], 6, text(value), "1", 0, "L", fill, 0, "")
		}
		pdf.Ln(-1)
	}

	return pdf.Output(w)
}

// hexRGB parses "#rrggbb"; malformed input yields black.
func hexRGB(hex string) (int, int, int) {
	if len(hex) != 7 || hex[0] != '#' {
		return 0, 0, 0
	}
	v, err := strconv.ParseUint(hex[1:], 16, 32)
	if err != nil {
		return 0, 0, 0
	}
	return int(v >> 16 & 0xff), int(v >> 8 & 0xff), int(v & 0xff)
}
