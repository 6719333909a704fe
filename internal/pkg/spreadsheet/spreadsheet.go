// Package spreadsheet reads exported attendance files (.xlsx, .xls, HTML
// tables saved as .xls, .csv) into plain string grids. It never interprets
// the cells; that is the normalizers' job.
package spreadsheet

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"
)

var (
	ErrEmptyWorkbook     = errors.New("no worksheet found")
	ErrUnsupportedFormat = errors.New("unsupported spreadsheet format")
)

// Workbook is a parsed file: one Sheet per worksheet (or per HTML table).
type Workbook struct {
	Name   string
	Sheets []Sheet
}

type Sheet struct {
	Name string
	Rows [][]string
}

// Cell returns the trimmed text at (row, col), or "" when out of range.
func (s Sheet) Cell(row, col int) string {
	if row < 0 || row >= len(s.Rows) {
		return ""
	}
	return cellValue(s.Rows[row], col)
}

// Row returns the row at index i, or nil when out of range.
func (s Sheet) Row(i int) []string {
	if i < 0 || i >= len(s.Rows) {
		return nil
	}
	return s.Rows[i]
}

// FirstSheet returns the first worksheet that has at least one row.
func (w Workbook) FirstSheet() (Sheet, bool) {
	for _, s := range w.Sheets {
		if len(s.Rows) > 0 {
			return s, true
		}
	}
	return Sheet{}, false
}

type format int

const (
	formatUnknown format = iota
	formatXLSX
	formatXLS
	formatHTML
	formatCSV
)

var (
	zipMagic  = []byte("PK\x03\x04")
	ole2Magic = []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}
)

// detect sniffs content first: gate devices routinely save HTML tables or
// xlsx payloads under a .xls name.
func detect(data []byte, filename string) format {
	switch {
	case bytes.HasPrefix(data, zipMagic):
		return formatXLSX
	case bytes.HasPrefix(data, ole2Magic):
		return formatXLS
	}

	head := bytes.TrimSpace(bytes.TrimPrefix(data, []byte("\xef\xbb\xbf")))
	if bytes.HasPrefix(head, []byte("<")) {
		return formatHTML
	}

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv", ".txt":
		return formatCSV
	case ".xlsx", ".xlsm":
		return formatXLSX
	case ".xls":
		return formatXLS
	case ".htm", ".html":
		return formatHTML
	}
	return formatUnknown
}

// ReadFile opens path and parses it with Read.
func ReadFile(path string) (Workbook, error) {
	f, err := os.Open(path)
	if err != nil {
		return Workbook{}, err
	}
	defer f.Close()

	return Read(f, filepath.Base(path))
}

// Read parses r into a Workbook. filename is used as a format hint and as the
// workbook name.
func Read(r io.Reader, filename string) (Workbook, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Workbook{}, fmt.Errorf("read %s: %w", filename, err)
	}

	var sheets []Sheet
	switch detect(data, filename) {
	case formatXLSX:
		sheets, err = readXLSX(data)
	case formatXLS:
		sheets, err = readXLS(data)
	case formatHTML:
		sheets, err = readHTML(data)
	case formatCSV:
		sheets, err = readCSV(data, filename)
	default:
		return Workbook{}, fmt.Errorf("%s: %w", filename, ErrUnsupportedFormat)
	}
	if err != nil {
		return Workbook{}, fmt.Errorf("parse %s: %w", filename, err)
	}
	if len(sheets) == 0 {
		return Workbook{}, fmt.Errorf("%s: %w", filename, ErrEmptyWorkbook)
	}

	return Workbook{Name: filename, Sheets: sheets}, nil
}

func readXLSX(data []byte) ([]Sheet, error) {
	file, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer func() { _ = file.Close() }()

	var sheets []Sheet
	for _, name := range file.GetSheetList() {
		// Raw values keep date cells as serials instead of locale-formatted text.
		rows, err := file.GetRows(name, excelize.Options{RawCellValue: true})
		if err != nil {
			return nil, fmt.Errorf("sheet %s: %w", name, err)
		}
		sheets = append(sheets, Sheet{Name: name, Rows: trimRows(rows)})
	}
	return sheets, nil
}

func readXLS(data []byte) ([]Sheet, error) {
	workbook, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return nil, err
	}

	var sheets []Sheet
	for i := 0; i < workbook.NumSheets(); i++ {
		ws := workbook.GetSheet(i)
		if ws == nil {
			continue
		}
		rows := make([][]string, 0, int(ws.MaxRow)+1)
		for r := 0; r <= int(ws.MaxRow); r++ {
			row := ws.Row(r)
			if row == nil {
				rows = append(rows, nil)
				continue
			}
			cells := make([]string, 0, row.LastCol())
			for c := 0; c < row.LastCol(); c++ {
				cells = append(cells, row.Col(c))
			}
			rows = append(rows, cells)
		}
		sheets = append(sheets, Sheet{Name: ws.Name, Rows: trimRows(rows)})
	}
	return sheets, nil
}

func readHTML(data []byte) ([]Sheet, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	var sheets []Sheet
	doc.Find("table").Each(func(i int, table *goquery.Selection) {
		var rows [][]string
		table.Find("tr").Each(func(_ int, tr *goquery.Selection) {
			var cells []string
			tr.Find("th, td").Each(func(_ int, cell *goquery.Selection) {
				cells = append(cells, strings.Join(strings.Fields(cell.Text()), " "))
				if span, ok := cell.Attr("colspan"); ok {
					var n int
					if _, err := fmt.Sscanf(span, "%d", &n); err == nil {
						for ; n > 1; n-- {
							cells = append(cells, "")
						}
					}
				}
			})
			rows = append(rows, cells)
		})
		if len(rows) > 0 {
			sheets = append(sheets, Sheet{Name: fmt.Sprintf("Table%d", i+1), Rows: rows})
		}
	})
	return sheets, nil
}

func readCSV(data []byte, filename string) ([]Sheet, error) {
	reader := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	name := strings.TrimSuffix(filename, filepath.Ext(filename))
	return []Sheet{{Name: name, Rows: trimRows(rows)}}, nil
}

func trimRows(rows [][]string) [][]string {
	for _, row := range rows {
		for i := range row {
			row[i] = strings.TrimSpace(row[i])
		}
	}
	return rows
}

func cellValue(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}
