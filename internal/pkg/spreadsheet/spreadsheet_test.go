package spreadsheet

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func buildXLSX(t *testing.T, sheets map[string][][]interface{}) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	first := true
	for name, rows := range sheets {
		if first {
			require.NoError(t, f.SetSheetName("Sheet1", name))
			first = false
		} else {
			_, err := f.NewSheet(name)
			require.NoError(t, err)
		}
		for i, row := range rows {
			cell, err := excelize.CoordinatesToCellName(1, i+1)
			require.NoError(t, err)
			require.NoError(t, f.SetSheetRow(name, cell, &row))
		}
	}

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	return buf.Bytes()
}

func TestRead_XLSX(t *testing.T) {
	data := buildXLSX(t, map[string][][]interface{}{
		"Log": {
			{"ID", "Name", "Time"},
			{"1001", " Ahmed Ali ", "2024-03-05 07:55:00"},
		},
	})

	wb, err := Read(bytes.NewReader(data), "gate.xls")
	require.NoError(t, err)
	require.Len(t, wb.Sheets, 1)

	sheet := wb.Sheets[0]
	assert.Equal(t, "Log", sheet.Name)
	assert.Equal(t, "Ahmed Ali", sheet.Cell(1, 1))
	assert.Equal(t, "", sheet.Cell(1, 9))
	assert.Equal(t, "", sheet.Cell(7, 0))
}

func TestRead_HTMLTableSavedAsXLS(t *testing.T) {
	html := `<html><body><table>
		<tr><th>ID</th><th colspan="2">Name</th><th>Time</th></tr>
		<tr><td>1001</td><td>Ahmed</td><td>Ali</td><td>2024-03-05 07:55</td></tr>
	</table></body></html>`

	wb, err := Read(strings.NewReader(html), "device-export.xls")
	require.NoError(t, err)

	sheet, ok := wb.FirstSheet()
	require.True(t, ok)
	assert.Equal(t, []string{"ID", "Name", "", "Time"}, sheet.Row(0))
	assert.Equal(t, "2024-03-05 07:55", sheet.Cell(1, 3))
}

func TestRead_CSV(t *testing.T) {
	wb, err := Read(strings.NewReader("\xef\xbb\xbfID,Name\n1001,Sara\n"), "gate.csv")
	require.NoError(t, err)
	assert.Equal(t, "Sara", wb.Sheets[0].Cell(1, 1))
}

func TestRead_Unsupported(t *testing.T) {
	_, err := Read(strings.NewReader("garbage"), "notes.docx")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestHeader_Lookup(t *testing.T) {
	h := NewHeader([]string{" الإسم ", "رقم هوية", "الوقت", "", "Event"})

	idx, ok := h.Lookup("Name", "الإسم")
	assert.True(t, ok)
	assert.Equal(t, 0, idx)

	idx, ok = h.Lookup("event")
	assert.True(t, ok)
	assert.Equal(t, 4, idx)

	_, ok = h.Lookup("Department")
	assert.False(t, ok)
}
