package spreadsheet

import "github.com/alturath/hr-audit/internal/pkg/namekey"

// Header maps the column titles of a header row to their indexes. Titles are
// compared folded, so "Name", " NAME " and "name" are one column.
type Header struct {
	index map[string]int
}

func NewHeader(row []string) Header {
	h := Header{index: make(map[string]int, len(row))}
	for i, title := range row {
		key := namekey.Fold(title)
		if key == "" {
			continue
		}
		if _, dup := h.index[key]; !dup {
			h.index[key] = i
		}
	}
	return h
}

// Lookup returns the index of the first alias present in the header.
func (h Header) Lookup(aliases ...string) (int, bool) {
	for _, alias := range aliases {
		if i, ok := h.index[namekey.Fold(alias)]; ok {
			return i, true
		}
	}
	return -1, false
}
