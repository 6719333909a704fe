package attendance

import (
	"errors"
	"fmt"
)

var (
	ErrSourceFormat = errors.New("source format error")
	ErrRowParse     = errors.New("row parse error")
)

// RowParseError describes one skipped row. It never aborts a source.
type RowParseError struct {
	Source string
	Sheet  string
	Row    int // 1-based, as shown by spreadsheet programs
	Field  string
	Reason string
}

func (e RowParseError) Error() string {
	return fmt.Sprintf("%s: sheet %q row %d: %s: %s", e.Source, e.Sheet, e.Row, e.Field, e.Reason)
}

func (e RowParseError) Unwrap() error {
	return ErrRowParse
}

// SourceFormatError means a whole source is unusable for this run: the file
// is unreadable or an expected column, sheet or header is missing.
type SourceFormatError struct {
	Source  string
	Element string
	Err     error
}

func (e *SourceFormatError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Source, e.Element, e.Err)
	}
	return fmt.Sprintf("%s: missing or invalid %s", e.Source, e.Element)
}

func (e *SourceFormatError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrSourceFormat, e.Err}
	}
	return []error{ErrSourceFormat}
}
