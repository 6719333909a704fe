package normalize

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/alturath/hr-audit/internal/pkg/clock"
	"github.com/alturath/hr-audit/internal/pkg/namekey"
)

func cellAt(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

func normalizeName(name string) string {
	return strings.Join(strings.Fields(name), " ")
}

// labelPattern finds "Label:" markers. A label starts with a letter, so
// clock values such as 08:30 are never mistaken for labels.
var labelPattern = regexp.MustCompile(`(?:^|\s)(\p{L}[\p{L}\p{N}_.]*)\s*[:：]`)

// labeledFields splits free text such as "ID:1001 Name:Ahmed Ali Dept:HR"
// into folded-label → value pairs. The first occurrence of a label wins.
func labeledFields(text string) map[string]string {
	fields := make(map[string]string)
	matches := labelPattern.FindAllStringSubmatchIndex(text, -1)
	for i, m := range matches {
		label := namekey.Fold(text[m[2]:m[3]])
		end := len(text)
		if i+1 < len(matches) {
			end = matches[i+1][0]
		}
		value := strings.TrimSpace(text[m[1]:end])
		if _, seen := fields[label]; !seen {
			fields[label] = value
		}
	}
	return fields
}

// lookupField returns the value of the first alias present in fields.
func lookupField(fields map[string]string, aliases []string) (string, bool) {
	for _, alias := range aliases {
		if v, ok := fields[namekey.Fold(alias)]; ok && v != "" {
			return v, true
		}
	}
	return "", false
}

var datePattern = regexp.MustCompile(`\d{4}[-/.]\d{1,2}[-/.]\d{1,2}|\d{1,2}[-/.]\d{1,2}[-/.]\d{4}`)

// findDate returns the first parseable date embedded in any of texts.
func findDate(texts ...string) (time.Time, bool) {
	for _, text := range texts {
		for _, candidate := range datePattern.FindAllString(text, -1) {
			if d, err := clock.ParseDate(candidate); err == nil {
				return d, true
			}
		}
	}
	return time.Time{}, false
}

var monthPattern = regexp.MustCompile(`(\d{4})[-/.](\d{1,2})|(\d{1,2})[-/.](\d{4})`)

// findMonth returns the first day of the month named in text, accepting full
// dates as well as "2024-03" and "03/2024".
func findMonth(text string) (time.Time, bool) {
	if d, ok := findDate(text); ok {
		return time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, time.UTC), true
	}
	m := monthPattern.FindStringSubmatch(text)
	if m == nil {
		return time.Time{}, false
	}
	yearStr, monthStr := m[1], m[2]
	if yearStr == "" {
		yearStr, monthStr = m[4], m[3]
	}
	year, _ := strconv.Atoi(yearStr)
	month, _ := strconv.Atoi(monthStr)
	if month < 1 || month > 12 {
		return time.Time{}, false
	}
	return time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC), true
}

var intPattern = regexp.MustCompile(`\d+`)

func firstInt(s string) (int, bool) {
	m := intPattern.FindString(s)
	if m == "" {
		return 0, false
	}
	n, err := strconv.Atoi(m)
	return n, err == nil
}

func joinRow(row []string) string {
	var parts []string
	for _, cell := range row {
		if cell = strings.TrimSpace(cell); cell != "" {
			parts = append(parts, cell)
		}
	}
	return strings.Join(parts, " ")
}

var meridiemTokens = map[string]bool{"am": true, "pm": true, "ص": true, "م": true, "a.m.": true, "p.m.": true}

// clockTokens splits an "in out" cell into time tokens, keeping AM/PM
// markers attached to the time before them.
func clockTokens(cell string) []string {
	var tokens []string
	for _, f := range strings.Fields(cell) {
		if meridiemTokens[strings.ToLower(f)] && len(tokens) > 0 {
			tokens[len(tokens)-1] += " " + f
			continue
		}
		tokens = append(tokens, f)
	}
	return tokens
}
