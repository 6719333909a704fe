// Package clock parses the date and time-of-day renderings found in gate,
// mobile-app and biometric grid exports into civil (wall-clock) values.
// No timezone conversion is ever applied: every export is assumed to be in
// institution-local time, and dates are carried as midnight UTC.
package clock

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// Clock is a time of day with minute resolution, counted in minutes since midnight.
type Clock int

const minutesPerDay = 24 * 60

var (
	ErrEmpty   = errors.New("empty time value")
	ErrInvalid = errors.New("unrecognised time value")
)

func New(hour, minute int) Clock {
	return Clock(hour*60 + minute)
}

// FromTime drops seconds; 08:30:59 is 08:30.
func FromTime(t time.Time) Clock {
	return New(t.Hour(), t.Minute())
}

func (c Clock) Hour() int   { return int(c) / 60 }
func (c Clock) Minute() int { return int(c) % 60 }

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour(), c.Minute())
}

func (c Clock) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *Clock) UnmarshalText(b []byte) error {
	parsed, err := ParseClock(string(b))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// Ptr is a convenience for optional clock fields.
func (c Clock) Ptr() *Clock {
	return &c
}

var clockLayouts = []string{
	"15:04",
	"15:04:05",
	"3:04 PM",
	"3:04PM",
	"3:04:05 PM",
	"3:04:05PM",
}

// ParseClock parses a time-of-day cell. Accepted forms: 24h and 12h clocks
// with or without seconds, Arabic AM/PM markers, Arabic-Indic digits, Excel
// day fractions and full date-times (the date part is discarded).
func ParseClock(s string) (Clock, error) {
	s = normalize(s)
	if IsBlank(s) {
		return 0, ErrEmpty
	}

	for _, layout := range clockLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return FromTime(t), nil
		}
	}

	if f, err := strconv.ParseFloat(s, 64); err == nil {
		if f >= 0 && f < 1 {
			return fromDayFraction(f), nil
		}
		if isSerialDate(f) {
			return fromDayFraction(f - math.Floor(f)), nil
		}
		return 0, fmt.Errorf("%w: %q", ErrInvalid, s)
	}

	if t, err := ParseDateTime(s); err == nil {
		return FromTime(t), nil
	}

	return 0, fmt.Errorf("%w: %q", ErrInvalid, s)
}

func fromDayFraction(f float64) Clock {
	seconds := int(math.Round(f * 86400))
	return Clock((seconds / 60) % minutesPerDay)
}

var dateTimeLayouts = []string{
	"2006-1-2 15:04:05",
	"2006-1-2 15:04",
	"2006-1-2T15:04:05",
	"2006-1-2T15:04",
	time.RFC3339,
	"2006/1/2 15:04:05",
	"2006/1/2 15:04",
	"2006.1.2 15:04:05",
	"2006.1.2 15:04",
	"2/1/2006 15:04:05",
	"2/1/2006 15:04",
	"2-1-2006 15:04:05",
	"2-1-2006 15:04",
	"2006-1-2 3:04:05 PM",
	"2006-1-2 3:04 PM",
	"2006/1/2 3:04:05 PM",
	"2006/1/2 3:04 PM",
	"2/1/2006 3:04:05 PM",
	"2/1/2006 3:04 PM",
}

// ParseDateTime parses a combined date and time cell, including Excel serial
// date-times. Slash dates are read day-first.
func ParseDateTime(s string) (time.Time, error) {
	s = normalize(s)
	if IsBlank(s) {
		return time.Time{}, ErrEmpty
	}

	for _, layout := range dateTimeLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return stripZone(t), nil
		}
	}

	if f, err := strconv.ParseFloat(s, 64); err == nil && isSerialDate(f) {
		t, err := excelize.ExcelDateToTime(f, false)
		if err == nil {
			// Round away float noise so 08:29:59.999 does not become 08:29.
			return t.Round(time.Second), nil
		}
	}

	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalid, s)
}

var dateLayouts = []string{
	"2006-1-2",
	"2006/1/2",
	"2006.1.2",
	"2/1/2006",
	"2-1-2006",
	"2.1.2006",
	"2 Jan 2006",
	"Jan 2, 2006",
}

// ParseDate parses a date cell; a date-time is accepted and truncated.
func ParseDate(s string) (time.Time, error) {
	s = normalize(s)
	if IsBlank(s) {
		return time.Time{}, ErrEmpty
	}

	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, nil
		}
	}

	if f, err := strconv.ParseFloat(s, 64); err == nil && isSerialDate(f) {
		if t, err := excelize.ExcelDateToTime(f, false); err == nil {
			return Day(t.Round(time.Second)), nil
		}
	}

	if t, err := ParseDateTime(s); err == nil {
		return Day(t), nil
	}

	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalid, s)
}

// Day truncates t to its civil date at midnight UTC.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Days returns every civil date from start to end inclusive.
func Days(start, end time.Time) []time.Time {
	start, end = Day(start), Day(end)
	var days []time.Time
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

// IsBlank reports whether a cell carries no value. Exports use dashes for
// missing punches.
func IsBlank(s string) bool {
	s = strings.TrimSpace(s)
	return s == "" || strings.Trim(s, "-–—") == ""
}

// isSerialDate keeps Excel serials to a realistic range (1954..2119) so plain
// numbers such as badge IDs are not read as dates.
func isSerialDate(f float64) bool {
	return f >= 20000 && f <= 80000
}

func stripZone(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, time.UTC)
}

var meridiemReplacer = strings.NewReplacer(
	"ص", "AM",
	"م", "PM",
	"a.m.", "AM",
	"p.m.", "PM",
	"am", "AM",
	"pm", "PM",
)

func normalize(s string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(s) {
		switch {
		case r >= '٠' && r <= '٩':
			b.WriteRune('0' + (r - '٠'))
		case r >= '۰' && r <= '۹':
			b.WriteRune('0' + (r - '۰'))
		case r == '\u00a0':
			b.WriteRune(' ')
		default:
			b.WriteRune(r)
		}
	}
	out := meridiemReplacer.Replace(b.String())
	return strings.Join(strings.Fields(out), " ")
}
