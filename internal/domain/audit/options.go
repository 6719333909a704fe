package audit

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/alturath/hr-audit/internal/pkg/clock"
	"github.com/alturath/hr-audit/internal/pkg/namekey"
)

const (
	DefaultCutoffTime     = "08:30"
	DefaultHeaderSkipRows = 3
	DefaultLeaveReason    = "Official Leave"
	DefaultAppSourceName  = "Mawjood App"
	DefaultMaxWindowDays  = 62
)

// DefaultPresentMarkers are the two language variants of "present" used by
// the mobile check-in app.
var DefaultPresentMarkers = []string{"حاضر", "Present"}

// Settings is the raw, unvalidated reconciliation configuration.
type Settings struct {
	CutoffTime     string
	PresentMarkers []string

	// WeekdayLabels maps a label to a weekday name or number (0 = Sunday).
	// When empty the built-in English and Arabic labels are used; when set
	// it replaces them and must cover all seven weekdays.
	WeekdayLabels map[string]string

	HeaderSkipRows     int
	DefaultLeaveReason string
	AppSourceName      string
	MaxWindowDays      int
}

func DefaultSettings() Settings {
	return Settings{
		CutoffTime:         DefaultCutoffTime,
		PresentMarkers:     DefaultPresentMarkers,
		HeaderSkipRows:     DefaultHeaderSkipRows,
		DefaultLeaveReason: DefaultLeaveReason,
		AppSourceName:      DefaultAppSourceName,
		MaxWindowDays:      DefaultMaxWindowDays,
	}
}

// Options is validated configuration; a run only ever sees Options.
type Options struct {
	Cutoff             clock.Clock
	PresentMarkers     []string
	HeaderSkipRows     int
	DefaultLeaveReason string
	AppSourceName      string
	MaxWindowDays      int

	weekdays map[string]time.Weekday
}

var builtinWeekdayLabels = map[string]time.Weekday{
	"Sunday":    time.Sunday,
	"Sun":       time.Sunday,
	"الأحد":     time.Sunday,
	"الاحد":     time.Sunday,
	"Monday":    time.Monday,
	"Mon":       time.Monday,
	"الاثنين":   time.Monday,
	"الإثنين":   time.Monday,
	"Tuesday":   time.Tuesday,
	"Tue":       time.Tuesday,
	"الثلاثاء":  time.Tuesday,
	"Wednesday": time.Wednesday,
	"Wed":       time.Wednesday,
	"الأربعاء":  time.Wednesday,
	"الاربعاء":  time.Wednesday,
	"Thursday":  time.Thursday,
	"Thu":       time.Thursday,
	"الخميس":    time.Thursday,
	"Friday":    time.Friday,
	"Fri":       time.Friday,
	"الجمعة":    time.Friday,
	"Saturday":  time.Saturday,
	"Sat":       time.Saturday,
	"السبت":     time.Saturday,
}

// NewOptions validates settings. Every failure is a *ConfigurationError.
func NewOptions(s Settings) (Options, error) {
	cutoff, err := time.Parse("15:04", strings.TrimSpace(s.CutoffTime))
	if err != nil {
		return Options{}, &ConfigurationError{Option: "cutoff_time", Reason: fmt.Sprintf("%q is not HH:MM", s.CutoffTime)}
	}

	var markers []string
	for _, m := range s.PresentMarkers {
		if m = strings.TrimSpace(m); m != "" {
			markers = append(markers, m)
		}
	}
	if len(markers) == 0 {
		return Options{}, &ConfigurationError{Option: "present_status_markers", Reason: "at least one marker is required"}
	}

	if s.HeaderSkipRows < 0 {
		return Options{}, &ConfigurationError{Option: "header_skip_rows", Reason: "must not be negative"}
	}

	if s.MaxWindowDays <= 0 {
		return Options{}, &ConfigurationError{Option: "max_window_days", Reason: "must be positive"}
	}

	weekdays, err := buildWeekdays(s.WeekdayLabels)
	if err != nil {
		return Options{}, err
	}

	reason := strings.TrimSpace(s.DefaultLeaveReason)
	if reason == "" {
		reason = DefaultLeaveReason
	}
	appSource := strings.TrimSpace(s.AppSourceName)
	if appSource == "" {
		appSource = DefaultAppSourceName
	}

	return Options{
		Cutoff:             clock.FromTime(cutoff),
		PresentMarkers:     markers,
		HeaderSkipRows:     s.HeaderSkipRows,
		DefaultLeaveReason: reason,
		AppSourceName:      appSource,
		MaxWindowDays:      s.MaxWindowDays,
		weekdays:           weekdays,
	}, nil
}

// MustOptions is NewOptions for known-good settings such as DefaultSettings.
func MustOptions(s Settings) Options {
	opts, err := NewOptions(s)
	if err != nil {
		panic(err)
	}
	return opts
}

func buildWeekdays(labels map[string]string) (map[string]time.Weekday, error) {
	weekdays := make(map[string]time.Weekday)
	if len(labels) == 0 {
		for label, day := range builtinWeekdayLabels {
			weekdays[namekey.Fold(label)] = day
		}
		return weekdays, nil
	}

	covered := make(map[time.Weekday]bool)
	for label, target := range labels {
		day, ok := parseWeekday(target)
		if !ok {
			return nil, &ConfigurationError{Option: "weekday_label_map", Reason: fmt.Sprintf("label %q maps to unknown weekday %q", label, target)}
		}
		key := namekey.Fold(label)
		if key == "" {
			return nil, &ConfigurationError{Option: "weekday_label_map", Reason: "empty label"}
		}
		weekdays[key] = day
		covered[day] = true
	}
	for d := time.Sunday; d <= time.Saturday; d++ {
		if !covered[d] {
			return nil, &ConfigurationError{Option: "weekday_label_map", Reason: fmt.Sprintf("no label for %s", d)}
		}
	}
	return weekdays, nil
}

func parseWeekday(s string) (time.Weekday, bool) {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		if n >= 0 && n <= 6 {
			return time.Weekday(n), true
		}
		return 0, false
	}
	if day, ok := builtinWeekdayLabels[s]; ok {
		return day, true
	}
	for label, day := range builtinWeekdayLabels {
		if namekey.Fold(label) == namekey.Fold(s) {
			return day, true
		}
	}
	return 0, false
}

// Weekday resolves a leave record's weekday label.
func (o Options) Weekday(label string) (time.Weekday, bool) {
	day, ok := o.weekdays[namekey.Fold(label)]
	return day, ok
}

// IsPresentMarker reports whether a status cell means "present".
func (o Options) IsPresentMarker(status string) bool {
	folded := namekey.Fold(status)
	if folded == "" {
		return false
	}
	for _, m := range o.PresentMarkers {
		if namekey.Fold(m) == folded {
			return true
		}
	}
	return false
}
