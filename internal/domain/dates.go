package domain

import (
	"fmt"
	"strings"
	"time"
)

// ParseDate parses a calendar date in DD/MM/YYYY.
// Anything else (ISO dates, single-digit parts, out-of-range days) is a
// validation error; the result is midnight UTC.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("%w: date is required", ErrValidation)
	}

	t, err := time.Parse(DateFormat, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: invalid date %q, expected DD/MM/YYYY", ErrValidation, s)
	}
	if t.Format(DateFormat) != s {
		return time.Time{}, fmt.Errorf("%w: invalid date %q, expected DD/MM/YYYY", ErrValidation, s)
	}
	return t, nil
}

// FormatDate renders a calendar date in DD/MM/YYYY.
func FormatDate(t time.Time) string {
	return t.Format(DateFormat)
}

// DateOnly drops the clock part and returns the calendar date of t at midnight UTC.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// SameDay reports whether both instants fall on the same calendar date.
func SameDay(a, b time.Time) bool {
	return DateOnly(a).Equal(DateOnly(b))
}

// IsBeforeDay reports whether a's calendar date is strictly before b's.
func IsBeforeDay(a, b time.Time) bool {
	return DateOnly(a).Before(DateOnly(b))
}

// DaysInclusive counts calendar days in [start, end]; 0 when end < start.
func DaysInclusive(start, end time.Time) int {
	s, e := DateOnly(start), DateOnly(end)
	if e.Before(s) {
		return 0
	}
	return int(e.Sub(s).Hours()/24) + 1
}

var weekdayNames = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// ParseWeekday accepts full English weekday names or their three-letter prefixes, in any case.
func ParseWeekday(s string) (time.Weekday, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if d, ok := weekdayNames[name]; ok {
		return d, nil
	}
	if len(name) == 3 {
		for full, d := range weekdayNames {
			if strings.HasPrefix(full, name) {
				return d, nil
			}
		}
	}
	return 0, fmt.Errorf("%w: unknown weekday %q", ErrValidation, s)
}

// WeekdayName renders a weekday in lowercase, the form ParseWeekday accepts.
func WeekdayName(d time.Weekday) string {
	return strings.ToLower(d.String())
}
