// Package timeutil handles the naive local date-time strings tasks are
// scheduled with (YYYY-MM-DDTHH:mm). Values carry no timezone and are
// interpreted as local wall-clock time.
package timeutil

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var ErrUnparseable = errors.New("timeutil: unparseable date-time")

// ParseLocalDateTime parses a YYYY-MM-DDTHH:mm string into an instant in
// the local calendar. No UTC conversion is performed; DST normalization is
// whatever local calendar construction implies.
func ParseLocalDateTime(value string) (time.Time, error) {
	datePart, timePart, ok := strings.Cut(value, "T")
	if !ok {
		return time.Time{}, fmt.Errorf("%w: %q", ErrUnparseable, value)
	}
	y, m, d, err := splitDate(datePart)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrUnparseable, value)
	}
	hh, mm, err := splitTime(timePart)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrUnparseable, value)
	}
	return time.Date(y, time.Month(m), d, hh, mm, 0, 0, time.Local), nil
}

// ParseLocalDateOnly parses a YYYY-MM-DD string into local midnight of
// that day.
func ParseLocalDateOnly(value string) (time.Time, error) {
	y, m, d, err := splitDate(value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrUnparseable, value)
	}
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.Local), nil
}

// ParseTimeToMinutes converts an HH:mm string to minutes since midnight.
func ParseTimeToMinutes(value string) (int, error) {
	hh, mm, err := splitTime(value)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrUnparseable, value)
	}
	return hh*60 + mm, nil
}

// DatePart returns the substring before the first T, TimePart the part
// after it. A value without a T has an empty time part.
func DatePart(dueAt string) string {
	date, _, _ := strings.Cut(dueAt, "T")
	return date
}

func TimePart(dueAt string) string {
	_, clock, _ := strings.Cut(dueAt, "T")
	return clock
}

// LocalDateKey formats t's local calendar date as YYYY-MM-DD.
func LocalDateKey(t time.Time) string {
	return fmt.Sprintf("%04d-%02d-%02d", t.Year(), int(t.Month()), t.Day())
}

// AddDays shifts by calendar days using wall-clock fields, not elapsed
// duration, so the result is DST-safe.
func AddDays(t time.Time, days int) time.Time {
	return t.AddDate(0, 0, days)
}

func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func EndOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, 999*int(time.Millisecond), t.Location())
}

// MinutesUntil returns the number of whole minutes from now until target,
// rounded up.
func MinutesUntil(target, now time.Time) int {
	diff := target.Sub(now)
	mins := diff / time.Minute
	if diff%time.Minute > 0 {
		mins++
	}
	return int(mins)
}

// FormatLocalDateTime renders a stored due string for display. Display
// only; never round-tripped back into storage. Unparseable input is
// returned unchanged.
func FormatLocalDateTime(value string) string {
	t, err := ParseLocalDateTime(value)
	if err != nil {
		return value
	}
	return t.Format("Jan 02, 2006 15:04")
}

// FormatShort renders an instant as a short display stamp.
func FormatShort(t time.Time) string {
	return t.Format("Jan 02 15:04")
}

func splitDate(value string) (y, m, d int, err error) {
	parts := strings.Split(value, "-")
	if len(parts) != 3 {
		return 0, 0, 0, ErrUnparseable
	}
	if y, err = strconv.Atoi(parts[0]); err != nil {
		return 0, 0, 0, err
	}
	if m, err = strconv.Atoi(parts[1]); err != nil {
		return 0, 0, 0, err
	}
	if d, err = strconv.Atoi(parts[2]); err != nil {
		return 0, 0, 0, err
	}
	return y, m, d, nil
}

func splitTime(value string) (hh, mm int, err error) {
	parts := strings.Split(value, ":")
	if len(parts) < 2 {
		return 0, 0, ErrUnparseable
	}
	if hh, err = strconv.Atoi(parts[0]); err != nil {
		return 0, 0, err
	}
	if mm, err = strconv.Atoi(parts[1]); err != nil {
		return 0, 0, err
	}
	return hh, mm, nil
}
