package timeutil

import (
	"errors"
	"testing"
	"time"
)

func TestParseLocalDateTime(t *testing.T) {
	got, err := ParseLocalDateTime("2026-02-09T14:30")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	want := time.Date(2026, 2, 9, 14, 30, 0, 0, time.Local)
	if !got.Equal(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestParseLocalDateTimeUnparseable(t *testing.T) {
	cases := []string{"", "2026-02-09", "2026-02-09 14:30", "not-a-date", "2026-02-09Tnoon"}
	for _, in := range cases {
		if _, err := ParseLocalDateTime(in); !errors.Is(err, ErrUnparseable) {
			t.Fatalf("input %q: expected ErrUnparseable, got %v", in, err)
		}
	}
}

func TestDateAndTimeParts(t *testing.T) {
	if got := DatePart("2026-02-09T14:30"); got != "2026-02-09" {
		t.Fatalf("unexpected date part: %q", got)
	}
	if got := TimePart("2026-02-09T14:30"); got != "14:30" {
		t.Fatalf("unexpected time part: %q", got)
	}
	if got := TimePart("2026-02-09"); got != "" {
		t.Fatalf("expected empty time part without T, got %q", got)
	}
}

func TestParseTimeToMinutes(t *testing.T) {
	cases := []struct {
		in   string
		want int
	}{
		{"00:00", 0},
		{"09:30", 570},
		{"23:59", 1439},
	}
	for _, tc := range cases {
		got, err := ParseTimeToMinutes(tc.in)
		if err != nil {
			t.Fatalf("parse %q: %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("ParseTimeToMinutes(%q) = %d, want %d", tc.in, got, tc.want)
		}
	}
	if _, err := ParseTimeToMinutes("noon"); !errors.Is(err, ErrUnparseable) {
		t.Fatalf("expected ErrUnparseable, got %v", err)
	}
}

func TestDayBoundsUseWallClockFields(t *testing.T) {
	ref := time.Date(2026, 2, 9, 14, 30, 45, 12345, time.Local)

	start := StartOfDay(ref)
	if start.Hour() != 0 || start.Minute() != 0 || start.Second() != 0 || start.Nanosecond() != 0 {
		t.Fatalf("unexpected start of day: %v", start)
	}
	if start.Day() != 9 {
		t.Fatalf("start of day changed date: %v", start)
	}

	end := EndOfDay(ref)
	if end.Hour() != 23 || end.Minute() != 59 || end.Second() != 59 {
		t.Fatalf("unexpected end of day: %v", end)
	}
}

func TestAddDaysCrossesMonthBoundary(t *testing.T) {
	ref := time.Date(2026, 1, 31, 10, 0, 0, 0, time.Local)
	got := AddDays(ref, 1)
	if got.Month() != time.February || got.Day() != 1 {
		t.Fatalf("unexpected date: %v", got)
	}
	if got.Hour() != 10 {
		t.Fatalf("time of day changed: %v", got)
	}
}

func TestLocalDateKey(t *testing.T) {
	ref := time.Date(2026, 2, 9, 23, 59, 0, 0, time.Local)
	if got := LocalDateKey(ref); got != "2026-02-09" {
		t.Fatalf("unexpected key: %q", got)
	}
}

func TestMinutesUntilRoundsUp(t *testing.T) {
	now := time.Date(2026, 2, 9, 12, 0, 0, 0, time.Local)
	cases := []struct {
		target time.Time
		want   int
	}{
		{now.Add(10 * time.Minute), 10},
		{now.Add(9*time.Minute + time.Second), 10},
		{now, 0},
		{now.Add(-time.Minute), -1},
	}
	for _, tc := range cases {
		if got := MinutesUntil(tc.target, now); got != tc.want {
			t.Fatalf("MinutesUntil(%v) = %d, want %d", tc.target, got, tc.want)
		}
	}
}

func TestFormatLocalDateTimeFallsBackOnBadInput(t *testing.T) {
	if got := FormatLocalDateTime("garbage"); got != "garbage" {
		t.Fatalf("expected passthrough, got %q", got)
	}
	if got := FormatLocalDateTime("2026-02-09T14:30"); got == "2026-02-09T14:30" {
		t.Fatalf("expected formatted output, got raw value")
	}
}
