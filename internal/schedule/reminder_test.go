package schedule

import (
	"testing"
	"time"

	"github.com/dayplan-dev/dayplan/internal/model"
)

func TestReminderWithinWindow(t *testing.T) {
	now := time.Date(2026, 2, 9, 12, 0, 0, 0, time.Local)
	tasks := []model.Task{task("soon", "2026-02-09T12:10", false)}

	got := ReminderFor(tasks, now, "")
	if got == nil {
		t.Fatal("expected a reminder")
	}
	if got.Task.ID != "soon" || got.Mins != 10 {
		t.Fatalf("unexpected reminder: %+v", got)
	}
}

func TestReminderOutsideWindow(t *testing.T) {
	now := time.Date(2026, 2, 9, 12, 0, 0, 0, time.Local)
	tasks := []model.Task{task("later", "2026-02-09T12:20", false)}
	if got := ReminderFor(tasks, now, ""); got != nil {
		t.Fatalf("expected no reminder for T+20min, got %+v", got)
	}
}

func TestReminderSkipsCompletedAndPastTasks(t *testing.T) {
	now := time.Date(2026, 2, 9, 12, 0, 0, 0, time.Local)
	tasks := []model.Task{
		task("done", "2026-02-09T12:05", true),
		task("past", "2026-02-09T11:55", false),
		task("next", "2026-02-09T12:12", false),
	}
	got := ReminderFor(tasks, now, "")
	if got == nil || got.Task.ID != "next" {
		t.Fatalf("expected reminder for %q, got %+v", "next", got)
	}
}

func TestReminderDismissalOnlyBindsNearestUpcoming(t *testing.T) {
	now := time.Date(2026, 2, 9, 12, 0, 0, 0, time.Local)
	tasks := []model.Task{
		task("first", "2026-02-09T12:05", false),
		task("second", "2026-02-09T12:10", false),
	}
	if got := ReminderFor(tasks, now, "first"); got != nil {
		t.Fatalf("dismissed nearest task must stay silent, got %+v", got)
	}
	// Dismissal keyed to a task that is no longer nearest has no effect.
	if got := ReminderFor(tasks, now, "second"); got == nil || got.Task.ID != "first" {
		t.Fatalf("expected reminder for first, got %+v", got)
	}
}

func TestNextUpcomingPicksSmallestDue(t *testing.T) {
	now := time.Date(2026, 2, 9, 12, 0, 0, 0, time.Local)
	tasks := []model.Task{
		task("b", "2026-02-09T15:00", false),
		task("a", "2026-02-09T13:00", false),
		task("bad", "garbage", false),
	}
	got := NextUpcoming(tasks, now)
	if got == nil || got.Task.ID != "a" {
		t.Fatalf("unexpected next upcoming: %+v", got)
	}
	if got := NextUpcoming(nil, now); got != nil {
		t.Fatalf("expected nil for empty set, got %+v", got)
	}
}

func TestReminderAtExactDueTime(t *testing.T) {
	now := time.Date(2026, 2, 9, 12, 0, 0, 0, time.Local)
	tasks := []model.Task{task("now", "2026-02-09T12:00", false)}
	got := ReminderFor(tasks, now, "")
	if got == nil || got.Mins != 0 {
		t.Fatalf("expected mins=0 reminder, got %+v", got)
	}
}
