package schedule

import (
	"time"

	"github.com/dayplan-dev/dayplan/internal/model"
	"github.com/dayplan-dev/dayplan/internal/timeutil"
)

// ReminderWindowMin is the lookahead, in minutes, within which the nearest
// upcoming task surfaces a reminder.
const ReminderWindowMin = 15

// Upcoming pairs a task with its parsed due instant.
type Upcoming struct {
	Task model.Task
	Due  time.Time
}

// Reminder is the surfaced alert for the nearest upcoming task.
type Reminder struct {
	Task model.Task
	Due  time.Time
	Mins int
}

// NextUpcoming finds the non-completed task with the smallest due instant
// that is not yet due relative to now. Ties resolve to the first
// encountered. Returns nil when nothing is upcoming.
func NextUpcoming(tasks []model.Task, now time.Time) *Upcoming {
	var best *Upcoming
	for _, t := range tasks {
		if t.Completed {
			continue
		}
		due, err := timeutil.ParseLocalDateTime(t.DueAt)
		if err != nil {
			continue
		}
		if due.Before(now) {
			continue
		}
		if best == nil || due.Before(best.Due) {
			best = &Upcoming{Task: t, Due: due}
		}
	}
	return best
}

// ReminderFor emits a reminder when the nearest upcoming task is due
// within the reminder window and has not been dismissed. Dismissal is
// keyed by task id and only applies while that task is still the nearest
// upcoming one.
func ReminderFor(tasks []model.Task, now time.Time, dismissedTaskID string) *Reminder {
	next := NextUpcoming(tasks, now)
	if next == nil {
		return nil
	}
	if dismissedTaskID != "" && dismissedTaskID == next.Task.ID {
		return nil
	}
	mins := timeutil.MinutesUntil(next.Due, now)
	if mins < 0 || mins > ReminderWindowMin {
		return nil
	}
	return &Reminder{Task: next.Task, Due: next.Due, Mins: mins}
}
