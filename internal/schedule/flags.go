// Package schedule is the scheduling and workload-analysis engine. Every
// function is pure over a task slice and a single current-time value so
// derived views can be recomputed on any input change.
package schedule

import (
	"time"

	"github.com/dayplan-dev/dayplan/internal/model"
	"github.com/dayplan-dev/dayplan/internal/timeutil"
)

// TaskFlags is the derived render state of one task. Completed dominates;
// overdue, in-progress and planned are disjoint for non-completed tasks.
type TaskFlags struct {
	Completed  bool
	Overdue    bool
	InProgress bool
	Planned    bool
}

// Flags classifies one task against now and the current in-progress task
// id. A task with an unparseable due time is excluded from time-based
// classification: neither overdue nor planned.
func Flags(task model.Task, now time.Time, inProgressID string) TaskFlags {
	flags := TaskFlags{Completed: task.Completed}
	if flags.Completed {
		return flags
	}

	due, err := timeutil.ParseLocalDateTime(task.DueAt)
	flags.InProgress = inProgressID != "" && inProgressID == task.ID
	if err != nil {
		return flags
	}
	flags.Overdue = due.Before(now)
	flags.Planned = !flags.Overdue && !flags.InProgress
	return flags
}
