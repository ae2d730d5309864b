package schedule

import (
	"time"

	"github.com/dayplan-dev/dayplan/internal/model"
)

// ConflictTTL is how long a detected due-time conflict stays visible
// before it auto-clears. A newer conflict restarts the timer.
const ConflictTTL = 8 * time.Second

// Conflicts returns the tasks sharing the candidate's exact due string.
// Detection is advisory: creation proceeds regardless of the result.
func Conflicts(tasks []model.Task, dueAt string) []model.Task {
	out := make([]model.Task, 0)
	for _, t := range tasks {
		if t.DueAt == dueAt {
			out = append(out, t)
		}
	}
	return out
}
