package update

import (
	"strings"
	"time"

	"github.com/dayplan-dev/dayplan/internal/model"
	"github.com/dayplan-dev/dayplan/internal/schedule"
	"github.com/dayplan-dev/dayplan/internal/timeutil"
)

// loadDayKey picks which local date the daily-load panel analyzes. A
// pinned or single-day filter wins over the current date.
func loadDayKey(now time.Time, state schedule.FilterState) string {
	if state.Mode == schedule.FilterExact && state.ExactDate != "" {
		return state.ExactDate
	}
	if state.FromDate != "" && state.ToDate == "" {
		return state.FromDate
	}
	if state.FromDate != "" && state.FromDate == state.ToDate {
		return state.FromDate
	}
	if state.FromDate == "" && state.ToDate != "" {
		return state.ToDate
	}
	return timeutil.LocalDateKey(now)
}

type Summary struct {
	TodayCompleted  int
	TodayPending    int
	TomorrowTotal   int
	TomorrowBuckets [schedule.BucketCount]int
	UpcomingTotal   int
	UpcomingBuckets [schedule.BucketCount]int
}

// Summarize builds the today / tomorrow / next-seven-days cards. Today
// and tomorrow membership is a date-prefix match on the raw due string;
// the seven-day window needs a parsed instant, so unparseable tasks
// fall out of it.
func Summarize(tasks []model.Task, now time.Time) Summary {
	todayKey := timeutil.LocalDateKey(now)
	tomorrow := timeutil.AddDays(now, 1)
	tomorrowKey := timeutil.LocalDateKey(tomorrow)

	var out Summary
	tomorrowTasks := make([]model.Task, 0)
	for _, t := range tasks {
		if strings.HasPrefix(t.DueAt, todayKey) {
			if t.Completed {
				out.TodayCompleted++
			} else {
				out.TodayPending++
			}
		}
		if strings.HasPrefix(t.DueAt, tomorrowKey) {
			tomorrowTasks = append(tomorrowTasks, t)
		}
	}
	out.TomorrowTotal = len(tomorrowTasks)
	out.TomorrowBuckets = schedule.BucketTasks(tomorrowTasks)

	rangeStart := timeutil.StartOfDay(tomorrow)
	rangeEnd := timeutil.AddDays(rangeStart, 7)
	upcoming := make([]model.Task, 0)
	for _, t := range tasks {
		due, err := timeutil.ParseLocalDateTime(t.DueAt)
		if err != nil {
			continue
		}
		if !due.Before(rangeStart) && due.Before(rangeEnd) {
			upcoming = append(upcoming, t)
		}
	}
	out.UpcomingTotal = len(upcoming)
	out.UpcomingBuckets = schedule.BucketTasks(upcoming)
	return out
}
