package schedule

import (
	"time"

	"github.com/dayplan-dev/dayplan/internal/model"
	"github.com/dayplan-dev/dayplan/internal/timeutil"
)

type FilterMode string

const (
	FilterBetween FilterMode = "between"
	FilterExact   FilterMode = "exact"
)

// FocusWindow is the fixed lookahead used by focus mode.
const FocusWindow = 4 * time.Hour

// FilterState is a view-layer parameter, never persisted with tasks. All
// fields are optional; empty means unbounded on that side.
type FilterState struct {
	Mode      FilterMode
	FromDate  string
	FromTime  string
	ToDate    string
	ToTime    string
	ExactDate string
	ExactTime string
}

func (f FilterState) IsEmpty() bool {
	return f.FromDate == "" && f.FromTime == "" && f.ToDate == "" && f.ToTime == "" &&
		f.ExactDate == "" && f.ExactTime == ""
}

// Clear drops all bounds but keeps the selected mode.
func (f FilterState) Clear() FilterState {
	return FilterState{Mode: f.Mode}
}

// Filter reduces tasks to the visible subset. Focus mode overrides the
// filter state entirely: tasks due within [now, now+4h], both bounds
// inclusive. Tasks with unparseable due times are excluded from every
// instant-based check.
func Filter(tasks []model.Task, now time.Time, focus bool, state FilterState) []model.Task {
	if focus {
		end := now.Add(FocusWindow)
		out := make([]model.Task, 0)
		for _, t := range tasks {
			due, err := timeutil.ParseLocalDateTime(t.DueAt)
			if err != nil {
				continue
			}
			if !due.Before(now) && !due.After(end) {
				out = append(out, t)
			}
		}
		return out
	}

	if state.Mode == FilterExact {
		return filterExact(tasks, state)
	}
	return filterBetween(tasks, state)
}

func filterExact(tasks []model.Task, state FilterState) []model.Task {
	switch {
	case state.ExactDate == "" && state.ExactTime == "":
		return tasks
	case state.ExactDate != "" && state.ExactTime == "":
		out := make([]model.Task, 0)
		for _, t := range tasks {
			if timeutil.DatePart(t.DueAt) == state.ExactDate {
				out = append(out, t)
			}
		}
		return out
	case state.ExactDate != "" && state.ExactTime != "":
		target, err := timeutil.ParseLocalDateTime(state.ExactDate + "T" + state.ExactTime)
		if err != nil {
			return []model.Task{}
		}
		out := make([]model.Task, 0)
		for _, t := range tasks {
			due, err := timeutil.ParseLocalDateTime(t.DueAt)
			if err != nil {
				continue
			}
			if due.Equal(target) {
				out = append(out, t)
			}
		}
		return out
	default:
		out := make([]model.Task, 0)
		for _, t := range tasks {
			if timeutil.TimePart(t.DueAt) == state.ExactTime {
				out = append(out, t)
			}
		}
		return out
	}
}

func filterBetween(tasks []model.Task, state FilterState) []model.Task {
	hasDate := state.FromDate != "" || state.ToDate != ""
	hasTime := state.FromTime != "" || state.ToTime != ""
	if !hasDate && !hasTime {
		return tasks
	}

	var fromBound, toBound time.Time
	haveFrom, haveTo := false, false
	if state.FromDate != "" {
		if d, err := timeutil.ParseLocalDateOnly(state.FromDate); err == nil {
			fromBound = timeutil.StartOfDay(d)
			haveFrom = true
		}
	}
	if state.ToDate != "" {
		if d, err := timeutil.ParseLocalDateOnly(state.ToDate); err == nil {
			toBound = timeutil.EndOfDay(d)
			haveTo = true
		}
	}

	fromMin, toMin := 0, 24*60-1
	if state.FromTime != "" {
		if v, err := timeutil.ParseTimeToMinutes(state.FromTime); err == nil {
			fromMin = v
		}
	}
	if state.ToTime != "" {
		if v, err := timeutil.ParseTimeToMinutes(state.ToTime); err == nil {
			toMin = v
		}
	}

	out := make([]model.Task, 0)
	for _, t := range tasks {
		if hasDate {
			due, err := timeutil.ParseLocalDateTime(t.DueAt)
			if err != nil {
				continue
			}
			if haveFrom && due.Before(fromBound) {
				continue
			}
			if haveTo && due.After(toBound) {
				continue
			}
		}
		if hasTime {
			clock := timeutil.TimePart(t.DueAt)
			if clock == "" {
				continue
			}
			mins, err := timeutil.ParseTimeToMinutes(clock)
			if err != nil {
				continue
			}
			if mins < fromMin || mins > toMin {
				continue
			}
		}
		out = append(out, t)
	}
	return out
}
