package schedule

import (
	"sort"

	"github.com/dayplan-dev/dayplan/internal/model"
	"github.com/dayplan-dev/dayplan/internal/timeutil"
)

// DateGroup is one run of consecutive same-date tasks on a page.
type DateGroup struct {
	Date  string
	Items []model.Task
}

// SortByDue returns a copy of tasks stable-sorted by parsed due instant
// ascending. Ties keep source order. Tasks whose due time does not parse
// sort after every parseable task, among themselves in source order.
func SortByDue(tasks []model.Task) []model.Task {
	out := make([]model.Task, len(tasks))
	copy(out, tasks)
	sort.SliceStable(out, func(i, j int) bool {
		a, errA := timeutil.ParseLocalDateTime(out[i].DueAt)
		b, errB := timeutil.ParseLocalDateTime(out[j].DueAt)
		if errA != nil {
			return false
		}
		if errB != nil {
			return true
		}
		return a.Before(b)
	})
	return out
}

// TotalPages for n items at the given page size, never less than one.
func TotalPages(n, pageSize int) int {
	if pageSize <= 0 {
		return 1
	}
	pages := (n + pageSize - 1) / pageSize
	if pages < 1 {
		return 1
	}
	return pages
}

// ClampPage forces page into [1, TotalPages(n, pageSize)].
func ClampPage(page, n, pageSize int) int {
	total := TotalPages(n, pageSize)
	if page < 1 {
		return 1
	}
	if page > total {
		return total
	}
	return page
}

// Page slices the window [(page-1)*size, page*size) out of tasks.
func Page(tasks []model.Task, page, pageSize int) []model.Task {
	if pageSize <= 0 {
		return tasks
	}
	start := (page - 1) * pageSize
	if start < 0 {
		start = 0
	}
	if start >= len(tasks) {
		return []model.Task{}
	}
	end := start + pageSize
	if end > len(tasks) {
		end = len(tasks)
	}
	return tasks[start:end]
}

// GroupByDate partitions items into runs of consecutive equal date parts.
// A new group starts exactly when the date part differs from the previous
// item's. This is a linear partition, not a grouping by key: two
// non-adjacent runs of the same date stay separate groups.
func GroupByDate(items []model.Task) []DateGroup {
	groups := make([]DateGroup, 0)
	for _, t := range items {
		date := timeutil.DatePart(t.DueAt)
		if n := len(groups); n == 0 || groups[n-1].Date != date {
			groups = append(groups, DateGroup{Date: date, Items: []model.Task{t}})
			continue
		}
		last := &groups[len(groups)-1]
		last.Items = append(last.Items, t)
	}
	return groups
}
