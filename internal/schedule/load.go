package schedule

import (
	"github.com/dayplan-dev/dayplan/internal/model"
	"github.com/dayplan-dev/dayplan/internal/timeutil"
)

type LoadLevel string

const (
	LoadLight    LoadLevel = "light"
	LoadBalanced LoadLevel = "balanced"
	LoadHeavy    LoadLevel = "heavy"
)

// BucketCount is the number of fixed four-hour windows in a day.
const BucketCount = 6

// BucketLabels are the display labels of the six four-hour windows, in
// order: [0,4) [4,8) [8,12) [12,16) [16,20) [20,24).
var BucketLabels = [BucketCount]string{
	"00:00–04:00",
	"04:00–08:00",
	"08:00–12:00",
	"12:00–16:00",
	"16:00–20:00",
	"20:00–24:00",
}

// DailyLoad is a derived workload summary for one calendar day. Never
// persisted.
type DailyLoad struct {
	Load          LoadLevel
	Score         float64
	Total         int
	Peak          int
	Spread        int
	BusiestWindow string
	Buckets       [BucketCount]int
}

// BucketTasks partitions tasks into the six four-hour windows by local due
// hour. Tasks with an unparseable due time are skipped.
func BucketTasks(tasks []model.Task) [BucketCount]int {
	var buckets [BucketCount]int
	for _, t := range tasks {
		due, err := timeutil.ParseLocalDateTime(t.DueAt)
		if err != nil {
			continue
		}
		buckets[due.Hour()/4]++
	}
	return buckets
}

// DailyLoadFor scores one day's tasks. The score formula and its
// thresholds are contract values:
//
//	score = total + peak*1.5 + max(0, spread-1)*0.5
//	score <= 5 light, score <= 10 balanced, else heavy
//
// BusiestWindow is the first bucket achieving the peak count, ties broken
// by earliest window.
func DailyLoadFor(dayTasks []model.Task) DailyLoad {
	buckets := BucketTasks(dayTasks)

	peak := 0
	for _, c := range buckets {
		if c > peak {
			peak = c
		}
	}
	spread := 0
	for _, c := range buckets {
		if c > 0 {
			spread++
		}
	}
	busiestIdx := 0
	for i, c := range buckets {
		if c == peak {
			busiestIdx = i
			break
		}
	}
	busiest := BucketLabels[busiestIdx]

	total := len(dayTasks)
	score := float64(total) + float64(peak)*1.5 + maxFloat(0, float64(spread-1))*0.5

	load := LoadHeavy
	switch {
	case score <= 5:
		load = LoadLight
	case score <= 10:
		load = LoadBalanced
	}

	return DailyLoad{
		Load:          load,
		Score:         score,
		Total:         total,
		Peak:          peak,
		Spread:        spread,
		BusiestWindow: busiest,
		Buckets:       buckets,
	}
}

// TasksForDay selects tasks whose due date part string-equals the
// YYYY-MM-DD day key.
func TasksForDay(tasks []model.Task, dayKey string) []model.Task {
	out := make([]model.Task, 0)
	for _, t := range tasks {
		if timeutil.DatePart(t.DueAt) == dayKey {
			out = append(out, t)
		}
	}
	return out
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
