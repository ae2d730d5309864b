package views

import (
	"fmt"
	"strings"
)

type TaskRowData struct {
	ID          string
	Title       string
	Time        string
	Badge       string
	Selected    bool
	Attachments int
}

type TaskGroupData struct {
	Date string
	Rows []TaskRowData
}

type TaskListData struct {
	Groups []TaskGroupData
}

type BucketData struct {
	Label string
	Count int
}

type DailyLoadPanelData struct {
	DayLabel      string
	Total         int
	Peak          int
	Spread        int
	BusiestWindow string
	Score         float64
	Level         string
	Buckets       []BucketData
}

type SummaryPanelData struct {
	TodayCompleted  int
	TodayPending    int
	TomorrowTotal   int
	TomorrowBuckets []BucketData
	UpcomingTotal   int
	UpcomingBuckets []BucketData
}

type ReminderBannerData struct {
	Title string
	DueAt string
	Mins  int
}

type ConflictBannerData struct {
	DueAt string
	Count int
}

type FilterPanelData struct {
	Focus     bool
	Mode      string
	ExactDate string
	ExactTime string
	FromDate  string
	ToDate    string
	FromTime  string
	ToTime    string
}

type PaginationData struct {
	Page       int
	TotalPages int
	PageSize   int
	Total      int
	Showing    int
}

type AttachmentRowData struct {
	ID   string
	Name string
	Kind string
	Size int64
}

type DetailPaneData struct {
	TaskID      string
	Title       string
	DueAt       string
	Badge       string
	Description string
	Attachments []AttachmentRowData
}

func RenderTaskList(data TaskListData) string {
	if len(data.Groups) == 0 {
		return "tasks:\n  (nothing due here)"
	}
	var b strings.Builder
	b.WriteString("tasks:\n")
	for _, group := range data.Groups {
		b.WriteString(fmt.Sprintf("\n%s:\n", group.Date))
		for _, row := range group.Rows {
			cursor := " "
			if row.Selected {
				cursor = ">"
			}
			b.WriteString(fmt.Sprintf("%s %s %s %s", cursor, row.Badge, row.Time, row.Title))
			if row.Attachments > 0 {
				b.WriteString(fmt.Sprintf(" (%d att)", row.Attachments))
			}
			b.WriteString("\n")
		}
	}
	return strings.TrimSpace(b.String())
}

func RenderDailyLoadPanel(data DailyLoadPanelData) string {
	var b strings.Builder
	b.WriteString("daily-load:\n")
	b.WriteString(fmt.Sprintf("day: %s\n", data.DayLabel))
	b.WriteString(fmt.Sprintf("level: %s (score %.1f)\n", strings.ToUpper(data.Level), data.Score))
	b.WriteString(fmt.Sprintf("total: %d | peak: %d | spread: %d\n", data.Total, data.Peak, data.Spread))
	if data.BusiestWindow != "" {
		b.WriteString(fmt.Sprintf("busiest: %s\n", data.BusiestWindow))
	}
	for _, bucket := range data.Buckets {
		b.WriteString(fmt.Sprintf("%s %s %d\n", bucket.Label, strings.Repeat("#", bucket.Count), bucket.Count))
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func RenderSummaryPanel(data SummaryPanelData) string {
	var b strings.Builder
	b.WriteString("summary:\n")
	b.WriteString(fmt.Sprintf("today: %d completed, %d pending\n", data.TodayCompleted, data.TodayPending))
	b.WriteString(fmt.Sprintf("tomorrow: %d\n", data.TomorrowTotal))
	writeBucketLine(&b, data.TomorrowBuckets)
	b.WriteString(fmt.Sprintf("next 7 days: %d\n", data.UpcomingTotal))
	writeBucketLine(&b, data.UpcomingBuckets)
	return strings.TrimSuffix(b.String(), "\n")
}

func RenderReminderBanner(data ReminderBannerData) string {
	unit := "mins"
	if data.Mins == 1 {
		unit = "min"
	}
	return fmt.Sprintf("reminder: %q due in %d %s (%s) | [d]ismiss", data.Title, data.Mins, unit, data.DueAt)
}

func RenderConflictBanner(data ConflictBannerData) string {
	return fmt.Sprintf("conflict: %d task(s) already due at %s", data.Count, data.DueAt)
}

func RenderFilterPanel(data FilterPanelData) string {
	if data.Focus {
		return "filter:\nfocus mode: next 4 hours"
	}
	var b strings.Builder
	b.WriteString("filter:\n")
	b.WriteString(fmt.Sprintf("mode: %s\n", data.Mode))
	switch data.Mode {
	case "exact":
		b.WriteString(fmt.Sprintf("date: %s | time: %s\n", orDash(data.ExactDate), orDash(data.ExactTime)))
	default:
		b.WriteString(fmt.Sprintf("dates: %s .. %s\n", orDash(data.FromDate), orDash(data.ToDate)))
		b.WriteString(fmt.Sprintf("times: %s .. %s\n", orDash(data.FromTime), orDash(data.ToTime)))
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func RenderPagination(data PaginationData) string {
	return fmt.Sprintf("page %d/%d | showing %d of %d | size %d",
		data.Page, data.TotalPages, data.Showing, data.Total, data.PageSize)
}

func RenderDetailPane(data DetailPaneData) string {
	if data.TaskID == "" {
		return "detail:\n(no selection)"
	}
	var b strings.Builder
	b.WriteString("detail:\n")
	b.WriteString(fmt.Sprintf("id: %s\n", data.TaskID))
	b.WriteString(fmt.Sprintf("%s %s\n", data.Badge, data.Title))
	b.WriteString(fmt.Sprintf("due: %s\n", data.DueAt))
	if md := RenderMarkdown(data.Description); md != "" {
		b.WriteString("\n" + md + "\n")
	}
	if len(data.Attachments) > 0 {
		b.WriteString("\nattachments:\n")
		for _, a := range data.Attachments {
			b.WriteString(fmt.Sprintf("- [%s] %s (%s, %d bytes)\n", a.Kind, a.Name, a.ID, a.Size))
		}
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func RenderCommandPalette(active bool, input string) string {
	if !active {
		return ""
	}
	return fmt.Sprintf("command: /%s", input)
}

func RenderNotification(level string, body string) string {
	if strings.TrimSpace(body) == "" {
		return ""
	}
	return fmt.Sprintf("\nnotification: [%s] %s", strings.ToUpper(level), body)
}

func writeBucketLine(b *strings.Builder, buckets []BucketData) {
	parts := make([]string, 0, len(buckets))
	for _, bucket := range buckets {
		if bucket.Count == 0 {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s:%d", bucket.Label, bucket.Count))
	}
	if len(parts) == 0 {
		return
	}
	b.WriteString("  " + strings.Join(parts, " ") + "\n")
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
