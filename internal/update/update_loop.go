package update

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/dayplan-dev/dayplan/internal/model"
	"github.com/dayplan-dev/dayplan/internal/schedule"
	"github.com/dayplan-dev/dayplan/internal/scheduler"
	"github.com/dayplan-dev/dayplan/internal/timeutil"
	"github.com/dayplan-dev/dayplan/internal/views"
)

func clockTickCmd() tea.Cmd {
	return tea.Tick(ClockInterval, func(t time.Time) tea.Msg {
		return ClockTickMsg{At: t}
	})
}

func waitForAlertCmd(ch <-chan scheduler.Alert) tea.Cmd {
	return func() tea.Msg {
		alert, ok := <-ch
		if !ok {
			return nil
		}
		return AlertMsg{Alert: alert}
	}
}

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{clockTickCmd()}
	if cmd := loadTasksCmd(m); cmd != nil {
		cmds = append(cmds, cmd)
	}
	if m.Scheduler != nil {
		cmds = append(cmds, waitForAlertCmd(m.Scheduler.C()))
	}
	return tea.Batch(cmds...)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.KeyMsg:
		if m.Palette.Active {
			next, cmd := m.handlePaletteKey(typed)
			return next, cmd
		}
		return m.handleGlobalKey(typed)

	case ClockTickMsg:
		m.Now = typed.At
		m.refreshReminderAlert()
		return m, clockTickCmd()

	case AlertMsg:
		switch typed.Alert.Kind {
		case scheduler.AlertConflictExpiry:
			m.ConflictDueAt = ""
		case scheduler.AlertReminderCheck:
			m.Now = time.Now()
		}
		if m.Scheduler != nil {
			return m, waitForAlertCmd(m.Scheduler.C())
		}
		return m, nil

	case TasksLoadedMsg:
		if typed.Err != nil {
			m.LastError = typed.Err
			m.Status = StatusBar{Text: typed.Err.Error(), IsError: true}
			m.notify("Load Failed", typed.Err.Error(), "error")
			return m, nil
		}
		m.Tasks = typed.Tasks
		m.InProgressID = typed.InProgressID
		m.refreshReminderAlert()
		return m, nil

	case OpDoneMsg:
		if m.PendingOps > 0 {
			m.PendingOps--
		}
		if typed.Err != nil {
			m.LastError = typed.Err
			m.Status = StatusBar{Text: fmt.Sprintf("%s failed: %v", typed.Label, typed.Err), IsError: true}
			m.notify("Save Failed", typed.Err.Error(), "error")
		}
		return m, nil

	case TaskReplacedMsg:
		if m.PendingOps > 0 {
			m.PendingOps--
		}
		if typed.Err != nil {
			m.LastError = typed.Err
			m.Status = StatusBar{Text: fmt.Sprintf("%s failed: %v", typed.Label, typed.Err), IsError: true}
			m.notify("Attachment Failed", typed.Err.Error(), "error")
			return m, nil
		}
		m.replaceTask(typed.Task)
		m.Status = StatusBar{Text: fmt.Sprintf("%s done: %s", typed.Label, typed.Task.Title), IsError: false}
		return m, nil

	case SignedURLMsg:
		if typed.Err != nil {
			m.Status = StatusBar{Text: typed.Err.Error(), IsError: true}
			m.notify("Link Failed", typed.Err.Error(), "error")
			return m, nil
		}
		m.Status = StatusBar{Text: fmt.Sprintf("%s: %s (valid 60s)", typed.Name, typed.URL), IsError: false}
		m.notify("Download Link", typed.URL, "info")
		return m, nil

	case spinner.TickMsg:
		if m.PendingOps > 0 {
			var cmd tea.Cmd
			m.busySpinner, cmd = m.busySpinner.Update(typed)
			return m, cmd
		}
		return m, nil

	case SetStatusMsg:
		m.Status = StatusBar{Text: typed.Text, IsError: typed.IsError}
		m.notify("Status", typed.Text, levelFromError(typed.IsError))
		return m, nil

	case ClearStatusMsg:
		m.Status = StatusBar{}
		return m, nil

	case AppErrorMsg:
		m.LastError = typed.Err
		if typed.Err != nil {
			m.Status = StatusBar{Text: typed.Err.Error(), IsError: true}
			m.notify("Error", typed.Err.Error(), "error")
		}
		return m, nil
	}

	return m, nil
}

func (m Model) handleGlobalKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	visible := m.visible()
	pageTasks := schedule.Page(visible, m.currentPage(visible), m.PageSize)

	switch msg.String() {
	case "/":
		m.Palette.Active = true
		m.Palette.Input = ""
		m.commandInput.Focus()
		m.commandInput.SetValue("")
		m.Status = StatusBar{Text: "command palette active", IsError: false}
		return m, nil
	case m.Keys.Down:
		if m.Cursor < len(pageTasks)-1 {
			m.Cursor++
		}
		return m, nil
	case m.Keys.Up:
		if m.Cursor > 0 {
			m.Cursor--
		}
		return m, nil
	case m.Keys.NextPage:
		m.Page = m.currentPage(visible) + 1
		m.Cursor = 0
		return m, nil
	case m.Keys.PrevPage:
		m.Page = m.currentPage(visible) - 1
		m.Cursor = 0
		return m, nil
	case m.Keys.Focus:
		m.FocusMode = !m.FocusMode
		m.Page = 1
		m.Cursor = 0
		return m, nil
	case m.Keys.Dismiss:
		if reminder := schedule.ReminderFor(m.Tasks, m.Now, m.DismissedTaskID); reminder != nil {
			m.DismissedTaskID = reminder.Task.ID
			m.Status = StatusBar{Text: "reminder dismissed", IsError: false}
		}
		return m, nil
	case "esc":
		m.Filter = m.Filter.Clear()
		m.Page = 1
		return m, nil
	case "ctrl+c", m.Keys.Quit:
		m.Quitting = true
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) View() string {
	visible := m.visible()
	page := m.currentPage(visible)
	totalPages := schedule.TotalPages(len(visible), m.PageSize)
	pageTasks := schedule.Page(visible, page, m.PageSize)
	groups := schedule.GroupByDate(pageTasks)

	listData := views.TaskListData{}
	flat := 0
	for _, group := range groups {
		groupData := views.TaskGroupData{Date: group.Date}
		for _, task := range group.Items {
			flags := schedule.Flags(task, m.Now, m.InProgressID)
			groupData.Rows = append(groupData.Rows, views.TaskRowData{
				ID:          task.ID,
				Title:       task.Title,
				Time:        timeutil.TimePart(task.DueAt),
				Badge:       badgeFor(flags),
				Selected:    flat == m.Cursor,
				Attachments: len(task.Attachments),
			})
			flat++
		}
		listData.Groups = append(listData.Groups, groupData)
	}

	taskPane := views.RenderTaskList(listData)
	taskPane += "\n\n" + views.RenderFilterPanel(views.FilterPanelData{
		Focus:     m.FocusMode,
		Mode:      string(m.Filter.Mode),
		ExactDate: m.Filter.ExactDate,
		ExactTime: m.Filter.ExactTime,
		FromDate:  m.Filter.FromDate,
		ToDate:    m.Filter.ToDate,
		FromTime:  m.Filter.FromTime,
		ToTime:    m.Filter.ToTime,
	})
	if palette := views.RenderCommandPalette(m.Palette.Active, m.Palette.Input); palette != "" {
		taskPane += "\n\n" + palette
	}

	sidePane := m.renderSidePane(pageTasks)

	banner := ""
	if m.ConflictDueAt != "" {
		banner = views.RenderConflictBanner(views.ConflictBannerData{
			DueAt: m.ConflictDueAt,
			Count: len(schedule.Conflicts(m.Tasks, m.ConflictDueAt)),
		})
	}
	if reminder := schedule.ReminderFor(m.Tasks, m.Now, m.DismissedTaskID); reminder != nil {
		reminderLine := views.RenderReminderBanner(views.ReminderBannerData{
			Title: reminder.Task.Title,
			DueAt: timeutil.FormatLocalDateTime(reminder.Task.DueAt),
			Mins:  reminder.Mins,
		})
		banner = strings.TrimSpace(banner + "\n" + reminderLine)
	}

	status := ""
	if m.Status.Text != "" {
		if m.Status.IsError {
			status = fmt.Sprintf("status: error: %s", m.Status.Text)
		} else {
			status = fmt.Sprintf("status: %s", m.Status.Text)
		}
	}
	if m.PendingOps > 0 {
		status = strings.TrimSpace(status + fmt.Sprintf(" | %s saving (%d)", m.busySpinner.View(), m.PendingOps))
	}

	return views.RenderApp(views.AppData{
		Header:     fmt.Sprintf("dayplan | %s | %d task(s)", timeutil.FormatShort(m.Now), len(m.Tasks)),
		TaskPane:   taskPane,
		SidePane:   sidePane,
		Banner:     banner,
		StatusLine: status,
		Footer: fmt.Sprintf("%s | keys: %s/%s move | %s/%s page | %s focus | %s dismiss | / cmd | esc clear-filter | %s quit",
			views.RenderPagination(views.PaginationData{
				Page:       page,
				TotalPages: totalPages,
				PageSize:   m.PageSize,
				Total:      len(visible),
				Showing:    len(pageTasks),
			}),
			m.Keys.Down, m.Keys.Up, m.Keys.PrevPage, m.Keys.NextPage, m.Keys.Focus, m.Keys.Dismiss, m.Keys.Quit),
	})
}

func (m Model) renderSidePane(pageTasks []model.Task) string {
	dayKey := loadDayKey(m.Now, m.Filter)
	load := schedule.DailyLoadFor(schedule.TasksForDay(m.Tasks, dayKey))
	loadBuckets := make([]views.BucketData, 0, schedule.BucketCount)
	for i, label := range schedule.BucketLabels {
		loadBuckets = append(loadBuckets, views.BucketData{Label: label, Count: load.Buckets[i]})
	}

	summary := Summarize(m.Tasks, m.Now)

	parts := []string{
		views.RenderDailyLoadPanel(views.DailyLoadPanelData{
			DayLabel:      dayKey,
			Total:         load.Total,
			Peak:          load.Peak,
			Spread:        load.Spread,
			BusiestWindow: load.BusiestWindow,
			Score:         load.Score,
			Level:         string(load.Load),
			Buckets:       loadBuckets,
		}),
		views.RenderSummaryPanel(views.SummaryPanelData{
			TodayCompleted:  summary.TodayCompleted,
			TodayPending:    summary.TodayPending,
			TomorrowTotal:   summary.TomorrowTotal,
			TomorrowBuckets: bucketData(summary.TomorrowBuckets),
			UpcomingTotal:   summary.UpcomingTotal,
			UpcomingBuckets: bucketData(summary.UpcomingBuckets),
		}),
	}

	if m.Cursor >= 0 && m.Cursor < len(pageTasks) {
		task := pageTasks[m.Cursor]
		flags := schedule.Flags(task, m.Now, m.InProgressID)
		attachments := make([]views.AttachmentRowData, 0, len(task.Attachments))
		for _, att := range task.Attachments {
			attachments = append(attachments, views.AttachmentRowData{
				ID:   att.ID,
				Name: att.Name,
				Kind: string(att.Kind),
				Size: att.Size,
			})
		}
		m.detailViewport.SetContent(views.RenderDetailPane(views.DetailPaneData{
			TaskID:      task.ID,
			Title:       task.Title,
			DueAt:       timeutil.FormatLocalDateTime(task.DueAt),
			Badge:       badgeFor(flags),
			Description: task.Description,
			Attachments: attachments,
		}))
		parts = append(parts, m.detailViewport.View())
	}

	if note := m.renderNotificationsView(); note != "" {
		parts = append(parts, note)
	}
	return strings.Join(parts, "\n\n")
}

func (m Model) renderNotificationsView() string {
	if len(m.Notifications) == 0 {
		return ""
	}
	last := m.Notifications[len(m.Notifications)-1]
	return strings.TrimSpace(views.RenderNotification(last.Level, last.Title+": "+last.Body))
}

func bucketData(buckets [schedule.BucketCount]int) []views.BucketData {
	out := make([]views.BucketData, 0, schedule.BucketCount)
	for i, label := range schedule.BucketLabels {
		out = append(out, views.BucketData{Label: label, Count: buckets[i]})
	}
	return out
}

func badgeFor(flags schedule.TaskFlags) string {
	switch {
	case flags.Completed:
		return "[DONE]"
	case flags.InProgress:
		return "[NOW]"
	case flags.Overdue:
		return "[OVERDUE]"
	case flags.Planned:
		return "[PLANNED]"
	default:
		return "[----]"
	}
}
