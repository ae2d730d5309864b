package update

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/dayplan-dev/dayplan/internal/blob"
	"github.com/dayplan-dev/dayplan/internal/model"
	"github.com/dayplan-dev/dayplan/internal/schedule"
	"github.com/dayplan-dev/dayplan/internal/scheduler"
	"github.com/dayplan-dev/dayplan/internal/timeutil"
)

const storeCallTimeout = 10 * time.Second

// visible runs the full read pipeline on the shared now: filter (focus
// overrides), then stable sort by due ascending.
func (m Model) visible() []model.Task {
	filtered := schedule.Filter(m.Tasks, m.Now, m.FocusMode, m.Filter)
	return schedule.SortByDue(filtered)
}

func (m Model) currentPage(visible []model.Task) int {
	return schedule.ClampPage(m.Page, len(visible), m.PageSize)
}

func (m Model) taskByID(id string) (model.Task, bool) {
	for _, t := range m.Tasks {
		if t.ID == id {
			return t, true
		}
	}
	return model.Task{}, false
}

func (m *Model) replaceTask(task model.Task) {
	for i := range m.Tasks {
		if m.Tasks[i].ID == task.ID {
			m.Tasks[i] = task
			return
		}
	}
	m.Tasks = append(m.Tasks, task)
}

func (m *Model) removeTask(id string) {
	kept := m.Tasks[:0]
	for _, t := range m.Tasks {
		if t.ID != id {
			kept = append(kept, t)
		}
	}
	m.Tasks = kept
	if m.InProgressID == id {
		m.InProgressID = ""
	}
}

// detectConflict flags a transient clash when the new due string is
// already taken. The conflict auto-clears after ConflictTTL; a newer
// clash resets the timer. The filter pins to the contested slot and
// the page rewinds, but the creation itself always proceeds.
func (m *Model) detectConflict(dueAt string) {
	clashes := schedule.Conflicts(m.Tasks, dueAt)
	if len(clashes) == 0 {
		return
	}
	m.ConflictDueAt = dueAt
	m.FocusMode = false
	m.Filter = schedule.FilterState{
		Mode:      schedule.FilterExact,
		ExactDate: timeutil.DatePart(dueAt),
		ExactTime: timeutil.TimePart(dueAt),
	}
	m.Page = 1
	if m.Scheduler != nil {
		_, _ = m.Scheduler.Schedule(scheduler.AlertConflictExpiry, "conflict", time.Now().Add(schedule.ConflictTTL))
	}
	m.notify("Conflict", fmt.Sprintf("%d task(s) already due at %s", len(clashes), dueAt), "warn")
}

// refreshReminderAlert asks the alert engine to wake the app when the
// nearest upcoming task enters its 15-minute reminder window, so the
// banner does not have to wait for the next clock tick.
func (m *Model) refreshReminderAlert() {
	if m.Scheduler == nil {
		return
	}
	next := schedule.NextUpcoming(m.Tasks, m.Now)
	if next == nil {
		m.Scheduler.Cancel(scheduler.AlertReminderCheck, "reminder")
		return
	}
	windowStart := next.Due.Add(-schedule.ReminderWindowMin * time.Minute)
	if !windowStart.After(time.Now()) {
		return
	}
	_, _ = m.Scheduler.Schedule(scheduler.AlertReminderCheck, "reminder", windowStart)
}

func loadTasksCmd(m Model) tea.Cmd {
	repo := m.Repo
	if repo == nil {
		return nil
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), storeCallTimeout)
		defer cancel()
		tasks, err := repo.ListTasks(ctx)
		if err != nil {
			return TasksLoadedMsg{Err: err}
		}
		inProgress, err := repo.InProgressTaskID(ctx)
		if err != nil {
			return TasksLoadedMsg{Err: err}
		}
		return TasksLoadedMsg{Tasks: tasks, InProgressID: inProgress}
	}
}

// persistCmd runs one store mutation in the background. The cache was
// already updated optimistically; the result only feeds the status bar.
// Without a repository the mutation stays cache-only and the op resolves
// immediately, so the pending counter still drains.
func (m Model) persistCmd(label string, fn func(context.Context) error) tea.Cmd {
	if m.Repo == nil {
		return func() tea.Msg {
			return OpDoneMsg{Label: label}
		}
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), storeCallTimeout)
		defer cancel()
		return OpDoneMsg{Label: label, Err: fn(ctx)}
	}
}

func attachCmd(m Model, taskID, path string) tea.Cmd {
	repo := m.Repo
	store := m.Blob
	return func() tea.Msg {
		if repo == nil {
			return TaskReplacedMsg{Label: "attach", Err: errors.New("no task store configured")}
		}
		file, err := os.Open(path)
		if err != nil {
			return TaskReplacedMsg{Label: "attach", Err: fmt.Errorf("open %s: %w", path, err)}
		}
		defer file.Close()
		info, err := file.Stat()
		if err != nil {
			return TaskReplacedMsg{Label: "attach", Err: err}
		}

		name := filepath.Base(path)
		contentType := mime.TypeByExtension(filepath.Ext(name))
		key := blob.ObjectKey(taskID, name)

		ctx, cancel := context.WithTimeout(context.Background(), storeCallTimeout)
		defer cancel()
		if err := store.Put(ctx, key, contentType, file); err != nil {
			return TaskReplacedMsg{Label: "attach", Err: err}
		}

		attachment := model.Attachment{
			ID:     uuid.NewString(),
			Name:   name,
			Type:   contentType,
			Size:   info.Size(),
			Bucket: store.Bucket(),
			Path:   key,
			Kind:   model.KindFor(contentType, name),
		}
		task, err := repo.AppendAttachments(ctx, taskID, []model.Attachment{attachment})
		if err != nil {
			return TaskReplacedMsg{Label: "attach", Err: err}
		}
		return TaskReplacedMsg{Label: "attach", Task: task}
	}
}

func signedURLCmd(m Model, attachment model.Attachment) tea.Cmd {
	store := m.Blob
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), storeCallTimeout)
		defer cancel()
		url, err := store.SignedURL(ctx, attachment.Path)
		return SignedURLMsg{Name: attachment.Name, URL: url, Err: err}
	}
}

func detachCmd(m Model, taskID string, attachment model.Attachment) tea.Cmd {
	repo := m.Repo
	store := m.Blob
	return m.persistCmd("detach", func(ctx context.Context) error {
		if _, err := repo.RemoveAttachment(ctx, taskID, attachment.ID); err != nil {
			return err
		}
		if store != nil {
			// Blob removal is best effort; the record is already gone.
			_ = store.Delete(ctx, attachment.Path)
		}
		return nil
	})
}
