package update

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/dayplan-dev/dayplan/internal/commands"
	"github.com/dayplan-dev/dayplan/internal/model"
	"github.com/dayplan-dev/dayplan/internal/schedule"
)

func (m Model) handlePaletteKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.Palette.Active = false
		m.Palette.Input = ""
		m.commandInput.SetValue("")
		m.commandInput.Blur()
		m.Status = StatusBar{Text: "command palette closed", IsError: false}
		return m, nil
	case "enter":
		m.Palette.Input = m.commandInput.Value()
		return m.executePaletteCommand()
	default:
		if msg.Type == tea.KeyRunes {
			m.commandInput.SetValue(m.commandInput.Value() + string(msg.Runes))
			m.Palette.Input = m.commandInput.Value()
			return m, nil
		}
		var cmd tea.Cmd
		m.commandInput, cmd = m.commandInput.Update(msg)
		_ = cmd
		m.Palette.Input = m.commandInput.Value()
		return m, nil
	}
}

func (m Model) executePaletteCommand() (Model, tea.Cmd) {
	raw := strings.TrimSpace(m.Palette.Input)
	cmd, err := commands.Parse(raw)
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		m.Palette.Active = false
		m.Palette.Input = ""
		m.commandInput.SetValue("")
		return m, nil
	}

	var teaCmd tea.Cmd
	res, err := commands.Execute(cmd, commands.Handlers{
		Add: func(a commands.AddArgs) (commands.Result, error) {
			task := model.Task{
				ID:          uuid.NewString(),
				Title:       a.Title,
				DueAt:       a.DueAt,
				CreatedAt:   time.Now(),
				Attachments: []model.Attachment{},
			}
			task = task.Normalize()
			if err := task.Validate(); err != nil {
				return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: err.Error()}
			}
			m.detectConflict(task.DueAt)
			m.Tasks = append(m.Tasks, task)
			m.PendingOps++
			m.refreshReminderAlert()
			teaCmd = m.persistCmd("add", func(ctx context.Context) error {
				return m.Repo.CreateTask(ctx, task)
			})
			return commands.Result{Message: fmt.Sprintf("added %q due %s", task.Title, task.DueAt)}, nil
		},
		Done: func(a commands.TaskArgs) (commands.Result, error) {
			task, ok := m.taskByID(a.TaskID)
			if !ok {
				return commands.Result{}, unknownTask(a.TaskID)
			}
			task.Completed = true
			m.replaceTask(task)
			if m.InProgressID == task.ID {
				m.InProgressID = ""
			}
			m.PendingOps++
			m.refreshReminderAlert()
			id := task.ID
			teaCmd = m.persistCmd("done", func(ctx context.Context) error {
				return m.Repo.SetCompleted(ctx, id, true)
			})
			msg := fmt.Sprintf("completed %q", task.Title)
			if m.Blob != nil {
				// Completion is when people file their receipts and
				// screenshots; nudge toward the upload command.
				msg += fmt.Sprintf(" | attach %s <path> to add files", task.ID)
			}
			return commands.Result{Message: msg}, nil
		},
		Undone: func(a commands.TaskArgs) (commands.Result, error) {
			task, ok := m.taskByID(a.TaskID)
			if !ok {
				return commands.Result{}, unknownTask(a.TaskID)
			}
			if !task.Completed {
				return commands.Result{Message: fmt.Sprintf("%q is not completed", task.Title)}, nil
			}
			task.Completed = false
			m.replaceTask(task)
			m.PendingOps++
			m.refreshReminderAlert()
			id := task.ID
			teaCmd = m.persistCmd("undone", func(ctx context.Context) error {
				return m.Repo.SetCompleted(ctx, id, false)
			})
			return commands.Result{Message: fmt.Sprintf("reopened %q", task.Title)}, nil
		},
		Start: func(a commands.TaskArgs) (commands.Result, error) {
			task, ok := m.taskByID(a.TaskID)
			if !ok {
				return commands.Result{}, unknownTask(a.TaskID)
			}
			if task.Completed {
				return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: "cannot start a completed task"}
			}
			m.InProgressID = task.ID
			m.PendingOps++
			id := task.ID
			teaCmd = m.persistCmd("start", func(ctx context.Context) error {
				_, err := m.Repo.SetInProgress(ctx, id)
				return err
			})
			return commands.Result{Message: fmt.Sprintf("started %q", task.Title)}, nil
		},
		Stop: func() (commands.Result, error) {
			if m.InProgressID == "" {
				return commands.Result{Message: "nothing in progress"}, nil
			}
			m.InProgressID = ""
			m.PendingOps++
			teaCmd = m.persistCmd("stop", func(ctx context.Context) error {
				_, err := m.Repo.SetInProgress(ctx, "")
				return err
			})
			return commands.Result{Message: "stopped"}, nil
		},
		Del: func(a commands.TaskArgs) (commands.Result, error) {
			task, ok := m.taskByID(a.TaskID)
			if !ok {
				return commands.Result{}, unknownTask(a.TaskID)
			}
			m.removeTask(task.ID)
			m.PendingOps++
			m.refreshReminderAlert()
			id := task.ID
			teaCmd = m.persistCmd("del", func(ctx context.Context) error {
				return m.Repo.DeleteTask(ctx, id)
			})
			return commands.Result{Message: fmt.Sprintf("deleted %q", task.Title)}, nil
		},
		Clear: func() (commands.Result, error) {
			kept := m.Tasks[:0]
			removed := 0
			for _, t := range m.Tasks {
				if t.Completed {
					removed++
					continue
				}
				kept = append(kept, t)
			}
			m.Tasks = kept
			if removed == 0 {
				return commands.Result{Message: "no completed tasks"}, nil
			}
			m.PendingOps++
			teaCmd = m.persistCmd("clear", func(ctx context.Context) error {
				_, err := m.Repo.DeleteCompleted(ctx)
				return err
			})
			return commands.Result{Message: fmt.Sprintf("cleared %d completed task(s)", removed)}, nil
		},
		Filter: func(a commands.FilterArgs) (commands.Result, error) {
			m.Page = 1
			switch {
			case a.Off:
				m.Filter = m.Filter.Clear()
				return commands.Result{Message: "filter cleared"}, nil
			case a.Exact:
				m.Filter = schedule.FilterState{
					Mode:      schedule.FilterExact,
					ExactDate: a.ExactDate,
					ExactTime: a.ExactTime,
				}
				return commands.Result{Message: "exact filter applied"}, nil
			default:
				m.Filter = schedule.FilterState{
					Mode:     schedule.FilterBetween,
					FromDate: a.FromDate,
					ToDate:   a.ToDate,
					FromTime: a.FromTime,
					ToTime:   a.ToTime,
				}
				return commands.Result{Message: "range filter applied"}, nil
			}
		},
		Focus: func(a commands.FocusArgs) (commands.Result, error) {
			switch a.Mode {
			case "on":
				m.FocusMode = true
			case "off":
				m.FocusMode = false
			default:
				m.FocusMode = !m.FocusMode
			}
			m.Page = 1
			if m.FocusMode {
				return commands.Result{Message: "focus mode on: next 4 hours"}, nil
			}
			return commands.Result{Message: "focus mode off"}, nil
		},
		Page: func(a commands.PageArgs) (commands.Result, error) {
			m.Page = a.Number
			return commands.Result{Message: fmt.Sprintf("page %d", a.Number)}, nil
		},
		PageSize: func(a commands.PageSizeArgs) (commands.Result, error) {
			m.PageSize = a.Size
			m.Page = 1
			return commands.Result{Message: fmt.Sprintf("page size %d", a.Size)}, nil
		},
		Attach: func(a commands.AttachArgs) (commands.Result, error) {
			if m.Blob == nil {
				return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: "attachments disabled: no bucket configured"}
			}
			if _, ok := m.taskByID(a.TaskID); !ok {
				return commands.Result{}, unknownTask(a.TaskID)
			}
			m.PendingOps++
			teaCmd = attachCmd(m, a.TaskID, a.Path)
			return commands.Result{Message: fmt.Sprintf("uploading %s", a.Path)}, nil
		},
		Open: func(a commands.OpenArgs) (commands.Result, error) {
			if m.Blob == nil {
				return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: "attachments disabled: no bucket configured"}
			}
			attachment, err := m.findAttachment(a.TaskID, a.AttachmentID)
			if err != nil {
				return commands.Result{}, err
			}
			teaCmd = signedURLCmd(m, attachment)
			return commands.Result{Message: fmt.Sprintf("fetching link for %s", attachment.Name)}, nil
		},
		Detach: func(a commands.DetachArgs) (commands.Result, error) {
			attachment, err := m.findAttachment(a.TaskID, a.AttachmentID)
			if err != nil {
				return commands.Result{}, err
			}
			task, _ := m.taskByID(a.TaskID)
			kept := make([]model.Attachment, 0, len(task.Attachments))
			for _, att := range task.Attachments {
				if att.ID != attachment.ID {
					kept = append(kept, att)
				}
			}
			task.Attachments = kept
			m.replaceTask(task)
			m.PendingOps++
			teaCmd = detachCmd(m, a.TaskID, attachment)
			return commands.Result{Message: fmt.Sprintf("detached %s", attachment.Name)}, nil
		},
		Dismiss: func() (commands.Result, error) {
			reminder := schedule.ReminderFor(m.Tasks, m.Now, m.DismissedTaskID)
			if reminder == nil {
				return commands.Result{Message: "no active reminder"}, nil
			}
			m.DismissedTaskID = reminder.Task.ID
			return commands.Result{Message: "reminder dismissed"}, nil
		},
	})
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		m.notify("Command Failed", err.Error(), "error")
		teaCmd = nil
	} else {
		m.Status = StatusBar{Text: res.Message, IsError: false}
		m.notify("Command", res.Message, "info")
	}

	m.Palette.Active = false
	m.Palette.Input = ""
	m.commandInput.SetValue("")
	return m, teaCmd
}

func (m Model) findAttachment(taskID, attachmentID string) (model.Attachment, error) {
	task, ok := m.taskByID(taskID)
	if !ok {
		return model.Attachment{}, unknownTask(taskID)
	}
	for _, att := range task.Attachments {
		if att.ID == attachmentID {
			return att, nil
		}
	}
	return model.Attachment{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: fmt.Sprintf("no attachment %s on task %s", attachmentID, taskID)}
}

func unknownTask(id string) error {
	return &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: fmt.Sprintf("no task with id %s", id)}
}
