package update

import (
	"fmt"
	"os/exec"
	"runtime"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"

	"github.com/dayplan-dev/dayplan/internal/blob"
	"github.com/dayplan-dev/dayplan/internal/model"
	"github.com/dayplan-dev/dayplan/internal/schedule"
	"github.com/dayplan-dev/dayplan/internal/scheduler"
	"github.com/dayplan-dev/dayplan/internal/storage"
)

// ClockInterval is how often the shared "now" is refreshed. Every
// derived computation in a single update pass reads that one value.
const ClockInterval = 30 * time.Second

const maxNotifications = 20

type StatusBar struct {
	Text    string
	IsError bool
}

type Notification struct {
	Title string
	Body  string
	Level string
	At    time.Time
}

type CommandPaletteState struct {
	Active bool
	Input  string
}

type GlobalKeyMap struct {
	Up       string
	Down     string
	PrevPage string
	NextPage string
	Focus    string
	Dismiss  string
	Quit     string
}

type Model struct {
	Tasks           []model.Task
	InProgressID    string
	Now             time.Time
	FocusMode       bool
	Filter          schedule.FilterState
	Page            int
	PageSize        int
	Cursor          int
	ConflictDueAt   string
	DismissedTaskID string
	Palette         CommandPaletteState
	Status          StatusBar
	Notifications   []Notification
	PendingOps      int
	DesktopEnabled  bool
	Quitting        bool
	LastError       error
	Keys            GlobalKeyMap

	Repo      storage.Repository
	Blob      blob.Store
	Scheduler *scheduler.Engine

	notifier DesktopNotifier

	commandInput   textinput.Model
	detailViewport viewport.Model
	busySpinner    spinner.Model
}

type DesktopNotifier interface {
	Send(Notification) error
}

type NoopDesktopNotifier struct{}

func (NoopDesktopNotifier) Send(Notification) error { return nil }

type ExecDesktopNotifier struct{}

func (ExecDesktopNotifier) Send(n Notification) error {
	switch runtime.GOOS {
	case "linux":
		return exec.Command("notify-send", n.Title, n.Body).Run()
	case "darwin":
		script := fmt.Sprintf(`display notification "%s" with title "%s"`, escapeAppleScript(n.Body), escapeAppleScript(n.Title))
		return exec.Command("osascript", "-e", script).Run()
	default:
		return nil
	}
}

type ClockTickMsg struct {
	At time.Time
}

type AlertMsg struct {
	Alert scheduler.Alert
}

type TasksLoadedMsg struct {
	Tasks        []model.Task
	InProgressID string
	Err          error
}

// OpDoneMsg reports the outcome of a persisted mutation. Mutations are
// optimistic: the local cache is updated before the store call runs,
// and a failure only surfaces a notification.
type OpDoneMsg struct {
	Label string
	Err   error
}

// TaskReplacedMsg carries a store-computed task snapshot (attachment
// appends go through the store because the upload result is needed).
type TaskReplacedMsg struct {
	Label string
	Task  model.Task
	Err   error
}

type SignedURLMsg struct {
	Name string
	URL  string
	Err  error
}

type SetStatusMsg struct {
	Text    string
	IsError bool
}

type ClearStatusMsg struct{}

type AppErrorMsg struct {
	Err error
}

func NewModel() Model {
	m := Model{
		Tasks:    []model.Task{},
		Now:      time.Now(),
		Filter:   schedule.FilterState{Mode: schedule.FilterBetween},
		Page:     1,
		PageSize: defaultPageSize,
		Keys: GlobalKeyMap{
			Up:       "k",
			Down:     "j",
			PrevPage: "h",
			NextPage: "l",
			Focus:    "f",
			Dismiss:  "d",
			Quit:     "q",
		},
		notifier: NoopDesktopNotifier{},
	}
	m.initBubbleComponents()
	return m
}

func NewModelWithConfig(repo storage.Repository, store blob.Store, engine *scheduler.Engine, notifier DesktopNotifier, cfg RuntimeConfig) Model {
	m := NewModel()
	m.Repo = repo
	m.Blob = store
	m.Scheduler = engine
	m.DesktopEnabled = cfg.DesktopNotifications
	if cfg.PageSize > 0 {
		m.PageSize = cfg.PageSize
	}
	if notifier != nil {
		m.notifier = notifier
	}
	return m
}

func (m *Model) initBubbleComponents() {
	input := textinput.New()
	input.Placeholder = "add pay rent @ 2026-02-10T09:00"
	input.CharLimit = 200
	m.commandInput = input

	m.detailViewport = viewport.New(52, 12)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	m.busySpinner = sp
}

func (m *Model) notify(title, body, level string) {
	m.Notifications = append(m.Notifications, Notification{
		Title: title,
		Body:  body,
		Level: level,
		At:    time.Now(),
	})
	if len(m.Notifications) > maxNotifications {
		m.Notifications = m.Notifications[len(m.Notifications)-maxNotifications:]
	}
	if m.DesktopEnabled {
		_ = m.notifier.Send(m.Notifications[len(m.Notifications)-1])
	}
}
