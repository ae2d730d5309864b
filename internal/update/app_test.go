package update

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/dayplan-dev/dayplan/internal/model"
	"github.com/dayplan-dev/dayplan/internal/schedule"
	"github.com/dayplan-dev/dayplan/internal/scheduler"
)

type stubBlobStore struct{}

func (stubBlobStore) Put(context.Context, string, string, io.Reader) error { return nil }
func (stubBlobStore) SignedURL(context.Context, string) (string, error) {
	return "https://example.invalid/signed", nil
}
func (stubBlobStore) Delete(context.Context, string) error { return nil }
func (stubBlobStore) Bucket() string                       { return "stub-bucket" }

func testTask(id, title, dueAt string) model.Task {
	return model.Task{
		ID:        id,
		Title:     title,
		DueAt:     dueAt,
		CreatedAt: time.Date(2026, 2, 9, 8, 0, 0, 0, time.Local),
	}
}

func runPalette(t *testing.T, m Model, command string) (Model, tea.Cmd) {
	t.Helper()
	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'/'}})
	next := updated.(Model)
	if !next.Palette.Active {
		t.Fatal("expected palette active after /")
	}
	updated, _ = next.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(command)})
	next = updated.(Model)
	updated, cmd := next.Update(tea.KeyMsg{Type: tea.KeyEnter})
	return updated.(Model), cmd
}

func TestNewModelDefaults(t *testing.T) {
	m := NewModel()
	if m.Page != 1 {
		t.Fatalf("expected page 1, got %d", m.Page)
	}
	if m.PageSize != defaultPageSize {
		t.Fatalf("expected page size %d, got %d", defaultPageSize, m.PageSize)
	}
	if m.Filter.Mode != schedule.FilterBetween {
		t.Fatalf("expected between mode default, got %q", m.Filter.Mode)
	}
	if m.Keys.Quit != "q" {
		t.Fatalf("expected quit key q, got %q", m.Keys.Quit)
	}
}

func TestPaletteAddAppendsTaskOptimistically(t *testing.T) {
	m := NewModel()
	next, _ := runPalette(t, m, "add pay rent @ 2026-02-10T09:00")

	if len(next.Tasks) != 1 {
		t.Fatalf("expected 1 task, got %d", len(next.Tasks))
	}
	task := next.Tasks[0]
	if task.Title != "pay rent" || task.DueAt != "2026-02-10T09:00" {
		t.Fatalf("unexpected task: %+v", task)
	}
	if task.ID == "" {
		t.Fatal("expected generated id")
	}
	if next.Status.IsError {
		t.Fatalf("unexpected error status: %+v", next.Status)
	}
	if next.PendingOps != 1 {
		t.Fatalf("expected 1 pending op, got %d", next.PendingOps)
	}
}

func TestPaletteAddRejectsLongTitle(t *testing.T) {
	m := NewModel()
	next, _ := runPalette(t, m, "add "+strings.Repeat("x", 81)+" @ 2026-02-10T09:00")
	if len(next.Tasks) != 0 {
		t.Fatalf("expected no tasks, got %d", len(next.Tasks))
	}
	if !next.Status.IsError {
		t.Fatalf("expected error status, got %+v", next.Status)
	}
}

func TestPaletteAddConflictPinsExactFilter(t *testing.T) {
	m := NewModel()
	m.Tasks = []model.Task{testTask("t1", "Existing", "2024-01-01T09:00")}
	m.FocusMode = true
	m.Page = 3

	next, _ := runPalette(t, m, "add Clashing @ 2024-01-01T09:00")

	if next.ConflictDueAt != "2024-01-01T09:00" {
		t.Fatalf("expected conflict due marker, got %q", next.ConflictDueAt)
	}
	if next.Filter.Mode != schedule.FilterExact {
		t.Fatalf("expected exact filter, got %q", next.Filter.Mode)
	}
	if next.Filter.ExactDate != "2024-01-01" || next.Filter.ExactTime != "09:00" {
		t.Fatalf("filter not pinned to contested slot: %+v", next.Filter)
	}
	if next.Page != 1 {
		t.Fatalf("expected page reset to 1, got %d", next.Page)
	}
	if next.FocusMode {
		t.Fatal("expected focus mode off after conflict pin")
	}
	if len(next.Tasks) != 2 {
		t.Fatalf("creation must proceed despite conflict, got %d tasks", len(next.Tasks))
	}
}

func TestConflictExpiryAlertClearsBanner(t *testing.T) {
	m := NewModel()
	m.ConflictDueAt = "2024-01-01T09:00"
	updated, _ := m.Update(AlertMsg{Alert: scheduler.Alert{Kind: scheduler.AlertConflictExpiry, Key: "conflict"}})
	next := updated.(Model)
	if next.ConflictDueAt != "" {
		t.Fatalf("expected conflict cleared, got %q", next.ConflictDueAt)
	}
}

func TestClockTickAdvancesSharedNow(t *testing.T) {
	m := NewModel()
	at := time.Date(2026, 2, 9, 12, 30, 0, 0, time.Local)
	updated, cmd := m.Update(ClockTickMsg{At: at})
	next := updated.(Model)
	if !next.Now.Equal(at) {
		t.Fatalf("expected now %v, got %v", at, next.Now)
	}
	if cmd == nil {
		t.Fatal("expected rescheduled tick command")
	}
}

func TestPaletteDoneReleasesInProgress(t *testing.T) {
	m := NewModel()
	m.Tasks = []model.Task{testTask("t1", "Write report", "2026-02-10T09:00")}
	m.InProgressID = "t1"

	next, _ := runPalette(t, m, "done t1")

	if !next.Tasks[0].Completed {
		t.Fatal("expected task completed")
	}
	if next.InProgressID != "" {
		t.Fatalf("expected in-progress cleared, got %q", next.InProgressID)
	}
}

func TestPaletteDoneSuggestsAttachment(t *testing.T) {
	m := NewModel()
	m.Blob = stubBlobStore{}
	m.Tasks = []model.Task{testTask("t1", "File expenses", "2026-02-10T09:00")}

	next, _ := runPalette(t, m, "done t1")

	if !strings.Contains(next.Status.Text, "attach t1") {
		t.Fatalf("expected attach hint in status, got %q", next.Status.Text)
	}
}

func TestPaletteUndoneReopensTask(t *testing.T) {
	m := NewModel()
	done := testTask("t1", "Shipped early", "2026-02-10T09:00")
	done.Completed = true
	m.Tasks = []model.Task{done}

	next, cmd := runPalette(t, m, "undone t1")

	if next.Tasks[0].Completed {
		t.Fatal("expected task reopened")
	}
	if next.Status.IsError {
		t.Fatalf("unexpected error status: %+v", next.Status)
	}
	if next.PendingOps != 1 {
		t.Fatalf("expected 1 pending op, got %d", next.PendingOps)
	}
	if cmd == nil {
		t.Fatal("expected persistence command")
	}
}

func TestPaletteUndoneOnOpenTaskIsNoop(t *testing.T) {
	m := NewModel()
	m.Tasks = []model.Task{testTask("t1", "Still open", "2026-02-10T09:00")}

	next, _ := runPalette(t, m, "undone t1")

	if next.Tasks[0].Completed {
		t.Fatal("task must stay open")
	}
	if next.PendingOps != 0 {
		t.Fatalf("expected no pending ops, got %d", next.PendingOps)
	}
}

func TestMutationsWithoutRepositoryResolve(t *testing.T) {
	m := NewModel()
	m.Tasks = []model.Task{testTask("t1", "Cache only", "2026-02-10T09:00")}

	next, cmd := runPalette(t, m, "done t1")
	if cmd == nil {
		t.Fatal("expected a resolving command")
	}
	msg := cmd()
	done, ok := msg.(OpDoneMsg)
	if !ok {
		t.Fatalf("expected OpDoneMsg, got %T", msg)
	}
	if done.Err != nil {
		t.Fatalf("expected clean resolution without a repository, got %v", done.Err)
	}

	updated, _ := next.Update(done)
	if got := updated.(Model).PendingOps; got != 0 {
		t.Fatalf("expected pending ops drained, got %d", got)
	}
}

func TestPaletteStartRejectsCompleted(t *testing.T) {
	m := NewModel()
	done := testTask("t1", "Old", "2026-02-10T09:00")
	done.Completed = true
	m.Tasks = []model.Task{done}

	next, _ := runPalette(t, m, "start t1")

	if next.InProgressID != "" {
		t.Fatalf("expected no in-progress task, got %q", next.InProgressID)
	}
	if !next.Status.IsError {
		t.Fatalf("expected error status, got %+v", next.Status)
	}
}

func TestPaletteDelRemovesFromCache(t *testing.T) {
	m := NewModel()
	m.Tasks = []model.Task{
		testTask("t1", "Keep", "2026-02-10T09:00"),
		testTask("t2", "Drop", "2026-02-10T10:00"),
	}
	m.InProgressID = "t2"

	next, _ := runPalette(t, m, "del t2")

	if len(next.Tasks) != 1 || next.Tasks[0].ID != "t1" {
		t.Fatalf("unexpected tasks after delete: %+v", next.Tasks)
	}
	if next.InProgressID != "" {
		t.Fatalf("expected marker cleared when holder deleted, got %q", next.InProgressID)
	}
}

func TestOpFailureKeepsOptimisticState(t *testing.T) {
	m := NewModel()
	m.Tasks = []model.Task{testTask("t1", "Survives", "2026-02-10T09:00")}
	m.PendingOps = 1

	updated, _ := m.Update(OpDoneMsg{Label: "add", Err: errors.New("disk full")})
	next := updated.(Model)

	if len(next.Tasks) != 1 {
		t.Fatalf("optimistic state must not roll back, got %d tasks", len(next.Tasks))
	}
	if !next.Status.IsError || !strings.Contains(next.Status.Text, "disk full") {
		t.Fatalf("expected failure surfaced in status, got %+v", next.Status)
	}
	if next.PendingOps != 0 {
		t.Fatalf("expected pending ops drained, got %d", next.PendingOps)
	}
}

func TestFocusKeyTogglesAndResetsPage(t *testing.T) {
	m := NewModel()
	m.Page = 4
	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'f'}})
	next := updated.(Model)
	if !next.FocusMode {
		t.Fatal("expected focus mode on")
	}
	if next.Page != 1 {
		t.Fatalf("expected page reset, got %d", next.Page)
	}
}

func TestDismissKeyBindsToCurrentReminder(t *testing.T) {
	m := NewModel()
	m.Now = time.Date(2026, 2, 9, 8, 50, 0, 0, time.Local)
	m.Tasks = []model.Task{testTask("t1", "Standup", "2026-02-09T09:00")}

	if schedule.ReminderFor(m.Tasks, m.Now, "") == nil {
		t.Fatal("precondition: reminder should be active")
	}

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'d'}})
	next := updated.(Model)
	if next.DismissedTaskID != "t1" {
		t.Fatalf("expected dismissal bound to t1, got %q", next.DismissedTaskID)
	}
	if schedule.ReminderFor(next.Tasks, next.Now, next.DismissedTaskID) != nil {
		t.Fatal("expected reminder suppressed after dismissal")
	}
}

func TestPaletteFilterAndPageCommands(t *testing.T) {
	m := NewModel()
	next, _ := runPalette(t, m, "filter between from:2026-02-10 to:2026-02-12 after:09:00")
	if next.Filter.Mode != schedule.FilterBetween || next.Filter.FromDate != "2026-02-10" || next.Filter.FromTime != "09:00" {
		t.Fatalf("unexpected filter state: %+v", next.Filter)
	}

	next, _ = runPalette(t, next, "pagesize 10")
	if next.PageSize != 10 || next.Page != 1 {
		t.Fatalf("unexpected paging: page=%d size=%d", next.Page, next.PageSize)
	}

	next, _ = runPalette(t, next, "filter off")
	if !next.Filter.IsEmpty() {
		t.Fatalf("expected cleared filter, got %+v", next.Filter)
	}
}

func TestViewShowsGroupedTasksAndBadges(t *testing.T) {
	m := NewModel()
	m.Now = time.Date(2026, 2, 9, 12, 0, 0, 0, time.Local)
	m.Tasks = []model.Task{
		testTask("t1", "Past due thing", "2026-02-09T08:00"),
		testTask("t2", "Later thing", "2026-02-10T09:00"),
	}
	m.InProgressID = "t2"

	out := m.View()
	if !strings.Contains(out, "2026-02-09") || !strings.Contains(out, "2026-02-10") {
		t.Fatalf("expected date group headers in view: %q", out)
	}
	if !strings.Contains(out, "[OVERDUE]") {
		t.Fatalf("expected overdue badge in view: %q", out)
	}
	if !strings.Contains(out, "[NOW]") {
		t.Fatalf("expected in-progress badge in view: %q", out)
	}
	if !strings.Contains(out, "daily-load:") {
		t.Fatalf("expected daily load panel in view: %q", out)
	}
}

func TestUpdateQuitKey(t *testing.T) {
	m := NewModel()
	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	next := updated.(Model)
	if !next.Quitting {
		t.Fatal("expected quitting flag true")
	}
	if cmd == nil {
		t.Fatal("expected quit command")
	}
}
