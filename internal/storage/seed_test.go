package storage

import (
	"errors"
	"strings"
	"testing"

	"github.com/dayplan-dev/dayplan/internal/model"
)

func TestSeedTasksInsertsValidatedBatch(t *testing.T) {
	repo := newTestRepo(t)
	doc := `{"tasks": [
		{"title": "  Morning review  ", "dueAt": "2026-02-10T09:00"},
		{"title": "Ship invoice", "description": "Q1 billing", "dueAt": "2026-02-10T14:00", "completed": true}
	]}`

	n, err := SeedTasks(t.Context(), repo, strings.NewReader(doc))
	if err != nil {
		t.Fatalf("seed failed: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 inserted, got %d", n)
	}

	tasks, err := repo.ListTasks(t.Context())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(tasks) != 2 {
		t.Fatalf("expected 2 tasks, got %d", len(tasks))
	}
	if tasks[0].Title != "Morning review" {
		t.Fatalf("expected trimmed title, got %q", tasks[0].Title)
	}
	if tasks[0].ID == "" || tasks[0].CreatedAt.IsZero() {
		t.Fatalf("expected assigned id and timestamp: %+v", tasks[0])
	}
	if !tasks[1].Completed || tasks[1].Description != "Q1 billing" {
		t.Fatalf("unexpected second task: %+v", tasks[1])
	}
}

func TestSeedTasksRejectsInvalidEntryBeforeInserting(t *testing.T) {
	repo := newTestRepo(t)
	doc := `{"tasks": [
		{"title": "Fine", "dueAt": "2026-02-10T09:00"},
		{"title": "Broken", "dueAt": "tomorrow-ish"}
	]}`

	n, err := SeedTasks(t.Context(), repo, strings.NewReader(doc))
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !errors.Is(err, model.ErrInvalidDueAt) {
		t.Fatalf("expected due_at validation error, got %v", err)
	}
	if n != 0 {
		t.Fatalf("expected 0 inserted, got %d", n)
	}
	tasks, listErr := repo.ListTasks(t.Context())
	if listErr != nil {
		t.Fatalf("list: %v", listErr)
	}
	if len(tasks) != 0 {
		t.Fatalf("a bad file must insert nothing, got %d tasks", len(tasks))
	}
}

func TestSeedTasksRejectsEmptyDocument(t *testing.T) {
	repo := newTestRepo(t)
	if _, err := SeedTasks(t.Context(), repo, strings.NewReader(`{"tasks": []}`)); err == nil {
		t.Fatal("expected error for empty task list")
	}
}
