package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/dayplan-dev/dayplan/internal/model"
)

// SeedTask is one entry of a seed file: the user-authored fields of a
// task, with ids and timestamps assigned at insert time.
type SeedTask struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	DueAt       string `json:"dueAt"`
	Completed   bool   `json:"completed,omitempty"`
}

type seedFile struct {
	Tasks []SeedTask `json:"tasks"`
}

// SeedTasks inserts the tasks described by the JSON document in r, a
// `{"tasks": [...]}` object. Every entry is validated before anything
// is written, so a malformed file inserts nothing. Returns how many
// tasks were inserted.
func SeedTasks(ctx context.Context, repo Repository, r io.Reader) (int, error) {
	var doc seedFile
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return 0, fmt.Errorf("seed: decode: %w", err)
	}
	if len(doc.Tasks) == 0 {
		return 0, errors.New("seed: file contains no tasks")
	}

	now := time.Now()
	tasks := make([]model.Task, 0, len(doc.Tasks))
	for i, entry := range doc.Tasks {
		task := model.Task{
			ID:          uuid.NewString(),
			Title:       entry.Title,
			Description: entry.Description,
			DueAt:       entry.DueAt,
			Completed:   entry.Completed,
			Attachments: []model.Attachment{},
			CreatedAt:   now,
		}
		task = task.Normalize()
		if err := task.Validate(); err != nil {
			return 0, fmt.Errorf("seed: task %d: %w", i+1, err)
		}
		tasks = append(tasks, task)
	}

	inserted := 0
	for _, task := range tasks {
		if err := repo.CreateTask(ctx, task); err != nil {
			return inserted, fmt.Errorf("seed: insert %q: %w", task.Title, err)
		}
		inserted++
	}
	return inserted, nil
}
