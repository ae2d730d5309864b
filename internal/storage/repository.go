package storage

import (
	"context"
	"errors"

	"github.com/dayplan-dev/dayplan/internal/model"
)

var ErrNotFound = errors.New("storage: not found")

// Repository is the durable record store behind the in-memory task cache.
// ListTasks returns tasks ordered by due_at ascending; the in-progress
// marker is tracked per row with at most one holder.
type Repository interface {
	CreateTask(ctx context.Context, in model.Task) error
	GetTask(ctx context.Context, id string) (model.Task, error)
	UpdateTask(ctx context.Context, in model.Task) error
	SetCompleted(ctx context.Context, id string, completed bool) error
	DeleteTask(ctx context.Context, id string) error
	DeleteCompleted(ctx context.Context) (int64, error)
	ListTasks(ctx context.Context) ([]model.Task, error)

	InProgressTaskID(ctx context.Context) (string, error)
	SetInProgress(ctx context.Context, id string) (string, error)

	AppendAttachments(ctx context.Context, taskID string, attachments []model.Attachment) (model.Task, error)
	RemoveAttachment(ctx context.Context, taskID, attachmentID string) (model.Task, error)
}
