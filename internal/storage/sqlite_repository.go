package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/dayplan-dev/dayplan/internal/model"
)

const sqliteTimeLayout = time.RFC3339Nano

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(db *sql.DB) (*SQLiteRepository, error) {
	if db == nil {
		return nil, errors.New("storage: nil db")
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}
	return &SQLiteRepository{db: db}, nil
}

func OpenSQLite(path string) (*SQLiteRepository, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	repo, err := NewSQLiteRepository(db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return repo, nil
}

func (r *SQLiteRepository) DB() *sql.DB {
	return r.db
}

func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

func (r *SQLiteRepository) CreateTask(ctx context.Context, in model.Task) error {
	attachments, err := marshalAttachments(in.Attachments)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO tasks (id, title, description, due_at, completed, in_progress, attachments, created_at)
		VALUES (?, ?, ?, ?, ?, 0, ?, ?)`,
		in.ID, in.Title, in.Description, in.DueAt, boolInt(in.Completed), attachments, mustTime(in.CreatedAt),
	)
	return err
}

func (r *SQLiteRepository) GetTask(ctx context.Context, id string) (model.Task, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, title, description, due_at, completed, attachments, created_at
		FROM tasks WHERE id = ?`, id)
	task, err := scanTask(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Task{}, ErrNotFound
		}
		return model.Task{}, err
	}
	return task, nil
}

func (r *SQLiteRepository) UpdateTask(ctx context.Context, in model.Task) error {
	attachments, err := marshalAttachments(in.Attachments)
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, `
		UPDATE tasks
		SET title = ?, description = ?, due_at = ?, completed = ?, attachments = ?
		WHERE id = ?`,
		in.Title, in.Description, in.DueAt, boolInt(in.Completed), attachments, in.ID,
	)
	if err != nil {
		return err
	}
	return checkRowsAffected(res)
}

// SetCompleted flips the completion bit. Completing a task also releases
// the in-progress marker if this task holds it.
func (r *SQLiteRepository) SetCompleted(ctx context.Context, id string, completed bool) error {
	var res sql.Result
	var err error
	if completed {
		res, err = r.db.ExecContext(ctx,
			`UPDATE tasks SET completed = 1, in_progress = 0 WHERE id = ?`, id)
	} else {
		res, err = r.db.ExecContext(ctx,
			`UPDATE tasks SET completed = 0 WHERE id = ?`, id)
	}
	if err != nil {
		return err
	}
	return checkRowsAffected(res)
}

func (r *SQLiteRepository) DeleteTask(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return checkRowsAffected(res)
}

func (r *SQLiteRepository) DeleteCompleted(ctx context.Context) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE completed = 1`)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *SQLiteRepository) ListTasks(ctx context.Context) ([]model.Task, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, title, description, due_at, completed, attachments, created_at
		FROM tasks ORDER BY due_at ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.Task, 0)
	for rows.Next() {
		task, scanErr := scanTask(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		out = append(out, task)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) InProgressTaskID(ctx context.Context) (string, error) {
	var id string
	err := r.db.QueryRowContext(ctx,
		`SELECT id FROM tasks WHERE in_progress = 1 LIMIT 1`).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return id, nil
}

// SetInProgress clears the current holder, then sets the new one; an
// empty id just clears. The two statements are deliberately sequential:
// a failure between them can leave zero holders but never two.
func (r *SQLiteRepository) SetInProgress(ctx context.Context, id string) (string, error) {
	if _, err := r.db.ExecContext(ctx,
		`UPDATE tasks SET in_progress = 0 WHERE in_progress = 1`); err != nil {
		return "", err
	}
	if id == "" {
		return "", nil
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE tasks SET in_progress = 1 WHERE id = ? AND completed = 0`, id)
	if err != nil {
		return "", err
	}
	if err := checkRowsAffected(res); err != nil {
		return "", err
	}
	return id, nil
}

func (r *SQLiteRepository) AppendAttachments(ctx context.Context, taskID string, attachments []model.Attachment) (model.Task, error) {
	task, err := r.GetTask(ctx, taskID)
	if err != nil {
		return model.Task{}, err
	}
	task.Attachments = append(task.Attachments, attachments...)
	if err := r.UpdateTask(ctx, task); err != nil {
		return model.Task{}, err
	}
	return task, nil
}

func (r *SQLiteRepository) RemoveAttachment(ctx context.Context, taskID, attachmentID string) (model.Task, error) {
	task, err := r.GetTask(ctx, taskID)
	if err != nil {
		return model.Task{}, err
	}
	kept := make([]model.Attachment, 0, len(task.Attachments))
	found := false
	for _, a := range task.Attachments {
		if a.ID == attachmentID {
			found = true
			continue
		}
		kept = append(kept, a)
	}
	if !found {
		return model.Task{}, ErrNotFound
	}
	task.Attachments = kept
	if err := r.UpdateTask(ctx, task); err != nil {
		return model.Task{}, err
	}
	return task, nil
}

func marshalAttachments(attachments []model.Attachment) (string, error) {
	if len(attachments) == 0 {
		return "[]", nil
	}
	raw, err := json.Marshal(attachments)
	if err != nil {
		return "", fmt.Errorf("marshal attachments: %w", err)
	}
	return string(raw), nil
}

func unmarshalAttachments(raw string) ([]model.Attachment, error) {
	if raw == "" {
		return []model.Attachment{}, nil
	}
	out := make([]model.Attachment, 0)
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, fmt.Errorf("unmarshal attachments: %w", err)
	}
	return out, nil
}

func mustTime(v time.Time) string {
	return v.UTC().Format(sqliteTimeLayout)
}

func parseRequiredTime(v string) (time.Time, error) {
	return time.Parse(sqliteTimeLayout, v)
}

func boolInt(v bool) int {
	if v {
		return 1
	}
	return 0
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTask(s scanner) (model.Task, error) {
	var out model.Task
	var completed int
	var attachments string
	var created string
	if err := s.Scan(&out.ID, &out.Title, &out.Description, &out.DueAt, &completed, &attachments, &created); err != nil {
		return model.Task{}, err
	}
	createdAt, err := parseRequiredTime(created)
	if err != nil {
		return model.Task{}, err
	}
	parsed, err := unmarshalAttachments(attachments)
	if err != nil {
		return model.Task{}, err
	}
	out.Completed = completed == 1
	out.Attachments = parsed
	out.CreatedAt = createdAt
	return out, nil
}

func checkRowsAffected(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
