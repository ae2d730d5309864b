package model

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
)

var (
	ErrInvalidTitle       = errors.New("model: invalid task title")
	ErrInvalidDescription = errors.New("model: invalid task description")
	ErrInvalidDueAt       = errors.New("model: invalid task due_at")
)

const (
	MaxTitleLen       = 80
	MaxDescriptionLen = 500
)

// DueAt is stored as a naive local date-time, no timezone and no seconds.
var dueAtPattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}$`)

type Task struct {
	ID          string
	Title       string
	Description string
	DueAt       string
	Completed   bool
	Attachments []Attachment
	CreatedAt   time.Time
}

// Normalize trims title and description; an all-whitespace description
// collapses to absent.
func (t Task) Normalize() Task {
	t.Title = strings.TrimSpace(t.Title)
	t.Description = strings.TrimSpace(t.Description)
	return t
}

func (t Task) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return errors.New("model: task id is required")
	}
	title := strings.TrimSpace(t.Title)
	if title == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidTitle)
	}
	if len([]rune(title)) > MaxTitleLen {
		return fmt.Errorf("%w: title exceeds %d characters", ErrInvalidTitle, MaxTitleLen)
	}
	if len([]rune(strings.TrimSpace(t.Description))) > MaxDescriptionLen {
		return fmt.Errorf("%w: description exceeds %d characters", ErrInvalidDescription, MaxDescriptionLen)
	}
	if !dueAtPattern.MatchString(t.DueAt) {
		return fmt.Errorf("%w: %q", ErrInvalidDueAt, t.DueAt)
	}
	if t.CreatedAt.IsZero() {
		return errors.New("model: task created_at is required")
	}
	return nil
}

// ValidDueAt reports whether s matches the YYYY-MM-DDTHH:mm storage pattern.
func ValidDueAt(s string) bool {
	return dueAtPattern.MatchString(s)
}
