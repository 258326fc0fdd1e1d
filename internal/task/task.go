// Package task defines the task record and the operations commands apply to it.
package task

import (
	"errors"
	"slices"
	"time"

	"github.com/google/uuid"
)

// Status represents a task status.
type Status string

const (
	StatusInitialized Status = "Initialized"
	StatusCompleted   Status = "Completed"
)

// ErrNotFound is returned when no task matches a lookup.
var ErrNotFound = errors.New("task not found")

// Task represents a single tracked task.
//
// The optional sequences are nil until something populates them and are
// written as JSON null in that case.
type Task struct {
	ID           string     `json:"id,omitempty" yaml:"id,omitempty"`
	Description  string     `json:"description" yaml:"description"`
	Status       Status     `json:"status" yaml:"status"`
	Dependencies []string   `json:"dependencies" yaml:"dependencies"`
	LinkedFiles  []string   `json:"linked_files" yaml:"linked_files"`
	LinkedURLs   []string   `json:"linked_urls" yaml:"linked_urls"`
	CreatedAt    *time.Time `json:"created_at,omitempty" yaml:"created_at,omitempty"`
	UpdatedAt    *time.Time `json:"updated_at,omitempty" yaml:"updated_at,omitempty"`
	CompletedAt  *time.Time `json:"completed_at,omitempty" yaml:"completed_at,omitempty"`
}

// New returns an initialized task for description with a fresh ID.
func New(description string) Task {
	now := time.Now().UTC()
	return Task{
		ID:          NewID(),
		Description: description,
		Status:      StatusInitialized,
		CreatedAt:   &now,
		UpdatedAt:   &now,
	}
}

// NewID returns a new unique task identifier.
func NewID() string {
	return uuid.NewString()
}

// IsCompleted reports whether the task has been marked completed.
func (t *Task) IsCompleted() bool {
	return t.Status == StatusCompleted
}

// AddLinkedFiles appends files to the linked file list, creating it when unset.
// Already linked paths are appended again. It returns the number of paths added.
func (t *Task) AddLinkedFiles(files []string) int {
	if t.LinkedFiles == nil {
		t.LinkedFiles = make([]string, 0, len(files))
	}
	t.LinkedFiles = append(t.LinkedFiles, files...)
	t.touch()
	return len(files)
}

// AddLinkedFilesUnique appends only the files not already linked.
func (t *Task) AddLinkedFilesUnique(files []string) int {
	if t.LinkedFiles == nil {
		t.LinkedFiles = make([]string, 0, len(files))
	}
	added := 0
	for _, f := range files {
		if slices.Contains(t.LinkedFiles, f) {
			continue
		}
		t.LinkedFiles = append(t.LinkedFiles, f)
		added++
	}
	t.touch()
	return added
}

// MarkCompleted sets the status to Completed. Calling it on a completed task
// leaves the completion time untouched.
func (t *Task) MarkCompleted() {
	if t.IsCompleted() {
		return
	}
	now := time.Now().UTC()
	t.Status = StatusCompleted
	t.CompletedAt = &now
	t.UpdatedAt = &now
}

func (t *Task) touch() {
	now := time.Now().UTC()
	t.UpdatedAt = &now
}
