// Package store loads and saves the task list document.
package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/natefinch/atomic"
	"github.com/tailscale/hujson"

	"github.com/nibzard/tasklink/internal/task"
)

const (
	dirPerms  = 0o755
	filePerms = 0o644
)

// ErrCorrupt marks a store file that exists but does not hold a task list.
var ErrCorrupt = errors.New("task file is corrupt")

// CorruptError describes a store file that could not be parsed.
type CorruptError struct {
	Path string
	Err  error
}

func (e *CorruptError) Error() string {
	return fmt.Sprintf("parse task file %s: %v", e.Path, e.Err)
}

// Unwrap returns the underlying parse error.
func (e *CorruptError) Unwrap() error {
	return e.Err
}

// Is reports ErrCorrupt as a match.
func (e *CorruptError) Is(target error) bool {
	return target == ErrCorrupt
}

// Store is a task list persisted as a single JSON array at Path.
type Store struct {
	Path string
}

// New returns a store backed by path.
func New(path string) *Store {
	return &Store{Path: path}
}

// Exists reports whether the backing file is present.
func (s *Store) Exists() (bool, error) {
	info, err := os.Stat(s.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("stat task file: %w", err)
	}
	if info.IsDir() {
		return false, fmt.Errorf("task file %s is a directory", s.Path)
	}
	return true, nil
}

// Load reads the full task list.
//
// A missing or empty file yields an empty list. A file that cannot be parsed
// also yields an empty list, together with a *CorruptError so the caller can
// refuse to overwrite it.
func (s *Store) Load() ([]task.Task, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return []task.Task{}, nil
		}
		return nil, fmt.Errorf("read task file: %w", err)
	}

	tasks, err := decode(data)
	if err != nil {
		return []task.Task{}, &CorruptError{Path: s.Path, Err: err}
	}
	return tasks, nil
}

func decode(data []byte) ([]task.Task, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return []task.Task{}, nil
	}
	std, err := hujson.Standardize(data)
	if err != nil {
		return nil, err
	}
	var tasks []task.Task
	if err := json.Unmarshal(std, &tasks); err != nil {
		return nil, err
	}
	if tasks == nil {
		tasks = []task.Task{}
	}
	return tasks, nil
}

// Save replaces the file contents with tasks. The new document is written to
// a temporary file in the same directory and renamed over the old one.
func (s *Store) Save(tasks []task.Task) error {
	if tasks == nil {
		tasks = []task.Task{}
	}
	data, err := json.MarshalIndent(tasks, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal tasks: %w", err)
	}
	data = append(data, '\n')

	if dir := filepath.Dir(s.Path); dir != "" {
		if err := os.MkdirAll(dir, dirPerms); err != nil {
			return fmt.Errorf("create task file dir: %w", err)
		}
	}

	existed, err := s.Exists()
	if err != nil {
		return err
	}
	if err := atomic.WriteFile(s.Path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("write task file: %w", err)
	}
	if !existed {
		if err := os.Chmod(s.Path, filePerms); err != nil {
			return fmt.Errorf("set task file permissions: %w", err)
		}
	}
	return nil
}

// Backup moves the current file aside and returns its new path.
func (s *Store) Backup() (string, error) {
	dest := fmt.Sprintf("%s.corrupt-%s", s.Path, time.Now().UTC().Format("20060102T150405Z"))
	if err := os.Rename(s.Path, dest); err != nil {
		return "", fmt.Errorf("back up task file: %w", err)
	}
	return dest, nil
}
