// Package tracker runs the task operations on top of the store, the file
// linker, the activity journal and the post-change hook.
package tracker

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"

	"github.com/nibzard/tasklink/internal/config"
	"github.com/nibzard/tasklink/internal/hooks"
	"github.com/nibzard/tasklink/internal/linker"
	"github.com/nibzard/tasklink/internal/logging"
	"github.com/nibzard/tasklink/internal/store"
	"github.com/nibzard/tasklink/internal/task"
)

// Action names a mutating operation in the journal and hook arguments.
type Action string

const (
	ActionCreate   Action = "create"
	ActionUpdate   Action = "update"
	ActionComplete Action = "complete"
)

// Outcome describes what an operation did.
type Outcome struct {
	Action Action
	// Found is false when the selector matched no task; nothing was written.
	Found bool
	// Task is a copy of the task after the change.
	Task task.Task
	// Linked holds the paths found by the scan; Added how many were attached.
	Linked []string
	Added  int
}

// Tracker manages the task list for one configuration.
type Tracker struct {
	cfg        *config.Config
	store      *store.Store
	logger     *log.Logger
	hookOutput io.Writer
}

// New creates a tracker for cfg. A nil logger discards diagnostics.
func New(cfg *config.Config, logger *log.Logger) *Tracker {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Tracker{
		cfg:        cfg,
		store:      store.New(cfg.StoreFile),
		logger:     logger,
		hookOutput: os.Stderr,
	}
}

// SetHookOutput redirects the hook's stdout and stderr.
func (t *Tracker) SetHookOutput(w io.Writer) {
	t.hookOutput = w
}

// Store returns the backing store.
func (t *Tracker) Store() *store.Store {
	return t.store
}

// Tasks loads the task list without side effects. A corrupt file is an error
// regardless of on_corrupt.
func (t *Tracker) Tasks() ([]task.Task, error) {
	tasks, err := t.store.Load()
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

// snapshot is a task list read for a mutation. corrupt marks a file that did
// not parse and is moved aside before the first save.
type snapshot struct {
	tasks   []task.Task
	corrupt error
}

// load reads the task list for a mutation, applying the corrupt-file policy
// and assigning ids to tasks written without one. Nothing on disk changes
// until save.
func (t *Tracker) load() (*snapshot, error) {
	snap := &snapshot{}
	tasks, err := t.store.Load()
	if err != nil {
		if !errors.Is(err, store.ErrCorrupt) {
			return nil, err
		}
		if t.cfg.OnCorrupt != config.CorruptBackup {
			return nil, fmt.Errorf("%w (set on_corrupt = \"backup\" to move it aside)", err)
		}
		snap.corrupt = err
		tasks = []task.Task{}
	}
	if task.EnsureIDs(tasks) {
		t.logger.Debug("assigned ids to tasks without one", "store", t.store.Path)
	}
	snap.tasks = tasks
	return snap, nil
}

// save writes the snapshot back, backing up a corrupt file first.
func (t *Tracker) save(snap *snapshot) error {
	if snap.corrupt != nil {
		backup, err := t.store.Backup()
		if err != nil {
			return fmt.Errorf("back up corrupt task file: %w", err)
		}
		t.logger.Warn("task file could not be parsed, starting from an empty list", "backup", backup, "err", snap.corrupt)
		snap.corrupt = nil
	}
	return t.store.Save(snap.tasks)
}

// Create appends a new Initialized task and saves the list.
func (t *Tracker) Create(ctx context.Context, description string) (Outcome, error) {
	snap, err := t.load()
	if err != nil {
		return Outcome{}, err
	}
	if task.CountDescription(snap.tasks, description) > 0 {
		t.logger.Warn("a task with this description already exists; lookups use the first one", "description", description)
	}

	created := task.New(description)
	snap.tasks = append(snap.tasks, created)
	if err := t.save(snap); err != nil {
		return Outcome{}, err
	}
	t.logger.Info("task created", "id", created.ID, "description", description)

	out := Outcome{Action: ActionCreate, Found: true, Task: created}
	t.record(ctx, out)
	return out, nil
}

// Update scans the documents root for entries tagged with the task's
// description and attaches them. A miss leaves the file untouched.
func (t *Tracker) Update(ctx context.Context, selector string) (Outcome, error) {
	snap, err := t.load()
	if err != nil {
		return Outcome{}, err
	}
	found, err := task.Lookup(snap.tasks, selector)
	if err != nil {
		if errors.Is(err, task.ErrNotFound) {
			return Outcome{Action: ActionUpdate}, nil
		}
		return Outcome{}, err
	}

	files, err := t.scan(ctx, found.Description)
	if err != nil {
		return Outcome{}, err
	}

	var added int
	if t.cfg.DedupeLinks {
		added = found.AddLinkedFilesUnique(files)
	} else {
		added = found.AddLinkedFiles(files)
	}
	if err := t.save(snap); err != nil {
		return Outcome{}, err
	}
	t.logger.Info("task updated", "id", found.ID, "found", len(files), "added", added)

	out := Outcome{Action: ActionUpdate, Found: true, Task: *found, Linked: files, Added: added}
	t.record(ctx, out)
	return out, nil
}

// MarkComplete sets the task's status to Completed. Completing a completed
// task is a no-op apart from the save.
func (t *Tracker) MarkComplete(ctx context.Context, selector string) (Outcome, error) {
	snap, err := t.load()
	if err != nil {
		return Outcome{}, err
	}
	found, err := task.Lookup(snap.tasks, selector)
	if err != nil {
		if errors.Is(err, task.ErrNotFound) {
			return Outcome{Action: ActionComplete}, nil
		}
		return Outcome{}, err
	}

	found.MarkCompleted()
	if err := t.save(snap); err != nil {
		return Outcome{}, err
	}
	t.logger.Info("task completed", "id", found.ID)

	out := Outcome{Action: ActionComplete, Found: true, Task: *found}
	t.record(ctx, out)
	return out, nil
}

func (t *Tracker) scan(ctx context.Context, description string) ([]string, error) {
	root, err := t.cfg.DocsRoot()
	if err != nil {
		return nil, fmt.Errorf("resolve documents directory: %w", err)
	}
	l, err := linker.New(root, t.cfg.Exclude, t.logger)
	if err != nil {
		return nil, err
	}
	t.logger.Debug("scanning", "root", root, "tag", linker.Tag(description))
	return l.Link(ctx, description)
}

// Journal returns the activity journal for this project.
func (t *Tracker) Journal() (*logging.Journal, error) {
	dir, err := t.cfg.LogRoot()
	if err != nil {
		return nil, err
	}
	return logging.OpenJournal(dir, filepath.Dir(t.store.Path))
}

// record writes the journal entry and runs the hook. Failures are warnings;
// the change itself is already saved.
func (t *Tracker) record(ctx context.Context, out Outcome) {
	if t.cfg.Journal {
		if err := t.appendJournal(out); err != nil {
			t.logger.Warn("journal", "err", err)
		}
	}

	if t.cfg.HookCommand == "" {
		return
	}
	result, err := hooks.Invoke(ctx, hooks.Options{
		Command:   t.cfg.HookCommand,
		Action:    string(out.Action),
		TaskID:    out.Task.ID,
		Status:    string(out.Task.Status),
		StorePath: t.store.Path,
		WorkDir:   t.cfg.WorkDir,
		Output:    t.hookOutput,
	})
	if result.Ran {
		t.logger.Debug("hook ran", "command", result.Command, "exit_code", result.ExitCode)
	}
	if err != nil {
		t.logger.Warn("hook", "err", err)
	}
}

func (t *Tracker) appendJournal(out Outcome) error {
	j, err := t.Journal()
	if err != nil {
		return err
	}
	return j.Append(logging.Event{
		Time:        time.Now().UTC(),
		Action:      string(out.Action),
		TaskID:      out.Task.ID,
		Description: out.Task.Description,
		Status:      string(out.Task.Status),
		Linked:      out.Linked,
		Store:       t.store.Path,
	})
}
