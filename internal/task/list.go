package task

import "strings"

// Find returns the first task whose description equals description exactly,
// or nil if none match. Later tasks with the same description are unreachable.
func Find(tasks []Task, description string) *Task {
	for i := range tasks {
		if tasks[i].Description == description {
			return &tasks[i]
		}
	}
	return nil
}

// FindByID returns the task with the given ID, or nil if none match.
func FindByID(tasks []Task, id string) *Task {
	if id == "" {
		return nil
	}
	for i := range tasks {
		if tasks[i].ID == id {
			return &tasks[i]
		}
	}
	return nil
}

// Lookup resolves a selector to a task. Descriptions win over IDs.
func Lookup(tasks []Task, selector string) (*Task, error) {
	if t := Find(tasks, selector); t != nil {
		return t, nil
	}
	if t := FindByID(tasks, selector); t != nil {
		return t, nil
	}
	return nil, ErrNotFound
}

// CountDescription returns how many tasks share description.
func CountDescription(tasks []Task, description string) int {
	n := 0
	for i := range tasks {
		if tasks[i].Description == description {
			n++
		}
	}
	return n
}

// FilterByStatus returns the tasks with the given status, preserving order.
// An empty status returns every task.
func FilterByStatus(tasks []Task, status Status) []Task {
	if status == "" {
		return tasks
	}
	var filtered []Task
	for _, t := range tasks {
		if t.Status == status {
			filtered = append(filtered, t)
		}
	}
	return filtered
}

// CountByStatus tallies tasks per status.
func CountByStatus(tasks []Task) map[Status]int {
	counts := map[Status]int{
		StatusInitialized: 0,
		StatusCompleted:   0,
	}
	for _, t := range tasks {
		counts[t.Status]++
	}
	return counts
}

// EnsureIDs assigns an ID to every task that lacks one and reports whether
// anything changed.
func EnsureIDs(tasks []Task) bool {
	changed := false
	for i := range tasks {
		if tasks[i].ID == "" {
			tasks[i].ID = NewID()
			changed = true
		}
	}
	return changed
}

// ParseStatus maps user input to a Status. It accepts the canonical values
// case-insensitively plus the short aliases "open" and "done".
func ParseStatus(s string) (Status, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return "", true
	case "initialized", "open", "todo":
		return StatusInitialized, true
	case "completed", "done", "complete":
		return StatusCompleted, true
	}
	return "", false
}
