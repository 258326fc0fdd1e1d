package ui

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nibzard/tasklink/internal/config"
	"github.com/nibzard/tasklink/internal/tracker"
)

func newTestModel(t *testing.T, descriptions ...string) (*model, string) {
	t.Helper()
	dir := t.TempDir()
	docs := filepath.Join(dir, "docs")
	if err := os.MkdirAll(docs, 0o755); err != nil {
		t.Fatal(err)
	}
	cfg := &config.Config{
		StoreFile: filepath.Join(dir, "tasks.json"),
		DocsDir:   docs,
		OnCorrupt: config.CorruptAbort,
		WorkDir:   dir,
	}
	tr := tracker.New(cfg, nil)
	for _, d := range descriptions {
		if _, err := tr.Create(context.Background(), d); err != nil {
			t.Fatalf("Create(%q): %v", d, err)
		}
	}
	m := newModel(context.Background(), tr)
	m.Init()
	return m, docs
}

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// press sends a key and runs any returned command to completion.
func press(t *testing.T, m *model, k string) {
	t.Helper()
	_, cmd := m.Update(key(k))
	if cmd == nil {
		return
	}
	if msg, ok := cmd().(opDoneMsg); ok {
		m.Update(msg)
	}
}

func TestModelNavigation(t *testing.T) {
	m, _ := newTestModel(t, "first", "second", "third")

	if len(m.visible) != 3 {
		t.Fatalf("visible = %d, want 3", len(m.visible))
	}
	press(t, m, "k")
	if m.cursor != 0 {
		t.Errorf("cursor = %d, want 0 at top", m.cursor)
	}
	press(t, m, "j")
	press(t, m, "j")
	press(t, m, "j")
	if m.cursor != 2 {
		t.Errorf("cursor = %d, want 2 at bottom", m.cursor)
	}
	if got := m.selected().Description; got != "third" {
		t.Errorf("selected = %q, want third", got)
	}
}

func TestModelCompleteAndFilter(t *testing.T) {
	m, _ := newTestModel(t, "first", "second")

	press(t, m, "j")
	press(t, m, "c")
	if m.err != nil {
		t.Fatalf("unexpected error: %v", m.err)
	}
	if !m.tasks[1].IsCompleted() {
		t.Error("expected second task to be completed")
	}
	if m.tasks[0].IsCompleted() {
		t.Error("first task should be untouched")
	}

	press(t, m, "2")
	if len(m.visible) != 1 || m.visible[0].Description != "second" {
		t.Errorf("completed filter = %+v", m.visible)
	}
	if m.cursor != 0 {
		t.Errorf("cursor = %d, want clamped to 0", m.cursor)
	}

	press(t, m, "1")
	if len(m.visible) != 1 || m.visible[0].Description != "first" {
		t.Errorf("initialized filter = %+v", m.visible)
	}

	press(t, m, "0")
	if len(m.visible) != 2 {
		t.Errorf("cleared filter shows %d tasks, want 2", len(m.visible))
	}
}

func TestModelRelink(t *testing.T) {
	m, docs := newTestModel(t, "write docs")
	path := filepath.Join(docs, "[write docs] notes.md")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	press(t, m, "u")
	if m.err != nil {
		t.Fatalf("unexpected error: %v", m.err)
	}
	if got := m.tasks[0].LinkedFiles; len(got) != 1 || got[0] != path {
		t.Errorf("LinkedFiles = %v, want [%s]", got, path)
	}
	if !strings.Contains(m.message, "Linked 1 files") {
		t.Errorf("message = %q", m.message)
	}
}

func TestModelEmptyListIgnoresActions(t *testing.T) {
	m, _ := newTestModel(t)

	_, cmd := m.Update(key("c"))
	if cmd != nil {
		t.Error("expected no command without a selection")
	}
	if !strings.Contains(m.View(), "No tasks.") {
		t.Errorf("view should mention empty list, got %q", m.View())
	}
}

func TestModelView(t *testing.T) {
	m, _ := newTestModel(t, "write docs")

	view := m.View()
	for _, want := range []string{"tasklink", "Initialized: 1", "write docs", "Linked files"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}

	press(t, m, "h")
	if !strings.Contains(m.View(), "Keyboard Shortcuts") {
		t.Error("help screen not shown")
	}
}

func TestModelShowsLoadError(t *testing.T) {
	m, _ := newTestModel(t, "x")
	if err := os.WriteFile(m.tracker.Store().Path, []byte("{broken"), 0o644); err != nil {
		t.Fatal(err)
	}
	press(t, m, "r")
	if m.err == nil {
		t.Fatal("expected load error")
	}
	if !strings.Contains(m.View(), "Error:") {
		t.Error("view should show the error")
	}
}

func TestQuit(t *testing.T) {
	m, _ := newTestModel(t)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
}

func TestIsTTY(t *testing.T) {
	if IsTTY(&bytes.Buffer{}) {
		t.Error("buffer is not a TTY")
	}
	f, err := os.CreateTemp(t.TempDir(), "out")
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if IsTTY(f) {
		t.Error("regular file is not a TTY")
	}
}
