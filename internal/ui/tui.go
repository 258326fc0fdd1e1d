// Package ui provides the optional terminal task browser.
package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/nibzard/tasklink/internal/task"
	"github.com/nibzard/tasklink/internal/tracker"
)

// ErrNotTTY is returned when the browser is started without a terminal.
var ErrNotTTY = errors.New("tui requires a TTY")

// Run starts the task browser on stdout.
func Run(ctx context.Context, tr *tracker.Tracker) error {
	if !IsTTY(os.Stdout) {
		return ErrNotTTY
	}
	program := tea.NewProgram(newModel(ctx, tr), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := program.Run()
	return err
}

// IsTTY reports whether w is a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

type model struct {
	ctx      context.Context
	tracker  *tracker.Tracker
	tasks    []task.Task
	visible  []task.Task
	cursor   int
	filter   task.Status
	showHelp bool
	busy     bool
	message  string
	err      error
}

// opDoneMsg carries the result of a tracker operation run off the UI loop.
type opDoneMsg struct {
	outcome tracker.Outcome
	err     error
}

func newModel(ctx context.Context, tr *tracker.Tracker) *model {
	return &model{ctx: ctx, tracker: tr}
}

func (m *model) Init() tea.Cmd {
	m.refresh()
	return nil
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case opDoneMsg:
		m.busy = false
		if msg.err != nil {
			m.err = msg.err
			m.message = ""
		} else {
			m.err = nil
			m.message = describe(msg.outcome)
		}
		m.refresh()
	}
	return m, nil
}

func (m *model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "h", "?":
		m.showHelp = !m.showHelp
	case "r", "f5":
		m.message = ""
		m.refresh()
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.visible)-1 {
			m.cursor++
		}
	case "0":
		m.setFilter("")
	case "1":
		m.setFilter(task.StatusInitialized)
	case "2":
		m.setFilter(task.StatusCompleted)
	case "c":
		return m, m.run(m.tracker.MarkComplete, "Completing")
	case "u":
		return m, m.run(m.tracker.Update, "Scanning for files")
	}
	return m, nil
}

// run applies op to the selected task in the background.
func (m *model) run(op func(context.Context, string) (tracker.Outcome, error), label string) tea.Cmd {
	selected := m.selected()
	if selected == nil || m.busy {
		return nil
	}
	selector := selected.ID
	if selector == "" {
		selector = selected.Description
	}
	m.busy = true
	m.message = label + "..."
	ctx := m.ctx
	return func() tea.Msg {
		out, err := op(ctx, selector)
		return opDoneMsg{outcome: out, err: err}
	}
}

func (m *model) selected() *task.Task {
	if m.cursor < 0 || m.cursor >= len(m.visible) {
		return nil
	}
	return &m.visible[m.cursor]
}

func (m *model) setFilter(s task.Status) {
	m.filter = s
	m.applyFilter()
}

func (m *model) refresh() {
	tasks, err := m.tracker.Tasks()
	if err != nil {
		m.err = err
		m.tasks = nil
	} else {
		m.tasks = tasks
	}
	m.applyFilter()
}

func (m *model) applyFilter() {
	if m.filter == "" {
		m.visible = m.tasks
	} else {
		m.visible = task.FilterByStatus(m.tasks, m.filter)
	}
	if m.cursor >= len(m.visible) {
		m.cursor = len(m.visible) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("tasklink") + "\n\n")

	if m.showHelp {
		writeHelp(&b)
		writeFooter(&b)
		return b.String()
	}

	counts := task.CountByStatus(m.tasks)
	b.WriteString(fmt.Sprintf("  Initialized: %d  Completed: %d\n",
		counts[task.StatusInitialized], counts[task.StatusCompleted]))
	if m.filter != "" {
		b.WriteString(mutedStyle.Render(fmt.Sprintf("  Filter: %s (0 to clear)", m.filter)) + "\n")
	}
	b.WriteString("\n")

	if len(m.visible) == 0 {
		b.WriteString(mutedStyle.Render("  No tasks.") + "\n\n")
	} else {
		b.WriteString(headerStyle.Render("Tasks") + "\n\n")
		for i := range m.visible {
			line := formatTask(&m.visible[i])
			if i == m.cursor {
				line = selectedStyle.Render(line)
			} else if m.visible[i].IsCompleted() {
				line = completedStyle.Render(line)
			}
			b.WriteString(line + "\n")
		}
		b.WriteString("\n")
		writeDetails(&b, m.selected())
	}

	if m.err != nil {
		b.WriteString(errorStyle.Render("Error: "+m.err.Error()) + "\n\n")
	} else if m.message != "" {
		b.WriteString(warningStyle.Render(m.message) + "\n\n")
	}
	writeFooter(&b)
	return b.String()
}

func writeDetails(b *strings.Builder, t *task.Task) {
	if t == nil {
		return
	}
	b.WriteString(headerStyle.Render("Linked files") + "\n\n")
	if len(t.LinkedFiles) == 0 {
		b.WriteString(mutedStyle.Render("  none (press u to scan)") + "\n\n")
		return
	}
	for _, f := range t.LinkedFiles {
		b.WriteString("  " + f + "\n")
	}
	b.WriteString("\n")
}

func writeHelp(b *strings.Builder) {
	b.WriteString(headerStyle.Render("Keyboard Shortcuts") + "\n\n")
	b.WriteString("  q, ctrl+c    Quit\n")
	b.WriteString("  j/k, arrows  Move selection\n")
	b.WriteString("  c            Mark selected task completed\n")
	b.WriteString("  u            Link tagged files to selected task\n")
	b.WriteString("  r, F5        Reload the task file\n")
	b.WriteString("  1            Show initialized tasks\n")
	b.WriteString("  2            Show completed tasks\n")
	b.WriteString("  0            Clear filter\n")
	b.WriteString("  h, ?         Toggle this help screen\n\n")
}

func writeFooter(b *strings.Builder) {
	b.WriteString(mutedStyle.Render("Press h for help | q to quit") + "\n")
}

func formatTask(t *task.Task) string {
	icon := " "
	if t.IsCompleted() {
		icon = "x"
	}
	return fmt.Sprintf("  [%s] %s (%d files)", icon, t.Description, len(t.LinkedFiles))
}

func describe(o tracker.Outcome) string {
	if !o.Found {
		return "Task not found."
	}
	switch o.Action {
	case tracker.ActionUpdate:
		return fmt.Sprintf("Linked %d files to %q.", o.Added, o.Task.Description)
	case tracker.ActionComplete:
		return fmt.Sprintf("Marked %q completed.", o.Task.Description)
	}
	return ""
}
