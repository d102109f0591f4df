// Package ui provides the interactive terminal interface.
package ui

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/nibzard/bloom-go/internal/logging"
	"github.com/nibzard/bloom-go/internal/todo"
	"github.com/nibzard/bloom-go/internal/view"
)

// DefaultDeleteDelay is how long a deleted row stays visible before removal.
const DefaultDeleteDelay = 300 * time.Millisecond

const addedStatus = "Task added"

// TUIOption configures the TUI behavior.
type TUIOption func(*tuiModel)

// WithDeleteDelay sets the delete animation delay. Zero removes rows at once.
func WithDeleteDelay(d time.Duration) TUIOption {
	return func(m *tuiModel) {
		if d >= 0 {
			m.deleteDelay = d
		}
	}
}

// WithLogger sets the logger for user actions. It must not write to the
// terminal the TUI is drawn on.
func WithLogger(logger *log.Logger) TUIOption {
	return func(m *tuiModel) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// RunTUI runs the task list on the terminal until the user quits or ctx is
// cancelled.
func RunTUI(ctx context.Context, session *todo.Session, opts ...TUIOption) error {
	if !IsTTY(os.Stdout) {
		return fmt.Errorf("tui requires a TTY")
	}
	model := newTUIModel(session, opts...)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := program.Run()
	return err
}

type focusArea int

const (
	focusInput focusArea = iota
	focusButton
	focusList
	focusCount
)

type tuiModel struct {
	session     *todo.Session
	logger      *log.Logger
	deleteDelay time.Duration

	keys  keyMap
	help  help.Model
	input textinput.Model

	focus    focusArea
	cursor   int
	removing map[int64]bool
	status   string
	width    int
}

// deleteDueMsg fires when the delete delay for id has elapsed.
type deleteDueMsg struct {
	id int64
}

func newTUIModel(session *todo.Session, opts ...TUIOption) *tuiModel {
	input := textinput.New()
	input.Placeholder = "What needs to grow?"
	input.Prompt = ""
	input.CharLimit = 500
	input.Width = 40
	input.Focus()

	m := &tuiModel{
		session:     session,
		logger:      logging.Discard(),
		deleteDelay: DefaultDeleteDelay,
		keys:        newKeyMap(),
		help:        help.New(),
		input:       input,
		focus:       focusInput,
		removing:    make(map[int64]bool),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *tuiModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		if w := msg.Width - 16; w > 10 {
			m.input.Width = w
		}
		return m, nil
	case deleteDueMsg:
		m.finishDelete(msg.id)
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	if m.focus == focusInput {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *tuiModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Force) {
		return m, tea.Quit
	}
	m.status = ""

	switch {
	case key.Matches(msg, m.keys.Next):
		return m, m.setFocus((m.focus + 1) % focusCount)
	case key.Matches(msg, m.keys.Prev):
		return m, m.setFocus((m.focus + focusCount - 1) % focusCount)
	}

	switch m.focus {
	case focusInput:
		switch {
		case key.Matches(msg, m.keys.Submit):
			m.submit()
			return m, nil
		case key.Matches(msg, m.keys.Leave):
			return m, m.setFocus(focusList)
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd

	case focusButton:
		if key.Matches(msg, m.keys.Press) {
			m.submit()
			return m, nil
		}

	case focusList:
		switch {
		case key.Matches(msg, m.keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
			return m, nil
		case key.Matches(msg, m.keys.Down):
			if m.cursor < m.session.Len()-1 {
				m.cursor++
			}
			return m, nil
		case key.Matches(msg, m.keys.Toggle):
			m.toggleSelected()
			return m, nil
		case key.Matches(msg, m.keys.Delete):
			return m, m.deleteSelected()
		}
	}

	switch {
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	}
	return m, nil
}

func (m *tuiModel) setFocus(f focusArea) tea.Cmd {
	m.focus = f
	if f == focusInput {
		return m.input.Focus()
	}
	m.input.Blur()
	return nil
}

// submit adds the input text as a task. Blank input is left as is.
func (m *tuiModel) submit() {
	task, ok := m.session.Add(m.input.Value())
	if !ok {
		return
	}
	m.input.Reset()
	m.cursor = 0
	m.status = addedStatus
	m.logger.Debug("Added task", "id", task.ID)
}

func (m *tuiModel) selected() (todo.Task, bool) {
	tasks := m.session.Tasks()
	if m.cursor < 0 || m.cursor >= len(tasks) {
		return todo.Task{}, false
	}
	return tasks[m.cursor], true
}

func (m *tuiModel) toggleSelected() {
	task, ok := m.selected()
	if !ok || m.removing[task.ID] {
		return
	}
	if m.session.Toggle(task.ID) {
		m.logger.Debug("Toggled task", "id", task.ID, "completed", !task.Completed)
	}
}

// deleteSelected marks the selected row as removing and schedules the
// delete. A row already being removed is ignored.
func (m *tuiModel) deleteSelected() tea.Cmd {
	task, ok := m.selected()
	if !ok || m.removing[task.ID] {
		return nil
	}
	m.removing[task.ID] = true

	id := task.ID
	if m.deleteDelay <= 0 {
		return func() tea.Msg { return deleteDueMsg{id: id} }
	}
	return tea.Tick(m.deleteDelay, func(time.Time) tea.Msg {
		return deleteDueMsg{id: id}
	})
}

func (m *tuiModel) finishDelete(id int64) {
	if !m.removing[id] {
		return
	}
	delete(m.removing, id)
	if m.session.Delete(id) {
		m.logger.Debug("Deleted task", "id", id)
	}
	if n := m.session.Len(); m.cursor >= n {
		m.cursor = max(n-1, 0)
	}
}

func (m *tuiModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Bloom"))
	b.WriteString("\n")

	input := inputStyle
	button := buttonStyle
	switch m.focus {
	case focusInput:
		input = inputFocusedStyle
	case focusButton:
		button = buttonFocusedStyle
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Center,
		input.Render(m.input.View()),
		" ",
		button.Render("[ Add ]"),
	))
	b.WriteString("\n\n")

	tasks := m.session.Tasks()
	writeList(&b, view.Render(tasks), m.focus == focusList, m.cursor, m.removing)
	b.WriteString(statsStyle.Render(view.FormatStats(view.RenderStats(tasks))))
	b.WriteString("\n")
	if m.status != "" {
		b.WriteString(statusStyle.Render(m.status))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	b.WriteString("\n")
	return b.String()
}

func writeList(b *strings.Builder, list view.List, active bool, cursor int, removing map[int64]bool) {
	if list.Empty {
		b.WriteString(placeholderStyle.Render(list.Placeholder))
		b.WriteString("\n")
		return
	}
	for i, row := range list.Rows {
		marker := "  "
		if active && i == cursor {
			marker = cursorStyle.Render("> ")
		}
		b.WriteString(marker)
		b.WriteString(formatRow(row, removing[row.ID]))
		b.WriteString("\n")
	}
}

func formatRow(row view.Row, removing bool) string {
	switch {
	case removing:
		return rowRemovingStyle.Render("[-] " + row.Text + "  (removing)")
	case row.Completed:
		return checkStyle.Render("[x]") + " " + rowCompletedStyle.Render(row.Text)
	default:
		return "[ ] " + rowStyle.Render(row.Text)
	}
}

// IsTTY returns true if w is a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
