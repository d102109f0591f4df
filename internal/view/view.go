// Package view projects the task collection into displayable values.
//
// Render and RenderStats are pure: the same tasks always give the same view,
// and the whole view is rebuilt on every call.
package view

import (
	"strings"
	"unicode"

	"github.com/charmbracelet/x/ansi"

	"github.com/nibzard/bloom-go/internal/todo"
)

// EmptyPlaceholder is shown in place of rows when there are no tasks.
const EmptyPlaceholder = "No tasks yet. Add one above to get started!"

// Row is one displayed task. ID is carried by both the toggle and the delete
// control of the row.
type Row struct {
	ID        int64
	Text      string
	Completed bool
}

// List is the displayed task list.
type List struct {
	Empty       bool
	Placeholder string
	Rows        []Row
}

// Render builds the list view for tasks in their current order.
func Render(tasks []todo.Task) List {
	if len(tasks) == 0 {
		return List{Empty: true, Placeholder: EmptyPlaceholder}
	}
	rows := make([]Row, 0, len(tasks))
	for _, t := range tasks {
		rows = append(rows, Row{
			ID:        t.ID,
			Text:      Sanitize(t.Text),
			Completed: t.Completed,
		})
	}
	return List{Rows: rows}
}

// RenderStats returns the total, completed and remaining counts.
func RenderStats(tasks []todo.Task) todo.Stats {
	return todo.Summarize(tasks)
}

// Sanitize makes user text safe to print on a terminal: escape sequences are
// removed, tabs and line breaks become spaces and other control characters
// are dropped.
func Sanitize(s string) string {
	s = strings.Map(func(r rune) rune {
		if r == '\t' || r == '\n' || r == '\r' {
			return ' '
		}
		return r
	}, s)
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, ansi.Strip(s))
}
