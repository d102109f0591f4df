package view

import (
	"fmt"
	"html/template"
	"io"

	"github.com/nibzard/bloom-go/internal/todo"
)

// WriteText writes the list and counts as plain text, one task per line.
func WriteText(w io.Writer, list List, stats todo.Stats) error {
	if list.Empty {
		if _, err := fmt.Fprintln(w, list.Placeholder); err != nil {
			return err
		}
	}
	for _, row := range list.Rows {
		if _, err := fmt.Fprintf(w, "%s %d  %s\n", checkMark(row.Completed), row.ID, row.Text); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "\n%s\n", FormatStats(stats))
	return err
}

// FormatStats formats counts as "3 total, 1 completed, 2 remaining".
func FormatStats(s todo.Stats) string {
	return fmt.Sprintf("%d total, %d completed, %d remaining", s.Total, s.Completed, s.Remaining)
}

func checkMark(completed bool) string {
	if completed {
		return "[x]"
	}
	return "[ ]"
}

const pageTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
</head>
<body>
<h1>{{.Title}}</h1>
<ul class="stats">
<li>Total: <span id="totalTasks">{{.Stats.Total}}</span></li>
<li>Completed: <span id="completedTasks">{{.Stats.Completed}}</span></li>
<li>Remaining: <span id="remainingTasks">{{.Stats.Remaining}}</span></li>
</ul>
{{- if .List.Empty}}
<p id="emptyState">{{.List.Placeholder}}</p>
{{- else}}
<ul id="taskList">
{{- range .List.Rows}}
<li class="task-item{{if .Completed}} completed{{end}}" data-id="{{.ID}}"><span class="task-checkbox{{if .Completed}} checked{{end}}"></span> <span class="task-text">{{.Text}}</span></li>
{{- end}}
</ul>
{{- end}}
</body>
</html>
`

var page = template.Must(template.New("page").Parse(pageTemplate))

// WriteHTML writes a standalone HTML page. Task text is escaped, so markup
// in a task shows up as literal text.
func WriteHTML(w io.Writer, title string, list List, stats todo.Stats) error {
	return page.Execute(w, struct {
		Title string
		List  List
		Stats todo.Stats
	}{title, list, stats})
}
