package cmd

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/nibzard/bloom-go/internal/bloomdir"
	"github.com/nibzard/bloom-go/internal/config"
	"github.com/nibzard/bloom-go/internal/todo"
	"github.com/nibzard/bloom-go/internal/view"
)

// exportTitle heads exported HTML pages.
const exportTitle = "Bloom tasks"

// addCommand adds one task from the remaining arguments.
func addCommand(cfg *config.Config, args []string) error {
	text := strings.Join(args, " ")
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("usage: bloom add <text...>")
	}

	a, err := openApp(cfg, logConsoleAndRun)
	if err != nil {
		return err
	}
	defer a.Close()

	task, ok := a.session().Add(text)
	if !ok {
		return fmt.Errorf("task text is empty")
	}
	a.logger.Info("Added task", "id", task.ID)
	fmt.Fprintf(stdout, "Added %d  %s\n", task.ID, view.Sanitize(task.Text))
	return nil
}

// toggleCommand flips the completed flag of one task.
func toggleCommand(cfg *config.Config, args []string) error {
	id, err := parseIDArg("toggle", args)
	if err != nil {
		return err
	}

	a, err := openApp(cfg, logConsoleAndRun)
	if err != nil {
		return err
	}
	defer a.Close()

	session := a.session()
	if !session.Toggle(id) {
		return fmt.Errorf("no task with id %d", id)
	}
	task, _ := session.Get(id)
	a.logger.Info("Toggled task", "id", id, "completed", task.Completed)

	state := "not done"
	if task.Completed {
		state = "done"
	}
	fmt.Fprintf(stdout, "Marked %d %s\n", id, state)
	return nil
}

// rmCommand deletes one task.
func rmCommand(cfg *config.Config, args []string) error {
	id, err := parseIDArg("rm", args)
	if err != nil {
		return err
	}

	a, err := openApp(cfg, logConsoleAndRun)
	if err != nil {
		return err
	}
	defer a.Close()

	if !a.session().Delete(id) {
		return fmt.Errorf("no task with id %d", id)
	}
	a.logger.Info("Deleted task", "id", id)
	fmt.Fprintf(stdout, "Deleted %d\n", id)
	return nil
}

func parseIDArg(command string, args []string) (int64, error) {
	if len(args) != 1 {
		return 0, fmt.Errorf("usage: bloom %s <id>", command)
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid task id %q: %w", args[0], err)
	}
	return id, nil
}

// lsCommand prints all tasks, newest first.
func lsCommand(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("bloom ls", flag.ContinueOnError)
	fs.SetOutput(stderr)
	format := fs.String("format", "text", "Output format (text|json)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	a, err := openApp(cfg, logConsole)
	if err != nil {
		return err
	}
	defer a.Close()

	tasks := a.session().Tasks()
	switch *format {
	case "text":
		return view.WriteText(stdout, view.Render(tasks), view.RenderStats(tasks))
	case "json":
		return writeJSON(stdout, tasks)
	default:
		return fmt.Errorf("unknown format %q (expected text|json)", *format)
	}
}

// statsCommand prints the three counters.
func statsCommand(cfg *config.Config, args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("unexpected arguments: %v", args)
	}

	a, err := openApp(cfg, logConsole)
	if err != nil {
		return err
	}
	defer a.Close()

	fmt.Fprintln(stdout, view.FormatStats(view.RenderStats(a.session().Tasks())))
	return nil
}

// exportCommand writes the task list as a standalone HTML page or JSON.
func exportCommand(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("bloom export", flag.ContinueOnError)
	fs.SetOutput(stderr)
	format := fs.String("format", "html", "Output format (html|json)")
	out := fs.String("o", "", "Output file, - for stdout (default tasks.html or tasks.json)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	var write func(io.Writer, []todo.Task) error
	path := *out
	switch *format {
	case "html":
		write = func(w io.Writer, tasks []todo.Task) error {
			return view.WriteHTML(w, exportTitle, view.Render(tasks), view.RenderStats(tasks))
		}
		if path == "" {
			path = bloomdir.DefaultExportFile
		}
	case "json":
		write = writeJSON
		if path == "" {
			path = "tasks.json"
		}
	default:
		return fmt.Errorf("unknown format %q (expected html|json)", *format)
	}

	a, err := openApp(cfg, logConsole)
	if err != nil {
		return err
	}
	defer a.Close()
	tasks := a.session().Tasks()

	if path == "-" {
		return write(stdout, tasks)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating export file: %w", err)
	}
	if err := write(f, tasks); err != nil {
		f.Close()
		return fmt.Errorf("writing export file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing export file: %w", err)
	}
	fmt.Fprintf(stdout, "Exported %d tasks to %s\n", len(tasks), path)
	return nil
}

func writeJSON(w io.Writer, tasks []todo.Task) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(tasks)
}
