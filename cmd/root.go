// Package cmd implements the CLI command structure for bloom.
package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/nibzard/bloom-go/internal/config"
	"github.com/nibzard/bloom-go/internal/kv"
	"github.com/nibzard/bloom-go/internal/logging"
	"github.com/nibzard/bloom-go/internal/todo"
	"github.com/nibzard/bloom-go/internal/ui"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Output streams, swapped in tests.
var (
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
)

// Run executes the bloom CLI.
func Run(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("bloom", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		printUsage(fs, stderr)
	}
	help := fs.Bool("help", false, "Show help")
	fs.BoolVar(help, "h", false, "Show help")
	showVersion := fs.Bool("version", false, "Show version")
	fs.BoolVar(showVersion, "v", false, "Show version")

	cws, err := config.LoadWithSources(fs, args)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	cfg := cws.Config
	if *help {
		printUsage(fs, stdout)
		return nil
	}
	if *showVersion {
		return versionCommand()
	}

	// With no subcommand bloom opens the interactive list.
	subcommand := "tui"
	remainingArgs := fs.Args()
	if len(remainingArgs) > 0 && !strings.HasPrefix(remainingArgs[0], "-") {
		subcommand = remainingArgs[0]
		remainingArgs = remainingArgs[1:]
	}

	switch subcommand {
	case "tui":
		return tuiCommand(ctx, cfg, remainingArgs)
	case "add":
		return addCommand(cfg, remainingArgs)
	case "toggle", "done":
		return toggleCommand(cfg, remainingArgs)
	case "rm", "delete":
		return rmCommand(cfg, remainingArgs)
	case "ls", "list":
		return lsCommand(cfg, remainingArgs)
	case "stats":
		return statsCommand(cfg, remainingArgs)
	case "export":
		return exportCommand(cfg, remainingArgs)
	case "doctor":
		return doctorCommand(cws, remainingArgs)
	case "tail":
		return tailCommand(ctx, cfg, remainingArgs)
	case "config":
		return configCommand(cws, remainingArgs)
	case "version":
		return versionCommand()
	case "help":
		printUsage(fs, stdout)
		return nil
	default:
		fmt.Fprintf(stderr, "Unknown command: %s\n", subcommand)
		printUsage(fs, stderr)
		return fmt.Errorf("unknown command: %s", subcommand)
	}
}

// logTarget selects where a command's log output goes.
type logTarget int

const (
	// logConsole writes to stderr only.
	logConsole logTarget = iota
	// logConsoleAndRun writes to stderr and a new run log file.
	logConsoleAndRun
	// logRunOnly writes to a new run log file only.
	logRunOnly
)

// app is an opened task store together with its logger.
type app struct {
	cfg     *config.Config
	backend kv.Store
	store   *todo.Store
	logger  *log.Logger
	runLog  *logging.RunLogger
}

func openApp(cfg *config.Config, target logTarget) (*app, error) {
	logger, runLog := newLogger(cfg, target)

	backend, err := kv.Open(cfg.Backend, cfg.StoreDir)
	if err != nil {
		_ = runLog.Close()
		return nil, fmt.Errorf("opening %s store: %w", cfg.Backend, err)
	}
	logger.Debug("Opened store", "backend", cfg.Backend, "dir", cfg.StoreDir)

	return &app{
		cfg:     cfg,
		backend: backend,
		store:   todo.NewStore(kv.Limit(backend, cfg.QuotaBytes), cfg.StoreKey, logger),
		logger:  logger,
		runLog:  runLog,
	}, nil
}

func (a *app) session() *todo.Session {
	return todo.OpenSession(a.store)
}

func (a *app) Close() error {
	err := a.backend.Close()
	if cerr := a.runLog.Close(); err == nil {
		err = cerr
	}
	return err
}

// newLogger builds the logger for target. When the run log cannot be
// created the logger falls back to stderr, or to nothing for logRunOnly.
func newLogger(cfg *config.Config, target logTarget) (*log.Logger, *logging.RunLogger) {
	opts := logging.Options{
		Level:      cfg.LogLevel,
		Format:     cfg.LogFormat,
		Timestamps: cfg.LogTimestamps,
		Caller:     cfg.LogCaller,
	}
	if target == logConsole {
		return logging.New(stderr, opts), nil
	}

	runLog, err := logging.NewRunLogger(cfg.LogDir, cfg.ProjectRoot)
	if err != nil {
		fmt.Fprintf(stderr, "Warning: run log disabled: %v\n", err)
		if target == logRunOnly {
			return logging.Discard(), nil
		}
		return logging.New(stderr, opts), nil
	}
	if target == logRunOnly {
		return logging.New(runLog.Writer(), opts), runLog
	}
	return logging.New(io.MultiWriter(stderr, runLog.Writer()), opts), runLog
}

// tuiCommand opens the interactive list.
func tuiCommand(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("bloom tui", flag.ContinueOnError)
	fs.SetOutput(stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	if !ui.IsTTY(os.Stdout) {
		return fmt.Errorf("tui requires a TTY (use 'bloom ls' to print tasks)")
	}

	a, err := openApp(cfg, logRunOnly)
	if err != nil {
		return err
	}
	defer a.Close()

	a.logger.Info("Starting TUI", "backend", cfg.Backend, "key", cfg.StoreKey)
	return ui.RunTUI(ctx, a.session(),
		ui.WithDeleteDelay(cfg.DeleteDelay()),
		ui.WithLogger(a.logger),
	)
}

// tailCommand prints the latest run log for the project.
func tailCommand(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("bloom tail", flag.ContinueOnError)
	fs.SetOutput(stderr)
	follow := fs.Bool("f", false, "Follow the log (like tail -f)")
	fs.BoolVar(follow, "follow", false, "Follow the log (like tail -f)")
	n := fs.Int("n", 0, "Number of lines to show (0 = all)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	logDir, err := logging.FindLogDir(cfg.LogDir, cfg.ProjectRoot)
	if err != nil {
		return fmt.Errorf("finding log directory: %w", err)
	}
	logPath, err := logging.FindLatestLog(logDir)
	if err != nil {
		return fmt.Errorf("finding latest log: %w", err)
	}
	if logPath == "" {
		fmt.Fprintln(stdout, "No log files found.")
		return nil
	}

	fmt.Fprintf(stderr, "Tailing: %s\n", logPath)
	if *follow {
		fmt.Fprintln(stderr, "(Ctrl+C to stop)")
	}
	return logging.TailLog(ctx, stdout, logPath, *n, *follow)
}

// configCommand prints the effective configuration or a sample file.
func configCommand(cws *config.ConfigWithSources, args []string) error {
	fs := flag.NewFlagSet("bloom config", flag.ContinueOnError)
	fs.SetOutput(stderr)
	example := fs.Bool("example", false, "Print a sample bloom.toml")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *example {
		fmt.Fprint(stdout, config.ExampleConfig())
		return nil
	}

	for _, path := range cws.Files {
		fmt.Fprintf(stdout, "# read %s\n", path)
	}
	for _, name := range cws.SortedFields() {
		value, _ := cws.Config.Value(name)
		if s, ok := value.(string); ok {
			value = fmt.Sprintf("%q", s)
		}
		fmt.Fprintf(stdout, "%s = %v  # %s\n", name, value, cws.Sources[name])
	}
	return nil
}

// versionCommand prints version information.
func versionCommand() error {
	fmt.Fprintf(stdout, "bloom %s\n", Version)
	return nil
}

// printUsage prints usage information.
func printUsage(fs *flag.FlagSet, w io.Writer) {
	fmt.Fprintln(w, "bloom - a small to-do list for the terminal")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  bloom [global flags] [command] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  tui                   Open the interactive list (default)")
	fmt.Fprintln(w, "  add <text...>         Add a task")
	fmt.Fprintln(w, "  toggle <id>           Mark a task done or not done")
	fmt.Fprintln(w, "  rm <id>               Delete a task")
	fmt.Fprintln(w, "  ls [-format text|json]")
	fmt.Fprintln(w, "                        Print tasks, newest first")
	fmt.Fprintln(w, "  stats                 Print total, completed and remaining counts")
	fmt.Fprintln(w, "  export [-format html|json] [-o file]")
	fmt.Fprintln(w, "                        Write tasks to a file (- for stdout)")
	fmt.Fprintln(w, "  doctor                Check configuration and storage")
	fmt.Fprintln(w, "  tail [-n N] [-f]      Show the latest run log")
	fmt.Fprintln(w, "  config [-example]     Show effective configuration")
	fmt.Fprintln(w, "  version               Show version")
	fmt.Fprintln(w, "  help                  Show this help")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Global flags:")
	fs.SetOutput(w)
	fs.PrintDefaults()
}
