package cmd

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/nibzard/bloom-go/internal/config"
	"github.com/nibzard/bloom-go/internal/todo"
)

// doctorCommand checks the configuration, the task store and the log
// directory.
func doctorCommand(cws *config.ConfigWithSources, args []string) error {
	fs := flag.NewFlagSet("bloom doctor", flag.ContinueOnError)
	fs.SetOutput(stderr)
	verbose := fs.Bool("v", false, "Verbose output")
	if err := fs.Parse(args); err != nil {
		return err
	}
	cfg := cws.Config

	fmt.Fprintln(stdout, "Bloom Doctor")
	fmt.Fprintln(stdout, "============")
	fmt.Fprintln(stdout)

	allOK := true

	fmt.Fprintf(stdout, "Project root: %s\n", cfg.ProjectRoot)
	if _, err := os.Stat(cfg.ProjectRoot); err != nil {
		fmt.Fprintf(stdout, "  ❌ Error: %v\n", err)
		allOK = false
	} else {
		fmt.Fprintln(stdout, "  ✅ OK")
	}
	fmt.Fprintln(stdout)

	fmt.Fprintln(stdout, "Config:")
	if len(cws.Files) == 0 {
		fmt.Fprintln(stdout, "  ✅ No config files (defaults)")
	}
	for _, path := range cws.Files {
		fmt.Fprintf(stdout, "  ✅ %s\n", path)
	}
	if *verbose {
		for _, name := range cws.SortedFields() {
			value, _ := cfg.Value(name)
			fmt.Fprintf(stdout, "     %s = %v (%s)\n", name, value, cws.Sources[name])
		}
	}
	fmt.Fprintln(stdout)

	fmt.Fprintf(stdout, "Store: %s backend in %s\n", cfg.Backend, cfg.StoreDir)
	if !checkStore(cfg, *verbose) {
		allOK = false
	}
	fmt.Fprintln(stdout)

	fmt.Fprintf(stdout, "Log directory: %s\n", cfg.LogDir)
	if _, err := os.Stat(cfg.LogDir); err != nil {
		if os.IsNotExist(err) {
			fmt.Fprintln(stdout, "  ⚠️  Not found (will be created on first run)")
		} else {
			fmt.Fprintf(stdout, "  ❌ Error: %v\n", err)
			allOK = false
		}
	} else {
		fmt.Fprintln(stdout, "  ✅ OK")
	}
	fmt.Fprintln(stdout)

	if allOK {
		fmt.Fprintln(stdout, "✅ All checks passed!")
		return nil
	}
	fmt.Fprintln(stdout, "⚠️  Some checks failed. Saved tasks may not load.")
	return fmt.Errorf("doctor checks failed")
}

// checkStore opens the store and reports on the task slot.
func checkStore(cfg *config.Config, verbose bool) bool {
	a, err := openApp(cfg, logConsole)
	if err != nil {
		fmt.Fprintf(stdout, "  ❌ Open: %v\n", err)
		return false
	}
	defer a.Close()
	fmt.Fprintln(stdout, "  ✅ Open")

	key := a.store.Key()
	tasks, err := a.store.Inspect()
	switch {
	case errors.Is(err, todo.ErrSlotMissing):
		fmt.Fprintf(stdout, "  ⚠️  Slot %q: nothing saved yet\n", key)
		return true
	case err != nil:
		fmt.Fprintf(stdout, "  ❌ Slot %q: %v\n", key, err)
		fmt.Fprintln(stdout, "     The list will start empty and the next change overwrites this slot.")
		return false
	}

	stats := todo.Summarize(tasks)
	fmt.Fprintf(stdout, "  ✅ Slot %q: %d tasks (%d completed)\n", key, stats.Total, stats.Completed)

	if raw, ok, err := a.backend.Get(key); err == nil && ok && cfg.QuotaBytes > 0 {
		used := len(key) + len(raw)
		pct := float64(used) * 100 / float64(cfg.QuotaBytes)
		fmt.Fprintf(stdout, "  ✅ Quota: %d of %d bytes (%.1f%%)\n", used, cfg.QuotaBytes, pct)
	}
	if verbose {
		for _, t := range tasks {
			mark := " "
			if t.Completed {
				mark = "x"
			}
			fmt.Fprintf(stdout, "    - [%s] %d\n", mark, t.ID)
		}
	}
	return true
}
