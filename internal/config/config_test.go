package config

import (
	"flag"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/BurntSushi/toml"
)

// isolate points HOME and the working directory at empty temp dirs and
// clears BLOOM_* variables.
func isolate(t *testing.T) (home, project string) {
	t.Helper()
	home = t.TempDir()
	project = t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	t.Setenv("APPDATA", filepath.Join(home, "AppData"))
	for _, name := range []string{
		"BLOOM_DIR", "BLOOM_BACKEND", "BLOOM_KEY", "BLOOM_QUOTA", "BLOOM_DELETE_DELAY_MS",
		"BLOOM_LOG_DIR", "BLOOM_LOG_LEVEL", "BLOOM_LOG_FORMAT", "BLOOM_LOG_TIMESTAMPS", "BLOOM_LOG_CALLER",
	} {
		t.Setenv(name, "")
	}
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(project); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })
	return home, project
}

func newFlagSet() *flag.FlagSet {
	fs := flag.NewFlagSet("bloom", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestDefaults(t *testing.T) {
	home, project := isolate(t)

	cfg, err := Load(newFlagSet(), nil)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Backend != "file" {
		t.Errorf("Backend: got %q", cfg.Backend)
	}
	if cfg.StoreKey != "bloomGrowTasks" {
		t.Errorf("StoreKey: got %q", cfg.StoreKey)
	}
	if cfg.QuotaBytes != 5<<20 {
		t.Errorf("QuotaBytes: got %d", cfg.QuotaBytes)
	}
	if cfg.DeleteDelay() != 300*time.Millisecond {
		t.Errorf("DeleteDelay: got %v", cfg.DeleteDelay())
	}
	if cfg.ProjectRoot != project {
		// macOS temp dirs resolve through /private.
		if resolved, _ := filepath.EvalSymlinks(project); cfg.ProjectRoot != resolved {
			t.Errorf("ProjectRoot: got %q, want %q", cfg.ProjectRoot, project)
		}
	}
	if cfg.StoreDir != filepath.Join(cfg.ProjectRoot, ".bloom") {
		t.Errorf("StoreDir: got %q", cfg.StoreDir)
	}
	if cfg.LogDir != filepath.Join(home, ".bloom", "logs") {
		t.Errorf("LogDir: got %q", cfg.LogDir)
	}
	if !cfg.LogTimestamps || cfg.LogCaller {
		t.Errorf("log flags: timestamps %v caller %v", cfg.LogTimestamps, cfg.LogCaller)
	}
}

func TestPriorityOrder(t *testing.T) {
	home, _ := isolate(t)

	writeFile(t, filepath.Join(home, ".bloom", "bloom.toml"), `
backend = "sqlite"
store_key = "userKey"
delete_delay_ms = 100
log_level = "debug"
`)
	writeFile(t, "bloom.toml", `
store_key = "projectKey"
delete_delay_ms = 200
`)
	t.Setenv("BLOOM_DELETE_DELAY_MS", "250")
	t.Setenv("BLOOM_LOG_CALLER", "yes")

	cws, err := LoadWithSources(newFlagSet(), []string{"-log-level", "warn", "ls"})
	if err != nil {
		t.Fatalf("LoadWithSources failed: %v", err)
	}
	cfg := cws.Config

	tests := []struct {
		field  string
		got    any
		want   any
		source ConfigSource
	}{
		{"backend", cfg.Backend, "sqlite", SourceUserFile},
		{"store_key", cfg.StoreKey, "projectKey", SourceProjFile},
		{"delete_delay_ms", cfg.DeleteDelayMS, 250, SourceEnv},
		{"log_caller", cfg.LogCaller, true, SourceEnv},
		{"log_level", cfg.LogLevel, "warn", SourceFlag},
		{"log_format", cfg.LogFormat, "text", SourceDefault},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s: got %v, want %v", tt.field, tt.got, tt.want)
		}
		if cws.Sources[tt.field] != tt.source {
			t.Errorf("%s source: got %q, want %q", tt.field, cws.Sources[tt.field], tt.source)
		}
	}

	if len(cws.Files) != 2 {
		t.Errorf("Files: got %v, want user and project config", cws.Files)
	}
}

func TestFlagsLeaveRemainingArgs(t *testing.T) {
	isolate(t)

	fs := newFlagSet()
	cfg, err := Load(fs, []string{"-backend", "memory", "-quota", "0", "add", "Buy", "milk"})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Backend != "memory" || cfg.QuotaBytes != 0 {
		t.Errorf("got backend %q quota %d", cfg.Backend, cfg.QuotaBytes)
	}
	if got := strings.Join(fs.Args(), " "); got != "add Buy milk" {
		t.Errorf("remaining args: got %q", got)
	}
}

func TestDotConfigFile(t *testing.T) {
	isolate(t)
	writeFile(t, ".bloom.toml", `store_dir = "state"`)

	cfg, err := Load(newFlagSet(), nil)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if filepath.Base(cfg.StoreDir) != "state" || !filepath.IsAbs(cfg.StoreDir) {
		t.Errorf("StoreDir: got %q", cfg.StoreDir)
	}
}

func TestInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		file string
		args []string
	}{
		{name: "unknown backend flag", args: []string{"-backend", "redis"}},
		{name: "negative delay", args: []string{"-delete-delay", "-5"}},
		{name: "negative quota", env: map[string]string{"BLOOM_QUOTA": "-1"}},
		{name: "non-numeric quota", env: map[string]string{"BLOOM_QUOTA": "lots"}},
		{name: "blank key", env: map[string]string{"BLOOM_KEY": "   "}},
		{name: "unknown file key", file: `colour = "green"`},
		{name: "malformed file", file: `backend = `},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if tt.file != "" {
				writeFile(t, "bloom.toml", tt.file)
			}
			if _, err := Load(newFlagSet(), tt.args); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestBackendIsNormalized(t *testing.T) {
	isolate(t)
	t.Setenv("BLOOM_BACKEND", " SQLite ")

	cfg, err := Load(newFlagSet(), nil)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Backend != "sqlite" {
		t.Errorf("Backend: got %q", cfg.Backend)
	}
}

func TestExampleConfigMatchesDefaults(t *testing.T) {
	var cfg Config
	md, err := toml.Decode(ExampleConfig(), &cfg)
	if err != nil {
		t.Fatalf("example config does not parse: %v", err)
	}
	if len(md.Undecoded()) > 0 {
		t.Errorf("example config has unknown keys: %v", md.Undecoded())
	}

	var want Config
	setDefaults(&want)
	if cfg != want {
		t.Errorf("example config drifted from defaults:\n got %+v\nwant %+v", cfg, want)
	}
}

func TestExpandPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("BLOOM_TEST_ROOT", "/srv")

	tests := map[string]string{
		"":                   "",
		"~":                  home,
		"~/logs":             filepath.Join(home, "logs"),
		"$BLOOM_TEST_ROOT/x": "/srv/x",
		"relative/dir":       "relative/dir",
	}
	for in, want := range tests {
		if got := expandPath(in); got != want {
			t.Errorf("expandPath(%q): got %q, want %q", in, got, want)
		}
	}
}

func TestBoolFromString(t *testing.T) {
	for _, s := range []string{"1", "true", "TRUE", "yes", "on"} {
		if !boolFromString(s) {
			t.Errorf("boolFromString(%q) should be true", s)
		}
	}
	for _, s := range []string{"0", "false", "no", "off", "maybe"} {
		if boolFromString(s) {
			t.Errorf("boolFromString(%q) should be false", s)
		}
	}
}

func TestValueCoversEveryField(t *testing.T) {
	var cfg Config
	setDefaults(&cfg)
	for _, name := range configFields() {
		if _, ok := cfg.Value(name); !ok {
			t.Errorf("Value(%q) not found", name)
		}
	}
	if v, _ := cfg.Value("delete_delay_ms"); v != DefaultDeleteDelayMS {
		t.Errorf("delete_delay_ms: got %v", v)
	}
	if _, ok := cfg.Value("nope"); ok {
		t.Error("unknown field should not be found")
	}
}

func TestEmptyStoreDirFallsBackToProject(t *testing.T) {
	isolate(t)
	writeFile(t, "bloom.toml", `store_dir = ""`)

	cfg, err := Load(newFlagSet(), nil)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.StoreDir != filepath.Join(cfg.ProjectRoot, ".bloom") {
		t.Errorf("StoreDir: got %q", cfg.StoreDir)
	}
}
