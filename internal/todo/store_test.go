package todo

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/nibzard/bloom-go/internal/kv"
)

// newTestLogger captures warnings as plain text.
func newTestLogger(buf *bytes.Buffer) *log.Logger {
	return log.NewWithOptions(buf, log.Options{Level: log.DebugLevel})
}

func sampleTasks() []Task {
	created := time.Date(2024, 6, 10, 6, 13, 20, 123000000, time.UTC)
	return []Task{
		{ID: 1718000000125, Text: "Water the plants", Completed: false, CreatedAt: created.Add(2 * time.Millisecond)},
		{ID: 1718000000124, Text: "<script>alert(1)</script>", Completed: true, CreatedAt: created.Add(time.Millisecond)},
		{ID: 1718000000123, Text: "Buy milk", Completed: false, CreatedAt: created},
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	backends := map[string]func(t *testing.T) kv.Store{
		"memory": func(t *testing.T) kv.Store { return kv.NewMemoryStore() },
		"file": func(t *testing.T) kv.Store {
			s, err := kv.Open(kv.BackendFile, t.TempDir())
			if err != nil {
				t.Fatal(err)
			}
			return s
		},
		"sqlite": func(t *testing.T) kv.Store {
			s, err := kv.Open(kv.BackendSQLite, t.TempDir())
			if err != nil {
				t.Fatal(err)
			}
			t.Cleanup(func() { s.Close() })
			return s
		},
	}

	for name, open := range backends {
		t.Run(name, func(t *testing.T) {
			store := NewStore(open(t), "", nil)
			want := sampleTasks()
			store.Save(want)

			got := store.Load()
			if len(got) != len(want) {
				t.Fatalf("Load: got %d tasks, want %d", len(got), len(want))
			}
			for i := range want {
				if got[i].ID != want[i].ID || got[i].Text != want[i].Text ||
					got[i].Completed != want[i].Completed || !got[i].CreatedAt.Equal(want[i].CreatedAt) {
					t.Errorf("task %d: got %+v, want %+v", i, got[i], want[i])
				}
			}
		})
	}
}

func TestSaveEmptyCollection(t *testing.T) {
	mem := kv.NewMemoryStore()
	store := NewStore(mem, "", nil)
	store.Save(nil)

	raw, ok, _ := mem.Get(DefaultKey)
	if !ok || raw != "[]" {
		t.Fatalf("slot: got %q (present %v), want []", raw, ok)
	}
	if got := store.Load(); got == nil || len(got) != 0 {
		t.Errorf("Load: got %v, want empty non-nil slice", got)
	}
}

func TestStorageFormat(t *testing.T) {
	mem := kv.NewMemoryStore()
	NewStore(mem, "", nil).Save(sampleTasks()[2:])

	raw, _, _ := mem.Get(DefaultKey)
	want := `[{"id":1718000000123,"text":"Buy milk","completed":false,"createdAt":"2024-06-10T06:13:20.123Z"}]`
	if raw != want {
		t.Errorf("slot:\n got  %s\n want %s", raw, want)
	}
}

func TestLoadAcceptsBrowserTimestamps(t *testing.T) {
	mem := kv.NewMemoryStore()
	mem.Set(DefaultKey, `[{"id":1700000000000,"text":"A","completed":true,"createdAt":"2023-11-14T22:13:20.000Z"}]`)

	got := NewStore(mem, "", nil).Load()
	if len(got) != 1 || !got[0].Completed || got[0].Text != "A" {
		t.Fatalf("Load: got %+v", got)
	}
}

func TestLoadFallsBackToEmpty(t *testing.T) {
	tests := []struct {
		name      string
		slot      *string
		getErr    error
		wantStage string
	}{
		{name: "missing slot", wantStage: "read"},
		{name: "read failure", getErr: errors.New("disk gone"), wantStage: "read"},
		{name: "not json", slot: ptr("{oops"), wantStage: "parse"},
		{name: "null", slot: ptr("null"), wantStage: "validate"},
		{name: "object instead of array", slot: ptr(`{"tasks":[]}`), wantStage: "validate"},
		{name: "missing field", slot: ptr(`[{"id":1,"text":"a","completed":false}]`), wantStage: "validate"},
		{name: "wrong type", slot: ptr(`[{"id":"1","text":"a","completed":false,"createdAt":"2024-01-01T00:00:00Z"}]`), wantStage: "validate"},
		{name: "fractional id", slot: ptr(`[{"id":1.5,"text":"a","completed":false,"createdAt":"2024-01-01T00:00:00Z"}]`), wantStage: "validate"},
		{name: "empty text", slot: ptr(`[{"id":1,"text":"","completed":false,"createdAt":"2024-01-01T00:00:00Z"}]`), wantStage: "validate"},
		{name: "bad timestamp", slot: ptr(`[{"id":1,"text":"a","completed":false,"createdAt":"yesterday"}]`), wantStage: "validate"},
		{name: "extra field", slot: ptr(`[{"id":1,"text":"a","completed":false,"createdAt":"2024-01-01T00:00:00Z","due":"x"}]`), wantStage: "validate"},
		{name: "duplicate ids", slot: ptr(`[{"id":1,"text":"a","completed":false,"createdAt":"2024-01-01T00:00:00Z"},{"id":1,"text":"b","completed":false,"createdAt":"2024-01-01T00:00:00Z"}]`), wantStage: "validate"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mem := kv.NewMemoryStore()
			if tt.slot != nil {
				mem.Set(DefaultKey, *tt.slot)
			}
			mem.GetErr = tt.getErr

			var buf bytes.Buffer
			store := NewStore(mem, "", newTestLogger(&buf))

			got := store.Load()
			if got == nil || len(got) != 0 {
				t.Fatalf("Load: got %v, want empty slice", got)
			}
			if !strings.Contains(buf.String(), "WARN") {
				t.Errorf("expected a warning, got log %q", buf.String())
			}

			_, err := store.Inspect()
			var slotErr *SlotError
			if !errors.As(err, &slotErr) {
				t.Fatalf("Inspect: expected *SlotError, got %v", err)
			}
			if slotErr.Stage != tt.wantStage {
				t.Errorf("Stage: got %q, want %q (%v)", slotErr.Stage, tt.wantStage, err)
			}
		})
	}
}

func TestInspectMissingSlot(t *testing.T) {
	_, err := NewStore(kv.NewMemoryStore(), "", nil).Inspect()
	if !errors.Is(err, ErrSlotMissing) {
		t.Fatalf("expected ErrSlotMissing, got %v", err)
	}
}

func TestSaveFailureKeepsPreviousSlot(t *testing.T) {
	mem := kv.NewMemoryStore()
	var buf bytes.Buffer
	store := NewStore(mem, "", newTestLogger(&buf))
	store.Save(sampleTasks()[:1])

	mem.SetErr = errors.New("disk full")
	store.Save(sampleTasks())

	if !strings.Contains(buf.String(), "Could not save tasks") {
		t.Errorf("expected save warning, got log %q", buf.String())
	}
	mem.SetErr = nil
	if got := store.Load(); len(got) != 1 {
		t.Errorf("slot should keep the earlier snapshot, got %d tasks", len(got))
	}
}

func TestSaveOverQuota(t *testing.T) {
	var buf bytes.Buffer
	store := NewStore(kv.Limit(kv.NewMemoryStore(), 64), "", newTestLogger(&buf))
	store.Save(sampleTasks())

	if !strings.Contains(buf.String(), "quota") {
		t.Errorf("expected quota warning, got log %q", buf.String())
	}
}

func TestCustomKey(t *testing.T) {
	mem := kv.NewMemoryStore()
	store := NewStore(mem, "otherList", nil)
	store.Save(sampleTasks())

	if _, ok, _ := mem.Get(DefaultKey); ok {
		t.Error("default slot should be untouched")
	}
	if store.Key() != "otherList" {
		t.Errorf("Key: got %q", store.Key())
	}
	if len(store.Load()) != 3 {
		t.Error("custom slot should round-trip")
	}
}

func TestJSONPointerToPath(t *testing.T) {
	tests := map[string]string{
		"":              "",
		"#":             "",
		"/0":            "[0]",
		"/0/createdAt":  "[0].createdAt",
		"#/2/text":      "[2].text",
		"/a~1b/c~0d":    "a/b.c~d",
	}
	for in, want := range tests {
		if got := jsonPointerToPath(in); got != want {
			t.Errorf("jsonPointerToPath(%q): got %q, want %q", in, got, want)
		}
	}
}

func ptr(s string) *string {
	return &s
}
