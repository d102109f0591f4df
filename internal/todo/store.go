package todo

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/nibzard/bloom-go/internal/kv"
)

// DefaultKey is the store slot holding the serialized collection.
const DefaultKey = "bloomGrowTasks"

// ErrSlotMissing reports that nothing has been saved under the slot yet.
var ErrSlotMissing = errors.New("no saved tasks")

// SlotError describes a failed read or write of the store slot.
type SlotError struct {
	Stage string // read, parse, validate, encode or write
	Key   string
	Err   error
}

func (e *SlotError) Error() string {
	return fmt.Sprintf("%s slot %q: %v", e.Stage, e.Key, e.Err)
}

// Unwrap returns the underlying error.
func (e *SlotError) Unwrap() error {
	return e.Err
}

// Store reads and writes the whole collection under one key. Failures are
// logged as warnings and never returned to callers of Load and Save.
type Store struct {
	kv     kv.Store
	key    string
	logger *log.Logger
}

// NewStore returns a Store using key in backend. An empty key selects
// DefaultKey and a nil logger discards warnings.
func NewStore(backend kv.Store, key string, logger *log.Logger) *Store {
	if key == "" {
		key = DefaultKey
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Store{kv: backend, key: key, logger: logger}
}

// Key returns the store slot name.
func (s *Store) Key() string {
	return s.key
}

// Load returns the saved tasks, or an empty slice if the slot is missing,
// unreadable or malformed.
func (s *Store) Load() []Task {
	tasks, err := s.Inspect()
	if err != nil {
		s.logger.Warn("Could not load tasks", "key", s.key, "err", err)
		return []Task{}
	}
	return tasks
}

// Inspect is Load without the fallback: it returns why the slot could not
// be used.
func (s *Store) Inspect() ([]Task, error) {
	raw, ok, err := s.kv.Get(s.key)
	if err != nil {
		return nil, &SlotError{Stage: "read", Key: s.key, Err: err}
	}
	if !ok {
		return nil, &SlotError{Stage: "read", Key: s.key, Err: ErrSlotMissing}
	}
	return decodeTasks(s.key, []byte(raw))
}

// Save overwrites the slot with tasks. On failure the previous slot content
// is left as it was and a warning is logged.
func (s *Store) Save(tasks []Task) {
	if err := s.save(tasks); err != nil {
		s.logger.Warn("Could not save tasks", "key", s.key, "count", len(tasks), "err", err)
		return
	}
	s.logger.Debug("Saved tasks", "key", s.key, "count", len(tasks))
}

func (s *Store) save(tasks []Task) error {
	if tasks == nil {
		tasks = []Task{}
	}
	data, err := json.Marshal(tasks)
	if err != nil {
		return &SlotError{Stage: "encode", Key: s.key, Err: err}
	}
	if err := s.kv.Set(s.key, string(data)); err != nil {
		return &SlotError{Stage: "write", Key: s.key, Err: err}
	}
	return nil
}

func decodeTasks(key string, data []byte) ([]Task, error) {
	if !json.Valid(data) {
		return nil, &SlotError{Stage: "parse", Key: key, Err: errors.New("invalid JSON")}
	}
	if err := validateSlot(data); err != nil {
		return nil, &SlotError{Stage: "validate", Key: key, Err: err}
	}

	var tasks []Task
	if err := json.Unmarshal(data, &tasks); err != nil {
		return nil, &SlotError{Stage: "parse", Key: key, Err: err}
	}

	seen := make(map[int64]bool, len(tasks))
	for i, t := range tasks {
		if seen[t.ID] {
			return nil, &SlotError{
				Stage: "validate",
				Key:   key,
				Err:   fmt.Errorf("[%d].id: duplicate id %d", i, t.ID),
			}
		}
		seen[t.ID] = true
	}
	return tasks, nil
}
