package todo

import (
	"strings"
	"time"
)

// Task represents a single to-do item.
type Task struct {
	ID        int64     `json:"id"`
	Text      string    `json:"text"`
	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"createdAt"`
}

// Stats holds the running counts shown next to the list.
type Stats struct {
	Total     int
	Completed int
	Remaining int
}

// Summarize counts tasks. Completed+Remaining always equals Total.
func Summarize(tasks []Task) Stats {
	s := Stats{Total: len(tasks)}
	for _, t := range tasks {
		if t.Completed {
			s.Completed++
		}
	}
	s.Remaining = s.Total - s.Completed
	return s
}

// Option configures a List.
type Option func(*List)

// WithClock overrides the time source used for ids and creation times.
func WithClock(now func() time.Time) Option {
	return func(l *List) {
		l.now = now
	}
}

// List is the ordered, newest-first task collection. It is not safe for
// concurrent use.
type List struct {
	tasks  []Task
	now    func() time.Time
	lastID int64
}

// NewList returns a List holding a copy of tasks. Later duplicates of an id
// are dropped so ids stay unique.
func NewList(tasks []Task, opts ...Option) *List {
	l := &List{now: time.Now}
	for _, opt := range opts {
		opt(l)
	}

	seen := make(map[int64]bool, len(tasks))
	l.tasks = make([]Task, 0, len(tasks))
	for _, t := range tasks {
		if seen[t.ID] {
			continue
		}
		seen[t.ID] = true
		l.tasks = append(l.tasks, t)
		if t.ID > l.lastID {
			l.lastID = t.ID
		}
	}
	return l
}

// Add trims text and, if anything is left, inserts a new uncompleted task at
// the front. It reports false and changes nothing for blank text.
func (l *List) Add(text string) (Task, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Task{}, false
	}

	now := l.now().UTC().Truncate(time.Millisecond)
	task := Task{
		ID:        l.nextID(now),
		Text:      text,
		Completed: false,
		CreatedAt: now,
	}

	l.tasks = append(l.tasks, Task{})
	copy(l.tasks[1:], l.tasks)
	l.tasks[0] = task
	return task, true
}

// Delete removes the task with id. It reports false if there is none.
func (l *List) Delete(id int64) bool {
	i := l.index(id)
	if i < 0 {
		return false
	}
	l.tasks = append(l.tasks[:i], l.tasks[i+1:]...)
	return true
}

// Toggle flips the completed flag of the task with id. It reports false if
// there is none.
func (l *List) Toggle(id int64) bool {
	i := l.index(id)
	if i < 0 {
		return false
	}
	l.tasks[i].Completed = !l.tasks[i].Completed
	return true
}

// Get returns the task with id.
func (l *List) Get(id int64) (Task, bool) {
	i := l.index(id)
	if i < 0 {
		return Task{}, false
	}
	return l.tasks[i], true
}

// Tasks returns a copy of the tasks in display order.
func (l *List) Tasks() []Task {
	out := make([]Task, len(l.tasks))
	copy(out, l.tasks)
	return out
}

// Len returns the number of tasks.
func (l *List) Len() int {
	return len(l.tasks)
}

// Stats summarizes the current tasks.
func (l *List) Stats() Stats {
	return Summarize(l.tasks)
}

func (l *List) index(id int64) int {
	for i := range l.tasks {
		if l.tasks[i].ID == id {
			return i
		}
	}
	return -1
}

// nextID returns the creation time in milliseconds, or one past the last
// issued id when the clock has not moved forward since.
func (l *List) nextID(now time.Time) int64 {
	id := now.UnixMilli()
	if id <= l.lastID {
		id = l.lastID + 1
	}
	l.lastID = id
	return id
}
