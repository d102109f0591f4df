package todo

// Session is the state of one running list: the tasks loaded at open time
// plus the store they are written back to after every change.
type Session struct {
	list  *List
	store *Store
}

// OpenSession loads the saved tasks from store.
func OpenSession(store *Store, opts ...Option) *Session {
	return &Session{
		list:  NewList(store.Load(), opts...),
		store: store,
	}
}

// Add adds a task and saves. Blank text is ignored and nothing is saved.
func (s *Session) Add(text string) (Task, bool) {
	task, ok := s.list.Add(text)
	if ok {
		s.persist()
	}
	return task, ok
}

// Delete removes the task with id and saves. Unknown ids are ignored.
func (s *Session) Delete(id int64) bool {
	ok := s.list.Delete(id)
	if ok {
		s.persist()
	}
	return ok
}

// Toggle flips the task with id and saves. Unknown ids are ignored.
func (s *Session) Toggle(id int64) bool {
	ok := s.list.Toggle(id)
	if ok {
		s.persist()
	}
	return ok
}

// Get returns the task with id.
func (s *Session) Get(id int64) (Task, bool) {
	return s.list.Get(id)
}

// Tasks returns the tasks in display order.
func (s *Session) Tasks() []Task {
	return s.list.Tasks()
}

// Stats returns the current counts.
func (s *Session) Stats() Stats {
	return s.list.Stats()
}

// Len returns the number of tasks.
func (s *Session) Len() int {
	return s.list.Len()
}

func (s *Session) persist() {
	s.store.Save(s.list.Tasks())
}
