package tasks

import (
	"slices"
	"strings"
)

// Store is the ordered collection of tasks for one session. It is a
// value: every operation returns a new Store and leaves the receiver and
// any slice it handed out untouched.
//
// Local ids come from a counter that only moves forward. Replace seeds it
// above the largest loaded id so local and remote ids never collide, even
// after deletions.
type Store struct {
	tasks  []Task
	nextID int
	owner  string
}

// NewStore returns an empty store. owner is the assignee recorded on
// every task added through Add.
func NewStore(owner string) Store {
	return Store{nextID: 1, owner: owner}
}

// Replace swaps the whole collection for loaded. Tasks added before the
// load are dropped.
func (s Store) Replace(loaded []Task) Store {
	next := s.nextID
	for _, t := range loaded {
		if t.ID >= next {
			next = t.ID + 1
		}
	}
	return Store{tasks: slices.Clone(loaded), nextID: next, owner: s.owner}
}

// Add appends a new open task. Blank text is ignored.
func (s Store) Add(text string) Store {
	text = strings.TrimSpace(text)
	if text == "" {
		return s
	}
	out := make([]Task, len(s.tasks), len(s.tasks)+1)
	copy(out, s.tasks)
	out = append(out, Task{
		ID:        s.nextID,
		Text:      text,
		Completed: false,
		UserName:  s.owner,
	})
	return Store{tasks: out, nextID: s.nextID + 1, owner: s.owner}
}

func (s Store) Delete(id int) Store {
	i := s.index(id)
	if i < 0 {
		return s
	}
	out := make([]Task, 0, len(s.tasks)-1)
	out = append(out, s.tasks[:i]...)
	out = append(out, s.tasks[i+1:]...)
	return Store{tasks: out, nextID: s.nextID, owner: s.owner}
}

// EditText replaces the text of one task. Completion and assignee are kept.
func (s Store) EditText(id int, text string) Store {
	return s.update(id, func(t *Task) { t.Text = text })
}

func (s Store) ToggleComplete(id int) Store {
	return s.update(id, func(t *Task) { t.Completed = !t.Completed })
}

// Tasks returns a copy of the collection in store order.
func (s Store) Tasks() []Task {
	return slices.Clone(s.tasks)
}

func (s Store) Len() int {
	return len(s.tasks)
}

func (s Store) Get(id int) (Task, bool) {
	i := s.index(id)
	if i < 0 {
		return Task{}, false
	}
	return s.tasks[i], true
}

// NextID is the id the next Add will use.
func (s Store) NextID() int {
	return s.nextID
}

func (s Store) Owner() string {
	return s.owner
}

func (s Store) update(id int, fn func(*Task)) Store {
	i := s.index(id)
	if i < 0 {
		return s
	}
	out := slices.Clone(s.tasks)
	fn(&out[i])
	return Store{tasks: out, nextID: s.nextID, owner: s.owner}
}

func (s Store) index(id int) int {
	return slices.IndexFunc(s.tasks, func(t Task) bool { return t.ID == id })
}
