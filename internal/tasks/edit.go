package tasks

// EditSession tracks the one task whose text is being edited. The zero
// value is idle.
//
// Beginning an edit while another is open replaces it; the earlier
// draft is dropped without being saved.
type EditSession struct {
	active bool
	taskID int
	draft  string
}

// Begin opens an edit on id seeded with its current text.
func (e EditSession) Begin(id int, seed string) EditSession {
	return EditSession{active: true, taskID: id, draft: seed}
}

// SetDraft replaces the pending text. It does nothing when idle.
func (e EditSession) SetDraft(text string) EditSession {
	if !e.active {
		return e
	}
	e.draft = text
	return e
}

// Save commits the draft to store and returns to idle. When idle, both
// arguments come back unchanged.
func (e EditSession) Save(store Store) (Store, EditSession) {
	if !e.active {
		return store, e
	}
	return store.EditText(e.taskID, e.draft), EditSession{}
}

// Cancel drops the draft.
func (e EditSession) Cancel() EditSession {
	return EditSession{}
}

// Editing reports the task under edit, if any.
func (e EditSession) Editing() (int, bool) {
	return e.taskID, e.active
}

func (e EditSession) IsEditing(id int) bool {
	return e.active && e.taskID == id
}

// Draft is only meaningful while editing.
func (e EditSession) Draft() string {
	if !e.active {
		return ""
	}
	return e.draft
}
