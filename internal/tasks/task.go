// Package tasks holds the session's task model: the merge of remote
// records into enriched tasks, the in-memory store, the view filter and
// the single-task edit session.
package tasks

// UnknownUser is attached to tasks whose userId matches no user record.
const UnknownUser = "Unknown"

// Task is a task enriched with its assignee's display name.
type Task struct {
	ID        int
	Text      string
	Completed bool
	UserName  string
}
