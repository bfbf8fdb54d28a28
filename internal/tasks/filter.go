package tasks

import (
	"fmt"
	"strings"
)

// Completion narrows the list by completion state.
type Completion string

const (
	CompletionAll       Completion = "all"
	CompletionActive    Completion = "active"
	CompletionCompleted Completion = "completed"
)

// ParseCompletion accepts the filter names case-insensitively. An empty
// string means all.
func ParseCompletion(v string) (Completion, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", string(CompletionAll):
		return CompletionAll, nil
	case string(CompletionActive):
		return CompletionActive, nil
	case string(CompletionCompleted):
		return CompletionCompleted, nil
	default:
		return CompletionAll, fmt.Errorf("unknown filter %q (want all, active or completed)", v)
	}
}

// Next cycles all, active, completed.
func (c Completion) Next() Completion {
	switch c {
	case CompletionAll:
		return CompletionActive
	case CompletionActive:
		return CompletionCompleted
	default:
		return CompletionAll
	}
}

func (c Completion) matches(t Task) bool {
	switch c {
	case CompletionActive:
		return !t.Completed
	case CompletionCompleted:
		return t.Completed
	default:
		return true
	}
}

// Visible narrows by completion, then by assignee unless assignee is
// empty. The input is not modified and order is preserved.
func Visible(all []Task, c Completion, assignee string) []Task {
	out := make([]Task, 0, len(all))
	for _, t := range all {
		if !c.matches(t) {
			continue
		}
		if assignee != "" && t.UserName != assignee {
			continue
		}
		out = append(out, t)
	}
	return out
}

// Assignees lists each user name once, in first-seen order.
func Assignees(all []Task) []string {
	seen := make(map[string]struct{}, len(all))
	var names []string
	for _, t := range all {
		if _, ok := seen[t.UserName]; ok {
			continue
		}
		seen[t.UserName] = struct{}{}
		names = append(names, t.UserName)
	}
	return names
}

// Remaining counts open tasks.
func Remaining(all []Task) int {
	n := 0
	for _, t := range all {
		if !t.Completed {
			n++
		}
	}
	return n
}
