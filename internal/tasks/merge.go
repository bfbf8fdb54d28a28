package tasks

import "todomatic/internal/remote"

// Merge joins each task record to its owner by user id. Output order
// follows records. When user ids repeat, the first occurrence wins.
func Merge(records []remote.TaskRecord, users []remote.UserRecord) []Task {
	names := make(map[int]string, len(users))
	for _, u := range users {
		if _, seen := names[u.ID]; seen {
			continue
		}
		names[u.ID] = u.Name
	}

	merged := make([]Task, 0, len(records))
	for _, r := range records {
		name, ok := names[r.UserID]
		if !ok {
			name = UnknownUser
		}
		merged = append(merged, Task{
			ID:        r.ID,
			Text:      r.Title,
			Completed: r.Completed,
			UserName:  name,
		})
	}
	return merged
}
