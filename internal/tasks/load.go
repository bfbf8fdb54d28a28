package tasks

import (
	"context"
	"errors"
	"sync"

	"todomatic/internal/remote"
)

// Source supplies the two remote collections.
type Source interface {
	FetchTasks(ctx context.Context) ([]remote.TaskRecord, error)
	FetchUsers(ctx context.Context) ([]remote.UserRecord, error)
}

// Load fetches tasks and users concurrently and merges them once both
// calls have returned. If either fails the merge is skipped and the
// failures are joined.
func Load(ctx context.Context, src Source) ([]Task, error) {
	var (
		wg       sync.WaitGroup
		records  []remote.TaskRecord
		users    []remote.UserRecord
		tasksErr error
		usersErr error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		records, tasksErr = src.FetchTasks(ctx)
	}()
	go func() {
		defer wg.Done()
		users, usersErr = src.FetchUsers(ctx)
	}()
	wg.Wait()

	if err := errors.Join(tasksErr, usersErr); err != nil {
		return nil, err
	}
	return Merge(records, users), nil
}
