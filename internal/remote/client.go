package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	DefaultTasksURL = "https://jsonplaceholder.typicode.com/todos"
	DefaultUsersURL = "https://jsonplaceholder.typicode.com/users"

	defaultTimeout = 10 * time.Second
)

// TaskRecord is a task as served by the remote list. Fields other than
// these four are ignored.
type TaskRecord struct {
	ID        int    `json:"id"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
	UserID    int    `json:"userId"`
}

// UserRecord is an assignee as served by the remote user list.
type UserRecord struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Client reads the task and user collections over HTTP. It never
// retries and sends no credentials.
type Client struct {
	tasksURL string
	usersURL string
	client   *http.Client
}

func NewClient(tasksURL, usersURL string, timeout time.Duration) *Client {
	if tasksURL == "" {
		tasksURL = DefaultTasksURL
	}
	if usersURL == "" {
		usersURL = DefaultUsersURL
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		tasksURL: tasksURL,
		usersURL: usersURL,
		client:   &http.Client{Timeout: timeout},
	}
}

func (c *Client) FetchTasks(ctx context.Context) ([]TaskRecord, error) {
	var tasks []TaskRecord
	if err := c.getJSON(ctx, "tasks", c.tasksURL, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

func (c *Client) FetchUsers(ctx context.Context) ([]UserRecord, error) {
	var users []UserRecord
	if err := c.getJSON(ctx, "users", c.usersURL, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (c *Client) getJSON(ctx context.Context, resource, url string, dst any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return &FetchError{Resource: resource, URL: url, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return &FetchError{Resource: resource, URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain a little of the body so the connection can be reused.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return &FetchError{
			Resource:   resource,
			URL:        url,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("unexpected status %s", resp.Status),
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &FetchError{Resource: resource, URL: url, StatusCode: resp.StatusCode, Err: err}
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return &ParseError{Resource: resource, URL: url, Err: err}
	}
	return nil
}
