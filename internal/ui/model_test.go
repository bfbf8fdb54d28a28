package ui

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todomatic/internal/config"
	"todomatic/internal/remote"
	"todomatic/internal/tasks"
)

type stubSource struct {
	tasks    []remote.TaskRecord
	users    []remote.UserRecord
	tasksErr error
	usersErr error
}

func (s stubSource) FetchTasks(context.Context) ([]remote.TaskRecord, error) {
	return s.tasks, s.tasksErr
}

func (s stubSource) FetchUsers(context.Context) ([]remote.UserRecord, error) {
	return s.users, s.usersErr
}

func scenarioSource() stubSource {
	return stubSource{
		tasks: []remote.TaskRecord{
			{ID: 1, Title: "A", Completed: false, UserID: 1},
			{ID: 2, Title: "B", Completed: true, UserID: 2},
		},
		users: []remote.UserRecord{{ID: 1, Name: "Bob"}, {ID: 2, Name: "Ann"}},
	}
}

func testConfig() config.Config {
	return config.Config{
		OwnerName:     "Me",
		DefaultFilter: "all",
		Keys: config.Keymap{
			Quit: "q", Add: "a", Up: "k", Down: "j", Toggle: " ", Delete: "d",
			Detail: "i", Confirm: "enter", Cancel: "esc", Edit: "e",
			FilterAll: "1", FilterActive: "2", FilterCompleted: "3", FilterCycle: "f",
			NextUser: "u", PrevUser: "U",
		},
	}
}

// recordingHandler keeps every record it sees.
type recordingHandler struct {
	records *[]slog.Record
}

func (h recordingHandler) Enabled(context.Context, slog.Level) bool { return true }
func (h recordingHandler) Handle(_ context.Context, r slog.Record) error {
	*h.records = append(*h.records, r)
	return nil
}
func (h recordingHandler) WithAttrs([]slog.Attr) slog.Handler { return h }
func (h recordingHandler) WithGroup(string) slog.Handler      { return h }

func newModel(t *testing.T, src tasks.Source) Model {
	t.Helper()
	m, err := New(testConfig(), src, nil)
	require.NoError(t, err)
	return m
}

func loaded(t *testing.T, src tasks.Source) Model {
	t.Helper()
	m := newModel(t, src)
	msg := m.Init()()
	return send(m, msg)
}

func send(m Model, msg tea.Msg) Model {
	next, _ := m.Update(msg)
	return next.(Model)
}

func press(m Model, keys ...string) Model {
	for _, k := range keys {
		switch k {
		case "enter":
			m = send(m, tea.KeyMsg{Type: tea.KeyEnter})
		case "esc":
			m = send(m, tea.KeyMsg{Type: tea.KeyEsc})
		case " ":
			m = send(m, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune(" ")})
		default:
			m = send(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)})
		}
	}
	return m
}

func texts(ts []tasks.Task) []string {
	out := make([]string, 0, len(ts))
	for _, t := range ts {
		out = append(out, t.Text)
	}
	return out
}

func TestLoadSeedsStore(t *testing.T) {
	m := loaded(t, scenarioSource())
	assert.False(t, m.loading)
	assert.Equal(t, []tasks.Task{
		{ID: 1, Text: "A", UserName: "Bob"},
		{ID: 2, Text: "B", Completed: true, UserName: "Ann"},
	}, m.store.Tasks())
	assert.Contains(t, m.View(), "Tasks remaining: 1")
}

func TestLoadFailureLeavesStoreEmptyAndLogs(t *testing.T) {
	var records []slog.Record
	src := scenarioSource()
	src.usersErr = &remote.FetchError{Resource: "users", URL: "http://x/users", StatusCode: 500, Err: errors.New("boom")}

	m, err := New(testConfig(), src, slog.New(recordingHandler{records: &records}))
	require.NoError(t, err)
	m = send(m, m.Init()())

	assert.Zero(t, m.store.Len())
	assert.False(t, m.loading)
	assert.Contains(t, m.View(), "No tasks.")
	require.Len(t, records, 1)
	assert.Equal(t, slog.LevelError, records[0].Level)
	attrs := map[string]string{}
	records[0].Attrs(func(a slog.Attr) bool {
		attrs[a.Key] = a.Value.String()
		return true
	})
	assert.Equal(t, "fetch", attrs["kind"])
	assert.Equal(t, "users", attrs["resource"])
}

func TestMutationsBeforeLoadAreOverwritten(t *testing.T) {
	m := newModel(t, scenarioSource())
	cmd := m.Init()

	m = press(m, "a", "e", "a", "r", "l", "y", "enter")
	require.Equal(t, []string{"early"}, texts(m.store.Tasks()))

	m = send(m, cmd())
	assert.Equal(t, []string{"A", "B"}, texts(m.store.Tasks()))
}

func TestLateLoadAfterTeardownIsIgnored(t *testing.T) {
	m := newModel(t, scenarioSource())
	cmd := m.Init()
	m.Teardown()

	assert.Nil(t, cmd())

	m = send(m, loadedMsg{tasks: []tasks.Task{{ID: 9, Text: "late"}}})
	assert.Zero(t, m.store.Len())
}

func TestQuitTearsDown(t *testing.T) {
	m := loaded(t, scenarioSource())
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd)
	assert.False(t, next.(Model).alive.Load())
}

func TestAddTask(t *testing.T) {
	m := loaded(t, scenarioSource())

	m = press(m, "a", "b", "u", "y", " ", "m", "i", "l", "k", "enter")
	require.Equal(t, 3, m.store.Len())
	added := m.store.Tasks()[2]
	assert.Equal(t, "buy milk", added.Text)
	assert.False(t, added.Completed)
	assert.Equal(t, "Me", added.UserName)
	assert.Equal(t, 3, added.ID)
	assert.Equal(t, modeList, m.mode)
}

func TestAddBlankIsSilentlyRejected(t *testing.T) {
	m := loaded(t, scenarioSource())

	m = press(m, "a", " ", " ", "enter")
	assert.Equal(t, 2, m.store.Len())
	assert.Equal(t, modeList, m.mode)
	assert.NotEqual(t, "Added task", m.status)
}

func TestToggleAndDelete(t *testing.T) {
	m := loaded(t, scenarioSource())

	m = press(m, " ")
	first, _ := m.store.Get(1)
	assert.True(t, first.Completed)

	m = press(m, "d", "n")
	assert.Equal(t, 2, m.store.Len())

	m = press(m, "d", "y")
	assert.Equal(t, []string{"B"}, texts(m.store.Tasks()))
}

func TestEditCancelThenSave(t *testing.T) {
	m := loaded(t, scenarioSource())

	m = press(m, "e")
	id, ok := m.edit.Editing()
	require.True(t, ok)
	assert.Equal(t, 1, id)
	assert.Equal(t, "A", m.edit.Draft())

	m = press(m, "2")
	assert.Equal(t, "A2", m.edit.Draft())
	m = press(m, "esc")
	first, _ := m.store.Get(1)
	assert.Equal(t, "A", first.Text)
	_, ok = m.edit.Editing()
	assert.False(t, ok)

	m = press(m, "e", "2", "enter")
	first, _ = m.store.Get(1)
	assert.Equal(t, "A2", first.Text)
	_, ok = m.edit.Editing()
	assert.False(t, ok)
	assert.Equal(t, modeList, m.mode)
}

func TestEditKeysGoToInput(t *testing.T) {
	m := loaded(t, scenarioSource())
	m = press(m, "e", "q", "d")
	assert.Equal(t, "Aqd", m.edit.Draft())
	assert.True(t, m.alive.Load())
	assert.Equal(t, 2, m.store.Len())
}

func TestEditRejectsEmptyDraftOnSave(t *testing.T) {
	m := loaded(t, scenarioSource())
	m = press(m, "e")
	m = send(m, tea.KeyMsg{Type: tea.KeyBackspace})
	m = press(m, "enter")

	assert.Equal(t, modeEdit, m.mode)
	first, _ := m.store.Get(1)
	assert.Equal(t, "A", first.Text)
}

func TestCompletionAndAssigneeFilters(t *testing.T) {
	m := loaded(t, scenarioSource())
	assert.Equal(t, []string{"A", "B"}, texts(m.visible()))

	m = press(m, "3")
	assert.Equal(t, []string{"B"}, texts(m.visible()))

	m = press(m, "2", "u")
	assert.Equal(t, "Bob", m.assignee)
	assert.Equal(t, []string{"A"}, texts(m.visible()))

	m = press(m, "u")
	assert.Equal(t, "Ann", m.assignee)
	assert.Empty(t, m.visible())
	assert.Contains(t, m.View(), "No tasks.")

	m = press(m, "u")
	assert.Equal(t, "", m.assignee)
	m = press(m, "U")
	assert.Equal(t, "Ann", m.assignee)

	m = press(m, "f")
	assert.Equal(t, tasks.CompletionCompleted, m.completion)
	assert.Equal(t, []string{"B"}, texts(m.visible()))
}

func TestActionsApplyToVisibleSelection(t *testing.T) {
	m := loaded(t, scenarioSource())
	m = press(m, "3", " ")

	second, _ := m.store.Get(2)
	assert.False(t, second.Completed)
	first, _ := m.store.Get(1)
	assert.False(t, first.Completed)
	assert.Empty(t, m.visible())
}

func TestDefaultFilterFromConfig(t *testing.T) {
	cfg := testConfig()
	cfg.DefaultFilter = "active"
	m, err := New(cfg, scenarioSource(), nil)
	require.NoError(t, err)
	m = send(m, m.Init()())
	assert.Equal(t, []string{"A"}, texts(m.visible()))

	cfg.DefaultFilter = "nope"
	_, err = New(cfg, scenarioSource(), nil)
	assert.Error(t, err)
}

func TestViewShowsAssigneesAndEditField(t *testing.T) {
	m := loaded(t, scenarioSource())
	view := m.View()
	assert.Contains(t, view, "Assigned to: Bob")
	assert.Contains(t, view, "User: All Users")
	assert.True(t, strings.Contains(view, "space toggle"))

	m = press(m, "e")
	assert.Contains(t, m.View(), "esc cancel")
}

func TestEditOpenWhenLoadLandsIsDropped(t *testing.T) {
	m := newModel(t, scenarioSource())
	cmd := m.Init()

	m = press(m, "a", "m", "i", "n", "e", "enter", "e", "X")
	require.Equal(t, "mineX", m.edit.Draft())

	m = send(m, cmd())
	_, editing := m.edit.Editing()
	assert.False(t, editing)
	assert.Equal(t, modeList, m.mode)
	assert.Equal(t, "", m.input.Value())

	m = press(m, "enter")
	first, _ := m.store.Get(1)
	assert.Equal(t, tasks.Task{ID: 1, Text: "A", UserName: "Bob"}, first)
	assert.Equal(t, []string{"A", "B"}, texts(m.store.Tasks()))
}

func TestDeleteConfirmPendingWhenLoadLandsIsDropped(t *testing.T) {
	m := newModel(t, scenarioSource())
	cmd := m.Init()

	m = press(m, "a", "m", "i", "n", "e", "enter", "d")
	require.True(t, m.confirmDel)

	m = send(m, cmd())
	assert.False(t, m.confirmDel)
	assert.Nil(t, m.pendingDel)

	m = press(m, "y")
	assert.Equal(t, []string{"A", "B"}, texts(m.store.Tasks()))
}

func TestEditKeepsLongText(t *testing.T) {
	long := strings.Repeat("x", 300)
	src := stubSource{tasks: []remote.TaskRecord{{ID: 1, Title: long, UserID: 1}}}
	m := loaded(t, src)

	m = press(m, "e", "y", "enter")
	first, _ := m.store.Get(1)
	assert.Len(t, first.Text, 301)
	assert.Equal(t, long+"y", first.Text)
}

func TestAddKeepsLongText(t *testing.T) {
	m := loaded(t, scenarioSource())
	m = press(m, "a")
	m = send(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(strings.Repeat("z", 300))})
	m = press(m, "enter")

	added := m.store.Tasks()[m.store.Len()-1]
	assert.Len(t, added.Text, 300)
}
