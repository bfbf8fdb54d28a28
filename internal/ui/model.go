package ui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"todomatic/internal/config"
	"todomatic/internal/remote"
	"todomatic/internal/tasks"
)

type mode int

const (
	modeList mode = iota
	modeAdd
	modeEdit
)

// loadedMsg carries the one-time load result back into the event loop.
type loadedMsg struct {
	tasks []tasks.Task
	err   error
}

// Model composes the three state slices (store, edit session, filters)
// and re-derives the visible list from them on every update and render.
type Model struct {
	cfg    config.Config
	keys   keyMap
	source tasks.Source
	logger *slog.Logger

	// alive is shared by every copy of the model; it is cleared on
	// teardown so a late load result is dropped.
	alive   *atomic.Bool
	loading bool

	store      tasks.Store
	edit       tasks.EditSession
	completion tasks.Completion
	assignee   string

	cursor     int
	mode       mode
	input      textinput.Model
	status     string
	confirmDel bool
	pendingDel *tasks.Task
}

func New(cfg config.Config, source tasks.Source, logger *slog.Logger) (Model, error) {
	completion, err := tasks.ParseCompletion(cfg.DefaultFilter)
	if err != nil {
		return Model{}, err
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	ti := textinput.New()
	ti.Placeholder = "What needs to be done?"
	ti.CharLimit = 0
	ti.Width = 40

	alive := &atomic.Bool{}
	alive.Store(true)

	return Model{
		cfg:        cfg,
		keys:       newKeyMap(cfg.Keys),
		source:     source,
		logger:     logger,
		alive:      alive,
		loading:    true,
		store:      tasks.NewStore(cfg.OwnerName),
		completion: completion,
		input:      ti,
		mode:       modeList,
		status:     "Loading tasks...",
	}, nil
}

// Run starts the program and blocks until the user quits.
func Run(cfg config.Config, source tasks.Source, logger *slog.Logger) error {
	m, err := New(cfg, source, logger)
	if err != nil {
		return err
	}
	defer m.Teardown()

	program := tea.NewProgram(m, tea.WithAltScreen())
	_, err = program.Run()
	return err
}

// Teardown marks the model as gone. Safe to call more than once.
func (m Model) Teardown() {
	m.alive.Store(false)
}

func (m Model) Init() tea.Cmd {
	return loadCmd(m.source, m.alive)
}

func loadCmd(source tasks.Source, alive *atomic.Bool) tea.Cmd {
	return func() tea.Msg {
		loaded, err := tasks.Load(context.Background(), source)
		if !alive.Load() {
			return nil
		}
		return loadedMsg{tasks: loaded, err: err}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		return m.handleLoaded(msg)
	case tea.KeyMsg:
		if m.confirmDel {
			return m.updateDeleteConfirm(msg.String())
		}
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.input.Width = msg.Width - 10
	}
	return m, nil
}

func (m Model) handleLoaded(msg loadedMsg) (tea.Model, tea.Cmd) {
	if !m.alive.Load() {
		return m, nil
	}
	m.loading = false
	if msg.err != nil {
		logLoadFailure(m.logger, msg.err)
		m.status = ""
		return m, nil
	}
	// Ids seen before the load may now name remote tasks, so any open
	// edit or pending delete is dropped with the local tasks.
	if m.mode == modeEdit {
		m.edit = m.edit.Cancel()
		m.input.SetValue("")
		m.input.Blur()
		m.mode = modeList
	}
	m.confirmDel = false
	m.pendingDel = nil
	m.store = m.store.Replace(msg.tasks)
	m.cursor = clampCursor(m.cursor, len(m.visible()))
	m.status = fmt.Sprintf("Loaded %d tasks", m.store.Len())
	m.logger.Debug("tasks loaded", "count", m.store.Len())
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.mode {
	case modeAdd:
		return m.updateAddMode(msg)
	case modeEdit:
		return m.updateEditMode(msg)
	}
	return m.updateListMode(msg)
}

func (m Model) updateAddMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.mode = modeList
		m.input.SetValue("")
		m.input.Blur()
		m.status = "Cancelled"
		return m, nil
	case key.Matches(msg, m.keys.Confirm):
		before := m.store.Len()
		m.store = m.store.Add(m.input.Value())
		if m.store.Len() > before {
			m.status = "Added task"
			m.cursor = clampCursor(len(m.visible())-1, len(m.visible()))
		}
		m.input.SetValue("")
		m.input.Blur()
		m.mode = modeList
		return m, nil
	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
}

func (m Model) updateEditMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.edit = m.edit.Cancel()
		m.mode = modeList
		m.input.SetValue("")
		m.input.Blur()
		m.status = "Edit cancelled"
		return m, nil
	case key.Matches(msg, m.keys.Confirm):
		if strings.TrimSpace(m.edit.Draft()) == "" {
			m.status = "Text cannot be empty"
			return m, nil
		}
		m.store, m.edit = m.edit.Save(m.store)
		m.mode = modeList
		m.input.SetValue("")
		m.input.Blur()
		m.cursor = clampCursor(m.cursor, len(m.visible()))
		m.status = "Saved"
		return m, nil
	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		m.edit = m.edit.SetDraft(m.input.Value())
		return m, cmd
	}
}

func (m Model) updateListMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	visible := m.visible()
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.Teardown()
		return m, tea.Quit
	case key.Matches(msg, m.keys.Down):
		m.cursor = clampCursor(m.cursor+1, len(visible))
	case key.Matches(msg, m.keys.Up):
		m.cursor = clampCursor(m.cursor-1, len(visible))
	case key.Matches(msg, m.keys.Add):
		m.mode = modeAdd
		m.input.SetValue("")
		m.input.Placeholder = "What needs to be done?"
		m.input.Focus()
		m.status = "Add mode: type a task and press Enter"
	case key.Matches(msg, m.keys.Toggle):
		t, ok := m.selected()
		if !ok {
			return m, nil
		}
		m.store = m.store.ToggleComplete(t.ID)
		m.cursor = clampCursor(m.cursor, len(m.visible()))
		m.status = "Toggled task"
	case key.Matches(msg, m.keys.Delete):
		t, ok := m.selected()
		if !ok {
			return m, nil
		}
		m.confirmDel = true
		m.pendingDel = &t
		m.status = fmt.Sprintf("Delete \"%s\"? y/n", t.Text)
	case key.Matches(msg, m.keys.Detail):
		t, ok := m.selected()
		if !ok {
			m.status = "No tasks"
			return m, nil
		}
		m.status = fmt.Sprintf("Task #%d • %s • %s • assigned to %s", t.ID, t.Text, humanDone(t.Completed), t.UserName)
	case key.Matches(msg, m.keys.Edit):
		t, ok := m.selected()
		if !ok {
			m.status = "No tasks to edit"
			return m, nil
		}
		return m.startEdit(t)
	case key.Matches(msg, m.keys.FilterAll):
		return m.setCompletion(tasks.CompletionAll), nil
	case key.Matches(msg, m.keys.FilterActive):
		return m.setCompletion(tasks.CompletionActive), nil
	case key.Matches(msg, m.keys.FilterCompleted):
		return m.setCompletion(tasks.CompletionCompleted), nil
	case key.Matches(msg, m.keys.FilterCycle):
		return m.setCompletion(m.completion.Next()), nil
	case key.Matches(msg, m.keys.NextUser):
		return m.stepAssignee(1), nil
	case key.Matches(msg, m.keys.PrevUser):
		return m.stepAssignee(-1), nil
	}
	return m, nil
}

// startEdit opens the edit session on t. An edit already open on another
// task is replaced without saving.
func (m Model) startEdit(t tasks.Task) (tea.Model, tea.Cmd) {
	m.edit = m.edit.Begin(t.ID, t.Text)
	m.mode = modeEdit
	m.input.SetValue(t.Text)
	m.input.CursorEnd()
	m.input.Placeholder = "Task text"
	m.input.Focus()
	m.status = "Editing: Enter to save, Esc to cancel"
	return m, nil
}

func (m Model) updateDeleteConfirm(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "n", "N", "esc":
		m.status = "Delete cancelled"
		m.confirmDel = false
		m.pendingDel = nil
		return m, nil
	case "y", "Y":
		if m.pendingDel == nil {
			m.status = "Nothing to delete"
			m.confirmDel = false
			return m, nil
		}
		m.store = m.store.Delete(m.pendingDel.ID)
		m.cursor = clampCursor(m.cursor, len(m.visible()))
		m.status = "Deleted task"
		m.confirmDel = false
		m.pendingDel = nil
		return m, nil
	default:
		return m, nil
	}
}

func (m Model) setCompletion(c tasks.Completion) Model {
	m.completion = c
	m.cursor = clampCursor(m.cursor, len(m.visible()))
	m.status = "Showing " + string(c) + " tasks"
	return m
}

// stepAssignee moves through "All Users" followed by each distinct
// assignee in the full store.
func (m Model) stepAssignee(delta int) Model {
	options := m.assigneeOptions()
	idx := 0
	for i, name := range options {
		if name == m.assignee {
			idx = i
			break
		}
	}
	m.assignee = options[wrapIndex(idx+delta, len(options))]
	m.cursor = clampCursor(m.cursor, len(m.visible()))
	m.status = "Assignee: " + assigneeLabel(m.assignee)
	return m
}

func (m Model) assigneeOptions() []string {
	return append([]string{""}, tasks.Assignees(m.store.Tasks())...)
}

func (m Model) visible() []tasks.Task {
	return tasks.Visible(m.store.Tasks(), m.completion, m.assignee)
}

func (m Model) selected() (tasks.Task, bool) {
	visible := m.visible()
	if len(visible) == 0 {
		return tasks.Task{}, false
	}
	return visible[clampCursor(m.cursor, len(visible))], true
}

// logLoadFailure reports each joined failure with its kind so the
// journal can tell transport problems from malformed bodies.
func logLoadFailure(logger *slog.Logger, err error) {
	errs := []error{err}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		errs = joined.Unwrap()
	}
	for _, e := range errs {
		var fe *remote.FetchError
		var pe *remote.ParseError
		switch {
		case errors.As(e, &fe):
			logger.Error("load failed", "kind", "fetch", "resource", fe.Resource, "url", fe.URL, "status", fe.StatusCode, "error", fe.Err)
		case errors.As(e, &pe):
			logger.Error("load failed", "kind", "parse", "resource", pe.Resource, "url", pe.URL, "error", pe.Err)
		default:
			logger.Error("load failed", "kind", "unknown", "error", e)
		}
	}
}

func assigneeLabel(name string) string {
	if name == "" {
		return "All Users"
	}
	return name
}

func wrapIndex(idx, n int) int {
	if n <= 0 {
		return 0
	}
	idx %= n
	if idx < 0 {
		idx += n
	}
	return idx
}

func clampCursor(cur, n int) int {
	if n <= 0 {
		return 0
	}
	if cur < 0 {
		return 0
	}
	if cur >= n {
		return n - 1
	}
	return cur
}

func humanDone(done bool) string {
	if done {
		return "done"
	}
	return "pending"
}
