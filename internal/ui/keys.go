package ui

import (
	"github.com/charmbracelet/bubbles/key"

	"todomatic/internal/config"
)

// keyMap is the configured Keymap turned into bindings. Arrow keys and
// ctrl+c always work alongside the configured keys.
type keyMap struct {
	Quit            key.Binding
	Add             key.Binding
	Up              key.Binding
	Down            key.Binding
	Toggle          key.Binding
	Delete          key.Binding
	Detail          key.Binding
	Confirm         key.Binding
	Cancel          key.Binding
	Edit            key.Binding
	FilterAll       key.Binding
	FilterActive    key.Binding
	FilterCompleted key.Binding
	FilterCycle     key.Binding
	NextUser        key.Binding
	PrevUser        key.Binding
}

func newKeyMap(k config.Keymap) keyMap {
	bind := func(desc string, keys ...string) key.Binding {
		return key.NewBinding(key.WithKeys(keys...), key.WithHelp(keyLabel(keys[0]), desc))
	}
	return keyMap{
		Quit:            bind("quit", k.Quit, "ctrl+c"),
		Add:             bind("add", k.Add),
		Up:              bind("up", k.Up, "up"),
		Down:            bind("down", k.Down, "down"),
		Toggle:          bind("toggle", k.Toggle),
		Delete:          bind("delete", k.Delete),
		Detail:          bind("detail", k.Detail),
		Confirm:         bind("save", k.Confirm),
		Cancel:          bind("cancel", k.Cancel),
		Edit:            bind("edit", k.Edit),
		FilterAll:       bind("all", k.FilterAll),
		FilterActive:    bind("active", k.FilterActive),
		FilterCompleted: bind("completed", k.FilterCompleted),
		FilterCycle:     bind("cycle filter", k.FilterCycle),
		NextUser:        bind("next user", k.NextUser),
		PrevUser:        bind("prev user", k.PrevUser),
	}
}

func (k keyMap) listHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Add, k.Toggle, k.Edit, k.Delete, k.Detail,
		k.FilterAll, k.FilterActive, k.FilterCompleted, k.NextUser, k.Quit}
}

func (k keyMap) inputHelp() []key.Binding {
	return []key.Binding{k.Confirm, k.Cancel}
}

func keyLabel(k string) string {
	if k == " " {
		return "space"
	}
	return k
}
