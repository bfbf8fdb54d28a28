package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"todomatic/internal/tasks"
)

var (
	titleStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	headingStyle  = lipgloss.NewStyle().Bold(true)
	activeTab     = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true).Underline(true)
	inactiveTab   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	doneStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Strikethrough(true)
	assigneeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true)
	statusStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true)
)

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("TodoMatic"))
	b.WriteString("\n\n")
	b.WriteString(m.renderFilters())
	b.WriteString("\n")
	b.WriteString(headingStyle.Render(fmt.Sprintf("Tasks remaining: %d", tasks.Remaining(m.store.Tasks()))))
	b.WriteString("\n\n")

	visible := m.visible()
	switch {
	case len(visible) > 0:
		b.WriteString(m.renderTaskList(visible))
	case m.loading:
		b.WriteString("Loading tasks...\n")
	default:
		b.WriteString("No tasks.\n")
	}

	if m.mode == modeAdd {
		b.WriteString("\nAdd Task: ")
		b.WriteString(m.input.View())
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(statusStyle.Render(m.status))
	b.WriteString("\n")
	b.WriteString(m.renderHelp())

	return b.String()
}

func (m Model) renderFilters() string {
	tabs := make([]string, 0, 3)
	for _, c := range []tasks.Completion{tasks.CompletionAll, tasks.CompletionActive, tasks.CompletionCompleted} {
		label := strings.ToUpper(string(c[:1])) + string(c[1:])
		if c == m.completion {
			tabs = append(tabs, activeTab.Render(label))
		} else {
			tabs = append(tabs, inactiveTab.Render(label))
		}
	}
	return strings.Join(tabs, "  ") + "   User: " + assigneeLabel(m.assignee)
}

func (m Model) renderTaskList(visible []tasks.Task) string {
	var b strings.Builder
	for i, t := range visible {
		cursor := " "
		if m.cursor == i && m.mode == modeList {
			cursor = ">"
		}

		checkbox := "[ ]"
		if t.Completed {
			checkbox = "[x]"
		}

		text := t.Text
		switch {
		case m.edit.IsEditing(t.ID):
			text = m.input.View()
		case t.Completed:
			text = doneStyle.Render(text)
		case m.cursor == i && m.mode == modeList:
			text = selectedStyle.Render(text)
		}

		b.WriteString(fmt.Sprintf("%s %s %s  %s\n", cursor, checkbox, text, assigneeStyle.Render("Assigned to: "+t.UserName)))
	}
	return b.String()
}

func (m Model) renderHelp() string {
	bindings := m.keys.listHelp()
	if m.mode != modeList {
		bindings = m.keys.inputHelp()
	}
	if m.confirmDel {
		return "y confirm • n cancel"
	}
	parts := make([]string, 0, len(bindings))
	for _, binding := range bindings {
		parts = append(parts, helpEntry(binding))
	}
	return strings.Join(parts, " • ")
}

func helpEntry(b key.Binding) string {
	h := b.Help()
	return h.Key + " " + h.Desc
}
