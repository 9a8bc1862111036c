package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

func (m Model) renderEditView() string {
	var s strings.Builder

	sg := m.suggestions[m.cursor]
	s.WriteString(titleStyle.Render("EDIT " + strings.ToUpper(sg.Label)))
	s.WriteString("\n\n")

	if sg.CurrentValue != nil {
		s.WriteString("Current:   ")
		s.WriteString(currentValueStyle.Render(*sg.CurrentValue))
		s.WriteString("\n")
	}
	s.WriteString(m.input.View())
	s.WriteString("\n")

	s.WriteString(m.renderEditHelp())
	return s.String()
}

func (m Model) renderEditHelp() string {
	help := []string{
		"Enter: Save",
		"Esc: Cancel",
	}
	return helpStyle.Render(strings.Join(help, " • "))
}

func (m Model) handleEditKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.input.Blur()
		m.viewMode = ViewReview
		return m, nil
	case "enter":
		m.saveEdit()
		m.input.Blur()
		m.viewMode = ViewReview
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// saveEdit stores the edited value. An edited suggestion is selected for
// applying unless it now matches the CRM value.
func (m *Model) saveEdit() {
	value := strings.TrimSpace(m.input.Value())
	sg := &m.suggestions[m.cursor]
	sg.NewValue = value
	sg.HasChange = sg.CurrentValue == nil || *sg.CurrentValue != value
	sg.Apply = sg.HasChange
}
