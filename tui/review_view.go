// ABOUTME: Suggestion list rendering and key handling for the review screen
// ABOUTME: Shows current and proposed values side by side with apply checkboxes
package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

func (m Model) renderReviewView() string {
	var s strings.Builder

	title := "Review updates for " + m.contactName()
	s.WriteString(titleStyle.Render(title))
	s.WriteString("\n\n")

	if len(m.suggestions) == 0 {
		s.WriteString(contextStyle.Render("No changes suggested for this contact."))
		s.WriteString("\n")
		s.WriteString(helpStyle.Render("q: Quit"))
		return s.String()
	}

	s.WriteString(headerStyle.Render(fmt.Sprintf("%d suggested changes, %d selected", len(m.suggestions), m.selectedCount())))
	s.WriteString("\n\n")

	for i, sg := range m.suggestions {
		var row strings.Builder

		if i == m.cursor {
			row.WriteString("▶ ")
		} else {
			row.WriteString("  ")
		}

		if sg.Apply {
			row.WriteString("[x] ")
		} else {
			row.WriteString("[ ] ")
		}

		if i == m.cursor {
			row.WriteString(selectedStyle.Render(labelStyle.Render(sg.Label)))
		} else {
			row.WriteString(labelStyle.Render(sg.Label))
		}

		if sg.CurrentValue != nil && *sg.CurrentValue != "" {
			row.WriteString(currentValueStyle.Render(*sg.CurrentValue))
			row.WriteString(" → ")
		}
		row.WriteString(newValueStyle.Render(sg.NewValue))

		s.WriteString(row.String())
		s.WriteString("\n")

		if sg.Context != "" {
			s.WriteString("      ")
			s.WriteString(contextStyle.Render(sg.Context))
			s.WriteString("\n")
		}
	}

	s.WriteString(m.renderReviewHelp())
	return s.String()
}

func (m Model) renderReviewHelp() string {
	help := []string{
		"↑/↓: Move",
		"Space: Toggle",
		"a: Toggle all",
		"e: Edit value",
		"Enter: Apply selected",
		"q: Cancel",
	}
	return helpStyle.Render(strings.Join(help, " • "))
}

func (m Model) handleReviewKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc":
		m.cancelled = true
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.suggestions)-1 {
			m.cursor++
		}
	case " ":
		if len(m.suggestions) > 0 {
			m.suggestions[m.cursor].Apply = !m.suggestions[m.cursor].Apply
		}
	case "a":
		all := m.selectedCount() < len(m.suggestions)
		for i := range m.suggestions {
			m.suggestions[i].Apply = all
		}
	case "e":
		if len(m.suggestions) > 0 {
			m.viewMode = ViewEdit
			m.input.SetValue(m.suggestions[m.cursor].NewValue)
			m.input.CursorEnd()
			cmd := m.input.Focus()
			return m, cmd
		}
	case "enter":
		m.confirmed = true
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) selectedCount() int {
	n := 0
	for _, sg := range m.suggestions {
		if sg.Apply {
			n++
		}
	}
	return n
}

func (m Model) contactName() string {
	if name := m.contact.Value("name"); name != nil && *name != "" {
		return *name
	}
	return m.contact.ID
}
