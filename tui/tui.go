// ABOUTME: Terminal review screen for AI-suggested contact updates using bubbletea
// ABOUTME: Lets the user toggle, edit, and confirm suggestions before they are written to the CRM
package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/harperreed/crmbridge/models"
)

// ViewMode represents the current TUI view
type ViewMode int

const (
	ViewReview ViewMode = iota
	ViewEdit
)

// Model is the review screen state.
type Model struct {
	contact     models.ContactRecord
	suggestions []models.Suggestion
	viewMode    ViewMode
	cursor      int
	input       textinput.Model

	confirmed bool
	cancelled bool

	width  int
	height int
}

// NewModel creates a review model. The suggestions are copied.
func NewModel(contact models.ContactRecord, suggestions []models.Suggestion) Model {
	copied := make([]models.Suggestion, len(suggestions))
	copy(copied, suggestions)

	input := textinput.New()
	input.CharLimit = 255
	input.Prompt = "New value: "

	return Model{
		contact:     contact,
		suggestions: copied,
		viewMode:    ViewReview,
		input:       input,
		width:       80,
		height:      24,
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	}
	return m, nil
}

func (m Model) View() string {
	switch m.viewMode {
	case ViewReview:
		return m.renderReviewView()
	case ViewEdit:
		return m.renderEditView()
	}
	return ""
}

func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		m.cancelled = true
		return m, tea.Quit
	}

	switch m.viewMode {
	case ViewReview:
		return m.handleReviewKeys(msg)
	case ViewEdit:
		return m.handleEditKeys(msg)
	}

	return m, nil
}

// Suggestions returns the reviewed suggestions, including the user's toggles
// and edits.
func (m Model) Suggestions() []models.Suggestion {
	out := make([]models.Suggestion, len(m.suggestions))
	copy(out, m.suggestions)
	return out
}

// Confirmed reports whether the user accepted the review with enter.
func (m Model) Confirmed() bool {
	return m.confirmed && !m.cancelled
}

// Run shows the review screen and blocks until the user confirms or cancels.
func Run(contact models.ContactRecord, suggestions []models.Suggestion) ([]models.Suggestion, bool, error) {
	p := tea.NewProgram(NewModel(contact, suggestions), tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return nil, false, fmt.Errorf("review screen failed: %w", err)
	}

	m, ok := final.(Model)
	if !ok {
		return nil, false, fmt.Errorf("unexpected model type %T", final)
	}
	return m.Suggestions(), m.Confirmed(), nil
}

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("170")).
			MarginBottom(1)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")).
			Underline(true)

	selectedStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("235")).
			Foreground(lipgloss.Color("255")).
			Bold(true)

	labelStyle = lipgloss.NewStyle().
			Bold(true).
			Width(20)

	currentValueStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("9")).
				Strikethrough(true)

	newValueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("10"))

	contextStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			MarginTop(1)
)
