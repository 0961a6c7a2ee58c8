// Package confirm renders a yes/no prompt used before destructive actions.
package confirm

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/qhuy/iot-console/internal/theme"
)

// ResultMsg carries the outcome of a confirmation prompt. Tag identifies
// which action was being confirmed.
type ResultMsg struct {
	Tag string
	OK  bool
}

// Model is the confirmation prompt component.
type Model struct {
	form   *huh.Form
	tag    string
	value  *bool
	width  int
	height int
}

// New creates a new confirmation model.
func New(width, height int) Model {
	return Model{
		value:  new(bool),
		width:  width,
		height: height,
	}
}

// Start shows a prompt with the given question. Tag is echoed back in
// the ResultMsg so the router knows which action was confirmed.
func (m *Model) Start(tag, question string) tea.Cmd {
	m.tag = tag
	*m.value = false
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(question).
				Affirmative("Yes").
				Negative("No").
				Value(m.value),
		),
	).WithWidth(formWidth(m.width))
	return m.form.Init()
}

// Update handles messages for the prompt.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil {
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		tag := m.tag
		ok := *m.value
		return m, func() tea.Msg { return ResultMsg{Tag: tag, OK: ok} }
	}
	if m.form.State == huh.StateAborted {
		tag := m.tag
		return m, func() tea.Msg { return ResultMsg{Tag: tag, OK: false} }
	}

	return m, cmd
}

// View renders the prompt centered in the available area.
func (m Model) View() string {
	if m.form == nil {
		return ""
	}

	panel := theme.PanelStyle.Render(m.form.View())

	return lipgloss.Place(
		m.width, m.height,
		lipgloss.Center, lipgloss.Center,
		panel,
	)
}

// SetSize updates the prompt dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func formWidth(w int) int {
	w -= 8
	if w < 30 {
		w = 30
	}
	if w > 60 {
		w = 60
	}
	return w
}
