// Package signup renders the account registration form.
package signup

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/qhuy/iot-console/internal/theme"
)

// SubmitMsg is dispatched when the registration form is completed.
type SubmitMsg struct {
	Username string
	Gmail    string
	Password string
}

// CancelMsg asks the router to return to the login view.
type CancelMsg struct{}

type formBindings struct {
	username string
	gmail    string
	password string
	confirm  string
}

// Model is the Bubble Tea model for the registration form.
type Model struct {
	form   *huh.Form
	fb     *formBindings
	busy   bool
	width  int
	height int
}

// New creates a new registration form model.
func New(width, height int) Model {
	return Model{
		fb:     &formBindings{},
		width:  width,
		height: height,
	}
}

// Init builds a fresh form and returns its init command.
func (m *Model) Init() tea.Cmd {
	m.busy = false
	*m.fb = formBindings{}
	m.form = m.buildForm()
	return m.form.Init()
}

// SetBusy toggles the in-flight indicator while the register request runs.
func (m *Model) SetBusy(busy bool) {
	m.busy = busy
}

// Update handles messages for the registration form.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil || m.busy {
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		m.busy = true
		fb := *m.fb
		return m, func() tea.Msg {
			return SubmitMsg{
				Username: fb.username,
				Gmail:    fb.gmail,
				Password: fb.password,
			}
		}
	}
	if m.form.State == huh.StateAborted {
		return m, func() tea.Msg { return CancelMsg{} }
	}

	return m, cmd
}

// View renders the registration form.
func (m Model) View() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	body := ""
	if m.busy {
		body = theme.DimmedStyle.Render("Creating account...")
	} else if m.form != nil {
		body = m.form.View()
	}

	content := fmt.Sprintf(
		"%s\n%s\n\n%s",
		titleStyle.Render("Create an account"),
		body,
		theme.HelpStyle.Render("esc back to sign in"),
	)

	return lipgloss.NewStyle().
		Padding(1, 2).
		Render(content)
}

// SetSize updates the form dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m *Model) buildForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Username").
				Value(&m.fb.username).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("username is required")
					}
					return nil
				}),
			huh.NewInput().
				Title("Gmail").
				Value(&m.fb.gmail).
				Validate(func(s string) error {
					if !strings.Contains(s, "@") {
						return fmt.Errorf("enter a valid email address")
					}
					return nil
				}),
			huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(&m.fb.password).
				Validate(func(s string) error {
					if len(s) < 8 {
						return fmt.Errorf("password must be at least 8 characters")
					}
					return nil
				}),
			huh.NewInput().
				Title("Confirm password").
				EchoMode(huh.EchoModePassword).
				Value(&m.fb.confirm).
				Validate(func(s string) error {
					if s != m.fb.password {
						return fmt.Errorf("passwords do not match")
					}
					return nil
				}),
		),
	).WithWidth(formWidth(m.width))
}

func formWidth(w int) int {
	w -= 4
	if w < 40 {
		w = 40
	}
	if w > 80 {
		w = 80
	}
	return w
}
