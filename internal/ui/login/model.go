// Package login renders the sign-in form shown on the public route.
package login

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/qhuy/iot-console/internal/theme"
)

// SubmitMsg is dispatched when the user submits their credentials.
type SubmitMsg struct {
	Username string
	Password string
}

// GotoSignupMsg asks the router to show the registration view.
type GotoSignupMsg struct{}

// GotoRecoverMsg asks the router to show the password-recovery view.
type GotoRecoverMsg struct{}

// formBindings holds form field values on the heap so that huh's Value()
// pointers remain valid across Bubble Tea model copies.
type formBindings struct {
	username string
	password string
}

// Model is the Bubble Tea model for the login form.
type Model struct {
	form    *huh.Form
	fb      *formBindings
	busy    bool
	width   int
	height  int
}

// New creates a new login form model.
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
	m.fb.username = ""
	m.fb.password = ""
	m.form = m.buildForm()
	return m.form.Init()
}

// SetBusy toggles the in-flight indicator while the login request runs.
func (m *Model) SetBusy(busy bool) {
	m.busy = busy
}

// Update handles messages for the login form.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "ctrl+n":
			return m, func() tea.Msg { return GotoSignupMsg{} }
		case "ctrl+f":
			return m, func() tea.Msg { return GotoRecoverMsg{} }
		}
	}

	if m.form == nil || m.busy {
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		m.busy = true
		username := m.fb.username
		password := m.fb.password
		return m, func() tea.Msg {
			return SubmitMsg{Username: username, Password: password}
		}
	}
	if m.form.State == huh.StateAborted {
		// There is nowhere further back to go from login; restart the form.
		cmd := m.Init()
		return m, cmd
	}

	return m, cmd
}

// View renders the login form.
func (m Model) View() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	body := ""
	if m.busy {
		body = theme.DimmedStyle.Render("Signing in...")
	} else if m.form != nil {
		body = m.form.View()
	}

	hint := theme.HelpStyle.Render(
		"ctrl+n create account | ctrl+f forgot password",
	)

	content := fmt.Sprintf(
		"%s\n%s\n\n%s",
		titleStyle.Render("Sign in to IoT Console"),
		body,
		hint,
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
				Validate(validateRequired("Username")),
			huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(&m.fb.password).
				Validate(validateRequired("Password")),
		),
	).WithWidth(formWidth(m.width)).WithHeight(formHeight(m.height))
}

func validateRequired(fieldName string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", fieldName)
		}
		return nil
	}
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

func formHeight(h int) int {
	h -= 6
	if h < 8 {
		h = 8
	}
	return h
}
