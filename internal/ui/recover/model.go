// Package recover renders the two-step password recovery flow: request a
// reset email, then redeem the emailed token for a new password.
package recover

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/qhuy/iot-console/internal/theme"
)

// RequestMsg asks for a reset email to be sent to the given address.
type RequestMsg struct {
	Gmail string
}

// ResetMsg redeems a reset token for a new password.
type ResetMsg struct {
	Token       string
	NewPassword string
}

// CancelMsg asks the router to return to the login view.
type CancelMsg struct{}

type step int

const (
	stepRequest step = iota
	stepReset
)

type formBindings struct {
	gmail    string
	token    string
	password string
	confirm  string
}

// Model is the Bubble Tea model for the recovery flow.
type Model struct {
	form  *huh.Form
	fb    *formBindings
	step  step
	busy  bool
	width int
}

// New creates a new recovery model, starting at the email-request step.
func New(width int) Model {
	return Model{fb: &formBindings{}, width: width}
}

// Init resets the flow to the request step.
func (m *Model) Init() tea.Cmd {
	m.busy = false
	m.step = stepRequest
	*m.fb = formBindings{}
	m.form = m.buildRequestForm()
	return m.form.Init()
}

// SetBusy toggles the in-flight indicator.
func (m *Model) SetBusy(busy bool) {
	m.busy = busy
}

// AdvanceToReset moves the flow to the token-entry step. The router calls
// this after the reset email has been accepted by the server.
func (m *Model) AdvanceToReset() tea.Cmd {
	m.busy = false
	m.step = stepReset
	m.form = m.buildResetForm()
	return m.form.Init()
}

// Update handles messages for the recovery flow.
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
		if m.step == stepRequest {
			return m, func() tea.Msg { return RequestMsg{Gmail: fb.gmail} }
		}
		return m, func() tea.Msg {
			return ResetMsg{Token: fb.token, NewPassword: fb.password}
		}
	}
	if m.form.State == huh.StateAborted {
		return m, func() tea.Msg { return CancelMsg{} }
	}

	return m, cmd
}

// View renders the current recovery step.
func (m Model) View() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	title := "Forgot password"
	if m.step == stepReset {
		title = "Reset password"
	}

	body := ""
	switch {
	case m.busy && m.step == stepRequest:
		body = theme.DimmedStyle.Render("Sending reset email...")
	case m.busy:
		body = theme.DimmedStyle.Render("Resetting password...")
	case m.form != nil:
		body = m.form.View()
	}

	content := fmt.Sprintf(
		"%s\n%s\n\n%s",
		titleStyle.Render(title),
		body,
		theme.HelpStyle.Render("esc back to sign in"),
	)

	return lipgloss.NewStyle().
		Padding(1, 2).
		Render(content)
}

// SetSize updates the form dimensions.
func (m *Model) SetSize(width int) {
	m.width = width
}

func (m *Model) buildRequestForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Gmail").
				Description("We will email you a reset token.").
				Value(&m.fb.gmail).
				Validate(func(s string) error {
					if !strings.Contains(s, "@") {
						return fmt.Errorf("enter a valid email address")
					}
					return nil
				}),
		),
	).WithWidth(formWidth(m.width))
}

func (m *Model) buildResetForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Reset token").
				Description("Paste the token from the reset email.").
				Value(&m.fb.token).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("token is required")
					}
					return nil
				}),
			huh.NewInput().
				Title("New password").
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
