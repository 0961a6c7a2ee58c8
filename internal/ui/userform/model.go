// Package userform renders the account create/rename form.
package userform

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/qhuy/iot-console/internal/api"
	"github.com/qhuy/iot-console/internal/model"
	"github.com/qhuy/iot-console/internal/theme"
)

// UserCreatedMsg is dispatched when a new account is submitted via the form.
type UserCreatedMsg struct {
	Payload api.CreateUserPayload
}

// UserUpdatedMsg is dispatched when an account rename is submitted.
type UserUpdatedMsg struct {
	ID      string
	Payload api.UpdateUserPayload
}

// CancelMsg is dispatched when the user cancels the form.
type CancelMsg struct{}

type formBindings struct {
	username string
	gmail    string
	password string
}

// Model is the Bubble Tea model for the account create/rename form.
type Model struct {
	form     *huh.Form
	fb       *formBindings
	editMode bool
	editID   string
	width    int
	height   int
}

// New creates a new user form model.
func New(width, height int) Model {
	return Model{
		fb:     &formBindings{},
		width:  width,
		height: height,
	}
}

// StartCreate initializes the form for creating a new account.
func (m *Model) StartCreate() tea.Cmd {
	m.editMode = false
	m.editID = ""
	*m.fb = formBindings{}
	m.form = m.buildCreateForm()
	return m.form.Init()
}

// StartEdit initializes the form for renaming an existing account.
// Only the username is editable; credentials change through the
// password-recovery flow.
func (m *Model) StartEdit(u model.User) tea.Cmd {
	m.editMode = true
	m.editID = u.ID
	m.fb.username = u.Username
	m.fb.gmail = u.Gmail
	m.fb.password = ""
	m.form = m.buildEditForm()
	return m.form.Init()
}

// Update handles messages for the user form.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil {
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		return m, m.handleSubmit()
	}
	if m.form.State == huh.StateAborted {
		return m, func() tea.Msg { return CancelMsg{} }
	}

	return m, cmd
}

// View renders the user form.
func (m Model) View() string {
	if m.form == nil {
		return ""
	}

	titleText := "New User"
	if m.editMode {
		titleText = "Rename User"
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	content := titleStyle.Render(titleText) + "\n" + m.form.View()

	return lipgloss.NewStyle().
		Padding(1, 2).
		Render(content)
}

// SetSize updates the form dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m *Model) buildCreateForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Username").
				Value(&m.fb.username).
				Validate(validateRequired("Username")),
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
		),
	).WithWidth(m.formWidth())
}

func (m *Model) buildEditForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Username").
				Value(&m.fb.username).
				Validate(validateRequired("Username")),
		),
	).WithWidth(m.formWidth())
}

func (m Model) handleSubmit() tea.Cmd {
	if m.editMode {
		id := m.editID
		payload := api.UpdateUserPayload{Username: m.fb.username}
		return func() tea.Msg { return UserUpdatedMsg{ID: id, Payload: payload} }
	}
	payload := api.CreateUserPayload{
		Username: m.fb.username,
		Gmail:    m.fb.gmail,
		Password: m.fb.password,
	}
	return func() tea.Msg { return UserCreatedMsg{Payload: payload} }
}

func (m Model) formWidth() int {
	w := m.width - 4
	if w < 40 {
		w = 40
	}
	if w > 100 {
		w = 100
	}
	return w
}

func validateRequired(fieldName string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", fieldName)
		}
		return nil
	}
}
