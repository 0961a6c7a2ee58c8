package app

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/qhuy/iot-console/internal/api"
	"github.com/qhuy/iot-console/internal/model"
)

// loginResultMsg carries the outcome of a sign-in attempt.
type loginResultMsg struct {
	resp *api.LoginResponse
	err  error
}

// registerResultMsg carries the outcome of account registration.
type registerResultMsg struct {
	message string
	err     error
}

// forgotResultMsg carries the outcome of the reset-email request.
type forgotResultMsg struct {
	message string
	err     error
}

// resetResultMsg carries the outcome of redeeming a reset token.
type resetResultMsg struct {
	message string
	err     error
}

// deviceMutatedMsg reports a completed device create, update or delete.
type deviceMutatedMsg struct {
	action string
	err    error
}

// userMutatedMsg reports a completed account create, rename or delete.
type userMutatedMsg struct {
	action string
	err    error
}

// profileLoadedMsg carries the cached profile read at startup.
type profileLoadedMsg struct {
	profile *model.Profile
}

func (m Model) login(username, password string) tea.Cmd {
	c := m.client
	return func() tea.Msg {
		resp, err := c.Login(context.Background(), username, password)
		return loginResultMsg{resp: resp, err: err}
	}
}

func (m Model) register(username, gmail, password string) tea.Cmd {
	c := m.client
	return func() tea.Msg {
		msg, err := c.Register(context.Background(), api.RegisterPayload{
			Username: username,
			Gmail:    gmail,
			Password: password,
		})
		return registerResultMsg{message: msg, err: err}
	}
}

func (m Model) forgotPassword(gmail string) tea.Cmd {
	c := m.client
	return func() tea.Msg {
		msg, err := c.ForgotPassword(context.Background(), gmail)
		return forgotResultMsg{message: msg, err: err}
	}
}

func (m Model) resetPassword(token, newPassword string) tea.Cmd {
	c := m.client
	return func() tea.Msg {
		msg, err := c.ResetPassword(context.Background(), token, newPassword, newPassword)
		return resetResultMsg{message: msg, err: err}
	}
}

func (m Model) createDevice(payload api.DevicePayload) tea.Cmd {
	c := m.client
	return func() tea.Msg {
		_, err := c.CreateDevice(context.Background(), payload)
		return deviceMutatedMsg{action: "created", err: err}
	}
}

func (m Model) updateDevice(id string, payload api.DevicePayload) tea.Cmd {
	c := m.client
	return func() tea.Msg {
		err := c.UpdateDevice(context.Background(), id, payload)
		return deviceMutatedMsg{action: "updated", err: err}
	}
}

func (m Model) deleteDevice(id string) tea.Cmd {
	c := m.client
	return func() tea.Msg {
		err := c.DeleteDevice(context.Background(), id)
		return deviceMutatedMsg{action: "deleted", err: err}
	}
}

func (m Model) createUser(payload api.CreateUserPayload) tea.Cmd {
	c := m.client
	return func() tea.Msg {
		_, err := c.CreateUser(context.Background(), payload)
		return userMutatedMsg{action: "created", err: err}
	}
}

func (m Model) updateUser(id string, payload api.UpdateUserPayload) tea.Cmd {
	c := m.client
	return func() tea.Msg {
		err := c.UpdateUser(context.Background(), id, payload)
		return userMutatedMsg{action: "renamed", err: err}
	}
}

func (m Model) deleteUser(id string) tea.Cmd {
	c := m.client
	return func() tea.Msg {
		err := c.DeleteUser(context.Background(), id)
		return userMutatedMsg{action: "deleted", err: err}
	}
}

// loadProfile reads the cached display profile from local storage.
func (m Model) loadProfile() tea.Cmd {
	s := m.store
	return func() tea.Msg {
		profile, err := s.Profile()
		if err != nil {
			return profileLoadedMsg{profile: nil}
		}
		return profileLoadedMsg{profile: profile}
	}
}
