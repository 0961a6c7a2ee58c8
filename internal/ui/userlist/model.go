// Package userlist renders the paginated account list for administrators.
package userlist

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/qhuy/iot-console/internal/api"
	"github.com/qhuy/iot-console/internal/keys"
	"github.com/qhuy/iot-console/internal/model"
	"github.com/qhuy/iot-console/internal/theme"
)

const pageSize = 20

// UsersLoadedMsg is sent when a page of users has been fetched.
type UsersLoadedMsg struct {
	Users      []model.User
	Pagination model.Pagination
	Err        error
}

// NewUserMsg asks the router to open the user form for creation.
type NewUserMsg struct{}

// EditUserMsg asks the router to open the user form pre-filled with the
// selected account.
type EditUserMsg struct {
	User model.User
}

// DeleteUserMsg asks the router to confirm deletion of the selected account.
type DeleteUserMsg struct {
	User model.User
}

// Model is the user list view component.
type Model struct {
	list        list.Model
	client      *api.Client
	keys        *keys.KeyMap
	page        model.Pagination
	offset      int
	query       string
	searchMode  bool
	searchInput textinput.Model
	width       int
	height      int
}

// New creates a new user list model.
func New(c *api.Client, k *keys.KeyMap, width, height int) Model {
	l := list.New([]list.Item{}, ItemDelegate{}, width, height-3)
	l.Title = "Users"
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.Styles.Title = theme.HeaderStyle

	si := textinput.New()
	si.Placeholder = "search users..."
	si.Prompt = "/ "
	si.Width = width - 4

	return Model{
		list:        l,
		client:      c,
		keys:        k,
		searchInput: si,
		width:       width,
		height:      height,
	}
}

// Init returns a command that loads the first page.
func (m Model) Init() tea.Cmd {
	return m.LoadUsers()
}

// Update handles messages for the user list view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case UsersLoadedMsg:
		if msg.Err != nil {
			return m, nil
		}
		m.page = msg.Pagination
		items := make([]list.Item, len(msg.Users))
		for i, u := range msg.Users {
			items[i] = UserItem{User: u}
		}
		cmd := m.list.SetItems(items)
		return m, cmd

	case tea.KeyMsg:
		if m.searchMode {
			return m.handleSearchKeys(msg)
		}
		return m.handleNormalKeys(msg)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// handleSearchKeys processes key input while in search mode.
func (m Model) handleSearchKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.searchMode = false
		m.query = m.searchInput.Value()
		m.offset = 0
		return m, m.LoadUsers()

	case "esc":
		m.searchMode = false
		m.searchInput.Reset()
		m.query = ""
		m.offset = 0
		return m, m.LoadUsers()
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	return m, cmd
}

// handleNormalKeys processes key input in normal (non-search) mode.
func (m Model) handleNormalKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Search):
		m.searchMode = true
		m.searchInput.Reset()
		cmd := m.searchInput.Focus()
		return m, cmd

	case key.Matches(msg, m.keys.Refresh):
		return m, m.LoadUsers()

	case key.Matches(msg, m.keys.NextPage):
		if !m.page.HasMore {
			return m, nil
		}
		m.offset += pageSize
		return m, m.LoadUsers()

	case key.Matches(msg, m.keys.PrevPage):
		if m.offset == 0 {
			return m, nil
		}
		m.offset -= pageSize
		if m.offset < 0 {
			m.offset = 0
		}
		return m, m.LoadUsers()

	case key.Matches(msg, m.keys.New):
		return m, func() tea.Msg { return NewUserMsg{} }

	case key.Matches(msg, m.keys.Edit):
		item, ok := m.list.SelectedItem().(UserItem)
		if !ok {
			return m, nil
		}
		return m, func() tea.Msg { return EditUserMsg{User: item.User} }

	case key.Matches(msg, m.keys.Delete):
		item, ok := m.list.SelectedItem().(UserItem)
		if !ok {
			return m, nil
		}
		return m, func() tea.Msg { return DeleteUserMsg{User: item.User} }
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// View renders the user list view with a page indicator.
func (m Model) View() string {
	if m.searchMode {
		searchBar := lipgloss.NewStyle().
			Foreground(theme.ColorWhite).
			Padding(0, 1).
			Render(m.searchInput.View())
		return lipgloss.JoinVertical(lipgloss.Left, searchBar, m.list.View())
	}

	if len(m.list.Items()) == 0 {
		return m.renderEmptyState()
	}

	return lipgloss.JoinVertical(lipgloss.Left, m.list.View(), m.pageIndicator())
}

func (m Model) pageIndicator() string {
	if m.page.Total == 0 {
		return ""
	}
	first := m.offset + 1
	last := m.offset + len(m.list.Items())
	return theme.HelpStyle.Render(
		fmt.Sprintf("%d-%d of %d  ] next page  [ previous page", first, last, m.page.Total),
	)
}

func (m Model) renderEmptyState() string {
	style := lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		Align(lipgloss.Center, lipgloss.Center).
		Foreground(theme.ColorGray)

	if m.query != "" {
		return style.Render("No matching users.\nPress / to change the search.")
	}

	return style.Render("No users found.")
}

// LoadUsers returns a tea.Cmd that fetches the current page from the server.
func (m Model) LoadUsers() tea.Cmd {
	c := m.client
	offset := m.offset
	query := m.query
	return func() tea.Msg {
		users, page, err := c.ListUsers(context.Background(), pageSize, offset, query)
		return UsersLoadedMsg{Users: users, Pagination: page, Err: err}
	}
}

// SearchActive reports whether the search input currently has focus.
func (m Model) SearchActive() bool {
	return m.searchMode
}

// SetSize updates the list dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.list.SetSize(width, height-3)
	m.searchInput.Width = width - 4
}
