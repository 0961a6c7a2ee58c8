// Package devicelist renders the room-grouped device inventory as a
// flattened, searchable list.
package devicelist

import (
	"context"
	"strings"

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

// DevicesLoadedMsg is sent when the device inventory has been fetched.
type DevicesLoadedMsg struct {
	Rooms []model.Room
	Err   error
}

// NewDeviceMsg asks the router to open the device form for creation.
type NewDeviceMsg struct{}

// EditDeviceMsg asks the router to open the device form pre-filled with
// the selected device.
type EditDeviceMsg struct {
	Device model.Device
	Room   string
}

// DeleteDeviceMsg asks the router to confirm deletion of the selected device.
type DeleteDeviceMsg struct {
	Device model.Device
	Room   string
}

// Model is the device list view component.
type Model struct {
	list        list.Model
	client      *api.Client
	keys        *keys.KeyMap
	rooms       []model.Room
	query       string
	searchMode  bool
	searchInput textinput.Model
	width       int
	height      int
}

// New creates a new device list model.
func New(c *api.Client, k *keys.KeyMap, width, height int) Model {
	l := list.New([]list.Item{}, ItemDelegate{}, width, height-2)
	l.Title = "Devices"
	l.SetShowStatusBar(true)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.Styles.Title = theme.HeaderStyle

	si := textinput.New()
	si.Placeholder = "search devices..."
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

// Init returns a command that loads the device inventory.
func (m Model) Init() tea.Cmd {
	return m.LoadDevices()
}

// Update handles messages for the device list view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case DevicesLoadedMsg:
		if msg.Err != nil {
			return m, nil
		}
		m.rooms = msg.Rooms
		cmd := m.applyFilter()
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
		cmd := m.applyFilter()
		return m, cmd

	case "esc":
		m.searchMode = false
		m.searchInput.Reset()
		m.query = ""
		cmd := m.applyFilter()
		return m, cmd
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
		return m, m.LoadDevices()

	case key.Matches(msg, m.keys.New):
		return m, func() tea.Msg { return NewDeviceMsg{} }

	case key.Matches(msg, m.keys.Edit):
		item, ok := m.list.SelectedItem().(DeviceItem)
		if !ok {
			return m, nil
		}
		return m, func() tea.Msg {
			return EditDeviceMsg{Device: item.Device, Room: item.Room}
		}

	case key.Matches(msg, m.keys.Delete):
		item, ok := m.list.SelectedItem().(DeviceItem)
		if !ok {
			return m, nil
		}
		return m, func() tea.Msg {
			return DeleteDeviceMsg{Device: item.Device, Room: item.Room}
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// View renders the device list view.
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

	return m.list.View()
}

// renderEmptyState shows guidance text when no devices are available.
func (m Model) renderEmptyState() string {
	style := lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		Align(lipgloss.Center, lipgloss.Center).
		Foreground(theme.ColorGray)

	if m.query != "" {
		return style.Render("No matching devices.\nPress / to change the search.")
	}

	return style.Render("No devices registered.\n\nPress n to add one.")
}

// LoadDevices returns a tea.Cmd that fetches the inventory from the server.
func (m Model) LoadDevices() tea.Cmd {
	c := m.client
	return func() tea.Msg {
		rooms, err := c.ListDevices(context.Background())
		return DevicesLoadedMsg{Rooms: rooms, Err: err}
	}
}

// RoomNames returns the known room names, for form suggestions.
func (m Model) RoomNames() []string {
	names := make([]string, 0, len(m.rooms))
	for _, r := range m.rooms {
		names = append(names, r.Name)
	}
	return names
}

// SearchActive reports whether the search input currently has focus.
func (m Model) SearchActive() bool {
	return m.searchMode
}

// applyFilter flattens the room groups into list items, keeping only
// devices whose name or room matches the current query.
func (m *Model) applyFilter() tea.Cmd {
	query := strings.ToLower(strings.TrimSpace(m.query))
	var items []list.Item
	for _, room := range m.rooms {
		for _, dev := range room.Devices {
			if query != "" {
				hay := strings.ToLower(dev.Name + " " + room.Name + " " + dev.Type)
				if !strings.Contains(hay, query) {
					continue
				}
			}
			items = append(items, DeviceItem{Device: dev, Room: room.Name})
		}
	}
	return m.list.SetItems(items)
}

// SetSize updates the list dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.list.SetSize(width, height-2)
	m.searchInput.Width = width - 4
}
