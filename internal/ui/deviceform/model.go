// Package deviceform renders the device create/edit form.
package deviceform

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/qhuy/iot-console/internal/api"
	"github.com/qhuy/iot-console/internal/model"
	"github.com/qhuy/iot-console/internal/theme"
)

// DeviceCreatedMsg is dispatched when a new device is submitted via the form.
type DeviceCreatedMsg struct {
	Payload api.DevicePayload
}

// DeviceUpdatedMsg is dispatched when an existing device is submitted.
type DeviceUpdatedMsg struct {
	ID      string
	Payload api.DevicePayload
}

// CancelMsg is dispatched when the user cancels the form.
type CancelMsg struct{}

// formBindings holds form field values on the heap so that huh's Value()
// pointers remain valid across Bubble Tea model copies.
type formBindings struct {
	name      string
	devType   string
	room      string
	pin       string
	activeLow bool
	latitude  string
	longitude string
}

// Model is the Bubble Tea model for the device create/edit form.
type Model struct {
	form     *huh.Form
	fb       *formBindings
	editMode bool
	editID   string
	rooms    []string
	width    int
	height   int
}

// New creates a new device form model.
func New(width, height int) Model {
	return Model{
		fb:     &formBindings{devType: model.DeviceTypeLight},
		width:  width,
		height: height,
	}
}

// SetRooms sets the known room names offered as suggestions.
func (m *Model) SetRooms(rooms []string) {
	m.rooms = rooms
}

// StartCreate initializes the form for registering a new device.
func (m *Model) StartCreate() tea.Cmd {
	m.editMode = false
	m.editID = ""
	*m.fb = formBindings{devType: model.DeviceTypeLight}
	m.form = m.buildForm()
	return m.form.Init()
}

// StartEdit initializes the form pre-filled with an existing device.
func (m *Model) StartEdit(dev model.Device, room string) tea.Cmd {
	m.editMode = true
	m.editID = dev.ID
	m.fb.name = dev.Name
	m.fb.devType = dev.Type
	m.fb.room = room
	m.fb.pin = dev.Config.Pin
	m.fb.activeLow = dev.Config.ActiveLow
	m.fb.latitude = formatCoord(dev.Location.Lat())
	m.fb.longitude = formatCoord(dev.Location.Lng())
	m.form = m.buildForm()
	return m.form.Init()
}

// Update handles messages for the device form.
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

// View renders the device form.
func (m Model) View() string {
	if m.form == nil {
		return ""
	}

	titleText := "New Device"
	if m.editMode {
		titleText = "Edit Device"
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

func (m *Model) buildForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Name").
				Placeholder("Living room lamp").
				Value(&m.fb.name).
				Validate(validateRequired("Name")),
			huh.NewSelect[string]().
				Title("Type").
				Options(
					huh.NewOption("Light", model.DeviceTypeLight),
					huh.NewOption("Fan", model.DeviceTypeFan),
					huh.NewOption("Sensor", model.DeviceTypeSensor),
					huh.NewOption("Gate", model.DeviceTypeGate),
					huh.NewOption("Camera", model.DeviceTypeCamera),
				).
				Value(&m.fb.devType),
			huh.NewInput().
				Title("Room").
				Placeholder("living-room").
				Suggestions(m.rooms).
				Value(&m.fb.room).
				Validate(validateRequired("Room")),
			huh.NewInput().
				Title("GPIO pin").
				Placeholder("17").
				Value(&m.fb.pin).
				Validate(validateRequired("GPIO pin")),
			huh.NewConfirm().
				Title("Active low").
				Affirmative("Yes").
				Negative("No").
				Value(&m.fb.activeLow),
			huh.NewInput().
				Title("Latitude").
				Placeholder("10.7769 (optional)").
				Value(&m.fb.latitude).
				Validate(validateOptionalCoord),
			huh.NewInput().
				Title("Longitude").
				Placeholder("106.7009 (optional)").
				Value(&m.fb.longitude).
				Validate(validateOptionalCoord),
		),
	).WithWidth(m.formWidth()).WithHeight(m.formHeight())
}

func (m Model) handleSubmit() tea.Cmd {
	payload := api.DevicePayload{
		Name: m.fb.name,
		Type: m.fb.devType,
		Room: m.fb.room,
		Config: model.DeviceConfig{
			Pin:       m.fb.pin,
			ActiveLow: m.fb.activeLow,
		},
	}

	lat, latErr := strconv.ParseFloat(strings.TrimSpace(m.fb.latitude), 64)
	lng, lngErr := strconv.ParseFloat(strings.TrimSpace(m.fb.longitude), 64)
	if latErr == nil && lngErr == nil {
		payload.Location = &model.Location{Coordinates: [2]float64{lng, lat}}
	}

	if m.editMode {
		id := m.editID
		return func() tea.Msg { return DeviceUpdatedMsg{ID: id, Payload: payload} }
	}
	return func() tea.Msg { return DeviceCreatedMsg{Payload: payload} }
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

func (m Model) formHeight() int {
	h := m.height - 4
	if h < 10 {
		h = 10
	}
	return h
}

func formatCoord(v float64) string {
	if v == 0 {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func validateRequired(fieldName string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", fieldName)
		}
		return nil
	}
}

func validateOptionalCoord(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if _, err := strconv.ParseFloat(s, 64); err != nil {
		return fmt.Errorf("invalid coordinate")
	}
	return nil
}
