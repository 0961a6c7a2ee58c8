package devicelist

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qhuy/iot-console/internal/keys"
	"github.com/qhuy/iot-console/internal/model"
)

func loadedRooms() DevicesLoadedMsg {
	return DevicesLoadedMsg{Rooms: []model.Room{
		{Name: "kitchen", Devices: []model.Device{
			{ID: "d1", Name: "ceiling light", Type: model.DeviceTypeLight},
			{ID: "d2", Name: "smoke sensor", Type: model.DeviceTypeSensor},
		}},
		{Name: "garage", Devices: []model.Device{
			{ID: "d3", Name: "gate", Type: model.DeviceTypeGate},
		}},
	}}
}

func newTestModel() Model {
	return New(nil, keys.DefaultKeyMap(), 80, 24)
}

func TestLoadedRoomsFlattened(t *testing.T) {
	m := newTestModel()

	m, _ = m.Update(loadedRooms())

	items := m.list.Items()
	require.Len(t, items, 3)
	first, ok := items[0].(DeviceItem)
	require.True(t, ok)
	assert.Equal(t, "kitchen", first.Room)
	assert.Equal(t, "ceiling light", first.Device.Name)
	last := items[2].(DeviceItem)
	assert.Equal(t, "garage", last.Room)
}

func TestSearchFiltersByNameRoomAndType(t *testing.T) {
	m := newTestModel()
	m, _ = m.Update(loadedRooms())

	// Enter search mode, type a query, confirm.
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'/'}})
	require.True(t, m.SearchActive())

	m.searchInput.SetValue("garage")
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	require.False(t, m.SearchActive())
	items := m.list.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "gate", items[0].(DeviceItem).Device.Name)
}

func TestSearchEscClearsQuery(t *testing.T) {
	m := newTestModel()
	m, _ = m.Update(loadedRooms())

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'/'}})
	m.searchInput.SetValue("sensor")
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEscape})

	assert.Len(t, m.list.Items(), 3)
}

func TestRoomNames(t *testing.T) {
	m := newTestModel()
	m, _ = m.Update(loadedRooms())

	assert.Equal(t, []string{"kitchen", "garage"}, m.RoomNames())
}

func TestLoadErrorKeepsCurrentItems(t *testing.T) {
	m := newTestModel()
	m, _ = m.Update(loadedRooms())

	m, _ = m.Update(DevicesLoadedMsg{Err: assert.AnError})

	assert.Len(t, m.list.Items(), 3, "a failed refresh does not wipe the list")
}
