package app

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qhuy/iot-console/internal/api"
	"github.com/qhuy/iot-console/internal/model"
	"github.com/qhuy/iot-console/internal/notify"
	"github.com/qhuy/iot-console/internal/session"
	"github.com/qhuy/iot-console/internal/ui/devicelist"
	"github.com/qhuy/iot-console/internal/ui/stats"
	"github.com/qhuy/iot-console/internal/ui/userlist"
)

type memorySlot struct {
	token string
}

func (s *memorySlot) Get() (string, error) {
	if s.token == "" {
		return "", errors.New("no token stored")
	}
	return s.token, nil
}

func (s *memorySlot) Set(token string) error {
	s.token = token
	return nil
}

func (s *memorySlot) Delete() error {
	s.token = ""
	return nil
}

type memoryPersister struct {
	items []model.Notification
}

func (p *memoryPersister) Notifications() ([]model.Notification, error) {
	return p.items, nil
}

func (p *memoryPersister) SaveNotifications(items []model.Notification) error {
	p.items = items
	return nil
}

func newTestModel(t *testing.T) Model {
	t.Helper()
	return New(Deps{
		Guard:  session.NewGuard(&memorySlot{}),
		Center: notify.NewCenter(&memoryPersister{}, nil),
	})
}

func TestDeviceLoadErrorShowsToast(t *testing.T) {
	m := newTestModel(t)
	m.currentView = ViewDevices

	mdl, cmd := m.Update(devicelist.DevicesLoadedMsg{Err: errors.New("connection refused")})
	updated, ok := mdl.(Model)
	require.True(t, ok)

	assert.Equal(t, "connection refused", updated.toast.text)
	assert.Equal(t, "WARNING", updated.toast.alertType)
	assert.NotNil(t, cmd)
	assert.Equal(t, ViewDevices, updated.currentView)
}

func TestUserLoadErrorShowsToast(t *testing.T) {
	m := newTestModel(t)
	m.currentView = ViewUsers

	mdl, cmd := m.Update(userlist.UsersLoadedMsg{Err: errors.New("bad gateway")})
	updated, ok := mdl.(Model)
	require.True(t, ok)

	assert.Equal(t, "bad gateway", updated.toast.text)
	assert.NotNil(t, cmd)
}

func TestStatsLoadErrorShowsToast(t *testing.T) {
	m := newTestModel(t)
	m.currentView = ViewStats

	mdl, cmd := m.Update(stats.StatsLoadedMsg{Err: errors.New("timeout")})
	updated, ok := mdl.(Model)
	require.True(t, ok)

	assert.Equal(t, "timeout", updated.toast.text)
	assert.NotNil(t, cmd)
}

func TestRejectedSessionOnLoadRoutesToLogin(t *testing.T) {
	m := newTestModel(t)
	m.currentView = ViewDevices

	mdl, cmd := m.Update(devicelist.DevicesLoadedMsg{Err: &api.AuthError{Message: "token expired"}})
	updated, ok := mdl.(Model)
	require.True(t, ok)

	assert.Equal(t, ViewLogin, updated.currentView)
	assert.Equal(t, "Session expired. Sign in again.", updated.toast.text)
	assert.NotNil(t, cmd)
}

func TestSuccessfulLoadReachesDeviceList(t *testing.T) {
	m := newTestModel(t)
	m.currentView = ViewDevices

	rooms := []model.Room{{Name: "kitchen", Devices: []model.Device{{ID: "d1", Name: "lamp"}}}}
	mdl, _ := m.Update(devicelist.DevicesLoadedMsg{Rooms: rooms})
	updated, ok := mdl.(Model)
	require.True(t, ok)

	assert.Equal(t, []string{"kitchen"}, updated.deviceList.RoomNames())
	assert.Empty(t, updated.toast.text)
}
