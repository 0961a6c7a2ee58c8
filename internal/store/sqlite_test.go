package store_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qhuy/iot-console/internal/model"
	"github.com/qhuy/iot-console/tests/testutil"
)

func TestNotificationsEmptySlot(t *testing.T) {
	s := testutil.NewTestStore(t)

	items, err := s.Notifications()
	require.NoError(t, err)
	assert.Nil(t, items)
}

func TestNotificationsRoundTrip(t *testing.T) {
	s := testutil.NewTestStore(t)

	log := []model.Notification{
		{ID: "2", Title: "smoke detected", Body: "kitchen", Timestamp: 1756700000000, Type: "FIRE"},
		{ID: "1", Title: "door open", Body: "front gate", Timestamp: 1756600000000, Read: true, Type: model.TypeInfo},
	}
	require.NoError(t, s.SaveNotifications(log))

	got, err := s.Notifications()
	require.NoError(t, err)
	assert.Equal(t, log, got, "order and fields survive the round trip")
}

func TestSaveNotificationsReplacesWholeLog(t *testing.T) {
	s := testutil.NewTestStore(t)

	require.NoError(t, s.SaveNotifications([]model.Notification{
		{ID: "1", Title: "old"},
		{ID: "2", Title: "older"},
	}))
	require.NoError(t, s.SaveNotifications([]model.Notification{
		{ID: "3", Title: "only survivor"},
	}))

	got, err := s.Notifications()
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "only survivor", got[0].Title)
}

func TestSaveNotificationsNilClearsLog(t *testing.T) {
	s := testutil.NewTestStore(t)

	require.NoError(t, s.SaveNotifications([]model.Notification{{ID: "1"}}))
	require.NoError(t, s.SaveNotifications(nil))

	got, err := s.Notifications()
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestProfileLifecycle(t *testing.T) {
	s := testutil.NewTestStore(t)

	p, err := s.Profile()
	require.NoError(t, err)
	assert.Nil(t, p, "no profile cached initially")

	require.NoError(t, s.SaveProfile(model.Profile{Username: "quan", Role: "admin"}))

	p, err = s.Profile()
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "quan", p.Username)
	assert.Equal(t, "admin", p.Role)

	require.NoError(t, s.DeleteProfile())

	p, err = s.Profile()
	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestDeleteProfileIdempotent(t *testing.T) {
	s := testutil.NewTestStore(t)

	require.NoError(t, s.DeleteProfile())
	require.NoError(t, s.DeleteProfile())
}
