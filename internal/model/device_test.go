package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDeviceOnline(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	fresh := Device{UpdatedAt: now.Add(-5 * time.Minute)}
	assert.True(t, fresh.Online(now))

	stale := Device{UpdatedAt: now.Add(-15 * time.Minute)}
	assert.False(t, stale.Online(now))

	boundary := Device{UpdatedAt: now.Add(-offlineAfter)}
	assert.False(t, boundary.Online(now), "exactly at the threshold is offline")
}

func TestLocationCoordinateOrder(t *testing.T) {
	// GeoJSON order: longitude first, latitude second.
	l := Location{Coordinates: [2]float64{106.7009, 10.7769}}
	assert.Equal(t, 10.7769, l.Lat())
	assert.Equal(t, 106.7009, l.Lng())
}
