package model

import "time"

// Known device types reported by the platform. Anything else is
// rendered with a generic label.
const (
	DeviceTypeLight  = "light"
	DeviceTypeFan    = "fan"
	DeviceTypeSensor = "sensor"
	DeviceTypeGate   = "gate"
	DeviceTypeCamera = "camera"
)

// offlineAfter is how stale a device's updated_at may be before the
// console shows it as offline.
const offlineAfter = 10 * time.Minute

// DeviceConfig holds the hardware wiring settings of a device.
type DeviceConfig struct {
	Pin       string `json:"pin"`
	ActiveLow bool   `json:"active_low"`
}

// Location is a device's geographic position as a GeoJSON-style
// [longitude, latitude] pair.
type Location struct {
	Coordinates [2]float64 `json:"coordinates"`
}

// Lat returns the latitude component.
func (l Location) Lat() float64 { return l.Coordinates[1] }

// Lng returns the longitude component.
func (l Location) Lng() float64 { return l.Coordinates[0] }

// Device is a managed device as returned by the platform API.
type Device struct {
	ID            string       `json:"id"`
	Name          string       `json:"name"`
	Type          string       `json:"type"`
	Config        DeviceConfig `json:"config"`
	ControllerKey string       `json:"controller_key"`
	Location      Location     `json:"location"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
}

// Online reports whether the device has checked in recently enough to
// be considered reachable, relative to now.
func (d Device) Online(now time.Time) bool {
	return now.Sub(d.UpdatedAt) < offlineAfter
}

// Room groups the devices installed in a single room.
type Room struct {
	Name    string   `json:"name"`
	Devices []Device `json:"devices"`
}

// StatCount is one slice of an aggregate device statistic.
type StatCount struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// DeviceStats holds the aggregate counts rendered by the stats view.
type DeviceStats struct {
	ByRoom   []StatCount `json:"by_room"`
	ByType   []StatCount `json:"by_type"`
	ByStatus []StatCount `json:"by_status"`
}
