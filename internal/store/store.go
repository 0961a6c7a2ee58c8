package store

import "github.com/qhuy/iot-console/internal/model"

// Store defines the durable client-side key/value slots used by the
// console: the notification log and the profile cache. Each slot is
// replaced wholesale on write; there is no partial update.
type Store interface {
	// Notifications returns the persisted notification log, newest
	// first, exactly as last saved.
	Notifications() ([]model.Notification, error)

	// SaveNotifications replaces the persisted notification log.
	SaveNotifications(items []model.Notification) error

	// Profile returns the cached login profile, or nil when no user
	// is cached.
	Profile() (*model.Profile, error)

	// SaveProfile replaces the cached login profile.
	SaveProfile(p model.Profile) error

	// DeleteProfile removes the cached login profile.
	DeleteProfile() error

	// Close releases the underlying storage.
	Close() error
}
