package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/qhuy/iot-console/internal/model"
)

// Slot keys. Each slot holds one JSON document.
const (
	slotNotifications = "app_notifications"
	slotProfile       = "user"
)

// SQLiteStore implements the Store interface using a local SQLite database.
type SQLiteStore struct {
	db *sqlx.DB
}

// NewSQLiteStore opens (or creates) a SQLite database at dbPath,
// enables WAL mode, and runs any pending schema migrations.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sqlx.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	// Enable WAL mode for better concurrent read performance.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.runMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// runMigrations checks the current schema version and applies any
// outstanding migrations in order.
func (s *SQLiteStore) runMigrations() error {
	currentVersion := 0

	// Check if schema_version table exists.
	var tableCount int
	err := s.db.Get(
		&tableCount,
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	)
	if err != nil {
		return fmt.Errorf("checking schema_version table: %w", err)
	}

	if tableCount > 0 {
		err = s.db.Get(&currentVersion, "SELECT COALESCE(MAX(version), 0) FROM schema_version")
		if err != nil {
			return fmt.Errorf("reading schema version: %w", err)
		}
	}

	for _, m := range migrations {
		if m.version <= currentVersion {
			continue
		}
		if _, err := s.db.Exec(m.sql); err != nil {
			return fmt.Errorf("applying migration v%d: %w", m.version, err)
		}
	}

	return nil
}

// getSlot reads the raw JSON document stored under key. Returns
// sql.ErrNoRows when the slot has never been written.
func (s *SQLiteStore) getSlot(key string) (string, error) {
	var value string
	err := s.db.Get(&value, "SELECT value FROM slots WHERE key = ?", key)
	if err != nil {
		return "", err
	}
	return value, nil
}

// setSlot replaces the JSON document stored under key.
func (s *SQLiteStore) setSlot(key, value string) error {
	_, err := s.db.Exec(`
		INSERT OR REPLACE INTO slots (key, value, updated_at)
		VALUES (?, ?, ?)`,
		key, value, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("writing slot %s: %w", key, err)
	}
	return nil
}

// deleteSlot removes the document stored under key.
func (s *SQLiteStore) deleteSlot(key string) error {
	_, err := s.db.Exec("DELETE FROM slots WHERE key = ?", key)
	if err != nil {
		return fmt.Errorf("deleting slot %s: %w", key, err)
	}
	return nil
}

// Notifications returns the persisted notification log. A slot that was
// never written yields an empty log; a slot that fails to parse is an
// error so the caller can decide how to recover.
func (s *SQLiteStore) Notifications() ([]model.Notification, error) {
	raw, err := s.getSlot(slotNotifications)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading notification log: %w", err)
	}

	var items []model.Notification
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, fmt.Errorf("parsing notification log: %w", err)
	}
	return items, nil
}

// SaveNotifications replaces the persisted notification log with the
// given items, preserving their order.
func (s *SQLiteStore) SaveNotifications(items []model.Notification) error {
	if items == nil {
		items = []model.Notification{}
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("marshaling notification log: %w", err)
	}
	return s.setSlot(slotNotifications, string(raw))
}

// Profile returns the cached login profile, or nil when absent.
func (s *SQLiteStore) Profile() (*model.Profile, error) {
	raw, err := s.getSlot(slotProfile)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading profile: %w", err)
	}

	var p model.Profile
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return nil, fmt.Errorf("parsing profile: %w", err)
	}
	return &p, nil
}

// SaveProfile replaces the cached login profile.
func (s *SQLiteStore) SaveProfile(p model.Profile) error {
	raw, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshaling profile: %w", err)
	}
	return s.setSlot(slotProfile, string(raw))
}

// DeleteProfile removes the cached login profile.
func (s *SQLiteStore) DeleteProfile() error {
	return s.deleteSlot(slotProfile)
}
