package model

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "config.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8080", cfg.API.BaseURL)
	assert.Equal(t, "stream", cfg.Push.Mode)
	assert.Equal(t, "default", cfg.Display.Theme)
	assert.Equal(t, 60, cfg.Push.PollIntervalSec)
}

func TestSaveConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := defaultAppConfig()
	cfg.API.BaseURL = "https://iot.example.com"
	cfg.Push.Mode = "mailbox"
	cfg.Push.Host = "imap.example.com"
	cfg.Display.Theme = "mono"
	require.NoError(t, SaveConfig(path, cfg))

	_, err := os.Stat(path)
	require.NoError(t, err)

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "https://iot.example.com", loaded.API.BaseURL)
	assert.Equal(t, "mailbox", loaded.Push.Mode)
	assert.Equal(t, "imap.example.com", loaded.Push.Host)
	assert.Equal(t, "mono", loaded.Display.Theme)
}

func TestLoadConfigClampsPollInterval(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := "push:\n  mode: mailbox\n  poll_interval_sec: -5\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 60, cfg.Push.PollIntervalSec)
}
