package model

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// PushConfig selects and configures the push transport.
type PushConfig struct {
	// Mode is either "stream" (WebSocket from the backend) or
	// "mailbox" (IMAP alerts mailbox).
	Mode string `mapstructure:"mode" yaml:"mode"`

	// Mailbox settings, used when Mode is "mailbox". The account
	// password lives in the system keyring, not in this file.
	Host            string `mapstructure:"host" yaml:"host"`
	Port            string `mapstructure:"port" yaml:"port"`
	Username        string `mapstructure:"username" yaml:"username"`
	Mailbox         string `mapstructure:"mailbox" yaml:"mailbox"`
	TLS             bool   `mapstructure:"tls" yaml:"tls"`
	PollIntervalSec int    `mapstructure:"poll_interval_sec" yaml:"poll_interval_sec"`
}

// APIConfig holds backend connection settings.
type APIConfig struct {
	// BaseURL is the root URL of the platform REST API.
	BaseURL string `mapstructure:"base_url" yaml:"base_url"`
}

// DisplayConfig holds UI/rendering preferences.
type DisplayConfig struct {
	Theme string `mapstructure:"theme" yaml:"theme"`
}

// AppConfig is the top-level application configuration.
type AppConfig struct {
	API     APIConfig     `mapstructure:"api" yaml:"api"`
	Push    PushConfig    `mapstructure:"push" yaml:"push"`
	Display DisplayConfig `mapstructure:"display" yaml:"display"`

	// DataDir is where the local database and log file live.
	DataDir string `mapstructure:"data_dir" yaml:"data_dir"`
}

// DefaultConfigPath returns the default path for the configuration file,
// located at ~/.config/iot-console/config.yaml.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "config.yaml")
	}
	return filepath.Join(home, ".config", "iot-console", "config.yaml")
}

// defaultAppConfig returns a sensible default configuration.
func defaultAppConfig() *AppConfig {
	dataDir := filepath.Dir(DefaultConfigPath())
	return &AppConfig{
		API: APIConfig{
			BaseURL: "http://localhost:8080",
		},
		Push: PushConfig{
			Mode:            "stream",
			Mailbox:         "INBOX",
			TLS:             true,
			PollIntervalSec: 60,
		},
		Display: DisplayConfig{
			Theme: "default",
		},
		DataDir: dataDir,
	}
}

// LoadConfig reads configuration from the given YAML file path using Viper.
// If the file does not exist, it returns a default configuration.
func LoadConfig(path string) (*AppConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	// Set defaults so missing keys resolve to sensible values.
	v.SetDefault("api.base_url", "http://localhost:8080")
	v.SetDefault("push.mode", "stream")
	v.SetDefault("push.mailbox", "INBOX")
	v.SetDefault("push.tls", true)
	v.SetDefault("push.poll_interval_sec", 60)
	v.SetDefault("display.theme", "default")
	v.SetDefault("data_dir", filepath.Dir(DefaultConfigPath()))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(*os.PathError); ok {
			return defaultAppConfig(), nil
		}
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return defaultAppConfig(), nil
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg := defaultAppConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if cfg.Push.PollIntervalSec <= 0 {
		cfg.Push.PollIntervalSec = 60
	}

	return cfg, nil
}

// SaveConfig writes the given configuration to a YAML file at path,
// creating parent directories if needed.
func SaveConfig(path string, cfg *AppConfig) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("api", cfg.API)
	v.Set("push", cfg.Push)
	v.Set("display", cfg.Display)
	v.Set("data_dir", cfg.DataDir)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}

	return nil
}
