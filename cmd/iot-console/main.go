// Command iot-console is a terminal dashboard for the IoT device
// management platform: sign in, browse and edit the device inventory,
// manage accounts and watch pushed alerts arrive.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/qhuy/iot-console/internal/api"
	"github.com/qhuy/iot-console/internal/app"
	"github.com/qhuy/iot-console/internal/credential"
	"github.com/qhuy/iot-console/internal/logging"
	"github.com/qhuy/iot-console/internal/model"
	"github.com/qhuy/iot-console/internal/notify"
	"github.com/qhuy/iot-console/internal/push"
	"github.com/qhuy/iot-console/internal/push/mailbox"
	"github.com/qhuy/iot-console/internal/push/stream"
	"github.com/qhuy/iot-console/internal/session"
	"github.com/qhuy/iot-console/internal/store"
	"github.com/qhuy/iot-console/internal/theme"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "iot-console: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := model.DefaultConfigPath()
	if env := os.Getenv("IOT_CONSOLE_CONFIG"); env != "" {
		configPath = env
	}

	cfg, err := model.LoadConfig(configPath)
	if err != nil {
		return err
	}
	theme.Apply(cfg.Display.Theme)

	logger, err := logging.New(filepath.Join(cfg.DataDir, "console.log"))
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	// Seed the config file on first run so there is something to edit.
	if _, serr := os.Stat(configPath); os.IsNotExist(serr) {
		if werr := model.SaveConfig(configPath, cfg); werr != nil {
			logger.Warn("writing default config", zap.Error(werr))
		}
	}

	s, err := store.NewSQLiteStore(filepath.Join(cfg.DataDir, "console.db"))
	if err != nil {
		return fmt.Errorf("opening local store: %w", err)
	}
	defer s.Close()

	guard := session.NewGuard(credential.TokenSlot{})
	client := api.NewClient(cfg.API.BaseURL, guard.Token)
	center := notify.NewCenter(s, logger)

	subscriber, err := buildSubscriber(cfg, guard, logger)
	if err != nil {
		logger.Warn("push transport unavailable", zap.Error(err))
	}

	root := app.New(app.Deps{
		Store:      s,
		Guard:      guard,
		Client:     client,
		Center:     center,
		Subscriber: subscriber,
		Logger:     logger,
	})

	p := tea.NewProgram(root, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running ui: %w", err)
	}
	return nil
}

// buildSubscriber constructs the alert transport selected in the config.
// A nil subscriber with an error means the console runs without push.
func buildSubscriber(
	cfg *model.AppConfig, guard *session.Guard, logger *zap.Logger,
) (push.Subscriber, error) {
	switch cfg.Push.Mode {
	case "stream", "":
		return stream.New(cfg.API.BaseURL, guard.Token, logger), nil

	case "mailbox":
		if cfg.Push.Host == "" || cfg.Push.Username == "" {
			return nil, fmt.Errorf("mailbox push needs push.host and push.username")
		}
		password, err := credential.Get(credential.KeyMailboxPassword)
		if err != nil {
			return nil, fmt.Errorf("loading mailbox password: %w", err)
		}
		client := mailbox.NewIMAPClient(
			cfg.Push.Host,
			cfg.Push.Port,
			cfg.Push.Username,
			password,
			cfg.Push.Mailbox,
			cfg.Push.TLS,
		)
		interval := time.Duration(cfg.Push.PollIntervalSec) * time.Second
		return mailbox.NewWatcher(client, interval, logger), nil

	default:
		return nil, fmt.Errorf("unknown push mode %q", cfg.Push.Mode)
	}
}
