package main

import (
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/qmdesk/cashier-console/internal/api"
	"github.com/qmdesk/cashier-console/internal/app"
	"github.com/qmdesk/cashier-console/internal/channel"
	"github.com/qmdesk/cashier-console/internal/credential"
	"github.com/qmdesk/cashier-console/internal/history"
	"github.com/qmdesk/cashier-console/internal/logging"
	"github.com/qmdesk/cashier-console/internal/model"
	"github.com/qmdesk/cashier-console/internal/notify"
	"github.com/qmdesk/cashier-console/internal/ui/setup"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", model.DefaultConfigPath(), "path to the config file")
	flag.Parse()

	cfg, err := model.LoadConfig(*configPath)
	if err != nil {
		return err
	}

	// First run: no token in the keyring means nothing can be fetched,
	// so collect endpoints and token before starting the dashboard.
	if token, err := credential.Get(credential.TokenKey); err != nil || token == "" {
		done, err := setup.Run(cfg)
		if err != nil {
			return err
		}

		if done.APIBaseURL != "" {
			cfg.APIBaseURL = done.APIBaseURL
		}
		if done.ChannelURL != "" {
			cfg.ChannelURL = done.ChannelURL
		}
		if err := model.SaveConfig(*configPath, cfg); err != nil {
			return err
		}
		if err := credential.Set(credential.TokenKey, done.Token); err != nil {
			return err
		}
	}

	logger, closeLog, err := logging.Open(cfg.LogPath, cfg.LogLevel)
	if err != nil {
		return err
	}
	defer closeLog()

	hist, err := history.Open(cfg.HistoryPath)
	if err != nil {
		return err
	}
	defer hist.Close()

	tokens := credential.Provider{}
	client := api.NewClient(cfg.APIBaseURL, tokens, logger)
	store := notify.NewStore(cfg.BellCapacity, client, logger)
	adapter := channel.New(
		cfg.ChannelURL,
		tokens,
		[]string{channel.TopicRegistrations, channel.TopicQueueUpdates},
		logger,
	)

	m := app.New(cfg, client, store, adapter, hist, logger)

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running application: %w", err)
	}

	return nil
}
