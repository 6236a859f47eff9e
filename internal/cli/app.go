package cli

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/digirp/digirp/internal/config"
	"github.com/digirp/digirp/internal/models"
	"github.com/digirp/digirp/internal/presence"
)

// app bundles what every command needs to talk to the chat client.
type app struct {
	settings      *models.Settings
	applicationID string
	controller    *presence.Controller
}

func newApp() (*app, error) {
	settings, err := config.LoadSettings()
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}
	return newAppWith(settings, presence.NewDiscordConnector())
}

func newAppWith(settings *models.Settings, connector presence.Connector) (*app, error) {
	appID, err := config.ResolveApplicationID(appIDFlag, settings)
	if err != nil {
		return nil, err
	}
	return &app{
		settings:      settings,
		applicationID: appID,
		controller:    presence.NewController(connector, presence.WithClipping(settings.ClipLongFields)),
	}, nil
}

func (a *app) connect(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, a.settings.ConnectTimeout)
	defer cancel()
	if err := a.controller.Connect(ctx, a.applicationID); err != nil {
		return userError(err)
	}
	return nil
}

func (a *app) set(ctx context.Context, p models.Presence) (models.Presence, error) {
	ctx, cancel := context.WithTimeout(ctx, a.settings.RequestTimeout)
	defer cancel()
	sent, err := a.controller.SetPresence(ctx, p)
	if err != nil {
		return sent, userError(err)
	}
	return sent, nil
}

func (a *app) clear(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, a.settings.RequestTimeout)
	defer cancel()
	if err := a.controller.ClearPresence(ctx); err != nil {
		return userError(err)
	}
	return nil
}

func (a *app) disconnect() {
	if err := a.controller.Disconnect(); err != nil {
		log.Printf("Failed to disconnect: %v", err)
	}
}

// userError logs the full chain and returns the readable message.
func userError(err error) error {
	log.Printf("Presence request failed: %v", err)
	return errors.New(presence.UserMessage(err))
}

// watchSettings follows ~/.digirp/settings.yaml for long-running commands.
// Without a watcher the returned channel is nil and never delivers.
func watchSettings() (<-chan *models.Settings, func()) {
	w, err := config.WatchGlobalSettings()
	if err != nil {
		log.Printf("Settings changes will not be picked up: %v", err)
		return nil, func() {}
	}
	return w.Updates(), w.Stop
}
