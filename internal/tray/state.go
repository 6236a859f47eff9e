// Package tray keeps a presence session alive behind a system tray icon.
package tray

import (
	"log"
	"time"

	"github.com/digirp/digirp/internal/config"
	"github.com/digirp/digirp/internal/models"
	"github.com/digirp/digirp/internal/presence"
)

// Options configures the tray.
type Options struct {
	Controller     *presence.Controller
	ApplicationID  string
	ConnectTimeout time.Duration
	RequestTimeout time.Duration

	// Initial is pushed once the tray is up and again on every reconnect.
	Initial models.Presence

	// AppIDFlag is the --app-id value; it wins over reloaded settings.
	AppIDFlag string

	// SettingsUpdates delivers settings reloaded from disk.
	SettingsUpdates <-chan *models.Settings
}

// applySettings takes over reloaded settings and reports whether the live
// session has to move to a new application ID.
func (t *trayApp) applySettings(s *models.Settings) bool {
	t.opts.ConnectTimeout = s.ConnectTimeout
	t.opts.RequestTimeout = s.RequestTimeout

	id, err := config.ResolveApplicationID(t.opts.AppIDFlag, s)
	if err != nil || id == t.opts.ApplicationID {
		return false
	}
	log.Printf("Application ID changed to %s", id)
	t.opts.ApplicationID = id
	return t.opts.Controller.State() == presence.Connected
}
