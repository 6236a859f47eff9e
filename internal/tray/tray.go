package tray

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/x/ansi"
	"github.com/getlantern/systray"

	"github.com/digirp/digirp/internal/models"
	"github.com/digirp/digirp/internal/presence"
)

const maxItemWidth = 48

type trayApp struct {
	opts Options

	// last is the payload shown by the chat client, owned by handleClicks.
	last models.Presence

	statusItem    *systray.MenuItem
	detailsItem   *systray.MenuItem
	stateItem     *systray.MenuItem
	reconnectItem *systray.MenuItem
	clearItem     *systray.MenuItem
	quitItem      *systray.MenuItem
}

// Run starts the system tray. This blocks the calling goroutine (must be main)
// and disconnects the controller before returning.
func Run(opts Options) {
	t := &trayApp{opts: opts, last: opts.Initial}
	systray.Run(t.onReady, t.onQuit)
}

func (t *trayApp) onReady() {
	systray.SetTemplateIcon(iconData, iconData)
	systray.SetTooltip(formatTooltip(models.Presence{}))

	// Header
	header := systray.AddMenuItem("DigiRP", "")
	header.Disable()

	t.statusItem = systray.AddMenuItem("Connecting...", "")
	t.statusItem.Disable()

	// Current payload (hidden until something is shown)
	t.detailsItem = systray.AddMenuItem("", "")
	t.detailsItem.Disable()
	t.detailsItem.Hide()
	t.stateItem = systray.AddMenuItem("", "")
	t.stateItem.Disable()
	t.stateItem.Hide()

	systray.AddSeparator()

	// Actions
	t.reconnectItem = systray.AddMenuItem("Reconnect", "Reconnect and show the status again")
	t.clearItem = systray.AddMenuItem("Clear presence", "Remove the status")
	t.clearItem.Disable()

	systray.AddSeparator()

	t.quitItem = systray.AddMenuItem("Quit", "Clear the status and quit")

	// Quit tray on SIGINT/SIGTERM
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigCh
		log.Printf("Received signal %v, shutting down...", sig)
		systray.Quit()
	}()

	go t.handleClicks()
}

func (t *trayApp) onQuit() {
	if err := t.opts.Controller.Disconnect(); err != nil {
		log.Printf("Failed to disconnect: %v", err)
	}
	log.Println("Tray stopped")
}

// handleClicks runs every IPC call on one goroutine, starting with the
// initial connect.
func (t *trayApp) handleClicks() {
	t.refresh(t.reconnect())

	for {
		select {
		case <-t.reconnectItem.ClickedCh:
			t.refresh(t.reconnect())

		case <-t.clearItem.ClickedCh:
			t.refresh(t.clear())

		case s := <-t.opts.SettingsUpdates:
			if t.applySettings(s) {
				t.refresh(t.reconnect())
			}

		case <-t.quitItem.ClickedCh:
			systray.Quit()
			return
		}
	}
}

// reconnect drops any session, connects again and re-pushes the last payload.
func (t *trayApp) reconnect() error {
	ctrl := t.opts.Controller
	t.statusItem.SetTitle("Connecting...")

	if err := ctrl.Disconnect(); err != nil {
		log.Printf("Failed to disconnect: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), t.opts.ConnectTimeout)
	err := ctrl.Connect(ctx, t.opts.ApplicationID)
	cancel()
	if err != nil {
		log.Printf("Failed to connect: %v", err)
		return err
	}

	if !t.last.Visible() {
		return nil
	}

	ctx, cancel = context.WithTimeout(context.Background(), t.opts.RequestTimeout)
	defer cancel()
	sent, err := ctrl.SetPresence(ctx, t.last)
	if err != nil {
		log.Printf("Failed to set presence: %v", err)
		return err
	}
	t.last = sent
	return nil
}

func (t *trayApp) clear() error {
	ctx, cancel := context.WithTimeout(context.Background(), t.opts.RequestTimeout)
	defer cancel()
	if err := t.opts.Controller.ClearPresence(ctx); err != nil {
		log.Printf("Failed to clear presence: %v", err)
		return err
	}
	t.last = models.Presence{}
	return nil
}

// refresh mirrors the controller into the menu.
func (t *trayApp) refresh(err error) {
	ctrl := t.opts.Controller
	shown := ctrl.Current()

	t.statusItem.SetTitle(formatStatus(ctrl.State(), ctrl.AccountName(), err))
	setLine(t.detailsItem, "Details", shown.Details)
	setLine(t.stateItem, "State", shown.State)
	systray.SetTooltip(formatTooltip(shown))

	if shown.Visible() {
		t.clearItem.Enable()
	} else {
		t.clearItem.Disable()
	}
}

func setLine(item *systray.MenuItem, label, value string) {
	if value == "" {
		item.Hide()
		return
	}
	item.SetTitle(formatLine(label, value))
	item.Show()
}

func formatStatus(state presence.State, account string, err error) string {
	if err != nil {
		return "⚠ " + ansi.Truncate(presence.UserMessage(err), maxItemWidth, "…")
	}
	if state != presence.Connected {
		return "○ Not connected"
	}
	if account == "" {
		return "● Connected"
	}
	return fmt.Sprintf("● Connected as %s", account)
}

func formatLine(label, value string) string {
	return ansi.Truncate(fmt.Sprintf("%s: %s", label, value), maxItemWidth, "…")
}

func formatTooltip(p models.Presence) string {
	switch {
	case p.Details != "" && p.State != "":
		return fmt.Sprintf("DigiRP: %s · %s", p.Details, p.State)
	case p.Details != "":
		return "DigiRP: " + p.Details
	case p.State != "":
		return "DigiRP: " + p.State
	default:
		return "DigiRP: no status"
	}
}
