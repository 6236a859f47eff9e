package tui

import "github.com/digirp/digirp/internal/models"

// ConnectedMsg signals a live session with the chat client.
type ConnectedMsg struct {
	ApplicationID string
	Account       string
}

// DisconnectedMsg signals the session was released on request.
type DisconnectedMsg struct{}

// PresenceSetMsg signals the chat client accepted a payload.
type PresenceSetMsg struct {
	Sent    models.Presence
	Clipped bool
	Account string
}

// PresenceClearedMsg signals the displayed payload was removed.
type PresenceClearedMsg struct{}

// ErrorMsg carries an error to display. Connected mirrors the controller
// state after the failure.
type ErrorMsg struct {
	Err       error
	Connected bool
}

// SettingsChangedMsg carries settings reloaded from disk.
type SettingsChangedMsg struct {
	Settings *models.Settings
}

// ClearErrorMsg clears the error display.
type ClearErrorMsg struct{}

// ClearNoticeMsg clears the notice indicator.
type ClearNoticeMsg struct{}
