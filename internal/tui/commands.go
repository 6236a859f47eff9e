package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/digirp/digirp/internal/models"
	"github.com/digirp/digirp/internal/presence"
)

func connectCmd(ctrl *presence.Controller, appID string, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		if err := ctrl.Connect(ctx, appID); err != nil {
			return errorMsg(ctrl, err)
		}
		return ConnectedMsg{ApplicationID: appID, Account: ctrl.AccountName()}
	}
}

// connectAndSetCmd connects first when needed, then pushes p.
func connectAndSetCmd(ctrl *presence.Controller, appID string, p models.Presence, connectTimeout, requestTimeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		if ctrl.State() != presence.Connected {
			if msg, failed := connectCmd(ctrl, appID, connectTimeout)().(ErrorMsg); failed {
				return msg
			}
		}
		return setPresenceCmd(ctrl, p, requestTimeout)()
	}
}

func setPresenceCmd(ctrl *presence.Controller, p models.Presence, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		sent, err := ctrl.SetPresence(ctx, p)
		if err != nil {
			return errorMsg(ctrl, err)
		}
		return PresenceSetMsg{Sent: sent, Clipped: !sent.SameLines(p), Account: ctrl.AccountName()}
	}
}

// switchApplicationCmd moves the session to a new identifier and shows p on
// it again when show is set.
func switchApplicationCmd(ctrl *presence.Controller, appID string, p models.Presence, show bool, connectTimeout, requestTimeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		msg := connectCmd(ctrl, appID, connectTimeout)()
		if _, failed := msg.(ErrorMsg); failed || !show {
			return msg
		}
		return setPresenceCmd(ctrl, p, requestTimeout)()
	}
}

func clearPresenceCmd(ctrl *presence.Controller, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		if err := ctrl.ClearPresence(ctx); err != nil {
			return errorMsg(ctrl, err)
		}
		return PresenceClearedMsg{}
	}
}

func disconnectCmd(ctrl *presence.Controller) tea.Cmd {
	return func() tea.Msg {
		if err := ctrl.Disconnect(); err != nil {
			return errorMsg(ctrl, err)
		}
		return DisconnectedMsg{}
	}
}

// disconnectAndQuitCmd releases the session before the program exits.
func disconnectAndQuitCmd(ctrl *presence.Controller) tea.Cmd {
	return func() tea.Msg {
		_ = ctrl.Disconnect()
		return tea.Quit()
	}
}

func errorMsg(ctrl *presence.Controller, err error) ErrorMsg {
	return ErrorMsg{Err: err, Connected: ctrl.State() == presence.Connected}
}

func clearErrorAfter(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(_ time.Time) tea.Msg {
		return ClearErrorMsg{}
	})
}

func clearNoticeAfter(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(_ time.Time) tea.Msg {
		return ClearNoticeMsg{}
	})
}
