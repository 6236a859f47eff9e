package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/digirp/digirp/internal/presence"
)

// confirmMode values.
const (
	confirmNone  = 0
	confirmClear = 1
	confirmQuit  = 2
)

func renderStatusBar(m *Model, width int) string {
	// Handle confirm mode
	if m.confirmMode == confirmClear {
		return renderConfirmBar("Clear fields and presence? (y/n)", width)
	}
	if m.confirmMode == confirmQuit {
		return renderConfirmBar("Presence is live. Disconnect and quit? (y/n)", width)
	}

	// Error display
	if m.err != nil {
		return renderErrorBar(presence.UserMessage(m.err), width)
	}

	// Notice
	if m.notice != "" {
		return renderNoticeBar(m.notice, width)
	}

	left := " " + getKeyHints(m)

	right := ""
	if m.appID != "" {
		right = hintStyle.Render("app "+m.appID) + " "
	}

	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}

	return statusBarStyle.Width(width).Render(left + strings.Repeat(" ", gap) + right)
}

func getKeyHints(m *Model) string {
	if m.activeOverlay != overlayNone {
		return keyHint("Esc", "close")
	}

	hints := keyHint("Enter", "update") + "  " + keyHint("Ctrl+x", "clear")
	if m.connected {
		hints += "  " + keyHint("Ctrl+o", "disconnect")
	} else {
		hints += "  " + keyHint("Ctrl+r", "connect")
	}
	return hints + "  " + keyHint("F1", "help") + "  " + keyHint("Ctrl+q", "quit")
}

func keyHint(k, desc string) string {
	if k == "" {
		return hintStyle.Render(desc)
	}
	return keyStyle.Render(k) + " " + hintStyle.Render(desc)
}

func renderConfirmBar(msg string, width int) string {
	return statusBarStyle.
		Background(colorYellow).
		Foreground(lipgloss.AdaptiveColor{Light: "0", Dark: "0"}).
		Width(width).
		Render(" " + msg)
}

func renderErrorBar(msg string, width int) string {
	return statusBarStyle.
		Background(colorRed).
		Width(width).
		Render(" " + msg)
}

func renderNoticeBar(msg string, width int) string {
	return statusBarStyle.
		Width(width).
		Render(" " + lipgloss.NewStyle().Foreground(colorGreen).Render(msg))
}
