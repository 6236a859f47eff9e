package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/digirp/digirp/internal/buildinfo"
)

func renderHeader(m *Model, width int) string {
	dot := lipgloss.NewStyle().Foreground(colorBlurple).Render("●")
	name := lipgloss.NewStyle().Bold(true).Render("DigiRP")
	version := lipgloss.NewStyle().Foreground(colorDim).Render(buildinfo.Version)

	left := fmt.Sprintf(" %s %s %s", dot, name, version)
	right := renderConnectionBadge(m) + " "

	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}

	return headerStyle.Width(width).Render(left + strings.Repeat(" ", gap) + right)
}

func renderConnectionBadge(m *Model) string {
	switch {
	case m.busy:
		return badgeBusyStyle.Render("◌ Working...")
	case m.connected && m.account != "":
		return badgeConnectedStyle.Render("● Connected as " + m.account)
	case m.connected:
		return badgeConnectedStyle.Render("● Connected")
	default:
		return badgeDisconnectedStyle.Render("○ Disconnected")
	}
}
