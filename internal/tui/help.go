package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type helpSection struct {
	title string
	keys  []helpKey
}

type helpKey struct {
	key  string
	desc string
}

var helpSections = []helpSection{
	{
		title: "Global",
		keys: []helpKey{
			{"Ctrl+q", "Quit (disconnects first)"},
			{"F1", "Toggle help"},
		},
	},
	{
		title: "Presence",
		keys: []helpKey{
			{"Tab ↑/↓", "Switch field"},
			{"Enter", "Push details and state"},
			{"Ctrl+x", "Clear fields and presence"},
			{"Ctrl+r", "Connect to the chat client"},
			{"Ctrl+o", "Disconnect"},
			{"Ctrl+t", "Cycle the timer shown under the lines"},
		},
	},
}

func renderHelp(width int) string {
	maxWidth := width - 10
	if maxWidth > 60 {
		maxWidth = 60
	}
	if maxWidth < 30 {
		maxWidth = 30
	}

	sections := []string{overlayTitleStyle.Render("Keyboard Shortcuts")}

	for _, sec := range helpSections {
		header := lipgloss.NewStyle().Bold(true).Foreground(colorCyan).Render(sec.title)
		sections = append(sections, "", header)

		for _, k := range sec.keys {
			keyCol := lipgloss.NewStyle().
				Width(14).
				Foreground(colorWhite).
				Bold(true).
				Render(k.key)
			descCol := lipgloss.NewStyle().
				Foreground(colorDim).
				Render(k.desc)
			sections = append(sections, "  "+keyCol+descCol)
		}
	}

	sections = append(sections, "",
		lipgloss.NewStyle().Foreground(colorDim).Render("The chat client must run as a desktop app;"),
		lipgloss.NewStyle().Foreground(colorDim).Render("browser tabs expose no IPC socket."),
		"",
		lipgloss.NewStyle().Foreground(colorDim).Render("Press Esc or F1 to close"))

	content := strings.Join(sections, "\n")
	return overlayStyle.Width(maxWidth).Render(content)
}
