package tui

import "github.com/charmbracelet/lipgloss"

// Colors using AdaptiveColor for light/dark terminal support.
var (
	colorWhite   = lipgloss.AdaptiveColor{Light: "0", Dark: "15"}
	colorDim     = lipgloss.AdaptiveColor{Light: "242", Dark: "240"}
	colorGreen   = lipgloss.AdaptiveColor{Light: "28", Dark: "40"}
	colorRed     = lipgloss.AdaptiveColor{Light: "160", Dark: "196"}
	colorYellow  = lipgloss.AdaptiveColor{Light: "136", Dark: "220"}
	colorCyan    = lipgloss.AdaptiveColor{Light: "30", Dark: "45"}
	colorBlurple = lipgloss.AdaptiveColor{Light: "#5865F2", Dark: "#7289DA"}
)

// Layout styles.
var (
	headerStyle = lipgloss.NewStyle().
			Bold(true)

	statusBarStyle = lipgloss.NewStyle().
			Foreground(colorWhite).
			Background(lipgloss.AdaptiveColor{Light: "235", Dark: "236"})
)

// Form styles.
var (
	formStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBlurple).
			Padding(1, 2)

	formLabelStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorWhite)

	previewStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorDim).
			Padding(0, 2)

	previewTitleStyle = lipgloss.NewStyle().
				Foreground(colorDim)

	previewLineStyle = lipgloss.NewStyle().
				Foreground(colorWhite)
)

// Connection badge styles.
var (
	badgeConnectedStyle    = lipgloss.NewStyle().Foreground(colorGreen).Bold(true)
	badgeDisconnectedStyle = lipgloss.NewStyle().Foreground(colorYellow).Bold(true)
	badgeBusyStyle         = lipgloss.NewStyle().Foreground(colorCyan)
)

// Overlay styles.
var (
	overlayStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorWhite).
			Padding(1, 2)

	overlayTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(colorWhite).
				MarginBottom(1)

	overlayDimStyle = lipgloss.NewStyle().
			Foreground(colorDim)
)

// Key hint styles for status bar.
var (
	keyStyle  = lipgloss.NewStyle().Bold(true).Foreground(colorWhite)
	hintStyle = lipgloss.NewStyle().Foreground(colorDim)
)
