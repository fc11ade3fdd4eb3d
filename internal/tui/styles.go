package tui

import "github.com/charmbracelet/lipgloss"

var (
	colorSuccess = lipgloss.AdaptiveColor{Light: "2", Dark: "2"}
	colorError   = lipgloss.AdaptiveColor{Light: "1", Dark: "1"}
	colorPrimary = lipgloss.AdaptiveColor{Light: "5", Dark: "5"}
	colorInfo    = lipgloss.AdaptiveColor{Light: "6", Dark: "6"}
	colorMuted   = lipgloss.AdaptiveColor{Light: "8", Dark: "8"}
	colorWarning = lipgloss.AdaptiveColor{Light: "3", Dark: "3"}

	styleTitle    = lipgloss.NewStyle().Foreground(colorPrimary).Bold(true).Underline(true)
	styleSuccess  = lipgloss.NewStyle().Foreground(colorSuccess).Bold(true)
	styleError    = lipgloss.NewStyle().Foreground(colorError).Bold(true)
	styleInfo     = lipgloss.NewStyle().Foreground(colorInfo)
	styleMuted    = lipgloss.NewStyle().Foreground(colorMuted)
	styleBadge    = lipgloss.NewStyle().Foreground(colorWarning).Bold(true)
	styleSelected = lipgloss.NewStyle().Foreground(colorPrimary).Bold(true)
	styleName     = lipgloss.NewStyle().Bold(true)

	styleDialog = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorPrimary).
			Padding(1, 3)
)
