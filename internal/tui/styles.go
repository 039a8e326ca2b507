package tui

import "github.com/charmbracelet/lipgloss"

func ac(light, dark string) lipgloss.AdaptiveColor {
	return lipgloss.AdaptiveColor{Light: light, Dark: dark}
}

var (
	colorMuted  = ac("240", "243")
	colorAccent = ac("27", "62")
	colorWarn   = ac("130", "214")

	accentStyle    = lipgloss.NewStyle().Foreground(colorAccent)
	mutedStyle     = lipgloss.NewStyle().Foreground(colorMuted)
	userStyle      = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	statusStyle    = lipgloss.NewStyle().Foreground(colorWarn)
	ruleStyle      = lipgloss.NewStyle().Foreground(colorMuted)
	tabStyle       = lipgloss.NewStyle().Padding(0, 1).Foreground(colorMuted)
	activeTabStyle = lipgloss.NewStyle().Padding(0, 1).Bold(true).Underline(true).Foreground(colorAccent)
)
