// Package render draws workspace views for the terminal.
package render

import "github.com/charmbracelet/lipgloss"

func ac(light, dark string) lipgloss.AdaptiveColor {
	return lipgloss.AdaptiveColor{Light: light, Dark: dark}
}

var (
	colorMuted  = ac("240", "243")
	colorAccent = ac("27", "62")
	colorGood   = ac("28", "42")
	colorWarn   = ac("130", "214")
	colorBad    = ac("160", "203")
	colorBorder = ac("250", "238")

	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(colorMuted)
	mutedStyle   = lipgloss.NewStyle().Foreground(colorMuted)
	goodStyle    = lipgloss.NewStyle().Foreground(colorGood)
	warnStyle    = lipgloss.NewStyle().Foreground(colorWarn)
	badStyle     = lipgloss.NewStyle().Foreground(colorBad)
	cardStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorBorder).Padding(0, 1)
	sectionStyle = lipgloss.NewStyle().MarginBottom(1)
)

func priorityStyle(p string) lipgloss.Style {
	switch p {
	case "high":
		return badStyle
	case "medium":
		return warnStyle
	default:
		return goodStyle
	}
}

func statusDot(status string) string {
	switch status {
	case "online":
		return goodStyle.Render("●")
	case "busy":
		return warnStyle.Render("●")
	default:
		return mutedStyle.Render("●")
	}
}

// pad truncates or right-pads s to width cells.
func pad(s string, width int) string {
	if lipgloss.Width(s) > width {
		r := []rune(s)
		for len(r) > 0 && lipgloss.Width(string(r))+1 > width {
			r = r[:len(r)-1]
		}
		return string(r) + "…"
	}
	return lipgloss.NewStyle().Width(width).Render(s)
}
