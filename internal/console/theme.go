package console

import "github.com/charmbracelet/lipgloss"

// Theme holds the styles used for headings and banners.
type Theme struct {
	Primary lipgloss.Color
	Success lipgloss.Color
	Danger  lipgloss.Color

	HeadingStyle lipgloss.Style
	BannerStyle  lipgloss.Style
	ErrorStyle   lipgloss.Style
}

// NewTheme returns the amber terminal theme with styles bound to r, so the
// renderer's color profile decides whether escape sequences are emitted.
func NewTheme(r *lipgloss.Renderer) *Theme {
	theme := &Theme{
		Primary: lipgloss.Color("#FFD966"),
		Success: lipgloss.Color("#FFB000"),
		Danger:  lipgloss.Color("#FF5F5F"),
	}

	theme.HeadingStyle = r.NewStyle().
		Foreground(theme.Primary).
		Bold(true).
		Underline(true)

	theme.BannerStyle = r.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Success).
		Padding(0, 1)

	theme.ErrorStyle = theme.BannerStyle.
		BorderForeground(theme.Danger)

	return theme
}
