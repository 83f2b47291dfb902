// Package styles provides shared lipgloss styles for CLI and TUI components.
package styles

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/colonyops/taskstream/internal/core/workitem"
)

// Semantic palette, tokyo-night.
var (
	ColorPrimary    = lipgloss.Color("#7aa2f7")
	ColorSecondary  = lipgloss.Color("#7dcfff")
	ColorForeground = lipgloss.Color("#c0caf5")
	ColorMuted      = lipgloss.Color("#565f89")
	ColorSurface    = lipgloss.Color("#3b4261")
	ColorSuccess    = lipgloss.Color("#9ece6a")
	ColorWarning    = lipgloss.Color("#e0af68")
	ColorError      = lipgloss.Color("#f7768e")
)

var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary)

	StatusBarStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	HelpStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorError)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(ColorSuccess)
)

// statusColors maps lifecycle states to palette colors.
var statusColors = map[workitem.Status]lipgloss.Color{
	workitem.StatusTodo:        ColorMuted,
	workitem.StatusInProgress:  ColorSecondary,
	workitem.StatusUnderReview: ColorWarning,
	workitem.StatusRework:      ColorError,
	workitem.StatusDone:        ColorSuccess,
}

// StatusStyle returns a foreground style for the given lifecycle state.
func StatusStyle(s workitem.Status) lipgloss.Style {
	c, ok := statusColors[s]
	if !ok {
		c = ColorForeground
	}
	return lipgloss.NewStyle().Foreground(c)
}
