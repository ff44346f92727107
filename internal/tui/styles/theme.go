package styles

import (
	"github.com/allbin/lightbridge/internal/tui/colors"
	"github.com/charmbracelet/lipgloss"
)

var (
	// Header styles
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colors.Mauve).
			Background(colors.Surface0).
			Padding(0, 1)

	// Reply styles
	ReplyOKStyle = lipgloss.NewStyle().
			Foreground(colors.Green).
			Bold(true)

	ReplyErrorStyle = lipgloss.NewStyle().
			Foreground(colors.Red).
			Bold(true)

	// Content area styles
	ContentBorderStyle = lipgloss.NewStyle().
				BorderTop(true).
				BorderStyle(lipgloss.NormalBorder()).
				BorderForeground(colors.Surface1)

	// Input styles
	InputStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colors.Surface2).
			Padding(0, 1)

	// Error styles
	ErrorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colors.Red).
			Align(lipgloss.Center)

	// Info styles
	InfoStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colors.Mauve).
			Align(lipgloss.Center)
)
