package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/example/mistakebook/internal/stats"
)

// Lipgloss styles
var (
	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("51")).
			Bold(true).
			Padding(0, 1)

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("231")).
			Bold(true)

	categoryStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("33")).
			Background(lipgloss.Color("189")).
			Padding(0, 1)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("45"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))

	goodStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("46")).
			Bold(true)

	fairStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Bold(true)

	poorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	recordedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("33")).
			Background(lipgloss.Color("153")).
			Padding(0, 1)

	containerStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("238")).
			Padding(1, 2)

	footerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")).
			MarginTop(1)

	footerKeyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("51")).
			Bold(true)
)

// BandStyle returns the style for an accuracy band.
func BandStyle(b stats.Band) lipgloss.Style {
	switch b {
	case stats.Good:
		return goodStyle
	case stats.Fair:
		return fairStyle
	default:
		return poorStyle
	}
}

// Accuracy renders an accuracy percentage in its band colour.
func Accuracy(accuracy int) string {
	return BandStyle(stats.BandOf(accuracy)).Render(fmt.Sprintf("%d%%", accuracy))
}

func footerKey(key, desc string) string {
	return footerKeyStyle.Render(key) + " " + footerStyle.UnsetMarginTop().Render(desc)
}
