package ui

import "github.com/charmbracelet/lipgloss"

// theme holds the styles of one display mode. Ink mode drops colour, which
// e-ink terminals render as muddy grey.
type theme struct {
	status    lipgloss.Style
	controls  lipgloss.Style
	notice    lipgloss.Style
	date      lipgloss.Style
	book      lipgloss.Style
	article   lipgloss.Style
	current   lipgloss.Style
	cursor    lipgloss.Style
	separator lipgloss.Style
	indicator lipgloss.Style
	missing   lipgloss.Style
}

var colorTheme = theme{
	status: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#888888")).
		Padding(0, 1),

	controls: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#666666")).
		Italic(true),

	notice: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#FFAA00")).
		Bold(true),

	date: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#00AAFF")).
		Bold(true),

	book: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#FFFFFF")),

	article: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#AAAAAA")),

	current: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#00FF00")).
		Bold(true),

	cursor: lipgloss.NewStyle().
		Reverse(true),

	separator: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#444444")),

	indicator: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#FF0000")),

	missing: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#FF5555")).
		Italic(true),
}

var inkTheme = theme{
	status:    lipgloss.NewStyle().Padding(0, 1),
	controls:  lipgloss.NewStyle(),
	notice:    lipgloss.NewStyle().Bold(true),
	date:      lipgloss.NewStyle().Bold(true),
	book:      lipgloss.NewStyle(),
	article:   lipgloss.NewStyle(),
	current:   lipgloss.NewStyle().Bold(true).Underline(true),
	cursor:    lipgloss.NewStyle().Reverse(true),
	separator: lipgloss.NewStyle(),
	indicator: lipgloss.NewStyle(),
	missing:   lipgloss.NewStyle().Italic(true),
}

func themeFor(ink bool) *theme {
	if ink {
		return &inkTheme
	}
	return &colorTheme
}
