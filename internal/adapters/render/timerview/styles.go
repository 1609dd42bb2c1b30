package timerview

import "github.com/charmbracelet/lipgloss"

type styles struct {
	title      lipgloss.Style
	header     lipgloss.Style
	running    lipgloss.Style
	paused     lipgloss.Style
	idle       lipgloss.Style
	elapsed    lipgloss.Style
	detail     lipgloss.Style
	warning    lipgloss.Style
	section    lipgloss.Style
	empty      lipgloss.Style
	entryID    lipgloss.Style
	meta       lipgloss.Style
	total      lipgloss.Style
	barBracket lipgloss.Style
	barFill    lipgloss.Style
	barEmpty   lipgloss.Style
}

func newStyles() styles {
	return styles{
		title:      lipgloss.NewStyle().Bold(true),
		header:     lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		running:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42")),
		paused:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214")),
		idle:       lipgloss.NewStyle().Faint(true),
		elapsed:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		detail:     lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		warning:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("203")),
		section:    lipgloss.NewStyle().MarginTop(1),
		empty:      lipgloss.NewStyle().Faint(true),
		entryID:    lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		meta:       lipgloss.NewStyle().Foreground(lipgloss.Color("250")),
		total:      lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("159")),
		barBracket: lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
		barFill:    lipgloss.NewStyle().Foreground(lipgloss.Color("159")),
		barEmpty:   lipgloss.NewStyle().Foreground(lipgloss.Color("238")),
	}
}
