package dashboard

import "github.com/charmbracelet/lipgloss"

type styles struct {
	title      lipgloss.Style
	header     lipgloss.Style
	section    lipgloss.Style
	heading    lipgloss.Style
	empty      lipgloss.Style
	card       lipgloss.Style
	cardLabel  lipgloss.Style
	cardValue  lipgloss.Style
	cardMeta   lipgloss.Style
	rowLabel   lipgloss.Style
	rowValue   lipgloss.Style
	rank       lipgloss.Style
	tableHead  lipgloss.Style
	pageActive lipgloss.Style
	pageIdle   lipgloss.Style
	barBracket lipgloss.Style
	barFill    lipgloss.Style
	barEmpty   lipgloss.Style
	fresh      lipgloss.Style
	stale      lipgloss.Style
	failed     lipgloss.Style
}

func newStyles() styles {
	return styles{
		title:      lipgloss.NewStyle().Bold(true),
		header:     lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		section:    lipgloss.NewStyle().MarginTop(1),
		heading:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("141")),
		empty:      lipgloss.NewStyle().Faint(true),
		card:       lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("99")).Padding(0, 1).MarginRight(1),
		cardLabel:  lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		cardValue:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("255")),
		cardMeta:   lipgloss.NewStyle().Foreground(lipgloss.Color("250")),
		rowLabel:   lipgloss.NewStyle().Foreground(lipgloss.Color("250")),
		rowValue:   lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		rank:       lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("213")),
		tableHead:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("245")),
		pageActive: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("141")),
		pageIdle:   lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		barBracket: lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
		barFill:    lipgloss.NewStyle().Foreground(lipgloss.Color("141")),
		barEmpty:   lipgloss.NewStyle().Foreground(lipgloss.Color("238")),
		fresh:      lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42")),
		stale:      lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214")),
		failed:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("203")),
	}
}
