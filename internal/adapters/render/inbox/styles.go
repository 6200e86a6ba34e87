package inbox

import "github.com/charmbracelet/lipgloss"

type styles struct {
	title    lipgloss.Style
	header   lipgloss.Style
	sender   lipgloss.Style
	unread   lipgloss.Style
	role     lipgloss.Style
	subject  lipgloss.Style
	preview  lipgloss.Style
	when     lipgloss.Style
	section  lipgloss.Style
	empty    lipgloss.Style
	incoming lipgloss.Style
	outgoing lipgloss.Style
	body     lipgloss.Style
	draft    lipgloss.Style
}

func newStyles() styles {
	return styles{
		title:    lipgloss.NewStyle().Bold(true),
		header:   lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		sender:   lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		unread:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		role:     lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		subject:  lipgloss.NewStyle().Foreground(lipgloss.Color("250")),
		preview:  lipgloss.NewStyle().Faint(true),
		when:     lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
		section:  lipgloss.NewStyle().MarginTop(1),
		empty:    lipgloss.NewStyle().Faint(true),
		incoming: lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		outgoing: lipgloss.NewStyle().Foreground(lipgloss.Color("159")),
		body:     lipgloss.NewStyle().PaddingLeft(2),
		draft:    lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("245")),
	}
}
