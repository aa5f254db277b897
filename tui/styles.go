package tui

import "github.com/charmbracelet/lipgloss"

type styles struct {
	topBar, title, status lipgloss.Style
	panel, panelTitle     lipgloss.Style
	errorText, hint       lipgloss.Style
}

func newStyles() styles {
	base := lipgloss.NewStyle()

	return styles{
		topBar:     base.Padding(0, 1),
		title:      base.Bold(true),
		status:     base.Faint(true),
		panel:      base.BorderStyle(lipgloss.NormalBorder()),
		panelTitle: base.Bold(true).Padding(0, 1),
		errorText:  base.Foreground(lipgloss.Color("9")),
		hint:       base.Faint(true).Padding(0, 1),
	}
}
