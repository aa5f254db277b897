package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	quit        key.Binding
	nextVar     key.Binding
	prevVar     key.Binding
	filter      key.Binding
	copyDetails key.Binding
	apply       key.Binding
	cancel      key.Binding
	scrollDown  key.Binding
	scrollUp    key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		nextVar: key.NewBinding(
			key.WithKeys("]"),
			key.WithHelp("]", "next variable"),
		),
		prevVar: key.NewBinding(
			key.WithKeys("["),
			key.WithHelp("[", "prev variable"),
		),
		filter: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "filter"),
		),
		copyDetails: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "copy details"),
		),
		apply: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "apply"),
		),
		cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),
		scrollDown: key.NewBinding(
			key.WithKeys("pgdown", "J"),
			key.WithHelp("J", "scroll details"),
		),
		scrollUp: key.NewBinding(
			key.WithKeys("pgup", "K"),
			key.WithHelp("K", "scroll details up"),
		),
	}
}

func (k keyMap) help() []key.Binding {
	return []key.Binding{k.prevVar, k.nextVar, k.filter, k.copyDetails, k.scrollDown, k.quit}
}
