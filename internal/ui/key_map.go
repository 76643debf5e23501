package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
//
// Single-letter bindings only fire while no text input has focus.
type keyMap struct {
	profile key.Binding
	upload  key.Binding
	stream  key.Binding
	search  key.Binding
	logout  key.Binding
	back    key.Binding
	enter   key.Binding
	blur    key.Binding
	quit    key.Binding
	abort   key.Binding

	// profile view
	follow      key.Binding
	unfollow    key.Binding
	ban         key.Binding
	unban       key.Binding
	like        key.Binding
	unlike      key.Binding
	deletePhoto key.Binding
	nextPhoto   key.Binding
	prevPhoto   key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		profile: key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "profile")),
		upload:  key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "upload")),
		stream:  key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "stream")),
		search:  key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		logout:  key.NewBinding(key.WithKeys("L"), key.WithHelp("L", "logout")),
		back:    key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "back")),
		enter:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")),
		blur:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "leave input")),
		quit:    key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
		abort:   key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),

		follow:      key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "follow")),
		unfollow:    key.NewBinding(key.WithKeys("F"), key.WithHelp("F", "unfollow")),
		ban:         key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "ban")),
		unban:       key.NewBinding(key.WithKeys("X"), key.WithHelp("X", "unban")),
		like:        key.NewBinding(key.WithKeys("+"), key.WithHelp("+", "like")),
		unlike:      key.NewBinding(key.WithKeys("-"), key.WithHelp("-", "unlike")),
		deletePhoto: key.NewBinding(key.WithKeys("D"), key.WithHelp("D", "delete photo")),
		nextPhoto:   key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j", "next photo")),
		prevPhoto:   key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k", "previous photo")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.profile, k.stream, k.search, k.upload},
		{k.back, k.logout, k.enter, k.blur},
		{k.follow, k.unfollow, k.ban, k.unban},
		{k.nextPhoto, k.prevPhoto, k.like, k.unlike, k.deletePhoto},
		{k.quit, k.abort},
	}
}

func (k keyMap) navHelp() []key.Binding {
	return []key.Binding{k.profile, k.stream, k.search, k.upload, k.back, k.logout, k.quit}
}

func (k keyMap) profileHelp() []key.Binding {
	return []key.Binding{k.follow, k.unfollow, k.ban, k.unban, k.nextPhoto, k.like, k.unlike, k.deletePhoto}
}
