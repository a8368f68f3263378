package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
type keyMap struct {
	dashboard key.Binding
	form      key.Binding
	table     key.Binding
	search    key.Binding
	settings  key.Binding
	next      key.Binding
	prev      key.Binding
	submit    key.Binding
	reset     key.Binding
	edit      key.Binding
	remove    key.Binding
	export    key.Binding
	theme     key.Binding
	clear     key.Binding
	yes       key.Binding
	no        key.Binding
	quit      key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		dashboard: key.NewBinding(key.WithKeys("f1"), key.WithHelp("F1", "dashboard")),
		form:      key.NewBinding(key.WithKeys("f2"), key.WithHelp("F2", "tambah")),
		table:     key.NewBinding(key.WithKeys("f3"), key.WithHelp("F3", "data")),
		search:    key.NewBinding(key.WithKeys("f4"), key.WithHelp("F4", "cari")),
		settings:  key.NewBinding(key.WithKeys("f5"), key.WithHelp("F5", "pengaturan")),
		next:      key.NewBinding(key.WithKeys("tab", "down"), key.WithHelp("tab", "next field")),
		prev:      key.NewBinding(key.WithKeys("shift+tab", "up"), key.WithHelp("shift+tab", "prev field")),
		submit:    key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "simpan")),
		reset:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "reset")),
		edit:      key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
		remove:    key.NewBinding(key.WithKeys("d", "delete"), key.WithHelp("d", "hapus")),
		export:    key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "pdf")),
		theme:     key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "tema")),
		clear:     key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "hapus semua")),
		yes:       key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "ya")),
		no:        key.NewBinding(key.WithKeys("n", "esc"), key.WithHelp("n", "batal")),
		quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) pages() []key.Binding {
	return []key.Binding{k.dashboard, k.form, k.table, k.search, k.settings}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		k.pages(),
		{k.next, k.prev, k.submit, k.reset},
		{k.edit, k.remove, k.export},
		{k.theme, k.clear, k.quit},
	}
}
