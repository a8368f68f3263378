package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgTick MsgKind = iota
	MsgDismiss
)

// toastTTL is how long a notification stays on screen.
const toastTTL = 3 * time.Second

// tickMsg is the constructor for [MsgTick]
func tickMsg(t time.Time) Msg {
	return Msg{kind: MsgTick, data: t}
}

// dismissMsg is the constructor for [MsgDismiss]; seq identifies the toast it expires.
func dismissMsg(seq int) Msg {
	return Msg{kind: MsgDismiss, data: seq}
}

func tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func dismissAfter(seq int) tea.Cmd {
	return tea.Tick(toastTTL, func(time.Time) tea.Msg { return dismissMsg(seq) })
}
