package app

import (
	tea "charm.land/bubbletea/v2"

	"github.com/zhubert/tgterm/internal/keys"
	"github.com/zhubert/tgterm/internal/ui"
)

// Focus is the panel that receives key presses.
type Focus int

const (
	FocusChatList Focus = iota
	FocusConversation
	FocusInput
)

func (f Focus) String() string {
	switch f {
	case FocusChatList:
		return "chat list"
	case FocusConversation:
		return "conversation"
	case FocusInput:
		return "input"
	default:
		return "unknown"
	}
}

// next is the Tab order: chat list, conversation, input, and around.
func (f Focus) next() Focus {
	return (f + 1) % 3
}

// Mode is the vi-like input mode.
type Mode int

const (
	ModeNormal Mode = iota
	ModeInsert
)

func (m Mode) String() string {
	if m == ModeInsert {
		return "INSERT"
	}
	return "NORMAL"
}

// Binding is one entry of the key handler table.
type Binding struct {
	Key         string
	DisplayKey  string // defaults to Key
	Description string
	Handler     func(m *Model) tea.Cmd
	// Hidden bindings work but are left out of the footer.
	Hidden bool
}

func (b Binding) display() string {
	if b.DisplayKey != "" {
		return b.DisplayKey
	}
	return b.Key
}

// handlerKey selects a row of the handler table.
type handlerKey struct {
	focus Focus
	mode  Mode
}

// globalBindings apply in every focus and mode.
var globalBindings = []Binding{
	{Key: keys.F1, Description: "quit", Handler: handleQuit},
	{Key: keys.CtrlC, Handler: handleQuit, Hidden: true},
}

var focusBinding = Binding{Key: keys.Tab, Description: "focus", Handler: handleCycleFocus}
var insertBinding = Binding{Key: "i", Description: "insert", Handler: handleInsertMode}
var normalBinding = Binding{Key: keys.Escape, Description: "normal", Handler: handleNormalMode}

// handlerTable maps (focus, mode) to the keys handled there. Keys not in
// the row fall through: to the textarea in insert mode on the input, and
// nowhere otherwise.
var handlerTable = map[handlerKey][]Binding{
	{FocusChatList, ModeNormal}: {
		focusBinding,
		insertBinding,
		{Key: "j", DisplayKey: "j/k", Description: "next/prev chat", Handler: handleNextChat},
		{Key: "k", Handler: handlePrevChat, Hidden: true},
		{Key: keys.Down, Handler: handleNextChat, Hidden: true},
		{Key: keys.Up, Handler: handlePrevChat, Hidden: true},
	},
	{FocusConversation, ModeNormal}: {
		focusBinding,
		insertBinding,
		{Key: "j", DisplayKey: "j/k", Description: "newer/older", Handler: handleScrollNewer},
		{Key: "k", Handler: handleScrollOlder, Hidden: true},
		{Key: keys.Down, Handler: handleScrollNewer, Hidden: true},
		{Key: keys.Up, Handler: handleScrollOlder, Hidden: true},
		{Key: keys.CtrlF, DisplayKey: "ctrl+f/b", Description: "page", Handler: handlePageNewer},
		{Key: keys.CtrlB, Handler: handlePageOlder, Hidden: true},
		{Key: keys.PgDown, Handler: handlePageNewer, Hidden: true},
		{Key: keys.PgUp, Handler: handlePageOlder, Hidden: true},
		{Key: "G", Description: "latest", Handler: handleScrollToBottom},
		{Key: "r", Description: "reply", Handler: handleReply},
		{Key: "e", Description: "edit", Handler: handleEdit},
		{Key: "y", Description: "copy", Handler: handleYank},
		{Key: keys.Escape, Handler: handleCancel, Hidden: true},
	},
	{FocusInput, ModeNormal}: {
		focusBinding,
		insertBinding,
		{Key: keys.Escape, Description: "cancel", Handler: handleCancel},
	},
	{FocusChatList, ModeInsert}: {
		normalBinding,
	},
	{FocusConversation, ModeInsert}: {
		normalBinding,
	},
	{FocusInput, ModeInsert}: {
		{Key: keys.Enter, Description: "send", Handler: handleSubmit},
		normalBinding,
	},
}

// lookupBinding finds the handler for key in the current context.
func (m *Model) lookupBinding(key string) (Binding, bool) {
	for _, b := range globalBindings {
		if b.Key == key {
			return b, true
		}
	}
	for _, b := range handlerTable[handlerKey{m.focus, m.mode}] {
		if b.Key == key {
			return b, true
		}
	}
	return Binding{}, false
}

// footerBindings lists the visible bindings of the current context.
func (m *Model) footerBindings() []ui.KeyBinding {
	var out []ui.KeyBinding
	for _, b := range handlerTable[handlerKey{m.focus, m.mode}] {
		if !b.Hidden {
			out = append(out, ui.KeyBinding{Key: b.display(), Desc: b.Description})
		}
	}
	for _, b := range globalBindings {
		if !b.Hidden {
			out = append(out, ui.KeyBinding{Key: b.display(), Desc: b.Description})
		}
	}
	return out
}
