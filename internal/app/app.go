// Package app is the Bubble Tea program: it owns focus, input mode and the
// composer, and renders the shared chat state that the network worker
// keeps up to date.
package app

import (
	"context"

	"charm.land/bubbles/v2/textarea"
	tea "charm.land/bubbletea/v2"

	"github.com/zhubert/tgterm/internal/clipboard"
	"github.com/zhubert/tgterm/internal/compose"
	"github.com/zhubert/tgterm/internal/logger"
	"github.com/zhubert/tgterm/internal/protocol"
	"github.com/zhubert/tgterm/internal/store"
	"github.com/zhubert/tgterm/internal/ui"
	"github.com/zhubert/tgterm/internal/viewport"
)

// Pusher accepts outgoing requests.
type Pusher interface {
	Push(protocol.Request)
}

// Waiter blocks until the worker has applied new state.
type Waiter interface {
	Wait(ctx context.Context) bool
}

// Deps are the shared pieces the model reads from and writes to.
type Deps struct {
	Chats  *store.Chats
	Users  *store.Participants
	Queue  Pusher
	Signal Waiter
	// Copy writes text to the system clipboard. Defaults to clipboard.WriteText.
	Copy    func(string) error
	Version string
}

// UpdateMsg reports that the worker applied events since the last render.
type UpdateMsg struct{}

// FatalMsg ends the program with Err.
type FatalMsg struct {
	Err error
}

// Model is the main Bubble Tea model
type Model struct {
	ctx     context.Context
	chats   *store.Chats
	users   *store.Participants
	queue   Pusher
	signal  Waiter
	copy    func(string) error
	version string

	header   *ui.Header
	footer   *ui.Footer
	input    textarea.Model
	composer *compose.Composer

	width  int
	height int
	focus  Focus
	mode   Mode

	// window is the conversation as last laid out by refresh
	window       viewport.Window
	loading      bool
	endOfHistory bool
	atTop        bool

	// status is a one-shot footer message, cleared on the next key
	status string
	err    error
}

// New creates the model. ctx bounds the update listener.
func New(ctx context.Context, deps Deps) *Model {
	ti := textarea.New()
	ti.Placeholder = "Write a message..."
	ti.CharLimit = ui.InputCharLimit
	ti.SetHeight(ui.TextareaHeight)
	ti.ShowLineNumbers = false
	ti.Prompt = ""

	cp := deps.Copy
	if cp == nil {
		cp = clipboard.WriteText
	}

	return &Model{
		ctx:      ctx,
		chats:    deps.Chats,
		users:    deps.Users,
		queue:    deps.Queue,
		signal:   deps.Signal,
		copy:     cp,
		version:  deps.Version,
		header:   ui.NewHeader(),
		footer:   ui.NewFooter(),
		input:    ti,
		composer: compose.New(),
		focus:    FocusChatList,
		mode:     ModeNormal,
	}
}

// Init starts listening for state updates from the worker.
func (m *Model) Init() tea.Cmd {
	logger.WithComponent("app").Info("starting UI", "version", m.version)
	return m.listenForUpdates()
}

// listenForUpdates waits for the next update signal. It returns nil once
// the context is done so the listener chain ends quietly.
func (m *Model) listenForUpdates() tea.Cmd {
	if m.signal == nil {
		return nil
	}
	return func() tea.Msg {
		if !m.signal.Wait(m.ctx) {
			return nil
		}
		return UpdateMsg{}
	}
}

// Err returns the error that ended the program, if any.
func (m *Model) Err() error {
	return m.err
}

func (m *Model) Focus() Focus {
	return m.focus
}

func (m *Model) Mode() Mode {
	return m.mode
}

// setFocus moves focus and keeps the textarea cursor in step with it.
func (m *Model) setFocus(f Focus) tea.Cmd {
	m.focus = f
	if f == FocusInput && m.mode == ModeInsert {
		return m.input.Focus()
	}
	m.input.Blur()
	return nil
}

func (m *Model) setMode(mode Mode) tea.Cmd {
	m.mode = mode
	return m.setFocus(m.focus)
}

// syncInput copies the composer buffer into the textarea.
func (m *Model) syncInput() {
	if m.input.Value() != m.composer.Buffer() {
		m.input.SetValue(m.composer.Buffer())
	}
}

// selectionChanged tells the composer where the selection is now.
func (m *Model) selectionChanged() {
	c, ok := m.chats.Selected()
	if !ok {
		m.composer.SelectionChanged(0, 0)
		m.syncInput()
		return
	}
	sel, _ := c.Selected()
	m.composer.SelectionChanged(c.ID, sel.ID)
	m.syncInput()
}
