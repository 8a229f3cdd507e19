package app

import (
	tea "charm.land/bubbletea/v2"

	"github.com/zhubert/tgterm/internal/logger"
	"github.com/zhubert/tgterm/internal/ui"
)

// Update handles messages and updates the model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateSizes()
		m.refresh()

	case tea.KeyPressMsg:
		cmds = append(cmds, m.handleKey(msg))
		m.refresh()

	case UpdateMsg:
		m.refresh()
		cmds = append(cmds, m.listenForUpdates())

	case FatalMsg:
		logger.WithComponent("app").Error("session ended", "error", msg.Err)
		m.err = msg.Err
		return m, tea.Quit

	default:
		if m.focus == FocusInput && m.mode == ModeInsert {
			var cmd tea.Cmd
			m.input, cmd = m.input.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	m.resizeInput()
	return m, tea.Batch(cmds...)
}

// handleKey dispatches a key through the handler table. Unbound keys in
// insert mode on the input go to the textarea; elsewhere they are ignored.
func (m *Model) handleKey(msg tea.KeyPressMsg) tea.Cmd {
	key := msg.String()
	m.status = ""

	if b, ok := m.lookupBinding(key); ok {
		logger.WithComponent("app").Debug("key", "key", key, "focus", m.focus.String(), "mode", m.mode.String())
		return b.Handler(m)
	}

	if m.focus != FocusInput || m.mode != ModeInsert {
		return nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.composer.SetBuffer(m.input.Value())
	return cmd
}

// updateSizes recalculates panel sizes from the terminal size.
func (m *Model) updateSizes() {
	ctx := ui.GetViewContext()
	ctx.UpdateTerminalSize(m.width, m.height)

	m.header.SetWidth(ctx.TerminalWidth)
	m.footer.SetWidth(ctx.TerminalWidth)
	m.input.SetWidth(max(ctx.InputWidth-ui.BorderSize-ui.InputPaddingWidth, 1))
	m.resizeInput()
}

// resizeInput gives a pending reply or edit label its line inside the
// input panel.
func (m *Model) resizeInput() {
	h := ui.TextareaHeight
	if m.composeLabel() != "" {
		h -= ui.ComposeLabelHeight
	}
	if m.input.Height() != h {
		m.input.SetHeight(h)
	}
}
