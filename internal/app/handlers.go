package app

import (
	tea "charm.land/bubbletea/v2"

	"github.com/zhubert/tgterm/internal/errors"
	"github.com/zhubert/tgterm/internal/logger"
	"github.com/zhubert/tgterm/internal/store"
	"github.com/zhubert/tgterm/internal/viewport"
)

// Status messages shown in the footer after an action.
const (
	statusCopied       = "copied message"
	statusNothingToAct = "no message selected"
)

func handleQuit(m *Model) tea.Cmd {
	logger.WithComponent("app").Info("quit requested")
	return tea.Quit
}

func handleCycleFocus(m *Model) tea.Cmd {
	return m.setFocus(m.focus.next())
}

// handleInsertMode switches to insert mode on the input panel, where
// typing reaches the compose buffer.
func handleInsertMode(m *Model) tea.Cmd {
	m.focus = FocusInput
	return m.setMode(ModeInsert)
}

func handleNormalMode(m *Model) tea.Cmd {
	return m.setMode(ModeNormal)
}

// withConversation runs fn on the selected conversation, if any.
func (m *Model) withConversation(fn func(c *store.Conversation)) {
	if c, ok := m.chats.Selected(); ok {
		fn(c)
	}
}

func (m *Model) moveChat(move func()) tea.Cmd {
	move()
	m.selectionChanged()
	return nil
}

func handleNextChat(m *Model) tea.Cmd {
	return m.moveChat(m.chats.Next)
}

func handlePrevChat(m *Model) tea.Cmd {
	return m.moveChat(m.chats.Prev)
}

// scroll applies a viewport movement and re-checks the pending compose
// target against the new selection.
func (m *Model) scroll(move func(c *store.Conversation)) tea.Cmd {
	m.withConversation(move)
	m.selectionChanged()
	return nil
}

func handleScrollNewer(m *Model) tea.Cmd {
	return m.scroll(viewport.ScrollNewer)
}

func handleScrollOlder(m *Model) tea.Cmd {
	return m.scroll(viewport.ScrollOlder)
}

func handlePageNewer(m *Model) tea.Cmd {
	return m.scroll(viewport.PageNewer)
}

func handlePageOlder(m *Model) tea.Cmd {
	return m.scroll(viewport.PageOlder)
}

func handleScrollToBottom(m *Model) tea.Cmd {
	return m.scroll(viewport.ScrollToBottom)
}

// selectedMessage returns the selected conversation and its selected
// message.
func (m *Model) selectedMessage() (*store.Conversation, store.Message, bool) {
	c, ok := m.chats.Selected()
	if !ok {
		return nil, store.Message{}, false
	}
	msg, ok := c.Selected()
	return c, msg, ok
}

func handleReply(m *Model) tea.Cmd {
	c, msg, ok := m.selectedMessage()
	if !ok {
		m.status = statusNothingToAct
		return nil
	}
	m.composer.BeginReply(c.ID, msg)
	return handleInsertMode(m)
}

func handleEdit(m *Model) tea.Cmd {
	c, msg, ok := m.selectedMessage()
	if !ok {
		m.status = statusNothingToAct
		return nil
	}
	if err := m.composer.BeginEdit(c.ID, msg); err != nil {
		logger.WithChat(c.ID).Debug("edit refused", "messageID", msg.ID, "error", err)
		m.status = errors.UserMessage(err)
		return nil
	}
	m.syncInput()
	return handleInsertMode(m)
}

func handleYank(m *Model) tea.Cmd {
	_, msg, ok := m.selectedMessage()
	if !ok {
		m.status = statusNothingToAct
		return nil
	}
	if err := m.copy(msg.Text); err != nil {
		logger.WithComponent("app").Warn("copy failed", "error", err)
		m.status = "copy failed: " + errors.UserMessage(err)
		return nil
	}
	m.status = statusCopied
	return nil
}

// handleCancel drops a pending reply or edit.
func handleCancel(m *Model) tea.Cmd {
	m.composer.Cancel()
	m.syncInput()
	return nil
}

// handleSubmit sends the compose buffer to the selected conversation and
// jumps to its newest message.
func handleSubmit(m *Model) tea.Cmd {
	c, ok := m.chats.Selected()
	if !ok {
		m.status = statusNothingToAct
		return nil
	}
	m.composer.SetBuffer(m.input.Value())
	if m.composer.Submit(c.ID, m.queue) {
		viewport.ScrollToBottom(c)
	}
	m.input.Reset()
	return nil
}
