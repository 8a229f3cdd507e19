package app

import (
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/zhubert/tgterm/internal/compose"
	"github.com/zhubert/tgterm/internal/store"
	"github.com/zhubert/tgterm/internal/ui"
	"github.com/zhubert/tgterm/internal/viewport"
)

// refresh lays out the selected conversation against the current box
// size, which also records how many messages fit and requests older
// history when the window runs short.
func (m *Model) refresh() {
	c, ok := m.chats.Selected()
	if !ok {
		m.window = viewport.Window{}
		m.loading, m.endOfHistory, m.atTop = false, false, false
		m.header.SetConversation("", "")
		return
	}

	w, h := ui.GetViewContext().ConversationBox()
	if m.width == 0 || h == 0 {
		// Nothing to lay out before the first WindowSizeMsg.
		m.header.SetConversation(c.Title, m.presence(c))
		return
	}
	m.window = viewport.Refresh(c, m.users, w, h, m.queue)

	_, m.loading = c.Inflight()
	m.endOfHistory = c.EndOfHistory()
	m.atTop = c.View().BottomOffset+m.window.Shown >= c.Len()
	m.header.SetConversation(c.Title, m.presence(c))
}

func (m *Model) presence(c *store.Conversation) string {
	peer, known := m.users.Get(c.PeerID)
	return ui.PresenceStatus(c.Kind, peer, known)
}

// composeLabel describes the pending reply or edit, if any.
func (m *Model) composeLabel() string {
	p := m.composer.Pending()
	switch p.Mode {
	case compose.ModeReplying:
		c, ok := m.chats.Get(p.ChatID)
		if !ok {
			return ""
		}
		target, ok := c.Get(p.TargetID)
		if !ok {
			return ui.ReplyLabel(store.UnknownName, "")
		}
		return ui.ReplyLabel(m.users.DisplayName(target.SenderID), target.Text)
	case compose.ModeEditing:
		return ui.EditLabel()
	}
	return ""
}

func (m *Model) chatItems() []ui.ChatItem {
	list := m.chats.List()
	items := make([]ui.ChatItem, len(list))
	for i, c := range list {
		items[i] = ui.ChatItem{Title: c.Title, Group: c.Kind == store.KindGroup}
	}
	return items
}

// View renders the UI
func (m *Model) View() tea.View {
	var v tea.View
	v.AltScreen = true
	v.SetContent(m.render())
	return v
}

func (m *Model) render() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	ctx := ui.GetViewContext()

	m.footer.SetMode(m.mode.String())
	m.footer.SetBindings(m.footerBindings())
	m.footer.SetStatus(m.status)

	chatList := ui.RenderChatList(m.chatItems(), m.chats.SelectedIndex(),
		ctx.ChatListWidth, ctx.PanelHeight, m.focus == FocusChatList)

	_, selected := m.chats.Selected()
	conversation := ui.RenderConversation(ui.ConversationView{
		Window:       m.window,
		ColorOf:      m.users.ColorOf,
		Loading:      m.loading,
		EndOfHistory: m.endOfHistory,
		AtTop:        m.atTop,
		Focused:      m.focus == FocusConversation,
		Empty:        !selected,
	}, ctx.ConversationWidth, ctx.PanelHeight)

	input := ui.RenderInput(ui.InputView{
		Editor:  m.input.View(),
		Label:   m.composeLabel(),
		Focused: m.focus == FocusInput,
	}, ctx.InputWidth)

	panels := lipgloss.JoinHorizontal(lipgloss.Top, chatList, conversation)
	return lipgloss.JoinVertical(lipgloss.Left,
		m.header.View(),
		panels,
		input,
		m.footer.View(),
	)
}
