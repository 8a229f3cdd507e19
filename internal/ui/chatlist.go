package ui

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// ChatListTitle heads the chat list panel.
const ChatListTitle = "Chats"

// ChatItem is one row of the chat list.
type ChatItem struct {
	Title string
	Group bool
}

// chatListOffset returns the first row to draw so that selected stays
// within rows visible lines.
func chatListOffset(selected, count, rows int) int {
	if rows <= 0 || selected < rows {
		return 0
	}
	return min(selected-rows+1, max(count-rows, 0))
}

// RenderChatList draws the chat titles in registry order inside a
// width x height panel, highlighting selected.
func RenderChatList(items []ChatItem, selected, width, height int, focused bool) string {
	inner := GetViewContext().InnerWidth(width)
	rows := GetViewContext().InnerHeight(height) - 1 // title row

	var b strings.Builder
	b.WriteString(PanelTitleStyle.Render(runewidth.Truncate(ChatListTitle, inner, "")))

	offset := chatListOffset(selected, len(items), rows)
	for i := offset; i < len(items) && i < offset+rows; i++ {
		b.WriteString("\n")
		title := items[i].Title
		if items[i].Group {
			title = "# " + title
		}
		title = runewidth.FillRight(runewidth.Truncate(title, inner, "…"), inner)
		if i == selected {
			b.WriteString(ChatListSelectedStyle.Render(title))
		} else {
			b.WriteString(ChatListItemStyle.Render(title))
		}
	}

	style := PanelStyle
	if focused {
		style = PanelFocusedStyle
	}
	return style.Width(width).Height(height).Render(b.String())
}
