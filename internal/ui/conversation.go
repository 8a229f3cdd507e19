package ui

import (
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/zhubert/tgterm/internal/viewport"
)

// Conversation status lines shown above the messages when there is room.
const (
	StatusLoadingHistory = "loading older messages…"
	StatusStartOfHistory = "beginning of conversation"
	StatusNoChat         = "no conversation selected"
)

// ConversationView is everything needed to draw the conversation panel.
type ConversationView struct {
	Window viewport.Window
	// ColorOf returns a sender's palette slot.
	ColorOf      func(senderID int64) int
	Loading      bool
	EndOfHistory bool
	// AtTop is true when the oldest stored message is on screen.
	AtTop   bool
	Focused bool
	Empty   bool
}

func (v ConversationView) statusLine() string {
	switch {
	case v.Empty:
		return StatusNoChat
	case v.Loading:
		return StatusLoadingHistory
	case v.EndOfHistory && v.AtTop:
		return StatusStartOfHistory
	}
	return ""
}

// RenderConversation draws the window anchored to the bottom of a
// width x height panel. Lines of the selected message are highlighted.
func RenderConversation(v ConversationView, width, height int) string {
	inner := GetViewContext().InnerWidth(width)
	rows := GetViewContext().InnerHeight(height)

	lines := make([]string, 0, rows)
	for _, l := range v.Window.Lines {
		lines = append(lines, renderLine(l, v, inner))
	}
	if len(lines) > rows {
		lines = lines[len(lines)-rows:]
	}

	if status := v.statusLine(); status != "" && len(lines) < rows {
		lines = append([]string{StatusLoadingStyle.Render(runewidth.Truncate(status, inner, "…"))}, lines...)
	}
	if pad := rows - len(lines); pad > 0 {
		lines = append(make([]string, pad), lines...)
	}

	style := PanelStyle
	if v.Focused {
		style = PanelFocusedStyle
	}
	return style.Width(width).Height(height).Render(strings.Join(lines, "\n"))
}

func renderLine(l viewport.Line, v ConversationView, width int) string {
	text := MessageTextStyle.Render(l.Text)
	if l.Name != "" {
		slot := 0
		if v.ColorOf != nil {
			slot = v.ColorOf(l.SenderID)
		}
		text = SenderStyle(slot).Render(l.Name) + text
	}
	if l.MessageID != 0 && l.MessageID == v.Window.SelectedID && v.Focused {
		pad := width - runewidth.StringWidth(l.Name+l.Text)
		return MessageSelectedStyle.Render(text + strings.Repeat(" ", max(pad, 0)))
	}
	return text
}
