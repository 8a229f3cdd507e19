package ui

import (
	"github.com/mattn/go-runewidth"
)

// InputView is the compose panel content.
type InputView struct {
	// Editor is the rendered textarea.
	Editor string
	// Label describes a pending reply or edit, empty otherwise.
	Label   string
	Focused bool
}

// ComposeLabelHeight is the line a pending reply or edit label takes from
// the textarea.
const ComposeLabelHeight = 1

// RenderInput draws the compose panel at the given width.
func RenderInput(v InputView, width int) string {
	content := v.Editor
	if v.Label != "" {
		inner := max(width-BorderSize-InputPaddingWidth, 0)
		content = ComposeLabelStyle.Render(runewidth.Truncate(v.Label, inner, "…")) + "\n" + content
	}
	style := InputStyle
	if v.Focused {
		style = InputFocusedStyle
	}
	return style.Width(width).Render(content)
}

// ReplyLabel describes a pending reply to sender's message.
func ReplyLabel(sender, text string) string {
	return "replying to " + sender + ": " + firstLine(text)
}

// EditLabel describes a pending edit.
func EditLabel() string {
	return "editing message (esc to cancel)"
}

func firstLine(s string) string {
	for i, r := range s {
		if r == '\n' {
			return s[:i]
		}
	}
	return s
}
