// Package viewport maps a conversation's history onto a fixed-size box,
// moves the scroll position, and requests older history when the box is
// running out of messages to show.
package viewport

import (
	"strings"

	"github.com/charmbracelet/x/ansi"

	"github.com/zhubert/tgterm/internal/logger"
	"github.com/zhubert/tgterm/internal/protocol"
	"github.com/zhubert/tgterm/internal/store"
)

// Namer resolves a sender id to a display name.
type Namer interface {
	DisplayName(id int64) string
}

// Pusher accepts outgoing requests.
type Pusher interface {
	Push(protocol.Request)
}

// Line is one rendered row of the conversation box.
type Line struct {
	MessageID int64
	SenderID  int64
	// Name is set on the first line of a message when the sender prefix
	// is intact; Text then holds the remainder of that line.
	Name string
	Text string
}

// Window is the visible part of a conversation, oldest line first.
type Window struct {
	Lines []Line
	// Shown counts messages with at least one visible line.
	Shown int
	// Height is the number of lines filled.
	Height int
	// SelectedID is the message at the bottom edge, 0 when empty.
	SelectedID int64
}

const editedSuffix = " (edited)"

// wrap renders "sender: text" into lines no wider than width.
func wrap(m store.Message, name string, width int) []Line {
	text := m.Text
	if m.Edited {
		text += editedSuffix
	}
	full := name + ": " + text
	rows := strings.Split(ansi.Wrap(full, width, ""), "\n")

	lines := make([]Line, len(rows))
	for i, row := range rows {
		lines[i] = Line{MessageID: m.ID, SenderID: m.SenderID, Text: row}
	}
	if strings.HasPrefix(rows[0], name) {
		lines[0].Name = name
		lines[0].Text = rows[0][len(name):]
	}
	return lines
}

// Render lays out snap's messages from the bottom offset toward older
// until height lines are filled. A message that does not fit whole loses
// its leading lines, so the newest part of it stays visible.
func Render(snap store.Snapshot, names Namer, width, height int) Window {
	var w Window
	if height <= 0 {
		return w
	}
	if width < 1 {
		width = 1
	}
	if len(snap.Messages) > 0 {
		w.SelectedID = snap.Messages[0].ID
	}

	remaining := height
	var blocks [][]Line // newest first
	for _, m := range snap.Messages {
		lines := wrap(m, names.DisplayName(m.SenderID), width)
		if len(lines) > remaining {
			lines = lines[len(lines)-remaining:]
		}
		blocks = append(blocks, lines)
		remaining -= len(lines)
		w.Shown++
		if remaining == 0 {
			break
		}
	}

	w.Height = height - remaining
	w.Lines = make([]Line, 0, w.Height)
	for i := len(blocks) - 1; i >= 0; i-- {
		w.Lines = append(w.Lines, blocks[i]...)
	}
	return w
}

// Refresh renders the conversation into a width x height box, records how
// many messages fit, and requests older history when needed.
func Refresh(c *store.Conversation, names Namer, width, height int, q Pusher) Window {
	// Every message takes at least one line, so height bounds the copy.
	snap := c.Snapshot(max(height, 0))
	w := Render(snap, names, width, height)
	c.UpdateView(func(v *store.ViewState, total int) {
		v.Visible = w.Shown
	})
	MaybeBackfill(c, snap, w, height, q)
	return w
}

// NeedsBackfill reports whether the window is short of content: the box is
// not full, or fewer than two pages of messages remain above the bottom
// offset.
func NeedsBackfill(snap store.Snapshot, w Window, height int) bool {
	if snap.EndOfHistory {
		return false
	}
	buffered := snap.Total - snap.View.BottomOffset
	return w.Height < height || buffered < 2*w.Shown
}

// MaybeBackfill enqueues a history request for c when the window needs one
// and none is outstanding for the current oldest message. The cursor is
// recorded before the request is pushed.
func MaybeBackfill(c *store.Conversation, snap store.Snapshot, w Window, height int, q Pusher) bool {
	if !NeedsBackfill(snap, w, height) {
		return false
	}
	from, ok := c.ReserveBackfill()
	if !ok {
		return false
	}
	limit := max(w.Shown, 2*height)
	req := protocol.GetChatHistory(c.ID, from, limit)
	c.SetBackfillTag(req.Extra)
	q.Push(req)

	logger.WithChat(c.ID).Debug("requested history", "fromID", from, "limit", limit, "extra", req.Extra)
	return true
}
