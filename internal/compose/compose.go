// Package compose tracks the input buffer and whether the next submit is a
// plain send, a reply, or an edit.
package compose

import (
	"strings"

	"github.com/zhubert/tgterm/internal/errors"
	"github.com/zhubert/tgterm/internal/logger"
	"github.com/zhubert/tgterm/internal/protocol"
	"github.com/zhubert/tgterm/internal/store"
)

// Mode is the pending action of the composer.
type Mode int

const (
	ModeNormal Mode = iota
	ModeReplying
	ModeEditing
)

func (m Mode) String() string {
	switch m {
	case ModeReplying:
		return "replying"
	case ModeEditing:
		return "editing"
	default:
		return "normal"
	}
}

// Pending describes the action the next submit performs.
type Pending struct {
	Mode     Mode
	ChatID   int64
	TargetID int64
	// Original is the text of the message being edited.
	Original string
}

// Pusher accepts outgoing requests.
type Pusher interface {
	Push(protocol.Request)
}

// Composer is owned by the input goroutine and is not safe for concurrent
// use.
type Composer struct {
	pending Pending
	buffer  string
}

// New creates a composer in normal mode with an empty buffer.
func New() *Composer {
	return &Composer{}
}

func (c *Composer) Buffer() string {
	return c.buffer
}

func (c *Composer) SetBuffer(s string) {
	c.buffer = s
}

func (c *Composer) Pending() Pending {
	return c.pending
}

func (c *Composer) Mode() Mode {
	return c.pending.Mode
}

// BeginReply makes the next submit a reply to target. The buffer is left
// as it is.
func (c *Composer) BeginReply(chatID int64, target store.Message) {
	c.pending = Pending{Mode: ModeReplying, ChatID: chatID, TargetID: target.ID}
}

// BeginEdit makes the next submit an edit of target and loads its text
// into the buffer. The backend must still allow editing the message.
func (c *Composer) BeginEdit(chatID int64, target store.Message) error {
	if !target.CanBeEdited {
		return errors.EditNotAllowed(target.ID)
	}
	c.pending = Pending{Mode: ModeEditing, ChatID: chatID, TargetID: target.ID, Original: target.Text}
	c.buffer = target.Text
	return nil
}

// Cancel drops the pending action. An abandoned edit also clears the
// buffer it pre-filled.
func (c *Composer) Cancel() {
	if c.pending.Mode == ModeEditing {
		c.buffer = ""
	}
	c.pending = Pending{}
}

// SelectionChanged cancels the pending action once its target message is
// no longer the selected one.
func (c *Composer) SelectionChanged(chatID, messageID int64) {
	if c.pending.Mode == ModeNormal {
		return
	}
	if c.pending.ChatID != chatID || c.pending.TargetID != messageID {
		c.Cancel()
	}
}

// Submit turns the buffer into a request for chatID and pushes it. The
// buffer is cleared and the composer returns to normal mode either way.
// It reports whether a request was pushed.
func (c *Composer) Submit(chatID int64, q Pusher) bool {
	text := strings.TrimRight(c.buffer, "\n")
	pending := c.pending
	c.buffer = ""
	c.pending = Pending{}

	if strings.TrimSpace(text) == "" {
		return false
	}

	log := logger.WithChat(chatID)
	switch pending.Mode {
	case ModeEditing:
		if text == pending.Original {
			log.Debug("edit left text unchanged", "messageID", pending.TargetID)
			return false
		}
		q.Push(protocol.EditMessage(pending.ChatID, pending.TargetID, text))
		log.Debug("queued edit", "messageID", pending.TargetID)
	case ModeReplying:
		q.Push(protocol.SendMessage(pending.ChatID, text, pending.TargetID))
		log.Debug("queued reply", "replyTo", pending.TargetID)
	default:
		q.Push(protocol.SendMessage(chatID, text, 0))
		log.Debug("queued message")
	}
	return true
}
