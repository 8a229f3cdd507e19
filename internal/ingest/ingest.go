// Package ingest applies backend events to the chat state. It runs on the
// network worker; every event is applied in full before the next one is
// read, and the renderer is woken afterwards.
package ingest

import (
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/zhubert/tgterm/internal/errors"
	"github.com/zhubert/tgterm/internal/handshake"
	"github.com/zhubert/tgterm/internal/logger"
	"github.com/zhubert/tgterm/internal/parser"
	"github.com/zhubert/tgterm/internal/protocol"
	"github.com/zhubert/tgterm/internal/store"
)

// Notifier announces a message from someone else.
type Notifier func(chatTitle, sender, text string) error

// Pusher accepts outgoing requests.
type Pusher interface {
	Push(protocol.Request)
}

// Raiser wakes the renderer.
type Raiser interface {
	Raise()
}

// Adapter dispatches backend events by tag.
type Adapter struct {
	chats  *store.Chats
	users  *store.Participants
	queue  Pusher
	signal Raiser
	auth   *handshake.Machine
	notify Notifier
	log    *slog.Logger

	me atomic.Int64
}

// New creates an adapter. notify may be nil to disable notifications.
func New(chats *store.Chats, users *store.Participants, queue Pusher, signal Raiser, auth *handshake.Machine, notify Notifier) *Adapter {
	return &Adapter{
		chats:  chats,
		users:  users,
		queue:  queue,
		signal: signal,
		auth:   auth,
		notify: notify,
		log:    logger.WithComponent("ingest"),
	}
}

// Me returns the local user's id, or 0 before it is known.
func (a *Adapter) Me() int64 {
	return a.me.Load()
}

// Apply processes one event. Only fatal conditions are returned; malformed
// payloads and references to unknown chats are logged and skipped.
func (a *Adapter) Apply(ev *protocol.Event) error {
	defer a.signal.Raise()

	switch ev.Type {
	case protocol.TypeUpdateAuthorizationState:
		return a.authorizationState(ev)
	case protocol.TypeUpdateNewChat:
		a.newChat(ev)
	case protocol.TypeUpdateNewMessage:
		a.newMessage(ev)
	case protocol.TypeMessages:
		a.messages(ev)
	case protocol.TypeUpdateUser:
		a.updateUser(ev)
	case protocol.TypeUpdateUserStatus:
		a.updateUserStatus(ev)
	case protocol.TypeUser:
		a.self(ev)
	case protocol.TypeUpdateMessageContent:
		a.messageContent(ev)
	case protocol.TypeUpdateMessageEdited:
		a.messageEdited(ev)
	case protocol.TypeUpdateMessageSendSucceeded:
		a.sendSucceeded(ev)
	case protocol.TypeError:
		return a.backendError(ev)
	case protocol.TypeOk:
	default:
		a.log.Debug("ignoring event", "type", ev.Type)
	}
	return nil
}

func (a *Adapter) decode(ev *protocol.Event, v any) bool {
	if err := ev.Decode(v); err != nil {
		a.log.Warn("malformed event", "type", ev.Type, "error", err)
		return false
	}
	return true
}

func (a *Adapter) lookup(chatID int64, eventType string) (*store.Conversation, bool) {
	c, ok := a.chats.Get(chatID)
	if !ok {
		a.log.Warn("event for unknown chat", "type", eventType, "error", errors.ChatNotFound(chatID))
	}
	return c, ok
}

func (a *Adapter) authorizationState(ev *protocol.Event) error {
	var upd protocol.AuthorizationStateUpdate
	if !a.decode(ev, &upd) {
		return nil
	}
	reqs, err := a.auth.Handle(upd.AuthorizationState.Type)
	for _, r := range reqs {
		a.queue.Push(r)
	}
	return err
}

func (a *Adapter) newChat(ev *protocol.Event) {
	var upd protocol.NewChatUpdate
	if !a.decode(ev, &upd) {
		return
	}
	chat, err := protocol.NormalizeChat(upd.Chat)
	if err != nil {
		a.log.Warn("malformed chat", "error", err)
		return
	}

	kind := store.KindGroup
	if chat.IsPrivate() {
		kind = store.KindDirect
	}
	c := store.NewConversation(chat.ID, chat.Title, kind, chat.UserID)
	c.Touch(chat.LastMessageDate)
	if a.chats.Add(c) {
		logger.WithChat(chat.ID).Debug("new chat", "title", chat.Title)
	}
}

func (a *Adapter) newMessage(ev *protocol.Event) {
	var upd protocol.NewMessageUpdate
	if !a.decode(ev, &upd) {
		return
	}
	m := parser.Parse(upd.Message)
	c, ok := a.lookup(m.ChatID, ev.Type)
	if !ok {
		return
	}
	if !c.Insert(m) {
		return
	}
	c.Touch(m.Date)
	a.chats.Sort()

	if a.notify != nil && m.SenderID != a.Me() {
		if err := a.notify(c.Title, a.users.DisplayName(m.SenderID), m.Text); err != nil {
			a.log.Debug("notification failed", "error", err)
		}
	}
}

// messages applies a history page. Pages are matched to their chat by the
// request tag, since an empty page carries no chat id.
func (a *Adapter) messages(ev *protocol.Event) {
	var page protocol.Messages
	if !a.decode(ev, &page) {
		return
	}
	msgs := make([]store.Message, 0, len(page.Messages))
	for i, raw := range page.Messages {
		m := parser.Parse(raw)
		if m.ID == 0 {
			a.log.Warn("skipping history entry without id", "extra", ev.Extra, "index", i)
			continue
		}
		msgs = append(msgs, m)
	}

	c, ok := a.chats.ByBackfillTag(ev.Extra)
	if !ok && len(msgs) > 0 {
		c, ok = a.lookup(msgs[0].ChatID, ev.Type)
	}
	if !ok {
		a.log.Warn("history page for unknown request", "extra", ev.Extra, "count", len(msgs))
		return
	}

	log := logger.WithChat(c.ID)
	if len(page.Messages) == 0 {
		c.MarkEndOfHistory()
		log.Debug("reached end of history")
		return
	}

	// A page with nothing usable still releases the cursor.
	own := msgs[:0]
	for _, m := range msgs {
		if m.ChatID == c.ID {
			own = append(own, m)
		}
	}
	n := c.ApplyBatch(own)
	log.Debug("applied history page", "received", len(page.Messages), "inserted", n, "endOfHistory", c.EndOfHistory())
}

func presenceOf(s protocol.UserStatus) (store.Presence, time.Time) {
	switch s.Type {
	case protocol.StatusOnline:
		return store.PresenceOnline, time.Time{}
	case protocol.StatusOffline:
		return store.PresenceOffline, time.Unix(s.WasOnline, 0)
	default:
		return store.PresenceUnknown, time.Time{}
	}
}

func (a *Adapter) upsertUser(u protocol.User) {
	presence, seen := presenceOf(u.Status)
	a.users.Upsert(u.ID, u.FirstName, presence, seen)
}

func (a *Adapter) updateUser(ev *protocol.Event) {
	var upd protocol.UserUpdate
	if a.decode(ev, &upd) {
		a.upsertUser(upd.User)
	}
}

func (a *Adapter) updateUserStatus(ev *protocol.Event) {
	var upd protocol.UserStatusUpdate
	if !a.decode(ev, &upd) {
		return
	}
	presence, seen := presenceOf(upd.Status)
	if !a.users.SetPresence(upd.UserID, presence, seen) {
		a.log.Debug("status for unknown user", "userID", upd.UserID)
	}
}

// self handles the response to GetMe.
func (a *Adapter) self(ev *protocol.Event) {
	var u protocol.User
	if !a.decode(ev, &u) {
		return
	}
	a.upsertUser(u)
	a.me.Store(u.ID)
	a.log.Info("local user identified", "userID", u.ID)
}

func (a *Adapter) messageContent(ev *protocol.Event) {
	var upd protocol.MessageContentUpdate
	if !a.decode(ev, &upd) {
		return
	}
	c, ok := a.lookup(upd.ChatID, ev.Type)
	if !ok {
		return
	}
	text, placeholder := parser.ParseContent(upd.NewContent)
	if !c.UpdateContent(upd.MessageID, text, placeholder) {
		logger.WithChat(c.ID).Debug("content update for message not loaded", "messageID", upd.MessageID)
	}
}

func (a *Adapter) messageEdited(ev *protocol.Event) {
	var upd protocol.MessageEditedUpdate
	if !a.decode(ev, &upd) {
		return
	}
	if c, ok := a.lookup(upd.ChatID, ev.Type); ok {
		c.MarkEdited(upd.MessageID)
	}
}

func (a *Adapter) sendSucceeded(ev *protocol.Event) {
	var upd protocol.MessageSendSucceededUpdate
	if !a.decode(ev, &upd) {
		return
	}
	m := parser.Parse(upd.Message)
	c, ok := a.lookup(m.ChatID, ev.Type)
	if !ok {
		return
	}
	c.Replace(upd.OldMessageID, m)
	c.Touch(m.Date)
	a.chats.Sort()
}

func (a *Adapter) backendError(ev *protocol.Event) error {
	var e protocol.Error
	if !a.decode(ev, &e) {
		return nil
	}
	if e.IsFatal() {
		a.log.Error("fatal backend error", "code", e.Code, "message", e.Message, "extra", ev.Extra)
		return errors.BackendFatal(e.Code, e.Message)
	}
	a.log.Warn("backend error", "code", e.Code, "message", e.Message, "extra", ev.Extra)
	if c, ok := a.chats.ByBackfillTag(ev.Extra); ok {
		c.FailBackfill()
		logger.WithChat(c.ID).Debug("history request failed, cursor released")
	}
	return nil
}
