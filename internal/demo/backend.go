package demo

import (
	"encoding/json"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/zhubert/tgterm/internal/logger"
	"github.com/zhubert/tgterm/internal/protocol"
)

// tempIDOffset separates provisional ids of outgoing messages from real
// ones until the send is confirmed.
const tempIDOffset = 1 << 30

// Error messages the simulated backend reports.
const (
	ErrCodeInvalid    = "PHONE_CODE_INVALID"
	ErrChatNotFound   = "CHAT_NOT_FOUND"
	ErrMessageInvalid = "MESSAGE_ID_INVALID"
	ErrUnsupported    = "METHOD_NOT_SUPPORTED"
)

type message struct {
	id       int64
	chatID   int64
	senderID int64
	date     int64
	editDate int64
	replyTo  int64
	text     string
	sticker  string
	site     string
}

func (m *message) content() map[string]any {
	if m.sticker != "" {
		return map[string]any{
			"@type":   "messageSticker",
			"sticker": map[string]any{"@type": "sticker", "emoji": m.sticker},
		}
	}
	c := map[string]any{
		"@type": "messageText",
		"text":  map[string]any{"@type": "formattedText", "text": m.text},
	}
	if m.site != "" {
		c["web_page"] = map[string]any{
			"@type":     "webPage",
			"site_name": m.site,
			"title":     "Notes on " + m.site,
			"description": map[string]any{
				"@type": "formattedText",
				"text":  "A short preview of the linked page.",
			},
		}
	}
	return c
}

func (m *message) object(me int64) map[string]any {
	o := map[string]any{
		"@type":         "message",
		"id":            m.id,
		"chat_id":       m.chatID,
		"sender_id":     map[string]any{"@type": "messageSenderUser", "user_id": m.senderID},
		"date":          m.date,
		"edit_date":     m.editDate,
		"can_be_edited": m.senderID == me && m.sticker == "",
		"content":       m.content(),
	}
	if m.replyTo != 0 {
		o["reply_to_message_id"] = m.replyTo
	}
	return o
}

// Backend is a simulated messaging backend. It answers requests by queueing
// events, and once authorized it produces an incoming message every
// Scenario.IncomingEvery. It is safe for concurrent use.
type Backend struct {
	scenario *Scenario
	log      *slog.Logger
	now      func() time.Time

	mu         sync.Mutex
	pending    []*protocol.Event
	wake       chan struct{}
	closed     bool
	authorized bool
	// history holds each chat's messages, oldest first.
	history      map[int64][]*message
	nextIncoming time.Time
	incoming     int
}

// New creates a backend for scenario, which must pass Validate. The
// backend starts by asking for client parameters.
func New(scenario *Scenario) (*Backend, error) {
	if err := scenario.Validate(); err != nil {
		return nil, err
	}
	b := &Backend{
		scenario: scenario,
		log:      logger.WithComponent("demo"),
		now:      time.Now,
		wake:     make(chan struct{}, 1),
		history:  make(map[int64][]*message),
	}
	for i, c := range scenario.Chats {
		b.history[c.ID] = seedHistory(scenario, i, c)
	}
	b.emitAuthState(protocol.AuthWaitParameters)
	return b, nil
}

// seedHistory builds n deterministic messages spaced seven minutes apart,
// with each chat shifted so their last activity differs.
func seedHistory(s *Scenario, index int, c Chat) []*message {
	msgs := make([]*message, 0, c.History)
	last := s.Start.Add(-time.Duration(index) * 13 * time.Minute)
	for i := 1; i <= c.History; i++ {
		m := &message{
			id:     int64(i),
			chatID: c.ID,
			date:   last.Add(-time.Duration(c.History-i) * 7 * time.Minute).Unix(),
			text:   s.Lines[(i+index)%len(s.Lines)],
		}
		switch {
		case i%5 == 0:
			m.senderID = s.Me.ID
		default:
			m.senderID = c.Members[i%len(c.Members)]
		}
		switch {
		case i%17 == 0:
			m.sticker = "👍🏽"
		case i%23 == 0:
			m.site = "example.org"
		}
		if c.Group && i%11 == 0 && i > 3 {
			m.replyTo = int64(i - 3)
		}
		msgs = append(msgs, m)
	}
	return msgs
}

func (b *Backend) user(id int64) (User, bool) {
	if id == b.scenario.Me.ID {
		return b.scenario.Me, true
	}
	for _, u := range b.scenario.Users {
		if u.ID == id {
			return u, true
		}
	}
	return User{}, false
}

func (b *Backend) userObject(u User) map[string]any {
	status := map[string]any{"@type": "userStatusEmpty"}
	switch {
	case u.Online:
		status = map[string]any{"@type": protocol.StatusOnline, "expires": b.now().Add(time.Hour).Unix()}
	case u.LastSeen > 0:
		status = map[string]any{"@type": protocol.StatusOffline, "was_online": b.now().Add(-u.LastSeen).Unix()}
	}
	return map[string]any{
		"@type":      "user",
		"id":         u.ID,
		"first_name": u.FirstName,
		"last_name":  u.LastName,
		"status":     status,
	}
}

func (b *Backend) chatObject(c Chat) map[string]any {
	typ := map[string]any{"@type": protocol.ChatTypeSupergroup}
	if !c.Group {
		typ = map[string]any{"@type": protocol.ChatTypePrivate, "user_id": c.Members[0]}
	}
	o := map[string]any{
		"@type": "chat",
		"id":    c.ID,
		"title": c.Title,
		"type":  typ,
	}
	if h := b.history[c.ID]; len(h) > 0 {
		o["last_message"] = h[len(h)-1].object(b.scenario.Me.ID)
	}
	return o
}

// emit must be called with mu held, except from New.
func (b *Backend) emit(ev *protocol.Event) {
	b.pending = append(b.pending, ev)
	select {
	case b.wake <- struct{}{}:
	default:
	}
}

func (b *Backend) emitAuthState(state string) {
	b.emit(protocol.NewEvent(protocol.TypeUpdateAuthorizationState, "", map[string]any{
		"authorization_state": map[string]any{"@type": state},
	}))
}

func (b *Backend) emitError(extra string, code int, message string) {
	b.emit(protocol.NewEvent(protocol.TypeError, extra, map[string]any{
		"code":    code,
		"message": message,
	}))
}

func (b *Backend) emitOk(extra string) {
	b.emit(protocol.NewEvent(protocol.TypeOk, extra, nil))
}

// requestBody covers the fields of every request the backend understands.
type requestBody struct {
	Code          string `json:"code"`
	ChatID        int64  `json:"chat_id"`
	FromMessageID int64  `json:"from_message_id"`
	Limit         int    `json:"limit"`
	MessageID     int64  `json:"message_id"`
	ReplyTo       int64  `json:"reply_to_message_id"`
	Content       struct {
		Text struct {
			Text string `json:"text"`
		} `json:"text"`
	} `json:"input_message_content"`
}

// Send handles one request. Responses become available to Receive.
func (b *Backend) Send(req protocol.Request) {
	var body requestBody
	if err := json.Unmarshal(req.Payload, &body); err != nil {
		b.log.Warn("undecodable request", "request", req.String(), "error", err)
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.log.Debug("request", "request", req.String())

	switch req.Kind {
	case protocol.KindSetLogVerbosity:
		b.emitOk(req.Extra)
	case protocol.KindSetParameters:
		b.emitOk(req.Extra)
		b.emitAuthState(protocol.AuthWaitEncryptionKey)
	case protocol.KindCheckEncryptionKey:
		b.emitOk(req.Extra)
		b.emitAuthState(protocol.AuthWaitPhoneNumber)
	case protocol.KindSetPhoneNumber:
		b.emitOk(req.Extra)
		b.emitAuthState(protocol.AuthWaitCode)
	case protocol.KindCheckCode:
		b.checkCode(req.Extra, body.Code)
	case protocol.KindGetChatList:
		b.chatList(req.Extra)
	case protocol.KindGetMe:
		b.emit(protocol.NewEvent(protocol.TypeUser, req.Extra, b.userObject(b.scenario.Me)))
	case protocol.KindGetChatHistory:
		b.chatHistory(req.Extra, body)
	case protocol.KindSendMessage:
		b.sendMessage(req.Extra, body)
	case protocol.KindEditMessage:
		b.editMessage(req.Extra, body)
	default:
		b.emitError(req.Extra, 400, ErrUnsupported)
	}
}

func (b *Backend) checkCode(extra, code string) {
	if code != b.scenario.Code {
		b.emitError(extra, 400, ErrCodeInvalid)
		return
	}
	b.emitOk(extra)
	b.authorized = true
	b.nextIncoming = b.now().Add(b.scenario.IncomingEvery)
	b.emitAuthState(protocol.AuthReady)
}

// chatList announces every user and chat, then answers with the ids.
func (b *Backend) chatList(extra string) {
	for _, u := range b.scenario.Users {
		b.emit(protocol.NewEvent(protocol.TypeUpdateUser, "", map[string]any{"user": b.userObject(u)}))
	}
	ids := make([]int64, 0, len(b.scenario.Chats))
	for _, c := range b.scenario.Chats {
		b.emit(protocol.NewEvent(protocol.TypeUpdateNewChat, "", map[string]any{"chat": b.chatObject(c)}))
		ids = append(ids, c.ID)
	}
	b.emit(protocol.NewEvent("chats", extra, map[string]any{
		"total_count": len(ids),
		"chat_ids":    ids,
	}))
}

// chatHistory returns up to limit messages older than from_message_id,
// newest first. A zero from_message_id starts at the newest message.
func (b *Backend) chatHistory(extra string, body requestBody) {
	h, ok := b.history[body.ChatID]
	if !ok {
		b.emitError(extra, 400, ErrChatNotFound)
		return
	}
	end := len(h)
	if body.FromMessageID != 0 {
		end = sort.Search(len(h), func(i int) bool { return h[i].id >= body.FromMessageID })
	}
	page := make([]map[string]any, 0, body.Limit)
	for i := end - 1; i >= 0 && len(page) < body.Limit; i-- {
		page = append(page, h[i].object(b.scenario.Me.ID))
	}
	b.emit(protocol.NewEvent(protocol.TypeMessages, extra, map[string]any{
		"total_count": len(h),
		"messages":    page,
	}))
}

func (b *Backend) nextID(chatID int64) int64 {
	h := b.history[chatID]
	if len(h) == 0 {
		return 1
	}
	return h[len(h)-1].id + 1
}

// appendMessage must be called with mu held.
func (b *Backend) appendMessage(m *message) {
	b.history[m.chatID] = append(b.history[m.chatID], m)
}

// sendMessage echoes the message under a provisional id, then confirms it
// under its final id.
func (b *Backend) sendMessage(extra string, body requestBody) {
	if _, ok := b.history[body.ChatID]; !ok {
		b.emitError(extra, 400, ErrChatNotFound)
		return
	}
	m := &message{
		id:       b.nextID(body.ChatID),
		chatID:   body.ChatID,
		senderID: b.scenario.Me.ID,
		date:     b.now().Unix(),
		replyTo:  body.ReplyTo,
		text:     body.Content.Text.Text,
	}
	me := b.scenario.Me.ID
	provisional := *m
	provisional.id += tempIDOffset

	b.emit(protocol.NewEvent(protocol.TypeUpdateNewMessage, "", map[string]any{"message": provisional.object(me)}))
	b.appendMessage(m)
	b.emit(protocol.NewEvent(protocol.TypeUpdateMessageSendSucceeded, "", map[string]any{
		"message":        m.object(me),
		"old_message_id": provisional.id,
	}))
}

func (b *Backend) find(chatID, id int64) (*message, bool) {
	h := b.history[chatID]
	i := sort.Search(len(h), func(i int) bool { return h[i].id >= id })
	if i < len(h) && h[i].id == id {
		return h[i], true
	}
	return nil, false
}

func (b *Backend) editMessage(extra string, body requestBody) {
	m, ok := b.find(body.ChatID, body.MessageID)
	if !ok || m.senderID != b.scenario.Me.ID || m.sticker != "" {
		b.emitError(extra, 400, ErrMessageInvalid)
		return
	}
	m.text = body.Content.Text.Text
	m.site = ""
	m.editDate = b.now().Unix()

	b.emit(protocol.NewEvent(protocol.TypeUpdateMessageContent, "", map[string]any{
		"chat_id":     m.chatID,
		"message_id":  m.id,
		"new_content": m.content(),
	}))
	b.emit(protocol.NewEvent(protocol.TypeUpdateMessageEdited, "", map[string]any{
		"chat_id":    m.chatID,
		"message_id": m.id,
		"edit_date":  m.editDate,
	}))
	b.emit(protocol.NewEvent("message", extra, m.object(b.scenario.Me.ID)))
}

// maybeIncoming queues an unsolicited message when one is due. It must be
// called with mu held.
func (b *Backend) maybeIncoming(now time.Time) {
	if !b.authorized || b.scenario.IncomingEvery <= 0 || len(b.scenario.Chats) == 0 || now.Before(b.nextIncoming) {
		return
	}
	b.nextIncoming = now.Add(b.scenario.IncomingEvery)
	b.incoming++

	c := b.scenario.Chats[b.incoming%len(b.scenario.Chats)]
	m := &message{
		id:       b.nextID(c.ID),
		chatID:   c.ID,
		senderID: c.Members[b.incoming%len(c.Members)],
		date:     now.Unix(),
		text:     b.scenario.Lines[b.incoming%len(b.scenario.Lines)],
	}
	b.appendMessage(m)
	b.emit(protocol.NewEvent(protocol.TypeUpdateNewMessage, "", map[string]any{"message": m.object(b.scenario.Me.ID)}))
	if u, ok := b.user(m.senderID); ok && !u.Online {
		b.emit(protocol.NewEvent(protocol.TypeUpdateUserStatus, "", map[string]any{
			"user_id": u.ID,
			"status":  map[string]any{"@type": protocol.StatusOnline},
		}))
	}
}

// pop returns the oldest queued event. It must be called with mu held.
func (b *Backend) pop() (*protocol.Event, bool) {
	if len(b.pending) == 0 {
		return nil, false
	}
	ev := b.pending[0]
	b.pending[0] = nil
	b.pending = b.pending[1:]
	return ev, true
}

// Receive returns the next event, waiting at most timeout.
func (b *Backend) Receive(timeout time.Duration) (*protocol.Event, bool) {
	deadline := b.now().Add(timeout)
	for {
		b.mu.Lock()
		if b.closed {
			b.mu.Unlock()
			return nil, false
		}
		now := b.now()
		b.maybeIncoming(now)
		if ev, ok := b.pop(); ok {
			b.mu.Unlock()
			return ev, true
		}
		wait := deadline.Sub(now)
		if b.authorized && b.scenario.IncomingEvery > 0 {
			if d := b.nextIncoming.Sub(now); d < wait {
				wait = d
			}
		}
		b.mu.Unlock()

		if !now.Before(deadline) {
			return nil, false
		}
		if wait <= 0 {
			continue
		}
		timer := time.NewTimer(wait)
		select {
		case <-b.wake:
		case <-timer.C:
		}
		timer.Stop()
	}
}

// Close stops the backend. Pending events are discarded.
func (b *Backend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	b.pending = nil
	select {
	case b.wake <- struct{}{}:
	default:
	}
	return nil
}
