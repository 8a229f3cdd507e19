package store

import (
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

// Kind distinguishes one-to-one chats from groups.
type Kind int

const (
	KindDirect Kind = iota
	KindGroup
)

// ViewState is the scroll position of a conversation.
type ViewState struct {
	// BottomOffset is the index of the message at the newest visible edge.
	BottomOffset int
	// Visible is how many messages fit the last render.
	Visible int
}

// Conversation is one chat and its message history, newest first.
type Conversation struct {
	ID     int64
	Title  string
	Kind   Kind
	PeerID int64 // counterpart of a direct chat

	lastActivity atomic.Int64

	mu           sync.RWMutex
	messages     []Message
	ids          map[int64]struct{}
	endOfHistory bool
	hasInflight  bool
	inflightID   int64
	inflightTag  string
	retryAfter   time.Time
	view         ViewState
}

// NewConversation creates an empty conversation.
func NewConversation(id int64, title string, kind Kind, peerID int64) *Conversation {
	return &Conversation{
		ID:     id,
		Title:  title,
		Kind:   kind,
		PeerID: peerID,
		ids:    make(map[int64]struct{}),
	}
}

// insertLocked places m by id, newest first. Returns false for a duplicate.
func (c *Conversation) insertLocked(m Message) bool {
	if _, dup := c.ids[m.ID]; dup {
		return false
	}
	pos := sort.Search(len(c.messages), func(i int) bool {
		return c.messages[i].ID < m.ID
	})
	c.messages = append(c.messages, Message{})
	copy(c.messages[pos+1:], c.messages[pos:])
	c.messages[pos] = m
	c.ids[m.ID] = struct{}{}

	// Keep the same message at the bottom edge while scrolled up.
	if c.view.BottomOffset > 0 && pos <= c.view.BottomOffset {
		c.view.BottomOffset++
	}
	return true
}

// Insert adds a message. Inserting an id already stored is a no-op.
func (c *Conversation) Insert(m Message) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.insertLocked(m)
}

// ApplyBatch stores a non-empty page of backfilled history and returns how
// many messages were new. The in-flight cursor is always released. When the
// page did not move the oldest stored message past the cursor, the same
// request would be issued again, so history is marked exhausted instead.
func (c *Conversation) ApplyBatch(msgs []Message) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	inserted := 0
	for _, m := range msgs {
		if c.insertLocked(m) {
			inserted++
		}
	}
	if c.hasInflight && c.oldestIDLocked() == c.inflightID {
		c.endOfHistory = true
	}
	c.clearInflightLocked()
	return inserted
}

// BackfillRetryDelay is how long a failed history request blocks the next
// one for the same conversation.
var BackfillRetryDelay = 2 * time.Second

// FailBackfill releases the in-flight cursor after the backend rejected
// the request. A new request may be reserved once BackfillRetryDelay has
// passed.
func (c *Conversation) FailBackfill() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.clearInflightLocked()
	c.retryAfter = time.Now().Add(BackfillRetryDelay)
}

// MarkEndOfHistory records that no older messages exist. It is terminal.
func (c *Conversation) MarkEndOfHistory() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.endOfHistory = true
	c.clearInflightLocked()
}

// EndOfHistory reports whether the oldest message has been reached.
func (c *Conversation) EndOfHistory() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.endOfHistory
}

func (c *Conversation) clearInflightLocked() {
	c.hasInflight = false
	c.inflightID = 0
	c.inflightTag = ""
}

func (c *Conversation) oldestIDLocked() int64 {
	if len(c.messages) == 0 {
		return 0
	}
	return c.messages[len(c.messages)-1].ID
}

// ReserveBackfill records an in-flight history request starting at the
// oldest stored message and returns that id (0 when empty). It refuses
// when history is exhausted or a request for the same id is already out.
func (c *Conversation) ReserveBackfill() (int64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.endOfHistory || time.Now().Before(c.retryAfter) {
		return 0, false
	}
	from := c.oldestIDLocked()
	if c.hasInflight && c.inflightID == from {
		return 0, false
	}
	c.hasInflight = true
	c.inflightID = from
	c.inflightTag = ""
	return from, true
}

// SetBackfillTag attaches the request correlation tag to the in-flight
// cursor so an empty response can be routed back here.
func (c *Conversation) SetBackfillTag(tag string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.hasInflight {
		c.inflightTag = tag
	}
}

// HasBackfillTag reports whether tag belongs to the in-flight request.
func (c *Conversation) HasBackfillTag(tag string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.hasInflight && tag != "" && c.inflightTag == tag
}

// Inflight returns the message id of the outstanding history request.
func (c *Conversation) Inflight() (int64, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.inflightID, c.hasInflight
}

// Len returns the number of stored messages.
func (c *Conversation) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.messages)
}

// Get returns the stored message with id.
func (c *Conversation) Get(id int64) (Message, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if i := c.indexLocked(id); i >= 0 {
		return c.messages[i], true
	}
	return Message{}, false
}

func (c *Conversation) indexLocked(id int64) int {
	if _, ok := c.ids[id]; !ok {
		return -1
	}
	i := sort.Search(len(c.messages), func(i int) bool {
		return c.messages[i].ID <= id
	})
	if i < len(c.messages) && c.messages[i].ID == id {
		return i
	}
	return -1
}

// UpdateContent replaces a stored message's text and marks it edited.
func (c *Conversation) UpdateContent(id int64, text string, placeholder bool) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.indexLocked(id)
	if i < 0 {
		return false
	}
	c.messages[i].Text = text
	c.messages[i].Placeholder = placeholder
	c.messages[i].Edited = true
	return true
}

// MarkEdited flags a stored message as edited.
func (c *Conversation) MarkEdited(id int64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.indexLocked(id)
	if i < 0 {
		return false
	}
	c.messages[i].Edited = true
	return true
}

// Replace swaps the message stored under oldID for m, which usually
// carries the id the backend assigned after a send completed. If m's id is
// already stored the old entry is simply dropped.
func (c *Conversation) Replace(oldID int64, m Message) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if i := c.indexLocked(oldID); i >= 0 {
		c.messages = append(c.messages[:i], c.messages[i+1:]...)
		delete(c.ids, oldID)
		if c.view.BottomOffset > 0 && i < c.view.BottomOffset {
			c.view.BottomOffset--
		}
	}
	c.insertLocked(m)
}

// Snapshot is a consistent read of a conversation for one render pass.
type Snapshot struct {
	// Messages starts at the bottom offset and runs toward older.
	Messages     []Message
	Total        int
	View         ViewState
	OldestID     int64
	EndOfHistory bool
}

// Snapshot copies at most max messages starting at the bottom offset.
func (c *Conversation) Snapshot(max int) Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()

	s := Snapshot{
		Total:        len(c.messages),
		View:         c.view,
		OldestID:     c.oldestIDLocked(),
		EndOfHistory: c.endOfHistory,
	}
	start := min(c.view.BottomOffset, len(c.messages))
	end := min(start+max, len(c.messages))
	if end > start {
		s.Messages = make([]Message, end-start)
		copy(s.Messages, c.messages[start:end])
	}
	return s
}

// UpdateView runs fn with the viewport state and message count under the
// conversation lock.
func (c *Conversation) UpdateView(fn func(v *ViewState, total int)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fn(&c.view, len(c.messages))
}

// View returns the current viewport state.
func (c *Conversation) View() ViewState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.view
}

// Selected returns the message at the bottom edge of the viewport.
func (c *Conversation) Selected() (Message, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.view.BottomOffset >= len(c.messages) {
		return Message{}, false
	}
	return c.messages[c.view.BottomOffset], true
}

// Touch advances the last-activity time. Older timestamps are ignored.
func (c *Conversation) Touch(unix int64) {
	for {
		cur := c.lastActivity.Load()
		if unix <= cur || c.lastActivity.CompareAndSwap(cur, unix) {
			return
		}
	}
}

// LastActivity returns the newest activity time seen.
func (c *Conversation) LastActivity() int64 {
	return c.lastActivity.Load()
}
