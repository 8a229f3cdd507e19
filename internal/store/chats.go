package store

import (
	"sort"
	"sync"
)

// Chats is the ordered registry of conversations. Selection is tracked by
// conversation id so it survives re-sorting.
type Chats struct {
	mu         sync.RWMutex
	list       []*Conversation
	byID       map[int64]*Conversation
	selectedID int64
	selected   bool
}

// NewChats creates an empty registry.
func NewChats() *Chats {
	return &Chats{byID: make(map[int64]*Conversation)}
}

// Add registers a conversation and re-sorts. The first conversation added
// becomes selected. Adding a known id is a no-op.
func (r *Chats) Add(c *Conversation) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[c.ID]; ok {
		return false
	}
	r.list = append(r.list, c)
	r.byID[c.ID] = c
	if !r.selected {
		r.selectedID = c.ID
		r.selected = true
	}
	r.sortLocked()
	return true
}

// Get looks up a conversation by id.
func (r *Chats) Get(id int64) (*Conversation, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.byID[id]
	return c, ok
}

// At returns the conversation at display index i.
func (r *Chats) At(i int) (*Conversation, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if i < 0 || i >= len(r.list) {
		return nil, false
	}
	return r.list[i], true
}

// Len returns the number of conversations.
func (r *Chats) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.list)
}

// List returns the conversations in display order.
func (r *Chats) List() []*Conversation {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Conversation, len(r.list))
	copy(out, r.list)
	return out
}

func (r *Chats) selectedIndexLocked() int {
	if !r.selected {
		return -1
	}
	for i, c := range r.list {
		if c.ID == r.selectedID {
			return i
		}
	}
	return -1
}

// SelectedIndex returns the display index of the selected conversation,
// or -1 when nothing is selected.
func (r *Chats) SelectedIndex() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.selectedIndexLocked()
}

// Selected returns the selected conversation.
func (r *Chats) Selected() (*Conversation, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if !r.selected {
		return nil, false
	}
	c, ok := r.byID[r.selectedID]
	return c, ok
}

// SetSelected selects the conversation at display index i.
func (r *Chats) SetSelected(i int) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if i < 0 || i >= len(r.list) {
		return false
	}
	r.selectedID = r.list[i].ID
	r.selected = true
	return true
}

// Next moves the selection one down, wrapping at the end.
func (r *Chats) Next() {
	r.move(1)
}

// Prev moves the selection one up, wrapping at the start.
func (r *Chats) Prev() {
	r.move(-1)
}

func (r *Chats) move(delta int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := len(r.list)
	if n == 0 {
		return
	}
	i := r.selectedIndexLocked()
	if i < 0 {
		i = 0
	} else {
		i = ((i+delta)%n + n) % n
	}
	r.selectedID = r.list[i].ID
	r.selected = true
}

// Sort orders conversations by last activity, newest first. Ties keep
// their current order.
func (r *Chats) Sort() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sortLocked()
}

func (r *Chats) sortLocked() {
	sort.SliceStable(r.list, func(i, j int) bool {
		return r.list[i].LastActivity() > r.list[j].LastActivity()
	})
}

// ByBackfillTag finds the conversation whose in-flight history request
// carries tag.
func (r *Chats) ByBackfillTag(tag string) (*Conversation, bool) {
	if tag == "" {
		return nil, false
	}
	for _, c := range r.List() {
		if c.HasBackfillTag(tag) {
			return c, true
		}
	}
	return nil, false
}
