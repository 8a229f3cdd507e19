package store

import (
	"sync"
	"time"
)

// PaletteSize is the number of colors participants are assigned from.
const PaletteSize = 13

// UnknownName is shown for senders not in the registry.
const UnknownName = "Unknown User"

// Presence is a participant's online state.
type Presence int

const (
	PresenceUnknown Presence = iota
	PresenceOnline
	PresenceOffline
)

// Participant is a known user.
type Participant struct {
	ID       int64
	Name     string
	Color    int // index into the palette
	Presence Presence
	LastSeen time.Time
}

// Participants is the registry of users seen this session.
type Participants struct {
	mu    sync.RWMutex
	users map[int64]*Participant
}

// NewParticipants creates an empty registry.
func NewParticipants() *Participants {
	return &Participants{users: make(map[int64]*Participant)}
}

// Upsert records a user. A new user gets the next palette color, keyed by
// how many users were already known; an existing user keeps its color.
func (p *Participants) Upsert(id int64, name string, presence Presence, lastSeen time.Time) Participant {
	p.mu.Lock()
	defer p.mu.Unlock()

	u, ok := p.users[id]
	if !ok {
		u = &Participant{ID: id, Color: len(p.users) % PaletteSize}
		p.users[id] = u
	}
	u.Name = name
	u.Presence = presence
	u.LastSeen = lastSeen
	return *u
}

// SetPresence updates presence for a known user. Unknown users are ignored.
func (p *Participants) SetPresence(id int64, presence Presence, lastSeen time.Time) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	u, ok := p.users[id]
	if !ok {
		return false
	}
	u.Presence = presence
	u.LastSeen = lastSeen
	return true
}

// Get returns a copy of the participant with id.
func (p *Participants) Get(id int64) (Participant, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	u, ok := p.users[id]
	if !ok {
		return Participant{}, false
	}
	return *u, true
}

// Len returns the number of known participants.
func (p *Participants) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.users)
}

// DisplayName returns the participant's name, or UnknownName.
func (p *Participants) DisplayName(id int64) string {
	if u, ok := p.Get(id); ok && u.Name != "" {
		return u.Name
	}
	return UnknownName
}

// ColorOf returns the participant's palette index. Unknown senders get the
// first color.
func (p *Participants) ColorOf(id int64) int {
	if u, ok := p.Get(id); ok {
		return u.Color
	}
	return 0
}
