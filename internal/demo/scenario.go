// Package demo provides a simulated messaging backend. It speaks the same
// request/event protocol as the real bridge, so the whole client can run
// without credentials, and tests get a deterministic peer.
package demo

import (
	"fmt"
	"time"
)

// DefaultCode is the confirmation code the default scenario accepts.
const DefaultCode = "24601"

// User is a simulated account.
type User struct {
	ID        int64
	FirstName string
	LastName  string
	Online    bool
	// LastSeen is how long ago an offline user was last online.
	LastSeen time.Duration
}

// Chat is a simulated conversation. A direct chat has exactly one member,
// the counterpart.
type Chat struct {
	ID      int64
	Title   string
	Group   bool
	Members []int64
	// History is how many messages exist before the session starts.
	History int
}

// Scenario defines the initial state of a simulated backend.
type Scenario struct {
	Name string
	// Code is the confirmation code checkCode must match.
	Code  string
	Me    User
	Users []User
	Chats []Chat
	// Lines is the text rotated through history and incoming messages.
	Lines []string
	// IncomingEvery spaces unsolicited messages once authorized. Zero
	// disables them.
	IncomingEvery time.Duration
	// Start anchors message dates. Zero means time.Now at construction.
	Start time.Time
}

// DefaultScenario returns a small but varied world: a few direct chats with
// different presence, a busy group, and an empty chat.
func DefaultScenario() *Scenario {
	return &Scenario{
		Name: "default",
		Code: DefaultCode,
		Me:   User{ID: 1000, FirstName: "You"},
		Users: []User{
			{ID: 1001, FirstName: "Ada", LastName: "Lovelace", Online: true},
			{ID: 1002, FirstName: "Grace", LastName: "Hopper", LastSeen: 2 * time.Hour},
			{ID: 1003, FirstName: "Alan", LastName: "Turing", LastSeen: 26 * time.Hour},
			{ID: 1004, FirstName: "Edsger", LastName: "Dijkstra"},
		},
		Chats: []Chat{
			{ID: 1, Title: "Ada Lovelace", Members: []int64{1001}, History: 60},
			{ID: 2, Title: "Grace Hopper", Members: []int64{1002}, History: 25},
			{ID: 3, Title: "Compilers", Group: true, Members: []int64{1001, 1002, 1003, 1004}, History: 180},
			{ID: 4, Title: "Alan Turing", Members: []int64{1003}},
		},
		Lines: []string{
			"morning! did the build go green overnight?",
			"yes, after I bumped the timeout on the flaky integration test",
			"nice. can you look at the parser change when you get a chance",
			"the grammar ambiguity is back, I think the lookahead needs another token",
			"I wrote up the register allocation notes, they are long but the second half is the interesting part and explains why the spill heuristic changed",
			"lunch?",
			"sure, 12:30",
			"pushed a fix for the off-by-one in the line table",
			"does anyone remember why we pinned the old linker",
			"it miscompiled weak symbols on arm64, there is a ticket somewhere",
			"ok leaving it pinned",
			"benchmarks are up 4% on the big corpus",
		},
		IncomingEvery: 15 * time.Second,
	}
}

// Validate checks the scenario and fills in defaults.
func (s *Scenario) Validate() error {
	if s.Name == "" {
		return &ValidationError{Field: "Name", Message: "scenario name is required"}
	}
	if s.Me.ID == 0 {
		return &ValidationError{Field: "Me", Message: "local user needs an id"}
	}
	users := map[int64]bool{s.Me.ID: true}
	for _, u := range s.Users {
		if u.ID == 0 || users[u.ID] {
			return &ValidationError{Field: "Users", Message: fmt.Sprintf("duplicate or zero user id %d", u.ID)}
		}
		users[u.ID] = true
	}
	chats := make(map[int64]bool)
	for _, c := range s.Chats {
		if c.ID == 0 || chats[c.ID] {
			return &ValidationError{Field: "Chats", Message: fmt.Sprintf("duplicate or zero chat id %d", c.ID)}
		}
		chats[c.ID] = true
		if len(c.Members) == 0 {
			return &ValidationError{Field: "Chats", Message: fmt.Sprintf("chat %d has no members", c.ID)}
		}
		if !c.Group && len(c.Members) != 1 {
			return &ValidationError{Field: "Chats", Message: fmt.Sprintf("direct chat %d must have one member", c.ID)}
		}
		for _, m := range c.Members {
			if !users[m] {
				return &ValidationError{Field: "Chats", Message: fmt.Sprintf("chat %d references unknown user %d", c.ID, m)}
			}
		}
	}
	if len(s.Lines) == 0 {
		s.Lines = []string{"hello"}
	}
	if s.Start.IsZero() {
		s.Start = time.Now()
	}
	return nil
}

// ValidationError represents a scenario validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return "validation error: " + e.Field + ": " + e.Message
}
