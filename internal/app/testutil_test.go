package app

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/zhubert/tgterm/internal/keys"
	"github.com/zhubert/tgterm/internal/outbox"
	"github.com/zhubert/tgterm/internal/protocol"
	"github.com/zhubert/tgterm/internal/store"
)

const (
	testMe       int64 = 1
	testPeer     int64 = 2
	testDirectID int64 = 10
	testGroupID  int64 = 20
	testMessages       = 30
)

// testEnv is a model wired to real stores and a real outbox.
type testEnv struct {
	m      *Model
	chats  *store.Chats
	users  *store.Participants
	queue  *outbox.Queue
	copied []string
}

// newTestEnv builds a direct chat with 30 messages, newest from me, and an
// empty group chat. History is complete unless openHistory is set.
func newTestEnv(t *testing.T, openHistory bool) *testEnv {
	t.Helper()

	users := store.NewParticipants()
	users.Upsert(testMe, "Me", store.PresenceOnline, time.Time{})
	users.Upsert(testPeer, "Ada", store.PresenceOnline, time.Time{})

	direct := store.NewConversation(testDirectID, "Ada", store.KindDirect, testPeer)
	for id := int64(1); id <= testMessages; id++ {
		sender := testPeer
		if id%2 == 0 {
			sender = testMe
		}
		direct.Insert(store.Message{
			ID:          id,
			ChatID:      testDirectID,
			SenderID:    sender,
			Date:        1700000000 + id*60,
			Text:        fmt.Sprintf("message %d", id),
			CanBeEdited: sender == testMe,
		})
	}
	direct.Touch(1700000000 + testMessages*60)
	if !openHistory {
		direct.MarkEndOfHistory()
	}

	group := store.NewConversation(testGroupID, "Team", store.KindGroup, 0)
	group.Touch(1600000000)
	group.MarkEndOfHistory()

	chats := store.NewChats()
	chats.Add(direct)
	chats.Add(group)

	env := &testEnv{chats: chats, users: users, queue: outbox.NewQueue()}
	env.m = New(context.Background(), Deps{
		Chats:  chats,
		Users:  users,
		Queue:  env.queue,
		Signal: outbox.NewSignal(),
		Copy: func(s string) error {
			env.copied = append(env.copied, s)
			return nil
		},
		Version: "0.0.0-test",
	})
	setSize(env.m, 100, 30)
	return env
}

// sent drains the outbox and returns requests of kind.
func (e *testEnv) sent(kind protocol.Kind) []protocol.Request {
	var out []protocol.Request
	for _, r := range e.queue.Drain() {
		if r.Kind == kind {
			out = append(out, r)
		}
	}
	return out
}

func decodePayload(t *testing.T, r protocol.Request) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(r.Payload, &body); err != nil {
		t.Fatalf("decode %s: %v", r, err)
	}
	return body
}

// keyPress creates a tea.KeyPressMsg for the given key string.
// Examples: "a", "enter", "tab", "esc", "ctrl+c", "up", "down"
func keyPress(key string) tea.KeyPressMsg {
	switch key {
	case keys.Enter:
		return tea.KeyPressMsg{Code: tea.KeyEnter}
	case keys.Tab:
		return tea.KeyPressMsg{Code: tea.KeyTab}
	case keys.Escape:
		return tea.KeyPressMsg{Code: tea.KeyEscape}
	case keys.Backspace:
		return tea.KeyPressMsg{Code: tea.KeyBackspace}
	case keys.Up:
		return tea.KeyPressMsg{Code: tea.KeyUp}
	case keys.Down:
		return tea.KeyPressMsg{Code: tea.KeyDown}
	case keys.PgUp:
		return tea.KeyPressMsg{Code: tea.KeyPgUp}
	case keys.PgDown:
		return tea.KeyPressMsg{Code: tea.KeyPgDown}
	case keys.F1:
		return tea.KeyPressMsg{Code: tea.KeyF1}
	case keys.CtrlC:
		return tea.KeyPressMsg{Code: 'c', Mod: tea.ModCtrl}
	case keys.CtrlF:
		return tea.KeyPressMsg{Code: 'f', Mod: tea.ModCtrl}
	case keys.CtrlB:
		return tea.KeyPressMsg{Code: 'b', Mod: tea.ModCtrl}
	case keys.ShiftTab:
		return tea.KeyPressMsg{Code: tea.KeyTab, Mod: tea.ModShift}
	default:
		// Regular character - for single characters, set both Code and Text
		if len(key) == 1 {
			return tea.KeyPressMsg{Code: rune(key[0]), Text: key}
		}
		// Fallback for unknown keys
		return tea.KeyPressMsg{Text: key}
	}
}

// sendKey sends a key press to the model and returns the updated model.
func sendKey(m *Model, key string) *Model {
	result, _ := m.Update(keyPress(key))
	return result.(*Model)
}

// sendKeyCmd sends a key press and returns the resulting command.
func sendKeyCmd(m *Model, key string) tea.Cmd {
	_, cmd := m.Update(keyPress(key))
	return cmd
}

// typeText simulates typing a string by sending individual character key presses.
func typeText(m *Model, text string) *Model {
	for _, ch := range text {
		m = sendKey(m, string(ch))
	}
	return m
}

// setSize sends a window size message to the model.
func setSize(m *Model, width, height int) *Model {
	result, _ := m.Update(tea.WindowSizeMsg{Width: width, Height: height})
	return result.(*Model)
}

// focusConversation moves focus from the chat list to the conversation.
func focusConversation(t *testing.T, m *Model) {
	t.Helper()
	sendKey(m, keys.Tab)
	if m.Focus() != FocusConversation {
		t.Fatalf("focus = %v, want conversation", m.Focus())
	}
}

func storeMessage(id int64, text string) store.Message {
	return store.Message{
		ID:       id,
		ChatID:   testDirectID,
		SenderID: testPeer,
		Date:     1700000000 + id*60,
		Text:     text,
	}
}
