package protocol

import (
	"encoding/json"
	"testing"
)

func TestNormalizeMessage_SenderLayouts(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want int64
	}{
		{"sender_id user", `{"id":1,"sender_id":{"@type":"messageSenderUser","user_id":7}}`, 7},
		{"sender_id chat", `{"id":1,"sender_id":{"@type":"messageSenderChat","chat_id":-100}}`, -100},
		{"sender user", `{"id":1,"sender":{"user_id":8}}`, 8},
		{"legacy", `{"id":1,"sender_user_id":9}`, 9},
		{"string id", `{"id":1,"sender_user_id":"10"}`, 10},
		{"none", `{"id":1}`, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := NormalizeMessage(json.RawMessage(tt.raw))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if m.SenderID != tt.want {
				t.Errorf("SenderID = %d, want %d", m.SenderID, tt.want)
			}
		})
	}
}

func TestNormalizeMessage_Fields(t *testing.T) {
	raw := `{"id":"42","chat_id":5,"date":1600000000,"edit_date":1600000100,
		"can_be_edited":true,"reply_to":{"message_id":41},
		"content":{"@type":"messageText"}}`
	m, err := NormalizeMessage(json.RawMessage(raw))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.ID != 42 || m.ChatID != 5 || m.Date != 1600000000 || m.EditDate != 1600000100 {
		t.Errorf("unexpected ids %+v", m)
	}
	if !m.CanBeEdited {
		t.Error("CanBeEdited should be true")
	}
	if m.ReplyToID != 41 {
		t.Errorf("ReplyToID = %d, want 41", m.ReplyToID)
	}
	if ObjectType(m.Content) != "messageText" {
		t.Errorf("content type = %q", ObjectType(m.Content))
	}
}

func TestNormalizeMessage_WrongTypesReadAsZero(t *testing.T) {
	m, err := NormalizeMessage(json.RawMessage(`{"id":{"nested":true},"date":"yesterday","can_be_edited":"yes"}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.ID != 0 || m.Date != 0 || m.CanBeEdited {
		t.Errorf("expected zero values, got %+v", m)
	}
}

func TestNormalizeMessage_NotObject(t *testing.T) {
	for _, raw := range []string{`null`, `[1]`, `"text"`, ``} {
		if _, err := NormalizeMessage(json.RawMessage(raw)); err == nil {
			t.Errorf("expected error for %q", raw)
		}
	}
}

func TestNormalizeChat(t *testing.T) {
	c, err := NormalizeChat(json.RawMessage(`{"id":11,"title":"Alice","type":{"@type":"chatTypePrivate","user_id":3},"last_message":{"id":5,"date":1700}}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.ID != 11 || c.Title != "Alice" || c.UserID != 3 || c.LastMessageDate != 1700 {
		t.Errorf("unexpected chat %+v", c)
	}
	if !c.IsPrivate() {
		t.Error("chat should be private")
	}

	g, err := NormalizeChat(json.RawMessage(`{"id":-12,"title":"Team","type":{"@type":"chatTypeSupergroup","supergroup_id":1}}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if g.IsPrivate() {
		t.Error("supergroup should not be private")
	}
}

func TestNormalizeChat_MissingID(t *testing.T) {
	if _, err := NormalizeChat(json.RawMessage(`{"title":"nobody"}`)); err == nil {
		t.Error("expected error for chat without id")
	}
}
