package protocol

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Message is the canonical shape of a message payload. Field locations
// differ between backend versions; NormalizeMessage resolves them.
type Message struct {
	ID          int64
	ChatID      int64
	SenderID    int64
	Date        int64
	EditDate    int64
	ReplyToID   int64
	CanBeEdited bool
	Content     json.RawMessage
}

// NormalizeMessage extracts the canonical fields of a raw message. Fields
// of the wrong type read as zero. It fails only when raw is not an object.
func NormalizeMessage(raw json.RawMessage) (Message, error) {
	fields, err := objectFields(raw)
	if err != nil {
		return Message{}, err
	}
	return Message{
		ID:          int64Field(fields, "id"),
		ChatID:      int64Field(fields, "chat_id"),
		SenderID:    senderID(fields),
		Date:        int64Field(fields, "date"),
		EditDate:    int64Field(fields, "edit_date"),
		ReplyToID:   replyToID(fields),
		CanBeEdited: boolField(fields, "can_be_edited"),
		Content:     fields["content"],
	}, nil
}

// Chat type tags.
const (
	ChatTypePrivate    = "chatTypePrivate"
	ChatTypeSecret     = "chatTypeSecret"
	ChatTypeBasicGroup = "chatTypeBasicGroup"
	ChatTypeSupergroup = "chatTypeSupergroup"
)

// Chat is the canonical shape of a chat payload.
type Chat struct {
	ID    int64
	Title string
	Type  string
	// UserID is the counterpart of a private or secret chat.
	UserID int64
	// LastMessageDate seeds the chat's activity time for sorting.
	LastMessageDate int64
}

// IsPrivate reports whether the chat is a one-to-one conversation.
func (c Chat) IsPrivate() bool {
	return c.Type == ChatTypePrivate || c.Type == ChatTypeSecret
}

// NormalizeChat extracts the canonical fields of a raw chat object.
func NormalizeChat(raw json.RawMessage) (Chat, error) {
	fields, err := objectFields(raw)
	if err != nil {
		return Chat{}, err
	}
	c := Chat{
		ID:    int64Field(fields, "id"),
		Title: stringField(fields, "title"),
	}
	if typ, err := objectFields(fields["type"]); err == nil {
		c.Type = stringField(typ, "@type")
		c.UserID = int64Field(typ, "user_id")
	}
	if last, err := objectFields(fields["last_message"]); err == nil {
		c.LastMessageDate = int64Field(last, "date")
	}
	if c.ID == 0 {
		return Chat{}, fmt.Errorf("chat has no id")
	}
	return c, nil
}

func objectFields(raw json.RawMessage) (map[string]json.RawMessage, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("payload is not an object: %w", err)
	}
	if fields == nil {
		return nil, fmt.Errorf("payload is null")
	}
	return fields, nil
}

// ObjectType returns the @type of a raw object, or "" when it has none.
func ObjectType(raw json.RawMessage) string {
	fields, err := objectFields(raw)
	if err != nil {
		return ""
	}
	return stringField(fields, "@type")
}

// int64Field accepts both JSON numbers and the string form the backend
// uses for 64-bit values.
func int64Field(fields map[string]json.RawMessage, key string) int64 {
	raw, ok := fields[key]
	if !ok {
		return 0
	}
	var n int64
	if err := json.Unmarshal(raw, &n); err == nil {
		return n
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			return n
		}
	}
	return 0
}

func stringField(fields map[string]json.RawMessage, key string) string {
	var s string
	if raw, ok := fields[key]; ok {
		_ = json.Unmarshal(raw, &s)
	}
	return s
}

func boolField(fields map[string]json.RawMessage, key string) bool {
	var b bool
	if raw, ok := fields[key]; ok {
		_ = json.Unmarshal(raw, &b)
	}
	return b
}

// senderID resolves the sender across the three layouts seen in the wild:
// sender_id{user_id|chat_id}, sender{user_id|chat_id}, and sender_user_id.
func senderID(fields map[string]json.RawMessage) int64 {
	for _, key := range []string{"sender_id", "sender"} {
		obj, err := objectFields(fields[key])
		if err != nil {
			continue
		}
		if id := int64Field(obj, "user_id"); id != 0 {
			return id
		}
		if id := int64Field(obj, "chat_id"); id != 0 {
			return id
		}
	}
	return int64Field(fields, "sender_user_id")
}

func replyToID(fields map[string]json.RawMessage) int64 {
	if id := int64Field(fields, "reply_to_message_id"); id != 0 {
		return id
	}
	if obj, err := objectFields(fields["reply_to"]); err == nil {
		return int64Field(obj, "message_id")
	}
	return 0
}
