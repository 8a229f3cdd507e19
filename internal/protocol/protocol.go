// Package protocol defines the JSON objects exchanged with the tdjson
// backend: incoming events, outgoing requests, and the normalization step
// that turns loosely shaped payloads into canonical values.
package protocol

import (
	"encoding/json"
	"fmt"
)

// Event tags handled by the client.
const (
	TypeUpdateAuthorizationState   = "updateAuthorizationState"
	TypeUpdateNewChat              = "updateNewChat"
	TypeUpdateNewMessage           = "updateNewMessage"
	TypeUpdateUser                 = "updateUser"
	TypeUpdateUserStatus           = "updateUserStatus"
	TypeUpdateMessageContent       = "updateMessageContent"
	TypeUpdateMessageEdited        = "updateMessageEdited"
	TypeUpdateMessageSendSucceeded = "updateMessageSendSucceeded"
	TypeMessages                   = "messages"
	TypeUser                       = "user"
	TypeError                      = "error"
	TypeOk                         = "ok"
)

// Authorization states carried by updateAuthorizationState.
const (
	AuthWaitParameters    = "authorizationStateWaitTdlibParameters"
	AuthWaitEncryptionKey = "authorizationStateWaitEncryptionKey"
	AuthWaitPhoneNumber   = "authorizationStateWaitPhoneNumber"
	AuthWaitCode          = "authorizationStateWaitCode"
	AuthReady             = "authorizationStateReady"
	AuthClosed            = "authorizationStateClosed"
)

// Event is one object received from the backend. Raw holds the full object
// so handlers can decode the tag-specific payload.
type Event struct {
	Type  string
	Extra string
	Raw   json.RawMessage
}

type eventHeader struct {
	Type  string `json:"@type"`
	Extra string `json:"@extra"`
}

// DecodeEvent reads the tag and correlation id of a raw backend object.
func DecodeEvent(data []byte) (*Event, error) {
	var h eventHeader
	if err := json.Unmarshal(data, &h); err != nil {
		return nil, fmt.Errorf("failed to decode event: %w", err)
	}
	if h.Type == "" {
		return nil, fmt.Errorf("event has no @type")
	}
	raw := make(json.RawMessage, len(data))
	copy(raw, data)
	return &Event{Type: h.Type, Extra: h.Extra, Raw: raw}, nil
}

// NewEvent builds an event from a payload value. The value's @type and
// @extra fields are set from typ and extra.
func NewEvent(typ, extra string, payload map[string]any) *Event {
	body := map[string]any{"@type": typ}
	if extra != "" {
		body["@extra"] = extra
	}
	for k, v := range payload {
		body[k] = v
	}
	data, err := json.Marshal(body)
	if err != nil {
		data = []byte(fmt.Sprintf(`{"@type":%q}`, typ))
	}
	return &Event{Type: typ, Extra: extra, Raw: data}
}

// Decode unmarshals the event payload into v.
func (e *Event) Decode(v any) error {
	if err := json.Unmarshal(e.Raw, v); err != nil {
		return fmt.Errorf("failed to decode %s: %w", e.Type, err)
	}
	return nil
}

// AuthorizationStateUpdate is the payload of updateAuthorizationState.
type AuthorizationStateUpdate struct {
	AuthorizationState struct {
		Type string `json:"@type"`
	} `json:"authorization_state"`
}

// NewMessageUpdate is the payload of updateNewMessage.
type NewMessageUpdate struct {
	Message json.RawMessage `json:"message"`
}

// NewChatUpdate is the payload of updateNewChat.
type NewChatUpdate struct {
	Chat json.RawMessage `json:"chat"`
}

// Messages is a page of chat history returned for getChatHistory.
type Messages struct {
	TotalCount int               `json:"total_count"`
	Messages   []json.RawMessage `json:"messages"`
}

// User status tags.
const (
	StatusOnline  = "userStatusOnline"
	StatusOffline = "userStatusOffline"
)

// UserStatus is a user's presence as reported by the backend.
type UserStatus struct {
	Type      string `json:"@type"`
	WasOnline int64  `json:"was_online"`
}

// User is a backend user object.
type User struct {
	ID        int64      `json:"id"`
	FirstName string     `json:"first_name"`
	LastName  string     `json:"last_name"`
	Username  string     `json:"username"`
	Status    UserStatus `json:"status"`
}

// UserUpdate is the payload of updateUser.
type UserUpdate struct {
	User User `json:"user"`
}

// UserStatusUpdate is the payload of updateUserStatus.
type UserStatusUpdate struct {
	UserID int64      `json:"user_id"`
	Status UserStatus `json:"status"`
}

// MessageContentUpdate is the payload of updateMessageContent.
type MessageContentUpdate struct {
	ChatID     int64           `json:"chat_id"`
	MessageID  int64           `json:"message_id"`
	NewContent json.RawMessage `json:"new_content"`
}

// MessageEditedUpdate is the payload of updateMessageEdited.
type MessageEditedUpdate struct {
	ChatID    int64 `json:"chat_id"`
	MessageID int64 `json:"message_id"`
	EditDate  int64 `json:"edit_date"`
}

// MessageSendSucceededUpdate is the payload of updateMessageSendSucceeded.
type MessageSendSucceededUpdate struct {
	Message      json.RawMessage `json:"message"`
	OldMessageID int64           `json:"old_message_id"`
}
