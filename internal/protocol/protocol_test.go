package protocol

import (
	"encoding/json"
	"testing"
)

func decodePayload(t *testing.T, r Request) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(r.Payload, &body); err != nil {
		t.Fatalf("payload is not JSON: %v", err)
	}
	return body
}

func TestDecodeEvent(t *testing.T) {
	ev, err := DecodeEvent([]byte(`{"@type":"messages","@extra":"abc","total_count":0,"messages":[]}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ev.Type != TypeMessages {
		t.Errorf("Type = %q, want %q", ev.Type, TypeMessages)
	}
	if ev.Extra != "abc" {
		t.Errorf("Extra = %q, want abc", ev.Extra)
	}

	var batch Messages
	if err := ev.Decode(&batch); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if batch.TotalCount != 0 || len(batch.Messages) != 0 {
		t.Errorf("unexpected batch %+v", batch)
	}
}

func TestDecodeEvent_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not json", `{{`},
		{"no type", `{"foo":1}`},
		{"array", `[1,2]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := DecodeEvent([]byte(tt.data)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestNewEvent(t *testing.T) {
	ev := NewEvent(TypeUpdateUserStatus, "", map[string]any{
		"user_id": 7,
		"status":  map[string]any{"@type": StatusOnline},
	})

	var upd UserStatusUpdate
	if err := ev.Decode(&upd); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if upd.UserID != 7 || upd.Status.Type != StatusOnline {
		t.Errorf("unexpected update %+v", upd)
	}
}

func TestRequests(t *testing.T) {
	tests := []struct {
		name     string
		req      Request
		kind     Kind
		wantType string
		check    func(t *testing.T, body map[string]any)
	}{
		{
			name:     "log verbosity",
			req:      SetLogVerbosity(2),
			kind:     KindSetLogVerbosity,
			wantType: "setLogVerbosityLevel",
			check: func(t *testing.T, body map[string]any) {
				if body["new_verbosity_level"] != float64(2) {
					t.Errorf("verbosity = %v", body["new_verbosity_level"])
				}
			},
		},
		{
			name:     "parameters",
			req:      SetParameters(Parameters{APIID: 42, APIHash: "h", DatabaseDir: "/tmp/td"}),
			kind:     KindSetParameters,
			wantType: "setTdlibParameters",
			check: func(t *testing.T, body map[string]any) {
				params, ok := body["parameters"].(map[string]any)
				if !ok {
					t.Fatal("parameters missing")
				}
				if params["api_id"] != float64(42) || params["api_hash"] != "h" {
					t.Errorf("unexpected parameters %v", params)
				}
			},
		},
		{
			name:     "encryption key",
			req:      CheckEncryptionKey(),
			kind:     KindCheckEncryptionKey,
			wantType: "checkDatabaseEncryptionKey",
		},
		{
			name:     "phone",
			req:      SetPhoneNumber("+1555"),
			kind:     KindSetPhoneNumber,
			wantType: "setAuthenticationPhoneNumber",
			check: func(t *testing.T, body map[string]any) {
				if body["phone_number"] != "+1555" {
					t.Errorf("phone_number = %v", body["phone_number"])
				}
			},
		},
		{
			name:     "code",
			req:      CheckCode("12345"),
			kind:     KindCheckCode,
			wantType: "checkAuthenticationCode",
			check: func(t *testing.T, body map[string]any) {
				if body["code"] != "12345" {
					t.Errorf("code = %v", body["code"])
				}
			},
		},
		{
			name:     "chat list",
			req:      GetChatList(),
			kind:     KindGetChatList,
			wantType: "getChats",
			check: func(t *testing.T, body map[string]any) {
				if body["limit"] != float64(ChatListLimit) {
					t.Errorf("limit = %v", body["limit"])
				}
			},
		},
		{
			name:     "me",
			req:      GetMe(),
			kind:     KindGetMe,
			wantType: "getMe",
		},
		{
			name:     "history",
			req:      GetChatHistory(10, 0, 20),
			kind:     KindGetChatHistory,
			wantType: "getChatHistory",
			check: func(t *testing.T, body map[string]any) {
				if body["chat_id"] != float64(10) || body["from_message_id"] != float64(0) || body["limit"] != float64(20) {
					t.Errorf("unexpected history body %v", body)
				}
				if body["only_local"] != false {
					t.Error("only_local should be false")
				}
			},
		},
		{
			name:     "send plain",
			req:      SendMessage(10, "hi", 0),
			kind:     KindSendMessage,
			wantType: "sendMessage",
			check: func(t *testing.T, body map[string]any) {
				if _, ok := body["reply_to_message_id"]; ok {
					t.Error("plain send should not carry reply_to_message_id")
				}
				content := body["input_message_content"].(map[string]any)
				text := content["text"].(map[string]any)
				if text["text"] != "hi" {
					t.Errorf("text = %v", text["text"])
				}
			},
		},
		{
			name:     "send reply",
			req:      SendMessage(10, "hi", 5),
			kind:     KindSendMessage,
			wantType: "sendMessage",
			check: func(t *testing.T, body map[string]any) {
				if body["reply_to_message_id"] != float64(5) {
					t.Errorf("reply_to_message_id = %v", body["reply_to_message_id"])
				}
			},
		},
		{
			name:     "edit",
			req:      EditMessage(10, 5, "fixed"),
			kind:     KindEditMessage,
			wantType: "editMessageText",
			check: func(t *testing.T, body map[string]any) {
				if body["message_id"] != float64(5) {
					t.Errorf("message_id = %v", body["message_id"])
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.req.Kind != tt.kind {
				t.Errorf("Kind = %v, want %v", tt.req.Kind, tt.kind)
			}
			if tt.req.Extra == "" {
				t.Error("Extra should be set")
			}
			body := decodePayload(t, tt.req)
			if body["@type"] != tt.wantType {
				t.Errorf("@type = %v, want %s", body["@type"], tt.wantType)
			}
			if body["@extra"] != tt.req.Extra {
				t.Errorf("@extra = %v, want %s", body["@extra"], tt.req.Extra)
			}
			if tt.check != nil {
				tt.check(t, body)
			}
		})
	}
}

func TestRequestExtraUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		r := GetMe()
		if seen[r.Extra] {
			t.Fatalf("duplicate extra %s", r.Extra)
		}
		seen[r.Extra] = true
	}
}

func TestKindString(t *testing.T) {
	if KindEditMessage.String() != "EditMessage" {
		t.Errorf("got %q", KindEditMessage.String())
	}
	if Kind(99).String() != "Kind(99)" {
		t.Errorf("got %q", Kind(99).String())
	}
}

func TestErrorIsFatal(t *testing.T) {
	tests := []struct {
		err  Error
		want bool
	}{
		{Error{Code: 400, Message: "PHONE_CODE_INVALID"}, true},
		{Error{Code: 400, Message: "PHONE_NUMBER_INVALID"}, true},
		{Error{Code: 401, Message: "Unauthorized"}, true},
		{Error{Code: 400, Message: "MESSAGE_NOT_MODIFIED"}, false},
		{Error{Code: 429, Message: "Too Many Requests: retry after 5"}, false},
		{Error{Code: 404, Message: "Not Found"}, false},
	}
	for _, tt := range tests {
		if got := tt.err.IsFatal(); got != tt.want {
			t.Errorf("%+v.IsFatal() = %v, want %v", tt.err, got, tt.want)
		}
	}
}
