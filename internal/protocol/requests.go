package protocol

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// Kind is the logical category of an outgoing request.
type Kind int

const (
	KindSetLogVerbosity Kind = iota
	KindSetParameters
	KindCheckEncryptionKey
	KindSetPhoneNumber
	KindCheckCode
	KindGetChatList
	KindGetMe
	KindGetChatHistory
	KindSendMessage
	KindEditMessage
)

func (k Kind) String() string {
	switch k {
	case KindSetLogVerbosity:
		return "SetLogVerbosity"
	case KindSetParameters:
		return "SetParameters"
	case KindCheckEncryptionKey:
		return "CheckEncryptionKey"
	case KindSetPhoneNumber:
		return "SetPhoneNumber"
	case KindCheckCode:
		return "CheckCode"
	case KindGetChatList:
		return "GetChatList"
	case KindGetMe:
		return "GetMe"
	case KindGetChatHistory:
		return "GetChatHistory"
	case KindSendMessage:
		return "SendMessage"
	case KindEditMessage:
		return "EditMessage"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Request is a serialized outgoing request. Extra is the @extra
// correlation tag echoed back by the backend on the response.
type Request struct {
	Kind    Kind
	Extra   string
	Payload []byte
}

func (r Request) String() string {
	return fmt.Sprintf("%s[%s]", r.Kind, r.Extra)
}

// ChatListLimit is how many chats are requested after authorization.
const ChatListLimit = 255

func newRequest(kind Kind, typ string, fields map[string]any) Request {
	extra := uuid.NewString()
	body := map[string]any{"@type": typ, "@extra": extra}
	for k, v := range fields {
		body[k] = v
	}
	// Fields are built from strings, numbers, bools and nested maps only.
	data, _ := json.Marshal(body)
	return Request{Kind: kind, Extra: extra, Payload: data}
}

func formattedText(text string) map[string]any {
	return map[string]any{
		"@type": "inputMessageText",
		"text": map[string]any{
			"@type": "formattedText",
			"text":  text,
		},
	}
}

// Parameters are the client settings sent during authorization.
type Parameters struct {
	APIID              int64
	APIHash            string
	DatabaseDir        string
	FilesDirectory     string
	SystemLanguage     string
	DeviceModel        string
	ApplicationVersion string
}

func SetLogVerbosity(level int) Request {
	return newRequest(KindSetLogVerbosity, "setLogVerbosityLevel", map[string]any{
		"new_verbosity_level": level,
	})
}

func SetParameters(p Parameters) Request {
	return newRequest(KindSetParameters, "setTdlibParameters", map[string]any{
		"parameters": map[string]any{
			"@type":                "tdlibParameters",
			"use_test_dc":          false,
			"database_directory":   p.DatabaseDir,
			"files_directory":      p.FilesDirectory,
			"use_file_database":    false,
			"api_id":               p.APIID,
			"api_hash":             p.APIHash,
			"system_language_code": p.SystemLanguage,
			"device_model":         p.DeviceModel,
			"application_version":  p.ApplicationVersion,
		},
	})
}

func CheckEncryptionKey() Request {
	return newRequest(KindCheckEncryptionKey, "checkDatabaseEncryptionKey", nil)
}

func SetPhoneNumber(phone string) Request {
	return newRequest(KindSetPhoneNumber, "setAuthenticationPhoneNumber", map[string]any{
		"phone_number": phone,
	})
}

func CheckCode(code string) Request {
	return newRequest(KindCheckCode, "checkAuthenticationCode", map[string]any{
		"code": code,
	})
}

func GetChatList() Request {
	return newRequest(KindGetChatList, "getChats", map[string]any{
		"chat_list":      map[string]any{"@type": "chatListMain"},
		"offset_order":   "9223372036854775807",
		"offset_chat_id": 0,
		"limit":          ChatListLimit,
	})
}

func GetMe() Request {
	return newRequest(KindGetMe, "getMe", nil)
}

// GetChatHistory requests up to limit messages older than fromID. A fromID
// of 0 asks for the most recent messages.
func GetChatHistory(chatID, fromID int64, limit int) Request {
	return newRequest(KindGetChatHistory, "getChatHistory", map[string]any{
		"chat_id":         chatID,
		"from_message_id": fromID,
		"offset":          0,
		"limit":           limit,
		"only_local":      false,
	})
}

// SendMessage sends text to chatID, as a reply when replyTo is non-zero.
func SendMessage(chatID int64, text string, replyTo int64) Request {
	fields := map[string]any{
		"chat_id":               chatID,
		"input_message_content": formattedText(text),
	}
	if replyTo != 0 {
		fields["reply_to_message_id"] = replyTo
	}
	return newRequest(KindSendMessage, "sendMessage", fields)
}

func EditMessage(chatID, messageID int64, text string) Request {
	return newRequest(KindEditMessage, "editMessageText", map[string]any{
		"chat_id":               chatID,
		"message_id":            messageID,
		"input_message_content": formattedText(text),
	})
}
