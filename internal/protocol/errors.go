package protocol

// Error is the payload of an error event.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Error messages raised locally for transport failures.
const (
	MsgBridgeExited      = "BRIDGE_EXITED"
	MsgBridgeWriteFailed = "BRIDGE_WRITE_FAILED"
)

// fatalMessages are backend error messages after which the session cannot
// continue without user intervention.
var fatalMessages = map[string]bool{
	"PHONE_CODE_INVALID":     true,
	"PHONE_CODE_EXPIRED":     true,
	"PHONE_CODE_EMPTY":       true,
	"PHONE_NUMBER_INVALID":   true,
	"PHONE_NUMBER_BANNED":    true,
	"API_ID_INVALID":         true,
	"API_ID_PUBLISHED_FLOOD": true,
	"AUTH_KEY_UNREGISTERED":  true,
	"SESSION_REVOKED":        true,
	"USER_DEACTIVATED":       true,
	MsgBridgeExited:          true,
	MsgBridgeWriteFailed:     true,
}

// fatalCodes are error codes that end the session regardless of message.
var fatalCodes = map[int]bool{
	401: true,
}

// IsFatal reports whether the error ends the session. Everything not in
// the table is recoverable.
func (e Error) IsFatal() bool {
	return fatalCodes[e.Code] || fatalMessages[e.Message]
}
