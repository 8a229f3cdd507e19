// Package backend defines the contract with the messaging backend and
// provides a client that talks to it through a bridge subprocess.
package backend

import (
	"time"

	"github.com/zhubert/tgterm/internal/protocol"
)

// Client is the backend adapter. Send is fire-and-forget; Receive returns
// false when nothing arrived within timeout. Transport and protocol
// failures are delivered as error events rather than returned.
type Client interface {
	Send(req protocol.Request)
	Receive(timeout time.Duration) (*protocol.Event, bool)
	Close() error
}

// transportErrorCode marks errors raised locally rather than by the
// backend.
const transportErrorCode = 500

// transportError builds a fatal error event for a transport failure.
func transportError(message, detail string) *protocol.Event {
	return protocol.NewEvent(protocol.TypeError, "", map[string]any{
		"code":    transportErrorCode,
		"message": message,
		"detail":  detail,
	})
}
