// Package handshake drives the backend's authorization sequence. Each
// authorization state the backend reports is answered with exactly one
// request until the session is ready.
package handshake

import (
	"github.com/zhubert/tgterm/internal/errors"
	"github.com/zhubert/tgterm/internal/logger"
	"github.com/zhubert/tgterm/internal/protocol"
)

// State is the authorization progress.
type State int

const (
	StateNeedParameters State = iota
	StateNeedEncryptionKey
	StateNeedPhoneNumber
	StateNeedCode
	StateReady
	StateError
)

func (s State) String() string {
	switch s {
	case StateNeedParameters:
		return "need parameters"
	case StateNeedEncryptionKey:
		return "need encryption key"
	case StateNeedPhoneNumber:
		return "need phone number"
	case StateNeedCode:
		return "need code"
	case StateReady:
		return "ready"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

// Credentials are what the handshake answers the backend with.
type Credentials struct {
	Parameters protocol.Parameters
	Phone      string
	// Code is the confirmation code supplied at startup. It may be empty
	// when the backend already has a valid session.
	Code string
}

// Machine is the authorization state machine. It is driven only by the
// network worker.
type Machine struct {
	state State
	creds Credentials
}

// New creates a machine waiting for the backend's first state.
func New(creds Credentials) *Machine {
	return &Machine{state: StateNeedParameters, creds: creds}
}

// State returns the current state.
func (m *Machine) State() State {
	return m.state
}

// Ready reports whether authorization has completed.
func (m *Machine) Ready() bool {
	return m.state == StateReady
}

// Handle moves to the state named by the backend's authorization state tag
// and returns the requests to send in response. A returned error is fatal.
func (m *Machine) Handle(authState string) ([]protocol.Request, error) {
	log := logger.WithComponent("handshake")

	switch authState {
	case protocol.AuthWaitParameters:
		m.state = StateNeedParameters
		return []protocol.Request{protocol.SetParameters(m.creds.Parameters)}, nil

	case protocol.AuthWaitEncryptionKey:
		m.state = StateNeedEncryptionKey
		return []protocol.Request{protocol.CheckEncryptionKey()}, nil

	case protocol.AuthWaitPhoneNumber:
		m.state = StateNeedPhoneNumber
		return []protocol.Request{protocol.SetPhoneNumber(m.creds.Phone)}, nil

	case protocol.AuthWaitCode:
		m.state = StateNeedCode
		if m.creds.Code == "" {
			m.state = StateError
			return nil, errors.MissingCode()
		}
		return []protocol.Request{protocol.CheckCode(m.creds.Code)}, nil

	case protocol.AuthReady:
		if m.state == StateReady {
			return nil, nil
		}
		m.state = StateReady
		log.Info("authorization complete")
		return []protocol.Request{protocol.GetChatList(), protocol.GetMe()}, nil

	case protocol.AuthClosed:
		m.state = StateError
		return nil, errors.MarkFatal("handshake.Handle",
			errors.E(errors.Op("handshake.Handle"), errors.KindAuth, "the backend closed the session"))

	case "authorizationStateWaitPassword":
		m.state = StateError
		return nil, errors.MarkFatal("handshake.Handle",
			errors.E(errors.Op("handshake.Handle"), errors.KindAuth, "two-step verification passwords are not supported"))

	default:
		log.Warn("ignoring authorization state", "state", authState)
		return nil, nil
	}
}
