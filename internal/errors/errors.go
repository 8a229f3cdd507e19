// Package errors provides structured error types for tgterm.
// These errors carry the operation that failed, a category, and whether
// the failure must end the session.
package errors

import (
	"errors"
	"fmt"
)

// Op describes an operation, usually as "package.function".
type Op string

// Kind categorizes the type of error.
type Kind int

const (
	KindUnknown Kind = iota
	KindNotFound
	KindInvalid
	KindIO
	KindConfig
	KindProtocol
	KindAuth
	KindParse
	KindTimeout
	KindFatal
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not found"
	case KindInvalid:
		return "invalid"
	case KindIO:
		return "I/O error"
	case KindConfig:
		return "configuration error"
	case KindProtocol:
		return "protocol error"
	case KindAuth:
		return "authorization error"
	case KindParse:
		return "parse error"
	case KindTimeout:
		return "timeout"
	case KindFatal:
		return "fatal error"
	default:
		return "unknown error"
	}
}

// Error is the structured error type for tgterm.
type Error struct {
	Op      Op     // Operation that failed
	Kind    Kind   // Category of error
	Err     error  // Underlying error
	Context string // Additional context
	Fatal   bool   // Whether the session must end
}

// Error returns the error message.
func (e *Error) Error() string {
	if e.Context != "" {
		return fmt.Sprintf("%s: %s: %s", e.Op, e.Context, e.Err)
	}
	if e.Op != "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Err)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// UserMessage is the text shown to the user on exit. It omits the Op
// prefix, which only matters in the log.
func (e *Error) UserMessage() string {
	if e.Context != "" {
		return e.Context
	}
	return e.Err.Error()
}

// E creates a new Error. Arguments can be:
// - Op: the operation name
// - Kind: the error kind (KindFatal also sets Fatal)
// - string: context message
// - error: the underlying error
func E(args ...any) error {
	e := &Error{}
	for _, arg := range args {
		switch a := arg.(type) {
		case Op:
			e.Op = a
		case Kind:
			e.Kind = a
			if a == KindFatal {
				e.Fatal = true
			}
		case string:
			e.Context = a
		case error:
			e.Err = a
		}
	}
	if e.Err == nil {
		e.Err = errors.New(e.Context)
		e.Context = ""
	}
	return e
}

// Is reports whether err is of the given Kind.
func Is(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

// GetKind returns the Kind of an error.
func GetKind(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// IsFatal reports whether err must terminate the session.
func IsFatal(err error) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Fatal
	}
	return false
}

// UserMessage extracts the user-facing text of err.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.UserMessage()
	}
	return err.Error()
}

// MarkFatal wraps err so that IsFatal reports true.
func MarkFatal(op Op, err error) error {
	return &Error{Op: op, Kind: GetKind(err), Err: err, Fatal: true}
}

// Chat errors
func ChatNotFound(chatID int64) error {
	return E(Op("store.Lookup"), KindNotFound, fmt.Sprintf("chat %d not found", chatID))
}

// Config errors
func ConfigLoadFailed(path string, err error) error {
	return E(Op("config.Load"), KindConfig, fmt.Sprintf("failed to load config from %s", path), err)
}

func ConfigInvalid(reason string) error {
	return E(Op("config.Validate"), KindInvalid, reason)
}

// Authorization errors
func MissingCode() error {
	return &Error{
		Op:    Op("handshake.NeedCode"),
		Kind:  KindAuth,
		Err:   errors.New("Please re-run with --code=<code>"),
		Fatal: true,
	}
}

// BackendFatal is a protocol-reported error that ends the session.
func BackendFatal(code int, message string) error {
	return &Error{
		Op:    Op("ingest.Error"),
		Kind:  KindProtocol,
		Err:   fmt.Errorf("backend error %d: %s", code, message),
		Fatal: true,
	}
}

// Compose errors
func EditNotAllowed(messageID int64) error {
	return E(Op("compose.BeginEdit"), KindInvalid, fmt.Sprintf("message %d can no longer be edited", messageID))
}

// Bridge errors
func BridgeStartFailed(command string, err error) error {
	return E(Op("backend.Start"), KindIO, fmt.Sprintf("failed to start bridge %s", command), err)
}
