package store

import "time"

// Message is one stored chat message.
type Message struct {
	ID          int64
	ChatID      int64
	SenderID    int64
	Date        int64
	Text        string
	ReplyTo     int64
	Edited      bool
	CanBeEdited bool
	// Placeholder is set when Text was synthesized because the content
	// could not be decoded.
	Placeholder bool
}

// Time returns the message date.
func (m Message) Time() time.Time {
	return time.Unix(m.Date, 0)
}
