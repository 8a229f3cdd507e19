// Package parser turns raw message payloads into store.Message values.
// Parsing is total: any payload yields a message, with a placeholder text
// when the content schema is not understood.
package parser

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rivo/uniseg"

	"github.com/zhubert/tgterm/internal/logger"
	"github.com/zhubert/tgterm/internal/protocol"
	"github.com/zhubert/tgterm/internal/store"
)

// Content type tags.
const (
	contentText    = "messageText"
	contentSticker = "messageSticker"
)

// Placeholder is the text of a message whose content is unrecognized.
const Placeholder = "[none]"

type formattedText struct {
	Text *string `json:"text"`
}

type webPage struct {
	SiteName    string        `json:"site_name"`
	Title       string        `json:"title"`
	Description formattedText `json:"description"`
}

type textContent struct {
	Type    string         `json:"@type"`
	Text    *formattedText `json:"text"`
	WebPage *webPage       `json:"web_page"`
}

type stickerContent struct {
	Sticker struct {
		Emoji string `json:"emoji"`
	} `json:"sticker"`
}

// Parse decodes raw into a message. It never fails.
func Parse(raw json.RawMessage) store.Message {
	m, err := protocol.NormalizeMessage(raw)
	if err != nil {
		logger.WithComponent("parser").Warn("unparseable message payload", "error", err)
		return store.Message{Text: Placeholder, Placeholder: true}
	}

	text, placeholder := ParseContent(m.Content)
	if placeholder {
		logger.WithChat(m.ChatID).Debug("message content fell back to placeholder",
			"messageID", m.ID, "contentType", protocol.ObjectType(m.Content))
	}
	return store.Message{
		ID:          m.ID,
		ChatID:      m.ChatID,
		SenderID:    m.SenderID,
		Date:        m.Date,
		Text:        text,
		ReplyTo:     m.ReplyToID,
		Edited:      m.EditDate != 0,
		CanBeEdited: m.CanBeEdited,
		Placeholder: placeholder,
	}
}

// ParseContent returns the display text of a message content object.
// placeholder is true when the text was synthesized by the fallback table.
func ParseContent(raw json.RawMessage) (text string, placeholder bool) {
	if text, ok := strictText(raw); ok {
		return text, false
	}
	return fallback(raw), true
}

// strictText accepts only plain text content with no attachments.
func strictText(raw json.RawMessage) (string, bool) {
	var c textContent
	if err := json.Unmarshal(raw, &c); err != nil {
		return "", false
	}
	if c.Type != contentText || c.Text == nil || c.Text.Text == nil || c.WebPage != nil {
		return "", false
	}
	return *c.Text.Text, true
}

func fallback(raw json.RawMessage) string {
	switch protocol.ObjectType(raw) {
	case contentSticker:
		var c stickerContent
		_ = json.Unmarshal(raw, &c)
		return fmt.Sprintf("[%s Sticker]", firstGrapheme(c.Sticker.Emoji))
	case contentText:
		var c textContent
		if err := json.Unmarshal(raw, &c); err != nil || c.WebPage == nil {
			return Placeholder
		}
		parts := []string{
			textOf(c.Text),
			c.WebPage.SiteName,
			c.WebPage.Title,
			textOf(&c.WebPage.Description),
		}
		return strings.Join(parts, "\n")
	default:
		return Placeholder
	}
}

func textOf(f *formattedText) string {
	if f == nil || f.Text == nil {
		return ""
	}
	return *f.Text
}

// firstGrapheme keeps a multi-codepoint emoji intact while dropping
// anything after it.
func firstGrapheme(s string) string {
	g := uniseg.NewGraphemes(s)
	if g.Next() {
		return g.Str()
	}
	return ""
}
