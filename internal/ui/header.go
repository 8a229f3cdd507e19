package ui

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"charm.land/lipgloss/v2"
	"github.com/mattn/go-runewidth"

	"github.com/zhubert/tgterm/internal/store"
)

// AppTitle is shown at the left of the header.
const AppTitle = " tgterm"

// Header represents the top header bar: app title on the left, the
// selected conversation and its status on the right.
type Header struct {
	width  int
	title  string
	status string
}

// NewHeader creates a new header
func NewHeader() *Header {
	return &Header{}
}

// SetWidth sets the header width
func (h *Header) SetWidth(width int) {
	h.width = width
}

// SetConversation sets the conversation title and its status text.
func (h *Header) SetConversation(title, status string) {
	h.title = title
	h.status = status
}

// PresenceStatus describes a conversation for the header. Groups show
// "group"; direct chats show the counterpart's presence.
func PresenceStatus(kind store.Kind, peer store.Participant, known bool) string {
	if kind == store.KindGroup {
		return "group"
	}
	if !known {
		return "unknown"
	}
	switch peer.Presence {
	case store.PresenceOnline:
		return "online"
	case store.PresenceOffline:
		return "last seen " + peer.LastSeen.Local().Format(LastSeenLayout)
	default:
		return "unknown"
	}
}

// rightText is "title: status ", truncated to fit next to the app title.
func (h *Header) rightText() string {
	if h.title == "" {
		return ""
	}
	text := h.title
	if h.status != "" {
		text += ": " + h.status
	}
	avail := h.width - runewidth.StringWidth(AppTitle) - 2
	if avail <= 0 {
		return ""
	}
	return runewidth.Truncate(text, avail, "…") + " "
}

// View renders the header
func (h *Header) View() string {
	right := h.rightText()
	padding := h.width - runewidth.StringWidth(AppTitle) - runewidth.StringWidth(right)
	if padding < 0 {
		padding = 0
	}
	muteFrom := -1
	if i := strings.LastIndex(right, ": "); h.status != "" && i >= 0 {
		muteFrom = utf8.RuneCountInString(AppTitle) + padding + utf8.RuneCountInString(right[:i])
	}
	return h.renderGradient(AppTitle+strings.Repeat(" ", padding)+right, muteFrom)
}

// parseHexColor parses a hex color string (e.g., "#7C3AED") into RGB components
func parseHexColor(hex string) (r, g, b int) {
	if len(hex) == 7 && hex[0] == '#' {
		fmt.Sscanf(hex[1:], "%02x%02x%02x", &r, &g, &b)
	}
	return
}

// renderGradient renders content on a background fading from the theme's
// primary colour to its background. Runes from muteFrom on are muted.
func (h *Header) renderGradient(content string, muteFrom int) string {
	if len(content) == 0 {
		return ""
	}

	theme := CurrentTheme()
	startR, startG, startB := parseHexColor(theme.Primary)
	endR, endG, endB := parseHexColor(theme.Bg)
	textColor := lipgloss.Color(theme.Text)
	mutedColor := lipgloss.Color(theme.TextMuted)

	runes := []rune(content)
	width := len(runes)
	var result strings.Builder
	for i, r := range runes {
		t := float64(i) / float64(width)
		cr := int(float64(startR)*(1-t) + float64(endR)*t)
		cg := int(float64(startG)*(1-t) + float64(endG)*t)
		cb := int(float64(startB)*(1-t) + float64(endB)*t)

		style := lipgloss.NewStyle().
			Background(lipgloss.Color(fmt.Sprintf("#%02X%02X%02X", cr, cg, cb))).
			Bold(i < len(AppTitle))
		if muteFrom >= 0 && i >= muteFrom {
			style = style.Foreground(mutedColor)
		} else {
			style = style.Foreground(textColor)
		}
		result.WriteString(style.Render(string(r)))
	}
	return result.String()
}
