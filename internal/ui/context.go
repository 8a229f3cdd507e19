package ui

import (
	"sync"

	"github.com/zhubert/tgterm/internal/logger"
)

// ViewContext holds centralized layout calculations.
// All size calculations should go through this to avoid duplication.
type ViewContext struct {
	// Terminal dimensions
	TerminalWidth  int
	TerminalHeight int

	// Calculated dimensions
	HeaderHeight      int
	FooterHeight      int
	ContentHeight     int // between header and footer
	PanelHeight       int // chat list and conversation, above the input
	ChatListWidth     int
	ConversationWidth int
	InputWidth        int

	mu sync.Mutex
}

var ctx *ViewContext
var ctxOnce sync.Once

// GetViewContext returns the singleton ViewContext instance
func GetViewContext() *ViewContext {
	ctxOnce.Do(func() {
		ctx = &ViewContext{
			HeaderHeight: HeaderHeight,
			FooterHeight: FooterHeight,
		}
		logger.WithComponent("ui").Debug("ViewContext initialized")
	})
	return ctx
}

// UpdateTerminalSize recalculates all dimensions when terminal size changes.
func (v *ViewContext) UpdateTerminalSize(width, height int) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if width < MinTerminalWidth {
		width = MinTerminalWidth
	}
	if height < MinTerminalHeight {
		height = MinTerminalHeight
	}

	v.TerminalWidth = width
	v.TerminalHeight = height
	v.HeaderHeight = HeaderHeight
	v.FooterHeight = FooterHeight

	v.ContentHeight = height - v.HeaderHeight - v.FooterHeight
	v.PanelHeight = v.ContentHeight - InputTotalHeight

	v.ChatListWidth = width / ChatListWidthRatio
	v.ConversationWidth = width - v.ChatListWidth
	v.InputWidth = width

	logger.WithComponent("ui").Debug("terminal size updated",
		"width", width,
		"height", height,
		"panelHeight", v.PanelHeight,
		"chatListWidth", v.ChatListWidth,
		"conversationWidth", v.ConversationWidth,
	)
}

// ConversationBox returns the usable text area inside the conversation
// panel. The viewport engine wraps and pages against this size.
func (v *ViewContext) ConversationBox() (width, height int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.InnerWidth(v.ConversationWidth), v.InnerHeight(v.PanelHeight)
}

// InnerWidth returns the usable width inside a panel with borders
func (v *ViewContext) InnerWidth(panelWidth int) int {
	return max(panelWidth-BorderSize, 0)
}

// InnerHeight returns the usable height inside a panel with borders
func (v *ViewContext) InnerHeight(panelHeight int) int {
	return max(panelHeight-BorderSize, 0)
}
