package viewport

import "github.com/zhubert/tgterm/internal/store"

func page(v *store.ViewState) int {
	return max(v.Visible, 1)
}

func lastIndex(total int) int {
	return max(total-1, 0)
}

// older moves the bottom offset n messages toward older history, stopping
// at the oldest stored message.
func older(v *store.ViewState, total, n int) {
	v.BottomOffset = min(v.BottomOffset+n, lastIndex(total))
}

// newer moves the bottom offset n messages toward the newest message.
func newer(v *store.ViewState, n int) {
	v.BottomOffset = max(v.BottomOffset-n, 0)
}

// ScrollOlder moves one message toward older history.
func ScrollOlder(c *store.Conversation) {
	c.UpdateView(func(v *store.ViewState, total int) {
		older(v, total, 1)
	})
}

// ScrollNewer moves one message toward the newest message.
func ScrollNewer(c *store.Conversation) {
	c.UpdateView(func(v *store.ViewState, total int) {
		newer(v, 1)
	})
}

// PageOlder moves a full page toward older history.
func PageOlder(c *store.Conversation) {
	c.UpdateView(func(v *store.ViewState, total int) {
		older(v, total, page(v))
	})
}

// PageNewer moves a full page toward the newest message.
func PageNewer(c *store.Conversation) {
	c.UpdateView(func(v *store.ViewState, total int) {
		newer(v, page(v))
	})
}

// ScrollToBottom jumps to the newest message.
func ScrollToBottom(c *store.Conversation) {
	c.UpdateView(func(v *store.ViewState, total int) {
		v.BottomOffset = 0
	})
}
