package ui

import (
	"strings"

	"charm.land/lipgloss/v2"
)

// KeyBinding represents a keyboard shortcut
type KeyBinding struct {
	Key  string
	Desc string
}

// Footer represents the bottom bar: the input mode, the bindings that
// apply to the focused panel, and an optional status message.
type Footer struct {
	width    int
	mode     string
	bindings []KeyBinding
	status   string
}

// NewFooter creates a new footer
func NewFooter() *Footer {
	return &Footer{}
}

// SetWidth sets the footer width
func (f *Footer) SetWidth(width int) {
	f.width = width
}

// SetMode sets the mode badge, e.g. "NORMAL".
func (f *Footer) SetMode(mode string) {
	f.mode = mode
}

// SetBindings replaces the displayed keybindings
func (f *Footer) SetBindings(bindings []KeyBinding) {
	f.bindings = bindings
}

// SetStatus sets a transient message shown after the bindings.
func (f *Footer) SetStatus(status string) {
	f.status = status
}

// View renders the footer
func (f *Footer) View() string {
	parts := make([]string, 0, len(f.bindings))
	for _, b := range f.bindings {
		parts = append(parts, FooterKeyStyle.Render(b.Key)+FooterDescStyle.Render(": "+b.Desc))
	}
	sep := "  " + lipgloss.NewStyle().Foreground(ColorBorder).Render("|") + "  "
	content := strings.Join(parts, sep)
	if f.mode != "" {
		content = FooterModeStyle.Render(f.mode) + " " + content
	}
	if f.status != "" {
		content += sep + StatusLoadingStyle.Render(f.status)
	}
	return FooterStyle.Width(f.width).MaxHeight(FooterHeight).Render(content)
}
