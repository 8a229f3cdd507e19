package ui

import (
	"image/color"

	"charm.land/lipgloss/v2"

	"github.com/zhubert/tgterm/internal/store"
)

// SenderColors are the ANSI colours assigned to participants in order of
// first appearance. They follow the terminal's palette rather than the
// theme so names stay distinguishable on any background.
var SenderColors = [store.PaletteSize]color.Color{
	lipgloss.Color("1"),  // red
	lipgloss.Color("2"),  // green
	lipgloss.Color("3"),  // yellow
	lipgloss.Color("4"),  // blue
	lipgloss.Color("5"),  // magenta
	lipgloss.Color("6"),  // cyan
	lipgloss.Color("7"),  // gray
	lipgloss.Color("9"),  // light red
	lipgloss.Color("10"), // light green
	lipgloss.Color("11"), // light yellow
	lipgloss.Color("12"), // light blue
	lipgloss.Color("13"), // light magenta
	lipgloss.Color("14"), // light cyan
}

// SenderStyle returns the style for a participant's colour slot.
func SenderStyle(slot int) lipgloss.Style {
	if slot < 0 {
		slot = 0
	}
	return lipgloss.NewStyle().Foreground(SenderColors[slot%store.PaletteSize])
}
