// Package keys provides string constants for Bubble Tea v2 key press events.
//
// The values are derived from tea.KeyPressMsg{...}.String() so they always
// match what the runtime reports. Single printable characters ("j", "k",
// "i", "r", "e", "y") are matched literally by the dispatch table.
package keys

import tea "charm.land/bubbletea/v2"

// Navigation keys
var (
	Up     = tea.KeyPressMsg{Code: tea.KeyUp}.String()     // "up"
	Down   = tea.KeyPressMsg{Code: tea.KeyDown}.String()   // "down"
	PgUp   = tea.KeyPressMsg{Code: tea.KeyPgUp}.String()   // "pgup"
	PgDown = tea.KeyPressMsg{Code: tea.KeyPgDown}.String() // "pgdown"
)

// Action keys
var (
	Enter     = tea.KeyPressMsg{Code: tea.KeyEnter}.String()                    // "enter"
	Tab       = tea.KeyPressMsg{Code: tea.KeyTab}.String()                      // "tab"
	ShiftTab  = (tea.KeyPressMsg{Code: tea.KeyTab, Mod: tea.ModShift}).String() // "shift+tab"
	Backspace = tea.KeyPressMsg{Code: tea.KeyBackspace}.String()                // "backspace"
	Escape    = tea.KeyPressMsg{Code: tea.KeyEscape}.String()                   // "esc"
	F1        = tea.KeyPressMsg{Code: tea.KeyF1}.String()                       // "f1"
)

// Ctrl combinations
var (
	CtrlC = (tea.KeyPressMsg{Code: 'c', Mod: tea.ModCtrl}).String() // "ctrl+c"
	CtrlF = (tea.KeyPressMsg{Code: 'f', Mod: tea.ModCtrl}).String() // "ctrl+f"
	CtrlB = (tea.KeyPressMsg{Code: 'b', Mod: tea.ModCtrl}).String() // "ctrl+b"
)
