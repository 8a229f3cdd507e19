package keys

import "testing"

// TestKeyStringValues guards against Bubble Tea changing its key string format.
func TestKeyStringValues(t *testing.T) {
	tests := []struct {
		name     string
		got      string
		expected string
	}{
		{"Up", Up, "up"},
		{"Down", Down, "down"},
		{"PgUp", PgUp, "pgup"},
		{"PgDown", PgDown, "pgdown"},

		{"Enter", Enter, "enter"},
		{"Tab", Tab, "tab"},
		{"ShiftTab", ShiftTab, "shift+tab"},
		{"Backspace", Backspace, "backspace"},
		{"Escape", Escape, "esc"},
		{"F1", F1, "f1"},

		{"CtrlC", CtrlC, "ctrl+c"},
		{"CtrlF", CtrlF, "ctrl+f"},
		{"CtrlB", CtrlB, "ctrl+b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.expected {
				t.Errorf("keys.%s = %q, want %q", tt.name, tt.got, tt.expected)
			}
		})
	}
}
