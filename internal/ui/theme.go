package ui

import "sort"

// Theme defines the colours of every panel. Sender name colours are not
// part of a theme; see palette.go.
type Theme struct {
	// Name is the display name of the theme
	Name string

	// Primary is the main accent color (focus, header, selected chat)
	Primary string
	// Secondary is used for key hints and the compose mode label
	Secondary string

	Bg         string // Main background
	BgSelected string // Selected item background (defaults to Primary if empty)

	Text        string // Primary text
	TextMuted   string // Secondary/muted text
	TextInverse string // Text on colored backgrounds

	Warning string // Pending edit/reply banner
	Error   string // Fatal error banner
	Info    string // Status line

	Border      string // Default borders
	BorderFocus string // Focused panel borders (defaults to Primary if empty)
}

// GetBgSelected returns the selected background color, defaulting to Primary
func (t Theme) GetBgSelected() string {
	if t.BgSelected != "" {
		return t.BgSelected
	}
	return t.Primary
}

// GetBorderFocus returns the focused border color, defaulting to Primary
func (t Theme) GetBorderFocus() string {
	if t.BorderFocus != "" {
		return t.BorderFocus
	}
	return t.Primary
}

// ThemeName is a type for theme identifiers
type ThemeName string

// Available theme names
const (
	ThemeDarkPurple ThemeName = "dark-purple"
	ThemeNord       ThemeName = "nord"
	ThemeLight      ThemeName = "light"
)

// DefaultTheme is the default theme name
const DefaultTheme = ThemeDarkPurple

// BuiltinThemes contains all built-in themes
var BuiltinThemes = map[ThemeName]Theme{
	ThemeDarkPurple: {
		Name:        "Dark Purple",
		Primary:     "#7C3AED",
		Secondary:   "#06B6D4",
		Bg:          "#1F2937",
		Text:        "#F9FAFB",
		TextMuted:   "#9CA3AF",
		TextInverse: "#1F2937",
		Warning:     "#F59E0B",
		Error:       "#EF4444",
		Info:        "#06B6D4",
		Border:      "#374151",
	},
	ThemeNord: {
		Name:        "Nord",
		Primary:     "#88C0D0",
		Secondary:   "#81A1C1",
		Bg:          "#2E3440",
		BgSelected:  "#434C5E",
		Text:        "#ECEFF4",
		TextMuted:   "#D8DEE9",
		TextInverse: "#2E3440",
		Warning:     "#EBCB8B",
		Error:       "#BF616A",
		Info:        "#81A1C1",
		Border:      "#4C566A",
	},
	ThemeLight: {
		Name:        "Light",
		Primary:     "#2563EB",
		Secondary:   "#0891B2",
		Bg:          "#FFFFFF",
		BgSelected:  "#DBEAFE",
		Text:        "#111827",
		TextMuted:   "#4B5563",
		TextInverse: "#FFFFFF",
		Warning:     "#B45309",
		Error:       "#DC2626",
		Info:        "#0891B2",
		Border:      "#D1D5DB",
	},
}

// ThemeNames returns the built-in theme identifiers in sorted order.
func ThemeNames() []ThemeName {
	names := make([]ThemeName, 0, len(BuiltinThemes))
	for name := range BuiltinThemes {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return names
}

// GetTheme returns a theme by name, defaulting to DarkPurple if not found
func GetTheme(name ThemeName) Theme {
	if theme, ok := BuiltinThemes[name]; ok {
		return theme
	}
	return BuiltinThemes[DefaultTheme]
}

// currentTheme holds the active theme
var currentTheme = BuiltinThemes[DefaultTheme]

// CurrentTheme returns the currently active theme
func CurrentTheme() Theme {
	return currentTheme
}

// SetTheme sets the active theme and regenerates all styles
func SetTheme(name ThemeName) {
	currentTheme = GetTheme(name)
	regenerateStyles()
}

// SetThemeByName sets the active theme by string name
func SetThemeByName(name string) {
	SetTheme(ThemeName(name))
}

// CurrentThemeName returns the name of the current theme
func CurrentThemeName() ThemeName {
	for name, theme := range BuiltinThemes {
		if theme.Name == currentTheme.Name {
			return name
		}
	}
	return DefaultTheme
}
