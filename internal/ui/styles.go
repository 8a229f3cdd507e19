package ui

import "charm.land/lipgloss/v2"

// Colors derived from the current theme (updated by regenerateStyles)
var (
	ColorPrimary     = lipgloss.Color(BuiltinThemes[DefaultTheme].Primary)
	ColorSecondary   = lipgloss.Color(BuiltinThemes[DefaultTheme].Secondary)
	ColorBorder      = lipgloss.Color(BuiltinThemes[DefaultTheme].Border)
	ColorBorderFocus = lipgloss.Color(BuiltinThemes[DefaultTheme].GetBorderFocus())
	ColorText        = lipgloss.Color(BuiltinThemes[DefaultTheme].Text)
	ColorTextMuted   = lipgloss.Color(BuiltinThemes[DefaultTheme].TextMuted)
	ColorTextInverse = lipgloss.Color(BuiltinThemes[DefaultTheme].TextInverse)
	ColorWarning     = lipgloss.Color(BuiltinThemes[DefaultTheme].Warning)
	ColorError       = lipgloss.Color(BuiltinThemes[DefaultTheme].Error)
	ColorInfo        = lipgloss.Color(BuiltinThemes[DefaultTheme].Info)
)

// Header and footer styles
var (
	HeaderStyle       lipgloss.Style
	HeaderTitleStyle  lipgloss.Style
	HeaderStatusStyle lipgloss.Style

	FooterStyle     lipgloss.Style
	FooterKeyStyle  lipgloss.Style
	FooterDescStyle lipgloss.Style
	FooterModeStyle lipgloss.Style
)

// Panel styles
var (
	PanelStyle        lipgloss.Style
	PanelFocusedStyle lipgloss.Style
	PanelTitleStyle   lipgloss.Style
)

// Chat list styles
var (
	ChatListItemStyle     lipgloss.Style
	ChatListSelectedStyle lipgloss.Style
)

// Conversation styles
var (
	MessageTextStyle     lipgloss.Style
	MessageSelectedStyle lipgloss.Style
	PlaceholderStyle     lipgloss.Style
	StatusLoadingStyle   lipgloss.Style
	StatusErrorStyle     lipgloss.Style
)

// Input styles
var (
	InputStyle        lipgloss.Style
	InputFocusedStyle lipgloss.Style
	ComposeLabelStyle lipgloss.Style
)

func init() {
	regenerateStyles()
}

// regenerateStyles updates all style variables based on the current theme
func regenerateStyles() {
	t := currentTheme

	ColorPrimary = lipgloss.Color(t.Primary)
	ColorSecondary = lipgloss.Color(t.Secondary)
	ColorBorder = lipgloss.Color(t.Border)
	ColorBorderFocus = lipgloss.Color(t.GetBorderFocus())
	ColorText = lipgloss.Color(t.Text)
	ColorTextMuted = lipgloss.Color(t.TextMuted)
	ColorTextInverse = lipgloss.Color(t.TextInverse)
	ColorWarning = lipgloss.Color(t.Warning)
	ColorError = lipgloss.Color(t.Error)
	ColorInfo = lipgloss.Color(t.Info)

	HeaderStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(ColorText).
		Background(ColorPrimary).
		Padding(0, 1)

	HeaderTitleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(ColorText)

	HeaderStatusStyle = lipgloss.NewStyle().
		Foreground(ColorTextMuted)

	FooterStyle = lipgloss.NewStyle().
		Foreground(ColorTextMuted).
		Padding(0, 1)

	FooterKeyStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(ColorSecondary)

	FooterDescStyle = lipgloss.NewStyle().
		Foreground(ColorTextMuted)

	FooterModeStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(ColorTextInverse).
		Background(ColorSecondary).
		Padding(0, 1)

	PanelStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorBorder)

	PanelFocusedStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorBorderFocus)

	PanelTitleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(ColorPrimary)

	ChatListItemStyle = lipgloss.NewStyle().
		Foreground(ColorText)

	ChatListSelectedStyle = lipgloss.NewStyle().
		Background(lipgloss.Color(t.GetBgSelected())).
		Foreground(ColorText).
		Bold(true)

	MessageTextStyle = lipgloss.NewStyle().
		Foreground(ColorText)

	MessageSelectedStyle = lipgloss.NewStyle().
		Background(lipgloss.Color(t.GetBgSelected()))

	PlaceholderStyle = lipgloss.NewStyle().
		Foreground(ColorTextMuted).
		Italic(true)

	StatusLoadingStyle = lipgloss.NewStyle().
		Foreground(ColorInfo).
		Italic(true)

	StatusErrorStyle = lipgloss.NewStyle().
		Foreground(ColorError).
		Bold(true)

	InputStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorBorder).
		Padding(0, 1)

	InputFocusedStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorBorderFocus).
		Padding(0, 1)

	ComposeLabelStyle = lipgloss.NewStyle().
		Foreground(ColorWarning).
		Bold(true)
}
