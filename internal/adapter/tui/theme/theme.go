// Package theme provides a unified visual design system for the TUI.
// All styles use adaptive colors that work on both light and dark terminals.
//
// NO_COLOR (https://no-color.org/) is respected automatically by lipgloss via
// its color profile detection; when set, all color output is suppressed.
package theme

import (
	"github.com/charmbracelet/lipgloss"
)

// --- Adaptive Color Palette (4-6 primary colors) ---

var (
	ColorSuccess = lipgloss.AdaptiveColor{Light: "#2e7d32", Dark: "#66bb6a"}
	ColorError   = lipgloss.AdaptiveColor{Light: "#c62828", Dark: "#ef5350"}
	ColorWarning = lipgloss.AdaptiveColor{Light: "#e65100", Dark: "#ffa726"}
	ColorInfo    = lipgloss.AdaptiveColor{Light: "#0277bd", Dark: "#4fc3f7"}
	ColorAccent  = lipgloss.AdaptiveColor{Light: "#6a1b9a", Dark: "#ce93d8"}
	ColorMuted   = lipgloss.AdaptiveColor{Light: "#757575", Dark: "#9e9e9e"}

	ColorBorder       = lipgloss.AdaptiveColor{Light: "#bdbdbd", Dark: "#616161"}
	ColorBorderActive = lipgloss.AdaptiveColor{Light: "#1565c0", Dark: "#42a5f5"}

	ColorBgAlt = lipgloss.AdaptiveColor{Light: "#f5f5f5", Dark: "#2d2d2d"}
	ColorFg    = lipgloss.AdaptiveColor{Light: "#212121", Dark: "#e0e0e0"}
	ColorFgDim = lipgloss.AdaptiveColor{Light: "#9e9e9e", Dark: "#757575"}
	ColorKeyBg = lipgloss.AdaptiveColor{Light: "#1565c0", Dark: "#42a5f5"}
	ColorKeyFg = lipgloss.AdaptiveColor{Light: "#ffffff", Dark: "#1e1e1e"}
)

// --- Symbols (switched to ASCII by UseASCII in symbols.go) ---

var (
	SymbolSuccess  string
	SymbolError    string
	SymbolWarning  string
	SymbolInfo     string
	SymbolSpinner  string
	SymbolArrowR   string
	SymbolBullet   string
	SymbolEllipsis string
)

// Speaker names shown in entry headers.
const (
	NameUser  = "You"
	NameAgent = "Agent"
)

// --- Base styles ---

var (
	// Bold labels for role/keyword emphasis. Dim for secondary metadata.
	Bold = lipgloss.NewStyle().Bold(true)
	Dim  = lipgloss.NewStyle().Faint(true)

	// Semantic text styles.
	TextSuccess = lipgloss.NewStyle().Foreground(ColorSuccess).Bold(true)
	TextError   = lipgloss.NewStyle().Foreground(ColorError).Bold(true)
	TextWarning = lipgloss.NewStyle().Foreground(ColorWarning).Bold(true)
	TextInfo    = lipgloss.NewStyle().Foreground(ColorInfo)
	TextMuted   = lipgloss.NewStyle().Foreground(ColorMuted)
)

// --- Overlays ---

var (
	// Popup frames the slash-command and action suggestions.
	Popup = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorBorderActive).
		Padding(0, 1)

	// ModalFrame frames the full-screen raw reply and help overlays.
	ModalFrame = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(ColorBorderActive).
			Padding(0, 1)

	// Gutter styles line numbers in the raw reply overlay.
	Gutter = lipgloss.NewStyle().
		Foreground(ColorFgDim)
)

// --- Message role styles ---

var (
	UserLabel = lipgloss.NewStyle().
			Foreground(ColorInfo).
			Bold(true)

	AgentLabel = lipgloss.NewStyle().
			Foreground(ColorAccent).
			Bold(true)

	ErrorLabel = lipgloss.NewStyle().
			Foreground(ColorError).
			Bold(true)

	Timestamp = lipgloss.NewStyle().
			Foreground(ColorFgDim).
			Faint(true)
)

// --- Status bar ---

var (
	StatusBar = lipgloss.NewStyle().
			Foreground(ColorFgDim).
			Background(ColorBgAlt).
			Padding(0, 1)

	StatusKey = lipgloss.NewStyle().
			Foreground(ColorInfo).
			Bold(true)
)

// --- Input area ---

var (
	InputPrompt = lipgloss.NewStyle().
			Foreground(ColorInfo).
			Bold(true)

	InputPlaceholder = lipgloss.NewStyle().
				Foreground(ColorFgDim)
)

// --- Reply view styles ---

var (
	// Lead is the headline of a rendered reply.
	Lead = lipgloss.NewStyle().Bold(true)

	SectionTitle = lipgloss.NewStyle().
			Foreground(ColorAccent).
			Bold(true)

	BadgeLabel = lipgloss.NewStyle().
			Foreground(ColorMuted)

	BadgeValue = lipgloss.NewStyle().
			Foreground(ColorInfo).
			Bold(true)

	Note = lipgloss.NewStyle().
		Foreground(ColorMuted).
		Italic(true)

	Pre = lipgloss.NewStyle().
		Foreground(ColorFg).
		PaddingLeft(2)

	// Action buttons shown on the newest result.
	ActionKey = lipgloss.NewStyle().
			Foreground(ColorKeyFg).
			Background(ColorKeyBg).
			Bold(true).
			Padding(0, 1)

	ActionLabel = lipgloss.NewStyle().
			Foreground(ColorInfo).
			Underline(true)

	ActionDisabled = lipgloss.NewStyle().
			Foreground(ColorFgDim).
			Faint(true)
)

// MaxContentWidth is the recommended max width for readable text content.
const MaxContentWidth = 100

// MinChipWidth is the minimum terminal width that shows the endpoint chip.
const MinChipWidth = 80
