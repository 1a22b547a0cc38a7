package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"casedesk/internal/adapter/tui/theme"
)

// KeyHint represents a single keybinding hint shown in the status bar.
type KeyHint struct {
	Key  string // e.g. "Enter"
	Desc string // e.g. "Send"
}

// Chip is a labeled value shown on the right of the status bar.
type Chip struct {
	Label string
	Value string
}

// StatusBarModel renders a bottom status bar with keybinding hints and
// session chips.
type StatusBarModel struct {
	Hints []KeyHint
	Chips []Chip
	Extra string // additional status text (e.g. "Sending…")
	width int
}

// NewStatusBar creates an empty status bar.
func NewStatusBar() StatusBarModel {
	return StatusBarModel{}
}

// SetWidth updates the available width.
func (m *StatusBarModel) SetWidth(w int) {
	m.width = w
}

// View renders the status bar as a single line. On narrow terminals only the
// first chip is shown.
func (m StatusBarModel) View() string {
	var hints []string
	for _, h := range m.Hints {
		key := theme.StatusKey.Render(h.Key)
		hints = append(hints, key+": "+h.Desc)
	}
	left := strings.Join(hints, "  "+theme.Dim.Render("|")+"  ")

	chips := m.Chips
	if m.width < theme.MinChipWidth && len(chips) > 1 {
		chips = chips[:1]
	}
	var parts []string
	if m.Extra != "" {
		parts = append(parts, theme.TextInfo.Render(m.Extra))
	}
	for _, c := range chips {
		parts = append(parts, theme.TextMuted.Render(c.Label+" ")+c.Value)
	}
	right := strings.Join(parts, " "+theme.SymbolBullet+" ")

	// Join left and right, padding the gap.
	leftW := lipgloss.Width(left)
	rightW := lipgloss.Width(right)
	gap := m.width - leftW - rightW
	if gap < 1 {
		gap = 1
	}

	bar := left + strings.Repeat(" ", gap) + right
	return theme.StatusBar.Width(m.width).Render(bar)
}
