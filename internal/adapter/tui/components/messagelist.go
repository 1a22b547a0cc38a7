package components

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"casedesk/internal/adapter/tui/theme"
	"casedesk/internal/domain"
	"casedesk/internal/usecase/render"
)

// MessageListModel renders the conversation log. Entries are immutable, so
// finished renders are cached by entry ID.
type MessageListModel struct {
	Entries     []domain.Entry
	Views       map[string]render.View // interpreted results by entry ID
	ActiveID    string                 // result whose actions are numbered
	MaxMessages int                    // 0 = show all; positive = show only the newest N
	Spinner     string                 // current typing-indicator frame
	width       int
	mdRenderer  *glamour.TermRenderer
	cache       map[string]string
}

// NewMessageList creates an empty message list.
func NewMessageList() MessageListModel {
	return MessageListModel{
		Views: make(map[string]render.View),
		cache: make(map[string]string),
	}
}

// SetWidth updates the rendering width and clears cached renders.
func (m *MessageListModel) SetWidth(w int) {
	if w == m.width {
		return
	}
	m.width = w
	m.mdRenderer = nil // force re-creation with new width
	m.cache = make(map[string]string)
}

// SetMaxMessages sets how many entries are shown. 0 means unlimited.
func (m *MessageListModel) SetMaxMessages(max int) {
	m.MaxMessages = max
}

// SetEntries replaces the displayed log. activeID names the result entry
// whose actions get number keys.
func (m *MessageListModel) SetEntries(entries []domain.Entry, views map[string]render.View, activeID string) {
	if activeID != m.ActiveID {
		delete(m.cache, m.ActiveID)
		delete(m.cache, activeID)
	}
	m.Entries = entries
	m.Views = views
	m.ActiveID = activeID
}

// hidden returns how many of the oldest entries are not shown.
func (m *MessageListModel) hidden() int {
	if m.MaxMessages > 0 && len(m.Entries) > m.MaxMessages {
		return len(m.Entries) - m.MaxMessages
	}
	return 0
}

// TrimmedIndicator returns a message if older entries are hidden, empty otherwise.
func (m *MessageListModel) TrimmedIndicator() string {
	n := m.hidden()
	if n == 0 {
		return ""
	}
	return fmt.Sprintf("(%d older messages hidden)", n)
}

// View renders all visible entries as a single string.
func (m *MessageListModel) View() string {
	if len(m.Entries) == 0 {
		return theme.TextMuted.Render("  No messages yet. Ask about a case!")
	}

	contentWidth := ContentWidth(m.width)

	var sb strings.Builder
	if indicator := m.TrimmedIndicator(); indicator != "" {
		sb.WriteString(theme.TextMuted.Render("  "+indicator) + "\n\n")
	}
	for i, e := range m.Entries[m.hidden():] {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(m.renderEntry(e, contentWidth))
		sb.WriteString("\n")
	}
	return sb.String()
}

func (m *MessageListModel) renderEntry(e domain.Entry, width int) string {
	if e.Kind == domain.KindPlaceholder {
		return m.header(e) + "  " + theme.TextInfo.Render(m.Spinner+" Thinking"+theme.SymbolEllipsis)
	}
	if out, ok := m.cache[e.ID]; ok {
		return out
	}

	var body string
	switch e.Kind {
	case domain.KindUserTurn:
		body = wrapText(e.Text, width-2)
	case domain.KindPlainText:
		if e.IsError {
			body = theme.TextError.Render(wrapText(e.Text, width-2))
		} else {
			body = strings.Trim(m.renderMarkdown(e.Text, width), "\n")
		}
	case domain.KindResult:
		view, ok := m.Views[e.ID]
		if !ok {
			view = render.Interpret(e.Result, nil)
		}
		body = indent(RenderView(view, width-2, e.ID == m.ActiveID), "  ")
	}

	out := m.header(e) + "\n" + body
	m.cache[e.ID] = out
	return out
}

func (m *MessageListModel) header(e domain.Entry) string {
	var label string
	switch {
	case e.Kind == domain.KindUserTurn:
		label = theme.UserLabel.Render(theme.NameUser)
	case e.IsError:
		label = theme.ErrorLabel.Render(theme.SymbolError + " Error")
	default:
		label = theme.AgentLabel.Render(theme.NameAgent)
	}
	return label + " " + theme.Timestamp.Render(e.CreatedAt.Format(time.Kitchen))
}

func (m *MessageListModel) renderMarkdown(content string, width int) string {
	if m.mdRenderer == nil {
		r, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			return "  " + content
		}
		m.mdRenderer = r
	}
	rendered, err := m.mdRenderer.Render(content)
	if err != nil {
		return "  " + content
	}
	return rendered
}

func indent(s, prefix string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		if l != "" {
			lines[i] = prefix + l
		}
	}
	return strings.Join(lines, "\n")
}

// wrapText wraps text to the given width with a 2-space indent on continuation lines.
// Uses rune-based indexing to safely handle multibyte UTF-8. Existing line
// breaks are kept.
func wrapText(s string, width int) string {
	if width <= 0 {
		return s
	}
	paragraphs := strings.Split(s, "\n")
	for i, p := range paragraphs {
		paragraphs[i] = wrapLine(p, width)
	}
	return strings.Join(paragraphs, "\n  ")
}

func wrapLine(s string, width int) string {
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	var lines []string
	for len(runes) > width {
		// Find a good break point (space) within width.
		idx := -1
		for i := width - 1; i > 0; i-- {
			if runes[i] == ' ' {
				idx = i
				break
			}
		}
		if idx <= 0 {
			idx = width
		}
		lines = append(lines, string(runes[:idx]))
		runes = runes[idx:]
		for len(runes) > 0 && runes[0] == ' ' {
			runes = runes[1:]
		}
	}
	if len(runes) > 0 {
		lines = append(lines, string(runes))
	}
	return strings.Join(lines, "\n  ")
}

// ContentWidth calculates the content width respecting MaxContentWidth.
func ContentWidth(termWidth int) int {
	w := termWidth - 4
	if w > theme.MaxContentWidth {
		w = theme.MaxContentWidth
	}
	if w < 40 {
		w = 40
	}
	return w
}

// Divider renders a horizontal line at the given width.
func Divider(width int) string {
	return lipgloss.NewStyle().
		Foreground(theme.ColorBorder).
		Render(strings.Repeat("─", width))
}
