package components

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"casedesk/internal/adapter/tui/theme"
	"casedesk/internal/domain"
)

// ModalModel is a full-screen read-only overlay. It shows either the raw JSON
// of a reply, with a line-number gutter, or the command reference.
type ModalModel struct {
	Viewport viewport.Model
	Title    string
	Subtitle string // facts about the content, e.g. reply type and session
	Visible  bool
	width    int
	height   int
}

// NewModal creates a hidden modal.
func NewModal() ModalModel {
	return ModalModel{}
}

// OpenRaw shows resp as indented JSON with numbered lines.
func (m *ModalModel) OpenRaw(resp *domain.Response) {
	lines := strings.Split(resp.Indented(), "\n")
	digits := len(strconv.Itoa(len(lines)))

	var sb strings.Builder
	for i, l := range lines {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(theme.Gutter.Render(fmt.Sprintf("%*d ", digits, i+1)))
		sb.WriteString(l)
	}

	tag := string(resp.Type)
	if tag == "" {
		tag = "untagged"
	}
	facts := []string{"type " + tag}
	if resp.SessionID != "" {
		facts = append(facts, "session "+resp.SessionID)
	}
	facts = append(facts, fmt.Sprintf("%d lines", len(lines)))

	m.open("Raw reply", strings.Join(facts, " "+theme.SymbolBullet+" "), sb.String())
}

// OpenHelp lists the slash commands with their arguments, then the keys.
func (m *ModalModel) OpenHelp(commands []CommandDef, keys []KeyHint) {
	col := 0
	for _, c := range commands {
		col = max(col, len(c.Usage()))
	}
	for _, k := range keys {
		col = max(col, len(k.Key))
	}

	var sb strings.Builder
	sb.WriteString(theme.SectionTitle.Render("Commands"))
	for _, c := range commands {
		fmt.Fprintf(&sb, "\n  %-*s  %s", col, c.Usage(), c.Description)
	}
	sb.WriteString("\n\n" + theme.SectionTitle.Render("Keys"))
	for _, k := range keys {
		fmt.Fprintf(&sb, "\n  %-*s  %s", col, k.Key, k.Desc)
	}

	m.open("Help", fmt.Sprintf("%d commands", len(commands)), sb.String())
}

func (m *ModalModel) open(title, subtitle, content string) {
	m.Title = title
	m.Subtitle = subtitle
	m.Visible = true
	m.Viewport = viewport.New(m.innerSize())
	m.Viewport.MouseWheelEnabled = true
	m.Viewport.SetContent(content)
}

// innerSize is the viewport area left inside the frame, title and footer.
func (m ModalModel) innerSize() (int, int) {
	if m.width == 0 {
		return 80, 24
	}
	return max(m.width-4, 1), max(m.height-6, 1)
}

// Close hides the modal.
func (m *ModalModel) Close() {
	m.Visible = false
}

// SetSize updates the modal dimensions.
func (m *ModalModel) SetSize(w, h int) {
	m.width = w
	m.height = h
	if m.Visible {
		m.Viewport.Width, m.Viewport.Height = m.innerSize()
	}
}

// Update handles modal keys. Keys it does not own go to the viewport, which
// pages with PgUp/PgDn and Ctrl+U/Ctrl+D.
func (m ModalModel) Update(msg tea.Msg) (ModalModel, tea.Cmd) {
	if !m.Visible {
		return m, nil
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc", "q":
			m.Close()
			return m, nil
		case "j", "down":
			m.Viewport.LineDown(1)
			return m, nil
		case "k", "up":
			m.Viewport.LineUp(1)
			return m, nil
		case "g", "home":
			m.Viewport.GotoTop()
			return m, nil
		case "G", "end":
			m.Viewport.GotoBottom()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.Viewport, cmd = m.Viewport.Update(msg)
	return m, cmd
}

// Position describes the visible line range, e.g. "1-20 of 57".
func (m ModalModel) Position() string {
	total := m.Viewport.TotalLineCount()
	if total == 0 {
		return "empty"
	}
	top := m.Viewport.YOffset + 1
	bottom := min(m.Viewport.YOffset+m.Viewport.Height, total)
	return fmt.Sprintf("%d-%d of %d", top, bottom, total)
}

// View renders the modal overlay.
func (m ModalModel) View() string {
	if !m.Visible {
		return ""
	}

	header := theme.Bold.Render(m.Title)
	if m.Subtitle != "" {
		header += "  " + theme.TextMuted.Render(m.Subtitle)
	}
	footer := theme.Dim.Render("Esc/q close  j/k scroll  g/G top/bottom") +
		"  " + theme.TextMuted.Render(m.Position())

	inner := lipgloss.JoinVertical(lipgloss.Left, header, m.Viewport.View(), footer)
	return theme.ModalFrame.
		Width(m.width - 2).
		Height(m.height - 2).
		Render(inner)
}
