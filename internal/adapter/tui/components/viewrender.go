package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"casedesk/internal/adapter/tui/theme"
	"casedesk/internal/usecase/render"
)

// RenderView styles an interpreted reply for the message list. When numbered
// is set, every action carries its [n] key; n matches the action's position
// in View.Actions.
func RenderView(v render.View, width int, numbered bool) string {
	r := viewRenderer{width: width, numbered: numbered}
	return r.render(v)
}

type viewRenderer struct {
	width    int
	numbered bool
	next     int // number of actions rendered so far
	sb       strings.Builder
}

func (r *viewRenderer) line(s string) {
	r.sb.WriteString(s)
	r.sb.WriteByte('\n')
}

func (r *viewRenderer) render(v render.View) string {
	if v.Lead != "" {
		r.line(theme.Lead.Render(wrapText(v.Lead, r.width)))
	}
	if len(v.Badges) > 0 {
		parts := make([]string, 0, len(v.Badges))
		for _, b := range v.Badges {
			parts = append(parts, renderBadge(b))
		}
		r.line(wrapJoined(parts, "  ", r.width))
	}
	for _, n := range v.Notes {
		r.line(theme.Note.Render(wrapText(n, r.width)))
	}
	if v.Error != "" {
		r.line(theme.TextError.Render(theme.SymbolError + " " + wrapText(v.Error, r.width-2)))
	}

	for _, s := range v.Sections {
		r.line("")
		r.section(s)
	}

	if v.Dump != "" {
		if r.sb.Len() > 0 {
			r.line("")
		}
		r.line(theme.Pre.Render(v.Dump))
	}
	return strings.TrimRight(r.sb.String(), "\n")
}

func (r *viewRenderer) section(s render.Section) {
	r.line(theme.SectionTitle.Render(s.Title))
	if s.Text != "" {
		r.line(wrapText(s.Text, r.width))
	}
	for i, it := range s.Items {
		marker := theme.SymbolBullet
		if s.Ordered {
			marker = fmt.Sprintf("%d.", i+1)
		}
		r.line(marker + " " + r.item(it))
		if it.Body != "" {
			r.line("    " + theme.TextMuted.Render(wrapText(it.Body, r.width-4)))
		}
	}
	if s.Pre != "" {
		r.line(theme.Pre.Render(strings.TrimRight(s.Pre, "\n")))
	}
	if len(s.Actions) > 0 {
		parts := make([]string, 0, len(s.Actions))
		for _, a := range s.Actions {
			parts = append(parts, r.action(a))
		}
		r.line(strings.Join(parts, "  "))
	}
}

func (r *viewRenderer) item(it render.Item) string {
	var parts []string
	if it.Action != nil {
		parts = append(parts, r.action(*it.Action))
	}
	if it.Badge != "" {
		parts = append(parts, theme.BadgeValue.Render("["+it.Badge+"]"))
	}
	if it.Title != "" {
		parts = append(parts, theme.Bold.Render(it.Title))
	}
	if it.Text != "" {
		parts = append(parts, it.Text)
	}
	if it.Meta != "" {
		parts = append(parts, theme.TextMuted.Render(it.Meta))
	}
	return strings.Join(parts, " ")
}

// action renders one control and advances the action counter.
func (r *viewRenderer) action(a render.Action) string {
	r.next++
	if a.Disabled {
		return theme.ActionDisabled.Render(a.Label)
	}
	label := theme.ActionLabel.Render(a.Label)
	if !r.numbered || r.next > MaxNumberedActions {
		return label
	}
	return theme.ActionKey.Render(fmt.Sprintf("%d", r.next)) + " " + label
}

// MaxNumberedActions is the number of actions reachable by a digit key.
const MaxNumberedActions = 9

// renderBadge styles a labeled fact. Connection outcomes get a status glyph.
func renderBadge(b render.Badge) string {
	value := theme.BadgeValue.Render(b.Value)
	switch b.Value {
	case "connected":
		value = theme.TextSuccess.Render(theme.SymbolSuccess + " " + b.Value)
	case "failed":
		value = theme.TextError.Render(theme.SymbolError + " " + b.Value)
	}
	return theme.BadgeLabel.Render(b.Label+":") + " " + value
}

// wrapJoined joins styled parts with sep, breaking onto a new line when the
// visible width would exceed width.
func wrapJoined(parts []string, sep string, width int) string {
	var sb strings.Builder
	lineW := 0
	for i, p := range parts {
		w := lipgloss.Width(p)
		if i > 0 {
			if width > 0 && lineW+len(sep)+w > width {
				sb.WriteByte('\n')
				lineW = 0
			} else {
				sb.WriteString(sep)
				lineW += len(sep)
			}
		}
		sb.WriteString(p)
		lineW += w
	}
	return sb.String()
}
