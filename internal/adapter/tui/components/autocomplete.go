package components

import (
	"strconv"
	"strings"

	"casedesk/internal/adapter/tui/theme"
	"casedesk/internal/usecase/render"
)

// ActionCommand fires a numbered action of the newest reply.
const ActionCommand = "/go"

// CommandDef defines a slash command.
type CommandDef struct {
	Name        string // e.g. "/go"
	Args        string // e.g. "N"; empty for commands without arguments
	Description string // e.g. "Fire quick action N"
}

// Usage returns the command with its argument placeholder.
func (c CommandDef) Usage() string {
	if c.Args == "" {
		return c.Name
	}
	return c.Name + " " + c.Args
}

// MatchCommand reports whether input invokes one of commands. Only a known
// command name as the first word counts; any other text, including text
// starting with "/", is an ordinary query.
func MatchCommand(commands []CommandDef, input string) (name string, args []string, ok bool) {
	fields := strings.Fields(input)
	if len(fields) == 0 {
		return "", nil, false
	}
	name = strings.ToLower(fields[0])
	for _, c := range commands {
		if c.Name == name {
			return name, fields[1:], true
		}
	}
	return "", nil, false
}

// Suggestion is one row of the popup.
type Suggestion struct {
	Insert   string // composer text once accepted
	Label    string
	Desc     string
	Disabled bool
}

// AutocompleteModel suggests command names while the first word is typed,
// and the numbered actions of the newest reply once "/go " is typed.
type AutocompleteModel struct {
	Commands []CommandDef
	Actions  []render.Action // numbered actions of the newest reply
	Items    []Suggestion
	Selected int
	Visible  bool
	actions  bool // Items lists actions rather than commands
	width    int
}

// NewAutocomplete creates an autocomplete model for commands.
func NewAutocomplete(commands []CommandDef) AutocompleteModel {
	return AutocompleteModel{Commands: commands}
}

// SetWidth updates the popup width.
func (m *AutocompleteModel) SetWidth(w int) {
	m.width = w
}

// SetActions replaces the actions offered after "/go ". Only the first
// MaxNumberedActions have numbers.
func (m *AutocompleteModel) SetActions(actions []render.Action) {
	if len(actions) > MaxNumberedActions {
		actions = actions[:MaxNumberedActions]
	}
	m.Actions = actions
}

// Refresh recomputes the suggestions for the composer text. A suggestion
// that would leave the text unchanged is omitted, so a complete command
// closes the popup and Enter submits it.
func (m *AutocompleteModel) Refresh(value string) {
	var items []Suggestion
	m.actions = false
	switch {
	case strings.HasPrefix(value, ActionCommand+" "):
		m.actions = true
		items = m.actionSuggestions(strings.TrimSpace(value[len(ActionCommand):]))
	case strings.HasPrefix(value, "/") && !strings.ContainsAny(value, " \n"):
		items = m.commandSuggestions(strings.ToLower(value))
	}

	m.Items = nil
	for _, s := range items {
		if s.Insert != value {
			m.Items = append(m.Items, s)
		}
	}
	m.Visible = len(m.Items) > 0
	if m.Selected >= len(m.Items) {
		m.Selected = 0
	}
}

func (m AutocompleteModel) commandSuggestions(prefix string) []Suggestion {
	var out []Suggestion
	for _, c := range m.Commands {
		if !strings.HasPrefix(c.Name, prefix) {
			continue
		}
		insert := c.Name
		if c.Args != "" {
			insert += " "
		}
		out = append(out, Suggestion{Insert: insert, Label: c.Usage(), Desc: c.Description})
	}
	return out
}

func (m AutocompleteModel) actionSuggestions(typed string) []Suggestion {
	var out []Suggestion
	for i, a := range m.Actions {
		n := strconv.Itoa(i + 1)
		if !strings.HasPrefix(n, typed) {
			continue
		}
		desc := a.Text
		if a.Label != a.Text {
			desc = a.Label + " " + theme.SymbolArrowR + " " + a.Text
		}
		out = append(out, Suggestion{
			Insert:   ActionCommand + " " + n,
			Label:    n,
			Desc:     desc,
			Disabled: a.Disabled,
		})
	}
	return out
}

// Hide hides the popup.
func (m *AutocompleteModel) Hide() {
	m.Visible = false
	m.Items = nil
	m.Selected = 0
}

// SelectNext moves selection down.
func (m *AutocompleteModel) SelectNext() {
	if len(m.Items) == 0 {
		return
	}
	m.Selected = (m.Selected + 1) % len(m.Items)
}

// SelectPrev moves selection up.
func (m *AutocompleteModel) SelectPrev() {
	if len(m.Items) == 0 {
		return
	}
	m.Selected = (m.Selected + len(m.Items) - 1) % len(m.Items)
}

// Accept returns the composer text of the selected suggestion. Disabled
// actions cannot be accepted.
func (m *AutocompleteModel) Accept() (string, bool) {
	if len(m.Items) == 0 {
		return "", false
	}
	s := m.Items[m.Selected]
	if s.Disabled {
		return "", false
	}
	m.Hide()
	return s.Insert, true
}

// View renders the popup.
func (m AutocompleteModel) View() string {
	if !m.Visible || len(m.Items) == 0 {
		return ""
	}

	labelW := 0
	for _, s := range m.Items {
		labelW = max(labelW, len(s.Label))
	}
	descW := max(m.width-labelW-10, 20)

	var lines []string
	if m.actions {
		lines = append(lines, theme.TextMuted.Render("Actions of the newest reply"))
	}
	for i, s := range m.Items {
		desc := s.Desc
		if r := []rune(desc); len(r) > descW {
			desc = string(r[:descW-1]) + theme.SymbolEllipsis
		}
		row := s.Label + strings.Repeat(" ", labelW-len(s.Label)) + "  "
		if s.Disabled {
			row = theme.ActionDisabled.Render(row + desc + " (unavailable)")
		} else {
			row += theme.TextMuted.Render(desc)
		}

		marker := "  "
		if i == m.Selected {
			marker = theme.TextInfo.Render(theme.SymbolArrowR + " ")
		}
		lines = append(lines, marker+row)
	}
	return theme.Popup.Render(strings.Join(lines, "\n"))
}
