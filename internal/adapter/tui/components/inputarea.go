package components

import (
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"casedesk/internal/adapter/tui/theme"
)

const (
	idlePlaceholder = "Ask about a case, or type / for commands..."
	busyPlaceholder = "Sending…"
)

// InputSubmitMsg is sent when the user presses Enter. The draft stays in the
// textarea; the receiver calls Reset once the submission is accepted.
type InputSubmitMsg struct {
	Value string
}

// InputAreaModel wraps a textarea with slash-command detection, autocomplete, and submit handling.
type InputAreaModel struct {
	Textarea     textarea.Model
	Autocomplete AutocompleteModel
	Busy         bool
	width        int
}

// NewInputArea creates an input area with sensible defaults.
func NewInputArea() InputAreaModel {
	ta := textarea.New()
	ta.Placeholder = idlePlaceholder
	ta.Prompt = "> "
	ta.ShowLineNumbers = false
	ta.CharLimit = 0 // no limit
	ta.SetHeight(3)
	ta.FocusedStyle.CursorLine = lipgloss.NewStyle()
	ta.FocusedStyle.Prompt = theme.InputPrompt
	ta.FocusedStyle.Placeholder = theme.InputPlaceholder
	ta.BlurredStyle.Placeholder = theme.InputPlaceholder
	ta.Focus()

	return InputAreaModel{Textarea: ta}
}

// SetWidth updates the textarea width.
func (m *InputAreaModel) SetWidth(w int) {
	m.width = w
	m.Textarea.SetWidth(w - 2) // account for border/padding
	m.Autocomplete.SetWidth(w)
}

// SetBusy marks the composer as waiting for a reply. The draft stays
// editable; only the affordance changes.
func (m *InputAreaModel) SetBusy(busy bool) {
	m.Busy = busy
	if busy {
		m.Textarea.Placeholder = busyPlaceholder
	} else {
		m.Textarea.Placeholder = idlePlaceholder
	}
}

// Focus gives the textarea keyboard focus.
func (m *InputAreaModel) Focus() {
	m.Textarea.Focus()
}

// Blur removes keyboard focus from the textarea.
func (m *InputAreaModel) Blur() {
	m.Textarea.Blur()
}

// Reset clears the draft.
func (m *InputAreaModel) Reset() {
	m.Textarea.Reset()
	m.Autocomplete.Hide()
}

// Value returns the current input text.
func (m InputAreaModel) Value() string {
	return m.Textarea.Value()
}

// Update handles key events. Enter submits (unless Alt is held for newline).
// When the popup is visible, Tab/arrow keys navigate it and Enter accepts the
// selection; accepting "/go" goes straight on to the action list.
func (m InputAreaModel) Update(msg tea.Msg) (InputAreaModel, tea.Cmd) {
	// Filter out mouse events; the textarea should never receive them.
	if _, ok := msg.(tea.MouseMsg); ok {
		return m, nil
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		// When autocomplete popup is showing, intercept navigation keys.
		if m.Autocomplete.Visible {
			switch keyMsg.Type {
			case tea.KeyTab, tea.KeyDown:
				m.Autocomplete.SelectNext()
				return m, nil
			case tea.KeyShiftTab, tea.KeyUp:
				m.Autocomplete.SelectPrev()
				return m, nil
			case tea.KeyEnter:
				if accepted, ok := m.Autocomplete.Accept(); ok {
					m.Textarea.SetValue(accepted)
					m.Textarea.CursorEnd()
					m.Autocomplete.Refresh(accepted)
				}
				return m, nil
			case tea.KeyEsc:
				m.Autocomplete.Hide()
				return m, nil
			}
		}

		if keyMsg.Type == tea.KeyEnter {
			if keyMsg.Alt {
				m.Textarea.InsertString("\n")
				return m, nil
			}
			value := m.Textarea.Value()
			return m, func() tea.Msg {
				return InputSubmitMsg{Value: value}
			}
		}
	}

	var cmd tea.Cmd
	m.Textarea, cmd = m.Textarea.Update(msg)

	m.Autocomplete.Refresh(m.Textarea.Value())

	return m, cmd
}

// View renders the input area with optional autocomplete popup above it.
func (m InputAreaModel) View() string {
	popup := m.Autocomplete.View()
	if popup != "" {
		return popup + "\n" + m.Textarea.View()
	}
	return m.Textarea.View()
}
