package components

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"casedesk/internal/domain"
)

func TestModalOpenRaw(t *testing.T) {
	resp, err := domain.DecodeResponse([]byte(`{"type":"case_status","session_id":"ui-1","case_number":"00001163"}`))
	require.NoError(t, err)

	m := NewModal()
	m.SetSize(100, 30)
	m.OpenRaw(resp)

	require.True(t, m.Visible)
	assert.Equal(t, "Raw reply", m.Title)
	assert.Contains(t, m.Subtitle, "type case_status")
	assert.Contains(t, m.Subtitle, "session ui-1")
	assert.Contains(t, m.Subtitle, "5 lines")

	body := m.Viewport.View()
	assert.Contains(t, body, `1 {`)
	assert.Contains(t, body, `"case_number": "00001163"`)
	assert.Equal(t, "1-5 of 5", m.Position())
}

func TestModalOpenRawUntagged(t *testing.T) {
	resp, err := domain.DecodeResponse([]byte(`{"x":1}`))
	require.NoError(t, err)

	m := NewModal()
	m.OpenRaw(resp)
	assert.Contains(t, m.Subtitle, "type untagged")
	assert.NotContains(t, m.Subtitle, "session")
}

func TestModalOpenHelp(t *testing.T) {
	m := NewModal()
	m.SetSize(100, 40)
	m.OpenHelp(testCommands, []KeyHint{{Key: "Ctrl+C", Desc: "Quit"}})

	assert.Equal(t, "Help", m.Title)
	assert.Equal(t, "3 commands", m.Subtitle)
	body := m.Viewport.View()
	assert.Contains(t, body, "/go N")
	assert.Contains(t, body, "Fire quick action N")
	assert.Contains(t, body, "Ctrl+C")
}

func TestModalKeys(t *testing.T) {
	m := NewModal()
	m.SetSize(100, 30)
	m.OpenHelp(testCommands, nil)

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("j")})
	assert.True(t, m.Visible)

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, m.Visible)
	assert.Empty(t, m.View())
}
