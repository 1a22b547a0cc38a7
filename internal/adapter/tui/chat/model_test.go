package chat

import (
	"context"
	"errors"
	"fmt"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"casedesk/internal/adapter/tui/components"
	"casedesk/internal/adapter/tui/theme"
	"casedesk/internal/domain"
	"casedesk/internal/usecase/conversation"
)

type fakeTransport struct {
	replies map[string]string // query -> JSON reply
	queries []string
	health  int
}

func (f *fakeTransport) Query(_ context.Context, query, _ string) (*domain.Response, error) {
	f.queries = append(f.queries, query)
	body, ok := f.replies[query]
	if !ok {
		return nil, domain.NewTransportError("backend.Query", domain.ErrBackendStatus, "status 500: boom")
	}
	return domain.DecodeResponse([]byte(body))
}

func (f *fakeTransport) Health(context.Context, string) (*domain.Response, error) {
	f.health++
	return domain.DecodeResponse([]byte(`{"type":"salesforce_health","ok":true}`))
}

func (f *fakeTransport) Name() string     { return "fake" }
func (f *fakeTransport) Endpoint() string { return "fake://backend" }

const searchReply = `{"type":"case_search_results","message":"2 matches","candidates":[
	{"CaseNumber":"00001163","Subject":"Return order","Status":"New"},
	{"Subject":"No number","Status":"Closed"}]}`

func newTestModel(t *testing.T, tr *fakeTransport) ChatModel {
	t.Helper()
	seq := 0
	conv := conversation.New(conversation.Deps{
		SessionID: "ui-test",
		NewID: func() string {
			seq++
			return fmt.Sprintf("e%d", seq)
		},
	})
	m := NewChatModel(ChatModelDeps{Conversation: conv, Transport: tr})
	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return next.(ChatModel)
}

// step applies msg and returns the model and command.
func step(t *testing.T, m ChatModel, msg tea.Msg) (ChatModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	return next.(ChatModel), cmd
}

// roundTrip applies msg, runs the resulting request and feeds the reply back.
func roundTrip(t *testing.T, m ChatModel, msg tea.Msg) ChatModel {
	t.Helper()
	m, cmd := step(t, m, msg)
	require.NotNil(t, cmd, "expected a request command")
	reply, ok := cmd().(ReplyMsg)
	require.True(t, ok)
	m, _ = step(t, m, reply)
	return m
}

// fire applies msg, which must fire a quick action, then submits the
// QuickSendMsg it yields and completes that request.
func fire(t *testing.T, m ChatModel, msg tea.Msg) ChatModel {
	t.Helper()
	m, cmd := step(t, m, msg)
	require.NotNil(t, cmd, "expected a quick-send command")
	qs, ok := cmd().(QuickSendMsg)
	require.True(t, ok)
	return roundTrip(t, m, qs)
}

func kinds(entries []domain.Entry) []domain.EntryKind {
	out := make([]domain.EntryKind, len(entries))
	for i, e := range entries {
		out[i] = e.Kind
	}
	return out
}

func runeKey(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestSubmitShowsPlaceholderThenResult(t *testing.T) {
	tr := &fakeTransport{replies: map[string]string{"search return": searchReply}}
	m := newTestModel(t, tr)

	m, cmd := step(t, m, components.InputSubmitMsg{Value: "  search return "})
	require.NotNil(t, cmd)
	assert.True(t, m.conv.Busy())
	assert.True(t, m.input.Busy)
	assert.Equal(t, []domain.EntryKind{domain.KindUserTurn, domain.KindPlaceholder}, kinds(m.conv.Entries()))

	m, _ = step(t, m, cmd().(ReplyMsg))
	assert.False(t, m.conv.Busy())
	assert.False(t, m.input.Busy)
	assert.Equal(t, []domain.EntryKind{domain.KindUserTurn, domain.KindResult}, kinds(m.conv.Entries()))
	assert.Equal(t, []string{"search return"}, tr.queries)
	assert.Contains(t, m.View(), "Matches")
}

func TestSubmitWhileAwaitingIsIgnored(t *testing.T) {
	tr := &fakeTransport{replies: map[string]string{"first": `{"type":"ok","message":"done"}`}}
	m := newTestModel(t, tr)

	m, cmd := step(t, m, components.InputSubmitMsg{Value: "first"})
	require.NotNil(t, cmd)

	m.input.Textarea.SetValue("second")
	m, second := step(t, m, components.InputSubmitMsg{Value: "second"})
	assert.Nil(t, second)
	assert.Equal(t, "second", m.input.Value(), "ignored submission keeps the draft")
	assert.Len(t, m.conv.Entries(), 2)

	m, _ = step(t, m, cmd().(ReplyMsg))
	assert.Len(t, m.conv.Entries(), 2)
	assert.Equal(t, []string{"first"}, tr.queries)
}

func TestBlankSubmitIsIgnored(t *testing.T) {
	m := newTestModel(t, &fakeTransport{})
	m, cmd := step(t, m, components.InputSubmitMsg{Value: "   "})
	assert.Nil(t, cmd)
	assert.Empty(t, m.conv.Entries())
}

func TestTransportFailureBecomesErrorEntry(t *testing.T) {
	m := newTestModel(t, &fakeTransport{})
	m = roundTrip(t, m, components.InputSubmitMsg{Value: "anything"})

	entries := m.conv.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, domain.KindPlainText, entries[1].Kind)
	assert.True(t, entries[1].IsError)
	assert.Contains(t, entries[1].Text, "Request failed")
	assert.False(t, m.conv.Busy())
}

func TestStaleReplyIsDropped(t *testing.T) {
	m := newTestModel(t, &fakeTransport{})
	stale := ReplyMsg{Ticket: conversation.Ticket{PlaceholderID: "nope"}, Err: errors.New("late")}
	m, _ = step(t, m, stale)
	assert.Empty(t, m.conv.Entries())
}

func TestActionKeyFiresQuickSend(t *testing.T) {
	tr := &fakeTransport{replies: map[string]string{
		"search return":           searchReply,
		"Summarize case 00001163": `{"type":"case_response","case_number":"00001163"}`,
	}}
	m := newTestModel(t, tr)
	m = roundTrip(t, m, components.InputSubmitMsg{Value: "search return"})

	m, _ = step(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.True(t, m.nav)

	m = fire(t, m, runeKey("1"))
	assert.False(t, m.nav)
	assert.Equal(t, []string{"search return", "Summarize case 00001163"}, tr.queries)

	entries := m.conv.Entries()
	require.Len(t, entries, 4)
	assert.Equal(t, "Summarize case 00001163", entries[2].Text)
	assert.Equal(t, domain.TagCaseResponse, entries[3].Result.Type)
}

func TestDisabledActionDoesNothing(t *testing.T) {
	tr := &fakeTransport{replies: map[string]string{"search return": searchReply}}
	m := newTestModel(t, tr)
	m = roundTrip(t, m, components.InputSubmitMsg{Value: "search return"})

	m, cmd := step(t, m, components.InputSubmitMsg{Value: "/go 2"})
	assert.Nil(t, cmd)
	assert.Contains(t, m.notice, "not available")
	assert.True(t, m.noticeWarn)
	assert.Len(t, m.conv.Entries(), 2)

	m, cmd = step(t, m, components.InputSubmitMsg{Value: "/go 7"})
	assert.Nil(t, cmd)
	assert.Contains(t, m.notice, "No action 7")

	m, cmd = step(t, m, components.InputSubmitMsg{Value: "/go two"})
	assert.Nil(t, cmd)
	assert.Equal(t, "Usage: /go N", m.notice)
	assert.Contains(t, m.View(), theme.SymbolWarning+" Usage: /go N")
}

func TestGoCommandFiresAction(t *testing.T) {
	tr := &fakeTransport{replies: map[string]string{
		"search return":           searchReply,
		"Summarize case 00001163": `{"type":"ok"}`,
	}}
	m := newTestModel(t, tr)
	m = roundTrip(t, m, components.InputSubmitMsg{Value: "search return"})
	m = fire(t, m, components.InputSubmitMsg{Value: "/go 1"})
	assert.Equal(t, "Summarize case 00001163", tr.queries[1])
	assert.Len(t, m.conv.Entries(), 4)
}

func TestQuickSendMsgStartsRequest(t *testing.T) {
	tr := &fakeTransport{replies: map[string]string{"Summarize case 1": `{"type":"ok"}`}}
	m := newTestModel(t, tr)

	m, cmd := step(t, m, QuickSendMsg{Text: "Summarize case 1"})
	require.NotNil(t, cmd)
	assert.True(t, m.conv.Busy())

	m, cmd = step(t, m, QuickSendMsg{Text: "Summarize case 2"})
	assert.Nil(t, cmd, "a quick send while awaiting is dropped like typed input")
	assert.Len(t, m.conv.Entries(), 2)
}

func TestAutocompleteOffersNewestReplyActions(t *testing.T) {
	tr := &fakeTransport{replies: map[string]string{"search return": searchReply}}
	m := newTestModel(t, tr)
	assert.Empty(t, m.input.Autocomplete.Actions)

	m = roundTrip(t, m, components.InputSubmitMsg{Value: "search return"})
	actions := m.input.Autocomplete.Actions
	require.Len(t, actions, 2)
	assert.Equal(t, "Summarize case 00001163", actions[0].Text)
	assert.True(t, actions[1].Disabled)
}

func TestHealthCommand(t *testing.T) {
	tr := &fakeTransport{}
	m := newTestModel(t, tr)
	m = roundTrip(t, m, components.InputSubmitMsg{Value: "/health"})

	assert.Equal(t, 1, tr.health)
	entries := m.conv.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "/health", entries[0].Text)
	assert.Equal(t, domain.TagSalesforceHealth, entries[1].Result.Type)
}

func TestRawCommandOpensModal(t *testing.T) {
	tr := &fakeTransport{replies: map[string]string{"q": `{"type":"mystery","x":1}`}}
	m := newTestModel(t, tr)

	m, _ = step(t, m, components.InputSubmitMsg{Value: "/raw"})
	assert.False(t, m.modal.Visible)
	assert.Equal(t, "No reply yet.", m.notice)
	assert.True(t, m.noticeWarn)

	m = roundTrip(t, m, components.InputSubmitMsg{Value: "q"})
	m, _ = step(t, m, components.InputSubmitMsg{Value: "/raw"})
	assert.True(t, m.modal.Visible)
	assert.Equal(t, "Raw reply", m.modal.Title)
	assert.Contains(t, m.modal.Subtitle, "type mystery")

	m, _ = step(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, m.modal.Visible)
}

func TestHelpCommandOpensReference(t *testing.T) {
	m := newTestModel(t, &fakeTransport{})
	m, cmd := step(t, m, components.InputSubmitMsg{Value: "/HELP"})
	assert.Nil(t, cmd)
	assert.True(t, m.modal.Visible)
	assert.Equal(t, "Help", m.modal.Title)
	assert.Contains(t, m.View(), "/go N")
	assert.Empty(t, m.conv.Entries())
}

func TestSessionCommand(t *testing.T) {
	m := newTestModel(t, &fakeTransport{})

	m, _ = step(t, m, components.InputSubmitMsg{Value: "/session"})
	assert.Contains(t, m.notice, "ui-test")
	assert.Contains(t, m.notice, "fake://backend")
	assert.False(t, m.noticeWarn)
	assert.Contains(t, m.View(), theme.SymbolInfo+" Session ui-test")
}

func TestUnlistedSlashTextIsAQuery(t *testing.T) {
	tests := []string{
		"/clear",
		"/var/log full on case 00001163",
		"/exit",
	}
	for _, text := range tests {
		t.Run(text, func(t *testing.T) {
			tr := &fakeTransport{}
			m := newTestModel(t, tr)
			m = roundTrip(t, m, components.InputSubmitMsg{Value: text})
			assert.Equal(t, []string{text}, tr.queries)
			assert.Empty(t, m.notice)
			assert.False(t, m.quitting)
		})
	}
}

func TestQuitCommands(t *testing.T) {
	m := newTestModel(t, &fakeTransport{})

	next, cmd := step(t, m, components.InputSubmitMsg{Value: "/quit"})
	assert.True(t, next.quitting)
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())

	next, cmd = step(t, m, tea.KeyMsg{Type: tea.KeyCtrlC})
	assert.True(t, next.quitting)
	require.NotNil(t, cmd)
}

func TestStatusBarChips(t *testing.T) {
	m := newTestModel(t, &fakeTransport{})
	view := m.statusBar.View()
	assert.Contains(t, view, "Session")
	assert.Contains(t, view, "ui-test")
	assert.Contains(t, view, "fake://backend")
}

func TestIsMouseEscapeLeak(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"<65;38;21M", true},
		{"<0;1;1m", true},
		{"[M", true},
		{"[1;2;3M", true},
		{"hello", false},
		{"<abc>", false},
		{"1", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, isMouseEscapeLeak(tt.in), tt.in)
	}
}
