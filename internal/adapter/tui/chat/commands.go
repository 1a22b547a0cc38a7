package chat

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"casedesk/internal/adapter/tui/components"
	"casedesk/internal/domain"
	"casedesk/internal/usecase/conversation"
)

// sendCmd runs the ticket's request in a background goroutine and reports
// the outcome as a ReplyMsg.
func sendCmd(ctx context.Context, tr domain.Transport, t conversation.Ticket) tea.Cmd {
	return func() tea.Msg {
		resp, err := t.Send(ctx, tr)
		return ReplyMsg{Ticket: t, Resp: resp, Err: err}
	}
}

func quickSendCmd(text string) tea.Cmd {
	return func() tea.Msg {
		return QuickSendMsg{Text: text}
	}
}

// slashCommands are the only inputs handled locally. Any other text,
// including text starting with "/", is sent to the backend.
var slashCommands = []components.CommandDef{
	{Name: "/help", Description: "Show commands and keys"},
	{Name: "/health", Description: "Check the Salesforce connection"},
	{Name: "/raw", Description: "Show the newest reply as JSON"},
	{Name: "/session", Description: "Show session and backend"},
	{Name: components.ActionCommand, Args: "N", Description: "Fire quick action N of the newest reply"},
	{Name: "/quit", Description: "Exit casedesk"},
}

var helpKeys = []components.KeyHint{
	{Key: "Enter", Desc: "Send, or accept the highlighted suggestion"},
	{Key: "Alt+Enter", Desc: "New line"},
	{Key: "Tab", Desc: "Next suggestion"},
	{Key: "Esc", Desc: "Navigation mode: 1-9 fire actions, j/k scroll, g/G top/bottom, r raw, i back"},
	{Key: "PgUp/PgDn", Desc: "Scroll"},
	{Key: "Ctrl+C", Desc: "Quit"},
}
