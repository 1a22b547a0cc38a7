// Package chat implements the Bubble Tea chat client for the case backend.
package chat

import (
	"casedesk/internal/domain"
	"casedesk/internal/usecase/conversation"
)

// ReplyMsg delivers the outcome of one backend request. Ticket identifies the
// placeholder it resolves; replies for stale tickets are dropped.
type ReplyMsg struct {
	Ticket conversation.Ticket
	Resp   *domain.Response
	Err    error
}

// QuickSendMsg carries the text of a fired quick action back into Update,
// where it is submitted like typed input.
type QuickSendMsg struct {
	Text string
}

// QuitMsg signals the program to exit.
type QuitMsg struct{}
