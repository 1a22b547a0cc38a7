// Package uxerror translates raw errors into user-friendly messages with
// recovery hints for the TUI.
package uxerror

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"casedesk/internal/adapter/tui/theme"
	"casedesk/internal/domain"
)

// FriendlyError is a user-facing error with suggestions for recovery.
type FriendlyError struct {
	Title   string   // short heading, e.g. "Connection Failed"
	Message string   // one-liner explanation
	Hints   []string // actionable recovery suggestions
	Raw     string   // original error text (for debug)
}

// Render formats the FriendlyError for display in the TUI message list.
func (fe FriendlyError) Render() string {
	var sb strings.Builder
	sb.WriteString(fe.Title)
	if fe.Message != "" {
		sb.WriteString("\n  ")
		sb.WriteString(fe.Message)
	}
	if fe.Raw != "" && fe.Raw != fe.Message {
		sb.WriteString("\n  Detail: ")
		sb.WriteString(fe.Raw)
	}
	if len(fe.Hints) > 0 {
		sb.WriteString("\n  Suggestions:")
		for _, h := range fe.Hints {
			sb.WriteString(fmt.Sprintf("\n    %s %s", theme.SymbolBullet, h))
		}
	}
	return sb.String()
}

type errorPattern struct {
	match   func(err error) bool
	produce func(err error) FriendlyError
}

var patterns = []errorPattern{
	// Domain sentinel errors (checked first so errors.Is works through wrapping).
	{
		match: isErr(domain.ErrCircuitOpen),
		produce: constantError("Backend Paused",
			"Recent requests kept failing, so new ones are held back for a moment.",
			[]string{"Wait a few seconds and try again", "Run /health to check the backend"}),
	},
	{
		match: isErr(domain.ErrDecode),
		produce: constantError("Unreadable Reply",
			"The backend answered with something other than a JSON object.",
			[]string{"Check backend.url and backend.query_path in casedesk.yaml", "Look at the backend logs"}),
	},
	{
		match: isErr(domain.ErrReplyTooLarge),
		produce: constantError("Reply Too Large",
			"The backend reply exceeded the size casedesk accepts.",
			[]string{"Ask for a narrower result, e.g. one case instead of a search"}),
	},
	{
		match: isErr(context.Canceled),
		produce: constantError("Request Canceled",
			"The request was abandoned before the backend replied.",
			nil),
	},

	// Auth patterns are matched before the generic status error.
	{
		match: containsAny("status 401", "status 403", "unauthorized", "forbidden"),
		produce: constantError("Authentication Failed",
			"The backend rejected the credentials.",
			[]string{"Set backend.auth_token or CASEDESK_BACKEND_AUTH_TOKEN", "Run /health to check the Salesforce connection"}),
	},
	{
		match: isErr(domain.ErrBackendStatus),
		produce: constantError("Backend Error",
			"The backend reported a failure.",
			[]string{"Try again", "Run /health to check the Salesforce connection", "Look at the backend logs"}),
	},

	// Network / connectivity patterns (string matching for external errors).
	{
		match: containsAny("connection refused", "dial tcp", "no such host", "broken pipe", "eof"),
		produce: constantError("Connection Failed",
			"Could not reach the case backend.",
			[]string{"Check that the backend is running", "Verify backend.url in casedesk.yaml or pass --url"}),
	},
	{
		match: containsAny("deadline exceeded", "timeout", "context deadline"),
		produce: constantError("Request Timed Out",
			"The backend took too long to answer.",
			[]string{"Try again", "Raise or clear backend.resp_timeout"}),
	},
}

// Humanize converts a raw error into a FriendlyError with recovery hints.
func Humanize(err error) FriendlyError {
	if err == nil {
		return FriendlyError{Title: "Unknown Error", Raw: "nil"}
	}

	for _, p := range patterns {
		if p.match(err) {
			return p.produce(err)
		}
	}

	// Fallback for unrecognized errors.
	return FriendlyError{
		Title:   "Unexpected Error",
		Message: err.Error(),
		Hints:   []string{"Try again", "Set logger.output to a file for more details"},
		Raw:     err.Error(),
	}
}

// Describe returns the text of the error entry added to the conversation.
func Describe(err error) string {
	return "Request failed: " + Humanize(err).Render()
}

func isErr(target error) func(error) bool {
	return func(err error) bool { return errors.Is(err, target) }
}

// containsAny returns a match func that checks if the error string contains
// any of the given substrings (case-insensitive).
func containsAny(substrs ...string) func(error) bool {
	return func(err error) bool {
		lower := strings.ToLower(err.Error())
		for _, s := range substrs {
			if strings.Contains(lower, s) {
				return true
			}
		}
		return false
	}
}

// constantError returns a produce func that always returns the same FriendlyError.
func constantError(title, message string, hints []string) func(error) FriendlyError {
	return func(err error) FriendlyError {
		return FriendlyError{
			Title:   title,
			Message: message,
			Hints:   hints,
			Raw:     err.Error(),
		}
	}
}
