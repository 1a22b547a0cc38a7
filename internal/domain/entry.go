package domain

import "time"

// Role constants for conversation entries.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// EntryKind discriminates the conversation entry variants.
type EntryKind int

const (
	KindUserTurn EntryKind = iota
	KindPlaceholder
	KindResult
	KindPlainText
)

func (k EntryKind) String() string {
	switch k {
	case KindUserTurn:
		return "user_turn"
	case KindPlaceholder:
		return "placeholder"
	case KindResult:
		return "result"
	case KindPlainText:
		return "plain_text"
	default:
		return "unknown"
	}
}

// Entry is one element of the conversation log. Entries are values and are
// never edited after they are appended; replacing one means removing it by ID
// and appending the successor.
type Entry struct {
	ID        string
	Kind      EntryKind
	Text      string    // user turn and plain text
	Result    *Response // KindResult only
	IsError   bool      // KindPlainText only
	CreatedAt time.Time
}

// Role returns "user" for user turns and "assistant" for everything else.
func (e Entry) Role() string {
	if e.Kind == KindUserTurn {
		return RoleUser
	}
	return RoleAssistant
}

func NewUserTurn(id, text string) Entry {
	return Entry{ID: id, Kind: KindUserTurn, Text: text, CreatedAt: time.Now()}
}

func NewPlaceholder(id string) Entry {
	return Entry{ID: id, Kind: KindPlaceholder, CreatedAt: time.Now()}
}

func NewResult(id string, resp *Response) Entry {
	return Entry{ID: id, Kind: KindResult, Result: resp, CreatedAt: time.Now()}
}

func NewPlainText(id, text string, isError bool) Entry {
	return Entry{ID: id, Kind: KindPlainText, Text: text, IsError: isError, CreatedAt: time.Now()}
}
