// Package conversation holds the conversation log and its single-flight
// request state machine.
package conversation

import (
	"context"
	"log/slog"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"casedesk/internal/domain"
)

// State is the request state of a conversation.
type State int

const (
	Idle State = iota
	Awaiting
)

func (s State) String() string {
	if s == Awaiting {
		return "awaiting"
	}
	return "idle"
}

// TicketKind selects the backend operation a ticket runs.
type TicketKind int

const (
	KindQuery TicketKind = iota
	KindHealth
)

// Ticket identifies one in-flight request. It carries the placeholder ID
// across the asynchronous boundary so resolution never has to search the log.
type Ticket struct {
	PlaceholderID string
	Query         string
	SessionID     string
	Kind          TicketKind
}

// Send runs the ticket's operation on tr.
func (t Ticket) Send(ctx context.Context, tr domain.Transport) (*domain.Response, error) {
	if t.Kind == KindHealth {
		return tr.Health(ctx, t.SessionID)
	}
	return tr.Query(ctx, t.Query, t.SessionID)
}

// Deps configures a Conversation. Zero values get defaults.
type Deps struct {
	SessionID string             // defaults to NewSessionID()
	NewID     func() string      // entry IDs; defaults to ULIDs
	Describe  func(error) string // error entry text; defaults to DescribeError
	Greeting  string             // optional first assistant entry
	Logger    *slog.Logger
}

// Conversation is the ordered log of entries plus the busy flag. Only its
// methods mutate either.
type Conversation struct {
	mu        sync.Mutex
	entries   []domain.Entry
	state     State
	inflight  string // placeholder ID of the outstanding request
	sessionID string
	newID     func() string
	describe  func(error) string
	logger    *slog.Logger
}

// New creates an idle conversation.
func New(deps Deps) *Conversation {
	c := &Conversation{
		sessionID: deps.SessionID,
		newID:     deps.NewID,
		describe:  deps.Describe,
		logger:    deps.Logger,
	}
	if c.sessionID == "" {
		c.sessionID = NewSessionID()
	}
	if c.newID == nil {
		c.newID = newULIDSource()
	}
	if c.describe == nil {
		c.describe = DescribeError
	}
	if c.logger == nil {
		c.logger = slog.New(slog.DiscardHandler)
	}
	if deps.Greeting != "" {
		c.entries = append(c.entries, domain.NewPlainText(c.newID(), deps.Greeting, false))
	}
	return c
}

// Submit starts a query for text. Blank text and submissions while a request
// is outstanding are ignored and reported false. On success the log gains the
// user turn followed by a placeholder, and the returned ticket must be passed
// to Resolve or Fail.
func (c *Conversation) Submit(text string) (Ticket, bool) {
	trimmed := strings.TrimSpace(text)
	return c.begin(trimmed, trimmed, KindQuery)
}

// CheckHealth starts a backend health check through the same gate as
// Submit. label is recorded as the user turn.
func (c *Conversation) CheckHealth(label string) (Ticket, bool) {
	return c.begin(strings.TrimSpace(label), "", KindHealth)
}

func (c *Conversation) begin(userText, query string, kind TicketKind) (Ticket, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if userText == "" || c.state == Awaiting {
		return Ticket{}, false
	}

	c.entries = append(c.entries, domain.NewUserTurn(c.newID(), userText))
	c.state = Awaiting
	placeholder := domain.NewPlaceholder(c.newID())
	c.entries = append(c.entries, placeholder)
	c.inflight = placeholder.ID

	c.logger.Debug("conversation submit",
		"session", c.sessionID,
		"placeholder", placeholder.ID,
		"health", kind == KindHealth,
	)
	return Ticket{
		PlaceholderID: placeholder.ID,
		Query:         query,
		SessionID:     c.sessionID,
		Kind:          kind,
	}, true
}

// Resolve replaces the ticket's placeholder with the reply. It reports false
// for tickets that are not in flight. A nil reply counts as a failure.
func (c *Conversation) Resolve(t Ticket, resp *domain.Response) bool {
	if resp == nil {
		return c.Fail(t, domain.NewTransportError("conversation.Resolve", domain.ErrDecode, "empty reply"))
	}
	return c.finish(t, func(id string) domain.Entry {
		return domain.NewResult(id, resp)
	})
}

// Fail replaces the ticket's placeholder with an error entry describing err.
// It reports false for tickets that are not in flight.
func (c *Conversation) Fail(t Ticket, err error) bool {
	ok := c.finish(t, func(id string) domain.Entry {
		return domain.NewPlainText(id, c.describe(err), true)
	})
	if ok {
		c.logger.Warn("conversation request failed", "session", t.SessionID, "error", err)
	}
	return ok
}

// Complete resolves or fails the ticket depending on err.
func (c *Conversation) Complete(t Ticket, resp *domain.Response, err error) bool {
	if err != nil {
		return c.Fail(t, err)
	}
	return c.Resolve(t, resp)
}

func (c *Conversation) finish(t Ticket, terminal func(id string) domain.Entry) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != Awaiting || t.PlaceholderID == "" || t.PlaceholderID != c.inflight {
		c.logger.Debug("conversation ignored stale ticket", "placeholder", t.PlaceholderID)
		return false
	}

	kept := c.entries[:0:0]
	for _, e := range c.entries {
		if e.ID != t.PlaceholderID {
			kept = append(kept, e)
		}
	}
	c.entries = append(kept, terminal(c.newID()))
	c.state = Idle
	c.inflight = ""
	return true
}

// Entries returns a snapshot of the log.
func (c *Conversation) Entries() []domain.Entry {
	c.mu.Lock()
	defer c.mu.Unlock()
	cp := make([]domain.Entry, len(c.entries))
	copy(cp, c.entries)
	return cp
}

// Len returns the number of entries in the log.
func (c *Conversation) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// State returns the current request state.
func (c *Conversation) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Busy reports whether a request is outstanding.
func (c *Conversation) Busy() bool {
	return c.State() == Awaiting
}

// SessionID returns the session ID sent with every request.
func (c *Conversation) SessionID() string {
	return c.sessionID
}

// LatestResult returns the newest result entry, if any.
func (c *Conversation) LatestResult() (domain.Entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := len(c.entries) - 1; i >= 0; i-- {
		if c.entries[i].Kind == domain.KindResult {
			return c.entries[i], true
		}
	}
	return domain.Entry{}, false
}

// DescribeError is the default error entry text.
func DescribeError(err error) string {
	if err == nil {
		return "Request failed"
	}
	return "Request failed: " + err.Error()
}

// NewSessionID returns a fresh session ID of the form "ui-<ULID>".
func NewSessionID() string {
	return "ui-" + ulid.Make().String()
}

// newULIDSource returns a monotonic ULID generator. Callers serialize access.
func newULIDSource() func() string {
	entropy := ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0)
	return func() string {
		return ulid.MustNew(ulid.Timestamp(time.Now()), entropy).String()
	}
}
