package chat

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"casedesk/internal/adapter/tui/components"
	"casedesk/internal/adapter/tui/theme"
	"casedesk/internal/domain"
	"casedesk/internal/usecase/conversation"
	"casedesk/internal/usecase/render"
)

// ChatModelDeps are dependencies injected into the chat model.
type ChatModelDeps struct {
	Context      context.Context // parent of every request; defaults to Background
	Conversation *conversation.Conversation
	Transport    domain.Transport
	Logger       *slog.Logger
	MaxMessages  int
}

// outbox collects quick-send texts fired by actions during one Update.
type outbox struct {
	texts []string
}

func (o *outbox) send(text string) {
	o.texts = append(o.texts, text)
}

func (o *outbox) drain() []string {
	texts := o.texts
	o.texts = nil
	return texts
}

// ChatModel is the root Bubble Tea model for the chat TUI.
type ChatModel struct {
	deps ChatModelDeps
	ctx  context.Context
	conv *conversation.Conversation

	// Sub-models
	chatView  components.ChatViewModel
	input     components.InputAreaModel
	statusBar components.StatusBarModel
	spinner   spinner.Model
	modal     components.ModalModel

	// Interpreted results by entry ID. Views are built once so their
	// actions stay bound to the outbox.
	views    map[string]render.View
	activeID string
	outbox   *outbox

	// State
	nav        bool   // true when input is blurred and navigation keys are active
	notice     string // one-line feedback from commands
	noticeWarn bool   // notice reports something the user asked for that could not be done
	width      int
	height     int
	quitting   bool
}

// NewChatModel creates the root chat model.
func NewChatModel(deps ChatModelDeps) ChatModel {
	if deps.Context == nil {
		deps.Context = context.Background()
	}
	if deps.Logger == nil {
		deps.Logger = slog.New(slog.DiscardHandler)
	}
	conv := deps.Conversation
	if conv == nil {
		conv = conversation.New(conversation.Deps{Logger: deps.Logger})
	}

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(theme.ColorInfo)

	sb := components.NewStatusBar()
	sb.Hints = defaultHints()
	sb.Chips = []components.Chip{{Label: "Session", Value: conv.SessionID()}}
	if deps.Transport != nil {
		sb.Chips = append(sb.Chips, components.Chip{Label: "Endpoint", Value: deps.Transport.Endpoint()})
	}

	chatView := components.NewChatView()
	chatView.SetMaxMessages(deps.MaxMessages)

	inputArea := components.NewInputArea()
	inputArea.Autocomplete = components.NewAutocomplete(slashCommands)

	m := ChatModel{
		deps:      deps,
		ctx:       deps.Context,
		conv:      conv,
		chatView:  chatView,
		input:     inputArea,
		statusBar: sb,
		spinner:   s,
		modal:     components.NewModal(),
		views:     make(map[string]render.View),
		outbox:    &outbox{},
	}
	m.sync()
	return m
}

// Init initializes sub-models.
func (m ChatModel) Init() tea.Cmd {
	return m.spinner.Tick
}

// Update handles all incoming messages.
func (m ChatModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()
		m.modal.SetSize(m.width, m.height)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case components.InputSubmitMsg:
		return m.handleSubmit(msg.Value)

	case QuickSendMsg:
		return m.handleSubmit(msg.Text)

	case ReplyMsg:
		if !m.conv.Complete(msg.Ticket, msg.Resp, msg.Err) {
			return m, nil
		}
		m.sync()
		return m, nil

	case QuitMsg:
		m.quitting = true
		return m, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		if m.conv.Busy() {
			m.chatView.SetSpinner(m.spinner.View())
		}
		return m, cmd

	case tea.MouseMsg:
		var cmd tea.Cmd
		m.chatView, cmd = m.chatView.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the entire chat UI.
func (m ChatModel) View() string {
	if m.quitting {
		return "Goodbye!\n"
	}
	if m.width == 0 {
		return "  Initializing..."
	}

	// If modal is open, render it as a full overlay.
	if m.modal.Visible {
		return m.modal.View()
	}

	parts := []string{m.chatView.View()}
	if m.notice != "" {
		style, sym := theme.TextInfo, theme.SymbolInfo
		if m.noticeWarn {
			style, sym = theme.TextWarning, theme.SymbolWarning
		}
		parts = append(parts, style.Render("  "+sym+" "+m.notice))
	}
	inputView := m.input.View()
	if m.nav {
		inputView = theme.Dim.Render(inputView)
	}
	parts = append(parts, components.Divider(m.width), inputView, m.statusBar.View())

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// layout recalculates sizes for all sub-models.
func (m *ChatModel) layout() {
	inputH := 3
	statusH := 1
	dividerH := 1
	noticeH := 1
	contentH := m.height - inputH - statusH - dividerH - noticeH
	if contentH < 5 {
		contentH = 5
	}

	m.statusBar.SetWidth(m.width)
	m.chatView.SetSize(m.width, contentH)
	m.input.SetWidth(m.width)
}

// sync pushes the conversation snapshot to the view. Results are interpreted
// once, on first sight.
func (m *ChatModel) sync() {
	entries := m.conv.Entries()
	m.activeID = ""
	for _, e := range entries {
		if e.Kind != domain.KindResult {
			continue
		}
		if _, ok := m.views[e.ID]; !ok {
			m.views[e.ID] = render.Interpret(e.Result, m.outbox.send)
		}
		m.activeID = e.ID
	}
	m.chatView.SetEntries(entries, m.views, m.activeID)
	if v, ok := m.views[m.activeID]; ok {
		m.input.Autocomplete.SetActions(v.Actions())
	} else {
		m.input.Autocomplete.SetActions(nil)
	}

	busy := m.conv.Busy()
	m.input.SetBusy(busy)
	m.statusBar.Extra = ""
	if busy {
		m.statusBar.Extra = theme.SymbolSpinner + " Sending…"
		m.chatView.SetSpinner(m.spinner.View())
	}
}

// isSGRMouseSequence detects SGR mouse escape sequences that may leak
// through as key input (e.g. "<65;38;21M"). These are emitted when
// mouse cell motion tracking is enabled and some terminals pass them
// as key events instead of tea.MouseMsg.
func isSGRMouseSequence(s string) bool {
	if len(s) < 5 || s[0] != '<' {
		return false
	}
	last := s[len(s)-1]
	if last != 'M' && last != 'm' {
		return false
	}
	for _, r := range s[1 : len(s)-1] {
		if r != ';' && (r < '0' || r > '9') {
			return false
		}
	}
	return true
}

// isMouseEscapeLeak detects mouse escape sequences that leaked through
// as key input instead of tea.MouseMsg. Covers SGR, X11 basic, and
// URXVT formats that appear during rapid trackpad scrolling.
func isMouseEscapeLeak(s string) bool {
	if isSGRMouseSequence(s) {
		return true
	}
	// X11 basic mouse format: [M or [m followed by coordinate bytes.
	if len(s) >= 2 && s[0] == '[' && (s[1] == 'M' || s[1] == 'm') {
		return true
	}
	// URXVT format: [digits;digits;digitsM
	if len(s) >= 5 && s[0] == '[' && s[len(s)-1] == 'M' {
		for _, r := range s[1 : len(s)-1] {
			if r != ';' && (r < '0' || r > '9') {
				return false
			}
		}
		return true
	}
	return false
}

// handleKey processes keyboard input.
func (m ChatModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if isMouseEscapeLeak(msg.String()) {
		return m, nil
	}

	// If modal is open, route all keys to it.
	if m.modal.Visible {
		var cmd tea.Cmd
		m.modal, cmd = m.modal.Update(msg)
		return m, cmd
	}

	switch msg.Type {
	case tea.KeyCtrlC:
		m.quitting = true
		return m, tea.Quit

	case tea.KeyEsc:
		if m.input.Autocomplete.Visible {
			break
		}
		m.setNav(!m.nav)
		return m, nil

	case tea.KeyPgUp, tea.KeyPgDown:
		var cmd tea.Cmd
		m.chatView, cmd = m.chatView.Update(msg)
		return m, cmd
	}

	// Navigation mode: digits fire actions, j/k scroll, i returns to input.
	if m.nav {
		key := msg.String()
		if n, err := strconv.Atoi(key); err == nil && n >= 1 && n <= components.MaxNumberedActions {
			return m.fireAction(n)
		}
		switch key {
		case "j", "down":
			m.chatView.Viewport.LineDown(3)
		case "k", "up":
			m.chatView.Viewport.LineUp(3)
		case "g":
			m.chatView.Viewport.GotoTop()
		case "G":
			m.chatView.Viewport.GotoBottom()
		case "r":
			m.openRaw()
		case "i", "enter":
			m.setNav(false)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *ChatModel) inform(text string) {
	m.notice, m.noticeWarn = text, false
}

func (m *ChatModel) warn(text string) {
	m.notice, m.noticeWarn = text, true
}

func (m *ChatModel) setNav(on bool) {
	m.nav = on
	if on {
		m.input.Blur()
		m.statusBar.Hints = navHints()
	} else {
		m.input.Focus()
		m.statusBar.Hints = defaultHints()
	}
}

// handleSubmit runs text through the conversation gate. Blank text and text
// sent while a reply is pending are ignored and the draft is kept.
func (m ChatModel) handleSubmit(value string) (tea.Model, tea.Cmd) {
	if cmd, args, ok := components.MatchCommand(slashCommands, value); ok {
		m.input.Reset()
		return m.handleSlashCommand(cmd, args)
	}

	ticket, ok := m.conv.Submit(value)
	if !ok {
		return m, nil
	}
	m.input.Reset()
	return m.startRequest(ticket)
}

func (m ChatModel) startRequest(t conversation.Ticket) (tea.Model, tea.Cmd) {
	m.inform("")
	m.sync()
	m.deps.Logger.Debug("request started", "placeholder", t.PlaceholderID, "health", t.Kind == conversation.KindHealth)
	return m, sendCmd(m.ctx, m.deps.Transport, t)
}

// fireAction invokes action n (1-based) of the newest result. The texts the
// action sends come back to Update as QuickSendMsg.
func (m ChatModel) fireAction(n int) (tea.Model, tea.Cmd) {
	view, ok := m.views[m.activeID]
	if !ok {
		m.warn("No reply with actions yet.")
		return m, nil
	}
	actions := view.Actions()
	if n < 1 || n > len(actions) {
		m.warn(fmt.Sprintf("No action %d on the newest reply.", n))
		return m, nil
	}
	if !actions[n-1].Invoke() {
		m.warn(fmt.Sprintf("Action %d is not available.", n))
		return m, nil
	}
	m.setNav(false)

	var cmds []tea.Cmd
	for _, text := range m.outbox.drain() {
		cmds = append(cmds, quickSendCmd(text))
	}
	if len(cmds) == 1 {
		return m, cmds[0]
	}
	return m, tea.Batch(cmds...)
}

func (m *ChatModel) openRaw() {
	e, ok := m.conv.LatestResult()
	if !ok {
		m.warn("No reply yet.")
		return
	}
	m.modal.SetSize(m.width, m.height)
	m.modal.OpenRaw(e.Result)
}

// handleSlashCommand processes a command from slashCommands.
func (m ChatModel) handleSlashCommand(cmd string, args []string) (tea.Model, tea.Cmd) {
	m.inform("")
	switch cmd {
	case "/help":
		m.modal.SetSize(m.width, m.height)
		m.modal.OpenHelp(slashCommands, helpKeys)
		return m, nil

	case "/quit":
		m.quitting = true
		return m, tea.Quit

	case "/health":
		ticket, ok := m.conv.CheckHealth("/health")
		if !ok {
			return m, nil
		}
		return m.startRequest(ticket)

	case "/raw":
		m.openRaw()
		return m, nil

	case "/session":
		text := "Session " + m.conv.SessionID()
		if m.deps.Transport != nil {
			text += " " + theme.SymbolBullet + " " + m.deps.Transport.Name() + " " + m.deps.Transport.Endpoint()
		}
		m.inform(text)
		return m, nil

	case components.ActionCommand:
		var n int
		var err error
		if len(args) == 1 {
			n, err = strconv.Atoi(args[0])
		}
		if len(args) != 1 || err != nil {
			m.warn("Usage: " + components.ActionCommand + " N")
			return m, nil
		}
		return m.fireAction(n)
	}
	return m, nil
}

func defaultHints() []components.KeyHint {
	return []components.KeyHint{
		{Key: "Enter", Desc: "Send"},
		{Key: "Alt+Enter", Desc: "Newline"},
		{Key: "Esc", Desc: "Actions"},
		{Key: "/help", Desc: "Help"},
		{Key: "Ctrl+C", Desc: "Quit"},
	}
}

func navHints() []components.KeyHint {
	return []components.KeyHint{
		{Key: "1-9", Desc: "Fire action"},
		{Key: "j/k", Desc: "Scroll"},
		{Key: "g/G", Desc: "Top/bottom"},
		{Key: "r", Desc: "Raw"},
		{Key: "i", Desc: "Input"},
	}
}
