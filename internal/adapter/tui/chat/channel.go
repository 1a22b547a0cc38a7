package chat

import (
	"context"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"

	"casedesk/internal/infra/config"
)

// TUI runs the chat model as a Bubble Tea program.
type TUI struct {
	logger *slog.Logger
	deps   ChatModelDeps
	ui     config.UIConfig
}

// NewTUI creates a runner for the given model dependencies.
func NewTUI(deps ChatModelDeps, ui config.UIConfig, logger *slog.Logger) *TUI {
	if deps.Logger == nil {
		deps.Logger = logger
	}
	if deps.MaxMessages == 0 {
		deps.MaxMessages = ui.MaxMessages
	}
	return &TUI{logger: logger, deps: deps, ui: ui}
}

// Start creates the Bubble Tea program and blocks until it exits. Requests
// still in flight when it exits are canceled.
func (t *TUI) Start(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	deps := t.deps
	deps.Context = ctx
	model := NewChatModel(deps)

	var opts []tea.ProgramOption
	if t.ui.AltScreen {
		opts = append(opts, tea.WithAltScreen())
	}
	if t.ui.Mouse {
		opts = append(opts, tea.WithMouseCellMotion())
	}
	program := tea.NewProgram(model, opts...)

	// Monitor context cancellation to quit the program.
	go func() {
		<-ctx.Done()
		program.Send(QuitMsg{})
	}()

	t.logger.Info("tui started", "session", model.conv.SessionID())
	_, err := program.Run()
	return err
}
