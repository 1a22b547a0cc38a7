package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"casedesk/internal/adapter/backend"
	"casedesk/internal/adapter/tui/chat"
	"casedesk/internal/adapter/tui/uxerror"
	"casedesk/internal/domain"
	"casedesk/internal/infra/config"
	"casedesk/internal/infra/logger"
	"casedesk/internal/infra/tracer"
	"casedesk/internal/usecase/conversation"
	"casedesk/internal/usecase/render"
)

func main() {
	_ = godotenv.Load()

	args, err := parseArgs(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n\nRun 'casedesk --help' for usage information.\n", err)
		os.Exit(2)
	}
	if args.Help {
		showUsage(os.Stdout)
		return
	}

	if err := run(args); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func showUsage(w io.Writer) {
	fmt.Fprintln(w, `casedesk - terminal client for the Salesforce case assistant

USAGE:
    casedesk [FLAGS]                 Start the chat UI
    casedesk [FLAGS] ask "<query>"   Send one query and print the reply
    casedesk [FLAGS] health          Check the backend's Salesforce connection

FLAGS:
    -h, --help             Show this help message
    --config PATH          Config file (default: ./casedesk.yaml)
    --url URL              Backend base URL (overrides backend.url)
    --transport NAME       Backend transport: http or mcp

CONFIGURATION:
    Config file: ./casedesk.yaml (optional; defaults are used when missing)
    Environment: CASEDESK_* variables override config; .env is loaded first

EXAMPLES:
    casedesk
    casedesk --url http://cases.internal:8000
    casedesk ask "What is the status of case 00001163?"
    CASEDESK_MCP_COMMAND="python -m app.mcp_server" casedesk --transport mcp`)
}

// cliArgs holds the parsed command line.
type cliArgs struct {
	Help       bool
	Command    string // "", "ask" or "health"
	Query      string
	ConfigPath string
	URL        string
	Transport  string
}

// parseArgs reads flags and the optional command. Flags may appear before or
// after the command.
func parseArgs(argv []string) (cliArgs, error) {
	var a cliArgs
	var rest []string

	for i := 0; i < len(argv); i++ {
		arg := argv[i]
		value := func(name string) (string, error) {
			if v, ok := strings.CutPrefix(arg, name+"="); ok {
				return v, nil
			}
			if i+1 >= len(argv) {
				return "", fmt.Errorf("flag %s needs a value", name)
			}
			i++
			return argv[i], nil
		}

		var err error
		switch {
		case arg == "-h" || arg == "--help" || arg == "help":
			a.Help = true
		case arg == "--config" || strings.HasPrefix(arg, "--config="):
			a.ConfigPath, err = value("--config")
		case arg == "--url" || strings.HasPrefix(arg, "--url="):
			a.URL, err = value("--url")
		case arg == "--transport" || strings.HasPrefix(arg, "--transport="):
			a.Transport, err = value("--transport")
		case strings.HasPrefix(arg, "-") && arg != "-":
			err = fmt.Errorf("unknown flag: %s", arg)
		default:
			rest = append(rest, arg)
		}
		if err != nil {
			return cliArgs{}, err
		}
	}

	if len(rest) == 0 || a.Help {
		return a, nil
	}
	switch rest[0] {
	case "ask":
		a.Command = "ask"
		a.Query = strings.TrimSpace(strings.Join(rest[1:], " "))
		if a.Query == "" {
			return cliArgs{}, errors.New(`ask needs a query, e.g. casedesk ask "status of case 00001163"`)
		}
	case "health":
		if len(rest) > 1 {
			return cliArgs{}, fmt.Errorf("health takes no arguments")
		}
		a.Command = "health"
	default:
		return cliArgs{}, fmt.Errorf("unknown command: %s", rest[0])
	}
	return a, nil
}

// loadConfig loads the config file and applies command-line overrides.
func loadConfig(a cliArgs) (*config.Config, error) {
	path := a.ConfigPath
	if path == "" {
		path = config.DefaultPath
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if a.URL == "" && a.Transport == "" {
		return cfg, nil
	}
	if a.URL != "" {
		cfg.Backend.URL = a.URL
	}
	if a.Transport != "" {
		cfg.Backend.Transport = a.Transport
	}
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func run(a cliArgs) error {
	// 1. Config
	cfg, err := loadConfig(a)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	// 2. Logger & Tracer
	log, logCloser, err := logger.New(cfg.Logger)
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	defer logCloser()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	tracerShutdown, err := tracer.Setup(ctx, cfg.Tracer)
	if err != nil {
		return fmt.Errorf("tracer: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tracerShutdown(shutdownCtx); err != nil {
			log.Error("tracer shutdown error", "error", err)
		}
	}()

	// 3. Backend
	be, err := backend.New(ctx, cfg.Backend, log)
	if err != nil {
		return fmt.Errorf("backend: %w", err)
	}
	defer be.Close()

	log.Info("casedesk starting",
		"command", a.Command,
		"transport", be.Name(),
		"endpoint", be.Endpoint(),
	)

	switch a.Command {
	case "ask":
		return runOnce(ctx, os.Stdout, be, conversation.KindQuery, a.Query, log)
	case "health":
		return runOnce(ctx, os.Stdout, be, conversation.KindHealth, "health", log)
	}

	// 4. Chat UI
	conv := conversation.New(conversation.Deps{
		Describe: uxerror.Describe,
		Greeting: cfg.UI.Greeting,
		Logger:   log,
	})
	tui := chat.NewTUI(chat.ChatModelDeps{
		Conversation: conv,
		Transport:    be,
	}, cfg.UI, log)
	return tui.Start(ctx)
}

// errRequestFailed marks a one-shot request whose reply was an error entry.
var errRequestFailed = errors.New("request failed")

// runOnce sends a single request through a fresh conversation and prints the
// resulting entry to w.
func runOnce(ctx context.Context, w io.Writer, tr domain.Transport, kind conversation.TicketKind, text string, log *slog.Logger) error {
	conv := conversation.New(conversation.Deps{Logger: log})

	var (
		ticket conversation.Ticket
		ok     bool
	)
	if kind == conversation.KindHealth {
		ticket, ok = conv.CheckHealth(text)
	} else {
		ticket, ok = conv.Submit(text)
	}
	if !ok {
		return fmt.Errorf("%w: empty query", domain.ErrInvalidInput)
	}

	resp, err := ticket.Send(ctx, tr)
	conv.Complete(ticket, resp, err)

	entries := conv.Entries()
	last := entries[len(entries)-1]
	if last.Kind == domain.KindResult {
		fmt.Fprintln(w, render.PlainText(render.Interpret(last.Result, nil)))
		return nil
	}
	fmt.Fprintln(w, last.Text)
	return errRequestFailed
}
