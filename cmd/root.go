// Package cmd is the tgterm command line.
package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	tea "charm.land/bubbletea/v2"
	"github.com/spf13/cobra"

	"github.com/zhubert/tgterm/internal/app"
	"github.com/zhubert/tgterm/internal/backend"
	"github.com/zhubert/tgterm/internal/clipboard"
	"github.com/zhubert/tgterm/internal/config"
	"github.com/zhubert/tgterm/internal/demo"
	"github.com/zhubert/tgterm/internal/errors"
	"github.com/zhubert/tgterm/internal/handshake"
	"github.com/zhubert/tgterm/internal/ingest"
	"github.com/zhubert/tgterm/internal/logger"
	"github.com/zhubert/tgterm/internal/notification"
	"github.com/zhubert/tgterm/internal/outbox"
	"github.com/zhubert/tgterm/internal/protocol"
	"github.com/zhubert/tgterm/internal/store"
	"github.com/zhubert/tgterm/internal/ui"
	"github.com/zhubert/tgterm/internal/worker"
)

var (
	code                  string
	configPath            string
	logPath               string
	debugMode             bool
	demoMode              bool
	version, commit, date string
)

// SetVersionInfo sets version information from ldflags
func SetVersionInfo(v, c, d string) {
	version, commit, date = v, c, d
}

var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tgterm",
		Short: "Terminal client for Telegram",
		Long: `tgterm is a terminal chat client. It signs in with the confirmation code
given on the command line, lists your chats, and keeps the selected
conversation in sync while you read and write.`,
		RunE:          runTUI,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.Flags().StringVar(&code, "code", "", "Confirmation code for signing in")
	cmd.Flags().StringVar(&configPath, "config", "", "Config file (default ~/.tgterm/config.yaml)")
	cmd.Flags().StringVar(&logPath, "log", logger.DefaultLogPath, "Log file")
	cmd.Flags().BoolVar(&debugMode, "debug", false, "Enable debug logging")
	cmd.Flags().BoolVar(&demoMode, "demo", false, "Run against the built-in demo backend")
	return cmd
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	rootCmd.Version = version
	rootCmd.SetVersionTemplate(versionTemplate())
	if err := rootCmd.Execute(); err != nil {
		printError(os.Stderr, err)
		return 1
	}
	return 0
}

func versionTemplate() string {
	if commit != "none" && commit != "" {
		return fmt.Sprintf("tgterm %s\n  commit: %s\n  built:  %s\n", version, commit, date)
	}
	return fmt.Sprintf("tgterm %s\n", version)
}

// loadConfig reads the config file named by --config or the default path.
func loadConfig() (*config.Config, error) {
	path := configPath
	if path == "" {
		p, err := config.DefaultPath()
		if err != nil {
			return nil, errors.ConfigLoadFailed("~/.tgterm/config.yaml", err)
		}
		path = p
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(demoMode); err != nil {
		return nil, err
	}
	return cfg, nil
}

// session is everything the worker and the UI share.
type session struct {
	client backend.Client
	chats  *store.Chats
	users  *store.Participants
	queue  *outbox.Queue
	signal *outbox.Signal
	worker *worker.Network
}

// newClient starts the demo backend or the configured bridge. It also
// returns the confirmation code to answer with.
func newClient(cfg *config.Config, demoMode bool, code string) (backend.Client, string, error) {
	if demoMode {
		scenario := demo.DefaultScenario()
		if code == "" {
			code = scenario.Code
		}
		b, err := demo.New(scenario)
		if err != nil {
			return nil, "", err
		}
		return b, code, nil
	}

	b := backend.NewBridge(backend.BridgeConfig{
		Command: cfg.Bridge.Command,
		Args:    cfg.Bridge.Args,
	})
	if err := b.Start(); err != nil {
		return nil, "", err
	}
	return b, code, nil
}

func credentials(cfg *config.Config, code string) handshake.Credentials {
	return handshake.Credentials{
		Parameters: protocol.Parameters{
			APIID:              cfg.APIID,
			APIHash:            cfg.APIHash,
			DatabaseDir:        cfg.DatabaseDir,
			FilesDirectory:     cfg.FilesDirectory,
			SystemLanguage:     cfg.SystemLanguage,
			DeviceModel:        cfg.DeviceModel,
			ApplicationVersion: cfg.ApplicationVersion,
		},
		Phone: cfg.PhoneNumber,
		Code:  code,
	}
}

// newSession wires the stores, the outbox and the ingest adapter around
// client. The first request sets the backend's log verbosity.
func newSession(cfg *config.Config, client backend.Client, code string) *session {
	s := &session{
		client: client,
		chats:  store.NewChats(),
		users:  store.NewParticipants(),
		queue:  outbox.NewQueue(),
		signal: outbox.NewSignal(),
	}
	s.queue.Push(protocol.SetLogVerbosity(cfg.Verbosity()))

	var notify ingest.Notifier
	if cfg.NotificationsEnabled() {
		notify = notification.NewMessage
	}
	auth := handshake.New(credentials(cfg, code))
	adapter := ingest.New(s.chats, s.users, s.queue, s.signal, auth, notify)
	s.worker = worker.New(client, adapter, s.queue, cfg.Timeout())
	return s
}

func runTUI(cmd *cobra.Command, args []string) error {
	if err := logger.Init(logPath); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}
	defer logger.Close()
	logger.SetDebug(debugMode)

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	ui.SetThemeByName(cfg.Theme)

	client, authCode, err := newClient(cfg, demoMode, code)
	if err != nil {
		return err
	}
	defer client.Close()

	if err := clipboard.Init(); err != nil {
		logger.WithComponent("cmd").Warn("clipboard unavailable", "error", err)
	}

	s := newSession(cfg, client, authCode)
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	m := app.New(ctx, app.Deps{
		Chats:   s.chats,
		Users:   s.users,
		Queue:   s.queue,
		Signal:  s.signal,
		Version: version,
	})
	p := tea.NewProgram(m)

	s.worker.Start(ctx)
	go forwardFatal(s.worker, p)

	final, err := p.Run()
	cancel()
	s.worker.Wait()
	if err != nil {
		return fmt.Errorf("error running app: %w", err)
	}
	if fm, ok := final.(*app.Model); ok && fm.Err() != nil {
		return fm.Err()
	}
	return nil
}

// sender is the part of tea.Program the fatal forwarder needs.
type sender interface {
	Send(msg tea.Msg)
}

// forwardFatal waits for the worker and hands a fatal error to the UI,
// which quits and reports it.
func forwardFatal(w *worker.Network, p sender) {
	if err := w.Wait(); err != nil {
		p.Send(app.FatalMsg{Err: err})
	}
}

// printError writes err the way Execute reports it.
func printError(w io.Writer, err error) {
	fmt.Fprintln(w, errors.UserMessage(err))
}
