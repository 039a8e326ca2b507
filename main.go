package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/wagneradl/opsdesk/internal/assistant"
	"github.com/wagneradl/opsdesk/internal/calendarsync"
	"github.com/wagneradl/opsdesk/internal/config"
	"github.com/wagneradl/opsdesk/internal/desk"
	"github.com/wagneradl/opsdesk/internal/storage"
	"github.com/wagneradl/opsdesk/internal/tui"
	"github.com/wagneradl/opsdesk/internal/workspace"
)

// logFileName receives logs while the terminal desk owns the screen.
const logFileName = "opsdesk.log"

var (
	configPath string
	verbose    bool

	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "opsdesk",
	Short: "Agency operations desk with an AI assistant",
	Long: `opsdesk keeps an agency's projects, tasks, meetings, team and AI tool
market in one place, with a Gemini assistant that can act on them.

Run without arguments to open the interactive desk.`,
	SilenceUsage: true,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: runChat,
}

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Open the interactive desk",
	RunE:  runChat,
}

func init() {
	// Assigned here rather than in the literal: interactive refers to rootCmd.
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		if verbose {
			cfg.Logging.Verbose = true
		}
		logger, err = newLogger(cfg, interactive(cmd))
		return err
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultPath(), "Path to the config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.AddCommand(chatCmd, serveCmd, boardCmd, pricesCmd, budgetCmd, meetingCmd, projectCmd, configCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// interactive reports whether cmd takes over the terminal.
func interactive(cmd *cobra.Command) bool {
	return cmd == rootCmd || cmd == chatCmd
}

// newLogger builds the production logger. The interactive desk logs to a
// file in the data directory.
func newLogger(c *config.Config, toFile bool) (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	if c.Logging.Verbose {
		zc.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	if toFile {
		if err := os.MkdirAll(c.DataDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
		path := filepath.Join(c.DataDir, logFileName)
		zc.OutputPaths = []string{path}
		zc.ErrorOutputPaths = []string{path}
	}
	l, err := zc.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return l, nil
}

// app is an opened desk over the configured store.
type app struct {
	store *storage.Store
	desk  *desk.Desk
}

func (a *app) exportDir() string {
	return filepath.Join(a.store.DataDir(), "exports")
}

func (a *app) Close() {
	a.desk.Close()
	if err := a.store.Close(); err != nil {
		logger.Warn("close store", zap.Error(err))
	}
}

// openApp restores the workspace from the data directory, seeding a fresh
// store, and wires the optional Gemini backend and calendar mirror.
func openApp(ctx context.Context) (*app, error) {
	st, err := storage.Open(cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	ws, err := workspace.Restore(st, workspace.Options{Recorder: st, Logger: logger.Named("workspace")})
	if err != nil {
		st.Close()
		return nil, err
	}

	opts := desk.Options{Workspace: ws, Logger: logger}

	if cfg.Gemini.APIKey != "" {
		backend, err := assistant.NewGeminiBackend(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model, logger.Named("gemini"))
		if err != nil {
			st.Close()
			return nil, err
		}
		opts.Backend = backend
	} else {
		logger.Info("no Gemini API key configured, assistant is offline")
	}

	if cfg.Calendar.Enabled() {
		loc, err := time.LoadLocation(cfg.Calendar.Timezone)
		if err != nil {
			st.Close()
			return nil, fmt.Errorf("calendar timezone: %w", err)
		}
		pub, err := calendarsync.Open(ctx, cfg.Calendar.CredentialsFile, cfg.Calendar.CalendarID, loc, logger.Named("calendar"))
		if err != nil {
			st.Close()
			return nil, err
		}
		opts.Publisher = pub
	}

	return &app{store: st, desk: desk.New(opts)}, nil
}

func signalContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
}

func runChat(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext(cmd)
	defer cancel()

	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	return tui.Run(ctx, tui.Options{Desk: a.desk, ExportDir: a.exportDir(), Logger: logger.Named("tui")})
}
