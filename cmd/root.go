package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/teemow/yotei/internal/calendar"
	"github.com/teemow/yotei/internal/config"
	"github.com/teemow/yotei/internal/google"
	"github.com/teemow/yotei/internal/instrumentation"
	"github.com/teemow/yotei/internal/logging"
)

// version will be set by main
var version = "dev"

// SetVersion sets the version reported by the version command and telemetry
func SetVersion(v string) {
	version = v
}

// app is the state shared by all commands of one invocation.
type app struct {
	settings config.Settings
	logger   *slog.Logger
	instr    *instrumentation.Provider

	// newSource overrides the token-backed source factory in tests
	newSource calendar.SourceFactory

	// now is the clock used for the fetch window and the spoken text
	now func() time.Time
}

func newApp() *app {
	return &app{
		logger: slog.Default(),
		now:    time.Now,
	}
}

// setup resolves the settings from the env file, the environment and the
// flags, in increasing priority, and starts logging and instrumentation.
func (a *app) setup(cmd *cobra.Command, flags config.Settings) error {
	if err := config.LoadEnvFile(config.EnvFilePath()); err != nil {
		return err
	}

	s := config.DefaultSettings()
	f := cmd.Flags()
	if f.Changed("data-dir") {
		s.DataDir = flags.DataDir
	}
	if f.Changed("config") {
		s.ConfigPath = flags.ConfigPath
	}
	if f.Changed("credentials") {
		s.CredentialsPath = flags.CredentialsPath
	}
	if f.Changed("log-format") {
		s.LogFormat = flags.LogFormat
	}
	if f.Changed("debug") {
		s.Debug = flags.Debug
	}
	if f.Changed("consent-timeout") {
		s.ConsentTimeout = flags.ConsentTimeout
	}
	if err := s.Validate(); err != nil {
		return err
	}

	logger, err := logging.New(cmd.ErrOrStderr(), logging.Level(s.Debug), s.LogFormat)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)

	instrConfig := instrumentation.DefaultConfig()
	instrConfig.ServiceVersion = version
	provider, err := instrumentation.NewProvider(cmd.Context(), instrConfig)
	if err != nil {
		return fmt.Errorf("failed to create instrumentation provider: %w", err)
	}

	a.settings = s
	a.logger = logger
	a.instr = provider
	logger.Debug("settings resolved",
		slog.String("data_dir", s.DataDir),
		slog.String("config", s.CalendarsPath()),
		slog.Bool("instrumentation", provider.Enabled()))
	return nil
}

// shutdown flushes telemetry. It is safe to call when setup never ran.
func (a *app) shutdown(ctx context.Context) error {
	if a.instr == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return a.instr.Shutdown(ctx)
}

func (a *app) metrics() *instrumentation.Metrics {
	if a.instr == nil {
		return nil
	}
	return a.instr.Metrics()
}

// resolver builds the file-backed credential resolver.
func (a *app) resolver() (*google.Resolver, error) {
	conf, err := google.LoadOAuthConfig(a.settings.AppCredentialsPath())
	if err != nil {
		return nil, err
	}
	consent := &google.LoopbackConsent{
		Timeout: a.settings.ConsentTimeout,
		Out:     os.Stderr,
		Logger:  a.logger,
	}
	return google.NewResolver(conf, google.NewTokenStore(a.settings.DataDir), consent,
		google.WithMetrics(a.metrics()),
		google.WithLogger(a.logger),
	), nil
}

// sourceFactory returns the factory opening one Calendar API client per
// account. The client secrets are only read once a source is needed, so an
// empty configuration works without them. The factory is shared by
// concurrent MCP tool calls; a failed load is retried on the next call.
func (a *app) sourceFactory() calendar.SourceFactory {
	if a.newSource != nil {
		return a.newSource
	}
	var (
		mu   sync.Mutex
		open calendar.SourceFactory
	)
	load := func() (calendar.SourceFactory, error) {
		mu.Lock()
		defer mu.Unlock()
		if open == nil {
			resolver, err := a.resolver()
			if err != nil {
				return nil, err
			}
			open = calendar.ProviderFactory(resolver, calendar.WithMetrics(a.metrics()))
		}
		return open, nil
	}
	return func(ctx context.Context, account string) (calendar.Source, error) {
		f, err := load()
		if err != nil {
			return nil, err
		}
		return f(ctx, account)
	}
}

func (a *app) aggregator() *calendar.Aggregator {
	return calendar.NewAggregator(a.sourceFactory(), a.logger)
}

func (a *app) loadCalendars() (config.Calendars, error) {
	return config.Load(a.settings.CalendarsPath())
}

func newRootCmd(a *app) *cobra.Command {
	var flags config.Settings

	rootCmd := &cobra.Command{
		Use:   "yotei",
		Short: "Reads out your upcoming Google Calendar events",
		Long: `yotei fetches the events of the next 48 hours from the Google Calendars
listed in calendars.json, across any number of Google accounts, and prints
them either as raw JSON or as a Japanese announcement for a speech
synthesizer.

It can run as:
  - A CLI tool (calendars, dump, list, add-token)
  - An MCP (Model Context Protocol) server for AI assistants (serve)`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd, flags)
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flags.DataDir, "data-dir", config.DefaultDataDir, "Directory holding credentials, tokens and calendars.json. Can also use YOTEI_DATA_DIR env var.")
	pf.StringVar(&flags.ConfigPath, "config", "", "Path of calendars.json (default: <data-dir>/calendars.json). Can also use YOTEI_CONFIG env var.")
	pf.StringVar(&flags.CredentialsPath, "credentials", "", "Path of the OAuth client secrets (default: <data-dir>/app-credentials.json). Can also use YOTEI_CREDENTIALS env var.")
	pf.BoolVar(&flags.Debug, "debug", false, "Enable debug logging. Can also use YOTEI_DEBUG env var.")
	pf.StringVar(&flags.LogFormat, "log-format", "text", "Log format: text or json. Can also use YOTEI_LOG_FORMAT env var.")
	pf.DurationVar(&flags.ConsentTimeout, "consent-timeout", config.DefaultConsentTimeout, "How long to wait for the browser consent. Can also use YOTEI_CONSENT_TIMEOUT env var.")

	rootCmd.AddCommand(newCalendarsCmd(a))
	rootCmd.AddCommand(newDumpCmd(a))
	rootCmd.AddCommand(newListCmd(a))
	rootCmd.AddCommand(newAddTokenCmd(a))
	rootCmd.AddCommand(newServeCmd(a))
	rootCmd.AddCommand(newGenerateDocsCmd(a))
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

// Execute is the main entry point for the CLI application
func Execute() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	a := newApp()
	err := newRootCmd(a).ExecuteContext(ctx)
	cancel()

	if shutdownErr := a.shutdown(context.Background()); shutdownErr != nil {
		a.logger.Warn("instrumentation shutdown failed", logging.Err(shutdownErr))
	}
	if err != nil {
		os.Exit(1)
	}
}
