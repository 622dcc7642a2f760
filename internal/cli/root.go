// Package cli provides the journal command-line interface.
package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"futures-review/internal/analysis"
	"futures-review/internal/client"
	"futures-review/internal/config"
	"futures-review/internal/logger"
	"futures-review/internal/models"
	"futures-review/internal/store"
	"futures-review/internal/tracing"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// Journal is the record access the commands need. Both the local store and
// the API client implement it.
type Journal interface {
	Insert(ctx context.Context, in models.TradeInput) (models.InsertResult, error)
	Get(ctx context.Context, id int64) (models.TradeRecord, error)
	ListAll(ctx context.Context) ([]models.TradeRecord, error)
	ListBySymbol(ctx context.Context, symbol string) ([]models.TradeRecord, error)
	DistinctSymbols(ctx context.Context) ([]string, error)
}

// App holds the application dependencies, resolved once flags are parsed.
type App struct {
	Config  config.Config
	Logger  *zap.Logger
	Store   *store.Store       // nil in remote mode
	Remote  *client.RestClient // nil in local mode
	Journal Journal

	stopTracing tracing.ShutdownFunc
}

// newRootCmd creates the root command for the CLI. The caller must close
// the returned App once the command has run, whether it failed or not.
func newRootCmd() (*cobra.Command, *App) {
	app := &App{Logger: zap.NewNop()}

	rootCmd := &cobra.Command{
		Use:   "journal",
		Short: "Futures trading journal",
		Long: `Record futures trades and review how they went.

By default trades are kept in a local SQLite file. With --server the
commands talk to a running journal API instead.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.setup(cmd)
		},
	}

	// Global flags
	rootCmd.PersistentFlags().String("config", "./configs", "directory holding config.yml")
	rootCmd.PersistentFlags().String("db", "", "journal database file (overrides database.path)")
	rootCmd.PersistentFlags().String("server", "", "base URL of a running journal API (overrides client.base_url)")
	rootCmd.PersistentFlags().StringP("output", "o", FormatTable, "output format: table, json or yaml")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")

	addTradeCommands(rootCmd, app)
	addAnalysisCommands(rootCmd, app)

	return rootCmd, app
}

// setup loads config, builds the logger and picks the journal backend.
func (a *App) setup(cmd *cobra.Command) error {
	if _, err := parseFormat(cmd); err != nil {
		return err
	}

	configDir, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadConfig(configDir)
	if err != nil {
		return fmt.Errorf("could not load config: %w", err)
	}

	if debug, _ := cmd.Flags().GetBool("debug"); debug {
		cfg.Logger.Level = "debug"
	}
	if db, _ := cmd.Flags().GetString("db"); db != "" {
		cfg.Database.Path = db
	}
	if server, _ := cmd.Flags().GetString("server"); server != "" {
		cfg.Client.BaseURL = server
	}
	a.Config = cfg

	log, err := logger.New(cfg.Logger)
	if err != nil {
		return fmt.Errorf("could not initialize logger: %w", err)
	}
	a.Logger = log

	if a.stopTracing, err = tracing.Setup(cfg.Tracing, "journal"); err != nil {
		return fmt.Errorf("could not initialize tracing: %w", err)
	}

	if cfg.Client.BaseURL != "" {
		a.Remote = client.NewRestClient(&cfg.Client, log)
		a.Journal = a.Remote
		log.Debug("Using journal API", zap.String("base_url", cfg.Client.BaseURL))
		return nil
	}

	a.Store = store.New(cfg.Database.Path, log)
	a.Journal = a.Store
	log.Debug("Using local journal", zap.String("path", a.Store.Path()))

	// The schema is created on every start so a fresh file is usable at once.
	return a.Store.Initialize(cmd.Context())
}

// close flushes spans and log output. It is safe to call when setup never ran.
func (a *App) close() {
	if a.stopTracing != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := a.stopTracing(ctx); err != nil {
			a.Logger.Warn("Failed to flush traces", zap.Error(err))
		}
	}
	_ = a.Logger.Sync()
}

// report returns the summaries, asking the server when running remotely so
// the numbers come from the same place as the web views.
func (a *App) report(ctx context.Context, sorted bool) (analysis.Report, error) {
	if a.Remote != nil {
		return a.Remote.Summary(ctx, sorted)
	}
	return analysis.NewEngine(a.Journal, a.Logger).Report(ctx, sorted)
}

// Execute runs the root command on the process arguments and returns its error.
func Execute(ctx context.Context) error {
	return execute(ctx, nil, nil)
}

// execute runs the CLI with args (os.Args when nil), writing command output
// to out (stdout when nil). Spans and logs are flushed on every exit path.
func execute(ctx context.Context, args []string, out io.Writer) error {
	cmd, app := newRootCmd()
	defer app.close()

	if args != nil {
		cmd.SetArgs(args)
	}
	if out != nil {
		cmd.SetOut(out)
	}
	return cmd.ExecuteContext(ctx)
}
