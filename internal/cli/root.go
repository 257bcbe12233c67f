// Package cli wires configuration, logging and the data layer into the
// todoquery cobra commands.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/idilsaglam/todoquery/internal/api"
	"github.com/idilsaglam/todoquery/internal/config"
	"github.com/idilsaglam/todoquery/internal/logging"
	"github.com/idilsaglam/todoquery/internal/query"
	"github.com/idilsaglam/todoquery/internal/ui"
)

// annotationTUI marks commands that take over the terminal.
const annotationTUI = "todoquery/tui"

// env is what every subcommand runs with. It is filled in by the root
// command's PersistentPreRunE.
type env struct {
	cfg     *config.Config
	logger  zerolog.Logger
	logFile *os.File
}

func (e *env) apiClient() *api.Client {
	return api.New(e.cfg.API, logging.Component(e.logger, "api"))
}

func (e *env) queryClient() *query.Client {
	q := e.cfg.Query
	return query.NewClient(
		query.WithStaleTime(q.StaleTime),
		query.WithGCTime(q.GCTime),
		query.WithRetry(q.Retry, q.RetryDelay),
		query.WithParallelism(q.Parallelism),
		query.WithLogger(logging.Component(e.logger, "query")),
	)
}

// newRootCmd creates the todoquery root command. Running it without a
// subcommand starts the main page.
func newRootCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "todoquery",
		Short: "Terminal demo of cached, gated and parallel queries",
		Long: "todoquery fetches todos and comments from a jsonplaceholder style API\n" +
			"and renders them through a small query cache.",
		Example:       rootCmdExample,
		Args:          usageArgs(cobra.NoArgs),
		SilenceErrors: true,
		SilenceUsage:  true,
		Annotations:   map[string]string{annotationTUI: "true"},
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return e.setup(cmd)
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			return e.close()
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPage(cmd, e, pageApp)
		},
	}
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError{err: err}
	})

	flags := cmd.PersistentFlags()
	flags.String("config", "", "path to a YAML config file")
	flags.Bool("debug", false, "enable debug logging")
	flags.String("base-url", "", "override the API base URL")
	flags.Duration("delay", 0, "override the artificial latency added to every request")

	cmd.AddCommand(
		newPageCmd(e, pageApp, "Main page: gated todos and suspending comments"),
		newPageCmd(e, pageSuspense, "Suspense demo: a card behind a loading fallback"),
		newPageCmd(e, pageParallel, "Parallel demo: todos and comments fetched together"),
		newRenderCmd(e),
		newExportCmd(e),
	)
	return cmd
}

const rootCmdExample = `  # Open the main page
  todoquery

  # Print one frame of the parallel page without a terminal UI
  todoquery render parallel

  # Skip the artificial latency and use a local mirror
  todoquery --delay 0 --base-url http://localhost:3000 suspense

  # Save the todos collection
  todoquery export --out todos.json`

// setup loads configuration, applies flag overrides and builds the logger.
func (e *env) setup(cmd *cobra.Command) error {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if cmd.Flags().Changed("base-url") {
		cfg.API.BaseURL, _ = cmd.Flags().GetString("base-url")
	}
	if cmd.Flags().Changed("delay") {
		cfg.API.Delay, _ = cmd.Flags().GetDuration("delay")
	}
	debug, _ := cmd.Flags().GetBool("debug")
	if debug {
		cfg.Log.Level = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return usageError{err: fmt.Errorf("invalid configuration: %w", err)}
	}
	e.cfg = cfg
	ui.SetTheme(cfg.UI.Theme)

	w, err := e.logWriter(cmd)
	if err != nil {
		return err
	}
	e.logger = logging.Component(logging.New(cfg.Log.Level, cfg.Log.Format, w), "cli")
	cmd.SetContext(logging.WithContext(cmd.Context(), e.logger))

	e.logger.Debug().
		Str("command", cmd.Name()).
		Str("base_url", cfg.API.BaseURL).
		Dur("delay", cfg.API.Delay).
		Msg("command started")
	return nil
}

// logWriter picks the log destination. A TUI owns the terminal, so its logs
// go to the log file or nowhere.
func (e *env) logWriter(cmd *cobra.Command) (io.Writer, error) {
	if path := e.cfg.Log.File; path != "" {
		f, err := logging.OpenFile(path)
		if err != nil {
			return nil, fmt.Errorf("opening log file: %w", err)
		}
		e.logFile = f
		return f, nil
	}
	if cmd.Annotations[annotationTUI] == "true" {
		return io.Discard, nil
	}
	return cmd.ErrOrStderr(), nil
}

func (e *env) close() error {
	if e.logFile == nil {
		return nil
	}
	err := e.logFile.Close()
	e.logFile = nil
	return err
}

// startGC prunes unused cache entries until the returned stop function runs.
func startGC(ctx context.Context, c *query.Client) (stop func()) {
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		c.Run(ctx)
	}()
	return func() {
		cancel()
		<-done
	}
}
