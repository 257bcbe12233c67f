package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/idilsaglam/todoquery/internal/query"
	"github.com/idilsaglam/todoquery/internal/tui"
)

const (
	pageApp      = "app"
	pageSuspense = "suspense"
	pageParallel = "parallel"
)

// pageNames lists the pages in help order.
var pageNames = []string{pageApp, pageSuspense, pageParallel} //nolint:gochecknoglobals // read-only

func newPage(ctx context.Context, name string, c *query.Client, src tui.Source) (tui.Page, error) {
	switch name {
	case pageApp:
		return tui.NewAppModel(ctx, c, src), nil
	case pageSuspense:
		return tui.NewSuspenseModel(ctx, c, src), nil
	case pageParallel:
		return tui.NewParallelModel(ctx, c, src), nil
	default:
		return nil, usageError{err: fmt.Errorf("unknown page %q", name)}
	}
}

func newPageCmd(e *env, name, short string) *cobra.Command {
	return &cobra.Command{
		Use:         name,
		Short:       short,
		Args:        usageArgs(cobra.NoArgs),
		Annotations: map[string]string{annotationTUI: "true"},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPage(cmd, e, name)
		},
	}
}

// runPage runs the named page interactively until the user quits.
func runPage(cmd *cobra.Command, e *env, name string) error {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	qc := e.queryClient()
	stop := startGC(ctx, qc)
	defer stop()

	src := e.apiClient()
	page, err := newPage(ctx, name, qc, src)
	if err != nil {
		return err
	}
	e.logger.Info().Str("page", name).Str("base_url", src.BaseURL()).Msg("starting page")

	if err := tui.Run(ctx, page, tui.RunOptions{
		In:        cmd.InOrStdin(),
		Out:       cmd.OutOrStdout(),
		AltScreen: true,
	}); err != nil {
		return fmt.Errorf("running %s page: %w", name, err)
	}
	return nil
}

func newRenderCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "render [app|suspense|parallel]",
		Short: "Resolve a page's queries and print a single frame",
		Long: "render runs the queries of one page to completion and prints the frame it\n" +
			"would show, without taking over the terminal. It exits 1 when the frame is\n" +
			"an error view.",
		Args:      usageArgs(cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs)),
		ValidArgs: pageNames,
		RunE: func(cmd *cobra.Command, args []string) error {
			name := pageApp
			if len(args) == 1 {
				name = args[0]
			}

			ctx := cmd.Context()
			page, err := newPage(ctx, name, e.queryClient(), e.apiClient())
			if err != nil {
				return err
			}
			page.Resolve(ctx)
			if ctx.Err() != nil {
				return fmt.Errorf("rendering %s page: %w", name, ctx.Err())
			}

			_, _ = fmt.Fprintln(cmd.OutOrStdout(), page.Static())
			if page.Failed() {
				e.logger.Warn().Str("page", name).Msg("page rendered an error view")
				return exitError{code: exitFailure}
			}
			return nil
		},
	}
}
