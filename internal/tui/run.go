package tui

import (
	"context"
	"errors"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/idilsaglam/todoquery/internal/logging"
)

// RunOptions tune how a page takes over the terminal.
type RunOptions struct {
	In        io.Reader
	Out       io.Writer
	AltScreen bool
}

// Run starts page in a Bubble Tea program and blocks until the user quits
// or ctx is cancelled. Cache changes reach the page through a subscription.
func Run(ctx context.Context, page Page, opts RunOptions) error {
	progOpts := []tea.ProgramOption{tea.WithContext(ctx)}
	if opts.In != nil {
		progOpts = append(progOpts, tea.WithInput(opts.In))
	}
	if opts.Out != nil {
		progOpts = append(progOpts, tea.WithOutput(opts.Out))
	}
	if opts.AltScreen {
		progOpts = append(progOpts, tea.WithAltScreen())
	}

	p := tea.NewProgram(page, progOpts...)
	unsubscribe := Bridge(p, page.Client(), page.Keys()...)
	defer unsubscribe()

	log := logging.FromContext(ctx)
	log.Debug().Int("keys", len(page.Keys())).Msg("program started")

	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		log.Debug().Msg("program stopped by context")
		return nil
	}
	if err != nil {
		log.Error().Err(err).Msg("program failed")
		return err
	}
	log.Debug().Msg("program exited")
	return nil
}
