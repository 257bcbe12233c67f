package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/idilsaglam/todoquery/internal/ui"
)

// Exit codes returned by Run.
const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

// usageError marks a problem with how the command was invoked.
type usageError struct {
	err error
}

func (e usageError) Error() string { return e.err.Error() }
func (e usageError) Unwrap() error { return e.err }

// exitError carries an explicit exit code. A nil err means the command has
// already reported the problem.
type exitError struct {
	code int
	err  error
}

func (e exitError) Error() string {
	if e.err == nil {
		return fmt.Sprintf("exit status %d", e.code)
	}
	return e.err.Error()
}

func (e exitError) Unwrap() error { return e.err }

// usageArgs turns argument validation failures into usage errors.
func usageArgs(fn cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := fn(cmd, args); err != nil {
			return usageError{err: err}
		}
		return nil
	}
}

// Run executes the command line and returns an exit code (0 ok, 1 error, 2 usage).
func Run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	e := &env{logger: zerolog.Nop()}
	// PersistentPostRunE is skipped when a command fails.
	defer func() { _ = e.close() }()

	root := newRootCmd(e)
	root.SetArgs(args)
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)

	cmd, err := root.ExecuteContextC(ctx)
	return report(stderr, cmd, err)
}

// report prints err the way the commands expect and maps it to an exit code.
func report(w io.Writer, cmd *cobra.Command, err error) int {
	if err == nil {
		return exitOK
	}

	var ee exitError
	if errors.As(err, &ee) {
		if ee.err != nil {
			ui.Fail(w, ee.err.Error())
		}
		return ee.code
	}

	var ue usageError
	if errors.As(err, &ue) {
		ui.Fail(w, ue.Error())
		_, _ = fmt.Fprintln(w)
		if cmd != nil {
			_, _ = fmt.Fprint(w, cmd.UsageString())
		}
		return exitUsage
	}

	ui.Fail(w, err.Error())
	return exitFailure
}
