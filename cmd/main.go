package main

import (
	"context"
	"io"
	"os"
	"os/signal"

	"github.com/desertthunder/plsaver/internal/shared"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args, RunnerOpts{}, os.Stderr)
	stop()
	os.Exit(code)
}

// run executes the command tree and turns its error into an exit code. It is the only place
// where a failure becomes a process outcome.
func run(ctx context.Context, args []string, opts RunnerOpts, errOut io.Writer) int {
	runner := NewRunner(opts)

	if err := runner.command().Run(ctx, args); err != nil {
		runner.logger.Debug("command failed", "error", err)
		io.WriteString(errOut, runner.describe(err))
		return shared.ExitCode(err)
	}
	return 0
}
