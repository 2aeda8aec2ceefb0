package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/ZebulonRouseFrantzich/setup-doctl/internal/platform"
)

// Version will be set at build time via -ldflags
var Version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	runMain(ctx, os.Args, newApp(os.Getenv, os.Stdout, os.Stderr, platform.NewDetector(os.Getenv)), os.Exit)
}

// reportedError has already been written to the job log
type reportedError struct {
	err error
}

func (e *reportedError) Error() string {
	return e.err.Error()
}

func (e *reportedError) Unwrap() error {
	return e.err
}

// runMain executes the CLI and exits non-zero on failure.
func runMain(ctx context.Context, args []string, a *app, exit func(int)) {
	if err := execute(ctx, args, a); err != nil {
		var reported *reportedError
		if !errors.As(err, &reported) {
			_, _ = fmt.Fprintf(a.stderr, "Error: %v\n", err)
		}
		exit(1)
	}
}

// execute runs the root command with args (including the program name).
func execute(ctx context.Context, args []string, a *app) error {
	cmd := newRootCmd(a)
	if len(args) > 1 {
		cmd.SetArgs(args[1:])
	} else {
		cmd.SetArgs([]string{})
	}
	cmd.SetOut(a.stdout)
	cmd.SetErr(a.stderr)
	return cmd.ExecuteContext(ctx)
}
