// Package appshell wires a RunContext-style entry point to the process:
// signals, argv and the exit code.
package appshell

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"
)

// Runner is the signature shared by meclust entry points.
type Runner func(ctx context.Context, argv []string, stdout, stderr io.Writer) int

// Exit normalizes the code of a run whose context ended early.
func Exit(ctx context.Context, code int) int {
	if ctx.Err() != nil && code == 0 {
		return 130
	}
	return code
}

func Main(run Runner) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	argv := os.Args[1:]
	if len(argv) == 0 {
		argv = []string{"-h"}
	}

	code := Exit(ctx, run(ctx, argv, os.Stdout, os.Stderr))
	stop()
	os.Exit(code)
}
