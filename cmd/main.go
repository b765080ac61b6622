package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/desertthunder/spotcli/internal/shared"
	"github.com/desertthunder/spotcli/internal/ui"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	if err := shared.LoadEnv(".env"); err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v\n", err)
	}

	runner := NewRunner(RunnerOpts{})
	err := runner.app().Run(ctx, os.Args)
	stop()
	os.Exit(exitCode(os.Stderr, err))
}

// exitCode reports err to w and returns the process exit status.
func exitCode(w io.Writer, err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, shared.ErrNoCredentials):
		fmt.Fprintf(w, "%s No stored credentials. run: spotcli login\n", ui.Error("✗"))
		return 1
	default:
		fmt.Fprintf(w, "%s %v\n", ui.Error("Error:"), err)
		return 1
	}
}
