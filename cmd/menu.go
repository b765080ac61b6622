package main

import (
	"context"
	"fmt"
	"io"

	"github.com/desertthunder/spotcli/internal/menu"
	"github.com/desertthunder/spotcli/internal/shared"
	"github.com/desertthunder/spotcli/internal/ui"
	"github.com/urfave/cli/v3"
)

// Menu runs the interactive menu until the user exits.
//
// Logs go to the configured log file while the menu is open so they don't garble the prompts.
func (r *Runner) Menu(ctx context.Context, cmd *cli.Command) error {
	if fileLogger, err := shared.NewFileLogger(r.config.Storage.LogPath); err != nil {
		r.logger.Warn("logging to stderr", "error", err)
	} else {
		shared.SetLogLevel(fileLogger, r.logger.GetLevel())
		r.SetLogger(fileLogger)
	}

	authn, err := r.authenticatorFor()
	if err != nil {
		return err
	}
	svc, err := r.topService()
	if err != nil {
		return err
	}

	r.writePlain("%s\n\n", ui.Banner())

	machine := menu.NewMachine(r.prompterFor(), authn, svc, r.logger)
	if err := menu.Run(ctx, machine, r.output, reportError); err != nil {
		return err
	}

	return r.writePlain("%s\n", ui.Goodbye())
}

func reportError(w io.Writer, err error) {
	fmt.Fprintf(w, "%s %v\n\n", ui.Error("Error:"), err)
}
