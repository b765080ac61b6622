package main

import (
	"context"

	"github.com/desertthunder/spotcli/internal/formatter"
	"github.com/desertthunder/spotcli/internal/tasks"
	"github.com/desertthunder/spotcli/internal/ui"
	"github.com/urfave/cli/v3"
)

// Export writes every top list to --output-dir, printing progress as lists complete.
func (r *Runner) Export(ctx context.Context, cmd *cli.Command) error {
	f, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}
	svc, err := r.topService()
	if err != nil {
		return err
	}

	prog := make(chan tasks.ProgressUpdate, 16)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for u := range prog {
			r.writePlain("%s\n", u.Message)
		}
	}()

	result, err := tasks.NewExportEngine(svc, r.logger).BulkExport(ctx, prog, tasks.BulkExportOpts{
		Format:     f,
		OutputDir:  cmd.String("output-dir"),
		NumWorkers: cmd.Int("workers"),
		Limit:      cmd.Int("limit"),
	})
	close(prog)
	<-done

	if err != nil {
		return err
	}

	r.logger.Info("export finished", "dir", result.OutputDirectory, "ok", result.SuccessfulCount, "failed", result.FailedCount)
	if result.FailedCount > 0 {
		return r.writePlain("%s Exported %d of %d lists to %s\n", ui.Warn("!"), result.SuccessfulCount, result.TotalExports, result.OutputDirectory)
	}
	return r.writePlain("%s Exported %d lists to %s\n", ui.Success("✓"), result.SuccessfulCount, result.OutputDirectory)
}
