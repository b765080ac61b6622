package main

import (
	"context"

	"github.com/desertthunder/spotcli/internal/formatter"
	"github.com/desertthunder/spotcli/internal/ui"
	"github.com/urfave/cli/v3"
)

// History lists saved snapshots, or shows or deletes one when --id or --delete is given.
func (r *Runner) History(ctx context.Context, cmd *cli.Command) error {
	repo, closeDB, err := r.openHistory()
	if err != nil {
		return err
	}
	defer closeDB()

	if id := cmd.String("delete"); id != "" {
		if err := repo.Delete(id); err != nil {
			return err
		}
		return r.writePlain("%s Deleted snapshot %s\n", ui.Success("✓"), id)
	}

	if id := cmd.String("id"); id != "" {
		snapshot, err := repo.Get(id)
		if err != nil {
			return err
		}
		return r.writeBytes(formatter.SnapshotToText(snapshot))
	}

	snapshots, err := repo.List(cmd.Int("limit"))
	if err != nil {
		return err
	}
	return r.writeBytes(formatter.SnapshotsToText(snapshots))
}
