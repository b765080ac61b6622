package main

import (
	"context"
	"fmt"
	"os"

	"github.com/desertthunder/spotcli/internal/shared"
	"github.com/desertthunder/spotcli/internal/ui"
	"github.com/urfave/cli/v3"
)

// Setup writes the config template when missing and migrates the history database.
func (r *Runner) Setup(ctx context.Context, cmd *cli.Command) error {
	if r.configPath != "" {
		if _, err := os.Stat(r.configPath); err == nil {
			r.logger.Info("config file exists, leaving it untouched", "path", r.configPath)
		} else {
			r.logger.Info("config file not found, creating from template", "path", r.configPath)
			if err := shared.CreateConfigFile(r.configPath); err != nil {
				return err
			}
			r.writePlain("%s Wrote %s\n", ui.Success("✓"), r.configPath)
		}
	}

	r.logger.Info("initializing database", "path", r.config.Storage.DatabasePath)
	db, err := shared.OpenMigrated(r.config.Storage.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to create database: %w", err)
	}
	defer db.Close()

	r.writePlain("%s History database ready at %s\n", ui.Success("✓"), r.config.Storage.DatabasePath)
	if err := r.config.Validate(); err != nil {
		r.writePlain("%s %v\n", ui.Warn("!"), err)
	}
	return r.writePlain("Next: run 'spotcli login'\n")
}
