// Command spotcli reads Spotify listening stats from the terminal.
package main

import (
	"github.com/desertthunder/spotcli/internal/formatter"
	"github.com/desertthunder/spotcli/internal/services"
	"github.com/urfave/cli/v3"
)

const version = "0.3.0"

// app builds the root command. Running it without a subcommand opens the menu.
func (r *Runner) app() *cli.Command {
	return &cli.Command{
		Name:    "spotcli",
		Usage:   "Browse your Spotify listening stats from the terminal",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "Enable debug logging",
			},
		},
		Before:   r.prepare,
		Action:   r.Menu,
		Commands: r.register(),
	}
}

// menuCommand opens the interactive menu.
func menuCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "menu",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Open the interactive menu",
		Action:  r.Menu,
	}
}

// loginCommand handles the browser login.
func loginCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "login",
		Usage: "Log in to Spotify in the browser and store credentials",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "no-browser",
				Usage: "Print the authorization URL instead of opening a browser",
			},
		},
		Action: r.Login,
	}
}

// logoutCommand removes stored credentials.
func logoutCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "logout",
		Usage:  "Remove stored credentials",
		Action: r.Logout,
	}
}

// statusCommand reports whether credentials are stored.
func statusCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "status",
		Usage: "Show whether you are logged in",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
		},
		Action: r.Status,
	}
}

func topFlags(noun string) []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{
			Name:    "limit",
			Aliases: []string{"l"},
			Usage:   "Number of " + noun + " to show (1-50)",
			Value:   services.DefaultLimit,
		},
		&cli.StringFlag{
			Name:    "range",
			Aliases: []string{"r"},
			Usage:   "Time range: short, medium or long",
			Value:   "medium",
		},
		&cli.StringFlag{
			Name:    "format",
			Aliases: []string{"f"},
			Usage:   "Output format: text, json, csv or markdown",
			Value:   string(formatter.FormatText),
		},
		&cli.BoolFlag{
			Name:  "json",
			Usage: "Shorthand for --format json",
		},
		&cli.BoolFlag{
			Name:  "save",
			Usage: "Save the result to history",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Write output to a file instead of stdout",
		},
	}
}

// topTracksCommand lists the user's top tracks.
func topTracksCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "top-tracks",
		Aliases: []string{"tracks"},
		Usage:   "Show your most played tracks",
		Flags:   topFlags("tracks"),
		Action:  r.TopTracks,
	}
}

// topArtistsCommand lists the user's top artists.
func topArtistsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "top-artists",
		Aliases: []string{"artists"},
		Usage:   "Show your most played artists",
		Flags:   topFlags("artists"),
		Action:  r.TopArtists,
	}
}

// historyCommand lists and inspects saved snapshots.
func historyCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "List saved snapshots",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Maximum number of snapshots to list",
				Value: 20,
			},
			&cli.StringFlag{
				Name:  "id",
				Usage: "Show a single snapshot with its items",
			},
			&cli.StringFlag{
				Name:  "delete",
				Usage: "Delete the snapshot with this ID",
			},
		},
		Action: r.History,
	}
}

// exportCommand exports every top list to a directory.
func exportCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Export top tracks and artists for every time range to files",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Export format: json, csv, markdown or text",
				Value:   string(formatter.FormatJSON),
			},
			&cli.StringFlag{
				Name:    "output-dir",
				Aliases: []string{"o"},
				Usage:   "Output directory (default: spotify_export_{epoch})",
			},
			&cli.IntFlag{
				Name:    "limit",
				Aliases: []string{"l"},
				Usage:   "Items per list (1-50)",
				Value:   services.MaxLimit,
			},
			&cli.IntFlag{
				Name:  "workers",
				Usage: "Concurrent requests",
				Value: 3,
			},
		},
		Action: r.Export,
	}
}

// setupCommand writes the config template and prepares the history database.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "setup",
		Usage:  "Create config.toml and initialize the history database",
		Action: r.Setup,
	}
}
