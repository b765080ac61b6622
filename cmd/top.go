package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/spotcli/internal/formatter"
	"github.com/desertthunder/spotcli/internal/models"
	"github.com/desertthunder/spotcli/internal/services"
	"github.com/urfave/cli/v3"
)

// TopTracks prints the user's top tracks.
func (r *Runner) TopTracks(ctx context.Context, cmd *cli.Command) error {
	return r.top(ctx, cmd, models.KindTracks)
}

// TopArtists prints the user's top artists.
func (r *Runner) TopArtists(ctx context.Context, cmd *cli.Command) error {
	return r.top(ctx, cmd, models.KindArtists)
}

func outputFormat(cmd *cli.Command) (formatter.Format, error) {
	if cmd.Bool("json") {
		return formatter.FormatJSON, nil
	}
	return formatter.ParseFormat(cmd.String("format"))
}

// top validates flags before touching the network, then fetches, renders and optionally saves.
func (r *Runner) top(ctx context.Context, cmd *cli.Command, kind models.Kind) error {
	q, err := services.NewTopQuery(cmd.String("range"), cmd.Int("limit"))
	if err != nil {
		return err
	}
	f, err := outputFormat(cmd)
	if err != nil {
		return err
	}

	svc, err := r.topService()
	if err != nil {
		return err
	}

	r.logger.Debug("fetching top items", "kind", kind, "range", q.Range, "limit", q.Limit)

	var data []byte
	var snapshot *models.Snapshot
	switch kind {
	case models.KindTracks:
		tracks, err := svc.TopTracks(ctx, q)
		if err != nil {
			return err
		}
		if data, err = formatter.Tracks(f, "Top Tracks", tracks); err != nil {
			return err
		}
		snapshot = models.TracksSnapshot(string(q.Range), q.Limit, tracks)
	case models.KindArtists:
		artists, err := svc.TopArtists(ctx, q)
		if err != nil {
			return err
		}
		if data, err = formatter.Artists(f, "Top Artists", artists); err != nil {
			return err
		}
		snapshot = models.ArtistsSnapshot(string(q.Range), q.Limit, artists)
	default:
		return fmt.Errorf("unknown kind %q", kind)
	}

	if cmd.Bool("save") {
		if err := r.saveSnapshot(snapshot); err != nil {
			return err
		}
	}

	if path := cmd.String("output"); path != "" {
		written, err := formatter.WriteExport(data, path)
		if err != nil {
			return err
		}
		r.logger.Info("output written", "path", written)
		return nil
	}
	return r.writeBytes(data)
}

func (r *Runner) saveSnapshot(s *models.Snapshot) error {
	repo, closeDB, err := r.openHistory()
	if err != nil {
		return err
	}
	defer closeDB()

	if err := repo.Create(s); err != nil {
		return err
	}
	r.logger.Info("snapshot saved", "id", s.ID, "kind", s.Kind, "items", len(s.Items))
	return nil
}
