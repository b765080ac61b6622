// Package formatter renders top tracks, top artists and saved snapshots as plain text, Markdown, CSV or JSON
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/desertthunder/spotcli/internal/models"
	"github.com/desertthunder/spotcli/internal/shared"
)

// Format selects an output encoding.
type Format string

const (
	FormatText     Format = "text"
	FormatJSON     Format = "json"
	FormatCSV      Format = "csv"
	FormatMarkdown Format = "markdown"
)

// ParseFormat accepts text, json, csv, markdown (or md).
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "text", "txt":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	case "csv":
		return FormatCSV, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	default:
		return "", fmt.Errorf("%w: format %q (use text, json, csv, or markdown)", shared.ErrInvalidFlag, s)
	}
}

// Tracks renders tracks in format f under title.
func Tracks(f Format, title string, tracks []models.Track) ([]byte, error) {
	switch f {
	case FormatJSON:
		return shared.MarshalJSON(tracks, true)
	case FormatCSV:
		return TracksToCSV(tracks)
	case FormatMarkdown:
		return TracksToMarkdown(title, tracks), nil
	default:
		return TracksToText(title, tracks), nil
	}
}

// Artists renders artists in format f under title.
func Artists(f Format, title string, artists []models.Artist) ([]byte, error) {
	switch f {
	case FormatJSON:
		return shared.MarshalJSON(artists, true)
	case FormatCSV:
		return ArtistsToCSV(artists)
	case FormatMarkdown:
		return ArtistsToMarkdown(title, artists), nil
	default:
		return ArtistsToText(title, artists), nil
	}
}

// TracksToText lists tracks as "1. Name - Artist, Artist".
func TracksToText(title string, tracks []models.Track) []byte {
	var buf bytes.Buffer

	buf.WriteString(title + ":\n")
	if len(tracks) == 0 {
		buf.WriteString("  (no tracks)\n")
	}
	for _, t := range tracks {
		buf.WriteString(fmt.Sprintf("%d. %s - %s\n", t.Rank, t.Name, t.ArtistNames()))
	}

	return buf.Bytes()
}

// ArtistsToText lists artists as "1. Name (genre, genre)".
func ArtistsToText(title string, artists []models.Artist) []byte {
	var buf bytes.Buffer

	buf.WriteString(title + ":\n")
	if len(artists) == 0 {
		buf.WriteString("  (no artists)\n")
	}
	for _, a := range artists {
		buf.WriteString(fmt.Sprintf("%d. %s%s\n", a.Rank, a.Name, genres(a.Genres)))
	}

	return buf.Bytes()
}

// TracksToMarkdown renders tracks as a numbered Markdown list with album and duration.
func TracksToMarkdown(title string, tracks []models.Track) []byte {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("# %s\n\n", title))
	buf.WriteString(fmt.Sprintf("**Tracks**: %d\n\n", len(tracks)))

	for _, t := range tracks {
		albumPart := ""
		if t.Album != "" {
			albumPart = fmt.Sprintf(" (%s)", t.Album)
		}
		buf.WriteString(fmt.Sprintf("%d. %s - %s%s [%s]\n", t.Rank, t.ArtistNames(), t.Name, albumPart, FormatDuration(t.DurationMS)))
	}

	return buf.Bytes()
}

// ArtistsToMarkdown renders artists as a numbered Markdown list with genres.
func ArtistsToMarkdown(title string, artists []models.Artist) []byte {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("# %s\n\n", title))
	buf.WriteString(fmt.Sprintf("**Artists**: %d\n\n", len(artists)))

	for _, a := range artists {
		buf.WriteString(fmt.Sprintf("%d. **%s**%s\n", a.Rank, a.Name, genres(a.Genres)))
	}

	return buf.Bytes()
}

// TracksToCSV converts tracks to CSV with columns: Rank, ID, Name, Artists, Album, Duration, Popularity
func TracksToCSV(tracks []models.Track) ([]byte, error) {
	rows := make([][]string, 0, len(tracks))
	for _, t := range tracks {
		rows = append(rows, []string{
			strconv.Itoa(t.Rank),
			t.ID,
			t.Name,
			t.ArtistNames(),
			t.Album,
			FormatDuration(t.DurationMS),
			strconv.Itoa(t.Popularity),
		})
	}
	return writeCSV([]string{"Rank", "ID", "Name", "Artists", "Album", "Duration", "Popularity"}, rows)
}

// ArtistsToCSV converts artists to CSV with columns: Rank, ID, Name, Genres, Followers, Popularity
func ArtistsToCSV(artists []models.Artist) ([]byte, error) {
	rows := make([][]string, 0, len(artists))
	for _, a := range artists {
		rows = append(rows, []string{
			strconv.Itoa(a.Rank),
			a.ID,
			a.Name,
			strings.Join(a.Genres, ", "),
			strconv.Itoa(a.Followers),
			strconv.Itoa(a.Popularity),
		})
	}
	return writeCSV([]string{"Rank", "ID", "Name", "Genres", "Followers", "Popularity"}, rows)
}

func writeCSV(headers []string, rows [][]string) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}
	for _, record := range rows {
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// SnapshotsToText lists saved snapshots, one per line, newest first as given.
func SnapshotsToText(snapshots []*models.Snapshot) []byte {
	var buf bytes.Buffer

	if len(snapshots) == 0 {
		buf.WriteString("No saved snapshots. Use --save with top-tracks or top-artists.\n")
		return buf.Bytes()
	}

	for _, s := range snapshots {
		buf.WriteString(fmt.Sprintf("%s  %-7s  %-6s  %2d items  %s\n",
			s.CreatedAt.Local().Format("2006-01-02 15:04"),
			s.Kind,
			strings.TrimSuffix(s.TimeRange, "_term"),
			s.Limit,
			s.ID,
		))
	}

	return buf.Bytes()
}

// SnapshotToText renders a single snapshot with its items.
func SnapshotToText(s *models.Snapshot) []byte {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Snapshot %s\n", s.ID))
	buf.WriteString(fmt.Sprintf("Top %s, %s, saved %s\n\n", s.Kind, strings.TrimSuffix(s.TimeRange, "_term"),
		s.CreatedAt.Local().Format("2006-01-02 15:04")))

	for _, item := range s.Items {
		if item.Detail != "" {
			buf.WriteString(fmt.Sprintf("%d. %s - %s\n", item.Rank, item.Name, item.Detail))
		} else {
			buf.WriteString(fmt.Sprintf("%d. %s\n", item.Rank, item.Name))
		}
	}

	return buf.Bytes()
}

// WriteExport writes data to path, creating parent directories.
func WriteExport(data []byte, path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("%w: output path", shared.ErrMissingArgument)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", fmt.Errorf("failed to create directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write export file: %w", err)
	}
	return path, nil
}

// FormatDuration renders milliseconds as m:ss.
func FormatDuration(ms int) string {
	seconds := ms / 1000
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}

func genres(g []string) string {
	if len(g) == 0 {
		return ""
	}
	return " (" + strings.Join(g, ", ") + ")"
}
