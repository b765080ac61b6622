package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/desertthunder/spotcli/internal/shared"
)

// Model defines the base interface for persistent models.
type Model interface {
	GetID() string      // GetID returns the unique identifier for this model
	Created() time.Time // Created returns when this model was created
	Validate() error    // Validate checks if the model's data is valid and returns an error if not
}

// Repository defines the interface for data access operations.
type Repository[T Model] interface {
	Create(model T) error        // Create inserts a new model into the database
	Get(id string) (T, error)    // Get retrieves a model by its ID
	Delete(id string) error      // Delete removes a model from the database by its ID
	List(limit int) ([]T, error) // List retrieves the most recent models, newest first
}

// Kind distinguishes top tracks from top artists.
type Kind string

const (
	KindTracks  Kind = "tracks"
	KindArtists Kind = "artists"
)

// Track is a top track at Rank (1-based).
type Track struct {
	Rank       int      `json:"rank"`
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Artists    []string `json:"artists"`
	Album      string   `json:"album"`
	DurationMS int      `json:"duration_ms"`
	Popularity int      `json:"popularity"`
	URI        string   `json:"uri"`
}

// ArtistNames joins the track's artists with commas.
func (t Track) ArtistNames() string {
	return strings.Join(t.Artists, ", ")
}

// Artist is a top artist at Rank (1-based).
type Artist struct {
	Rank       int      `json:"rank"`
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Genres     []string `json:"genres"`
	Followers  int      `json:"followers"`
	Popularity int      `json:"popularity"`
	URI        string   `json:"uri"`
}

// SnapshotItem is one ranked row of a [Snapshot]. Detail holds the artists for tracks and the genres
// for artists.
type SnapshotItem struct {
	Rank      int    `json:"rank"`
	SpotifyID string `json:"spotify_id"`
	Name      string `json:"name"`
	Detail    string `json:"detail"`
}

// Snapshot is a saved top-items result.
type Snapshot struct {
	ID        string         `json:"id"`
	Kind      Kind           `json:"kind"`
	TimeRange string         `json:"time_range"`
	Limit     int            `json:"limit"`
	CreatedAt time.Time      `json:"created_at"`
	Items     []SnapshotItem `json:"items,omitempty"`
}

func (s *Snapshot) GetID() string      { return s.ID }
func (s *Snapshot) Created() time.Time { return s.CreatedAt }

// Validate checks kind, limit and item ranks.
func (s *Snapshot) Validate() error {
	if s.Kind != KindTracks && s.Kind != KindArtists {
		return fmt.Errorf("%w: snapshot kind %q", shared.ErrInvalidInput, s.Kind)
	}
	if s.TimeRange == "" {
		return fmt.Errorf("%w: snapshot time range is required", shared.ErrInvalidInput)
	}
	if s.Limit < 1 {
		return fmt.Errorf("%w: snapshot limit %d", shared.ErrInvalidInput, s.Limit)
	}
	seen := make(map[int]bool, len(s.Items))
	for _, item := range s.Items {
		if item.Rank < 1 || seen[item.Rank] {
			return fmt.Errorf("%w: snapshot item rank %d", shared.ErrInvalidInput, item.Rank)
		}
		seen[item.Rank] = true
	}
	return nil
}

// TracksSnapshot builds an unsaved snapshot of tracks.
func TracksSnapshot(timeRange string, limit int, tracks []Track) *Snapshot {
	s := &Snapshot{Kind: KindTracks, TimeRange: timeRange, Limit: limit}
	for _, t := range tracks {
		s.Items = append(s.Items, SnapshotItem{Rank: t.Rank, SpotifyID: t.ID, Name: t.Name, Detail: t.ArtistNames()})
	}
	return s
}

// ArtistsSnapshot builds an unsaved snapshot of artists.
func ArtistsSnapshot(timeRange string, limit int, artists []Artist) *Snapshot {
	s := &Snapshot{Kind: KindArtists, TimeRange: timeRange, Limit: limit}
	for _, a := range artists {
		s.Items = append(s.Items, SnapshotItem{Rank: a.Rank, SpotifyID: a.ID, Name: a.Name, Detail: strings.Join(a.Genres, ", ")})
	}
	return s
}
