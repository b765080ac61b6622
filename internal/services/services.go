package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/desertthunder/spotcli/internal/models"
	"github.com/desertthunder/spotcli/internal/shared"
)

const (
	MinLimit     = 1
	MaxLimit     = 50
	DefaultLimit = 10
)

// TopService reads a user's most-played items.
type TopService interface {
	// TopTracks returns up to q.Limit tracks ranked from 1.
	TopTracks(ctx context.Context, q TopQuery) ([]models.Track, error)

	// TopArtists returns up to q.Limit artists ranked from 1.
	TopArtists(ctx context.Context, q TopQuery) ([]models.Artist, error)

	// Name returns the name of the service (e.g., "Spotify")
	Name() string
}

// TimeRange is the affinity window sent as time_range.
type TimeRange string

const (
	ShortTerm  TimeRange = "short_term"  // about four weeks
	MediumTerm TimeRange = "medium_term" // about six months
	LongTerm   TimeRange = "long_term"   // about a year
)

// RangeNames lists the user-facing range names in display order.
var RangeNames = []string{"short", "medium", "long"}

var timeRanges = map[string]TimeRange{
	"short":  ShortTerm,
	"medium": MediumTerm,
	"long":   LongTerm,
}

// ParseTimeRange maps short, medium or long to its [TimeRange].
func ParseTimeRange(s string) (TimeRange, error) {
	tr, ok := timeRanges[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return "", fmt.Errorf("%w: %q (use short, medium, or long)", shared.ErrInvalidTimeRange, s)
	}
	return tr, nil
}

// Valid reports whether r is one of the three API values.
func (r TimeRange) Valid() bool {
	return r == ShortTerm || r == MediumTerm || r == LongTerm
}

// Short returns the user-facing name of r.
func (r TimeRange) Short() string {
	return strings.TrimSuffix(string(r), "_term")
}

// ValidateLimit checks n is within [MinLimit, MaxLimit].
func ValidateLimit(n int) error {
	if n < MinLimit || n > MaxLimit {
		return fmt.Errorf("%w: limit %d must be between %d and %d", shared.ErrInvalidArgument, n, MinLimit, MaxLimit)
	}
	return nil
}

// TopQuery selects a window and a result count.
type TopQuery struct {
	Range TimeRange
	Limit int
}

// NewTopQuery parses a user-facing range name and validates the limit.
func NewTopQuery(rangeName string, limit int) (TopQuery, error) {
	tr, err := ParseTimeRange(rangeName)
	if err != nil {
		return TopQuery{}, err
	}
	if err := ValidateLimit(limit); err != nil {
		return TopQuery{}, err
	}
	return TopQuery{Range: tr, Limit: limit}, nil
}
