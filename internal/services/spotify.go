// Spotify Web API implementation of [TopService]
//
// Spotify API response types based on https://developer.spotify.com/documentation/web-api/reference/
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/spotcli/internal/auth"
	"github.com/desertthunder/spotcli/internal/models"
	"github.com/desertthunder/spotcli/internal/shared"
	"github.com/tidwall/gjson"
	"golang.org/x/time/rate"
)

const (
	spotifyBaseURL = "https://api.spotify.com/v1"

	defaultRequestsPerSecond = 5
)

type followers struct {
	Total int `json:"total"`
}

// SpotifyImage represents an image resource.
type SpotifyImage struct {
	URL    string `json:"url"`
	Height int    `json:"height"`
	Width  int    `json:"width"`
}

// SpotifyTrack represents a Spotify track.
type SpotifyTrack struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Artists    []SpotifyArtist `json:"artists"`
	Album      SpotifyAlbum    `json:"album"`
	DurationMS int             `json:"duration_ms"`
	Popularity int             `json:"popularity"`
	URI        string          `json:"uri"`
}

// SpotifyArtist represents a Spotify artist. Simplified artist objects nested in tracks leave Genres,
// Followers and Popularity empty.
type SpotifyArtist struct {
	ID         string         `json:"id"`
	Name       string         `json:"name"`
	Genres     []string       `json:"genres"`
	Followers  followers      `json:"followers"`
	Popularity int            `json:"popularity"`
	Images     []SpotifyImage `json:"images"`
	URI        string         `json:"uri"`
}

// SpotifyAlbum represents a Spotify album.
type SpotifyAlbum struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	ReleaseDate string         `json:"release_date"`
	Images      []SpotifyImage `json:"images"`
	URI         string         `json:"uri"`
}

// SpotifyPage is the paging envelope around /me/top results.
type SpotifyPage[T any] struct {
	Items  []T     `json:"items"`
	Total  int     `json:"total"`
	Limit  int     `json:"limit"`
	Offset int     `json:"offset"`
	Next   *string `json:"next"`
}

// RemoteAPIError is a non-2xx response from the Web API.
type RemoteAPIError struct {
	StatusCode int
	Endpoint   string
	Message    string
}

func (e *RemoteAPIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s: status %d: %s", shared.ErrRemoteAPI, e.Endpoint, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s: %s: status %d", shared.ErrRemoteAPI, e.Endpoint, e.StatusCode)
}

// Is reports a match against [shared.ErrRemoteAPI].
func (e *RemoteAPIError) Is(target error) bool {
	return target == shared.ErrRemoteAPI
}

// CredentialLoader supplies the stored access token for each request. [*auth.CredentialStore] satisfies it.
type CredentialLoader interface {
	Load() (*auth.CredentialPair, error)
}

// SpotifyServiceOpts configures a [SpotifyService].
type SpotifyServiceOpts struct {
	BaseURL           string
	RequestsPerSecond float64
	HTTPClient        *http.Client
	Credentials       CredentialLoader
	Logger            *log.Logger
}

// SpotifyService implements [TopService] against the Spotify Web API.
//
// Credentials are loaded from the store on every call, so a login in the same process is picked up
// without restarting.
type SpotifyService struct {
	baseURL     string
	httpClient  *http.Client
	limiter     *rate.Limiter
	credentials CredentialLoader
	logger      *log.Logger
}

// NewSpotifyService creates a new Spotify service.
func NewSpotifyService(opts SpotifyServiceOpts) (*SpotifyService, error) {
	if opts.Credentials == nil {
		return nil, fmt.Errorf("%w: credential loader", shared.ErrMissingArgument)
	}
	if opts.BaseURL == "" {
		opts.BaseURL = spotifyBaseURL
	}
	if opts.RequestsPerSecond <= 0 {
		opts.RequestsPerSecond = defaultRequestsPerSecond
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}

	return &SpotifyService{
		baseURL:     strings.TrimRight(opts.BaseURL, "/"),
		httpClient:  opts.HTTPClient,
		limiter:     rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), 1),
		credentials: opts.Credentials,
		logger:      shared.WithLogger(opts.Logger, "service", "spotify"),
	}, nil
}

func (s *SpotifyService) Name() string {
	return "Spotify"
}

// doRequest performs an authenticated GET against the Web API and decodes the JSON body into result.
func (s *SpotifyService) doRequest(ctx context.Context, endpoint string, query url.Values, result any) error {
	creds, err := s.credentials.Load()
	if err != nil {
		return err
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	apiURL := s.baseURL + endpoint
	if len(query) > 0 {
		apiURL += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+creds.Access)
	req.Header.Set("Accept", "application/json")

	s.logger.Debug("spotify request", "endpoint", endpoint, "query", query.Encode())

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", shared.ErrRemoteAPI, endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return apiError(endpoint, resp)
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("%w: failed to decode response: %v", shared.ErrRemoteAPI, err)
		}
	}
	return nil
}

func apiError(endpoint string, resp *http.Response) error {
	e := &RemoteAPIError{StatusCode: resp.StatusCode, Endpoint: endpoint}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return e
	}

	if msg := gjson.GetBytes(body, "error.message"); msg.Exists() && msg.String() != "" {
		e.Message = msg.String()
	} else if text := strings.TrimSpace(string(body)); text != "" {
		e.Message = text
	}
	return e
}

func topQuery(q TopQuery) (url.Values, error) {
	if err := ValidateLimit(q.Limit); err != nil {
		return nil, err
	}
	if !q.Range.Valid() {
		return nil, fmt.Errorf("%w: %q", shared.ErrInvalidTimeRange, q.Range)
	}
	return url.Values{
		"time_range": {string(q.Range)},
		"limit":      {strconv.Itoa(q.Limit)},
	}, nil
}

// TopTracks retrieves the user's top tracks.
//
// Parameters are validated before credentials are loaded; an invalid query makes no request.
func (s *SpotifyService) TopTracks(ctx context.Context, q TopQuery) ([]models.Track, error) {
	query, err := topQuery(q)
	if err != nil {
		return nil, err
	}

	var page SpotifyPage[SpotifyTrack]
	if err := s.doRequest(ctx, "/me/top/tracks", query, &page); err != nil {
		return nil, err
	}

	tracks := make([]models.Track, 0, len(page.Items))
	for i, item := range page.Items {
		tracks = append(tracks, item.toModel(i+1))
	}
	return tracks, nil
}

// TopArtists retrieves the user's top artists.
func (s *SpotifyService) TopArtists(ctx context.Context, q TopQuery) ([]models.Artist, error) {
	query, err := topQuery(q)
	if err != nil {
		return nil, err
	}

	var page SpotifyPage[SpotifyArtist]
	if err := s.doRequest(ctx, "/me/top/artists", query, &page); err != nil {
		return nil, err
	}

	artists := make([]models.Artist, 0, len(page.Items))
	for i, item := range page.Items {
		artists = append(artists, item.toModel(i+1))
	}
	return artists, nil
}

func (t SpotifyTrack) toModel(rank int) models.Track {
	names := make([]string, 0, len(t.Artists))
	for _, a := range t.Artists {
		names = append(names, a.Name)
	}
	return models.Track{
		Rank:       rank,
		ID:         t.ID,
		Name:       t.Name,
		Artists:    names,
		Album:      t.Album.Name,
		DurationMS: t.DurationMS,
		Popularity: t.Popularity,
		URI:        t.URI,
	}
}

func (a SpotifyArtist) toModel(rank int) models.Artist {
	return models.Artist{
		Rank:       rank,
		ID:         a.ID,
		Name:       a.Name,
		Genres:     a.Genres,
		Followers:  a.Followers.Total,
		Popularity: a.Popularity,
		URI:        a.URI,
	}
}

// IsUnauthorized reports whether err is a 401 from the Web API, usually an expired access token.
func IsUnauthorized(err error) bool {
	var re *RemoteAPIError
	return errors.As(err, &re) && re.StatusCode == http.StatusUnauthorized
}
