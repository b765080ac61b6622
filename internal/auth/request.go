package auth

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/desertthunder/spotcli/internal/shared"
)

// ClientConfig identifies the public OAuth client and the endpoints it talks to.
type ClientConfig struct {
	ClientID    string
	RedirectURI string
	Scopes      []string
	AuthURL     string
	TokenURL    string
}

// ClientConfigFrom maps the [spotify] config section to a [ClientConfig].
func ClientConfigFrom(c shared.SpotifyConfig) ClientConfig {
	return ClientConfig{
		ClientID:    c.ClientID,
		RedirectURI: c.RedirectURI,
		Scopes:      append([]string(nil), c.Scopes...),
		AuthURL:     c.AuthURL,
		TokenURL:    c.TokenURL,
	}
}

// AuthorizationRequest is the set of parameters sent to the authorize endpoint. Build with
// [NewAuthorizationRequest]; the value is not modified afterwards.
type AuthorizationRequest struct {
	Endpoint        string
	ClientID        string
	RedirectURI     string
	Scopes          []string
	Challenge       CodeChallenge
	ChallengeMethod string
	State           string
}

// NewAuthorizationRequest builds the request for client with the given challenge and state.
func NewAuthorizationRequest(client ClientConfig, challenge CodeChallenge, state string) AuthorizationRequest {
	return AuthorizationRequest{
		Endpoint:        client.AuthURL,
		ClientID:        client.ClientID,
		RedirectURI:     client.RedirectURI,
		Scopes:          append([]string(nil), client.Scopes...),
		Challenge:       challenge,
		ChallengeMethod: ChallengeMethod,
		State:           state,
	}
}

// URL renders the authorize URL.
func (r AuthorizationRequest) URL() string {
	q := url.Values{}
	q.Set("response_type", "code")
	q.Set("client_id", r.ClientID)
	q.Set("scope", strings.Join(r.Scopes, " "))
	q.Set("redirect_uri", r.RedirectURI)
	q.Set("code_challenge_method", r.ChallengeMethod)
	q.Set("code_challenge", string(r.Challenge))
	if r.State != "" {
		q.Set("state", r.State)
	}

	sep := "?"
	if strings.Contains(r.Endpoint, "?") {
		sep = "&"
	}
	return r.Endpoint + sep + q.Encode()
}

// Opener presents a URL to the user, usually by launching a browser.
type Opener func(url string) error

// OpenAuthorization renders req and hands it to opener.
//
// The URL is always returned. A failed open is reported wrapped in [shared.ErrBrowserUnavailable] so
// callers can print the URL and keep waiting.
func OpenAuthorization(req AuthorizationRequest, opener Opener) (string, error) {
	u := req.URL()
	if opener == nil {
		opener = shared.OpenBrowser
	}
	if err := opener(u); err != nil {
		if errors.Is(err, shared.ErrBrowserUnavailable) {
			return u, err
		}
		return u, fmt.Errorf("%w: %v", shared.ErrBrowserUnavailable, err)
	}
	return u, nil
}
