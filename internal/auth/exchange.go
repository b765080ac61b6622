package auth

import (
	"context"
	"errors"
	"net/http"

	"golang.org/x/oauth2"
)

// TokenExchangeClient trades an authorization code and verifier for a [CredentialPair].
type TokenExchangeClient struct {
	config     *oauth2.Config
	httpClient *http.Client
}

// NewTokenExchangeClient creates a client for the token endpoint in client.
//
// A nil httpClient uses [http.DefaultClient].
func NewTokenExchangeClient(client ClientConfig, httpClient *http.Client) *TokenExchangeClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &TokenExchangeClient{
		config: &oauth2.Config{
			ClientID:    client.ClientID,
			RedirectURL: client.RedirectURI,
			Scopes:      client.Scopes,
			Endpoint: oauth2.Endpoint{
				AuthURL:   client.AuthURL,
				TokenURL:  client.TokenURL,
				AuthStyle: oauth2.AuthStyleInParams,
			},
		},
		httpClient: httpClient,
	}
}

// Exchange sends one form-encoded POST to the token endpoint. There are no retries.
//
// Non-2xx responses and transport failures are returned as [*TokenExchangeError].
func (c *TokenExchangeClient) Exchange(ctx context.Context, code string, verifier CodeVerifier) (*CredentialPair, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)

	token, err := c.config.Exchange(ctx, code, oauth2.VerifierOption(string(verifier)))
	if err != nil {
		return nil, exchangeError(err)
	}

	return &CredentialPair{Access: token.AccessToken, Refresh: token.RefreshToken}, nil
}

func exchangeError(err error) *TokenExchangeError {
	var re *oauth2.RetrieveError
	if !errors.As(err, &re) {
		return &TokenExchangeError{Err: err}
	}

	te := &TokenExchangeError{
		ErrorCode:   re.ErrorCode,
		Description: re.ErrorDescription,
		Body:        string(re.Body),
	}
	if re.Response != nil {
		te.StatusCode = re.Response.StatusCode
	}
	return te
}
