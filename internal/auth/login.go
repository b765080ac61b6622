package auth

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/spotcli/internal/server"
	"github.com/desertthunder/spotcli/internal/shared"
)

// Exchanger trades an authorization code for credentials. [*TokenExchangeClient] is the production
// implementation.
type Exchanger interface {
	Exchange(ctx context.Context, code string, verifier CodeVerifier) (*CredentialPair, error)
}

// AuthenticatorOpts configures an [Authenticator].
type AuthenticatorOpts struct {
	Client        ClientConfig
	Server        shared.ServerConfig
	Store         *CredentialStore
	Exchanger     Exchanger // defaults to a [TokenExchangeClient] for Client
	Opener        Opener    // defaults to [shared.OpenBrowser]
	Logger        *log.Logger
	Out           io.Writer
	Timeout       time.Duration // overrides Server.Timeout when non-zero
	ShutdownDelay time.Duration // overrides Server.ShutdownDelay when non-zero
}

// Authenticator runs the interactive PKCE login. Only one login may be pending at a time.
type Authenticator struct {
	client        ClientConfig
	server        shared.ServerConfig
	store         *CredentialStore
	exchanger     Exchanger
	opener        Opener
	logger        *log.Logger
	out           io.Writer
	timeout       time.Duration
	shutdownDelay time.Duration
	pending       atomic.Bool
}

// NewAuthenticator creates an [Authenticator] from opts.
func NewAuthenticator(opts AuthenticatorOpts) *Authenticator {
	a := &Authenticator{
		client:        opts.Client,
		server:        opts.Server,
		store:         opts.Store,
		exchanger:     opts.Exchanger,
		opener:        opts.Opener,
		logger:        opts.Logger,
		out:           opts.Out,
		timeout:       opts.Timeout,
		shutdownDelay: opts.ShutdownDelay,
	}

	if a.exchanger == nil {
		a.exchanger = NewTokenExchangeClient(opts.Client, nil)
	}
	if a.opener == nil {
		a.opener = shared.OpenBrowser
	}
	if a.logger == nil {
		a.logger = shared.NewLogger(nil)
	}
	if a.out == nil {
		a.out = io.Discard
	}
	if a.timeout == 0 {
		a.timeout = opts.Server.Timeout()
	}
	if a.shutdownDelay == 0 {
		a.shutdownDelay = opts.Server.ShutdownDelay()
	}
	a.logger = shared.WithLogger(a.logger, "component", "auth")
	return a
}

// Store returns the credential store logins are saved to.
func (a *Authenticator) Store() *CredentialStore {
	return a.store
}

// Login performs one authorization code + PKCE login and stores the resulting pair.
//
// The callback listener is bound before the browser opens; a bind failure returns
// [shared.ErrListenerBind] without opening anything. Every path closes the listener.
func (a *Authenticator) Login(ctx context.Context) (*CredentialPair, error) {
	if !a.pending.CompareAndSwap(false, true) {
		return nil, shared.ErrLoginInProgress
	}
	defer a.pending.Store(false)

	secrets, err := NewSecretPair()
	if err != nil {
		return nil, err
	}
	state, err := GenerateState()
	if err != nil {
		return nil, err
	}

	path, err := a.callbackPath()
	if err != nil {
		return nil, err
	}

	listener := server.NewCallbackServer(server.CallbackServerOpts{
		Host:          a.server.Host,
		Port:          a.server.Port,
		Path:          path,
		State:         state,
		Timeout:       a.timeout,
		ShutdownDelay: a.shutdownDelay,
		Logger:        a.logger,
	})
	if err := listener.Start(); err != nil {
		return nil, err
	}
	defer func() {
		if err := listener.Close(); err != nil {
			a.logger.Warn("callback listener did not shut down cleanly", "error", err)
		}
	}()

	req := NewAuthorizationRequest(a.client, secrets.Challenge, state)
	authURL, err := OpenAuthorization(req, a.opener)
	if err != nil {
		a.logger.Warn("browser unavailable", "error", err)
		fmt.Fprintf(a.out, "Open this URL in your browser to log in:\n\n  %s\n\n", authURL)
	} else {
		fmt.Fprintln(a.out, "Opened your browser to log in to Spotify.")
	}
	fmt.Fprintf(a.out, "Waiting for authorization on %s ...\n", listener.URL())

	outcome, err := listener.Wait(ctx)
	if err != nil {
		a.logger.Debug("login did not complete", "outcome", outcome.Kind, "reason", outcome.Reason)
		return nil, err
	}

	pair, err := a.exchanger.Exchange(ctx, outcome.Code, secrets.Verifier)
	if err != nil {
		return nil, err
	}

	if err := a.store.Save(*pair); err != nil {
		return nil, err
	}
	a.logger.Debug("credentials saved", "path", a.store.Path())
	return pair, nil
}

// callbackPath returns the path the listener serves, taken from the redirect URI.
func (a *Authenticator) callbackPath() (string, error) {
	u, err := url.Parse(a.client.RedirectURI)
	if err != nil {
		return "", fmt.Errorf("%w: redirect_uri: %v", shared.ErrInvalidConfig, err)
	}
	if port := u.Port(); port != "" && port != strconv.Itoa(a.server.Port) {
		return "", fmt.Errorf("%w: redirect_uri port %s does not match server port %d",
			shared.ErrInvalidConfig, port, a.server.Port)
	}
	if u.Path == "" {
		return a.server.CallbackPath, nil
	}
	return u.Path, nil
}

// IsFatal reports whether err ends the process rather than a single command.
//
// Missing credentials, an unavailable random source and a taken callback port are fatal; everything else
// is reported and the interactive loop continues.
func IsFatal(err error) bool {
	return errors.Is(err, shared.ErrNoCredentials) ||
		errors.Is(err, shared.ErrGeneration) ||
		errors.Is(err, shared.ErrListenerBind)
}
