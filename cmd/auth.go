package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/desertthunder/spotcli/internal/shared"
	"github.com/desertthunder/spotcli/internal/ui"
	"github.com/urfave/cli/v3"
)

// Login runs the browser login and stores the resulting credentials.
func (r *Runner) Login(ctx context.Context, cmd *cli.Command) error {
	if cmd.Bool("no-browser") {
		r.opener = func(string) error { return shared.ErrBrowserUnavailable }
	}

	authn, err := r.authenticatorFor()
	if err != nil {
		return err
	}

	r.logger.Info("starting login", "redirect_uri", r.config.Spotify.RedirectURI)
	if _, err := authn.Login(ctx); err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	r.logger.Info("credentials saved", "path", authn.Store().Path())
	return r.writePlain("%s Logged in successfully!\n", ui.Success("✓"))
}

// Logout removes stored credentials. Logging out twice is not an error.
func (r *Runner) Logout(ctx context.Context, cmd *cli.Command) error {
	store := r.credentials()
	if !store.Exists() {
		return r.writePlain("Not logged in.\n")
	}
	if err := store.Clear(); err != nil {
		return err
	}

	r.logger.Info("credentials removed", "path", store.Path())
	return r.writePlain("%s Logged out\n", ui.Success("✓"))
}

// loginStatus is the --json shape of [Runner.Status].
type loginStatus struct {
	LoggedIn        bool   `json:"logged_in"`
	CredentialsPath string `json:"credentials_path"`
	HasRefresh      bool   `json:"has_refresh_token"`
}

// Status reports whether usable credentials are stored.
func (r *Runner) Status(ctx context.Context, cmd *cli.Command) error {
	store := r.credentials()
	status := loginStatus{CredentialsPath: store.Path()}

	pair, err := store.Load()
	switch {
	case err == nil:
		status.LoggedIn = true
		status.HasRefresh = pair.Refresh != ""
	case errors.Is(err, shared.ErrNoCredentials):
	default:
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(status, true)
	}

	if !status.LoggedIn {
		return r.writePlain("%s Not logged in\nRun 'spotcli login' to authenticate.\n", ui.Warn("✗"))
	}
	r.writePlain("%s Logged in\n", ui.Success("✓"))
	return r.writePlain("Credentials: %s\n", status.CredentialsPath)
}
