package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/spotcli/internal/auth"
	"github.com/desertthunder/spotcli/internal/menu"
	"github.com/desertthunder/spotcli/internal/repositories"
	"github.com/desertthunder/spotcli/internal/services"
	"github.com/desertthunder/spotcli/internal/shared"
	"github.com/desertthunder/spotcli/internal/ui"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
//
// Stores and services are built on first use so commands that don't need them (setup, status) work
// without a valid client configuration.
type Runner struct {
	config        *shared.Config
	configPath    string
	fixedConfig   bool
	requireConfig bool // --config was given explicitly for a command other than setup
	logger        *log.Logger
	output        io.Writer
	input         io.Reader
	httpClient    *http.Client
	opener        auth.Opener
	prompter      menu.Prompter

	store         *auth.CredentialStore
	authenticator *auth.Authenticator
	spotify       services.TopService
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config // skips loading --config when set
	ConfigPath string
	Logger     *log.Logger
	Output     io.Writer
	Input      io.Reader
	HTTPClient *http.Client
	Opener     auth.Opener
	Prompter   menu.Prompter
	Spotify    services.TopService
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	r := &Runner{
		config:      opts.Config,
		configPath:  opts.ConfigPath,
		fixedConfig: opts.Config != nil,
		logger:      opts.Logger,
		output:      opts.Output,
		input:       opts.Input,
		httpClient:  opts.HTTPClient,
		opener:      opts.Opener,
		prompter:    opts.Prompter,
		spotify:     opts.Spotify,
	}

	if r.config == nil {
		r.config = shared.DefaultConfig()
	}
	if r.logger == nil {
		r.logger = shared.NewLogger(nil)
	}
	if r.output == nil {
		r.output = os.Stdout
	}
	if r.httpClient == nil {
		r.httpClient = http.DefaultClient
	}
	return r
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		menuCommand, loginCommand, logoutCommand, statusCommand, topTracksCommand, topArtistsCommand, historyCommand,
		exportCommand, setupCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// prepare runs before every command: it applies --debug and loads --config.
func (r *Runner) prepare(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	if cmd.Bool("debug") {
		shared.SetLogLevel(r.logger, log.DebugLevel)
	}

	if !r.fixedConfig {
		if path := cmd.String("config"); path != "" {
			r.configPath = path
		}
		r.requireConfig = cmd.IsSet("config") && cmd.Args().First() != "setup"
		config, err := r.loadConfig()
		if err != nil {
			return ctx, err
		}
		r.config = config
	}

	if err := r.config.Storage.Resolve(); err != nil {
		return ctx, err
	}
	return ctx, nil
}

// loadConfig reads the config file when it exists and falls back to the embedded defaults otherwise.
// A path passed explicitly with --config must exist. Environment overrides are applied in both cases.
func (r *Runner) loadConfig() (*shared.Config, error) {
	config := shared.DefaultConfig()
	if r.configPath != "" {
		if _, err := os.Stat(r.configPath); err == nil {
			loaded, err := shared.LoadConfig(r.configPath)
			if err != nil {
				return nil, fmt.Errorf("%w: %v", shared.ErrInvalidConfig, err)
			}
			config = loaded
			r.logger.Debug("loaded config", "path", r.configPath)
		} else if r.requireConfig {
			return nil, fmt.Errorf("%w: %s", shared.ErrMissingConfig, r.configPath)
		} else {
			r.logger.Debug("config file not found, using defaults", "path", r.configPath)
		}
	}

	config.ApplyEnv()
	return config, nil
}

// SetLogger replaces the logger used by the runner and anything it builds afterwards.
func (r *Runner) SetLogger(l *log.Logger) {
	r.logger = l
}

func (r *Runner) credentials() *auth.CredentialStore {
	if r.store == nil {
		r.store = auth.NewCredentialStore(r.config.Storage.CredentialsPath)
	}
	return r.store
}

func (r *Runner) authenticatorFor() (*auth.Authenticator, error) {
	if r.authenticator != nil {
		return r.authenticator, nil
	}
	if err := r.config.Validate(); err != nil {
		return nil, err
	}

	client := auth.ClientConfigFrom(r.config.Spotify)
	r.authenticator = auth.NewAuthenticator(auth.AuthenticatorOpts{
		Client:    client,
		Server:    r.config.Server,
		Store:     r.credentials(),
		Exchanger: auth.NewTokenExchangeClient(client, r.httpClient),
		Opener:    r.opener,
		Logger:    r.logger,
		Out:       r.output,
	})
	return r.authenticator, nil
}

func (r *Runner) topService() (services.TopService, error) {
	if r.spotify != nil {
		return r.spotify, nil
	}

	svc, err := services.NewSpotifyService(services.SpotifyServiceOpts{
		BaseURL:           r.config.Spotify.APIURL,
		RequestsPerSecond: r.config.Spotify.RequestsPerSecond,
		HTTPClient:        r.httpClient,
		Credentials:       r.credentials(),
		Logger:            r.logger,
	})
	if err != nil {
		return nil, err
	}
	r.spotify = svc
	return svc, nil
}

func (r *Runner) prompterFor() menu.Prompter {
	if r.prompter == nil {
		r.prompter = ui.NewPrompter(r.input, r.output)
	}
	return r.prompter
}

// openHistory opens the snapshot database, running pending migrations. The caller closes it.
func (r *Runner) openHistory() (*repositories.SnapshotRepository, func() error, error) {
	db, err := shared.OpenMigrated(r.config.Storage.DatabasePath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open history database: %w", err)
	}
	return repositories.NewSnapshotRepository(db), db.Close, nil
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	output, err := shared.MarshalJSON(data, pretty)
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writeBytes(data []byte) error {
	if _, err := r.output.Write(data); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
