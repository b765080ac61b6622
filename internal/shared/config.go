package shared

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

//go:embed config.example.toml
var exampleConf []byte

// ConfigDirName is the per-user directory holding credentials, history and logs.
const ConfigDirName = ".spotify-cli"

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Spotify SpotifyConfig `toml:"spotify"`
	Server  ServerConfig  `toml:"server"`
	Storage StorageConfig `toml:"storage"`
}

// SpotifyConfig contains the public OAuth client and API endpoints.
//
// PKCE clients carry no secret.
type SpotifyConfig struct {
	ClientID          string   `toml:"client_id"`
	RedirectURI       string   `toml:"redirect_uri"`
	AuthURL           string   `toml:"auth_url"`
	TokenURL          string   `toml:"token_url"`
	APIURL            string   `toml:"api_url"`
	RequestsPerSecond float64  `toml:"requests_per_second"`
	Scopes            []string `toml:"scopes"`
}

// ServerConfig contains loopback callback listener settings.
type ServerConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	CallbackPath    string `toml:"callback_path"`
	TimeoutSeconds  int    `toml:"timeout_seconds"`
	ShutdownDelayMS int    `toml:"shutdown_delay_ms"`
}

// StorageConfig contains on-disk locations. Empty values resolve under [ConfigDir].
type StorageConfig struct {
	CredentialsPath string `toml:"credentials_path"`
	DatabasePath    string `toml:"database_path"`
	LogPath         string `toml:"log_path"`
}

// Addr returns the host:port the callback listener binds.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// Timeout is how long a login waits for the browser redirect. Zero disables the timeout.
func (s ServerConfig) Timeout() time.Duration {
	return time.Duration(s.TimeoutSeconds) * time.Second
}

// ShutdownDelay is how long the listener stays up after answering the callback.
func (s ServerConfig) ShutdownDelay() time.Duration {
	return time.Duration(s.ShutdownDelayMS) * time.Millisecond
}

// ConfigDir returns ~/.spotify-cli
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ConfigDirName), nil
}

// Resolve fills empty storage paths with defaults under [ConfigDir].
func (s *StorageConfig) Resolve() error {
	if s.CredentialsPath != "" && s.DatabasePath != "" && s.LogPath != "" {
		return nil
	}

	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	if s.CredentialsPath == "" {
		s.CredentialsPath = filepath.Join(dir, "tokens.json")
	}
	if s.DatabasePath == "" {
		s.DatabasePath = filepath.Join(dir, "history.db")
	}
	if s.LogPath == "" {
		s.LogPath = filepath.Join(dir, "spotcli.log")
	}
	return nil
}

// Validate checks the settings the login flow depends on.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Spotify.ClientID) == "" {
		return fmt.Errorf("%w: spotify.client_id is required", ErrInvalidConfig)
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("%w: server.port %d out of range", ErrInvalidConfig, c.Server.Port)
	}
	if !strings.HasPrefix(c.Server.CallbackPath, "/") {
		return fmt.Errorf("%w: server.callback_path must start with /", ErrInvalidConfig)
	}
	if c.Server.CallbackPath == "/" || strings.HasSuffix(c.Server.CallbackPath, "/") {
		return fmt.Errorf("%w: server.callback_path %q must name a single route", ErrInvalidConfig, c.Server.CallbackPath)
	}

	u, err := url.Parse(c.Spotify.RedirectURI)
	if err != nil || u.Host == "" {
		return fmt.Errorf("%w: spotify.redirect_uri %q is not an absolute URL", ErrInvalidConfig, c.Spotify.RedirectURI)
	}
	if u.Path != c.Server.CallbackPath {
		return fmt.Errorf("%w: redirect_uri path %q does not match callback_path %q", ErrInvalidConfig, u.Path, c.Server.CallbackPath)
	}
	return nil
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// Keys missing from the file keep their default values.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// SaveConfig writes config to path as TOML.
func SaveConfig(path string, config *Config) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(config); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// LoadEnv loads .env style files into the process environment. Missing files are skipped.
func LoadEnv(paths ...string) error {
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("failed to load %s: %w", p, err)
		}
	}
	return nil
}

// ApplyEnv overrides config values from SPOTIFY_CLIENT_ID, SPOTIFY_REDIRECT_URI and SPOTCLI_CREDENTIALS.
func (c *Config) ApplyEnv() {
	if v := os.Getenv("SPOTIFY_CLIENT_ID"); v != "" {
		c.Spotify.ClientID = v
	}
	if v := os.Getenv("SPOTIFY_REDIRECT_URI"); v != "" {
		c.Spotify.RedirectURI = v
	}
	if v := os.Getenv("SPOTCLI_CREDENTIALS"); v != "" {
		c.Storage.CredentialsPath = v
	}
}
