package shared

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		if config.Server.Port != 3000 {
			t.Errorf("expected server port 3000, got %d", config.Server.Port)
		}

		if config.Server.CallbackPath != "/callback" {
			t.Errorf("expected callback path /callback, got %s", config.Server.CallbackPath)
		}

		if config.Spotify.RedirectURI != "http://127.0.0.1:3000/callback" {
			t.Errorf("unexpected redirect URI %s", config.Spotify.RedirectURI)
		}

		if config.Server.Timeout() != 2*time.Minute {
			t.Errorf("expected 2m timeout, got %v", config.Server.Timeout())
		}

		if config.Server.ShutdownDelay() != time.Second {
			t.Errorf("expected 1s shutdown delay, got %v", config.Server.ShutdownDelay())
		}

		found := false
		for _, s := range config.Spotify.Scopes {
			if s == "user-top-read" {
				found = true
			}
		}
		if !found {
			t.Error("default scopes should include user-top-read")
		}

		if err := config.Validate(); err != nil {
			t.Errorf("default config should validate, got %v", err)
		}
	})

	t.Run("CreateConfigFile", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.toml")

		if err := CreateConfigFile(configPath); err != nil {
			t.Fatalf("failed to create config file: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load created config: %v", err)
		}

		if config.Spotify.ClientID != DefaultConfig().Spotify.ClientID {
			t.Error("created config client_id doesn't match default")
		}

		if err := CreateConfigFile(configPath); err == nil {
			t.Error("creating config file again should fail")
		}
	})

	t.Run("LoadConfig", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.toml")

		testConfig := `[spotify]
client_id = "test_client_id"
redirect_uri = "http://localhost:8888/cb"

[server]
host = "localhost"
port = 8888
callback_path = "/cb"
`
		if err := os.WriteFile(configPath, []byte(testConfig), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		if config.Server.Addr() != "localhost:8888" {
			t.Errorf("expected addr localhost:8888, got %s", config.Server.Addr())
		}

		if config.Spotify.ClientID != "test_client_id" {
			t.Errorf("expected spotify client_id test_client_id, got %s", config.Spotify.ClientID)
		}

		if config.Spotify.TokenURL != "https://accounts.spotify.com/api/token" {
			t.Errorf("missing keys should keep defaults, got token_url %q", config.Spotify.TokenURL)
		}

		if err := config.Validate(); err != nil {
			t.Errorf("expected valid config, got %v", err)
		}
	})

	t.Run("LoadConfig Missing File", func(t *testing.T) {
		if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
			t.Error("expected error for missing file")
		}
	})

	t.Run("SaveConfig", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.toml")
		config := DefaultConfig()
		config.Spotify.ClientID = "saved_id"

		if err := SaveConfig(configPath, config); err != nil {
			t.Fatalf("failed to save config: %v", err)
		}

		loaded, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load saved config: %v", err)
		}
		if loaded.Spotify.ClientID != "saved_id" {
			t.Errorf("expected saved_id, got %s", loaded.Spotify.ClientID)
		}
	})

	t.Run("Validate", func(t *testing.T) {
		tc := []struct {
			name   string
			mutate func(*Config)
			want   string
		}{
			{"missing client id", func(c *Config) { c.Spotify.ClientID = " " }, "client_id"},
			{"port out of range", func(c *Config) { c.Server.Port = 70000 }, "server.port"},
			{"relative callback path", func(c *Config) { c.Server.CallbackPath = "callback" }, "callback_path"},
			{"root callback path", func(c *Config) {
				c.Server.CallbackPath = "/"
				c.Spotify.RedirectURI = "http://127.0.0.1:3000/"
			}, "single route"},
			{"relative redirect", func(c *Config) { c.Spotify.RedirectURI = "/callback" }, "redirect_uri"},
			{"path mismatch", func(c *Config) { c.Spotify.RedirectURI = "http://127.0.0.1:3000/other" }, "does not match"},
		}

		for _, tt := range tc {
			t.Run(tt.name, func(t *testing.T) {
				config := DefaultConfig()
				tt.mutate(config)

				err := config.Validate()
				if !errors.Is(err, ErrInvalidConfig) {
					t.Fatalf("expected ErrInvalidConfig, got %v", err)
				}
				if !strings.Contains(err.Error(), tt.want) {
					t.Errorf("expected error to mention %q, got %v", tt.want, err)
				}
			})
		}
	})

	t.Run("StorageConfig Resolve", func(t *testing.T) {
		t.Setenv("HOME", t.TempDir())

		var s StorageConfig
		if err := s.Resolve(); err != nil {
			t.Fatalf("resolve failed: %v", err)
		}

		if filepath.Base(s.CredentialsPath) != "tokens.json" {
			t.Errorf("unexpected credentials path %s", s.CredentialsPath)
		}
		if filepath.Base(filepath.Dir(s.CredentialsPath)) != ConfigDirName {
			t.Errorf("credentials should live under %s, got %s", ConfigDirName, s.CredentialsPath)
		}

		s = StorageConfig{CredentialsPath: "/custom/tokens.json"}
		if err := s.Resolve(); err != nil {
			t.Fatalf("resolve failed: %v", err)
		}
		if s.CredentialsPath != "/custom/tokens.json" {
			t.Errorf("explicit path should be kept, got %s", s.CredentialsPath)
		}
	})

	t.Run("Env", func(t *testing.T) {
		envPath := filepath.Join(t.TempDir(), ".env")
		if err := os.WriteFile(envPath, []byte("SPOTIFY_CLIENT_ID=from_env\nSPOTCLI_CREDENTIALS=/tmp/creds.json\n"), 0600); err != nil {
			t.Fatalf("failed to write env file: %v", err)
		}
		t.Setenv("SPOTIFY_CLIENT_ID", "")
		t.Setenv("SPOTCLI_CREDENTIALS", "")
		os.Unsetenv("SPOTIFY_CLIENT_ID")
		os.Unsetenv("SPOTCLI_CREDENTIALS")

		if err := LoadEnv(filepath.Join(t.TempDir(), "missing.env"), envPath); err != nil {
			t.Fatalf("LoadEnv failed: %v", err)
		}

		config := DefaultConfig()
		config.ApplyEnv()

		if config.Spotify.ClientID != "from_env" {
			t.Errorf("expected client id from env, got %s", config.Spotify.ClientID)
		}
		if config.Storage.CredentialsPath != "/tmp/creds.json" {
			t.Errorf("expected credentials path from env, got %s", config.Storage.CredentialsPath)
		}
	})
}
