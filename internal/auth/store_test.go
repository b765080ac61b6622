package auth

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/desertthunder/spotcli/internal/shared"
	tu "github.com/desertthunder/spotcli/internal/testing"
)

func TestCredentialStore(t *testing.T) {
	t.Run("load before save", func(t *testing.T) {
		store := NewCredentialStore(filepath.Join(t.TempDir(), "tokens.json"))

		if _, err := store.Load(); !errors.Is(err, shared.ErrNoCredentials) {
			t.Errorf("expected ErrNoCredentials, got %v", err)
		}
		if store.Exists() {
			t.Error("expected empty store")
		}
	})

	t.Run("save then load", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), ".spotify-cli")
		store := NewCredentialStore(filepath.Join(dir, "tokens.json"))

		if err := store.Save(CredentialPair{Access: "A", Refresh: "R"}); err != nil {
			t.Fatalf("save failed: %v", err)
		}
		tu.AssertDirExists(t, dir)

		got := tu.MustReadFile(t, store.Path())
		want := "{\n  \"access\": \"A\",\n  \"refresh\": \"R\"\n}"
		if got != want {
			t.Errorf("unexpected file content:\n%s", got)
		}

		pair, err := store.Load()
		if err != nil {
			t.Fatalf("load failed: %v", err)
		}
		if *pair != (CredentialPair{Access: "A", Refresh: "R"}) {
			t.Errorf("unexpected pair %+v", pair)
		}
	})

	t.Run("file and directory permissions", func(t *testing.T) {
		if runtime.GOOS == "windows" {
			t.Skip("unix permissions")
		}
		dir := filepath.Join(t.TempDir(), "creds")
		store := NewCredentialStore(filepath.Join(dir, "tokens.json"))
		if err := store.Save(CredentialPair{Access: "A"}); err != nil {
			t.Fatalf("save failed: %v", err)
		}

		info, err := os.Stat(store.Path())
		if err != nil {
			t.Fatalf("stat failed: %v", err)
		}
		if perm := info.Mode().Perm(); perm != 0o600 {
			t.Errorf("expected 0600, got %o", perm)
		}

		info, err = os.Stat(dir)
		if err != nil {
			t.Fatalf("stat failed: %v", err)
		}
		if perm := info.Mode().Perm(); perm&0o077 != 0 {
			t.Errorf("expected private directory, got %o", perm)
		}
	})

	t.Run("save replaces whole record", func(t *testing.T) {
		store := NewCredentialStore(filepath.Join(t.TempDir(), "tokens.json"))
		store.Save(CredentialPair{Access: "old-access", Refresh: "old-refresh"})
		if err := store.Save(CredentialPair{Access: "new"}); err != nil {
			t.Fatalf("save failed: %v", err)
		}

		pair, err := store.Load()
		if err != nil {
			t.Fatalf("load failed: %v", err)
		}
		if pair.Access != "new" || pair.Refresh != "" {
			t.Errorf("expected whole-record replace, got %+v", pair)
		}

		entries, _ := os.ReadDir(filepath.Dir(store.Path()))
		if len(entries) != 1 {
			t.Errorf("expected only the credentials file, found %d entries", len(entries))
		}
	})

	t.Run("null access is no credentials", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "tokens.json")
		os.WriteFile(path, []byte(`{"access": null, "refresh": null}`), 0o600)

		if _, err := NewCredentialStore(path).Load(); !errors.Is(err, shared.ErrNoCredentials) {
			t.Errorf("expected ErrNoCredentials, got %v", err)
		}
	})

	t.Run("corrupt file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "tokens.json")
		os.WriteFile(path, []byte(`{"access":`), 0o600)

		if _, err := NewCredentialStore(path).Load(); !errors.Is(err, shared.ErrInvalidCredentials) {
			t.Errorf("expected ErrInvalidCredentials, got %v", err)
		}
	})

	t.Run("clear", func(t *testing.T) {
		store := NewCredentialStore(filepath.Join(t.TempDir(), "tokens.json"))
		store.Save(CredentialPair{Access: "A"})

		if err := store.Clear(); err != nil {
			t.Fatalf("clear failed: %v", err)
		}
		if err := store.Clear(); err != nil {
			t.Errorf("second clear failed: %v", err)
		}
		if _, err := store.Load(); !errors.Is(err, shared.ErrNoCredentials) {
			t.Errorf("expected ErrNoCredentials after clear, got %v", err)
		}
	})
}

func TestDefaultCredentialsPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)

	path, err := DefaultCredentialsPath()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := filepath.Join(home, ".spotify-cli", "tokens.json"); path != want {
		t.Errorf("expected %s, got %s", want, path)
	}
}
