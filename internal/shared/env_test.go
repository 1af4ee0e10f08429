package shared

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func lookupFrom(env map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
}

func TestApplyEnv(t *testing.T) {
	t.Run("overrides file values", func(t *testing.T) {
		config := DefaultConfig()
		err := config.ApplyEnv(lookupFrom(map[string]string{
			EnvClientID:     "env_id",
			EnvClientSecret: "env_secret",
			EnvDomainURI:    "https://rhymx.example",
			EnvRedirectPath: "/callback",
			EnvPort:         "4000",
			EnvLRCLibURL:    "http://lrclib.local",
			EnvLogLevel:     "debug",
		}))
		if err != nil {
			t.Fatalf("ApplyEnv() error = %v", err)
		}

		sp := config.Credentials.Spotify
		if sp.ClientID != "env_id" || sp.ClientSecret != "env_secret" {
			t.Errorf("credentials not applied: %+v", sp)
		}

		if sp.RedirectURI() != "https://rhymx.example/callback" {
			t.Errorf("unexpected redirect uri %s", sp.RedirectURI())
		}

		if config.Server.Port != 4000 {
			t.Errorf("expected port 4000, got %d", config.Server.Port)
		}

		if config.Lyrics.LRCLib.URL != "http://lrclib.local" {
			t.Errorf("unexpected lrclib url %s", config.Lyrics.LRCLib.URL)
		}

		if config.Log.Level != "debug" {
			t.Errorf("expected log level debug, got %s", config.Log.Level)
		}
	})

	t.Run("empty values are ignored", func(t *testing.T) {
		config := DefaultConfig()
		want := config.Credentials.Spotify.ClientID

		if err := config.ApplyEnv(lookupFrom(map[string]string{EnvClientID: "  "})); err != nil {
			t.Fatalf("ApplyEnv() error = %v", err)
		}

		if config.Credentials.Spotify.ClientID != want {
			t.Errorf("client id changed to %q", config.Credentials.Spotify.ClientID)
		}
	})

	t.Run("invalid port", func(t *testing.T) {
		err := DefaultConfig().ApplyEnv(lookupFrom(map[string]string{EnvPort: "eighty"}))
		if !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})
}

func TestLoadEnv(t *testing.T) {
	t.Run("missing file is skipped", func(t *testing.T) {
		if err := LoadEnv(filepath.Join(t.TempDir(), ".env")); err != nil {
			t.Errorf("LoadEnv() error = %v", err)
		}
	})

	t.Run("loads variables without overriding", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), ".env")
		content := "RHYMX_TEST_LOADED=from_file\nRHYMX_TEST_PRESET=from_file\n"
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("failed to write env file: %v", err)
		}

		t.Setenv("RHYMX_TEST_PRESET", "from_env")
		t.Setenv("RHYMX_TEST_LOADED", "")
		os.Unsetenv("RHYMX_TEST_LOADED")

		if err := LoadEnv(path); err != nil {
			t.Fatalf("LoadEnv() error = %v", err)
		}

		if got := os.Getenv("RHYMX_TEST_LOADED"); got != "from_file" {
			t.Errorf("RHYMX_TEST_LOADED = %q, want from_file", got)
		}

		if got := os.Getenv("RHYMX_TEST_PRESET"); got != "from_env" {
			t.Errorf("RHYMX_TEST_PRESET = %q, want from_env", got)
		}
	})
}
