package shared

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Environment variables that override file configuration.
const (
	EnvClientID     = "CLIENT_ID"
	EnvClientSecret = "CLIENT_SECRET"
	EnvDomainURI    = "DOMAIN_URI"
	EnvRedirectPath = "REDIRECT_PATH"
	EnvPort         = "PORT"
	EnvLRCLibURL    = "LRCLIB_URL"
	EnvLogLevel     = "LOG_LEVEL"
)

// LoadEnv reads .env style files into the process environment without overriding variables that are already set.
//
// With no paths it reads ".env" in the working directory. Files that do not exist are skipped.
func LoadEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}

	for _, p := range paths {
		if err := godotenv.Load(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("%w: failed to load %s: %w", ErrInvalidConfig, p, err)
		}
	}
	return nil
}

// ApplyEnv overrides config values with the environment, using lookup to read variables. A nil lookup uses
// [os.LookupEnv]. Empty variables are ignored.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if lookup == nil {
		lookup = os.LookupEnv
	}

	get := func(key string) (string, bool) {
		v, ok := lookup(key)
		v = strings.TrimSpace(v)
		return v, ok && v != ""
	}

	sp := &c.Credentials.Spotify
	for key, dst := range map[string]*string{
		EnvClientID:     &sp.ClientID,
		EnvClientSecret: &sp.ClientSecret,
		EnvDomainURI:    &sp.DomainURI,
		EnvRedirectPath: &sp.RedirectPath,
		EnvLRCLibURL:    &c.Lyrics.LRCLib.URL,
		EnvLogLevel:     &c.Log.Level,
	} {
		if v, ok := get(key); ok {
			*dst = v
		}
	}

	if v, ok := get(EnvPort); ok {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q", ErrInvalidConfig, EnvPort, v)
		}
		c.Server.Port = port
	}

	return nil
}
