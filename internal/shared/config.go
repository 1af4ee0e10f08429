package shared

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML or YAML file.
type Config struct {
	Credentials CredentialsConfig `toml:"credentials" yaml:"credentials"`
	Lyrics      LyricsConfig      `toml:"lyrics" yaml:"lyrics"`
	Server      ServerConfig      `toml:"server" yaml:"server"`
	Log         LogConfig         `toml:"log" yaml:"log"`
}

// CredentialsConfig contains service-specific credentials.
type CredentialsConfig struct {
	Spotify SpotifyConfig `toml:"spotify" yaml:"spotify"`
}

// SpotifyConfig contains Spotify API credentials and endpoints.
type SpotifyConfig struct {
	ClientID     string   `toml:"client_id" yaml:"client_id"`
	ClientSecret string   `toml:"client_secret" yaml:"client_secret"`
	DomainURI    string   `toml:"domain_uri" yaml:"domain_uri"`
	RedirectPath string   `toml:"redirect_path" yaml:"redirect_path"`
	AuthURL      string   `toml:"auth_url" yaml:"auth_url"`
	TokenURL     string   `toml:"token_url" yaml:"token_url"`
	Scopes       []string `toml:"scopes" yaml:"scopes"`
}

// RedirectURI is the domain URI followed by the redirect path.
func (s SpotifyConfig) RedirectURI() string {
	return s.DomainURI + s.RedirectPath
}

// LyricsConfig selects and configures lyrics providers.
type LyricsConfig struct {
	Providers []string     `toml:"providers" yaml:"providers"`
	UserAgent string       `toml:"user_agent" yaml:"user_agent"`
	LRCLib    LRCLibConfig `toml:"lrclib" yaml:"lrclib"`
	Scrape    ScrapeConfig `toml:"scrape" yaml:"scrape"`
}

// LRCLibConfig points at an LRCLib compatible API.
type LRCLibConfig struct {
	URL string `toml:"url" yaml:"url"`
}

// ScrapeConfig describes an HTML search page to pull lyrics from.
//
// URL must contain "{query}", which is replaced with the escaped search terms.
type ScrapeConfig struct {
	URL         string   `toml:"url" yaml:"url"`
	Selector    string   `toml:"selector" yaml:"selector"`
	Suffixes    []string `toml:"suffixes" yaml:"suffixes"`
	HeadersPath string   `toml:"headers_path" yaml:"headers_path"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host            string        `toml:"host" yaml:"host"`
	Port            int           `toml:"port" yaml:"port"`
	RequestTimeout  time.Duration `toml:"request_timeout" yaml:"request_timeout"`
	ShutdownTimeout time.Duration `toml:"shutdown_timeout" yaml:"shutdown_timeout"`
	AllowedOrigins  []string      `toml:"allowed_origins" yaml:"allowed_origins"`
}

// Addr returns the listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// LogConfig controls the default log level.
type LogConfig struct {
	Level string `toml:"level" yaml:"level"`
}

// LoadConfig reads and parses a configuration file from the specified path.
//
// Files ending in .yaml or .yml are parsed as YAML, everything else as TOML. Values missing from the file keep the
// defaults of [DefaultConfig].
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, config)
	default:
		err = toml.Unmarshal(data, config)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse config: %w", ErrInvalidConfig, err)
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

// isPlaceholder reports values left over from the example config, such as "your_spotify_client_id".
func isPlaceholder(v string) bool {
	return strings.HasPrefix(strings.ToLower(v), "your_")
}

// Validate reports missing settings the relay server cannot run without. Credentials still holding the example
// config's placeholders count as missing.
func (c *Config) Validate() error {
	var missing []string
	sp := c.Credentials.Spotify
	for name, v := range map[string]string{
		"client_id":     sp.ClientID,
		"client_secret": sp.ClientSecret,
		"domain_uri":    sp.DomainURI,
		"token_url":     sp.TokenURL,
	} {
		if v = strings.TrimSpace(v); v == "" || isPlaceholder(v) {
			missing = append(missing, name)
		}
	}

	if len(missing) > 0 {
		slices.Sort(missing)
		return fmt.Errorf("%w: credentials.spotify %s", ErrMissingCredentials, strings.Join(missing, ", "))
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("%w: server.port %d", ErrInvalidConfig, c.Server.Port)
	}

	return nil
}
