package main

import (
	"context"
	"strings"

	"github.com/desertthunder/rhymx/internal/shared"
	"github.com/urfave/cli/v3"
)

// ConfigInit writes the example configuration to the --config path.
func (r *Runner) ConfigInit(ctx context.Context, cmd *cli.Command) error {
	path := cmd.String("config")
	if err := shared.CreateConfigFile(path); err != nil {
		return err
	}

	r.logger.Info("config file created", "path", path)
	return r.writePlain("✓ Config written to %s\n", path)
}

// ConfigShow prints the effective configuration after the file, .env and environment are applied.
func (r *Runner) ConfigShow(ctx context.Context, cmd *cli.Command) error {
	if err := r.prepare(cmd); err != nil {
		return err
	}

	config := *r.config
	config.Credentials.Spotify.ClientSecret = mask(config.Credentials.Spotify.ClientSecret)

	if cmd.Bool("json") {
		return r.writeJSON(config, true)
	}

	sp := config.Credentials.Spotify
	r.writePlain("Server\n")
	r.writePlain("  Address: %s\n", config.Server.Addr())
	r.writePlain("  Request timeout: %s\n", config.Server.RequestTimeout)
	r.writePlain("  Allowed origins: %s\n", strings.Join(config.Server.AllowedOrigins, ", "))
	r.writePlain("Spotify\n")
	r.writePlain("  Client ID: %s\n", sp.ClientID)
	r.writePlain("  Client secret: %s\n", sp.ClientSecret)
	r.writePlain("  Redirect URI: %s\n", sp.RedirectURI())
	r.writePlain("Lyrics\n")
	r.writePlain("  Providers: %s\n", strings.Join(config.Lyrics.Providers, ", "))
	r.writePlain("  LRCLib: %s\n", config.Lyrics.LRCLib.URL)
	return r.writePlain("Log level: %s\n", config.Log.Level)
}

// mask keeps the last four characters of a secret.
func mask(secret string) string {
	if len(secret) <= 4 {
		return strings.Repeat("*", len(secret))
	}
	return strings.Repeat("*", len(secret)-4) + secret[len(secret)-4:]
}

