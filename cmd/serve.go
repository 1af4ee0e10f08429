package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/rhymx/internal/server"
	"github.com/desertthunder/rhymx/internal/shared"
	"github.com/urfave/cli/v3"
)

// Serve runs the relay until the process is interrupted.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	if err := r.prepare(cmd); err != nil {
		return err
	}

	if cmd.IsSet("port") {
		r.config.Server.Port = int(cmd.Int("port"))
	}

	if r.tokens == nil {
		if err := r.config.Validate(); err != nil {
			return err
		}
	}

	tokens, err := r.tokenService()
	if err != nil {
		return err
	}

	lyrics, err := r.lyricsProvider()
	if err != nil {
		return err
	}

	an, err := analyzer(cmd)
	if err != nil {
		return err
	}

	deps := server.Deps{
		Tokens:   tokens,
		Lyrics:   lyrics,
		Analyzer: an,
		Version:  r.version,
	}
	if !cmd.Bool("no-metrics") {
		deps.Metrics = server.NewMetrics()
	}

	srv, err := server.New(r.config.Server, deps, shared.WithLogger(r.logger, "component", "relay"))
	if err != nil {
		return fmt.Errorf("failed to build relay: %w", err)
	}

	r.logger.Info("starting relay",
		"addr", r.config.Server.Addr(),
		"tokens", tokens.Name(),
		"lyrics", lyrics.Name(),
		"scope", an.Scope(),
		"redirect_uri", r.config.Credentials.Spotify.RedirectURI(),
	)

	return srv.ListenAndServe(ctx)
}
