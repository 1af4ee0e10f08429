package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/desertthunder/rhymx/internal/formatter"
	"github.com/desertthunder/rhymx/internal/models"
	"github.com/desertthunder/rhymx/internal/rhyme"
	"github.com/desertthunder/rhymx/internal/shared"
	"github.com/desertthunder/rhymx/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Analyze detects rhymes in a file or stdin.
func (r *Runner) Analyze(ctx context.Context, cmd *cli.Command) error {
	if err := r.prepare(cmd); err != nil {
		return err
	}

	an, err := analyzer(cmd)
	if err != nil {
		return err
	}

	text, err := r.readLyrics(cmd.StringArg("file"))
	if err != nil {
		return err
	}

	return r.export(cmd, &models.SongExport{
		Title:  cmd.String("title"),
		Artist: cmd.String("artist"),
		Lyrics: text,
		Rhymes: an.Analyze(text),
	})
}

// Lyrics fetches lyrics through the configured providers and detects their rhymes.
//
// A song without lyrics is reported with the placeholder text, as the relay does.
func (r *Runner) Lyrics(ctx context.Context, cmd *cli.Command) error {
	if err := r.prepare(cmd); err != nil {
		return err
	}

	an, err := analyzer(cmd)
	if err != nil {
		return err
	}

	song, err := r.fetchSong(ctx, an, cmd.String("artist"), cmd.String("title"))
	if err != nil {
		return err
	}

	return r.export(cmd, song)
}

func (r *Runner) fetchSong(ctx context.Context, an *rhyme.Analyzer, artist, title string) (*models.SongExport, error) {
	engine, err := r.engine(an)
	if err != nil {
		return nil, err
	}
	return engine.Fetch(ctx, tasks.Song{Artist: artist, Title: title})
}

// readLyrics reads path, or the runner's input when path is empty or "-".
func (r *Runner) readLyrics(path string) (string, error) {
	if path == "" || path == "-" {
		data, err := io.ReadAll(r.input)
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("%w: %w", shared.ErrInvalidArgument, err)
	}
	return string(data), nil
}

func (r *Runner) export(cmd *cli.Command, song *models.SongExport) error {
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	r.logger.Debug("analyzed", "groups", len(song.Rhymes.Groups), "scheme", formatter.Scheme(song.Rhymes.Scheme))

	if out := cmd.String("output"); out != "" {
		if err := formatter.WriteFile(out, song, format, cmd.Bool("pretty")); err != nil {
			return err
		}
		r.logger.Infof("%s written to %v with %v groups", format, out, len(song.Rhymes.Groups))
		return nil
	}

	return formatter.Write(r.output, song, format, cmd.Bool("pretty"))
}
