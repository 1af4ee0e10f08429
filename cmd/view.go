package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/desertthunder/rhymx/internal/models"
	"github.com/desertthunder/rhymx/internal/shared"
	"github.com/desertthunder/rhymx/internal/ui"
	"github.com/urfave/cli/v3"
)

// View launches the interactive viewer for a file, stdin, or a fetched song.
func (r *Runner) View(ctx context.Context, cmd *cli.Command) error {
	if err := r.prepare(cmd); err != nil {
		return err
	}

	an, err := analyzer(cmd)
	if err != nil {
		return err
	}

	artist, title := cmd.String("artist"), cmd.String("title")
	file := cmd.StringArg("file")
	fetch := artist != "" || title != ""
	if fetch && file != "" {
		return fmt.Errorf("%w: give a file or --artist and --title, not both", shared.ErrInvalidArgument)
	}

	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, f, err := shared.NewFileLogger(filepath.Join(os.TempDir(), "rhymx", "view.log"))
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	defer f.Close()
	fileLogger.SetLevel(r.logger.GetLevel())
	r.logger = fileLogger

	var load ui.Loader
	if fetch {
		if _, err := r.lyricsProvider(); err != nil {
			return err
		}
		load = func(ctx context.Context) (*models.SongExport, error) {
			return r.fetchSong(ctx, an, artist, title)
		}
	} else {
		text, err := r.readLyrics(file)
		if err != nil {
			return err
		}

		song := &models.SongExport{Lyrics: text, Rhymes: an.Analyze(text)}
		if file != "" && file != "-" {
			song.Title = filepath.Base(file)
		}
		load = ui.Static(song)
	}

	return ui.Run(ctx, load)
}
