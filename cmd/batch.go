package main

import (
	"context"
	"strings"
	"sync"

	"github.com/desertthunder/rhymx/internal/formatter"
	"github.com/desertthunder/rhymx/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Batch fetches and analyzes every song of a list, writing one file per song plus a manifest.
func (r *Runner) Batch(ctx context.Context, cmd *cli.Command) error {
	if err := r.prepare(cmd); err != nil {
		return err
	}

	an, err := analyzer(cmd)
	if err != nil {
		return err
	}

	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	list, err := r.readLyrics(cmd.StringArg("file"))
	if err != nil {
		return err
	}

	songs, err := tasks.ParseSongList(strings.NewReader(list))
	if err != nil {
		return err
	}

	engine, err := r.engine(an)
	if err != nil {
		return err
	}

	prog := make(chan tasks.ProgressUpdate, 10)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for update := range prog {
			r.logger.Info(update.Message, "phase", update.Phase)
		}
	}()

	result, err := engine.Batch(ctx, prog, songs, tasks.BatchOpts{
		Format:     format,
		OutputDir:  cmd.String("output-dir"),
		NumWorkers: int(cmd.Int("workers")),
		Pretty:     cmd.Bool("pretty"),
	})
	close(prog)
	wg.Wait()

	if err != nil {
		return err
	}

	return r.writePlainln(
		"Analyzed %d songs: %d found, %d not found, %d failed\nManifest: %s",
		result.Total, result.Succeeded, result.NotFound, result.Failed, result.ManifestPath,
	)
}
