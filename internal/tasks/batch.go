package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/desertthunder/rhymx/internal/formatter"
	"github.com/desertthunder/rhymx/internal/rhyme"
	"github.com/desertthunder/rhymx/internal/shared"
)

const (
	defaultWorkers = 4
	maxWorkers     = 10
	manifestName   = "manifest.json"
)

// BatchOpts contains configuration for batch runs.
type BatchOpts struct {
	Format     formatter.Format // Export format for each song (default: text)
	OutputDir  string           // Output directory (default: rhymx_batch_{epoch})
	NumWorkers int              // Concurrent workers (default: 4, at most 10)
	Pretty     bool             // Indent JSON exports
}

// SongResult is the outcome for one song of a batch.
type SongResult struct {
	Song   Song   `json:"song"`
	File   string `json:"file,omitempty"` // relative to the output directory
	Found  bool   `json:"found"`
	Groups int    `json:"groups"`
	Scheme string `json:"scheme,omitempty"`
	Error  string `json:"error,omitempty"`

	Err error `json:"-"`
}

// BatchResult summarizes a batch run. Results keep the order of the input songs.
type BatchResult struct {
	Total           int          `json:"total"`
	Succeeded       int          `json:"succeeded"`
	NotFound        int          `json:"not_found"`
	Failed          int          `json:"failed"`
	Format          string       `json:"format"`
	OutputDirectory string       `json:"-"`
	ManifestPath    string       `json:"-"`
	Results         []SongResult `json:"results"`
}

type batchJob struct {
	index int
	song  Song
}

type indexedResult struct {
	index int
	SongResult
}

// Batch fetches, analyzes and exports songs concurrently.
//
// Every song gets a [SongResult], failed ones included, and the run only errors when the output directory or the
// manifest cannot be written or ctx ends early. Songs not reached before ctx ends are recorded as failed.
func (e *Engine) Batch(ctx context.Context, prog chan<- ProgressUpdate, songs []Song, opts BatchOpts) (*BatchResult, error) {
	if e.lyrics == nil {
		return nil, fmt.Errorf("%w: no lyrics provider", shared.ErrServiceUnavailable)
	}
	if len(songs) == 0 {
		return nil, fmt.Errorf("%w: no songs to process", shared.ErrMissingArgument)
	}

	if opts.Format == "" {
		opts.Format = formatter.FormatText
	}
	if opts.OutputDir == "" {
		opts.OutputDir = fmt.Sprintf("rhymx_batch_%d", time.Now().Unix())
	}
	if opts.NumWorkers <= 0 {
		opts.NumWorkers = defaultWorkers
	}
	if opts.NumWorkers > maxWorkers {
		opts.NumWorkers = maxWorkers
	}
	opts.NumWorkers = min(opts.NumWorkers, len(songs))

	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	result := &BatchResult{
		Total:           len(songs),
		Format:          string(opts.Format),
		OutputDirectory: opts.OutputDir,
		Results:         make([]SongResult, len(songs)),
	}

	jobs := make(chan batchJob, len(songs))
	results := make(chan indexedResult, len(songs))

	for i, song := range songs {
		jobs <- batchJob{index: i, song: song}
	}
	close(jobs)

	e.sendProgress(prog, batchStartedUpdate(len(songs), opts.NumWorkers))

	var wg sync.WaitGroup
	for range opts.NumWorkers {
		wg.Add(1)
		go e.batchWorker(ctx, &wg, jobs, results, opts)
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	completed := 0
	for res := range results {
		completed++
		result.Results[res.index] = res.SongResult

		switch {
		case res.Err != nil:
			result.Failed++
			e.sendProgress(prog, songFailedUpdate(completed, len(songs), res.SongResult))
		case !res.Found:
			result.NotFound++
			e.sendProgress(prog, songCompletedUpdate(completed, len(songs), res.SongResult))
		default:
			result.Succeeded++
			e.sendProgress(prog, songCompletedUpdate(completed, len(songs), res.SongResult))
		}
	}

	manifestPath := filepath.Join(opts.OutputDir, manifestName)
	e.sendProgress(prog, manifestUpdate(manifestPath))
	if err := writeManifest(manifestPath, result); err != nil {
		return result, fmt.Errorf("batch completed but failed to write manifest: %w", err)
	}
	result.ManifestPath = manifestPath

	if err := ctx.Err(); err != nil {
		return result, fmt.Errorf("batch interrupted: %w", err)
	}
	return result, nil
}

// batchWorker drains jobs until the channel closes. Once ctx ends the remaining jobs are marked failed.
func (e *Engine) batchWorker(
	ctx context.Context,
	wg *sync.WaitGroup,
	jobs <-chan batchJob,
	results chan<- indexedResult,
	opts BatchOpts,
) {
	defer wg.Done()

	for job := range jobs {
		if err := ctx.Err(); err != nil {
			results <- indexedResult{job.index, failed(job.song, err)}
			continue
		}
		results <- indexedResult{job.index, e.exportSong(ctx, job, opts)}
	}
}

// exportSong fetches one song and writes it to the output directory.
func (e *Engine) exportSong(ctx context.Context, job batchJob, opts BatchOpts) SongResult {
	export, err := e.Fetch(ctx, job.song)
	if err != nil {
		return failed(job.song, err)
	}

	name := fileName(job.index, job.song, opts.Format)
	if err := formatter.WriteFile(filepath.Join(opts.OutputDir, name), export, opts.Format, opts.Pretty); err != nil {
		return failed(job.song, err)
	}

	return SongResult{
		Song:   job.song,
		File:   name,
		Found:  export.Lyrics != rhyme.Placeholder,
		Groups: len(export.Rhymes.Groups),
		Scheme: formatter.Scheme(export.Rhymes.Scheme),
	}
}

func failed(song Song, err error) SongResult {
	return SongResult{Song: song, Error: err.Error(), Err: err}
}

func writeManifest(path string, result *BatchResult) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// fileName numbers songs from 1 so duplicates in the list never share a file.
func fileName(index int, song Song, format formatter.Format) string {
	return fmt.Sprintf("%03d-%s.%s", index+1, slug(song.String()), format.Ext())
}

// slug lower-cases s and joins its runs of letters and digits with "-".
func slug(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if dash && b.Len() > 0 {
				b.WriteByte('-')
			}
			b.WriteRune(r)
			dash = false
			continue
		}
		dash = true
	}
	if b.Len() == 0 {
		return "song"
	}
	return b.String()
}
