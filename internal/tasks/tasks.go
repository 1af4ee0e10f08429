package tasks

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/rhymx/internal/models"
	"github.com/desertthunder/rhymx/internal/rhyme"
	"github.com/desertthunder/rhymx/internal/services"
	"github.com/desertthunder/rhymx/internal/shared"
)

// Song identifies a track to look up.
type Song struct {
	Artist string `json:"artist"`
	Title  string `json:"title"`
}

func (s Song) String() string {
	return s.Artist + " - " + s.Title
}

// ParseSongList reads one "Artist - Title" per line.
//
// Blank lines and lines starting with # are skipped. The first " - " separates artist from title, so titles may
// contain dashes.
func ParseSongList(r io.Reader) ([]Song, error) {
	var songs []Song
	scanner := bufio.NewScanner(r)
	n := 0
	for scanner.Scan() {
		n++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		artist, title, ok := strings.Cut(line, " - ")
		artist, title = strings.TrimSpace(artist), strings.TrimSpace(title)
		if !ok || artist == "" || title == "" {
			return nil, fmt.Errorf("%w: line %d: expected \"Artist - Title\", got %q", shared.ErrInvalidInput, n, line)
		}
		songs = append(songs, Song{Artist: artist, Title: title})
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read song list: %w", err)
	}
	return songs, nil
}

// Engine looks up lyrics and analyzes them.
type Engine struct {
	lyrics   services.LyricsProvider
	analyzer *rhyme.Analyzer
	timeout  time.Duration
	logger   *log.Logger
}

// NewEngine creates an Engine. A nil analyzer uses the defaults of [rhyme.NewAnalyzer], a nil logger discards output
// and a non-positive timeout leaves lookups bounded only by their context.
func NewEngine(lyrics services.LyricsProvider, analyzer *rhyme.Analyzer, timeout time.Duration, logger *log.Logger) *Engine {
	if analyzer == nil {
		analyzer = rhyme.NewAnalyzer()
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Engine{lyrics: lyrics, analyzer: analyzer, timeout: timeout, logger: logger}
}

// Fetch looks up song and detects its rhymes.
//
// A song the provider cannot find is returned with [rhyme.Placeholder] as its lyrics.
func (e *Engine) Fetch(ctx context.Context, song Song) (*models.SongExport, error) {
	if e.lyrics == nil {
		return nil, fmt.Errorf("%w: no lyrics provider", shared.ErrServiceUnavailable)
	}

	req := models.LyricsRequest{Title: song.Title, Artist: song.Artist}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	e.logger.Info("fetching lyrics", "artist", song.Artist, "title", song.Title, "provider", e.lyrics.Name())

	text, err := e.lyrics.Lookup(ctx, song.Artist, song.Title)
	switch {
	case errors.Is(err, shared.ErrLyricsNotFound):
		e.logger.Warn("lyrics not found", "artist", song.Artist, "title", song.Title)
		text = rhyme.Placeholder
	case err != nil:
		return nil, fmt.Errorf("lyrics lookup failed: %w", err)
	}

	return &models.SongExport{
		Title:  song.Title,
		Artist: song.Artist,
		Lyrics: text,
		Rhymes: e.analyzer.Analyze(text),
	}, nil
}

// sendProgress sends a progress update through the channel without blocking.
func (e *Engine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}
