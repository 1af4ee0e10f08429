package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/desertthunder/rhymx/internal/formatter"
	"github.com/desertthunder/rhymx/internal/rhyme"
	"github.com/desertthunder/rhymx/internal/shared"
	tu "github.com/desertthunder/rhymx/internal/testing"
)

const verse = "I walk down the street\nFeeling the heat"

// lookupFunc adapts a function to services.LyricsProvider.
type lookupFunc func(ctx context.Context, artist, title string) (string, error)

func (f lookupFunc) Lookup(ctx context.Context, artist, title string) (string, error) {
	return f(ctx, artist, title)
}

func (f lookupFunc) Name() string { return "func" }

func TestParseSongList(t *testing.T) {
	t.Run("reads artist and title pairs", func(t *testing.T) {
		input := "# favourites\nThe Band - The Weight\n\n  Bob Dylan - Tangled Up in Blue - Live  \n"

		songs, err := ParseSongList(strings.NewReader(input))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		want := []Song{
			{Artist: "The Band", Title: "The Weight"},
			{Artist: "Bob Dylan", Title: "Tangled Up in Blue - Live"},
		}
		if len(songs) != len(want) {
			t.Fatalf("expected %d songs, got %d", len(want), len(songs))
		}
		for i := range want {
			if songs[i] != want[i] {
				t.Errorf("song %d: expected %+v, got %+v", i, want[i], songs[i])
			}
		}
	})

	t.Run("rejects lines without a separator", func(t *testing.T) {
		_, err := ParseSongList(strings.NewReader("The Band - The Weight\nJust a title\n"))
		if !errors.Is(err, shared.ErrInvalidInput) {
			t.Fatalf("expected ErrInvalidInput, got %v", err)
		}
		if !strings.Contains(err.Error(), "line 2") {
			t.Errorf("expected line number in error, got %v", err)
		}
	})

	t.Run("rejects an empty artist", func(t *testing.T) {
		if _, err := ParseSongList(strings.NewReader(" - Untitled")); !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
	})
}

func TestEngineFetch(t *testing.T) {
	ctx := context.Background()

	t.Run("analyzes found lyrics", func(t *testing.T) {
		provider := &tu.MockLyricsProvider{Lyrics: map[string]string{"Artist|Song": verse}}
		engine := NewEngine(provider, nil, 0, nil)

		song, err := engine.Fetch(ctx, Song{Artist: "Artist", Title: "Song"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if song.Lyrics != verse {
			t.Errorf("expected lyrics to be passed through, got %q", song.Lyrics)
		}
		if len(song.Rhymes.Groups) != 1 {
			t.Fatalf("expected 1 group, got %d", len(song.Rhymes.Groups))
		}
		if got := strings.Join(song.Rhymes.Scheme, ""); got != "AA" {
			t.Errorf("expected scheme AA, got %q", got)
		}
	})

	t.Run("uses the placeholder when not found", func(t *testing.T) {
		engine := NewEngine(&tu.MockLyricsProvider{}, nil, 0, nil)

		song, err := engine.Fetch(ctx, Song{Artist: "Nobody", Title: "Nothing"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if song.Lyrics != rhyme.Placeholder {
			t.Errorf("expected placeholder, got %q", song.Lyrics)
		}
		if len(song.Rhymes.Groups) != 0 || len(song.Rhymes.Scheme) != 0 {
			t.Errorf("expected empty analysis, got %+v", song.Rhymes)
		}
	})

	t.Run("surfaces provider errors", func(t *testing.T) {
		engine := NewEngine(&tu.MockLyricsProvider{Err: shared.ErrAPIRequest}, nil, 0, nil)

		if _, err := engine.Fetch(ctx, Song{Artist: "a", Title: "b"}); !errors.Is(err, shared.ErrAPIRequest) {
			t.Errorf("expected ErrAPIRequest, got %v", err)
		}
	})

	t.Run("validates before calling the provider", func(t *testing.T) {
		provider := &tu.MockLyricsProvider{}
		engine := NewEngine(provider, nil, 0, nil)

		if _, err := engine.Fetch(ctx, Song{Title: "Song"}); !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected ErrMissingArgument, got %v", err)
		}
		if provider.Calls.Load() != 0 {
			t.Errorf("expected no lookups, got %d", provider.Calls.Load())
		}
	})

	t.Run("without a provider", func(t *testing.T) {
		engine := NewEngine(nil, nil, 0, nil)
		if _, err := engine.Fetch(ctx, Song{Artist: "a", Title: "b"}); !errors.Is(err, shared.ErrServiceUnavailable) {
			t.Errorf("expected ErrServiceUnavailable, got %v", err)
		}
	})
}

func TestEngineBatch(t *testing.T) {
	songs := []Song{
		{Artist: "Artist", Title: "Found"},
		{Artist: "Artist", Title: "Missing"},
		{Artist: "Artist", Title: "Broken"},
	}

	provider := lookupFunc(func(ctx context.Context, artist, title string) (string, error) {
		switch title {
		case "Found":
			return verse, nil
		case "Broken":
			return "", shared.ErrAPIRequest
		}
		return "", shared.ErrLyricsNotFound
	})

	t.Run("exports every song and writes a manifest", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "out")
		prog := make(chan ProgressUpdate, 16)
		engine := NewEngine(provider, nil, 0, nil)

		result, err := engine.Batch(context.Background(), prog, songs, BatchOpts{
			Format:     formatter.FormatJSON,
			OutputDir:  dir,
			NumWorkers: 2,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if result.Total != 3 || result.Succeeded != 1 || result.NotFound != 1 || result.Failed != 1 {
			t.Errorf("unexpected counts: %+v", result)
		}

		for i, res := range result.Results {
			if res.Song != songs[i] {
				t.Errorf("result %d: expected %v, got %v", i, songs[i], res.Song)
			}
		}

		found := result.Results[0]
		if found.File != "001-artist-found.json" || !found.Found || found.Groups != 1 || found.Scheme != "AA" {
			t.Errorf("unexpected found result: %+v", found)
		}
		if _, err := os.Stat(filepath.Join(dir, found.File)); err != nil {
			t.Errorf("expected export file: %v", err)
		}

		missing := result.Results[1]
		if missing.Found || missing.File == "" || missing.Err != nil {
			t.Errorf("expected a written placeholder export, got %+v", missing)
		}

		broken := result.Results[2]
		if !errors.Is(broken.Err, shared.ErrAPIRequest) || broken.File != "" || broken.Error == "" {
			t.Errorf("expected a failed result, got %+v", broken)
		}

		data, err := os.ReadFile(result.ManifestPath)
		if err != nil {
			t.Fatalf("failed to read manifest: %v", err)
		}
		var manifest BatchResult
		if err := json.Unmarshal(data, &manifest); err != nil {
			t.Fatalf("invalid manifest: %v", err)
		}
		if manifest.Total != 3 || manifest.Format != "json" || len(manifest.Results) != 3 {
			t.Errorf("unexpected manifest: %+v", manifest)
		}

		close(prog)
		var phases []Phase
		for u := range prog {
			phases = append(phases, u.Phase)
		}
		if len(phases) != 5 || phases[0] != FetchLyrics || phases[4] != WriteManifest {
			t.Errorf("unexpected progress phases: %v", phases)
		}
	})

	t.Run("scheme marks unlabelled lines", func(t *testing.T) {
		withGap := lookupFunc(func(ctx context.Context, artist, title string) (string, error) {
			return "I walk down the street\nMy cat\nFeeling the heat", nil
		})

		result, err := NewEngine(withGap, nil, 0, nil).Batch(context.Background(), nil, songs[:1], BatchOpts{OutputDir: t.TempDir()})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := result.Results[0].Scheme; got != "A-A" {
			t.Errorf("expected scheme A-A, got %q", got)
		}
	})

	t.Run("marks songs failed after cancellation", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		result, err := NewEngine(provider, nil, 0, nil).Batch(ctx, nil, songs, BatchOpts{OutputDir: t.TempDir()})
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
		if result.Failed != len(songs) {
			t.Errorf("expected every song to fail, got %+v", result)
		}
	})

	t.Run("requires songs", func(t *testing.T) {
		_, err := NewEngine(provider, nil, 0, nil).Batch(context.Background(), nil, nil, BatchOpts{OutputDir: t.TempDir()})
		if !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected ErrMissingArgument, got %v", err)
		}
	})

	t.Run("fails when the output directory cannot be created", func(t *testing.T) {
		file := filepath.Join(t.TempDir(), "file")
		tu.MustWriteFile(t, file, "x")

		_, err := NewEngine(provider, nil, 0, nil).Batch(context.Background(), nil, songs, BatchOpts{
			OutputDir: filepath.Join(file, "out"),
		})
		if err == nil {
			t.Error("expected error for unusable output directory")
		}
	})
}

func TestSlug(t *testing.T) {
	tt := []struct {
		in   string
		want string
	}{
		{"AC/DC - Back in Black", "ac-dc-back-in-black"},
		{"  Sigur Rós - Hoppípolla ", "sigur-rós-hoppípolla"},
		{"!!!", "song"},
	}

	for _, tc := range tt {
		if got := slug(tc.in); got != tc.want {
			t.Errorf("slug(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
