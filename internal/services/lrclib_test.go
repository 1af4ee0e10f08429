package services_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/desertthunder/rhymx/internal/services"
	"github.com/desertthunder/rhymx/internal/shared"
)

func lrclibServer(t *testing.T, tracks map[string]services.LRCLibTrack) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/get" {
			t.Errorf("expected path /api/get, got %s", r.URL.Path)
		}

		q := r.URL.Query()
		key := q.Get("artist_name") + "|" + q.Get("track_name")
		if key == "broken|server" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}

		track, ok := tracks[key]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(map[string]any{"code": 404, "name": "TrackNotFound"})
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(track)
	}))
}

func TestLRCLibProvider(t *testing.T) {
	server := lrclibServer(t, map[string]services.LRCLibTrack{
		"Artist|Plain": {
			PlainLyrics:  "I walked the street\nAnd felt the heat",
			SyncedLyrics: "[00:01.00] ignored",
		},
		"Artist|Synced": {
			SyncedLyrics: "[00:12.34] I walked the street\n[00:15.10]And felt the heat\n",
		},
		"Artist|Instrumental": {Instrumental: true},
		"Artist|Empty":        {},
	})
	defer server.Close()

	p := services.NewLRCLibProvider(server.URL+"/", nil, "rhymx-test")
	if p.Name() != "lrclib" {
		t.Errorf("expected name lrclib, got %s", p.Name())
	}

	t.Run("Plain Lyrics Preferred", func(t *testing.T) {
		got, err := p.Lookup(context.Background(), "Artist", "Plain")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if got != "I walked the street\nAnd felt the heat" {
			t.Errorf("unexpected lyrics %q", got)
		}
	})

	t.Run("Synced Lyrics Without Timestamps", func(t *testing.T) {
		got, err := p.Lookup(context.Background(), "Artist", "Synced")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if got != "I walked the street\nAnd felt the heat" {
			t.Errorf("unexpected lyrics %q", got)
		}
	})

	t.Run("Not Found", func(t *testing.T) {
		for _, title := range []string{"Missing", "Instrumental", "Empty"} {
			if _, err := p.Lookup(context.Background(), "Artist", title); !errors.Is(err, shared.ErrLyricsNotFound) {
				t.Errorf("%s: expected ErrLyricsNotFound, got %v", title, err)
			}
		}
	})

	t.Run("Server Error", func(t *testing.T) {
		_, err := p.Lookup(context.Background(), "broken", "server")
		if !errors.Is(err, shared.ErrAPIRequest) {
			t.Errorf("expected ErrAPIRequest, got %v", err)
		}
		if errors.Is(err, shared.ErrLyricsNotFound) {
			t.Error("server errors must not look like a miss")
		}
	})
}

func TestStripTimestamps(t *testing.T) {
	tt := []struct {
		in   string
		want string
	}{
		{"[00:12.34] hello", "hello"},
		{"[01:02.345]hello\r\n[01:03]world", "hello\nworld"},
		{"no tags here", "no tags here"},
		{"[00:00.00]\n[00:01.00] la", "la"},
	}

	for _, tc := range tt {
		if got := services.StripTimestamps(tc.in); got != tc.want {
			t.Errorf("StripTimestamps(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
