// LRCLib implementation of [LyricsProvider]
//
// API reference: https://lrclib.net/docs
package services

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/desertthunder/rhymx/internal/shared"
)

const lrclibBaseURL = "https://lrclib.net"

var lrcTimestamp = regexp.MustCompile(`\[\d+:\d+(?:[.:]\d+)?\]\s?`)

// LRCLibTrack is the subset of an LRCLib track record the provider reads.
type LRCLibTrack struct {
	ID           int    `json:"id"`
	TrackName    string `json:"trackName"`
	ArtistName   string `json:"artistName"`
	Instrumental bool   `json:"instrumental"`
	PlainLyrics  string `json:"plainLyrics"`
	SyncedLyrics string `json:"syncedLyrics"`
}

// LRCLibProvider looks lyrics up by exact artist and title on an LRCLib server.
type LRCLibProvider struct {
	api *APIService
}

// NewLRCLibProvider creates a provider for the LRCLib API at baseURL, defaulting to the public instance.
func NewLRCLibProvider(baseURL string, client *http.Client, userAgent string) *LRCLibProvider {
	if baseURL == "" {
		baseURL = lrclibBaseURL
	}
	api := NewAPIService(strings.TrimSuffix(baseURL, "/"), client).WithUserAgent(userAgent)
	return &LRCLibProvider{api: api}
}

func (p *LRCLibProvider) Name() string {
	return "lrclib"
}

// Lookup fetches lyrics from /api/get. Plain lyrics are preferred; synced lyrics are returned without timestamps.
func (p *LRCLibProvider) Lookup(ctx context.Context, artist, title string) (string, error) {
	params := url.Values{}
	params.Set("artist_name", artist)
	params.Set("track_name", title)

	resp, err := p.api.Get(ctx, "/api/get", params)
	if err != nil {
		return "", err
	}

	if resp.StatusCode == http.StatusNotFound {
		return "", shared.ErrLyricsNotFound
	}

	if !resp.OK() {
		return "", fmt.Errorf("%w: lrclib returned status %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	var track LRCLibTrack
	if err := resp.Decode(&track); err != nil {
		return "", err
	}

	if lyrics := track.Lyrics(); lyrics != "" {
		return lyrics, nil
	}
	return "", shared.ErrLyricsNotFound
}

// Lyrics returns the plain lyrics, or the synced lyrics stripped of timestamps, or "" for instrumentals.
func (t LRCLibTrack) Lyrics() string {
	if t.Instrumental {
		return ""
	}

	if plain := strings.TrimSpace(t.PlainLyrics); plain != "" {
		return plain
	}
	return StripTimestamps(t.SyncedLyrics)
}

// StripTimestamps removes LRC "[mm:ss.xx]" tags from synced lyrics.
func StripTimestamps(synced string) string {
	lines := strings.Split(strings.ReplaceAll(synced, "\r\n", "\n"), "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSpace(lrcTimestamp.ReplaceAllString(l, ""))
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
