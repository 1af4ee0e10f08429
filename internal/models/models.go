// package models defines the data model for the rhymx relay
package models

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/desertthunder/rhymx/internal/rhyme"
	"github.com/desertthunder/rhymx/internal/shared"
)

// Request is a decoded request body.
type Request interface {
	Bind(values url.Values) // Bind fills the request from form values
	Validate() error        // Validate reports missing required fields
}

// LoginRequest carries the authorization code returned to the client by the OAuth redirect.
type LoginRequest struct {
	Code string `json:"code"`
}

func (r *LoginRequest) Bind(v url.Values) {
	r.Code = v.Get("code")
}

func (r *LoginRequest) Validate() error {
	return require("code", r.Code)
}

// LoginResponse is the token set returned for a successful code exchange.
type LoginResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    int64  `json:"expiresIn"`
}

// RefreshRequest carries a refresh token.
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

func (r *RefreshRequest) Bind(v url.Values) {
	r.RefreshToken = v.Get("refreshToken")
}

// Validate accepts any refresh token, including none: an absent token is the token service's to reject, which
// answers as a failed refresh rather than a missing parameter.
func (r *RefreshRequest) Validate() error {
	return nil
}

// RefreshResponse is the token set returned for a successful refresh. ExpiresIn is omitted when unknown.
type RefreshResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    int64  `json:"expiresIn,omitempty"`
}

// LyricsRequest names the song to look up.
type LyricsRequest struct {
	Title  string `json:"title"`
	Artist string `json:"artist"`
}

func (r *LyricsRequest) Bind(v url.Values) {
	r.Title = v.Get("title")
	r.Artist = v.Get("artist")
}

func (r *LyricsRequest) Validate() error {
	if err := require("title", r.Title); err != nil {
		return err
	}
	return require("artist", r.Artist)
}

// LyricsResponse holds the lyrics text, or the not-found placeholder, and its rhyme analysis.
type LyricsResponse struct {
	Lyrics string        `json:"lyrics"`
	Rhymes *rhyme.Result `json:"rhymes"`
}

// SongExport is an analyzed song as written by the exporters. Title and Artist are empty for local files.
type SongExport struct {
	Title  string        `json:"title,omitempty"`
	Artist string        `json:"artist,omitempty"`
	Lyrics string        `json:"lyrics"`
	Rhymes *rhyme.Result `json:"rhymes"`
}

// Heading is "Artist - Title", whichever parts are known.
func (s *SongExport) Heading() string {
	switch {
	case s.Artist != "" && s.Title != "":
		return s.Artist + " - " + s.Title
	case s.Title != "":
		return s.Title
	default:
		return s.Artist
	}
}

// HealthResponse is the body of GET /healthz.
type HealthResponse struct {
	Status  string            `json:"status"`
	Version string            `json:"version,omitempty"`
	Uptime  string            `json:"uptime"`
	Checks  map[string]string `json:"checks,omitempty"`
}

func require(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%w: %s", shared.ErrMissingArgument, field)
	}
	return nil
}
