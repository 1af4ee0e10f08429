// package services defines the collaborators the relay talks to: an OAuth [TokenService] and [LyricsProvider]s.
package services

import (
	"context"
)

// TokenService exchanges authorization codes and refresh tokens with an OAuth provider.
type TokenService interface {
	// ExchangeCode trades an authorization code for tokens.
	// Failures wrap [shared.ErrAuthFailed].
	ExchangeCode(ctx context.Context, code string) (*TokenGrant, error)

	// Refresh obtains a new access token for refreshToken.
	// Failures wrap [shared.ErrRefreshFailed].
	Refresh(ctx context.Context, refreshToken string) (*TokenGrant, error)

	// AuthURL returns the provider's authorization page for the given state.
	AuthURL(state string) string

	// Name returns the name of the service (e.g., "Spotify")
	Name() string
}

// TokenGrant is the result of a successful token exchange or refresh.
type TokenGrant struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    int64 // seconds, zero when unknown
}

// LyricsProvider looks up song lyrics.
type LyricsProvider interface {
	// Lookup returns the lyrics of title by artist.
	// A miss returns [shared.ErrLyricsNotFound]; any other error means the provider could not answer.
	Lookup(ctx context.Context, artist, title string) (string, error)

	// Name returns the provider identifier (e.g., "lrclib")
	Name() string
}
