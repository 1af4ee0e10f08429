// Spotify implementation of [TokenService]
//
// Token endpoint behavior based on https://developer.spotify.com/documentation/web-api/tutorials/code-flow
package services

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/desertthunder/rhymx/internal/shared"
	"golang.org/x/oauth2"
)

const (
	spotifyAuthURL  = "https://accounts.spotify.com/authorize"
	spotifyTokenURL = "https://accounts.spotify.com/api/token"
)

// SpotifyService implements [TokenService] for the Spotify accounts service.
//
// It holds no tokens: every call is a single exchange against the token endpoint.
type SpotifyService struct {
	config     *oauth2.Config
	httpClient *http.Client
}

// NewSpotifyService creates a new Spotify token service from the given configuration.
//
// The client id and secret are required. The redirect URI is the domain URI followed by the redirect path, and empty
// endpoints fall back to Spotify's. A nil client uses [http.DefaultClient].
func NewSpotifyService(cfg shared.SpotifyConfig, client *http.Client) (*SpotifyService, error) {
	if strings.TrimSpace(cfg.ClientID) == "" {
		return nil, fmt.Errorf("%w: missing client_id", shared.ErrMissingCredentials)
	}

	if strings.TrimSpace(cfg.ClientSecret) == "" {
		return nil, fmt.Errorf("%w: missing client_secret", shared.ErrMissingCredentials)
	}

	authURL, tokenURL := cfg.AuthURL, cfg.TokenURL
	if authURL == "" {
		authURL = spotifyAuthURL
	}
	if tokenURL == "" {
		tokenURL = spotifyTokenURL
	}

	if client == nil {
		client = http.DefaultClient
	}

	config := &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		RedirectURL:  cfg.RedirectURI(),
		Scopes:       cfg.Scopes,
		Endpoint: oauth2.Endpoint{
			AuthURL:   authURL,
			TokenURL:  tokenURL,
			AuthStyle: oauth2.AuthStyleInHeader,
		},
	}

	return &SpotifyService{config: config, httpClient: client}, nil
}

func (s *SpotifyService) Name() string {
	return "Spotify"
}

// AuthURL returns the OAuth2 authorization URL for user login.
func (s *SpotifyService) AuthURL(state string) string {
	return s.config.AuthCodeURL(state, oauth2.AccessTypeOffline)
}

// RedirectURL returns the redirect URI registered with Spotify.
func (s *SpotifyService) RedirectURL() string {
	return s.config.RedirectURL
}

// ExchangeCode trades an authorization code for access and refresh tokens.
func (s *SpotifyService) ExchangeCode(ctx context.Context, code string) (*TokenGrant, error) {
	if code == "" {
		return nil, fmt.Errorf("%w: %w: code", shared.ErrAuthFailed, shared.ErrMissingArgument)
	}

	token, err := s.config.Exchange(s.clientContext(ctx), code)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to exchange auth code: %w", shared.ErrAuthFailed, err)
	}

	return grantFromToken(token, ""), nil
}

// Refresh requests a new access token. Spotify may omit a new refresh token, in which case refreshToken is kept.
func (s *SpotifyService) Refresh(ctx context.Context, refreshToken string) (*TokenGrant, error) {
	if refreshToken == "" {
		return nil, fmt.Errorf("%w: %w", shared.ErrRefreshFailed, shared.ErrNoRefreshToken)
	}

	src := s.config.TokenSource(s.clientContext(ctx), &oauth2.Token{RefreshToken: refreshToken})
	token, err := src.Token()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", shared.ErrRefreshFailed, err)
	}

	return grantFromToken(token, refreshToken), nil
}

func (s *SpotifyService) clientContext(ctx context.Context) context.Context {
	return context.WithValue(ctx, oauth2.HTTPClient, s.httpClient)
}

func grantFromToken(token *oauth2.Token, fallbackRefresh string) *TokenGrant {
	grant := &TokenGrant{
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		ExpiresIn:    token.ExpiresIn,
	}

	if grant.RefreshToken == "" {
		grant.RefreshToken = fallbackRefresh
	}

	if grant.ExpiresIn == 0 && !token.Expiry.IsZero() {
		grant.ExpiresIn = max(int64(time.Until(token.Expiry).Round(time.Second)/time.Second), 0)
	}

	return grant
}
