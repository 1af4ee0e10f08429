// Package services defines the external collaborators of the relay and implements them.
//
// # Token Service
//
// [TokenService] trades OAuth authorization codes and refresh tokens for access tokens. [SpotifyService] implements it
// with [oauth2.Config] against the Spotify accounts service. It is stateless: the configuration is built once at
// startup and every call is a single request to the token endpoint, so one instance serves all requests.
//
// When a refresh response carries no new refresh token the caller's token is returned in its place.
//
// # Lyrics Providers
//
// [LyricsProvider] looks up lyrics by artist and title:
//   - [LRCLibProvider] : JSON API at lrclib.net (or a self-hosted instance)
//   - [ScrapeProvider] : an HTML search page read with goquery
//   - [ChainProvider] : ordered fallback over other providers, deduplicating concurrent lookups with singleflight
//
// Nothing is cached between lookups.
//
// # Error Handling
//
// Services use sentinel errors from the shared package:
//   - [shared.ErrAuthFailed] : authorization code exchange failed
//   - [shared.ErrRefreshFailed] : refresh token exchange failed
//   - [shared.ErrLyricsNotFound] : no provider has lyrics for the song
//   - [shared.ErrAPIRequest] : an upstream request failed or returned an unexpected status
package services
