// Package models defines the request and response bodies of the relay's HTTP API.
//
// Requests arrive as JSON or URL-encoded forms; both decode into the same types:
//   - [LoginRequest] : authorization code for POST /login
//   - [RefreshRequest] : refresh token for POST /refresh
//   - [LyricsRequest] : artist and title for POST /lyrics
//
// Every request type implements [Request]: [Request.Bind] copies form values and [Request.Validate] reports missing
// fields with [shared.ErrMissingArgument]. Empty strings count as missing.
//
// Responses are always JSON with camelCase keys, matching what existing clients of the relay expect.
package models
