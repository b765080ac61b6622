// Package services defines the [TopService] interface for listening stats and implements it for the
// Spotify Web API.
//
// # Spotify Implementation
//
// [SpotifyService] issues bearer-authenticated GET requests to /me/top/tracks and /me/top/artists. The
// access token is loaded from a [CredentialLoader] on every call; there is no in-memory session.
//
// Requests pass through a [rate.Limiter] so scripted use stays under the Web API's rate limits.
//
// # Parameters
//
// User-facing range names map to API values with [ParseTimeRange]:
//   - short : short_term
//   - medium : medium_term
//   - long : long_term
//
// Limits outside 1..50 are rejected by [ValidateLimit] before any request is made.
//
// # Error Handling
//
//   - [shared.ErrNoCredentials] : no stored login
//   - [shared.ErrInvalidTimeRange] : unknown range name
//   - [shared.ErrInvalidArgument] : limit out of bounds
//   - [*RemoteAPIError] : non-2xx response, matches [shared.ErrRemoteAPI]
package services
