// Package services defines the [Catalog] interface the export core is written against and implements it for Spotify.
//
// # Catalog Interface
//
// [Catalog] is the minimal capability set the exporter needs: list a user's playlists (paged), fetch one playlist's
// metadata, list a playlist's items (paged) and follow a next-page cursor for either listing.
//
// # Spotify Implementation
//
// [SpotifySession] wraps a [spotify.Client] from github.com/zmb3/spotify/v2. The client's HTTP transport comes from
// [oauth2.Config.Client], so access tokens refresh automatically for the lifetime of the process.
//
// # Authorization
//
// [Authenticator] runs the authorization code flow: it binds a callback listener for the configured redirect URI,
// opens the consent page in the browser and blocks until the callback delivers a token or the timeout elapses.
//
// # Error Handling
//
// Services use typed errors from the shared package:
//   - [shared.ErrAuthentication] : the authorization handshake failed
//   - [shared.ErrNotFound] : a playlist id did not resolve (HTTP 404, or 400 for malformed ids)
//   - [shared.ErrTransientAPI] : any other API failure; never retried
package services
