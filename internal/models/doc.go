// Package models defines the domain records that flow from the Spotify API to the exported CSV files.
//
// Records come in two layers:
//
// 1. API-facing records, mapped from the client library's responses:
//   - [Playlist] : Playlist identity and display metadata
//   - [PlaylistItem] : A playlist entry, wrapping an optional [Track] and the time it was added
//   - [Page] : One page of a paged resource with its next-page cursor
//
// 2. Export records:
//   - [TrackRow] : One flattened CSV row for the per-playlist export
//
// Nothing here is persisted; every value lives for a single command.
package models
