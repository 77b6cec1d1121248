package models

import "strconv"

// Page is one page of a paged API resource.
//
// An empty Next cursor marks the final page.
type Page[T any] struct {
	Items []T
	Next  string
}

// HasNext reports whether another page can be fetched.
func (p Page[T]) HasNext() bool {
	return p.Next != ""
}

// Playlist identifies a playlist. Identity is the ID.
type Playlist struct {
	ID         string
	Name       string
	URI        string
	Owner      string
	TrackCount int
}

// Track is the subset of a catalog track needed for export.
type Track struct {
	ID         string
	Name       string
	Artists    []string
	Album      string
	DurationMS int
	Popularity int
}

// PlaylistItem wraps a track reference with playlist metadata.
//
// Track is nil when the track was removed from the catalog or the item is not a track.
type PlaylistItem struct {
	AddedAt string
	Track   *Track
}

// TrackRow is one row of a per-playlist export.
type TrackRow struct {
	Position   int
	TrackID    string
	TrackName  string
	Artists    string
	AlbumName  string
	AddedAt    string
	DurationMS int
	Popularity int
}

// TrackRowHeader is the column contract of a per-playlist export.
var TrackRowHeader = []string{
	"track_number",
	"track_id",
	"track_name",
	"artist(s)",
	"album_name",
	"added_at",
	"duration_ms",
	"popularity",
}

// Record returns the row's fields in [TrackRowHeader] order.
func (r TrackRow) Record() []string {
	return []string{
		strconv.Itoa(r.Position),
		r.TrackID,
		r.TrackName,
		r.Artists,
		r.AlbumName,
		r.AddedAt,
		strconv.Itoa(r.DurationMS),
		strconv.Itoa(r.Popularity),
	}
}

// PlaylistIDHeader is the column contract of the playlist id listing.
var PlaylistIDHeader = []string{"name", "id"}

// IDRecord returns the playlist's fields in [PlaylistIDHeader] order.
func (p Playlist) IDRecord() []string {
	return []string{p.Name, p.ID}
}
