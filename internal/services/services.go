// package services defines interface Catalog for reading playlists from a streaming service
package services

import (
	"context"

	"github.com/desertthunder/plsaver/internal/models"
)

// Catalog is the read-only playlist API the exporter depends on.
type Catalog interface {
	// UserPlaylists returns the first page of playlists owned or followed by userID.
	// An empty userID means the authenticated user.
	UserPlaylists(ctx context.Context, userID string) (models.Page[models.Playlist], error)

	// NextPlaylists follows a cursor returned by [Catalog.UserPlaylists] or a previous call.
	NextPlaylists(ctx context.Context, cursor string) (models.Page[models.Playlist], error)

	// Playlist retrieves a playlist's metadata by ID.
	Playlist(ctx context.Context, playlistID string) (*models.Playlist, error)

	// PlaylistItems returns the first page of a playlist's items.
	PlaylistItems(ctx context.Context, playlistID string) (models.Page[models.PlaylistItem], error)

	// NextPlaylistItems follows a cursor returned by [Catalog.PlaylistItems] or a previous call.
	NextPlaylistItems(ctx context.Context, cursor string) (models.Page[models.PlaylistItem], error)
}
