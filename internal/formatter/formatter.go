// package formatter encodes playlist data for files (CSV) and terminals (plain text)
package formatter

import (
	"bytes"
	"fmt"
	"io"

	"github.com/desertthunder/plsaver/internal/models"
)

// PlaylistListing renders one line per playlist: a right-aligned 1-based position, the URI and the name.
func PlaylistListing(playlists []models.Playlist) []byte {
	var buf bytes.Buffer
	for i, p := range playlists {
		fmt.Fprintf(&buf, "%4d %s %s\n", i+1, p.URI, p.Name)
	}
	return buf.Bytes()
}

// WritePlaylistListing writes [PlaylistListing] to w.
func WritePlaylistListing(w io.Writer, playlists []models.Playlist) error {
	if _, err := w.Write(PlaylistListing(playlists)); err != nil {
		return fmt.Errorf("failed to write playlist listing: %w", err)
	}
	return nil
}
