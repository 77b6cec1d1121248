package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/desertthunder/plsaver/internal/models"
)

// unknownPlaylist names files for playlists without a usable name.
const unknownPlaylist = "unknown_playlist"

// SanitizeName makes a playlist name safe to use as a file name on common filesystems.
//
// Reserved characters and whitespace each become "-".
func SanitizeName(name string) string {
	if name == "" {
		return unknownPlaylist
	}
	return strings.Map(func(r rune) rune {
		if strings.ContainsRune(`\/*?:"<>|`, r) || unicode.IsSpace(r) {
			return '-'
		}
		return r
	}, name)
}

// TracksFilename returns the export file name for a playlist.
func TracksFilename(name, id string) string {
	return fmt.Sprintf("%s_tracks_%s.csv", SanitizeName(name), id)
}

// TracksToCSV encodes rows under [models.TrackRowHeader].
func TracksToCSV(rows []models.TrackRow) ([]byte, error) {
	records := make([][]string, 0, len(rows))
	for _, row := range rows {
		records = append(records, row.Record())
	}
	return encode(models.TrackRowHeader, records)
}

// PlaylistIDsToCSV encodes playlists under [models.PlaylistIDHeader].
func PlaylistIDsToCSV(playlists []models.Playlist) ([]byte, error) {
	records := make([][]string, 0, len(playlists))
	for _, p := range playlists {
		records = append(records, p.IDRecord())
	}
	return encode(models.PlaylistIDHeader, records)
}

func encode(header []string, records [][]string) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write(header); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}
	if err := writer.WriteAll(records); err != nil {
		return nil, fmt.Errorf("failed to write CSV records: %w", err)
	}

	return buf.Bytes(), nil
}

// WriteTracksExport writes rows to dir/[TracksFilename], creating dir if needed, and returns the file path.
func WriteTracksExport(dir string, playlist models.Playlist, rows []models.TrackRow) (string, error) {
	data, err := TracksToCSV(rows)
	if err != nil {
		return "", fmt.Errorf("failed to generate CSV: %w", err)
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	path := filepath.Join(dir, TracksFilename(playlist.Name, playlist.ID))
	if err := WriteFileAtomic(path, data); err != nil {
		return "", err
	}
	return path, nil
}

// WritePlaylistIDs writes the name,id listing to path.
func WritePlaylistIDs(path string, playlists []models.Playlist) error {
	data, err := PlaylistIDsToCSV(playlists)
	if err != nil {
		return fmt.Errorf("failed to generate CSV: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	return WriteFileAtomic(path, data)
}

// WriteFileAtomic replaces path with data via a temporary file in the same directory,
// so readers never observe a partially written file.
func WriteFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to set permissions on %s: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
