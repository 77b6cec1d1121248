package tasks

import (
	"strings"

	"github.com/desertthunder/plsaver/internal/models"
)

// artistSeparator joins multiple artist names within one CSV field.
const artistSeparator = ", "

// Flatten converts a playlist item into an export row at position.
//
// It reports false for items without a track, which are skipped rather than exported empty.
func Flatten(item models.PlaylistItem, position int) (models.TrackRow, bool) {
	t := item.Track
	if t == nil {
		return models.TrackRow{}, false
	}

	return models.TrackRow{
		Position:   position,
		TrackID:    t.ID,
		TrackName:  t.Name,
		Artists:    strings.Join(t.Artists, artistSeparator),
		AlbumName:  t.Album,
		AddedAt:    item.AddedAt,
		DurationMS: t.DurationMS,
		Popularity: t.Popularity,
	}, true
}

// FlattenAll numbers the emitted rows 1..n in item order; skipped items leave no gap.
func FlattenAll(items []models.PlaylistItem) []models.TrackRow {
	rows := make([]models.TrackRow, 0, len(items))
	for _, item := range items {
		if row, ok := Flatten(item, len(rows)+1); ok {
			rows = append(rows, row)
		}
	}
	return rows
}
