// Package tasks turns paged catalog reads into CSV exports.
//
// # Paging
//
// [Pages] adapts a first-page fetch and a cursor fetch into a lazy [iter.Seq2]. Pages are requested
// only as items are consumed, and the first error ends the sequence. [Collect] drains one into a slice.
//
// # Flattening
//
// [Flatten] converts one playlist item into a [models.TrackRow]. Items whose track is gone (removed
// from the catalog, or an episode) are skipped; [FlattenAll] numbers the remaining rows 1..n.
//
// # Saving
//
// [Saver] implements the three export operations on top of a [services.Catalog]:
//
//  1. [Saver.SavePlaylist] : one playlist to playlists/<name>_tracks_<id>.csv
//  2. [Saver.SaveAll] : every playlist of the user, skipping ids that no longer resolve
//  3. [Saver.SaveIDs] : the name,id listing of every playlist
//
// Rows are buffered until the last page arrives so a failed fetch never leaves a truncated file.
//
// # Progress Reporting
//
// [Saver.SaveAll] emits [ProgressUpdate] values on an optional channel for the CLI to render.
package tasks
