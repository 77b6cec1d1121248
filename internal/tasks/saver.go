package tasks

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/plsaver/internal/formatter"
	"github.com/desertthunder/plsaver/internal/models"
	"github.com/desertthunder/plsaver/internal/services"
	"github.com/desertthunder/plsaver/internal/shared"
)

// SaverOpts configures a [Saver].
type SaverOpts struct {
	UserID       string      // whose playlists to list; empty means the authenticated user
	PlaylistsDir string      // destination of per-playlist exports
	IDsPath      string      // destination of the playlist id listing
	Logger       *log.Logger // defaults to [shared.NewLogger]
}

// ExportResult describes one written playlist export.
type ExportResult struct {
	Playlist models.Playlist
	Path     string
	Rows     int // emitted rows
	Skipped  int // items without a track
}

// SaveAllResult summarizes an export of every playlist.
type SaveAllResult struct {
	Exports []ExportResult
	Skipped []models.Playlist // playlists that no longer resolve
}

// Saver exports playlists from a [services.Catalog] to CSV files.
type Saver struct {
	catalog services.Catalog
	opts    SaverOpts
	logger  *log.Logger
}

// NewSaver creates a [Saver]. Unset paths fall back to the configured defaults relative to the working directory.
func NewSaver(catalog services.Catalog, opts SaverOpts) *Saver {
	defaults := shared.DefaultConfig().Export
	if opts.PlaylistsDir == "" {
		opts.PlaylistsDir = defaults.PlaylistsPath()
	}
	if opts.IDsPath == "" {
		opts.IDsPath = defaults.IDsPath()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	return &Saver{catalog: catalog, opts: opts, logger: opts.Logger}
}

// Playlists fetches every playlist of the configured user in API order.
func (s *Saver) Playlists(ctx context.Context) ([]models.Playlist, error) {
	first := func(ctx context.Context) (models.Page[models.Playlist], error) {
		return s.catalog.UserPlaylists(ctx, s.opts.UserID)
	}
	return Collect(Pages(ctx, first, s.catalog.NextPlaylists))
}

// Items fetches every item of a playlist in playlist order.
func (s *Saver) Items(ctx context.Context, playlistID string) ([]models.PlaylistItem, error) {
	first := func(ctx context.Context) (models.Page[models.PlaylistItem], error) {
		return s.catalog.PlaylistItems(ctx, playlistID)
	}
	return Collect(Pages(ctx, first, s.catalog.NextPlaylistItems))
}

// SavePlaylist exports one playlist by id.
//
// Nothing is written unless every page was fetched.
func (s *Saver) SavePlaylist(ctx context.Context, playlistID string) (*ExportResult, error) {
	if playlistID == "" {
		return nil, fmt.Errorf("%w: playlist id", shared.ErrMissingArgument)
	}

	playlist, err := s.catalog.Playlist(ctx, playlistID)
	if err != nil {
		return nil, err
	}
	return s.export(ctx, *playlist)
}

func (s *Saver) export(ctx context.Context, playlist models.Playlist) (*ExportResult, error) {
	items, err := s.Items(ctx, playlist.ID)
	if err != nil {
		return nil, err
	}

	rows := FlattenAll(items)
	if skipped := len(items) - len(rows); skipped > 0 {
		s.logger.Debug("skipped items without a track", "playlist", playlist.ID, "count", skipped)
	}

	path, err := formatter.WriteTracksExport(s.opts.PlaylistsDir, playlist, rows)
	if err != nil {
		return nil, err
	}

	s.logger.Info("exported playlist", "playlist", playlist.Name, "rows", len(rows), "path", path)
	return &ExportResult{
		Playlist: playlist,
		Path:     path,
		Rows:     len(rows),
		Skipped:  len(items) - len(rows),
	}, nil
}

// SaveAll exports every playlist of the configured user, reporting progress on progress (which may be nil).
//
// Playlists that no longer resolve are skipped; any other failure aborts the run.
func (s *Saver) SaveAll(ctx context.Context, progress chan<- ProgressUpdate) (*SaveAllResult, error) {
	sendProgress(ctx, progress, fetchPlaylistsUpdate())

	playlists, err := s.Playlists(ctx)
	if err != nil {
		return nil, err
	}
	sendProgress(ctx, progress, foundPlaylistsUpdate(len(playlists)))

	result := &SaveAllResult{Exports: make([]ExportResult, 0, len(playlists))}
	total := len(playlists)

	for i, pl := range playlists {
		sendProgress(ctx, progress, fetchTracksUpdate(i+1, total, pl))

		exported, err := s.export(ctx, pl)
		if errors.Is(err, shared.ErrNotFound) {
			s.logger.Warn("skipping playlist", "playlist", pl.ID, "error", err)
			result.Skipped = append(result.Skipped, pl)
			sendProgress(ctx, progress, exportSkippedUpdate(i+1, total, pl, err))
			continue
		}
		if err != nil {
			return result, fmt.Errorf("failed to export %q: %w", pl.Name, err)
		}

		result.Exports = append(result.Exports, *exported)
		sendProgress(ctx, progress, exportCompletedUpdate(i+1, total, exported))
	}

	return result, nil
}

// SaveIDs writes the name,id listing of every playlist and returns the listed playlists.
func (s *Saver) SaveIDs(ctx context.Context) ([]models.Playlist, error) {
	playlists, err := s.Playlists(ctx)
	if err != nil {
		return nil, err
	}

	if err := formatter.WritePlaylistIDs(s.opts.IDsPath, playlists); err != nil {
		return nil, err
	}

	s.logger.Info("wrote playlist ids", "count", len(playlists), "path", s.opts.IDsPath)
	return playlists, nil
}

// IDsPath returns where [Saver.SaveIDs] writes.
func (s *Saver) IDsPath() string {
	return s.opts.IDsPath
}

// PlaylistsDir returns where playlist exports are written.
func (s *Saver) PlaylistsDir() string {
	return s.opts.PlaylistsDir
}
