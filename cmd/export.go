package main

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/desertthunder/plsaver/internal/formatter"
	"github.com/desertthunder/plsaver/internal/shared"
	"github.com/desertthunder/plsaver/internal/tasks"
	"github.com/desertthunder/plsaver/internal/ui"
	"github.com/urfave/cli/v3"
)

// Before loads configuration and applies the global flags.
func (r *Runner) Before(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	if cmd.Bool("debug") {
		shared.EnableDebug(r.logger)
	}
	if cmd.Bool("no-color") {
		r.painter = ui.NewPainter(false)
	}

	if r.config == nil {
		config, err := shared.LoadConfig(shared.LoadOpts{
			ConfigPath: cmd.String("config"),
			EnvFile:    cmd.String("env-file"),
			Lookup:     r.lookup,
		})
		if err != nil {
			return ctx, err
		}
		r.config = config
	}

	if dir := cmd.String("output-dir"); dir != "" {
		r.config.Export.OutputDir = dir
	}

	r.logger.Debug("configuration loaded", "output_dir", r.config.Export.OutputDir, "user_id", r.config.Credentials.Spotify.UserID)
	return ctx, nil
}

// Export saves one playlist by id.
func (r *Runner) Export(ctx context.Context, cmd *cli.Command) error {
	saver, err := r.session(ctx)
	if err != nil {
		return err
	}
	return r.savePlaylist(ctx, saver, cmd.String("id"))
}

// ExportAll saves every playlist of the configured user.
func (r *Runner) ExportAll(ctx context.Context, cmd *cli.Command) error {
	saver, err := r.session(ctx)
	if err != nil {
		return err
	}
	return r.saveAll(ctx, saver)
}

// IDs writes the playlist id listing.
func (r *Runner) IDs(ctx context.Context, cmd *cli.Command) error {
	saver, err := r.session(ctx)
	if err != nil {
		return err
	}
	return r.saveIDs(ctx, saver)
}

// List prints every playlist as an indexed URI and name.
func (r *Runner) List(ctx context.Context, cmd *cli.Command) error {
	saver, err := r.session(ctx)
	if err != nil {
		return err
	}

	playlists, err := saver.Playlists(ctx)
	if err != nil {
		return err
	}
	return formatter.WritePlaylistListing(r.output, playlists)
}

// Init writes config.toml (or the --config path) from the embedded template.
func (r *Runner) Init(ctx context.Context, cmd *cli.Command) error {
	path := cmd.String("config")
	if err := shared.CreateConfigFile(path); err != nil {
		return err
	}

	r.logger.Info("config file created", "path", path)
	r.writePlain("✓ Config written to %s\n", path)
	r.writePlainln("Next steps:")
	r.writePlain("1. Fill in [credentials.spotify] or set SPOTIFY_CLIENT_ID, SPOTIFY_CLIENT_SECRET and SPOTIFY_REDIRECT_URI\n")
	r.writePlain("2. Add the redirect URI to your app in the Spotify developer dashboard\n")
	return nil
}

// errUnknownPlaylist marks a not-found failure that came from looking up a user-supplied id.
var errUnknownPlaylist = errors.New("unknown playlist id")

func (r *Runner) savePlaylist(ctx context.Context, saver *tasks.Saver, id string) error {
	result, err := saver.SavePlaylist(ctx, id)
	if errors.Is(err, shared.ErrNotFound) {
		return fmt.Errorf("%w: %w", errUnknownPlaylist, err)
	}
	if err != nil {
		return err
	}
	return r.writePlain("%s saved to:\n\t%s\n", r.painter.Highlight(result.Playlist.Name), result.Path)
}

func (r *Runner) saveAll(ctx context.Context, saver *tasks.Saver) error {
	progress := make(chan tasks.ProgressUpdate, 10)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for update := range progress {
			msg := update.Message
			if update.Phase == tasks.SkipPlaylist {
				msg = r.painter.Failure(msg)
			}
			r.writePlain("%s\n", msg)
		}
	}()

	result, err := saver.SaveAll(ctx, progress)
	close(progress)
	wg.Wait()

	if err != nil {
		return err
	}

	r.writePlain("\n%s\n", r.painter.Success("Done!"))
	r.writePlain("All playlist track data saved in %s directory\n", saver.PlaylistsDir())
	if len(result.Skipped) > 0 {
		r.writePlain("%d playlist(s) could not be found and were skipped\n", len(result.Skipped))
	}
	return nil
}

func (r *Runner) saveIDs(ctx context.Context, saver *tasks.Saver) error {
	if _, err := saver.SaveIDs(ctx); err != nil {
		return err
	}
	return r.writePlain("Playlist names and ids are in %s.\n", saver.IDsPath())
}

// describe renders err for the terminal, with remediation for startup failures.
// Only a bad id typed by the user gets the friendly not-found line.
func (r *Runner) describe(err error) string {
	if errors.Is(err, errUnknownPlaylist) {
		return r.painter.Failure("Unable to find playlist with that id :(") + "\n"
	}

	text := r.painter.Failure(fmt.Sprintf("[ERROR] %v", err)) + "\n"
	if hint := shared.Remediation(err); hint != "" {
		text += hint
	}
	return text
}
