package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/plsaver/internal/models"
	"github.com/desertthunder/plsaver/internal/services"
	"github.com/desertthunder/plsaver/internal/shared"
	tu "github.com/desertthunder/plsaver/internal/testing"
)

var validEnv = map[string]string{
	"SPOTIFY_CLIENT_ID":     "client-id",
	"SPOTIFY_CLIENT_SECRET": "client-secret",
	"SPOTIFY_REDIRECT_URI":  "http://127.0.0.1:8888/callback",
}

func envLookup(values map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := values[key]
		return v, ok
	}
}

// harness runs the CLI against a mock catalog inside a temp directory.
type harness struct {
	t        *testing.T
	dir      string
	env      map[string]string
	catalog  *tu.MockCatalog
	connErr  error
	connects int
	input    string
	output   bytes.Buffer
	errOut   bytes.Buffer
}

func newHarness(t *testing.T, catalog *tu.MockCatalog) *harness {
	return &harness{t: t, dir: t.TempDir(), env: validEnv, catalog: catalog}
}

func (h *harness) connect(ctx context.Context, config *shared.Config, logger *log.Logger, output io.Writer) (services.Catalog, error) {
	h.connects++
	if h.connErr != nil {
		return nil, h.connErr
	}
	return h.catalog, nil
}

func (h *harness) run(args ...string) int {
	h.t.Helper()
	base := []string{
		"plsaver",
		"--config", filepath.Join(h.dir, "config.toml"),
		"--env-file", filepath.Join(h.dir, ".env"),
		"--output-dir", h.dir,
	}
	return run(context.Background(), append(base, args...), RunnerOpts{
		Connect: h.connect,
		Logger:  shared.NewLogger(io.Discard),
		Input:   strings.NewReader(h.input),
		Output:  &h.output,
		Lookup:  envLookup(h.env),
	}, &h.errOut)
}

func (h *harness) path(parts ...string) string {
	return filepath.Join(append([]string{h.dir}, parts...)...)
}

func sampleCatalog() *tu.MockCatalog {
	catalog := tu.NewMockCatalog(50,
		models.Playlist{ID: "abc123", Name: "My Mix!", URI: "spotify:playlist:abc123"},
		models.Playlist{ID: "p2", Name: "Road Trip", URI: "spotify:playlist:p2"},
	)
	catalog.SetItems("abc123", 100, tu.TrackItem("t1", "Song", "Album X", "2024-01-01", "Artist A", "Artist B"))
	catalog.SetItems("p2", 100)
	return catalog
}

func TestRunner(t *testing.T) {
	t.Run("NewRunner", func(t *testing.T) {
		t.Run("with nil options uses defaults", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})

			if runner.logger == nil {
				t.Error("expected default logger to be set")
			}
			if runner.output != os.Stdout {
				t.Error("expected output to default to os.Stdout")
			}
			if runner.connect == nil {
				t.Error("expected default connector to be set")
			}
			if runner.config != nil {
				t.Error("expected config to be loaded lazily")
			}
		})

		t.Run("with buffer output disables color", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &bytes.Buffer{}})

			if runner.painter.Enabled() {
				t.Error("expected color to be disabled for a buffer")
			}
		})
	})

	t.Run("missing redirect uri fails before connecting", func(t *testing.T) {
		h := newHarness(t, sampleCatalog())
		h.env = map[string]string{"SPOTIFY_CLIENT_ID": "client-id", "SPOTIFY_CLIENT_SECRET": "client-secret"}

		if code := h.run("ids"); code != 1 {
			t.Errorf("expected exit code 1, got %d", code)
		}
		if h.connects != 0 {
			t.Errorf("expected no connection attempt, got %d", h.connects)
		}
		if !strings.Contains(h.errOut.String(), "missing SPOTIFY_REDIRECT_URI") {
			t.Errorf("expected missing redirect uri report, got %q", h.errOut.String())
		}
	})

	t.Run("missing credentials fail before connecting", func(t *testing.T) {
		for _, cmd := range [][]string{{}, {"ids"}, {"export", "--id", "abc123"}, {"export-all"}, {"list"}} {
			t.Run(strings.Join(append([]string{"menu"}, cmd...), " "), func(t *testing.T) {
				h := newHarness(t, sampleCatalog())
				h.env = map[string]string{"SPOTIFY_CLIENT_ID": "client-id"}

				if code := h.run(cmd...); code != 1 {
					t.Errorf("expected exit code 1, got %d", code)
				}
				if h.connects != 0 {
					t.Errorf("expected no connection attempt, got %d", h.connects)
				}
				if !strings.Contains(h.errOut.String(), "SPOTIFY_CLIENT_SECRET") {
					t.Errorf("expected remediation text, got %q", h.errOut.String())
				}
				tu.AssertFileNotExists(t, h.path("playlist_ids.csv"))
			})
		}
	})

	t.Run("credentials from dotenv file", func(t *testing.T) {
		h := newHarness(t, sampleCatalog())
		h.env = map[string]string{}
		dotenv := "SPOTIPY_CLIENT_ID=legacy-id\nSPOTIPY_CLIENT_SECRET=legacy-secret\nSPOTIPY_REDIRECT_URI=http://127.0.0.1:8888/callback\n"
		if err := os.WriteFile(h.path(".env"), []byte(dotenv), 0600); err != nil {
			t.Fatal(err)
		}

		if code := h.run("ids"); code != 0 {
			t.Fatalf("expected exit code 0, got %d: %s", code, h.errOut.String())
		}
		if h.connects != 1 {
			t.Errorf("expected one connection, got %d", h.connects)
		}
	})

	t.Run("authentication failure", func(t *testing.T) {
		h := newHarness(t, sampleCatalog())
		h.connErr = fmt.Errorf("%w: invalid_client", shared.ErrAuthentication)

		if code := h.run(); code != 1 {
			t.Errorf("expected exit code 1, got %d", code)
		}
		if !strings.Contains(h.errOut.String(), "ngrok") {
			t.Errorf("expected tunnel hint, got %q", h.errOut.String())
		}
		if strings.Contains(h.output.String(), "Choose one of the following") {
			t.Error("menu should not be shown after an authentication failure")
		}
	})

	t.Run("malformed config file", func(t *testing.T) {
		h := newHarness(t, sampleCatalog())
		if err := os.WriteFile(h.path("config.toml"), []byte("[credentials\n"), 0600); err != nil {
			t.Fatal(err)
		}

		if code := h.run("ids"); code != 1 {
			t.Errorf("expected exit code 1, got %d", code)
		}
		if h.connects != 0 {
			t.Errorf("expected no connection attempt, got %d", h.connects)
		}
	})
}

func TestCommands(t *testing.T) {
	t.Run("export", func(t *testing.T) {
		h := newHarness(t, sampleCatalog())

		if code := h.run("export", "--id", "abc123"); code != 0 {
			t.Fatalf("expected exit code 0, got %d: %s", code, h.errOut.String())
		}

		path := h.path("playlists", "My-Mix!_tracks_abc123.csv")
		want := "track_number,track_id,track_name,artist(s),album_name,added_at,duration_ms,popularity\n" +
			"1,t1,Song,\"Artist A, Artist B\",Album X,2024-01-01,200000,50\n"
		if got := tu.MustReadFile(t, path); got != want {
			t.Errorf("expected\n%s\ngot\n%s", want, got)
		}
		if !strings.Contains(h.output.String(), "My Mix! saved to:\n\t"+path) {
			t.Errorf("unexpected output %q", h.output.String())
		}
	})

	t.Run("export unknown id", func(t *testing.T) {
		h := newHarness(t, sampleCatalog())

		if code := h.run("export", "--id", "nope"); code != 1 {
			t.Errorf("expected exit code 1, got %d", code)
		}
		if !strings.Contains(h.errOut.String(), "Unable to find playlist with that id") {
			t.Errorf("unexpected error output %q", h.errOut.String())
		}
		tu.AssertFileNotExists(t, h.path("playlists"))
	})

	t.Run("export-all", func(t *testing.T) {
		h := newHarness(t, sampleCatalog())

		if code := h.run("export-all"); code != 0 {
			t.Fatalf("expected exit code 0, got %d: %s", code, h.errOut.String())
		}
		tu.AssertFileExists(t, h.path("playlists", "My-Mix!_tracks_abc123.csv"))
		tu.AssertFileExists(t, h.path("playlists", "Road-Trip_tracks_p2.csv"))

		out := h.output.String()
		for _, want := range []string{"[1/2] Exporting: My Mix!...", "[2/2]", "Done!", "All playlist track data saved in"} {
			if !strings.Contains(out, want) {
				t.Errorf("expected %q in output %q", want, out)
			}
		}
	})

	t.Run("ids", func(t *testing.T) {
		h := newHarness(t, sampleCatalog())

		if code := h.run("ids"); code != 0 {
			t.Fatalf("expected exit code 0, got %d: %s", code, h.errOut.String())
		}
		if got := tu.MustReadFile(t, h.path("playlist_ids.csv")); got != "name,id\nMy Mix!,abc123\nRoad Trip,p2\n" {
			t.Errorf("unexpected listing %q", got)
		}
	})

	t.Run("ids for user without playlists", func(t *testing.T) {
		h := newHarness(t, tu.NewMockCatalog(50))
		h.env = map[string]string{"USER_ID": "someone"}
		for k, v := range validEnv {
			h.env[k] = v
		}

		if code := h.run("ids"); code != 0 {
			t.Fatalf("expected exit code 0, got %d: %s", code, h.errOut.String())
		}
		if got := tu.MustReadFile(t, h.path("playlist_ids.csv")); got != "name,id\n" {
			t.Errorf("expected header only, got %q", got)
		}
		if h.catalog.LastUserID() != "someone" {
			t.Errorf("expected playlists of 'someone', got %q", h.catalog.LastUserID())
		}
	})

	t.Run("ids for unknown user reports the api error", func(t *testing.T) {
		catalog := sampleCatalog()
		catalog.ListErr = fmt.Errorf("%w: playlists for user ghost: No such user", shared.ErrNotFound)
		h := newHarness(t, catalog)

		if code := h.run("ids"); code != 1 {
			t.Errorf("expected exit code 1, got %d", code)
		}
		out := h.errOut.String()
		if !strings.Contains(out, "[ERROR]") || !strings.Contains(out, "ghost") {
			t.Errorf("expected wrapped api error, got %q", out)
		}
		if strings.Contains(out, "Unable to find playlist with that id") {
			t.Errorf("listing failure must not blame a playlist id: %q", out)
		}
		tu.AssertFileNotExists(t, h.path("playlist_ids.csv"))
	})

	t.Run("list", func(t *testing.T) {
		h := newHarness(t, sampleCatalog())

		if code := h.run("list"); code != 0 {
			t.Fatalf("expected exit code 0, got %d: %s", code, h.errOut.String())
		}
		want := "   1 spotify:playlist:abc123 My Mix!\n   2 spotify:playlist:p2 Road Trip\n"
		if h.output.String() != want {
			t.Errorf("expected %q, got %q", want, h.output.String())
		}
	})

	t.Run("list numbering continues across pages", func(t *testing.T) {
		h := newHarness(t, tu.NewMockCatalog(1,
			models.Playlist{ID: "p1", Name: "First", URI: "spotify:playlist:p1"},
			models.Playlist{ID: "p2", Name: "Second", URI: "spotify:playlist:p2"},
			models.Playlist{ID: "p3", Name: "Third", URI: "spotify:playlist:p3"},
		))

		if code := h.run("list"); code != 0 {
			t.Fatalf("expected exit code 0, got %d: %s", code, h.errOut.String())
		}
		want := "   1 spotify:playlist:p1 First\n   2 spotify:playlist:p2 Second\n   3 spotify:playlist:p3 Third\n"
		if h.output.String() != want {
			t.Errorf("expected %q, got %q", want, h.output.String())
		}
	})

	t.Run("init", func(t *testing.T) {
		h := newHarness(t, sampleCatalog())

		if code := h.run("init"); code != 0 {
			t.Fatalf("expected exit code 0, got %d: %s", code, h.errOut.String())
		}
		tu.AssertFileExists(t, h.path("config.toml"))
		if h.connects != 0 {
			t.Errorf("init should not authenticate, got %d connections", h.connects)
		}

		if code := h.run("init"); code != 1 {
			t.Errorf("expected second init to fail, got %d", code)
		}
	})
}
