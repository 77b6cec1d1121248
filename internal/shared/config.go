package shared

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
)

//go:embed config.example.toml
var exampleConf []byte

// Scopes lists the permission grants requested during authorization.
var Scopes = []string{
	spotifyauth.ScopePlaylistReadPrivate,
	spotifyauth.ScopePlaylistReadCollaborative,
}

const (
	defaultAuthTimeout  = 2 * time.Minute
	defaultPlaylistsDir = "playlists"
	defaultIDsFile      = "playlist_ids.csv"
)

// Config represents the application configuration.
type Config struct {
	Credentials CredentialsConfig `toml:"credentials"`
	Server      ServerConfig      `toml:"server"`
	Export      ExportConfig      `toml:"export"`
}

// CredentialsConfig contains service-specific credentials.
type CredentialsConfig struct {
	Spotify SpotifyConfig `toml:"spotify"`
}

// SpotifyConfig contains Spotify API credentials and the playlist owner used for listings.
type SpotifyConfig struct {
	ClientID     string `toml:"client_id"`
	ClientSecret string `toml:"client_secret"`
	RedirectURI  string `toml:"redirect_uri"`
	UserID       string `toml:"user_id"`
}

// ServerConfig contains settings for the OAuth callback listener.
type ServerConfig struct {
	CallbackAddr string `toml:"callback_addr"`
	AuthTimeout  string `toml:"auth_timeout"`
}

// ExportConfig controls where exported files are written.
type ExportConfig struct {
	OutputDir    string `toml:"output_dir"`
	PlaylistsDir string `toml:"playlists_dir"`
	IDsFile      string `toml:"ids_file"`
}

// LoadOpts selects the configuration sources for [LoadConfig].
type LoadOpts struct {
	ConfigPath string                          // optional TOML file; ignored when absent
	EnvFile    string                          // optional dotenv file; ignored when absent
	Lookup     func(key string) (string, bool) // environment lookup, defaults to [os.LookupEnv]
}

// envKeys maps each setting to its environment variables in order of precedence.
var envKeys = map[string][]string{
	"client_id":     {"SPOTIFY_CLIENT_ID", "SPOTIPY_CLIENT_ID"},
	"client_secret": {"SPOTIFY_CLIENT_SECRET", "SPOTIPY_CLIENT_SECRET"},
	"redirect_uri":  {"SPOTIFY_REDIRECT_URI", "SPOTIPY_REDIRECT_URI"},
	"user_id":       {"SPOTIFY_USER_ID", "USER_ID"},
	"output_dir":    {"PLSAVER_OUTPUT_DIR"},
	"callback_addr": {"PLSAVER_CALLBACK_ADDR"},
}

// LoadConfig builds a [Config] from the embedded defaults, an optional TOML file,
// an optional dotenv file and the process environment, in increasing precedence.
//
// Variables already present in the environment win over the dotenv file.
func LoadConfig(opts LoadOpts) (*Config, error) {
	config := DefaultConfig()

	if opts.ConfigPath != "" {
		data, err := os.ReadFile(opts.ConfigPath)
		switch {
		case err == nil:
			if err := toml.Unmarshal(data, config); err != nil {
				return nil, fmt.Errorf("%w: failed to parse %s: %v", ErrConfiguration, opts.ConfigPath, err)
			}
		case !errors.Is(err, fs.ErrNotExist):
			return nil, fmt.Errorf("%w: failed to read config file: %v", ErrConfiguration, err)
		}
	}

	lookup := opts.Lookup
	if lookup == nil {
		lookup = os.LookupEnv
	}

	if opts.EnvFile != "" {
		dotenv, err := godotenv.Read(opts.EnvFile)
		switch {
		case err == nil:
			lookup = chainLookup(lookup, dotenv)
		case !errors.Is(err, fs.ErrNotExist):
			return nil, fmt.Errorf("%w: failed to read %s: %v", ErrConfiguration, opts.EnvFile, err)
		}
	}

	config.ApplyEnv(lookup)
	return config, nil
}

func chainLookup(primary func(string) (string, bool), fallback map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		if v, ok := primary(key); ok {
			return v, ok
		}
		v, ok := fallback[key]
		return v, ok
	}
}

// ApplyEnv overrides configuration values with any non-empty environment variables.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	targets := map[string]*string{
		"client_id":     &c.Credentials.Spotify.ClientID,
		"client_secret": &c.Credentials.Spotify.ClientSecret,
		"redirect_uri":  &c.Credentials.Spotify.RedirectURI,
		"user_id":       &c.Credentials.Spotify.UserID,
		"output_dir":    &c.Export.OutputDir,
		"callback_addr": &c.Server.CallbackAddr,
	}

	for setting, keys := range envKeys {
		for _, key := range keys {
			if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
				*targets[setting] = strings.TrimSpace(v)
				break
			}
		}
	}
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate reports every missing credential in one [ErrConfiguration].
//
// Placeholder values from the example config count as missing.
func (s SpotifyConfig) Validate() error {
	var missing []string
	check := func(name, value string) {
		if value == "" || strings.HasPrefix(value, "your_") {
			missing = append(missing, name)
		}
	}
	check("SPOTIFY_CLIENT_ID", s.ClientID)
	check("SPOTIFY_CLIENT_SECRET", s.ClientSecret)
	check("SPOTIFY_REDIRECT_URI", s.RedirectURI)

	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrConfiguration, strings.Join(missing, ", "))
	}
	return nil
}

// Timeout parses auth_timeout, falling back to two minutes.
func (s ServerConfig) Timeout() time.Duration {
	d, err := time.ParseDuration(s.AuthTimeout)
	if err != nil || d <= 0 {
		return defaultAuthTimeout
	}
	return d
}

// PlaylistsPath returns the directory holding per-playlist exports.
func (e ExportConfig) PlaylistsPath() string {
	dir := e.PlaylistsDir
	if dir == "" {
		dir = defaultPlaylistsDir
	}
	return filepath.Join(e.base(), dir)
}

// IDsPath returns the location of the playlist id listing.
func (e ExportConfig) IDsPath() string {
	name := e.IDsFile
	if name == "" {
		name = defaultIDsFile
	}
	return filepath.Join(e.base(), name)
}

func (e ExportConfig) base() string {
	if e.OutputDir == "" {
		return "."
	}
	return e.OutputDir
}
