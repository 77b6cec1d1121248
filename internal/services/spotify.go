// Spotify Web API implementation of [Catalog]
package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/desertthunder/plsaver/internal/models"
	"github.com/desertthunder/plsaver/internal/shared"
	"github.com/zmb3/spotify/v2"
	"golang.org/x/oauth2"
)

const playlistPageLimit = 50

// SpotifySession is an authorized handle on the Spotify Web API.
//
// It is created once per process and used read-only afterwards.
type SpotifySession struct {
	client *spotify.Client
	token  *oauth2.Token
	user   *spotify.PrivateUser
}

// NewSpotifySession wraps an authorized HTTP client.
//
// The client is expected to attach (and refresh) the bearer token itself, as [oauth2.Config.Client] does.
func NewSpotifySession(httpClient *http.Client, token *oauth2.Token, opts ...spotify.ClientOption) *SpotifySession {
	return &SpotifySession{
		client: spotify.New(httpClient, opts...),
		token:  token,
	}
}

// Verify fetches the current user's profile, proving the token works.
func (s *SpotifySession) Verify(ctx context.Context) (*spotify.PrivateUser, error) {
	user, err := s.client.CurrentUser(ctx)
	if err != nil {
		return nil, classify(err, "current user")
	}
	s.user = user
	return user, nil
}

// UserID returns the verified user's ID, or an empty string before [SpotifySession.Verify].
func (s *SpotifySession) UserID() string {
	if s.user == nil {
		return ""
	}
	return s.user.ID
}

// DisplayName returns the verified user's display name, falling back to the ID.
func (s *SpotifySession) DisplayName() string {
	if s.user == nil {
		return ""
	}
	if s.user.DisplayName != "" {
		return s.user.DisplayName
	}
	return s.user.ID
}

// Token returns the token the session was created with.
func (s *SpotifySession) Token() *oauth2.Token {
	return s.token
}

// UserPlaylists lists playlists for userID, or for the current user when userID is empty.
func (s *SpotifySession) UserPlaylists(ctx context.Context, userID string) (models.Page[models.Playlist], error) {
	var (
		page *spotify.SimplePlaylistPage
		err  error
	)

	if userID == "" {
		page, err = s.client.CurrentUsersPlaylists(ctx, spotify.Limit(playlistPageLimit))
	} else {
		page, err = s.client.GetPlaylistsForUser(ctx, userID, spotify.Limit(playlistPageLimit))
	}
	if err != nil {
		return models.Page[models.Playlist]{}, classify(err, "playlists for user "+userID)
	}

	return playlistPage(page), nil
}

// NextPlaylists fetches the playlist page at cursor.
func (s *SpotifySession) NextPlaylists(ctx context.Context, cursor string) (models.Page[models.Playlist], error) {
	var page spotify.SimplePlaylistPage
	page.Next = cursor

	if err := s.client.NextPage(ctx, &page); err != nil {
		if errors.Is(err, spotify.ErrNoMorePages) {
			return models.Page[models.Playlist]{}, nil
		}
		return models.Page[models.Playlist]{}, classify(err, "next playlist page")
	}

	return playlistPage(&page), nil
}

// Playlist retrieves a playlist's metadata.
func (s *SpotifySession) Playlist(ctx context.Context, playlistID string) (*models.Playlist, error) {
	fp, err := s.client.GetPlaylist(ctx, spotify.ID(playlistID), spotify.Fields("id,name,uri,owner(id),tracks(total)"))
	if err != nil {
		return nil, classify(err, "playlist "+playlistID)
	}

	playlist := toPlaylist(fp.SimplePlaylist)
	playlist.TrackCount = int(fp.Tracks.Total)
	return &playlist, nil
}

// PlaylistItems fetches the first page of a playlist's items.
func (s *SpotifySession) PlaylistItems(ctx context.Context, playlistID string) (models.Page[models.PlaylistItem], error) {
	page, err := s.client.GetPlaylistItems(ctx, spotify.ID(playlistID))
	if err != nil {
		return models.Page[models.PlaylistItem]{}, classify(err, "items of playlist "+playlistID)
	}

	return itemPage(page), nil
}

// NextPlaylistItems fetches the item page at cursor.
func (s *SpotifySession) NextPlaylistItems(ctx context.Context, cursor string) (models.Page[models.PlaylistItem], error) {
	var page spotify.PlaylistItemPage
	page.Next = cursor

	if err := s.client.NextPage(ctx, &page); err != nil {
		if errors.Is(err, spotify.ErrNoMorePages) {
			return models.Page[models.PlaylistItem]{}, nil
		}
		return models.Page[models.PlaylistItem]{}, classify(err, "next item page")
	}

	return itemPage(&page), nil
}

// badIDMessages are the 400 responses Spotify gives for ids that cannot name a resource.
var badIDMessages = []string{"invalid base62 id", "unsupported url / uri", "invalid playlist id"}

// classify maps client errors onto the shared taxonomy.
//
// Unknown ids come back as 404 and malformed ones as a 400 with one of
// [badIDMessages]. Any other 400 is a request the API refused.
func classify(err error, what string) error {
	var apiErr spotify.Error
	if errors.As(err, &apiErr) {
		if apiErr.Status == http.StatusNotFound || (apiErr.Status == http.StatusBadRequest && isBadID(apiErr.Message)) {
			return fmt.Errorf("%w: %s: %s", shared.ErrNotFound, what, apiErr.Message)
		}
		return fmt.Errorf("%w: %s: status %d: %s", shared.ErrTransientAPI, what, apiErr.Status, apiErr.Message)
	}
	return fmt.Errorf("%w: %s: %v", shared.ErrTransientAPI, what, err)
}

func isBadID(message string) bool {
	message = strings.ToLower(message)
	for _, m := range badIDMessages {
		if strings.Contains(message, m) {
			return true
		}
	}
	return false
}

func playlistPage(page *spotify.SimplePlaylistPage) models.Page[models.Playlist] {
	out := models.Page[models.Playlist]{
		Items: make([]models.Playlist, 0, len(page.Playlists)),
		Next:  page.Next,
	}
	for _, p := range page.Playlists {
		out.Items = append(out.Items, toPlaylist(p))
	}
	return out
}

func itemPage(page *spotify.PlaylistItemPage) models.Page[models.PlaylistItem] {
	out := models.Page[models.PlaylistItem]{
		Items: make([]models.PlaylistItem, 0, len(page.Items)),
		Next:  page.Next,
	}
	for _, item := range page.Items {
		out.Items = append(out.Items, toItem(item))
	}
	return out
}

func toPlaylist(p spotify.SimplePlaylist) models.Playlist {
	return models.Playlist{
		ID:         string(p.ID),
		Name:       p.Name,
		URI:        string(p.URI),
		Owner:      p.Owner.ID,
		TrackCount: int(p.Tracks.Total),
	}
}

// toItem keeps a nil Track for removed tracks and for podcast episodes.
func toItem(item spotify.PlaylistItem) models.PlaylistItem {
	out := models.PlaylistItem{AddedAt: item.AddedAt}

	t := item.Track.Track
	if t == nil {
		return out
	}

	artists := make([]string, 0, len(t.Artists))
	for _, a := range t.Artists {
		artists = append(artists, a.Name)
	}

	out.Track = &models.Track{
		ID:         string(t.ID),
		Name:       t.Name,
		Artists:    artists,
		Album:      t.Album.Name,
		DurationMS: int(t.Duration),
		Popularity: int(t.Popularity),
	}
	return out
}
