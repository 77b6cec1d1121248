// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/desertthunder/plsaver/internal/models"
	"github.com/desertthunder/plsaver/internal/shared"
)

// MockCatalog is an in-memory [services.Catalog] serving pre-split pages.
//
// Cursors are opaque strings of the form "playlists:<n>" and "items:<id>:<n>".
type MockCatalog struct {
	PlaylistPages [][]models.Playlist
	Items         map[string][][]models.PlaylistItem
	Errors        map[string]error // keyed by playlist id, returned by Playlist and PlaylistItems
	ListErr       error            // returned by UserPlaylists

	mu         sync.Mutex
	calls      map[string]int
	lastUserID string
}

// NewMockCatalog builds a catalog with playlists split into pages of pageSize.
func NewMockCatalog(pageSize int, playlists ...models.Playlist) *MockCatalog {
	return &MockCatalog{
		PlaylistPages: Chunk(playlists, pageSize),
		Items:         map[string][][]models.PlaylistItem{},
		Errors:        map[string]error{},
	}
}

// Chunk splits items into slices of at most size elements. An empty input yields a single empty page.
func Chunk[T any](items []T, size int) [][]T {
	if size <= 0 {
		size = 1
	}
	if len(items) == 0 {
		return [][]T{{}}
	}
	var pages [][]T
	for start := 0; start < len(items); start += size {
		end := min(start+size, len(items))
		pages = append(pages, items[start:end])
	}
	return pages
}

// SetItems registers the items of playlistID, split into pages of pageSize.
func (m *MockCatalog) SetItems(playlistID string, pageSize int, items ...models.PlaylistItem) {
	m.Items[playlistID] = Chunk(items, pageSize)
}

// Calls reports how many times op was invoked.
func (m *MockCatalog) Calls(op string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[op]
}

// LastUserID returns the user id passed to the most recent UserPlaylists call.
func (m *MockCatalog) LastUserID() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastUserID
}

func (m *MockCatalog) record(op string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.calls == nil {
		m.calls = map[string]int{}
	}
	m.calls[op]++
}

func (m *MockCatalog) UserPlaylists(ctx context.Context, userID string) (models.Page[models.Playlist], error) {
	m.record("UserPlaylists")
	m.mu.Lock()
	m.lastUserID = userID
	m.mu.Unlock()

	if m.ListErr != nil {
		return models.Page[models.Playlist]{}, m.ListErr
	}
	return m.playlistPage(0), nil
}

func (m *MockCatalog) NextPlaylists(ctx context.Context, cursor string) (models.Page[models.Playlist], error) {
	m.record("NextPlaylists")

	n, err := strconv.Atoi(strings.TrimPrefix(cursor, "playlists:"))
	if err != nil || n >= len(m.PlaylistPages) {
		return models.Page[models.Playlist]{}, fmt.Errorf("%w: bad cursor %q", shared.ErrTransientAPI, cursor)
	}
	return m.playlistPage(n), nil
}

func (m *MockCatalog) playlistPage(n int) models.Page[models.Playlist] {
	if len(m.PlaylistPages) == 0 {
		return models.Page[models.Playlist]{}
	}
	page := models.Page[models.Playlist]{Items: m.PlaylistPages[n]}
	if n+1 < len(m.PlaylistPages) {
		page.Next = "playlists:" + strconv.Itoa(n+1)
	}
	return page
}

func (m *MockCatalog) Playlist(ctx context.Context, playlistID string) (*models.Playlist, error) {
	m.record("Playlist")

	if err := m.Errors[playlistID]; err != nil {
		return nil, err
	}
	for _, page := range m.PlaylistPages {
		for _, p := range page {
			if p.ID == playlistID {
				return &p, nil
			}
		}
	}
	if _, ok := m.Items[playlistID]; ok {
		return &models.Playlist{ID: playlistID}, nil
	}
	return nil, fmt.Errorf("%w: playlist %s", shared.ErrNotFound, playlistID)
}

func (m *MockCatalog) PlaylistItems(ctx context.Context, playlistID string) (models.Page[models.PlaylistItem], error) {
	m.record("PlaylistItems")

	if err := m.Errors[playlistID]; err != nil {
		return models.Page[models.PlaylistItem]{}, err
	}
	if _, ok := m.Items[playlistID]; !ok {
		return models.Page[models.PlaylistItem]{}, fmt.Errorf("%w: playlist %s", shared.ErrNotFound, playlistID)
	}
	return m.itemPage(playlistID, 0), nil
}

func (m *MockCatalog) NextPlaylistItems(ctx context.Context, cursor string) (models.Page[models.PlaylistItem], error) {
	m.record("NextPlaylistItems")

	parts := strings.Split(cursor, ":")
	if len(parts) != 3 || parts[0] != "items" {
		return models.Page[models.PlaylistItem]{}, fmt.Errorf("%w: bad cursor %q", shared.ErrTransientAPI, cursor)
	}
	n, err := strconv.Atoi(parts[2])
	if err != nil || n >= len(m.Items[parts[1]]) {
		return models.Page[models.PlaylistItem]{}, fmt.Errorf("%w: bad cursor %q", shared.ErrTransientAPI, cursor)
	}
	return m.itemPage(parts[1], n), nil
}

func (m *MockCatalog) itemPage(playlistID string, n int) models.Page[models.PlaylistItem] {
	pages := m.Items[playlistID]
	if len(pages) == 0 {
		return models.Page[models.PlaylistItem]{}
	}
	page := models.Page[models.PlaylistItem]{Items: pages[n]}
	if n+1 < len(pages) {
		page.Next = fmt.Sprintf("items:%s:%d", playlistID, n+1)
	}
	return page
}

// TrackItem builds a playlist item holding a single track.
func TrackItem(id, name, album, addedAt string, artists ...string) models.PlaylistItem {
	return models.PlaylistItem{
		AddedAt: addedAt,
		Track: &models.Track{
			ID:         id,
			Name:       name,
			Artists:    artists,
			Album:      album,
			DurationMS: 200000,
			Popularity: 50,
		},
	}
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// FreePort returns a loopback address that was free a moment ago.
func FreePort(t *testing.T) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Failed to reserve a port: %v", err)
	}
	addr := ln.Addr().String()
	ln.Close()
	return addr
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func AssertFileNotExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err == nil {
		t.Errorf("File should not exist: %s", path)
	}
}

func AssertDirExists(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		t.Errorf("Directory does not exist: %s", path)
		return
	}
	if !info.IsDir() {
		t.Errorf("Path is not a directory: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
