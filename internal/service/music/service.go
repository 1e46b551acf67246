// Package music manages the playlist collection: seeding the built-in
// playlists, song management and collection subscriptions.
package music

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/gharapp/server/internal/domain"
	"github.com/gharapp/server/internal/repository/docstore"
	"github.com/gharapp/server/pkg/randstr"
)

const playlistsCollection = "playlists"

var (
	ErrPlaylistNotFound = errors.New("playlist not found")
	ErrSongNotFound     = errors.New("song not found")
	ErrInvalidSource    = errors.New("invalid video url or id")
)

type iPlaylistRepo interface {
	GetDocument(ctx context.Context, collection, id string) (docstore.Document, error)
	SetDocument(ctx context.Context, params *docstore.SetDocumentParams) error
	UpdateDocument(ctx context.Context, params *docstore.UpdateDocumentParams) error
	ArrayUnion(ctx context.Context, params *docstore.ArrayOpParams) error
	ArrayRemove(ctx context.Context, params *docstore.ArrayOpParams) error
	ListDocuments(ctx context.Context, collection string) ([]docstore.Document, error)
	Subscribe(ctx context.Context, collection string, onSnapshot docstore.SnapshotFunc, onError docstore.ErrorFunc) func()
}

type service struct {
	playlistRepo iPlaylistRepo
	generator    *randstr.Generator
}

func NewService(playlistRepo iPlaylistRepo) *service {
	return &service{
		playlistRepo: playlistRepo,
		generator:    randstr.New([]byte("abcdefghijklmnopqrstuvwxyz0123456789")),
	}
}

type seedPlaylist struct {
	Key      string
	Playlist domain.Playlist
}

func defaultPlaylists() []seedPlaylist {
	return []seedPlaylist{
		{Key: "maa", Playlist: domain.Playlist{Name: "Maa - Mother's Love", Emoji: "🙏", Color: "#E91E63", Songs: []domain.Song{}}},
		{Key: "papa", Playlist: domain.Playlist{Name: "Papa - Father's Pride", Emoji: "👨‍👧", Color: "#1565C0", Songs: []domain.Song{}}},
		{Key: "sister", Playlist: domain.Playlist{Name: "Sister - Bond of Love", Emoji: "👫", Color: "#9C27B0", Songs: []domain.Song{}}},
		{Key: "family", Playlist: domain.Playlist{Name: "Family / Home", Emoji: "🏠", Color: "#FF6F00", Songs: []domain.Song{}}},
		{Key: "missingHome", Playlist: domain.Playlist{Name: "Missing Home", Emoji: "💔", Color: "#5D4037", Songs: []domain.Song{}}},
		{Key: "happy", Playlist: domain.Playlist{Name: "Happy Family Moments", Emoji: "🎉", Color: "#FFD600", Songs: []domain.Song{}}},
	}
}

// EnsureSeeded writes the built-in playlists when the collection is
// empty. A non-empty collection is left untouched so edits survive
// restarts.
func (s *service) EnsureSeeded(ctx context.Context) error {
	docs, err := s.playlistRepo.ListDocuments(ctx, playlistsCollection)
	if err != nil {
		return fmt.Errorf("failed to list playlists: %w", err)
	}
	if len(docs) > 0 {
		return nil
	}

	now := nowMillis()
	for _, seed := range defaultPlaylists() {
		playlist := seed.Playlist
		playlist.UpdatedAt = now
		if err := s.playlistRepo.SetDocument(ctx, &docstore.SetDocumentParams{
			Collection: playlistsCollection,
			Id:         seed.Key,
			Value:      playlist,
		}); err != nil {
			return fmt.Errorf("failed to seed playlist: %w", err)
		}
	}

	return nil
}

func (s *service) ListPlaylists(ctx context.Context) (map[string]domain.Playlist, error) {
	docs, err := s.playlistRepo.ListDocuments(ctx, playlistsCollection)
	if err != nil {
		return nil, fmt.Errorf("failed to list playlists: %w", err)
	}

	playlists := make(map[string]domain.Playlist, len(docs))
	for _, doc := range docs {
		var playlist domain.Playlist
		if err := json.Unmarshal(doc.Data, &playlist); err != nil {
			return nil, fmt.Errorf("failed to unmarshal playlist: %w", err)
		}
		playlists[doc.Id] = playlist
	}

	return playlists, nil
}

func (s *service) getPlaylist(ctx context.Context, playlistKey string) (domain.Playlist, error) {
	doc, err := s.playlistRepo.GetDocument(ctx, playlistsCollection, playlistKey)
	if err != nil {
		if errors.Is(err, docstore.ErrDocumentNotFound) {
			return domain.Playlist{}, ErrPlaylistNotFound
		}
		return domain.Playlist{}, fmt.Errorf("failed to get playlist: %w", err)
	}

	var playlist domain.Playlist
	if err := json.Unmarshal(doc.Data, &playlist); err != nil {
		return domain.Playlist{}, fmt.Errorf("failed to unmarshal playlist: %w", err)
	}

	return playlist, nil
}

// GetSongs serves the playback advancement lookups.
func (s *service) GetSongs(ctx context.Context, playlistKey string) ([]domain.Song, error) {
	playlist, err := s.getPlaylist(ctx, playlistKey)
	if err != nil {
		return nil, err
	}

	return playlist.Songs, nil
}

// Subscribe delivers the full playlist map now and after every change.
func (s *service) Subscribe(ctx context.Context, onSnapshot func(map[string]domain.Playlist), onError func(err error)) func() {
	return s.playlistRepo.Subscribe(ctx, playlistsCollection, func(docs []docstore.Document) {
		playlists := make(map[string]domain.Playlist, len(docs))
		for _, doc := range docs {
			var playlist domain.Playlist
			if err := json.Unmarshal(doc.Data, &playlist); err != nil {
				onError(fmt.Errorf("failed to unmarshal playlist: %w", err))
				return
			}
			playlists[doc.Id] = playlist
		}

		onSnapshot(playlists)
	}, onError)
}
