package music

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gharapp/server/internal/domain"
	"github.com/gharapp/server/internal/repository/docstore"
	"github.com/gharapp/server/pkg/omitnilpointers"
	"github.com/gharapp/server/pkg/ytid"
)

const songIdSuffixLength = 5

func nowMillis() int64 {
	return time.Now().UnixMilli()
}

func (s *service) generateSongId() string {
	return fmt.Sprintf("song_%d_%s", nowMillis(), s.generator.GenerateRandomString(songIdSuffixLength))
}

func orUnknown(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return "Unknown"
	}

	return value
}

type AddSongParams struct {
	PlaylistKey string `validate:"required"`
	Title       string `validate:"required"`
	Movie       string
	Artist      string
	// Source is a video url in any of the share formats, or a bare id.
	Source string `validate:"required"`
}

func (s *service) AddSong(ctx context.Context, params *AddSongParams) (domain.Song, error) {
	sourceId, ok := ytid.Extract(params.Source)
	if !ok {
		return domain.Song{}, ErrInvalidSource
	}

	if _, err := s.getPlaylist(ctx, params.PlaylistKey); err != nil {
		return domain.Song{}, err
	}

	song := domain.Song{
		Id:       s.generateSongId(),
		Title:    strings.TrimSpace(params.Title),
		Movie:    orUnknown(params.Movie),
		SourceId: sourceId,
		Artist:   orUnknown(params.Artist),
	}

	if err := s.playlistRepo.ArrayUnion(ctx, &docstore.ArrayOpParams{
		Collection: playlistsCollection,
		Id:         params.PlaylistKey,
		Field:      "songs",
		Element:    song,
	}); err != nil {
		return domain.Song{}, fmt.Errorf("failed to add song: %w", err)
	}

	if err := s.touchPlaylist(ctx, params.PlaylistKey); err != nil {
		return domain.Song{}, err
	}

	return song, nil
}

func (s *service) RemoveSong(ctx context.Context, playlistKey, songId string) error {
	playlist, err := s.getPlaylist(ctx, playlistKey)
	if err != nil {
		return err
	}

	song, ok := findSong(playlist.Songs, songId)
	if !ok {
		return ErrSongNotFound
	}

	if err := s.playlistRepo.ArrayRemove(ctx, &docstore.ArrayOpParams{
		Collection: playlistsCollection,
		Id:         playlistKey,
		Field:      "songs",
		Element:    song,
	}); err != nil {
		return fmt.Errorf("failed to remove song: %w", err)
	}

	return s.touchPlaylist(ctx, playlistKey)
}

type UpdateSongParams struct {
	PlaylistKey string `validate:"required"`
	SongId      string `validate:"required"`
	Title       *string
	Movie       *string
	Artist      *string
	Source      *string
}

// UpdateSong rewrites the whole songs array with the matching entry
// patched, so concurrent removals of other songs are not resurrected by
// a partial write.
func (s *service) UpdateSong(ctx context.Context, params *UpdateSongParams) (domain.Song, error) {
	playlist, err := s.getPlaylist(ctx, params.PlaylistKey)
	if err != nil {
		return domain.Song{}, err
	}

	patch := omitnilpointers.OmitNilPointers(map[string]any{
		"title":  params.Title,
		"movie":  params.Movie,
		"artist": params.Artist,
	})
	if params.Source != nil {
		sourceId, ok := ytid.Extract(*params.Source)
		if !ok {
			return domain.Song{}, ErrInvalidSource
		}
		patch["sourceId"] = sourceId
	}

	var updated domain.Song
	found := false
	songs := make([]domain.Song, 0, len(playlist.Songs))
	for _, song := range playlist.Songs {
		if song.Id == params.SongId {
			applySongPatch(&song, patch)
			updated = song
			found = true
		}
		songs = append(songs, song)
	}
	if !found {
		return domain.Song{}, ErrSongNotFound
	}

	if err := s.playlistRepo.UpdateDocument(ctx, &docstore.UpdateDocumentParams{
		Collection: playlistsCollection,
		Id:         params.PlaylistKey,
		Patch: map[string]any{
			"songs":     songs,
			"updatedAt": nowMillis(),
		},
	}); err != nil {
		return domain.Song{}, fmt.Errorf("failed to update song: %w", err)
	}

	return updated, nil
}

func (s *service) touchPlaylist(ctx context.Context, playlistKey string) error {
	if err := s.playlistRepo.UpdateDocument(ctx, &docstore.UpdateDocumentParams{
		Collection: playlistsCollection,
		Id:         playlistKey,
		Patch:      map[string]any{"updatedAt": nowMillis()},
	}); err != nil {
		return fmt.Errorf("failed to update playlist: %w", err)
	}

	return nil
}

func applySongPatch(song *domain.Song, patch map[string]any) {
	if title, ok := patch["title"].(string); ok {
		song.Title = strings.TrimSpace(title)
	}
	if movie, ok := patch["movie"].(string); ok {
		song.Movie = orUnknown(movie)
	}
	if artist, ok := patch["artist"].(string); ok {
		song.Artist = orUnknown(artist)
	}
	if sourceId, ok := patch["sourceId"].(string); ok {
		song.SourceId = sourceId
	}
}

func findSong(songs []domain.Song, songId string) (domain.Song, bool) {
	for _, song := range songs {
		if song.Id == songId {
			return song, true
		}
	}

	return domain.Song{}, false
}
