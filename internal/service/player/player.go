package player

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"

	"github.com/gharapp/server/internal/domain"
)

type AdvanceDirection string

const (
	DirectionNext AdvanceDirection = "next"
	DirectionPrev AdvanceDirection = "prev"
)

type PlayTrackParams struct {
	Song        domain.Song
	PlaylistKey string
}

// PlayTrack records the song as current immediately and marks playback
// started; if the facility is not ready yet the instance creation is
// deferred to the readiness callback.
func (s *service) PlayTrack(ctx context.Context, params *PlayTrackParams) (domain.PlaybackState, error) {
	s.mu.Lock()
	song := params.Song
	s.state.CurrentSong = &song
	s.state.IsPlaying = true
	if params.PlaylistKey != "" {
		s.state.CurrentPlaylist = params.PlaylistKey
	}
	if s.state.PlayerReady {
		s.createInstanceLocked(song.SourceId)
	}
	snapshot := s.snapshotLocked()
	notify := s.notifyLocked()
	s.mu.Unlock()

	notify()

	return snapshot, nil
}

type PlayPlaylistParams struct {
	PlaylistKey string
	StartIndex  int
}

func (s *service) PlayPlaylist(ctx context.Context, params *PlayPlaylistParams) (domain.PlaybackState, error) {
	songs, err := s.songProvider.GetSongs(ctx, params.PlaylistKey)
	if err != nil {
		return domain.PlaybackState{}, fmt.Errorf("failed to get songs: %w", err)
	}
	if len(songs) == 0 {
		return s.Snapshot(), nil
	}

	idx := params.StartIndex
	s.mu.Lock()
	shuffle := s.state.Shuffle
	s.mu.Unlock()
	if shuffle {
		idx = rand.IntN(len(songs))
	}
	if idx < 0 || idx >= len(songs) {
		idx = 0
	}

	return s.PlayTrack(ctx, &PlayTrackParams{Song: songs[idx], PlaylistKey: params.PlaylistKey})
}

// TogglePlay issues pause/resume to the live instance. Without an
// instance it is a silent no-op; isPlaying flips only when the call was
// actually issued.
func (s *service) TogglePlay(ctx context.Context) (domain.PlaybackState, error) {
	s.mu.Lock()

	if s.instance == nil {
		snapshot := s.snapshotLocked()
		s.mu.Unlock()
		return snapshot, nil
	}

	var err error
	if s.state.IsPlaying {
		err = s.instance.Pause()
	} else {
		err = s.instance.Play()
	}
	if err != nil {
		slog.Debug("player instance call failed", "error", err)
		snapshot := s.snapshotLocked()
		s.mu.Unlock()
		return snapshot, nil
	}

	s.state.IsPlaying = !s.state.IsPlaying
	snapshot := s.snapshotLocked()
	notify := s.notifyLocked()
	s.mu.Unlock()

	notify()

	return snapshot, nil
}

// ToggleMute is a no-op without a live instance; isMuted stays unchanged.
func (s *service) ToggleMute(ctx context.Context) (domain.PlaybackState, error) {
	s.mu.Lock()

	if s.instance == nil {
		snapshot := s.snapshotLocked()
		s.mu.Unlock()
		return snapshot, nil
	}

	var err error
	if s.state.IsMuted {
		err = s.instance.UnMute()
		if err == nil {
			if err := s.instance.SetVolume(s.state.Volume); err != nil {
				slog.Debug("player instance call failed", "error", err)
			}
		}
	} else {
		err = s.instance.Mute()
	}
	if err != nil {
		slog.Debug("player instance call failed", "error", err)
		snapshot := s.snapshotLocked()
		s.mu.Unlock()
		return snapshot, nil
	}

	s.state.IsMuted = !s.state.IsMuted
	snapshot := s.snapshotLocked()
	notify := s.notifyLocked()
	s.mu.Unlock()

	notify()

	return snapshot, nil
}

// SetVolume stores the level unconditionally so the next instance picks
// it up at creation time; the live instance, if any, is updated
// best-effort.
func (s *service) SetVolume(ctx context.Context, volume int) (domain.PlaybackState, error) {
	s.mu.Lock()
	s.state.Volume = volume
	if s.instance != nil {
		if err := s.instance.SetVolume(volume); err != nil {
			slog.Debug("player instance call failed", "error", err)
		}
	}
	snapshot := s.snapshotLocked()
	notify := s.notifyLocked()
	s.mu.Unlock()

	notify()

	return snapshot, nil
}

func (s *service) SetShuffle(ctx context.Context, shuffle bool) (domain.PlaybackState, error) {
	s.mu.Lock()
	s.state.Shuffle = shuffle
	snapshot := s.snapshotLocked()
	notify := s.notifyLocked()
	s.mu.Unlock()

	notify()

	return snapshot, nil
}

func (s *service) SetRepeat(ctx context.Context, repeat bool) (domain.PlaybackState, error) {
	s.mu.Lock()
	s.state.Repeat = repeat
	snapshot := s.snapshotLocked()
	notify := s.notifyLocked()
	s.mu.Unlock()

	notify()

	return snapshot, nil
}

// Advance picks the next or previous track by the advancement policy and
// plays it. Reaching the end of a non-repeating playlist stops playback
// without changing the current track.
func (s *service) Advance(ctx context.Context, direction AdvanceDirection) (domain.PlaybackState, error) {
	s.mu.Lock()
	playlistKey := s.state.CurrentPlaylist
	var currentId string
	if s.state.CurrentSong != nil {
		currentId = s.state.CurrentSong.Id
	}
	shuffle := s.state.Shuffle
	repeat := s.state.Repeat
	s.mu.Unlock()

	if playlistKey == "" {
		return s.Snapshot(), nil
	}

	songs, err := s.songProvider.GetSongs(ctx, playlistKey)
	if err != nil {
		return domain.PlaybackState{}, fmt.Errorf("failed to get songs: %w", err)
	}
	if len(songs) == 0 {
		return s.Snapshot(), nil
	}

	var song domain.Song
	var ok bool
	if direction == DirectionPrev {
		song, ok = Prev(songs, currentId)
	} else {
		song, ok = Next(songs, currentId, shuffle, repeat)
	}
	if !ok {
		s.mu.Lock()
		s.state.IsPlaying = false
		notify := s.notifyLocked()
		snapshot := s.snapshotLocked()
		s.mu.Unlock()

		notify()

		return snapshot, nil
	}

	return s.PlayTrack(ctx, &PlayTrackParams{Song: song, PlaylistKey: playlistKey})
}

// handleEnded is wired as the instance's end-of-track callback. It goes
// through Advance so the decision always sees the playlist and flags as
// they are now, not as they were when the instance was created.
func (s *service) handleEnded() {
	if _, err := s.Advance(context.Background(), DirectionNext); err != nil {
		slog.Debug("failed to advance after track ended", "error", err)
	}
}

// createInstanceLocked enforces the one-live-instance discipline: the
// previous instance is destroyed (best-effort) before the next one is
// created. Called with s.mu held.
func (s *service) createInstanceLocked(sourceId string) {
	if s.instance != nil {
		if err := s.instance.Destroy(); err != nil {
			slog.Debug("failed to destroy player instance", "error", err)
		}
		s.instance = nil
	}

	instance, err := s.facility.Create(sourceId, &CreateInstanceParams{
		Volume:  s.state.Volume,
		Muted:   s.state.IsMuted,
		OnEnded: s.handleEnded,
	})
	if err != nil {
		slog.Debug("failed to create player instance", "error", err)
		return
	}

	s.instance = instance
}
