// Package player owns the playback state and the lifecycle of the single
// external player instance. All state reads go through snapshots; nothing
// outside this package mutates PlaybackState.
package player

import (
	"context"
	"sync"

	"github.com/gharapp/server/internal/domain"
)

// Instance is a live handle on the external embeddable player. Any call
// can fail when the instance is not ready or already destroyed; callers
// in this package treat such failures as transient and swallow them.
type Instance interface {
	Play() error
	Pause() error
	Mute() error
	UnMute() error
	SetVolume(volume int) error
	Destroy() error
}

type CreateInstanceParams struct {
	Volume  int
	Muted   bool
	OnEnded func()
}

type iPlayerFacility interface {
	IsReady() bool
	// OnReady registers a callback invoked once the facility becomes
	// ready; it fires immediately if the facility already is.
	OnReady(fn func())
	Create(sourceId string, params *CreateInstanceParams) (Instance, error)
}

type iSongProvider interface {
	GetSongs(ctx context.Context, playlistKey string) ([]domain.Song, error)
}

type service struct {
	facility     iPlayerFacility
	songProvider iSongProvider

	mu            sync.Mutex
	state         domain.PlaybackState
	instance      Instance
	onStateChange func(domain.PlaybackState)
}

func NewService(facility iPlayerFacility, songProvider iSongProvider) *service {
	s := service{
		facility:     facility,
		songProvider: songProvider,
		state:        *domain.NewPlaybackState(),
	}
	facility.OnReady(s.handleReady)

	return &s
}

// OnStateChange registers a single observer notified after every state
// mutation. Used to push player updates to connected clients.
func (s *service) OnStateChange(fn func(domain.PlaybackState)) {
	s.mu.Lock()
	s.onStateChange = fn
	s.mu.Unlock()
}

func (s *service) Snapshot() domain.PlaybackState {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.snapshotLocked()
}

func (s *service) snapshotLocked() domain.PlaybackState {
	snapshot := s.state
	if s.state.CurrentSong != nil {
		song := *s.state.CurrentSong
		snapshot.CurrentSong = &song
	}

	return snapshot
}

// notifyLocked captures a snapshot and the observer while holding the
// lock, and invokes the observer after the caller releases it.
func (s *service) notifyLocked() func() {
	fn := s.onStateChange
	if fn == nil {
		return func() {}
	}
	snapshot := s.snapshotLocked()

	return func() { fn(snapshot) }
}

// handleReady marks the facility ready and starts playback of a track
// recorded while the facility was still loading.
func (s *service) handleReady() {
	s.mu.Lock()
	s.state.PlayerReady = true
	if s.state.CurrentSong != nil && s.state.IsPlaying && s.instance == nil {
		s.createInstanceLocked(s.state.CurrentSong.SourceId)
	}
	notify := s.notifyLocked()
	s.mu.Unlock()

	notify()
}
