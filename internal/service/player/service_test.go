package player

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gharapp/server/internal/domain"
)

type fakeInstance struct {
	sourceId  string
	volume    int
	muted     bool
	onEnded   func()
	destroyed bool
	failCalls bool
	playCalls int
	pauseCall int
}

func (i *fakeInstance) call() error {
	if i.failCalls || i.destroyed {
		return errors.New("player not ready")
	}
	return nil
}

func (i *fakeInstance) Play() error {
	if err := i.call(); err != nil {
		return err
	}
	i.playCalls++
	return nil
}

func (i *fakeInstance) Pause() error {
	if err := i.call(); err != nil {
		return err
	}
	i.pauseCall++
	return nil
}

func (i *fakeInstance) Mute() error {
	if err := i.call(); err != nil {
		return err
	}
	i.muted = true
	return nil
}

func (i *fakeInstance) UnMute() error {
	if err := i.call(); err != nil {
		return err
	}
	i.muted = false
	return nil
}

func (i *fakeInstance) SetVolume(volume int) error {
	if err := i.call(); err != nil {
		return err
	}
	i.volume = volume
	return nil
}

func (i *fakeInstance) Destroy() error {
	i.destroyed = true
	return nil
}

type fakeFacility struct {
	ready    bool
	readyFns []func()
	created  []*fakeInstance
}

func (f *fakeFacility) IsReady() bool {
	return f.ready
}

func (f *fakeFacility) OnReady(fn func()) {
	if f.ready {
		fn()
		return
	}
	f.readyFns = append(f.readyFns, fn)
}

func (f *fakeFacility) MarkReady() {
	f.ready = true
	fns := f.readyFns
	f.readyFns = nil
	for _, fn := range fns {
		fn()
	}
}

func (f *fakeFacility) Create(sourceId string, params *CreateInstanceParams) (Instance, error) {
	instance := &fakeInstance{
		sourceId: sourceId,
		volume:   params.Volume,
		muted:    params.Muted,
		onEnded:  params.OnEnded,
	}
	f.created = append(f.created, instance)

	return instance, nil
}

func (f *fakeFacility) live() []*fakeInstance {
	var live []*fakeInstance
	for _, instance := range f.created {
		if !instance.destroyed {
			live = append(live, instance)
		}
	}

	return live
}

type fakeSongProvider struct {
	playlists map[string][]domain.Song
}

func (f *fakeSongProvider) GetSongs(ctx context.Context, playlistKey string) ([]domain.Song, error) {
	songs, ok := f.playlists[playlistKey]
	if !ok {
		return nil, errors.New("playlist not found")
	}

	return songs, nil
}

func newReadyService(playlists map[string][]domain.Song) (*service, *fakeFacility) {
	facility := &fakeFacility{ready: true}
	return NewService(facility, &fakeSongProvider{playlists: playlists}), facility
}

func TestPlayTrackCreatesInstance(t *testing.T) {
	s, facility := newReadyService(nil)

	state, err := s.PlayTrack(context.Background(), &PlayTrackParams{
		Song:        domain.Song{Id: "a", SourceId: "src-a"},
		PlaylistKey: "family",
	})
	require.NoError(t, err)

	assert.True(t, state.IsPlaying)
	require.NotNil(t, state.CurrentSong)
	assert.Equal(t, "a", state.CurrentSong.Id)
	assert.Equal(t, "family", state.CurrentPlaylist)

	live := facility.live()
	require.Len(t, live, 1)
	assert.Equal(t, "src-a", live[0].sourceId)
	// defaults applied at creation time
	assert.Equal(t, 70, live[0].volume)
	assert.True(t, live[0].muted)
}

func TestPlayTrackRetargetKeepsOneLiveInstance(t *testing.T) {
	s, facility := newReadyService(nil)
	ctx := context.Background()

	_, err := s.PlayTrack(ctx, &PlayTrackParams{Song: domain.Song{Id: "a", SourceId: "src-a"}, PlaylistKey: "family"})
	require.NoError(t, err)
	_, err = s.PlayTrack(ctx, &PlayTrackParams{Song: domain.Song{Id: "b", SourceId: "src-b"}, PlaylistKey: "family"})
	require.NoError(t, err)

	live := facility.live()
	require.Len(t, live, 1, "exactly one live instance")
	assert.Equal(t, "src-b", live[0].sourceId)
	assert.Len(t, facility.created, 2)
	assert.True(t, facility.created[0].destroyed)
}

func TestPlayTrackDeferredUntilFacilityReady(t *testing.T) {
	facility := &fakeFacility{}
	s := NewService(facility, &fakeSongProvider{})
	ctx := context.Background()

	_, err := s.PlayTrack(ctx, &PlayTrackParams{Song: domain.Song{Id: "a", SourceId: "src-a"}})
	require.NoError(t, err)
	_, err = s.PlayTrack(ctx, &PlayTrackParams{Song: domain.Song{Id: "b", SourceId: "src-b"}})
	require.NoError(t, err)

	assert.Empty(t, facility.created, "nothing constructed before readiness")

	facility.MarkReady()

	live := facility.live()
	require.Len(t, live, 1)
	assert.Equal(t, "src-b", live[0].sourceId, "readiness plays the latest recorded track")
	assert.True(t, s.Snapshot().PlayerReady)
}

func TestTogglePlayWithoutInstanceIsNoOp(t *testing.T) {
	s, _ := newReadyService(nil)

	state, err := s.TogglePlay(context.Background())
	require.NoError(t, err)
	assert.False(t, state.IsPlaying)
}

func TestTogglePlayFlipsOnlyOnSuccessfulIssuance(t *testing.T) {
	s, facility := newReadyService(nil)
	ctx := context.Background()

	_, err := s.PlayTrack(ctx, &PlayTrackParams{Song: domain.Song{Id: "a", SourceId: "src-a"}})
	require.NoError(t, err)

	state, err := s.TogglePlay(ctx)
	require.NoError(t, err)
	assert.False(t, state.IsPlaying)
	assert.Equal(t, 1, facility.live()[0].pauseCall)

	facility.live()[0].failCalls = true
	state, err = s.TogglePlay(ctx)
	require.NoError(t, err)
	assert.False(t, state.IsPlaying, "state unchanged when the call fails")
}

func TestToggleMuteWithoutInstanceLeavesStateUnchanged(t *testing.T) {
	s, _ := newReadyService(nil)

	state, err := s.ToggleMute(context.Background())
	require.NoError(t, err)
	assert.True(t, state.IsMuted, "muted default stays untouched")
}

func TestToggleMuteRestoresVolume(t *testing.T) {
	s, facility := newReadyService(nil)
	ctx := context.Background()

	_, err := s.PlayTrack(ctx, &PlayTrackParams{Song: domain.Song{Id: "a", SourceId: "src-a"}})
	require.NoError(t, err)
	_, err = s.SetVolume(ctx, 40)
	require.NoError(t, err)

	state, err := s.ToggleMute(ctx)
	require.NoError(t, err)
	assert.False(t, state.IsMuted)
	assert.False(t, facility.live()[0].muted)
	assert.Equal(t, 40, facility.live()[0].volume)
}

func TestSetVolumeWithoutInstanceIsStoredForNextInstance(t *testing.T) {
	facility := &fakeFacility{}
	s := NewService(facility, &fakeSongProvider{})
	ctx := context.Background()

	_, err := s.SetVolume(ctx, 25)
	require.NoError(t, err)

	_, err = s.PlayTrack(ctx, &PlayTrackParams{Song: domain.Song{Id: "a", SourceId: "src-a"}})
	require.NoError(t, err)
	facility.MarkReady()

	live := facility.live()
	require.Len(t, live, 1)
	assert.Equal(t, 25, live[0].volume)
	assert.True(t, live[0].muted)
}

func TestAdvanceNextPlaysFollowingTrack(t *testing.T) {
	songs := testSongs("a", "b", "c")
	s, facility := newReadyService(map[string][]domain.Song{"family": songs})
	ctx := context.Background()

	_, err := s.PlayTrack(ctx, &PlayTrackParams{Song: songs[0], PlaylistKey: "family"})
	require.NoError(t, err)

	state, err := s.Advance(ctx, DirectionNext)
	require.NoError(t, err)
	require.NotNil(t, state.CurrentSong)
	assert.Equal(t, "b", state.CurrentSong.Id)
	assert.Equal(t, "src-b", facility.live()[0].sourceId)
}

func TestAdvanceAtEndWithoutRepeatStopsPlayback(t *testing.T) {
	songs := testSongs("a", "b", "c")
	s, _ := newReadyService(map[string][]domain.Song{"family": songs})
	ctx := context.Background()

	_, err := s.PlayTrack(ctx, &PlayTrackParams{Song: songs[2], PlaylistKey: "family"})
	require.NoError(t, err)

	state, err := s.Advance(ctx, DirectionNext)
	require.NoError(t, err)
	assert.False(t, state.IsPlaying)
	require.NotNil(t, state.CurrentSong)
	assert.Equal(t, "c", state.CurrentSong.Id, "current track unchanged at end of playlist")
}

func TestEndedCallbackObservesLiveFlags(t *testing.T) {
	songs := testSongs("a", "b", "c")
	s, facility := newReadyService(map[string][]domain.Song{"family": songs})
	ctx := context.Background()

	_, err := s.PlayTrack(ctx, &PlayTrackParams{Song: songs[2], PlaylistKey: "family"})
	require.NoError(t, err)
	instance := facility.live()[0]

	// repeat was enabled after the instance was created; the ended
	// callback must still see it
	_, err = s.SetRepeat(ctx, true)
	require.NoError(t, err)

	instance.onEnded()

	state := s.Snapshot()
	require.NotNil(t, state.CurrentSong)
	assert.Equal(t, "a", state.CurrentSong.Id)
	assert.True(t, state.IsPlaying)
}

func TestPlayPlaylistStartsAtIndex(t *testing.T) {
	songs := testSongs("a", "b", "c")
	s, _ := newReadyService(map[string][]domain.Song{"family": songs})

	state, err := s.PlayPlaylist(context.Background(), &PlayPlaylistParams{PlaylistKey: "family", StartIndex: 1})
	require.NoError(t, err)
	require.NotNil(t, state.CurrentSong)
	assert.Equal(t, "b", state.CurrentSong.Id)
}
