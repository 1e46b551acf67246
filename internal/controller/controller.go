// Package controller is the transport boundary: REST endpoints for the
// gate and photo uploads, a WebSocket for everything live. All inputs
// are validated here; services only see clean parameters.
package controller

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/gharapp/server/internal/domain"
	"github.com/gharapp/server/internal/service/gate"
	"github.com/gharapp/server/internal/service/music"
	"github.com/gharapp/server/internal/service/photo"
	"github.com/gharapp/server/internal/service/player"
	"github.com/gharapp/server/pkg/validator"
)

type iGateService interface {
	Verify(ctx context.Context, pin string) (gate.VerifyResult, error)
	Session() domain.Session
	Logout(ctx context.Context) error
	ValidateSessionToken(tokenString string) error
}

type iPlayerService interface {
	PlayTrack(ctx context.Context, params *player.PlayTrackParams) (domain.PlaybackState, error)
	PlayPlaylist(ctx context.Context, params *player.PlayPlaylistParams) (domain.PlaybackState, error)
	TogglePlay(ctx context.Context) (domain.PlaybackState, error)
	ToggleMute(ctx context.Context) (domain.PlaybackState, error)
	SetVolume(ctx context.Context, volume int) (domain.PlaybackState, error)
	SetShuffle(ctx context.Context, shuffle bool) (domain.PlaybackState, error)
	SetRepeat(ctx context.Context, repeat bool) (domain.PlaybackState, error)
	Advance(ctx context.Context, direction player.AdvanceDirection) (domain.PlaybackState, error)
	Snapshot() domain.PlaybackState
	OnStateChange(fn func(state domain.PlaybackState))
}

type iMusicService interface {
	ListPlaylists(ctx context.Context) (map[string]domain.Playlist, error)
	AddSong(ctx context.Context, params *music.AddSongParams) (domain.Song, error)
	RemoveSong(ctx context.Context, playlistKey, songId string) error
	UpdateSong(ctx context.Context, params *music.UpdateSongParams) (domain.Song, error)
	Subscribe(ctx context.Context, onSnapshot func(playlists map[string]domain.Playlist), onError func(err error)) func()
}

type iPhotoService interface {
	ListPhotos(ctx context.Context, filter *photo.Filter) ([]domain.Photo, error)
	UploadBatch(ctx context.Context, batch []*photo.UploadPhotoParams) (photo.BatchResult, error)
	UpdatePhoto(ctx context.Context, params *photo.UpdatePhotoParams) (domain.Photo, error)
	ToggleFavorite(ctx context.Context, id string) (domain.Photo, error)
	DeletePhoto(ctx context.Context, id string) error
	Subscribe(ctx context.Context, onSnapshot func(photos []domain.Photo), onError func(err error)) func()
}

type iRemotePlayer interface {
	MarkReady()
	NotifyEnded()
}

type iConnRepo interface {
	Add(conn *websocket.Conn, clientId string) error
	RemoveByConn(conn *websocket.Conn) error
}

type iBroadcaster interface {
	Broadcast(message any) error
}

type controller struct {
	gateService   iGateService
	playerService iPlayerService
	musicService  iMusicService
	photoService  iPhotoService
	remotePlayer  iRemotePlayer
	connRepo      iConnRepo
	broadcaster   iBroadcaster
	upgrader      websocket.Upgrader
	validate      *validator.Validator
	maxUploadSize int64
}

type NewControllerParams struct {
	GateService   iGateService
	PlayerService iPlayerService
	MusicService  iMusicService
	PhotoService  iPhotoService
	RemotePlayer  iRemotePlayer
	ConnRepo      iConnRepo
	Broadcaster   iBroadcaster
	MaxUploadSize int64
}

func NewController(params *NewControllerParams) *controller {
	return &controller{
		gateService:   params.GateService,
		playerService: params.PlayerService,
		musicService:  params.MusicService,
		photoService:  params.PhotoService,
		remotePlayer:  params.RemotePlayer,
		connRepo:      params.ConnRepo,
		broadcaster:   params.Broadcaster,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		validate:      validator.NewValidator(),
		maxUploadSize: params.MaxUploadSize,
	}
}

// StartListeners wires the live-update fan-out: player state changes and
// collection snapshots are pushed to every connected client. Returns a
// function stopping the collection subscriptions.
func (c *controller) StartListeners(ctx context.Context) func() {
	c.playerService.OnStateChange(func(state domain.PlaybackState) {
		c.broadcast("PLAYER_UPDATED", state)
	})

	stopMusic := c.musicService.Subscribe(ctx, func(playlists map[string]domain.Playlist) {
		c.broadcast("PLAYLISTS_UPDATED", playlists)
	}, func(err error) {
		slog.Error("playlists subscription failed", "error", err)
	})

	stopPhotos := c.photoService.Subscribe(ctx, func(photos []domain.Photo) {
		c.broadcast("PHOTOS_UPDATED", photos)
	}, func(err error) {
		slog.Error("photos subscription failed", "error", err)
	})

	return func() {
		stopMusic()
		stopPhotos()
	}
}
