package controller

import (
	"context"
	"encoding/json"

	"github.com/gorilla/websocket"

	"github.com/gharapp/server/internal/domain"
	"github.com/gharapp/server/internal/service/music"
	"github.com/gharapp/server/internal/service/photo"
	"github.com/gharapp/server/internal/service/player"
	"github.com/gharapp/server/pkg/wsrouter"
)

func (c *controller) wsRouter() *wsrouter.WSRouter {
	r := wsrouter.New()

	r.Handle("ALIVE", func(ctx context.Context, conn *websocket.Conn, payload json.RawMessage) {})

	r.Handle("PLAY_TRACK", c.handlePlayTrack)
	r.Handle("PLAY_PLAYLIST", c.handlePlayPlaylist)
	r.Handle("TOGGLE_PLAY", c.handleTogglePlay)
	r.Handle("TOGGLE_MUTE", c.handleToggleMute)
	r.Handle("SET_VOLUME", c.handleSetVolume)
	r.Handle("SET_SHUFFLE", c.handleSetShuffle)
	r.Handle("SET_REPEAT", c.handleSetRepeat)
	r.Handle("NEXT", c.handleNext)
	r.Handle("PREV", c.handlePrev)
	r.Handle("PLAYER_READY", c.handlePlayerReady)
	r.Handle("PLAYER_ENDED", c.handlePlayerEnded)

	r.Handle("ADD_SONG", c.handleAddSong)
	r.Handle("REMOVE_SONG", c.handleRemoveSong)
	r.Handle("UPDATE_SONG", c.handleUpdateSong)

	r.Handle("UPDATE_PHOTO", c.handleUpdatePhoto)
	r.Handle("TOGGLE_FAVORITE", c.handleToggleFavorite)
	r.Handle("DELETE_PHOTO", c.handleDeletePhoto)

	return r
}

type playTrackInput struct {
	Song        domain.Song `json:"song"`
	PlaylistKey string      `json:"playlistKey"`
}

func (c *controller) handlePlayTrack(ctx context.Context, conn *websocket.Conn, payload json.RawMessage) {
	var input playTrackInput
	if !c.readInput(conn, payload, &input) {
		return
	}

	if _, err := c.playerService.PlayTrack(ctx, &player.PlayTrackParams{
		Song:        input.Song,
		PlaylistKey: input.PlaylistKey,
	}); err != nil {
		c.sendError(conn, err)
	}
}

type playPlaylistInput struct {
	PlaylistKey string `json:"playlistKey" validate:"required"`
	StartIndex  int    `json:"startIndex"`
}

func (c *controller) handlePlayPlaylist(ctx context.Context, conn *websocket.Conn, payload json.RawMessage) {
	var input playPlaylistInput
	if !c.readInput(conn, payload, &input) {
		return
	}

	if _, err := c.playerService.PlayPlaylist(ctx, &player.PlayPlaylistParams{
		PlaylistKey: input.PlaylistKey,
		StartIndex:  input.StartIndex,
	}); err != nil {
		c.sendError(conn, err)
	}
}

func (c *controller) handleTogglePlay(ctx context.Context, conn *websocket.Conn, _ json.RawMessage) {
	if _, err := c.playerService.TogglePlay(ctx); err != nil {
		c.sendError(conn, err)
	}
}

func (c *controller) handleToggleMute(ctx context.Context, conn *websocket.Conn, _ json.RawMessage) {
	if _, err := c.playerService.ToggleMute(ctx); err != nil {
		c.sendError(conn, err)
	}
}

type setVolumeInput struct {
	Volume int `json:"volume" validate:"min=0,max=100"`
}

func (c *controller) handleSetVolume(ctx context.Context, conn *websocket.Conn, payload json.RawMessage) {
	var input setVolumeInput
	if !c.readInput(conn, payload, &input) {
		return
	}

	if _, err := c.playerService.SetVolume(ctx, input.Volume); err != nil {
		c.sendError(conn, err)
	}
}

type setShuffleInput struct {
	Shuffle bool `json:"shuffle"`
}

func (c *controller) handleSetShuffle(ctx context.Context, conn *websocket.Conn, payload json.RawMessage) {
	var input setShuffleInput
	if !c.readInput(conn, payload, &input) {
		return
	}

	if _, err := c.playerService.SetShuffle(ctx, input.Shuffle); err != nil {
		c.sendError(conn, err)
	}
}

type setRepeatInput struct {
	Repeat bool `json:"repeat"`
}

func (c *controller) handleSetRepeat(ctx context.Context, conn *websocket.Conn, payload json.RawMessage) {
	var input setRepeatInput
	if !c.readInput(conn, payload, &input) {
		return
	}

	if _, err := c.playerService.SetRepeat(ctx, input.Repeat); err != nil {
		c.sendError(conn, err)
	}
}

func (c *controller) handleNext(ctx context.Context, conn *websocket.Conn, _ json.RawMessage) {
	if _, err := c.playerService.Advance(ctx, player.DirectionNext); err != nil {
		c.sendError(conn, err)
	}
}

func (c *controller) handlePrev(ctx context.Context, conn *websocket.Conn, _ json.RawMessage) {
	if _, err := c.playerService.Advance(ctx, player.DirectionPrev); err != nil {
		c.sendError(conn, err)
	}
}

func (c *controller) handlePlayerReady(_ context.Context, _ *websocket.Conn, _ json.RawMessage) {
	c.remotePlayer.MarkReady()
}

func (c *controller) handlePlayerEnded(_ context.Context, _ *websocket.Conn, _ json.RawMessage) {
	c.remotePlayer.NotifyEnded()
}

type addSongInput struct {
	PlaylistKey string `json:"playlistKey" validate:"required"`
	Title       string `json:"title" validate:"required"`
	Movie       string `json:"movie"`
	Artist      string `json:"artist"`
	Source      string `json:"source" validate:"required"`
}

func (c *controller) handleAddSong(ctx context.Context, conn *websocket.Conn, payload json.RawMessage) {
	var input addSongInput
	if !c.readInput(conn, payload, &input) {
		return
	}

	if _, err := c.musicService.AddSong(ctx, &music.AddSongParams{
		PlaylistKey: input.PlaylistKey,
		Title:       input.Title,
		Movie:       input.Movie,
		Artist:      input.Artist,
		Source:      input.Source,
	}); err != nil {
		c.sendError(conn, err)
	}
}

type removeSongInput struct {
	PlaylistKey string `json:"playlistKey" validate:"required"`
	SongId      string `json:"songId" validate:"required"`
}

func (c *controller) handleRemoveSong(ctx context.Context, conn *websocket.Conn, payload json.RawMessage) {
	var input removeSongInput
	if !c.readInput(conn, payload, &input) {
		return
	}

	if err := c.musicService.RemoveSong(ctx, input.PlaylistKey, input.SongId); err != nil {
		c.sendError(conn, err)
	}
}

type updateSongInput struct {
	PlaylistKey string  `json:"playlistKey" validate:"required"`
	SongId      string  `json:"songId" validate:"required"`
	Title       *string `json:"title"`
	Movie       *string `json:"movie"`
	Artist      *string `json:"artist"`
	Source      *string `json:"source"`
}

func (c *controller) handleUpdateSong(ctx context.Context, conn *websocket.Conn, payload json.RawMessage) {
	var input updateSongInput
	if !c.readInput(conn, payload, &input) {
		return
	}

	if _, err := c.musicService.UpdateSong(ctx, &music.UpdateSongParams{
		PlaylistKey: input.PlaylistKey,
		SongId:      input.SongId,
		Title:       input.Title,
		Movie:       input.Movie,
		Artist:      input.Artist,
		Source:      input.Source,
	}); err != nil {
		c.sendError(conn, err)
	}
}

type updatePhotoInput struct {
	Id       string    `json:"id" validate:"required"`
	Members  *[]string `json:"members"`
	Occasion *string   `json:"occasion"`
	Year     *int      `json:"year"`
	Month    *int      `json:"month"`
	Day      *int      `json:"day"`
	Mood     *string   `json:"mood"`
	Caption  *string   `json:"caption"`
}

func (c *controller) handleUpdatePhoto(ctx context.Context, conn *websocket.Conn, payload json.RawMessage) {
	var input updatePhotoInput
	if !c.readInput(conn, payload, &input) {
		return
	}

	if _, err := c.photoService.UpdatePhoto(ctx, &photo.UpdatePhotoParams{
		Id:       input.Id,
		Members:  input.Members,
		Occasion: input.Occasion,
		Year:     input.Year,
		Month:    input.Month,
		Day:      input.Day,
		Mood:     input.Mood,
		Caption:  input.Caption,
	}); err != nil {
		c.sendError(conn, err)
	}
}

type photoIdInput struct {
	Id string `json:"id" validate:"required"`
}

func (c *controller) handleToggleFavorite(ctx context.Context, conn *websocket.Conn, payload json.RawMessage) {
	var input photoIdInput
	if !c.readInput(conn, payload, &input) {
		return
	}

	if _, err := c.photoService.ToggleFavorite(ctx, input.Id); err != nil {
		c.sendError(conn, err)
	}
}

func (c *controller) handleDeletePhoto(ctx context.Context, conn *websocket.Conn, payload json.RawMessage) {
	var input photoIdInput
	if !c.readInput(conn, payload, &input) {
		return
	}

	if err := c.photoService.DeletePhoto(ctx, input.Id); err != nil {
		c.sendError(conn, err)
	}
}
