package domain

// PlaybackState is the single source of truth for the music player. It is
// owned by the player service and mutated only through its operations.
type PlaybackState struct {
	CurrentSong     *Song  `json:"current_song"`
	CurrentPlaylist string `json:"current_playlist,omitempty"`
	IsPlaying       bool   `json:"is_playing"`
	IsMuted         bool   `json:"is_muted"`
	Volume          int    `json:"volume"`
	Shuffle         bool   `json:"shuffle"`
	Repeat          bool   `json:"repeat"`
	PlayerReady     bool   `json:"player_ready"`
}

func NewPlaybackState() *PlaybackState {
	return &PlaybackState{
		IsMuted: true,
		Volume:  70,
	}
}
