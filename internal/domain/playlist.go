package domain

type Playlist struct {
	Name      string `json:"name"`
	Emoji     string `json:"emoji"`
	Color     string `json:"color"`
	Songs     []Song `json:"songs"`
	UpdatedAt int64  `json:"updatedAt"`
}
