package domain

// Photo json tags follow the persisted photo document layout. DownloadUrl
// points at the CDN asset; the asset itself outlives the document since
// unsigned uploads cannot be deleted through the CDN API.
type Photo struct {
	Id                 string   `json:"id"`
	CloudinaryPublicId string   `json:"cloudinaryPublicId"`
	DownloadUrl        string   `json:"downloadUrl"`
	Members            []string `json:"members"`
	Occasion           string   `json:"occasion"`
	Year               int      `json:"year"`
	Month              int      `json:"month"`
	Day                int      `json:"day"`
	Mood               string   `json:"mood"`
	Caption            string   `json:"caption"`
	Favorite           bool     `json:"favorite"`
	CreatedAt          int64    `json:"createdAt"`
	UpdatedAt          int64    `json:"updatedAt"`
}
