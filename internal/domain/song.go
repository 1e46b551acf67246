package domain

// Song json tags follow the persisted playlist document layout.
type Song struct {
	Id       string `json:"id"`
	Title    string `json:"title"`
	Movie    string `json:"movie"`
	SourceId string `json:"sourceId"`
	Artist   string `json:"artist"`
}
