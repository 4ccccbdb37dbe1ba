package model

// Music is a song in a group's library. Cipher holds the serialized chord
// arrangement and is opaque to the backend.
type Music struct {
	ID      string `json:"id"`
	GroupID string `json:"groupId"`
	Title   string `json:"title"`
	Artist  string `json:"artist,omitempty"`
	Tone    string `json:"tone,omitempty"`
	Lyrics  string `json:"lyrics,omitempty"`
	Cipher  string `json:"cipher,omitempty"`
	Link    string `json:"link,omitempty"`
}
