package model

// Setlist is an ordered selection of a group's musics for an event.
type Setlist struct {
	ID      string         `json:"id"`
	GroupID string         `json:"groupId"`
	Name    string         `json:"name"`
	Date    string         `json:"date,omitempty"` // YYYY-MM-DD
	Musics  []SetlistMusic `json:"musics"`
}

// SetlistMusic is one entry of a setlist. Tone overrides the music's own tone
// for this event when set.
type SetlistMusic struct {
	MusicID  string `json:"musicId"`
	Position int    `json:"position"`
	Tone     string `json:"tone,omitempty"`
}
