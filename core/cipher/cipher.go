// Package cipher holds the chord arrangement attached to a song: chord rows
// anchored to lyric line indices, plus the key they are written in.
package cipher

import (
	"encoding/json"
	"errors"
	"strings"

	"WorshipHub/logger"

	"github.com/google/uuid"
)

// DefaultKey is used when neither the stored cipher nor the song carries a key.
const DefaultKey = "C"

var ErrInvalidValue = errors.New("invalid field value")

// ChordLine is one row of chords rendered above a lyric line.
type ChordLine struct {
	ID              string `json:"id"`
	Chords          string `json:"chords"`
	Lyrics          string `json:"lyrics"` // reserved, always empty today
	LyricsLineIndex int    `json:"lyricsLineIndex"`
}

// Cipher is the chord arrangement of a song.
type Cipher struct {
	Key        string      `json:"key"`
	ChordLines []ChordLine `json:"chordLines"`
}

// legacySegment is the pre-chordLines storage format.
type legacySegment struct {
	Chord     string `json:"chord"`
	LineIndex int    `json:"lineIndex"`
}

// wireCipher accepts both stored shapes. Exactly one of ChordLines or
// Segments is expected to be present.
type wireCipher struct {
	Key        string           `json:"key"`
	ChordLines *[]ChordLine     `json:"chordLines"`
	Segments   *[]legacySegment `json:"segments"`
}

func newID() string {
	return uuid.NewString()
}

// Load parses a stored cipher string. Legacy segment payloads are converted to
// chord lines. Empty or malformed input yields an empty cipher in fallbackTone
// (or DefaultKey); errors are logged, never returned.
func Load(raw, fallbackTone string) Cipher {
	empty := Cipher{Key: orDefault(fallbackTone), ChordLines: []ChordLine{}}
	if strings.TrimSpace(raw) == "" {
		return empty
	}

	var w wireCipher
	if err := json.Unmarshal([]byte(raw), &w); err != nil {
		logger.Warn("failed to parse cipher, using empty arrangement", logger.ErrorField(err))
		return empty
	}

	switch {
	case w.Segments != nil && w.ChordLines == nil:
		c := Cipher{Key: orDefault(w.Key), ChordLines: make([]ChordLine, 0, len(*w.Segments))}
		for _, seg := range *w.Segments {
			c.ChordLines = append(c.ChordLines, ChordLine{
				ID:              newID(),
				Chords:          seg.Chord,
				LyricsLineIndex: seg.LineIndex,
			})
		}
		logger.Debug("upgraded legacy cipher", logger.Int("segments", len(*w.Segments)))
		return c
	case w.ChordLines != nil:
		key := w.Key
		if key == "" {
			key = empty.Key
		}
		lines := make([]ChordLine, len(*w.ChordLines))
		copy(lines, *w.ChordLines)
		return Cipher{Key: key, ChordLines: lines}
	default:
		logger.Warn("cipher has neither chordLines nor segments, using empty arrangement")
		return empty
	}
}

func orDefault(key string) string {
	if key == "" {
		return DefaultKey
	}
	return key
}

// Serialize encodes c in the current storage format.
func Serialize(c Cipher) (string, error) {
	if c.ChordLines == nil {
		c.ChordLines = []ChordLine{}
	}
	data, err := json.Marshal(c)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// clone copies c so edits never alias the caller's slice.
func (c Cipher) clone() Cipher {
	lines := make([]ChordLine, len(c.ChordLines))
	copy(lines, c.ChordLines)
	return Cipher{Key: c.Key, ChordLines: lines}
}
