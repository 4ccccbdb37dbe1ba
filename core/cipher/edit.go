package cipher

import (
	"fmt"
	"strconv"
)

// Field names a ChordLine field editable through UpdateLine.
type Field string

const (
	FieldChords          Field = "chords"
	FieldLyrics          Field = "lyrics"
	FieldLyricsLineIndex Field = "lyricsLineIndex"
)

// AddLine appends an empty chord row anchored to lyric line 0.
func AddLine(c Cipher) Cipher {
	out := c.clone()
	out.ChordLines = append(out.ChordLines, ChordLine{ID: newID()})
	return out
}

// RemoveLine drops the row with the given id. Unknown ids are ignored.
func RemoveLine(c Cipher, id string) Cipher {
	out := Cipher{Key: c.Key, ChordLines: make([]ChordLine, 0, len(c.ChordLines))}
	for _, line := range c.ChordLines {
		if line.ID != id {
			out.ChordLines = append(out.ChordLines, line)
		}
	}
	return out
}

// UpdateLine replaces one field of the row with the given id. Unknown ids are
// ignored; an index that is not a non-negative integer returns ErrInvalidValue.
func UpdateLine(c Cipher, id string, field Field, value string) (Cipher, error) {
	out := c.clone()
	for i := range out.ChordLines {
		if out.ChordLines[i].ID != id {
			continue
		}
		switch field {
		case FieldChords:
			out.ChordLines[i].Chords = value
		case FieldLyrics:
			out.ChordLines[i].Lyrics = value
		case FieldLyricsLineIndex:
			idx, err := strconv.Atoi(value)
			if err != nil || idx < 0 {
				return c, fmt.Errorf("%w: lyricsLineIndex %q", ErrInvalidValue, value)
			}
			out.ChordLines[i].LyricsLineIndex = idx
		default:
			return c, fmt.Errorf("%w: unknown field %q", ErrInvalidValue, field)
		}
		return out, nil
	}
	return out, nil
}

// StaleLines returns rows whose lyric index falls outside [0, lineCount).
// Lyrics edited after the cipher was written leave such rows behind; they are
// reported here and left in place.
func StaleLines(c Cipher, lineCount int) []ChordLine {
	var stale []ChordLine
	for _, line := range c.ChordLines {
		if line.LyricsLineIndex < 0 || line.LyricsLineIndex >= lineCount {
			stale = append(stale, line)
		}
	}
	return stale
}
