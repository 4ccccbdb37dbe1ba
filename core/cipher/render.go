package cipher

import (
	"fmt"
	"strings"

	"WorshipHub/core/theory"
	"WorshipHub/logger"
	"WorshipHub/model"
)

// RowKind distinguishes chord rows from lyric rows.
type RowKind string

const (
	RowChords RowKind = "chords"
	RowLyric  RowKind = "lyric"
)

// Row is one display line of a rendered song.
type Row struct {
	Kind      RowKind `json:"kind"`
	Text      string  `json:"text"`
	LineIndex int     `json:"lineIndex"`
}

// SplitLyrics splits lyrics into display lines, tolerating CRLF.
func SplitLyrics(lyrics string) []string {
	lines := strings.Split(lyrics, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}

// Render projects a song and its cipher into display rows: for every lyric
// line, the chord rows anchored to it (in stored order) and then the lyric
// itself, lower-cased.
func Render(song *model.Music, c Cipher) []Row {
	lines := SplitLyrics(song.Lyrics)

	byIndex := make(map[int][]ChordLine, len(c.ChordLines))
	for _, cl := range c.ChordLines {
		byIndex[cl.LyricsLineIndex] = append(byIndex[cl.LyricsLineIndex], cl)
	}
	if stale := StaleLines(c, len(lines)); len(stale) > 0 {
		logger.Warn("cipher has chord rows outside the lyrics",
			logger.String("music", song.ID),
			logger.Int("stale", len(stale)),
			logger.Int("lines", len(lines)))
	}

	rows := make([]Row, 0, len(lines)+len(c.ChordLines))
	for i, line := range lines {
		for _, cl := range byIndex[i] {
			rows = append(rows, Row{Kind: RowChords, Text: cl.Chords, LineIndex: i})
		}
		rows = append(rows, Row{Kind: RowLyric, Text: strings.ToLower(line), LineIndex: i})
	}
	return rows
}

// Text renders rows as a plain-text chord sheet.
func Text(rows []Row) string {
	var b strings.Builder
	for _, r := range rows {
		b.WriteString(r.Text)
		b.WriteByte('\n')
	}
	return b.String()
}

// Sheet is a song rendered in one key.
type Sheet struct {
	MusicID string `json:"musicId"`
	Title   string `json:"title"`
	Artist  string `json:"artist,omitempty"`
	Key     string `json:"key"`
	Rows    []Row  `json:"rows"`
	Stale   int    `json:"stale,omitempty"`
}

// NewSheet renders song, first moving c to key when key is set.
func NewSheet(song *model.Music, c Cipher, key string) (Sheet, error) {
	if key != "" && key != c.Key {
		if _, err := theory.ParseKey(key); err != nil {
			return Sheet{}, err
		}
		c = ChangeKey(c, key)
	}
	return Sheet{
		MusicID: song.ID,
		Title:   song.Title,
		Artist:  song.Artist,
		Key:     c.Key,
		Rows:    Render(song, c),
		Stale:   len(StaleLines(c, len(SplitLyrics(song.Lyrics)))),
	}, nil
}

// Text renders the sheet as plain text under a title line.
func (s Sheet) Text() string {
	title := s.Title
	if s.Artist != "" {
		title += " - " + s.Artist
	}
	return fmt.Sprintf("%s (%s)\n\n%s", title, s.Key, Text(s.Rows))
}
