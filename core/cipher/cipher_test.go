package cipher

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"WorshipHub/core/theory"
	"WorshipHub/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_LegacyKeyWinsOverFallback(t *testing.T) {
	c := Load(`{"key":"C","segments":[{"chord":"Am","lineIndex":2}]}`, "D")

	assert.Equal(t, "C", c.Key)
	require.Len(t, c.ChordLines, 1)
	assert.Equal(t, "Am", c.ChordLines[0].Chords)
	assert.Equal(t, "", c.ChordLines[0].Lyrics)
	assert.Equal(t, 2, c.ChordLines[0].LyricsLineIndex)
	assert.NotEmpty(t, c.ChordLines[0].ID)
}

func TestLoad_LegacyWithoutKeyDefaultsToC(t *testing.T) {
	c := Load(`{"segments":[{"chord":"G","lineIndex":0},{"chord":"D","lineIndex":1}]}`, "E")

	assert.Equal(t, DefaultKey, c.Key)
	require.Len(t, c.ChordLines, 2)
	assert.NotEqual(t, c.ChordLines[0].ID, c.ChordLines[1].ID)
}

func TestLoad_LegacySerializesAsCurrentFormat(t *testing.T) {
	c := Load(`{"key":"G","segments":[{"chord":"G","lineIndex":0},{"chord":"C","lineIndex":0},{"chord":"D","lineIndex":3}]}`, "")

	out, err := Serialize(c)
	require.NoError(t, err)

	var decoded map[string]json.RawMessage
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.NotContains(t, decoded, "segments")
	assert.Contains(t, decoded, "chordLines")

	again := Load(out, "")
	assert.Len(t, again.ChordLines, 3)
	assert.Equal(t, c, again)
}

func TestLoad_CurrentFormat(t *testing.T) {
	raw := `{"key":"D","chordLines":[{"id":"a","chords":"D G","lyrics":"","lyricsLineIndex":1}]}`
	c := Load(raw, "E")

	assert.Equal(t, Cipher{Key: "D", ChordLines: []ChordLine{{ID: "a", Chords: "D G", LyricsLineIndex: 1}}}, c)
}

func TestLoad_EmptyOrBrokenUsesFallback(t *testing.T) {
	for _, raw := range []string{"", "   ", "{not json", `{"key":"A"}`, "[]"} {
		c := Load(raw, "E")
		assert.Equal(t, "E", c.Key, raw)
		assert.Empty(t, c.ChordLines, raw)
	}

	c := Load("", "")
	assert.Equal(t, DefaultKey, c.Key)
}

func TestSerialize_EmptyLinesIsArray(t *testing.T) {
	out, err := Serialize(Cipher{Key: "C"})
	require.NoError(t, err)
	assert.Equal(t, `{"key":"C","chordLines":[]}`, out)
}

func TestEditOperations(t *testing.T) {
	c := Cipher{Key: "C", ChordLines: []ChordLine{}}

	c = AddLine(c)
	c = AddLine(c)
	require.Len(t, c.ChordLines, 2)
	assert.Equal(t, 0, c.ChordLines[0].LyricsLineIndex)
	assert.Equal(t, 0, c.ChordLines[1].LyricsLineIndex)

	first := c.ChordLines[0].ID
	updated, err := UpdateLine(c, first, FieldChords, "C G")
	require.NoError(t, err)
	assert.Equal(t, "C G", updated.ChordLines[0].Chords)
	assert.Equal(t, "", c.ChordLines[0].Chords, "input must not be mutated")

	updated, err = UpdateLine(updated, first, FieldLyricsLineIndex, "3")
	require.NoError(t, err)
	assert.Equal(t, 3, updated.ChordLines[0].LyricsLineIndex)

	_, err = UpdateLine(updated, first, FieldLyricsLineIndex, "-1")
	assert.True(t, errors.Is(err, ErrInvalidValue))

	same, err := UpdateLine(updated, "missing", FieldChords, "x")
	require.NoError(t, err)
	assert.Equal(t, updated, same)

	removed := RemoveLine(updated, first)
	require.Len(t, removed.ChordLines, 1)
	assert.Equal(t, removed, RemoveLine(removed, "missing"))
}

func TestChangeKey_SameKeyIsIdentity(t *testing.T) {
	c := Cipher{Key: "C", ChordLines: []ChordLine{{ID: "1", Chords: "C Am F G"}}}
	assert.Equal(t, c, ChangeKey(c, "C"))
}

func TestChangeKey_WholeStep(t *testing.T) {
	c := Cipher{Key: "C", ChordLines: []ChordLine{
		{ID: "1", Chords: "C Am F G"},
		{ID: "2", Chords: "Xyz  C/E   G7"},
		{ID: "3", Chords: "C7sus4 Bm7b5 G7M F7+ E4 (Am) C|"},
		{ID: "4", Chords: "Intro [Dm7] | G/B | Bridge"},
	}}

	out := ChangeKey(c, "D")

	assert.Equal(t, "D", out.Key)
	assert.Equal(t, "D Bm G A", out.ChordLines[0].Chords)
	assert.Equal(t, "Xyz  D/F#   A7", out.ChordLines[1].Chords)
	assert.Equal(t, "D7sus4 C#m7b5 A7M G7+ F#4 (Bm) D|", out.ChordLines[2].Chords)
	assert.Equal(t, "Intro [Em7] | A/C# | Bridge", out.ChordLines[3].Chords)
	assert.Equal(t, "C Am F G", c.ChordLines[0].Chords, "input must not be mutated")
}

func TestChangeKey_RoundTrip(t *testing.T) {
	c := Cipher{Key: "C", ChordLines: []ChordLine{
		{ID: "1", Chords: "C Am F G"},
		{ID: "2", Chords: "Dm7 G/B Em"},
		{ID: "3", Chords: "C7sus4 Bm7b5 G7M F7+ E4 (Am) C|"},
	}}

	out := ChangeKey(ChangeKey(ChangeKey(c, "D"), "E"), "C")
	assert.Equal(t, c, out)
}

func TestChangeKey_FailedTokensKept(t *testing.T) {
	failing := theory.TransposerFunc(func(chord, from, to string) (string, error) {
		if chord == "F" {
			return "", errors.New("boom")
		}
		return strings.ToLower(chord), nil
	})
	c := Cipher{Key: "C", ChordLines: []ChordLine{{ID: "1", Chords: "C F G"}}}

	out := ChangeKeyWith(failing, c, "D")
	assert.Equal(t, "c F g", out.ChordLines[0].Chords)
	assert.Equal(t, "D", out.Key)
}

func TestIsChord(t *testing.T) {
	for _, tok := range []string{"C", "C#", "Bb", "Am", "Cmaj7", "Dsus4", "F#m7", "G/B", "Eb/Bb", "Aadd9", "E13",
		"C7sus4", "Bm7b5", "G7M", "F7+", "E4", "(Am)", "C|", "[D]", "G,"} {
		assert.True(t, IsChord(tok), tok)
	}
	for _, tok := range []string{"Xyz", "H", "c", "Am/", "Intro", "|", "Bridge", "(", "Capo"} {
		assert.False(t, IsChord(tok), tok)
	}
}

func TestRender(t *testing.T) {
	song := &model.Music{ID: "m1", Lyrics: "Amazing Grace\r\nHow Sweet\nThe Sound"}
	c := Cipher{Key: "G", ChordLines: []ChordLine{
		{ID: "1", Chords: "G", LyricsLineIndex: 0},
		{ID: "2", Chords: "C G", LyricsLineIndex: 2},
		{ID: "3", Chords: "D", LyricsLineIndex: 0},
	}}

	rows := Render(song, c)

	assert.Equal(t, []Row{
		{Kind: RowChords, Text: "G", LineIndex: 0},
		{Kind: RowChords, Text: "D", LineIndex: 0},
		{Kind: RowLyric, Text: "amazing grace", LineIndex: 0},
		{Kind: RowLyric, Text: "how sweet", LineIndex: 1},
		{Kind: RowChords, Text: "C G", LineIndex: 2},
		{Kind: RowLyric, Text: "the sound", LineIndex: 2},
	}, rows)
	assert.Equal(t, rows, Render(song, c))
	assert.Equal(t, "G\nD\namazing grace\nhow sweet\nC G\nthe sound\n", Text(rows))
}

func TestRender_NoChordsAndStaleLines(t *testing.T) {
	song := &model.Music{Lyrics: "One\nTwo"}

	rows := Render(song, Cipher{Key: "C"})
	assert.Equal(t, []Row{
		{Kind: RowLyric, Text: "one", LineIndex: 0},
		{Kind: RowLyric, Text: "two", LineIndex: 1},
	}, rows)

	c := Cipher{Key: "C", ChordLines: []ChordLine{{ID: "x", Chords: "C", LyricsLineIndex: 5}}}
	assert.Len(t, Render(song, c), 2)
	assert.Len(t, StaleLines(c, 2), 1)
}

func TestNewSheet_TransposesAndCountsStale(t *testing.T) {
	song := &model.Music{ID: "m1", Title: "Grace", Artist: "Band", Lyrics: "Amazing\nGrace"}
	c := Cipher{Key: "C", ChordLines: []ChordLine{
		{ID: "a", Chords: "C  G", LyricsLineIndex: 0},
		{ID: "b", Chords: "F", LyricsLineIndex: 5},
	}}

	sheet, err := NewSheet(song, c, "D")
	require.NoError(t, err)

	assert.Equal(t, "D", sheet.Key)
	assert.Equal(t, 1, sheet.Stale)
	require.Len(t, sheet.Rows, 3)
	assert.Equal(t, Row{Kind: RowChords, Text: "D  A", LineIndex: 0}, sheet.Rows[0])
	assert.Equal(t, "C  G", c.ChordLines[0].Chords, "input cipher untouched")
	assert.Equal(t, "Grace - Band (D)\n\nD  A\namazing\ngrace\n", sheet.Text())
}

func TestNewSheet_InvalidKey(t *testing.T) {
	_, err := NewSheet(&model.Music{}, Cipher{Key: "C"}, "H")
	assert.ErrorIs(t, err, theory.ErrInvalidKey)
}

func TestNewSheet_NoKeyKeepsArrangement(t *testing.T) {
	sheet, err := NewSheet(&model.Music{Lyrics: "x"}, Cipher{Key: "Em", ChordLines: []ChordLine{{Chords: "Em", LyricsLineIndex: 0}}}, "")
	require.NoError(t, err)
	assert.Equal(t, "Em", sheet.Key)
	assert.Equal(t, "Em", sheet.Rows[0].Text)
}
