package theory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKey(t *testing.T) {
	k, err := ParseKey("Am")
	require.NoError(t, err)
	assert.Equal(t, Key{Tonic: 9, Minor: true}, k)

	k, err = ParseKey("Bb")
	require.NoError(t, err)
	assert.Equal(t, Key{Tonic: 10}, k)

	_, err = ParseKey("H")
	assert.ErrorIs(t, err, ErrInvalidKey)
}

func TestSemitone_Transpose(t *testing.T) {
	cases := []struct {
		chord, from, to, want string
	}{
		{"C", "C", "D", "D"},
		{"Am", "C", "D", "Bm"},
		{"F", "C", "D", "G"},
		{"G7", "C", "D", "A7"},
		{"C/E", "C", "D", "D/F#"},
		{"Cmaj7", "C", "F", "Fmaj7"},
		{"G", "C", "F", "C"},
		{"E", "C", "F", "A"},
		{"D", "C", "F", "G"},
		{"A", "C", "F", "D"},
		{"B", "C", "F", "E"},
		{"Bb", "C", "G", "F"},
		{"Dsus4", "D", "Eb", "Ebsus4"},
		{"F#m", "D", "C", "Em"},
		{"E", "Am", "Em", "B"},
	}
	for _, tc := range cases {
		got, err := Semitone{}.Transpose(tc.chord, tc.from, tc.to)
		require.NoError(t, err, tc.chord)
		assert.Equal(t, tc.want, got, "%s %s->%s", tc.chord, tc.from, tc.to)
	}
}

func TestSemitone_Errors(t *testing.T) {
	_, err := Semitone{}.Transpose("Xyz", "C", "D")
	assert.ErrorIs(t, err, ErrInvalidChord)

	_, err = Semitone{}.Transpose("C", "Q", "D")
	assert.ErrorIs(t, err, ErrInvalidKey)
}

func TestSemitone_RoundTripNaturals(t *testing.T) {
	for _, chord := range []string{"C", "Dm", "Em7", "F", "G/B", "Am", "Bdim"} {
		d, err := Semitone{}.Transpose(chord, "C", "D")
		require.NoError(t, err)
		back, err := Semitone{}.Transpose(d, "D", "C")
		require.NoError(t, err)
		assert.Equal(t, chord, back)
	}
}
