// Package theory transposes chord symbols between musical keys.
package theory

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var (
	ErrInvalidKey   = errors.New("invalid key")
	ErrInvalidChord = errors.New("invalid chord")
)

// Transposer moves a single chord symbol from one key to another.
type Transposer interface {
	Transpose(chord, fromKey, toKey string) (string, error)
}

// TransposerFunc adapts a plain function to Transposer.
type TransposerFunc func(chord, fromKey, toKey string) (string, error)

func (f TransposerFunc) Transpose(chord, fromKey, toKey string) (string, error) {
	return f(chord, fromKey, toKey)
}

var (
	sharpNames   = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}
	flatNames    = [12]string{"C", "Db", "D", "Eb", "E", "F", "Gb", "G", "Ab", "A", "Bb", "B"}
	naturalNames = [12]string{"C", "C#", "D", "Eb", "E", "F", "F#", "G", "G#", "A", "Bb", "B"}

	letterPitch = map[byte]int{'C': 0, 'D': 2, 'E': 4, 'F': 5, 'G': 7, 'A': 9, 'B': 11}

	// major tonics written with flats; minor keys use their relative major
	flatTonics = map[int]bool{5: true, 10: true, 3: true, 8: true, 1: true, 6: true}

	keyPattern   = regexp.MustCompile(`^([A-G])(#|b)?(m|min)?$`)
	chordPattern = regexp.MustCompile(`^([A-G])(#|b)?([^/]*)(?:/([A-G])(#|b)?)?$`)
)

// Key is a parsed musical key.
type Key struct {
	Tonic int // pitch class 0-11, C = 0
	Minor bool
}

// ParseKey parses keys such as "C", "F#", "Bb", "Am" or "Ebm".
func ParseKey(s string) (Key, error) {
	m := keyPattern.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return Key{}, fmt.Errorf("%w: %q", ErrInvalidKey, s)
	}
	return Key{Tonic: pitch(m[1][0], m[2]), Minor: m[3] != ""}, nil
}

// spelling picks the note names used when writing chords in k.
func (k Key) spelling() [12]string {
	major := k.Tonic
	if k.Minor {
		major = (k.Tonic + 3) % 12
	}
	switch {
	case major == 0:
		return naturalNames
	case flatTonics[major]:
		return flatNames
	default:
		return sharpNames
	}
}

func pitch(letter byte, accidental string) int {
	p := letterPitch[letter]
	switch accidental {
	case "#":
		p++
	case "b":
		p--
	}
	return (p + 12) % 12
}

// Semitone transposes by the interval between the two key tonics. The chord
// quality is copied verbatim; root and bass note are respelled for the target key.
type Semitone struct{}

func (Semitone) Transpose(chord, fromKey, toKey string) (string, error) {
	from, err := ParseKey(fromKey)
	if err != nil {
		return "", err
	}
	to, err := ParseKey(toKey)
	if err != nil {
		return "", err
	}
	m := chordPattern.FindStringSubmatch(chord)
	if m == nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidChord, chord)
	}

	shift := (to.Tonic - from.Tonic + 12) % 12
	names := to.spelling()

	var b strings.Builder
	b.WriteString(names[(pitch(m[1][0], m[2])+shift)%12])
	b.WriteString(m[3])
	if m[4] != "" {
		b.WriteByte('/')
		b.WriteString(names[(pitch(m[4][0], m[5])+shift)%12])
	}
	return b.String(), nil
}
