package cipher

import (
	"regexp"
	"strings"

	"WorshipHub/core/theory"
	"WorshipHub/logger"
)

var (
	tokenPattern = regexp.MustCompile(`\S+`)
	// root, any run of quality marks (7sus4, m7b5, 7M, 7+, (9)...), optional bass
	chordHead = regexp.MustCompile(`^[A-G](?:#|b)?(?:maj|min|aug|dim|sus|add|m|M|\+|-|°|º|b\d+|#\d+|\d+|\(\w+\))*(?:/[A-G](?:#|b)?)?`)
	chordTail = regexp.MustCompile(`^[)\]|,.;:*~'!]*$`)
)

const chordLead = "([|"

// DefaultTransposer is used by ChangeKey.
var DefaultTransposer theory.Transposer = theory.Semitone{}

// IsChord reports whether token is recognised as a chord symbol, possibly
// wrapped in brackets or followed by a bar line.
func IsChord(token string) bool {
	_, _, _, ok := splitChord(token)
	return ok
}

// splitChord cuts a token into its opening brackets, the chord symbol and the
// trailing punctuation.
func splitChord(token string) (lead, chord, tail string, ok bool) {
	rest := strings.TrimLeft(token, chordLead)
	lead = token[:len(token)-len(rest)]
	chord = chordHead.FindString(rest)
	if chord == "" {
		return "", "", "", false
	}
	tail = rest[len(chord):]
	if !chordTail.MatchString(tail) {
		return "", "", "", false
	}
	return lead, chord, tail, true
}

// ChangeKey rewrites every chord token from c.Key to newKey.
func ChangeKey(c Cipher, newKey string) Cipher {
	return ChangeKeyWith(DefaultTransposer, c, newKey)
}

// ChangeKeyWith is ChangeKey with an explicit transposer. Tokens that are not
// chords are kept as written; tokens the transposer rejects are kept and logged.
func ChangeKeyWith(t theory.Transposer, c Cipher, newKey string) Cipher {
	if newKey == c.Key {
		return c
	}
	out := c.clone()
	for i := range out.ChordLines {
		out.ChordLines[i].Chords = transposeLine(t, out.ChordLines[i].Chords, c.Key, newKey)
	}
	out.Key = newKey
	return out
}

func transposeLine(t theory.Transposer, chords, from, to string) string {
	return tokenPattern.ReplaceAllStringFunc(chords, func(token string) string {
		lead, chord, tail, ok := splitChord(token)
		if !ok {
			logger.Debug("token is not a chord, kept as written", logger.String("token", token))
			return token
		}
		moved, err := t.Transpose(chord, from, to)
		if err != nil {
			logger.Warn("chord transpose failed, keeping original",
				logger.String("chord", token),
				logger.String("from", from),
				logger.String("to", to),
				logger.ErrorField(err))
			return token
		}
		return lead + moved + tail
	})
}
