package chat

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Confirmation phrasing. The two lists match differently on purpose:
// affirmatives match on a bare prefix so "yes please", "y", and even
// "yesterday" confirm, while negatives require a word boundary so "no thanks"
// cancels but "nope" and "note" fall through to normal handling.
var affirmativeWords = []string{
	"yes", "y", "sure", "confirm", "yep", "ok", "okay", "go ahead", "please do",
}

var negativeWords = []string{
	"no", "nah", "cancel", "stop", "don't", "do not", "not now",
}

// isAffirmative expects lower-cased, trimmed input.
func isAffirmative(text string) bool {
	for _, w := range affirmativeWords {
		if strings.HasPrefix(text, w) {
			return true
		}
	}
	return false
}

// isNegative expects lower-cased, trimmed input. The word must end on a
// boundary: "no thanks" and "no, forget it" cancel, "nope" does not.
func isNegative(text string) bool {
	for _, w := range negativeWords {
		if text == w {
			return true
		}
		if strings.HasPrefix(text, w) {
			r, _ := utf8.DecodeRuneInString(text[len(w):])
			if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
				return true
			}
		}
	}
	return false
}
