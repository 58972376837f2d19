package linker

import (
	"strings"
	"unicode"
)

// isJoiner returns true for punctuation that commonly appears INSIDE titles.
// These are preserved during canonicalization so multiword titles stay
// coherent. Examples: "O'Brien's Notes", "Jean-Luc", "Q&A", "v1.2 Plan".
func isJoiner(r rune) bool {
	switch r {
	case '\'', '’', '‘', // apostrophe, curly apostrophe variants
		'-', '–', '—', // hyphen, en-dash, em-dash
		'·', '.', '_', '/', '#', '&':
		return true
	default:
		return false
	}
}

// Canonicalize transforms text into the normalized form used for
// Aho-Corasick matching. The SAME function is applied to title patterns at
// compile time and to document text at scan time; matching breaks silently
// if the two sides ever diverge.
//
// Rules: fold to lowercase, normalize curly apostrophes and dashes,
// preserve letters/digits/joiners, collapse every other run of characters
// into a single space, trim.
func Canonicalize(s string) string {
	var out strings.Builder
	out.Grow(len(s))

	lastWasSpace := true // true so leading separators are trimmed
	for _, ch := range s {
		c := unicode.ToLower(ch)
		if c == '’' || c == '‘' {
			c = '\''
		}
		if c == '–' || c == '—' {
			c = '-'
		}

		if unicode.IsLetter(c) || unicode.IsDigit(c) || isJoiner(c) {
			out.WriteRune(c)
			lastWasSpace = false
		} else if !lastWasSpace {
			out.WriteRune(' ')
			lastWasSpace = true
		}
	}

	return strings.TrimRight(out.String(), " ")
}
