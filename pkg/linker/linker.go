// Package linker generates candidate links for the "ai" link source by
// scanning note text for mentions of other notes' titles. A single
// Aho-Corasick automaton compiled over canonicalized titles serves every
// scan; rebuild it when the corpus changes. Suggestions are in-memory only —
// persisting them is the caller's call, via the store's ai-scoped link
// replacement.
package linker

import (
	"sort"
	"strings"

	"github.com/coregx/ahocorasick"
	"github.com/orsinium-labs/stopwords"
)

// NoteTitle is one compilable corpus entry.
type NoteTitle struct {
	ID    string
	Title string
}

// Dictionary matches note titles in free text.
type Dictionary struct {
	ac *ahocorasick.Automaton

	// pattern index -> note ids; distinct notes may share a title
	patternToIDs [][]string
	patterns     []string
}

var englishStopwords = stopwords.MustGet("en")

// compilable reports whether a canonicalized title is worth matching.
// Empty titles and bare stopwords ("the", "a", "was") would fire on nearly
// every document and drown real suggestions.
func compilable(key string) bool {
	if key == "" {
		return false
	}
	if !strings.Contains(key, " ") && englishStopwords.Contains(key) {
		return false
	}
	return true
}

// Compile builds a Dictionary from the current note corpus. Titles that
// canonicalize to nothing, or to a single stopword, are skipped.
func Compile(notes []NoteTitle) (*Dictionary, error) {
	d := &Dictionary{}
	patternIndex := make(map[string]int)

	for _, n := range notes {
		key := Canonicalize(n.Title)
		if !compilable(key) {
			continue
		}
		idx, ok := patternIndex[key]
		if !ok {
			idx = len(d.patterns)
			patternIndex[key] = idx
			d.patterns = append(d.patterns, key)
			d.patternToIDs = append(d.patternToIDs, nil)
		}
		d.patternToIDs[idx] = appendUnique(d.patternToIDs[idx], n.ID)
	}

	if len(d.patterns) == 0 {
		return d, nil
	}

	// LeftmostLongest prefers "project alpha review" over "project alpha".
	ac, err := ahocorasick.NewBuilder().
		AddStrings(d.patterns).
		SetMatchKind(ahocorasick.LeftmostLongest).
		SetPrefilter(true).
		Build()
	if err != nil {
		return nil, err
	}
	d.ac = ac
	return d, nil
}

// Size returns the number of compiled title patterns.
func (d *Dictionary) Size() int {
	return len(d.patterns)
}

// Suggest returns the distinct ids of notes whose titles appear in text,
// sorted for stable output. selfID is excluded — a note never links to
// itself by mention. Word boundaries are respected: "art" does not fire
// inside "startup".
func (d *Dictionary) Suggest(selfID, text string) []string {
	if d.ac == nil {
		return nil
	}

	haystack := Canonicalize(text)
	if haystack == "" {
		return nil
	}
	hay := []byte(haystack)

	ids := make(map[string]bool)
	for _, m := range d.ac.FindAllOverlapping(hay) {
		if !wholeWords(hay, m.Start, m.End) {
			continue
		}
		for _, id := range d.patternToIDs[m.PatternID] {
			if id != selfID {
				ids[id] = true
			}
		}
	}
	if len(ids) == 0 {
		return nil
	}

	out := make([]string, 0, len(ids))
	for id := range ids {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// wholeWords reports whether hay[start:end] sits on space boundaries within
// the canonicalized haystack.
func wholeWords(hay []byte, start, end int) bool {
	if start > 0 && hay[start-1] != ' ' {
		return false
	}
	if end < len(hay) && hay[end] != ' ' {
		return false
	}
	return true
}

func appendUnique(slice []string, item string) []string {
	for _, s := range slice {
		if s == item {
			return slice
		}
	}
	return append(slice, item)
}
