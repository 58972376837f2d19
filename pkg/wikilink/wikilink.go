// Package wikilink extracts wikilink targets from serialized rich-text
// documents. The editor persists a wikilink as an inline span node:
//
//	<span data-type="wikilink" data-id="<note id>" data-label="<title>">[[Title]]</span>
//
// The store treats note content as opaque; this package is the one place
// that knows the serialization, so the save path can derive a note's
// outbound user_wikilink edge set from its body.
package wikilink

import "regexp"

// Wikilink is one extracted reference. ID is the target note id; Label is
// the display text the author saw, which may be stale relative to the
// target note's current title.
type Wikilink struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

var (
	spanRe  = regexp.MustCompile(`(?is)<span\b[^>]*\bdata-type="wikilink"[^>]*>`)
	idRe    = regexp.MustCompile(`\bdata-id="([^"]*)"`)
	labelRe = regexp.MustCompile(`\bdata-label="([^"]*)"`)
)

// Extract returns the wikilinks of a serialized document in document order,
// one entry per distinct target id. Spans without a data-id (unresolved
// links the editor never bound to a note) are skipped.
func Extract(doc string) []Wikilink {
	spans := spanRe.FindAllString(doc, -1)
	if len(spans) == 0 {
		return nil
	}

	seen := make(map[string]bool, len(spans))
	links := make([]Wikilink, 0, len(spans))
	for _, span := range spans {
		m := idRe.FindStringSubmatch(span)
		if m == nil || m[1] == "" {
			continue
		}
		id := m[1]
		if seen[id] {
			continue
		}
		seen[id] = true

		link := Wikilink{ID: id}
		if lm := labelRe.FindStringSubmatch(span); lm != nil {
			link.Label = lm[1]
		}
		links = append(links, link)
	}
	return links
}

var tagRe = regexp.MustCompile(`(?s)<[^>]*>`)

// StripTags reduces a serialized document to its visible text, replacing
// every tag with a space so adjacent words don't fuse. Good enough for
// mention scanning; not a sanitizer.
func StripTags(doc string) string {
	return tagRe.ReplaceAllString(doc, " ")
}

// ExtractIDs returns just the distinct target ids in document order.
func ExtractIDs(doc string) []string {
	links := Extract(doc)
	if len(links) == 0 {
		return nil
	}
	ids := make([]string, len(links))
	for i, l := range links {
		ids[i] = l.ID
	}
	return ids
}
