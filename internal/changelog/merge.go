package changelog

import (
	"strings"
	"unicode/utf8"
)

const (
	// UnreleasedMarker opens the section that accumulates pending changes.
	UnreleasedMarker = "## [Unreleased]"

	// MinimalContentLength is the shortest trimmed Unreleased body that
	// counts as hand-written content.
	MinimalContentLength = 10

	sectionMarker = "## ["
)

// unreleasedRegion returns the byte offsets of the first Unreleased region:
// from just after the marker up to the next "## [" or end of document.
func unreleasedRegion(document string) (start, end int, ok bool) {
	idx := strings.Index(document, UnreleasedMarker)
	if idx < 0 {
		return 0, 0, false
	}

	start = idx + len(UnreleasedMarker)
	next := strings.Index(document[start:], sectionMarker)
	if next < 0 {
		return start, len(document), true
	}
	return start, start + next, true
}

// HasUnreleased reports whether the document contains an Unreleased marker.
func HasUnreleased(document string) bool {
	_, _, ok := unreleasedRegion(document)
	return ok
}

// ExtractUnreleased returns the trimmed body of the first Unreleased section.
// Returns "" when the marker is missing or the body is shorter than
// MinimalContentLength.
func ExtractUnreleased(document string) string {
	start, end, ok := unreleasedRegion(document)
	if !ok {
		return ""
	}

	body := strings.TrimSpace(document[start:end])
	if utf8.RuneCountInString(body) < MinimalContentLength {
		return ""
	}
	return body
}

// MergeUnreleased appends the generated block to the Unreleased section,
// keeping any hand-written content ahead of it. Returns false when the
// document has no Unreleased marker. An empty block leaves the document as is.
//
// Only the first Unreleased region is rewritten; everything outside it is
// returned byte-for-byte.
func MergeUnreleased(document, generated string) (string, bool) {
	if !HasUnreleased(document) {
		return document, false
	}
	if generated == "" {
		return document, true
	}

	combined := generated
	if existing := ExtractUnreleased(document); existing != "" {
		combined = existing + "\n\n" + generated
	}

	return replaceUnreleasedBody(document, "\n\n"+combined+"\n\n"), true
}

// replaceUnreleasedBody swaps the first Unreleased region for body.
// The caller must have checked that the marker exists.
func replaceUnreleasedBody(document, body string) string {
	start, end, _ := unreleasedRegion(document)

	var b strings.Builder
	b.Grow(len(document) - (end - start) + len(body))
	b.WriteString(document[:start])
	b.WriteString(body)
	b.WriteString(document[end:])
	return b.String()
}
