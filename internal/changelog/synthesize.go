package changelog

import (
	"strings"
)

// Group classifies each non-blank message in order and files its
// description under the resulting category.
func Group(messages []string) Changes {
	var changes Changes
	for _, msg := range messages {
		if strings.TrimSpace(msg) == "" {
			continue
		}
		cat, desc := Classify(singleLine(msg))
		if !cat.Valid() {
			continue
		}
		changes.Add(cat, desc)
	}
	return changes
}

// Synthesize renders the generated changelog block for the given commit
// messages. The output is a deterministic function of the input order.
func Synthesize(messages []string) string {
	if len(messages) == 0 {
		return ""
	}
	return RenderBlock(Group(messages))
}

// RenderBlock renders changes as "### <Title>" sections in category order,
// each followed by its "- " bullets and a blank separator line. Trailing
// blank lines are trimmed.
func RenderBlock(c Changes) string {
	var lines []string
	for _, cat := range Categories() {
		entries := c.For(cat)
		if len(entries) == 0 {
			continue
		}
		lines = append(lines, "### "+cat.Title())
		for _, e := range entries {
			lines = append(lines, "- "+e)
		}
		lines = append(lines, "")
	}
	return strings.TrimRight(strings.Join(lines, "\n"), " \t\r\n")
}

var lineBreaks = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ")

// singleLine folds embedded line breaks so every entry stays one bullet.
func singleLine(s string) string {
	return lineBreaks.Replace(strings.TrimSpace(s))
}
