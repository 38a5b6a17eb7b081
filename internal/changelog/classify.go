package changelog

import (
	"regexp"
	"strings"
)

// BreakingPrefix marks the description of a breaking change.
const BreakingPrefix = "**BREAKING:** "

var (
	// The type token accepts any Unicode letter or digit, not only ASCII.
	headerPattern = regexp.MustCompile(`^([\p{L}\p{N}_]+)(\(.+\))?(!)?: (.+)$`)

	// Trailing "(#123) (abc123f)" and "(abc123f)" suffixes added by merge tooling.
	prHashSuffix = regexp.MustCompile(`\s*\(#\d+\)\s*\([a-f0-9]+\)$`)
	hashSuffix   = regexp.MustCompile(`\s*\([a-f0-9]+\)$`)
)

var typeCategories = map[string]Category{
	"feat":     Added,
	"feature":  Added,
	"add":      Added,
	"fix":      Fixed,
	"bugfix":   Fixed,
	"hotfix":   Fixed,
	"revert":   Fixed,
	"docs":     Documentation,
	"doc":      Documentation,
	"style":    Changed,
	"refactor": Changed,
	"perf":     Changed,
	"test":     Changed,
	"chore":    Changed,
	"ci":       Changed,
	"build":    Changed,
	"security": Security,
}

// ParseHeader parses a conventional commit subject of the form
// "type(scope)!: description". The message is trimmed first. Returns false
// when the message does not follow the format.
func ParseHeader(message string) (Header, bool) {
	m := headerPattern.FindStringSubmatch(strings.TrimSpace(message))
	if m == nil {
		return Header{}, false
	}

	scope := strings.TrimSuffix(strings.TrimPrefix(m[2], "("), ")")
	return Header{
		Type:        strings.ToLower(m[1]),
		Scope:       scope,
		Breaking:    m[3] == "!",
		Description: strings.TrimSpace(m[4]),
	}, true
}

// CategoryForType maps a conventional commit type to its category.
// Lookup is case-insensitive; unknown types map to Changed.
func CategoryForType(commitType string) Category {
	if cat, ok := typeCategories[strings.ToLower(commitType)]; ok {
		return cat
	}
	return Changed
}

// Classify returns the category and description for a commit message.
//
// Blank messages yield (Changed, "") and must be filtered by the caller.
// Messages that are not conventional commits are filed under Changed
// verbatim. Breaking changes always land in Changed with BreakingPrefix.
func Classify(message string) (Category, string) {
	trimmed := strings.TrimSpace(message)
	if trimmed == "" {
		return Changed, ""
	}

	h, ok := ParseHeader(trimmed)
	if !ok {
		return Changed, trimmed
	}

	if h.Breaking {
		return Changed, BreakingPrefix + h.Description
	}
	return CategoryForType(h.Type), h.Description
}

// CleanMessage strips PR numbers and short commit hashes that some tooling
// appends to subjects, e.g. "feat: x (#12) (a1b2c3d)" becomes "feat: x".
func CleanMessage(message string) string {
	if message == "" {
		return ""
	}
	cleaned := prHashSuffix.ReplaceAllString(message, "")
	cleaned = hashSuffix.ReplaceAllString(cleaned, "")
	return strings.TrimSpace(cleaned)
}
