package changelog

import (
	"fmt"
	"regexp"
	"strings"
)

// FallbackEntry is the release body used when there is neither hand-written
// Unreleased content nor any generated entry.
const FallbackEntry = "- Minor updates and improvements"

var semverPattern = regexp.MustCompile(`^\d+\.\d+\.\d+$`)

// IsSemanticVersion reports whether s is exactly MAJOR.MINOR.PATCH
// (no "v" prefix, no prerelease or build metadata).
func IsSemanticVersion(s string) bool {
	return semverPattern.MatchString(s)
}

// NormalizeVersion lowercases the version and removes a leading "v" so that
// both "v1.2.0" and "1.2.0" are accepted on input.
func NormalizeVersion(version string) string {
	return strings.TrimPrefix(strings.ToLower(strings.TrimSpace(version)), "v")
}

// ReleaseHeading formats a released version heading.
func ReleaseHeading(version, date string) string {
	return fmt.Sprintf("## [%s] - %s", version, date)
}

// HasVersion reports whether the document already has a heading for version.
func HasVersion(document, version string) bool {
	return strings.Contains(document, sectionMarker+version+"]")
}

// ReleaseSource records where the body of a release came from.
type ReleaseSource int

const (
	// SourceManual means hand-written Unreleased content was kept.
	SourceManual ReleaseSource = iota
	// SourceGenerated means the body was synthesized from commits.
	SourceGenerated
	// SourceFallback means FallbackEntry was used.
	SourceFallback
)

func (s ReleaseSource) String() string {
	switch s {
	case SourceManual:
		return "manual"
	case SourceGenerated:
		return "automatic"
	case SourceFallback:
		return "fallback"
	default:
		return "unknown"
	}
}

// ReleasePlan is the body chosen for the next release.
type ReleasePlan struct {
	Content string
	Source  ReleaseSource
}

// PlanRelease decides the body of the next release. Hand-written Unreleased
// content wins over the generated block; FallbackEntry is used when both
// are empty.
func PlanRelease(document, generated string) ReleasePlan {
	if existing := ExtractUnreleased(document); existing != "" {
		return ReleasePlan{Content: existing, Source: SourceManual}
	}
	if strings.TrimSpace(generated) != "" {
		return ReleasePlan{Content: strings.TrimSpace(generated), Source: SourceGenerated}
	}
	return ReleasePlan{Content: FallbackEntry, Source: SourceFallback}
}

// PromoteUnreleased moves the planned content under a new version heading
// placed directly below an emptied Unreleased marker. Returns false when the
// document has no Unreleased marker.
func PromoteUnreleased(document string, plan ReleasePlan, version, date string) (string, bool) {
	if !HasUnreleased(document) {
		return document, false
	}

	body := "\n\n" + ReleaseHeading(version, date) + "\n\n" + plan.Content + "\n\n"
	return replaceUnreleasedBody(document, body), true
}
