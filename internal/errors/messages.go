package errors

import "fmt"

// Common error messages for the changegen CLI.
// These templates ensure consistent, actionable error messages.

// ChangelogNotFound creates an error for a missing changelog document.
func ChangelogNotFound(path string) *CLIError {
	return NewPrerequisiteError(
		fmt.Sprintf("changelog not found: %s", path),
		"Create it with a '## [Unreleased]' heading: printf '# Changelog\\n\\n## [Unreleased]\\n' > "+path,
		"Or point to another file with --changelog or CHANGEGEN_CHANGELOG_PATH",
	)
}

// UnreleasedSectionMissing creates an error when the document has no
// "## [Unreleased]" marker to merge into.
func UnreleasedSectionMissing(path string) *CLIError {
	return NewPrerequisiteError(
		fmt.Sprintf("[Unreleased] section not found in %s", path),
		"Add a '## [Unreleased]' heading above the latest release",
		"The heading must match exactly, including capitalization and brackets",
	)
}

// InvalidVersion creates an error for a version label that is not MAJOR.MINOR.PATCH.
func InvalidVersion(version string) *CLIError {
	return NewArgumentErrorWithUsage(
		fmt.Sprintf("invalid version: %q", version),
		"changegen release <MAJOR.MINOR.PATCH>",
		"Versions must be three dot-separated numbers (e.g., 1.4.0)",
		"Prerelease and build suffixes are not supported",
	)
}

// VersionExists creates an error when the document already has a heading for version.
func VersionExists(version, path string) *CLIError {
	return NewArgumentError(
		fmt.Sprintf("version %s already exists in %s", version, path),
		"Pick the next version number",
		"Or edit the existing '## ["+version+"]' section by hand",
	)
}

// InvalidRange creates an error for a malformed commit range.
func InvalidRange(revRange string, err error) *CLIError {
	e := NewArgumentErrorWithUsage(
		fmt.Sprintf("invalid commit range: %q", revRange),
		"changegen generate --from-commits <from>..<to>",
		"Ranges use tag, branch or commit names, e.g. v1.0.0..HEAD",
		"Only letters, digits and . _ - / ~ ^ are allowed",
	)
	e.Cause = err
	return e
}

// InvalidFlagCombination creates an error for incompatible flag combinations.
func InvalidFlagCombination(flags string, reason string) *CLIError {
	return NewArgumentError(
		fmt.Sprintf("invalid flag combination: %s", flags),
		reason,
		"Use 'changegen <command> --help' to see valid options",
	)
}

// ConfigParseError creates an error for an invalid config file.
func ConfigParseError(path string, err error) *CLIError {
	return WrapWithMessage(err, Configuration,
		fmt.Sprintf("failed to load config: %s", path),
		"Check the file for YAML syntax errors",
		"Override single values with CHANGEGEN_* environment variables",
	)
}

// FileNotWritable creates an error when a file cannot be written.
func FileNotWritable(path string, err error) *CLIError {
	e := NewRuntimeError(
		fmt.Sprintf("cannot write to file: %s", path),
		"Check file permissions: ls -la "+path,
		"Ensure parent directory exists and is writable",
	)
	e.Cause = err
	return e
}

// GitNotRepository creates an error when the repository path is not a git repository.
func GitNotRepository(path string) *CLIError {
	return NewPrerequisiteError(
		fmt.Sprintf("not a git repository: %s", path),
		"Run changegen from inside the repository",
		"Or pass the repository location with --repo",
	)
}
