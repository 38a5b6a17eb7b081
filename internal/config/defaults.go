package config

import "time"

// GetDefaultConfigTemplate returns a fully commented config template
// that helps users understand all available options
func GetDefaultConfigTemplate() string {
	return `# changegen configuration
# Environment variables override these values: CHANGEGEN_<KEY> (e.g., CHANGEGEN_GIT_TIMEOUT=1m)

changelog_path: CHANGELOG.md          # Document updated by 'update' and 'release'
repo_path: .                          # Git repository (parent directories are searched)
git_timeout: 30s                      # Max time spent reading commit history
clean_messages: true                  # Strip "(#123) (abc123f)" suffixes before classification
plain: false                          # Disable colors, icons and spinner
log_level: info                       # debug | info | warn | error
fallback_entry: "- Minor updates and improvements"  # Release body when there is nothing else
`
}

// GetDefaults returns the default configuration values
func GetDefaults() map[string]interface{} {
	return map[string]interface{}{
		"changelog_path": "CHANGELOG.md",
		"repo_path":      ".",
		"git_timeout":    (30 * time.Second).String(),
		"clean_messages": true,
		"plain":          false,
		"log_level":      "info",
		"fallback_entry": "- Minor updates and improvements",
	}
}
