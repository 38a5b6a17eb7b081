package config

import (
	"os"
	"path/filepath"
	"strings"
)

// UserConfigPath returns the path to the user-level config file.
// This follows the XDG Base Directory Specification:
// - Linux: ~/.config/changegen/config.yml
// - macOS: ~/Library/Application Support/changegen/config.yml
// - Windows: %APPDATA%\changegen\config.yml
func UserConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "changegen", "config.yml"), nil
}

// ProjectConfigPath returns the path to the project-level config file,
// relative to the current directory.
func ProjectConfigPath() string {
	return ".changegen.yml"
}

// LegacyProjectConfigPath returns the path to the legacy JSON project config.
func LegacyProjectConfigPath() string {
	return ".changegen.json"
}

// expandHomePath expands ~ to the user's home directory
func expandHomePath(path string) string {
	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(homeDir, path[2:])
		}
	}
	return path
}
