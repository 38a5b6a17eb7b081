// Package config provides hierarchical configuration management for changegen using koanf.
// Configuration is loaded with priority: environment variables > project config (.changegen.yml,
// or the legacy .changegen.json) > user config (~/.config/changegen/config.yml) > defaults.
package config

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is the prefix of environment variables that override config keys.
const EnvPrefix = "CHANGEGEN_"

// Configuration represents the changegen CLI configuration
type Configuration struct {
	// ChangelogPath is the changelog document read and rewritten by update and release.
	ChangelogPath string `koanf:"changelog_path" yaml:"changelog_path" validate:"required,notdir"`

	// RepoPath locates the git repository; parent directories are searched.
	RepoPath string `koanf:"repo_path" yaml:"repo_path" validate:"required,notfile"`

	// GitTimeout bounds how long reading history may take (e.g., "30s").
	GitTimeout time.Duration `koanf:"git_timeout" yaml:"git_timeout" validate:"gt=0s"`

	// CleanMessages strips "(#123) (abc123)" suffixes before classification.
	CleanMessages bool `koanf:"clean_messages" yaml:"clean_messages"`

	// Plain disables colors, icons and the spinner.
	Plain bool `koanf:"plain" yaml:"plain"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `koanf:"log_level" yaml:"log_level" validate:"oneof=debug info warn error"`

	// FallbackEntry is the release body used when nothing else is available.
	FallbackEntry string `koanf:"fallback_entry" yaml:"fallback_entry" validate:"required,bullet"`
}

// LoadOptions configures how configuration is loaded
type LoadOptions struct {
	// ProjectConfigPath overrides the project config path (default: .changegen.yml)
	ProjectConfigPath string
	// UserConfigPath overrides the user config path (default: XDG config dir)
	UserConfigPath string
	// WarningWriter receives deprecation warnings (default: os.Stderr)
	WarningWriter io.Writer
	// SkipWarnings suppresses deprecation warnings
	SkipWarnings bool
}

// Load loads configuration from user, project, and environment sources.
// Priority: Environment variables > Project config > User config > Defaults
func Load(projectConfigPath string) (*Configuration, error) {
	return LoadWithOptions(LoadOptions{ProjectConfigPath: projectConfigPath})
}

// LoadWithOptions loads configuration with custom options
func LoadWithOptions(opts LoadOptions) (*Configuration, error) {
	k := koanf.New(".")
	warningWriter := getWarningWriter(opts.WarningWriter)

	loadDefaults(k)

	if err := loadUserConfig(k, opts.UserConfigPath); err != nil {
		return nil, err
	}

	if err := loadProjectConfig(k, opts.ProjectConfigPath, warningWriter, opts.SkipWarnings); err != nil {
		return nil, err
	}

	if err := loadEnvironmentConfig(k); err != nil {
		return nil, err
	}

	return finalizeConfig(k)
}

// getWarningWriter returns the warning writer or defaults to stderr
func getWarningWriter(w io.Writer) io.Writer {
	if w == nil {
		return os.Stderr
	}
	return w
}

// loadDefaults applies default configuration values
func loadDefaults(k *koanf.Koanf) {
	for key, value := range GetDefaults() {
		k.Set(key, value)
	}
}

// loadUserConfig loads the user-level YAML config when present.
func loadUserConfig(k *koanf.Koanf, customPath string) error {
	path := customPath
	if path == "" {
		path, _ = UserConfigPath()
	}
	if !fileExists(path) {
		return nil
	}
	if err := loadYAMLConfig(k, path, "user"); err != nil {
		return fmt.Errorf("loading user config: %w", err)
	}
	return nil
}

// loadProjectConfig loads project-level config. YAML is preferred; the
// legacy JSON file is read only when no YAML file exists, with a warning.
func loadProjectConfig(k *koanf.Koanf, customPath string, warningWriter io.Writer, skipWarnings bool) error {
	projectYAMLPath := ProjectConfigPath()
	if customPath != "" {
		projectYAMLPath = customPath
	}
	legacyPath := LegacyProjectConfigPath()

	switch {
	case fileExists(projectYAMLPath):
		if err := loadYAMLConfig(k, projectYAMLPath, "project"); err != nil {
			return fmt.Errorf("loading project config: %w", err)
		}
		if fileExists(legacyPath) && !skipWarnings {
			fmt.Fprintf(warningWriter, "Warning: Legacy JSON config found at %s (ignored, using %s)\n\n", legacyPath, projectYAMLPath)
		}
	case customPath != "":
		return fmt.Errorf("config file not found: %s", customPath)
	case fileExists(legacyPath):
		if err := k.Load(file.Provider(legacyPath), json.Parser()); err != nil {
			return fmt.Errorf("failed to load legacy project config %s: %w", legacyPath, err)
		}
		if !skipWarnings {
			fmt.Fprintf(warningWriter, "Warning: Using deprecated JSON config at %s\n", legacyPath)
			fmt.Fprintf(warningWriter, "  Rename it to %s and convert it to YAML.\n\n", ProjectConfigPath())
		}
	}
	return nil
}

// loadYAMLConfig validates and loads a YAML config file
func loadYAMLConfig(k *koanf.Koanf, path, configType string) error {
	if err := checkYAMLFile(path); err != nil {
		return fmt.Errorf("validating YAML syntax for %s config: %w", configType, err)
	}
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return fmt.Errorf("failed to load %s config %s: %w", configType, path, err)
	}
	return nil
}

// loadEnvironmentConfig loads environment variable overrides
func loadEnvironmentConfig(k *koanf.Koanf) error {
	if err := k.Load(env.Provider(EnvPrefix, ".", envTransform), nil); err != nil {
		return fmt.Errorf("failed to load environment config: %w", err)
	}
	return nil
}

// finalizeConfig unmarshals, validates, and applies final transformations
func finalizeConfig(k *koanf.Koanf) (*Configuration, error) {
	var cfg Configuration
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))
	cfg.ChangelogPath = expandHomePath(cfg.ChangelogPath)
	cfg.RepoPath = expandHomePath(cfg.RepoPath)

	if err := ValidateConfigValues(&cfg, "config"); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	if os.Getenv("NO_COLOR") != "" {
		cfg.Plain = true
	}

	return &cfg, nil
}

// fileExists returns true if the file exists and is readable
func fileExists(path string) bool {
	if path == "" {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}

// envTransform converts environment variable names to config keys
// Example: CHANGEGEN_GIT_TIMEOUT -> git_timeout
func envTransform(s string) string {
	return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
}
