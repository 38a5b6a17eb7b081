// Package config tests configuration loading, layering, and validation.
// Related: internal/config/config.go, internal/config/validate.go
// Tags: config, koanf, validation
package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate moves the test into an empty working directory with no user config
// and no CHANGEGEN_ variables leaking in from the environment.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "xdg"))
	t.Setenv("NO_COLOR", "")
	for _, key := range []string{"CHANGELOG_PATH", "REPO_PATH", "GIT_TIMEOUT", "CLEAN_MESSAGES", "PLAIN", "LOG_LEVEL", "FALLBACK_ENTRY"} {
		t.Setenv(EnvPrefix+key, "")
		os.Unsetenv(EnvPrefix + key)
	}
	return dir
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestLoad_Defaults(t *testing.T) {
	dir := isolate(t)

	cfg, err := LoadWithOptions(LoadOptions{UserConfigPath: filepath.Join(dir, "missing.yml")})
	require.NoError(t, err)

	assert.Equal(t, "CHANGELOG.md", cfg.ChangelogPath)
	assert.Equal(t, ".", cfg.RepoPath)
	assert.Equal(t, 30*time.Second, cfg.GitTimeout)
	assert.True(t, cfg.CleanMessages)
	assert.False(t, cfg.Plain)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "- Minor updates and improvements", cfg.FallbackEntry)
}

func TestLoad_Precedence(t *testing.T) {
	dir := isolate(t)
	userPath := filepath.Join(dir, "user.yml")
	writeFile(t, userPath, "changelog_path: USER.md\nlog_level: debug\ngit_timeout: 5s\n")
	writeFile(t, filepath.Join(dir, ".changegen.yml"), "changelog_path: PROJECT.md\n")
	t.Setenv("CHANGEGEN_GIT_TIMEOUT", "1m")

	cfg, err := LoadWithOptions(LoadOptions{UserConfigPath: userPath})
	require.NoError(t, err)

	assert.Equal(t, "PROJECT.md", cfg.ChangelogPath, "project overrides user")
	assert.Equal(t, "debug", cfg.LogLevel, "user overrides defaults")
	assert.Equal(t, time.Minute, cfg.GitTimeout, "environment overrides everything")
}

func TestLoad_EnvironmentBool(t *testing.T) {
	dir := isolate(t)
	t.Setenv("CHANGEGEN_CLEAN_MESSAGES", "false")
	t.Setenv("CHANGEGEN_PLAIN", "true")

	cfg, err := LoadWithOptions(LoadOptions{UserConfigPath: filepath.Join(dir, "missing.yml")})
	require.NoError(t, err)

	assert.False(t, cfg.CleanMessages)
	assert.True(t, cfg.Plain)
}

func TestLoad_NoColorForcesPlain(t *testing.T) {
	dir := isolate(t)
	t.Setenv("NO_COLOR", "1")

	cfg, err := LoadWithOptions(LoadOptions{UserConfigPath: filepath.Join(dir, "missing.yml")})
	require.NoError(t, err)
	assert.True(t, cfg.Plain)
}

func TestLoad_LegacyJSON(t *testing.T) {
	tests := map[string]struct {
		withYAML     bool
		skipWarnings bool
		wantPath     string
		wantWarning  string
	}{
		"json only is loaded with warning": {
			wantPath:    "LEGACY.md",
			wantWarning: "deprecated JSON config",
		},
		"json only without warning": {
			skipWarnings: true,
			wantPath:     "LEGACY.md",
		},
		"yaml wins over json": {
			withYAML:    true,
			wantPath:    "YAML.md",
			wantWarning: "ignored",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			dir := isolate(t)
			writeFile(t, filepath.Join(dir, ".changegen.json"), `{"changelog_path": "LEGACY.md"}`)
			if tt.withYAML {
				writeFile(t, filepath.Join(dir, ".changegen.yml"), "changelog_path: YAML.md\n")
			}

			var warnings bytes.Buffer
			cfg, err := LoadWithOptions(LoadOptions{
				UserConfigPath: filepath.Join(dir, "missing.yml"),
				WarningWriter:  &warnings,
				SkipWarnings:   tt.skipWarnings,
			})
			require.NoError(t, err)

			assert.Equal(t, tt.wantPath, cfg.ChangelogPath)
			if tt.wantWarning == "" {
				assert.Empty(t, warnings.String())
			} else {
				assert.Contains(t, warnings.String(), tt.wantWarning)
			}
		})
	}
}

func TestLoad_ExplicitPathMustExist(t *testing.T) {
	dir := isolate(t)

	_, err := LoadWithOptions(LoadOptions{
		ProjectConfigPath: filepath.Join(dir, "nope.yml"),
		UserConfigPath:    filepath.Join(dir, "missing.yml"),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config file not found")
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := map[string]struct {
		content   string
		wantField string
	}{
		"bad log level": {
			content:   "log_level: verbose\n",
			wantField: "log_level",
		},
		"empty changelog path": {
			content:   "changelog_path: \"\"\n",
			wantField: "changelog_path",
		},
		"zero timeout": {
			content:   "git_timeout: 0s\n",
			wantField: "git_timeout",
		},
		"negative timeout": {
			content:   "git_timeout: -5s\n",
			wantField: "git_timeout",
		},
		"fallback entry without bullet": {
			content:   "fallback_entry: Minor updates\n",
			wantField: "fallback_entry",
		},
		"fallback entry with a bare second line": {
			content:   "fallback_entry: \"- one\\ntwo\"\n",
			wantField: "fallback_entry",
		},
		"changelog path is a directory": {
			content:   "changelog_path: docs\n",
			wantField: "changelog_path",
		},
		"repo path is a file": {
			content:   "repo_path: notes.txt\n",
			wantField: "repo_path",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			dir := isolate(t)
			require.NoError(t, os.Mkdir(filepath.Join(dir, "docs"), 0o755))
			writeFile(t, filepath.Join(dir, "notes.txt"), "x\n")
			path := filepath.Join(dir, "custom.yml")
			writeFile(t, path, tt.content)

			_, err := LoadWithOptions(LoadOptions{
				ProjectConfigPath: path,
				UserConfigPath:    filepath.Join(dir, "missing.yml"),
			})
			require.Error(t, err)

			var vErr *ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, tt.wantField, vErr.Key)
		})
	}
}

func TestLoad_MalformedYAML(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, ".changegen.yml")
	writeFile(t, path, "changelog_path: [unterminated\n")

	_, err := LoadWithOptions(LoadOptions{UserConfigPath: filepath.Join(dir, "missing.yml")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validating YAML syntax")
}

func TestCheckYAML(t *testing.T) {
	tests := map[string]struct {
		data    string
		wantErr bool
	}{
		"empty":  {data: "   \n"},
		"valid":  {data: "plain: true\n"},
		"broken": {data: "a: b: c\n", wantErr: true},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			err := checkYAML([]byte(tt.data), "x.yml")
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "x.yml")
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestExpandHomePath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, "notes/CHANGELOG.md"), expandHomePath("~/notes/CHANGELOG.md"))
	assert.Equal(t, "CHANGELOG.md", expandHomePath("CHANGELOG.md"))
}

func TestEnvTransform(t *testing.T) {
	assert.Equal(t, "git_timeout", envTransform("CHANGEGEN_GIT_TIMEOUT"))
	assert.Equal(t, "plain", envTransform("CHANGEGEN_PLAIN"))
}

func TestGetDefaultConfigTemplate_IsValidYAML(t *testing.T) {
	assert.NoError(t, checkYAML([]byte(GetDefaultConfigTemplate()), "template"))
}

func TestValidateConfigValues_MultiLineFallback(t *testing.T) {
	dir := isolate(t)
	cfg := &Configuration{
		ChangelogPath: "CHANGELOG.md",
		RepoPath:      dir,
		GitTimeout:    time.Second,
		LogLevel:      "info",
		FallbackEntry: "- Maintenance release\n- Dependency updates\n",
	}
	assert.NoError(t, ValidateConfigValues(cfg, "test"))

	cfg.FallbackEntry = "-\n"
	err := ValidateConfigValues(cfg, "test")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "test: fallback_entry must be a markdown list")
}
