package errors

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorCategory_String(t *testing.T) {
	tests := map[ErrorCategory]string{
		Argument:          "Argument Error",
		Configuration:     "Configuration Error",
		Prerequisite:      "Prerequisite Error",
		Runtime:           "Runtime Error",
		ErrorCategory(42): "Error",
	}
	for cat, want := range tests {
		assert.Equal(t, want, cat.String())
	}
}

func TestWrap(t *testing.T) {
	assert.Nil(t, Wrap(nil, Runtime))
	assert.Nil(t, WrapWithMessage(nil, Runtime, "ignored"))

	err := WrapWithMessage(os.ErrNotExist, Prerequisite, "reading CHANGELOG.md", "create it")
	require.NotNil(t, err)
	assert.Equal(t, Prerequisite, err.Category)
	assert.Equal(t, "reading CHANGELOG.md: file does not exist", err.Error())
	assert.True(t, stderrors.Is(err, os.ErrNotExist))
	assert.Equal(t, []string{"create it"}, err.Remediation)
}

func TestAsCLIError(t *testing.T) {
	base := ChangelogNotFound("CHANGELOG.md")
	wrapped := fmt.Errorf("update: %w", base)

	assert.Same(t, base, AsCLIError(wrapped))
	assert.True(t, IsCLIError(wrapped))
	assert.Nil(t, AsCLIError(stderrors.New("plain")))
	assert.False(t, IsCLIError(nil))
}

func TestFormatErrorPlain(t *testing.T) {
	err := InvalidVersion("v1.2")
	out := FormatErrorPlain(err)

	assert.Contains(t, out, `Error [Argument Error]: invalid version: "v1.2"`)
	assert.Contains(t, out, "Usage: changegen release <MAJOR.MINOR.PATCH>")
	assert.Contains(t, out, "To fix this:")
	assert.Contains(t, out, "  • Versions must be three dot-separated numbers (e.g., 1.4.0)")
	assert.Empty(t, FormatErrorPlain(nil))
	assert.Empty(t, FormatError(nil))
}

func TestFprintAny(t *testing.T) {
	var buf bytes.Buffer
	FprintAny(&buf, stderrors.New("disk full"), false)
	assert.Equal(t, "Error [Runtime Error]: disk full\n", buf.String())

	buf.Reset()
	FprintAny(&buf, UnreleasedSectionMissing("CHANGELOG.md"), false)
	assert.Contains(t, buf.String(), "Prerequisite Error")
	assert.Contains(t, buf.String(), "[Unreleased] section not found in CHANGELOG.md")

	buf.Reset()
	FprintAny(&buf, nil, false)
	assert.Empty(t, buf.String())
}

func TestMessageTemplates(t *testing.T) {
	cause := stderrors.New("boom")
	tests := map[string]struct {
		err      *CLIError
		category ErrorCategory
		contains string
	}{
		"changelog not found":  {err: ChangelogNotFound("C.md"), category: Prerequisite, contains: "C.md"},
		"unreleased missing":   {err: UnreleasedSectionMissing("C.md"), category: Prerequisite, contains: "[Unreleased]"},
		"invalid version":      {err: InvalidVersion("x"), category: Argument, contains: "x"},
		"version exists":       {err: VersionExists("1.0.0", "C.md"), category: Argument, contains: "1.0.0"},
		"invalid range":        {err: InvalidRange("a b", cause), category: Argument, contains: "a b"},
		"flag combination":     {err: InvalidFlagCombination("--a --b", "pick one"), category: Argument, contains: "--a --b"},
		"config parse":         {err: ConfigParseError(".changegen.yml", cause), category: Configuration, contains: "boom"},
		"file not writable":    {err: FileNotWritable("out.md", cause), category: Runtime, contains: "out.md"},
		"git not a repository": {err: GitNotRepository("/tmp/x"), category: Prerequisite, contains: "/tmp/x"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.category, tt.err.Category)
			assert.Contains(t, tt.err.Error(), tt.contains)
			assert.NotEmpty(t, tt.err.Remediation)
		})
	}

	assert.ErrorIs(t, InvalidRange("a b", cause), cause)
}
