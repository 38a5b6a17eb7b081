package changelog

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatTerminal_Plain(t *testing.T) {
	var buf bytes.Buffer
	err := FormatTerminal(sampleChanges(), &buf, FormatOptions{Plain: true, MaxWidth: 80})
	require.NoError(t, err)

	out := buf.String()
	for _, want := range []string{
		"### Added", "  - Feature A",
		"### Changed", "  - Cleanup E",
		"### Fixed", "  - Bug B",
		"### Documentation", "  - Guide C",
		"### Security", "  - Vuln D",
	} {
		assert.Contains(t, out, want)
	}
	assert.Less(t, strings.Index(out, "### Fixed"), strings.Index(out, "### Documentation"))
}

func TestFormatTerminal_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, FormatTerminal(Changes{}, &buf, FormatOptions{Plain: true}))
	assert.Empty(t, buf.String())
}

func TestFormatTerminal_Styled(t *testing.T) {
	var buf bytes.Buffer
	err := FormatTerminal(sampleChanges(), &buf, FormatOptions{MaxWidth: 80})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "Feature A")
	assert.Contains(t, out, "🔒")
	assert.NotContains(t, out, "###")
}

func TestWrapText(t *testing.T) {
	tests := map[string]struct {
		text     string
		maxWidth int
		want     string
	}{
		"fits":           {text: "short", maxWidth: 10, want: "short"},
		"zero width":     {text: "anything goes", maxWidth: 0, want: "anything goes"},
		"wraps at space": {text: "aaaa bbbb cccc", maxWidth: 10, want: "aaaa bbbb\n  cccc"},
		"hard break":     {text: "abcdefghij", maxWidth: 4, want: "abcd\n  efgh\n  ij"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.want, wrapText(tt.text, tt.maxWidth, "  "))
		})
	}
}

func TestFormatEntrySummary(t *testing.T) {
	entry := Entry{Category: Security, Description: strings.Repeat("x", 100)}

	plain := FormatEntrySummary(entry, FormatOptions{Plain: true})
	assert.True(t, strings.HasPrefix(plain, "[security] "))
	assert.True(t, strings.HasSuffix(plain, "..."))
	assert.Len(t, plain, len("[security] ")+72)
}
