package changelog

import (
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format selects how a generated block is written out.
type Format string

const (
	FormatMarkdown Format = "markdown"
	FormatYAML     Format = "yaml"
	FormatStyled   Format = "terminal"
	FormatList     Format = "list"
)

// ParseFormat validates a user-supplied output format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatMarkdown, FormatYAML, FormatStyled, FormatList:
		return f, nil
	case "md":
		return FormatMarkdown, nil
	case "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unknown format %q (expected: markdown, yaml, terminal, list)", s)
	}
}

// Render writes changes to w in the requested format. Markdown output is
// exactly RenderBlock followed by a newline.
func Render(c Changes, f Format, w io.Writer, opts FormatOptions) error {
	switch f {
	case FormatMarkdown:
		return renderMarkdown(c, w)
	case FormatYAML:
		return RenderYAML(c, w)
	case FormatStyled:
		return FormatTerminal(c, w, opts)
	case FormatList:
		return renderList(c, w, opts)
	default:
		return fmt.Errorf("unknown format %q", f)
	}
}

func renderMarkdown(c Changes, w io.Writer) error {
	block := RenderBlock(c)
	if block == "" {
		return nil
	}
	_, err := io.WriteString(w, block+"\n")
	return err
}

// RenderYAML writes changes as a YAML mapping of category name to entries,
// the layout used by YAML-first changelog sources.
func RenderYAML(c Changes, w io.Writer) error {
	if c.IsEmpty() {
		return nil
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return fmt.Errorf("encoding changes as YAML: %w", err)
	}
	return enc.Close()
}

// renderList writes one summary line per entry in section order.
func renderList(c Changes, w io.Writer, opts FormatOptions) error {
	for _, entry := range c.Entries() {
		if _, err := fmt.Fprintln(w, FormatEntrySummary(entry, opts)); err != nil {
			return err
		}
	}
	return nil
}
