package changelog

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// CategoryStyle defines the color and icon for a changelog category.
type CategoryStyle struct {
	Color *color.Color
	Icon  string
}

var categoryStyles = map[Category]CategoryStyle{
	Added:         {Color: color.New(color.FgGreen), Icon: "✓"},
	Changed:       {Color: color.New(color.FgBlue), Icon: "~"},
	Fixed:         {Color: color.New(color.FgYellow), Icon: "⚡"},
	Documentation: {Color: color.New(color.FgCyan), Icon: "📖"},
	Security:      {Color: color.New(color.FgMagenta), Icon: "🔒"},
}

// FormatOptions controls the terminal output formatting.
type FormatOptions struct {
	Plain    bool // Disable colors and icons
	MaxWidth int  // Maximum line width (0 = auto-detect)
}

// FormatTerminal writes grouped changes to the writer with terminal styling.
// Categories appear in emission order; empty ones are skipped.
func FormatTerminal(c Changes, w io.Writer, opts FormatOptions) error {
	if c.IsEmpty() {
		return nil
	}

	width := resolveWidth(opts.MaxWidth)

	for _, cat := range Categories() {
		entries := c.For(cat)
		if len(entries) == 0 {
			continue
		}
		if err := writeCategorySection(cat, entries, w, opts, width); err != nil {
			return fmt.Errorf("formatting %s: %w", cat, err)
		}
	}

	return nil
}

// writeCategorySection writes a single category with its entries.
func writeCategorySection(cat Category, entries []string, w io.Writer, opts FormatOptions, width int) error {
	style := categoryStyles[cat]

	if err := writeCategoryHeader(cat, style, w, opts); err != nil {
		return err
	}

	for _, text := range entries {
		if err := writeEntry(text, style, w, opts, width); err != nil {
			return err
		}
	}

	return nil
}

func writeCategoryHeader(cat Category, style CategoryStyle, w io.Writer, opts FormatOptions) error {
	if opts.Plain {
		_, err := fmt.Fprintf(w, "\n### %s\n", cat.Title())
		return err
	}

	colored := style.Color.SprintFunc()
	_, err := fmt.Fprintf(w, "\n%s %s\n", colored(style.Icon), colored(cat.Title()))
	return err
}

// writeEntry writes a single entry, wrapping long lines in styled mode.
func writeEntry(text string, style CategoryStyle, w io.Writer, opts FormatOptions, width int) error {
	prefix := "  - "

	if opts.Plain {
		_, err := fmt.Fprintf(w, "%s%s\n", prefix, text)
		return err
	}

	wrapped := wrapText(text, width-len(prefix), "    ")

	colored := style.Color.SprintFunc()
	_, err := fmt.Fprintf(w, "%s%s\n", prefix, colored(wrapped))
	return err
}

// FormatEntrySummary returns a one-line summary of a classified entry.
func FormatEntrySummary(entry Entry, opts FormatOptions) string {
	text := truncateText(entry.Description, 72)

	if opts.Plain {
		return fmt.Sprintf("[%s] %s", entry.Category, text)
	}

	style := categoryStyles[entry.Category]
	colored := style.Color.SprintFunc()
	return fmt.Sprintf("%s %-13s %s", colored(style.Icon), colored(entry.Category.String()), text)
}

// resolveWidth determines the terminal width to use.
func resolveWidth(maxWidth int) int {
	if maxWidth > 0 {
		return maxWidth
	}
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		return w
	}
	return 80
}

// wrapText wraps text to fit within maxWidth, using indent for continuation lines.
func wrapText(text string, maxWidth int, indent string) string {
	if maxWidth <= 0 || len(text) <= maxWidth {
		return text
	}

	var lines []string
	remaining := text

	for len(remaining) > maxWidth {
		breakPoint := maxWidth
		for i := maxWidth - 1; i > 0; i-- {
			if remaining[i] == ' ' {
				breakPoint = i
				break
			}
		}

		lines = append(lines, remaining[:breakPoint])
		remaining = strings.TrimLeft(remaining[breakPoint:], " ")
	}

	if len(remaining) > 0 {
		lines = append(lines, remaining)
	}

	return strings.Join(lines, "\n"+indent)
}

// truncateText truncates text to maxLen, adding ellipsis if needed.
func truncateText(text string, maxLen int) string {
	if len(text) <= maxLen {
		return text
	}
	return text[:maxLen-3] + "..."
}
