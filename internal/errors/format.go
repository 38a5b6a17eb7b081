package errors

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
)

// palette holds the styling functions for one rendering of an error.
type palette struct {
	label, message, category, fix, usageLabel, usage, bullet func(a ...interface{}) string
}

var (
	colorPalette = palette{
		label:      color.New(color.FgRed, color.Bold).SprintFunc(),
		message:    color.New(color.FgRed).SprintFunc(),
		category:   color.New(color.FgYellow).SprintFunc(),
		fix:        color.New(color.FgGreen, color.Bold).SprintFunc(),
		usageLabel: color.New(color.FgCyan, color.Bold).SprintFunc(),
		usage:      color.New(color.FgCyan).SprintFunc(),
		bullet:     color.New(color.FgGreen).SprintFunc(),
	}
	plainPalette = palette{
		label: fmt.Sprint, message: fmt.Sprint, category: fmt.Sprint, fix: fmt.Sprint,
		usageLabel: fmt.Sprint, usage: fmt.Sprint, bullet: fmt.Sprint,
	}
)

// FormatError formats a CLIError for display in the terminal.
// It uses colors when available and falls back to plain text otherwise.
func FormatError(err *CLIError) string {
	if err == nil {
		return ""
	}
	return formatError(err, true)
}

// FormatErrorPlain formats a CLIError without colors.
func FormatErrorPlain(err *CLIError) string {
	if err == nil {
		return ""
	}
	return formatError(err, false)
}

func formatError(err *CLIError, useColors bool) string {
	p := plainPalette
	if useColors {
		p = colorPalette
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s [%s]: %s\n", p.label("Error"), p.category(err.Category.String()), p.message(err.Message))

	if err.Usage != "" {
		fmt.Fprintf(&sb, "\n%s%s\n", p.usageLabel("Usage: "), p.usage(err.Usage))
	}

	if len(err.Remediation) > 0 {
		fmt.Fprintf(&sb, "\n%s\n", p.fix("To fix this:"))
		for _, step := range err.Remediation {
			fmt.Fprintf(&sb, "  %s %s\n", p.bullet("•"), step)
		}
	}

	return sb.String()
}

// PrintError prints a formatted CLIError to stderr.
func PrintError(err *CLIError) {
	FprintError(os.Stderr, err, true)
}

// FprintError prints a formatted CLIError to the given writer.
// useColors is ignored when color output is globally disabled.
func FprintError(w io.Writer, err *CLIError, useColors bool) {
	if err == nil {
		return
	}
	fmt.Fprint(w, formatError(err, useColors && !color.NoColor))
}

// FprintAny prints err with structured formatting. Errors that are not
// CLIErrors are shown as Runtime errors.
func FprintAny(w io.Writer, err error, useColors bool) {
	if err == nil {
		return
	}
	cliErr := AsCLIError(err)
	if cliErr == nil {
		cliErr = Wrap(err, Runtime)
	}
	FprintError(w, cliErr, useColors)
}
