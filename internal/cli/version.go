package cli

import (
	"fmt"
	"runtime"

	"github.com/ariel-frischer/changegen/internal/build"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "version",
		Short:   "Display version information",
		Long:    "Display version, commit, build date, and Go version information for changegen",
		Args:    cobra.NoArgs,
		GroupID: GroupInfo,
		RunE: func(cmd *cobra.Command, args []string) error {
			if color.NoColor {
				printPlainVersion(cmd)
				return nil
			}
			printPrettyVersion(cmd)
			return nil
		},
	}
}

// printPlainVersion prints a simple version output for scripting
func printPlainVersion(cmd *cobra.Command) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "changegen %s\n", build.Version)
	fmt.Fprintf(out, "build: %s\n", buildKind())
	fmt.Fprintf(out, "commit: %s\n", build.Commit)
	fmt.Fprintf(out, "built: %s\n", build.BuildDate)
	fmt.Fprintf(out, "go: %s\n", runtime.Version())
	fmt.Fprintf(out, "platform: %s/%s\n", runtime.GOOS, runtime.GOARCH)
}

func printPrettyVersion(cmd *cobra.Command) {
	out := cmd.OutOrStdout()
	cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()
	white := color.New(color.FgWhite, color.Bold).SprintFunc()

	fmt.Fprintf(out, "%s %s %s\n\n", cyan("changegen"), white(build.Version), yellow("("+buildKind()+")"))

	info := []struct {
		label string
		value string
	}{
		{"Commit", build.ShortCommit()},
		{"Built", build.BuildDate},
		{"Go", runtime.Version()},
		{"Platform", fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH)},
	}
	for _, item := range info {
		fmt.Fprintf(out, "  %s  %s\n", yellow(fmt.Sprintf("%-8s", item.label)), item.value)
	}
}

func buildKind() string {
	if build.IsDevBuild() {
		return "development"
	}
	return "release"
}
