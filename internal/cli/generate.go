package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/ariel-frischer/changegen/internal/changelog"
	clierrors "github.com/ariel-frischer/changegen/internal/errors"
	"github.com/ariel-frischer/changegen/internal/git"
	"github.com/ariel-frischer/changegen/internal/logger"
	"github.com/ariel-frischer/changegen/internal/watch"
	"github.com/spf13/cobra"
)

type generateOptions struct {
	fromCommits string
	sinceTag    string
	output      string
	format      string
	watch       bool
}

func newGenerateCmd(g *globalOptions) *cobra.Command {
	opts := &generateOptions{}

	cmd := &cobra.Command{
		Use:     "generate",
		Aliases: []string{"gen"},
		Short:   "Render changelog sections for a commit range (gen)",
		Long: `Classify the commits in a range and render them as changelog sections.

Without --from-commits or --since-tag the whole history of HEAD is used.
Merge commits are skipped. Output goes to stdout unless --output is given.`,
		Example: `  # Everything since v1.2.0
  changegen generate --since-tag v1.2.0

  # An explicit range, as YAML
  changegen generate --from-commits v1.0.0..v1.1.0 --format yaml

  # Colored preview in the terminal
  changegen generate --since-tag v1.2.0 --format terminal

  # Keep a live preview that refreshes after every commit
  changegen generate --since-tag v1.2.0 --format terminal --watch`,
		Args:    cobra.NoArgs,
		GroupID: GroupChangelog,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, g, opts)
		},
	}

	cmd.Flags().StringVar(&opts.fromCommits, "from-commits", "", "Commit range to use (e.g., v1.0.0..HEAD)")
	cmd.Flags().StringVar(&opts.sinceTag, "since-tag", "", "Use commits after this tag (same as --from-commits TAG..HEAD)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Write to file instead of stdout")
	cmd.Flags().StringVarP(&opts.format, "format", "f", string(changelog.FormatMarkdown), "Output format: markdown, yaml, terminal, list")
	cmd.Flags().BoolVarP(&opts.watch, "watch", "w", false, "Regenerate whenever new commits or tags appear")

	return cmd
}

func runGenerate(cmd *cobra.Command, g *globalOptions, opts *generateOptions) error {
	if opts.fromCommits != "" && opts.sinceTag != "" {
		return clierrors.InvalidFlagCombination("--from-commits and --since-tag",
			"Use --from-commits A..B or --since-tag TAG, not both")
	}

	format, err := changelog.ParseFormat(opts.format)
	if err != nil {
		return clierrors.NewArgumentErrorWithUsage(err.Error(),
			"changegen generate --format markdown|yaml|terminal|list")
	}

	revRange := opts.fromCommits
	if opts.sinceTag != "" {
		revRange = opts.sinceTag + "..HEAD"
	}

	if err := g.requireRepository(); err != nil {
		return err
	}

	if err := renderRange(cmd, g, opts, format, revRange); err != nil {
		return err
	}
	if !opts.watch {
		return nil
	}
	return watchAndRender(cmd, g, opts, format, revRange)
}

// renderRange reads revRange and writes the rendered changes once.
func renderRange(cmd *cobra.Command, g *globalOptions, opts *generateOptions, format changelog.Format, revRange string) error {
	subjects, err := g.readHistory(cmd, revRange)
	if err != nil {
		return err
	}

	changes := changelog.Group(subjects)
	if changes.IsEmpty() {
		logger.FromContext(cmd.Context()).Info("no commits found", "range", displayRange(revRange))
	}

	var w io.Writer = cmd.OutOrStdout()
	plain := g.cfg.Plain
	if opts.output != "" {
		f, err := os.Create(opts.output)
		if err != nil {
			return clierrors.FileNotWritable(opts.output, err)
		}
		defer f.Close()
		w = f
		plain = true
	}

	if err := changelog.Render(changes, format, w, changelog.FormatOptions{Plain: plain}); err != nil {
		return fmt.Errorf("rendering changelog: %w", err)
	}

	if opts.output != "" {
		fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %d entries to %s\n", changes.Count(), opts.output)
	}
	return nil
}

// watchAndRender re-renders after every burst of ref changes until the
// command context is cancelled. Render failures are reported and watching
// continues.
func watchAndRender(cmd *cobra.Command, g *globalOptions, opts *generateOptions, format changelog.Format, revRange string) error {
	gitDir, err := git.GitDir(g.cfg.RepoPath)
	if err != nil {
		return clierrors.Wrap(err, clierrors.Runtime)
	}

	w, err := watch.New(gitDir, watch.DefaultDebounce)
	if err != nil {
		return clierrors.WrapWithMessage(err, clierrors.Runtime, "starting repository watcher",
			"Raise the inotify watch limit (fs.inotify.max_user_watches) or run without --watch")
	}
	defer w.Close()

	fmt.Fprintln(cmd.ErrOrStderr(), "Watching for new commits (Ctrl+C to stop)")
	for range w.Changes(cmd.Context()) {
		logger.FromContext(cmd.Context()).Info("repository changed, regenerating", "range", displayRange(revRange))
		if opts.output == "" {
			fmt.Fprintln(cmd.OutOrStdout())
		}
		if err := renderRange(cmd, g, opts, format, revRange); err != nil {
			clierrors.FprintAny(cmd.ErrOrStderr(), err, !g.cfg.Plain)
		}
	}
	return nil
}
