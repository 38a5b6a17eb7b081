package cli

import (
	"fmt"

	"github.com/ariel-frischer/changegen/internal/changelog"
	"github.com/ariel-frischer/changegen/internal/logger"
	"github.com/spf13/cobra"
)

func newUpdateCmd(g *globalOptions) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "update",
		Short: "Merge commits since the latest tag into the Unreleased section",
		Long: `Read the commits after the nearest tag (all of HEAD when there are no tags),
render them as changelog sections and place them after any content already
in the "## [Unreleased]" section of the changelog.

The changelog must exist and contain a "## [Unreleased]" heading.
Everything outside the Unreleased section is left byte-for-byte intact.`,
		Example: `  # Update CHANGELOG.md in place
  changegen update

  # Show the result without writing it
  changegen update --dry-run

  # Work on another file
  changegen update --changelog docs/CHANGES.md`,
		Args:    cobra.NoArgs,
		GroupID: GroupChangelog,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUpdate(cmd, g, dryRun)
		},
	}

	cmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "Print the updated changelog instead of writing it")

	return cmd
}

func runUpdate(cmd *cobra.Command, g *globalOptions, dryRun bool) error {
	store, doc, err := g.readDocument()
	if err != nil {
		return err
	}
	if err := g.requireRepository(); err != nil {
		return err
	}

	tag, revRange, err := g.sinceLatestTag(cmd)
	if err != nil {
		return err
	}

	subjects, err := g.readHistory(cmd, revRange)
	if err != nil {
		return err
	}

	block := changelog.Synthesize(subjects)
	if block == "" {
		if tag == "" {
			fmt.Fprintln(cmd.ErrOrStderr(), "No commits found; changelog unchanged.")
		} else {
			fmt.Fprintf(cmd.ErrOrStderr(), "No commits since %s; changelog unchanged.\n", tag)
		}
		return nil
	}

	merged, _ := changelog.MergeUnreleased(doc, block)
	if err := g.writeDocument(cmd, store, merged, dryRun); err != nil {
		return err
	}

	logger.FromContext(cmd.Context()).Info("merged unreleased changes", "changelog", g.cfg.ChangelogPath, "commits", len(subjects), "dry_run", dryRun)
	if !dryRun {
		fmt.Fprintf(cmd.ErrOrStderr(), "Updated %s with %d commits\n", g.cfg.ChangelogPath, len(subjects))
	}
	return nil
}
