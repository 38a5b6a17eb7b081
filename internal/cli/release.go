package cli

import (
	"fmt"
	"time"

	"github.com/ariel-frischer/changegen/internal/changelog"
	clierrors "github.com/ariel-frischer/changegen/internal/errors"
	"github.com/ariel-frischer/changegen/internal/logger"
	"github.com/spf13/cobra"
)

const dateLayout = "2006-01-02"

type releaseOptions struct {
	date   string
	dryRun bool
	now    func() time.Time
}

func newReleaseCmd(g *globalOptions) *cobra.Command {
	opts := &releaseOptions{now: time.Now}

	cmd := &cobra.Command{
		Use:   "release <version>",
		Short: "Promote the Unreleased section to a dated release",
		Long: `Move the Unreleased section under a new "## [<version>] - <date>" heading
and leave an empty Unreleased section above it.

The release body is chosen in this order:
  1. hand-written content already in the Unreleased section
  2. sections generated from the commits since the latest tag
  3. the fallback_entry from the configuration

The version must be MAJOR.MINOR.PATCH (a leading "v" is accepted) and must
not already appear in the changelog.`,
		Example: `  # Release 1.3.0 dated today
  changegen release 1.3.0

  # Pin the date and preview the result
  changegen release v1.3.0 --date 2024-05-01 --dry-run`,
		GroupID: GroupChangelog,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return clierrors.NewArgumentErrorWithUsage(
					fmt.Sprintf("expected exactly one version argument, got %d", len(args)),
					"changegen release <MAJOR.MINOR.PATCH>",
				)
			}
			return runRelease(cmd, g, opts, args[0])
		},
	}

	cmd.Flags().StringVar(&opts.date, "date", "", "Release date as YYYY-MM-DD (default: today)")
	cmd.Flags().BoolVarP(&opts.dryRun, "dry-run", "n", false, "Print the updated changelog instead of writing it")

	return cmd
}

func runRelease(cmd *cobra.Command, g *globalOptions, opts *releaseOptions, rawVersion string) error {
	version := changelog.NormalizeVersion(rawVersion)
	if !changelog.IsSemanticVersion(version) {
		return clierrors.InvalidVersion(rawVersion)
	}

	date, err := opts.releaseDate()
	if err != nil {
		return err
	}

	store, doc, err := g.readDocument()
	if err != nil {
		return err
	}
	if changelog.HasVersion(doc, version) {
		return clierrors.VersionExists(version, g.cfg.ChangelogPath)
	}

	generated, err := g.generatedSinceTag(cmd)
	if err != nil {
		return err
	}

	plan := changelog.PlanRelease(doc, generated)
	if plan.Source == changelog.SourceFallback {
		plan.Content = g.cfg.FallbackEntry
	}

	promoted, ok := changelog.PromoteUnreleased(doc, plan, version, date)
	if !ok {
		return clierrors.UnreleasedSectionMissing(g.cfg.ChangelogPath)
	}

	if err := g.writeDocument(cmd, store, promoted, opts.dryRun); err != nil {
		return err
	}

	logger.FromContext(cmd.Context()).Info("promoted unreleased section", "version", version, "date", date, "source", plan.Source.String(), "dry_run", opts.dryRun)
	if !opts.dryRun {
		fmt.Fprintf(cmd.ErrOrStderr(), "Released %s (%s) in %s using %s entries\n",
			version, date, g.cfg.ChangelogPath, plan.Source)
	}
	return nil
}

// generatedSinceTag synthesizes the commits after the latest tag. Outside a
// git repository there is nothing to generate and "" is returned.
func (g *globalOptions) generatedSinceTag(cmd *cobra.Command) (string, error) {
	if g.requireRepository() != nil {
		logger.FromContext(cmd.Context()).Warn("not a git repository, skipping generated entries", "repo", g.cfg.RepoPath)
		return "", nil
	}

	_, revRange, err := g.sinceLatestTag(cmd)
	if err != nil {
		return "", err
	}
	subjects, err := g.readHistory(cmd, revRange)
	if err != nil {
		return "", err
	}
	return changelog.Synthesize(subjects), nil
}

func (o *releaseOptions) releaseDate() (string, error) {
	if o.date == "" {
		return o.now().Format(dateLayout), nil
	}
	if _, err := time.Parse(dateLayout, o.date); err != nil {
		return "", clierrors.NewArgumentErrorWithUsage(
			fmt.Sprintf("invalid release date: %q", o.date),
			"changegen release <version> --date YYYY-MM-DD",
		)
	}
	return o.date, nil
}
