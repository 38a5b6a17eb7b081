package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/ariel-frischer/changegen/internal/changelog"
	"github.com/ariel-frischer/changegen/internal/document"
	clierrors "github.com/ariel-frischer/changegen/internal/errors"
	"github.com/ariel-frischer/changegen/internal/git"
	"github.com/ariel-frischer/changegen/internal/logger"
	"github.com/ariel-frischer/changegen/internal/progress"
	"github.com/spf13/cobra"
)

// requireRepository fails with a prerequisite error when repo_path is not
// inside a git repository.
func (o *globalOptions) requireRepository() error {
	if !git.IsRepository(o.cfg.RepoPath) {
		return clierrors.GitNotRepository(o.cfg.RepoPath)
	}
	return nil
}

// readHistory returns the commit subjects in revRange, cleaned when
// clean_messages is set. Reading is bounded by git_timeout and shows a
// spinner on stderr while it runs.
func (o *globalOptions) readHistory(cmd *cobra.Command, revRange string) ([]string, error) {
	if _, err := git.ParseRange(revRange); err != nil {
		return nil, clierrors.InvalidRange(revRange, err)
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), o.cfg.GitTimeout)
	defer cancel()

	sp := progress.NewSpinner(cmd.ErrOrStderr(), progress.DetectTerminalCapabilities(os.Stderr), o.cfg.Plain)
	sp.Start("Reading commit history")

	subjects, err := git.CommitSubjects(ctx, o.cfg.RepoPath, revRange)
	if err != nil {
		sp.Fail("Reading commit history failed")
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, clierrors.WrapWithMessage(err, clierrors.Runtime,
				fmt.Sprintf("reading git history timed out after %s", o.cfg.GitTimeout),
				"Narrow the range with --from-commits or --since-tag",
				"Or raise git_timeout (e.g., CHANGEGEN_GIT_TIMEOUT=2m)",
			)
		}
		return nil, clierrors.WrapWithMessage(err, clierrors.Runtime,
			"reading git history failed",
			"Check that the range names existing tags, branches or commits",
		)
	}
	sp.Stop()

	logger.FromContext(cmd.Context()).Debug("read commit history", "range", displayRange(revRange), "commits", len(subjects))

	if o.cfg.CleanMessages {
		for i, s := range subjects {
			subjects[i] = changelog.CleanMessage(s)
		}
	}
	return subjects, nil
}

// sinceLatestTag returns the range of commits after the nearest tag, or ""
// (all history) when the repository has no tags.
func (o *globalOptions) sinceLatestTag(cmd *cobra.Command) (string, string, error) {
	tag, err := git.LatestTag(o.cfg.RepoPath)
	if err != nil {
		return "", "", clierrors.WrapWithMessage(err, clierrors.Runtime, "finding latest tag failed")
	}
	if tag == "" {
		logger.FromContext(cmd.Context()).Debug("no tags found, using full history")
		return "", "", nil
	}
	return tag, tag + "..HEAD", nil
}

// readDocument loads the changelog and checks it has an Unreleased section.
func (o *globalOptions) readDocument() (*document.FileStore, string, error) {
	store := document.NewFileStore(o.cfg.ChangelogPath)
	doc, err := store.Read()
	if err != nil {
		if errors.Is(err, document.ErrNotFound) {
			return nil, "", clierrors.ChangelogNotFound(o.cfg.ChangelogPath)
		}
		return nil, "", clierrors.Wrap(err, clierrors.Runtime)
	}
	if !changelog.HasUnreleased(doc) {
		return nil, "", clierrors.UnreleasedSectionMissing(o.cfg.ChangelogPath)
	}
	return store, doc, nil
}

// writeDocument persists doc, or prints it to stdout on a dry run.
func (o *globalOptions) writeDocument(cmd *cobra.Command, store document.Store, doc string, dryRun bool) error {
	if dryRun {
		_, err := fmt.Fprint(cmd.OutOrStdout(), doc)
		return err
	}
	if err := store.Write(doc); err != nil {
		return clierrors.FileNotWritable(o.cfg.ChangelogPath, err)
	}
	return nil
}

func displayRange(revRange string) string {
	if revRange == "" {
		return "HEAD"
	}
	return revRange
}
