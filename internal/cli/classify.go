package cli

import (
	"bufio"
	"fmt"
	"io"
	"runtime"
	"strings"

	"github.com/ariel-frischer/changegen/internal/changelog"
	clierrors "github.com/ariel-frischer/changegen/internal/errors"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func newClassifyCmd(g *globalOptions) *cobra.Command {
	var (
		jobs       int
		categories []string
	)

	cmd := &cobra.Command{
		Use:   "classify [message...]",
		Short: "Show the changelog category of commit messages",
		Long: `Classify each message the way generate and update do and print the
category with the cleaned description. Messages are read one per line from
stdin when no arguments are given.`,
		Example: `  changegen classify "feat(api)!: drop v1 endpoints" "docs: fix typo"
  changegen classify --category fixed,security < subjects.txt
  git log --format=%s -20 | changegen classify --plain`,
		GroupID: GroupInfo,
		RunE: func(cmd *cobra.Command, args []string) error {
			if jobs < 1 {
				return clierrors.NewArgumentErrorWithUsage(
					fmt.Sprintf("--jobs must be at least 1, got %d", jobs),
					"changegen classify --jobs N [message...]",
				)
			}
			only, err := parseCategories(categories)
			if err != nil {
				return err
			}
			messages := args
			if len(messages) == 0 {
				if messages, err = readLines(cmd.InOrStdin()); err != nil {
					return fmt.Errorf("reading stdin: %w", err)
				}
			}
			return runClassify(cmd, g, messages, jobs, only)
		},
	}

	cmd.Flags().IntVarP(&jobs, "jobs", "j", runtime.NumCPU(), "Number of messages classified concurrently")
	cmd.Flags().StringSliceVar(&categories, "category", nil, "Only print entries in these categories (repeatable, comma-separated)")

	return cmd
}

// parseCategories resolves --category names. A nil set means no filter.
func parseCategories(names []string) (map[changelog.Category]bool, error) {
	if len(names) == 0 {
		return nil, nil
	}
	set := make(map[changelog.Category]bool, len(names))
	for _, name := range names {
		cat, ok := changelog.ParseCategory(name)
		if !ok {
			return nil, clierrors.NewArgumentErrorWithUsage(
				fmt.Sprintf("unknown category %q (expected: added, changed, fixed, documentation, security)", name),
				"changegen classify --category fixed,security [message...]",
			)
		}
		set[cat] = true
	}
	return set, nil
}

func runClassify(cmd *cobra.Command, g *globalOptions, messages []string, jobs int, only map[changelog.Category]bool) error {
	entries, err := classifyAll(cmd, messages, jobs, g.cfg.CleanMessages)
	if err != nil {
		return err
	}

	opts := changelog.FormatOptions{Plain: g.cfg.Plain}
	out := cmd.OutOrStdout()
	for _, entry := range entries {
		if only != nil && !only[entry.Category] {
			continue
		}
		if _, err := fmt.Fprintln(out, changelog.FormatEntrySummary(entry, opts)); err != nil {
			return err
		}
	}
	return nil
}

// classifyAll classifies messages on a bounded pool of goroutines. Results
// are stored by input index, so output order always matches input order.
func classifyAll(cmd *cobra.Command, messages []string, jobs int, clean bool) ([]changelog.Entry, error) {
	entries := make([]changelog.Entry, len(messages))

	eg, ctx := errgroup.WithContext(cmd.Context())
	eg.SetLimit(jobs)

	for i, msg := range messages {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if clean {
				msg = changelog.CleanMessage(msg)
			}
			category, description := changelog.Classify(msg)
			entries[i] = changelog.Entry{Category: category, Description: description}
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return entries, nil
}

// readLines returns the non-blank lines of r.
func readLines(r io.Reader) ([]string, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			lines = append(lines, line)
		}
	}
	return lines, scanner.Err()
}
