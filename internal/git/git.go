// Package git reads commit history for changelog generation. It uses the
// go-git library so no git CLI installation is required: commit subjects
// for a revision range, the nearest tag reachable from HEAD, and repository
// detection.
package git

import (
	"context"
	"errors"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/storer"
	"github.com/go-git/go-git/v5/storage/filesystem"
)

// debugLogger is a function that logs debug messages when debug mode is enabled.
// By default, it's a no-op. Set it via SetDebugLogger to enable debug output.
var debugLogger func(format string, args ...any)

// SetDebugLogger configures the debug logger for git operations.
// Pass nil to disable debug logging. The logger function should format
// and output the message (similar to log.Printf signature).
func SetDebugLogger(logger func(format string, args ...any)) {
	debugLogger = logger
}

// logDebug logs a debug message if the debug logger is set.
func logDebug(format string, args ...any) {
	if debugLogger != nil {
		debugLogger(format, args...)
	}
}

// ErrInvalidRange is returned when a revision range contains characters
// outside the accepted set or has an empty side.
var ErrInvalidRange = errors.New("invalid revision range")

// rangePattern accepts "rev" or "from..to" made of ref-name characters
// plus the ~ and ^ ancestry suffixes.
var rangePattern = regexp.MustCompile(`^[A-Za-z0-9._/~^-]+$`)

// RevRange is a parsed revision range. From is empty for a single revision.
type RevRange struct {
	From string
	To   string
}

// String renders the range back in "from..to" form.
func (r RevRange) String() string {
	if r.From == "" {
		return r.To
	}
	return r.From + ".." + r.To
}

// ParseRange validates and splits a revision range. An empty string means
// all history reachable from HEAD.
func ParseRange(expr string) (RevRange, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return RevRange{To: "HEAD"}, nil
	}
	if !rangePattern.MatchString(expr) {
		return RevRange{}, fmt.Errorf("%w: %q", ErrInvalidRange, expr)
	}

	from, to, found := strings.Cut(expr, "..")
	if !found {
		return RevRange{To: expr}, nil
	}
	if from == "" || to == "" || strings.HasPrefix(to, ".") || strings.Contains(to, "..") {
		return RevRange{}, fmt.Errorf("%w: %q", ErrInvalidRange, expr)
	}
	return RevRange{From: from, To: to}, nil
}

// openRepo opens a git repository at the specified path or current working directory.
// It uses go-git's PlainOpenWithOptions with DetectDotGit enabled to traverse
// up the directory tree to find the repository root.
// If path is empty, the current working directory is used.
func openRepo(path string) (*git.Repository, error) {
	if path == "" {
		var err error
		path, err = os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getting current directory: %w", err)
		}
	}

	logDebug("[git] opening repository at %s", path)

	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{
		DetectDotGit: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening repository at %s: %w", path, err)
	}

	return repo, nil
}

// IsRepository checks if path is within a git repository.
func IsRepository(path string) bool {
	_, err := openRepo(path)
	result := err == nil
	logDebug("[git] IsRepository(%s): %v", path, result)
	return result
}

// GitDir returns the absolute path of the repository's .git directory.
func GitDir(repoPath string) (string, error) {
	repo, err := openRepo(repoPath)
	if err != nil {
		return "", err
	}
	st, ok := repo.Storer.(*filesystem.Storage)
	if !ok {
		return "", fmt.Errorf("repository at %s is not stored on disk", repoPath)
	}
	return st.Filesystem().Root(), nil
}

// CommitSubjects returns the subject of every non-merge commit in
// revRange, newest first. revRange is "" (all history from HEAD), a single
// revision, or "from..to" (reachable from to but not from from).
//
// On any failure the returned slice is nil: callers never see a partial list.
func CommitSubjects(ctx context.Context, repoPath, revRange string) ([]string, error) {
	rr, err := ParseRange(revRange)
	if err != nil {
		return nil, err
	}

	repo, err := openRepo(repoPath)
	if err != nil {
		return nil, err
	}

	subjects, err := collectSubjects(ctx, repo, rr)
	if err != nil {
		return nil, fmt.Errorf("reading commits for %s: %w", rr, err)
	}

	logDebug("[git] CommitSubjects(%s): %d commits", rr, len(subjects))
	return subjects, nil
}

func collectSubjects(ctx context.Context, repo *git.Repository, rr RevRange) ([]string, error) {
	to, err := resolve(repo, rr.To)
	if err != nil {
		return nil, err
	}

	var excluded map[plumbing.Hash]bool
	if rr.From != "" {
		from, err := resolve(repo, rr.From)
		if err != nil {
			return nil, err
		}
		if excluded, err = reachable(ctx, repo, from); err != nil {
			return nil, err
		}
	}

	iter, err := repo.Log(&git.LogOptions{From: to, Order: git.LogOrderCommitterTime})
	if err != nil {
		return nil, fmt.Errorf("walking history from %s: %w", rr.To, err)
	}
	defer iter.Close()

	var subjects []string
	err = iter.ForEach(func(c *object.Commit) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if excluded[c.Hash] || c.NumParents() > 1 {
			return nil
		}
		if subject := subjectOf(c.Message); subject != "" {
			subjects = append(subjects, subject)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return subjects, nil
}

// reachable returns the set of commits reachable from start.
func reachable(ctx context.Context, repo *git.Repository, start plumbing.Hash) (map[plumbing.Hash]bool, error) {
	iter, err := repo.Log(&git.LogOptions{From: start})
	if err != nil {
		return nil, fmt.Errorf("walking history from %s: %w", start, err)
	}
	defer iter.Close()

	seen := make(map[plumbing.Hash]bool)
	err = iter.ForEach(func(c *object.Commit) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		seen[c.Hash] = true
		return nil
	})
	if err != nil {
		return nil, err
	}
	return seen, nil
}

// LatestTag returns the nearest tag reachable from HEAD, or "" when the
// history has no tags. Both lightweight and annotated tags are considered.
// When several tags point at the same commit the highest name wins.
func LatestTag(repoPath string) (string, error) {
	repo, err := openRepo(repoPath)
	if err != nil {
		return "", err
	}

	tagged, err := tagsByCommit(repo)
	if err != nil {
		return "", err
	}
	if len(tagged) == 0 {
		logDebug("[git] LatestTag: no tags")
		return "", nil
	}

	head, err := repo.Head()
	if err != nil {
		return "", fmt.Errorf("getting HEAD reference: %w", err)
	}

	iter, err := repo.Log(&git.LogOptions{From: head.Hash(), Order: git.LogOrderCommitterTime})
	if err != nil {
		return "", fmt.Errorf("walking history from HEAD: %w", err)
	}
	defer iter.Close()

	var latest string
	err = iter.ForEach(func(c *object.Commit) error {
		names, ok := tagged[c.Hash]
		if !ok {
			return nil
		}
		sort.Strings(names)
		latest = names[len(names)-1]
		return storer.ErrStop
	})
	if err != nil {
		return "", fmt.Errorf("searching tagged commits: %w", err)
	}

	logDebug("[git] LatestTag: %q", latest)
	return latest, nil
}

// tagsByCommit maps each tagged commit to its tag names, peeling annotated tags.
func tagsByCommit(repo *git.Repository) (map[plumbing.Hash][]string, error) {
	iter, err := repo.Tags()
	if err != nil {
		return nil, fmt.Errorf("listing tags: %w", err)
	}
	defer iter.Close()

	tagged := make(map[plumbing.Hash][]string)
	err = iter.ForEach(func(ref *plumbing.Reference) error {
		target := ref.Hash()
		if tag, err := repo.TagObject(target); err == nil {
			commit, err := tag.Commit()
			if err != nil {
				logDebug("[git] skipping tag %s: %v", ref.Name().Short(), err)
				return nil
			}
			target = commit.Hash
		}
		tagged[target] = append(tagged[target], ref.Name().Short())
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("iterating tags: %w", err)
	}
	return tagged, nil
}

func resolve(repo *git.Repository, rev string) (plumbing.Hash, error) {
	h, err := repo.ResolveRevision(plumbing.Revision(rev))
	if err != nil {
		return plumbing.ZeroHash, fmt.Errorf("resolving revision %q: %w", rev, err)
	}
	return *h, nil
}

// subjectOf returns the subject of a commit message the way git's %s does:
// the first paragraph, with its lines joined by single spaces.
func subjectOf(message string) string {
	var parts []string
	for _, line := range strings.Split(message, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			if len(parts) > 0 {
				break
			}
			continue
		}
		parts = append(parts, line)
	}
	return strings.Join(parts, " ")
}
