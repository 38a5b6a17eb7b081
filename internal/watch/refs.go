// Package watch reports when a repository's refs move so that generated
// changelog previews can be refreshed after each commit.
package watch

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce groups the burst of ref writes a single commit produces.
const DefaultDebounce = 250 * time.Millisecond

// Files directly inside the git dir that mean history moved. Everything else
// there (index, logs, ORIG_HEAD, COMMIT_EDITMSG) is noise.
var rootRefFiles = map[string]bool{
	"HEAD":        true,
	"packed-refs": true,
}

// RefPaths returns the directories whose changes mean a new commit or tag:
// the git dir itself plus every directory below refs/, so slash-named
// branches such as refs/heads/feature/x are covered.
func RefPaths(gitDir string) []string {
	gitDir = filepath.Clean(gitDir)
	return append([]string{gitDir}, dirsUnder(filepath.Join(gitDir, "refs"))...)
}

func dirsUnder(root string) []string {
	var dirs []string
	_ = filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			dirs = append(dirs, p)
		}
		return nil
	})
	return dirs
}

// RefWatcher delivers one notification per burst of ref changes.
type RefWatcher struct {
	gitDir   string
	refsDir  string
	watcher  *fsnotify.Watcher
	debounce time.Duration
	mu       sync.Mutex
	closed   bool
}

// New watches the refs of the repository whose git dir is gitDir. A
// debounce of zero uses DefaultDebounce.
func New(gitDir string, debounce time.Duration) (*RefWatcher, error) {
	info, err := os.Stat(gitDir)
	if err != nil {
		return nil, fmt.Errorf("watching %s: %w", gitDir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("watching %s: not a directory", gitDir)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating fsnotify watcher: %w", err)
	}

	for _, p := range RefPaths(gitDir) {
		if err := watcher.Add(p); err != nil {
			watcher.Close()
			return nil, fmt.Errorf("watching %s: %w", p, err)
		}
	}

	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	gitDir = filepath.Clean(gitDir)
	return &RefWatcher{
		gitDir:   gitDir,
		refsDir:  filepath.Join(gitDir, "refs"),
		watcher:  watcher,
		debounce: debounce,
	}, nil
}

// Changes returns a channel that receives a value after each quiet period
// following relevant events. It is closed when ctx is done or the watcher
// is closed.
func (w *RefWatcher) Changes(ctx context.Context) <-chan struct{} {
	out := make(chan struct{}, 1)
	go w.loop(ctx, out)
	return out
}

func (w *RefWatcher) loop(ctx context.Context, out chan<- struct{}) {
	defer close(out)

	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Has(fsnotify.Create) {
				w.track(event.Name)
			}
			if w.relevant(event) {
				timer.Reset(w.debounce)
			}
		case <-timer.C:
			select {
			case out <- struct{}{}:
			default:
				// A notification is already pending.
			}
		case _, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			// Keep watching; the next event still triggers a refresh.
		}
	}
}

// track starts watching a directory created under refs/ after New, the way
// git creates refs/heads/feature/ for a new "feature/x" branch.
func (w *RefWatcher) track(path string) {
	if !w.underRefs(path) {
		return
	}
	if info, err := os.Stat(path); err != nil || !info.IsDir() {
		return
	}
	for _, dir := range dirsUnder(path) {
		_ = w.watcher.Add(dir)
	}
}

func (w *RefWatcher) underRefs(path string) bool {
	return path == w.refsDir || strings.HasPrefix(path, w.refsDir+string(filepath.Separator))
}

// relevant keeps ref updates and drops lock files, permission changes and
// writes to git dir files that are not refs.
func (w *RefWatcher) relevant(event fsnotify.Event) bool {
	if strings.HasSuffix(event.Name, ".lock") {
		return false
	}
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) &&
		!event.Has(fsnotify.Rename) && !event.Has(fsnotify.Remove) {
		return false
	}
	if filepath.Dir(event.Name) == w.gitDir {
		return rootRefFiles[filepath.Base(event.Name)]
	}
	return w.underRefs(event.Name)
}

// Close stops the watcher and releases resources.
func (w *RefWatcher) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil
	}
	w.closed = true
	return w.watcher.Close()
}
