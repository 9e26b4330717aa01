package cli

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/reoring/jsonldlint/internal/console"
)

const debounceDelay = 300 * time.Millisecond

// Watch lints target once and again whenever a matching file changes,
// until ctx is cancelled.
func (r *Runner) Watch(ctx context.Context, target string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	single := !IsDir(target)
	dirs := []string{target}
	if single {
		dirs = []string{filepath.Dir(target)}
	} else if r.Config.Recursive {
		dirs, err = subdirectories(target)
		if err != nil {
			return err
		}
	}
	for _, d := range dirs {
		if err := watcher.Add(d); err != nil {
			return fmt.Errorf("failed to watch directory %s: %w", d, err)
		}
	}

	fmt.Fprintln(r.Out, console.FormatInfoMessage(fmt.Sprintf("Watching for file changes in %s...", console.ToRelativePath(target))))
	if err := r.Lint(ctx, target); err != nil && err != ErrFindings {
		fmt.Fprintln(r.Out, console.FormatWarningMessage(fmt.Sprintf("Initial lint failed: %v", err)))
	}

	var (
		mu       sync.Mutex
		timer    *time.Timer
		modified = map[string]struct{}{}
	)
	flush := func() {
		mu.Lock()
		paths := make([]string, 0, len(modified))
		for p := range modified {
			paths = append(paths, p)
		}
		modified = map[string]struct{}{}
		mu.Unlock()
		sort.Strings(paths)
		for _, rep := range r.LintFiles(ctx, paths) {
			r.printReport(rep)
		}
	}
	defer func() {
		mu.Lock()
		if timer != nil {
			timer.Stop()
		}
		mu.Unlock()
	}()

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return fmt.Errorf("watcher channel closed")
			}
			if !r.watched(target, single, event.Name) {
				continue
			}
			if r.Verbose {
				fmt.Fprintln(r.Out, console.FormatVerboseMessage(fmt.Sprintf("Detected change: %s (%s)", event.Name, event.Op)))
			}
			if event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
				mu.Lock()
				delete(modified, event.Name)
				mu.Unlock()
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			mu.Lock()
			modified[event.Name] = struct{}{}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(debounceDelay, flush)
			mu.Unlock()

		case err, ok := <-watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher error channel closed")
			}
			log.Warningf("watcher error: %v", err)

		case <-ctx.Done():
			return nil
		}
	}
}

func (r *Runner) watched(target string, single bool, name string) bool {
	if single {
		return filepath.Clean(name) == filepath.Clean(target)
	}
	return lintable(filepath.Base(name), r.Config.FileExtension)
}

func subdirectories(root string) ([]string, error) {
	var dirs []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			dirs = append(dirs, path)
		}
		return nil
	})
	return dirs, err
}
