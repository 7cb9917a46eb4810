package build

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watch builds once, then builds again each time a source below the source
// directory is written, created, removed or renamed, until ctx is done.
// Events closer together than debounce trigger a single build. report is
// called after every build with its result.
func (b *Builder) Watch(ctx context.Context, debounce time.Duration, report func(*BuildResult, error)) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer w.Close()

	if err := addRecursive(w, b.config.SourceDir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", b.config.SourceDir, err)
	}

	rebuild := func() bool {
		result, err := b.Build(ctx, nil)
		if ctx.Err() != nil {
			return false
		}
		b.force = false
		report(result, err)
		return true
	}
	if !rebuild() {
		return nil
	}

	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !b.relevant(w, event) {
				continue
			}
			b.logger.Debug("source changed", "path", event.Name, "op", event.Op.String())
			if timer == nil {
				timer = time.NewTimer(debounce)
			} else {
				timer.Reset(debounce)
			}
			fire = timer.C

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			b.logger.Error("watch error", "error", err)

		case <-fire:
			fire = nil
			if !rebuild() {
				return nil
			}
		}
	}
}

// relevant reports whether event can change the build. New directories are
// watched as they appear.
func (b *Builder) relevant(w *fsnotify.Watcher, event fsnotify.Event) bool {
	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := addRecursive(w, event.Name); err != nil {
				b.logger.Error("watch error", "path", event.Name, "error", err)
			}
			return true
		}
	}
	if event.Has(fsnotify.Chmod) && !event.Has(fsnotify.Write) {
		return false
	}
	return filepath.Ext(event.Name) == b.config.SourceExt
}

// addRecursive watches root and every directory below it
func addRecursive(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		return w.Add(path)
	})
}
