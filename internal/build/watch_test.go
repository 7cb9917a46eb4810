package build

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatchRebuildsOnChange(t *testing.T) {
	cfg, st, tr := setup(t)
	writeFile(t, filepath.Join(cfg.SourceDir, "a.wiki"), "a")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reports := make(chan *BuildResult, 16)
	done := make(chan error, 1)
	go func() {
		done <- NewBuilder(cfg, st, tr).Watch(ctx, 20*time.Millisecond, func(r *BuildResult, err error) {
			if err != nil {
				t.Errorf("Build failed: %v", err)
				return
			}
			reports <- r
		})
	}()

	next := func() *BuildResult {
		t.Helper()
		select {
		case r := <-reports:
			return r
		case <-time.After(5 * time.Second):
			t.Fatal("Timed out waiting for a build")
			return nil
		}
	}

	if r := next(); len(r.Rendered) != 1 {
		t.Fatalf("Expected the initial build to render a.wiki, got %v", r.Rendered)
	}

	// A new file in a new directory is picked up.
	if err := os.MkdirAll(filepath.Join(cfg.SourceDir, "new"), 0755); err != nil {
		t.Fatal(err)
	}
	writeFile(t, filepath.Join(cfg.SourceDir, "new", "b.wiki"), "b")

	deadline := time.After(5 * time.Second)
	for {
		if _, err := os.Stat(filepath.Join(cfg.OutputDir, "new", "b.html")); err == nil {
			break
		}
		select {
		case <-reports:
		case <-deadline:
			t.Fatal("Timed out waiting for b.wiki to be rendered")
		}
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Expected Watch to stop cleanly, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Watch did not stop after cancel")
	}
}

func TestWatchMissingSourceDir(t *testing.T) {
	cfg, st, tr := setup(t)
	cfg.SourceDir = filepath.Join(cfg.SourceDir, "missing")

	err := NewBuilder(cfg, st, tr).Watch(context.Background(), time.Millisecond, func(*BuildResult, error) {})
	if err == nil {
		t.Error("Expected an error for a missing source directory")
	}
}
