package build

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/gerunddev/dotwiki/internal/config"
	"github.com/gerunddev/dotwiki/internal/logger"
	"github.com/gerunddev/dotwiki/internal/state"
	"github.com/gerunddev/dotwiki/internal/xhtml"
)

func setup(t *testing.T) (*config.Config, *state.State, *xhtml.Translator) {
	t.Helper()
	tmpDir := t.TempDir()

	cfg := config.DefaultConfig()
	cfg.SourceDir = filepath.Join(tmpDir, "wiki")
	cfg.OutputDir = filepath.Join(tmpDir, "public")
	cfg.Workers = 2

	if err := os.MkdirAll(filepath.Join(cfg.SourceDir, "sub"), 0755); err != nil {
		t.Fatalf("Failed to create source directory: %v", err)
	}

	tr, err := xhtml.New()
	if err != nil {
		t.Fatalf("Failed to create translator: %v", err)
	}
	return cfg, state.NewState(), tr
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write %s: %v", path, err)
	}
}

func TestBuildRendersAndSkips(t *testing.T) {
	cfg, st, tr := setup(t)
	writeFile(t, filepath.Join(cfg.SourceDir, "index.wiki"), "!!!Accueil\n\n* a\n* b")
	writeFile(t, filepath.Join(cfg.SourceDir, "sub", "page.wiki"), "''texte''")
	writeFile(t, filepath.Join(cfg.SourceDir, "notes.txt"), "ignored")

	var logBuf bytes.Buffer
	b := NewBuilder(cfg, st, tr)
	b.SetLogger(logger.New(&logBuf))

	var mu sync.Mutex
	var seen []string
	res, err := b.Build(context.Background(), func(r FileResult) {
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, r.Source)
	})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if len(res.Rendered) != 2 || len(res.Errors) != 0 {
		t.Fatalf("Expected 2 rendered files and no errors, got %v / %v", res.Rendered, res.Errors)
	}
	if len(seen) != 2 {
		t.Errorf("Expected progress for 2 files, got %d", len(seen))
	}

	out, err := os.ReadFile(filepath.Join(cfg.OutputDir, "index.html"))
	if err != nil {
		t.Fatalf("Expected index.html: %v", err)
	}
	expected := "<h3>Accueil</h3>\n\n<ul>\n <li>a</li>\n <li>b</li>\n</ul>"
	if string(out) != expected {
		t.Errorf("Expected:\n%q\ngot:\n%q", expected, string(out))
	}
	if _, err := os.Stat(filepath.Join(cfg.OutputDir, "sub", "page.html")); err != nil {
		t.Errorf("Expected nested output: %v", err)
	}
	if !strings.Contains(logBuf.String(), "build completed") {
		t.Errorf("Expected build summary in log, got: %s", logBuf.String())
	}

	// Second build: nothing changed.
	res, err = b.Build(context.Background(), nil)
	if err != nil {
		t.Fatalf("Second build failed: %v", err)
	}
	if len(res.Rendered) != 0 || len(res.Skipped) != 2 {
		t.Errorf("Expected everything skipped, got rendered=%v skipped=%v", res.Rendered, res.Skipped)
	}

	// Forced build renders again.
	b.SetForce(true)
	res, err = b.Build(context.Background(), nil)
	if err != nil {
		t.Fatalf("Forced build failed: %v", err)
	}
	if len(res.Rendered) != 2 {
		t.Errorf("Expected 2 rendered files when forced, got %v", res.Rendered)
	}
}

func TestBuildSettingsInvalidateCache(t *testing.T) {
	cfg, st, tr := setup(t)
	writeFile(t, filepath.Join(cfg.SourceDir, "index.wiki"), "* a")

	if _, err := NewBuilder(cfg, st, tr).Build(context.Background(), nil); err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	cfg.Indent = "\t"
	tabbed, err := xhtml.New(xhtml.WithIndent(cfg.Indent))
	if err != nil {
		t.Fatal(err)
	}
	res, err := NewBuilder(cfg, st, tabbed).Build(context.Background(), nil)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if len(res.Rendered) != 1 {
		t.Errorf("Expected a settings change to rebuild, got %v", res.Rendered)
	}
}

func TestBuildPrunesRemovedSources(t *testing.T) {
	cfg, st, tr := setup(t)
	src := filepath.Join(cfg.SourceDir, "gone.wiki")
	writeFile(t, src, "text")

	b := NewBuilder(cfg, st, tr)
	if _, err := b.Build(context.Background(), nil); err != nil {
		t.Fatal(err)
	}
	if err := os.Remove(src); err != nil {
		t.Fatal(err)
	}

	res, err := b.Build(context.Background(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Removed) != 1 || res.Removed[0] != src {
		t.Errorf("Expected %s to be pruned, got %v", src, res.Removed)
	}
	if _, ok := st.Files[src]; ok {
		t.Error("Expected state entry to be removed")
	}
}

func TestBuildCancelled(t *testing.T) {
	cfg, st, tr := setup(t)
	writeFile(t, filepath.Join(cfg.SourceDir, "a.wiki"), "a")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewBuilder(cfg, st, tr).Build(ctx, nil)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}

func TestBuildMissingSourceDir(t *testing.T) {
	cfg, st, tr := setup(t)
	cfg.SourceDir = filepath.Join(cfg.SourceDir, "missing")

	if _, err := NewBuilder(cfg, st, tr).Build(context.Background(), nil); err == nil {
		t.Error("Expected an error for a missing source directory")
	}
}

func TestOutputPath(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.SourceDir = "/src"
	cfg.OutputDir = "/out"
	b := NewBuilder(cfg, state.NewState(), nil)

	tests := []struct {
		source   string
		expected string
	}{
		{"/src/index.wiki", "/out/index.html"},
		{"/src/a/b/page.wiki", "/out/a/b/page.html"},
	}

	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			got, err := b.OutputPath(tt.source)
			if err != nil {
				t.Fatalf("OutputPath failed: %v", err)
			}
			if got != tt.expected {
				t.Errorf("Expected %s, got %s", tt.expected, got)
			}
		})
	}
}

func TestScanDirectory(t *testing.T) {
	tmpDir := t.TempDir()
	for _, name := range []string{"b.wiki", "a.wiki", "c.html", "d.txt"} {
		writeFile(t, filepath.Join(tmpDir, name), "test")
	}
	subDir := filepath.Join(tmpDir, "subdir")
	if err := os.MkdirAll(subDir, 0755); err != nil {
		t.Fatal(err)
	}
	writeFile(t, filepath.Join(subDir, "e.wiki"), "test")

	files, err := ScanDirectory(tmpDir, ".wiki")
	if err != nil {
		t.Fatalf("ScanDirectory failed: %v", err)
	}
	if len(files) != 3 {
		t.Fatalf("Expected 3 .wiki files, got %d", len(files))
	}
	if filepath.Base(files[0]) != "a.wiki" || filepath.Base(files[1]) != "b.wiki" {
		t.Errorf("Expected sorted files, got %v", files)
	}
}
