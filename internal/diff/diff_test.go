package diff

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gerunddev/dotwiki/internal/xhtml"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write %s: %v", path, err)
	}
}

func TestUnified(t *testing.T) {
	if got := Unified("a", "b", "same\n", "same\n"); got != "" {
		t.Errorf("Expected no diff for equal inputs, got %q", got)
	}

	got := Unified("expected.html", "page.wiki", "<p>old</p>\n", "<p>new</p>\n")
	for _, want := range []string{"--- expected.html", "+++ page.wiki", "-<p>old</p>", "+<p>new</p>"} {
		if !strings.Contains(got, want) {
			t.Errorf("Expected diff to contain %q, got:\n%s", want, got)
		}
	}
}

func TestRender(t *testing.T) {
	unified := Unified("a", "b", "x\n", "y\n")

	plain, err := Render(unified, FormatPlain)
	if err != nil || plain != unified {
		t.Errorf("Expected plain format to be unchanged, got %q (%v)", plain, err)
	}

	term, err := Render(unified, FormatTerminal)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if !strings.Contains(term, "x") || !strings.Contains(term, "y") {
		t.Errorf("Expected rendered diff to keep its lines, got %q", term)
	}

	if _, err := Render(unified, Format(9)); err == nil {
		t.Error("Expected an error for an unknown format")
	}
}

func TestGenerate(t *testing.T) {
	tr, err := xhtml.New()
	if err != nil {
		t.Fatal(err)
	}
	dir := t.TempDir()
	src := filepath.Join(dir, "page.wiki")
	good := filepath.Join(dir, "good.html")
	bad := filepath.Join(dir, "bad.html")
	writeFile(t, src, "!Titre")
	writeFile(t, good, "<h5>Titre</h5>\n")
	writeFile(t, bad, "<h4>Titre</h4>\n")

	report, err := Generate(src, good, tr, FormatPlain)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if !report.Equal || report.Diff != "" {
		t.Errorf("Expected equal report, got %+v", report)
	}

	report, err = Generate(src, bad, tr, FormatPlain)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if report.Equal || !strings.Contains(report.Diff, "+<h5>Titre</h5>") {
		t.Errorf("Expected a diff, got %+v", report)
	}

	if _, err := Generate(filepath.Join(dir, "missing.wiki"), good, tr, FormatPlain); err == nil {
		t.Error("Expected an error for a missing source")
	}
}
