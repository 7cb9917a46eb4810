// Package diff compares rendered output with an expected file.
package diff

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/glamour"
	"github.com/hexops/gotextdiff"
	"github.com/hexops/gotextdiff/myers"
	"github.com/hexops/gotextdiff/span"

	"github.com/gerunddev/dotwiki/internal/dispatch"
	"github.com/gerunddev/dotwiki/internal/xhtml"
)

// Format represents the output format for diffs
type Format int

const (
	// FormatTerminal renders diffs with glamour (default)
	FormatTerminal Format = iota
	// FormatPlain returns the bare unified diff
	FormatPlain
)

// Report is the outcome of checking one source against its expected output
type Report struct {
	Equal       bool
	Diff        string
	Diagnostics []dispatch.Diagnostic
}

// Unified returns the unified diff from expected to actual, or "" when
// they are equal
func Unified(expectedName, actualName, expected, actual string) string {
	if expected == actual {
		return ""
	}
	edits := myers.ComputeEdits(span.URIFromPath(expectedName), expected, actual)
	return fmt.Sprint(gotextdiff.ToUnified(expectedName, actualName, expected, edits))
}

// Render formats a unified diff for display
func Render(unified string, format Format) (string, error) {
	switch format {
	case FormatPlain:
		return unified, nil
	case FormatTerminal:
		return renderTerminal(unified), nil
	default:
		return "", fmt.Errorf("unsupported diff format: %d", format)
	}
}

func renderTerminal(unified string) string {
	// Wrap in markdown diff code fence
	diffMarkdown := fmt.Sprintf("```diff\n%s```\n", unified)

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(120),
	)
	if err != nil {
		// Fallback to plain diff if glamour fails
		return diffMarkdown
	}

	rendered, err := renderer.Render(diffMarkdown)
	if err != nil {
		// Fallback to plain diff if rendering fails
		return diffMarkdown
	}

	return rendered
}

// Generate renders sourcePath and diffs the result against expectedPath
func Generate(sourcePath, expectedPath string, tr *xhtml.Translator, format Format) (*Report, error) {
	source, err := os.ReadFile(sourcePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read source file: %w", err)
	}

	expected, err := os.ReadFile(expectedPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read expected file: %w", err)
	}

	res, err := tr.Render(string(source), false)
	if err != nil {
		return nil, fmt.Errorf("failed to render %s: %w", sourcePath, err)
	}

	report := &Report{Diagnostics: res.Diagnostics}
	unified := Unified(filepath.Base(expectedPath), filepath.Base(sourcePath), string(expected), res.Output)
	if unified == "" {
		report.Equal = true
		return report, nil
	}

	if report.Diff, err = Render(unified, format); err != nil {
		return nil, err
	}
	return report, nil
}
