// Package build renders a directory of wiki sources into markup files,
// skipping sources that did not change since the last build.
package build

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/gerunddev/dotwiki/internal/config"
	"github.com/gerunddev/dotwiki/internal/logger"
	"github.com/gerunddev/dotwiki/internal/state"
	"github.com/gerunddev/dotwiki/internal/xhtml"
)

// Builder renders every changed source of the configured directory
type Builder struct {
	config *config.Config
	state  *state.State
	tr     *xhtml.Translator
	logger *logger.Logger
	force  bool
}

// NewBuilder creates a new builder instance
func NewBuilder(cfg *config.Config, st *state.State, tr *xhtml.Translator) *Builder {
	return &Builder{
		config: cfg,
		state:  st,
		tr:     tr,
		logger: logger.Discard(),
	}
}

// SetLogger sets the logger for the builder
func (b *Builder) SetLogger(l *logger.Logger) {
	b.logger = l
}

// SetForce makes the next builds render every source
func (b *Builder) SetForce(force bool) {
	b.force = force
}

// FileResult is the outcome of rendering one source
type FileResult struct {
	Source      string
	Output      string
	Diagnostics int
	Err         error
}

// BuildResult represents the result of a build
type BuildResult struct {
	Rendered    []string
	Skipped     []string
	Removed     []string
	Diagnostics int
	Errors      []error
	StartTime   time.Time
	EndTime     time.Time
}

// Settings returns the fingerprint of everything that changes the output
// of a render besides the source itself.
func Settings(cfg *config.Config) string {
	disabled := slices.Clone(cfg.Disabled)
	slices.Sort(disabled)
	return state.Fingerprint(
		"indent="+cfg.Indent,
		"footnote_prefix="+cfg.FootnotePrefix,
		"disabled="+strings.Join(disabled, ","),
		"output_dir="+cfg.OutputDir,
		"output_ext="+cfg.OutputExt,
	)
}

// OutputPath maps a source file to its rendered file
func (b *Builder) OutputPath(source string) (string, error) {
	rel, err := filepath.Rel(b.config.SourceDir, source)
	if err != nil {
		return "", err
	}
	rel = strings.TrimSuffix(rel, filepath.Ext(rel)) + b.config.OutputExt
	return filepath.Join(b.config.OutputDir, rel), nil
}

// Build renders the changed sources concurrently, then records them in the
// state. progress, when set, is called from the worker goroutines once per
// rendered file. Per-file failures are collected in the result; only a
// cancelled context or an unreadable source directory fails the build.
func (b *Builder) Build(ctx context.Context, progress func(FileResult)) (*BuildResult, error) {
	result := &BuildResult{
		StartTime: time.Now(),
	}

	if b.state.UseSettings(Settings(b.config)) {
		b.logger.Info("render settings changed, rebuilding everything")
	}

	sources, err := ScanDirectory(b.config.SourceDir, b.config.SourceExt)
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", b.config.SourceDir, err)
	}

	present := make(map[string]bool, len(sources))
	var pending []string
	for _, src := range sources {
		present[src] = true
		if !b.force {
			changed, err := b.state.HasChanged(src)
			if err != nil {
				b.logger.FileError(src, err)
				result.Errors = append(result.Errors, err)
				continue
			}
			if !changed {
				b.logger.Skipped(src, "unchanged")
				result.Skipped = append(result.Skipped, src)
				continue
			}
		}
		pending = append(pending, src)
	}

	results := make([]FileResult, len(pending))
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(b.config.Workers)

	for i, src := range pending {
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			results[i] = b.renderFile(src)
			if progress != nil {
				progress(results[i])
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// State is not safe for concurrent use; record sequentially.
	for _, r := range results {
		if r.Err != nil {
			b.logger.FileError(r.Source, r.Err)
			result.Errors = append(result.Errors, fmt.Errorf("%s: %w", r.Source, r.Err))
			continue
		}
		if err := b.state.Update(r.Source, r.Output, r.Diagnostics); err != nil {
			b.logger.StateError("update", err)
			result.Errors = append(result.Errors, err)
			continue
		}
		b.logger.FileRendered(r.Source, r.Output, r.Diagnostics)
		result.Rendered = append(result.Rendered, r.Source)
		result.Diagnostics += r.Diagnostics
	}

	result.Removed = b.state.Prune(present)
	for _, src := range result.Removed {
		b.logger.Skipped(src, "source removed")
	}

	result.EndTime = time.Now()
	b.logger.BuildCompleted(len(result.Rendered), len(result.Skipped), len(result.Errors), result.EndTime.Sub(result.StartTime))
	return result, nil
}

func (b *Builder) renderFile(src string) FileResult {
	r := FileResult{Source: src}

	data, err := os.ReadFile(src)
	if err != nil {
		r.Err = err
		return r
	}

	res, err := b.tr.Render(string(data), false)
	if err != nil {
		r.Err = fmt.Errorf("render failed: %w", err)
		return r
	}
	r.Diagnostics = len(res.Diagnostics)

	if r.Output, err = b.OutputPath(src); err != nil {
		r.Err = err
		return r
	}
	if err := os.MkdirAll(filepath.Dir(r.Output), 0755); err != nil {
		r.Err = fmt.Errorf("failed to create output directory: %w", err)
		return r
	}
	if err := os.WriteFile(r.Output, []byte(res.Output), 0644); err != nil {
		r.Err = fmt.Errorf("failed to write output: %w", err)
	}
	return r
}

// ScanDirectory scans a directory for files with given extension, sorted
func ScanDirectory(dir string, ext string) ([]string, error) {
	var files []string

	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if !info.IsDir() && filepath.Ext(path) == ext {
			files = append(files, path)
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	slices.Sort(files)
	return files, nil
}

// String returns a human-readable summary of the build result
func (r *BuildResult) String() string {
	duration := r.EndTime.Sub(r.StartTime)
	return fmt.Sprintf(
		"Build complete: %d files rendered, %d unchanged, %d diagnostics, %d errors (took %v)",
		len(r.Rendered),
		len(r.Skipped),
		r.Diagnostics,
		len(r.Errors),
		duration.Round(time.Millisecond),
	)
}
