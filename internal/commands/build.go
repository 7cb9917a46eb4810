package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/gerunddev/dotwiki/internal/build"
	"github.com/gerunddev/dotwiki/internal/config"
	"github.com/gerunddev/dotwiki/internal/state"
	"github.com/gerunddev/dotwiki/internal/styles"
	"github.com/gerunddev/dotwiki/internal/tui"
)

// buildFlags override the configured directories for one invocation
type buildFlags struct {
	src     string
	out     string
	workers int
	force   bool
}

func (f *buildFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.src, "src", "", "source directory (default from config)")
	cmd.Flags().StringVar(&f.out, "out", "", "output directory (default from config)")
	cmd.Flags().IntVarP(&f.workers, "workers", "w", 0, "number of parallel renders (default from config)")
	cmd.Flags().BoolVar(&f.force, "force", false, "render every source, changed or not")
}

func (f *buildFlags) apply(cfg *config.Config) error {
	var err error
	if f.src != "" {
		if cfg.SourceDir, err = filepath.Abs(f.src); err != nil {
			return err
		}
	}
	if f.out != "" {
		if cfg.OutputDir, err = filepath.Abs(f.out); err != nil {
			return err
		}
	}
	if f.workers != 0 {
		cfg.Workers = f.workers
	}
	return cfg.Validate()
}

func buildCmd(s *session) *cobra.Command {
	var (
		flags buildFlags
		plain bool
	)

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Render every changed source of a directory",
		Long: `Render every source file of the source directory whose content changed
since the last build. Outputs mirror the source tree under the output
directory. Changing render settings invalidates every previous output.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := flags.apply(s.cfg); err != nil {
				return err
			}
			// The spinner needs a terminal
			if !isatty.IsTerminal(os.Stdout.Fd()) {
				plain = true
			}
			return s.runBuild(cmd.Context(), flags.force, plain, cmd.OutOrStdout())
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&plain, "plain", false, "print one line per file instead of the spinner (default when stdout is not a terminal)")

	return cmd
}

// newBuilder loads the build cache and prepares a builder over it
func (s *session) newBuilder(force bool) (*build.Builder, *state.State, error) {
	st, err := state.Load(config.StateFilePath())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load state: %w", err)
	}

	tr, err := s.translator()
	if err != nil {
		return nil, nil, err
	}

	b := build.NewBuilder(s.cfg, st, tr)
	b.SetLogger(s.log)
	b.SetForce(force)
	return b, st, nil
}

func (s *session) runBuild(ctx context.Context, force, plain bool, out io.Writer) error {
	b, st, err := s.newBuilder(force)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "%s → %s\n", styles.PathStyle.Render(s.cfg.SourceDir), styles.PathStyle.Render(s.cfg.OutputDir))

	var result *build.BuildResult
	if plain {
		result, err = b.Build(ctx, func(r build.FileResult) {
			printFileResult(out, r)
		})
	} else {
		result, err = tui.RunBuild(ctx, b.Build)
	}
	if err != nil {
		return err
	}

	if err := st.Save(config.StateFilePath()); err != nil {
		s.log.StateError("save", err)
		return fmt.Errorf("failed to save state: %w", err)
	}

	return reportBuild(out, result)
}

func printFileResult(out io.Writer, r build.FileResult) {
	switch {
	case r.Err != nil:
		fmt.Fprintf(out, "%s %s: %v\n", styles.ErrorStyle.Render("✗"), r.Source, r.Err)
	case r.Diagnostics > 0:
		fmt.Fprintf(out, "%s %s %s\n", styles.WarningStyle.Render("!"), r.Source,
			styles.DimStyle.Render(fmt.Sprintf("(%d diagnostics)", r.Diagnostics)))
	default:
		fmt.Fprintf(out, "%s %s\n", styles.SuccessStyle.Render("✓"), r.Source)
	}
}

func reportBuild(out io.Writer, result *build.BuildResult) error {
	for _, err := range result.Errors {
		fmt.Fprintln(out, styles.ErrorStyle.Render("✗ "+err.Error()))
	}
	if len(result.Errors) > 0 {
		fmt.Fprintln(out, styles.ErrorStyle.Render(result.String()))
		return fmt.Errorf("%d files failed to render", len(result.Errors))
	}
	fmt.Fprintln(out, styles.SuccessStyle.Render(result.String()))
	return nil
}
