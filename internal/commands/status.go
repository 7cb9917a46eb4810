package commands

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/gerunddev/dotwiki/internal/build"
	"github.com/gerunddev/dotwiki/internal/config"
	"github.com/gerunddev/dotwiki/internal/daemon"
	"github.com/gerunddev/dotwiki/internal/state"
	"github.com/gerunddev/dotwiki/internal/styles"
)

const statusLogLines = 200

func statusCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show pending sources and the last build",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return s.runStatus(cmd.OutOrStdout())
		},
	}
}

func (s *session) runStatus(out io.Writer) error {
	st, err := state.Load(config.StateFilePath())
	if err != nil {
		return fmt.Errorf("failed to load state: %w", err)
	}

	sources, err := build.ScanDirectory(s.cfg.SourceDir, s.cfg.SourceExt)
	if err != nil {
		return fmt.Errorf("failed to scan %s: %w", s.cfg.SourceDir, err)
	}

	stale := st.Settings != build.Settings(s.cfg)
	var pending []string
	for _, src := range sources {
		if stale {
			pending = append(pending, src)
			continue
		}
		if changed, err := st.HasChanged(src); err != nil || changed {
			pending = append(pending, src)
		}
	}

	row := func(label, value string) {
		fmt.Fprintf(out, "  %-12s %s\n", styles.DimStyle.Render(label), value)
	}

	fmt.Fprintln(out, styles.TitleStyle.Render("dotwiki status"))
	fmt.Fprintln(out)
	row("Config", styles.PathStyle.Render(config.ConfigPath()))
	row("Source", styles.PathStyle.Render(s.cfg.SourceDir))
	row("Output", styles.PathStyle.Render(s.cfg.OutputDir))
	row("Tracked", fmt.Sprintf("%d files", len(st.Files)))

	if running, pid, started := daemon.PIDFile(config.PIDFilePath()).IsRunning(); running {
		row("Watcher", fmt.Sprintf("running (PID %d, started %s)", pid, humanize.Time(started)))
	} else {
		row("Watcher", styles.DimStyle.Render("stopped"))
	}

	_, lastBuild, rendered := ParseLogFile(s.cfg.LogFile, statusLogLines)
	if lastBuild.IsZero() {
		row("Last build", styles.DimStyle.Render("never"))
	} else {
		row("Last build", fmt.Sprintf("%s (%d rendered)", humanize.Time(lastBuild), rendered))
	}
	fmt.Fprintln(out)

	if stale && len(st.Files) > 0 {
		fmt.Fprintln(out, styles.WarningStyle.Render("Render settings changed since the last build"))
	}
	if len(pending) == 0 {
		fmt.Fprintln(out, styles.SuccessStyle.Render("✓ Everything is up to date"))
		return nil
	}
	fmt.Fprintln(out, styles.HighlightStyle.Render(fmt.Sprintf("%d sources pending:", len(pending))))
	for _, src := range pending {
		fmt.Fprintf(out, "  %s\n", src)
	}
	return nil
}
