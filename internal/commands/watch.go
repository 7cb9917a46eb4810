package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/gerunddev/dotwiki/internal/build"
	"github.com/gerunddev/dotwiki/internal/config"
	"github.com/gerunddev/dotwiki/internal/daemon"
	"github.com/gerunddev/dotwiki/internal/styles"
)

const defaultDebounce = 200 * time.Millisecond

func watchCmd(s *session) *cobra.Command {
	var (
		flags    buildFlags
		debounce time.Duration
		detach   bool
		stop     bool
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Rebuild the source directory whenever it changes",
		Long: `Run a build, then rebuild changed sources each time a file below the
source directory changes, until interrupted. Only one watcher runs at a time; --detach starts it in
the background and --stop shuts the background watcher down.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			pidFile := daemon.PIDFile(config.PIDFilePath())
			switch {
			case stop:
				return stopWatcher(pidFile, cmd.OutOrStdout())
			case detach:
				return startWatcher(pidFile, os.Args[1:], cmd.OutOrStdout())
			}
			if debounce <= 0 {
				return fmt.Errorf("invalid debounce: %v", debounce)
			}
			if err := flags.apply(s.cfg); err != nil {
				return err
			}
			if running, pid, _ := pidFile.IsRunning(); running {
				return fmt.Errorf("watcher already running with PID %d", pid)
			}
			if err := pidFile.Write(); err != nil {
				return err
			}
			defer func() {
				if err := pidFile.Remove(); err != nil {
					s.log.Warn("failed to remove PID file on shutdown", "error", err)
				}
			}()

			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()
			return s.runWatch(ctx, flags.force, debounce, cmd.OutOrStdout())
		},
	}

	flags.register(cmd)
	cmd.Flags().DurationVar(&debounce, "debounce", defaultDebounce, "quiet time after a change before rebuilding")
	cmd.Flags().BoolVarP(&detach, "detach", "d", false, "run the watcher in the background")
	cmd.Flags().BoolVar(&stop, "stop", false, "stop the background watcher")
	cmd.MarkFlagsMutuallyExclusive("detach", "stop")

	return cmd
}

// runWatch builds on every source change until ctx is done. Only the first
// build honors force.
func (s *session) runWatch(ctx context.Context, force bool, debounce time.Duration, out io.Writer) error {
	b, st, err := s.newBuilder(force)
	if err != nil {
		return err
	}

	s.log.Info("watch started",
		"source_dir", s.cfg.SourceDir,
		"debounce", debounce)
	fmt.Fprintf(out, "%s %s\n", styles.TitleStyle.Render("Watching"), styles.PathStyle.Render(s.cfg.SourceDir))
	fmt.Fprintln(out, styles.HelpStyle.Render("Press Ctrl+C to stop"))

	err = b.Watch(ctx, debounce, func(result *build.BuildResult, err error) {
		if err != nil {
			s.log.Error("build failed", "error", err)
			fmt.Fprintln(out, styles.ErrorStyle.Render("✗ "+err.Error()))
			return
		}
		if err := st.Save(config.StateFilePath()); err != nil {
			s.log.StateError("save", err)
		}
		if len(result.Rendered) > 0 || len(result.Removed) > 0 || len(result.Errors) > 0 {
			_ = reportBuild(out, result) //nolint:errcheck // failures are reported, watching goes on
		}
	})
	s.log.Info("watch stopped")
	return err
}

// detachedArgs drops the detach flag from the arguments of this invocation
func detachedArgs(args []string) []string {
	var out []string
	for _, arg := range args {
		switch arg {
		case "--detach", "--detach=true", "-d":
			continue
		}
		out = append(out, arg)
	}
	return out
}

func startWatcher(pidFile daemon.PIDFile, args []string, out io.Writer) error {
	if err := pidFile.Daemonize(detachedArgs(args)); err != nil {
		return err
	}

	// Give it a moment to write its PID file
	for range 10 {
		time.Sleep(100 * time.Millisecond)
		if running, pid, _ := pidFile.IsRunning(); running {
			fmt.Fprintln(out, styles.SuccessStyle.Render(fmt.Sprintf("✓ Watcher started with PID %d", pid)))
			fmt.Fprintln(out, styles.DimStyle.Render("  Run 'dotwiki watch --stop' to stop it"))
			return nil
		}
	}
	return fmt.Errorf("watcher failed to start")
}

func stopWatcher(pidFile daemon.PIDFile, out io.Writer) error {
	_, pid, _ := pidFile.IsRunning()
	if err := pidFile.Stop(); err != nil {
		if errors.Is(err, daemon.ErrNotRunning) {
			fmt.Fprintln(out, styles.DimStyle.Render("Watcher is not running"))
			return nil
		}
		return err
	}

	for range 10 {
		time.Sleep(200 * time.Millisecond)
		if running, _, _ := pidFile.IsRunning(); !running {
			fmt.Fprintln(out, styles.SuccessStyle.Render(fmt.Sprintf("✓ Watcher %d stopped", pid)))
			return nil
		}
	}
	return fmt.Errorf("watcher %d did not stop gracefully", pid)
}
