// Package commands wires the dotwiki command tree.
package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/gerunddev/dotwiki/internal/config"
	"github.com/gerunddev/dotwiki/internal/logger"
	"github.com/gerunddev/dotwiki/internal/xhtml"
)

// session is the state shared by every subcommand of one invocation
type session struct {
	cfgFile string
	verbose bool

	cfg     *config.Config
	log     *logger.Logger
	cleanup func()
}

// NewRootCmd builds the dotwiki command tree
func NewRootCmd(version string) *cobra.Command {
	s := &session{}

	rootCmd := &cobra.Command{
		Use:   "dotwiki",
		Short: "Render dotclear wiki markup to XHTML",
		Long: `dotwiki renders dotclear wiki markup into indented XHTML.

It renders single files or standard input, builds whole directories
incrementally, and checks rendered output against expected files.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return s.setup(cmd.ErrOrStderr())
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			s.close()
		},
	}

	rootCmd.PersistentFlags().StringVar(&s.cfgFile, "config", "", fmt.Sprintf("config file (default is %s)", config.ConfigPath()))
	rootCmd.PersistentFlags().BoolVarP(&s.verbose, "verbose", "v", false, "log to stderr at debug level")

	rootCmd.AddCommand(renderCmd(s))
	rootCmd.AddCommand(buildCmd(s))
	rootCmd.AddCommand(watchCmd(s))
	rootCmd.AddCommand(checkCmd(s))
	rootCmd.AddCommand(previewCmd(s))
	rootCmd.AddCommand(statusCmd(s))
	rootCmd.AddCommand(configCmd(s))
	rootCmd.AddCommand(versionCmd(version))

	return rootCmd
}

// Execute runs the command tree and exits non-zero on failure
func Execute(version string) {
	err := NewRootCmd(version).Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// useConfigFile points the config package at the --config file
func (s *session) useConfigFile() {
	if s.cfgFile != "" {
		path := s.cfgFile
		config.ConfigPath = func() string { return path }
	}
}

func (s *session) setup(stderr io.Writer) error {
	s.useConfigFile()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	s.cfg = cfg

	var extra []io.Writer
	if s.verbose {
		extra = append(extra, stderr)
	}
	l, cleanup, err := logger.NewFileLogger(cfg.LogFile, extra...)
	if err != nil {
		// Logging is best effort, rendering still works without a log file
		l, cleanup = logger.NewMultiLogger(extra...), func() {}
	}
	l.SetLevel(cfg.Level())
	if s.verbose {
		l.SetLevel(log.DebugLevel)
	}
	s.log, s.cleanup = l, cleanup

	s.log.ConfigLoaded(config.ConfigPath(), cfg.Workers, cfg.Disabled)
	return nil
}

func (s *session) close() {
	if s.cleanup != nil {
		s.cleanup()
		s.cleanup = nil
	}
}

// translator builds a translator from the loaded configuration
func (s *session) translator() (*xhtml.Translator, error) {
	return xhtml.New(
		xhtml.WithIndent(s.cfg.Indent),
		xhtml.WithFootnotePrefix(s.cfg.FootnotePrefix),
		xhtml.WithDisabled(s.cfg.Disabled...),
		xhtml.WithLogger(s.log),
	)
}

func versionCmd(version string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "dotwiki v%s\n", version)
		},
	}
}
