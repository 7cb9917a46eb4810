package commands

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/gerunddev/dotwiki/internal/config"
	"github.com/gerunddev/dotwiki/internal/styles"
)

func configCmd(s *session) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or create the configuration file",
	}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default configuration",
		Args:  cobra.NoArgs,
		// An invalid existing file must not prevent overwriting it
		PersistentPreRun: func(*cobra.Command, []string) {
			s.useConfigFile()
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigInit(force, cmd.OutOrStdout())
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing configuration")

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			data, err := yaml.Marshal(s.cfg)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}

	pathCmd := &cobra.Command{
		Use:   "path",
		Short: "Print the configuration and state file paths",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "config: %s\nstate:  %s\n", config.ConfigPath(), config.StateFilePath())
		},
	}

	cmd.AddCommand(initCmd, showCmd, pathCmd)
	return cmd
}

func runConfigInit(force bool, out io.Writer) error {
	path := config.ConfigPath()
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	} else if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}

	if err := config.DefaultConfig().Save(); err != nil {
		return err
	}
	fmt.Fprintln(out, styles.SuccessStyle.Render("✓ Wrote "+path))
	return nil
}
