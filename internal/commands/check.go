package commands

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/gerunddev/dotwiki/internal/diff"
	"github.com/gerunddev/dotwiki/internal/styles"
)

// ErrMismatch is returned by check when the rendered output differs from
// the expected file
var ErrMismatch = errors.New("rendered output does not match")

func checkCmd(s *session) *cobra.Command {
	var plain bool

	cmd := &cobra.Command{
		Use:   "check <file> <expected>",
		Short: "Compare the rendering of a file with an expected output",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			format := diff.FormatTerminal
			if plain {
				format = diff.FormatPlain
			}
			return s.runCheck(args[0], args[1], format, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	cmd.Flags().BoolVar(&plain, "plain", false, "print the bare unified diff")

	return cmd
}

func (s *session) runCheck(source, expected string, format diff.Format, stdout, stderr io.Writer) error {
	tr, err := s.translator()
	if err != nil {
		return err
	}

	report, err := diff.Generate(source, expected, tr, format)
	if err != nil {
		return err
	}

	printDiagnostics(stderr, report.Diagnostics)
	if report.Equal {
		fmt.Fprintln(stdout, styles.SuccessStyle.Render("✓ "+source+" matches "+expected))
		return nil
	}

	fmt.Fprint(stdout, report.Diff)
	return fmt.Errorf("%s: %w %s", source, ErrMismatch, expected)
}
