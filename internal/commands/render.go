package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/gerunddev/dotwiki/internal/dispatch"
	"github.com/gerunddev/dotwiki/internal/styles"
)

func renderCmd(s *session) *cobra.Command {
	var (
		inline bool
		output string
		strict bool
	)

	cmd := &cobra.Command{
		Use:   "render [file|-]",
		Short: "Render one document to XHTML",
		Long: `Render a wiki document and write the XHTML to stdout or --out.
Reads standard input when no file or "-" is given. Diagnostics for
constructs that could not be rendered are printed to stderr.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source := "-"
			if len(args) == 1 {
				source = args[0]
			}
			return s.runRender(source, output, inline, strict, cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	cmd.Flags().BoolVar(&inline, "inline", false, "skip the block phase and render inline markup only")
	cmd.Flags().StringVarP(&output, "out", "o", "", "output file (default is stdout)")
	cmd.Flags().BoolVar(&strict, "strict", false, "fail when the render reports diagnostics")

	return cmd
}

func (s *session) runRender(source, output string, inline, strict bool, stdin io.Reader, stdout, stderr io.Writer) error {
	var (
		data []byte
		err  error
	)
	if source == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(source)
	}
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", source, err)
	}

	tr, err := s.translator()
	if err != nil {
		return err
	}

	res, err := tr.Render(string(data), inline)
	if err != nil {
		return fmt.Errorf("failed to render %s: %w", source, err)
	}

	if output == "" {
		if _, err := io.WriteString(stdout, res.Output); err != nil {
			return err
		}
	} else if err := os.WriteFile(output, []byte(res.Output), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", output, err)
	}

	printDiagnostics(stderr, res.Diagnostics)
	if strict && len(res.Diagnostics) > 0 {
		return fmt.Errorf("%s: %d diagnostics", source, len(res.Diagnostics))
	}
	return nil
}

func printDiagnostics(w io.Writer, diags []dispatch.Diagnostic) {
	for _, d := range diags {
		fmt.Fprintln(w, styles.Diagnostic(string(d.Kind), d.Start, d.End, d.Message))
	}
}
