package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gerunddev/dotwiki/internal/tui"
)

func previewCmd(s *session) *cobra.Command {
	var inline bool

	cmd := &cobra.Command{
		Use:   "preview <file>",
		Short: "Browse the rendering of a file next to its source",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			data, err := s.preview(args[0], inline)
			if err != nil {
				return err
			}
			return tui.RunPreview(data)
		},
	}

	cmd.Flags().BoolVar(&inline, "inline", false, "skip the block phase and render inline markup only")

	return cmd
}

// preview renders path into the data shown by the preview screen
func (s *session) preview(path string, inline bool) (*tui.PreviewData, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	tr, err := s.translator()
	if err != nil {
		return nil, err
	}

	res, err := tr.Render(string(source), inline)
	if err != nil {
		return nil, fmt.Errorf("failed to render %s: %w", path, err)
	}

	return &tui.PreviewData{
		Path:        path,
		Source:      string(source),
		Output:      res.Output,
		Diagnostics: res.Diagnostics,
	}, nil
}
