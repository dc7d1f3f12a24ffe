package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"

	"github.com/simonhull/ranger"
	"github.com/simonhull/ranger/internal/errors"
	"github.com/simonhull/ranger/output"
)

// ManCmd creates and returns the 'man' command, which writes reference
// documentation for every command.
func ManCmd() *cobra.Command {
	var out, format string

	cmd := &cobra.Command{
		Use:   "man",
		Short: "Write manual pages or markdown reference docs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := os.MkdirAll(out, 0755); err != nil {
				return errors.Wrapf(err, errors.ErrIO, "failed to create %s", out)
			}

			root := cmd.Root()
			root.DisableAutoGenTag = true

			var err error
			switch format {
			case "manpages":
				err = doc.GenManTree(root, &doc.GenManHeader{
					Title:   "RANGER",
					Section: "1",
					Source:  "ranger " + ranger.Version,
				}, out)
			case "markdown":
				err = doc.GenMarkdownTree(root, out)
			default:
				return errors.Newf(errors.ErrConfig, "unknown format %q (expected manpages or markdown)", format)
			}
			if err != nil {
				return errors.Wrapf(err, errors.ErrIO, "failed to write docs to %s", out)
			}

			output.Success(fmt.Sprintf("Wrote %s docs to %s", format, out))
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "Output directory")
	cmd.Flags().StringVar(&format, "format", "manpages", "Output format: manpages or markdown")
	_ = cmd.MarkFlagRequired("out")
	return cmd
}
