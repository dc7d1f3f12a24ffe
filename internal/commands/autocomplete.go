package commands

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/simonhull/ranger/internal/errors"
	"github.com/simonhull/ranger/output"
)

// completionFiles maps each supported shell to its script name.
var completionFiles = map[string]string{
	"bash":       "ranger.bash",
	"zsh":        "_ranger",
	"fish":       "ranger.fish",
	"powershell": "ranger.ps1",
}

// AutocompleteCmd creates and returns the 'autocomplete' command
func AutocompleteCmd() *cobra.Command {
	var out, shell string

	cmd := &cobra.Command{
		Use:   "autocomplete",
		Short: "Write a shell completion script",
		Long: `Write a completion script for bash, zsh, fish or powershell.

Example:
  ranger autocomplete --shell zsh --out ~/.zsh/completions`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			name, ok := completionFiles[shell]
			if !ok {
				return errors.Newf(errors.ErrConfig, "unknown shell %q (expected bash, zsh, fish or powershell)", shell)
			}

			var buf bytes.Buffer
			root := cmd.Root()
			var err error
			switch shell {
			case "bash":
				err = root.GenBashCompletionV2(&buf, true)
			case "zsh":
				err = root.GenZshCompletion(&buf)
			case "fish":
				err = root.GenFishCompletion(&buf, true)
			case "powershell":
				err = root.GenPowerShellCompletionWithDesc(&buf)
			}
			if err != nil {
				return errors.Wrapf(err, errors.ErrInternal, "failed to generate %s completion", shell)
			}

			if err := os.MkdirAll(out, 0755); err != nil {
				return errors.Wrapf(err, errors.ErrIO, "failed to create %s", out)
			}
			path := filepath.Join(out, name)
			if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
				return errors.Wrapf(err, errors.ErrIO, "failed to write %s", path)
			}

			output.Success(fmt.Sprintf("Wrote %s completion to %s", shell, path))
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "Output directory")
	cmd.Flags().StringVar(&shell, "shell", "", "Shell: bash, zsh, fish or powershell")
	_ = cmd.MarkFlagRequired("out")
	_ = cmd.MarkFlagRequired("shell")
	_ = cmd.RegisterFlagCompletionFunc("shell", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return []string{"bash", "zsh", "fish", "powershell"}, cobra.ShellCompDirectiveNoFileComp
	})
	return cmd
}
