package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/simonhull/ranger/input"
	"github.com/simonhull/ranger/internal/config"
	"github.com/simonhull/ranger/internal/errors"
	"github.com/simonhull/ranger/internal/scaffold"
	"github.com/simonhull/ranger/internal/source"
	"github.com/simonhull/ranger/internal/variables"
	"github.com/simonhull/ranger/output"
)

// generateFlags are shared by every generate subcommand.
type generateFlags struct {
	out         string
	vars        []string
	varFile     string
	interactive bool
	force       bool
}

func (f *generateFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.out, "out", "o", "", "Output directory (must not exist or be empty)")
	cmd.Flags().StringArrayVar(&f.vars, "var", nil, "Variable override key=value (repeatable, dotted keys nest)")
	cmd.Flags().StringVar(&f.varFile, "varfile", "", "File of overrides (key=value lines, .yaml/.yml or .toml)")
	cmd.Flags().BoolVarP(&f.interactive, "interactive", "i", false, "Prompt for variables without an override")
	cmd.Flags().BoolVarP(&f.force, "force", "f", false, "Replace an existing output directory")
	_ = cmd.MarkFlagRequired("out")
}

// GenerateCmd creates and returns the 'generate' command
func GenerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a project from a template",
		Long: `Generate a project from a local template folder or from a folder in a
git repository.

Examples:
  ranger generate local --folder ./templates/go --out ./myapp --var app.name=myapp
  ranger generate git --folder go --out ./myapp --varfile vars.yaml
  ranger generate git --repo https://github.com/me/templates.git --branch main --out ./myapp -i`,
	}

	cmd.AddCommand(generateLocalCmd())
	cmd.AddCommand(generateGitCmd())
	return cmd
}

func generateLocalCmd() *cobra.Command {
	var flags generateFlags
	var folder string

	cmd := &cobra.Command{
		Use:   "local",
		Short: "Generate from a local template folder",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			return runGenerate(cmd, cfg, source.NewLocal(folder), &flags, false)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&folder, "folder", "", "Template folder")
	_ = cmd.MarkFlagRequired("folder")
	return cmd
}

func generateGitCmd() *cobra.Command {
	var flags generateFlags
	var req source.Request

	cmd := &cobra.Command{
		Use:   "git",
		Short: "Generate from a folder in a git repository",
		Long: `Shallow-clones one branch of a repository into a temporary directory and
generates from a folder inside it. The clone is always removed.

--repo and --branch default to git.repo and git.branch from the config
file, or to ` + config.DefaultRepo + ` and ` + config.DefaultBranch + `.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if req.Repo == "" {
				req.Repo = cfg.Git.Repo
			}
			if req.Branch == "" {
				req.Branch = cfg.Git.Branch
			}
			return runGenerate(cmd, cfg, source.NewGit(req), &flags, true)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&req.Repo, "repo", "", "Repository URL")
	cmd.Flags().StringVar(&req.Branch, "branch", "", "Branch to clone")
	cmd.Flags().StringVar(&req.Folder, "folder", "", "Template folder inside the repository (default: repository root)")
	return cmd
}

func runGenerate(cmd *cobra.Command, cfg *config.Config, provider source.Provider, flags *generateFlags, remote bool) error {
	overrides, err := variables.Collect(flags.varFile, flags.vars)
	if err != nil {
		return err
	}

	prompter := input.NewPrompter(cmd.InOrStdin(), cmd.ErrOrStderr())

	if flags.force && flags.interactive && occupied(flags.out) {
		if !prompter.Confirm(fmt.Sprintf("Replace existing %s?", flags.out), false) {
			return errors.Newf(errors.ErrAlreadyExists, "output directory %s already exists; not replaced", flags.out)
		}
	}

	opts := scaffold.Options{
		Source:       provider,
		Output:       flags.out,
		Force:        flags.force,
		Overrides:    overrides,
		Shell:        cfg.Helpers.Shell,
		HelperStderr: cmd.ErrOrStderr(),
		Ignore:       cfg.Render.Ignore,
	}
	if flags.interactive {
		if !input.IsInteractive() {
			output.Verbose("stdin is not a terminal; reading answers from it")
		}
		opts.Asker = prompter
	}
	if remote {
		opts.Fetch = output.Spin
	}

	output.Verbose(fmt.Sprintf("Generating %s from %s", flags.out, provider))

	result, err := scaffold.Generate(cmd.Context(), opts)
	if err != nil {
		return err
	}

	for _, name := range result.Unresolved {
		output.Verbose("No value for " + name)
	}
	output.Success(fmt.Sprintf("Generated %s (%d files, %d directories)", result.Output, result.Files, result.Dirs))
	return nil
}

// occupied reports whether path exists and is not an empty directory.
func occupied(path string) bool {
	entries, err := os.ReadDir(path)
	if err != nil {
		_, statErr := os.Stat(path)
		return statErr == nil
	}
	return len(entries) > 0
}
