package commands

import (
	"github.com/spf13/cobra"

	"github.com/simonhull/ranger"
	"github.com/simonhull/ranger/internal/config"
	"github.com/simonhull/ranger/internal/logging"
	"github.com/simonhull/ranger/output"
)

// RootCmd creates and returns the root command for the ranger CLI
func RootCmd() *cobra.Command {
	var verbose int
	var logFile bool

	cmd := &cobra.Command{
		Use:   "ranger",
		Short: "Generate projects from templates",
		Long: `ranger renders a template folder, local or from a git repository, into
a new project. File names, directory names and file contents are all
templates:

  {{ .vars.app.name }}/main.go
  // Copyright {{ .vars.author.name }}

Variables come from the template's .ranger.yaml defaults and from
--var / --varfile overrides. Helpers declared in .ranger.yaml run a
shell command with the argument in $VALUE.

A failed generation leaves no output behind.`,
		Version:       ranger.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupLogger(logging.Options{
				Verbosity: verbose,
				Out:       cmd.ErrOrStderr(),
				LogFile:   logFile,
			})
			output.SetVerbose(verbose > 0)
		},
	}

	// "autocomplete" replaces cobra's built-in completion command.
	cmd.CompletionOptions.DisableDefaultCmd = true

	cmd.PersistentFlags().CountVarP(&verbose, "verbose", "v", "Increase verbosity (-v info, -vv debug, -vvv trace)")
	cmd.PersistentFlags().String("config", "", "Config file (default $XDG_CONFIG_HOME/ranger/ranger.yaml)")
	cmd.PersistentFlags().BoolVar(&logFile, "log-file", false, "Also write logs to "+logging.LogFilePath())

	return cmd
}

// loadConfig reads the config selected by the persistent --config flag.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if cfg.File != "" {
		output.Verbose("Using config " + cfg.File)
	}
	return cfg, nil
}
