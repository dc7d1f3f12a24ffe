package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/simonhull/ranger/internal/blueprint"
	"github.com/simonhull/ranger/internal/source"
	"github.com/simonhull/ranger/output"
)

// InspectCmd creates and returns the 'inspect' command, which lists the
// variables and helpers a template declares.
func InspectCmd() *cobra.Command {
	var folder string

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Show the variables and helpers a template declares",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, err := source.Local(folder)
			if err != nil {
				return err
			}
			bp, err := blueprint.Load(snap.Root)
			if err != nil {
				return err
			}

			names := bp.VariableNames()
			if len(names) == 0 && len(bp.HelperNames()) == 0 {
				output.Info(fmt.Sprintf("%s declares no variables or helpers", blueprint.DescriptorFile))
				return nil
			}

			if len(names) > 0 {
				output.Info("Variables:")
				for _, name := range names {
					output.Step(describeVariable(name, bp.Variables[name]))
				}
			}

			if helpers := bp.HelperNames(); len(helpers) > 0 {
				output.Info("Helpers:")
				for _, name := range helpers {
					output.Step(fmt.Sprintf("%s: %s", name, bp.Helpers[name]))
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&folder, "folder", "", "Template folder")
	_ = cmd.MarkFlagRequired("folder")
	return cmd
}

func describeVariable(name string, v blueprint.Variable) string {
	line := name
	if v.HasDefault() {
		line += fmt.Sprintf(" = %q", *v.Default)
	} else {
		line += " (required)"
	}
	if v.Description != "" {
		line += "  # " + v.Description
	}
	return line
}
