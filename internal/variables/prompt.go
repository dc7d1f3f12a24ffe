package variables

import "github.com/simonhull/ranger/internal/blueprint"

// Asker asks for a single value. *input.Prompter satisfies it.
type Asker interface {
	Prompt(message, defaultValue string) string
}

// Ask prompts for every declared variable that was not overridden and
// returns overrides extended with the answers. An empty answer for a
// variable without a default leaves it unresolved.
func Ask(bp *blueprint.Blueprint, overrides Overrides, asker Asker) Overrides {
	result := append(Overrides(nil), overrides...)
	for _, name := range bp.VariableNames() {
		if overrides.Has(name) {
			continue
		}

		v := bp.Variables[name]
		message := name
		if v.Prompt != "" {
			message = v.Prompt
		} else if v.Description != "" {
			message = name + " - " + v.Description
		}

		var def string
		if v.HasDefault() {
			def = *v.Default
		}

		answer := asker.Prompt(message, def)
		if answer == "" && !v.HasDefault() {
			continue
		}
		result.Add(name, answer)
	}
	return result
}
