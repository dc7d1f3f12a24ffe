// Package output provides styled terminal output for the ranger CLI.
//
// # Usage
//
//	output.Success("Generated myapp")
//	output.Info("Next steps:")
//	output.Step("cd myapp")
//	output.Error("template source not found")
//
// Messages go to stdout, except Error, Verbose and the spinner, which
// write to stderr so rendered output can still be piped.
//
// # Verbose Mode
//
//	output.SetVerbose(true)
//	output.Verbose("cloning https://github.com/replicadse/ranger.git")
//
// # Spinner
//
// Spin shows a spinner while a slow step runs. When stderr is not a
// terminal the step simply runs:
//
//	err := output.Spin("Fetching template", func() error {
//	    return fetch(ctx)
//	})
//
// # Styling
//
//   - Success: 🔥 green bold
//   - Error: ❌ red bold
//   - Info: ℹ️ cyan
//   - Step: indented gray
//   - Verbose: 🔍 gray (when enabled)
package output
