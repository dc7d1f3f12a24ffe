// Package exec runs blueprint helpers as external processes.
//
// The package has two parts:
//
// 1. Executor - Runs "<shell> -c <command>" synchronously and captures stdout
// 2. Registry - Maps helper names to callables exposed to templates
//
// # Helpers
//
// A blueprint declares helpers as shell commands:
//
//	helpers:
//	  slug: echo "$VALUE" | tr ' ' '-'
//
// Bind wraps each command in a closure. Every template call spawns a new
// process with the call's argument in $VALUE and returns its stdout with
// trailing newlines removed:
//
//	registry := exec.NewRegistry(exec.NewExecutor(nil))
//	_ = registry.Bind(ctx, "slug", `echo "$VALUE" | tr ' ' '-'`)
//	tmpl.Funcs(registry.FuncMap())
//	// {{ slug "my app" }} → my-app
//
// A non-zero exit fails the call, which aborts the template execution.
// Calls share no state and nothing is cached; helpers are not sandboxed.
package exec
