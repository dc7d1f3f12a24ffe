package exec

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"text/template"

	"github.com/simonhull/ranger/internal/errors"
	"github.com/simonhull/ranger/internal/logging"
)

// ValueEnv is the environment variable carrying a helper's argument.
const ValueEnv = "VALUE"

// Helper is a single-argument string transform callable from templates.
type Helper func(value string) (string, error)

// Registry maps helper names to helpers for the duration of one render.
type Registry struct {
	mu       sync.RWMutex
	helpers  map[string]Helper
	commands map[string]string
	executor *Executor
}

// NewRegistry creates an empty registry whose shell-backed helpers run
// through executor. A nil executor uses NewExecutor(nil).
func NewRegistry(executor *Executor) *Registry {
	if executor == nil {
		executor = NewExecutor(nil)
	}
	return &Registry{
		helpers:  make(map[string]Helper),
		commands: make(map[string]string),
		executor: executor,
	}
}

// Register adds a helper under name.
func (r *Registry) Register(name string, helper Helper) error {
	if helper == nil {
		return fmt.Errorf("cannot register nil helper")
	}
	if name == "" {
		return fmt.Errorf("cannot register helper with empty name")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.helpers[name]; exists {
		return fmt.Errorf("helper '%s' is already registered", name)
	}

	r.helpers[name] = helper
	return nil
}

// Bind registers a helper that runs command through the shell on every
// call, with the call's argument in $VALUE. The returned string is the
// command's stdout without trailing newlines. A non-zero exit fails the
// call with a RENDER error naming the helper.
func (r *Registry) Bind(ctx context.Context, name, command string) error {
	logger := logging.GetLogger("helpers")

	helper := func(value string) (string, error) {
		logger.Debug().Str("helper", name).Str("value", value).Msg("invoking helper")

		stderr := NewPrefixWriter(r.executor.stderr, fmt.Sprintf("[%s] ", name))
		out, err := r.executor.Output(ctx, command, stderr, ValueEnv+"="+value)
		_ = stderr.Flush()
		if err != nil {
			code := ExitCode(err)
			logger.Debug().Str("helper", name).Int("exit_code", code).Err(err).Msg("helper failed")
			herr := &errors.RangerError{
				Code:    errors.ErrRender,
				Message: fmt.Sprintf("helper %q failed", name),
				Wrapped: err,
			}
			return "", herr.WithDetail("helper", name).WithDetail("exit_code", code)
		}
		return strings.TrimRight(out, "\r\n"), nil
	}

	if err := r.Register(name, helper); err != nil {
		return err
	}

	r.mu.Lock()
	r.commands[name] = command
	r.mu.Unlock()
	return nil
}

// Get retrieves a helper by name
func (r *Registry) Get(name string) (Helper, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	helper, ok := r.helpers[name]
	return helper, ok
}

// Has checks if a helper is registered
func (r *Registry) Has(name string) bool {
	_, ok := r.Get(name)
	return ok
}

// Call invokes the helper registered under name.
func (r *Registry) Call(name, value string) (string, error) {
	helper, ok := r.Get(name)
	if !ok {
		return "", errors.Newf(errors.ErrRender, "helper '%s' not found in registry", name)
	}
	return helper(value)
}

// List returns all registered helper names in sorted order
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.helpers))
	for name := range r.helpers {
		names = append(names, name)
	}

	sort.Strings(names)
	return names
}

// Commands returns the shell command of every bound helper.
func (r *Registry) Commands() map[string]string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make(map[string]string, len(r.commands))
	for name, command := range r.commands {
		result[name] = command
	}
	return result
}

// Size returns the number of registered helpers
func (r *Registry) Size() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.helpers)
}

// FuncMap exposes every helper as a template function.
func (r *Registry) FuncMap() template.FuncMap {
	r.mu.RLock()
	defer r.mu.RUnlock()

	funcs := make(template.FuncMap, len(r.helpers))
	for name, helper := range r.helpers {
		funcs[name] = (func(string) (string, error))(helper)
	}
	return funcs
}
