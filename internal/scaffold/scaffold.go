// Package scaffold runs one generation: fetch a template source, resolve
// its variables, bind its helpers and render it into a fresh output
// directory. A failed generation leaves no output and no scratch behind.
package scaffold

import (
	"context"
	"io"
	"path/filepath"

	"github.com/simonhull/ranger/exec"
	"github.com/simonhull/ranger/generator"
	"github.com/simonhull/ranger/internal/blueprint"
	"github.com/simonhull/ranger/internal/errors"
	"github.com/simonhull/ranger/internal/logging"
	"github.com/simonhull/ranger/internal/source"
	"github.com/simonhull/ranger/internal/variables"
)

// Options configures Generate.
type Options struct {
	Source    source.Provider
	Output    string
	Force     bool
	Overrides variables.Overrides

	// Asker, when set, is asked for every declared variable that has no
	// override.
	Asker variables.Asker

	// Shell runs helper commands (default: sh).
	Shell string
	// HelperStderr receives helper stderr, prefixed with the helper name.
	HelperStderr io.Writer
	// Ignore lists file name patterns never copied from the template.
	Ignore []string

	// Fetch wraps the fetch step, e.g. with a spinner. Optional.
	Fetch func(message string, fn func() error) error
}

// Result summarizes a successful generation.
type Result struct {
	Output     string
	Source     string
	Dirs       int
	Files      int
	Symlinks   int
	Unresolved []string // declared variables that had no value
}

// Generate renders opts.Source into opts.Output. The output precondition
// is checked before anything is fetched.
func Generate(ctx context.Context, opts Options) (result *Result, err error) {
	logger := logging.GetLogger("scaffold")

	if opts.Source == nil {
		return nil, errors.New(errors.ErrConfig, "no template source given")
	}

	tx, err := generator.Begin(opts.Output, opts.Force)
	if err != nil {
		return nil, err
	}
	defer func() {
		if closeErr := tx.Close(); closeErr != nil {
			if err == nil {
				result, err = nil, closeErr
				return
			}
			logger.Warn().Err(closeErr).Msg("cleanup after failed generation")
		}
	}()

	snap, err := fetch(ctx, opts)
	if err != nil {
		return nil, err
	}
	tx.Track(snap.Scratch)
	logger.Info().Str("source", opts.Source.String()).Str("root", snap.Root).Msg("fetched template")

	if err := checkDisjoint(snap.Root, opts.Output); err != nil {
		return nil, err
	}

	bp, err := blueprint.Load(snap.Root)
	if err != nil {
		return nil, err
	}

	overrides := opts.Overrides
	if opts.Asker != nil {
		overrides = variables.Ask(bp, overrides, opts.Asker)
	}

	data, err := variables.Resolve(bp, overrides)
	if err != nil {
		return nil, err
	}
	unresolved := variables.Unresolved(bp, overrides)
	if len(unresolved) > 0 {
		logger.Warn().Strs("variables", unresolved).Msg("declared variables have no value")
	}

	renderer, err := newRenderer(ctx, bp, snap.Root, opts)
	if err != nil {
		return nil, err
	}

	if err := tx.Create(); err != nil {
		return nil, err
	}

	tree, err := renderer.RenderTree(ctx, generator.TreeOptions{
		Source:         snap.Root,
		Output:         opts.Output,
		Data:           data,
		Exclude:        []string{blueprint.DescriptorFile},
		IgnorePatterns: opts.Ignore,
	})
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "failed to commit output")
	}

	logger.Info().
		Str("output", opts.Output).
		Int("dirs", tree.Dirs).
		Int("files", tree.Files).
		Msg("generated")

	return &Result{
		Output:     opts.Output,
		Source:     opts.Source.String(),
		Dirs:       tree.Dirs,
		Files:      tree.Files,
		Symlinks:   tree.Symlinks,
		Unresolved: unresolved,
	}, nil
}

func fetch(ctx context.Context, opts Options) (*source.Snapshot, error) {
	var snap *source.Snapshot
	run := func() error {
		var err error
		snap, err = opts.Source.Fetch(ctx)
		return err
	}

	if opts.Fetch == nil {
		return snap, run()
	}
	err := opts.Fetch("Fetching "+opts.Source.String(), run)
	return snap, err
}

// newRenderer binds the blueprint's helpers, in declaration order, into a
// strict renderer. Helpers run with the template root as working
// directory.
func newRenderer(ctx context.Context, bp *blueprint.Blueprint, root string, opts Options) (*generator.Renderer, error) {
	executor := exec.NewExecutor(&exec.Options{
		Shell:  opts.Shell,
		Stderr: opts.HelperStderr,
		Dir:    root,
	})
	registry := exec.NewRegistry(executor)

	for _, name := range bp.HelperNames() {
		if err := registry.Bind(ctx, name, bp.Helpers[name]); err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfig, "failed to bind helper %q", name)
		}
	}

	return generator.NewRenderer(
		generator.WithStrict(true),
		generator.WithHelpers(registry.FuncMap()),
	)
}

// checkDisjoint rejects an output directory that contains the template
// root or lies inside it.
func checkDisjoint(root, output string) error {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return errors.Wrapf(err, errors.ErrIO, "failed to resolve %s", root)
	}
	absOut, err := filepath.Abs(output)
	if err != nil {
		return errors.Wrapf(err, errors.ErrIO, "failed to resolve %s", output)
	}
	absOut = realExisting(absOut)

	if within(absOut, absRoot) || within(absRoot, absOut) {
		return errors.Newf(errors.ErrConfig, "output %s overlaps the template source %s", output, root)
	}
	return nil
}

// realExisting resolves symlinks in the longest existing prefix of path, so
// an output reached through a link to the source is still compared by its
// real location. The output itself usually does not exist yet.
func realExisting(path string) string {
	var rest []string
	for dir := path; ; dir = filepath.Dir(dir) {
		if real, err := filepath.EvalSymlinks(dir); err == nil {
			for i := len(rest) - 1; i >= 0; i-- {
				real = filepath.Join(real, rest[i])
			}
			return real
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return path
		}
		rest = append(rest, filepath.Base(dir))
	}
}

// within reports whether path is dir or below it.
func within(dir, path string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel == "." || filepath.IsLocal(rel)
}
