// Package variables resolves the final variable tree for a render from
// blueprint defaults and user overrides.
package variables

import (
	"bufio"
	"bytes"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/simonhull/ranger/internal/blueprint"
	"github.com/simonhull/ranger/internal/errors"
	"github.com/simonhull/ranger/internal/namespace"
)

// RootKey is the single top-level key of the render context.
const RootKey = "vars"

// Context is the data handed to the renderer: {"vars": tree}.
type Context map[string]any

// Tree returns the variable tree nested under RootKey.
func (c Context) Tree() namespace.Tree {
	tree, _ := c[RootKey].(namespace.Tree)
	return tree
}

// Overrides is an ordered list of user-supplied values. Later entries win.
type Overrides []namespace.Pair

// Add appends an override.
func (o *Overrides) Add(path, value string) {
	*o = append(*o, namespace.Pair{Path: path, Value: value})
}

// Has reports whether path was overridden.
func (o Overrides) Has(path string) bool {
	for _, p := range o {
		if p.Path == path {
			return true
		}
	}
	return false
}

// ParseOverride splits "key=value" on the first "=". The value may be
// empty and may itself contain "=".
func ParseOverride(raw string) (namespace.Pair, error) {
	key, value, ok := strings.Cut(raw, "=")
	if !ok {
		return namespace.Pair{}, errors.Newf(errors.ErrConfig, "invalid variable %q: expected key=value", raw)
	}
	key = strings.TrimSpace(key)
	if _, err := namespace.ParsePath(key); err != nil {
		return namespace.Pair{}, errors.Wrapf(err, errors.ErrConfig, "invalid variable %q", raw)
	}
	return namespace.Pair{Path: key, Value: value}, nil
}

// ParseOverrides parses every raw flag value in order.
func ParseOverrides(raw []string) (Overrides, error) {
	overrides := make(Overrides, 0, len(raw))
	for _, r := range raw {
		pair, err := ParseOverride(r)
		if err != nil {
			return nil, err
		}
		overrides = append(overrides, pair)
	}
	return overrides, nil
}

// ReadVarFile reads overrides from path. Files ending in .yaml, .yml or
// .toml are decoded as nested documents; anything else is read as
// newline-separated key=value lines where blank lines and lines starting
// with "#" are ignored.
func ReadVarFile(path string) (Overrides, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrConfig, "failed to read varfile %s", path)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		var doc map[string]any
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfig, "failed to parse varfile %s", path)
		}
		return flattenDoc(path, doc)
	case ".toml":
		var doc map[string]any
		if err := toml.Unmarshal(data, &doc); err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfig, "failed to parse varfile %s", path)
		}
		return flattenDoc(path, doc)
	default:
		return parseLines(path, data)
	}
}

func flattenDoc(path string, doc map[string]any) (Overrides, error) {
	pairs, err := namespace.Flatten(doc)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrConfig, "invalid varfile %s", path)
	}
	return Overrides(pairs), nil
}

func parseLines(path string, data []byte) (Overrides, error) {
	var overrides Overrides
	scanner := bufio.NewScanner(bytes.NewReader(data))
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r")
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		pair, err := ParseOverride(line)
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfig, "%s:%d", path, lineNo)
		}
		overrides = append(overrides, pair)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrapf(err, errors.ErrIO, "failed to read varfile %s", path)
	}
	return overrides, nil
}

// Collect builds overrides from an optional varfile and raw flag values.
// File entries come first so flags take precedence.
func Collect(varFile string, flags []string) (Overrides, error) {
	var overrides Overrides
	if varFile != "" {
		fromFile, err := ReadVarFile(varFile)
		if err != nil {
			return nil, err
		}
		overrides = append(overrides, fromFile...)
	}

	fromFlags, err := ParseOverrides(flags)
	if err != nil {
		return nil, err
	}
	return append(overrides, fromFlags...), nil
}

// Resolve merges blueprint defaults (declaration order) followed by
// overrides (in their given order) and wraps the tree under RootKey.
// Declared variables without a default and without an override stay
// absent, so a strict render fails when a template references them.
func Resolve(bp *blueprint.Blueprint, overrides Overrides) (Context, error) {
	if bp == nil {
		bp = blueprint.Empty()
	}

	pairs := append(bp.Defaults(), overrides...)
	tree, err := namespace.Merge(pairs)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrResolve, "failed to resolve variables")
	}
	return Context{RootKey: tree}, nil
}

// Unresolved returns the declared variables that have neither a default
// nor an override, in declaration order.
func Unresolved(bp *blueprint.Blueprint, overrides Overrides) []string {
	var missing []string
	for _, name := range bp.VariableNames() {
		if bp.Variables[name].HasDefault() || overrides.Has(name) {
			continue
		}
		missing = append(missing, name)
	}
	return missing
}
