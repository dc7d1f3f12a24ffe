// Package blueprint loads the optional .ranger.yaml descriptor that sits at
// the root of a template source. The descriptor declares variables with
// defaults and named helper commands:
//
//	version: "1"
//	variables:
//	  author.name:
//	    default: Jane
//	    description: Name used in the license header
//	  app.name: {}
//	helpers:
//	  slug: echo "$VALUE" | tr ' ' '-'
//
// A template source without a descriptor yields an empty blueprint.
package blueprint

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/hashicorp/go-version"
	"gopkg.in/yaml.v3"

	"github.com/simonhull/ranger/internal/errors"
	"github.com/simonhull/ranger/internal/namespace"
)

// DescriptorFile is the descriptor path relative to the template root.
const DescriptorFile = ".ranger.yaml"

// SupportedVersions is the constraint a declared version must satisfy.
const SupportedVersions = ">= 1, < 2"

var helperNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Blueprint is the parsed descriptor. It is read-only once loaded.
type Blueprint struct {
	Version   string              `yaml:"version"`
	Variables map[string]Variable `yaml:"variables"`
	Helpers   map[string]string   `yaml:"helpers"`

	variableOrder []string
	helperOrder   []string
}

// Variable declares one dotted variable name.
type Variable struct {
	Default     *string `yaml:"default"`
	Description string  `yaml:"description"`
	Prompt      string  `yaml:"prompt"`
}

// HasDefault reports whether the variable declares a default value.
func (v Variable) HasDefault() bool {
	return v.Default != nil
}

// Empty returns a blueprint with no variables and no helpers.
func Empty() *Blueprint {
	return &Blueprint{
		Variables: map[string]Variable{},
		Helpers:   map[string]string{},
	}
}

// Load reads the descriptor under root. A missing descriptor is not an
// error.
func Load(root string) (*Blueprint, error) {
	path := filepath.Join(root, DescriptorFile)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Empty(), nil
		}
		return nil, errors.Wrapf(err, errors.ErrIO, "failed to read %s", path)
	}

	bp, err := Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrConfig, "invalid blueprint %s", path)
	}
	return bp, nil
}

// Parse decodes and validates descriptor content.
func Parse(data []byte) (*Blueprint, error) {
	bp := Empty()
	if len(bytes.TrimSpace(data)) == 0 {
		return bp, nil
	}

	// First pass: the node tree keeps mapping order, which a Go map loses.
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	// Second pass: strict decode so typos in field names fail loudly.
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(bp); err != nil {
		return nil, fmt.Errorf("failed to parse blueprint (check for unknown/misspelled fields): %w", err)
	}
	if bp.Variables == nil {
		bp.Variables = map[string]Variable{}
	}
	if bp.Helpers == nil {
		bp.Helpers = map[string]string{}
	}

	bp.variableOrder = mappingKeys(&root, "variables")
	bp.helperOrder = mappingKeys(&root, "helpers")

	if err := bp.validate(); err != nil {
		return nil, err
	}
	return bp, nil
}

func (bp *Blueprint) validate() error {
	if bp.Version != "" {
		v, err := version.NewVersion(bp.Version)
		if err != nil {
			return fmt.Errorf("invalid version %q: %w", bp.Version, err)
		}
		constraint := version.MustConstraints(version.NewConstraint(SupportedVersions))
		if !constraint.Check(v) {
			return fmt.Errorf("unsupported blueprint version %s (supported: %s)", bp.Version, SupportedVersions)
		}
	}

	for _, name := range bp.variableOrder {
		if _, err := namespace.ParsePath(name); err != nil {
			return err
		}
	}

	for _, name := range bp.helperOrder {
		if !helperNamePattern.MatchString(name) {
			return fmt.Errorf("invalid helper name %q: must be a template identifier", name)
		}
		if bp.Helpers[name] == "" {
			return fmt.Errorf("helper %q has an empty command", name)
		}
	}
	return nil
}

// VariableNames returns the declared variable names in declaration order.
func (bp *Blueprint) VariableNames() []string {
	return append([]string(nil), bp.variableOrder...)
}

// HelperNames returns the declared helper names in declaration order.
func (bp *Blueprint) HelperNames() []string {
	return append([]string(nil), bp.helperOrder...)
}

// Defaults returns a pair for every variable that declares a default, in
// declaration order.
func (bp *Blueprint) Defaults() []namespace.Pair {
	pairs := make([]namespace.Pair, 0, len(bp.variableOrder))
	for _, name := range bp.variableOrder {
		v := bp.Variables[name]
		if v.HasDefault() {
			pairs = append(pairs, namespace.Pair{Path: name, Value: *v.Default})
		}
	}
	return pairs
}

// mappingKeys returns the keys of the top-level mapping named field, in
// document order.
func mappingKeys(root *yaml.Node, field string) []string {
	if root.Kind != yaml.DocumentNode || len(root.Content) == 0 {
		return nil
	}
	top := root.Content[0]
	if top.Kind != yaml.MappingNode {
		return nil
	}

	for i := 0; i+1 < len(top.Content); i += 2 {
		if top.Content[i].Value != field {
			continue
		}
		section := top.Content[i+1]
		if section.Kind != yaml.MappingNode {
			return nil
		}
		keys := make([]string, 0, len(section.Content)/2)
		for j := 0; j+1 < len(section.Content); j += 2 {
			keys = append(keys, section.Content[j].Value)
		}
		return keys
	}
	return nil
}
