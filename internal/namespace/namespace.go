// Package namespace expands dotted variable names into a nested tree.
//
// A name such as "author.email" is split on "." and inserted segment by
// segment, so templates can address it as {{ .vars.author.email }}.
// Pairs are applied in order and the later pair wins: when a leaf sits
// where a nested object is needed (or the other way round), the
// conflicting node is replaced wholesale.
package namespace

import (
	"fmt"
	"sort"
	"strings"

	"github.com/simonhull/ranger/internal/errors"
)

// Separator splits a namespace path into segments.
const Separator = "."

// Pair is a single dotted path and its scalar value.
type Pair struct {
	Path  string
	Value string
}

// Tree is a nested variable tree. Interior nodes are Trees and leaves are
// strings.
type Tree map[string]any

// ParsePath splits a dotted path into its segments. Empty segments are
// rejected.
func ParsePath(path string) ([]string, error) {
	if path == "" {
		return nil, errors.New(errors.ErrConfig, "empty variable name")
	}
	segments := strings.Split(path, Separator)
	for _, seg := range segments {
		if strings.TrimSpace(seg) == "" {
			return nil, errors.Newf(errors.ErrConfig, "invalid variable name %q: empty namespace segment", path)
		}
	}
	return segments, nil
}

// Merge builds a tree from pairs, applying them in order.
func Merge(pairs []Pair) (Tree, error) {
	tree := Tree{}
	for _, p := range pairs {
		if err := tree.Set(p.Path, p.Value); err != nil {
			return nil, err
		}
	}
	return tree, nil
}

// Set inserts value at path, replacing any node that is in the way.
func (t Tree) Set(path, value string) error {
	segments, err := ParsePath(path)
	if err != nil {
		return err
	}

	node := t
	for _, seg := range segments[:len(segments)-1] {
		child, ok := node[seg].(Tree)
		if !ok {
			// Missing, or a leaf from an earlier pair: replace it.
			child = Tree{}
			node[seg] = child
		}
		node = child
	}
	node[segments[len(segments)-1]] = value
	return nil
}

// Lookup returns the node at path, which is either a string or a Tree.
func (t Tree) Lookup(path string) (any, bool) {
	segments, err := ParsePath(path)
	if err != nil {
		return nil, false
	}

	var node any = t
	for _, seg := range segments {
		branch, ok := node.(Tree)
		if !ok {
			return nil, false
		}
		node, ok = branch[seg]
		if !ok {
			return nil, false
		}
	}
	return node, true
}

// Paths returns the dotted path of every leaf, sorted.
func (t Tree) Paths() []string {
	var paths []string
	var walk func(prefix string, node Tree)
	walk = func(prefix string, node Tree) {
		for key, child := range node {
			path := key
			if prefix != "" {
				path = prefix + Separator + key
			}
			if sub, ok := child.(Tree); ok {
				walk(path, sub)
				continue
			}
			paths = append(paths, path)
		}
	}
	walk("", t)
	sort.Strings(paths)
	return paths
}

// Flatten turns a nested document (as decoded from YAML or TOML) into
// dotted pairs. Keys are visited in sorted order so the result is stable.
// Scalars are formatted with fmt; lists are rejected.
func Flatten(doc map[string]any) ([]Pair, error) {
	var pairs []Pair
	if err := flatten("", doc, &pairs); err != nil {
		return nil, err
	}
	return pairs, nil
}

func flatten(prefix string, doc map[string]any, pairs *[]Pair) error {
	keys := make([]string, 0, len(doc))
	for k := range doc {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		path := key
		if prefix != "" {
			path = prefix + Separator + key
		}

		switch v := doc[key].(type) {
		case map[string]any:
			if err := flatten(path, v, pairs); err != nil {
				return err
			}
		case Tree:
			if err := flatten(path, v, pairs); err != nil {
				return err
			}
		case []any:
			return errors.Newf(errors.ErrConfig, "variable %q: lists are not supported", path)
		case nil:
			*pairs = append(*pairs, Pair{Path: path, Value: ""})
		default:
			*pairs = append(*pairs, Pair{Path: path, Value: fmt.Sprint(v)})
		}
	}
	return nil
}
