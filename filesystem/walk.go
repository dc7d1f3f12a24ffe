package filesystem

import (
	"context"
	"io/fs"
	"path/filepath"
	"strings"
)

// DefaultIgnoreDirs are version-control directories that never belong to a
// template.
var DefaultIgnoreDirs = []string{".git", ".svn", ".hg"}

// WalkOptions configures directory traversal behavior
type WalkOptions struct {
	IgnoreDirs     []string // Directory names to skip (default: DefaultIgnoreDirs)
	IgnorePatterns []string // File name patterns to skip (e.g., "*.tmp")
	SkipHidden     bool     // Skip dot files and dot directories
}

// Visitor is called for every entry below the root. rel is the
// slash-separated path relative to the root.
type Visitor func(path, rel string, d fs.DirEntry) error

// Walk traverses rootPath depth-first in lexical order. The root itself is
// not visited; a symlinked root is resolved first, while symlinks below it
// are reported as entries and never followed. Return filepath.SkipDir from
// visitor to skip a directory. The walk stops early when ctx is done.
func Walk(ctx context.Context, rootPath string, opts WalkOptions, visitor Visitor) error {
	// WalkDir does not descend into a root that is itself a symlink.
	rootPath, err := filepath.EvalSymlinks(rootPath)
	if err != nil {
		return err
	}

	ignoreDirs := opts.IgnoreDirs
	if ignoreDirs == nil {
		ignoreDirs = DefaultIgnoreDirs
	}

	return filepath.WalkDir(rootPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if path == rootPath {
			return nil
		}

		name := d.Name()

		if opts.SkipHidden && strings.HasPrefix(name, ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			for _, ignore := range ignoreDirs {
				if name == ignore {
					return filepath.SkipDir
				}
			}
		}

		if !d.IsDir() && len(opts.IgnorePatterns) > 0 {
			for _, pattern := range opts.IgnorePatterns {
				if matched, _ := filepath.Match(pattern, name); matched {
					return nil
				}
			}
		}

		rel, err := filepath.Rel(rootPath, path)
		if err != nil {
			return err
		}
		return visitor(path, filepath.ToSlash(rel), d)
	})
}
