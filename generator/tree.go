package generator

import (
	"context"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"github.com/simonhull/ranger/filesystem"
	"github.com/simonhull/ranger/internal/errors"
	"github.com/simonhull/ranger/internal/logging"
)

// TreeOptions configures RenderTree.
type TreeOptions struct {
	Source string // Template root
	Output string // Output root; must already exist
	Data   any    // Render context

	// Exclude lists rendered relative paths (slash-separated) that are
	// never written.
	Exclude []string

	// IgnorePatterns are file name patterns skipped during the walk.
	IgnorePatterns []string
}

// TreeResult summarizes a RenderTree pass.
type TreeResult struct {
	Dirs     int
	Files    int
	Symlinks int
	Excluded int
	Paths    []string // Rendered relative paths, in walk order
}

// RenderTree walks opts.Source depth-first in lexical order and mirrors it
// under opts.Output. Each entry's relative path is rendered as a template
// first; files also have their content rendered. The first error aborts
// the walk; cleaning up the output root is the caller's job.
func (r *Renderer) RenderTree(ctx context.Context, opts TreeOptions) (*TreeResult, error) {
	logger := logging.GetLogger("render")
	result := &TreeResult{}

	exclude := make(map[string]bool, len(opts.Exclude))
	for _, p := range opts.Exclude {
		exclude[path.Clean(p)] = true
	}

	walkOpts := filesystem.WalkOptions{IgnorePatterns: opts.IgnorePatterns}

	err := filesystem.Walk(ctx, opts.Source, walkOpts, func(src, rel string, d fs.DirEntry) error {
		rendered, err := r.renderRel(rel, opts.Data)
		if err != nil {
			return err
		}

		if exclude[rendered] {
			logger.Debug().Str("path", rel).Str("rendered", rendered).Msg("excluded")
			result.Excluded++
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		dst := filepath.Join(opts.Output, filepath.FromSlash(rendered))
		result.Paths = append(result.Paths, rendered)

		switch {
		case d.IsDir():
			logger.Debug().Str("path", rel).Str("rendered", rendered).Msg("directory")
			if err := os.MkdirAll(dst, 0755); err != nil {
				return errors.Wrapf(err, errors.ErrIO, "failed to create directory %s", dst)
			}
			result.Dirs++

		case d.Type()&fs.ModeSymlink != 0:
			logger.Debug().Str("path", rel).Str("rendered", rendered).Msg("symlink")
			if err := r.renderSymlink(src, dst, rel, opts.Data); err != nil {
				return err
			}
			result.Symlinks++

		default:
			logger.Debug().Str("path", rel).Str("rendered", rendered).Msg("file")
			if err := r.renderFile(src, dst, rel, d, opts.Data); err != nil {
				return err
			}
			result.Files++
		}
		return nil
	})
	if err != nil {
		if errors.GetErrorCode(err) == errors.ErrUnknown {
			err = errors.Wrapf(err, errors.ErrIO, "failed to walk %s", opts.Source)
		}
		return result, err
	}
	return result, nil
}

// renderRel renders a relative path and checks the result stays inside
// the output root.
func (r *Renderer) renderRel(rel string, data any) (string, error) {
	out, err := r.RenderPath(rel, data)
	if err != nil {
		return "", err
	}
	if out == "" {
		return "", errors.Newf(errors.ErrRender, "path %q renders to an empty path", rel)
	}

	cleaned := path.Clean(out)
	if !filepath.IsLocal(filepath.FromSlash(cleaned)) {
		return "", errors.Newf(errors.ErrRender, "path %q renders to %q, which is outside the output directory", rel, out)
	}
	return cleaned, nil
}

func (r *Renderer) renderFile(src, dst, rel string, d fs.DirEntry, data any) error {
	info, err := d.Info()
	if err != nil {
		return errors.Wrapf(err, errors.ErrIO, "failed to stat %s", src)
	}

	content, err := os.ReadFile(src)
	if err != nil {
		return errors.Wrapf(err, errors.ErrIO, "failed to read %s", src)
	}

	rendered, err := r.RenderString(rel, string(content), data)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return errors.Wrapf(err, errors.ErrIO, "failed to create directory %s", filepath.Dir(dst))
	}
	if err := os.WriteFile(dst, rendered, info.Mode().Perm()); err != nil {
		return errors.Wrapf(err, errors.ErrIO, "failed to write %s", dst)
	}
	// WriteFile is subject to the umask.
	if err := os.Chmod(dst, info.Mode().Perm()); err != nil {
		return errors.Wrapf(err, errors.ErrIO, "failed to set mode on %s", dst)
	}
	return nil
}

func (r *Renderer) renderSymlink(src, dst, rel string, data any) error {
	target, err := os.Readlink(src)
	if err != nil {
		return errors.Wrapf(err, errors.ErrIO, "failed to read link %s", src)
	}

	rendered, err := r.RenderString(rel+" -> link", target, data)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return errors.Wrapf(err, errors.ErrIO, "failed to create directory %s", filepath.Dir(dst))
	}
	if err := os.Symlink(string(rendered), dst); err != nil {
		return errors.Wrapf(err, errors.ErrIO, "failed to create link %s", dst)
	}
	return nil
}
