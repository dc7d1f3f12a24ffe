// Package source materializes a template source as a local directory: an
// existing folder, or a shallow clone of a git repository in a scratch
// directory the caller removes when done.
package source

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"

	"github.com/simonhull/ranger/internal/errors"
	"github.com/simonhull/ranger/internal/logging"
)

// Snapshot is a fetched template source.
type Snapshot struct {
	// Root is the template root directory.
	Root string
	// Scratch is a temporary directory owned by the snapshot, or "" for
	// local sources. The caller must remove it.
	Scratch string
}

// Request identifies a template inside a git repository.
type Request struct {
	Repo   string
	Branch string
	// Folder is a subdirectory of the repository used as template root.
	Folder string
}

// Provider fetches a template source.
type Provider interface {
	Fetch(ctx context.Context) (*Snapshot, error)
	String() string
}

// cloneRepo is swapped in tests.
var cloneRepo = git.PlainCloneContext

// Local checks that path is an existing directory and uses it in place.
func Local(path string) (*Snapshot, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Newf(errors.ErrFetch, "template folder %s does not exist", path)
		}
		return nil, errors.Wrapf(err, errors.ErrFetch, "failed to stat template folder %s", path)
	}
	if !info.IsDir() {
		return nil, errors.Newf(errors.ErrFetch, "template folder %s is not a directory", path)
	}

	root, err := filepath.EvalSymlinks(path)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrFetch, "failed to resolve template folder %s", path)
	}
	return &Snapshot{Root: root}, nil
}

// Git shallow-clones req.Branch of req.Repo into a new scratch directory.
// On failure the scratch directory is already gone.
func Git(ctx context.Context, req Request) (snap *Snapshot, err error) {
	logger := logging.GetLogger("source")

	if req.Repo == "" {
		return nil, errors.New(errors.ErrConfig, "repository URL is required")
	}
	if req.Branch == "" {
		return nil, errors.New(errors.ErrConfig, "branch is required")
	}
	if req.Folder != "" && !filepath.IsLocal(req.Folder) {
		return nil, errors.Newf(errors.ErrConfig, "folder %q must be a relative path inside the repository", req.Folder)
	}

	scratch, err := os.MkdirTemp("", "ranger-*")
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrIO, "failed to create scratch directory")
	}
	defer func() {
		if err != nil {
			if rmErr := os.RemoveAll(scratch); rmErr != nil {
				logger.Warn().Err(rmErr).Str("path", scratch).Msg("failed to remove scratch directory")
			}
		}
	}()

	logger.Info().Str("repo", req.Repo).Str("branch", req.Branch).Str("scratch", scratch).Msg("cloning")

	_, err = cloneRepo(ctx, scratch, false, &git.CloneOptions{
		URL:           req.Repo,
		ReferenceName: plumbing.NewBranchReferenceName(req.Branch),
		SingleBranch:  true,
		Depth:         1,
	})
	if err != nil {
		ferr := &errors.RangerError{
			Code:    errors.ErrFetch,
			Message: fmt.Sprintf("failed to clone %s (branch %s)", req.Repo, req.Branch),
			Wrapped: err,
		}
		return nil, ferr.WithDetail("repo", req.Repo).WithDetail("branch", req.Branch)
	}

	root := scratch
	if req.Folder != "" {
		root, err = resolveFolder(scratch, req.Folder)
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrFetch, "folder %s not usable in %s", req.Folder, req.Repo)
		}
	}

	return &Snapshot{Root: root, Scratch: scratch}, nil
}

// resolveFolder returns the real path of folder inside the clone. A
// symlinked folder is followed but must stay inside the clone.
func resolveFolder(scratch, folder string) (string, error) {
	base, err := filepath.EvalSymlinks(scratch)
	if err != nil {
		return "", err
	}
	root, err := filepath.EvalSymlinks(filepath.Join(base, filepath.FromSlash(folder)))
	if err != nil {
		return "", fmt.Errorf("folder not found: %w", err)
	}

	rel, err := filepath.Rel(base, root)
	if err != nil || !filepath.IsLocal(rel) {
		return "", fmt.Errorf("folder resolves to %s, outside the repository", root)
	}

	info, err := os.Stat(root)
	if err != nil {
		return "", err
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%s is not a directory", root)
	}
	return root, nil
}

// NewLocal returns a provider for an existing directory.
func NewLocal(path string) Provider {
	return localProvider{path: path}
}

// NewGit returns a provider that clones req on Fetch.
func NewGit(req Request) Provider {
	return gitProvider{req: req}
}

type localProvider struct {
	path string
}

func (p localProvider) Fetch(context.Context) (*Snapshot, error) {
	return Local(p.path)
}

func (p localProvider) String() string {
	return p.path
}

type gitProvider struct {
	req Request
}

func (p gitProvider) Fetch(ctx context.Context) (*Snapshot, error) {
	return Git(ctx, p.req)
}

func (p gitProvider) String() string {
	s := p.req.Repo + "@" + p.req.Branch
	if p.req.Folder != "" {
		s += ":" + p.req.Folder
	}
	return s
}
