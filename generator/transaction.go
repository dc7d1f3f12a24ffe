package generator

import (
	stderrors "errors"
	"fmt"
	"os"

	"github.com/simonhull/ranger/internal/errors"
	"github.com/simonhull/ranger/internal/logging"
)

// Transaction guards one generation attempt. Once Close returns, the
// output root is either complete (after Commit) or absent, and every
// tracked scratch path is gone.
type Transaction struct {
	output    string
	force     bool
	scratch   []string
	created   bool
	committed bool
	closed    bool
}

// Begin checks the output precondition without touching anything: unless
// force is set, an existing non-empty directory or an existing
// non-directory at output fails with ALREADY_EXISTS.
func Begin(output string, force bool) (*Transaction, error) {
	if output == "" {
		return nil, errors.New(errors.ErrConfig, "output path is required")
	}

	if !force {
		info, err := os.Stat(output)
		switch {
		case err == nil && !info.IsDir():
			return nil, errors.Newf(errors.ErrAlreadyExists, "output path %s exists and is not a directory (use --force to replace it)", output)
		case err == nil:
			entries, err := os.ReadDir(output)
			if err != nil {
				return nil, errors.Wrapf(err, errors.ErrIO, "failed to read %s", output)
			}
			if len(entries) > 0 {
				return nil, errors.Newf(errors.ErrAlreadyExists, "output directory %s already exists and is not empty (use --force to replace it)", output)
			}
		case !os.IsNotExist(err):
			return nil, errors.Wrapf(err, errors.ErrIO, "failed to stat %s", output)
		}
	}

	return &Transaction{output: output, force: force}, nil
}

// Output returns the output root.
func (t *Transaction) Output() string {
	return t.output
}

// Track registers a scratch path that Close always removes.
func (t *Transaction) Track(path string) {
	if path != "" {
		t.scratch = append(t.scratch, path)
	}
}

// Create makes the output root, first removing an existing one when the
// transaction was begun with force. From here on a failed transaction
// removes the output root.
func (t *Transaction) Create() error {
	if t.closed {
		return fmt.Errorf("transaction already closed")
	}

	if t.force {
		if err := os.RemoveAll(t.output); err != nil {
			return errors.Wrapf(err, errors.ErrIO, "failed to remove existing output %s", t.output)
		}
	}

	// Claim the root before creating it so a partial MkdirAll is cleaned
	// up too.
	t.created = true
	if err := os.MkdirAll(t.output, 0755); err != nil {
		return errors.Wrapf(err, errors.ErrIO, "failed to create output directory %s", t.output)
	}
	return nil
}

// Commit marks the output as complete.
func (t *Transaction) Commit() error {
	if t.committed {
		return fmt.Errorf("transaction already committed")
	}
	if !t.created {
		return fmt.Errorf("transaction has no output to commit")
	}
	t.committed = true
	return nil
}

// Committed reports whether Commit succeeded.
func (t *Transaction) Committed() bool {
	return t.committed
}

// Close removes scratch paths and, unless committed, the output root. It
// is safe to call more than once; use it in a defer.
func (t *Transaction) Close() error {
	if t.closed {
		return nil
	}
	t.closed = true
	logger := logging.GetLogger("transaction")

	var errs []error
	for _, path := range t.scratch {
		logger.Debug().Str("path", path).Msg("removing scratch")
		if err := os.RemoveAll(path); err != nil {
			errs = append(errs, fmt.Errorf("failed to remove scratch %s: %w", path, err))
		}
	}

	if t.created && !t.committed {
		logger.Debug().Str("path", t.output).Msg("rolling back output")
		if err := os.RemoveAll(t.output); err != nil {
			errs = append(errs, fmt.Errorf("failed to roll back %s: %w", t.output, err))
		}
	}

	if len(errs) > 0 {
		return errors.Wrap(stderrors.Join(errs...), errors.ErrIO, "cleanup failed")
	}
	return nil
}
