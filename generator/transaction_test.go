package generator

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simonhull/ranger/internal/errors"
)

func TestBegin_MissingOutputIsUntouched(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out")

	tx, err := Begin(out, false)
	require.NoError(t, err)
	defer tx.Close()

	assert.Equal(t, out, tx.Output())
	assert.NoDirExists(t, out)
}

func TestBegin_RequiresOutput(t *testing.T) {
	_, err := Begin("", false)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfig))
}

func TestBegin_ExistingOutput(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(t *testing.T, out string)
		force   bool
		wantErr bool
	}{
		{
			name: "non-empty directory",
			setup: func(t *testing.T, out string) {
				require.NoError(t, os.MkdirAll(out, 0755))
				require.NoError(t, os.WriteFile(filepath.Join(out, "keep.txt"), []byte("keep"), 0644))
			},
			wantErr: true,
		},
		{
			name: "regular file",
			setup: func(t *testing.T, out string) {
				require.NoError(t, os.WriteFile(out, []byte("keep"), 0644))
			},
			wantErr: true,
		},
		{
			name: "empty directory",
			setup: func(t *testing.T, out string) {
				require.NoError(t, os.MkdirAll(out, 0755))
			},
		},
		{
			name: "non-empty directory with force",
			setup: func(t *testing.T, out string) {
				require.NoError(t, os.MkdirAll(out, 0755))
				require.NoError(t, os.WriteFile(filepath.Join(out, "keep.txt"), []byte("keep"), 0644))
			},
			force: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := filepath.Join(t.TempDir(), "out")
			tt.setup(t, out)

			tx, err := Begin(out, tt.force)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.IsErrorCode(err, errors.ErrAlreadyExists))
				assert.Contains(t, err.Error(), "--force")
				_, statErr := os.Stat(out)
				assert.NoError(t, statErr, "existing output must be left alone")
				return
			}
			require.NoError(t, err)
			require.NoError(t, tx.Close())
		})
	}
}

func TestTransaction_CommitKeepsOutput(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out")
	scratch := t.TempDir()

	tx, err := Begin(out, false)
	require.NoError(t, err)
	tx.Track(scratch)

	require.NoError(t, tx.Create())
	require.NoError(t, os.WriteFile(filepath.Join(out, "file.txt"), []byte("x"), 0644))
	require.NoError(t, tx.Commit())
	assert.True(t, tx.Committed())
	require.NoError(t, tx.Close())

	assert.FileExists(t, filepath.Join(out, "file.txt"))
	assert.NoDirExists(t, scratch)
}

func TestTransaction_CloseWithoutCommitRollsBack(t *testing.T) {
	out := filepath.Join(t.TempDir(), "nested", "out")
	scratch := t.TempDir()

	tx, err := Begin(out, false)
	require.NoError(t, err)
	tx.Track(scratch)

	require.NoError(t, tx.Create())
	require.NoError(t, os.MkdirAll(filepath.Join(out, "partial"), 0755))
	require.NoError(t, tx.Close())

	assert.NoDirExists(t, out)
	assert.NoDirExists(t, scratch)
}

func TestTransaction_ForceReplacesOnlyAtCreate(t *testing.T) {
	out := t.TempDir()
	old := filepath.Join(out, "old.txt")
	require.NoError(t, os.WriteFile(old, []byte("old"), 0644))

	// A failure before Create leaves the existing output alone.
	tx, err := Begin(out, true)
	require.NoError(t, err)
	require.NoError(t, tx.Close())
	assert.FileExists(t, old)

	tx, err = Begin(out, true)
	require.NoError(t, err)
	require.NoError(t, tx.Create())
	assert.NoFileExists(t, old)
	assert.DirExists(t, out)
	require.NoError(t, tx.Commit())
	require.NoError(t, tx.Close())
	assert.DirExists(t, out)
}

func TestTransaction_CommitRules(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out")

	tx, err := Begin(out, false)
	require.NoError(t, err)

	assert.Error(t, tx.Commit(), "commit before create")

	require.NoError(t, tx.Create())
	require.NoError(t, tx.Commit())
	assert.Error(t, tx.Commit(), "second commit")

	require.NoError(t, tx.Close())
	require.NoError(t, tx.Close())
	assert.Error(t, tx.Create(), "create after close")
}
