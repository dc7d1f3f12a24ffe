package generator

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simonhull/ranger/exec"
	"github.com/simonhull/ranger/internal/errors"
	"github.com/simonhull/ranger/internal/namespace"
)

// writeTemplate creates files under root; a trailing "/" makes a directory.
func writeTemplate(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		if rel[len(rel)-1] == '/' {
			require.NoError(t, os.MkdirAll(path, 0755))
			continue
		}
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func renderTree(t *testing.T, r *Renderer, source string, data any, exclude ...string) (string, *TreeResult, error) {
	t.Helper()
	out := filepath.Join(t.TempDir(), "out")
	require.NoError(t, os.MkdirAll(out, 0755))
	result, err := r.RenderTree(context.Background(), TreeOptions{
		Source:  source,
		Output:  out,
		Data:    data,
		Exclude: exclude,
	})
	return out, result, err
}

func TestRenderTree_PathsAndContent(t *testing.T) {
	src := t.TempDir()
	writeTemplate(t, src, map[string]string{
		"{{.vars.name}}/hello.txt":           "Hi {{.vars.name}}",
		"{{.vars.app.name}}/cmd/main.go":     "package main // {{ .vars.app.name | pascalCase }}",
		"static/README.md":                   "no templates here",
		"static/{{.vars.app.name | upper}}/": "",
	})

	r, err := NewRenderer()
	require.NoError(t, err)

	out, result, err := renderTree(t, r, src, vars(namespace.Tree{
		"name": "Bob",
		"app":  namespace.Tree{"name": "my-app"},
	}))
	require.NoError(t, err)

	assert.Equal(t, "Hi Bob", readFile(t, filepath.Join(out, "Bob", "hello.txt")))
	assert.Equal(t, "package main // MyApp", readFile(t, filepath.Join(out, "my-app", "cmd", "main.go")))
	assert.Equal(t, "no templates here", readFile(t, filepath.Join(out, "static", "README.md")))
	assert.DirExists(t, filepath.Join(out, "static", "MY-APP"))

	assert.Equal(t, 3, result.Files)
	assert.Equal(t, 5, result.Dirs)
	assert.NoDirExists(t, filepath.Join(out, "{{.vars.name}}"))
}

func TestRenderTree_DeterministicOrder(t *testing.T) {
	src := t.TempDir()
	writeTemplate(t, src, map[string]string{
		"b.txt":     "b",
		"a/y.txt":   "y",
		"a/x.txt":   "x",
		"c/d/e.txt": "e",
	})

	r, err := NewRenderer()
	require.NoError(t, err)

	_, first, err := renderTree(t, r, src, vars(namespace.Tree{}))
	require.NoError(t, err)
	_, second, err := renderTree(t, r, src, vars(namespace.Tree{}))
	require.NoError(t, err)

	want := []string{"a", "a/x.txt", "a/y.txt", "b.txt", "c", "c/d", "c/d/e.txt"}
	assert.Equal(t, want, first.Paths)
	assert.Equal(t, want, second.Paths)
}

func TestRenderTree_ExcludesDescriptor(t *testing.T) {
	src := t.TempDir()
	writeTemplate(t, src, map[string]string{
		".ranger.yaml":     "variables: {}\n",
		"{{.vars.d}}":      "also the descriptor once rendered",
		"keep.txt":         "kept",
		"sub/.ranger.yaml": "nested copies are ordinary files",
	})

	r, err := NewRenderer()
	require.NoError(t, err)

	out, result, err := renderTree(t, r, src, vars(namespace.Tree{"d": ".ranger.yaml"}), ".ranger.yaml")
	require.NoError(t, err)

	assert.NoFileExists(t, filepath.Join(out, ".ranger.yaml"))
	assert.FileExists(t, filepath.Join(out, "keep.txt"))
	assert.FileExists(t, filepath.Join(out, "sub", ".ranger.yaml"))
	assert.Equal(t, 2, result.Excluded)
}

func TestRenderTree_SkipsVCSDirectories(t *testing.T) {
	src := t.TempDir()
	writeTemplate(t, src, map[string]string{
		".git/HEAD": "ref: refs/heads/master",
		"file.txt":  "x",
	})

	r, err := NewRenderer()
	require.NoError(t, err)

	out, _, err := renderTree(t, r, src, vars(namespace.Tree{}))
	require.NoError(t, err)
	assert.NoDirExists(t, filepath.Join(out, ".git"))
	assert.FileExists(t, filepath.Join(out, "file.txt"))
}

func TestRenderTree_PreservesFileMode(t *testing.T) {
	src := t.TempDir()
	script := filepath.Join(src, "run.sh")
	require.NoError(t, os.WriteFile(script, []byte("#!/bin/sh\necho {{.vars.name}}\n"), 0755))
	require.NoError(t, os.Chmod(script, 0755))

	r, err := NewRenderer()
	require.NoError(t, err)

	out, _, err := renderTree(t, r, src, vars(namespace.Tree{"name": "Bob"}))
	require.NoError(t, err)

	info, err := os.Stat(filepath.Join(out, "run.sh"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0755), info.Mode().Perm())
	assert.Equal(t, "#!/bin/sh\necho Bob\n", readFile(t, filepath.Join(out, "run.sh")))
}

func TestRenderTree_Symlink(t *testing.T) {
	src := t.TempDir()
	writeTemplate(t, src, map[string]string{"{{.vars.name}}.txt": "target"})
	require.NoError(t, os.Symlink("{{.vars.name}}.txt", filepath.Join(src, "link")))

	r, err := NewRenderer()
	require.NoError(t, err)

	out, result, err := renderTree(t, r, src, vars(namespace.Tree{"name": "Bob"}))
	require.NoError(t, err)

	target, err := os.Readlink(filepath.Join(out, "link"))
	require.NoError(t, err)
	assert.Equal(t, "Bob.txt", target)
	assert.Equal(t, 1, result.Symlinks)
}

func TestRenderTree_Errors(t *testing.T) {
	tests := []struct {
		name        string
		files       map[string]string
		errContains string
		code        errors.ErrorCode
	}{
		{
			name:        "missing variable in path",
			files:       map[string]string{"{{.vars.nope}}.txt": ""},
			errContains: "nope",
			code:        errors.ErrResolve,
		},
		{
			name:        "missing variable in content",
			files:       map[string]string{"a.txt": "{{.vars.nope}}"},
			errContains: "a.txt",
			code:        errors.ErrResolve,
		},
		{
			name:        "path escapes output",
			files:       map[string]string{"{{.vars.up}}": "x"},
			errContains: "outside the output directory",
			code:        errors.ErrRender,
		},
		{
			name:        "path renders empty",
			files:       map[string]string{"{{.vars.empty}}": "x"},
			errContains: "empty path",
			code:        errors.ErrRender,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := t.TempDir()
			writeTemplate(t, src, tt.files)

			r, err := NewRenderer()
			require.NoError(t, err)

			out, _, err := renderTree(t, r, src, vars(namespace.Tree{"up": "../evil", "empty": ""}))
			require.Error(t, err)
			assert.Equal(t, tt.code, errors.GetErrorCode(err))
			assert.Contains(t, err.Error(), tt.errContains)
			assert.NoFileExists(t, filepath.Join(filepath.Dir(out), "evil"))
		})
	}
}

func TestRenderTree_FailingHelperAborts(t *testing.T) {
	src := t.TempDir()
	writeTemplate(t, src, map[string]string{
		"a.txt": "{{ ok .vars.name }}",
		"b.txt": `{{ fail "x" }}`,
		"c.txt": "never reached",
	})

	registry := exec.NewRegistry(nil)
	require.NoError(t, registry.Bind(context.Background(), "ok", "echo $VALUE-ok"))
	require.NoError(t, registry.Bind(context.Background(), "fail", "exit 3"))

	r, err := NewRenderer(WithHelpers(registry.FuncMap()))
	require.NoError(t, err)

	out, result, err := renderTree(t, r, src, vars(namespace.Tree{"name": "Bob"}))
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrRender))

	assert.Equal(t, "Bob-ok", readFile(t, filepath.Join(out, "a.txt")))
	assert.NoFileExists(t, filepath.Join(out, "c.txt"))
	assert.Equal(t, 1, result.Files)
}

func TestRenderTree_Cancelled(t *testing.T) {
	src := t.TempDir()
	writeTemplate(t, src, map[string]string{"a.txt": "a"})

	r, err := NewRenderer()
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = r.RenderTree(ctx, TreeOptions{Source: src, Output: t.TempDir(), Data: vars(namespace.Tree{})})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}
