package generator

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simonhull/ranger/exec"
	"github.com/simonhull/ranger/internal/errors"
	"github.com/simonhull/ranger/internal/namespace"
)

func vars(tree namespace.Tree) map[string]any {
	return map[string]any{"vars": tree}
}

func TestNewRenderer(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)
	assert.True(t, r.Strict())
	assert.Contains(t, r.FuncNames(), "pascalCase")
}

func TestRenderString(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)

	data := vars(namespace.Tree{
		"name":   "Bob",
		"author": namespace.Tree{"email": "bob@example.com"},
		"html":   `<a href="x">&</a>`,
	})

	tests := []struct {
		name        string
		templateStr string
		expected    string
		wantErr     bool
		errContains string
		code        errors.ErrorCode
	}{
		{
			name:        "plain text",
			templateStr: "Hello World",
			expected:    "Hello World",
		},
		{
			name:        "nested variable",
			templateStr: "Mail {{ .vars.author.email }}",
			expected:    "Mail bob@example.com",
		},
		{
			name:        "no html escaping",
			templateStr: "{{ .vars.html }}",
			expected:    `<a href="x">&</a>`,
		},
		{
			name:        "builtin function",
			templateStr: "{{ .vars.name | upper }}",
			expected:    "BOB",
		},
		{
			name:        "undefined variable is an error",
			templateStr: "Hi {{ .vars.missing }}",
			wantErr:     true,
			errContains: "missing",
			code:        errors.ErrResolve,
		},
		{
			name:        "undefined nested namespace is an error",
			templateStr: "Hi {{ .vars.nope.deeper }}",
			wantErr:     true,
			errContains: "undefined variable in template",
			code:        errors.ErrResolve,
		},
		{
			name:        "field on a scalar is a render error",
			templateStr: "{{ .vars.name.first }}",
			wantErr:     true,
			errContains: "failed to render template",
			code:        errors.ErrRender,
		},
		{
			name:        "unregistered helper is an error",
			templateStr: `{{ shout "x" }}`,
			wantErr:     true,
			errContains: "failed to parse template",
			code:        errors.ErrRender,
		},
		{
			name:        "syntax error",
			templateStr: "{{ .vars.name }",
			wantErr:     true,
			errContains: "failed to parse template",
			code:        errors.ErrRender,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output, err := r.RenderString(tt.name, tt.templateStr, data)

			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errContains)
				assert.True(t, errors.IsErrorCode(err, tt.code), "got %s", errors.GetErrorCode(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, string(output))
		})
	}
}

func TestRenderString_NonStrict(t *testing.T) {
	r, err := NewRenderer(WithStrict(false))
	require.NoError(t, err)

	out, err := r.RenderString("t", "Hi {{ .vars.missing }}", vars(namespace.Tree{}))
	require.NoError(t, err)
	assert.Equal(t, "Hi <no value>", string(out))
}

func TestRenderString_Helpers(t *testing.T) {
	registry := exec.NewRegistry(nil)
	require.NoError(t, registry.Bind(context.Background(), "suffix", "echo $VALUE-suffix"))
	require.NoError(t, registry.Bind(context.Background(), "fail", "exit 7"))

	r, err := NewRenderer(WithHelpers(registry.FuncMap()))
	require.NoError(t, err)

	out, err := r.RenderString("t", `{{ suffix .vars.name }}/{{ .vars.name | suffix }}`, vars(namespace.Tree{"name": "x"}))
	require.NoError(t, err)
	assert.Equal(t, "x-suffix/x-suffix", string(out))

	_, err = r.RenderString("t", `{{ fail "x" }}`, nil)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrRender))
	assert.Contains(t, err.Error(), "fail")
}

func TestWithHelpers_RejectsShadowing(t *testing.T) {
	_, err := NewRenderer(WithHelpers(map[string]any{"upper": func(s string) (string, error) { return s, nil }}))
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfig))

	_, err = NewRenderer(WithHelpers(map[string]any{"printf": func(s string) (string, error) { return s, nil }}))
	assert.Error(t, err)
}

func TestCaseFunctions(t *testing.T) {
	tests := []struct {
		in                          string
		pascal, camel, snake, kebab string
	}{
		{"user_name", "UserName", "userName", "user_name", "user-name"},
		{"my-app", "MyApp", "myApp", "my_app", "my-app"},
		{"UserName", "UserName", "userName", "user_name", "user-name"},
		{"HTTPServer", "HttpServer", "httpServer", "http_server", "http-server"},
		{"hello world", "HelloWorld", "helloWorld", "hello_world", "hello-world"},
		{"", "", "", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.pascal, PascalCase(tt.in))
			assert.Equal(t, tt.camel, CamelCase(tt.in))
			assert.Equal(t, tt.snake, SnakeCase(tt.in))
			assert.Equal(t, tt.kebab, KebabCase(tt.in))
		})
	}
}

func TestPluralize(t *testing.T) {
	tests := map[string]string{
		"user":   "users",
		"box":    "boxes",
		"church": "churches",
		"city":   "cities",
		"day":    "days",
		"Person": "People",
		"child":  "children",
		"":       "",
	}
	for in, want := range tests {
		assert.Equal(t, want, Pluralize(in), in)
	}
}

func TestTitleAndDefault(t *testing.T) {
	assert.Equal(t, "Hello Big World", Title("hello  BIG world"))
	assert.Equal(t, "fallback", Default("fallback", ""))
	assert.Equal(t, "fallback", Default("fallback", nil))
	assert.Equal(t, "set", Default("fallback", "set"))
	assert.Equal(t, `"q"`, Quote("q"))
}
