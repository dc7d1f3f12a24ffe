package generator

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/simonhull/ranger/internal/errors"
)

// Renderer renders template strings against a render context. It uses
// text/template, so interpolated values are never HTML-escaped.
type Renderer struct {
	funcMap template.FuncMap
	strict  bool
}

// RendererOption configures a Renderer.
type RendererOption func(*Renderer) error

// WithHelpers adds helper functions. A helper may not shadow a built-in.
func WithHelpers(funcs template.FuncMap) RendererOption {
	return func(r *Renderer) error {
		for name, fn := range funcs {
			if IsBuiltin(name) {
				return errors.Newf(errors.ErrConfig, "helper %q shadows a built-in template function", name)
			}
			r.funcMap[name] = fn
		}
		return nil
	}
}

// WithStrict toggles strict mode. In strict mode (the default) a missing
// map key fails the render; otherwise it renders as "<no value>".
func WithStrict(strict bool) RendererOption {
	return func(r *Renderer) error {
		r.strict = strict
		return nil
	}
}

// NewRenderer creates a renderer with the built-in functions.
func NewRenderer(opts ...RendererOption) (*Renderer, error) {
	r := &Renderer{
		funcMap: defaultFuncMap(),
		strict:  true,
	}
	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Strict reports whether missing keys fail the render.
func (r *Renderer) Strict() bool {
	return r.strict
}

// RenderString renders templateStr. The name is used in error messages.
// A reference to an undefined variable in strict mode returns a RESOLVE
// error; syntax errors, unknown functions and failing helpers return RENDER.
func (r *Renderer) RenderString(name, templateStr string, data any) ([]byte, error) {
	missingKey := "missingkey=default"
	if r.strict {
		missingKey = "missingkey=error"
	}

	tmpl, err := template.New(name).Option(missingKey).Funcs(r.funcMap).Parse(templateStr)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrRender, "failed to parse template '%s'", name)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		if isMissingKey(err) {
			return nil, errors.Wrapf(err, errors.ErrResolve, "undefined variable in template '%s'", name)
		}
		return nil, errors.Wrapf(err, errors.ErrRender, "failed to render template '%s'", name)
	}
	return buf.Bytes(), nil
}

// isMissingKey reports whether err comes from missingkey=error. text/template
// has no typed error for it, only this message.
func isMissingKey(err error) bool {
	return strings.Contains(err.Error(), "map has no entry for key")
}

// RenderPath renders a relative path template and returns it as a string.
func (r *Renderer) RenderPath(rel string, data any) (string, error) {
	out, err := r.RenderString(rel, rel, data)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// FuncNames lists the functions available to templates, for diagnostics.
func (r *Renderer) FuncNames() []string {
	names := make([]string, 0, len(r.funcMap))
	for name := range r.funcMap {
		names = append(names, name)
	}
	return sortedStrings(names)
}

func (r *Renderer) String() string {
	return fmt.Sprintf("Renderer{strict=%t, funcs=%d}", r.strict, len(r.funcMap))
}
