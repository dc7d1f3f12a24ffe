package errors_test

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simonhull/ranger/internal/errors"
)

func TestNew(t *testing.T) {
	err := errors.New(errors.ErrConfig, "bad override")

	assert.Equal(t, errors.ErrConfig, err.Code)
	assert.NotNil(t, err.Details)
	assert.Equal(t, "[CONFIG] bad override", err.Error())
}

func TestWrap(t *testing.T) {
	base := stderrors.New("exit status 2")

	err := errors.Wrapf(base, errors.ErrRender, "helper %q failed", "slug")
	require.Error(t, err)
	assert.Equal(t, `[RENDER] helper "slug" failed: exit status 2`, err.Error())
	assert.True(t, stderrors.Is(err, base))
	assert.True(t, errors.IsErrorCode(err, errors.ErrRender))

	assert.Nil(t, errors.Wrap(nil, errors.ErrIO, "nothing"))
}

func TestIsMatchesCode(t *testing.T) {
	err := fmt.Errorf("generate: %w", errors.New(errors.ErrFetch, "branch missing"))

	assert.True(t, stderrors.Is(err, errors.New(errors.ErrFetch, "")))
	assert.False(t, stderrors.Is(err, errors.New(errors.ErrIO, "")))
}

func TestGetErrorCode(t *testing.T) {
	assert.Equal(t, errors.ErrUnknown, errors.GetErrorCode(stderrors.New("plain")))

	inner := errors.New(errors.ErrFetch, "unreachable")
	outer := errors.Wrap(inner, errors.ErrIO, "cleanup")
	assert.Equal(t, errors.ErrIO, errors.GetErrorCode(outer))
}

func TestWithDetail(t *testing.T) {
	err := errors.New(errors.ErrRender, "helper failed").
		WithDetail("helper", "slug").
		WithDetail("exit_code", 3)

	details := errors.GetErrorDetails(err)
	assert.Equal(t, "slug", details["helper"])
	assert.Equal(t, 3, details["exit_code"])
	assert.Nil(t, errors.GetErrorDetails(stderrors.New("plain")))
}
