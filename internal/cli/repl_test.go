package cli

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pedde-lisp/r5scheme/internal/bootstrap"
	"github.com/pedde-lisp/r5scheme/internal/env"
	"github.com/pedde-lisp/r5scheme/internal/exec"
	"github.com/pedde-lisp/r5scheme/internal/value"
)

func newReplCtx(t *testing.T) *exec.Context {
	t.Helper()
	e, err := bootstrap.New()
	require.NoError(t, err)
	return exec.New(e)
}

func TestReplBindsNonNullResultToDollarLine(t *testing.T) {
	ctx := newReplCtx(t)
	r := NewREPL(ctx)

	var out strings.Builder
	r.Run(strings.NewReader("(+ 1 2)\n"), &out)

	assert.Contains(t, out.String(), "$1 = 3")

	bound, ok := env.Lookup(ctx.Env, value.NewSymbol("$1"))
	require.True(t, ok)
	assert.Equal(t, "3", value.FormatValue(bound))
}

func TestReplSkipsBlankLines(t *testing.T) {
	ctx := newReplCtx(t)
	r := NewREPL(ctx)

	var out strings.Builder
	r.Run(strings.NewReader("\n(+ 1 1)\n"), &out)

	assert.Contains(t, out.String(), "$1 = 2")
}

func TestReplContinuesPastErrorToNextLine(t *testing.T) {
	ctx := newReplCtx(t)
	r := NewREPL(ctx)

	var out strings.Builder
	r.Run(strings.NewReader("(car 1)\n(+ 5 5)\n"), &out)

	assert.Contains(t, out.String(), "$2 = 10")
}

func TestReplDoesNotBindNullResult(t *testing.T) {
	ctx := newReplCtx(t)
	r := NewREPL(ctx)

	var out strings.Builder
	r.Run(strings.NewReader("(define x 1)\n"), &out)

	assert.NotContains(t, out.String(), "$1 =")
}

func TestRunFileStopsAtFirstError(t *testing.T) {
	e, err := bootstrap.New()
	require.NoError(t, err)
	ctx := exec.New(e)

	ferr := RunFile(ctx, "(define x 1) (car 1) (define y 2)", "test.scm")
	require.NotNil(t, ferr)

	_, ok := env.Lookup(ctx.Env, value.NewSymbol("y"))
	assert.False(t, ok)
}
