package bootstrap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pedde-lisp/r5scheme/internal/eval"
	"github.com/pedde-lisp/r5scheme/internal/exec"
	"github.com/pedde-lisp/r5scheme/internal/lexer"
	"github.com/pedde-lisp/r5scheme/internal/ports"
	"github.com/pedde-lisp/r5scheme/internal/reader"
	"github.com/pedde-lisp/r5scheme/internal/value"
)

func evalSrc(t *testing.T, ctx *exec.Context, src string) *value.Value {
	t.Helper()
	rd := reader.New(lexer.New(ports.NewStringInput(src), "t.scm"))
	v, err := rd.Read()
	require.Nil(t, err)
	return eval.Eval(ctx, v)
}

func TestNewBootstrapsNativesAndLibraryProcedures(t *testing.T) {
	e, err := New()
	require.NoError(t, err)
	ctx := exec.New(e)

	assert.Equal(t, "3", value.FormatValue(evalSrc(t, ctx, "(+ 1 2)")))
	assert.Equal(t, "2", value.FormatValue(evalSrc(t, ctx, "(cadr (list 1 2 3))")))
	assert.Equal(t, "(2 3)", value.FormatValue(evalSrc(t, ctx, "(member 2 (list 1 2 3))")))
	assert.Equal(t, "#t", value.FormatValue(evalSrc(t, ctx, "(even? 4)")))
	assert.Equal(t, "5", value.FormatValue(evalSrc(t, ctx, "(max 1 5 3)")))
}

func TestCheckVersionRejectsMissingHeader(t *testing.T) {
	err := checkVersion([]byte("(define x 1)\n"))
	require.Error(t, err)
}

func TestCheckVersionRejectsOlderThanMinimum(t *testing.T) {
	err := checkVersion([]byte(";; version: 0.9.0\n(define x 1)\n"))
	require.Error(t, err)
}

func TestCheckVersionAcceptsCurrentHeader(t *testing.T) {
	err := checkVersion([]byte(";; version: 1.0.0\n(define x 1)\n"))
	require.NoError(t, err)
}
