package lisperrors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorMessageWithoutCause(t *testing.T) {
	err := New(KindType, "car: expected pair")
	assert.Equal(t, "type: car: expected pair", err.Error())
}

func TestErrorMessageWithCause(t *testing.T) {
	cause := errors.New("no such file")
	err := Wrap(KindSystem, "open-input-file failed", cause)
	assert.Contains(t, err.Error(), "no such file")
	assert.Contains(t, err.Error(), "system:")
}

func TestUnwrapExposesCause(t *testing.T) {
	cause := errors.New("boom")
	err := Wrap(KindSystem, "failed", cause)
	assert.Same(t, cause, errors.Unwrap(err))
}

func TestWithContextChains(t *testing.T) {
	err := New(KindLookup, "unbound").WithContext("symbol", "x")
	v, ok := err.Context["symbol"]
	assert.True(t, ok)
	assert.Equal(t, "x", v)
}

func TestIsKind(t *testing.T) {
	err := New(KindArity, "bad arity")
	assert.True(t, IsKind(err, KindArity))
	assert.False(t, IsKind(err, KindType))
	assert.False(t, IsKind(errors.New("plain"), KindArity))
}

func TestArityHelper(t *testing.T) {
	err := Arity("cons", 2, 3)
	assert.Equal(t, KindArity, err.Kind)
	assert.Equal(t, 2, err.Context["expected"])
	assert.Equal(t, 3, err.Context["got"])
}

func TestArityAtLeastHelper(t *testing.T) {
	err := ArityAtLeast("+", 0, 0)
	assert.Equal(t, KindArity, err.Kind)
}

func TestTypeMismatchHelper(t *testing.T) {
	err := TypeMismatch("car", "pair", "null")
	assert.Equal(t, KindType, err.Kind)
	assert.Contains(t, err.Message, "pair")
	assert.Contains(t, err.Message, "null")
}

func TestUnboundHelper(t *testing.T) {
	err := Unbound("foo")
	assert.Equal(t, KindLookup, err.Kind)
	assert.Equal(t, "foo", err.Context["symbol"])
}

func TestDivByZeroHelper(t *testing.T) {
	err := DivByZero("/")
	assert.Equal(t, KindDiv, err.Kind)
}

func TestExitCodeMapping(t *testing.T) {
	assert.Equal(t, 65, KindType.ExitCode())
	assert.Equal(t, 74, KindSystem.ExitCode())
	assert.Equal(t, 0, KindEOF.ExitCode())
	assert.Equal(t, 70, KindInternal.ExitCode())
}

func TestWithPositionStampsFields(t *testing.T) {
	err := New(KindSyntax, "bad token").WithPosition("in.scm", 3, 7)
	assert.Equal(t, "in.scm", err.File)
	assert.Equal(t, 3, err.Row)
	assert.Equal(t, 7, err.Col)
}
