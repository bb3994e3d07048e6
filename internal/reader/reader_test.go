package reader

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pedde-lisp/r5scheme/internal/lexer"
	"github.com/pedde-lisp/r5scheme/internal/ports"
	"github.com/pedde-lisp/r5scheme/internal/value"
)

func read(t *testing.T, src string) *value.Value {
	t.Helper()
	rd := New(lexer.New(ports.NewStringInput(src), "t.scm"))
	v, err := rd.Read()
	require.Nil(t, err)
	return v
}

func TestReadAtoms(t *testing.T) {
	assert.Equal(t, "42", value.FormatValue(read(t, "42")))
	assert.Equal(t, "foo", value.FormatValue(read(t, "foo")))
	assert.Equal(t, `"hi"`, value.FormatValue(read(t, `"hi"`)))
	assert.Equal(t, "#t", value.FormatValue(read(t, "#t")))
}

func TestReadProperList(t *testing.T) {
	v := read(t, "(1 2 3)")
	assert.Equal(t, "(1 2 3)", value.FormatValue(v))
}

func TestReadEmptyList(t *testing.T) {
	v := read(t, "()")
	assert.True(t, v.IsNull())
}

func TestReadDottedPair(t *testing.T) {
	v := read(t, "(1 . 2)")
	assert.Equal(t, "(1 . 2)", value.FormatValue(v))
}

func TestReadQuoteSugar(t *testing.T) {
	v := read(t, "'x")
	assert.Equal(t, "(quote x)", value.FormatValue(v))
}

func TestReadQuasiquoteUnquoteUnquoteSplicing(t *testing.T) {
	assert.Equal(t, "(quasiquote x)", value.FormatValue(read(t, "`x")))
	assert.Equal(t, "(unquote x)", value.FormatValue(read(t, ",x")))
	assert.Equal(t, "(unquote-splicing x)", value.FormatValue(read(t, ",@x")))
}

func TestReadNestedList(t *testing.T) {
	v := read(t, "(1 (2 3) 4)")
	assert.Equal(t, "(1 (2 3) 4)", value.FormatValue(v))
}

func TestReadEofSentinelAtTopLevel(t *testing.T) {
	rd := New(lexer.New(ports.NewStringInput(""), "t.scm"))
	v, err := rd.Read()
	require.Nil(t, err)
	assert.Equal(t, value.TagErr, v.Tag)
	assert.Equal(t, "eof", v.ErrKind)
}

func TestReadUnexpectedCloseParenIsSyntaxError(t *testing.T) {
	rd := New(lexer.New(ports.NewStringInput(")"), "t.scm"))
	_, err := rd.Read()
	require.NotNil(t, err)
	assert.Equal(t, "syntax", string(err.Kind))
}

func TestReadUnterminatedListIsSyntaxError(t *testing.T) {
	rd := New(lexer.New(ports.NewStringInput("(1 2"), "t.scm"))
	_, err := rd.Read()
	require.NotNil(t, err)
	assert.Equal(t, "syntax", string(err.Kind))
}

func TestReadStampsSourcePosition(t *testing.T) {
	v := read(t, "foo")
	assert.Equal(t, "t.scm", v.File)
	assert.Equal(t, 1, v.Row)
}

func TestParsePortCollectsAllTopLevelForms(t *testing.T) {
	forms, err := ParsePort(ports.NewStringInput("1 2 (+ 1 2)"), "t.scm")
	require.Nil(t, err)
	require.Len(t, forms, 3)
	assert.Equal(t, "(+ 1 2)", value.FormatValue(forms[2]))
}

func TestParsePortPropagatesSyntaxErrorAsKindRead(t *testing.T) {
	_, err := ParsePort(ports.NewStringInput("(1 2"), "t.scm")
	require.NotNil(t, err)
	assert.Equal(t, "read", string(err.Kind))
}

func TestReadRationalAndFloat(t *testing.T) {
	assert.Equal(t, "1/3", value.FormatValue(read(t, "1/3")))
	assert.Contains(t, value.FormatValue(read(t, "3.14")), "3.14")
}
