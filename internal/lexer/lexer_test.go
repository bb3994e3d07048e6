package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pedde-lisp/r5scheme/internal/ports"
)

func tokenize(t *testing.T, src string) []Token {
	t.Helper()
	lx := New(ports.NewStringInput(src), "test.scm")
	var toks []Token
	for {
		tok, err := lx.Next()
		require.Nil(t, err)
		toks = append(toks, tok)
		if tok.Kind == EOF {
			return toks
		}
	}
}

func TestParensAndSymbol(t *testing.T) {
	toks := tokenize(t, "(foo)")
	kinds := []TokenKind{toks[0].Kind, toks[1].Kind, toks[2].Kind, toks[3].Kind}
	assert.Equal(t, []TokenKind{OPENPAREN, SYMBOL, CLOSEPAREN, EOF}, kinds)
	assert.Equal(t, "foo", toks[1].Text)
}

func TestQuoteQuasiquoteUnquoteUnquoteSplicing(t *testing.T) {
	toks := tokenize(t, "' ` , ,@")
	assert.Equal(t, QUOTE, toks[0].Kind)
	assert.Equal(t, QUASIQUOTE, toks[1].Kind)
	assert.Equal(t, UNQUOTE, toks[2].Kind)
	assert.Equal(t, UNQUOTESPLICING, toks[3].Kind)
}

func TestIntegerRationalFloatClassification(t *testing.T) {
	toks := tokenize(t, "42 -3 1/3 3.14 .5 1.0e10")
	assert.Equal(t, INTEGER, toks[0].Kind)
	assert.Equal(t, INTEGER, toks[1].Kind)
	assert.Equal(t, RATIONAL, toks[2].Kind)
	assert.Equal(t, FLOAT, toks[3].Kind)
	assert.Equal(t, FLOAT, toks[4].Kind)
	assert.Equal(t, FLOAT, toks[5].Kind)
}

func TestBoolTokens(t *testing.T) {
	toks := tokenize(t, "#t #f")
	assert.Equal(t, BOOL, toks[0].Kind)
	assert.Equal(t, "#t", toks[0].Text)
	assert.Equal(t, BOOL, toks[1].Kind)
	assert.Equal(t, "#f", toks[1].Text)
}

func TestDotToken(t *testing.T) {
	toks := tokenize(t, "(a . b)")
	assert.Equal(t, DOT, toks[2].Kind)
}

func TestStringLiteralWithEscapes(t *testing.T) {
	toks := tokenize(t, `"a\nb\t\"c\""`)
	assert.Equal(t, STRING, toks[0].Kind)
	assert.Equal(t, "a\nb\t\"c\"", toks[0].Text)
}

func TestUnterminatedStringIsSyntaxError(t *testing.T) {
	lx := New(ports.NewStringInput(`"abc`), "test.scm")
	_, err := lx.Next()
	require.NotNil(t, err)
	assert.Equal(t, "syntax", string(err.Kind))
}

func TestCharLiteralSingleByte(t *testing.T) {
	toks := tokenize(t, `#\a`)
	assert.Equal(t, CHAR, toks[0].Kind)
	assert.Equal(t, byte('a'), toks[0].CharVal)
}

func TestCharLiteralSpecialName(t *testing.T) {
	toks := tokenize(t, `#\space #\newline`)
	assert.Equal(t, byte(32), toks[0].CharVal)
	assert.Equal(t, byte(10), toks[1].CharVal)
}

func TestCharLiteralHex(t *testing.T) {
	toks := tokenize(t, `#\x41`)
	assert.Equal(t, byte(0x41), toks[0].CharVal)
}

func TestCharLiteralUnknownNameIsSyntaxError(t *testing.T) {
	lx := New(ports.NewStringInput(`#\bogus`), "test.scm")
	_, err := lx.Next()
	require.NotNil(t, err)
	assert.Equal(t, "syntax", string(err.Kind))
}

func TestLineCommentSkipped(t *testing.T) {
	toks := tokenize(t, "; a comment\n42")
	assert.Equal(t, INTEGER, toks[0].Kind)
	assert.Equal(t, "42", toks[0].Text)
}

func TestSymbolsThatLookLikeOperators(t *testing.T) {
	toks := tokenize(t, "+ - * /")
	for _, tok := range toks[:4] {
		assert.Equal(t, SYMBOL, tok.Kind)
	}
}

func TestEofOnEmptyInput(t *testing.T) {
	toks := tokenize(t, "")
	assert.Equal(t, EOF, toks[0].Kind)
}

func TestPositionTracking(t *testing.T) {
	lx := New(ports.NewStringInput("a\nb"), "f.scm")
	first, _ := lx.Next()
	assert.Equal(t, 1, first.Position.Line)
	second, _ := lx.Next()
	assert.Equal(t, 2, second.Position.Line)
}
