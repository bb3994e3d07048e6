// Package lexer implements the tokenizer spec §4.5 describes: a port-backed
// character stream in, a stream of Tokens out. Grounded on the teacher's
// runtime/lexer/lexer.go technique of precomputed ASCII classification
// tables built once in init(), retargeted from the teacher's shell-mode
// grammar to Scheme's token set, plus
// original_source/src/parser.c's special_chars[] table for `#\NAME`
// character literals.
package lexer

import (
	"regexp"
	"strings"

	"github.com/pedde-lisp/r5scheme/internal/lisperrors"
	"github.com/pedde-lisp/r5scheme/internal/value"
)

var (
	isWhitespace [128]bool
	isDelimiter  [128]bool // whitespace, parens, quote chars, EOF — ends a buffered atom
)

func init() {
	for i := 0; i < 128; i++ {
		ch := byte(i)
		isWhitespace[i] = ch == ' ' || ch == '\t' || ch == '\r' || ch == '\n' || ch == '\f'
		isDelimiter[i] = isWhitespace[i] || ch == '(' || ch == ')' || ch == '\'' ||
			ch == '`' || ch == ',' || ch == '"' || ch == ';'
	}
}

// specialChars is original_source/src/parser.c's special_chars[] table:
// case-insensitive `#\NAME` spellings for non-printing or easily-confused
// bytes, including the "non-standard" `newline` entry the original source
// keeps alongside the standard `linefeed`.
var specialChars = map[string]byte{
	"nul": 0, "soh": 1, "stx": 2, "etx": 3, "eot": 4, "enq": 5, "ack": 6,
	"bel": 7, "bs": 8, "ht": 9, "lf": 10, "vt": 11, "ff": 12, "cr": 13,
	"so": 14, "si": 15, "dle": 16, "dc1": 17, "dc2": 18, "dc3": 19, "dc4": 20,
	"nak": 21, "syn": 22, "etb": 23, "can": 24, "em": 25, "sub": 26,
	"esc": 27, "fs": 28, "gs": 29, "rs": 30, "us": 31, "del": 127,
	"altmode": 27, "backnext": 31, "backspace": 8, "call": 26,
	"linefeed": 10, "page": 12, "return": 13, "rubout": 127, "space": 32,
	"tab": 9, "newline": 10,
}

var (
	rationalRe = regexp.MustCompile(`^[-+]?[0-9]+/[0-9]+$`)
	floatRe    = regexp.MustCompile(`^[-+]?([0-9]*)?\.([0-9]+)?([eE][-+]?[0-9]+)?$`)
	integerRe  = regexp.MustCompile(`^[-+]?[0-9]+$`)
)

// Lexer tokenizes a value.Port one token at a time.
type Lexer struct {
	port   value.Port
	file   string
	line   int
	column int
}

// New returns a Lexer reading from port; file is used only to stamp
// Position.File on every token (typically the port's name, or "<repl:N>"
// for REPL line N).
func New(port value.Port, file string) *Lexer {
	return &Lexer{port: port, file: file, line: 1, column: 0}
}

func (l *Lexer) pos() Position {
	return Position{File: l.file, Line: l.line, Column: l.column}
}

func (l *Lexer) advance() (byte, bool) {
	c, ok, _ := l.port.ReadChar()
	if !ok {
		return 0, false
	}
	if c == '\n' {
		l.line++
		l.column = 0
	} else {
		l.column++
	}
	return c, true
}

func (l *Lexer) peek() (byte, bool) {
	c, ok, _ := l.port.PeekChar()
	return c, ok
}

func (l *Lexer) skipWhitespaceAndComments() {
	for {
		c, ok := l.peek()
		if !ok {
			return
		}
		if c < 128 && isWhitespace[c] {
			l.advance()
			continue
		}
		if c == ';' {
			for {
				c, ok := l.peek()
				if !ok || c == '\n' {
					break
				}
				l.advance()
			}
			continue
		}
		return
	}
}

// Next returns the next token, or a *lisperrors.Error of Kind `syntax` on
// malformed input. At true end of stream it returns a Token of Kind EOF,
// not an error (spec §4.6: "an EOF at the top of sexpr from a file yields
// an err(eof) sentinel so the driver can stop" — the reader layer, not the
// lexer, turns a bare EOF token into that sentinel).
func (l *Lexer) Next() (Token, *lisperrors.Error) {
	l.skipWhitespaceAndComments()
	start := l.pos()

	c, ok := l.peek()
	if !ok {
		return Token{Kind: EOF, Position: start}, nil
	}

	switch c {
	case '(':
		l.advance()
		return Token{Kind: OPENPAREN, Position: start}, nil
	case ')':
		l.advance()
		return Token{Kind: CLOSEPAREN, Position: start}, nil
	case '\'':
		l.advance()
		return Token{Kind: QUOTE, Position: start}, nil
	case '`':
		l.advance()
		return Token{Kind: QUASIQUOTE, Position: start}, nil
	case ',':
		l.advance()
		if c2, ok := l.peek(); ok && c2 == '@' {
			l.advance()
			return Token{Kind: UNQUOTESPLICING, Position: start}, nil
		}
		return Token{Kind: UNQUOTE, Position: start}, nil
	case '"':
		return l.lexString(start)
	case '#':
		return l.lexHash(start)
	}

	return l.lexAtom(start)
}

func (l *Lexer) lexString(start Position) (Token, *lisperrors.Error) {
	l.advance() // opening quote
	var b strings.Builder
	for {
		c, ok := l.advance()
		if !ok {
			return Token{}, lisperrors.New(lisperrors.KindSyntax, "unterminated string").WithPosition(start.File, start.Line, start.Column)
		}
		if c == '"' {
			return Token{Kind: STRING, Text: b.String(), Position: start}, nil
		}
		if c == '\\' {
			esc, ok := l.advance()
			if !ok {
				return Token{}, lisperrors.New(lisperrors.KindSyntax, "unterminated string escape").WithPosition(start.File, start.Line, start.Column)
			}
			switch esc {
			case 'n':
				b.WriteByte('\n')
			case 'r':
				b.WriteByte('\r')
			case 't':
				b.WriteByte('\t')
			case '\\':
				b.WriteByte('\\')
			case '"':
				b.WriteByte('"')
			default:
				return Token{}, lisperrors.New(lisperrors.KindSyntax, "unknown string escape").WithPosition(start.File, start.Line, start.Column)
			}
			continue
		}
		b.WriteByte(c)
	}
}

func (l *Lexer) lexHash(start Position) (Token, *lisperrors.Error) {
	l.advance() // '#'
	c, ok := l.peek()
	if !ok {
		return Token{}, lisperrors.New(lisperrors.KindSyntax, "unterminated # token").WithPosition(start.File, start.Line, start.Column)
	}
	switch c {
	case 't':
		l.advance()
		return Token{Kind: BOOL, Text: "#t", Position: start}, nil
	case 'f':
		l.advance()
		return Token{Kind: BOOL, Text: "#f", Position: start}, nil
	case '\\':
		l.advance()
		return l.lexChar(start)
	}
	return Token{}, lisperrors.New(lisperrors.KindSyntax, "unknown # syntax").WithPosition(start.File, start.Line, start.Column)
}

// lexChar parses the body of a `#\...` literal, following
// original_source/src/parser.c's c_char_value: a single character, an
// `x`-prefixed two-hex-digit byte, or a case-insensitive name from
// specialChars.
func (l *Lexer) lexChar(start Position) (Token, *lisperrors.Error) {
	var body strings.Builder
	for {
		c, ok := l.peek()
		if !ok || (c < 128 && isDelimiter[c] && body.Len() > 0) {
			break
		}
		l.advance()
		body.WriteByte(c)
		if body.Len() == 1 {
			// a single non-letter (e.g. `#\(`) is complete immediately;
			// letters may continue into a name like `space`.
			if !((c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')) {
				break
			}
		}
	}
	s := body.String()
	switch {
	case len(s) == 1:
		return Token{Kind: CHAR, CharVal: s[0], Position: start}, nil
	case len(s) == 3 && (s[0] == 'x' || s[0] == 'X'):
		hi, okHi := hexDigit(s[1])
		lo, okLo := hexDigit(s[2])
		if !okHi || !okLo {
			return Token{}, lisperrors.New(lisperrors.KindSyntax, "malformed hex char").WithPosition(start.File, start.Line, start.Column)
		}
		return Token{Kind: CHAR, CharVal: hi<<4 | lo, Position: start}, nil
	default:
		if b, ok := specialChars[strings.ToLower(s)]; ok {
			return Token{Kind: CHAR, CharVal: b, Position: start}, nil
		}
		return Token{}, lisperrors.New(lisperrors.KindSyntax, "unknown special character: "+s).WithPosition(start.File, start.Line, start.Column)
	}
}

func hexDigit(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	default:
		return 0, false
	}
}

// lexAtom buffers characters up to the next delimiter and classifies the
// result by regex (spec §4.5: "the tokenizer buffers characters until a
// delimiter ... and then classifies the accumulated buffer"), trying
// rational, then float, then integer, then falling back to SYMBOL — and a
// bare `.` between list elements classifies as DOT.
func (l *Lexer) lexAtom(start Position) (Token, *lisperrors.Error) {
	var b strings.Builder
	for {
		c, ok := l.peek()
		if !ok || (c < 128 && isDelimiter[c]) {
			break
		}
		l.advance()
		b.WriteByte(c)
	}
	s := b.String()
	if s == "." {
		return Token{Kind: DOT, Text: s, Position: start}, nil
	}
	switch {
	case rationalRe.MatchString(s):
		return Token{Kind: RATIONAL, Text: s, Position: start}, nil
	case floatRe.MatchString(s):
		return Token{Kind: FLOAT, Text: s, Position: start}, nil
	case integerRe.MatchString(s):
		return Token{Kind: INTEGER, Text: s, Position: start}, nil
	default:
		return Token{Kind: SYMBOL, Text: s, Position: start}, nil
	}
}
