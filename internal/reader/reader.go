// Package reader implements the recursive-descent parser spec §4.6
// describes: token stream to *value.Value AST, grounded on the teacher's
// runtime/parser/parser.go structure (one method per grammar production,
// positions stamped on every constructed node) and
// original_source/src/parser.c's c_parse_sexpr/c_parse_list shape.
package reader

import (
	"math/big"

	"github.com/pedde-lisp/r5scheme/internal/lexer"
	"github.com/pedde-lisp/r5scheme/internal/lisperrors"
	"github.com/pedde-lisp/r5scheme/internal/numeric"
	"github.com/pedde-lisp/r5scheme/internal/value"
)

// quoteSyms maps a quoting token kind to the symbol its expansion wraps
// the following sexpr in (spec §4.6: "a quoting token t followed by sexpr e
// yields the pair (sym . (e . null))").
var quoteSyms = map[lexer.TokenKind]string{
	lexer.QUOTE:           "quote",
	lexer.QUASIQUOTE:      "quasiquote",
	lexer.UNQUOTE:         "unquote",
	lexer.UNQUOTESPLICING: "unquote-splicing",
}

// Reader parses one or more sexprs off a Lexer.
type Reader struct {
	lx   *lexer.Lexer
	peek *lexer.Token
}

// New returns a Reader over lx.
func New(lx *lexer.Lexer) *Reader {
	return &Reader{lx: lx}
}

func (r *Reader) next() (lexer.Token, *lisperrors.Error) {
	if r.peek != nil {
		t := *r.peek
		r.peek = nil
		return t, nil
	}
	return r.lx.Next()
}

func (r *Reader) peekTok() (lexer.Token, *lisperrors.Error) {
	if r.peek == nil {
		t, err := r.lx.Next()
		if err != nil {
			return lexer.Token{}, err
		}
		r.peek = &t
	}
	return *r.peek, nil
}

// Read parses exactly one sexpr. At true end of stream (no tokens at all)
// it returns the eof sentinel value rather than an error (spec §4.6: "an
// EOF at the top of sexpr from a file yields an err(eof) sentinel so the
// driver can stop").
func (r *Reader) Read() (*value.Value, *lisperrors.Error) {
	tok, err := r.next()
	if err != nil {
		return nil, err
	}
	return r.readFrom(tok)
}

func (r *Reader) readFrom(tok lexer.Token) (*value.Value, *lisperrors.Error) {
	switch tok.Kind {
	case lexer.EOF:
		return value.NewErr("eof"), nil
	case lexer.QUOTE, lexer.QUASIQUOTE, lexer.UNQUOTE, lexer.UNQUOTESPLICING:
		inner, err := r.Read()
		if err != nil {
			return nil, err
		}
		if inner.Tag == value.TagErr {
			return nil, lisperrors.New(lisperrors.KindSyntax, "unexpected eof after quote").
				WithPosition(tok.Position.File, tok.Position.Line, tok.Position.Column)
		}
		sym := value.NewSymbol(quoteSyms[tok.Kind])
		stampPos(sym, tok)
		v := value.List(sym, inner)
		stampPos(v, tok)
		return v, nil
	case lexer.OPENPAREN:
		return r.readList(tok)
	case lexer.CLOSEPAREN:
		return nil, lisperrors.New(lisperrors.KindSyntax, "unexpected )").
			WithPosition(tok.Position.File, tok.Position.Line, tok.Position.Column)
	case lexer.DOT:
		return nil, lisperrors.New(lisperrors.KindSyntax, "unexpected .").
			WithPosition(tok.Position.File, tok.Position.Line, tok.Position.Column)
	default:
		return r.readAtom(tok)
	}
}

// readList implements `list ::= CLOSEPAREN | sexpr … [ DOT sexpr ] CLOSEPAREN`.
func (r *Reader) readList(open lexer.Token) (*value.Value, *lisperrors.Error) {
	tok, err := r.peekTok()
	if err != nil {
		return nil, err
	}
	if tok.Kind == lexer.CLOSEPAREN {
		r.next()
		return value.Null, nil
	}

	var elems []*value.Value
	var tail *value.Value = value.Null

	for {
		tok, err := r.peekTok()
		if err != nil {
			return nil, err
		}
		switch tok.Kind {
		case lexer.EOF:
			return nil, lisperrors.New(lisperrors.KindSyntax, "unexpected eof in list").
				WithPosition(open.Position.File, open.Position.Line, open.Position.Column)
		case lexer.CLOSEPAREN:
			r.next()
			return r.buildList(elems, tail, open), nil
		case lexer.DOT:
			r.next()
			dotTail, err := r.Read()
			if err != nil {
				return nil, err
			}
			if dotTail.Tag == value.TagErr {
				return nil, lisperrors.New(lisperrors.KindSyntax, "unexpected eof after dot").
					WithPosition(open.Position.File, open.Position.Line, open.Position.Column)
			}
			tail = dotTail
			closeTok, err := r.next()
			if err != nil {
				return nil, err
			}
			if closeTok.Kind != lexer.CLOSEPAREN {
				return nil, lisperrors.New(lisperrors.KindSyntax, "expected ) after dotted tail").
					WithPosition(closeTok.Position.File, closeTok.Position.Line, closeTok.Position.Column)
			}
			return r.buildList(elems, tail, open), nil
		default:
			elem, err := r.Read()
			if err != nil {
				return nil, err
			}
			elems = append(elems, elem)
		}
	}
}

func (r *Reader) buildList(elems []*value.Value, tail *value.Value, open lexer.Token) *value.Value {
	result := tail
	for i := len(elems) - 1; i >= 0; i-- {
		result = value.NewPair(elems[i], result)
	}
	stampPos(result, open)
	return result
}

func (r *Reader) readAtom(tok lexer.Token) (*value.Value, *lisperrors.Error) {
	var v *value.Value
	switch tok.Kind {
	case lexer.INTEGER:
		n := new(big.Int)
		if _, ok := n.SetString(tok.Text, 10); !ok {
			return nil, lisperrors.New(lisperrors.KindSyntax, "malformed integer: "+tok.Text).
				WithPosition(tok.Position.File, tok.Position.Line, tok.Position.Column)
		}
		v = value.NewNumber(numeric.NewInt(n))
	case lexer.RATIONAL:
		rat := new(big.Rat)
		if _, ok := rat.SetString(tok.Text); !ok {
			return nil, lisperrors.New(lisperrors.KindSyntax, "malformed rational: "+tok.Text).
				WithPosition(tok.Position.File, tok.Position.Line, tok.Position.Column)
		}
		v = value.NewNumber(numeric.NewRationalFromRat(rat))
	case lexer.FLOAT:
		f, ok := numeric.ParseFloat(tok.Text)
		if !ok {
			return nil, lisperrors.New(lisperrors.KindSyntax, "malformed float: "+tok.Text).
				WithPosition(tok.Position.File, tok.Position.Line, tok.Position.Column)
		}
		v = value.NewNumber(f)
	case lexer.BOOL:
		v = value.NewBool(tok.Text == "#t")
	case lexer.SYMBOL:
		v = value.NewSymbol(tok.Text)
	case lexer.STRING:
		v = value.NewString(tok.Text)
	case lexer.CHAR:
		v = value.NewChar(tok.CharVal)
	default:
		return nil, lisperrors.New(lisperrors.KindSyntax, "unexpected token").
			WithPosition(tok.Position.File, tok.Position.Line, tok.Position.Column)
	}
	stampPos(v, tok)
	return v, nil
}

func stampPos(v *value.Value, tok lexer.Token) {
	v.File = tok.Position.File
	v.Row = tok.Position.Line
	v.Col = tok.Position.Column
}

// ParsePort loops Read on a port, collecting successes into a Go slice
// until eof, per spec §4.6's parse_port: "returning the list at EOF,
// returning err(read) on syntax error."
func ParsePort(port value.Port, file string) ([]*value.Value, *lisperrors.Error) {
	rd := New(lexer.New(port, file))
	var out []*value.Value
	for {
		v, err := rd.Read()
		if err != nil {
			return nil, lisperrors.Wrap(lisperrors.KindRead, "parse error", err)
		}
		if v.Tag == value.TagErr && v.ErrKind == "eof" {
			return out, nil
		}
		out = append(out, v)
	}
}
