// Package value implements the tagged Value sum type spec §3 describes:
// the single representation shared by read S-expressions, evaluated
// results, environments, and function closures.
package value

import (
	"github.com/pedde-lisp/r5scheme/internal/numeric"
)

// Tag identifies which payload fields of a Value are live.
type Tag int

const (
	TagNull Tag = iota
	TagBool
	TagChar
	TagNumber
	TagSymbol
	TagString
	TagPair
	TagHash
	TagPort
	TagFn
	TagErr
)

func (t Tag) String() string {
	switch t {
	case TagNull:
		return "null"
	case TagBool:
		return "bool"
	case TagChar:
		return "char"
	case TagNumber:
		return "number"
	case TagSymbol:
		return "symbol"
	case TagString:
		return "string"
	case TagPair:
		return "pair"
	case TagHash:
		return "hash"
	case TagPort:
		return "port"
	case TagFn:
		return "fn"
	case TagErr:
		return "err"
	default:
		return "unknown"
	}
}

// FnKind distinguishes the three function-descriptor shapes spec §3/§4.7
// describe.
type FnKind int

const (
	FnNative FnKind = iota
	FnLambda
	FnMacro
)

// Fn is the payload of a TagFn value (spec §3's "function descriptor").
// A native stores only Native; a lambda/macro stores Formals/Body/Env
// (its closure) and leaves Native nil.
type Fn struct {
	Kind    FnKind
	Name    string // diagnostic only: native builtin name, or the name `define` gave a lambda/macro; "" when unnamed
	Native  any    // concrete type exec.Native; asserted by the evaluator
	Formals *Value // symbol, proper list, or improper list
	Body    *Value // single body form
	Env     *Value // captured environment (a TagPair env-chain value)
}

// HashTable is implemented by internal/hashtbl.Table. Declaring it here
// (rather than importing hashtbl) keeps value free of a dependency on its
// own consumer; hashtbl implements this interface over *Value keys/values.
type HashTable interface {
	Insert(key *Value, v *Value)
	Fetch(key *Value) (*Value, bool)
	Delete(key *Value) bool
	Walk(func(key, v *Value))
	Len() int
}

// Port is implemented by internal/ports' file and string port types,
// referenced the same way as HashTable above.
type Port interface {
	ReadChar() (byte, bool, error)
	PeekChar() (byte, bool, error)
	WriteChar(byte) error
	WriteString(string) error
	IsInput() bool
	IsOutput() bool
	Eof() bool
	Close() error
	String() string
}

// Value is the tagged sum type every piece of Lisp data is made of.
type Value struct {
	Tag Tag

	Bool    bool
	Char    byte
	Num     *numeric.Number
	Sym     string // TagSymbol payload
	Str     string // TagString payload
	Car     *Value // TagPair
	Cdr     *Value // TagPair
	Hash    HashTable
	PortVal Port
	Fn      *Fn
	ErrKind string // TagErr subkind: "eof", "read", "incomplete"

	// Source position, stamped by the reader; zero when synthetic.
	File string
	Row  int
	Col  int

	// Bound is a back-reference to the symbol this value was most
	// recently `define`d to, used only for backtrace diagnostics.
	Bound *Value
}

// Null is the canonical empty-list singleton. Every null Value in the
// system is this pointer; a pair's cdr of "no more elements" is always
// canonicalized to Null, never a fresh null-tagged Value (spec §3).
var Null = &Value{Tag: TagNull}

// NewBool, NewChar, NewNumber, NewSymbol, NewString construct scalar
// values.
func NewBool(b bool) *Value              { return &Value{Tag: TagBool, Bool: b} }
func NewChar(c byte) *Value              { return &Value{Tag: TagChar, Char: c} }
func NewNumber(n *numeric.Number) *Value { return &Value{Tag: TagNumber, Num: n} }
func NewSymbol(s string) *Value          { return &Value{Tag: TagSymbol, Sym: s} }
func NewString(s string) *Value          { return &Value{Tag: TagString, Str: s} }

// NewPair builds a pair cell. A nil or null cdr is canonicalized to Null
// (spec §3's pair-cdr invariant).
func NewPair(car, cdr *Value) *Value {
	if cdr == nil || cdr.Tag == TagNull {
		cdr = Null
	}
	return &Value{Tag: TagPair, Car: car, Cdr: cdr}
}

// NewHash wraps a HashTable payload.
func NewHash(h HashTable) *Value { return &Value{Tag: TagHash, Hash: h} }

// NewPortValue wraps a Port payload.
func NewPortValue(p Port) *Value { return &Value{Tag: TagPort, PortVal: p} }

// NewErr builds an err sentinel value of the given subkind ("eof", "read",
// "incomplete").
func NewErr(kind string) *Value { return &Value{Tag: TagErr, ErrKind: kind} }

// NewNativeFn builds a native function descriptor. native is an
// exec.Native, stored opaquely to avoid an import cycle between value and
// exec.
func NewNativeFn(name string, native any) *Value {
	return &Value{Tag: TagFn, Fn: &Fn{Kind: FnNative, Name: name, Native: native}}
}

// NewLambda and NewMacro build closures capturing env.
func NewLambda(formals, body, env *Value) *Value {
	return &Value{Tag: TagFn, Fn: &Fn{Kind: FnLambda, Formals: formals, Body: body, Env: env}}
}

func NewMacro(formals, body, env *Value) *Value {
	return &Value{Tag: TagFn, Fn: &Fn{Kind: FnMacro, Formals: formals, Body: body, Env: env}}
}

// Stamp records the source position of a reader-constructed value (spec
// §3's "file/row/col … refers to the start of its source token").
func (v *Value) Stamp(file string, row, col int) *Value {
	v.File, v.Row, v.Col = file, row, col
	return v
}

// IsNull, IsPair, IsAtom, IsTrue (the boolean-false-is-the-only-falsy-value
// rule used by `if`) are the predicates the evaluator leans on most.
func (v *Value) IsNull() bool { return v != nil && v.Tag == TagNull }
func (v *Value) IsPair() bool { return v != nil && v.Tag == TagPair }
func (v *Value) IsAtom() bool { return v == nil || v.Tag != TagPair }

// IsTrue reports whether v counts as true in a conditional context: only
// the literal boolean #f is false (spec §4.7's `if`).
func (v *Value) IsTrue() bool {
	return !(v != nil && v.Tag == TagBool && !v.Bool)
}

// Equal implements spec §4.9's `equal?`: same tag, and either same scalar
// value, same string/symbol bytes, or recursively same for pairs.
func Equal(a, b *Value) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	if a.Tag != b.Tag {
		return false
	}
	switch a.Tag {
	case TagNull:
		return true
	case TagBool:
		return a.Bool == b.Bool
	case TagChar:
		return a.Char == b.Char
	case TagNumber:
		return a.Num.Kind == b.Num.Kind && numeric.Compare(a.Num, b.Num) == 0
	case TagSymbol:
		return a.Sym == b.Sym
	case TagString:
		return a.Str == b.Str
	case TagPair:
		return Equal(a.Car, b.Car) && Equal(a.Cdr, b.Cdr)
	case TagErr:
		return a.ErrKind == b.ErrKind
	case TagHash, TagPort, TagFn:
		return a == b
	default:
		return false
	}
}
