// Package lisperrors is the structured error type every component of the
// engine raises through: native primitives, the reader, and the evaluator.
// It follows the teacher's pkgs/errors pattern (a string-typed error with
// Type/Message/Cause/Context) narrowed to the closed error-kind set spec §7
// names, plus an exit-code mapping (ExitCode) that the CLI does not use.
package lisperrors

import "fmt"

// Kind is the closed set of error categories spec §7 names. Kind values are
// semantic, not syntactic: a `type` error might originate from `car` on a
// non-pair or from applying a non-function, but both report Kind `type`.
type Kind string

const (
	KindArity      Kind = "arity"
	KindType       Kind = "type"
	KindLookup     Kind = "lookup"
	KindInternal   Kind = "internal"
	KindSyntax     Kind = "syntax"
	KindSystem     Kind = "system"
	KindRaise      Kind = "raise"
	KindWarn       Kind = "warn"
	KindDiv        Kind = "div"
	KindEOF        Kind = "eof"
	KindRead       Kind = "read"
	KindIncomplete Kind = "incomplete"
)

// ExitCode maps a Kind to a process exit code. The CLI does not call it: an
// uncaught error is reported through the emit hook and the process still
// exits with status 0. The mapping follows sysexits.h conventions the way a Unix-facing CLI
// commonly does, since neither spec.md nor original_source/ specifies one.
func (k Kind) ExitCode() int {
	switch k {
	case KindArity, KindType, KindLookup, KindSyntax, KindDiv, KindRaise, KindRead, KindIncomplete:
		return 65 // EX_DATAERR
	case KindSystem:
		return 74 // EX_IOERR
	case KindEOF:
		return 0
	case KindWarn:
		return 0
	default:
		return 70 // EX_SOFTWARE
	}
}

// Error is the structured failure value every raising component constructs.
// Context carries diagnostic fields (offending symbol, expected/actual
// arity, file position) the error-emit hook renders alongside Message.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
	Context map[string]any

	// File/Row/Col stamp the source position the failure occurred at, when
	// known (mirrors the position stamped onto every reader-produced value;
	// spec's "reader/parser coupling" design note).
	File string
	Row  int
	Col  int
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap makes Error compatible with errors.Is/errors.As.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New constructs an Error with no cause.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message, Context: make(map[string]any)}
}

// Newf constructs an Error with a formatted message.
func Newf(kind Kind, format string, args ...any) *Error {
	return New(kind, fmt.Sprintf(format, args...))
}

// Wrap constructs an Error wrapping an underlying Go error (used when a
// primitive such as open-input-file fails against the OS).
func Wrap(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause, Context: make(map[string]any)}
}

// WithContext attaches a diagnostic field and returns e for chaining.
func (e *Error) WithContext(key string, value any) *Error {
	e.Context[key] = value
	return e
}

// WithPosition stamps the source position the failure occurred at and
// returns e for chaining.
func (e *Error) WithPosition(file string, row, col int) *Error {
	e.File, e.Row, e.Col = file, row, col
	return e
}

// IsKind reports whether err is an *Error of the given Kind.
func IsKind(err error, kind Kind) bool {
	le, ok := err.(*Error)
	return ok && le.Kind == kind
}

// Arity builds the standard "wrong number of arguments" error for a
// primitive or lambda named name, expecting `expected` and given `got`.
func Arity(name string, expected, got int) *Error {
	return Newf(KindArity, "%s: expected %d argument(s), got %d", name, expected, got).
		WithContext("name", name).
		WithContext("expected", expected).
		WithContext("got", got)
}

// ArityAtLeast builds the "too few arguments" variant for variadic natives.
func ArityAtLeast(name string, min, got int) *Error {
	return Newf(KindArity, "%s: expected at least %d argument(s), got %d", name, min, got).
		WithContext("name", name).
		WithContext("min", min).
		WithContext("got", got)
}

// TypeMismatch builds the standard "wrong type" error.
func TypeMismatch(name, expected string, got string) *Error {
	return Newf(KindType, "%s: expected %s, got %s", name, expected, got).
		WithContext("name", name).
		WithContext("expected", expected).
		WithContext("got", got)
}

// Unbound builds the standard "unbound variable" lookup error.
func Unbound(sym string) *Error {
	return Newf(KindLookup, "unbound variable: %s", sym).WithContext("symbol", sym)
}

// DivByZero builds the standard division-by-zero error.
func DivByZero(op string) *Error {
	return Newf(KindDiv, "%s: division by zero", op).WithContext("op", op)
}
