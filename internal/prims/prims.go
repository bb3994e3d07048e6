// Package prims implements the native primitive library spec §4.9 names:
// predicates, pair operations, the numeric tower's arithmetic/comparison
// surface, character comparisons, ports/IO, and reflection (eval/apply/map/
// assert/warn/load/gensym/inspect). Every primitive is an exec.Native
// (func(*exec.Context, *value.Value) *value.Value), matching the original's
// `p_*(lexec_t*, lv_t*)` convention: arity/type guards run inline and raise
// through ctx.Assert rather than a Go error return, so a violation unwinds
// through arbitrary evaluator depth exactly like the original's longjmp.
package prims

import (
	"github.com/pedde-lisp/r5scheme/internal/env"
	"github.com/pedde-lisp/r5scheme/internal/exec"
	"github.com/pedde-lisp/r5scheme/internal/lisperrors"
	"github.com/pedde-lisp/r5scheme/internal/value"
)

// define registers one native under name in env, wrapping fn as an
// exec.Native value the evaluator's Apply can dispatch.
func define(e *value.Value, name string, fn exec.Native) {
	env.Define(e, value.NewSymbol(name), value.NewNativeFn(name, fn))
}

// Register installs every native spec §4.9 requires into e's innermost
// frame. It is the single call site internal/bootstrap uses before loading
// env/r5.scm.
func Register(e *value.Value) {
	registerPredicates(e)
	registerPairs(e)
	registerNumeric(e)
	registerChar(e)
	registerIO(e)
	registerReflect(e)
}

// args is a small convenience: flattens a proper argument list to a slice,
// raising a syntax error if the evaluator ever hands prims an improper one
// (which the evaluator's evalList guarantees cannot happen in practice).
func args(ctx *exec.Context, name string, v *value.Value) []*value.Value {
	elems, proper := value.ToSlice(v)
	if !proper {
		ctx.Assert(lisperrors.New(lisperrors.KindSyntax, name+": improper argument list"))
	}
	return elems
}

func requireArity(ctx *exec.Context, name string, v *value.Value, n int) []*value.Value {
	elems := args(ctx, name, v)
	if len(elems) != n {
		ctx.Assert(lisperrors.Arity(name, n, len(elems)))
	}
	return elems
}

func requireArityAtLeast(ctx *exec.Context, name string, v *value.Value, min int) []*value.Value {
	elems := args(ctx, name, v)
	if len(elems) < min {
		ctx.Assert(lisperrors.ArityAtLeast(name, min, len(elems)))
	}
	return elems
}

func requirePair(ctx *exec.Context, name string, v *value.Value) *value.Value {
	if !v.IsPair() {
		ctx.Assert(lisperrors.TypeMismatch(name, "pair", v.Tag.String()))
	}
	return v
}

func requireSymbol(ctx *exec.Context, name string, v *value.Value) *value.Value {
	if v.Tag != value.TagSymbol {
		ctx.Assert(lisperrors.TypeMismatch(name, "symbol", v.Tag.String()))
	}
	return v
}

func requireString(ctx *exec.Context, name string, v *value.Value) *value.Value {
	if v.Tag != value.TagString {
		ctx.Assert(lisperrors.TypeMismatch(name, "string", v.Tag.String()))
	}
	return v
}

func requireChar(ctx *exec.Context, name string, v *value.Value) *value.Value {
	if v.Tag != value.TagChar {
		ctx.Assert(lisperrors.TypeMismatch(name, "char", v.Tag.String()))
	}
	return v
}

func requireNumber(ctx *exec.Context, name string, v *value.Value) *value.Value {
	if v.Tag != value.TagNumber {
		ctx.Assert(lisperrors.TypeMismatch(name, "number", v.Tag.String()))
	}
	return v
}

func requirePort(ctx *exec.Context, name string, v *value.Value) *value.Value {
	if v.Tag != value.TagPort {
		ctx.Assert(lisperrors.TypeMismatch(name, "port", v.Tag.String()))
	}
	return v
}

func requireProperList(ctx *exec.Context, name string, v *value.Value) []*value.Value {
	elems, proper := value.ToSlice(v)
	if !proper {
		ctx.Assert(lisperrors.TypeMismatch(name, "list", "improper list"))
	}
	return elems
}

func boolVal(b bool) *value.Value { return value.NewBool(b) }
