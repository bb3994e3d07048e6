package prims

import (
	"github.com/pedde-lisp/r5scheme/internal/exec"
	"github.com/pedde-lisp/r5scheme/internal/lisperrors"
	"github.com/pedde-lisp/r5scheme/internal/numeric"
	"github.com/pedde-lisp/r5scheme/internal/value"
)

// registerPairs installs cons/car/cdr and the list utilities spec §4.9
// names, grounded on original_source/src/builtins.c (cons, car, cdr,
// length) and src/list.c (append, list, reverse). set-car!/set-cdr!/
// list-tail/list-ref have no original_source counterpart; spec §4.9
// requires them regardless, implemented in the same idiom.
func registerPairs(e *value.Value) {
	define(e, "cons", func(ctx *exec.Context, v *value.Value) *value.Value {
		a := requireArity(ctx, "cons", v, 2)
		return value.NewPair(a[0], a[1])
	})

	define(e, "car", func(ctx *exec.Context, v *value.Value) *value.Value {
		a := requireArity(ctx, "car", v, 1)
		p := a[0]
		if !p.IsPair() {
			ctx.Assert(lisperrors.TypeMismatch("car", "pair", p.Tag.String()))
		}
		return p.Car
	})

	define(e, "cdr", func(ctx *exec.Context, v *value.Value) *value.Value {
		a := requireArity(ctx, "cdr", v, 1)
		p := a[0]
		if !p.IsPair() {
			ctx.Assert(lisperrors.TypeMismatch("cdr", "pair", p.Tag.String()))
		}
		return p.Cdr
	})

	define(e, "set-car!", func(ctx *exec.Context, v *value.Value) *value.Value {
		a := requireArity(ctx, "set-car!", v, 2)
		p := requirePair(ctx, "set-car!", a[0])
		p.Car = a[1]
		return value.Null
	})

	define(e, "set-cdr!", func(ctx *exec.Context, v *value.Value) *value.Value {
		a := requireArity(ctx, "set-cdr!", v, 2)
		p := requirePair(ctx, "set-cdr!", a[0])
		p.Cdr = a[1]
		return value.Null
	})

	define(e, "length", func(ctx *exec.Context, v *value.Value) *value.Value {
		a := requireArity(ctx, "length", v, 1)
		n := value.Length(a[0])
		if n < 0 {
			ctx.Assert(lisperrors.TypeMismatch("length", "list", "improper list"))
		}
		return value.NewNumber(numeric.NewIntFromInt64(int64(n)))
	})

	define(e, "list", func(ctx *exec.Context, v *value.Value) *value.Value {
		return v
	})

	define(e, "append", func(ctx *exec.Context, v *value.Value) *value.Value {
		a := requireArityAtLeast(ctx, "append", v, 1)
		return value.Append(a...)
	})

	define(e, "reverse", func(ctx *exec.Context, v *value.Value) *value.Value {
		a := requireArity(ctx, "reverse", v, 1)
		elems := requireProperList(ctx, "reverse", a[0])
		return value.Reverse(value.List(elems...))
	})

	define(e, "list-tail", func(ctx *exec.Context, v *value.Value) *value.Value {
		a := requireArity(ctx, "list-tail", v, 2)
		n := requireIndex(ctx, "list-tail", a[1])
		rest := value.Nth(a[0], n)
		if rest == nil {
			ctx.Assert(lisperrors.Newf(lisperrors.KindType, "list-tail: index out of range"))
		}
		return rest
	})

	define(e, "list-ref", func(ctx *exec.Context, v *value.Value) *value.Value {
		a := requireArity(ctx, "list-ref", v, 2)
		n := requireIndex(ctx, "list-ref", a[1])
		rest := value.Nth(a[0], n)
		if rest == nil || !rest.IsPair() {
			ctx.Assert(lisperrors.Newf(lisperrors.KindType, "list-ref: index out of range"))
		}
		return rest.Car
	})
}

// requireIndex extracts a non-negative machine int from a number value for
// the list-tail/list-ref index argument.
func requireIndex(ctx *exec.Context, name string, v *value.Value) int {
	n := requireNumber(ctx, name, v)
	if n.Num.Kind != numeric.KindInt {
		ctx.Assert(lisperrors.TypeMismatch(name, "integer", n.Num.Kind.String()))
	}
	i := n.Num.I.Int64()
	if i < 0 {
		ctx.Assert(lisperrors.Newf(lisperrors.KindType, "%s: negative index", name))
	}
	return int(i)
}
