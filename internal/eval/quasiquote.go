package eval

import (
	"github.com/pedde-lisp/r5scheme/internal/exec"
	"github.com/pedde-lisp/r5scheme/internal/lisperrors"
	"github.com/pedde-lisp/r5scheme/internal/value"
)

// Quasiquote walks template t per spec §4.8: a non-pair is returned as-is;
// `(unquote e)` evaluates and returns e; any other pair recurses on car and
// cdr, splicing the elements of an `(unquote-splicing e)` car's list result
// into the result at that position. Recursing through cdr (rather than
// iterating elements and handling the tail separately) is what makes a
// dotted unquote like `` `(1 . ,x) `` fall through to the `(unquote e)` base
// case on the tail instead of being misread as a two-element list.
//
// Nested quasiquotation is explicitly not required (spec §4.8); this
// implementation supports one level only, per DESIGN.md's resolution of
// that open question — a nested quasiquote/unquote pair is treated as
// ordinary structure one level down rather than tracked by depth.
func Quasiquote(ctx *exec.Context, t *value.Value, depth int) *value.Value {
	if !t.IsPair() {
		return t
	}
	if isTagged(t, "unquote") {
		inner := requireArity(ctx, "unquote", t.Cdr, 1)
		return Eval(ctx, inner[0])
	}

	car, cdr := t.Car, t.Cdr
	cdrResult := Quasiquote(ctx, cdr, depth)

	if isTagged(car, "unquote-splicing") {
		inner := requireArity(ctx, "unquote-splicing", car.Cdr, 1)
		spliced := Eval(ctx, inner[0])
		sliceElems, proper := value.ToSlice(spliced)
		if !proper {
			ctx.Assert(lisperrors.TypeMismatch("unquote-splicing", "list", spliced.Tag.String()))
		}
		result := cdrResult
		for i := len(sliceElems) - 1; i >= 0; i-- {
			result = value.NewPair(sliceElems[i], result)
		}
		return result
	}

	return value.NewPair(Quasiquote(ctx, car, depth), cdrResult)
}

func isTagged(v *value.Value, sym string) bool {
	return v.IsPair() && v.Car.Tag == value.TagSymbol && v.Car.Sym == sym
}
