package prims

import (
	"github.com/pedde-lisp/r5scheme/internal/exec"
	"github.com/pedde-lisp/r5scheme/internal/numeric"
	"github.com/pedde-lisp/r5scheme/internal/value"
)

// registerChar installs the character comparison set spec §4.9 names,
// grounded on original_source/src/char.c's c_charcomp dispatch (one
// comparator shared by all five operators), plus char->integer grounded on
// primitives.c's p_char_integer.
func registerChar(e *value.Value) {
	define(e, "char=?", charCompare("char=?", func(a, b byte) bool { return a == b }))
	define(e, "char<?", charCompare("char<?", func(a, b byte) bool { return a < b }))
	define(e, "char>?", charCompare("char>?", func(a, b byte) bool { return a > b }))
	define(e, "char<=?", charCompare("char<=?", func(a, b byte) bool { return a <= b }))
	define(e, "char>=?", charCompare("char>=?", func(a, b byte) bool { return a >= b }))

	define(e, "char->integer", func(ctx *exec.Context, v *value.Value) *value.Value {
		a := requireArity(ctx, "char->integer", v, 1)
		c := requireChar(ctx, "char->integer", a[0])
		return value.NewNumber(numeric.NewIntFromInt64(int64(c.Char)))
	})
}

func charCompare(name string, pred func(a, b byte) bool) exec.Native {
	return func(ctx *exec.Context, v *value.Value) *value.Value {
		a := requireArity(ctx, name, v, 2)
		c0 := requireChar(ctx, name, a[0])
		c1 := requireChar(ctx, name, a[1])
		return boolVal(pred(c0.Char, c1.Char))
	}
}
