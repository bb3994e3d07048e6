package prims

import (
	"github.com/pedde-lisp/r5scheme/internal/exec"
	"github.com/pedde-lisp/r5scheme/internal/lisperrors"
	"github.com/pedde-lisp/r5scheme/internal/numeric"
	"github.com/pedde-lisp/r5scheme/internal/value"
)

// registerNumeric installs the arithmetic/comparison surface spec §4.9
// names, grounded on original_source/src/math.c's accum_op pattern (+/-
// seed exact 0, */÷ seed exact 1, -/÷ re-seed with the first operand and
// require at least one argument). quotient/remainder/modulo/floor/ceiling/
// truncate/round are placeholders in the original (spec §4.9 "permitted to
// error with not-implemented"); this engine gives them real R5RS semantics
// via internal/numeric instead of leaving them stubbed.
func registerNumeric(e *value.Value) {
	define(e, "+", variadicOp("+", numeric.Sum))
	define(e, "*", variadicOp("*", numeric.Product))

	define(e, "-", func(ctx *exec.Context, v *value.Value) *value.Value {
		a := requireArityAtLeast(ctx, "-", v, 1)
		return value.NewNumber(numeric.Difference(toNumbers(ctx, "-", a)))
	})

	define(e, "/", func(ctx *exec.Context, v *value.Value) *value.Value {
		a := requireArityAtLeast(ctx, "/", v, 1)
		result, err := numeric.Quotient(toNumbers(ctx, "/", a))
		if err != nil {
			ctx.Assert(lisperrors.DivByZero("/"))
		}
		return value.NewNumber(result)
	})

	define(e, "=", comparison("=", func(c int) bool { return c == 0 }))
	define(e, "<", comparison("<", func(c int) bool { return c < 0 }))
	define(e, ">", comparison(">", func(c int) bool { return c > 0 }))
	define(e, "<=", comparison("<=", func(c int) bool { return c <= 0 }))
	define(e, ">=", comparison(">=", func(c int) bool { return c >= 0 }))

	define(e, "quotient", binaryDivOp("quotient", numeric.QuotientOp))
	define(e, "remainder", binaryDivOp("remainder", numeric.RemainderOp))
	define(e, "modulo", binaryDivOp("modulo", numeric.ModuloOp))

	define(e, "floor", unaryNumOp("floor", numeric.Floor))
	define(e, "ceiling", unaryNumOp("ceiling", numeric.Ceiling))
	define(e, "truncate", unaryNumOp("truncate", numeric.Truncate))
	define(e, "round", unaryNumOp("round", numeric.Round))
}

func toNumbers(ctx *exec.Context, name string, elems []*value.Value) []*numeric.Number {
	nums := make([]*numeric.Number, len(elems))
	for i, el := range elems {
		nums[i] = requireNumber(ctx, name, el).Num
	}
	return nums
}

func variadicOp(name string, fn func([]*numeric.Number) *numeric.Number) exec.Native {
	return func(ctx *exec.Context, v *value.Value) *value.Value {
		a := args(ctx, name, v)
		return value.NewNumber(fn(toNumbers(ctx, name, a)))
	}
}

// comparison enforces spec §4.3's "exactly two operands" rule, matching
// original_source/src/math.c's comp_op, which raises le_arity on any count
// other than two rather than folding across a variadic list.
func comparison(name string, pred func(int) bool) exec.Native {
	return func(ctx *exec.Context, v *value.Value) *value.Value {
		a := requireArity(ctx, name, v, 2)
		nums := toNumbers(ctx, name, a)
		return boolVal(pred(numeric.Compare(nums[0], nums[1])))
	}
}

func binaryDivOp(name string, fn func(a, b *numeric.Number) (*numeric.Number, error)) exec.Native {
	return func(ctx *exec.Context, v *value.Value) *value.Value {
		a := requireArity(ctx, name, v, 2)
		result, err := fn(requireNumber(ctx, name, a[0]).Num, requireNumber(ctx, name, a[1]).Num)
		if err != nil {
			ctx.Assert(lisperrors.Wrap(lisperrors.KindDiv, name+": invalid operands", err))
		}
		return value.NewNumber(result)
	}
}

func unaryNumOp(name string, fn func(*numeric.Number) *numeric.Number) exec.Native {
	return func(ctx *exec.Context, v *value.Value) *value.Value {
		a := requireArity(ctx, name, v, 1)
		return value.NewNumber(fn(requireNumber(ctx, name, a[0]).Num))
	}
}
