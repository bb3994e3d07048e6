package prims

import (
	"github.com/pedde-lisp/r5scheme/internal/exec"
	"github.com/pedde-lisp/r5scheme/internal/numeric"
	"github.com/pedde-lisp/r5scheme/internal/value"
)

// registerPredicates installs the type-predicate set spec §4.9 names,
// grounded on original_source/src/builtins.c's s_is_type helper and its
// per-type p_*p wrappers.
func registerPredicates(e *value.Value) {
	define(e, "null?", tagPredicate("null?", value.TagNull))
	define(e, "symbol?", tagPredicate("symbol?", value.TagSymbol))
	define(e, "pair?", tagPredicate("pair?", value.TagPair))
	define(e, "cons?", tagPredicate("cons?", value.TagPair))
	define(e, "char?", tagPredicate("char?", value.TagChar))
	define(e, "input-port?", portPredicate("input-port?", true))
	define(e, "output-port?", portPredicate("output-port?", false))

	define(e, "atom?", func(ctx *exec.Context, v *value.Value) *value.Value {
		a := requireArity(ctx, "atom?", v, 1)
		return boolVal(!a[0].IsPair())
	})

	define(e, "list?", func(ctx *exec.Context, v *value.Value) *value.Value {
		a := requireArity(ctx, "list?", v, 1)
		return boolVal(a[0].IsPair() || a[0].IsNull())
	})

	define(e, "not", func(ctx *exec.Context, v *value.Value) *value.Value {
		a := requireArity(ctx, "not", v, 1)
		return boolVal(!a[0].IsTrue())
	})

	define(e, "equal?", func(ctx *exec.Context, v *value.Value) *value.Value {
		a := requireArity(ctx, "equal?", v, 2)
		return boolVal(value.Equal(a[0], a[1]))
	})

	define(e, "integer?", numPredicate("integer?", func(n *numeric.Number) bool {
		return n.Kind == numeric.KindInt
	}))
	define(e, "rational?", numPredicate("rational?", func(n *numeric.Number) bool {
		return n.Kind == numeric.KindInt || n.Kind == numeric.KindRational
	}))
	define(e, "float?", numPredicate("float?", func(n *numeric.Number) bool {
		return n.Kind == numeric.KindFloat
	}))
	define(e, "exact?", numPredicate("exact?", func(n *numeric.Number) bool {
		return n.Exact()
	}))
	define(e, "inexact?", numPredicate("inexact?", func(n *numeric.Number) bool {
		return !n.Exact()
	}))
}

func tagPredicate(name string, tag value.Tag) exec.Native {
	return func(ctx *exec.Context, v *value.Value) *value.Value {
		a := requireArity(ctx, name, v, 1)
		return boolVal(a[0].Tag == tag)
	}
}

func portPredicate(name string, input bool) exec.Native {
	return func(ctx *exec.Context, v *value.Value) *value.Value {
		a := requireArity(ctx, name, v, 1)
		if a[0].Tag != value.TagPort {
			return boolVal(false)
		}
		if input {
			return boolVal(a[0].PortVal.IsInput())
		}
		return boolVal(a[0].PortVal.IsOutput())
	}
}

// numPredicate builds a predicate that is false (not a type error) on a
// non-number argument — spec §4.9 lists these alongside the other type
// predicates, which are total over every tag.
func numPredicate(name string, pred func(*numeric.Number) bool) exec.Native {
	return func(ctx *exec.Context, v *value.Value) *value.Value {
		a := requireArity(ctx, name, v, 1)
		if a[0].Tag != value.TagNumber {
			return boolVal(false)
		}
		return boolVal(pred(a[0].Num))
	}
}
