package prims

import (
	"fmt"
	"os"

	"github.com/pedde-lisp/r5scheme/internal/eval"
	"github.com/pedde-lisp/r5scheme/internal/exec"
	"github.com/pedde-lisp/r5scheme/internal/lisperrors"
	"github.com/pedde-lisp/r5scheme/internal/ports"
	"github.com/pedde-lisp/r5scheme/internal/reader"
	"github.com/pedde-lisp/r5scheme/internal/value"
)

var gensymCounter int

// registerReflect installs the reflection set spec §4.9 names. eval/apply/
// map are internal-only helpers in original_source/src/primitives.c
// (lisp_eval/lisp_apply/lisp_map, used to implement the evaluator itself,
// never registered in its native table); spec §4.9 requires them as
// user-visible primitives too, so they are exposed here wrapping the same
// semantics those internal functions implement. assert/inspect/load/gensym/
// warn follow original_source/src/builtins.c directly.
func registerReflect(e *value.Value) {
	define(e, "eval", func(ctx *exec.Context, v *value.Value) *value.Value {
		a := requireArity(ctx, "eval", v, 1)
		return eval.Eval(ctx, a[0])
	})

	define(e, "apply", func(ctx *exec.Context, v *value.Value) *value.Value {
		a := requireArity(ctx, "apply", v, 2)
		argList := requireProperList(ctx, "apply", a[1])
		return eval.Apply(ctx, a[0], value.List(argList...))
	})

	define(e, "map", func(ctx *exec.Context, v *value.Value) *value.Value {
		a := requireArity(ctx, "map", v, 2)
		fn := a[0]
		elems := requireProperList(ctx, "map", a[1])
		results := make([]*value.Value, len(elems))
		for i, el := range elems {
			results[i] = eval.Apply(ctx, fn, value.List(el))
		}
		return value.List(results...)
	})

	define(e, "assert", func(ctx *exec.Context, v *value.Value) *value.Value {
		a := requireArity(ctx, "assert", v, 1)
		if a[0].Tag != value.TagBool {
			ctx.Assert(lisperrors.TypeMismatch("assert", "bool", a[0].Tag.String()))
		}
		if !a[0].Bool {
			ctx.Assert(lisperrors.New(lisperrors.KindRaise, "assertion raised"))
		}
		return value.Null
	})

	define(e, "warn", func(ctx *exec.Context, v *value.Value) *value.Value {
		a := requireArity(ctx, "warn", v, 1)
		if a[0].Tag != value.TagBool {
			ctx.Assert(lisperrors.TypeMismatch("warn", "bool", a[0].Tag.String()))
		}
		if !a[0].Bool {
			ctx.Assert(lisperrors.New(lisperrors.KindWarn, "warning raised"))
		}
		return value.Null
	})

	define(e, "gensym", func(ctx *exec.Context, v *value.Value) *value.Value {
		requireArity(ctx, "gensym", v, 0)
		gensymCounter++
		return value.NewSymbol(fmt.Sprintf("<gensym-%05d>", gensymCounter))
	})

	define(e, "inspect", func(ctx *exec.Context, v *value.Value) *value.Value {
		a := requireArity(ctx, "inspect", v, 1)
		return value.NewString(inspect(a[0]))
	})

	define(e, "load", func(ctx *exec.Context, v *value.Value) *value.Value {
		a := requireArity(ctx, "load", v, 1)
		name := requireString(ctx, "load", a[0]).Str
		f, err := os.Open(name)
		if err != nil {
			ctx.Assert(lisperrors.Wrap(lisperrors.KindSystem, "load", err))
		}
		defer f.Close()

		forms, rerr := reader.ParsePort(ports.NewFileInput(name, f), name)
		if rerr != nil {
			ctx.Assert(rerr)
		}
		var result *value.Value = value.Null
		for _, form := range forms {
			result = eval.Eval(ctx, form)
		}
		return result
	})
}

// inspect renders the diagnostic string original_source/src/builtins.c's
// p_inspect builds: the tag name, source position (when not a built-in),
// and the bound name if the value was ever defined to one.
func inspect(v *value.Value) string {
	s := "type: " + v.Tag.String()
	showPos := true
	if v.Tag == value.TagFn && v.Fn.Kind == value.FnNative {
		s = "type: built-in function"
		showPos = false
	}
	if showPos && v.File != "" {
		s += fmt.Sprintf(" %s:%d:%d", v.File, v.Row, v.Col)
	}
	if v.Bound != nil {
		s += ", bound to: " + v.Bound.Sym
	}
	return s
}
