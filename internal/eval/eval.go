// Package eval implements the tree-walking evaluator spec §4.7/§4.8
// describe: Eval/Apply, the closed set of special forms, closure and macro
// application, and quasiquote expansion. Retargeted from the teacher's
// runtime/execution/evaluator.go dispatch-by-node-kind style
// (EvaluateNode's type switch over ir.Node) to a dispatch-by-head-symbol
// switch over S-expressions.
package eval

import (
	"github.com/pedde-lisp/r5scheme/internal/env"
	"github.com/pedde-lisp/r5scheme/internal/exec"
	"github.com/pedde-lisp/r5scheme/internal/lisperrors"
	"github.com/pedde-lisp/r5scheme/internal/suggest"
	"github.com/pedde-lisp/r5scheme/internal/value"
)

// specialForms is the closed set spec §4.7 names, checked by symbol
// equality on a pair's head before falling through to application.
var specialForms = map[string]bool{
	"quote": true, "define": true, "lambda": true, "defmacro": true,
	"begin": true, "if": true, "let": true, "let*": true, "quasiquote": true,
}

// Eval implements eval(exec, v), applied in the order spec §4.7 lists:
// symbol lookup, atom self-evaluation, special-form dispatch, then
// application.
func Eval(ctx *exec.Context, v *value.Value) *value.Value {
	if v.Tag == value.TagSymbol {
		bound, ok := env.Lookup(ctx.Env, v)
		if !ok {
			err := suggest.Annotate(lisperrors.Unbound(v.Sym), v.Sym, ctx.Env).
				WithPosition(v.File, v.Row, v.Col)
			ctx.Assert(err)
		}
		return bound
	}
	if !v.IsPair() {
		return v
	}

	head := v.Car
	if head.Tag == value.TagSymbol && specialForms[head.Sym] {
		return evalSpecialForm(ctx, head.Sym, v.Cdr)
	}

	fn := Eval(ctx, head)
	args := evalList(ctx, v.Cdr)
	return Apply(ctx, fn, args)
}

// evalList evaluates every element of a proper argument list in order
// (spec §4.7's "map(eval, v)" over the tail of an application form).
func evalList(ctx *exec.Context, v *value.Value) *value.Value {
	elems, proper := value.ToSlice(v)
	if !proper {
		ctx.Assert(lisperrors.New(lisperrors.KindSyntax, "improper argument list"))
	}
	evaled := make([]*value.Value, len(elems))
	for i, e := range elems {
		evaled[i] = Eval(ctx, e)
	}
	return value.List(evaled...)
}

func evalSpecialForm(ctx *exec.Context, head string, rest *value.Value) *value.Value {
	switch head {
	case "quote":
		args := requireArity(ctx, "quote", rest, 1)
		return args[0]
	case "define":
		return evalDefine(ctx, rest)
	case "lambda":
		return evalLambda(ctx, rest)
	case "defmacro":
		return evalDefmacro(ctx, rest)
	case "begin":
		return evalBegin(ctx, rest)
	case "if":
		return evalIf(ctx, rest)
	case "let":
		return evalLet(ctx, rest, false)
	case "let*":
		return evalLet(ctx, rest, true)
	case "quasiquote":
		args := requireArity(ctx, "quasiquote", rest, 1)
		return Quasiquote(ctx, args[0], 1)
	default:
		ctx.Assert(lisperrors.Newf(lisperrors.KindInternal, "unhandled special form: %s", head))
		return nil
	}
}

func requireArity(ctx *exec.Context, name string, v *value.Value, n int) []*value.Value {
	elems, proper := value.ToSlice(v)
	if !proper || len(elems) != n {
		ctx.Assert(lisperrors.Arity(name, n, len(elems)))
	}
	return elems
}

// evalDefine implements `define sym e` (spec §4.7), plus the
// function-definition shorthand spec §8's E6 scenario exercises:
// `(define (name . formals) body)` desugars to `(define name (lambda
// formals body))` before the ordinary path runs. original_source's
// lisp_define only ever takes a bare symbol; the shorthand is a Scheme
// surface-syntax convenience layered on top, not a second special form.
func evalDefine(ctx *exec.Context, rest *value.Value) *value.Value {
	args := requireArity(ctx, "define", rest, 2)
	target, body := args[0], args[1]

	if target.IsPair() {
		name := target.Car
		if name.Tag != value.TagSymbol {
			ctx.Assert(lisperrors.TypeMismatch("define", "symbol", name.Tag.String()))
		}
		lambda := value.NewLambda(target.Cdr, body, ctx.Env)
		lambda.Fn.Name = name.Sym
		env.Define(ctx.Env, name, lambda)
		return value.Null
	}

	if target.Tag != value.TagSymbol {
		ctx.Assert(lisperrors.TypeMismatch("define", "symbol", target.Tag.String()))
	}
	result := Eval(ctx, body)
	if result.Tag == value.TagFn && result.Fn.Name == "" {
		result.Fn.Name = target.Sym
	}
	env.Define(ctx.Env, target, result)
	return value.Null
}

func evalLambda(ctx *exec.Context, rest *value.Value) *value.Value {
	args := requireArity(ctx, "lambda", rest, 2)
	return value.NewLambda(args[0], args[1], ctx.Env)
}

func evalDefmacro(ctx *exec.Context, rest *value.Value) *value.Value {
	args := requireArity(ctx, "defmacro", rest, 3)
	name, formals, body := args[0], args[1], args[2]
	if name.Tag != value.TagSymbol {
		ctx.Assert(lisperrors.TypeMismatch("defmacro", "symbol", name.Tag.String()))
	}
	m := value.NewMacro(formals, body, ctx.Env)
	env.Define(ctx.Env, name, m)
	return value.Null
}

func evalBegin(ctx *exec.Context, rest *value.Value) *value.Value {
	elems, proper := value.ToSlice(rest)
	if !proper || len(elems) < 1 {
		ctx.Assert(lisperrors.ArityAtLeast("begin", 1, len(elems)))
	}
	var result *value.Value
	for _, e := range elems {
		result = Eval(ctx, e)
	}
	return result
}

func evalIf(ctx *exec.Context, rest *value.Value) *value.Value {
	args := requireArity(ctx, "if", rest, 3)
	cond := Eval(ctx, args[0])
	if cond.IsTrue() {
		return Eval(ctx, args[1])
	}
	return Eval(ctx, args[2])
}

// evalLet implements both let and let* (spec §4.7): let evaluates every
// binding's initializer in the enclosing environment before any binding is
// visible; let* evaluates each in an environment where the prior bindings
// of the same form are already visible.
func evalLet(ctx *exec.Context, rest *value.Value, star bool) *value.Value {
	args := requireArity(ctx, "let", rest, 2)
	bindings, proper := value.ToSlice(args[0])
	if !proper {
		ctx.Assert(lisperrors.TypeMismatch("let", "binding list", "improper list"))
	}

	newEnv := env.Push(ctx.Env)
	evalEnv := ctx.Env
	if star {
		evalEnv = newEnv
	}

	for _, b := range bindings {
		pair := requireArity(ctx, "let binding", b, 2)
		sym := pair[0]
		if sym.Tag != value.TagSymbol {
			ctx.Assert(lisperrors.TypeMismatch("let", "symbol", sym.Tag.String()))
		}
		prev := ctx.Env
		ctx.Env = evalEnv
		v := Eval(ctx, pair[1])
		ctx.Env = prev
		env.Define(newEnv, sym, v)
	}

	prev := ctx.PushEnv(newEnv)
	defer func() { ctx.Env = prev }()
	return Eval(ctx, args[1])
}

// Apply dispatches a function value against an already-evaluated argument
// list (spec §4.7's Apply rules).
func Apply(ctx *exec.Context, fn *value.Value, args *value.Value) *value.Value {
	if fn.Tag != value.TagFn {
		ctx.Assert(lisperrors.TypeMismatch("apply", "fn", fn.Tag.String()))
	}

	name := fn.Fn.Name
	ctx.PushFrame(exec.Frame{Name: name, File: fn.File, Row: fn.Row, Col: fn.Col})
	defer ctx.PopFrame()

	switch fn.Fn.Kind {
	case value.FnNative:
		native, ok := fn.Fn.Native.(exec.Native)
		if !ok {
			ctx.Assert(lisperrors.Newf(lisperrors.KindInternal, "%s: malformed native binding", name))
		}
		return native(ctx, args)
	case value.FnLambda:
		return applyLambda(ctx, fn, args)
	case value.FnMacro:
		return applyMacro(ctx, fn, args)
	default:
		ctx.Assert(lisperrors.Newf(lisperrors.KindInternal, "unknown fn kind"))
		return nil
	}
}

func applyLambda(ctx *exec.Context, fn *value.Value, args *value.Value) *value.Value {
	callEnv := env.Push(fn.Fn.Env)
	bindFormals(ctx, fn.Fn.Name, fn.Fn.Formals, args, callEnv)
	prev := ctx.PushEnv(callEnv)
	defer func() { ctx.Env = prev }()
	return Eval(ctx, fn.Fn.Body)
}

// applyMacro evaluates the macro body once to produce an expansion form,
// then evaluates that expansion under the same extended environment (spec
// §4.7: "macros are thus eager: the expansion happens at each call site").
func applyMacro(ctx *exec.Context, fn *value.Value, args *value.Value) *value.Value {
	callEnv := env.Push(fn.Fn.Env)
	bindFormals(ctx, fn.Fn.Name, fn.Fn.Formals, args, callEnv)
	prev := ctx.PushEnv(callEnv)
	expansion := Eval(ctx, fn.Fn.Body)
	result := Eval(ctx, expansion)
	ctx.Env = prev
	return result
}

// bindFormals implements the three formal-list shapes spec §4.7 names: ()
// for zero args, a proper list for exact arity, and an improper list (or a
// bare symbol) to additionally capture the remaining args as a list.
func bindFormals(ctx *exec.Context, name string, formals, args *value.Value, dest *value.Value) {
	if formals.Tag == value.TagSymbol {
		env.Define(dest, formals, args)
		return
	}

	argElems, argsProper := value.ToSlice(args)
	if !argsProper {
		ctx.Assert(lisperrors.New(lisperrors.KindSyntax, "improper argument list"))
	}

	cur := formals
	i := 0
	for cur.IsPair() {
		if i >= len(argElems) {
			ctx.Assert(lisperrors.ArityAtLeast(name, i+1, len(argElems)))
		}
		env.Define(dest, cur.Car, argElems[i])
		i++
		cur = cur.Cdr
	}

	if cur.IsNull() {
		if i != len(argElems) {
			ctx.Assert(lisperrors.Arity(name, i, len(argElems)))
		}
		return
	}

	// dotted tail: cur is the rest-symbol, bound to any remaining args.
	env.Define(dest, cur, value.List(argElems[i:]...))
}
