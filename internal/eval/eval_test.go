package eval

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pedde-lisp/r5scheme/internal/env"
	"github.com/pedde-lisp/r5scheme/internal/exec"
	"github.com/pedde-lisp/r5scheme/internal/lexer"
	"github.com/pedde-lisp/r5scheme/internal/numeric"
	"github.com/pedde-lisp/r5scheme/internal/ports"
	"github.com/pedde-lisp/r5scheme/internal/reader"
	"github.com/pedde-lisp/r5scheme/internal/value"
)

// newCtx builds a fresh execution context rooted at an empty environment,
// with a few arithmetic/list natives installed so evaluator-level tests can
// exercise application without pulling in the full primitive library.
func newCtx(t *testing.T) *exec.Context {
	t.Helper()
	e := env.New()
	ctx := exec.New(e)

	env.Define(e, value.NewSymbol("+"), value.NewNativeFn("+", exec.Native(
		func(ctx *exec.Context, args *value.Value) *value.Value {
			elems, _ := value.ToSlice(args)
			nums := make([]*numeric.Number, len(elems))
			for i, a := range elems {
				nums[i] = a.Num
			}
			return value.NewNumber(numeric.Sum(nums))
		})))
	env.Define(e, value.NewSymbol("*"), value.NewNativeFn("*", exec.Native(
		func(ctx *exec.Context, args *value.Value) *value.Value {
			elems, _ := value.ToSlice(args)
			nums := make([]*numeric.Number, len(elems))
			for i, a := range elems {
				nums[i] = a.Num
			}
			return value.NewNumber(numeric.Product(nums))
		})))
	env.Define(e, value.NewSymbol("-"), value.NewNativeFn("-", exec.Native(
		func(ctx *exec.Context, args *value.Value) *value.Value {
			elems, _ := value.ToSlice(args)
			nums := make([]*numeric.Number, len(elems))
			for i, a := range elems {
				nums[i] = a.Num
			}
			return value.NewNumber(numeric.Difference(nums))
		})))
	env.Define(e, value.NewSymbol("="), value.NewNativeFn("=", exec.Native(
		func(ctx *exec.Context, args *value.Value) *value.Value {
			elems, _ := value.ToSlice(args)
			return value.NewBool(numeric.Compare(elems[0].Num, elems[1].Num) == 0)
		})))
	env.Define(e, value.NewSymbol("list"), value.NewNativeFn("list", exec.Native(
		func(ctx *exec.Context, args *value.Value) *value.Value {
			return args
		})))
	env.Define(e, value.NewSymbol("length"), value.NewNativeFn("length", exec.Native(
		func(ctx *exec.Context, args *value.Value) *value.Value {
			elems, _ := value.ToSlice(args)
			n, _ := value.ToSlice(elems[0])
			return value.NewNumber(numeric.NewIntFromInt64(int64(len(n))))
		})))

	return ctx
}

func mustRead(t *testing.T, src string) *value.Value {
	t.Helper()
	rd := reader.New(lexer.New(ports.NewStringInput(src), "t.scm"))
	v, err := rd.Read()
	require.Nil(t, err)
	return v
}

func evalSrc(t *testing.T, ctx *exec.Context, src string) *value.Value {
	t.Helper()
	return Eval(ctx, mustRead(t, src))
}

func TestSelfEvaluatingAtoms(t *testing.T) {
	ctx := newCtx(t)
	assert.Equal(t, "42", value.FormatValue(evalSrc(t, ctx, "42")))
	assert.Equal(t, `"hi"`, value.FormatValue(evalSrc(t, ctx, `"hi"`)))
	assert.Equal(t, "#t", value.FormatValue(evalSrc(t, ctx, "#t")))
}

func TestQuoteReturnsUnevaluated(t *testing.T) {
	ctx := newCtx(t)
	v := evalSrc(t, ctx, "(quote (a b c))")
	assert.Equal(t, "(a b c)", value.FormatValue(v))
}

func TestUnboundSymbolRaisesLookupError(t *testing.T) {
	ctx := newCtx(t)
	err := exec.Catch(func() {
		evalSrc(t, ctx, "nope")
	})
	require.NotNil(t, err)
	assert.Equal(t, "lookup", string(err.Kind))
}

func TestDefineBareSymbolThenLookup(t *testing.T) {
	ctx := newCtx(t)
	evalSrc(t, ctx, "(define x 10)")
	v := evalSrc(t, ctx, "x")
	assert.Equal(t, "10", value.FormatValue(v))
}

func TestDefineFunctionShorthandDesugarsToLambda(t *testing.T) {
	// spec §8 E6: (define (fact n) ...) (fact 10) => 3628800
	ctx := newCtx(t)
	evalSrc(t, ctx, "(define (fact n) (if (= n 0) 1 (* n (fact (- n 1)))))")
	v := evalSrc(t, ctx, "(fact 10)")
	assert.Equal(t, "3628800", value.FormatValue(v))
}

func TestLambdaClosesOverDefiningEnvironment(t *testing.T) {
	ctx := newCtx(t)
	evalSrc(t, ctx, "(define x 5)")
	evalSrc(t, ctx, "(define addx (lambda (y) (+ x y)))")
	v := evalSrc(t, ctx, "(addx 3)")
	assert.Equal(t, "8", value.FormatValue(v))
}

func TestLambdaRestFormalsBindsTailAsList(t *testing.T) {
	// spec §8 E5: ((lambda (x . rest) (length rest)) 1 2 3 4) => 3
	ctx := newCtx(t)
	v := evalSrc(t, ctx, "((lambda (x . rest) (length rest)) 1 2 3 4)")
	assert.Equal(t, "3", value.FormatValue(v))
}

func TestLambdaBareSymbolFormalsBindsAllArgs(t *testing.T) {
	ctx := newCtx(t)
	v := evalSrc(t, ctx, "((lambda args (length args)) 1 2 3)")
	assert.Equal(t, "3", value.FormatValue(v))
}

func TestLambdaArityMismatchRaisesArityError(t *testing.T) {
	ctx := newCtx(t)
	evalSrc(t, ctx, "(define f (lambda (a b) a))")
	err := exec.Catch(func() {
		evalSrc(t, ctx, "(f 1)")
	})
	require.NotNil(t, err)
	assert.Equal(t, "arity", string(err.Kind))
}

func TestDefmacroExpandsAtCallSite(t *testing.T) {
	ctx := newCtx(t)
	evalSrc(t, ctx, "(defmacro twice (e) (list (quote +) e e))")
	v := evalSrc(t, ctx, "(twice 21)")
	assert.Equal(t, "42", value.FormatValue(v))
}

func TestBeginEvaluatesInOrderReturnsLast(t *testing.T) {
	ctx := newCtx(t)
	evalSrc(t, ctx, "(define x 1)")
	v := evalSrc(t, ctx, "(begin (define x 2) (define x 3) x)")
	assert.Equal(t, "3", value.FormatValue(v))
}

func TestIfTrueBranch(t *testing.T) {
	ctx := newCtx(t)
	assert.Equal(t, "1", value.FormatValue(evalSrc(t, ctx, "(if #t 1 2)")))
}

func TestIfFalseBranch(t *testing.T) {
	ctx := newCtx(t)
	assert.Equal(t, "2", value.FormatValue(evalSrc(t, ctx, "(if #f 1 2)")))
}

func TestIfOnlyFalseBooleanCountsAsFalse(t *testing.T) {
	// spec §4.7: only #f is false; () and 0 are truthy.
	ctx := newCtx(t)
	assert.Equal(t, "1", value.FormatValue(evalSrc(t, ctx, "(if 0 1 2)")))
	assert.Equal(t, "1", value.FormatValue(evalSrc(t, ctx, "(if (quote ()) 1 2)")))
}

func TestLetBindsInParallelFromEnclosingEnv(t *testing.T) {
	// spec §8 E4: (let ((x 2) (y 3)) (* x y)) => 6
	ctx := newCtx(t)
	v := evalSrc(t, ctx, "(let ((x 2) (y 3)) (* x y))")
	assert.Equal(t, "6", value.FormatValue(v))
}

func TestLetDoesNotSeeItsOwnBindingsWhileEvaluatingInitializers(t *testing.T) {
	ctx := newCtx(t)
	evalSrc(t, ctx, "(define x 100)")
	v := evalSrc(t, ctx, "(let ((x 1) (y x)) y)")
	assert.Equal(t, "100", value.FormatValue(v))
}

func TestLetStarSeesPriorBindingsOfSameForm(t *testing.T) {
	ctx := newCtx(t)
	v := evalSrc(t, ctx, "(let* ((x 2) (y (* x 3))) y)")
	assert.Equal(t, "6", value.FormatValue(v))
}

func TestLetDoesNotLeakBindingsToEnclosingEnv(t *testing.T) {
	ctx := newCtx(t)
	evalSrc(t, ctx, "(let ((x 1)) x)")
	err := exec.Catch(func() {
		evalSrc(t, ctx, "x")
	})
	require.NotNil(t, err)
	assert.Equal(t, "lookup", string(err.Kind))
}

func TestQuasiquoteWithNoUnquoteIsLikeQuote(t *testing.T) {
	ctx := newCtx(t)
	v := evalSrc(t, ctx, "`(1 2 3)")
	assert.Equal(t, "(1 2 3)", value.FormatValue(v))
}

func TestQuasiquoteUnquoteSubstitutes(t *testing.T) {
	ctx := newCtx(t)
	evalSrc(t, ctx, "(define x 5)")
	v := evalSrc(t, ctx, "`(a ,x c)")
	assert.Equal(t, "(a 5 c)", value.FormatValue(v))
}

func TestQuasiquoteUnquoteSplicingFlattensListIntoPosition(t *testing.T) {
	// spec §8 E7-style scenario.
	ctx := newCtx(t)
	evalSrc(t, ctx, "(define xs (list 2 3))")
	v := evalSrc(t, ctx, "`(1 ,@xs 4)")
	assert.Equal(t, "(1 2 3 4)", value.FormatValue(v))
}

func TestQuasiquoteUnquoteInDottedTailPosition(t *testing.T) {
	ctx := newCtx(t)
	evalSrc(t, ctx, "(define x 9)")
	v := evalSrc(t, ctx, "`(1 . ,x)")
	assert.Equal(t, "(1 . 9)", value.FormatValue(v))
}

func TestApplyRejectsNonFunctionHead(t *testing.T) {
	ctx := newCtx(t)
	err := exec.Catch(func() {
		evalSrc(t, ctx, "(1 2 3)")
	})
	require.NotNil(t, err)
	assert.Equal(t, "type", string(err.Kind))
}

func TestNestedDefineInBeginWritesInnermostFrame(t *testing.T) {
	ctx := newCtx(t)
	v := evalSrc(t, ctx, "((lambda () (begin (define y 7) y)))")
	assert.Equal(t, "7", value.FormatValue(v))
}
