// Package exec is the execution context spec §4.10 describes: a single
// mutable bundle carrying the current environment, an evaluation stack for
// backtraces, and the non-local-exit machinery `assert`/`warn` use.
//
// original_source/src/primitives.h models non-local exit with setjmp/longjmp
// (c_rt_assert/c_set_top_context across a jmp_buf); spec §9's design note
// says as much: "Do not rebuild call stacks with long-jumps in a safe
// language; use a result-carrying type or an exception mechanism." This
// package uses Go's panic/recover instead — Assert panics with a *Signal,
// and the nearest Catch recovers it, mirroring the teacher's own
// panic/recover use for unwinding nested evaluator calls in
// runtime/execution/evaluator.go.
package exec

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"golang.org/x/text/width"

	"github.com/pedde-lisp/r5scheme/internal/lisperrors"
	"github.com/pedde-lisp/r5scheme/internal/value"
)

// Native is the concrete type backing value.Fn.Native for kind FnNative.
// value.Fn.Native is typed `any` to avoid an exec<->value import cycle; this
// is the type the evaluator and primitive dispatch code assert it to at the
// call site.
type Native func(ctx *Context, args *value.Value) *value.Value

// Frame records one active call for backtrace purposes: the function
// applied and the source position carried by that function value (zero
// when the value has none), not the position of the call site.
type Frame struct {
	Name string // the called function's bound name, or "" if anonymous
	File string
	Row  int
	Col  int
}

// Signal is what Assert panics with; Catch recovers it and hands the
// carried *lisperrors.Error to the caller.
type Signal struct {
	Err *lisperrors.Error
}

// Context is the mutable per-session bundle the evaluator threads through
// every Eval/Apply call.
type Context struct {
	Env        *value.Value // current environment (frame chain head)
	EvalStack  []Frame      // active calls, innermost last
	Logger     *slog.Logger
	Debug      bool
	EmitOnError func(ctx *Context, err *lisperrors.Error)
}

// New builds a Context rooted at env, with a stderr text-handler logger at
// Info level (Debug raises it to Debug level), matching the teacher's
// lexer.New logger setup.
func New(env *value.Value) *Context {
	ctx := &Context{Env: env}
	ctx.Logger = newLogger(false)
	ctx.EmitOnError = DefaultEmit
	return ctx
}

// SetDebug toggles --debug logging level, matching the CLI flag of the same
// name.
func (c *Context) SetDebug(debug bool) {
	c.Debug = debug
	c.Logger = newLogger(debug)
}

func newLogger(debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// PushFrame records entry to a call for backtrace purposes (spec §4.10:
// "pushes the current function onto the evaluation stack on entry to
// apply, pops on exit").
func (c *Context) PushFrame(f Frame) {
	c.EvalStack = append(c.EvalStack, f)
}

// PopFrame removes the innermost call frame.
func (c *Context) PopFrame() {
	if len(c.EvalStack) > 0 {
		c.EvalStack = c.EvalStack[:len(c.EvalStack)-1]
	}
}

// PushEnv enters a new environment (closure/let application); the caller
// must restore c.Env (via the returned previous value) on exit.
func (c *Context) PushEnv(next *value.Value) (prev *value.Value) {
	prev = c.Env
	c.Env = next
	return prev
}

// Assert transfers control via panic to the nearest Catch (spec §5:
// "Cancellation = non-local exit ... transfers control to the most recent
// exception-handler frame"). assert and warn both go through this: spec §7
// says they "raise the same mechanism (with kinds raise/warn)".
func (c *Context) Assert(err *lisperrors.Error) {
	panic(Signal{Err: err})
}

// Catch runs fn, recovering any Signal panic it (or anything it calls)
// raises via Assert, and returns the carried error. It is the
// exception-handler frame spec §4.10 describes surrounding parse_port and
// the top-level execute with.
func Catch(fn func()) (err *lisperrors.Error) {
	defer func() {
		if r := recover(); r != nil {
			if sig, ok := r.(Signal); ok {
				err = sig.Err
				return
			}
			panic(r) // not ours: a genuine programming bug, let it propagate
		}
	}()
	fn()
	return nil
}

// DefaultEmit is the error-emit hook's default implementation: it formats a
// backtrace by walking the evaluation stack innermost-to-outermost (spec
// §4.10) and writes it to stderr.
func DefaultEmit(ctx *Context, err *lisperrors.Error) {
	fmt.Fprintf(os.Stderr, "error (%s): %s\n", err.Kind, err.Message)
	nameWidth := 0
	for _, f := range ctx.EvalStack {
		if w := displayWidth(frameName(f)); w > nameWidth {
			nameWidth = w
		}
	}
	for i := len(ctx.EvalStack) - 1; i >= 0; i-- {
		fmt.Fprintf(os.Stderr, "  %s\n", FormatFrame(ctx.EvalStack[i], nameWidth))
	}
}

func frameName(f Frame) string {
	if f.Name == "" {
		return "<anonymous>"
	}
	return f.Name
}

// displayWidth measures a frame name's terminal column width, accounting
// for wide (e.g. fullwidth/CJK) runes a byte-count would misjudge — bound
// names in user Scheme source are not restricted to ASCII.
func displayWidth(s string) int {
	n := 0
	for _, r := range s {
		switch width.LookupRune(r).Kind() {
		case width.EastAsianWide, width.EastAsianFullwidth:
			n += 2
		default:
			n++
		}
	}
	return n
}

// FormatFrame renders one backtrace line: the call's bound name (or
// "<anonymous>") padded to padTo display columns, and its source origin, or
// "built-in" when synthetic.
func FormatFrame(f Frame, padTo int) string {
	name := frameName(f)
	if pad := padTo - displayWidth(name); pad > 0 {
		name += strings.Repeat(" ", pad)
	}
	if f.File == "" {
		return fmt.Sprintf("%s (built-in)", name)
	}
	return fmt.Sprintf("%s (%s:%d:%d)", name, f.File, f.Row, f.Col)
}
