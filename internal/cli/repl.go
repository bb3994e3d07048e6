// Package cli wires the cobra root command, REPL loop, file watching, and
// session snapshotting together. The REPL loop itself is a line-for-line
// port of original_source/src/main.c's repl(): the "%d:%d> " prompt
// (level:line), the read/eval/print-as-$N cycle, blank-line skip, and
// continue-past-error behavior all come straight from there.
package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/pedde-lisp/r5scheme/internal/exec"
	"github.com/pedde-lisp/r5scheme/internal/lexer"
	"github.com/pedde-lisp/r5scheme/internal/lisperrors"
	"github.com/pedde-lisp/r5scheme/internal/ports"
	"github.com/pedde-lisp/r5scheme/internal/reader"
	"github.com/pedde-lisp/r5scheme/internal/value"

	"github.com/pedde-lisp/r5scheme/internal/env"
	"github.com/pedde-lisp/r5scheme/internal/eval"
)

// REPL runs the read-eval-print loop over in, writing results to out; prompts
// are written only when Interactive is true.
type REPL struct {
	Ctx         *exec.Context
	Level       int
	Interactive bool
}

// NewREPL builds a REPL rooted at ctx's environment, starting at level 0
// (original_source's repl(0) top-level call).
func NewREPL(ctx *exec.Context) *REPL {
	return &REPL{Ctx: ctx, Level: 0}
}

// Run drives one REPL session to completion (EOF on in), mirroring
// original_source/src/main.c's repl() loop: prompt, read one line, skip it
// if blank, parse it, continue past a parse/exec error, otherwise bind the
// non-null result to $N and print it.
func (r *REPL) Run(in io.Reader, out io.Writer) {
	scanner := bufio.NewScanner(in)
	line := 1

	for {
		if r.Interactive {
			fmt.Fprintf(out, "%d:%d> ", r.Level, line)
		}
		if !scanner.Scan() {
			if r.Interactive {
				fmt.Fprintln(out)
			}
			return
		}
		cmd := scanner.Text()
		if strings.TrimSpace(cmd) == "" {
			continue
		}

		result, ok := r.evalLine(cmd, line, out)
		if !ok {
			line++
			continue
		}
		if result != nil && !result.IsNull() {
			symName := fmt.Sprintf("$%d", line)
			env.Define(r.Ctx.Env, value.NewSymbol(symName), result)
			fmt.Fprintf(out, "%s = %s\n", symName, value.FormatValue(result))
		}
		line++
	}
}

// evalLine parses and evaluates one line, reporting (nil, false) on a
// parse or evaluation error after emitting it through r.Ctx.EmitOnError —
// the loop continues to the next line exactly as the original's repl()
// does on `l_err`/a caught exception.
func (r *REPL) evalLine(cmd string, line int, out io.Writer) (*value.Value, bool) {
	name := fmt.Sprintf("<repl:%d>", line)
	rd := reader.New(lexer.New(ports.NewStringInput(cmd), name))
	form, rerr := rd.Read()
	if rerr != nil {
		r.Ctx.EmitOnError(r.Ctx, rerr)
		return nil, false
	}
	if form.Tag == value.TagErr && form.ErrKind == "eof" {
		return nil, false
	}

	var result *value.Value
	err := exec.Catch(func() { result = eval.Eval(r.Ctx, form) })
	if err != nil {
		r.Ctx.EmitOnError(r.Ctx, err)
		return nil, false
	}
	return result, true
}

// RunFile parses and evaluates every top-level form in src in order,
// stopping at the first error (spec §6's non-interactive `-f FILE` mode —
// there is no next line to continue to, unlike the REPL).
func RunFile(ctx *exec.Context, src string, file string) *lisperrors.Error {
	forms, rerr := reader.ParsePort(ports.NewStringInput(src), file)
	if rerr != nil {
		return rerr
	}
	var caught *lisperrors.Error
	for _, form := range forms {
		err := exec.Catch(func() { eval.Eval(ctx, form) })
		if err != nil {
			caught = err
			break
		}
	}
	return caught
}
