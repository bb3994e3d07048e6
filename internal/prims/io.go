package prims

import (
	"os"
	"strings"

	"github.com/pedde-lisp/r5scheme/internal/exec"
	"github.com/pedde-lisp/r5scheme/internal/lexer"
	"github.com/pedde-lisp/r5scheme/internal/lisperrors"
	"github.com/pedde-lisp/r5scheme/internal/ports"
	"github.com/pedde-lisp/r5scheme/internal/reader"
	"github.com/pedde-lisp/r5scheme/internal/value"
)

// registerIO installs the port/IO primitives spec §4.9 names, grounded on
// original_source/src/ports.c's c_open_file/p_read_char/p_peek_char/
// p_close_*_port and src/builtins.c's p_display. open-input-file's
// O_RDONLY-only mode is widened to O_WRONLY|O_CREATE|O_TRUNC for
// open-output-file, since Go's os.OpenFile has no implicit create-on-write
// the way the original's raw open(2) call assumed away.
func registerIO(e *value.Value) {
	define(e, "open-input-file", func(ctx *exec.Context, v *value.Value) *value.Value {
		a := requireArity(ctx, "open-input-file", v, 1)
		name := requireString(ctx, "open-input-file", a[0]).Str
		f, err := os.Open(name)
		if err != nil {
			ctx.Assert(lisperrors.Wrap(lisperrors.KindSystem, "open-input-file", err))
		}
		return value.NewPortValue(ports.NewFileInput(name, f))
	})

	define(e, "open-output-file", func(ctx *exec.Context, v *value.Value) *value.Value {
		a := requireArity(ctx, "open-output-file", v, 1)
		name := requireString(ctx, "open-output-file", a[0]).Str
		f, err := os.OpenFile(name, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
		if err != nil {
			ctx.Assert(lisperrors.Wrap(lisperrors.KindSystem, "open-output-file", err))
		}
		return value.NewPortValue(ports.NewFileOutput(name, f))
	})

	define(e, "open-input-string", func(ctx *exec.Context, v *value.Value) *value.Value {
		a := requireArity(ctx, "open-input-string", v, 1)
		s := requireString(ctx, "open-input-string", a[0]).Str
		return value.NewPortValue(ports.NewStringInput(s))
	})

	define(e, "open-output-string", func(ctx *exec.Context, v *value.Value) *value.Value {
		requireArity(ctx, "open-output-string", v, 0)
		return value.NewPortValue(ports.NewStringOutput())
	})

	define(e, "get-output-string", func(ctx *exec.Context, v *value.Value) *value.Value {
		a := requireArity(ctx, "get-output-string", v, 1)
		p := requireOutputPort(ctx, "get-output-string", a[0])
		return value.NewString(p.PortVal.String())
	})

	define(e, "close-input-port", closePort("close-input-port", true))
	define(e, "close-output-port", closePort("close-output-port", false))

	define(e, "read-char", func(ctx *exec.Context, v *value.Value) *value.Value {
		a := requireArity(ctx, "read-char", v, 1)
		p := requireInputPort(ctx, "read-char", a[0])
		c, ok, err := p.PortVal.ReadChar()
		if !ok || err != nil {
			return value.Null
		}
		return value.NewChar(c)
	})

	define(e, "peek-char", func(ctx *exec.Context, v *value.Value) *value.Value {
		a := requireArity(ctx, "peek-char", v, 1)
		p := requireInputPort(ctx, "peek-char", a[0])
		c, ok, err := p.PortVal.PeekChar()
		if !ok || err != nil {
			return value.Null
		}
		return value.NewChar(c)
	})

	define(e, "read", func(ctx *exec.Context, v *value.Value) *value.Value {
		a := requireArity(ctx, "read", v, 1)
		p := requireInputPort(ctx, "read", a[0])
		rd := reader.New(lexer.New(p.PortVal, p.PortVal.String()))
		result, rerr := rd.Read()
		if rerr != nil {
			ctx.Assert(rerr)
		}
		return result
	})

	define(e, "display", func(ctx *exec.Context, v *value.Value) *value.Value {
		a := args(ctx, "display", v)
		if len(a) < 1 || len(a) > 2 {
			ctx.Assert(lisperrors.Arity("display", 1, len(a)))
		}
		s := value.DisplayValue(a[0])
		if len(a) == 2 {
			writeToPort(ctx, "display", a[1], s)
			return value.Null
		}
		os.Stdout.WriteString(s)
		return value.Null
	})

	define(e, "write-char", func(ctx *exec.Context, v *value.Value) *value.Value {
		a := args(ctx, "write-char", v)
		if len(a) < 1 || len(a) > 2 {
			ctx.Assert(lisperrors.Arity("write-char", 1, len(a)))
		}
		c := requireChar(ctx, "write-char", a[0])
		if len(a) == 2 {
			writeToPort(ctx, "write-char", a[1], string(c.Char))
			return value.Null
		}
		os.Stdout.WriteByte(c.Char)
		return value.Null
	})

	define(e, "format", func(ctx *exec.Context, v *value.Value) *value.Value {
		a := requireArityAtLeast(ctx, "format", v, 1)
		format := requireString(ctx, "format", a[0]).Str
		return value.NewString(formatString(ctx, format, a[1:]))
	})
}

func closePort(name string, input bool) exec.Native {
	return func(ctx *exec.Context, v *value.Value) *value.Value {
		a := requireArity(ctx, name, v, 1)
		p := requirePort(ctx, name, a[0])
		if input && !p.PortVal.IsInput() {
			ctx.Assert(lisperrors.TypeMismatch(name, "input port", "output port"))
		}
		if !input && !p.PortVal.IsOutput() {
			ctx.Assert(lisperrors.TypeMismatch(name, "output port", "input port"))
		}
		if err := p.PortVal.Close(); err != nil {
			ctx.Assert(lisperrors.Wrap(lisperrors.KindSystem, name, err))
		}
		return value.Null
	}
}

func requireInputPort(ctx *exec.Context, name string, v *value.Value) *value.Value {
	p := requirePort(ctx, name, v)
	if !p.PortVal.IsInput() {
		ctx.Assert(lisperrors.TypeMismatch(name, "input port", "output port"))
	}
	return p
}

func requireOutputPort(ctx *exec.Context, name string, v *value.Value) *value.Value {
	p := requirePort(ctx, name, v)
	if !p.PortVal.IsOutput() {
		ctx.Assert(lisperrors.TypeMismatch(name, "output port", "input port"))
	}
	return p
}

// writeToPort sends s to the given port argument, used by display and
// write-char's optional second-argument form (spec §4.4's port-directed
// write operations).
func writeToPort(ctx *exec.Context, name string, portArg *value.Value, s string) {
	p := requireOutputPort(ctx, name, portArg)
	if err := p.PortVal.WriteString(s); err != nil {
		ctx.Assert(lisperrors.Wrap(lisperrors.KindSystem, name, err))
	}
}

// formatString implements spec §4.9's `format` directive set: ~A/~S
// substitute the next argument (display vs. write form), ~~ is a literal
// tilde, ~% a newline. Extra or missing arguments fail with `arity`,
// matching original_source/src/builtins.c's p_format two-pass length-then-
// fill approach reworked as a single strings.Builder pass.
func formatString(ctx *exec.Context, format string, rest []*value.Value) string {
	var b strings.Builder
	argIdx := 0
	nextArg := func() *value.Value {
		if argIdx >= len(rest) {
			ctx.Assert(lisperrors.ArityAtLeast("format", argIdx+1, len(rest)))
		}
		a := rest[argIdx]
		argIdx++
		return a
	}

	for i := 0; i < len(format); i++ {
		c := format[i]
		if c != '~' {
			b.WriteByte(c)
			continue
		}
		i++
		if i >= len(format) {
			ctx.Assert(lisperrors.New(lisperrors.KindSyntax, "format: trailing ~"))
		}
		switch format[i] {
		case 'A', 'a':
			b.WriteString(value.DisplayValue(nextArg()))
		case 'S', 's':
			b.WriteString(value.FormatValue(nextArg()))
		case '~':
			b.WriteByte('~')
		case '%':
			b.WriteByte('\n')
		default:
			ctx.Assert(lisperrors.Newf(lisperrors.KindSyntax, "format: bad directive ~%c", format[i]))
		}
	}

	if argIdx != len(rest) {
		ctx.Assert(lisperrors.Arity("format", argIdx, len(rest)))
	}
	return b.String()
}
