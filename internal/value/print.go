package value

import (
	"fmt"
	"strings"
)

// charNames is the reverse of the reader's #\NAME table, looked up by
// CharName. FormatValue does not consult it: every character prints as
// #\xHH. Display (not Format) prints the raw byte instead; see DisplayValue.
var charNames = map[byte]string{
	0: "nul", 7: "bel", 8: "backspace", 9: "tab", 10: "newline",
	12: "page", 13: "return", 27: "altmode", 32: "space", 127: "del",
}

// FormatValue renders v the way the reader could re-read it (spec §6):
// strings quoted and escaped, chars as #\xHH, pairs as "(a b c)" or
// "(a b . c)", functions/ports as "<kind@ADDR>". Cycles are guarded with a
// seen-set; behavior on a cyclic structure terminates but does not attempt
// to print a finite approximation (spec §3's "behavior on cycles is
// unspecified").
func FormatValue(v *Value) string {
	var b strings.Builder
	formatInto(&b, v, make(map[*Value]bool), false)
	return b.String()
}

// DisplayValue renders v the "human readable" way: strings unquoted,
// characters emitted raw instead of as #\xHH (spec §6).
func DisplayValue(v *Value) string {
	var b strings.Builder
	formatInto(&b, v, make(map[*Value]bool), true)
	return b.String()
}

func formatInto(b *strings.Builder, v *Value, seen map[*Value]bool, display bool) {
	if v == nil {
		b.WriteString("()")
		return
	}
	switch v.Tag {
	case TagNull:
		b.WriteString("()")
	case TagBool:
		if v.Bool {
			b.WriteString("#t")
		} else {
			b.WriteString("#f")
		}
	case TagChar:
		if display {
			b.WriteByte(v.Char)
		} else {
			fmt.Fprintf(b, "#\\x%02x", v.Char)
		}
	case TagNumber:
		b.WriteString(v.Num.String())
	case TagSymbol:
		b.WriteString(v.Sym)
	case TagString:
		if display {
			b.WriteString(v.Str)
		} else {
			b.WriteByte('"')
			b.WriteString(escapeString(v.Str))
			b.WriteByte('"')
		}
	case TagPair:
		if seen[v] {
			b.WriteString("...")
			return
		}
		seen[v] = true
		b.WriteByte('(')
		cur := v
		first := true
		for {
			if !first {
				b.WriteByte(' ')
			}
			first = false
			formatInto(b, cur.Car, seen, display)
			switch {
			case cur.Cdr.IsNull():
				b.WriteByte(')')
				delete(seen, v)
				return
			case cur.Cdr.IsPair():
				if seen[cur.Cdr] {
					b.WriteString(" ...)")
					delete(seen, v)
					return
				}
				cur = cur.Cdr
			default:
				b.WriteString(" . ")
				formatInto(b, cur.Cdr, seen, display)
				b.WriteByte(')')
				delete(seen, v)
				return
			}
		}
	case TagHash:
		b.WriteString("#<hash>")
	case TagPort:
		fmt.Fprintf(b, "<port@%p>", v)
	case TagFn:
		switch v.Fn.Kind {
		case FnNative:
			fmt.Fprintf(b, "<built-in@%p>", v)
		default:
			fmt.Fprintf(b, "<lambda@%p>", v)
		}
	case TagErr:
		fmt.Fprintf(b, "#<err:%s>", v.ErrKind)
	}
}

func escapeString(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// CharName returns the special name for c if it has one, and ok=false
// otherwise.
func CharName(c byte) (string, bool) {
	name, ok := charNames[c]
	return name, ok
}
