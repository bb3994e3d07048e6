// Package numeric implements the exact/inexact numeric tower: arbitrary
// precision integers, reduced rationals, and arbitrary precision binary
// floats, with the promotion and accumulator rules the evaluator relies on.
//
// The tower is built on math/big rather than a third-party bignum library:
// no such library appears anywhere in the retrieval pack, and math/big is
// Go's idiomatic analogue of the GMP/MPFR pair the original implementation
// used (see DESIGN.md).
package numeric

import (
	"fmt"
	"math/big"
	"strings"
)

// Kind tags which of the three tower members a Number holds. Ordering
// matters: Promote only ever widens toward a larger Kind.
type Kind int

const (
	KindInt Kind = iota
	KindRational
	KindFloat
)

func (k Kind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindRational:
		return "rational"
	case KindFloat:
		return "float"
	default:
		return "unknown"
	}
}

// FloatPrec is the working precision (in bits) for the arbitrary-precision
// float member of the tower. big.Float's default RoundingMode is
// ToNearestEven, matching spec's round-to-nearest-even requirement.
const FloatPrec = 200

// Number is one member of the numeric tower. Exactly one of I, R, F is set,
// selected by Kind.
type Number struct {
	Kind Kind
	I    *big.Int
	R    *big.Rat
	F    *big.Float
}

// NewInt wraps an arbitrary-precision integer.
func NewInt(i *big.Int) *Number {
	return &Number{Kind: KindInt, I: new(big.Int).Set(i)}
}

// NewIntFromInt64 wraps a machine integer.
func NewIntFromInt64(v int64) *Number {
	return &Number{Kind: KindInt, I: big.NewInt(v)}
}

// NewRational builds a reduced rational with a positive denominator. The
// caller-supplied num/den need not already be reduced or have a positive
// denominator: big.Rat.SetFrac normalizes both (spec §3's "canonical form
// always maintained" invariant).
func NewRational(num, den *big.Int) (*Number, error) {
	if den.Sign() == 0 {
		return nil, fmt.Errorf("zero denominator")
	}
	r := new(big.Rat).SetFrac(num, den)
	return &Number{Kind: KindRational, R: r}, nil
}

// NewRationalFromRat wraps an already-constructed big.Rat.
func NewRationalFromRat(r *big.Rat) *Number {
	return &Number{Kind: KindRational, R: new(big.Rat).Set(r)}
}

// NewFloat wraps an arbitrary-precision float at the tower's working
// precision.
func NewFloat(f *big.Float) *Number {
	return &Number{Kind: KindFloat, F: new(big.Float).SetPrec(FloatPrec).Set(f)}
}

// NewFloatFromFloat64 builds a tower float from a machine double.
func NewFloatFromFloat64(v float64) *Number {
	return &Number{Kind: KindFloat, F: new(big.Float).SetPrec(FloatPrec).SetFloat64(v)}
}

// ParseFloat parses a decimal float literal (as matched by the reader's
// float regex, spec §4.5) at the tower's working precision, rounding to
// nearest-even per spec §3. It returns ok=false on a malformed literal.
func ParseFloat(s string) (*Number, bool) {
	f, _, err := big.ParseFloat(s, 10, FloatPrec, big.ToNearestEven)
	if err != nil {
		return nil, false
	}
	return &Number{Kind: KindFloat, F: f}, true
}

// Exact reports whether the number is int or rational (spec §4.3).
func (n *Number) Exact() bool { return n.Kind != KindFloat }

// Promote widens n to the given Kind; promoting to n's own Kind returns n
// unchanged. Promoting to a narrower Kind than n already has is a
// programming error (spec §4.3: "int→rational
// … int→float … rational→float … float→rational/float→int is never
// automatic").
func Promote(n *Number, to Kind) *Number {
	if n.Kind == to {
		return n
	}
	switch n.Kind {
	case KindInt:
		switch to {
		case KindRational:
			return &Number{Kind: KindRational, R: new(big.Rat).SetInt(n.I)}
		case KindFloat:
			f := new(big.Float).SetPrec(FloatPrec).SetInt(n.I)
			return &Number{Kind: KindFloat, F: f}
		}
	case KindRational:
		if to == KindFloat {
			f := new(big.Float).SetPrec(FloatPrec).SetRat(n.R)
			return &Number{Kind: KindFloat, F: f}
		}
	}
	panic(fmt.Sprintf("numeric: cannot promote %s to %s", n.Kind, to))
}

// promoteBoth widens the narrower of a, b to match the wider, per spec
// §4.3's "before applying, both operands are promoted to the wider of
// their two tags".
func promoteBoth(a, b *Number) (*Number, *Number) {
	if a.Kind == b.Kind {
		return a, b
	}
	if a.Kind > b.Kind {
		return a, Promote(b, a.Kind)
	}
	return Promote(a, b.Kind), b
}

// Add, Sub, Mul pairwise-combine two numbers after promotion to the wider
// tag, matching original_source/src/math.c's accum_op per-pair dispatch.
func Add(a, b *Number) *Number {
	a, b = promoteBoth(a, b)
	switch a.Kind {
	case KindInt:
		return &Number{Kind: KindInt, I: new(big.Int).Add(a.I, b.I)}
	case KindRational:
		return &Number{Kind: KindRational, R: new(big.Rat).Add(a.R, b.R)}
	default:
		return &Number{Kind: KindFloat, F: new(big.Float).SetPrec(FloatPrec).Add(a.F, b.F)}
	}
}

func Sub(a, b *Number) *Number {
	a, b = promoteBoth(a, b)
	switch a.Kind {
	case KindInt:
		return &Number{Kind: KindInt, I: new(big.Int).Sub(a.I, b.I)}
	case KindRational:
		return &Number{Kind: KindRational, R: new(big.Rat).Sub(a.R, b.R)}
	default:
		return &Number{Kind: KindFloat, F: new(big.Float).SetPrec(FloatPrec).Sub(a.F, b.F)}
	}
}

func Mul(a, b *Number) *Number {
	a, b = promoteBoth(a, b)
	switch a.Kind {
	case KindInt:
		return &Number{Kind: KindInt, I: new(big.Int).Mul(a.I, b.I)}
	case KindRational:
		return &Number{Kind: KindRational, R: new(big.Rat).Mul(a.R, b.R)}
	default:
		return &Number{Kind: KindFloat, F: new(big.Float).SetPrec(FloatPrec).Mul(a.F, b.F)}
	}
}

// Div implements spec §4.3's division rule: integer/integer that divides
// evenly stays integer, otherwise both operands promote to rational;
// rational/float division is plain tower division. Division by zero
// returns an error the caller turns into a `div` failure.
func Div(a, b *Number) (*Number, error) {
	a, b = promoteBoth(a, b)
	switch a.Kind {
	case KindInt:
		if b.I.Sign() == 0 {
			return nil, fmt.Errorf("division by zero")
		}
		q, rem := new(big.Int), new(big.Int)
		q.QuoRem(a.I, b.I, rem)
		if rem.Sign() == 0 {
			return &Number{Kind: KindInt, I: q}, nil
		}
		ra, rb := Promote(a, KindRational), Promote(b, KindRational)
		return &Number{Kind: KindRational, R: new(big.Rat).Quo(ra.R, rb.R)}, nil
	case KindRational:
		if b.R.Sign() == 0 {
			return nil, fmt.Errorf("division by zero")
		}
		return &Number{Kind: KindRational, R: new(big.Rat).Quo(a.R, b.R)}, nil
	default:
		if b.F.Sign() == 0 {
			return nil, fmt.Errorf("division by zero")
		}
		return &Number{Kind: KindFloat, F: new(big.Float).SetPrec(FloatPrec).Quo(a.F, b.F)}, nil
	}
}

// Compare promotes a and b to the wider tag and returns -1/0/1, matching
// spec §4.3's two-operand comparison rule.
func Compare(a, b *Number) int {
	a, b = promoteBoth(a, b)
	switch a.Kind {
	case KindInt:
		return a.I.Cmp(b.I)
	case KindRational:
		return a.R.Cmp(b.R)
	default:
		return a.F.Cmp(b.F)
	}
}

// Sum/Product/Difference/Quotient implement the accumulator seeding rules
// of spec §4.3: + and - seed with exact 0, * and / seed with exact 1; - and
// / additionally require at least one argument and re-seed with the first
// operand (original_source/src/math.c's accum_op).

func Sum(args []*Number) *Number {
	acc := NewIntFromInt64(0)
	for _, a := range args {
		acc = Add(acc, a)
	}
	return acc
}

func Product(args []*Number) *Number {
	var acc *Number
	r := big.NewRat(1, 1)
	acc = &Number{Kind: KindRational, R: r}
	for _, a := range args {
		acc = Mul(acc, a)
	}
	return acc
}

// Difference requires len(args) >= 1 (checked by the caller, which raises
// `arity` per spec); a single argument negates it.
func Difference(args []*Number) *Number {
	acc := args[0]
	if len(args) == 1 {
		return Sub(NewIntFromInt64(0), acc)
	}
	for _, a := range args[1:] {
		acc = Sub(acc, a)
	}
	return acc
}

// Quotient (the accumulating "/" operator, not the quotient primitive)
// requires len(args) >= 1; a single argument inverts it.
func Quotient(args []*Number) (*Number, error) {
	acc := args[0]
	if len(args) == 1 {
		return Div(&Number{Kind: KindRational, R: big.NewRat(1, 1)}, acc)
	}
	var err error
	for _, a := range args[1:] {
		acc, err = Div(acc, a)
		if err != nil {
			return nil, err
		}
	}
	return acc, nil
}

// toInt requires an exact integer operand (used by quotient/remainder/
// modulo, which R5RS defines only over integers).
func toInt(n *Number) (*big.Int, bool) {
	switch n.Kind {
	case KindInt:
		return n.I, true
	case KindRational:
		if n.R.IsInt() {
			return n.R.Num(), true
		}
	}
	return nil, false
}

// QuotientOp truncates toward zero (R5RS quotient).
func QuotientOp(a, b *Number) (*Number, error) {
	ai, ok1 := toInt(a)
	bi, ok2 := toInt(b)
	if !ok1 || !ok2 {
		return nil, fmt.Errorf("quotient requires integer arguments")
	}
	if bi.Sign() == 0 {
		return nil, fmt.Errorf("division by zero")
	}
	q := new(big.Int).Quo(ai, bi)
	return &Number{Kind: KindInt, I: q}, nil
}

// RemainderOp's sign follows the dividend (R5RS remainder).
func RemainderOp(a, b *Number) (*Number, error) {
	ai, ok1 := toInt(a)
	bi, ok2 := toInt(b)
	if !ok1 || !ok2 {
		return nil, fmt.Errorf("remainder requires integer arguments")
	}
	if bi.Sign() == 0 {
		return nil, fmt.Errorf("division by zero")
	}
	r := new(big.Int).Rem(ai, bi)
	return &Number{Kind: KindInt, I: r}, nil
}

// ModuloOp's sign follows the divisor (R5RS modulo).
func ModuloOp(a, b *Number) (*Number, error) {
	ai, ok1 := toInt(a)
	bi, ok2 := toInt(b)
	if !ok1 || !ok2 {
		return nil, fmt.Errorf("modulo requires integer arguments")
	}
	if bi.Sign() == 0 {
		return nil, fmt.Errorf("division by zero")
	}
	// big.Int.Mod returns the Euclidean remainder (always 0 <= m < |bi|);
	// R5RS modulo wants the sign to follow the divisor instead.
	m := new(big.Int).Mod(ai, bi)
	if m.Sign() != 0 && bi.Sign() < 0 {
		m.Add(m, bi)
	}
	return &Number{Kind: KindInt, I: m}, nil
}

// Floor, Ceiling, Truncate, Round operate across the whole tower: exact
// int/rational stay exact, float stays float. Round is round-half-to-even
// to match the tower's float rounding rule (spec §4.3).

func Floor(n *Number) *Number {
	switch n.Kind {
	case KindInt:
		return n
	case KindRational:
		q := new(big.Int).Div(n.R.Num(), n.R.Denom())
		return &Number{Kind: KindInt, I: q}
	default:
		f, _ := n.F.Int(nil)
		ff := new(big.Float).SetPrec(FloatPrec).SetInt(f)
		if ff.Cmp(n.F) > 0 {
			ff.Sub(ff, big.NewFloat(1))
		}
		return &Number{Kind: KindFloat, F: ff}
	}
}

func Ceiling(n *Number) *Number {
	switch n.Kind {
	case KindInt:
		return n
	case KindRational:
		neg := new(big.Rat).Neg(n.R)
		q := new(big.Int).Div(neg.Num(), neg.Denom())
		return &Number{Kind: KindInt, I: q.Neg(q)}
	default:
		f := Floor(n)
		if f.F.Cmp(n.F) == 0 {
			return f
		}
		return &Number{Kind: KindFloat, F: new(big.Float).SetPrec(FloatPrec).Add(f.F, big.NewFloat(1))}
	}
}

func Truncate(n *Number) *Number {
	switch n.Kind {
	case KindInt:
		return n
	case KindRational:
		q := new(big.Int).Quo(n.R.Num(), n.R.Denom())
		return &Number{Kind: KindInt, I: q}
	default:
		i, _ := n.F.Int(nil)
		return &Number{Kind: KindFloat, F: new(big.Float).SetPrec(FloatPrec).SetInt(i)}
	}
}

func Round(n *Number) *Number {
	switch n.Kind {
	case KindInt:
		return n
	case KindRational:
		fl := Floor(n)
		diff := new(big.Rat).Sub(n.R, new(big.Rat).SetInt(fl.I))
		half := big.NewRat(1, 2)
		switch diff.Cmp(half) {
		case -1:
			return fl
		case 1:
			return &Number{Kind: KindInt, I: new(big.Int).Add(fl.I, big.NewInt(1))}
		default:
			if new(big.Int).Mod(fl.I, big.NewInt(2)).Sign() == 0 {
				return fl
			}
			return &Number{Kind: KindInt, I: new(big.Int).Add(fl.I, big.NewInt(1))}
		}
	default:
		i := new(big.Int)
		n.F.Int(i)
		flo := new(big.Float).SetPrec(FloatPrec).SetInt(i)
		if flo.Cmp(n.F) > 0 {
			flo.Sub(flo, big.NewFloat(1))
			i.Sub(i, big.NewInt(1))
		}
		diff := new(big.Float).SetPrec(FloatPrec).Sub(n.F, flo)
		half := big.NewFloat(0.5)
		switch {
		case diff.Cmp(half) < 0:
			return &Number{Kind: KindFloat, F: flo}
		case diff.Cmp(half) > 0:
			return &Number{Kind: KindFloat, F: new(big.Float).SetPrec(FloatPrec).Add(flo, big.NewFloat(1))}
		default:
			if new(big.Int).Mod(i, big.NewInt(2)).Sign() == 0 {
				return &Number{Kind: KindFloat, F: flo}
			}
			return &Number{Kind: KindFloat, F: new(big.Float).SetPrec(FloatPrec).Add(flo, big.NewFloat(1))}
		}
	}
}

// String renders the canonical printed form of a number (spec §6): plain
// integer, "p/q" rational, or a decimal float.
func (n *Number) String() string {
	switch n.Kind {
	case KindInt:
		return n.I.String()
	case KindRational:
		if n.R.IsInt() {
			return n.R.Num().String()
		}
		return n.R.RatString()
	default:
		s := n.F.Text('g', -1)
		if !strings.ContainsAny(s, ".eE") {
			s += "."
		}
		return s
	}
}
