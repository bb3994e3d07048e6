// Package env implements the environment spec §4.1 describes: a non-empty
// chain of frames, each a string-keyed mapping to values, searched
// innermost-first. It mirrors original_source/src/primitives.c's
// c_env_lookup, which walks a pair chain whose car is a hash and whose cdr
// is the parent environment (or nil at the root) — represented here as a
// *value.Value list-of-pairs so the environment itself is an ordinary
// first-class value the evaluator can pass around and the printer can
// render, rather than a separate Go-only type.
package env

import (
	"github.com/pedde-lisp/r5scheme/internal/hashtbl"
	"github.com/pedde-lisp/r5scheme/internal/value"
)

// New returns a fresh single-frame environment with no parent.
func New() *value.Value {
	return value.NewPair(value.NewHash(hashtbl.New()), value.Null)
}

// Push returns a new environment with a fresh empty frame layered in front
// of parent (lambda application, let, let*, the REPL's per-session frame).
func Push(parent *value.Value) *value.Value {
	return value.NewPair(value.NewHash(hashtbl.New()), parent)
}

// frameTable extracts the hashtbl.Table backing an environment's innermost
// frame; every frame is always constructed via New/Push, so this type
// assertion never fails on a well-formed environment.
func frameTable(env *value.Value) *hashtbl.Table {
	return env.Car.Hash.(*hashtbl.Table)
}

// Lookup searches frames innermost-first, returning the bound value and
// true, or (nil, false) if sym is unbound in every frame of the chain.
func Lookup(env *value.Value, sym *value.Value) (*value.Value, bool) {
	for cur := env; cur != nil && !cur.IsNull(); cur = cur.Cdr {
		if v, ok := frameTable(cur).Fetch(sym); ok {
			return v, true
		}
	}
	return nil, false
}

// Define always writes to the innermost frame (spec §4.1: "define(env, sym,
// v) always writes to the innermost frame"). There is no separate set!; a
// redefinition at the innermost frame simply overwrites.
func Define(env *value.Value, sym *value.Value, v *value.Value) {
	frameTable(env).Insert(sym, v)
	v.Bound = sym
}

// Names collects every symbol bound anywhere in env's frame chain, closest
// frame first, for introspection (spec §4.2's frame walk) and for
// `internal/suggest`'s fuzzy "did you mean" search over live bindings.
func Names(env *value.Value) []string {
	var names []string
	for cur := env; cur != nil && !cur.IsNull(); cur = cur.Cdr {
		frameTable(cur).Walk(func(key, _ *value.Value) {
			names = append(names, key.Sym)
		})
	}
	return names
}
