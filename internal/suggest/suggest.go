// Package suggest appends "did you mean" fuzzy-match hints to lookup
// errors. Grounded on
// runtime/planner/planner.go's findClosestMatch, which ranks shell-command
// candidates with fuzzy.RankFindFold and takes the lowest-distance result;
// here the candidates are every symbol reachable from the environment
// chain at the point a lookup failed.
package suggest

import (
	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/pedde-lisp/r5scheme/internal/env"
	"github.com/pedde-lisp/r5scheme/internal/lisperrors"
	"github.com/pedde-lisp/r5scheme/internal/value"
)

// Closest returns the best fuzzy match for target among the names bound in
// env, or "" if env has no bindings at all or none matches. A name matches
// only if it contains every character of target in the same order, so a
// misspelling with transposed letters finds no match.
func Closest(target string, e *value.Value) string {
	candidates := env.Names(e)
	if len(candidates) == 0 {
		return ""
	}
	ranks := fuzzy.RankFindFold(target, candidates)
	if len(ranks) == 0 {
		return ""
	}
	best := ranks[0]
	for _, r := range ranks[1:] {
		if r.Distance < best.Distance {
			best = r
		}
	}
	return best.Target
}

// Annotate appends a "did you mean `X`?" hint to err's message when a
// plausible candidate exists among env's bindings, leaving err unchanged
// otherwise. Intended for internal/eval's Unbound errors (spec §4.7's
// lookup failure path) before they reach the REPL.
func Annotate(err *lisperrors.Error, symbol string, e *value.Value) *lisperrors.Error {
	match := Closest(symbol, e)
	if match == "" || match == symbol {
		return err
	}
	return lisperrors.Newf(err.Kind, "%s (did you mean `%s`?)", err.Message, match).
		WithPosition(err.File, err.Row, err.Col)
}
