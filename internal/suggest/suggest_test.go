package suggest

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pedde-lisp/r5scheme/internal/env"
	"github.com/pedde-lisp/r5scheme/internal/lisperrors"
	"github.com/pedde-lisp/r5scheme/internal/value"
)

func TestClosestFindsNearMisspelling(t *testing.T) {
	e := env.New()
	env.Define(e, value.NewSymbol("display"), value.Null)
	env.Define(e, value.NewSymbol("length"), value.Null)

	assert.Equal(t, "display", Closest("disply", e))
}

func TestClosestReturnsEmptyForEmptyEnv(t *testing.T) {
	e := env.New()
	assert.Equal(t, "", Closest("foo", e))
}

func TestAnnotateAppendsHintWhenMatchFound(t *testing.T) {
	e := env.New()
	env.Define(e, value.NewSymbol("display"), value.Null)

	err := lisperrors.Unbound("disply")
	annotated := Annotate(err, "disply", e)
	assert.Contains(t, annotated.Message, "did you mean `display`?")
}

func TestAnnotateLeavesErrorUnchangedWithNoCandidates(t *testing.T) {
	e := env.New()
	err := lisperrors.Unbound("zzz")
	annotated := Annotate(err, "zzz", e)
	assert.Equal(t, err.Message, annotated.Message)
}
