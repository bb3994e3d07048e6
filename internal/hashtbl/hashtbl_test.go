package hashtbl

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pedde-lisp/r5scheme/internal/value"
)

func TestInsertFetchRoundTrip(t *testing.T) {
	tbl := New()
	k := value.NewSymbol("foo")
	v := value.NewSymbol("bar")
	tbl.Insert(k, v)

	got, ok := tbl.Fetch(value.NewSymbol("foo"))
	assert.True(t, ok)
	assert.Equal(t, "bar", got.Sym)
}

func TestFetchMissingReturnsFalse(t *testing.T) {
	tbl := New()
	_, ok := tbl.Fetch(value.NewSymbol("missing"))
	assert.False(t, ok)
}

func TestInsertOverwritesExistingKey(t *testing.T) {
	tbl := New()
	tbl.Insert(value.NewSymbol("x"), value.NewSymbol("1"))
	tbl.Insert(value.NewSymbol("x"), value.NewSymbol("2"))

	assert.Equal(t, 1, tbl.Len())
	got, _ := tbl.Fetch(value.NewSymbol("x"))
	assert.Equal(t, "2", got.Sym)
}

func TestDeleteRemovesKey(t *testing.T) {
	tbl := New()
	tbl.Insert(value.NewSymbol("x"), value.NewSymbol("1"))
	assert.True(t, tbl.Delete(value.NewSymbol("x")))
	_, ok := tbl.Fetch(value.NewSymbol("x"))
	assert.False(t, ok)
	assert.False(t, tbl.Delete(value.NewSymbol("x")))
}

func TestStringAndSymbolKeysWithSameBytesShareOneEntry(t *testing.T) {
	tbl := New()
	tbl.Insert(value.NewSymbol("dup"), value.NewSymbol("sym-value"))
	tbl.Insert(value.NewString("dup"), value.NewString("str-value"))

	assert.Equal(t, 1, tbl.Len())
	symGot, _ := tbl.Fetch(value.NewSymbol("dup"))
	strGot, _ := tbl.Fetch(value.NewString("dup"))
	assert.Equal(t, "str-value", symGot.Str)
	assert.Equal(t, "str-value", strGot.Str)
}

func TestWalkVisitsInInsertionOrder(t *testing.T) {
	tbl := New()
	tbl.Insert(value.NewSymbol("first"), value.NewNumber(nil))
	tbl.Insert(value.NewSymbol("second"), value.NewNumber(nil))
	tbl.Insert(value.NewSymbol("third"), value.NewNumber(nil))

	var order []string
	tbl.Walk(func(k, v *value.Value) { order = append(order, k.Sym) })
	assert.Equal(t, []string{"first", "second", "third"}, order)
}

func TestWalkOrderSurvivesDeleteAndReinsert(t *testing.T) {
	tbl := New()
	tbl.Insert(value.NewSymbol("a"), value.NewNumber(nil))
	tbl.Insert(value.NewSymbol("b"), value.NewNumber(nil))
	tbl.Delete(value.NewSymbol("a"))
	tbl.Insert(value.NewSymbol("a"), value.NewNumber(nil))

	var order []string
	tbl.Walk(func(k, v *value.Value) { order = append(order, k.Sym) })
	assert.Equal(t, []string{"b", "a"}, order)
}

func TestLenReflectsMutations(t *testing.T) {
	tbl := New()
	assert.Equal(t, 0, tbl.Len())
	tbl.Insert(value.NewSymbol("a"), value.NewNumber(nil))
	tbl.Insert(value.NewSymbol("b"), value.NewNumber(nil))
	assert.Equal(t, 2, tbl.Len())
	tbl.Delete(value.NewSymbol("a"))
	assert.Equal(t, 1, tbl.Len())
}
