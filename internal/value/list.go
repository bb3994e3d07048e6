package value

// List builds a proper list from the given elements.
func List(elems ...*Value) *Value {
	result := Null
	for i := len(elems) - 1; i >= 0; i-- {
		result = NewPair(elems[i], result)
	}
	return result
}

// ToSlice flattens a proper list into a Go slice. It returns false if v is
// not a proper list (an improper tail or a non-pair, non-null value).
func ToSlice(v *Value) ([]*Value, bool) {
	var out []*Value
	for {
		if v.IsNull() {
			return out, true
		}
		if !v.IsPair() {
			return out, false
		}
		out = append(out, v.Car)
		v = v.Cdr
	}
}

// Length returns the number of elements in a proper list, or -1 if v is
// not a proper list.
func Length(v *Value) int {
	n := 0
	for {
		if v.IsNull() {
			return n
		}
		if !v.IsPair() {
			return -1
		}
		n++
		v = v.Cdr
	}
}

// Append concatenates proper lists, copying every list but the last (spec
// §9: "never share a tail you just extended").
func Append(lists ...*Value) *Value {
	if len(lists) == 0 {
		return Null
	}
	result := lists[len(lists)-1]
	for i := len(lists) - 2; i >= 0; i-- {
		elems, _ := ToSlice(lists[i])
		for j := len(elems) - 1; j >= 0; j-- {
			result = NewPair(elems[j], result)
		}
	}
	return result
}

// Reverse returns a freshly-built reversal of a proper list.
func Reverse(v *Value) *Value {
	result := Null
	for !v.IsNull() {
		result = NewPair(v.Car, result)
		v = v.Cdr
	}
	return result
}

// Nth returns the pair at index n of a proper list (list-tail), or nil if
// n exceeds the list's length.
func Nth(v *Value, n int) *Value {
	for i := 0; i < n; i++ {
		if !v.IsPair() {
			return nil
		}
		v = v.Cdr
	}
	return v
}
