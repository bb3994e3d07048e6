// Package hashtbl implements the keyed map spec §4.2 describes: a
// store keyed by a 32-bit fingerprint of a symbol or string's bytes, with
// insertion-ordered walk and collision-safe comparison on the original key
// bytes (spec §9's required resolution of the "fingerprint-only aliasing"
// open question).
package hashtbl

import (
	"golang.org/x/crypto/blake2b"

	"github.com/pedde-lisp/r5scheme/internal/value"
)

// entry pairs a fingerprint bucket's original key with its value. Multiple
// entries can share a fingerprint (a collision); Fetch/Insert/Delete walk
// the bucket comparing key bytes, never trusting the fingerprint alone.
type entry struct {
	keyBytes string
	keyItem  *value.Value
	val      *value.Value
	order    int // insertion sequence, for ordered Walk
}

// Table is an ordered, fingerprint-bucketed symbol/string-keyed map. It
// implements value.HashTable.
type Table struct {
	buckets map[uint32][]*entry
	seq     int
}

// New returns an empty table.
func New() *Table {
	return &Table{buckets: make(map[uint32][]*entry)}
}

// fingerprint hashes a symbol or string's underlying bytes with blake2b-256
// truncated to 32 bits. Spec §4.2 calls for "a 32-bit fingerprint (MurmurHash2
// of the underlying bytes)"; no MurmurHash implementation exists anywhere
// in the retrieval pack, and the spec only requires a well-distributed
// hash, so blake2b (already part of the teacher's dependency graph via
// golang.org/x/crypto) fills the role instead (see DESIGN.md).
func fingerprint(b []byte) uint32 {
	sum := blake2b.Sum256(b)
	return uint32(sum[0]) | uint32(sum[1])<<8 | uint32(sum[2])<<16 | uint32(sum[3])<<24
}

func keyBytes(key *value.Value) string {
	switch key.Tag {
	case value.TagSymbol:
		return key.Sym
	case value.TagString:
		return key.Str
	default:
		panic("hashtbl: key must be a symbol or string")
	}
}

// Insert upserts key -> v, matching an existing key by byte comparison
// within the fingerprint bucket, never by fingerprint alone.
func (t *Table) Insert(key *value.Value, v *value.Value) {
	kb := keyBytes(key)
	fp := fingerprint([]byte(kb))
	bucket := t.buckets[fp]
	for _, e := range bucket {
		if e.keyBytes == kb {
			e.val = v
			e.keyItem = key
			return
		}
	}
	t.seq++
	t.buckets[fp] = append(bucket, &entry{keyBytes: kb, keyItem: key, val: v, order: t.seq})
}

// Fetch looks up key, returning (value, true) or (nil, false).
func (t *Table) Fetch(key *value.Value) (*value.Value, bool) {
	kb := keyBytes(key)
	fp := fingerprint([]byte(kb))
	for _, e := range t.buckets[fp] {
		if e.keyBytes == kb {
			return e.val, true
		}
	}
	return nil, false
}

// Delete removes key, reporting whether it was present.
func (t *Table) Delete(key *value.Value) bool {
	kb := keyBytes(key)
	fp := fingerprint([]byte(kb))
	bucket := t.buckets[fp]
	for i, e := range bucket {
		if e.keyBytes == kb {
			t.buckets[fp] = append(bucket[:i], bucket[i+1:]...)
			return true
		}
	}
	return false
}

// Walk visits every key/value pair in insertion order (spec §4.2: "used to
// iterate a frame for introspection or test discovery").
func (t *Table) Walk(fn func(key, v *value.Value)) {
	all := make([]*entry, 0, t.Len())
	for _, bucket := range t.buckets {
		all = append(all, bucket...)
	}
	// insertion sort on `order`: tables are small (frames, not bulk data).
	for i := 1; i < len(all); i++ {
		for j := i; j > 0 && all[j-1].order > all[j].order; j-- {
			all[j-1], all[j] = all[j], all[j-1]
		}
	}
	for _, e := range all {
		fn(e.keyItem, e.val)
	}
}

// Len returns the number of keys currently stored.
func (t *Table) Len() int {
	n := 0
	for _, bucket := range t.buckets {
		n += len(bucket)
	}
	return n
}
