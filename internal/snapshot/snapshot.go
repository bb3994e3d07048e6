// Package snapshot serializes a REPL session's final environment frame to
// CBOR for offline inspection (`--snapshot FILE`). Grounded on
// core/planfmt/canonical.go's MarshalBinary, which builds a
// cbor.CanonicalEncOptions() encoder and an alias type to avoid the
// MarshalBinary-calls-itself recursion a direct cbor.Marshal(cp) would hit;
// the same two moves carry over here, with a plan's step tree replaced by
// an environment frame's bindings.
package snapshot

import (
	"fmt"
	"os"

	"github.com/fxamacker/cbor/v2"

	"github.com/pedde-lisp/r5scheme/internal/env"
	"github.com/pedde-lisp/r5scheme/internal/value"
)

// Binding is one entry of a snapshotted frame: a bound name, its printed
// (write) form, and its type tag, per SPEC_FULL's domain-stack wiring for
// `--snapshot`.
type Binding struct {
	Name string
	Form string
	Type string
}

// Session is the CBOR-serializable shape of a REPL run: every binding
// visible in the session's environment chain at exit time.
type Session struct {
	Version  uint8
	Bindings []Binding
}

// Capture walks e's frame chain and builds the Session to serialize.
// Native functions are included (their printed form is <built-in@ADDR>) so a
// snapshot records exactly what was callable, not just user-defined state.
func Capture(e *value.Value) *Session {
	names := env.Names(e)
	seen := make(map[string]bool, len(names))
	s := &Session{Version: 1}
	for _, name := range names {
		if seen[name] {
			continue
		}
		seen[name] = true
		v, ok := env.Lookup(e, value.NewSymbol(name))
		if !ok {
			continue
		}
		s.Bindings = append(s.Bindings, Binding{
			Name: name,
			Form: value.FormatValue(v),
			Type: v.Tag.String(),
		})
	}
	return s
}

// MarshalBinary produces a deterministic CBOR encoding of s, mirroring
// core/planfmt/canonical.go's alias-type trick to sidestep
// MarshalBinary-recursion.
func (s *Session) MarshalBinary() ([]byte, error) {
	encMode, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		return nil, fmt.Errorf("snapshot: building cbor encoder: %w", err)
	}
	type sessionAlias Session
	data, err := encMode.Marshal((*sessionAlias)(s))
	if err != nil {
		return nil, fmt.Errorf("snapshot: cbor encoding: %w", err)
	}
	return data, nil
}

// WriteFile captures e and writes its CBOR encoding to path.
func WriteFile(path string, e *value.Value) error {
	s := Capture(e)
	data, err := s.MarshalBinary()
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ReadFile reads and decodes a snapshot previously written by WriteFile.
func ReadFile(path string) (*Session, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var s Session
	if err := cbor.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("snapshot: cbor decoding: %w", err)
	}
	return &s, nil
}
