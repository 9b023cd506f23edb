// Copyright 2026 The Trible Authors
// SPDX-License-Identifier: Apache-2.0

// Package trible implements the 64-byte fact record: a 16-byte entity
// identifier, a 16-byte attribute identifier, and a 32-byte value,
// concatenated in that order. Equality and ordering are exact byte
// comparisons over the whole record, which makes entity-major ("EAV")
// order the natural total order and gives archives their canonical
// form for free.
package trible

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/trible-foundation/trible/lib/id"
	"github.com/trible-foundation/trible/lib/value"
)

// Record layout offsets. These are wire-format constants.
const (
	EntityOffset    = 0
	AttributeOffset = id.Size
	ValueOffset     = 2 * id.Size
	Size            = 2*id.Size + value.Size
)

// ErrBadTrible is returned when raw bytes do not form a valid fact
// record: wrong length, or a nil entity or attribute identifier.
var ErrBadTrible = errors.New("trible: malformed fact record")

// Trible is an immutable 64-byte fact. Constructed values always
// carry non-nil entity and attribute identifiers.
type Trible [Size]byte

// New assembles a fact from its parts. It cannot fail: identifier
// construction already excluded nil, and any validated value is
// embeddable. Nil identifiers can only arrive here through misuse of
// the forced constructors, which panics rather than producing a
// record that would poison a set.
func New[S value.Schema](e, a id.ID, v value.Value[S]) Trible {
	if e.IsNil() || a.IsNil() {
		panic("trible: nil identifier in fact construction")
	}
	var t Trible
	copy(t[EntityOffset:], e[:])
	copy(t[AttributeOffset:], a[:])
	raw := v.Raw()
	copy(t[ValueOffset:], raw[:])
	return t
}

// FromBytes re-validates an externally-sourced record. This is the
// decode path used by the archive codec; it never panics on bad
// input.
func FromBytes(raw []byte) (Trible, error) {
	if len(raw) != Size {
		return Trible{}, fmt.Errorf("%w: got %d bytes, want %d", ErrBadTrible, len(raw), Size)
	}
	var t Trible
	copy(t[:], raw)
	if t.Entity().IsNil() || t.Attribute().IsNil() {
		return Trible{}, fmt.Errorf("%w: nil identifier", ErrBadTrible)
	}
	return t, nil
}

// Entity returns the entity identifier.
func (t Trible) Entity() id.ID {
	var out [id.Size]byte
	copy(out[:], t[EntityOffset:AttributeOffset])
	return id.Force(out)
}

// Attribute returns the attribute identifier.
func (t Trible) Attribute() id.ID {
	var out [id.Size]byte
	copy(out[:], t[AttributeOffset:ValueOffset])
	return id.Force(out)
}

// Value returns the value under the fallback schema. Callers that
// know the attribute's schema re-validate with value.New against the
// concrete schema type.
func (t Trible) Value() value.Value[value.Unknown] {
	return value.Force[value.Unknown](t.ValueRaw())
}

// ValueRaw returns the 32 value bytes.
func (t Trible) ValueRaw() [value.Size]byte {
	var out [value.Size]byte
	copy(out[:], t[ValueOffset:])
	return out
}

// Compare orders two facts byte-lexicographically (EAV order).
func Compare(a, b Trible) int {
	return bytes.Compare(a[:], b[:])
}

// Less reports whether t sorts strictly before other.
func (t Trible) Less(other Trible) bool {
	return Compare(t, other) < 0
}

// String renders the fact as "e:<hex> a:<hex> v:<hex>" for logs and
// test failures.
func (t Trible) String() string {
	return fmt.Sprintf("e:%x a:%x v:%x",
		t[EntityOffset:AttributeOffset], t[AttributeOffset:ValueOffset], t[ValueOffset:])
}
