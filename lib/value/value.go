// Copyright 2026 The Trible Authors
// SPDX-License-Identifier: Apache-2.0

// Package value implements the 32-byte schema-tagged payloads embedded
// directly in facts. A schema is a zero-size marker type carried as a
// type parameter, so values of different schemas are distinct Go types
// and never implicitly interchangeable: a Value[Boolean] cannot be
// passed where a Value[U256] is expected.
//
// Construction goes through New, which runs the schema's validation
// predicate; a Value that exists has already passed it. Force is the
// explicit opt-out for internal code that established the byte pattern
// by construction.
//
// Wire-level byte layouts (offsets are part of the format contract and
// covered by tests):
//
//	Boolean      all 0x00 = false, all 0xFF = true; anything else invalid
//	U256         unsigned 256-bit integer, big-endian
//	I256         two's-complement 256-bit integer, big-endian
//	F256         1 sign bit, 15-bit biased exponent, 240-bit fraction
//	Epoch        I256 count of nanoseconds since the Unix epoch
//	ShortString  UTF-8, NUL-padded to 32 bytes, no interior NUL
//	GenID        bytes 0..15 zero, bytes 16..31 a non-nil identifier
//	Digest[P]    a 32-byte hash digest under protocol P
package value

import "errors"

// Size is the value width in bytes.
const Size = 32

// Schema is the constraint for value schema markers. Implementations
// are zero-size structs; Validate is the byte-pattern predicate run by
// New.
type Schema interface {
	Validate(raw [Size]byte) error
}

// Value is a 32-byte payload tagged with its schema. The zero value
// is all-zero bytes, which is valid for some schemas (Boolean false,
// U256 zero) and invalid for others (GenID); prefer constructing
// through New or the per-schema conversion helpers.
type Value[S Schema] struct {
	raw [Size]byte
}

// New constructs a value after running S's validation predicate.
func New[S Schema](raw [Size]byte) (Value[S], error) {
	var s S
	if err := s.Validate(raw); err != nil {
		return Value[S]{}, err
	}
	return Value[S]{raw: raw}, nil
}

// Force constructs a value without validation. Reserved for code that
// has already established the invariant by construction; feeding it
// externally-sourced bytes forfeits the schema guarantee.
func Force[S Schema](raw [Size]byte) Value[S] {
	return Value[S]{raw: raw}
}

// Raw returns the 32-byte payload.
func (v Value[S]) Raw() [Size]byte {
	return v.raw
}

// Bytes returns a copy of the payload as a slice.
func (v Value[S]) Bytes() []byte {
	out := make([]byte, Size)
	copy(out, v.raw[:])
	return out
}

// Unknown is the fallback schema: every 32-byte pattern is valid. It
// is the schema of values read back from archives before any typed
// interpretation is applied.
type Unknown struct{}

// Validate accepts any byte pattern.
func (Unknown) Validate([Size]byte) error { return nil }

// Conversion errors shared across schemas.
var (
	// ErrRange is returned when a value does not fit the requested
	// host representation (for example a U256 above 2^64 asked for
	// as a uint64).
	ErrRange = errors.New("value: out of range for target type")
)
