// Copyright 2026 The Trible Authors
// SPDX-License-Identifier: Apache-2.0

// Package id implements the 16-byte identifiers that name entities and
// attributes in the fact store. Attributes are themselves addressable
// entities, so the same type serves both roles.
//
// The all-zero byte pattern is reserved as the nil identifier and is
// rejected by every checked constructor. Nil never appears inside a
// committed fact; code that needs a placeholder uses the zero value of
// ID directly and must not let it escape into a Trible.
package id

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
)

// Size is the identifier width in bytes.
const Size = 16

// ErrNil is returned when raw bytes for an identifier are all zero.
var ErrNil = errors.New("id: all-zero bytes are the reserved nil identifier")

// ID is a 16-byte entity or attribute identifier. The zero value is
// the reserved nil identifier; checked constructors never produce it.
type ID [Size]byte

// New constructs an ID from raw bytes, rejecting the nil pattern.
func New(raw [Size]byte) (ID, error) {
	if raw == (ID{}) {
		return ID{}, ErrNil
	}
	return ID(raw), nil
}

// FromBytes constructs an ID from a byte slice. The slice must be
// exactly Size bytes and must not be all zero.
func FromBytes(raw []byte) (ID, error) {
	if len(raw) != Size {
		return ID{}, fmt.Errorf("id: got %d bytes, want %d", len(raw), Size)
	}
	var out ID
	copy(out[:], raw)
	if out == (ID{}) {
		return ID{}, ErrNil
	}
	return out, nil
}

// Force constructs an ID without the nil check. Reserved for callers
// that have already established the bytes are non-zero (for example
// the derivation path in lib/fragment, which forces a byte itself).
func Force(raw [Size]byte) ID {
	return ID(raw)
}

// Random returns a fresh identifier drawn from crypto/rand. The nil
// pattern has probability 2^-128; it is retried rather than reasoned
// about.
func Random() ID {
	var out ID
	for {
		if _, err := rand.Read(out[:]); err != nil {
			// crypto/rand on supported platforms does not fail; if it
			// does, identifier allocation cannot proceed safely.
			panic("id: reading from crypto/rand: " + err.Error())
		}
		if out != (ID{}) {
			return out
		}
	}
}

// FromHex parses a 32-character hex string into an ID.
func FromHex(s string) (ID, error) {
	decoded, err := hex.DecodeString(s)
	if err != nil {
		return ID{}, fmt.Errorf("id: parsing hex: %w", err)
	}
	return FromBytes(decoded)
}

// IsNil reports whether the identifier is the reserved nil pattern.
// Only forced or zero-value identifiers can be nil.
func (i ID) IsNil() bool {
	return i == ID{}
}

// Bytes returns a copy of the identifier as a slice.
func (i ID) Bytes() []byte {
	out := make([]byte, Size)
	copy(out, i[:])
	return out
}

// Hex returns the lowercase hex encoding of the identifier.
func (i ID) Hex() string {
	return hex.EncodeToString(i[:])
}

// String implements fmt.Stringer with the hex encoding.
func (i ID) String() string {
	return i.Hex()
}
