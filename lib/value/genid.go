// Copyright 2026 The Trible Authors
// SPDX-License-Identifier: Apache-2.0

package value

import (
	"errors"

	"github.com/trible-foundation/trible/lib/id"
)

// ErrInvalidGenID is returned for GenID bytes with nonzero padding or
// an embedded nil identifier.
var ErrInvalidGenID = errors.New("value: genid must be a non-nil identifier zero-extended to 32 bytes")

// GenID embeds a 16-byte identifier in the low half of a value, with
// the high 16 bytes zero. This is how facts reference other entities
// in their value position.
type GenID struct{}

// Validate rejects nonzero padding and the nil identifier.
func (GenID) Validate(raw [Size]byte) error {
	for _, b := range raw[:id.Size] {
		if b != 0 {
			return ErrInvalidGenID
		}
	}
	embedded := raw[id.Size:]
	for _, b := range embedded {
		if b != 0 {
			return nil
		}
	}
	return ErrInvalidGenID
}

// FromID encodes an identifier.
func FromID(i id.ID) Value[GenID] {
	var raw [Size]byte
	copy(raw[id.Size:], i[:])
	return Value[GenID]{raw: raw}
}

// ToID decodes the embedded identifier. Validation already rejected
// nil, so the forced constructor is safe here.
func ToID(v Value[GenID]) id.ID {
	var raw [id.Size]byte
	copy(raw[:], v.raw[id.Size:])
	return id.Force(raw)
}
