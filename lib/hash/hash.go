// Copyright 2026 The Trible Authors
// SPDX-License-Identifier: Apache-2.0

// Package hash implements the pluggable 32-byte digest layer used for
// content addressing. A digest is tagged at the type level with the
// protocol that produced it, so a BLAKE3 hash and a BLAKE2b hash of
// the same bytes are distinct, non-interchangeable Go types.
//
// The textual form is "<protocol-name>:<hex>", for example
// "blake3:9f2e…". Parsing re-checks the protocol name, so a digest
// string can never silently change protocols in transit.
package hash

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/zeebo/blake3"
	"golang.org/x/crypto/blake2b"
)

// Size is the digest width in bytes for every protocol.
const Size = 32

// Parse errors. ErrBadProtocol distinguishes "this is a digest of the
// wrong protocol" from ErrBadHex, "these are not digest bytes at all".
var (
	ErrBadProtocol = errors.New("hash: protocol name mismatch")
	ErrBadHex      = errors.New("hash: malformed hex digest")
)

// Protocol is a hash protocol marker. Implementations are zero-size
// structs so they can be used as type arguments and instantiated for
// free inside generic code.
type Protocol interface {
	// Name is the stable protocol identifier used in textual encodings.
	Name() string
	// Digest computes the 32-byte digest of data.
	Digest(data []byte) [Size]byte
}

// Blake3 is the default hash protocol.
type Blake3 struct{}

// Name returns "blake3".
func (Blake3) Name() string { return "blake3" }

// Digest computes the BLAKE3 digest of data.
func (Blake3) Digest(data []byte) [Size]byte { return blake3.Sum256(data) }

// Blake2b is the alternate hash protocol, kept for interoperability
// with archives produced before the BLAKE3 default.
type Blake2b struct{}

// Name returns "blake2b".
func (Blake2b) Name() string { return "blake2b" }

// Digest computes the BLAKE2b-256 digest of data.
func (Blake2b) Digest(data []byte) [Size]byte { return blake2b.Sum256(data) }

// Hash is a 32-byte digest tagged with the protocol that produced it.
// The zero value is the all-zero digest, which no real content hashes
// to in practice but which is not otherwise special.
type Hash[P Protocol] [Size]byte

// Sum computes the digest of data under protocol P.
func Sum[P Protocol](data []byte) Hash[P] {
	var p P
	return Hash[P](p.Digest(data))
}

// FromBytes constructs a Hash from exactly Size raw bytes.
func FromBytes[P Protocol](raw []byte) (Hash[P], error) {
	if len(raw) != Size {
		return Hash[P]{}, fmt.Errorf("%w: got %d bytes, want %d", ErrBadHex, len(raw), Size)
	}
	var out Hash[P]
	copy(out[:], raw)
	return out, nil
}

// Parse parses the textual "<name>:<hex>" form. The protocol name
// must match P's name exactly; the hex may be upper or lower case.
func Parse[P Protocol](s string) (Hash[P], error) {
	var p P
	name, hexPart, found := strings.Cut(s, ":")
	if !found {
		return Hash[P]{}, fmt.Errorf("%w: no protocol prefix in %q", ErrBadProtocol, s)
	}
	if name != p.Name() {
		return Hash[P]{}, fmt.Errorf("%w: got %q, want %q", ErrBadProtocol, name, p.Name())
	}
	return FromHex[P](hexPart)
}

// FromHex parses a bare 64-character hex digest without the protocol
// prefix.
func FromHex[P Protocol](s string) (Hash[P], error) {
	decoded, err := hex.DecodeString(s)
	if err != nil {
		return Hash[P]{}, fmt.Errorf("%w: %v", ErrBadHex, err)
	}
	return FromBytes[P](decoded)
}

// Raw returns the digest as a plain 32-byte array.
func (h Hash[P]) Raw() [Size]byte {
	return [Size]byte(h)
}

// Bytes returns a copy of the digest as a slice.
func (h Hash[P]) Bytes() []byte {
	out := make([]byte, Size)
	copy(out, h[:])
	return out
}

// Hex returns the lowercase hex encoding without the protocol prefix.
func (h Hash[P]) Hex() string {
	return hex.EncodeToString(h[:])
}

// String returns the canonical "<name>:<hex>" encoding.
func (h Hash[P]) String() string {
	var p P
	return p.Name() + ":" + h.Hex()
}
