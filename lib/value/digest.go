// Copyright 2026 The Trible Authors
// SPDX-License-Identifier: Apache-2.0

package value

import "github.com/trible-foundation/trible/lib/hash"

// Digest is the value schema for a 32-byte hash digest under protocol
// P. Every byte pattern is a valid digest; the protocol tag only
// controls interpretation and the textual encoding.
type Digest[P hash.Protocol] struct{}

// Validate accepts any byte pattern.
func (Digest[P]) Validate([Size]byte) error { return nil }

// FromHash embeds a digest as a value.
func FromHash[P hash.Protocol](h hash.Hash[P]) Value[Digest[P]] {
	return Value[Digest[P]]{raw: h.Raw()}
}

// ToHash recovers the typed digest.
func ToHash[P hash.Protocol](v Value[Digest[P]]) hash.Hash[P] {
	return hash.Hash[P](v.raw)
}

// DigestFromString parses the "<name>:<hex>" textual encoding,
// failing with hash.ErrBadProtocol or hash.ErrBadHex.
func DigestFromString[P hash.Protocol](s string) (Value[Digest[P]], error) {
	h, err := hash.Parse[P](s)
	if err != nil {
		return Value[Digest[P]]{}, err
	}
	return FromHash(h), nil
}

// DigestString renders the "<name>:<hex>" textual encoding.
func DigestString[P hash.Protocol](v Value[Digest[P]]) string {
	return ToHash(v).String()
}
