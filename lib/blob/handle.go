// Copyright 2026 The Trible Authors
// SPDX-License-Identifier: Apache-2.0

package blob

import (
	"github.com/trible-foundation/trible/lib/hash"
	"github.com/trible-foundation/trible/lib/value"
)

// HandleSchema is the value schema for a blob handle: the 32 bytes
// are a digest under protocol P of a blob with schema S. It accepts
// any byte pattern; whether the referenced content exists is a store
// question, not a byte-pattern one.
type HandleSchema[P hash.Protocol, S Schema] struct{}

// Validate accepts any byte pattern.
func (HandleSchema[P, S]) Validate([value.Size]byte) error { return nil }

// Handle is a content-addressed, schema-typed pointer to a blob. Two
// handles are equal iff the referenced bytes are equal.
type Handle[P hash.Protocol, S Schema] struct {
	digest hash.Hash[P]
}

// HandleOf computes the handle a store would assign to the blob,
// without storing it.
func HandleOf[P hash.Protocol, S Schema](b Blob[S]) Handle[P, S] {
	return Handle[P, S]{digest: hash.Sum[P](b.data)}
}

// HandleFromHash types a bare digest as a handle. The caller asserts
// the digest was computed over a blob of schema S.
func HandleFromHash[P hash.Protocol, S Schema](h hash.Hash[P]) Handle[P, S] {
	return Handle[P, S]{digest: h}
}

// Hash returns the underlying digest.
func (h Handle[P, S]) Hash() hash.Hash[P] {
	return h.digest
}

// Value embeds the handle as a 32-byte fact value.
func (h Handle[P, S]) Value() value.Value[HandleSchema[P, S]] {
	return value.Force[HandleSchema[P, S]](h.digest.Raw())
}

// HandleFromValue recovers a typed handle from a fact value.
func HandleFromValue[P hash.Protocol, S Schema](v value.Value[HandleSchema[P, S]]) Handle[P, S] {
	return Handle[P, S]{digest: hash.Hash[P](v.Raw())}
}

// String renders the handle's digest as "<protocol>:<hex>".
func (h Handle[P, S]) String() string {
	return h.digest.String()
}
