// Copyright 2026 The Trible Authors
// SPDX-License-Identifier: Apache-2.0

// Package archive implements the canonical byte serialization of a
// fact set: the ascending concatenation of deduplicated 64-byte
// records with no header, padding, or length prefix. The container's
// own length determines the record count.
//
// Because decoding re-validates ordering and deduplication, an
// archive can only decode successfully if it was produced canonically,
// so the codec doubles as an integrity check, and hashing the encoded
// bytes gives a content address for the set itself.
package archive

import (
	"errors"
	"fmt"

	"github.com/trible-foundation/trible/lib/blob"
	"github.com/trible-foundation/trible/lib/trible"
	"github.com/trible-foundation/trible/lib/tribleset"
)

// Decode failure taxonomy. Callers distinguish corrupt bytes
// (ErrBadLength, or a wrapped trible.ErrBadTrible) from bytes that
// are well-formed records in a non-canonical arrangement
// (ErrDuplicate, ErrOutOfOrder).
var (
	ErrBadLength  = errors.New("archive: length is not a multiple of the 64-byte record size")
	ErrDuplicate  = errors.New("archive: record duplicates its predecessor")
	ErrOutOfOrder = errors.New("archive: record sorts below its predecessor")
)

// Encode serializes the set in canonical form. Encode(s) followed by
// Decode is the identity on sets, and equal sets always produce
// byte-identical archives.
func Encode(s tribleset.Set) []byte {
	out := make([]byte, 0, s.Len()*trible.Size)
	for fact := range s.All() {
		out = append(out, fact[:]...)
	}
	return out
}

// Decode parses archive bytes, re-validating the canonical-form
// invariant. The empty input decodes to the empty set.
func Decode(data []byte) (tribleset.Set, error) {
	if len(data)%trible.Size != 0 {
		return tribleset.Set{}, fmt.Errorf("%w: %d bytes", ErrBadLength, len(data))
	}

	out := tribleset.New()
	var previous trible.Trible
	for i := 0; i < len(data); i += trible.Size {
		record, err := trible.FromBytes(data[i : i+trible.Size])
		if err != nil {
			return tribleset.Set{}, fmt.Errorf("record %d: %w", i/trible.Size, err)
		}
		if i > 0 {
			switch cmp := trible.Compare(previous, record); {
			case cmp == 0:
				return tribleset.Set{}, fmt.Errorf("record %d: %w", i/trible.Size, ErrDuplicate)
			case cmp > 0:
				return tribleset.Set{}, fmt.Errorf("record %d: %w", i/trible.Size, ErrOutOfOrder)
			}
		}
		out = out.Insert(record)
		previous = record
	}
	return out, nil
}

// Schema is the blob schema for archives, so fact sets are themselves
// storable, content-addressed blobs. Validation runs a full decode:
// an archive blob is valid exactly when it round-trips.
type Schema struct{}

// Name returns "archive".
func (Schema) Name() string { return "archive" }

// Validate runs the canonical-form check over the bytes.
func (Schema) Validate(data []byte) error {
	_, err := Decode(data)
	return err
}

// ToBlob encodes a set as an archive blob. The bytes are canonical by
// construction, so the forced constructor is safe.
func ToBlob(s tribleset.Set) blob.Blob[Schema] {
	return blob.Force[Schema](Encode(s))
}

// FromBlob decodes an archive blob back into a set.
func FromBlob(b blob.Blob[Schema]) (tribleset.Set, error) {
	return Decode(b.Data())
}
