// Copyright 2026 The Trible Authors
// SPDX-License-Identifier: Apache-2.0

package fragment

import (
	"bytes"
	"sort"

	"github.com/trible-foundation/trible/lib/hash"
	"github.com/trible-foundation/trible/lib/id"
	"github.com/trible-foundation/trible/lib/trible"
	"github.com/trible-foundation/trible/lib/tribleset"
	"github.com/trible-foundation/trible/lib/value"
)

// Pair is one (attribute, value) pair of a candidate entity.
type Pair struct {
	Attribute id.ID
	Value     [value.Size]byte
}

// sortPairs orders pairs bytewise by attribute, then value. The sort
// is what makes derivation independent of source field order.
func sortPairs(pairs []Pair) []Pair {
	sorted := make([]Pair, len(pairs))
	copy(sorted, pairs)
	sort.Slice(sorted, func(i, j int) bool {
		if c := bytes.Compare(sorted[i].Attribute[:], sorted[j].Attribute[:]); c != 0 {
			return c < 0
		}
		return bytes.Compare(sorted[i].Value[:], sorted[j].Value[:]) < 0
	})
	return sorted
}

// DeriveID computes a content-addressed entity identifier: the sorted
// pairs (preceded by the salt, when given) are fed through protocol P
// and the low 16 digest bytes become the identifier. Identical
// content under the same salt always derives the same identifier;
// distinct salts give disjoint identifier namespaces over the same
// content, which is how multi-tenant imports avoid collisions.
//
// If the digest slice happens to be all zero (a 2^-128 event), byte
// 0 is forced to 1 rather than producing the reserved nil identifier.
// This trades an unmeasurably small bias for never failing; no
// stronger cross-salt uniqueness should be inferred for that case.
func DeriveID[P hash.Protocol](salt *[value.Size]byte, pairs []Pair) id.ID {
	sorted := sortPairs(pairs)

	input := make([]byte, 0, value.Size+len(sorted)*(id.Size+value.Size))
	if salt != nil {
		input = append(input, salt[:]...)
	}
	for _, pair := range sorted {
		input = append(input, pair.Attribute[:]...)
		input = append(input, pair.Value[:]...)
	}

	var p P
	digest := p.Digest(input)

	var raw [id.Size]byte
	copy(raw[:], digest[hash.Size-id.Size:])
	if raw == ([id.Size]byte{}) {
		raw[0] = 1
	}
	return id.Force(raw)
}

// Entity derives the identifier for a pair list and materializes one
// fact per pair. Duplicate pairs collapse through set semantics.
func Entity[P hash.Protocol](salt *[value.Size]byte, pairs []Pair) (id.ID, tribleset.Set) {
	entity := DeriveID[P](salt, pairs)
	return entity, factsFor(entity, pairs)
}

// MintedEntity materializes one fact per pair for a caller-minted
// identifier, consuming the exclusive claim so the same claim cannot
// back a second entity. Use Entity when the identifier should follow
// from content instead.
func MintedEntity(owner *id.Exclusive, pairs []Pair) (id.ID, tribleset.Set) {
	entity := owner.Release()
	return entity, factsFor(entity, pairs)
}

func factsFor(entity id.ID, pairs []Pair) tribleset.Set {
	facts := tribleset.New()
	for _, pair := range pairs {
		facts = facts.Insert(trible.New(entity, pair.Attribute, value.Force[value.Unknown](pair.Value)))
	}
	return facts
}
