// Copyright 2026 The Trible Authors
// SPDX-License-Identifier: Apache-2.0

// Package tribleset implements the persistent, deduplicated fact set.
//
// A Set is an immutable value: Insert and Union return new sets that
// share unchanged trie structure with their inputs, so holding a Set
// is holding a point-in-time snapshot and concurrent readers need no
// locking. Every set maintains three order-specific tries over the
// same facts:
//
//	EAV  entity-major; mandatory, serves canonical iteration and archives
//	AEV  attribute-major; serves patterns that bind the attribute
//	VEA  value-major; serves patterns that bind only the value
//
// The extra orders triple the insert work and node memory. That cost
// is accepted here because the surrounding query layer joins on
// attribute- and value-leading patterns; embedders that never call
// Match with an unbound entity would only need EAV.
package tribleset

import (
	"iter"

	"github.com/trible-foundation/trible/lib/id"
	"github.com/trible-foundation/trible/lib/trible"
	"github.com/trible-foundation/trible/lib/value"
)

// Set is a persistent set of facts. The zero value is the empty set
// and is ready to use.
type Set struct {
	eav *node
	aev *node
	vea *node
}

// New returns the empty set.
func New() Set {
	return Set{}
}

// Of builds a set from the given facts.
func Of(facts ...trible.Trible) Set {
	out := Set{}
	for _, fact := range facts {
		out = out.Insert(fact)
	}
	return out
}

// Insert returns a set that additionally contains the given fact.
// Inserting a present fact returns a set sharing all structure with
// the receiver. The receiver is never modified.
func (s Set) Insert(fact trible.Trible) Set {
	key := [keySize]byte(fact)
	if s.eav == nil {
		return Set{
			eav: newLeaf(key),
			aev: newLeaf(permuteAEV(fact)),
			vea: newLeaf(permuteVEA(fact)),
		}
	}
	updated := s.eav.insert(key, 0)
	if updated == s.eav {
		return s // already present; the other orders agree by construction
	}
	return Set{
		eav: updated,
		aev: s.aev.insert(permuteAEV(fact), 0),
		vea: s.vea.insert(permuteVEA(fact), 0),
	}
}

// Union returns the set of facts present in either input. The merge
// reuses subtrees shared between the inputs, so unioning two sets
// grown from a common ancestor costs roughly the size of their
// difference. Union is commutative, associative, and idempotent.
func (s Set) Union(other Set) Set {
	switch {
	case s.eav == nil:
		return other
	case other.eav == nil:
		return s
	}
	return Set{
		eav: union(s.eav, other.eav, 0),
		aev: union(s.aev, other.aev, 0),
		vea: union(s.vea, other.vea, 0),
	}
}

// Len returns the number of facts. O(1): tries carry subtree counts.
func (s Set) Len() int {
	if s.eav == nil {
		return 0
	}
	return s.eav.count
}

// Has reports whether the set contains the fact.
func (s Set) Has(fact trible.Trible) bool {
	return s.eav.has([keySize]byte(fact), 0)
}

// Equal reports whether both sets contain exactly the same facts,
// independent of construction order.
func (s Set) Equal(other Set) bool {
	if s.Len() != other.Len() {
		return false
	}
	return equal(s.eav, other.eav, 0)
}

// All yields the facts in canonical ascending (EAV byte) order. This
// is the enumeration the archive codec and deterministic identity
// derivation rely on.
func (s Set) All() iter.Seq[trible.Trible] {
	return func(yield func(trible.Trible) bool) {
		s.eav.walk(func(key [keySize]byte) bool {
			return yield(trible.Trible(key))
		})
	}
}

// Match yields every fact consistent with the bound positions; nil
// means unbound. The trie whose leading columns cover the longest
// bound prefix serves the scan, and any bound column outside that
// prefix is filtered during iteration. Facts arrive in the scan
// trie's order, which is unspecified to callers.
func (s Set) Match(e, a *id.ID, v *[value.Size]byte) iter.Seq[trible.Trible] {
	return func(yield func(trible.Trible) bool) {
		if s.eav == nil {
			return
		}

		// A filtered-out fact continues the scan; only the consumer
		// stops it.
		keep := func(fact trible.Trible) bool {
			if e != nil && fact.Entity() != *e {
				return true
			}
			if a != nil && fact.Attribute() != *a {
				return true
			}
			if v != nil && fact.ValueRaw() != *v {
				return true
			}
			return yield(fact)
		}

		var prefix [keySize]byte
		switch {
		case e != nil:
			// EAV: prefix covers entity, then attribute, then value.
			copy(prefix[0:16], e[:])
			prefixLen := 16
			if a != nil {
				copy(prefix[16:32], a[:])
				prefixLen = 32
				if v != nil {
					copy(prefix[32:64], v[:])
					prefixLen = 64
				}
			}
			s.eav.walkPrefix(&prefix, prefixLen, 0, func(key [keySize]byte) bool {
				return keep(trible.Trible(key))
			})

		case a != nil:
			// AEV: attribute leads; a bound value is filtered.
			copy(prefix[0:16], a[:])
			s.aev.walkPrefix(&prefix, 16, 0, func(key [keySize]byte) bool {
				return keep(restoreAEV(key))
			})

		case v != nil:
			// VEA: value leads.
			copy(prefix[0:32], v[:])
			s.vea.walkPrefix(&prefix, 32, 0, func(key [keySize]byte) bool {
				return keep(restoreVEA(key))
			})

		default:
			s.eav.walk(func(key [keySize]byte) bool {
				return yield(trible.Trible(key))
			})
		}
	}
}
